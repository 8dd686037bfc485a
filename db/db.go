package db

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

var ErrNotFound = errors.New("not found")

type DB struct {
	*gorm.DB
}

// ApplyBalanceDelta adjusts the stored balance atomically by a signed amount,
// clamped at zero, and returns the resulting profile. One UPDATE, no
// read-modify-write, so concurrent settlements commute.
func (db *DB) ApplyBalanceDelta(userID uint, delta decimal.Decimal) (Profile, error) {
	res := db.Exec(
		"UPDATE profiles SET balance = GREATEST(balance + ?, 0) WHERE user_id = ?",
		delta, userID,
	)
	if res.Error != nil {
		return Profile{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Profile{}, ErrNotFound
	}
	return db.GetProfile(userID)
}

func (db *DB) GetProfile(userID uint) (Profile, error) {
	profile := Profile{}
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, ErrNotFound
	}
	return profile, err
}

func (db *DB) SetLastWin(userID uint, amount decimal.Decimal) error {
	return db.Model(&Profile{}).Where("user_id = ?", userID).Update("last_win", amount).Error
}

func (db *DB) CreateRound(round *Round) error {
	return db.Create(round).Error
}

// RecentRounds lists settled rounds, newest first, optionally filtered by
// game name.
func (db *DB) RecentRounds(game string, limit int) ([]responses.Round, error) {
	var rounds []responses.Round
	query := `
        SELECT
                rounds.id,
                rounds.timestamp,
                rounds.uuid,
                rounds.game,
                rounds.stake,
                rounds.payout,
                rounds.outcome,
                rounds.user_id,
                users.username
            FROM rounds
            INNER JOIN users ON rounds.user_id=users.id
            ORDER BY rounds.timestamp DESC
            LIMIT ?`
	if game != "" {
		query = `
        SELECT
                rounds.id,
                rounds.timestamp,
                rounds.uuid,
                rounds.game,
                rounds.stake,
                rounds.payout,
                rounds.outcome,
                rounds.user_id,
                users.username
            FROM rounds
            INNER JOIN users ON rounds.user_id=users.id
            WHERE rounds.game = ?
            ORDER BY rounds.timestamp DESC
            LIMIT ?`
		res := db.Raw(query, game, limit).Scan(&rounds)
		return rounds, res.Error
	}
	res := db.Raw(query, limit).Scan(&rounds)
	return rounds, res.Error
}

func (db *DB) UserRounds(userID uint, limit int, offset int) ([]responses.Round, error) {
	var rounds []responses.Round
	res := db.Raw(`
        SELECT
                rounds.id,
                rounds.timestamp,
                rounds.uuid,
                rounds.game,
                rounds.stake,
                rounds.payout,
                rounds.outcome,
                rounds.user_id,
                users.username
            FROM rounds
            INNER JOIN users ON rounds.user_id=users.id
            WHERE rounds.user_id = ?
            ORDER BY rounds.id DESC
            LIMIT ?
            OFFSET ?`, userID, limit, offset).Scan(&rounds)
	return rounds, res.Error
}

// FetchBiggestWins is the lobby leaderboard: top net payouts over a window.
func (db *DB) FetchBiggestWins(timeBoundaries string) ([]responses.LeaderboardEntry, error) {
	var interval string
	switch timeBoundaries {
	case "daily":
		interval = "1 day"
	case "weekly":
		interval = "1 week"
	case "monthly":
		interval = "1 month"
	case "all":
		interval = ""
	default:
		return nil, errors.New("unknown time boundary")
	}

	result := make([]responses.LeaderboardEntry, 0, 20)
	query := `SELECT rounds.user_id, users.username, SUM(rounds.payout - rounds.stake) as total
                FROM rounds
                INNER JOIN users ON users.id=rounds.user_id
                GROUP BY rounds.user_id, users.username
                ORDER BY total DESC
                LIMIT ?`
	if interval != "" {
		query = `SELECT rounds.user_id, users.username, SUM(rounds.payout - rounds.stake) as total
                FROM rounds
                INNER JOIN users ON users.id=rounds.user_id
                WHERE rounds.timestamp > now() - interval '` + interval + `'
                GROUP BY rounds.user_id, users.username
                ORDER BY total DESC
                LIMIT ?`
	}
	res := db.Raw(query, 20).Scan(&result)
	if res.Error != nil {
		return nil, res.Error
	}
	return result, nil
}

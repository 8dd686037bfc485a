package responses

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	Ok  = "OK"
	Err = "ERR"
)

type JsonResponse[T any] struct {
	Status Status `json:"status"`
	Data   T      `json:"data"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

// OK responses

type Ping struct {
	Pong string `json:"pong"`
}

type Credentials struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    uint64 `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

type User struct {
	ID               uint      `json:"id"`
	RegistrationTime time.Time `json:"registration_time"`
	Username         string    `json:"username"`
}

type Profile struct {
	UserID  uint            `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
	LastWin decimal.Decimal `json:"last_win"`
}

type WSResponse struct {
	Id   uint        `json:"id"`
	Type string      `json:"type,omitempty"`
	Data interface{} `json:"data"`
}

// Round is the settled record pushed over feeds and listed by the history
// endpoints.
type Round struct {
	ID        uint            `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	UUID      string          `json:"uuid"`
	Game      string          `json:"game"`
	Stake     decimal.Decimal `json:"stake"`
	Payout    decimal.Decimal `json:"payout"`
	Outcome   string          `json:"outcome"`
	UserID    uint            `json:"user_id"`
	Username  string          `json:"username"`
}

type LeaderboardEntry struct {
	UserID   uint            `gorm:"user_id" json:"user_id"`
	Username string          `gorm:"username" json:"username"`
	Total    decimal.Decimal `gorm:"total" json:"total"`
}

// Game event payloads pushed over the game websocket.

type MinesState struct {
	Status     string          `json:"status"`
	Revealed   []int           `json:"revealed"`
	Mines      []int           `json:"mines,omitempty"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
}

type PlinkoBall struct {
	BallID uint            `json:"ball_id"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Landed bool            `json:"landed"`
	Bucket int             `json:"bucket"`
	Payout decimal.Decimal `json:"payout"`
}

type BlackjackState struct {
	Status     string          `json:"status"`
	Player     []CardView      `json:"player"`
	Dealer     []CardView      `json:"dealer"`
	HoleHidden bool            `json:"hole_hidden"`
	Result     string          `json:"result,omitempty"`
	Payout     decimal.Decimal `json:"payout"`
}

type PokerState struct {
	Status   string          `json:"status"`
	Hand     []CardView      `json:"hand"`
	Holds    []bool          `json:"holds"`
	Category string          `json:"category,omitempty"`
	Payout   decimal.Decimal `json:"payout"`
}

type SlotsResult struct {
	Reels  [3]string       `json:"reels"`
	Payout decimal.Decimal `json:"payout"`
}

type CardView struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

type BalanceUpdate struct {
	Balance decimal.Decimal `json:"balance"`
}

type Fortune struct {
	Text string `json:"text"`
}

type Weather struct {
	City        string `json:"city"`
	Temp        int    `json:"temp"`
	Condition   string `json:"condition"`
	Humidity    string `json:"humidity"`
	WindSpeed   string `json:"wind_speed"`
	Description string `json:"description"`
}

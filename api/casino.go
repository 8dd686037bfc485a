package api

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nampwaztaken/skycast-ultra-casino/accounts"
	"github.com/nampwaztaken/skycast-ultra-casino/auth"
	"github.com/nampwaztaken/skycast-ultra-casino/communications"
	"github.com/nampwaztaken/skycast-ultra-casino/db"
	"github.com/nampwaztaken/skycast-ultra-casino/engine"
	"github.com/nampwaztaken/skycast-ultra-casino/games"
	"github.com/nampwaztaken/skycast-ultra-casino/requests"
	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func WebsocketsReader(conn *websocket.Conn, channel chan requests.WSrequest) {
	for {
		message := requests.WSrequest{}
		err := conn.ReadJSON(&message)
		if err != nil {
			slog.Error("Error while reading message", "err", err)
			close(channel)
			break
		}
		channel <- message
	}
}

func parseRisk(name string) games.PlinkoRisk {
	switch name {
	case "high":
		return games.PlinkoHigh
	case "medium":
		return games.PlinkoMedium
	}
	return games.PlinkoLow
}

// WebsocketsHandler runs one casino connection: feed subscriptions are open
// to everyone, game methods require an auth message first. All writes to the
// socket go through this goroutine; session goroutines hand their events over
// on the send channel.
func WebsocketsHandler(c *gin.Context, sCtrl *SharedController) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Upgrade failed", "err", err)
		return
	}
	readerChannel := make(chan requests.WSrequest)
	go WebsocketsReader(conn, readerChannel)

	managerFeed := make(chan communications.Broadcast, 64)
	send := make(chan responses.WSResponse, 64)
	UUID := uuid.New()
	conn.WriteJSON(&responses.WSResponse{Id: 0, Type: "uuid", Data: UUID})

	sCtrl.Manager.ManagerReceiver <- communications.ManagerEvent{
		Type: communications.SubscribeFeed,
		Body: communications.ManagerEventSubscribeFeed{
			Id:   UUID.String(),
			Feed: managerFeed,
		},
	}

	slog.Info("Connected", "uuid", UUID)

	var session *engine.Session
	var unsubscribeProfile func()

	defer func() {
		conn.Close()
		if unsubscribeProfile != nil {
			unsubscribeProfile()
		}
		sCtrl.Manager.ManagerReceiver <- communications.ManagerEvent{
			Type: communications.UnsubscribeFeed,
			Body: communications.ManagerEventUnsubscribeFeed{
				Id: UUID.String(),
			},
		}
	}()

	emit := func(kind string, body interface{}) {
		select {
		case send <- responses.WSResponse{Id: 0, Type: kind, Data: body}:
		default:
			slog.Warn("Dropping event on full send queue", "uuid", UUID, "kind", kind)
		}
	}

	for {
		message := requests.WSrequest{}
		select {
		case broadcast := <-managerFeed:
			kind := "round"
			if broadcast.Type == communications.LobbyFortune {
				kind = "fortune"
			}
			conn.WriteJSON(&responses.WSResponse{Id: 0, Type: kind, Data: broadcast.Body})
			continue
		case event := <-send:
			conn.WriteJSON(&event)
			continue
		case recv, ok := <-readerChannel:
			if !ok {
				return
			}
			message = recv
		}

		response := responses.WSResponse{
			Id: message.Id,
		}
		switch message.Method {
		case "auth":
			token := ""
			if err := json.Unmarshal(message.Data, &token); err != nil {
				slog.Error("Auth error", "err", err)
				return
			}
			claims, err := auth.VerifyToken(token, []byte(sCtrl.Env.PasswordSalt))
			if err != nil {
				slog.Error("Error verifying token", "err", err)
				return
			}

			sub, _ := claims.GetSubject()
			userID, err := strconv.Atoi(sub)
			if err != nil {
				slog.Error("Bad subject claim", "sub", sub)
				return
			}

			var user db.User
			if err := sCtrl.Db.Where("id = ?", userID).First(&user).Error; err != nil {
				slog.Error("User not found", "userID", userID)
				return
			}

			var nonce uint64
			newRand := func() games.Rand {
				return engine.NewSource(UUID.String(), sCtrl.Env.ServerSeed, atomic.AddUint64(&nonce, 1))
			}
			session, err = engine.NewSession(
				c.Request.Context(), sCtrl.Store, sCtrl.Db, sCtrl.Manager, sCtrl.Insight,
				uint(userID), user.Username, newRand, emit)
			if err != nil {
				slog.Error("Error opening session", "userID", userID, "err", err)
				return
			}
			unsubscribeProfile = sCtrl.Store.SubscribeProfile(uint(userID), func(p accounts.Profile) {
				emit("profile", responses.Profile{UserID: p.UserID, Balance: p.Balance, LastWin: p.LastWin})
			})

			slog.Info("Auth successful", "userID", userID)
		case "subscribe_rounds":
			var gameNames []string
			if err := json.Unmarshal(message.Data, &gameNames); err != nil {
				slog.Error("Error subscribing to rounds", "err", err)
				return
			}
			for _, game := range gameNames {
				sCtrl.Manager.ManagerReceiver <- communications.ManagerEvent{
					Type: communications.SubscribeGame,
					Body: communications.ManagerEventSubscribeGame{
						Id:   UUID.String(),
						Game: game,
					},
				}
			}
		case "unsubscribe_rounds":
			var gameNames []string
			if err := json.Unmarshal(message.Data, &gameNames); err != nil {
				slog.Error("Error unsubscribing from rounds", "err", err)
				return
			}
			for _, game := range gameNames {
				sCtrl.Manager.ManagerReceiver <- communications.ManagerEvent{
					Type: communications.UnsubscribeGame,
					Body: communications.ManagerEventUnsubscribeGame{
						Id:   UUID.String(),
						Game: game,
					},
				}
			}
		case "subscribe_all_rounds":
			sCtrl.Manager.ManagerReceiver <- communications.ManagerEvent{
				Type: communications.SubscribeAllGames,
				Body: communications.ManagerEventSubscribeAllGames{Id: UUID.String()},
			}
		case "unsubscribe_all_rounds":
			sCtrl.Manager.ManagerReceiver <- communications.ManagerEvent{
				Type: communications.UnsubscribeAllGames,
				Body: communications.ManagerEventUnsubscribeAllGames{Id: UUID.String()},
			}
		case "mines_start":
			if session == nil {
				continue
			}
			req := requests.MinesStart{}
			if err := json.Unmarshal(message.Data, &req); err != nil {
				slog.Error("Error starting mines", "err", err)
				return
			}
			response.Type = "mines"
			response.Data = session.StartMines(c.Request.Context(), req.Stake, req.Mines)
			conn.WriteJSON(&response)
		case "mines_reveal":
			if session == nil {
				continue
			}
			req := requests.MinesReveal{}
			if err := json.Unmarshal(message.Data, &req); err != nil {
				slog.Error("Error revealing cell", "err", err)
				return
			}
			response.Type = "mines"
			response.Data = session.RevealMine(c.Request.Context(), req.Cell)
			conn.WriteJSON(&response)
		case "mines_cashout":
			if session == nil {
				continue
			}
			response.Type = "mines"
			response.Data = session.CashOutMines(c.Request.Context())
			conn.WriteJSON(&response)
		case "plinko_drop":
			if session == nil {
				continue
			}
			req := requests.PlinkoDrop{}
			if err := json.Unmarshal(message.Data, &req); err != nil {
				slog.Error("Error dropping ball", "err", err)
				return
			}
			response.Type = "plinko"
			response.Data = session.DropBall(c.Request.Context(), req.Stake, req.Rows, parseRisk(req.Risk))
			conn.WriteJSON(&response)
		case "blackjack_start":
			if session == nil {
				continue
			}
			req := requests.BlackjackStart{}
			if err := json.Unmarshal(message.Data, &req); err != nil {
				slog.Error("Error starting blackjack", "err", err)
				return
			}
			response.Type = "blackjack"
			response.Data = session.StartBlackjack(c.Request.Context(), req.Stake)
			conn.WriteJSON(&response)
		case "blackjack_hit":
			if session == nil {
				continue
			}
			response.Type = "blackjack"
			response.Data = session.HitBlackjack(c.Request.Context())
			conn.WriteJSON(&response)
		case "blackjack_stand":
			if session == nil {
				continue
			}
			response.Type = "blackjack"
			response.Data = session.StandBlackjack(c.Request.Context())
			conn.WriteJSON(&response)
		case "poker_deal":
			if session == nil {
				continue
			}
			req := requests.PokerDeal{}
			if err := json.Unmarshal(message.Data, &req); err != nil {
				slog.Error("Error dealing poker", "err", err)
				return
			}
			response.Type = "poker"
			response.Data = session.DealPoker(c.Request.Context(), req.Stake)
			conn.WriteJSON(&response)
		case "poker_hold":
			if session == nil {
				continue
			}
			req := requests.PokerHold{}
			if err := json.Unmarshal(message.Data, &req); err != nil {
				slog.Error("Error toggling hold", "err", err)
				return
			}
			response.Type = "poker"
			response.Data = session.TogglePokerHold(req.Index)
			conn.WriteJSON(&response)
		case "poker_draw":
			if session == nil {
				continue
			}
			response.Type = "poker"
			response.Data = session.DrawPoker(c.Request.Context())
			conn.WriteJSON(&response)
		case "slots_spin":
			if session == nil {
				continue
			}
			req := requests.SlotsSpin{}
			if err := json.Unmarshal(message.Data, &req); err != nil {
				slog.Error("Error spinning slots", "err", err)
				return
			}
			result, _ := session.SpinSlots(c.Request.Context(), req.Stake)
			response.Type = "slots"
			response.Data = result
			conn.WriteJSON(&response)
		case "get_balance":
			if session == nil {
				continue
			}
			response.Type = "balance"
			response.Data = responses.BalanceUpdate{Balance: session.Balance()}
			conn.WriteJSON(&response)
		case "get_uuid":
			response.Type = "uuid"
			response.Data = UUID
			conn.WriteJSON(&response)
		default:
		}
	}
}

func CasinoEndpoints(sCtrl *SharedController, router *gin.Engine) {
	router.GET("/casino/ws", func(c *gin.Context) { WebsocketsHandler(c, sCtrl) })
}

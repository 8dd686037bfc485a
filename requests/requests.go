package requests

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Login struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type RegisterUser struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type WSrequest struct {
	Method string          `json:"method"`
	Id     uint            `json:"id"`
	Data   json.RawMessage `json:"data"`
}

type MinesStart struct {
	Stake decimal.Decimal `json:"stake"`
	Mines int             `json:"mines"`
}

type MinesReveal struct {
	Cell int `json:"cell"`
}

type PlinkoDrop struct {
	Stake decimal.Decimal `json:"stake"`
	Rows  int             `json:"rows"`
	Risk  string          `json:"risk"`
}

type BlackjackStart struct {
	Stake decimal.Decimal `json:"stake"`
}

type PokerDeal struct {
	Stake decimal.Decimal `json:"stake"`
}

type PokerHold struct {
	Index int `json:"index"`
}

type SlotsSpin struct {
	Stake decimal.Decimal `json:"stake"`
}

type SubscribeGame struct {
	Game string `json:"game"`
}

type UnlockLobby struct {
	Code string `json:"code"`
}

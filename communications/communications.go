package communications

import (
	"fmt"
	"log/slog"

	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

type BroadcastType int

const (
	NewRound BroadcastType = iota
	ProfileUpdate
	LobbyFortune
)

type Broadcast struct {
	Type BroadcastType
	Body interface{}
}

type ManagerEventType int

const (
	SubscribeFeed ManagerEventType = iota
	UnsubscribeFeed
	SubscribeGame
	UnsubscribeGame
	SubscribeAllGames
	UnsubscribeAllGames
	PropagateRound
	PropagateFortune
)

type ManagerEvent struct {
	Type ManagerEventType
	Body interface{}
}

type ManagerEventSubscribeFeed struct {
	Id   string
	Feed chan Broadcast
}

type ManagerEventUnsubscribeFeed struct {
	Id string
}

type ManagerEventSubscribeGame struct {
	Id   string
	Game string
}

type ManagerEventUnsubscribeGame struct {
	Id   string
	Game string
}

type ManagerEventSubscribeAllGames struct {
	Id string
}

type ManagerEventUnsubscribeAllGames struct {
	Id string
}

// GameNames are the feed channels the manager fans rounds out on.
var GameNames = []string{"mines", "plinko", "blackjack", "poker", "slots"}

// Manager is the single-goroutine fan-out hub: connections register a feed,
// subscribe to per-game round channels, and the engines push settled rounds
// through PropagateRound.
type Manager struct {
	Feeds              map[string]chan Broadcast
	SubscriptionsGames map[string]map[string]bool
	ManagerReceiver    chan ManagerEvent
	Stop               chan bool
}

func New() *Manager {
	subscriptions := make(map[string]map[string]bool, len(GameNames))
	for _, game := range GameNames {
		subscriptions[game] = make(map[string]bool)
	}

	return &Manager{
		Feeds:              make(map[string]chan Broadcast),
		SubscriptionsGames: subscriptions,
		ManagerReceiver:    make(chan ManagerEvent, 64),
		Stop:               make(chan bool),
	}
}

func (m *Manager) Run() {
	slog.Info("Starting communications manager")
	for {
		select {
		case event := <-m.ManagerReceiver:
			m.ProcessEvent(event)
		case <-m.Stop:
			slog.Info("Communications manager exiting")
			return
		}
	}
}

func (m *Manager) propagateRound(round responses.Round) {
	subs, ok := m.SubscriptionsGames[round.Game]
	if !ok {
		slog.Error("Game not found", "game", round.Game)
		return
	}
	for sub := range subs {
		feed, ok := m.Feeds[sub]
		if !ok {
			slog.Error("Feed not found", "sub", sub)
			continue
		}
		select {
		case feed <- Broadcast{Type: NewRound, Body: round}:
		default:
			slog.Warn("Dropping round broadcast on full feed", "sub", sub)
		}
	}
}

func (m *Manager) propagateFortune(fortune responses.Fortune) {
	for _, feed := range m.Feeds {
		select {
		case feed <- Broadcast{Type: LobbyFortune, Body: fortune}:
		default:
		}
	}
}

func (m *Manager) ProcessEvent(event ManagerEvent) {
	switch event.Type {
	case PropagateRound:
		round, ok := event.Body.(responses.Round)
		if !ok {
			panic(fmt.Sprintf("Cannot convert Round %#v", event))
		}
		m.propagateRound(round)
	case PropagateFortune:
		fortune, ok := event.Body.(responses.Fortune)
		if !ok {
			panic(fmt.Sprintf("Cannot convert Fortune %#v", event))
		}
		m.propagateFortune(fortune)
	case SubscribeFeed:
		sub, ok := event.Body.(ManagerEventSubscribeFeed)
		if !ok {
			panic(fmt.Sprintf("Cannot convert SubscribeFeed %#v", event))
		}
		if _, exists := m.Feeds[sub.Id]; exists {
			for _, subs := range m.SubscriptionsGames {
				delete(subs, sub.Id)
			}
		}
		m.Feeds[sub.Id] = sub.Feed
	case UnsubscribeFeed:
		sub, ok := event.Body.(ManagerEventUnsubscribeFeed)
		if !ok {
			panic(fmt.Sprintf("Cannot convert UnsubscribeFeed %#v", event))
		}
		for _, subs := range m.SubscriptionsGames {
			delete(subs, sub.Id)
		}
		delete(m.Feeds, sub.Id)
	case SubscribeGame:
		sub, ok := event.Body.(ManagerEventSubscribeGame)
		if !ok {
			panic(fmt.Sprintf("Cannot convert SubscribeGame %#v", event))
		}
		if subs, exists := m.SubscriptionsGames[sub.Game]; exists {
			subs[sub.Id] = true
		}
	case UnsubscribeGame:
		sub, ok := event.Body.(ManagerEventUnsubscribeGame)
		if !ok {
			panic(fmt.Sprintf("Cannot convert UnsubscribeGame %#v", event))
		}
		if subs, exists := m.SubscriptionsGames[sub.Game]; exists {
			delete(subs, sub.Id)
		}
	case SubscribeAllGames:
		sub, ok := event.Body.(ManagerEventSubscribeAllGames)
		if !ok {
			panic(fmt.Sprintf("Cannot convert SubscribeAllGames %#v", event))
		}
		for _, subs := range m.SubscriptionsGames {
			subs[sub.Id] = true
		}
	case UnsubscribeAllGames:
		sub, ok := event.Body.(ManagerEventUnsubscribeAllGames)
		if !ok {
			panic(fmt.Sprintf("Cannot convert UnsubscribeAllGames %#v", event))
		}
		for _, subs := range m.SubscriptionsGames {
			delete(subs, sub.Id)
		}
	default:
		panic(fmt.Sprintf("unexpected communications.ManagerEventType: %#v", event.Type))
	}
}

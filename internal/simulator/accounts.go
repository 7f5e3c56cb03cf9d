package simulator

import (
	"github.com/google/uuid"

	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/apierr"
)

// DeviceIDLength is the exact length a device id must have.
const DeviceIDLength = 32

type account struct {
	user     domain.User
	cards    []domain.Card
	nextCard int64
	locked   bool
	cache    *cached
}

// cached is the last completed request of an account.
type cached struct {
	key   string
	nonce uint32
	reply domain.Reply
}

// operation executes a verified request for an account. It runs with the
// server lock held and returns the reply body or an application error.
type operation func(a *account, params domain.Params) (any, apierr.Code)

// accountFor returns the account of deviceID, creating it on first login.
// Callers hold s.mu.
func (s *Server) accountFor(deviceID string) *account {
	if a, ok := s.byDevice[deviceID]; ok {
		return a
	}
	s.nextUser++
	a := &account{user: domain.User{DeviceID: deviceID, UserID: s.nextUser}}
	s.byDevice[deviceID] = a
	s.byID[a.user.UserID] = a
	return a
}

// login starts a new session; the token is attached by serve.
func (s *Server) login(a *account, _ domain.Params) (any, apierr.Code) {
	a.user.Session = uuid.NewString()
	return nil, 0
}

func listCards(a *account, _ domain.Params) (any, apierr.Code) {
	return domain.CardsBody{Cards: a.snapshot()}, 0
}

func createCard(a *account, params domain.Params) (any, apierr.Code) {
	monsterID, ok := intParam(params, "monsterId")
	if !ok || monsterID <= 0 {
		return nil, apierr.InvalidMonsterID
	}
	a.nextCard++
	card := domain.Card{ID: a.nextCard, UserID: a.user.UserID, MonsterID: monsterID}
	a.cards = append(a.cards, card)
	return domain.CardsBody{Cards: a.snapshot(), Card: &card}, 0
}

func updateCard(a *account, params domain.Params) (any, apierr.Code) {
	i, ok := a.find(params)
	if !ok {
		return nil, apierr.InvalidCardID
	}
	exp, ok := intParam(params, "exp")
	if !ok {
		return nil, apierr.InvalidRequest
	}
	a.cards[i].Exp = exp
	card := a.cards[i]
	return domain.CardsBody{Cards: a.snapshot(), Card: &card}, 0
}

func deleteCard(a *account, params domain.Params) (any, apierr.Code) {
	i, ok := a.find(params)
	if !ok {
		return nil, apierr.InvalidCardID
	}
	card := a.cards[i]
	a.cards = append(a.cards[:i], a.cards[i+1:]...)
	return domain.CardsBody{Cards: a.snapshot(), Card: &card}, 0
}

func (a *account) find(params domain.Params) (int, bool) {
	id, ok := intParam(params, "cardId")
	if !ok {
		return 0, false
	}
	for i, c := range a.cards {
		if c.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (a *account) snapshot() []domain.Card {
	out := make([]domain.Card, len(a.cards))
	copy(out, a.cards)
	return out
}

// intParam reads an integral JSON number.
func intParam(params domain.Params, key string) (int64, bool) {
	f, ok := params[key].(float64)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

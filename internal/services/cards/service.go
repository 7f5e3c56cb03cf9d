package cards

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/samchan0221/mh-coding-task-2/internal/domain"
)

// Service marshals card operations onto a Caller and remembers the card
// list carried by the last successful reply.
type Service struct {
	caller domain.Caller

	mu    sync.Mutex
	cards []domain.Card
}

func New(caller domain.Caller) *Service { return &Service{caller: caller} }

func (s *Service) ListCards(ctx context.Context) (domain.CardsBody, *domain.Reply, error) {
	return s.call(ctx, domain.RouteListCards, domain.Params{})
}

func (s *Service) CreateCard(ctx context.Context, monsterID int64) (domain.CardsBody, *domain.Reply, error) {
	return s.call(ctx, domain.RouteCreateCard, domain.Params{"monsterId": monsterID})
}

func (s *Service) UpdateCard(ctx context.Context, cardID, exp int64) (domain.CardsBody, *domain.Reply, error) {
	return s.call(ctx, domain.RouteUpdateCard, domain.Params{"cardId": cardID, "exp": exp})
}

func (s *Service) DeleteCard(ctx context.Context, cardID int64) (domain.CardsBody, *domain.Reply, error) {
	return s.call(ctx, domain.RouteDeleteCard, domain.Params{"cardId": cardID})
}

// Observe records the card list of a reply obtained elsewhere, e.g. from a
// resend, and returns the decoded body.
func (s *Service) Observe(reply *domain.Reply) (domain.CardsBody, error) {
	body, err := Decode(reply)
	if err != nil {
		return domain.CardsBody{}, err
	}
	if body.Cards != nil {
		s.mu.Lock()
		s.cards = append([]domain.Card(nil), body.Cards...)
		s.mu.Unlock()
	}
	return body, nil
}

// Cards returns the last known card list.
func (s *Service) Cards() []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Card(nil), s.cards...)
}

// Restore replaces the last known card list, e.g. from persisted state.
func (s *Service) Restore(cards []domain.Card) {
	s.mu.Lock()
	s.cards = append([]domain.Card(nil), cards...)
	s.mu.Unlock()
}

func (s *Service) call(ctx context.Context, route domain.Route, params domain.Params) (domain.CardsBody, *domain.Reply, error) {
	reply, err := s.caller.Do(ctx, route, params)
	if err != nil {
		return domain.CardsBody{}, reply, err
	}
	body, err := s.Observe(reply)
	if err != nil {
		return domain.CardsBody{}, reply, fmt.Errorf("%s: %w", route, err)
	}
	return body, reply, nil
}

// Decode reads the cards body of a reply. A reply without a body decodes
// to the zero value.
func Decode(reply *domain.Reply) (domain.CardsBody, error) {
	var body domain.CardsBody
	if reply == nil || len(reply.Body) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(reply.Body, &body); err != nil {
		return domain.CardsBody{}, fmt.Errorf("decode cards body: %w", err)
	}
	return body, nil
}

var _ domain.CardService = (*Service)(nil)

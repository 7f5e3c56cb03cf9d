package interfaces

import (
	"context"

	domaintypes "github.com/samchan0221/mh-coding-task-2/internal/domain/types"
)

// Caller dispatches one protocol request and returns the decoded reply.
type Caller interface {
	Do(ctx context.Context, route domaintypes.Route, params domaintypes.Params) (*domaintypes.Reply, error)
}

// CardService runs the card operations on top of a Caller.
type CardService interface {
	ListCards(ctx context.Context) (domaintypes.CardsBody, *domaintypes.Reply, error)
	CreateCard(ctx context.Context, monsterID int64) (domaintypes.CardsBody, *domaintypes.Reply, error)
	UpdateCard(ctx context.Context, cardID, exp int64) (domaintypes.CardsBody, *domaintypes.Reply, error)
	DeleteCard(ctx context.Context, cardID int64) (domaintypes.CardsBody, *domaintypes.Reply, error)
}

package cards_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/apierr"
	"github.com/samchan0221/mh-coding-task-2/internal/services/cards"
)

type call struct {
	route  domain.Route
	params domain.Params
}

type fakeCaller struct {
	calls []call
	reply *domain.Reply
	err   error
}

func (f *fakeCaller) Do(_ context.Context, route domain.Route, params domain.Params) (*domain.Reply, error) {
	f.calls = append(f.calls, call{route, params})
	return f.reply, f.err
}

func replyWith(t *testing.T, body domain.CardsBody) *domain.Reply {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return &domain.Reply{Body: raw}
}

func TestService_Routes(t *testing.T) {
	f := &fakeCaller{reply: &domain.Reply{}}
	svc := cards.New(f)
	ctx := context.Background()

	_, _, err := svc.ListCards(ctx)
	require.NoError(t, err)
	_, _, err = svc.CreateCard(ctx, 5)
	require.NoError(t, err)
	_, _, err = svc.UpdateCard(ctx, 2, 30)
	require.NoError(t, err)
	_, _, err = svc.DeleteCard(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, []call{
		{domain.RouteListCards, domain.Params{}},
		{domain.RouteCreateCard, domain.Params{"monsterId": int64(5)}},
		{domain.RouteUpdateCard, domain.Params{"cardId": int64(2), "exp": int64(30)}},
		{domain.RouteDeleteCard, domain.Params{"cardId": int64(2)}},
	}, f.calls)
}

func TestService_KeepsLastCardList(t *testing.T) {
	card := domain.Card{ID: 1, MonsterID: 5}
	f := &fakeCaller{reply: replyWith(t, domain.CardsBody{Cards: []domain.Card{card}, Card: &card})}
	svc := cards.New(f)

	body, reply, err := svc.CreateCard(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.NotNil(t, body.Card)
	assert.Equal(t, int64(5), body.Card.MonsterID)
	assert.Equal(t, []domain.Card{card}, svc.Cards())

	f.reply = replyWith(t, domain.CardsBody{Cards: []domain.Card{}, Card: &card})
	_, _, err = svc.DeleteCard(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, svc.Cards())
}

func TestService_ErrorLeavesListAlone(t *testing.T) {
	f := &fakeCaller{err: apierr.New(apierr.InvalidCardID)}
	svc := cards.New(f)
	svc.Restore([]domain.Card{{ID: 3}})

	_, _, err := svc.UpdateCard(context.Background(), 1000, 1)
	assert.ErrorIs(t, err, apierr.InvalidCardID)
	assert.Len(t, svc.Cards(), 1)
}

func TestService_BadBody(t *testing.T) {
	f := &fakeCaller{reply: &domain.Reply{Body: json.RawMessage(`"nope"`)}}
	svc := cards.New(f)

	_, _, err := svc.ListCards(context.Background())
	require.Error(t, err)
	var syntax *json.UnmarshalTypeError
	assert.True(t, errors.As(err, &syntax))
}

func TestDecode_EmptyReply(t *testing.T) {
	body, err := cards.Decode(nil)
	require.NoError(t, err)
	assert.Nil(t, body.Cards)

	body, err = cards.Decode(&domain.Reply{})
	require.NoError(t, err)
	assert.Nil(t, body.Card)
}

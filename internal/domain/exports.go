package domain

import (
	interfaces "github.com/samchan0221/mh-coding-task-2/internal/domain/interfaces"
	types "github.com/samchan0221/mh-coding-task-2/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Route        = types.Route
	Params       = types.Params
	User         = types.User
	Session      = types.Session
	Card         = types.Card
	CardsBody    = types.CardsBody
	RequestBody  = types.RequestBody
	RequestQuery = types.RequestQuery
	Envelope     = types.Envelope
	Reply        = types.Reply
	Pending      = types.Pending
	ClientState  = types.ClientState
)

// Routes of the remote service.
const (
	RouteLogin      = types.RouteLogin
	RouteListCards  = types.RouteListCards
	RouteCreateCard = types.RouteCreateCard
	RouteUpdateCard = types.RouteUpdateCard
	RouteDeleteCard = types.RouteDeleteCard
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Transport   = interfaces.Transport
	StateStore  = interfaces.StateStore
	Caller      = interfaces.Caller
	CardService = interfaces.CardService
)

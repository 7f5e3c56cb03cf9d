package types

// Card is the game entity managed by the cards routes.
type Card struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId,omitempty"`
	MonsterID int64 `json:"monsterId"`
	Exp       int64 `json:"exp"`
}

// CardsBody is the body of every cards reply: the full list after the
// operation, plus the affected card for create, update and delete.
type CardsBody struct {
	Cards []Card `json:"cards"`
	Card  *Card  `json:"card,omitempty"`
}

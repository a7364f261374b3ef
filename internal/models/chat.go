package models

import "time"

// RetrievedSnippet is a query-scoped excerpt of an indexed recipe, shown as
// evidence for an answer. Never persisted.
type RetrievedSnippet struct {
	RecipeID int64  `json:"recipe_id"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
}

// ChatExchange records one completed chat turn. Exchanges are append-only:
// created once per turn, never mutated afterwards.
type ChatExchange struct {
	ID        string `json:"id" badgerhold:"key"` // chat_<uuid>
	SessionID string `json:"session_id" badgerhold:"index"`
	User      string `json:"user,omitempty"`

	Message  string `json:"message"`
	Response string `json:"response"`

	RetrievedRecipeIDs []int64  `json:"retrieved_recipe_ids"`
	Confidence         *float64 `json:"confidence,omitempty"` // 0..1, absent when unknown

	CreatedAt time.Time `json:"created_at"`
}

package entity

import "time"

// Session is the persisted selection of a conversion view-model
type Session struct {
	ID        string    `json:"id"`
	Language  string    `json:"language"`
	Amount    string    `json:"amount"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	TimeRange string    `json:"time_range"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

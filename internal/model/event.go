package model

import "time"

// Event is an upcoming club activity. Event CRUD lives in the web app;
// this service only reads listings as draft context.
type Event struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Location  *string   `json:"location,omitempty"`
	StartsAt  time.Time `json:"starts_at"`
	CreatedAt time.Time `json:"created_at"`
}

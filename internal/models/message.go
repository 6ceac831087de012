package models

import "time"

// ContactMessage is an inbound inquiry plus its reply thread. Messages are
// created by unauthenticated public submissions and never deleted.
type ContactMessage struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Subject   string            `json:"subject"`
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Priority  string            `json:"priority"`
	Responses []MessageResponse `json:"responses"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// MessageResponse is one entry of the append-only reply thread.
type MessageResponse struct {
	ID          string    `json:"id"`
	Message     string    `json:"message"`
	IsFromAdmin bool      `json:"isFromAdmin"`
	AuthorName  string    `json:"authorName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Contact message status values.
const (
	MessageStatusNew        = "new"
	MessageStatusInProgress = "in_progress"
	MessageStatusResolved   = "resolved"
	MessageStatusClosed     = "closed"
)

// Contact message priority values. Priority defaults to medium and no code
// path changes it.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

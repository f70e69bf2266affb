package model

import "time"

// ChatTurn is one question/answer exchange. Turns are append-only; a session
// is nothing more than the set of turns sharing a session id.
type ChatTurn struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:64;not null;index" json:"session_id"`
	UserQuery string    `gorm:"type:text;not null" json:"user_query"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	Model     string    `gorm:"size:64;not null" json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

package model

import "time"

// UsageRecord is an audit row for one answered turn, persisted asynchronously
// by the usage worker. It exists for analytics and future retention policies;
// the conversational history itself lives in ChatTurn.
type UsageRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SessionID     string    `gorm:"size:64;not null;index" json:"session_id"`
	Model         string    `gorm:"size:64;not null" json:"model"`
	Intent        string    `gorm:"size:32" json:"intent"`
	QuestionChars int       `json:"question_chars"`
	ResponseChars int       `json:"response_chars"`
	CreatedAt     time.Time `json:"created_at"`
}

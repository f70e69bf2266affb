package repository

import (
	"fmt"

	"gorm.io/gorm"

	"glamvoice/internal/model"
)

type ChatTurnRepository struct {
	db *gorm.DB
}

func NewChatTurnRepository(db *gorm.DB) *ChatTurnRepository {
	return &ChatTurnRepository{db: db}
}

// Append adds one turn; CreatedAt is assigned by gorm on create.
func (r *ChatTurnRepository) Append(turn *model.ChatTurn) error {
	if err := r.db.Create(turn).Error; err != nil {
		return fmt.Errorf("append chat turn failed: %w", err)
	}
	return nil
}

// Recent returns up to limit turns of the session in chronological order
// (oldest of the window first). The window is the newest turns: the query
// fetches by created_at descending and the result is reversed, so prompts
// can replay the history as a conversation.
func (r *ChatTurnRepository) Recent(sessionID string, limit int) ([]model.ChatTurn, error) {
	if limit <= 0 {
		limit = 10
	}

	var turns []model.ChatTurn
	if err := r.db.Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&turns).Error; err != nil {
		return nil, fmt.Errorf("list recent chat turns failed: %w", err)
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

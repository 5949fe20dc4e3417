package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pulsechat/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

// ListSinceID returns messages with id > sinceID in ascending id order.
// A non-zero notBefore additionally drops messages older than that instant.
func (r *MessageRepository) ListSinceID(ctx context.Context, sinceID uint, notBefore time.Time) ([]model.Message, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if sinceID > 0 {
		query = query.Where("id > ?", sinceID)
	}
	if !notBefore.IsZero() {
		query = query.Where("timestamp >= ?", notBefore)
	}

	var messages []model.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pulsechat/internal/model"
)

type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// Create stores an archive entry. The unique index on message_id makes
// redelivered broker events a no-op instead of a duplicate row.
func (r *ArchiveRepository) Create(ctx context.Context, entry *model.MessageArchive) error {
	err := r.db.WithContext(ctx).
		Where(model.MessageArchive{MessageID: entry.MessageID}).
		FirstOrCreate(entry).Error
	if err != nil {
		return fmt.Errorf("create archive entry failed: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"varaamo/internal/domain"
)

type BanRepository struct {
	db *gorm.DB
}

func NewBanRepository(db *gorm.DB) *BanRepository {
	return &BanRepository{db: db}
}

func (r *BanRepository) Create(ctx context.Context, b *domain.Ban) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// FindActive returns the newest active ban matching scope and refs, nil when
// none exists.
func (r *BanRepository) FindActive(ctx context.Context, userID int64, scope domain.BanScope, orgID, roleID *int64) (*domain.Ban, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND scope = ? AND lifted_at IS NULL", userID, string(scope))
	if orgID != nil {
		q = q.Where("organization_id = ?", *orgID)
	}
	if roleID != nil {
		q = q.Where("role_id = ?", *roleID)
	}

	var ban domain.Ban
	err := q.Order("banned_at DESC").First(&ban).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ban, nil
}

// Lift closes a ban row. Rows are never deleted.
func (r *BanRepository) Lift(ctx context.Context, banID, liftedBy int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Ban{}).
		Where("id = ?", banID).
		Updates(map[string]any{"lifted_at": at, "lifted_by": liftedBy}).Error
}

func (r *BanRepository) HistoryForUser(ctx context.Context, userID int64) ([]domain.Ban, error) {
	var out []domain.Ban
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("banned_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

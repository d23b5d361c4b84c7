package repository

import (
	"context"

	"gorm.io/gorm"

	"varaamo/internal/domain"
)

type OrgItemRepository struct {
	db *gorm.DB
}

func NewOrgItemRepository(db *gorm.DB) *OrgItemRepository {
	return &OrgItemRepository{db: db}
}

func (r *OrgItemRepository) Create(ctx context.Context, item *domain.OrganizationItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *OrgItemRepository) GetByID(ctx context.Context, id int64) (*domain.OrganizationItem, error) {
	var item domain.OrganizationItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *OrgItemRepository) UpdateOwnedQuantity(ctx context.Context, id int64, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&domain.OrganizationItem{}).
		Where("id = ?", id).
		Update("owned_quantity", quantity).Error
}

func (r *OrgItemRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&domain.OrganizationItem{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *OrgItemRepository) ListByOrganization(ctx context.Context, orgID int64) ([]domain.OrganizationItem, error) {
	var items []domain.OrganizationItem
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

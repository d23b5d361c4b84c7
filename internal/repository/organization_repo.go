package repository

import (
	"context"

	"gorm.io/gorm"

	"varaamo/internal/domain"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	var org domain.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) List(ctx context.Context, limit, offset int) ([]domain.Organization, error) {
	var orgs []domain.Organization
	if err := r.db.WithContext(ctx).
		Order("name").
		Limit(limit).
		Offset(offset).
		Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *OrganizationRepository) CreateLocation(ctx context.Context, loc *domain.StorageLocation) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *OrganizationRepository) AttachLocation(ctx context.Context, orgID, locationID int64) error {
	return r.db.WithContext(ctx).Create(&domain.OrganizationLocation{
		OrganizationID:    orgID,
		StorageLocationID: locationID,
	}).Error
}

func (r *OrganizationRepository) LocationsForOrganization(ctx context.Context, orgID int64) ([]domain.StorageLocation, error) {
	var locs []domain.StorageLocation
	if err := r.db.WithContext(ctx).
		Joins("JOIN organization_locations ol ON ol.storage_location_id = storage_locations.id").
		Where("ol.organization_id = ?", orgID).
		Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

package domain

import "time"

type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:128"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StorageLocation struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrganizationLocation joins organizations and storage locations (m2m).
type OrganizationLocation struct {
	ID                int64 `json:"id"`
	OrganizationID    int64 `json:"organization_id" gorm:"index:idx_org_location,unique"`
	StorageLocationID int64 `json:"storage_location_id" gorm:"index:idx_org_location,unique"`
}

// OrganizationItem is the unit the ledger tracks: a storage item owned by one
// organization at one location, with the quantity that can ever be out on
// loan simultaneously.
type OrganizationItem struct {
	ID                int64     `json:"id"`
	StorageItemID     int64     `json:"storage_item_id" gorm:"index:idx_item_org_loc,unique"`
	OrganizationID    int64     `json:"organization_id" gorm:"index:idx_item_org_loc,unique"`
	StorageLocationID int64     `json:"storage_location_id" gorm:"index:idx_item_org_loc,unique"`
	OwnedQuantity     int       `json:"owned_quantity" validate:"gte=0"`
	UnitPrice         float64   `json:"unit_price"` // rental price per day
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

package organization

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

type CreateLocationRequest struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
}

type AddItemRequest struct {
	StorageItemID     int64   `json:"storage_item_id" binding:"required"`
	StorageLocationID int64   `json:"storage_location_id" binding:"required"`
	OwnedQuantity     int     `json:"owned_quantity" binding:"gte=0"`
	UnitPrice         float64 `json:"unit_price" binding:"gte=0"`
}

type AssignRoleRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

package booking

type CreateOrderItem struct {
	OrgItemID int64  `json:"org_item_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

type PaymentEventRequest struct {
	Event string `json:"event" binding:"required"`
}

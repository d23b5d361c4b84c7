package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"varaamo/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingOrderModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	OrderNumber    string    `gorm:"column:order_number;uniqueIndex"`
	UserID         int64     `gorm:"column:user_id"`
	Status         string    `gorm:"column:status"`
	PaymentStatus  *string   `gorm:"column:payment_status"`
	TotalAmount    float64   `gorm:"column:total_amount"`
	DiscountAmount float64   `gorm:"column:discount_amount"`
	FinalAmount    float64   `gorm:"column:final_amount"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (bookingOrderModel) TableName() string { return "booking_orders" }

type bookingItemModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	BookingOrderID int64     `gorm:"column:booking_order_id;index"`
	OrgItemID      int64     `gorm:"column:org_item_id;index"`
	Quantity       int       `gorm:"column:quantity"`
	StartDate      time.Time `gorm:"column:start_date"`
	EndDate        time.Time `gorm:"column:end_date"`
	TotalDays      int       `gorm:"column:total_days"`
	Status         string    `gorm:"column:status"`
	Subtotal       float64   `gorm:"column:subtotal"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (bookingItemModel) TableName() string { return "booking_items" }

func toDomainOrder(m bookingOrderModel, items []bookingItemModel) *domain.BookingOrder {
	var ps *domain.PaymentStatus
	if m.PaymentStatus != nil {
		v := domain.PaymentStatus(*m.PaymentStatus)
		ps = &v
	}

	out := &domain.BookingOrder{
		ID:             m.ID,
		OrderNumber:    m.OrderNumber,
		UserID:         m.UserID,
		Status:         domain.BookingStatus(m.Status),
		PaymentStatus:  ps,
		TotalAmount:    m.TotalAmount,
		DiscountAmount: m.DiscountAmount,
		FinalAmount:    m.FinalAmount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for _, im := range items {
		out.Items = append(out.Items, *toDomainItem(im))
	}
	return out
}

func toDomainItem(m bookingItemModel) *domain.BookingItem {
	return &domain.BookingItem{
		ID:             m.ID,
		BookingOrderID: m.BookingOrderID,
		OrgItemID:      m.OrgItemID,
		Quantity:       m.Quantity,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		TotalDays:      m.TotalDays,
		Status:         domain.BookingStatus(m.Status),
		Subtotal:       m.Subtotal,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toItemModel(i *domain.BookingItem) bookingItemModel {
	return bookingItemModel{
		ID:             i.ID,
		BookingOrderID: i.BookingOrderID,
		OrgItemID:      i.OrgItemID,
		Quantity:       i.Quantity,
		StartDate:      i.StartDate,
		EndDate:        i.EndDate,
		TotalDays:      i.TotalDays,
		Status:         string(i.Status),
		Subtotal:       i.Subtotal,
	}
}

// Create persists the order and all its items in one transaction. Either
// everything lands or nothing does; unique violations (duplicate order
// number) bubble up for the service to retry on.
func (r *BookingRepository) Create(ctx context.Context, o *domain.BookingOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := bookingOrderModel{
			OrderNumber:    o.OrderNumber,
			UserID:         o.UserID,
			Status:         string(o.Status),
			TotalAmount:    o.TotalAmount,
			DiscountAmount: o.DiscountAmount,
			FinalAmount:    o.FinalAmount,
		}
		if o.PaymentStatus != nil {
			v := string(*o.PaymentStatus)
			m.PaymentStatus = &v
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		for idx := range o.Items {
			im := toItemModel(&o.Items[idx])
			im.BookingOrderID = m.ID
			if err := tx.Create(&im).Error; err != nil {
				return err
			}
			o.Items[idx].ID = im.ID
			o.Items[idx].BookingOrderID = m.ID
			o.Items[idx].CreatedAt = im.CreatedAt
			o.Items[idx].UpdatedAt = im.UpdatedAt
		}

		o.ID = m.ID
		o.CreatedAt = m.CreatedAt
		o.UpdatedAt = m.UpdatedAt
		return nil
	})
}

func (r *BookingRepository) GetOrder(ctx context.Context, id int64) (*domain.BookingOrder, error) {
	var m bookingOrderModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	var items []bookingItemModel
	if err := r.db.WithContext(ctx).
		Where("booking_order_id = ?", id).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return toDomainOrder(m, items), nil
}

func (r *BookingRepository) GetItem(ctx context.Context, id int64) (*domain.BookingItem, error) {
	var m bookingItemModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainItem(m), nil
}

func (r *BookingRepository) ItemsForOrder(ctx context.Context, orderID int64) ([]domain.BookingItem, error) {
	var models []bookingItemModel
	if err := r.db.WithContext(ctx).
		Where("booking_order_id = ?", orderID).
		Order("id").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.BookingItem, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainItem(m))
	}
	return out, nil
}

// ActiveItemsForOrgItem returns every booking item that still consumes
// capacity of the organization item, regardless of date range. Availability
// sweeps need all of them because a super-interval reservation consumes
// capacity throughout any queried window.
func (r *BookingRepository) ActiveItemsForOrgItem(ctx context.Context, orgItemID int64) ([]domain.BookingItem, error) {
	var models []bookingItemModel
	if err := r.db.WithContext(ctx).
		Where("org_item_id = ? AND status IN ?", orgItemID,
			[]string{string(domain.BookingPending), string(domain.BookingConfirmed), string(domain.BookingPaid)}).
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.BookingItem, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainItem(m))
	}
	return out, nil
}

func (r *BookingRepository) UpdateItemStatus(ctx context.Context, itemID int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&bookingItemModel{}).
		Where("id = ?", itemID).
		Update("status", string(status)).Error
}

// UpdateItemStatuses moves a whole set of items to the status in a single
// statement, so a whole-order transition lands completely or not at all.
func (r *BookingRepository) UpdateItemStatuses(ctx context.Context, itemIDs []int64, status domain.BookingStatus) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&bookingItemModel{}).
		Where("id IN ?", itemIDs).
		Update("status", string(status)).Error
}

func (r *BookingRepository) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&bookingOrderModel{}).
		Where("id = ?", orderID).
		Update("status", string(status)).Error
}

func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, orderID int64, status domain.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&bookingOrderModel{}).
		Where("id = ?", orderID).
		Update("payment_status", string(status)).Error
}

func (r *BookingRepository) OrdersForUser(ctx context.Context, userID int64, limit, offset int) ([]domain.BookingOrder, error) {
	var models []bookingOrderModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.BookingOrder, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainOrder(m, nil))
	}
	return out, nil
}

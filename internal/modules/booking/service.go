package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"varaamo/internal/domain"
	"varaamo/internal/modules/permission"
)

const (
	minLoanDays = 1
	maxLoanDays = 42

	orderNumberAttempts = 5
)

type Service struct {
	bookings  BookingRepository
	inventory InventoryService
	orgItems  OrgItemSource
	perms     PermissionChecker
	notifs    NotificationSender
	now       func() time.Time
}

func NewService(
	bookings BookingRepository,
	inventory InventoryService,
	orgItems OrgItemSource,
	perms PermissionChecker,
	notifs NotificationSender,
) *Service {
	return &Service{
		bookings:  bookings,
		inventory: inventory,
		orgItems:  orgItems,
		perms:     perms,
		notifs:    notifs,
		now:       time.Now,
	}
}

func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), rand.Intn(10000))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

type preparedItem struct {
	orgItem *domain.OrganizationItem
	item    domain.BookingItem
}

// CreateOrder creates one order with all its items, or nothing. Every item is
// validated against the loan window (1 to 42 whole days), the requester's ban
// state in the owning organization, and current capacity. The per-item locks
// are held from the capacity check through the durable write so concurrent
// orders cannot both pass on the last free unit.
func (s *Service) CreateOrder(ctx context.Context, actor domain.Actor, req CreateOrderRequest) (*domain.BookingOrder, error) {
	if len(req.Items) == 0 {
		return nil, ErrValidation
	}

	prepared := make([]preparedItem, 0, len(req.Items))
	lockIDs := make([]int64, 0, len(req.Items))
	for _, in := range req.Items {
		if in.Quantity < 1 {
			return nil, ErrValidation
		}

		start, err := domain.ParseDate(in.StartDate)
		if err != nil {
			return nil, ErrValidation
		}
		end, err := domain.ParseDate(in.EndDate)
		if err != nil {
			return nil, ErrValidation
		}

		days := domain.DaysBetween(start, end)
		if days < minLoanDays || days > maxLoanDays {
			return nil, ErrValidation
		}

		orgItem, err := s.orgItems.GetByID(ctx, in.OrgItemID)
		if err != nil {
			return nil, ErrNotFound
		}
		if !orgItem.IsActive {
			return nil, ErrNotFound
		}

		if err := s.perms.CanBook(ctx, actor.UserID, orgItem.OrganizationID); err != nil {
			if errors.Is(err, permission.ErrBanned) {
				return nil, ErrForbidden
			}
			return nil, err
		}

		subtotal := orgItem.UnitPrice * float64(days) * float64(in.Quantity)
		subtotal = math.Round(subtotal*100) / 100

		prepared = append(prepared, preparedItem{
			orgItem: orgItem,
			item: domain.BookingItem{
				OrgItemID: in.OrgItemID,
				Quantity:  in.Quantity,
				StartDate: start,
				EndDate:   end,
				TotalDays: days,
				Status:    domain.BookingPending,
				Subtotal:  subtotal,
			},
		})
		lockIDs = append(lockIDs, in.OrgItemID)
	}

	release := s.inventory.LockItems(lockIDs...)
	defer release()

	// Lines on the same org item are checked as one batch so they count
	// against each other, not just against pre-existing reservations.
	byOrgItem := make(map[int64][]domain.BookingItem)
	for _, p := range prepared {
		byOrgItem[p.item.OrgItemID] = append(byOrgItem[p.item.OrgItemID], p.item)
	}
	for orgItemID, lines := range byOrgItem {
		if err := s.inventory.CanReserveAll(ctx, orgItemID, lines); err != nil {
			return nil, ErrConflict
		}
	}

	order := &domain.BookingOrder{
		UserID: actor.UserID,
		Status: domain.BookingPending,
	}
	for _, p := range prepared {
		order.Items = append(order.Items, p.item)
		order.TotalAmount += p.item.Subtotal
	}
	order.FinalAmount = order.TotalAmount - order.DiscountAmount

	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = newOrderNumber(s.now())
		err = s.bookings.Create(ctx, order)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyOrderCreated(ctx, order.UserID, order.ID, order.OrderNumber)
	}
	return order, nil
}

// GetOrder returns the order with items. Visible to its owner, to admins of
// any organization that owns a booked item, and to the super admin.
func (s *Service) GetOrder(ctx context.Context, actor domain.Actor, orderID int64) (*domain.BookingOrder, error) {
	order, err := s.bookings.GetOrder(ctx, orderID)
	if err != nil {
		return nil, ErrNotFound
	}

	if order.UserID == actor.UserID || domain.IsSuperAdmin(actor.Grant.Name) {
		return order, nil
	}
	for _, it := range order.Items {
		orgItem, err := s.orgItems.GetByID(ctx, it.OrgItemID)
		if err != nil {
			continue
		}
		if s.perms.IsOrgAdmin(actor, orgItem.OrganizationID) {
			return order, nil
		}
	}
	return nil, ErrForbidden
}

func (s *Service) ListMyOrders(ctx context.Context, userID int64, limit, offset int) ([]domain.BookingOrder, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.OrdersForUser(ctx, userID, limit, offset)
}

// TransitionItem moves one booking item along the lifecycle and recomputes
// the order status from its items. cancelled_by_user belongs to the booking
// owner; everything else requires an admin grant in the organization that
// owns the item.
func (s *Service) TransitionItem(ctx context.Context, actor domain.Actor, itemID int64, to domain.BookingStatus) (*domain.BookingItem, error) {
	item, err := s.bookings.GetItem(ctx, itemID)
	if err != nil {
		return nil, ErrNotFound
	}
	order, err := s.bookings.GetOrder(ctx, item.BookingOrderID)
	if err != nil {
		return nil, ErrNotFound
	}
	orgItem, err := s.orgItems.GetByID(ctx, item.OrgItemID)
	if err != nil {
		return nil, ErrNotFound
	}

	if to == domain.BookingCancelledByUser {
		if order.UserID != actor.UserID {
			return nil, ErrForbidden
		}
	} else {
		if !s.perms.IsOrgAdmin(actor, orgItem.OrganizationID) {
			return nil, ErrForbidden
		}
	}

	if !domain.CanTransition(item.Status, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.bookings.UpdateItemStatus(ctx, itemID, to); err != nil {
		return nil, err
	}
	item.Status = to

	if err := s.refreshOrderStatus(ctx, order); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyItemStatusChanged(ctx, order.UserID, order.ID, item.ID, to)
	}
	return item, nil
}

// TransitionOrder applies one transition to every non-terminal item of the
// order, all or nothing. Used for whole-order confirm, reject and cancel.
// Permissions mirror TransitionItem, checked against every affected item.
func (s *Service) TransitionOrder(ctx context.Context, actor domain.Actor, orderID int64, to domain.BookingStatus) (*domain.BookingOrder, error) {
	order, err := s.bookings.GetOrder(ctx, orderID)
	if err != nil {
		return nil, ErrNotFound
	}

	pending := make([]domain.BookingItem, 0, len(order.Items))
	for _, it := range order.Items {
		if !domain.IsTerminal(it.Status) {
			pending = append(pending, it)
		}
	}
	if len(pending) == 0 {
		return nil, ErrInvalidTransition
	}

	if to == domain.BookingCancelledByUser {
		if order.UserID != actor.UserID {
			return nil, ErrForbidden
		}
	} else {
		for _, it := range pending {
			orgItem, err := s.orgItems.GetByID(ctx, it.OrgItemID)
			if err != nil {
				return nil, ErrNotFound
			}
			if !s.perms.IsOrgAdmin(actor, orgItem.OrganizationID) {
				return nil, ErrForbidden
			}
		}
	}

	for _, it := range pending {
		if !domain.CanTransition(it.Status, to) {
			return nil, ErrInvalidTransition
		}
	}

	ids := make([]int64, 0, len(pending))
	for _, it := range pending {
		ids = append(ids, it.ID)
	}
	if err := s.bookings.UpdateItemStatuses(ctx, ids, to); err != nil {
		return nil, err
	}
	if s.notifs != nil {
		for _, it := range pending {
			_ = s.notifs.NotifyItemStatusChanged(ctx, order.UserID, order.ID, it.ID, to)
		}
	}

	if err := s.refreshOrderStatus(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// refreshOrderStatus re-derives the order status from its items and persists
// it when it changed. Mutates order.Status.
func (s *Service) refreshOrderStatus(ctx context.Context, order *domain.BookingOrder) error {
	items, err := s.bookings.ItemsForOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	statuses := make([]domain.BookingStatus, 0, len(items))
	for _, it := range items {
		statuses = append(statuses, it.Status)
	}
	derived := domain.AggregateOrderStatus(statuses)
	if derived != order.Status {
		if err := s.bookings.UpdateOrderStatus(ctx, order.ID, derived); err != nil {
			return err
		}
		order.Status = derived
	}
	return nil
}

// paymentEvents maps external payment-provider events onto payment statuses.
// Payment status is bookkeeping alongside the lifecycle; it never moves the
// booking status by itself.
var paymentEvents = map[string]domain.PaymentStatus{
	"invoice-sent":     domain.PaymentPending,
	"paid":             domain.PaymentPaid,
	"payment-rejected": domain.PaymentFailed,
}

func (s *Service) ApplyPaymentEvent(ctx context.Context, actor domain.Actor, orderID int64, event string) (*domain.BookingOrder, error) {
	status, ok := paymentEvents[event]
	if !ok {
		return nil, ErrValidation
	}

	order, err := s.bookings.GetOrder(ctx, orderID)
	if err != nil {
		return nil, ErrNotFound
	}

	allowed := domain.IsSuperAdmin(actor.Grant.Name)
	if !allowed {
		for _, it := range order.Items {
			orgItem, err := s.orgItems.GetByID(ctx, it.OrgItemID)
			if err != nil {
				continue
			}
			if s.perms.IsOrgAdmin(actor, orgItem.OrganizationID) {
				allowed = true
				break
			}
		}
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if err := s.bookings.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.PaymentStatus = &status
	return order, nil
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"varaamo/internal/database"
	"varaamo/internal/domain"
)

func testDB(t *testing.T) *BookingRepository {
	t.Helper()
	db, err := database.Connect("file:" + t.Name() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewBookingRepository(db)
}

func d(day int) time.Time {
	return time.Date(2026, 6, day, 0, 0, 0, 0, time.UTC)
}

func sampleOrder(num string, userID int64) *domain.BookingOrder {
	return &domain.BookingOrder{
		OrderNumber: num,
		UserID:      userID,
		Status:      domain.BookingPending,
		TotalAmount: 30,
		FinalAmount: 30,
		Items: []domain.BookingItem{
			{OrgItemID: 1, Quantity: 2, StartDate: d(1), EndDate: d(5), TotalDays: 4, Status: domain.BookingPending, Subtotal: 20},
			{OrgItemID: 2, Quantity: 1, StartDate: d(3), EndDate: d(7), TotalDays: 4, Status: domain.BookingPending, Subtotal: 10},
		},
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	order := sampleOrder("ORD-20260601-0001", 9)
	assert.NoError(t, repo.Create(ctx, order))
	assert.NotZero(t, order.ID)
	assert.NotZero(t, order.Items[0].ID)
	assert.Equal(t, order.ID, order.Items[1].BookingOrderID)

	got, err := repo.GetOrder(ctx, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, "ORD-20260601-0001", got.OrderNumber)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, domain.BookingPending, got.Items[0].Status)
	assert.Equal(t, 30.0, got.TotalAmount)
}

func TestCreate_DuplicateOrderNumber(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, sampleOrder("ORD-20260601-0042", 9)))
	err := repo.Create(ctx, sampleOrder("ORD-20260601-0042", 10))
	assert.Error(t, err)

	// the failed order must not leave orphaned items behind
	items, err := repo.ActiveItemsForOrgItem(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestActiveItemsForOrgItem_FiltersTerminal(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	order := sampleOrder("ORD-20260601-0001", 9)
	assert.NoError(t, repo.Create(ctx, order))

	other := sampleOrder("ORD-20260601-0002", 10)
	assert.NoError(t, repo.Create(ctx, other))

	// cancel one of the rows on org item 1
	assert.NoError(t, repo.UpdateItemStatus(ctx, other.Items[0].ID, domain.BookingCancelledByUser))

	active, err := repo.ActiveItemsForOrgItem(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, order.Items[0].ID, active[0].ID)
}

func TestUpdateStatuses(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	order := sampleOrder("ORD-20260601-0001", 9)
	assert.NoError(t, repo.Create(ctx, order))

	assert.NoError(t, repo.UpdateItemStatus(ctx, order.Items[0].ID, domain.BookingConfirmed))
	assert.NoError(t, repo.UpdateOrderStatus(ctx, order.ID, domain.BookingConfirmed))
	assert.NoError(t, repo.UpdatePaymentStatus(ctx, order.ID, domain.PaymentPending))

	got, err := repo.GetOrder(ctx, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	assert.Equal(t, domain.BookingConfirmed, got.Items[0].Status)
	assert.Equal(t, domain.BookingPending, got.Items[1].Status)
	assert.Equal(t, domain.PaymentPending, *got.PaymentStatus)
}

func TestUpdateItemStatuses_WholeSetAtOnce(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	order := sampleOrder("ORD-20260601-0001", 9)
	assert.NoError(t, repo.Create(ctx, order))
	other := sampleOrder("ORD-20260601-0002", 10)
	assert.NoError(t, repo.Create(ctx, other))

	ids := []int64{order.Items[0].ID, order.Items[1].ID}
	assert.NoError(t, repo.UpdateItemStatuses(ctx, ids, domain.BookingCancelledByUser))

	got, err := repo.GetOrder(ctx, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelledByUser, got.Items[0].Status)
	assert.Equal(t, domain.BookingCancelledByUser, got.Items[1].Status)

	// rows outside the set are untouched
	untouched, err := repo.GetOrder(ctx, other.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPending, untouched.Items[0].Status)

	assert.NoError(t, repo.UpdateItemStatuses(ctx, nil, domain.BookingCancelled))
}

func TestOrdersForUser_Pagination(t *testing.T) {
	repo := testDB(t)
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, sampleOrder("ORD-20260601-0001", 9)))
	assert.NoError(t, repo.Create(ctx, sampleOrder("ORD-20260601-0002", 9)))
	assert.NoError(t, repo.Create(ctx, sampleOrder("ORD-20260601-0003", 5)))

	mine, err := repo.OrdersForUser(ctx, 9, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, mine, 2)

	page, err := repo.OrdersForUser(ctx, 9, 1, 1)
	assert.NoError(t, err)
	assert.Len(t, page, 1)
}

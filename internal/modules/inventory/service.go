package inventory

import (
	"context"
	"sort"
	"time"

	"varaamo/internal/domain"
)

type Service struct {
	items    OrgItemRepository
	bookings BookingItemSource
	locks    *ItemLocks
}

func NewService(items OrgItemRepository, bookings BookingItemSource, locks *ItemLocks) *Service {
	return &Service{items: items, bookings: bookings, locks: locks}
}

// LockItems serializes reservation checks for the given organization items.
// Callers hold the returned release func through the durable write.
func (s *Service) LockItems(ids ...int64) func() {
	return s.locks.Lock(ids...)
}

type sweepEvent struct {
	at    time.Time
	delta int
}

// peakUsage computes the maximum number of units simultaneously reserved
// within the half-open window [start, end). Intervals are clamped to the
// window first; a reservation that ends exactly when another starts never
// overlaps it. Summing all overlapping rows instead would double-count
// reservations that never coexist in time, so the sweep is the ledger's
// source of truth.
func peakUsage(items []domain.BookingItem, start, end time.Time) int {
	events := make([]sweepEvent, 0, 2*len(items))
	for _, it := range items {
		if !domain.ConsumesCapacity(it.Status) {
			continue
		}
		s, e := it.StartDate, it.EndDate
		if !s.Before(end) || !e.After(start) {
			continue
		}
		if s.Before(start) {
			s = start
		}
		if e.After(end) {
			e = end
		}
		events = append(events, sweepEvent{at: s, delta: it.Quantity})
		events = append(events, sweepEvent{at: e, delta: -it.Quantity})
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].at.Equal(events[j].at) {
			return events[i].delta < events[j].delta
		}
		return events[i].at.Before(events[j].at)
	})

	peak, cur := 0, 0
	for _, ev := range events {
		cur += ev.delta
		if cur > peak {
			peak = cur
		}
	}
	return peak
}

// peakUsageAll is the sweep over the full timeline, used when shrinking an
// item's owned quantity.
func peakUsageAll(items []domain.BookingItem) int {
	var min, max time.Time
	found := false
	for _, it := range items {
		if !domain.ConsumesCapacity(it.Status) {
			continue
		}
		if !found || it.StartDate.Before(min) {
			min = it.StartDate
		}
		if !found || it.EndDate.After(max) {
			max = it.EndDate
		}
		found = true
	}
	if !found {
		return 0
	}
	return peakUsage(items, min, max)
}

// AvailableQuantity returns how many units of the organization item are free
// over the whole window [start, end): owned minus the reservation peak,
// clamped at zero.
func (s *Service) AvailableQuantity(ctx context.Context, orgItemID int64, start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, ErrValidation
	}

	item, err := s.items.GetByID(ctx, orgItemID)
	if err != nil {
		return 0, ErrNotFound
	}

	active, err := s.bookings.ActiveItemsForOrgItem(ctx, orgItemID)
	if err != nil {
		return 0, err
	}

	avail := item.OwnedQuantity - peakUsage(active, start, end)
	if avail < 0 {
		avail = 0
	}
	return avail, nil
}

// CanReserve reports whether quantity more units fit within [start, end)
// without exceeding the owned quantity at any instant. Callers that need
// atomicity hold the item lock around the check and the subsequent write.
func (s *Service) CanReserve(ctx context.Context, orgItemID int64, quantity int, start, end time.Time) error {
	return s.CanReserveAll(ctx, orgItemID, []domain.BookingItem{{
		Quantity:  quantity,
		StartDate: start,
		EndDate:   end,
	}})
}

// CanReserveAll checks a batch of reservation lines against one organization
// item in a single sweep. Lines in the batch count against each other, so an
// order holding the same item twice on overlapping dates cannot pass two
// independent checks and overdraw it. The unclamped headroom is used: an
// already-overdrawn item must reject every new reservation.
func (s *Service) CanReserveAll(ctx context.Context, orgItemID int64, requested []domain.BookingItem) error {
	if len(requested) == 0 {
		return ErrValidation
	}
	var start, end time.Time
	for i, r := range requested {
		if r.Quantity < 1 || !r.EndDate.After(r.StartDate) {
			return ErrValidation
		}
		if i == 0 || r.StartDate.Before(start) {
			start = r.StartDate
		}
		if i == 0 || r.EndDate.After(end) {
			end = r.EndDate
		}
	}

	item, err := s.items.GetByID(ctx, orgItemID)
	if err != nil {
		return ErrNotFound
	}
	if !item.IsActive {
		return ErrNotFound
	}

	active, err := s.bookings.ActiveItemsForOrgItem(ctx, orgItemID)
	if err != nil {
		return err
	}

	combined := make([]domain.BookingItem, 0, len(active)+len(requested))
	combined = append(combined, active...)
	for _, r := range requested {
		r.Status = domain.BookingPending
		combined = append(combined, r)
	}

	if peakUsage(combined, start, end) > item.OwnedQuantity {
		return ErrConflict
	}
	return nil
}

// SetOwnedQuantity changes how many units the organization owns. Shrinking
// below the all-time reservation peak is rejected, so existing bookings never
// become retroactively overdrawn. Requires storage-manager level in the
// item's organization, or the global super-admin grant.
func (s *Service) SetOwnedQuantity(ctx context.Context, actor domain.Actor, orgItemID int64, quantity int) (*domain.OrganizationItem, error) {
	if quantity < 0 {
		return nil, ErrValidation
	}

	release := s.locks.Lock(orgItemID)
	defer release()

	item, err := s.items.GetByID(ctx, orgItemID)
	if err != nil {
		return nil, ErrNotFound
	}

	if !domain.IsSuperAdmin(actor.Grant.Name) {
		if actor.Grant.OrganizationID != item.OrganizationID ||
			domain.Level(actor.Grant.Name) < domain.Level(domain.RoleStorageManager) {
			return nil, ErrForbidden
		}
	}

	active, err := s.bookings.ActiveItemsForOrgItem(ctx, orgItemID)
	if err != nil {
		return nil, err
	}
	if quantity < peakUsageAll(active) {
		return nil, ErrValidation
	}

	if err := s.items.UpdateOwnedQuantity(ctx, orgItemID, quantity); err != nil {
		return nil, err
	}
	item.OwnedQuantity = quantity
	return item, nil
}

func (s *Service) GetItem(ctx context.Context, orgItemID int64) (*domain.OrganizationItem, error) {
	item, err := s.items.GetByID(ctx, orgItemID)
	if err != nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *Service) ListByOrganization(ctx context.Context, orgID int64) ([]domain.OrganizationItem, error) {
	return s.items.ListByOrganization(ctx, orgID)
}

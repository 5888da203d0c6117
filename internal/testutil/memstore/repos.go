package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/blockedslot"
	"github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/claim"
	"github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/credit"
	"github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/facility"
)

// FacilityRepo площадки
type FacilityRepo struct{ s *Store }

func (s *Store) Facilities() *FacilityRepo { return &FacilityRepo{s: s} }

func (r *FacilityRepo) GetByID(ctx context.Context, id int64) (*domain.Facility, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("facilities.GetByID"); err != nil {
		return nil, err
	}
	f, ok := r.s.data.facilities[id]
	if !ok {
		return nil, facility.ErrFacilityNotFound
	}
	return &f, nil
}

func (r *FacilityRepo) Update(ctx context.Context, f *domain.Facility) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("facilities.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.facilities[f.ID]; !ok {
		return facility.ErrFacilityNotFound
	}
	r.s.data.facilities[f.ID] = *f
	return nil
}

// BookingRepo брони
type BookingRepo struct{ s *Store }

func (s *Store) Bookings() *BookingRepo { return &BookingRepo{s: s} }

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("bookings.Create"); err != nil {
		return nil, err
	}
	key := b.Key()
	for _, existing := range r.s.data.bookings {
		if !existing.IsCancelled() && existing.Key() == key {
			return nil, fmt.Errorf("%w: %s", booking.ErrSlotTaken, key)
		}
	}
	r.s.data.nextBookingID++
	b.ID = r.s.data.nextBookingID
	b.BookingDate = domain.DateOnly(b.BookingDate)
	r.s.data.bookings[b.ID] = *b
	return b, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("bookings.GetByID"); err != nil {
		return nil, err
	}
	b, ok := r.s.data.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return &b, nil
}

func (r *BookingRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *BookingRepo) GetByUserID(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("bookings.GetByUserID"); err != nil {
		return nil, err
	}
	out := make([]*domain.Booking, 0)
	for _, b := range r.s.data.bookings {
		if b.UserID != filter.UserID {
			continue
		}
		if filter.Status != nil && string(b.Status) != storedStatus(*filter.Status) {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.After(out[j].BookingDate)
		}
		return out[i].StartHour > out[j].StartHour
	})
	return out, nil
}

func (r *BookingRepo) GetByFacilityWithFilter(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("bookings.GetByFacilityWithFilter"); err != nil {
		return nil, err
	}
	out := make([]*domain.Booking, 0)
	for _, b := range r.s.data.bookings {
		if b.FacilityID != filter.FacilityID {
			continue
		}
		if filter.StartDate != nil && b.BookingDate.Before(domain.DateOnly(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && b.BookingDate.After(domain.DateOnly(*filter.EndDate)) {
			continue
		}
		if filter.Status != nil {
			if string(b.Status) != storedStatus(*filter.Status) {
				continue
			}
		} else if !filter.IncludeCancelled && b.IsCancelled() {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.Before(out[j].BookingDate)
		}
		return out[i].StartHour < out[j].StartHour
	})
	return out, nil
}

func (r *BookingRepo) GetStalePendingForUpdate(ctx context.Context, key domain.SlotKey, createdBefore time.Time) (*domain.Booking, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("bookings.GetStalePendingForUpdate"); err != nil {
		return nil, err
	}
	for _, b := range r.s.data.bookings {
		if b.Key() == key && b.Status == domain.StatusPending && !b.CreatedAt.After(createdBefore) {
			return &b, nil
		}
	}
	return nil, booking.ErrBookingNotFound
}

func (r *BookingRepo) Cancel(ctx context.Context, b *domain.Booking) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("bookings.Cancel"); err != nil {
		return err
	}
	stored, ok := r.s.data.bookings[b.ID]
	if !ok || stored.IsCancelled() {
		return booking.ErrStatusMismatch
	}
	stored.Status = domain.StatusCancelled
	stored.CancellationReason = b.CancellationReason
	stored.CancelledAt = b.CancelledAt
	stored.CancelledBy = b.CancelledBy
	stored.UpdatedAt = b.UpdatedAt
	r.s.data.bookings[b.ID] = stored
	return nil
}

func (r *BookingRepo) Confirm(ctx context.Context, id int64, now time.Time) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("bookings.Confirm"); err != nil {
		return err
	}
	stored, ok := r.s.data.bookings[id]
	if !ok || stored.Status != domain.StatusPending {
		return booking.ErrStatusMismatch
	}
	stored.Status = domain.StatusConfirmed
	stored.ConfirmedAt = &now
	stored.UpdatedAt = now
	r.s.data.bookings[id] = stored
	return nil
}

func storedStatus(s domain.BookingStatus) string {
	if s == domain.StatusCompleted {
		return string(domain.StatusConfirmed)
	}
	return string(s)
}

// BlockRepo блокировки слотов
type BlockRepo struct{ s *Store }

func (s *Store) Blocks() *BlockRepo { return &BlockRepo{s: s} }

func (r *BlockRepo) Create(ctx context.Context, bl *domain.BlockedSlot) (*domain.BlockedSlot, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("blocks.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.s.data.blocks {
		if existing.Key() == bl.Key() {
			return nil, fmt.Errorf("%w: %s", blockedslot.ErrSlotTaken, bl.Key())
		}
	}
	r.s.data.nextBlockID++
	bl.ID = r.s.data.nextBlockID
	bl.SlotDate = domain.DateOnly(bl.SlotDate)
	r.s.data.blocks[bl.ID] = *bl
	return bl, nil
}

func (r *BlockRepo) DeleteByKey(ctx context.Context, key domain.SlotKey) (*domain.BlockedSlot, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("blocks.DeleteByKey"); err != nil {
		return nil, err
	}
	for id, bl := range r.s.data.blocks {
		if bl.Key() == key {
			delete(r.s.data.blocks, id)
			return &bl, nil
		}
	}
	return nil, blockedslot.ErrBlockNotFound
}

func (r *BlockRepo) GetByFacilityAndDate(ctx context.Context, facilityID int64, date time.Time) ([]*domain.BlockedSlot, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("blocks.GetByFacilityAndDate"); err != nil {
		return nil, err
	}
	day := domain.DateOnly(date)
	out := make([]*domain.BlockedSlot, 0)
	for _, bl := range r.s.data.blocks {
		if bl.FacilityID == facilityID && bl.SlotDate.Equal(day) {
			bl := bl
			out = append(out, &bl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartHour < out[j].StartHour })
	return out, nil
}

// CreditRepo компенсации
type CreditRepo struct{ s *Store }

func (s *Store) Credits() *CreditRepo { return &CreditRepo{s: s} }

func (r *CreditRepo) Create(ctx context.Context, c *domain.CompensationCredit) (*domain.CompensationCredit, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("credits.Create"); err != nil {
		return nil, err
	}
	if _, exists := r.s.data.credits[c.Code]; exists {
		return nil, credit.ErrDuplicateCode
	}
	r.s.data.nextCreditID++
	c.ID = r.s.data.nextCreditID
	r.s.data.credits[c.Code] = *c
	return c, nil
}

func (r *CreditRepo) GetByCodeForUpdate(ctx context.Context, code string) (*domain.CompensationCredit, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("credits.GetByCodeForUpdate"); err != nil {
		return nil, err
	}
	c, ok := r.s.data.credits[code]
	if !ok {
		return nil, credit.ErrCreditNotFound
	}
	return &c, nil
}

func (r *CreditRepo) MarkUsed(ctx context.Context, code string, bookingID int64, now time.Time) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("credits.MarkUsed"); err != nil {
		return err
	}
	c, ok := r.s.data.credits[code]
	if !ok || c.IsUsed {
		return credit.ErrAlreadyUsed
	}
	c.IsUsed = true
	c.RedeemedBookingID = &bookingID
	c.RedeemedAt = &now
	r.s.data.credits[code] = c
	return nil
}

func (r *CreditRepo) Restore(ctx context.Context, code string, bookingID int64) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("credits.Restore"); err != nil {
		return err
	}
	c, ok := r.s.data.credits[code]
	if !ok || !c.IsUsed || c.RedeemedBookingID == nil || *c.RedeemedBookingID != bookingID {
		return credit.ErrNotRedeemed
	}
	c.IsUsed = false
	c.RedeemedBookingID = nil
	c.RedeemedAt = nil
	r.s.data.credits[code] = c
	return nil
}

func (r *CreditRepo) GetByBeneficiary(ctx context.Context, userID int64) ([]*domain.CompensationCredit, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("credits.GetByBeneficiary"); err != nil {
		return nil, err
	}
	out := make([]*domain.CompensationCredit, 0)
	for _, c := range r.s.data.credits {
		if c.BeneficiaryID == userID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// ClaimRepo пространство исключения
type ClaimRepo struct{ s *Store }

func (s *Store) Claims() *ClaimRepo { return &ClaimRepo{s: s} }

func (r *ClaimRepo) Claim(ctx context.Context, c domain.SlotClaim) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("claims.Claim"); err != nil {
		return err
	}
	k := c.Key.String()
	if _, taken := r.s.data.claims[k]; taken {
		return fmt.Errorf("%w: %s", claim.ErrSlotTaken, c.Key)
	}
	r.s.data.claims[k] = c
	return nil
}

func (r *ClaimRepo) Release(ctx context.Context, key domain.SlotKey, kind domain.ClaimKind, ownerID int64) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("claims.Release"); err != nil {
		return err
	}
	k := key.String()
	c, ok := r.s.data.claims[k]
	if !ok || c.OwnerKind != kind || c.OwnerID != ownerID {
		return claim.ErrClaimNotFound
	}
	delete(r.s.data.claims, k)
	return nil
}

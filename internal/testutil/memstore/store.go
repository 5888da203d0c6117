// Package memstore хранилище в памяти с теми же ограничениями уникальности, что и схема PostgreSQL.
// Транзакции выполняются строго по одной, при ошибке состояние откатывается к снимку.
package memstore

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
)

type txKey struct{}

type state struct {
	facilities map[int64]domain.Facility
	bookings   map[int64]domain.Booking
	blocks     map[int64]domain.BlockedSlot
	credits    map[string]domain.CompensationCredit
	claims     map[string]domain.SlotClaim

	nextFacilityID int64
	nextBookingID  int64
	nextBlockID    int64
	nextCreditID   int64
}

func (s *state) clone() *state {
	c := *s
	c.facilities = cloneMap(s.facilities)
	c.bookings = cloneMap(s.bookings)
	c.blocks = cloneMap(s.blocks)
	c.credits = cloneMap(s.credits)
	c.claims = cloneMap(s.claims)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type fault struct {
	err       error
	remaining int // -1 = всегда
}

// Store хранилище в памяти
type Store struct {
	mu     sync.Mutex
	data   *state
	faults map[string]*fault
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		data: &state{
			facilities: map[int64]domain.Facility{},
			bookings:   map[int64]domain.Booking{},
			blocks:     map[int64]domain.BlockedSlot{},
			credits:    map[string]domain.CompensationCredit{},
			claims:     map[string]domain.SlotClaim{},
		},
		faults: map[string]*fault{},
	}
}

// FailOnce заставляет операцию op один раз вернуть err
func (s *Store) FailOnce(op string, err error) {
	s.setFault(op, &fault{err: err, remaining: 1})
}

// FailAlways заставляет операцию op всегда возвращать err
func (s *Store) FailAlways(op string, err error) {
	s.setFault(op, &fault{err: err, remaining: -1})
}

func (s *Store) setFault(op string, f *fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = f
}

// fault вызывается под s.mu
func (s *Store) fault(op string) error {
	f, ok := s.faults[op]
	if !ok {
		return nil
	}
	if f.remaining > 0 {
		f.remaining--
		if f.remaining == 0 {
			delete(s.faults, op)
		}
	}
	return f.err
}

// lock захватывает хранилище, если вызов не внутри транзакции
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// TxManager менеджер транзакций хранилища
type TxManager struct {
	s *Store
}

// TxManager возвращает менеджер транзакций
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	snapshot := m.s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.data = snapshot
		return err
	}
	if err := m.s.fault("tx.Commit"); err != nil {
		m.s.data = snapshot
		return err
	}
	return nil
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// SeedFacility сохраняет площадку и возвращает ее с присвоенным ID
func (s *Store) SeedFacility(f domain.Facility) domain.Facility {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextFacilityID++
	f.ID = s.data.nextFacilityID
	s.data.facilities[f.ID] = f
	return f
}

// SeedBooking сохраняет бронь вместе с заявкой на слот, если она не отменена
func (s *Store) SeedBooking(b domain.Booking) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextBookingID++
	b.ID = s.data.nextBookingID
	b.BookingDate = domain.DateOnly(b.BookingDate)
	s.data.bookings[b.ID] = b
	if !b.IsCancelled() {
		s.data.claims[b.Key().String()] = domain.SlotClaim{Key: b.Key(), OwnerKind: domain.ClaimBooking, OwnerID: b.ID}
	}
	return b
}

// SeedCredit сохраняет компенсацию
func (s *Store) SeedCredit(c domain.CompensationCredit) domain.CompensationCredit {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextCreditID++
	c.ID = s.data.nextCreditID
	s.data.credits[c.Code] = c
	return c
}

// Booking возвращает бронь по ID
func (s *Store) Booking(id int64) (domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.bookings[id]
	return b, ok
}

// Credit возвращает компенсацию по коду
func (s *Store) Credit(code string) (domain.CompensationCredit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.credits[code]
	return c, ok
}

// CreditsOf возвращает все компенсации пользователя
func (s *Store) CreditsOf(userID int64) []domain.CompensationCredit {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.CompensationCredit
	for _, c := range s.data.credits {
		if c.BeneficiaryID == userID {
			out = append(out, c)
		}
	}
	return out
}

// Claim возвращает владельца ключа слота
func (s *Store) Claim(key domain.SlotKey) (domain.SlotClaim, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.claims[key.String()]
	return c, ok
}

// Holders считает неотмененные брони и блокировки на ключ
func (s *Store) Holders(key domain.SlotKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.data.bookings {
		if !b.IsCancelled() && b.Key() == key {
			n++
		}
	}
	for _, bl := range s.data.blocks {
		if bl.Key() == key {
			n++
		}
	}
	return n
}

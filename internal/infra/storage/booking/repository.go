package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StadiumBooking/pkg/pgerrors"
	"github.com/m04kA/SMC-StadiumBooking/pkg/psqlbuilder"
)

const liveSlotIndex = "bookings_live_slot_key"

var bookingColumns = []string{
	"id",
	"facility_id",
	"user_id",
	"booking_date",
	"start_hour",
	"end_hour",
	"total_price",
	"deposit_paid",
	"credit_applied",
	"remaining_amount",
	"status",
	"credit_code",
	"cancellation_reason",
	"cancelled_at",
	"cancelled_by",
	"confirmed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Частичный уникальный индекс bookings_live_slot_key не дает вставить вторую неотмененную бронь на слот:
// из двух конкурентных вставок успешна ровно одна, вторая получает ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"facility_id",
			"user_id",
			"booking_date",
			"start_hour",
			"end_hour",
			"total_price",
			"deposit_paid",
			"credit_applied",
			"remaining_amount",
			"status",
			"credit_code",
			"created_at",
			"updated_at",
		).
		Values(
			b.FacilityID,
			b.UserID,
			b.BookingDate,
			b.StartHour,
			b.EndHour,
			b.TotalPrice,
			b.DepositPaid,
			b.CreditApplied,
			b.RemainingAmount,
			string(b.Status),
			b.CreditCode,
			b.CreatedAt,
			b.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID)
	if err != nil {
		if pgerrors.IsUniqueViolation(err, liveSlotIndex) {
			return nil, fmt.Errorf("%w: %s", ErrSlotTaken, b.Key())
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование по ID и блокирует строку до конца транзакции
// Вне транзакции работает как GetByID
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return b, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		OrderBy("booking_date DESC", "start_hour DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": storedStatus(*filter.Status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByFacilityWithFilter получает бронирования площадки с фильтрацией
//
// Примеры использования:
//
// 1. Все неотмененные бронирования площадки:
//    filter := domain.FacilityBookingsFilter{FacilityID: 1}
//
// 2. Бронирования на конкретную дату:
//    filter := domain.FacilityBookingsFilter{FacilityID: 1, StartDate: &date, EndDate: &date}
//
// 3. Все бронирования включая отмененные:
//    filter := domain.FacilityBookingsFilter{FacilityID: 1, IncludeCancelled: true}
func (r *Repository) GetByFacilityWithFilter(ctx context.Context, filter domain.FacilityBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"facility_id": filter.FacilityID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": domain.DateOnly(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": domain.DateOnly(*filter.EndDate)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": storedStatus(*filter.Status)})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	query, args, err := selectBuilder.OrderBy("booking_date ASC", "start_hour ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityWithFilter - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetStalePendingForUpdate получает pending-бронь на ключ слота, созданную не позже createdBefore
// Внутри транзакции строка блокируется. Если такой брони нет, возвращает ErrBookingNotFound
func (r *Repository) GetStalePendingForUpdate(ctx context.Context, key domain.SlotKey, createdBefore time.Time) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"facility_id":  key.FacilityID,
			"booking_date": key.Date,
			"start_hour":   key.Hour,
			"status":       string(domain.StatusPending),
		}).
		Where(squirrel.LtOrEq{"created_at": createdBefore})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStalePendingForUpdate - build select query: %w", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStalePendingForUpdate - scan booking: %w", ErrScanRow, err)
	}

	return b, nil
}

// Cancel сохраняет отмену брони
// Обновляет только неотмененную бронь, иначе ErrStatusMismatch
func (r *Repository) Cancel(ctx context.Context, b *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(domain.StatusCancelled)).
		Set("cancellation_reason", b.CancellationReason).
		Set("cancelled_at", b.CancelledAt).
		Set("cancelled_by", b.CancelledBy).
		Set("updated_at", b.UpdatedAt).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, executor, "Cancel", query, args)
}

// Confirm переводит pending-бронь в confirmed
func (r *Repository) Confirm(ctx context.Context, id int64, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(domain.StatusConfirmed)).
		Set("confirmed_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id, "status": string(domain.StatusPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %w", ErrBuildQuery, err)
	}

	return r.execSingle(ctx, executor, "Confirm", query, args)
}

func (r *Repository) execSingle(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStatusMismatch
	}

	return nil
}

// storedStatus completed не хранится, такие брони лежат как confirmed
func storedStatus(s domain.BookingStatus) string {
	if s == domain.StatusCompleted {
		return string(domain.StatusConfirmed)
	}
	return string(s)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var status string

	err := row.Scan(
		&b.ID,
		&b.FacilityID,
		&b.UserID,
		&b.BookingDate,
		&b.StartHour,
		&b.EndHour,
		&b.TotalPrice,
		&b.DepositPaid,
		&b.CreditApplied,
		&b.RemainingAmount,
		&status,
		&b.CreditCode,
		&b.CancellationReason,
		&b.CancelledAt,
		&b.CancelledBy,
		&b.ConfirmedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Status = domain.BookingStatus(status)
	b.BookingDate = domain.DateOnly(b.BookingDate)

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

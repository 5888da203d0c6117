package blockedslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StadiumBooking/pkg/pgerrors"
	"github.com/m04kA/SMC-StadiumBooking/pkg/psqlbuilder"
)

const slotKeyConstraint = "blocked_slots_slot_key"

var blockColumns = []string{"id", "facility_id", "slot_date", "start_hour", "end_hour", "reason", "created_by", "created_at"}

// Repository репозиторий блокировок слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает блокировку слота
func (r *Repository) Create(ctx context.Context, s *domain.BlockedSlot) (*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_slots").
		Columns("facility_id", "slot_date", "start_hour", "end_hour", "reason", "created_by", "created_at").
		Values(s.FacilityID, s.SlotDate, s.StartHour, s.EndHour, s.Reason, s.CreatedBy, s.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID); err != nil {
		if pgerrors.IsUniqueViolation(err, slotKeyConstraint) {
			return nil, fmt.Errorf("%w: %s", ErrSlotTaken, s.Key())
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return s, nil
}

// DeleteByKey удаляет блокировку по ключу слота и возвращает удаленную запись
func (r *Repository) DeleteByKey(ctx context.Context, key domain.SlotKey) (*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_slots").
		Where(squirrel.Eq{
			"facility_id": key.FacilityID,
			"slot_date":   key.Date,
			"start_hour":  key.Hour,
		}).
		Suffix("RETURNING " + strings.Join(blockColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteByKey - build delete query: %w", ErrBuildQuery, err)
	}

	s, err := scanBlock(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteByKey - execute delete: %w", ErrExecQuery, err)
	}

	return s, nil
}

// GetByFacilityAndDate получает блокировки площадки на дату
func (r *Repository) GetByFacilityAndDate(ctx context.Context, facilityID int64, date time.Time) ([]*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockColumns...).
		From("blocked_slots").
		Where(squirrel.Eq{"facility_id": facilityID, "slot_date": domain.DateOnly(date)}).
		OrderBy("start_hour ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.BlockedSlot, 0)
	for rows.Next() {
		s, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByFacilityAndDate - scan row: %w", ErrScanRow, err)
		}
		blocks = append(blocks, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityAndDate - rows error: %w", ErrScanRow, err)
	}

	return blocks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlock(row rowScanner) (*domain.BlockedSlot, error) {
	var s domain.BlockedSlot
	err := row.Scan(
		&s.ID,
		&s.FacilityID,
		&s.SlotDate,
		&s.StartHour,
		&s.EndHour,
		&s.Reason,
		&s.CreatedBy,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.SlotDate = domain.DateOnly(s.SlotDate)

	return &s, nil
}

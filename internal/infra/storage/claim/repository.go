package claim

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StadiumBooking/pkg/pgerrors"
	"github.com/m04kA/SMC-StadiumBooking/pkg/psqlbuilder"
)

const slotClaimsPKey = "slot_claims_pkey"

// Repository репозиторий пространства исключения слотов.
// Первичный ключ (facility_id, slot_date, start_hour) гарантирует, что бронь и блокировка
// никогда не займут один и тот же час.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Claim занимает ключ слота за владельцем
// Должен вызываться в той же транзакции, что и вставка брони или блокировки
func (r *Repository) Claim(ctx context.Context, c domain.SlotClaim) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_claims").
		Columns("facility_id", "slot_date", "start_hour", "owner_kind", "owner_id").
		Values(c.Key.FacilityID, c.Key.Date, c.Key.Hour, string(c.OwnerKind), c.OwnerID).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Claim - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if pgerrors.IsUniqueViolation(err, slotClaimsPKey) {
			return fmt.Errorf("%w: %s", ErrSlotTaken, c.Key)
		}
		return fmt.Errorf("%w: Claim - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// Release освобождает ключ, если он принадлежит указанному владельцу
func (r *Repository) Release(ctx context.Context, key domain.SlotKey, kind domain.ClaimKind, ownerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slot_claims").
		Where(squirrel.Eq{
			"facility_id": key.FacilityID,
			"slot_date":   key.Date,
			"start_hour":  key.Hour,
			"owner_kind":  string(kind),
			"owner_id":    ownerID,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrClaimNotFound
	}

	return nil
}

// Get возвращает текущего владельца ключа
func (r *Repository) Get(ctx context.Context, key domain.SlotKey) (*domain.SlotClaim, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("facility_id", "slot_date", "start_hour", "owner_kind", "owner_id", "created_at").
		From("slot_claims").
		Where(squirrel.Eq{
			"facility_id": key.FacilityID,
			"slot_date":   key.Date,
			"start_hour":  key.Hour,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %w", ErrBuildQuery, err)
	}

	var c domain.SlotClaim
	var kind string
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.Key.FacilityID,
		&c.Key.Date,
		&c.Key.Hour,
		&kind,
		&c.OwnerID,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan claim: %w", ErrScanRow, err)
	}

	c.OwnerKind = domain.ClaimKind(kind)
	c.Key.Date = domain.DateOnly(c.Key.Date)

	return &c, nil
}

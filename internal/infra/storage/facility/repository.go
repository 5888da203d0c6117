package facility

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-StadiumBooking/internal/domain"
	"github.com/m04kA/SMC-StadiumBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StadiumBooking/pkg/psqlbuilder"
)

var facilityColumns = []string{
	"id",
	"owner_id",
	"name",
	"price_per_hour",
	"deposit_type",
	"deposit_value",
	"open_hour",
	"close_hour",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с площадками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория площадок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую площадку
func (r *Repository) Create(ctx context.Context, f *domain.Facility) (*domain.Facility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("facilities").
		Columns("owner_id", "name", "price_per_hour", "deposit_type", "deposit_value", "open_hour", "close_hour", "is_active").
		Values(f.OwnerID, f.Name, f.PricePerHour, string(f.DepositType), f.DepositValue, f.OpenHour, f.CloseHour, f.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return f, nil
}

// GetByID получает площадку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Facility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(facilityColumns...).
		From("facilities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var f domain.Facility
	var depositType string
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&f.PricePerHour,
		&depositType,
		&f.DepositValue,
		&f.OpenHour,
		&f.CloseHour,
		&f.IsActive,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFacilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan facility: %w", ErrScanRow, err)
	}

	f.DepositType = domain.DepositType(depositType)

	return &f, nil
}

// Update обновляет изменяемые поля площадки
func (r *Repository) Update(ctx context.Context, f *domain.Facility) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("facilities").
		Set("name", f.Name).
		Set("price_per_hour", f.PricePerHour).
		Set("deposit_type", string(f.DepositType)).
		Set("deposit_value", f.DepositValue).
		Set("open_hour", f.OpenHour).
		Set("close_hour", f.CloseHour).
		Set("is_active", f.IsActive).
		Set("updated_at", f.UpdatedAt).
		Where(squirrel.Eq{"id": f.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrFacilityNotFound
	}

	return nil
}

package credit

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

const codeConstraint = "compensation_credits_code_key"

var creditColumns = []string{
	"id",
	"code",
	"beneficiary_id",
	"value",
	"is_used",
	"expires_at",
	"source_booking_id",
	"redeemed_booking_id",
	"redeemed_at",
	"created_at",
}

// Repository репозиторий компенсаций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория компенсаций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую компенсацию
func (r *Repository) Create(ctx context.Context, c *domain.CompensationCredit) (*domain.CompensationCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("compensation_credits").
		Columns("code", "beneficiary_id", "value", "is_used", "expires_at", "source_booking_id", "created_at").
		Values(c.Code, c.BeneficiaryID, c.Value, c.IsUsed, c.ExpiresAt, c.SourceBookingID, c.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		if pgerrors.IsUniqueViolation(err, codeConstraint) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return c, nil
}

// GetByCodeForUpdate получает компенсацию по коду
// Внутри транзакции строка блокируется до коммита: параллельное погашение одного кода ждет
func (r *Repository) GetByCodeForUpdate(ctx context.Context, code string) (*domain.CompensationCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(creditColumns...).
		From("compensation_credits").
		Where(squirrel.Eq{"code": code})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCodeForUpdate - build select query: %w", ErrBuildQuery, err)
	}

	c, err := scanCredit(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCreditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCodeForUpdate - scan credit: %w", ErrScanRow, err)
	}

	return c, nil
}

// MarkUsed помечает компенсацию погашенной и связывает с бронью
func (r *Repository) MarkUsed(ctx context.Context, code string, bookingID int64, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("compensation_credits").
		Set("is_used", true).
		Set("redeemed_booking_id", bookingID).
		Set("redeemed_at", now).
		Where(squirrel.Eq{"code": code, "is_used": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkUsed - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkUsed - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkUsed - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAlreadyUsed
	}

	return nil
}

// Restore снимает погашение компенсации бронью bookingID
// Если компенсация не погашена этой бронью, возвращает ErrNotRedeemed
func (r *Repository) Restore(ctx context.Context, code string, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("compensation_credits").
		Set("is_used", false).
		Set("redeemed_booking_id", nil).
		Set("redeemed_at", nil).
		Where(squirrel.Eq{"code": code, "is_used": true, "redeemed_booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Restore - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Restore - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Restore - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNotRedeemed
	}

	return nil
}

// GetByBeneficiary получает компенсации пользователя, новые первыми
func (r *Repository) GetByBeneficiary(ctx context.Context, userID int64) ([]*domain.CompensationCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(creditColumns...).
		From("compensation_credits").
		Where(squirrel.Eq{"beneficiary_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBeneficiary - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBeneficiary - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	credits := make([]*domain.CompensationCredit, 0)
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBeneficiary - scan row: %w", ErrScanRow, err)
		}
		credits = append(credits, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBeneficiary - rows error: %w", ErrScanRow, err)
	}

	return credits, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCredit(row rowScanner) (*domain.CompensationCredit, error) {
	var c domain.CompensationCredit
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.BeneficiaryID,
		&c.Value,
		&c.IsUsed,
		&c.ExpiresAt,
		&c.SourceBookingID,
		&c.RedeemedBookingID,
		&c.RedeemedAt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StadiumBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StadiumBooking/pkg/pgerrors"
)

// ErrStorageUnavailable возвращается, когда хранилище недоступно после повторной попытки
var ErrStorageUnavailable = errors.New("txmanager: storage unavailable")

// maxAttempts количество попыток выполнения транзакции (первая + один повтор)
const maxAttempts = 2

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// RetryRecorder получатель событий повтора транзакции
type RetryRecorder interface {
	IncTxRetry()
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TransactionManager выполняет функции внутри транзакции
// Транзакция передается через контекст (dbmetrics.WithTx), репозитории забирают её через dbmetrics.GetExecutor
type TransactionManager struct {
	db      TxBeginner
	retries RetryRecorder
	logger  Logger
}

// NewTransactionManager создает новый менеджер транзакций
// retries и logger могут быть nil
func NewTransactionManager(db TxBeginner, retries RetryRecorder, logger Logger) *TransactionManager {
	return &TransactionManager{db: db, retries: retries, logger: logger}
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
// REPEATABLE READ: все запросы fn видят один снимок данных
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

// run выполняет транзакцию, повторяя её один раз при временной ошибке
// Вложенный вызов переиспользует внешнюю транзакцию
func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = m.runOnce(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if !pgerrors.IsTransient(err) || ctx.Err() != nil {
			return err
		}
		if attempt < maxAttempts {
			if m.retries != nil {
				m.retries.IncTxRetry()
			}
			if m.logger != nil {
				m.logger.Warn("txmanager: transient error, retrying transaction: %v", err)
			}
		}
	}

	if m.logger != nil {
		m.logger.Error("txmanager: transaction failed after %d attempts: %v", maxAttempts, err)
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && m.logger != nil {
			m.logger.Error("txmanager: rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

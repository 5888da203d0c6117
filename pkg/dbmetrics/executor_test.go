package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func TestGetExecutor(t *testing.T) {
	db := &DB{db: &sql.DB{}}
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))

	tx := &fakeTx{}
	txCtx := WithTx(ctx, tx)

	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db))

	got, ok := GetTx(txCtx)
	assert.True(t, ok)
	assert.Same(t, tx, got)
}

func TestWithTx_NilTransaction(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	assert.False(t, IsInTransaction(ctx))
}

package services

import (
	"context"
	"fmt"
	"movierec/internal/database"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// TransactionService scopes multi-statement writes: genre preference rebuilds,
// popularity recomputes, rating saves.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside a transaction. An error or panic from fn rolls back.
// A panic comes back as an error unless the rollback itself fails.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.Function("Execute").TraceFromContext(ctx)

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}

		panicErr := log.ErrMsg(fmt.Sprintf("panic during transaction: %v", recovered))
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("rollback failed after panic", rollbackErr, "panic", recovered)
			panic(fmt.Sprintf("transaction rollback failed: %v (original panic: %v)", rollbackErr, recovered))
		}
		err = panicErr
	}()

	if err = fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}

// ExecuteWithLockTimeout bounds every lock wait inside fn. Postgres reports an
// exceeded wait as SQLSTATE 55P03, the same code as a failed NOWAIT.
func (ts *TransactionService) ExecuteWithLockTimeout(
	ctx context.Context,
	timeout time.Duration,
	fn func(context.Context, *gorm.DB) error,
) error {
	return ts.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		statement := fmt.Sprintf("SET LOCAL lock_timeout = '%ds'", int(timeout.Seconds()))
		if err := tx.WithContext(ctx).Exec(statement).Error; err != nil {
			return ts.log.Function("ExecuteWithLockTimeout").Err("failed to set lock timeout", err)
		}
		return fn(ctx, tx)
	})
}

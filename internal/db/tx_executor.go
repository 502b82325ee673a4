package db

import (
	"context"
	"database/sql"
	"log/slog"
	"math"
	prand "math/rand"
	"time"
)

const (
	// DefaultNumTxRetries is the default number of attempts of a read
	// transaction that keeps hitting a locked database.
	DefaultNumTxRetries = 10

	// DefaultInitialRetryDelay is the base delay between attempts.
	DefaultInitialRetryDelay = 40 * time.Millisecond

	// DefaultMaxRetryDelay caps the backoff.
	DefaultMaxRetryDelay = 2 * time.Second
)

type txExecutorOptions struct {
	numRetries        int
	initialRetryDelay time.Duration
	maxRetryDelay     time.Duration
}

func defaultTxExecutorOptions() *txExecutorOptions {
	return &txExecutorOptions{
		numRetries:        DefaultNumTxRetries,
		initialRetryDelay: DefaultInitialRetryDelay,
		maxRetryDelay:     DefaultMaxRetryDelay,
	}
}

// randRetryDelay returns a delay between 50% and 150% of the initial delay,
// doubled for each attempt and capped at the maximum.
func (t *txExecutorOptions) randRetryDelay(attempt int) time.Duration {
	halfDelay := t.initialRetryDelay / 2
	randDelay := prand.Int63n(int64(t.initialRetryDelay)) //nolint:gosec

	initialDelay := halfDelay + time.Duration(randDelay)
	if attempt == 0 {
		return initialDelay
	}

	// Limit the power to 32 to avoid overflows.
	factor := time.Duration(math.Pow(2, math.Min(float64(attempt), 32)))
	//nolint:durationcheck
	actualDelay := initialDelay * factor

	if actualDelay > t.maxRetryDelay {
		return t.maxRetryDelay
	}

	return actualDelay
}

// TxExecutorOption is a functional option of the ReadExecutor.
type TxExecutorOption func(*txExecutorOptions)

// WithTxRetries sets the number of attempts for a locked database.
func WithTxRetries(numRetries int) TxExecutorOption {
	return func(o *txExecutorOptions) {
		o.numRetries = numRetries
	}
}

// WithTxRetryDelay sets the base delay between attempts.
func WithTxRetryDelay(delay time.Duration) TxExecutorOption {
	return func(o *txExecutorOptions) {
		o.initialRetryDelay = delay
	}
}

// ReadExecutor runs read-only transactions, retrying with a randomized
// backoff while the generation service holds the write lock.
type ReadExecutor struct {
	db   *sql.DB
	opts *txExecutorOptions
	log  *slog.Logger
}

// NewReadExecutor creates a ReadExecutor over db.
func NewReadExecutor(db *sql.DB, log *slog.Logger,
	opts ...TxExecutorOption) *ReadExecutor {

	txOpts := defaultTxExecutorOptions()
	for _, optFunc := range opts {
		optFunc(txOpts)
	}

	if log == nil {
		log = slog.Default()
	}

	return &ReadExecutor{
		db:   db,
		opts: txOpts,
		log:  log,
	}
}

// ExecRead runs txBody in a read-only transaction so every query observes
// the same state. The transaction is always rolled back.
func (r *ReadExecutor) ExecRead(ctx context.Context,
	txBody func(tx *sql.Tx) error) error {

	for i := 0; i < r.opts.numRetries; i++ {
		err := r.execOnce(ctx, txBody)
		if err == nil {
			return nil
		}

		dbErr := MapSQLError(err)
		if !IsBusyError(dbErr) {
			return dbErr
		}

		retryDelay := r.opts.randRetryDelay(i)
		r.log.DebugContext(
			ctx, "Retrying read on locked database",
			"attempt_number", i, "delay", retryDelay,
		)

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return ErrRetriesExceeded
}

func (r *ReadExecutor) execOnce(ctx context.Context,
	txBody func(tx *sql.Tx) error) error {

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	return txBody(tx)
}

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the query surface shared by the pool and by an open transaction, so
// repositories work the same way inside and outside WithTx.
type DB interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row

	// WithTx executes txFunc in a transaction. The transaction is committed when
	// txFunc returns nil and rolled back otherwise. Calling WithTx on a DB that
	// is already a transaction reuses it.
	WithTx(ctx context.Context, txFunc func(DB) error) error
}

type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

var (
	_ DB            = (*Client)(nil)
	_ HealthChecker = (*Client)(nil)
)

type Client struct {
	*pgxpool.Pool
	txOptions pgx.TxOptions
}

// NewClient creates a new db client. Transactions run at read committed
// isolation; row locks taken by the repositories serialise conflicting writers.
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{
		Pool:      pool,
		txOptions: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

func (c *Client) WithTx(ctx context.Context, txFunc func(DB) error) (err error) {
	tx, err := c.BeginTx(ctx, c.txOptions)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			rbErr := tx.Rollback(ctx)
			if rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
			}
		}
	}()

	if err = txFunc(&txWrapper{Tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("commit transaction: %w", err)
	}

	return err
}

func (c *Client) IsHealthy(ctx context.Context) (bool, error) {
	if err := c.Ping(ctx); err != nil {
		return false, fmt.Errorf("ping database: %w", err)
	}
	return true, nil
}

type txWrapper struct {
	pgx.Tx
}

func (t *txWrapper) WithTx(_ context.Context, txFunc func(DB) error) error {
	return txFunc(t)
}

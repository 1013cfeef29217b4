package dbx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// WithTxx is WithTx for sqlx handles. fn receives a *sqlx.Tx, which satisfies
// sqlx.ExtContext, so repositories bound to ExtContext work unchanged inside
// the transaction.
func WithTxx(ctx context.Context, db *sqlx.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

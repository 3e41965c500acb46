// Package store carries a gorm transaction through context so that a
// service can span several repositories with one all-or-nothing unit of
// work.
package store

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx runs fn inside a database transaction. The transaction handle
// travels in the derived context; repositories pick it up with DB.
// Returning an error (or a cancelled context) rolls everything back.
func WithTx(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// DB returns the in-flight transaction when ctx carries one, otherwise
// the fallback handle bound to ctx.
func DB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}

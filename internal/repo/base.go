package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the gorm handle shared by the catalog and loyalty repositories.
type Base struct {
	db *gorm.DB
}

// NewBase wraps an open gorm connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx yields the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Transaction runs fn against a Base scoped to a single transaction.
func (b Base) Transaction(ctx context.Context, fn func(tx Base) error) error {
	return b.DB(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Base{db: tx})
	})
}

package catalog

import (
	"context"

	"github.com/angelmondragon/pos-register/internal/repo"
	"github.com/angelmondragon/pos-register/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"github.com/angelmondragon/pos-register/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads the active products table.
type Repository struct {
	repo.Base
}

// NewRepository binds the repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListProducts returns the active products by sort order, then id.
func (r *Repository) ListProducts(ctx context.Context) ([]types.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]types.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.Product{ID: row.ID, Name: row.Name, Price: row.Price})
	}
	return out, nil
}

// Seed upserts products, keeping the given order as sort order.
func (r *Repository) Seed(ctx context.Context, products []types.Product) error {
	if err := Validate(products); err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}
	rows := make([]models.Product, 0, len(products))
	for i, p := range normalize(products) {
		rows = append(rows, models.Product{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			SortOrder: i,
			IsActive:  true,
		})
	}
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "sort_order", "is_active", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed products")
	}
	return nil
}

package loyalty

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/pos-register/internal/repo"
	"github.com/angelmondragon/pos-register/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists loyalty balances.
type Store interface {
	Load(ctx context.Context, accountID string) (int64, error)
	Save(ctx context.Context, accountID string, points int64) error
}

// Repository is the gorm-backed Store.
type Repository struct {
	repo.Base
}

// NewRepository binds the repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Load returns the stored balance. A missing row is reported as CodeNotFound.
func (r *Repository) Load(ctx context.Context, accountID string) (int64, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "loyalty account id is required")
	}
	var row models.LoyaltyAccount
	err := r.DB(ctx).Where("id = ?", accountID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkgerrors.Newf(pkgerrors.CodeNotFound, "loyalty account %q not found", accountID)
	}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
	}
	return row.Points, nil
}

// Save upserts the balance for accountID.
func (r *Repository) Save(ctx context.Context, accountID string, points int64) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "loyalty account id is required")
	}
	row := models.LoyaltyAccount{ID: accountID, Points: points}
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"points", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save loyalty account")
	}
	return nil
}

// Open restores accountID from store, seeding it with opening when the row
// does not exist yet.
func Open(ctx context.Context, store Store, accountID string, opening int64) (*Account, error) {
	if store == nil {
		return NewAccount(opening), nil
	}
	points, err := store.Load(ctx, accountID)
	switch {
	case err == nil:
		return NewAccount(points), nil
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		acct := NewAccount(opening)
		if err := store.Save(ctx, accountID, acct.Balance()); err != nil {
			return nil, err
		}
		return acct, nil
	default:
		return nil, err
	}
}

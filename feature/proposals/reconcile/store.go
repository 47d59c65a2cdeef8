package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"proposal-ingest/core/reconcile"
	"proposal-ingest/feature/proposals/models"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Store persists proposals through GORM. Each batch runs in one database transaction.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Begin opens the transaction a batch runs in.
func (s *Store) Begin(ctx context.Context) (reconcile.Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return &storeTx{tx: tx, statusPredicate: statusChangedPredicate(s.db.Dialector.Name())}, nil
}

type storeTx struct {
	tx              *gorm.DB
	statusPredicate string
}

func (t *storeTx) LoadExistingKeys(ctx context.Context) (map[string]struct{}, error) {
	var keys []string
	if err := t.tx.WithContext(ctx).Model(&models.Proposal{}).Pluck("esas_no", &keys).Error; err != nil {
		return nil, fmt.Errorf("failed to load case numbers: %w", err)
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}

func (t *storeTx) Insert(ctx context.Context, rec reconcile.Record) error {
	if err := t.tx.WithContext(ctx).Create(models.FromRecord(rec)).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("failed to insert %s: %w: %w", rec.CaseNumber, reconcile.ErrDuplicateKey, err)
		}
		return fmt.Errorf("failed to insert %s: %w", rec.CaseNumber, err)
	}
	return nil
}

// UpdateStatusIfChanged writes status only when it differs from the stored value,
// treating NULL as a comparable value. updated_at moves only with an actual change.
func (t *storeTx) UpdateStatusIfChanged(ctx context.Context, caseNumber string, status *string) (bool, error) {
	res := t.tx.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("esas_no = ?", caseNumber).
		Where(t.statusPredicate, status).
		Update("durum", status)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update status of %s: %w", caseNumber, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (t *storeTx) Commit() error {
	if err := t.tx.Commit().Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("failed to commit: %w: %w", reconcile.ErrDuplicateKey, err)
		}
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (t *storeTx) Rollback() error {
	if err := t.tx.Rollback().Error; err != nil {
		return fmt.Errorf("failed to rollback: %w", err)
	}
	return nil
}

// statusChangedPredicate returns the null-safe "durum differs from ?" condition per dialect.
func statusChangedPredicate(dialect string) string {
	switch dialect {
	case "mysql":
		return "NOT (durum <=> ?)"
	case "sqlite":
		return "durum IS NOT ?"
	default:
		return "durum IS DISTINCT FROM ?"
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

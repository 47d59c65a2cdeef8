package models

import (
	"context"
	"fmt"
	"time"

	"proposal-ingest/core/reconcile"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TableName is the table proposals are persisted in.
const TableName = "proposals"

// Proposal is the persisted shape of a legislative proposal.
// Only Status changes after the row is created.
type Proposal struct {
	ID              uint           `gorm:"primaryKey;column:id"`
	LegislativeTerm *string        `gorm:"column:donem_yasama;type:text"`
	CaseNumber      CaseKey        `gorm:"column:esas_no;uniqueIndex:idx_proposals_esas_no;not null"`
	Date            *string        `gorm:"column:tarih;type:text"`
	Proposer        *string        `gorm:"column:milletvekili_veya_kurum;type:text"`
	Summary         *string        `gorm:"column:ozet;type:text"`
	Status          *string        `gorm:"column:durum;type:text"`
	Links           datatypes.JSON `gorm:"column:linkler"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// CaseKey is the type of the esas_no column. MySQL cannot index a TEXT column
// without a prefix length, so it gets VARCHAR(191) (the utf8mb4 index limit);
// every other dialect uses unbounded TEXT like the deployed table.
type CaseKey string

// GormDBDataType implements gorm's per-dialect column type hook.
func (CaseKey) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "mysql" {
		return "varchar(191)"
	}
	return "text"
}

func (Proposal) TableName() string {
	return TableName
}

// FromRecord builds the row inserted for a new record.
func FromRecord(rec reconcile.Record) *Proposal {
	return &Proposal{
		LegislativeTerm: rec.LegislativeTerm,
		CaseNumber:      CaseKey(rec.CaseNumber),
		Date:            rec.Date,
		Proposer:        rec.Proposer,
		Summary:         rec.Summary,
		Status:          rec.Status,
		Links:           datatypes.JSON(rec.LinksOrEmpty()),
	}
}

// ToRecord converts a stored row back into a reconcile.Record.
func (p Proposal) ToRecord() reconcile.Record {
	return reconcile.Record{
		LegislativeTerm: p.LegislativeTerm,
		CaseNumber:      string(p.CaseNumber),
		Date:            p.Date,
		Proposer:        p.Proposer,
		Summary:         p.Summary,
		Status:          p.Status,
		Links:           []byte(p.Links),
	}
}

// EnsureSchema creates the proposals table and its unique index when missing.
// It reports whether the table was created. An existing table is left untouched.
func EnsureSchema(ctx context.Context, db *gorm.DB) (bool, error) {
	m := db.WithContext(ctx).Migrator()
	if m.HasTable(&Proposal{}) {
		return false, nil
	}
	if err := m.CreateTable(&Proposal{}); err != nil {
		return false, fmt.Errorf("failed to create %s table: %w", TableName, err)
	}
	return true, nil
}

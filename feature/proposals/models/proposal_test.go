package models_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"proposal-ingest/core/reconcile"
	"proposal-ingest/feature/proposals/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func strPtr(s string) *string { return &s }

func TestEnsureSchema(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	created, err := models.EnsureSchema(ctx, db)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, db.Migrator().HasTable(models.TableName))
	assert.True(t, db.Migrator().HasIndex(&models.Proposal{}, "idx_proposals_esas_no"))

	require.NoError(t, db.Create(models.FromRecord(reconcile.Record{CaseNumber: "2/1"})).Error)

	created, err = models.EnsureSchema(ctx, db)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	db.Model(&models.Proposal{}).Count(&count)
	assert.Equal(t, int64(1), count, "existing rows survive a second bootstrap")
}

func TestUniqueCaseNumber(t *testing.T) {
	db := openDB(t)
	_, err := models.EnsureSchema(context.Background(), db)
	require.NoError(t, err)

	require.NoError(t, db.Create(models.FromRecord(reconcile.Record{CaseNumber: "2/1"})).Error)
	err = db.Create(models.FromRecord(reconcile.Record{CaseNumber: "2/1"})).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFromRecord(t *testing.T) {
	rec := reconcile.Record{
		LegislativeTerm: strPtr("28. Dönem 2. Yasama Yılı"),
		CaseNumber:      "2/1002",
		Status:          strPtr("Komisyonda"),
		Links:           json.RawMessage(`[{"metin":"https://example.org/2-1002.pdf"}]`),
	}

	p := models.FromRecord(rec)
	assert.Equal(t, models.CaseKey("2/1002"), p.CaseNumber)
	assert.Equal(t, rec.Status, p.Status)
	assert.Nil(t, p.Summary)
	assert.JSONEq(t, `[{"metin":"https://example.org/2-1002.pdf"}]`, string(p.Links))

	empty := models.FromRecord(reconcile.Record{CaseNumber: "2/1"})
	assert.Equal(t, "[]", string(empty.Links))

	back := p.ToRecord()
	assert.Equal(t, rec.CaseNumber, back.CaseNumber)
	assert.Equal(t, *rec.LegislativeTerm, *back.LegislativeTerm)
}

func TestCaseKeyColumnType(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mysqlDB, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)
	postgresDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	assert.Equal(t, "varchar(191)", models.CaseKey("").GormDBDataType(mysqlDB, nil))
	assert.Equal(t, "text", models.CaseKey("").GormDBDataType(postgresDB, nil))
	assert.Equal(t, "text", models.CaseKey("").GormDBDataType(openDB(t), nil))
}

func TestEnsureSchema_CaseNumberIsText(t *testing.T) {
	db := openDB(t)
	_, err := models.EnsureSchema(context.Background(), db)
	require.NoError(t, err)

	columnTypes, err := db.Migrator().ColumnTypes(&models.Proposal{})
	require.NoError(t, err)

	found := false
	for _, ct := range columnTypes {
		if ct.Name() == "esas_no" {
			found = true
			assert.Equal(t, "TEXT", strings.ToUpper(ct.DatabaseTypeName()))
		}
	}
	assert.True(t, found)
}

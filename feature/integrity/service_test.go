package integrity

import (
	"context"
	"testing"

	"proposal-ingest/core/storage/mocks"
	"proposal-ingest/feature/integrity/checks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestService_CheckArchive(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "proposals", "", zap.NewNop(), nil)

	mockClient.On("BucketExists", mock.Anything, "proposals").Return(true, nil)

	report, err := svc.CheckArchive(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Exists)
	assert.False(t, report.Fixed)
}

func TestService_FixArchive(t *testing.T) {
	t.Run("Creates Missing Bucket", func(t *testing.T) {
		mockClient := new(mocks.Client)
		svc := NewService(mockClient, "proposals", "us-east-1", zap.NewNop(), nil)

		mockClient.On("BucketExists", mock.Anything, "proposals").Return(false, nil)
		mockClient.On("MakeBucket", mock.Anything, "proposals", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil).Once()

		report, err := svc.FixArchive(context.Background())
		require.NoError(t, err)
		assert.True(t, report.Exists)
		assert.True(t, report.Fixed)
		mockClient.AssertExpectations(t)
	})

	t.Run("Existing Bucket Untouched", func(t *testing.T) {
		mockClient := new(mocks.Client)
		svc := NewService(mockClient, "proposals", "", zap.NewNop(), nil)

		mockClient.On("BucketExists", mock.Anything, "proposals").Return(true, nil)

		report, err := svc.FixArchive(context.Background())
		require.NoError(t, err)
		assert.False(t, report.Fixed)
		mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Create Fails", func(t *testing.T) {
		mockClient := new(mocks.Client)
		svc := NewService(mockClient, "proposals", "", zap.NewNop(), nil)

		mockClient.On("BucketExists", mock.Anything, "proposals").Return(false, nil)
		mockClient.On("MakeBucket", mock.Anything, "proposals", mock.Anything).Return(assert.AnError)

		_, err := svc.FixArchive(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestService_StorageDisabled(t *testing.T) {
	svc := NewService(nil, "proposals", "", zap.NewNop(), nil)

	_, err := svc.CheckArchive(context.Background())
	assert.ErrorIs(t, err, ErrStorageDisabled)

	_, err = svc.FixArchive(context.Background())
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestService_CheckServer(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	svc := NewService(nil, "proposals", "", zap.NewNop(), db)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("esas_no", "varchar(191)", "NO", "UNI", nil, "")
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `proposals`").WillReturnRows(rows)

	report, err := svc.CheckServer()
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Contains(t, report.Tables["proposals"].MissingColumns, "durum")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestService_CheckServer_NoDatabase(t *testing.T) {
	svc := NewService(nil, "proposals", "", zap.NewNop(), nil)

	_, err := svc.CheckServer()
	assert.Error(t, err)
}

func TestService_CheckAll(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "proposals", "", zap.NewNop(), db)

	sqlMock.ExpectQuery("SHOW COLUMNS FROM `proposals`").WillReturnError(assert.AnError)
	mockClient.On("BucketExists", mock.Anything, "proposals").Return(false, assert.AnError)

	report := svc.CheckAll(context.Background())

	server, ok := report["server"].(*checks.ServerReport)
	require.True(t, ok)
	assert.False(t, server.Matched)

	archive, ok := report["archive"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "error", archive["status"])
}

package integrity

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"proposal-ingest/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client, sqlmock.Sqlmock) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)
	logger := zap.NewNop()
	svc := NewService(mockClient, "proposals", "", logger, db)
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient, sqlMock
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	var body map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestHandleArchiveCheck(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "proposals").Return(false, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["exists"])
	assert.Equal(t, "proposals", body["bucket"])
	mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleArchiveCheck_Fix(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "proposals").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "proposals", mock.Anything).Return(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/archive?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["fixed"])
	assert.Equal(t, true, body["exists"])
}

func TestHandleArchiveCheck_Error(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "proposals").Return(false, assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleArchiveCheck_Disabled(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(nil, "proposals", "", zap.NewNop(), nil)).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestHandleServerCheck(t *testing.T) {
	app, _, sqlMock := setupTestApp(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("durum", "text", "YES", "", nil, "")
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `proposals`").WillReturnRows(rows)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/server", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["matched"])
	assert.Equal(t, "mysql", body["dialect"])
}

func TestHandleServerCheck_NoDatabase(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(nil, "proposals", "", zap.NewNop(), nil)).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/server", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient, sqlMock := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "proposals").Return(true, nil)
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `proposals`").WillReturnError(assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Contains(t, body, "server")
	archive, ok := body["archive"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, archive["exists"])
}

func TestHandleIntegrityCheck_StorageDisabled(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(nil, "proposals", "", zap.NewNop(), nil)).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	archive := body["archive"].(map[string]any)
	assert.Equal(t, "disabled", archive["status"])
	server := body["server"].(map[string]any)
	assert.Equal(t, "error", server["status"])
}

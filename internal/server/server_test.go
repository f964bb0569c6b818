package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/rentfolio/internal/clock"
	"github.com/smallbiznis/rentfolio/internal/config"
	delinquencydomain "github.com/smallbiznis/rentfolio/internal/delinquency/domain"
	delinquencyrepo "github.com/smallbiznis/rentfolio/internal/delinquency/repository"
	delinquencysvc "github.com/smallbiznis/rentfolio/internal/delinquency/service"
	importerdomain "github.com/smallbiznis/rentfolio/internal/importer/domain"
	importerrepo "github.com/smallbiznis/rentfolio/internal/importer/repository"
	importersvc "github.com/smallbiznis/rentfolio/internal/importer/service"
	portfoliodomain "github.com/smallbiznis/rentfolio/internal/portfolio/domain"
	portfoliorepo "github.com/smallbiznis/rentfolio/internal/portfolio/repository"
	"github.com/smallbiznis/rentfolio/internal/providers/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupServer(t *testing.T) (*gin.Engine, *gorm.DB, snowflake.ID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&importerdomain.ImportJob{},
		&delinquencydomain.DelinquencyPlaybook{},
		&delinquencydomain.DelinquencyAction{},
		&portfoliodomain.Property{},
		&portfoliodomain.Unit{},
		&portfoliodomain.Tenant{},
		&portfoliodomain.Lease{},
		&portfoliodomain.Vendor{},
		&portfoliodomain.MaintenanceRequest{},
		&portfoliodomain.RentTransaction{},
		&portfoliodomain.Payment{},
		&portfoliodomain.SmsPreference{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	orgID := node.Generate()
	cfg := config.Config{
		DefaultOrgID:         int64(orgID),
		ImportMaxUploadBytes: 25 << 20,
	}

	importSvc := importersvc.New(importersvc.Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Config:    cfg,
		Repo:      importerrepo.Provide(),
		Portfolio: portfoliorepo.Provide(),
	})
	delinquencySvc := delinquencysvc.New(delinquencysvc.Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Repo:      delinquencyrepo.Provide(),
		Portfolio: portfoliorepo.Provide(),
		SMS:       &sms.NoOpProvider{},
	})

	engine := NewEngine(zap.NewNop())
	NewServer(ServerParams{
		Gin:            engine,
		Cfg:            cfg,
		DB:             db,
		GenID:          node,
		ImportSvc:      importSvc,
		DelinquencySvc: delinquencySvc,
	})
	return engine, db, orgID
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func uploadCSVRequest(t *testing.T, engine *gin.Engine, fileName, dataType, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("data_type", dataType))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/import/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

const propertiesCSV = `Property Name,Address,City,State,Zip
Sunset Villas,123 main street,austin,texas,78701
Oak Ridge,456 oak avenue,Dallas,TX,75201
`

func TestHealthz(t *testing.T) {
	engine, _, _ := setupServer(t)

	w := doRequest(t, engine, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadExecuteAndGetOverHTTP(t *testing.T) {
	engine, db, _ := setupServer(t)

	w := uploadCSVRequest(t, engine, "properties.csv", "properties", propertiesCSV)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	job, ok := data["job"].(map[string]any)
	require.True(t, ok)
	jobID, ok := job["id"].(string)
	require.True(t, ok)
	assert.Equal(t, "pending", job["status"])
	assert.NotEmpty(t, data["mapping"])
	assert.NotEmpty(t, data["preview"])

	w = doRequest(t, engine, http.MethodPost, "/v1/import/"+jobID+"/execute", gin.H{"dry_run": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	executed := decodeData(t, w)
	assert.Equal(t, "completed", executed["status"])
	assert.EqualValues(t, 2, executed["successful_rows"])

	var count int64
	require.NoError(t, db.Model(&portfoliodomain.Property{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	w = doRequest(t, engine, http.MethodGet, "/v1/import/"+jobID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decodeData(t, w)
	assert.Equal(t, "completed", fetched["status"])

	w = doRequest(t, engine, http.MethodGet, "/v1/import?page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUploadErrorMapping(t *testing.T) {
	engine, _, _ := setupServer(t)

	// No multipart file at all.
	w := doRequest(t, engine, http.MethodPost, "/v1/import/upload", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong extension.
	w = uploadCSVRequest(t, engine, "properties.pdf", "properties", propertiesCSV)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	// Unknown data type.
	w = uploadCSVRequest(t, engine, "properties.csv", "spaceships", propertiesCSV)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportJobErrorMapping(t *testing.T) {
	engine, _, _ := setupServer(t)

	w := doRequest(t, engine, http.MethodGet, "/v1/import/not-a-snowflake", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/v1/import/123456789", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Rollback on a job that never completed is a conflict.
	upload := uploadCSVRequest(t, engine, "properties.csv", "properties", propertiesCSV)
	require.Equal(t, http.StatusOK, upload.Code)
	jobID := decodeData(t, upload)["job"].(map[string]any)["id"].(string)

	w = doRequest(t, engine, http.MethodPost, "/v1/import/"+jobID+"/rollback", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrgHeaderValidation(t *testing.T) {
	engine, _, _ := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/import", nil)
	req.Header.Set(HeaderOrg, "not-a-number")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrgHeaderScopesRequests(t *testing.T) {
	engine, _, _ := setupServer(t)

	upload := uploadCSVRequest(t, engine, "properties.csv", "properties", propertiesCSV)
	require.Equal(t, http.StatusOK, upload.Code)
	jobID := decodeData(t, upload)["job"].(map[string]any)["id"].(string)

	// Another org cannot see the job.
	req := httptest.NewRequest(http.MethodGet, "/v1/import/"+jobID, nil)
	req.Header.Set(HeaderOrg, "987654321")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaybookLifecycleOverHTTP(t *testing.T) {
	engine, _, _ := setupServer(t)

	w := doRequest(t, engine, http.MethodPost, "/v1/delinquency/playbooks", gin.H{
		"name":              "Standard",
		"grace_period_days": 3,
		"reminder_intervals": []gin.H{
			{"days": 3, "action_type": "sms", "message_template": "Hi {tenantName}"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decodeData(t, w)
	playbookID, ok := created["id"].(string)
	require.True(t, ok)
	assert.Equal(t, "Standard", created["name"])

	w = doRequest(t, engine, http.MethodGet, "/v1/delinquency/playbooks/"+playbookID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, http.MethodPut, "/v1/delinquency/playbooks/"+playbookID, gin.H{
		"name": "Standard v2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeData(t, w)
	assert.Equal(t, "Standard v2", updated["name"])

	w = doRequest(t, engine, http.MethodGet, "/v1/delinquency/playbooks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "Standard v2"))

	w = doRequest(t, engine, http.MethodDelete, "/v1/delinquency/playbooks/"+playbookID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/v1/delinquency/playbooks/"+playbookID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaybookValidationOverHTTP(t *testing.T) {
	engine, _, _ := setupServer(t)

	// Missing name.
	w := doRequest(t, engine, http.MethodPost, "/v1/delinquency/playbooks", gin.H{
		"grace_period_days": 3,
		"reminder_intervals": []gin.H{
			{"days": 3, "action_type": "sms", "message_template": "Hi"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No intervals.
	w = doRequest(t, engine, http.MethodPost, "/v1/delinquency/playbooks", gin.H{
		"name":              "Empty",
		"grace_period_days": 3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListActionsRequiresPaymentID(t *testing.T) {
	engine, _, _ := setupServer(t)

	w := doRequest(t, engine, http.MethodGet, "/v1/delinquency/actions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTriggerSweepOverHTTP(t *testing.T) {
	engine, _, _ := setupServer(t)

	w := doRequest(t, engine, http.MethodPost, "/v1/delinquency/sweep", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeData(t, w)
	assert.EqualValues(t, 0, result["payments_checked"])
}

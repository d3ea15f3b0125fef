package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"influencer-dashboard/internal/loader"
	"influencer-dashboard/internal/models"
	"influencer-dashboard/internal/redisclient"
	"influencer-dashboard/internal/service"
	"influencer-dashboard/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticDatasets struct {
	ds  *models.Dataset
	err error
}

func (s staticDatasets) Dataset(context.Context) (*models.Dataset, error) {
	return s.ds, s.err
}

func (s staticDatasets) Ready() bool {
	return s.err == nil
}

type fakeHistory struct{}

func (fakeHistory) ListExports(_ context.Context, limit int) ([]models.ExportAudit, error) {
	return []models.ExportAudit{{ID: 1, EventID: "evt-1", ExportKind: models.ExportFilteredTracking, Rows: limit}}, nil
}

func testDataset() *models.Dataset {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.Dataset{
		Influencers: []models.Influencer{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}},
		Posts:       []models.Post{{InfluencerID: "1", Platform: "IG"}},
		Tracking: []models.TrackingRecord{
			{InfluencerID: "1", Date: day, Source: "IG", Campaign: "Summer", Product: "Acme Whey", HasProduct: true, Brand: "Acme", Revenue: 1000, Orders: 2},
			{InfluencerID: "2", Date: day, Source: "YT", Campaign: "Summer", Product: "Gritzo Kids", HasProduct: true, Brand: "Gritzo", Revenue: 500, Orders: 1},
		},
		Payouts: []models.PayoutRecord{
			{InfluencerID: "1", TotalPayout: 800},
			{InfluencerID: "2", TotalPayout: 0},
		},
		InfluencerColumns: []string{"influencer_id", "name"},
		PostColumns:       []string{"influencer_id", "platform"},
		TrackingColumns:   []string{"influencer_id", "date", "source", "campaign", "product", "revenue", "orders"},
		PayoutColumns:     []string{"influencer_id", "total_payout"},
	}
}

func setupRouter(t *testing.T, datasets staticDatasets) (*gin.Engine, *redisclient.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	util.SetLogger(zap.NewNop())

	selections := redisclient.NewMemoryStore(time.Hour)
	handler := NewHandler(service.NewReportService(datasets, 0), selections, nil, datasets, fakeHistory{})

	router := gin.New()
	handler.SetupRoutes(router)
	return router, selections
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(sessionHeader, "test-session")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthAndReady(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/ready", "").Code)

	router, _ = setupRouter(t, staticDatasets{err: loader.ErrDatasetUnavailable})
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(router, http.MethodGet, "/ready", "").Code)
}

func TestListSections(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodGet, "/api/v1/sections", "")
	require.Equal(t, http.StatusOK, w.Code)

	sections := decode(t, w)["sections"].([]interface{})
	require.Len(t, sections, 6)
	assert.Equal(t, "home", sections[0].(map[string]interface{})["slug"])
	assert.Equal(t, "Downloads", sections[5].(map[string]interface{})["title"])
}

func TestGetSectionKeyMetrics(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodGet, "/api/v1/sections/key-metrics?platform=IG", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	summary := body["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(t, 1000.0, summary["total_revenue"])
	assert.Equal(t, 1.25, summary["roas"])
	assert.Equal(t, "A", summary["top_influencer"])
}

func TestGetSectionEncodesNonFiniteROAS(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodGet, "/api/v1/sections/influencer-revenue", "")
	require.Equal(t, http.StatusOK, w.Code)

	table := decode(t, w)["data"].(map[string]interface{})["roas_table"].([]interface{})
	require.Len(t, table, 2)
	assert.Equal(t, "inf", table[1].(map[string]interface{})["ROAS (x)"])
}

func TestGetSectionByTitle(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodGet, "/api/v1/sections/Platform%20Trends", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetSectionErrors(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})
	w := doRequest(router, http.MethodGet, "/api/v1/sections/charts", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Unknown section", decode(t, w)["error"])

	loadErr := fmt.Errorf("%w: failed to open posts", loader.ErrDatasetUnavailable)
	router, _ = setupRouter(t, staticDatasets{err: loadErr})
	w = doRequest(router, http.MethodGet, "/api/v1/sections/home", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w = doRequest(router, http.MethodGet, "/api/v1/filters", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetFilters(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodGet, "/api/v1/filters", "")
	require.Equal(t, http.StatusOK, w.Code)

	options := decode(t, w)["options"].(map[string]interface{})
	assert.Equal(t, []interface{}{"IG", "YT"}, options["platforms"])
	assert.Equal(t, []interface{}{"Acme", "Gritzo"}, options["brands"])
}

func TestSelectionLifecycle(t *testing.T) {
	router, store := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodPut, "/api/v1/selection", `{"platforms":["YT"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	stored, found, err := store.GetSelection(context.Background(), "test-session")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"YT"}, stored.Platforms)
	assert.Nil(t, stored.Campaigns)

	// stored selection applies to sections
	w = doRequest(router, http.MethodGet, "/api/v1/sections/insights", "")
	require.Equal(t, http.StatusOK, w.Code)
	lines := decode(t, w)["data"].(map[string]interface{})["lines"].([]interface{})
	assert.Equal(t, "Most revenue is generated on platform(s): YT", lines[0])

	// query parameters override it
	w = doRequest(router, http.MethodGet, "/api/v1/sections/insights?platform=IG", "")
	lines = decode(t, w)["data"].(map[string]interface{})["lines"].([]interface{})
	assert.Equal(t, "Most revenue is generated on platform(s): IG", lines[0])

	w = doRequest(router, http.MethodDelete, "/api/v1/selection", "")
	require.Equal(t, http.StatusOK, w.Code)
	_, found, _ = store.GetSelection(context.Background(), "test-session")
	assert.False(t, found)
}

func TestPutSelectionInvalidBody(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodPut, "/api/v1/selection", `{"platforms":"IG"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionCookieIssued(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/selection", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.Equal(t, cookies[0].Value, decode(t, w)["session_id"])
}

func TestEmptyQueryValueSelectsNothing(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodGet, "/api/v1/sections/key-metrics?brand=", "")
	require.Equal(t, http.StatusOK, w.Code)

	summary := decode(t, w)["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(t, 0.0, summary["total_revenue"])
	assert.Equal(t, "-", summary["top_influencer"])
}

func TestBlankQueryValueSelectsEmptyOption(t *testing.T) {
	ds := testDataset()
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	ds.Tracking = append(ds.Tracking, models.TrackingRecord{
		InfluencerID: "2", Date: day, Source: "", Campaign: "Winter", Product: "Gritzo Bar", HasProduct: true, Brand: "Gritzo", Revenue: 40, Orders: 1,
	})
	router, _ := setupRouter(t, staticDatasets{ds: ds})

	w := doRequest(router, http.MethodGet, "/api/v1/filters", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, BlankQueryValue, body["blank_query_value"])
	options := body["options"].(map[string]interface{})
	assert.Equal(t, []interface{}{"IG", "YT", ""}, options["platforms"])

	w = doRequest(router, http.MethodGet, "/api/v1/exports/filtered-tracking.csv?platform=(blank)", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"influencer_id,date,source,campaign,product,revenue,orders,brand\n"+
			"2,2024-01-02,,Winter,Gritzo Bar,40,1,Gritzo\n",
		w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/v1/sections/key-metrics?platform=(blank)&platform=IG", "")
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode(t, w)["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(t, 1040.0, summary["total_revenue"])
}

func TestExportFilteredTracking(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodGet, "/api/v1/exports/filtered-tracking.csv?platform=IG", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=filtered_tracking.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t,
		"influencer_id,date,source,campaign,product,revenue,orders,brand\n"+
			"1,2024-01-01,IG,Summer,Acme Whey,1000,2,Acme\n",
		w.Body.String())
}

func TestExportInfluencerROAS(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodGet, "/api/v1/exports/influencer-roas.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"influencer_id,revenue,total_payout,name,ROAS\n"+
			"1,1000,800,A,1.25\n"+
			"2,500,0,B,inf\n",
		w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/v1/exports/influencer-roas.csv?format=display", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Influencer,Revenue,Payout,ROAS (x)\n"))

	w = doRequest(router, http.MethodGet, "/api/v1/exports/influencer-roas.csv?format=xlsx", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHistory(t *testing.T) {
	router, _ := setupRouter(t, staticDatasets{ds: testDataset()})

	w := doRequest(router, http.MethodGet, "/api/v1/exports/history?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	exports := decode(t, w)["exports"].([]interface{})
	require.Len(t, exports, 1)
	assert.Equal(t, 5.0, exports[0].(map[string]interface{})["rows"])

	w = doRequest(router, http.MethodGet, "/api/v1/exports/history?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"dunefest/internal/models"
	"dunefest/internal/repository"
	"dunefest/internal/service"
)

// setupRouter wires the handlers against empty services: no database, no
// catalog snapshot. Good enough to exercise request validation and the
// error mapping for an unloaded catalog.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	repos := &repository.Repositories{}
	catalogService := service.NewCatalogService(repos, nil, nil, nil, time.Second)
	registrationService := service.NewRegistrationService(repos, catalogService, nil, nil, nil)

	services := &service.Services{
		Catalog:       catalogService,
		Registrations: registrationService,
	}
	h := NewHandlers(services, nil, nil)

	r := gin.New()
	api := r.Group("/api")
	{
		api.GET("/catalog", h.GetCatalog)
		api.GET("/workshops", h.ListWorkshops)
		api.GET("/events/current", h.GetCurrentEvent)

		registrations := api.Group("/registrations")
		{
			registrations.POST("/quote", h.Quote)
			registrations.POST("", h.SubmitRegistration)
			registrations.GET("/:id", h.GetRegistration)
			registrations.GET("/:id/qr", h.GetRegistrationQR)
		}

		api.GET("/admin/registrations", h.SearchRegistrations)
	}

	return r
}

func TestGetCatalogBeforeFirstLoad(t *testing.T) {
	r := setupRouter()

	req, _ := http.NewRequest("GET", "/api/catalog", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetCurrentEventWhenNoneSet(t *testing.T) {
	r := setupRouter()

	req, _ := http.NewRequest("GET", "/api/events/current", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuoteRejectsMalformedBody(t *testing.T) {
	r := setupRouter()

	req, _ := http.NewRequest("POST", "/api/registrations/quote", bytes.NewBufferString(`{"role":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteRequiresRoleAndPackage(t *testing.T) {
	r := setupRouter()

	reqBody := map[string]any{"addons": []any{}}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/api/registrations/quote", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteWithoutSnapshotIsUnavailable(t *testing.T) {
	r := setupRouter()

	reqBody := models.QuoteRequest{Role: "leader", PackageType: "full"}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/api/registrations/quote", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubmitWithoutCurrentEventIsUnavailable(t *testing.T) {
	r := setupRouter()

	reqBody := models.SubmitRegistrationRequest{
		QuoteRequest: models.QuoteRequest{Role: "leader", PackageType: "full"},
		LeaderInfo:   &models.PersonInfo{FirstName: "Aisha", LastName: "Rahman", Email: "aisha@example.com"},
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/api/registrations", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetRegistrationRejectsBadID(t *testing.T) {
	r := setupRouter()

	req, _ := http.NewRequest("GET", "/api/registrations/not-a-number", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ = http.NewRequest("GET", "/api/registrations/not-a-number/qr", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchRegistrationsValidation(t *testing.T) {
	r := setupRouter()

	req, _ := http.NewRequest("GET", "/api/admin/registrations?page=0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ = http.NewRequest("GET", "/api/admin/registrations?pageSize=500", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

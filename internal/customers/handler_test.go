package customers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (http.Handler, *fakeRepository) {
	svc, repo := newTestService()
	handler := NewHandler(slog.Default(), svc)
	r := chi.NewRouter()
	r.Route("/customers", handler.MountRoutes)
	return r, repo
}

func TestCreateCustomerEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	body := `{"name":"Asha Verma","phone":"9876543210","email":"asha@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var created Customer
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Equal(t, "Asha Verma", created.Name)
	assert.Equal(t, StageNew, created.Stage)
	require.NotNil(t, created.Email)
	assert.Equal(t, "asha@example.com", *created.Email)
}

func TestCreateCustomerEndpointValidation(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"phone":"98765"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
}

func TestGetCustomerEndpointNotFound(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/customers/404", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestChangeStageEndpointRejectsUnknownStage(t *testing.T) {
	router, repo := newTestRouter()
	id, err := repo.Create(t.Context(), Customer{Name: "Asha Verma", Stage: StageNew, IsActive: true})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/customers/1/stage", strings.NewReader(`{"stage":"HOT"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, StageNew, repo.customers[id].Stage)
}

func TestDeleteReferencedCustomerEndpoint(t *testing.T) {
	router, repo := newTestRouter()
	id, err := repo.Create(t.Context(), Customer{Name: "Asha Verma", Stage: StageNew, IsActive: true})
	require.NoError(t, err)
	repo.quotationCount[id] = 1

	req := httptest.NewRequest(http.MethodDelete, "/customers/1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.False(t, repo.customers[id].IsActive)
}

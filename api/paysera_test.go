package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/booklytrip/booking/internal/service/reconciler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Process(ctx context.Context, callback reconciler.Callback) error {
	args := m.Called(ctx, callback)
	return args.Error(0)
}

func payseraRouter(service reconciler.ReconcilerUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewPayseraHandler(service).Register(router)
	return router
}

func TestPayseraCallback_OK(t *testing.T) {
	mockService := &MockReconciler{}
	router := payseraRouter(mockService)

	expected := reconciler.Callback{Data: "ZGF0YQ==", SS1: "abc123", Project: "proj1"}
	mockService.On("Process", mock.Anything, expected).Return(nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/paysera?data=ZGF0YQ%3D%3D&ss1=abc123&project=proj1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	mockService.AssertExpectations(t)
}

func TestPayseraCallback_MethodNotAllowed(t *testing.T) {
	mockService := &MockReconciler{}
	router := payseraRouter(mockService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/paysera", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodGet, w.Header().Get("Allow"))
	assert.Equal(t, "Paysera callback supports only GET request.", w.Body.String())
	mockService.AssertNotCalled(t, "Process")
}

func TestPayseraCallback_MissingParameters(t *testing.T) {
	mockService := &MockReconciler{}
	router := payseraRouter(mockService)

	for _, query := range []string{
		"",
		"data=ZGF0YQ%3D%3D",
		"data=ZGF0YQ%3D%3D&ss1=abc123",
		"ss1=abc123&project=proj1",
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/paysera?"+query, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "One of required parameters is missing.", w.Body.String())
	}
	mockService.AssertNotCalled(t, "Process")
}

func TestPayseraCallback_ProcessError(t *testing.T) {
	mockService := &MockReconciler{}
	router := payseraRouter(mockService)

	mockService.On("Process", mock.Anything, mock.Anything).
		Return(errors.New("signature mismatch")).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/paysera?data=ZGF0YQ%3D%3D&ss1=bad&project=proj1", nil)
	router.ServeHTTP(w, req)

	// Non-200 keeps the gateway retrying.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "signature mismatch", w.Body.String())
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/apperr"
	"github.com/solestep/solestep-api/internal/middleware"
	"github.com/solestep/solestep-api/internal/model"
)

type stubUseCase struct {
	sale *model.Sale
	err  error
}

func (s *stubUseCase) CreateSale(_ context.Context, _ *model.CreateSaleInput, _ string) (*model.Sale, error) {
	return s.sale, s.err
}

func (s *stubUseCase) GetSale(_ context.Context, _ string) (*model.Sale, error) {
	return s.sale, s.err
}

func (s *stubUseCase) ListSales(_ context.Context) ([]*model.Sale, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*model.Sale{s.sale}, nil
}

func (s *stubUseCase) Report(_ context.Context, _, _ time.Time) (*model.SalesReport, error) {
	return nil, s.err
}

func newRouter(uc *stubUseCase, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSaleHandler(uc, zap.NewNop())

	r := gin.New()
	if authenticated {
		r.Use(func(c *gin.Context) {
			middleware.SetCurrentUser(c, model.AuthUser{
				UserID:    uuid.New(),
				FirstName: "Mia",
				Role:      model.RoleCashier,
			})
		})
	}
	r.POST("/api/sales", h.Create)
	r.GET("/api/sales/:id", h.Get)
	r.POST("/api/sales/report", h.Report)
	return r
}

func saleRequestBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(gin.H{
		"customerId": uuid.NewString(),
		"items": []gin.H{
			{"productId": uuid.NewString(), "size": "9", "quantity": 2},
		},
		"paymentMethod": "CASH",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestCreateSaleReturns201(t *testing.T) {
	sale := &model.Sale{
		ID:                  uuid.New(),
		CustomerID:          uuid.New(),
		TotalAmount:         decimal.RequireFromString("30"),
		PaymentMethod:       model.PaymentCash,
		PaymentStatus:       model.PaymentStatusCompleted,
		LoyaltyPointsEarned: 3,
	}
	router := newRouter(&stubUseCase{sale: sale}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", saleRequestBody(t))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message             string          `json:"message"`
		LoyaltyPointsEarned int64           `json:"loyaltyPointsEarned"`
		Sale                json.RawMessage `json:"sale"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Sale completed successfully", resp.Message)
	assert.Equal(t, int64(3), resp.LoyaltyPointsEarned)
	assert.NotEmpty(t, resp.Sale)
}

func TestCreateSaleWithoutIdentity(t *testing.T) {
	router := newRouter(&stubUseCase{}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", saleRequestBody(t))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "User ID not found in token")
}

func TestCreateSaleInsufficientStockBody(t *testing.T) {
	router := newRouter(&stubUseCase{
		err: &apperr.InsufficientStockError{
			ProductName: "Air Runner",
			Size:        "9",
			Available:   1,
			Requested:   2,
		},
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", saleRequestBody(t))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Message   string `json:"message"`
		Available int    `json:"available"`
		Requested int    `json:"requested"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Available)
	assert.Equal(t, 2, resp.Requested)
	assert.Contains(t, resp.Message, "Air Runner")
	assert.Contains(t, resp.Message, "9")
}

func TestGetSaleNotFound(t *testing.T) {
	router := newRouter(&stubUseCase{err: apperr.NewNotFoundError("Sale not found")}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sale not found")
}

func TestCreateSaleInternalErrorIsGeneric(t *testing.T) {
	router := newRouter(&stubUseCase{err: context.DeadlineExceeded}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", saleRequestBody(t))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.NotContains(t, rec.Body.String(), "deadline")
}

func TestReportRequiresDates(t *testing.T) {
	router := newRouter(&stubUseCase{}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/sales/report", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "startDate and endDate are required")
}

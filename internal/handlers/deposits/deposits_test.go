package deposits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/dto"
	"github.com/GlebRadaev/investadmin/pkg/auth"
)

var admin = domain.Actor{ID: 1}

func NewMock(t *testing.T) (*DepositHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	return handler, service
}

func request(method, target, id, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, auth.AdminIDKey, admin.ID)
	return r.WithContext(ctx)
}

func deposit(status domain.DepositStatus) *domain.Deposit {
	return &domain.Deposit{
		ID:        4,
		UserID:    2,
		Amount:    decimal.NewFromInt(100),
		Currency:  "USDT",
		Plan:      "gold",
		Status:    status,
		CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		User:      &domain.UserRef{Username: "alice", Email: "alice@example.com"},
	}
}

func TestApproveHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		id           string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Approved",
			id:   "4",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), admin, int64(4)).Return(deposit(domain.DepositApproved), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Bad id",
			id:           "four",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Already approved",
			id:   "4",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), admin, int64(4)).
					Return(nil, fmt.Errorf("%w: deposit 4 is approved", domain.ErrInvalidTransition))
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Unknown deposit",
			id:   "4",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), admin, int64(4)).Return(nil, domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Internal server error",
			id:   "4",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), admin, int64(4)).Return(nil, domain.StoreError(errors.New("error")))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.Approve(w, request(http.MethodPost, "/api/admin/deposits/"+tt.id+"/approve", tt.id, ""))

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.DepositResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "approved", body.Status)
				assert.Equal(t, "alice", body.User.Username)
				assert.True(t, body.Amount.Equal(decimal.NewFromInt(100)))
			}
		})
	}
}

func TestApproveHandler_NoActor(t *testing.T) {
	handler, _ := NewMock(t)
	r := httptest.NewRequest(http.MethodPost, "/api/admin/deposits/4/approve", nil)
	w := httptest.NewRecorder()
	handler.Approve(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRejectHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Rejected",
			body: `{"reason":"Payment not received"}`,
			prepareMock: func() {
				rejected := deposit(domain.DepositRejected)
				rejected.RejectReason = "Payment not received"
				service.EXPECT().Reject(gomock.Any(), admin, int64(4), "Payment not received").Return(rejected, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Missing reason",
			body:         `{}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Invalid request body",
			body:         `{"reason":`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Not pending",
			body: `{"reason":"late"}`,
			prepareMock: func() {
				service.EXPECT().Reject(gomock.Any(), admin, int64(4), "late").Return(nil, domain.ErrInvalidTransition)
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.Reject(w, request(http.MethodPost, "/api/admin/deposits/4/reject", "4", tt.body))
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestDeleteHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Deleted",
			prepareMock: func() {
				service.EXPECT().Delete(gomock.Any(), admin, int64(4)).Return(nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Unknown deposit",
			prepareMock: func() {
				service.EXPECT().Delete(gomock.Any(), admin, int64(4)).Return(domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.Delete(w, request(http.MethodDelete, "/api/admin/deposits/4", "4", ""))
			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestListHandler(t *testing.T) {
	handler, service := NewMock(t)
	pending := domain.DepositPending

	tests := []struct {
		name         string
		query        string
		prepareMock  func()
		expectedCode int
		expectedLen  int
	}{
		{
			name:  "All deposits",
			query: "",
			prepareMock: func() {
				service.EXPECT().List(gomock.Any(), domain.DepositFilter{}).
					Return([]domain.Deposit{*deposit(domain.DepositPending), *deposit(domain.DepositActive)}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
		{
			name:  "Filtered by status",
			query: "?status=pending",
			prepareMock: func() {
				service.EXPECT().List(gomock.Any(), domain.DepositFilter{Status: &pending}).
					Return([]domain.Deposit{*deposit(domain.DepositPending)}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  1,
		},
		{
			name:         "Unknown status",
			query:        "?status=frozen",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			handler.List(w, httptest.NewRequest(http.MethodGet, "/api/admin/deposits"+tt.query, nil))

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body []dto.DepositResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Len(t, body, tt.expectedLen)
			}
		})
	}
}

package withdrawals

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/dto"
	"github.com/GlebRadaev/investadmin/pkg/auth"
)

var admin = domain.Actor{ID: 1}

func NewMock(t *testing.T) (*WithdrawalHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	return New(service), service
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

func withdrawal(status domain.WithdrawalStatus) *domain.Withdrawal {
	return &domain.Withdrawal{
		ID:            9,
		UserID:        2,
		Amount:        decimal.NewFromInt(50),
		Currency:      "USDT",
		WalletAddress: "TQ1abc",
		Status:        status,
	}
}

func TestTransitionHandlers(t *testing.T) {
	handler, service := NewMock(t)

	completed := withdrawal(domain.WithdrawalCompleted)
	completed.TransactionHash = "0xfeed"

	tests := []struct {
		name           string
		call           http.HandlerFunc
		id             string
		body           string
		prepareMock    func()
		expectedCode   int
		expectedStatus string
	}{
		{
			name: "Confirm",
			call: handler.Confirm,
			id:   "9",
			prepareMock: func() {
				service.EXPECT().Confirm(gomock.Any(), admin, int64(9)).Return(withdrawal(domain.WithdrawalConfirmed), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "confirmed",
		},
		{
			name: "Approve",
			call: handler.Approve,
			id:   "9",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), admin, int64(9)).Return(withdrawal(domain.WithdrawalApproved), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "approved",
		},
		{
			name: "Approve with insufficient funds",
			call: handler.Approve,
			id:   "9",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), admin, int64(9)).Return(nil, domain.ErrInsufficientFunds)
			},
			expectedCode: http.StatusPaymentRequired,
		},
		{
			name: "Approve lost the race",
			call: handler.Approve,
			id:   "9",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), admin, int64(9)).Return(nil, domain.ErrConcurrencyConflict)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Reject",
			call: handler.Reject,
			id:   "9",
			body: `{"reason":"wallet flagged"}`,
			prepareMock: func() {
				rejected := withdrawal(domain.WithdrawalRejected)
				rejected.RejectReason = "wallet flagged"
				service.EXPECT().Reject(gomock.Any(), admin, int64(9), "wallet flagged").Return(rejected, nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "rejected",
		},
		{
			name:         "Reject without reason",
			call:         handler.Reject,
			id:           "9",
			body:         `{"reason":"  "}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Start processing",
			call: handler.StartProcessing,
			id:   "9",
			prepareMock: func() {
				service.EXPECT().StartProcessing(gomock.Any(), admin, int64(9)).Return(withdrawal(domain.WithdrawalProcessing), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "processing",
		},
		{
			name: "Complete",
			call: handler.Complete,
			id:   "9",
			body: `{"transactionHash":"0xfeed"}`,
			prepareMock: func() {
				service.EXPECT().Complete(gomock.Any(), admin, int64(9), "0xfeed").Return(completed, nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "completed",
		},
		{
			name:         "Complete without hash",
			call:         handler.Complete,
			id:           "9",
			body:         `{}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Complete from pending",
			call: handler.Complete,
			id:   "9",
			body: `{"transactionHash":"0xfeed"}`,
			prepareMock: func() {
				service.EXPECT().Complete(gomock.Any(), admin, int64(9), "0xfeed").Return(nil, domain.ErrInvalidTransition)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Cancel without body",
			call: handler.Cancel,
			id:   "9",
			prepareMock: func() {
				service.EXPECT().Cancel(gomock.Any(), admin, int64(9), "").Return(withdrawal(domain.WithdrawalCancelled), nil)
			},
			expectedCode:   http.StatusOK,
			expectedStatus: "cancelled",
		},
		{
			name:         "Bad id",
			call:         handler.Confirm,
			id:           "x",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			w := httptest.NewRecorder()
			tt.call(w, request(http.MethodPost, "/api/admin/withdrawals/"+tt.id, tt.id, tt.body))

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.WithdrawalResponseDTO
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, tt.expectedStatus, body.Status)
				assert.Equal(t, "TQ1abc", body.WalletAddress)
			}
		})
	}
}

func TestListHandler(t *testing.T) {
	handler, service := NewMock(t)
	confirmed := domain.WithdrawalConfirmed

	service.EXPECT().List(gomock.Any(), domain.WithdrawalFilter{Status: &confirmed}).
		Return([]domain.Withdrawal{*withdrawal(domain.WithdrawalConfirmed)}, nil)

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/admin/withdrawals?status=confirmed", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body []dto.WithdrawalResponseDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, int64(9), body[0].ID)

	w = httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/admin/withdrawals?status=lost", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package withdrawals

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/dto"
	"github.com/GlebRadaev/investadmin/internal/handlers/respond"
	"github.com/GlebRadaev/investadmin/pkg/utils"
)

//go:generate mockgen -source=withdrawals.go -destination=mock_withdrawals.go -package=withdrawals

type Service interface {
	Confirm(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error)
	Approve(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error)
	Reject(ctx context.Context, actor domain.Actor, id int64, reason string) (*domain.Withdrawal, error)
	StartProcessing(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error)
	Complete(ctx context.Context, actor domain.Actor, id int64, transactionHash string) (*domain.Withdrawal, error)
	Cancel(ctx context.Context, actor domain.Actor, id int64, reason string) (*domain.Withdrawal, error)
	List(ctx context.Context, filter domain.WithdrawalFilter) ([]domain.Withdrawal, error)
}

type WithdrawalHandler struct {
	withdrawalService Service
}

func New(withdrawalService Service) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

func (h *WithdrawalHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.WithdrawalFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseWithdrawalStatus(raw)
		if err != nil {
			respond.Error(w, err)
			return
		}
		filter.Status = &status
	}

	withdrawals, err := h.withdrawalService.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewWithdrawalsResponse(withdrawals))
}

func (h *WithdrawalHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, nil, func(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error) {
		return h.withdrawalService.Confirm(ctx, actor, id)
	})
}

func (h *WithdrawalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, nil, func(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error) {
		return h.withdrawalService.Approve(ctx, actor, id)
	})
}

func (h *WithdrawalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req dto.RejectRequestDTO
	h.transition(w, r, &req, func(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error) {
		return h.withdrawalService.Reject(ctx, actor, id, req.Reason)
	})
}

func (h *WithdrawalHandler) StartProcessing(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, nil, func(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error) {
		return h.withdrawalService.StartProcessing(ctx, actor, id)
	})
}

func (h *WithdrawalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req dto.CompleteRequestDTO
	h.transition(w, r, &req, func(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error) {
		return h.withdrawalService.Complete(ctx, actor, id, req.TransactionHash)
	})
}

func (h *WithdrawalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req dto.CancelRequestDTO
	h.transition(w, r, &req, func(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error) {
		return h.withdrawalService.Cancel(ctx, actor, id, req.Reason)
	})
}

type operation func(ctx context.Context, actor domain.Actor, id int64) (*domain.Withdrawal, error)

// transition resolves the actor and id, decodes body into req when given, then runs op.
func (h *WithdrawalHandler) transition(w http.ResponseWriter, r *http.Request, req any, op operation) {
	actor, ok := respond.Actor(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := respond.PathID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}
	if req != nil {
		if err := respond.Decode(r, req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	withdrawal, err := op(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewWithdrawalResponse(withdrawal))
}

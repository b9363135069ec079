package deposits

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/dto"
	"github.com/GlebRadaev/investadmin/internal/handlers/respond"
	"github.com/GlebRadaev/investadmin/pkg/utils"
)

//go:generate mockgen -source=deposits.go -destination=mock_deposits.go -package=deposits

type Service interface {
	Approve(ctx context.Context, actor domain.Actor, id int64) (*domain.Deposit, error)
	Reject(ctx context.Context, actor domain.Actor, id int64, reason string) (*domain.Deposit, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
	List(ctx context.Context, filter domain.DepositFilter) ([]domain.Deposit, error)
}

type DepositHandler struct {
	depositService Service
}

func New(depositService Service) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
	}
}

// List returns deposits, optionally narrowed by ?status=.
func (h *DepositHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.DepositFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseDepositStatus(raw)
		if err != nil {
			respond.Error(w, err)
			return
		}
		filter.Status = &status
	}

	deposits, err := h.depositService.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewDepositsResponse(deposits))
}

func (h *DepositHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := target(w, r)
	if !ok {
		return
	}

	deposit, err := h.depositService.Approve(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewDepositResponse(deposit))
}

func (h *DepositHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := target(w, r)
	if !ok {
		return
	}
	var req dto.RejectRequestDTO
	if err := respond.Decode(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	deposit, err := h.depositService.Reject(r.Context(), actor, id, req.Reason)
	if err != nil {
		respond.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewDepositResponse(deposit))
}

// Delete purges the deposit. There is no undo.
func (h *DepositHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := target(w, r)
	if !ok {
		return
	}

	if err := h.depositService.Delete(r.Context(), actor, id); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func target(w http.ResponseWriter, r *http.Request) (domain.Actor, int64, bool) {
	actor, ok := respond.Actor(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return domain.Actor{}, 0, false
	}
	id, ok := respond.PathID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid deposit id")
		return domain.Actor{}, 0, false
	}
	return actor, id, true
}

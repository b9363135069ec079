package activity

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/investadmin/internal/activity"
	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/dto"
	"github.com/GlebRadaev/investadmin/internal/handlers/respond"
	"github.com/GlebRadaev/investadmin/internal/service/activityservice"
	"github.com/GlebRadaev/investadmin/pkg/utils"
)

//go:generate mockgen -source=activity.go -destination=mock_activity.go -package=activity

const maxFeedLimit = 500

type Service interface {
	Feed(ctx context.Context, limit int) ([]activity.Entry, error)
	Overview(ctx context.Context) (*activityservice.Overview, error)
	History(ctx context.Context, recordType domain.RecordType, recordID int64) ([]domain.AuditEntry, error)
	Balance(ctx context.Context, userID int64, currency string) (*domain.Balance, error)
}

type ActivityHandler struct {
	activityService Service
}

func New(activityService Service) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// Feed returns the merged recent activity. ?limit= caps each source, zero uses the default.
func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxFeedLimit {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	feed, err := h.activityService.Feed(r.Context(), limit)
	if err != nil {
		respond.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, feed)
}

func (h *ActivityHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.activityService.Overview(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, overview)
}

func (h *ActivityHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.PathID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid record id")
		return
	}
	recordType := domain.RecordType(chi.URLParam(r, "recordType"))

	entries, err := h.activityService.History(r.Context(), recordType, id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	response := make([]dto.AuditEntryDTO, len(entries))
	for i, e := range entries {
		response[i] = dto.AuditEntryDTO{
			ID:         e.ID,
			ActorID:    e.ActorID,
			Action:     e.Action,
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Reason:     e.Reason,
			CreatedAt:  e.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *ActivityHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := respond.PathID(r, "userID")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	currency := strings.ToUpper(chi.URLParam(r, "currency"))

	balance, err := h.activityService.Balance(r.Context(), userID, currency)
	if err != nil {
		respond.Error(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		UserID:    balance.UserID,
		Currency:  balance.Currency,
		Current:   balance.CurrentBalance,
		Withdrawn: balance.WithdrawnTotal,
	})
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	activityhandlers "github.com/GlebRadaev/investadmin/internal/handlers/activity"
	deposithandlers "github.com/GlebRadaev/investadmin/internal/handlers/deposits"
	withdrawalhandlers "github.com/GlebRadaev/investadmin/internal/handlers/withdrawals"
	"github.com/GlebRadaev/investadmin/internal/service"
	"github.com/GlebRadaev/investadmin/pkg/auth"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

type DepositHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type WithdrawalHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	StartProcessing(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type ActivityHandler interface {
	Feed(w http.ResponseWriter, r *http.Request)
	Overview(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	DepositHandler    DepositHandler
	WithdrawalHandler WithdrawalHandler
	ActivityHandler   ActivityHandler
	jwtService        auth.JWTServiceInterface
}

func New(s *service.Services, jwtService auth.JWTServiceInterface) *Handlers {
	return &Handlers{
		DepositHandler:    deposithandlers.New(s.DepositService),
		WithdrawalHandler: withdrawalhandlers.New(s.WithdrawalService),
		ActivityHandler:   activityhandlers.New(s.ActivityService),
		jwtService:        jwtService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.AuthMiddleware(h.jwtService))

		r.Route("/deposits", func(r chi.Router) {
			r.Get("/", h.DepositHandler.List)
			r.Post("/{id}/approve", h.DepositHandler.Approve)
			r.Post("/{id}/reject", h.DepositHandler.Reject)
			r.Delete("/{id}", h.DepositHandler.Delete)
		})
		r.Route("/withdrawals", func(r chi.Router) {
			r.Get("/", h.WithdrawalHandler.List)
			r.Post("/{id}/confirm", h.WithdrawalHandler.Confirm)
			r.Post("/{id}/approve", h.WithdrawalHandler.Approve)
			r.Post("/{id}/reject", h.WithdrawalHandler.Reject)
			r.Post("/{id}/processing", h.WithdrawalHandler.StartProcessing)
			r.Post("/{id}/complete", h.WithdrawalHandler.Complete)
			r.Post("/{id}/cancel", h.WithdrawalHandler.Cancel)
		})
		r.Get("/activity", h.ActivityHandler.Feed)
		r.Get("/overview", h.ActivityHandler.Overview)
		r.Get("/audit/{recordType}/{id}", h.ActivityHandler.History)
		r.Get("/users/{userID}/balances/{currency}", h.ActivityHandler.Balance)
	})

	return r
}

package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Danibruno18/credix/config"
	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/middleware"
	"github.com/Danibruno18/credix/services"
	"github.com/Danibruno18/credix/utils"
	"github.com/gorilla/mux"
)

// AdminController служебные операции: метрики, сверка балансов, проверка БД
type AdminController struct {
	db         *database.Database
	reconciler *services.BalanceReconciler
}

func NewAdminController(db *database.Database) *AdminController {
	return &AdminController{
		db:         db,
		reconciler: services.NewBalanceReconciler(db),
	}
}

// NewAdminRouter регистрирует маршруты /admin. Все, кроме /admin/health, требуют X-Admin-Token.
func NewAdminRouter(cfg *config.Config, db *database.Database) *mux.Router {
	adminController := NewAdminController(db)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)
	router.HandleFunc("/admin/health", adminController.Health).Methods("GET")

	protected := router.PathPrefix("/admin").Subrouter()
	protected.Use(middleware.AdminTokenMiddleware(cfg.Admin.Token))
	protected.HandleFunc("/metrics", adminController.Metrics).Methods("GET")
	protected.HandleFunc("/users/{id}/reconcile", adminController.ReconcileUser).Methods("POST")
	protected.HandleFunc("/reconcile", adminController.ReconcileAll).Methods("POST")

	return router
}

// Health проверяет соединение с БД
func (c *AdminController) Health(w http.ResponseWriter, r *http.Request) {
	if err := c.db.Ping(r.Context()); err != nil {
		utils.LogError("Database ping failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Metrics отдает снимок метрик приложения
func (c *AdminController) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.GetMetrics().GetMetricsSnapshot())
}

// ReconcileUser сверяет и исправляет баланс одного пользователя
func (c *AdminController) ReconcileUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := c.reconciler.Reconcile(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.LogError("Reconcile failed for user %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ReconcileAll сверяет балансы всех активных пользователей
func (c *AdminController) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	results, err := c.reconciler.ReconcileAll(r.Context())
	if err != nil {
		utils.LogError("Reconcile all failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

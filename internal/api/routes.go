package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the HTTP routes. The health check and login are
// public, everything under /api/v1 requires a session cookie.
func NewRouter(h *Handler) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogger(h.log))

	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods(http.MethodPost)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(RequireAuth(h.sessions))

	api.HandleFunc("/auth/login", h.Logout).Methods(http.MethodDelete)

	api.HandleFunc("/holdings", h.GetHoldings).Methods(http.MethodGet)
	api.HandleFunc("/holdings", h.UpsertHolding).Methods(http.MethodPost)
	api.HandleFunc("/holdings", h.UpdateHolding).Methods(http.MethodPatch)
	api.HandleFunc("/holdings", h.DeleteHolding).Methods(http.MethodDelete)

	api.HandleFunc("/assets", h.GetAssets).Methods(http.MethodGet)
	api.HandleFunc("/assets", h.CreateAsset).Methods(http.MethodPost)
	api.HandleFunc("/assets", h.UpdateAsset).Methods(http.MethodPatch)
	api.HandleFunc("/assets", h.DeleteAsset).Methods(http.MethodDelete)

	api.HandleFunc("/stocks", h.GetStocks).Methods(http.MethodGet)
	api.HandleFunc("/stocks/history", h.GetStockHistory).Methods(http.MethodGet)
	api.HandleFunc("/indices", h.GetIndices).Methods(http.MethodGet)
	api.HandleFunc("/indices/history", h.GetIndexHistory).Methods(http.MethodGet)

	api.HandleFunc("/portfolio/summary", h.GetPortfolioSummary).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/allocation", h.GetPortfolioAllocation).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/performance", h.GetPortfolioPerformance).Methods(http.MethodGet)
	api.HandleFunc("/portfolio/chart", h.GetPortfolioChart).Methods(http.MethodGet)

	return router
}

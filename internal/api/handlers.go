package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/veritasight/portfolio-service/internal/database"
	"github.com/veritasight/portfolio-service/internal/kafka"
	"github.com/veritasight/portfolio-service/internal/models"
	"github.com/veritasight/portfolio-service/internal/portfolio"
)

// Store defines the persistence operations the handlers need
type Store interface {
	GetAllHoldings() ([]models.Holding, error)
	UpsertHolding(h *models.Holding) error
	UpdateHoldingShares(symbol string, shares decimal.Decimal) (*models.Holding, error)
	DeleteHolding(symbol string) error

	GetAllManualAssets() ([]models.ManualAsset, error)
	CreateManualAsset(a *models.ManualAsset) error
	UpdateManualAsset(id int, update database.ManualAssetUpdate) (*models.ManualAsset, error)
	DeleteManualAsset(id int) error

	GetLatestQuotes() ([]models.Quote, error)
	GetLatestIndexQuotes() ([]models.IndexQuote, error)
	GetQuoteHistory(symbols []string, from, to *time.Time) (map[string][]models.PricePoint, error)
	GetIndexHistory(from, to *time.Time) (map[string][]models.PricePoint, error)
}

// Cache is the read-through quote snapshot cache
type Cache interface {
	GetQuotes(ctx context.Context) ([]models.Quote, bool)
	SetQuotes(ctx context.Context, quotes []models.Quote)
	GetIndexQuotes(ctx context.Context) ([]models.IndexQuote, bool)
	SetIndexQuotes(ctx context.Context, indices []models.IndexQuote)
}

// EventPublisher publishes portfolio CRUD events
type EventPublisher interface {
	PublishHoldingUpserted(ctx context.Context, holding *models.Holding) error
	PublishHoldingDeleted(ctx context.Context, symbol string) error
	PublishAssetCreated(ctx context.Context, asset *models.ManualAsset) error
	PublishAssetUpdated(ctx context.Context, asset *models.ManualAsset) error
	PublishAssetDeleted(ctx context.Context, assetID int) error
}

var _ EventPublisher = (*kafka.Producer)(nil)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store        Store
	cache        Cache
	producer     EventPublisher
	sessions     *SessionStore
	authPassword string
	log          zerolog.Logger
}

// NewHandler creates a new Handler. cache and producer may be nil.
func NewHandler(store Store, cache Cache, producer EventPublisher, sessions *SessionStore, authPassword string, log zerolog.Logger) *Handler {
	return &Handler{
		store:        store,
		cache:        cache,
		producer:     producer,
		sessions:     sessions,
		authPassword: authPassword,
		log:          log.With().Str("component", "api").Logger(),
	}
}

// apiError is the error half of the response envelope
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// envelope is the JSON response wrapper used by every endpoint
type envelope struct {
	Data  interface{} `json:"data"`
	Error *apiError   `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Data: data})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Error: &apiError{Message: message, Code: code}})
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	if strings.Contains(err.Error(), "not found") {
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	h.log.Error().Err(err).Msg("store operation failed")
	respondError(w, http.StatusInternalServerError, "DB_ERROR", "database error")
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}

	if h.authPassword == "" || req.Password != h.authPassword {
		respondError(w, http.StatusUnauthorized, "INVALID_PASSWORD", "invalid password")
		return
	}

	token := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout handles DELETE /api/v1/auth/login
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(AuthCookie); err == nil {
		h.sessions.Revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   AuthCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetHoldings handles GET /api/v1/holdings
func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.store.GetAllHoldings()
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, holdings)
}

// UpsertHolding handles POST /api/v1/holdings
func (h *Handler) UpsertHolding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol     string           `json:"symbol"`
		SharesHeld *decimal.Decimal `json:"shares_held"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if req.Symbol == "" || req.SharesHeld == nil || req.SharesHeld.IsNegative() {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "symbol and a non-negative shares_held are required")
		return
	}

	holding := &models.Holding{Symbol: req.Symbol, SharesHeld: *req.SharesHeld}
	if err := h.store.UpsertHolding(holding); err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.publishEvent(r.Context(), func(ctx context.Context) error {
		return h.producer.PublishHoldingUpserted(ctx, holding)
	})

	respondJSON(w, http.StatusCreated, holding)
}

// UpdateHolding handles PATCH /api/v1/holdings
func (h *Handler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol     string           `json:"symbol"`
		SharesHeld *decimal.Decimal `json:"shares_held"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if req.Symbol == "" || req.SharesHeld == nil || req.SharesHeld.IsNegative() {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "symbol and a non-negative shares_held are required")
		return
	}

	holding, err := h.store.UpdateHoldingShares(req.Symbol, *req.SharesHeld)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.publishEvent(r.Context(), func(ctx context.Context) error {
		return h.producer.PublishHoldingUpserted(ctx, holding)
	})

	respondJSON(w, http.StatusOK, holding)
}

// DeleteHolding handles DELETE /api/v1/holdings?symbol=X
func (h *Handler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "symbol is required")
		return
	}

	if err := h.store.DeleteHolding(symbol); err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.publishEvent(r.Context(), func(ctx context.Context) error {
		return h.producer.PublishHoldingDeleted(ctx, strings.ToUpper(symbol))
	})

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetAssets handles GET /api/v1/assets
func (h *Handler) GetAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.store.GetAllManualAssets()
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, assets)
}

// CreateAsset handles POST /api/v1/assets
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string           `json:"name"`
		Type  models.AssetType `json:"type"`
		Value *decimal.Decimal `json:"value"`
		Notes string           `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if req.Name == "" || !models.ValidAssetType(req.Type) || req.Value == nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "name, a valid type, and value are required")
		return
	}

	asset := &models.ManualAsset{Name: req.Name, Type: req.Type, Value: *req.Value, Notes: req.Notes}
	if err := h.store.CreateManualAsset(asset); err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.publishEvent(r.Context(), func(ctx context.Context) error {
		return h.producer.PublishAssetCreated(ctx, asset)
	})

	respondJSON(w, http.StatusCreated, asset)
}

// UpdateAsset handles PATCH /api/v1/assets
func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    *int              `json:"id"`
		Name  *string           `json:"name"`
		Type  *models.AssetType `json:"type"`
		Value *decimal.Decimal  `json:"value"`
		Notes *string           `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body")
		return
	}
	if req.ID == nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "id is required")
		return
	}
	if req.Type != nil && !models.ValidAssetType(*req.Type) {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid asset type")
		return
	}

	asset, err := h.store.UpdateManualAsset(*req.ID, database.ManualAssetUpdate{
		Name:  req.Name,
		Type:  req.Type,
		Value: req.Value,
		Notes: req.Notes,
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.publishEvent(r.Context(), func(ctx context.Context) error {
		return h.producer.PublishAssetUpdated(ctx, asset)
	})

	respondJSON(w, http.StatusOK, asset)
}

// DeleteAsset handles DELETE /api/v1/assets?id=N
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "id is required")
		return
	}

	if err := h.store.DeleteManualAsset(id); err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.publishEvent(r.Context(), func(ctx context.Context) error {
		return h.producer.PublishAssetDeleted(ctx, id)
	})

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetStocks handles GET /api/v1/stocks
func (h *Handler) GetStocks(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.latestQuotes(r.Context())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quotes)
}

// GetIndices handles GET /api/v1/indices
func (h *Handler) GetIndices(w http.ResponseWriter, r *http.Request) {
	indices, err := h.latestIndexQuotes(r.Context())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, indices)
}

// GetStockHistory handles GET /api/v1/stocks/history?symbols=A,B&from=&to=
func (h *Handler) GetStockHistory(w http.ResponseWriter, r *http.Request) {
	symbolsParam := r.URL.Query().Get("symbols")
	if symbolsParam == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "symbols is required")
		return
	}
	symbols := strings.Split(strings.ToUpper(symbolsParam), ",")

	from, to, err := parseDateBounds(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	history, err := h.store.GetQuoteHistory(symbols, from, to)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, portfolio.AlignSeries(history))
}

// GetIndexHistory handles GET /api/v1/indices/history?from=&to=
func (h *Handler) GetIndexHistory(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateBounds(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	history, err := h.store.GetIndexHistory(from, to)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, portfolio.AlignSeries(history))
}

// summaryResponse is the payload of GET /api/v1/portfolio/summary
type summaryResponse struct {
	Totals   portfolio.Totals            `json:"totals"`
	Holdings []portfolio.EnrichedHolding `json:"holdings"`
}

// GetPortfolioSummary handles GET /api/v1/portfolio/summary
func (h *Handler) GetPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.store.GetAllHoldings()
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	assets, err := h.store.GetAllManualAssets()
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	quotes, err := h.latestQuotes(r.Context())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	index := portfolio.BuildQuoteIndex(quotes)
	respondJSON(w, http.StatusOK, summaryResponse{
		Totals:   portfolio.CalculateTotals(holdings, index, assets),
		Holdings: portfolio.EnrichHoldings(holdings, index),
	})
}

// GetPortfolioAllocation handles GET /api/v1/portfolio/allocation
func (h *Handler) GetPortfolioAllocation(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.store.GetAllHoldings()
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	assets, err := h.store.GetAllManualAssets()
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	quotes, err := h.latestQuotes(r.Context())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	segments := portfolio.CalculateAllocation(holdings, portfolio.BuildQuoteIndex(quotes), assets)
	respondJSON(w, http.StatusOK, segments)
}

// performanceRow compares one holding against the tracked indices. The
// vs fields are nil when the index quote is unavailable.
type performanceRow struct {
	Symbol        string           `json:"symbol"`
	ChangePercent decimal.Decimal  `json:"change_percent"`
	Direction     string           `json:"direction"`
	VsASPI        *decimal.Decimal `json:"vs_aspi,omitempty"`
	VsSL20        *decimal.Decimal `json:"vs_sl20,omitempty"`
}

// GetPortfolioPerformance handles GET /api/v1/portfolio/performance
func (h *Handler) GetPortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.store.GetAllHoldings()
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	quotes, err := h.latestQuotes(r.Context())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	indices, err := h.latestIndexQuotes(r.Context())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	aspi, hasASPI := portfolio.FindIndexQuote(indices, models.IndexTickerASPI)
	sl20, hasSL20 := portfolio.FindIndexQuote(indices, models.IndexTickerSL20)
	index := portfolio.BuildQuoteIndex(quotes)

	rows := make([]performanceRow, 0, len(holdings))
	for _, holding := range holdings {
		q, ok := index[holding.Symbol]
		if !ok {
			continue
		}
		row := performanceRow{
			Symbol:        q.Symbol,
			ChangePercent: q.ChangePercentage,
			Direction:     portfolio.ChangeDirection(q.ChangePercentage),
		}
		if hasASPI {
			diff := portfolio.RelativePerformance(q.ChangePercentage, aspi.ChangePercentage)
			row.VsASPI = &diff
		}
		if hasSL20 {
			diff := portfolio.RelativePerformance(q.ChangePercentage, sl20.ChangePercentage)
			row.VsSL20 = &diff
		}
		rows = append(rows, row)
	}

	respondJSON(w, http.StatusOK, rows)
}

// chartSeries is one line on the performance chart
type chartSeries struct {
	Label string              `json:"label"`
	Color string              `json:"color"`
	Data  []models.PricePoint `json:"data"`
}

// GetPortfolioChart handles GET /api/v1/portfolio/chart?range=WTD|MTD|YTD.
// It returns the normalized portfolio series plus the normalized index
// series, aligned on a shared date axis so they can share one chart.
func (h *Handler) GetPortfolioChart(w http.ResponseWriter, r *http.Request) {
	chartRange := r.URL.Query().Get("range")
	if chartRange == "" {
		chartRange = portfolio.RangeYTD
	}
	from, to := portfolio.RangeBounds(chartRange, time.Now())

	holdings, err := h.store.GetAllHoldings()
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	symbols := make([]string, 0, len(holdings))
	for _, holding := range holdings {
		symbols = append(symbols, holding.Symbol)
	}

	combined := make(map[string][]models.PricePoint)

	if len(symbols) > 0 {
		stockHistory, err := h.store.GetQuoteHistory(symbols, &from, &to)
		if err != nil {
			h.respondStoreError(w, err)
			return
		}
		if series := portfolio.PortfolioSeries(holdings, stockHistory); len(series) > 0 {
			combined["portfolio"] = series
		}
	}

	indexHistory, err := h.store.GetIndexHistory(&from, &to)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	for ticker, points := range indexHistory {
		combined[ticker] = portfolio.NormalizeBase100(points)
	}

	aligned := portfolio.AlignSeries(combined)

	// Fixed label order: portfolio first, then the indices.
	series := make([]chartSeries, 0, len(aligned))
	for _, label := range []string{"portfolio", models.IndexTickerASPI, models.IndexTickerSL20} {
		if data, ok := aligned[label]; ok {
			series = append(series, chartSeries{
				Label: label,
				Color: portfolio.SeriesColor(len(series)),
				Data:  data,
			})
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"range":  chartRange,
		"series": series,
	})
}

// latestQuotes reads the quote snapshot through the cache.
func (h *Handler) latestQuotes(ctx context.Context) ([]models.Quote, error) {
	if h.cache != nil {
		if quotes, ok := h.cache.GetQuotes(ctx); ok {
			return quotes, nil
		}
	}
	quotes, err := h.store.GetLatestQuotes()
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		h.cache.SetQuotes(ctx, quotes)
	}
	return quotes, nil
}

// latestIndexQuotes reads the index snapshot through the cache.
func (h *Handler) latestIndexQuotes(ctx context.Context) ([]models.IndexQuote, error) {
	if h.cache != nil {
		if indices, ok := h.cache.GetIndexQuotes(ctx); ok {
			return indices, nil
		}
	}
	indices, err := h.store.GetLatestIndexQuotes()
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		h.cache.SetIndexQuotes(ctx, indices)
	}
	return indices, nil
}

// publishEvent publishes best-effort: a Kafka failure is logged but never
// fails the request.
func (h *Handler) publishEvent(ctx context.Context, publish func(context.Context) error) {
	if h.producer == nil {
		return
	}
	if err := publish(ctx); err != nil {
		h.log.Warn().Err(err).Msg("failed to publish portfolio event")
	}
}

// parseDateBounds parses optional from/to query parameters as calendar
// days. The to bound is extended to the end of its day so it stays
// inclusive.
func parseDateBounds(r *http.Request) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from date: %s", v)
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to date: %s", v)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"apex_bot/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
)

// OrderPlacer is the slice of the trading engine the web layer needs.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req domain.OrderRequest) domain.Outcome
	Rules(ctx context.Context, symbol string) *domain.SymbolRules
}

// HistorySource lists past order attempts for the UI.
type HistorySource interface {
	RecentOrders(limit int) ([]domain.OrderRecord, error)
	OrdersBySymbol(symbol string, limit int) ([]domain.OrderRecord, error)
}

// Server exposes the order form and a small JSON API. All trading logic
// stays in the engine; handlers only translate HTTP to OrderRequest.
type Server struct {
	engine  OrderPlacer
	history HistorySource // may be nil
	router  *mux.Router
	origins []string
	logger  *slog.Logger
}

// NewServer creates the web front end.
func NewServer(engine OrderPlacer, history HistorySource, allowedOrigins []string) *Server {
	s := &Server{
		engine:  engine,
		history: history,
		router:  mux.NewRouter(),
		origins: allowedOrigins,
		logger:  slog.Default().With("module", "web"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handlePlaceOrder).Methods("POST")
	api.HandleFunc("/orders", s.handleRecentOrders).Methods("GET")
	api.HandleFunc("/symbols/{symbol}/rules", s.handleSymbolRules).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start runs the server until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("web server starting", slog.String("addr", addr))
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return server.ListenAndServe()
}

// orderForm is the JSON body of POST /api/v1/orders. Numerics arrive as
// strings so the browser never rounds them through float.
type orderForm struct {
	Symbol    string `json:"symbol"`
	Side      string `json:"side"`
	Kind      string `json:"kind"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
	StopPrice string `json:"stop_price"`
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var form orderForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req, err := form.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome := s.engine.PlaceOrder(r.Context(), req)

	status := http.StatusOK
	if !outcome.OK() {
		// The attempt is terminal either way; 422 just lets clients
		// branch without parsing the body.
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, outcome)
}

func (s *Server) handleRecentOrders(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "order history not enabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	var records []domain.OrderRecord
	var err error
	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		records, err = s.history.OrdersBySymbol(symbol, limit)
	} else {
		records, err = s.history.RecentOrders(limit)
	}
	if err != nil {
		s.logger.Error("failed to load order history", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to load order history")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleSymbolRules(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	rules := s.engine.Rules(r.Context(), symbol)
	if rules == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no trading rules for %s", symbol))
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (f orderForm) toRequest() (domain.OrderRequest, error) {
	req := domain.OrderRequest{
		Symbol: f.Symbol,
		Side:   f.Side,
		Kind:   f.Kind,
	}

	var err error
	if req.Quantity, err = decimal.NewFromString(f.Quantity); err != nil {
		return req, fmt.Errorf("quantity %q is not a number", f.Quantity)
	}
	if f.Price != "" {
		if req.Price, err = decimal.NewFromString(f.Price); err != nil {
			return req, fmt.Errorf("price %q is not a number", f.Price)
		}
	}
	if f.StopPrice != "" {
		if req.StopPrice, err = decimal.NewFromString(f.StopPrice); err != nil {
			return req, fmt.Errorf("stop_price %q is not a number", f.StopPrice)
		}
	}
	return req, nil
}

package stock

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"market-directory/internal/auth"
	"market-directory/internal/httpjson"
	"market-directory/internal/observability"
)

type Handler struct {
	generator *Generator
	responder *httpjson.Responder
	logger    *observability.Logger
}

func NewHandler(generator *Generator, responder *httpjson.Responder, logger *observability.Logger) *Handler {
	return &Handler{generator: generator, responder: responder, logger: logger}
}

func (h *Handler) Symbol(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	points := h.generator.Fixed(symbol)

	userID, _ := auth.UserIDFromContext(r.Context())
	h.logger.Info(r.Context(), "stock_series_generated", "user_id", userID, "symbol", symbol, "points", len(points))

	httpjson.WriteJSON(w, http.StatusOK, points)
}

func (h *Handler) CompanyPrices(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	frame := chi.URLParam(r, "time_frame")

	points, err := h.generator.ForTimeFrame(company, frame)
	if err != nil {
		h.responder.Error(w, r, "stock_prices", err)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	h.logger.Info(r.Context(), "stock_prices_generated",
		"user_id", userID,
		"company", company,
		"time_frame", frame,
		"points", len(points),
	)

	httpjson.WriteJSON(w, http.StatusOK, points)
}

package directory

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"market-directory/internal/apperr"
	"market-directory/internal/auth"
	"market-directory/internal/httpjson"
	"market-directory/internal/observability"
)

type Reader interface {
	ListCompanies(ctx context.Context) ([]Company, error)
	GetCompany(ctx context.Context, id int64) (Company, error)
	ListLocations(ctx context.Context, companyID int64) ([]Location, error)
}

type Handler struct {
	reader    Reader
	responder *httpjson.Responder
	logger    *observability.Logger
}

func NewHandler(reader Reader, responder *httpjson.Responder, logger *observability.Logger) *Handler {
	return &Handler{reader: reader, responder: responder, logger: logger}
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.reader.ListCompanies(r.Context())
	if err != nil {
		h.responder.Error(w, r, "list_companies", err)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, companies)
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(r)
	if !ok {
		h.responder.Error(w, r, "get_company", apperr.ErrNotFound)
		return
	}

	company, err := h.reader.GetCompany(r.Context(), id)
	if err != nil {
		h.responder.Error(w, r, "get_company", err)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	h.logger.Info(r.Context(), "company_lookup", "user_id", userID, "company_id", id)

	httpjson.WriteJSON(w, http.StatusOK, company)
}

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	id, ok := companyID(r)
	if !ok {
		h.responder.Error(w, r, "list_locations", apperr.ErrNotFound)
		return
	}

	locations, err := h.reader.ListLocations(r.Context(), id)
	if err != nil {
		h.responder.Error(w, r, "list_locations", err)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	h.logger.Info(r.Context(), "locations_lookup", "user_id", userID, "company_id", id, "count", len(locations))

	httpjson.WriteJSON(w, http.StatusOK, locations)
}

// companyID parses the {id} segment. Anything but a positive integer cannot
// name a company.
func companyID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

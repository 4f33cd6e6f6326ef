// Package rest exposes the loan engine over HTTP alongside operational
// endpoints.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/usecase"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
	pkgpostgres "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/postgres"
)

const dateLayout = "2006-01-02"

// Deps are the collaborators the router dispatches to. DB and Metrics may be
// nil, in which case /readyz always reports ready and /metrics is not mounted.
type Deps struct {
	Harmonize usecase.LoanHarmonizer
	Portfolio usecase.PortfolioHarmonizer
	Status    usecase.LoanStatusReader
	Preview   usecase.SchedulePreviewer
	DB        pkgpostgres.Pinger
	Metrics   http.Handler
	Logger    *slog.Logger
}

type handlers struct {
	Deps
}

// NewRouter registers all routes and wraps them in request logging.
func NewRouter(deps Deps) http.Handler {
	h := &handlers{Deps: deps}
	r := mux.NewRouter()

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.readyz).Methods(http.MethodGet)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/tenants/{tenant}/loans/{loan}/harmonize", h.harmonizeLoan).Methods(http.MethodPost)
	v1.HandleFunc("/tenants/{tenant}/loans/{loan}/status", h.loanStatus).Methods(http.MethodGet)
	v1.HandleFunc("/tenants/{tenant}/harmonize", h.harmonizePortfolio).Methods(http.MethodPost)
	v1.HandleFunc("/schedules/preview", h.previewSchedule).Methods(http.MethodPost)

	r.Use(LoggingMiddleware(deps.Logger))
	return r
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pkgpostgres.HealthCheck(ctx, h.DB); err != nil {
			h.Logger.WarnContext(r.Context(), "readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *handlers) harmonizeLoan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := h.Harmonize.Execute(r.Context(), dto.HarmonizeLoanRequest{
		TenantID: vars["tenant"],
		LoanID:   vars["loan"],
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) harmonizePortfolio(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LoanIDs []string `json:"loan_ids"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	resp, err := h.Portfolio.Execute(r.Context(), dto.HarmonizePortfolioRequest{
		TenantID: mux.Vars(r)["tenant"],
		LoanIDs:  body.LoanIDs,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) loanStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	include := false
	if v := r.URL.Query().Get("include_schedule"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "include_schedule must be a boolean")
			return
		}
		include = parsed
	}

	resp, err := h.Status.Execute(r.Context(), dto.GetLoanStatusRequest{
		TenantID:        vars["tenant"],
		LoanID:          vars["loan"],
		IncludeSchedule: include,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type previewBody struct {
	DisbursementDate   string          `json:"disbursement_date"`
	Principal          decimal.Decimal `json:"principal"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	RepaymentFrequency string          `json:"repayment_frequency"`
	CalculationMethod  string          `json:"calculation_method"`
	TermMonths         int             `json:"term_months"`
}

func (h *handlers) previewSchedule(w http.ResponseWriter, r *http.Request) {
	var body previewBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	disbursed, err := time.Parse(dateLayout, body.DisbursementDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "disbursement_date must be YYYY-MM-DD")
		return
	}

	resp, err := h.Preview.Execute(r.Context(), dto.PreviewScheduleRequest{
		DisbursementDate:  disbursed,
		Principal:         body.Principal,
		InterestRate:      body.InterestRate,
		Frequency:         body.RepaymentFrequency,
		CalculationMethod: body.CalculationMethod,
		TermMonths:        body.TermMonths,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeUseCaseError maps use case errors to HTTP statuses. Unexpected errors
// are logged and returned without detail.
func (h *handlers) writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": dto.ErrInvalidRequest.Error(), "fields": verr.Fields})
	case errors.Is(err, model.ErrInvalidTerms):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, port.ErrLoanNotFound):
		writeError(w, http.StatusNotFound, "loan not found")
	case errors.Is(err, port.ErrLockNotObtained), errors.Is(err, port.ErrVersionConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		h.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]string{"error": msg})
}

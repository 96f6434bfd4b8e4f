package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/reports"
	"ems/internal/requestctx"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/reports", h.HandleListReports)
	r.Get("/reports/export", h.HandleExportPDF)
	r.Get("/dashboard", h.HandleDashboard)
}

func (h *Handler) filterFromQuery(w http.ResponseWriter, r *http.Request, reqID string) (reports.Filter, bool) {
	q := r.URL.Query()
	actor, _ := middleware.GetActor(r.Context())
	f := reports.Filter{
		CompanyID:  q.Get("companyId"),
		BranchID:   q.Get("branchId"),
		EmployeeID: q.Get("employeeId"),
		TaskID:     q.Get("taskId"),
	}
	if f.CompanyID == "" {
		f.CompanyID = actor.CompanyID
	}

	v := shared.NewValidator()
	v.Required("companyId", f.CompanyID, "company id is required")
	if raw := q.Get("from"); raw != "" {
		if parsed, ok := v.Date("from", raw); ok {
			f.From = parsed
		}
	}
	if raw := q.Get("to"); raw != "" {
		if parsed, ok := v.Date("to", raw); ok {
			f.To = parsed
		}
	}
	if v.Reject(w, reqID) {
		return reports.Filter{}, false
	}
	return f, true
}

func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	f, ok := h.filterFromQuery(w, r, reqID)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	f.Limit, f.Offset = page.Limit, page.Offset

	records, err := h.Service.Records(r.Context(), actor, f)
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) HandleExportPDF(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	f, ok := h.filterFromQuery(w, r, reqID)
	if !ok {
		return
	}

	records, err := h.Service.Records(r.Context(), actor, f)
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="daily-reports.pdf"`)
	if err := reports.RenderPDF(w, "Daily Reports", f.From, f.To, records); err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_error", "failed to render pdf", reqID)
	}
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	companyID := r.URL.Query().Get("companyId")
	if companyID == "" {
		companyID = actor.CompanyID
	}
	v := shared.NewValidator()
	v.Required("companyId", companyID, "company id is required")
	if v.Reject(w, reqID) {
		return
	}

	dashboard, err := h.Service.Dashboard(r.Context(), actor, companyID)
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, dashboard, reqID)
}

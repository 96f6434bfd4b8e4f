package directoryhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/directory"
	"ems/internal/domain/rbac"
	"ems/internal/requestctx"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/companies", h.HandleCreateCompany)
	r.Get("/companies", h.HandleListCompanies)
	r.Get("/companies/{companyID}", h.HandleGetCompany)
	r.Put("/companies/{companyID}", h.HandleUpdateCompany)
	r.Delete("/companies/{companyID}", h.HandleDeactivateCompany)

	r.Post("/branches", h.HandleCreateBranch)
	r.Get("/branches", h.HandleListBranches)
	r.Put("/branches/{branchID}", h.HandleUpdateBranch)
	r.Post("/branches/{branchID}/move", h.HandleMoveBranch)
	r.Post("/branches/{branchID}/status", h.HandleBranchStatus)

	r.Post("/employees", h.HandleCreateEmployee)
	r.Get("/employees", h.HandleListEmployees)
	r.Get("/employees/{employeeID}", h.HandleGetEmployee)
	r.Put("/employees/{employeeID}", h.HandleUpdateEmployee)
	r.Post("/employees/{employeeID}/status", h.HandleEmployeeStatus)
}

type createCompanyRequest struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

func (h *Handler) HandleCreateCompany(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "company name is required")
	v.Required("username", payload.Username, "username is required")
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, reqID) {
		return
	}

	company, err := h.Service.CreateCompany(r.Context(), actor, directory.NewCompany{
		Name:         payload.Name,
		Username:     payload.Username,
		Password:     payload.Password,
		ContactEmail: payload.ContactEmail,
		ContactPhone: payload.ContactPhone,
	})
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Created(w, company, reqID)
}

func (h *Handler) HandleListCompanies(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	companies, err := h.Service.ListCompanies(r.Context(), actor)
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, companies, reqID)
}

func (h *Handler) HandleGetCompany(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	company, err := h.Service.GetCompany(r.Context(), actor, chi.URLParam(r, "companyID"))
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, company, reqID)
}

type updateCompanyRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
}

func (h *Handler) HandleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload updateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "company name is required")
	if v.Reject(w, reqID) {
		return
	}

	companyID := chi.URLParam(r, "companyID")
	if err := h.Service.UpdateCompany(r.Context(), actor, companyID, payload.Name, payload.ContactEmail, payload.ContactPhone); err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) HandleDeactivateCompany(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	if err := h.Service.DeactivateCompany(r.Context(), actor, chi.URLParam(r, "companyID")); err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, reqID)
}

type createBranchRequest struct {
	CompanyID      string `json:"companyId"`
	ParentBranchID string `json:"parentBranchId"`
	Name           string `json:"name"`
	Location       string `json:"location"`
	Head           string `json:"head"`
	Main           bool   `json:"main"`
}

func (h *Handler) HandleCreateBranch(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload createBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.CompanyID == "" {
		payload.CompanyID = actor.CompanyID
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "branch name is required")
	v.Required("companyId", payload.CompanyID, "company id is required")
	if v.Reject(w, reqID) {
		return
	}

	branch, err := h.Service.CreateBranch(r.Context(), actor, directory.NewBranch{
		CompanyID:      payload.CompanyID,
		ParentBranchID: payload.ParentBranchID,
		Name:           payload.Name,
		Location:       payload.Location,
		Head:           payload.Head,
		Main:           payload.Main,
	})
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Created(w, branch, reqID)
}

func (h *Handler) HandleListBranches(w http.ResponseWriter, r *http.Request) {
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
	branches, err := h.Service.ListBranchesUnder(r.Context(), actor, companyID, r.URL.Query().Get("root"))
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, branches, reqID)
}

type updateBranchRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Head     string `json:"head"`
}

func (h *Handler) HandleUpdateBranch(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload updateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "branch name is required")
	if v.Reject(w, reqID) {
		return
	}

	branchID := chi.URLParam(r, "branchID")
	if err := h.Service.UpdateBranch(r.Context(), actor, branchID, payload.Name, payload.Location, payload.Head); err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

type moveBranchRequest struct {
	ParentBranchID string `json:"parentBranchId"`
}

func (h *Handler) HandleMoveBranch(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload moveBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	branchID := chi.URLParam(r, "branchID")
	if err := h.Service.MoveBranch(r.Context(), actor, branchID, payload.ParentBranchID); err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "moved"}, reqID)
}

type statusRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) HandleBranchStatus(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	branchID := chi.URLParam(r, "branchID")
	if err := h.Service.SetBranchStatus(r.Context(), actor, branchID, payload.Active); err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

type createEmployeeRequest struct {
	BranchID string `json:"branchId"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (h *Handler) HandleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("branchId", payload.BranchID, "branch id is required")
	v.Required("username", payload.Username, "username is required")
	v.Required("password", payload.Password, "password is required")
	v.Required("fullName", payload.FullName, "full name is required")
	v.Enum("role", payload.Role, []string{string(rbac.RoleManager), string(rbac.RoleAsstManager), string(rbac.RoleEmployee)}, "unknown role")
	v.Required("role", payload.Role, "role is required")
	if v.Reject(w, reqID) {
		return
	}

	employee, err := h.Service.CreateEmployee(r.Context(), actor, directory.NewEmployee{
		BranchID: payload.BranchID,
		Role:     rbac.Role(payload.Role),
		Username: payload.Username,
		Password: payload.Password,
		FullName: payload.FullName,
	})
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Created(w, employee, reqID)
}

func (h *Handler) HandleListEmployees(w http.ResponseWriter, r *http.Request) {
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
	employees, err := h.Service.ListEmployeesUnder(r.Context(), actor, companyID, r.URL.Query().Get("root"))
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) HandleGetEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	employee, err := h.Service.GetEmployee(r.Context(), actor, chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, employee, reqID)
}

type updateEmployeeRequest struct {
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func (h *Handler) HandleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload updateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("fullName", payload.FullName, "full name is required")
	v.Enum("role", payload.Role, []string{string(rbac.RoleManager), string(rbac.RoleAsstManager), string(rbac.RoleEmployee)}, "unknown role")
	v.Required("role", payload.Role, "role is required")
	if v.Reject(w, reqID) {
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if err := h.Service.UpdateEmployee(r.Context(), actor, employeeID, payload.FullName, rbac.Role(payload.Role)); err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) HandleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if err := h.Service.SetEmployeeStatus(r.Context(), actor, employeeID, payload.Active); err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

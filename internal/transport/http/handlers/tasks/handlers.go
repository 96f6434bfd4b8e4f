package taskshandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/tasks"
	"ems/internal/requestctx"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service *tasks.Service
}

func NewHandler(service *tasks.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/tasks", h.HandleCreateTask)
	r.Get("/tasks", h.HandleListTasks)
	r.Get("/tasks/mine", h.HandleListMine)
	r.Get("/tasks/{taskID}", h.HandleGetTask)
	r.Get("/tasks/{taskID}/progress", h.HandleProgress)
	r.Post("/tasks/{taskID}/assign", h.HandleAssignTask)
	r.Post("/tasks/{taskID}/status", h.HandleUpdateStatus)
	r.Post("/reports", h.HandleSubmitReport)
}

// taskView folds the due date into the status so clients see overdue without
// a stored overdue state existing anywhere.
type taskView struct {
	tasks.Task
	Status tasks.Status `json:"status"`
}

func viewOf(t tasks.Task, now time.Time) taskView {
	return taskView{Task: t, Status: t.EffectiveStatus(now)}
}

func viewsOf(list []tasks.Task, now time.Time) []taskView {
	out := make([]taskView, 0, len(list))
	for _, t := range list {
		out = append(out, viewOf(t, now))
	}
	return out
}

type createTaskRequest struct {
	BranchID    string   `json:"branchId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	AssigneeIDs []string `json:"assigneeIds"`
	WholeBranch bool     `json:"wholeBranch"`
}

func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("branchId", payload.BranchID, "branch id is required")
	v.Required("title", payload.Title, "title is required")
	if !payload.WholeBranch && len(payload.AssigneeIDs) == 0 {
		v.Add("assigneeIds", "at least one assignee or wholeBranch is required")
	}
	var due *time.Time
	if payload.DueDate != "" {
		parsed, ok := v.Date("dueDate", payload.DueDate)
		if ok {
			due = &parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	task, err := h.Service.CreateTask(r.Context(), actor, tasks.NewTask{
		BranchID:    payload.BranchID,
		Title:       payload.Title,
		Description: payload.Description,
		DueDate:     due,
		AssigneeIDs: payload.AssigneeIDs,
		WholeBranch: payload.WholeBranch,
	})
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Created(w, viewOf(*task, time.Now()), reqID)
}

func (h *Handler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var (
		list []tasks.Task
		err  error
	)
	if branchID := r.URL.Query().Get("branchId"); branchID != "" {
		list, err = h.Service.ListForBranch(r.Context(), actor, branchID)
	} else {
		companyID := r.URL.Query().Get("companyId")
		if companyID == "" {
			companyID = actor.CompanyID
		}
		v := shared.NewValidator()
		v.Required("companyId", companyID, "company id is required")
		if v.Reject(w, reqID) {
			return
		}
		list, err = h.Service.ListForCompany(r.Context(), actor, companyID)
	}
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, viewsOf(list, time.Now()), reqID)
}

func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	list, err := h.Service.ListAssigned(r.Context(), actor)
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, viewsOf(list, time.Now()), reqID)
}

func (h *Handler) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	task, err := h.Service.GetTask(r.Context(), actor, chi.URLParam(r, "taskID"))
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, viewOf(*task, time.Now()), reqID)
}

func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	progress, err := h.Service.Progress(r.Context(), actor, chi.URLParam(r, "taskID"))
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, progress, reqID)
}

type assignRequest struct {
	EmployeeID string `json:"employeeId"`
}

func (h *Handler) HandleAssignTask(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload assignRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Service.AssignTask(r.Context(), actor, chi.URLParam(r, "taskID"), payload.EmployeeID); err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, map[string]string{"status": "assigned"}, reqID)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("status", payload.Status, "status is required")
	v.Enum("status", payload.Status, []string{string(tasks.StatusInProgress), string(tasks.StatusCompleted)}, "status must be in_progress or completed")
	if v.Reject(w, reqID) {
		return
	}

	task, err := h.Service.UpdateStatus(r.Context(), actor, chi.URLParam(r, "taskID"), tasks.Status(payload.Status))
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, viewOf(*task, time.Now()), reqID)
}

type submitReportRequest struct {
	TaskID  string `json:"taskId"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

func (h *Handler) HandleSubmitReport(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload submitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("content", payload.Content, "report content is required")
	var date time.Time
	if payload.Date != "" {
		parsed, ok := v.Date("date", payload.Date)
		if ok {
			date = parsed
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.SubmitReport(r.Context(), actor, tasks.NewReport{
		TaskID:  payload.TaskID,
		Date:    date,
		Content: payload.Content,
	})
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

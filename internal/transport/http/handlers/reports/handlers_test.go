package reportshandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ems/internal/domain/rbac"
	"ems/internal/transport/http/middleware"
)

func adminRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.WithActor(req.Context(), rbac.Actor{ID: "admin", Role: rbac.RoleAdmin}))
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body.Error.Code
}

// Admin has no company of its own; listings and the dashboard must demand an
// explicit companyId rather than pass an empty string to a uuid comparison.
func TestListReportsRequiresCompanyForAdmin(t *testing.T) {
	t.Parallel()

	h := &Handler{}
	rec := httptest.NewRecorder()
	h.HandleListReports(rec, adminRequest(http.MethodGet, "/reports"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", code)
	}
}

func TestDashboardRequiresCompanyForAdmin(t *testing.T) {
	t.Parallel()

	h := &Handler{}
	rec := httptest.NewRecorder()
	h.HandleDashboard(rec, adminRequest(http.MethodGet, "/dashboard"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", code)
	}
}

package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/routineland/routine/internal/api"
	"github.com/routineland/routine/internal/goals"
	"github.com/routineland/routine/internal/model"
	"github.com/routineland/routine/tests/testutil"
)

var testNow = time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	st := testutil.NewTestStore(t)
	svc := goals.NewService(st)
	svc.Now = func() time.Time { return testNow }
	return api.New(svc, st, "").Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAddAndListGoals(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/goals", `{
		"timeframe": "weekly",
		"title": "Run three times",
		"categoryId": "health",
		"startAt": "2024-03-04T09:00",
		"durationValue": 7
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created model.Goal
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if created.EndAt != "2024-03-11T09:00" {
		t.Errorf("expected computed end, got %q", created.EndAt)
	}

	rec = do(t, h, http.MethodGet, "/goals?timeframe=weekly", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var listed struct {
		Groups []goals.Group `json:"groups"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(listed.Groups) != 1 || listed.Groups[0].Goals[0].ID != created.ID {
		t.Fatalf("expected the created goal back, got %+v", listed.Groups)
	}
}

func TestListRequiresTimeframe(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/goals", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAddValidationFailure(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodPost, "/goals", `{
		"timeframe": "weekly",
		"title": "Too long",
		"categoryId": "health",
		"startAt": "2024-03-04T09:00",
		"durationValue": 8
	}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestToggleUnknownGoal(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodPost, "/goals/nope/toggle", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestToggleAndRemove(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/goals", `{
		"timeframe": "daily",
		"title": "Water plants",
		"categoryId": "home",
		"startAt": "2024-03-06T09:00",
		"durationValue": 12
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created model.Goal
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	rec = do(t, h, http.MethodPost, "/goals/"+created.ID+"/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var toggled model.Goal
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if toggled.Status != model.StatusDone {
		t.Errorf("expected DONE, got %q", toggled.Status)
	}

	rec = do(t, h, http.MethodDelete, "/goals/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Totals      json.RawMessage `json:"totals"`
		ByTimeframe json.RawMessage `json:"byTimeframe"`
		Home        json.RawMessage `json:"home"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Totals == nil || body.ByTimeframe == nil || body.Home == nil {
		t.Error("expected totals, byTimeframe and home sections")
	}
}

func TestBackupEndpoint(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/backup", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "routineland-backup-") {
		t.Errorf("expected a download disposition, got %q", got)
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/advocase-dev/advocase-store/internal/records"
	"github.com/advocase-dev/advocase-store/internal/storage"
	"github.com/advocase-dev/advocase-store/pkg/schema"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := records.NewService(records.Config{
		Backend: storage.NewMemory(),
		Seeds:   records.DefaultSeeds(),
	})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	h := &Handler{
		Records:   svc,
		JWTSecret: "test-secret",
		JWTIssuer: "advocase-test",
		TokenTTL:  time.Hour,
	}
	return NewRouter(h), h
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signIn(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, r, "POST", "/auth/signin", "", gin.H{"email": email, "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("sign in %s: status %d: %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return resp.Token
}

func TestAuthRequired(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, "GET", "/v1/children", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d, want 401", w.Code)
	}
	w = doJSON(t, r, "GET", "/v1/children", "garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d, want 401", w.Code)
	}
}

func TestSignInAndListChildren(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := signIn(t, r, "parent@example.com")

	w := doJSON(t, r, "GET", "/v1/children", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var children []schema.Child
	json.Unmarshal(w.Body.Bytes(), &children)
	if len(children) != 1 || children[0].Name != "John Doe" {
		t.Fatalf("children = %+v", children)
	}
}

func TestSignUpApprovalFlow(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, "POST", "/auth/signup", "", gin.H{"email": "new@example.com", "name": "New Parent", "role": "parent"})
	if w.Code != http.StatusCreated {
		t.Fatalf("sign up: status %d: %s", w.Code, w.Body.String())
	}
	var user schema.User
	json.Unmarshal(w.Body.Bytes(), &user)

	// Not approved yet.
	w = doJSON(t, r, "POST", "/auth/signin", "", gin.H{"email": "new@example.com", "password": "pw"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("unapproved sign in: status %d, want 403", w.Code)
	}

	adminToken := signIn(t, r, "admin@example.com")
	w = doJSON(t, r, "POST", "/v1/users/"+user.ID+"/approve", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approve: status %d: %s", w.Code, w.Body.String())
	}
	if token := signIn(t, r, "new@example.com"); token == "" {
		t.Fatal("no token after approval")
	}

	// Duplicate registration conflicts.
	w = doJSON(t, r, "POST", "/auth/signup", "", gin.H{"email": "new@example.com", "name": "Again", "role": "parent"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate sign up: status %d, want 409", w.Code)
	}
}

func TestChildVisibilityAcrossRoles(t *testing.T) {
	r, _ := setupTestRouter(t)
	parentToken := signIn(t, r, "parent@example.com")
	advocateToken := signIn(t, r, "advocate@example.com")

	w := doJSON(t, r, "POST", "/v1/children", parentToken, gin.H{"name": "Second Child", "grade": "1st Grade"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add child: status %d: %s", w.Code, w.Body.String())
	}
	var child schema.Child
	json.Unmarshal(w.Body.Bytes(), &child)

	// The advocate has no IEP or case touching the new child.
	w = doJSON(t, r, "GET", "/v1/children/"+child.ID, advocateToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("advocate get: status %d, want 404", w.Code)
	}

	// Advocates cannot create children at all.
	w = doJSON(t, r, "POST", "/v1/children", advocateToken, gin.H{"name": "Nope"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("advocate add: status %d, want 403", w.Code)
	}
}

func TestUploadIEPAndFetch(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := signIn(t, r, "parent@example.com")

	w := doJSON(t, r, "POST", "/v1/ieps", token, gin.H{
		"child_id":  "1",
		"file_name": "spring_review.pdf",
		"file_url":  "https://example.com/spring_review.pdf",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: status %d: %s", w.Code, w.Body.String())
	}
	var iep schema.IEP
	json.Unmarshal(w.Body.Bytes(), &iep)
	if iep.AnalysisStatus != schema.AnalysisUploaded {
		t.Fatalf("status = %s, want uploaded", iep.AnalysisStatus)
	}

	w = doJSON(t, r, "GET", "/v1/ieps/"+iep.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	w = doJSON(t, r, "GET", "/v1/children/1/ieps", token, nil)
	var list []schema.IEP
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 2 {
		t.Fatalf("child ieps = %d, want seeded + uploaded", len(list))
	}
}

func TestAuditEndpointIsAdminOnly(t *testing.T) {
	r, _ := setupTestRouter(t)
	parentToken := signIn(t, r, "parent@example.com")
	adminToken := signIn(t, r, "admin@example.com")

	w := doJSON(t, r, "GET", "/v1/audit", parentToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("parent audit: status %d, want 403", w.Code)
	}

	w = doJSON(t, r, "GET", "/v1/audit/stats", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin stats: status %d: %s", w.Code, w.Body.String())
	}
	var stats schema.SecurityStats
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.Total == 0 {
		t.Fatal("stats counted nothing; seeded entries and sign-ins expected")
	}
}

func TestScheduleConflict(t *testing.T) {
	r, h := setupTestRouter(t)
	token := signIn(t, r, "parent@example.com")

	w := doJSON(t, r, "GET", "/v1/advocates/2/slots", token, nil)
	var slots []schema.TimeSlot
	json.Unmarshal(w.Body.Bytes(), &slots)
	if len(slots) == 0 {
		t.Fatal("no seeded slots for advocate 2")
	}

	body := gin.H{"slot_id": slots[0].ID, "type": "video"}
	w = doJSON(t, r, "POST", "/v1/appointments", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("schedule: status %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, "POST", "/v1/appointments", token, body)
	if w.Code != http.StatusConflict {
		t.Fatalf("double booking: status %d, want 409", w.Code)
	}
	h.Records.Wait()
}

func TestHealthz(t *testing.T) {
	r, _ := setupTestRouter(t)
	w := doJSON(t, r, "GET", "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", w.Code)
	}
}

func TestFeedbackFlow(t *testing.T) {
	r, _ := setupTestRouter(t)
	parentToken := signIn(t, r, "parent@example.com")
	adminToken := signIn(t, r, "admin@example.com")

	w := doJSON(t, r, "POST", "/v1/feedback", parentToken, gin.H{
		"type":        "bug",
		"title":       "Upload crash",
		"description": "The app crashes when uploading a PDF over 10MB",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: status %d: %s", w.Code, w.Body.String())
	}
	var fb schema.Feedback
	json.Unmarshal(w.Body.Bytes(), &fb)
	if fb.Priority != schema.SeverityHigh {
		t.Fatalf("priority = %s, want high", fb.Priority)
	}

	w = doJSON(t, r, "PATCH", fmt.Sprintf("/v1/feedback/%s/status", fb.ID), adminToken, gin.H{"status": "resolved"})
	if w.Code != http.StatusOK {
		t.Fatalf("triage: status %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, "PATCH", fmt.Sprintf("/v1/feedback/%s/status", fb.ID), parentToken, gin.H{"status": "pending"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("parent triage: status %d, want 403", w.Code)
	}
}

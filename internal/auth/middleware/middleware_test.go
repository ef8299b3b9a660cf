package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/gradeflow/gradeflow/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("test-secret")
	tok, err := a.IssueJWT("alice", "teacher")
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}
	c, err := a.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Sub != "alice" || c.Role != "teacher" {
		t.Fatalf("claims = %+v", c)
	}

	other := NewAuthService("different-secret")
	if _, err := other.Parse(tok); err == nil {
		t.Fatalf("token signed with another secret must not parse")
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	a := NewAuthService("test-secret")
	h := LoginHandler(a, []Credential{{Username: "admin", PassHash: string(hash), Role: "admin"}})

	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"admin","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	c, err := a.Parse(body["access_token"])
	if err != nil || c.Role != "admin" {
		t.Fatalf("issued token claims = %+v, err = %v", c, err)
	}

	req = httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"admin","password":"wrong"}`))
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", rec.Code)
	}
}

func TestJWTMiddlewareAttachesSubjectAndRole(t *testing.T) {
	a := NewAuthService("test-secret")
	tok, _ := a.IssueJWT("bob", "teacher")

	var gotSub, gotRole string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	})
	h := JWTMiddleware(a)(rbac.Require("grade:question")(inner))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotSub != "bob" || gotRole != "teacher" {
		t.Fatalf("context carried sub=%q role=%q", gotSub, gotRole)
	}

	// No token.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing bearer status = %d", rec.Code)
	}
}

func TestRBACDeniesUnlistedPermission(t *testing.T) {
	a := NewAuthService("test-secret")
	tok, _ := a.IssueJWT("bob", "teacher")

	h := JWTMiddleware(a)(rbac.Require("made:up")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

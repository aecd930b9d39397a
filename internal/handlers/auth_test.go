package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/offermaster/internal/services"
)

func TestAuthRegisterLoginFlow(t *testing.T) {
	app := newTestApp(t)
	mux := http.NewServeMux()
	app.auth.Register(mux)

	post := func(path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, request(http.MethodPost, path, body, 0, ""))
		return w
	}

	w := post("/api/auth/register", `{"firstName":"Ana","lastName":"Anić","email":"ana@test.hr","password":"slaba"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	w = post("/api/auth/register", `{"firstName":"Ana","lastName":"Anić","email":"ana@test.hr","password":"Jaka1234"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}
	w = post("/api/auth/register", `{"firstName":"Ana","lastName":"Anić","email":"ANA@test.hr","password":"Jaka1234"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}

	w = post("/api/auth/login", `{"identifier":"ana@test.hr","password":"Jaka1234"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var res services.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.TokenType != "Bearer" || res.AccessToken == "" || res.User == nil || res.User.FirstName != "Ana" {
		t.Fatalf("unexpected login response %+v", res)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatal("password hash must not be serialised")
	}

	w = post("/api/auth/login", `{"email":"ana@test.hr","password":"Kriva1234"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	if msg := messageOf(decodeError(t, w)); msg != "Email ili lozinka su pogrešni, pokušajte ponovno" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestAuthForgotAndReset(t *testing.T) {
	app := newTestApp(t)
	mux := http.NewServeMux()
	app.auth.Register(mux)
	app.user(t, "ana@test.hr")

	for _, email := range []string{"ana@test.hr", "nitko@test.hr"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, request(http.MethodPost, "/api/auth/forgot-password", `{"email":"`+email+`"}`, 0, ""))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", email, w.Code)
		}
	}
	if len(app.mail.Sent) != 1 {
		t.Fatalf("expected exactly one reset mail got %d", len(app.mail.Sent))
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, request(http.MethodPost, "/api/auth/reset-password", `{"token":"nope","newPassword":"Nova12345"}`, 0, ""))
	if w.Code != http.StatusBadRequest || messageOf(decodeError(t, w)) != "Nevažeći token" {
		t.Fatalf("expected invalid token got %d: %s", w.Code, w.Body.String())
	}
}

func TestUserProfile(t *testing.T) {
	app := newTestApp(t)
	u := app.user(t, "ana@test.hr")
	app.user(t, "zauzet@test.hr")

	w := httptest.NewRecorder()
	app.users.Me(w, request(http.MethodGet, "/api/users/me", "", u.ID, ""))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"email":"ana@test.hr"`) {
		t.Fatalf("unexpected me response %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	app.users.UpdateMe(w, request(http.MethodPut, "/api/users/me", `{"firstName":"Ana","lastName":"B","email":"zauzet@test.hr"}`, u.ID, ""))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	app.users.UpdateMe(w, request(http.MethodPut, "/api/users/me", `{"firstName":"Ana","lastName":"B","email":"ana@test.hr","primaryAreaOfWork":"Soboslikar"}`, u.ID, ""))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Soboslikar") {
		t.Fatalf("unexpected update response %d: %s", w.Code, w.Body.String())
	}
}

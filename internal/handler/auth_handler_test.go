package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/service"
)

func TestVerifyLoginCodeRejectsWrongCode(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	if _, _, err := service.NewAuthService(db.DB).RequestCode("wrong@example.com", time.Now()); err != nil {
		t.Fatalf("failed to issue login code: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/verify",
		map[string]string{"email": "wrong@example.com", "code": "000000"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong code, got %d", w.Code)
	}
}

func TestVerifyLoginCodeEstablishesSession(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	cookies := loginUser(t, r, "session@example.com")
	if len(cookies) == 0 {
		t.Fatal("expected session cookie after login")
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/profile", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("profile lookup failed with %d", w.Code)
	}

	body := decodeBody(t, w)
	user := body["user"].(map[string]any)
	if user["email"] != "session@example.com" {
		t.Fatalf("unexpected profile: %v", user)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	cookies := loginUser(t, r, "rename@example.com")

	w := doJSON(t, r, http.MethodPut, "/api/v1/profile",
		map[string]string{"username": "np"}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short username, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/profile",
		map[string]string{"username": "new_name", "avatar_url": "https://cdn.example.com/a.png"}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	user := body["user"].(map[string]any)
	if user["username"] != "new_name" {
		t.Fatalf("unexpected username: %v", user)
	}
}

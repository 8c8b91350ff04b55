package service

import (
	"errors"
	"testing"

	"github.com/moodlog/internal/db"
)

func TestProfileUpdate(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, "profile@example.com", "")
	svc := NewProfileService(db.DB)

	updated, err := svc.Update(user.ID, ProfileInput{
		Username:  "  mood_fan  ",
		AvatarURL: " https://cdn.example.com/a.png ",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Username != "mood_fan" {
		t.Fatalf("expected trimmed username, got %q", updated.Username)
	}
	if updated.AvatarURL != "https://cdn.example.com/a.png" {
		t.Fatalf("expected trimmed avatar url, got %q", updated.AvatarURL)
	}
}

func TestProfileUpdateStripsMarkup(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, "profile@example.com", "")
	svc := NewProfileService(db.DB)

	// HTML 标签清洗后剩余的内容仍需通过格式校验
	updated, err := svc.Update(user.ID, ProfileInput{Username: "<b>clean_name</b>"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Username != "clean_name" {
		t.Fatalf("expected markup stripped, got %q", updated.Username)
	}

	if _, err := svc.Update(user.ID, ProfileInput{Username: "<script>alert(1)</script>"}); !errors.Is(err, ErrUsernameInvalid) {
		t.Fatalf("expected ErrUsernameInvalid, got %v", err)
	}
}

func TestProfileUpdateRejectsInvalidUsername(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, "profile@example.com", "")
	svc := NewProfileService(db.DB)

	for _, username := range []string{"", "ab", "has space", "way_too_long_username_here_xx", "emoji😊"} {
		if _, err := svc.Update(user.ID, ProfileInput{Username: username}); !errors.Is(err, ErrUsernameInvalid) {
			t.Fatalf("expected ErrUsernameInvalid for %q, got %v", username, err)
		}
	}
}

func TestProfileUsernameTaken(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, "first@example.com", "taken_name")
	second := createTestUser(t, "second@example.com", "")
	svc := NewProfileService(db.DB)

	if _, err := svc.Update(second.ID, ProfileInput{Username: "taken_name"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// 自己保留原名不算重名
	first, err := svc.FindByUsername("taken_name")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	if _, err := svc.Update(first.ID, ProfileInput{Username: "taken_name"}); err != nil {
		t.Fatalf("same user keeping name failed: %v", err)
	}
}

func TestProfileFindByUsername(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, "find@example.com", "findable")
	svc := NewProfileService(db.DB)

	user, err := svc.FindByUsername("findable")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	if user.Email != "find@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.FindByUsername("missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.FindByUsername("   "); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for blank name, got %v", err)
	}
}

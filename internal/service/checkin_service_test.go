package service

import (
	"errors"
	"testing"
	"time"

	"github.com/moodlog/internal/db"
)

func TestCheckinSubmitAndDailyGate(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, "mood@example.com", "mooduser")
	svc := NewCheckinService(db.DB)
	now := day(2024, 3, 1).Add(10 * time.Hour)

	record, err := svc.Submit(user.ID, CheckinInput{
		Emoji:          "😊",
		SentimentScore: 0.8,
		Tags:           []string{"work", "sleep"},
	}, now)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if record.ID == 0 {
		t.Fatal("expected checkin to have ID")
	}
	if len(record.Tags) != 2 {
		t.Fatalf("unexpected tags: %v", record.Tags)
	}

	// 当天再次提交被服务端闸门拦截
	_, err = svc.Submit(user.ID, CheckinInput{Emoji: "🙂", SentimentScore: 0.6}, now.Add(2*time.Hour))
	if !errors.Is(err, ErrCheckinExistsToday) {
		t.Fatalf("expected ErrCheckinExistsToday, got %v", err)
	}

	// 第二天可以继续打卡
	if _, err := svc.Submit(user.ID, CheckinInput{Emoji: "🙂", SentimentScore: 0.6}, now.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("next day submit failed: %v", err)
	}
}

func TestCheckinSubmitValidation(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, "mood@example.com", "mooduser")
	svc := NewCheckinService(db.DB)
	now := day(2024, 3, 1).Add(10 * time.Hour)

	cases := []struct {
		name  string
		input CheckinInput
	}{
		{name: "unknown emoji", input: CheckinInput{Emoji: "🐶", SentimentScore: 0.5}},
		{name: "score too high", input: CheckinInput{Emoji: "😊", SentimentScore: 1.2}},
		{name: "score negative", input: CheckinInput{Emoji: "😊", SentimentScore: -0.1}},
		{name: "unknown tag", input: CheckinInput{Emoji: "😊", SentimentScore: 0.5, Tags: []string{"coffee"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(user.ID, tc.input, now); !errors.Is(err, ErrCheckinInvalid) {
				t.Fatalf("expected ErrCheckinInvalid, got %v", err)
			}
		})
	}
}

func TestCheckinTodayLookup(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, "mood@example.com", "mooduser")
	svc := NewCheckinService(db.DB)
	now := day(2024, 3, 1).Add(10 * time.Hour)

	record, err := svc.TodayCheckin(user.ID, now)
	if err != nil {
		t.Fatalf("TodayCheckin failed: %v", err)
	}
	if record != nil {
		t.Fatal("expected no checkin before submit")
	}

	if _, err := svc.Submit(user.ID, CheckinInput{Emoji: "😊", SentimentScore: 0.8}, now); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	record, err = svc.TodayCheckin(user.ID, now.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("TodayCheckin after submit failed: %v", err)
	}
	if record == nil || record.Emoji != "😊" {
		t.Fatalf("unexpected today checkin: %+v", record)
	}

	// 第二天查询不应看到前一天的打卡
	record, err = svc.TodayCheckin(user.ID, now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("TodayCheckin next day failed: %v", err)
	}
	if record != nil {
		t.Fatal("expected no checkin on the next day")
	}
}

func TestCheckinListSinceAscending(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, "mood@example.com", "mooduser")
	svc := NewCheckinService(db.DB)

	dates := []time.Time{
		day(2024, 3, 3).Add(9 * time.Hour),
		day(2024, 3, 1).Add(9 * time.Hour),
		day(2024, 3, 2).Add(9 * time.Hour),
	}
	for _, at := range dates {
		record := db.Checkin{UserID: user.ID, Emoji: "🙂", SentimentScore: 0.6}
		record.CreatedAt = at
		if err := db.DB.Create(&record).Error; err != nil {
			t.Fatalf("failed to seed checkin: %v", err)
		}
	}

	records, err := svc.ListSince(user.ID, day(2024, 3, 1))
	if err != nil {
		t.Fatalf("ListSince failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].CreatedAt.After(records[i].CreatedAt) {
			t.Fatal("expected records ascending by created_at")
		}
	}

	// since 截断
	records, err = svc.ListSince(user.ID, day(2024, 3, 2))
	if err != nil {
		t.Fatalf("ListSince with cutoff failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records after cutoff, got %d", len(records))
	}
}

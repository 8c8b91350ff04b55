package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestAPI 打开内存数据库并装配一个带会话中间件的测试引擎
func setupTestAPI(t *testing.T) (*gin.Engine, *API, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.User{},
		&db.LoginCode{},
		&db.Checkin{},
		&db.Streak{},
		&db.Buddy{},
		&db.Group{},
		&db.GroupMember{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb
	api := NewAPI(gdb)

	r := gin.New()
	r.Use(sessions.Sessions("moodlog_session", cookie.NewStore([]byte("test-secret"))))

	r.POST("/api/v1/auth/verify", api.VerifyLoginCode)

	authed := r.Group("/api/v1")
	authed.Use(AuthRequired())
	{
		authed.POST("/checkins", api.SubmitCheckin)
		authed.GET("/checkins/today", api.GetTodayCheckin)
		authed.GET("/streak", api.GetStreak)
		authed.GET("/insights", api.GetInsights)
		authed.GET("/profile", api.GetProfile)
		authed.PUT("/profile", api.UpdateProfile)
	}

	cleanup := func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return r, api, cleanup
}

// loginUser 走完整的验证码登录流程，返回后续请求要携带的会话 Cookie
func loginUser(t *testing.T, r *gin.Engine, email string) []*http.Cookie {
	t.Helper()

	_, code, err := service.NewAuthService(db.DB).RequestCode(email, time.Now())
	if err != nil {
		t.Fatalf("failed to issue login code: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"email": email, "code": code})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}

	return w.Result().Cookies()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

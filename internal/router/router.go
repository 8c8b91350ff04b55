package router

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/handler"
	"github.com/moodlog/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Options 汇总路由装配所需的配置项
type Options struct {
	SessionSecret      string
	CORSOrigins        []string
	RateLimitPerMinute int
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("moodlog_session", store))

	// 移动端跨域
	corsCfg := cors.DefaultConfig()
	if len(opts.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = opts.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	if opts.RateLimitPerMinute > 0 {
		r.Use(rateLimit(opts.RateLimitPerMinute))
	}

	api := handler.NewAPI(gdb)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/code", api.RequestLoginCode)
			auth.POST("/verify", api.VerifyLoginCode)
			auth.POST("/logout", api.Logout)
		}

		v1.GET("/mood/options", api.GetMoodOptions)

		// 需要登录的业务路由
		me := v1.Group("")
		me.Use(handler.AuthRequired())
		{
			me.GET("/profile", api.GetProfile)
			me.PUT("/profile", api.UpdateProfile)

			me.POST("/checkins", api.SubmitCheckin)
			me.GET("/checkins/today", api.GetTodayCheckin)
			me.GET("/streak", api.GetStreak)
			me.GET("/insights", api.GetInsights)

			me.GET("/buddies", api.ListBuddies)
			me.POST("/buddies", api.SendBuddyRequest)
			me.POST("/buddies/:userId/accept", api.AcceptBuddyRequest)
			me.POST("/buddies/:userId/reject", api.RejectBuddyRequest)
			me.DELETE("/buddies/:userId", api.RemoveBuddy)

			me.GET("/groups", api.ListGroups)
			me.POST("/groups", api.CreateGroup)
			me.POST("/groups/join", api.JoinGroup)
			me.DELETE("/groups/:id/membership", api.LeaveGroup)
		}
	}

	return r
}

// requestLogger 用 zap 记录每个请求的方法、路径、状态与耗时
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logging.L().Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

type ipLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// rateLimit 按客户端 IP 做令牌桶限流
func rateLimit(perMinute int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = map[string]*ipLimiter{}
	)
	every := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute/2 + 1

	lookup := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		for key, entry := range limiters {
			if now.After(entry.expires) {
				delete(limiters, key)
			}
		}

		entry, ok := limiters[ip]
		if !ok {
			entry = &ipLimiter{limiter: rate.NewLimiter(every, burst)}
			limiters[ip] = entry
		}
		entry.expires = now.Add(5 * time.Minute)
		return entry.limiter
	}

	return func(c *gin.Context) {
		if !lookup(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁"})
			return
		}
		c.Next()
	}
}

package handler

import (
	"github.com/moodlog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	auth     *service.AuthService
	profiles *service.ProfileService
	checkins *service.CheckinService
	streaks  *service.StreakService
	insights *service.InsightsService
	buddies  *service.BuddyService
	groups   *service.GroupService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB) *API {
	return &API{
		auth:     service.NewAuthService(db),
		profiles: service.NewProfileService(db),
		checkins: service.NewCheckinService(db),
		streaks:  service.NewStreakService(db),
		insights: service.NewInsightsService(db),
		buddies:  service.NewBuddyService(db),
		groups:   service.NewGroupService(db),
	}
}

package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/moodlog/internal/config"
	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/mood"
	"github.com/moodlog/internal/service"
)

// 演示数据生成器：创建 demo 用户并回填最近 30 天的打卡记录
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	user := ensureDemoUser()
	seedCheckins(user.ID)

	fmt.Println("演示数据生成完成！")
	fmt.Printf("用户: %s (用户名: %s)\n", user.Email, user.Username)
}

func ensureDemoUser() *db.User {
	var user db.User
	if err := db.DB.Where("email = ?", "demo@moodlog.app").First(&user).Error; err == nil {
		fmt.Println("demo 用户已存在，跳过创建")
		return &user
	}

	user = db.User{Email: "demo@moodlog.app", Username: "demo_user"}
	if err := db.DB.Create(&user).Error; err != nil {
		log.Fatal("创建 demo 用户失败:", err)
	}
	return &user
}

func seedCheckins(userID uint) {
	var count int64
	db.DB.Model(&db.Checkin{}).Where("user_id = ?", userID).Count(&count)
	if count > 0 {
		fmt.Println("打卡记录已存在，跳过生成")
		return
	}

	streaks := service.NewStreakService(db.DB)
	now := time.Now()

	for offset := 29; offset >= 0; offset-- {
		// 偶尔留出断档，让 streak 数据更真实
		if offset != 0 && rand.Intn(10) == 0 {
			continue
		}

		emoji := mood.Emojis[rand.Intn(len(mood.Emojis))]
		at := now.AddDate(0, 0, -offset)

		record := db.Checkin{
			UserID:         userID,
			Emoji:          emoji.Glyph,
			SentimentScore: emoji.Score,
			Tags:           randomTags(),
		}
		record.CreatedAt = at

		if err := db.DB.Create(&record).Error; err != nil {
			log.Fatal("写入打卡记录失败:", err)
		}
		if _, err := streaks.RecordCheckin(userID, at); err != nil {
			log.Fatal("推进连续打卡失败:", err)
		}
	}

	fmt.Println("已生成最近 30 天的打卡记录")
}

func randomTags() []string {
	picked := make([]string, 0, 2)
	for _, tag := range mood.Tags {
		if rand.Intn(6) == 0 {
			picked = append(picked, tag.ID)
			if len(picked) == 2 {
				break
			}
		}
	}
	return picked
}

package service

import "time"

// dateOnly 将时间归一化到 UTC 日历日的零点，所有连续打卡与窗口计算都以此为准。
func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// dayRange 返回给定时刻所在日历日的 [start, end) 区间
func dayRange(t time.Time) (time.Time, time.Time) {
	start := dateOnly(t)
	return start, start.AddDate(0, 0, 1)
}

// daysBetween 返回两个日历日之间相差的天数，a 在 b 之前时为正
func daysBetween(earlier, later time.Time) int {
	return int(dateOnly(later).Sub(dateOnly(earlier)).Hours() / 24)
}

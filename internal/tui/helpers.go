package tui

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"
)

// koreanWeekdays indexes time.Weekday (Sunday = 0).
var koreanWeekdays = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// formatCoord renders a coordinate pair the way the product copies it:
// latitude and longitude at 7 decimal places, comma-space separated.
func formatCoord(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', 7, 64) + ", " + strconv.FormatFloat(lng, 'f', 7, 64)
}

// formatHomeTime renders the map-card freshness line: "24.10.24. 14:52 기준".
func formatHomeTime(t time.Time) string {
	return t.Format("06.01.02. 15:04") + " 기준"
}

// formatRecordTime renders an incident row: "10월 24일(금) 오후 1:31".
func formatRecordTime(t time.Time) string {
	meridiem := "오전"
	hour := t.Hour()
	if hour >= 12 {
		meridiem = "오후"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d월 %d일(%s) %s %d:%02d",
		int(t.Month()), t.Day(), koreanWeekdays[t.Weekday()], meridiem, hour12, t.Minute())
}

// formatDetailTime renders the detail view timestamp:
// "2024. 10. 24.(목) 13:31:21".
func formatDetailTime(t time.Time) string {
	return t.Format("2006. 01. 02.") + "(" + koreanWeekdays[t.Weekday()] + ") " + t.Format("15:04:05")
}

// formatClock renders a sample time as "13:03".
func formatClock(t time.Time) string {
	return t.Format("15:04")
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
// A non-positive maxLen yields an empty string.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

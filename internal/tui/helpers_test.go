package tui

import (
	"testing"
	"time"
)

var kst = time.FixedZone("KST", 9*3600)

func TestFormatCoord(t *testing.T) {
	got := formatCoord(35.0497094, 127.9929478)
	want := "35.0497094, 127.9929478"
	if got != want {
		t.Errorf("formatCoord = %q, want %q", got, want)
	}
}

func TestFormatCoordPadsToSevenDecimals(t *testing.T) {
	got := formatCoord(37.5, 127.0)
	want := "37.5000000, 127.0000000"
	if got != want {
		t.Errorf("formatCoord = %q, want %q", got, want)
	}
}

func TestFormatHomeTime(t *testing.T) {
	ts := time.Date(2024, 10, 24, 14, 52, 0, 0, kst)
	if got, want := formatHomeTime(ts), "24.10.24. 14:52 기준"; got != want {
		t.Errorf("formatHomeTime = %q, want %q", got, want)
	}
}

func TestFormatRecordTime(t *testing.T) {
	tests := []struct {
		ts   time.Time
		want string
	}{
		// 2024-10-24 is a Thursday
		{time.Date(2024, 10, 24, 13, 31, 21, 0, kst), "10월 24일(목) 오후 1:31"},
		{time.Date(2024, 10, 24, 0, 5, 0, 0, kst), "10월 24일(목) 오전 12:05"},
		{time.Date(2024, 10, 24, 12, 0, 0, 0, kst), "10월 24일(목) 오후 12:00"},
		{time.Date(2024, 10, 27, 9, 3, 0, 0, kst), "10월 27일(일) 오전 9:03"},
	}
	for _, tc := range tests {
		if got := formatRecordTime(tc.ts); got != tc.want {
			t.Errorf("formatRecordTime(%v) = %q, want %q", tc.ts, got, tc.want)
		}
	}
}

func TestFormatDetailTime(t *testing.T) {
	ts := time.Date(2024, 10, 24, 13, 31, 21, 0, kst)
	if got, want := formatDetailTime(ts), "2024. 10. 24.(목) 13:31:21"; got != want {
		t.Errorf("formatDetailTime = %q, want %q", got, want)
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("짧은 주소", 20); got != "짧은 주소" {
		t.Errorf("short string changed: %q", got)
	}
	long := "대한민국 경상남도 사천시 광포길 어딘가 아주 긴 주소"
	got := truncStr(long, 10)
	if []rune(got)[9] != '…' {
		t.Errorf("expected ellipsis terminator, got %q", got)
	}
	// A model that has not seen a window size yet passes a non-positive
	// width; that must not slice out of range.
	if got := truncStr(long, 0); got != "" {
		t.Errorf("truncStr(long, 0) = %q, want \"\"", got)
	}
	if got := truncStr(long, -5); got != "" {
		t.Errorf("truncStr(long, -5) = %q, want \"\"", got)
	}
}

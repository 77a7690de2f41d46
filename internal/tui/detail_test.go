package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/gujitrio/ping/pkg/domain"
)

func testRecord() *domain.EmergencyRecord {
	return &domain.EmergencyRecord{
		ID:        uuid.New(),
		Timestamp: time.Date(2024, 10, 24, 13, 31, 21, 0, kst),
		Latitude:  35.0497094,
		Longitude: 127.9929478,
		Address:   "대한민국 경상남도 사천시 광포길",
		AISummary: "사용자가 위급 상황에서 도움을 요청했습니다.",
		RiskLevel: domain.RiskHigh,
	}
}

func loadedDetail(rec *domain.EmergencyRecord) detailModel {
	m := newDetailModel(nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 25})
	m, _ = m.Update(alertLoadedMsg{record: rec})
	return m
}

func TestDetailRendersRecord(t *testing.T) {
	m := loadedDetail(testRecord())
	out := m.View()
	for _, want := range []string{
		"2024. 10. 24.(목) 13:31:21",
		"대한민국 경상남도 사천시 광포길",
		"35.0497094, 127.9929478",
		"사용자가 위급 상황에서 도움을 요청했습니다.",
		domain.RiskHigh,
		"버튼 사용 위치",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("detail view missing %q:\n%s", want, out)
		}
	}
}

func TestDetailNotFound(t *testing.T) {
	m := newDetailModel(nil)
	m, _ = m.Update(alertLoadedMsg{notFound: true})
	if !strings.Contains(m.View(), "긴급 기록을 찾을 수 없습니다.") {
		t.Error("expected not-found message")
	}
}

func TestDetailCopiedMarkerLifecycle(t *testing.T) {
	m := loadedDetail(testRecord())
	m.copySeq = 1

	m, cmd := m.Update(detailCopiedMsg{seq: 1})
	if !m.copied {
		t.Fatal("expected copied marker set")
	}
	if cmd == nil {
		t.Fatal("expected expiry tick command")
	}
	if !strings.Contains(m.View(), "복사됨") {
		t.Error("expected copied marker in view")
	}

	// Stale expiry from an earlier copy is ignored.
	m, _ = m.Update(detailCopyExpireMsg{seq: 0})
	if !m.copied {
		t.Error("stale expiry cleared the marker")
	}

	m, _ = m.Update(detailCopyExpireMsg{seq: 1})
	if m.copied {
		t.Error("expected marker cleared by current expiry")
	}
}

func TestDetailEscCloses(t *testing.T) {
	m := loadedDetail(testRecord())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.closed {
		t.Error("expected esc to close the detail view")
	}
}

func TestDetailDialKeys(t *testing.T) {
	m := loadedDetail(testRecord())
	for _, key := range []string{"p", "f"} {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		if cmd == nil {
			t.Errorf("expected dial command for key %q", key)
		}
	}
}

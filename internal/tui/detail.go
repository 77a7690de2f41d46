package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gujitrio/ping/internal/dialer"
	"github.com/gujitrio/ping/pkg/client"
	"github.com/gujitrio/ping/pkg/domain"
)

type alertLoadedMsg struct {
	record   *domain.EmergencyRecord
	notFound bool
	err      error
}

type detailCopiedMsg struct {
	seq int
	err error
}

type detailCopyExpireMsg struct {
	seq int
}

// detailModel shows one emergency-button record: when and where the button
// was pressed, the AI situation summary and the estimated risk level.
type detailModel struct {
	client   *client.Client
	record   *domain.EmergencyRecord
	notFound bool
	loading  bool
	loadErr  error
	copied   bool
	copySeq  int
	dialNote string
	closed   bool
	width    int
	height   int
}

func newDetailModel(c *client.Client) detailModel {
	return detailModel{client: c, loading: true}
}

func (m detailModel) Init() tea.Cmd {
	return nil
}

func (m detailModel) load(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		record, err := c.GetAlert(context.Background(), id)
		if msg, ok := expireOn401(err); ok {
			return msg
		}
		if client.IsStatus(err, 404) {
			return alertLoadedMsg{notFound: true}
		}
		return alertLoadedMsg{record: record, err: err}
	}
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case alertLoadedMsg:
		m.loading = false
		m.notFound = msg.notFound
		m.loadErr = msg.err
		m.record = msg.record
		return m, nil

	case detailCopiedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.copied = true
		seq := msg.seq
		return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
			return detailCopyExpireMsg{seq: seq}
		})

	case detailCopyExpireMsg:
		if msg.seq == m.copySeq {
			m.copied = false
		}
		return m, nil

	case dialResultMsg:
		if msg.err != nil {
			m.dialNote = "전화 연결에 실패했습니다."
		} else {
			m.dialNote = msg.number + " 연결 중..."
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace":
			m.closed = true
		case "c":
			if m.record != nil {
				rec := m.record
				m.copySeq++
				seq := m.copySeq
				return m, func() tea.Msg {
					err := clipboard.WriteAll(formatCoord(rec.Latitude, rec.Longitude))
					return detailCopiedMsg{seq: seq, err: err}
				}
			}
		case "p":
			return m, dialCmd(dialer.Police)
		case "f":
			return m, dialCmd(dialer.Fire)
		}
	}
	return m, nil
}

func (m detailModel) View() string {
	var b strings.Builder
	b.WriteString(" " + cardTitleStyle.Render("위급버튼 기록 상세") + "\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("불러오는 중...") + "\n")
		return b.String()
	}
	if m.notFound {
		b.WriteString(" " + errorStyle.Render("긴급 기록을 찾을 수 없습니다.") + "\n")
		return b.String()
	}
	if m.loadErr != nil || m.record == nil {
		b.WriteString(" " + errorStyle.Render("기록을 불러오지 못했습니다.") + "\n")
		return b.String()
	}
	rec := m.record

	mv := mapView{
		width:  m.width - 2,
		height: 10,
		center: domain.LocationSample{Latitude: rec.Latitude, Longitude: rec.Longitude},
		label:  "버튼 사용 위치",
	}
	b.WriteString(mv.render() + "\n")

	b.WriteString(" " + labelStyle.Render("시각") + "  " + normalStyle.Render(formatDetailTime(rec.Timestamp)) + "\n")

	copyTag := copyStyle.Render("c 복사")
	if m.copied {
		copyTag = copiedStyle.Render("복사됨")
	}
	b.WriteString(" " + labelStyle.Render("위치") + "  " + normalStyle.Render(rec.Address) + "\n")
	b.WriteString("       " + metaStyle.Render(formatCoord(rec.Latitude, rec.Longitude)) + "  " + copyTag + "\n")

	b.WriteString(" " + labelStyle.Render("AI 상황 요약") + "\n")
	b.WriteString("   " + normalStyle.Render(rec.AISummary) + "\n")

	b.WriteString(" " + labelStyle.Render("예상 위험도") + "  " + RiskBadge(rec.RiskLevel) + "\n")

	if m.dialNote != "" {
		b.WriteString("\n " + noticeStyle.Render(m.dialNote) + "\n")
	}

	return b.String()
}

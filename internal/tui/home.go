package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gujitrio/ping/internal/dialer"
	"github.com/gujitrio/ping/internal/session"
	"github.com/gujitrio/ping/pkg/client"
	"github.com/gujitrio/ping/pkg/domain"
)

type currentLocationMsg struct {
	loc *domain.LocationSample
	err error
}

type alertListMsg struct {
	records []domain.EmergencyRecord
	err     error
}

// homeModel is the main dashboard: current position on a map, the latest
// emergency-button record, and one-key emergency dialing.
type homeModel struct {
	client   *client.Client
	store    session.Store
	loc      *domain.LocationSample
	records  []domain.EmergencyRecord
	pending  int // outstanding loads before first render
	loadErr  error
	dialNote string
	width    int
	height   int
}

func newHomeModel(c *client.Client, store session.Store) homeModel {
	return homeModel{client: c, store: store, pending: 2}
}

func (m homeModel) Init() tea.Cmd {
	return tea.Batch(m.loadLocation(), m.loadAlerts())
}

func (m homeModel) loadLocation() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		loc, err := c.GetCurrentLocation(context.Background())
		if msg, ok := expireOn401(err); ok {
			return msg
		}
		return currentLocationMsg{loc: loc, err: err}
	}
}

func (m homeModel) loadAlerts() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		records, err := c.ListAlerts(context.Background())
		if msg, ok := expireOn401(err); ok {
			return msg
		}
		return alertListMsg{records: records, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case currentLocationMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.err != nil {
			m.loadErr = msg.err
		} else {
			m.loc = msg.loc
		}
		return m, nil

	case alertListMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.err != nil {
			m.loadErr = msg.err
		} else {
			m.records = msg.records
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
		case "r":
			m.pending = 2
			m.loadErr = nil
			return m, tea.Batch(m.loadLocation(), m.loadAlerts())
		case "p":
			return m, dialCmd(dialer.Police)
		case "f":
			return m, dialCmd(dialer.Fire)
		case "enter":
			if len(m.records) > 0 {
				id := m.records[0].ID.String()
				return m, func() tea.Msg {
					return showDetailMsg{id: id}
				}
			}
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	if m.pending > 0 {
		return " " + dimStyle.Render("불러오는 중...")
	}
	if m.loadErr != nil {
		return " " + errorStyle.Render("정보를 불러오지 못했습니다. r 키로 다시 시도하세요.")
	}

	var b strings.Builder

	// Current-position map card
	name := ""
	if u, ok := m.store.User(); ok {
		name = u.Name
	}
	if m.loc != nil {
		mv := mapView{
			width:  m.width - 2,
			height: 10,
			center: *m.loc,
			label:  name + " 님",
		}
		b.WriteString(mv.render() + "\n")
		b.WriteString(" " + normalStyle.Render(m.loc.Address) + "\n")
		b.WriteString(" " + metaStyle.Render(formatHomeTime(m.loc.Timestamp)) + "\n\n")
	}

	// Latest emergency-button record card
	b.WriteString(" " + cardTitleStyle.Render("위급버튼 기록") + "\n")
	if len(m.records) == 0 {
		b.WriteString(" " + dimStyle.Render("위급버튼 기록이 없습니다.") + "\n")
	} else {
		rec := m.records[0]
		b.WriteString(" " + selectedStyle.Render(formatRecordTime(rec.Timestamp)) + "  " + RiskBadge(rec.RiskLevel) + "\n")
		b.WriteString(" " + normalStyle.Render(truncStr(rec.Address, m.width-4)) + "\n")
		b.WriteString(" " + metaStyle.Render("enter 키로 상세 보기") + "\n")
	}

	// Emergency dial card
	b.WriteString("\n " + cardTitleStyle.Render("긴급신고") + "\n")
	b.WriteString(" " + policeStyle.Render("p 경찰 112") + "   " + fireStyle.Render("f 소방 119") + "\n")
	if m.dialNote != "" {
		b.WriteString(" " + noticeStyle.Render(m.dialNote) + "\n")
	}

	return b.String()
}

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gujitrio/ping/pkg/client"
	"github.com/gujitrio/ping/pkg/domain"
)

type locationListMsg struct {
	locs []domain.LocationSample
	err  error
}

type rowCopiedMsg struct {
	index int
	seq   int
	err   error
}

type copyExpireMsg struct {
	seq int
}

// historyModel shows the recent movement path on a map plus a selectable
// coordinate list. Copying a row flashes a transient marker that reverts
// after two seconds; a sequence counter discards expiry ticks from
// superseded copies.
type historyModel struct {
	client    *client.Client
	locs      []domain.LocationSample
	cursor    int
	copiedIdx int
	copySeq   int
	loading   bool
	loadErr   error
	width     int
	height    int
}

func newHistoryModel(c *client.Client) historyModel {
	return historyModel{client: c, copiedIdx: -1, loading: true}
}

func (m historyModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		locs, err := c.ListRecentLocations(context.Background())
		if msg, ok := expireOn401(err); ok {
			return msg
		}
		if len(locs) > recentLocationLimit {
			locs = locs[len(locs)-recentLocationLimit:]
		}
		return locationListMsg{locs: locs, err: err}
	}
}

func (m historyModel) Update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case locationListMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.locs = msg.locs
			if m.cursor >= len(m.locs) {
				m.cursor = 0
			}
		}
		return m, nil

	case rowCopiedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.copiedIdx = msg.index
		seq := msg.seq
		return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
			return copyExpireMsg{seq: seq}
		})

	case copyExpireMsg:
		// Only the latest copy's timer may clear the marker.
		if msg.seq == m.copySeq {
			m.copiedIdx = -1
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.locs)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "c", "enter":
			if m.cursor < len(m.locs) {
				loc := m.locs[m.cursor]
				m.copySeq++
				idx, seq := m.cursor, m.copySeq
				return m, func() tea.Msg {
					err := clipboard.WriteAll(formatCoord(loc.Latitude, loc.Longitude))
					return rowCopiedMsg{index: idx, seq: seq, err: err}
				}
			}
		}
	}
	return m, nil
}

func (m historyModel) View() string {
	var b strings.Builder
	b.WriteString(" " + cardTitleStyle.Render("최근 1일 간 이동경로") + "\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("불러오는 중...") + "\n")
		return b.String()
	}
	if m.loadErr != nil {
		b.WriteString(" " + errorStyle.Render("이동경로를 불러오지 못했습니다.") + "\n")
		return b.String()
	}
	if len(m.locs) == 0 {
		b.WriteString(" " + dimStyle.Render("이동경로 기록이 없습니다.") + "\n")
		return b.String()
	}

	mv := mapView{
		width:  m.width - 2,
		height: 10,
		center: m.locs[len(m.locs)-1],
		path:   m.locs,
	}
	b.WriteString(mv.render() + "\n")

	for i, loc := range m.locs {
		cursor := " "
		style := normalStyle
		if i == m.cursor {
			cursor = ">"
			style = selectedStyle
		}
		line := fmt.Sprintf("%s %2d. %s  %s", cursor, i+1,
			style.Render(formatCoord(loc.Latitude, loc.Longitude)),
			metaStyle.Render(formatClock(loc.Timestamp)))
		if i == m.copiedIdx {
			line += "  " + copiedStyle.Render("복사됨")
		} else if i == m.cursor {
			line += "  " + copyStyle.Render("c 복사")
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

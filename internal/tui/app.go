package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gujitrio/ping/internal/dialer"
	"github.com/gujitrio/ping/internal/session"
	"github.com/gujitrio/ping/pkg/client"
	"github.com/gujitrio/ping/pkg/domain"
)

type view int

const (
	viewLogin view = iota
	viewSignup
	viewHome
	viewHistory
	viewDetail
	viewContacts
)

// sessionExpiredMsg is emitted by any load command that hits a 401. The
// stored session is already cleared by then; the app drops to the login
// screen with a notice.
type sessionExpiredMsg struct{}

// loggedInMsg carries a freshly authenticated user.
type loggedInMsg struct {
	user *domain.User
}

// signedUpMsg carries the signup result. session is nil when the server
// did not auto-login the new account.
type signedUpMsg struct {
	session *domain.Session
}

// loggedOutMsg reports the best-effort server logout finishing.
type loggedOutMsg struct{}

// showDetailMsg opens the detail view for an emergency record.
type showDetailMsg struct {
	id string
}

// dialResultMsg reports a tel: dial attempt.
type dialResultMsg struct {
	number string
	err    error
}

func dialCmd(number string) tea.Cmd {
	return func() tea.Msg {
		return dialResultMsg{number: number, err: dialer.Dial(number)}
	}
}

// expireOn401 converts a cleared-session error into the app-level message
// so every view handles expiry the same way.
func expireOn401(err error) (tea.Msg, bool) {
	if client.IsStatus(err, 401) {
		return sessionExpiredMsg{}, true
	}
	return nil, false
}

// App is the root Bubbletea model.
type App struct {
	client   *client.Client
	store    session.Store
	view     view
	login    loginModel
	signup   signupModel
	home     homeModel
	history  historyModel
	detail   detailModel
	contacts contactsModel
	me       *domain.User
	width    int
	height   int
	frame    int // logo shimmer animation frame
}

// NewApp creates the TUI application. A stored token skips the login
// screen and lands on home directly.
func NewApp(c *client.Client, store session.Store) App {
	a := App{
		client:   c,
		store:    store,
		login:    newLoginModel(c, store),
		signup:   newSignupModel(c, store),
		home:     newHomeModel(c, store),
		history:  newHistoryModel(c),
		detail:   newDetailModel(c),
		contacts: newContactsModel(c),
	}
	if store.Token() != "" {
		a.view = viewHome
		if u, ok := store.User(); ok {
			a.me = &u
		}
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.view == viewHome {
		return tea.Batch(a.home.Init(), shimmerTickCmd())
	}
	return shimmerTickCmd()
}

func (a App) authed() bool {
	return a.store.Token() != ""
}

// bodySize is the window size forwarded to sub-models. Models recreated
// after the initial WindowSizeMsg has passed are reseeded with it.
func (a App) bodySize() tea.WindowSizeMsg {
	// Chrome: header(2) + tabs(1) + spacer(1) + help(1) = 5 lines
	return tea.WindowSizeMsg{Width: a.width, Height: a.height - 5}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyMsg := a.bodySize()
		a.login, _ = a.login.Update(bodyMsg)
		a.signup, _ = a.signup.Update(bodyMsg)
		a.home, _ = a.home.Update(bodyMsg)
		a.history, _ = a.history.Update(bodyMsg)
		a.detail, _ = a.detail.Update(bodyMsg)
		a.contacts, _ = a.contacts.Update(bodyMsg)

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionExpiredMsg:
		a.store.Clear() //nolint:errcheck // already invalid
		a.me = nil
		a.login = newLoginModel(a.client, a.store)
		a.login, _ = a.login.Update(a.bodySize())
		a.login.notice = "세션이 만료되었습니다. 다시 로그인해주세요."
		a.view = viewLogin
		return a, nil

	case loggedInMsg:
		a.me = msg.user
		a.home = newHomeModel(a.client, a.store)
		a.home, _ = a.home.Update(a.bodySize())
		a.view = viewHome
		return a, a.home.Init()

	case signedUpMsg:
		if msg.session != nil {
			a.me = &msg.session.User
			a.home = newHomeModel(a.client, a.store)
			a.home, _ = a.home.Update(a.bodySize())
			a.view = viewHome
			return a, a.home.Init()
		}
		a.login = newLoginModel(a.client, a.store)
		a.login, _ = a.login.Update(a.bodySize())
		a.login.notice = "회원가입이 완료되었습니다! 로그인해주세요."
		a.view = viewLogin
		return a, nil

	case loggedOutMsg:
		return a, nil

	case showDetailMsg:
		a.detail = newDetailModel(a.client)
		a.detail, _ = a.detail.Update(a.bodySize())
		a.view = viewDetail
		return a, a.detail.load(msg.id)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.authed() {
			// Unauthenticated keys go straight to the auth screens.
			break
		}

		if !a.isEditing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				if a.view != viewHome {
					a.view = viewHome
					return a, a.home.Init()
				}
				return a, nil
			case "2":
				if a.view != viewHistory {
					a.view = viewHistory
					return a, a.history.Init()
				}
				return a, nil
			case "3":
				if a.view != viewContacts {
					a.view = viewContacts
					return a, a.contacts.Init()
				}
				return a, nil
			case "l":
				// Capture the token before the local teardown so the
				// server-side revocation still authenticates.
				c, token := a.client, a.store.Token()
				a.store.Clear() //nolint:errcheck // local teardown wins
				a.me = nil
				a.login = newLoginModel(a.client, a.store)
				a.login, _ = a.login.Update(a.bodySize())
				a.login.notice = "로그아웃되었습니다."
				a.view = viewLogin
				return a, func() tea.Msg {
					c.WithTokens(client.StaticToken(token)).Logout(context.Background()) //nolint:errcheck // best-effort
					return loggedOutMsg{}
				}
			}
		}
	}

	// Drop back to login if the session vanished underneath a protected view.
	if !a.authed() && a.view != viewLogin && a.view != viewSignup {
		a.view = viewLogin
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
		if a.login.toSignup {
			a.login.toSignup = false
			a.signup = newSignupModel(a.client, a.store)
			a.signup, _ = a.signup.Update(a.bodySize())
			a.view = viewSignup
		}
	case viewSignup:
		a.signup, cmd = a.signup.Update(msg)
		if a.signup.toLogin {
			a.signup.toLogin = false
			a.login = newLoginModel(a.client, a.store)
			a.login, _ = a.login.Update(a.bodySize())
			a.view = viewLogin
		}
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewHistory:
		a.history, cmd = a.history.Update(msg)
	case viewDetail:
		a.detail, cmd = a.detail.Update(msg)
		if a.detail.closed {
			a.view = viewHome
			return a, a.home.Init()
		}
	case viewContacts:
		a.contacts, cmd = a.contacts.Update(msg)
	}

	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewSignup:
		return true
	case viewContacts:
		return a.contacts.adding
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	// Identity line below logo
	idLine := ""
	if a.me != nil {
		idLine = metaStyle.Render(a.me.Name + " 님")
	}
	if idLine != "" {
		idWidth := lipgloss.Width(idLine)
		idPad := (a.width - idWidth) / 2
		if idPad < 0 {
			idPad = 0
		}
		header += "\n" + strings.Repeat(" ", idPad) + idLine
	} else {
		header += "\n"
	}

	var centeredTabs string
	var body string
	var help string

	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = " " + helpEntry("tab", "다음 칸") + "  " + helpEntry("enter", "로그인") + "  " + helpEntry("ctrl+r", "회원가입") + "  " + helpEntry("ctrl+c", "종료")
	case viewSignup:
		body = a.signup.View()
		help = " " + helpEntry("tab", "다음 칸") + "  " + helpEntry("ctrl+n", "연락처 추가") + "  " + helpEntry("ctrl+d", "연락처 삭제") + "  " + helpEntry("ctrl+s", "가입") + "  " + helpEntry("esc", "로그인으로")
	default:
		centeredTabs = a.renderTabBar()
		switch a.view {
		case viewHome:
			body = a.home.View()
			help = " " + helpEntry("1-3", "탭") + "  " + helpEntry("enter", "기록 상세") + "  " + helpEntry("p", "112") + "  " + helpEntry("f", "119") + "  " + helpEntry("l", "로그아웃") + "  " + helpEntry("q", "종료")
		case viewHistory:
			body = a.history.View()
			help = " " + helpEntry("1-3", "탭") + "  " + helpEntry("j/k", "이동") + "  " + helpEntry("c", "좌표 복사") + "  " + helpEntry("q", "종료")
		case viewDetail:
			body = a.detail.View()
			help = " " + helpEntry("c", "좌표 복사") + "  " + helpEntry("p", "112") + "  " + helpEntry("f", "119") + "  " + helpEntry("esc", "홈으로")
		case viewContacts:
			body = a.contacts.View()
			if a.contacts.adding {
				help = " " + helpEntry("tab", "다음 칸") + "  " + helpEntry("enter", "저장") + "  " + helpEntry("esc", "취소")
			} else {
				help = " " + helpEntry("1-3", "탭") + "  " + helpEntry("j/k", "이동") + "  " + helpEntry("a", "추가") + "  " + helpEntry("d", "삭제") + "  " + helpEntry("q", "종료")
			}
		}
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n\n%s", header, centeredTabs, body, help)
}

func (a App) renderTabBar() string {
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "홈", viewHome},
		{"2", "이동경로", viewHistory},
		{"3", "긴급연락처", viewContacts},
	}

	// Equal-width columns spread across the terminal
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return tabBar.String()
}

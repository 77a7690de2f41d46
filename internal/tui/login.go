package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gujitrio/ping/internal/session"
	"github.com/gujitrio/ping/internal/validate"
	"github.com/gujitrio/ping/pkg/client"
	"github.com/gujitrio/ping/pkg/domain"
)

type loginField int

const (
	loginFieldID loginField = iota
	loginFieldPassword
	numLoginFields
)

type loginModel struct {
	client     *client.Client
	store      session.Store
	fields     [numLoginFields]string
	focus      loginField
	errMsg     string
	notice     string
	submitting bool
	toSignup   bool
}

type loginResultMsg struct {
	session *domain.Session
	err     error
}

func newLoginModel(c *client.Client, store session.Store) loginModel {
	return loginModel{client: c, store: store}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			switch {
			case client.IsStatus(msg.err, 401):
				m.errMsg = "아이디 또는 비밀번호가 올바르지 않습니다."
			case client.Message(msg.err) != "":
				m.errMsg = client.Message(msg.err)
			default:
				m.errMsg = "로그인 중 오류가 발생했습니다. 다시 시도해주세요."
			}
			return m, nil
		}
		sess := msg.session
		return m, func() tea.Msg {
			return loggedInMsg{user: &sess.User}
		}

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	m.errMsg = ""

	switch msg.String() {
	case "ctrl+r":
		m.toSignup = true
		return m, nil
	case "enter":
		if m.focus == loginFieldID {
			m.focus = loginFieldPassword
			return m, nil
		}
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numLoginFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	id := strings.TrimSpace(m.fields[loginFieldID])
	password := m.fields[loginFieldPassword]

	// Validation failures never reach the network.
	if err := validate.Login(id, password); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	m.submitting = true
	m.notice = ""
	c := m.client
	store := m.store
	return m, func() tea.Msg {
		sess, err := c.Login(context.Background(), client.LoginRequest{
			UsernameOrEmail: id,
			Password:        password,
		})
		if err != nil {
			return loginResultMsg{err: err}
		}
		if err := store.Save(*sess); err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{session: sess}
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	b.WriteString(cardTitleStyle.Render("로그인") + "\n\n")
	b.WriteString(renderField("아이디", m.fields[loginFieldID], "아이디 또는 이메일", m.focus == loginFieldID, false) + "\n")
	b.WriteString(renderField("비밀번호", m.fields[loginFieldPassword], "비밀번호", m.focus == loginFieldPassword, true) + "\n")

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(dimStyle.Render("로그인 중..."))
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	case m.notice != "":
		b.WriteString(noticeStyle.Render(m.notice))
	}

	return b.String()
}

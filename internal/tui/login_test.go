package tui

import (
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gujitrio/ping/internal/fakeapi"
	"github.com/gujitrio/ping/internal/session"
	"github.com/gujitrio/ping/pkg/client"
)

func typeString(m loginModel, s string) loginModel {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestLoginEmptyFieldsRejectedWithoutNetwork(t *testing.T) {
	// nil client: any network attempt would panic.
	m := newLoginModel(nil, session.NewMemory())
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no submit command for empty form")
	}
	if !strings.Contains(m.View(), "아이디와 비밀번호를 입력해주세요.") {
		t.Error("expected required-fields message")
	}
}

func TestLoginSubmitAgainstServer(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()
	store := session.NewMemory()
	c := client.New(srv.URL, store)

	m := newLoginModel(c, store)
	m = typeString(m, fakeapi.DemoUsername)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(m, fakeapi.DemoPassword)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected submit command")
	}

	msg := cmd()
	result, ok := msg.(loginResultMsg)
	if !ok {
		t.Fatalf("expected loginResultMsg, got %T", msg)
	}
	if result.err != nil {
		t.Fatalf("login failed: %v", result.err)
	}
	if store.Token() == "" {
		t.Fatal("expected session saved to store")
	}

	m, cmd = m.Update(result)
	if cmd == nil {
		t.Fatal("expected loggedInMsg command")
	}
	if _, ok := cmd().(loggedInMsg); !ok {
		t.Fatalf("expected loggedInMsg, got %T", cmd())
	}
}

func TestLoginWrongPasswordMessage(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()
	store := session.NewMemory()
	c := client.New(srv.URL, store)

	m := newLoginModel(c, store)
	m = typeString(m, fakeapi.DemoUsername)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(m, "wrong-password")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected submit command")
	}

	m, _ = m.Update(cmd())
	if !strings.Contains(m.View(), "아이디 또는 비밀번호가 올바르지 않습니다.") {
		t.Errorf("expected wrong-credentials message, got:\n%s", m.View())
	}
}

func TestLoginSignupSwitch(t *testing.T) {
	m := newLoginModel(nil, session.NewMemory())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if !m.toSignup {
		t.Error("expected ctrl+r to request signup view")
	}
}

func TestLoginPasswordMasked(t *testing.T) {
	m := newLoginModel(nil, session.NewMemory())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(m, "secret")
	out := m.View()
	if strings.Contains(out, "secret") {
		t.Error("password rendered in clear text")
	}
	if !strings.Contains(out, "●") {
		t.Error("expected masked password dots")
	}
}

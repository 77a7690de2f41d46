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

func typeSignup(m signupModel, s string) signupModel {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func filledSignup(m signupModel) signupModel {
	values := []string{
		"newuser", "new@ping.kr", "새유저", "secret1", "secret1",
		"010-1234-5678", "", "",
		// First contact row
		"엄마", "010-9999-8888", "가족",
	}
	for i, v := range values {
		m.cursor = 0
		for j := 0; j < i; j++ {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		}
		m = typeSignup(m, v)
	}
	return m
}

func TestSignupValidationBlocksSubmit(t *testing.T) {
	// nil client: any network attempt would panic.
	m := newSignupModel(nil, session.NewMemory())
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("expected no submit command for empty form")
	}
	if !strings.Contains(m.View(), "필수 항목을 모두 입력해주세요.") {
		t.Errorf("expected required-fields message, got:\n%s", m.View())
	}
}

func TestSignupShortPasswordMessage(t *testing.T) {
	m := newSignupModel(nil, session.NewMemory())
	m = filledSignup(m)
	// Overwrite password with a short one.
	m.fields[signupFieldPassword] = "abc"
	m.fields[signupFieldConfirm] = "abc"
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("expected no submit command")
	}
	if !strings.Contains(m.View(), "비밀번호는 6자 이상이어야 합니다.") {
		t.Error("expected short-password message")
	}
}

func TestSignupContactRowManagement(t *testing.T) {
	m := newSignupModel(nil, session.NewMemory())
	if len(m.contacts) != 1 {
		t.Fatalf("expected one initial contact row, got %d", len(m.contacts))
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if len(m.contacts) != 2 {
		t.Fatalf("expected two contact rows, got %d", len(m.contacts))
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if len(m.contacts) != 1 {
		t.Fatalf("expected one contact row after delete, got %d", len(m.contacts))
	}

	// The last row can never be removed.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if len(m.contacts) != 1 {
		t.Fatalf("expected delete of last row refused, got %d", len(m.contacts))
	}
}

func TestSignupSubmitAutoLogin(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()
	store := session.NewMemory()
	c := client.New(srv.URL, store)

	m := newSignupModel(c, store)
	m = filledSignup(m)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected submit command, err %q", m.errMsg)
	}

	msg := cmd()
	result, ok := msg.(signupResultMsg)
	if !ok {
		t.Fatalf("expected signupResultMsg, got %T", msg)
	}
	if result.err != nil {
		t.Fatalf("signup failed: %v", result.err)
	}
	if result.session == nil {
		t.Fatal("expected auto-login session")
	}
	if store.Token() == "" {
		t.Fatal("expected session saved to store")
	}
}

func TestSignupDuplicateUsernameMessage(t *testing.T) {
	srv := httptest.NewServer(fakeapi.New())
	defer srv.Close()
	store := session.NewMemory()
	c := client.New(srv.URL, store)

	m := newSignupModel(c, store)
	m = filledSignup(m)
	m.fields[signupFieldUsername] = fakeapi.DemoUsername
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected submit command, err %q", m.errMsg)
	}

	m, _ = m.Update(cmd())
	if !strings.Contains(m.View(), "이미 존재하는 아이디 또는 이메일입니다.") {
		t.Errorf("expected duplicate message, got:\n%s", m.View())
	}
}

func TestSignupEscReturnsToLogin(t *testing.T) {
	m := newSignupModel(nil, session.NewMemory())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.toLogin {
		t.Error("expected esc to request login view")
	}
}

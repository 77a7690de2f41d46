package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gujitrio/ping/internal/validate"
	"github.com/gujitrio/ping/pkg/client"
	"github.com/gujitrio/ping/pkg/domain"
)

type contactListMsg struct {
	contacts []domain.EmergencyContact
	err      error
}

type contactSavedMsg struct {
	err error
}

type contactDeletedMsg struct {
	err error
}

// contactsModel manages the registered emergency contacts: list, add via
// an inline form, delete.
type contactsModel struct {
	client   *client.Client
	contacts []domain.EmergencyContact
	cursor   int
	adding   bool
	form     contactRow
	formIdx  int // 0 name, 1 phone, 2 relation
	loading  bool
	loadErr  error
	errMsg   string
	width    int
	height   int
}

func newContactsModel(c *client.Client) contactsModel {
	return contactsModel{client: c, loading: true}
}

func (m contactsModel) Init() tea.Cmd {
	return m.load()
}

func (m contactsModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		contacts, err := c.ListContacts(context.Background())
		if msg, ok := expireOn401(err); ok {
			return msg
		}
		return contactListMsg{contacts: contacts, err: err}
	}
}

func (m contactsModel) Update(msg tea.Msg) (contactsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case contactListMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.contacts = msg.contacts
			if m.cursor >= len(m.contacts) {
				m.cursor = 0
			}
		}
		return m, nil

	case contactSavedMsg:
		if msg.err != nil {
			if s := client.Message(msg.err); s != "" {
				m.errMsg = s
			} else {
				m.errMsg = "연락처 저장에 실패했습니다."
			}
			return m, nil
		}
		m.adding = false
		m.form = contactRow{}
		m.formIdx = 0
		return m, m.load()

	case contactDeletedMsg:
		if msg.err != nil {
			m.errMsg = "연락처 삭제에 실패했습니다."
			return m, nil
		}
		return m, m.load()

	case tea.KeyMsg:
		m.errMsg = ""
		if m.adding {
			return m.updateFormKeys(msg)
		}
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.contacts)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "a":
			m.adding = true
			m.form = contactRow{}
			m.formIdx = 0
		case "d":
			if m.cursor < len(m.contacts) {
				id := m.contacts[m.cursor].ID.String()
				c := m.client
				return m, func() tea.Msg {
					err := c.DeleteContact(context.Background(), id)
					if emsg, ok := expireOn401(err); ok {
						return emsg
					}
					return contactDeletedMsg{err: err}
				}
			}
		}
	}
	return m, nil
}

func (m contactsModel) updateFormKeys(msg tea.KeyMsg) (contactsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
	case "tab", "down":
		m.formIdx = (m.formIdx + 1) % contactFieldCount
	case "shift+tab", "up":
		m.formIdx = (m.formIdx - 1 + contactFieldCount) % contactFieldCount
	case "enter":
		return m.submitForm()
	default:
		f := m.formField()
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m *contactsModel) formField() *string {
	switch m.formIdx {
	case 0:
		return &m.form.name
	case 1:
		return &m.form.phone
	default:
		return &m.form.relation
	}
}

func (m contactsModel) submitForm() (contactsModel, tea.Cmd) {
	contact := domain.EmergencyContact{
		Name:     strings.TrimSpace(m.form.name),
		Phone:    strings.TrimSpace(m.form.phone),
		Relation: strings.TrimSpace(m.form.relation),
	}
	if err := validate.Contacts([]domain.EmergencyContact{contact}); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	c := m.client
	return m, func() tea.Msg {
		_, err := c.AddContact(context.Background(), contact)
		if emsg, ok := expireOn401(err); ok {
			return emsg
		}
		return contactSavedMsg{err: err}
	}
}

func (m contactsModel) View() string {
	var b strings.Builder
	b.WriteString(" " + cardTitleStyle.Render("긴급연락처") + "\n")

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("불러오는 중...") + "\n")
		return b.String()
	case m.loadErr != nil:
		b.WriteString(" " + errorStyle.Render("긴급연락처를 불러오지 못했습니다.") + "\n")
		return b.String()
	}

	if len(m.contacts) == 0 && !m.adding {
		b.WriteString(" " + dimStyle.Render("등록된 긴급연락처가 없습니다. a 키로 추가하세요.") + "\n")
	}
	for i, ct := range m.contacts {
		cursor := " "
		style := normalStyle
		if i == m.cursor && !m.adding {
			cursor = ">"
			style = selectedStyle
		}
		line := fmt.Sprintf("%s %s  %s", cursor, style.Render(ct.Name), metaStyle.Render(ct.Phone))
		if ct.Relation != "" {
			line += "  " + dimStyle.Render(ct.Relation)
		}
		b.WriteString(line + "\n")
	}

	if m.adding {
		b.WriteString("\n " + cardTitleStyle.Render("연락처 추가") + "\n")
		b.WriteString(renderField("이름", m.form.name, "이름", m.formIdx == 0, false) + "\n")
		b.WriteString(renderField("전화번호", m.form.phone, "010-0000-0000", m.formIdx == 1, false) + "\n")
		b.WriteString(renderField("관계", m.form.relation, "가족, 친구 등 (선택)", m.formIdx == 2, false) + "\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n " + errorStyle.Render(m.errMsg) + "\n")
	}

	return b.String()
}

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gujitrio/ping/internal/session"
	"github.com/gujitrio/ping/internal/validate"
	"github.com/gujitrio/ping/pkg/client"
	"github.com/gujitrio/ping/pkg/domain"
)

type signupField int

const (
	signupFieldUsername signupField = iota
	signupFieldEmail
	signupFieldName
	signupFieldPassword
	signupFieldConfirm
	signupFieldPhone
	signupFieldAddress
	signupFieldDevice
	numSignupFields

	contactFieldCount = 3 // name, phone, relation per contact row
)

// contactRow is one editable emergency-contact entry in the form.
type contactRow struct {
	name     string
	phone    string
	relation string
}

type signupModel struct {
	client     *client.Client
	store      session.Store
	fields     [numSignupFields]string
	contacts   []contactRow
	cursor     int // flat index over base fields then contact sub-fields
	errMsg     string
	submitting bool
	toLogin    bool
}

type signupResultMsg struct {
	session *domain.Session
	err     error
}

func newSignupModel(c *client.Client, store session.Store) signupModel {
	return signupModel{
		client:   c,
		store:    store,
		contacts: []contactRow{{}},
	}
}

func (m signupModel) Init() tea.Cmd {
	return nil
}

// numCursors is the total count of focusable inputs.
func (m signupModel) numCursors() int {
	return int(numSignupFields) + len(m.contacts)*contactFieldCount
}

// fieldAt resolves the flat cursor into the string it edits.
func (m *signupModel) fieldAt(idx int) *string {
	if idx < int(numSignupFields) {
		return &m.fields[idx]
	}
	idx -= int(numSignupFields)
	row := &m.contacts[idx/contactFieldCount]
	switch idx % contactFieldCount {
	case 0:
		return &row.name
	case 1:
		return &row.phone
	default:
		return &row.relation
	}
}

func (m signupModel) Update(msg tea.Msg) (signupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case signupResultMsg:
		m.submitting = false
		if msg.err != nil {
			switch {
			case client.Message(msg.err) != "":
				m.errMsg = client.Message(msg.err)
			case client.IsStatus(msg.err, 409):
				m.errMsg = "이미 존재하는 아이디 또는 이메일입니다."
			case client.IsStatus(msg.err, 400):
				m.errMsg = "입력 정보를 확인해주세요."
			default:
				m.errMsg = "회원가입 중 오류가 발생했습니다. 다시 시도해주세요."
			}
			return m, nil
		}
		sess := msg.session
		return m, func() tea.Msg {
			return signedUpMsg{session: sess}
		}

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m signupModel) updateKeys(msg tea.KeyMsg) (signupModel, tea.Cmd) {
	m.errMsg = ""

	switch msg.String() {
	case "esc":
		m.toLogin = true
	case "ctrl+s":
		return m.submit()
	case "ctrl+n":
		m.contacts = append(m.contacts, contactRow{})
		m.cursor = m.numCursors() - contactFieldCount
	case "ctrl+d":
		if len(m.contacts) > 1 {
			m.contacts = m.contacts[:len(m.contacts)-1]
			if m.cursor >= m.numCursors() {
				m.cursor = m.numCursors() - 1
			}
		}
	case "tab", "down", "enter":
		m.cursor = (m.cursor + 1) % m.numCursors()
	case "shift+tab", "up":
		m.cursor = (m.cursor - 1 + m.numCursors()) % m.numCursors()
	default:
		f := m.fieldAt(m.cursor)
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m signupModel) submit() (signupModel, tea.Cmd) {
	form := validate.SignupForm{
		Username:        strings.TrimSpace(m.fields[signupFieldUsername]),
		Email:           strings.TrimSpace(m.fields[signupFieldEmail]),
		Password:        m.fields[signupFieldPassword],
		PasswordConfirm: m.fields[signupFieldConfirm],
		Name:            strings.TrimSpace(m.fields[signupFieldName]),
		PhoneNumber:     strings.TrimSpace(m.fields[signupFieldPhone]),
	}
	contacts := make([]domain.EmergencyContact, 0, len(m.contacts))
	for _, row := range m.contacts {
		contacts = append(contacts, domain.EmergencyContact{
			Name:     strings.TrimSpace(row.name),
			Phone:    strings.TrimSpace(row.phone),
			Relation: strings.TrimSpace(row.relation),
		})
	}
	form.Contacts = contacts

	// Validation failures never reach the network.
	if err := validate.Signup(form); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	m.submitting = true
	c := m.client
	store := m.store
	req := client.SignupRequest{
		Username:          form.Username,
		Email:             form.Email,
		Password:          form.Password,
		Name:              form.Name,
		PhoneNumber:       form.PhoneNumber,
		Address:           strings.TrimSpace(m.fields[signupFieldAddress]),
		DeviceID:          strings.TrimSpace(m.fields[signupFieldDevice]),
		EmergencyContacts: contacts,
	}
	return m, func() tea.Msg {
		sess, err := c.Signup(context.Background(), req)
		if err != nil {
			return signupResultMsg{err: err}
		}
		if sess != nil {
			if err := store.Save(*sess); err != nil {
				return signupResultMsg{err: err}
			}
		}
		return signupResultMsg{session: sess}
	}
}

func (m signupModel) View() string {
	var b strings.Builder

	b.WriteString(cardTitleStyle.Render("회원가입") + "\n\n")

	labels := [numSignupFields]string{
		"아이디", "이메일", "이름", "비밀번호", "비밀번호 확인", "전화번호", "주소", "기기 ID",
	}
	placeholders := [numSignupFields]string{
		"3자 이상", "example@ping.kr", "이름", "6자 이상", "비밀번호 재입력",
		"010-1234-5678", "(선택)", "(선택)",
	}
	for i := signupField(0); i < numSignupFields; i++ {
		secret := i == signupFieldPassword || i == signupFieldConfirm
		b.WriteString(renderField(labels[i], m.fields[i], placeholders[i], m.cursor == int(i), secret) + "\n")
	}

	b.WriteString("\n" + cardTitleStyle.Render("긴급 연락처") + "\n")
	base := int(numSignupFields)
	for i, row := range m.contacts {
		fmt.Fprintf(&b, " %s\n", metaStyle.Render(fmt.Sprintf("연락처 %d", i+1)))
		b.WriteString(renderField("이름", row.name, "이름", m.cursor == base+i*contactFieldCount, false) + "\n")
		b.WriteString(renderField("전화번호", row.phone, "010-0000-0000", m.cursor == base+i*contactFieldCount+1, false) + "\n")
		b.WriteString(renderField("관계", row.relation, "가족, 친구 등 (선택)", m.cursor == base+i*contactFieldCount+2, false) + "\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(dimStyle.Render("가입 중..."))
	} else if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
	}

	return b.String()
}

// Package validate holds the client-side form rules. A form that fails
// here is rejected before any network call is made.
package validate

import (
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/gujitrio/ping/pkg/domain"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Korean mobile numbers: 01X, optional hyphens, 3-4 digit middle block.
	phoneRe = regexp.MustCompile(`^01[0-9]-?[0-9]{3,4}-?[0-9]{4}$`)
)

// SignupForm collects the registration fields before submission.
type SignupForm struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	Name            string
	PhoneNumber     string
	Contacts        []domain.EmergencyContact
}

// Login checks the login form. Both fields are required.
func Login(usernameOrEmail, password string) error {
	if usernameOrEmail == "" || password == "" {
		return errors.New("아이디와 비밀번호를 입력해주세요.")
	}
	return nil
}

// Signup checks the registration form, rule by rule in display order.
func Signup(f SignupForm) error {
	if f.Username == "" || f.Email == "" || f.Password == "" || f.Name == "" || f.PhoneNumber == "" {
		return errors.New("필수 항목을 모두 입력해주세요.")
	}
	if utf8.RuneCountInString(f.Username) < 3 {
		return errors.New("아이디는 3자 이상이어야 합니다.")
	}
	if !emailRe.MatchString(f.Email) {
		return errors.New("올바른 이메일 형식이 아닙니다.")
	}
	if utf8.RuneCountInString(f.Password) < 6 {
		return errors.New("비밀번호는 6자 이상이어야 합니다.")
	}
	if f.Password != f.PasswordConfirm {
		return errors.New("비밀번호가 일치하지 않습니다.")
	}
	if !phoneRe.MatchString(f.PhoneNumber) {
		return errors.New("올바른 전화번호 형식이 아닙니다. (예: 010-1234-5678)")
	}
	return Contacts(f.Contacts)
}

// Contacts checks the emergency-contact list: at least one entry, and every
// entry needs a name and a phone number.
func Contacts(list []domain.EmergencyContact) error {
	if len(list) == 0 {
		return errors.New("긴급 연락처를 1명 이상 등록해주세요.")
	}
	for _, c := range list {
		if c.Name == "" || c.Phone == "" {
			return errors.New("긴급 연락처 정보를 모두 입력해주세요.")
		}
	}
	return nil
}

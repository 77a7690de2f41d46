package domain

// Session is the bearer credential plus profile issued at login or signup.
// It is persisted client-side and destroyed on logout or any 401 response.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

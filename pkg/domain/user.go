package domain

// User is a registered user's profile as returned by the auth endpoints.
// JSON field names follow the backend contract (camelCase).
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address,omitempty"`
	DeviceID    string `json:"deviceId,omitempty"`
}

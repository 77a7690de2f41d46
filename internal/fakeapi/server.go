// Package fakeapi is an in-process stand-in for the ping backend, used by
// demo mode and tests. It serves the same REST surface the real service
// exposes, seeded with a fixed incident and route so the client has
// something to render. It is never wired into production view logic.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/gujitrio/ping/pkg/domain"
)

var kst = time.FixedZone("KST", 9*60*60)

// DemoUsername and DemoPassword are the seeded demo credentials.
const (
	DemoUsername = "junha"
	DemoPassword = "ping123!"
)

type account struct {
	user     domain.User
	password string
}

// Server is the fake backend. Zero value is not usable; call New.
type Server struct {
	mu       sync.Mutex
	router   *mux.Router
	accounts map[string]account // keyed by username
	tokens   map[string]string  // token -> username
	contacts []domain.EmergencyContact
	records  []domain.EmergencyRecord
	route    []domain.LocationSample
	nextID   int64
}

// New returns a fake backend seeded with the demo account, one unresolved
// incident and a five-point recent route.
func New() *Server {
	s := &Server{
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
		nextID:   2,
	}
	s.accounts[DemoUsername] = account{
		user: domain.User{
			ID:          1,
			Username:    DemoUsername,
			Email:       "junha@example.com",
			Name:        "배준하",
			PhoneNumber: "010-1234-5678",
		},
		password: DemoPassword,
	}
	s.contacts = []domain.EmergencyContact{
		{ID: uuid.New(), Name: "어머니", Phone: "010-9876-5432", Relation: "가족"},
	}
	s.records = []domain.EmergencyRecord{
		{
			ID:        uuid.MustParse("5d3f0bb0-9b8e-4c46-9a33-64c1f1f2a001"),
			Timestamp: time.Date(2024, 10, 24, 13, 31, 21, 0, kst),
			Latitude:  35.0497094,
			Longitude: 127.9929478,
			Address:   "대한민국 경상남도 사천시 광포길",
			AISummary: "'살려주세요'라는 음성이 인식된 것으로 보아 납치, 협박 등의 위험에 처하신 것으로 보입니다. 신속한 경찰 신고가 필요합니다.",
			RiskLevel: domain.RiskHigh,
		},
	}
	s.route = []domain.LocationSample{
		{Latitude: 35.0497094, Longitude: 127.9929478, Timestamp: time.Date(2024, 10, 25, 13, 3, 0, 0, kst), Address: "경상남도 사천시 광포길"},
		{Latitude: 37.0324096, Longitude: 127.9953599, Timestamp: time.Date(2024, 10, 25, 13, 18, 0, 0, kst)},
		{Latitude: 39.0421594, Longitude: 127.3525478, Timestamp: time.Date(2024, 10, 25, 13, 33, 0, 0, kst)},
		{Latitude: 38.0532551, Longitude: 127.5325432, Timestamp: time.Date(2024, 10, 25, 13, 48, 0, 0, kst)},
		{Latitude: 37.4235553, Longitude: 127.9924478, Timestamp: time.Date(2024, 10, 25, 14, 3, 0, 0, kst)},
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleLogout).Methods(http.MethodPost)

	auth := r.PathPrefix("/api").Subrouter()
	auth.Use(s.requireToken)
	auth.HandleFunc("/user/me", s.handleMe).Methods(http.MethodGet)
	auth.HandleFunc("/user/emergency-contacts", s.handleListContacts).Methods(http.MethodGet)
	auth.HandleFunc("/user/emergency-contacts", s.handleAddContact).Methods(http.MethodPost)
	auth.HandleFunc("/user/emergency-contacts/{id}", s.handleUpdateContact).Methods(http.MethodPut)
	auth.HandleFunc("/user/emergency-contacts/{id}", s.handleDeleteContact).Methods(http.MethodDelete)
	auth.HandleFunc("/location/current", s.handleCurrentLocation).Methods(http.MethodGet)
	auth.HandleFunc("/location/recent", s.handleRecentLocations).Methods(http.MethodGet)
	auth.HandleFunc("/location/history", s.handleRecentLocations).Methods(http.MethodGet)
	auth.HandleFunc("/location/history/range", s.handleRecentLocations).Methods(http.MethodGet)
	auth.HandleFunc("/emergency/alerts", s.handleListAlerts).Methods(http.MethodGet)
	auth.HandleFunc("/emergency/alerts/{id}", s.handleGetAlert).Methods(http.MethodGet)
	auth.HandleFunc("/emergency/alerts/{id}/resolve", s.handleResolveAlert).Methods(http.MethodPatch)
	auth.HandleFunc("/emergency/alert", s.handleCreateAlert).Methods(http.MethodPost)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		_, ok := s.tokens[tok]
		s.mu.Unlock()
		if tok == "" || !ok {
			writeError(w, http.StatusUnauthorized, "인증이 필요합니다.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authBody is the flattened token+profile auth response, wrapped in a data
// envelope the way the live backend wraps it.
func authBody(token string, u domain.User) map[string]any {
	return map[string]any{"data": map[string]any{
		"token":       token,
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"name":        u.Name,
		"phoneNumber": u.PhoneNumber,
		"deviceId":    u.DeviceID,
	}}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UsernameOrEmail string `json:"usernameOrEmail"`
		Password        string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "입력 정보를 확인해주세요.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if (acct.user.Username == req.UsernameOrEmail || acct.user.Email == req.UsernameOrEmail) &&
			acct.password == req.Password {
			tok := uuid.NewString()
			s.tokens[tok] = acct.user.Username
			writeJSON(w, http.StatusOK, authBody(tok, acct.user))
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "아이디 또는 비밀번호가 올바르지 않습니다.")
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber"`
		Address     string `json:"address"`
		DeviceID    string `json:"deviceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "입력 정보를 확인해주세요.")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Name == "" || req.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "입력 정보를 확인해주세요.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.user.Username == req.Username || acct.user.Email == req.Email {
			writeError(w, http.StatusConflict, "이미 존재하는 아이디 또는 이메일입니다.")
			return
		}
	}
	u := domain.User{
		ID:          s.nextID,
		Username:    req.Username,
		Email:       req.Email,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		DeviceID:    req.DeviceID,
	}
	s.nextID++
	s.accounts[u.Username] = account{user: u, password: req.Password}

	// Auto-login on signup.
	tok := uuid.NewString()
	s.tokens[tok] = u.Username
	writeJSON(w, http.StatusCreated, authBody(tok, u))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	delete(s.tokens, tok)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) currentUser(r *http.Request) (domain.User, bool) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[tok]
	if !ok {
		return domain.User{}, false
	}
	acct, ok := s.accounts[username]
	return acct.user, ok
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "인증이 필요합니다.")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleListContacts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.contacts)
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var c domain.EmergencyContact
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Name == "" || c.Phone == "" {
		writeError(w, http.StatusBadRequest, "입력 정보를 확인해주세요.")
		return
	}
	c.ID = uuid.New()
	s.mu.Lock()
	s.contacts = append(s.contacts, c)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var c domain.EmergencyContact
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Name == "" || c.Phone == "" {
		writeError(w, http.StatusBadRequest, "입력 정보를 확인해주세요.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID.String() == id {
			c.ID = s.contacts[i].ID
			s.contacts[i] = c
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeError(w, http.StatusNotFound, "연락처를 찾을 수 없습니다.")
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID.String() == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "연락처를 찾을 수 없습니다.")
}

func (s *Server) handleCurrentLocation(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.route[len(s.route)-1])
}

func (s *Server) handleRecentLocations(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"locations": s.route})
}

func (s *Server) handleListAlerts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Most recent first.
	out := make([]domain.EmergencyRecord, len(s.records))
	copy(out, s.records)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": out})
}

func (s *Server) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID.String() == id {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeError(w, http.StatusNotFound, "긴급 기록을 찾을 수 없습니다.")
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Address   string  `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "입력 정보를 확인해주세요.")
		return
	}
	rec := domain.EmergencyRecord{
		ID:        uuid.New(),
		Timestamp: time.Now().In(kst),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   req.Address,
		RiskLevel: domain.RiskMedium,
	}
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID.String() == id {
			s.records[i].Resolved = true
			writeJSON(w, http.StatusOK, s.records[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "긴급 기록을 찾을 수 없습니다.")
}

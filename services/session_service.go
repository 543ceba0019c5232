package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terraza-app/terraza-kiosk/config"
	"github.com/terraza-app/terraza-kiosk/models"
)

// SessionServiceInterface manages the kiosk's identity: guest or signed-in
// customer, the active table, and the bearer token for the remote API.
type SessionServiceInterface interface {
	Current() *models.Session
	Token() string
	StartGuest(tableID int) *models.Session
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut()
	// Invalidate drops the session without a server round trip. The API
	// client calls it when the server rejects the token.
	Invalidate()
	SetTable(tableID int)
}

// SessionService implements SessionServiceInterface, persisting every
// change to the local store so the identity survives a kiosk restart.
type SessionService struct {
	mu      sync.RWMutex
	session *models.Session
	expiry  time.Duration
}

var sessionServiceInstance SessionServiceInterface

// InitSessionService initializes the session service, restoring a
// persisted session if one exists and has not expired. An expired session
// row is removed rather than restored; the server would reject its token
// anyway.
func InitSessionService(cfg *config.Config) SessionServiceInterface {
	service := &SessionService{expiry: cfg.SessionExpiry}
	service.restore()
	sessionServiceInstance = service
	return service
}

// GetSessionService returns the initialized session service instance
func GetSessionService() SessionServiceInterface {
	return sessionServiceInstance
}

// SetSessionService sets the session service instance (primarily for testing)
func SetSessionService(service SessionServiceInterface) {
	sessionServiceInstance = service
}

// Current returns a copy of the active session, or nil when signed out.
func (s *SessionService) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// Token returns the bearer token for outgoing requests, empty when there
// is no active session. Wired into the API client as its token source.
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || !s.session.Active(time.Now()) {
		return ""
	}
	return s.session.Token
}

// StartGuest begins an anonymous session bound to a table. Guests get a
// generated client id so their orders can be attributed without an account.
func (s *SessionService) StartGuest(tableID int) *models.Session {
	session := &models.Session{
		TableID:   tableID,
		ClientID:  uuid.NewString(),
		Guest:     true,
		ExpiresAt: time.Now().Add(s.expiry),
	}

	s.mu.Lock()
	s.session = session
	s.persistLocked()
	s.mu.Unlock()

	copied := *session
	return &copied
}

// SignIn authenticates against the remote API and replaces the current
// session. The table context carries over from a prior guest session so a
// customer signing in mid-meal keeps their table.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := GetUserService().Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	tableID := 0
	clientID := uuid.NewString()
	if s.session != nil {
		tableID = s.session.TableID
		if s.session.ClientID != "" {
			clientID = s.session.ClientID
		}
	}
	user := resp.User
	s.session = &models.Session{
		User:      &user,
		Token:     resp.Token,
		TableID:   tableID,
		ClientID:  clientID,
		Admin:     user.Admin,
		ExpiresAt: time.Now().Add(s.expiry),
	}
	s.persistLocked()
	session := *s.session
	s.mu.Unlock()

	return &session, nil
}

// SignOut drops the session, its persisted row, and the query cache.
func (s *SessionService) SignOut() {
	s.Invalidate()
}

// Invalidate clears the session everywhere: memory, local store, and the
// query cache, so the next identity starts cold.
func (s *SessionService) Invalidate() {
	s.mu.Lock()
	s.session = nil
	if db := config.GetStore(); db != nil {
		if err := db.Where("1 = 1").Delete(&models.SessionRecord{}).Error; err != nil {
			log.Printf("Failed to remove persisted session: %v", err)
		}
	}
	s.mu.Unlock()

	GetQueryCache().Clear()
}

// SetTable updates the active table context on the current session.
func (s *SessionService) SetTable(tableID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return
	}
	s.session.TableID = tableID
	s.persistLocked()
}

// restore loads the persisted session at startup, discarding it when the
// wall-clock expiry has passed.
func (s *SessionService) restore() {
	db := config.GetStore()
	if db == nil {
		return
	}

	var record models.SessionRecord
	if err := db.First(&record).Error; err != nil {
		return
	}

	var session models.Session
	if err := json.Unmarshal([]byte(record.Payload), &session); err != nil {
		log.Printf("Discarding unreadable persisted session: %v", err)
		db.Delete(&record)
		return
	}

	// Guest sessions carry no token, so this is an expiry check only.
	if !time.Now().Before(session.ExpiresAt) {
		log.Println("Persisted session expired, discarding")
		db.Delete(&record)
		return
	}

	s.session = &session
}

// persistLocked writes the current session to the local store. Caller
// holds the mutex.
func (s *SessionService) persistLocked() {
	db := config.GetStore()
	if db == nil || s.session == nil {
		return
	}

	payload, err := json.Marshal(s.session)
	if err != nil {
		log.Printf("Failed to encode session: %v", err)
		return
	}

	var record models.SessionRecord
	if err := db.First(&record).Error; err != nil {
		record = models.SessionRecord{}
	}
	record.Payload = string(payload)
	if err := db.Save(&record).Error; err != nil {
		log.Printf("Failed to persist session: %v", err)
	}
}

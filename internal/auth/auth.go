// Package auth implements register, login and session restore against the
// local store. The session lives in memory and is mirrored to a signed marker
// in the keyval slot so it survives a restart.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/genmesh/meshstore/internal/hash"
	"github.com/genmesh/meshstore/internal/keyval"
	"github.com/genmesh/meshstore/internal/logging"
	"github.com/genmesh/meshstore/internal/models"
	"github.com/genmesh/meshstore/internal/store"
)

// MarkerKey is the slot holding the persisted session marker.
const MarkerKey = "user"

var (
	ErrDuplicateUser = errors.New("user already exists with this email")
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike. The shared message hides which of the two failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Session struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Service struct {
	mu      sync.RWMutex
	current *Session

	store  *store.Store
	kv     *keyval.File
	secret []byte
	log    *slog.Logger
}

func NewService(st *store.Store, kv *keyval.File, secret []byte, log *slog.Logger) *Service {
	return &Service{store: st, kv: kv, secret: secret, log: log}
}

// Register creates a user with role "user" and establishes it as the current
// session. Email uniqueness is checked before the insert, so a duplicate
// surfaces as ErrDuplicateUser rather than a constraint violation.
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	var count int64
	if err := s.store.Read(func(db *gorm.DB) error {
		return db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	}); err != nil {
		l.Error("register failed", "reason", "store unavailable", "error", err)
		return nil, err
	}
	if count > 0 {
		l.Warn("register rejected", "reason", "duplicate email")
		return nil, ErrDuplicateUser
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{Email: email, PasswordHash: pwHash, Role: "user"}
	if err := s.store.Write(func(db *gorm.DB) error {
		return db.Create(&user).Error
	}); err != nil {
		l.Error("register failed", "error", err)
		return nil, err
	}

	// Re-read the created row to pick up the assigned id.
	var created models.User
	if err := s.store.Read(func(db *gorm.DB) error {
		return db.Where("email = ?", email).First(&created).Error
	}); err != nil {
		l.Error("register failed", "reason", "created row not found", "error", err)
		return nil, err
	}

	sess := &Session{ID: created.ID, Email: created.Email, Role: created.Role}
	if err := s.establish(sess); err != nil {
		l.Error("session marker not persisted", "error", err)
	}
	return sess, nil
}

// Login validates the credentials and establishes the session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	var user models.User
	err := s.store.Read(func(db *gorm.DB) error {
		return db.Where("email = ?", email).First(&user).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l.Warn("login failed", "reason", "unknown email")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		l.Error("login failed", "reason", "store unavailable", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	sess := &Session{ID: user.ID, Email: user.Email, Role: user.Role}
	if err := s.establish(sess); err != nil {
		l.Error("session marker not persisted", "error", err)
	}
	return sess, nil
}

// Logout clears the in-memory session and its persisted marker.
func (s *Service) Logout() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return s.kv.Remove(MarkerKey)
}

// Restore rebuilds the session from the persisted marker. A malformed or
// forged marker is discarded silently; a well-formed one is re-validated
// against the users table so a stale marker cannot resurrect a deleted
// account or an outdated role.
func (s *Service) Restore(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "auth.restore")

	var raw string
	found, err := s.kv.GetInto(MarkerKey, &raw)
	if !found {
		return
	}
	if err != nil {
		l.Warn("discarding malformed session marker", "error", err)
		s.discardMarker()
		return
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		l.Warn("discarding malformed session marker", "error", err)
		s.discardMarker()
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		s.discardMarker()
		return
	}
	email, _ := claims["email"].(string)
	if email == "" {
		s.discardMarker()
		return
	}

	var user models.User
	if err := s.store.Read(func(db *gorm.DB) error {
		return db.Where("email = ?", email).First(&user).Error
	}); err != nil {
		l.Warn("discarding stale session marker", "email", email, "error", err)
		s.discardMarker()
		return
	}

	sess := &Session{ID: user.ID, Email: user.Email, Role: user.Role}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	l.Info("session restored", "email", user.Email, "role", user.Role)
}

// Current returns a copy of the active session, or nil when anonymous.
func (s *Service) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

func (s *Service) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Role == "admin"
}

func (s *Service) establish(sess *Session) error {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(sess.ID), 10),
		"email": sess.Email,
		"role":  sess.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return err
	}
	return s.kv.Set(MarkerKey, signed)
}

func (s *Service) discardMarker() {
	if err := s.kv.Remove(MarkerKey); err != nil {
		s.log.Warn("session marker not removed", "error", err)
	}
}

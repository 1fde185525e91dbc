package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"telconova-dispatch/models"
	"telconova-dispatch/utils"
	"telconova-dispatch/utils/logger"
)

// AuthService checks supervisor credentials behind a per-email lockout.
// Failed attempts are kept in a rolling window; once maxAttempts of them fall
// inside the window the email is locked until the oldest of those leaves it.
type AuthService struct {
	mu          sync.Mutex
	attempts    map[string][]time.Time
	maxAttempts int
	window      time.Duration
	supervisor  models.Supervisor
	logger      logger.Logger
	now         func() time.Time
}

// NewAuthService creates an auth service that locks an email after
// maxAttempts failures within window.
func NewAuthService(supervisor models.Supervisor, maxAttempts int, window time.Duration, log logger.Logger) *AuthService {
	return &AuthService{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		supervisor:  supervisor,
		logger:      log,
		now:         time.Now,
	}
}

// AttemptLogin checks the credentials. Attempts made while locked are
// rejected without being counted.
func (s *AuthService) AttemptLogin(email, password string) models.LoginResult {
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	recent := s.pruneLocked(key, now)

	if until, locked := s.lockedUntilLocked(recent); locked {
		s.logger.Warnf("Login rejected for locked account %s", key)
		return models.LoginResult{
			Success:     false,
			Message:     fmt.Sprintf("Account locked. Try again after %s", until.Format(time.RFC3339)),
			LockedUntil: &until,
		}
	}

	if key == normalizeEmail(s.supervisor.Email) && utils.CheckPassword(s.supervisor.PasswordHash, password) {
		delete(s.attempts, key)
		s.logger.Infof("Supervisor %s logged in", key)
		return models.LoginResult{
			Success:           true,
			Message:           "Login successful",
			RemainingAttempts: s.maxAttempts,
		}
	}

	recent = append(recent, now)
	s.attempts[key] = recent
	s.logger.Warnf("Failed login for %s (%d/%d)", key, len(recent), s.maxAttempts)

	if until, locked := s.lockedUntilLocked(recent); locked {
		return models.LoginResult{
			Success:     false,
			Message:     fmt.Sprintf("Too many failed attempts. Account locked for %s", s.window),
			LockedUntil: &until,
		}
	}
	remaining := s.maxAttempts - len(recent)
	return models.LoginResult{
		Success:           false,
		Message:           fmt.Sprintf("Invalid credentials. %d attempts remaining", remaining),
		RemainingAttempts: remaining,
	}
}

// LockedUntil reports when the lock on email ends, or nil if it is not locked.
func (s *AuthService) LockedUntil(email string) *time.Time {
	key := normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if until, locked := s.lockedUntilLocked(s.pruneLocked(key, s.now())); locked {
		return &until
	}
	return nil
}

// PruneExpired forgets attempts older than the window for every email and
// returns how many were dropped.
func (s *AuthService) PruneExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for key, list := range s.attempts {
		before := len(list)
		dropped += before - len(s.pruneLocked(key, now))
	}
	return dropped
}

func (s *AuthService) Supervisor() models.Supervisor {
	return s.supervisor
}

func (s *AuthService) pruneLocked(key string, now time.Time) []time.Time {
	list := s.attempts[key]
	cutoff := now.Add(-s.window)
	kept := list[:0]
	for _, at := range list {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(s.attempts, key)
		return nil
	}
	s.attempts[key] = kept
	return kept
}

func (s *AuthService) lockedUntilLocked(recent []time.Time) (time.Time, bool) {
	if len(recent) < s.maxAttempts {
		return time.Time{}, false
	}
	return recent[len(recent)-s.maxAttempts].Add(s.window), true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

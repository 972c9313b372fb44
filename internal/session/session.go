package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/apprende-client/internal/platform/logger"
)

// TokenKey is the storage key the bearer token is persisted under.
const TokenKey = "token"

// Storage persists the token between runs. The local sqlite store satisfies it.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

var ErrClosed = errors.New("session store closed")

// Store is the process-wide holder of the current bearer token.
// Every Set and every effective Clear notifies all subscribers synchronously on the calling goroutine.
type Store struct {
	mu      sync.RWMutex
	token   string
	closed  bool
	storage Storage
	now     func() time.Time

	hub *hub
	log *logger.Logger
}

func New(storage Storage, log *logger.Logger) *Store {
	storeLog := log.With("component", "SessionStore")
	return &Store{
		storage: storage,
		now:     time.Now,
		hub:     newHub(storeLog),
		log:     storeLog,
	}
}

// Open loads a persisted token. A token whose exp claim has passed is discarded silently.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.storage == nil {
		return nil
	}
	tok, ok, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("load session token: %w", err)
	}
	if !ok || strings.TrimSpace(tok) == "" {
		return nil
	}
	if c, ok := ParseClaims(tok); ok && c.Expired(s.now()) {
		s.log.Info("discarding expired session token", "subject", c.Subject)
		if err := s.storage.Remove(ctx, TokenKey); err != nil {
			return fmt.Errorf("remove expired token: %w", err)
		}
		return nil
	}
	s.token = tok
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Claims decodes the current token without verifying its signature.
func (s *Store) Claims() (Claims, bool) {
	tok := s.Token()
	if tok == "" {
		return Claims{}, false
	}
	return ParseClaims(tok)
}

// Set stores a freshly issued token and broadcasts a login event.
func (s *Store) Set(ctx context.Context, token string, reason Reason) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("empty session token")
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.storage != nil {
		if err := s.storage.Set(ctx, TokenKey, token); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("persist session token: %w", err)
		}
	}
	s.token = token
	s.mu.Unlock()

	s.log.Debug("session token set", "reason", reason)
	s.hub.publish(Event{Kind: EventLoggedIn, Reason: reason, At: s.now()})
	return nil
}

// Clear drops the token. It broadcasts a logout event only when a token was actually held,
// so an unauthenticated 401 cannot feed back into another identity fetch.
func (s *Store) Clear(ctx context.Context, reason Reason) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	had := s.token != ""
	s.token = ""
	var err error
	if s.storage != nil {
		if rmErr := s.storage.Remove(ctx, TokenKey); rmErr != nil {
			err = fmt.Errorf("remove session token: %w", rmErr)
		}
	}
	s.mu.Unlock()

	if had {
		s.log.Debug("session token cleared", "reason", reason)
		s.hub.publish(Event{Kind: EventLoggedOut, Reason: reason, At: s.now()})
	}
	return err
}

// Subscribe registers a listener and returns the function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	return s.hub.subscribe(l)
}

// Watch is a channel view of the broadcast for event loops that cannot take callbacks.
// Events are dropped when the buffer is full.
func (s *Store) Watch(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	var (
		mu     sync.Mutex
		closed bool
	)
	unsub := s.hub.subscribe(func(ev Event) {
		// publish may still hold this listener after stop; the flag keeps it off the closed channel
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- ev:
		default:
			s.log.Warn("dropping auth-change event; watcher buffer full", "kind", ev.Kind)
		}
	})
	return ch, func() {
		unsub()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(ch)
		}
	}
}

// Close detaches every listener. The token stays persisted.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.hub.clear()
	return nil
}

// Claims is the subset of the JWT payload the client cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims reads sub and exp from a JWT without checking the signature; the server is the verifier.
func ParseClaims(token string) (Claims, bool) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, false
	}
	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, true
}

package auth

import (
	"context"
	"sync"

	"ems-sync/internal/employee"

	"go.uber.org/zap"
)

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// SessionView is the read model handed to consumers.
type SessionView struct {
	Employee        *employee.Employee `json:"employee"`
	IsAuthenticated bool               `json:"isAuthenticated"`
	IsLoading       bool               `json:"isLoading"`
}

// Session is the authentication lifecycle of one persisted session:
// Loading, then Authenticated(subject) or Unauthenticated. Refresh and Logout
// are the only mutators. The subject and the state always change together.
type Session struct {
	gateway Gateway

	mu      sync.RWMutex
	state   State
	subject *employee.Employee
	// epoch orders refreshes and logouts; a result is only applied if nothing
	// newer has been applied since it started.
	epoch   uint64
	applied uint64

	ready     chan struct{}
	readyOnce sync.Once

	logger *zap.Logger
}

// NewSession returns a session in Loading and starts the initial Refresh in
// the background. Use Ready or Wait before reading the subject.
func NewSession(ctx context.Context, gateway Gateway, logger ...*zap.Logger) *Session {
	s := newSession(gateway, logger...)
	go s.Refresh(ctx)
	return s
}

// NewAnonymousSession is an already settled Unauthenticated session, used for
// callers that carry no session id at all.
func NewAnonymousSession(logger ...*zap.Logger) *Session {
	s := newSession(noopGateway{}, logger...)
	s.state = StateUnauthenticated
	s.markReady()
	return s
}

func newSession(gateway Gateway, logger ...*zap.Logger) *Session {
	l := zap.L().Named("auth.session")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.session")
	}
	return &Session{
		gateway: gateway,
		state:   StateLoading,
		ready:   make(chan struct{}),
		logger:  l,
	}
}

// Refresh validates the persisted session again. Any validation failure is
// treated as "no session".
func (s *Session) Refresh(ctx context.Context) State {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	subject, err := s.gateway.Validate(ctx)
	if err != nil {
		s.logger.Debug("session validation failed", zap.Error(err))
		subject = nil
	}

	s.mu.Lock()
	if epoch > s.applied {
		s.applied = epoch
		if subject != nil {
			c := subject.Clone()
			s.subject = &c
			s.state = StateAuthenticated
		} else {
			s.subject = nil
			s.state = StateUnauthenticated
		}
	}
	state := s.state
	s.mu.Unlock()

	s.markReady()
	return state
}

// Logout clears the persisted session. The session ends Unauthenticated even
// if the gateway fails to clear.
func (s *Session) Logout(ctx context.Context) {
	if err := s.gateway.Clear(ctx); err != nil {
		s.logger.Warn("session clear failed", zap.Error(err))
	}

	s.mu.Lock()
	s.epoch++
	s.applied = s.epoch
	s.subject = nil
	s.state = StateUnauthenticated
	s.mu.Unlock()

	s.markReady()
}

func (s *Session) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Ready is closed once the session has left Loading.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the session has left Loading or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) IsLoading() bool {
	return s.State() == StateLoading
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// Employee returns a copy of the subject, or nil unless authenticated.
func (s *Session) Employee() *employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.subject == nil {
		return nil
	}
	c := s.subject.Clone()
	return &c
}

// View reads subject and flags under one lock so they are never observed half updated.
func (s *Session) View() SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := SessionView{
		IsAuthenticated: s.state == StateAuthenticated,
		IsLoading:       s.state == StateLoading,
	}
	if s.subject != nil {
		c := s.subject.Clone()
		v.Employee = &c
	}
	return v
}

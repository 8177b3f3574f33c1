package auth

import (
	"context"
	"sync"

	"ems-sync/internal/employee"

	"go.uber.org/zap"
)

// GatewayFactory builds the gateway bound to one session id.
type GatewayFactory func(sid string) Gateway

// Registry holds one Session per session id for the lifetime of the process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  GatewayFactory
	logger   *zap.Logger
}

func NewRegistry(factory GatewayFactory, logger ...*zap.Logger) *Registry {
	l := zap.L().Named("auth.registry")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.registry")
	}
	return &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		logger:   l,
	}
}

// Open returns the session for sid, creating it (and starting its initial
// validation) on first use. The validation outlives the caller's request.
func (r *Registry) Open(ctx context.Context, sid string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sid]; ok {
		return s
	}

	s := NewSession(context.WithoutCancel(ctx), r.factory(sid), r.logger)
	r.sessions[sid] = s
	r.logger.Debug("session opened", zap.Int("open_sessions", len(r.sessions)))
	return s
}

func (r *Registry) Lookup(sid string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sid]
	return s, ok
}

// Drop forgets the in-memory session. It does not touch the persisted token.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// DropIf forgets every session for which match reports true and returns how
// many were dropped. match runs under the registry lock.
func (r *Registry) DropIf(match func(sid string, s *Session) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for sid, s := range r.sessions {
		if match(sid, s) {
			delete(r.sessions, sid)
			dropped++
		}
	}
	if dropped > 0 {
		r.logger.Debug("sessions dropped", zap.Int("dropped", dropped), zap.Int("open_sessions", len(r.sessions)))
	}
	return dropped
}

// DropMissingSubjects forgets authenticated sessions whose employee is no longer
// in snap. Meant to be subscribed to the directory store.
func (r *Registry) DropMissingSubjects(snap employee.Snapshot) int {
	return r.DropIf(func(_ string, s *Session) bool {
		subject := s.Employee()
		if subject == nil {
			return false
		}
		_, ok := snap.Find(subject.ID)
		return !ok
	})
}

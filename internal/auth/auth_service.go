package auth

import (
	"context"

	autherrors "ems-sync/internal/auth/errors"
	"ems-sync/internal/shared/audit"
	"ems-sync/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// Login always issues a fresh session id. A previous sid, if any, is
	// cleared once the new session is established.
	Login(ctx context.Context, previousSID string, req LoginRequest) (LoginResponse, error)
	// Resolve returns the settled session for sid; an empty sid is anonymous.
	// A retained authenticated session is validated again on every call.
	Resolve(ctx context.Context, sid string) (*Session, error)
	Refresh(ctx context.Context, sid string) (SessionView, error)
	Logout(ctx context.Context, sid string) SessionView
}

type service struct {
	registry    *Registry
	tokens      TokenStore
	signer      *TokenSigner
	directory   Directory
	credentials *CredentialStore
	audit       audit.Logger
	logger      *zap.Logger
}

func NewService(
	registry *Registry,
	tokens TokenStore,
	signer *TokenSigner,
	directory Directory,
	credentials *CredentialStore,
	auditLogger audit.Logger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if auditLogger == nil {
		auditLogger = audit.NewNopLogger()
	}
	return &service{
		registry:    registry,
		tokens:      tokens,
		signer:      signer,
		directory:   directory,
		credentials: credentials,
		audit:       auditLogger,
		logger:      l,
	}
}

func (s *service) Login(ctx context.Context, previousSID string, req LoginRequest) (LoginResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	subject, ok := s.directory.FindByEmail(req.Email)
	if !ok || !s.credentials.Verify(subject.ID, req.Password) {
		log.Info("login rejected", zap.String("email", req.Email))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	sid := uuid.NewString()

	token, err := s.signer.Sign(subject.ID, sid)
	if err != nil {
		log.Error("sign session token failed", zap.Error(err))
		return LoginResponse{}, err
	}
	if err := s.tokens.Save(ctx, sid, token, s.signer.TTL()); err != nil {
		log.Error("persist session token failed", zap.Error(err))
		return LoginResponse{}, autherrors.ErrSessionStore
	}

	// validate synchronously so the response reflects the new token
	sess := s.registry.Open(ctx, sid)
	sess.Refresh(ctx)
	view := sess.View()
	if !view.IsAuthenticated {
		// the subject vanished between lookup and refresh
		s.registry.Drop(sid)
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if previousSID != "" {
		s.end(ctx, previousSID)
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "SESSION_LOGIN",
		Message: "employee logged in",
		Meta:    map[string]any{"employee_id": subject.ID},
	})
	log.Info("login success", zap.String("employee_id", subject.ID))

	return LoginResponse{SessionID: sid, Session: view}, nil
}

func (s *service) Resolve(ctx context.Context, sid string) (*Session, error) {
	if sid == "" {
		return NewAnonymousSession(s.logger), nil
	}

	_, retained := s.registry.Lookup(sid)
	sess := s.registry.Open(ctx, sid)
	if err := sess.Wait(ctx); err != nil {
		return nil, autherrors.ErrSessionNotLoaded
	}

	// a retained session may be stale by now
	if retained && sess.IsAuthenticated() {
		sess.Refresh(ctx)
	}

	// unauthenticated sessions are cheap to rebuild, so keep the registry small
	if !sess.IsAuthenticated() {
		s.registry.Drop(sid)
	}
	return sess, nil
}

func (s *service) Refresh(ctx context.Context, sid string) (SessionView, error) {
	if sid == "" {
		return NewAnonymousSession(s.logger).View(), nil
	}

	sess := s.registry.Open(ctx, sid)
	if err := sess.Wait(ctx); err != nil {
		return SessionView{}, autherrors.ErrSessionNotLoaded
	}
	sess.Refresh(ctx)

	view := sess.View()
	if !view.IsAuthenticated {
		s.registry.Drop(sid)
	}
	return view, nil
}

func (s *service) Logout(ctx context.Context, sid string) SessionView {
	if sid == "" {
		return NewAnonymousSession(s.logger).View()
	}

	sess, employeeID := s.end(ctx, sid)

	s.audit.Log(ctx, audit.Entry{
		Action:  "SESSION_LOGOUT",
		Message: "session logged out",
		Meta:    map[string]any{"employee_id": employeeID},
	})
	contextutil.GetLogger(ctx, s.logger).Info("logout", zap.String("employee_id", employeeID))

	return sess.View()
}

// end clears the persisted token behind sid and forgets its session.
func (s *service) end(ctx context.Context, sid string) (*Session, string) {
	sess, ok := s.registry.Lookup(sid)
	if !ok {
		sess = newSession(s.registry.factory(sid), s.logger)
	}

	var employeeID string
	if subject := sess.Employee(); subject != nil {
		employeeID = subject.ID
	}

	sess.Logout(ctx)
	s.registry.Drop(sid)
	return sess, employeeID
}

// Package services contains the application services of the staffdir console:
// the session service owning the authenticated-identity lifecycle, and the
// employee service owning the in-memory directory collection.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/staffdir/internal/client/api"
	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// timeNow is a test seam for the token expiry check.
var timeNow = time.Now

// SessionService mediates between raw credentials and an authenticated
// identity usable by the rest of the client.
//
// Contract:
//   - SignIn: single login request, no retry; 401 maps to
//     api.ErrInvalidCredentials and the session stays unauthenticated.
//   - Register: create an account, then pipeline into SignIn with the same
//     credentials; a conflict maps to api.ErrDuplicateAccount with no
//     sign-in attempt.
//   - SignOut: clears the session unconditionally, no server round-trip.
//   - AuthHeader: the only source of bearer material for authorized requests.
//   - Invalidate: forced sign-out, invoked when the server rejects the token.
//   - Profile: the signed-in user's own directory record.
type SessionService interface {
	SignIn(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string, role models.Role) error
	SignOut()
	AuthHeader() (string, error)
	Invalidate()
	Session() models.Session
	Profile(ctx context.Context) (*models.Employee, error)
}

type sessionService struct {
	client api.Client
	log    logging.Logger

	mu        sync.Mutex
	session   models.Session
	expiresAt time.Time
}

// NewSessionService constructs a SessionService bound to the given API client.
func NewSessionService(client api.Client, log logging.Logger) SessionService {
	return &sessionService{
		client:  client,
		log:     log,
		session: models.Session{Status: models.StatusUnauthenticated},
	}
}

// SignIn exchanges credentials for a session. The credential values are used
// for the single request and not retained.
func (s *sessionService) SignIn(ctx context.Context, email, password string) error {
	s.setStatus(models.StatusAuthenticating)

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.clear()
		if errors.Is(err, api.ErrInvalidCredentials) {
			s.log.Info(ctx, "sign-in rejected", "email", email)
			return api.ErrInvalidCredentials
		}
		return fmt.Errorf("sign-in: %w", err)
	}

	user := resp.User

	s.mu.Lock()
	s.session = models.Session{
		User:        &user,
		AccessToken: resp.BackendToken.AccessToken,
		Status:      models.StatusAuthenticated,
	}
	s.expiresAt = tokenExpiry(resp.BackendToken.AccessToken)
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "user_id", user.ID, "role", user.Role)
	return nil
}

// Register creates an account and, on success, signs in with the just-used
// credentials.
func (s *sessionService) Register(ctx context.Context, name, email, password string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("register: unknown role %q", role)
	}

	if err := s.client.Register(ctx, name, email, password, role); err != nil {
		if errors.Is(err, api.ErrDuplicateAccount) {
			return api.ErrDuplicateAccount
		}
		return fmt.Errorf("register: %w", err)
	}

	s.log.Info(ctx, "account registered", "email", email)
	return s.SignIn(ctx, email, password)
}

// SignOut discards the session. It always succeeds; the backend has no
// logout endpoint to notify.
func (s *sessionService) SignOut() {
	s.clear()
}

// AuthHeader returns the "Bearer <token>" value for the current session.
// A locally expired token clears the session and reports unauthenticated,
// matching what the server would answer anyway.
func (s *sessionService) AuthHeader() (string, error) {
	s.mu.Lock()
	sess := s.session
	expiresAt := s.expiresAt
	s.mu.Unlock()

	if !sess.Authenticated() {
		return "", api.ErrUnauthenticated
	}
	if !expiresAt.IsZero() && !timeNow().Before(expiresAt) {
		s.clear()
		return "", api.ErrUnauthenticated
	}
	return "Bearer " + sess.AccessToken, nil
}

// Invalidate is the forced sign-out path: the API client calls it when an
// authorized request comes back 401.
func (s *sessionService) Invalidate() {
	s.clear()
	s.log.Warn(context.Background(), "session invalidated by server")
}

// Session returns a snapshot of the current session state.
func (s *sessionService) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Profile fetches the signed-in user's own employee record.
func (s *sessionService) Profile(ctx context.Context) (*models.Employee, error) {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	if !sess.Authenticated() {
		return nil, api.ErrUnauthenticated
	}
	e, err := s.client.GetEmployee(ctx, sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return e, nil
}

func (s *sessionService) setStatus(status models.SessionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = models.Session{Status: status}
	s.expiresAt = time.Time{}
}

func (s *sessionService) clear() {
	s.setStatus(models.StatusUnauthenticated)
}

// tokenExpiry extracts the exp claim from a JWT access token without
// verifying the signature; verification is the server's job, the client only
// wants to stop using a token it can already tell is dead. Opaque non-JWT
// tokens yield a zero time and are treated as never locally expiring.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

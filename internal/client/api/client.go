// Package api implements the typed client for the Remote Directory Service,
// the REST backend the staffdir console talks to. It owns the HTTP transport,
// maps response statuses onto the package's error taxonomy, and validates
// response payloads before they reach application state.
package api

import (
	"context"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
)

// Client is the Remote Directory Service contract as consumed by the
// application services. All methods honor context cancellation.
type Client interface {
	// Login exchanges credentials for the signed-in user and access token.
	// A 401 maps to ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)

	// Register creates a new account. A 409 maps to ErrDuplicateAccount.
	Register(ctx context.Context, name, email, password string, role models.Role) error

	// ListEmployees fetches the directory filtered server-side. Empty filter
	// fields are omitted from the query string.
	ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)

	// GetEmployee fetches a single record by id. Requires a session.
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)

	// CreateEmployee submits a draft; the server assigns the id.
	CreateEmployee(ctx context.Context, draft models.EmployeeDraft) error

	// UpdateEmployee sends a partial update. The returned record is the
	// server's post-update representation, or nil when the server answered
	// with no body. Requires a session.
	UpdateEmployee(ctx context.Context, id int64, patch models.EmployeePatch) (*models.Employee, error)

	// DeleteEmployee removes a record. Requires a session.
	DeleteEmployee(ctx context.Context, id int64) error

	// Close releases transport resources.
	Close() error
}

// AuthHeaderSource supplies the bearer header for authorized requests.
// The session service is the only implementation; routing every header
// through it keeps a single source of truth for the token.
type AuthHeaderSource interface {
	AuthHeader() (string, error)
}

// AuthFailureHandler is notified when an authorized request comes back 401,
// so the session owner can force a sign-out.
type AuthFailureHandler interface {
	Invalidate()
}

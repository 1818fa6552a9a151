package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/dmitrijs2005/staffdir/internal/client/api"
	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeClient implements api.Client for unit-testing the services.
// Per-method returns are configured via the public fields; ListFn, when set,
// takes precedence over ListRet/ListErr so tests can control response timing.
type fakeClient struct {
	mu sync.Mutex

	LoginResp *models.AuthResponse
	LoginErr  error

	RegisterErr error

	ListFn  func(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	ListRet []models.Employee
	ListErr error

	GetRet *models.Employee
	GetErr error

	CreateErr error

	UpdateRet *models.Employee
	UpdateErr error

	DeleteErr error

	CloseErr error

	// recorded arguments and call counts
	LoginCalls        int
	LastLoginEmail    string
	LastLoginPassword string

	RegisterCalls        int
	LastRegisterName     string
	LastRegisterEmail    string
	LastRegisterPassword string
	LastRegisterRole     models.Role

	ListCalls  int
	LastFilter models.EmployeeFilter

	LastGetID int64

	CreateCalls   int
	LastDraft     models.EmployeeDraft
	UpdateCalls   int
	LastUpdateID  int64
	LastPatch     models.EmployeePatch
	DeleteCalls   int
	LastDeleteID  int64
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastLoginEmail = email
	f.LastLoginPassword = password
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, name, email, password string, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RegisterCalls++
	f.LastRegisterName = name
	f.LastRegisterEmail = email
	f.LastRegisterPassword = password
	f.LastRegisterRole = role
	return f.RegisterErr
}

func (f *fakeClient) ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	f.mu.Lock()
	f.ListCalls++
	f.LastFilter = filter
	fn := f.ListFn
	ret := append([]models.Employee(nil), f.ListRet...)
	err := f.ListErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, filter)
	}
	return ret, err
}

func (f *fakeClient) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastGetID = id
	return f.GetRet, f.GetErr
}

func (f *fakeClient) CreateEmployee(ctx context.Context, draft models.EmployeeDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastDraft = draft
	return f.CreateErr
}

func (f *fakeClient) UpdateEmployee(ctx context.Context, id int64, patch models.EmployeePatch) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastUpdateID = id
	f.LastPatch = patch
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteEmployee(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	f.LastDeleteID = id
	return f.DeleteErr
}

func (f *fakeClient) Close() error { return f.CloseErr }

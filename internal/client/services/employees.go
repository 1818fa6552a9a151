package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/staffdir/internal/client/api"
	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// SortKey selects which employee column drives the client-side sort.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByEmail SortKey = "email"
)

// SortDirection is the active sort order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultPageSize is how many employees one page shows.
const DefaultPageSize = 7

// EmployeeService holds the fetched employee collection and applies
// filter/sort/paginate/CRUD deterministically.
//
// Filters are applied server-side: changing one triggers a reload. Sort is
// client-side on the already-fetched collection and stable, so equal keys
// keep their prior relative order. The visible page is always derived from
// (collection, sort, pageIndex); it is never mutated independently.
//
// Reloads triggered in quick succession are not serialized. Each request gets
// a monotonically increasing sequence number and a response is committed only
// if no newer request was issued in the meantime, so the last issued request
// wins regardless of arrival order. Superseded responses are dropped, not
// cancelled.
type EmployeeService interface {
	Load(ctx context.Context) error
	SetNameFilter(ctx context.Context, name string) error
	SetEmailFilter(ctx context.Context, email string) error
	SetRoleFilter(ctx context.Context, role models.Role) error
	Filter() models.EmployeeFilter
	SetSort(key SortKey)
	Sort() (SortKey, SortDirection)
	Create(ctx context.Context, draft models.EmployeeDraft) error
	Update(ctx context.Context, id int64, patch models.EmployeePatch) error
	Delete(ctx context.Context, id int64) error
	Employees() []models.Employee
	Page() []models.Employee
	PageIndex() int
	PageCount() int
	NextPage()
	PrevPage()
}

type employeeService struct {
	client   api.Client
	log      logging.Logger
	pageSize int

	mu        sync.Mutex
	filter    models.EmployeeFilter
	sortKey   SortKey
	sortDir   SortDirection
	pageIndex int
	employees []models.Employee

	issued    uint64 // sequence of the most recently issued list request
	committed uint64 // sequence of the last response applied to state
}

// NewEmployeeService constructs an EmployeeService with the default page size.
func NewEmployeeService(client api.Client, log logging.Logger) EmployeeService {
	return NewEmployeeServiceWithPageSize(client, DefaultPageSize, log)
}

// NewEmployeeServiceWithPageSize is NewEmployeeService with an explicit page
// size, which must be positive.
func NewEmployeeServiceWithPageSize(client api.Client, pageSize int, log logging.Logger) EmployeeService {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &employeeService{
		client:    client,
		log:       log,
		pageSize:  pageSize,
		sortKey:   SortByName,
		sortDir:   SortAsc,
		pageIndex: 1,
	}
}

// Load fetches the collection with the current filters and replaces the
// in-memory state, unless a newer request was issued while this one was in
// flight — then the response is discarded and the collection left alone.
func (s *employeeService) Load(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	filter := s.filter
	s.mu.Unlock()

	list, err := s.client.ListEmployees(ctx, filter)
	if err != nil {
		return fmt.Errorf("loading employees: %w", err)
	}

	if err := s.commit(seq, list); err != nil {
		s.log.Debug(ctx, "discarding superseded employee list", "seq", seq)
		return nil
	}
	return nil
}

// commit applies a fetched collection unless it has been superseded.
func (s *employeeService) commit(seq uint64, list []models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.issued || seq <= s.committed {
		return api.ErrStaleResponse
	}
	s.committed = seq
	s.employees = list
	s.sortLocked()
	s.clampPageLocked()
	return nil
}

func (s *employeeService) SetNameFilter(ctx context.Context, name string) error {
	s.mu.Lock()
	s.filter.Name = name
	s.mu.Unlock()
	return s.Load(ctx)
}

func (s *employeeService) SetEmailFilter(ctx context.Context, email string) error {
	s.mu.Lock()
	s.filter.Email = email
	s.mu.Unlock()
	return s.Load(ctx)
}

// SetRoleFilter narrows the list to one role; an empty role clears the
// predicate again.
func (s *employeeService) SetRoleFilter(ctx context.Context, role models.Role) error {
	if role != "" && !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	s.mu.Lock()
	s.filter.Role = role
	s.mu.Unlock()
	return s.Load(ctx)
}

func (s *employeeService) Filter() models.EmployeeFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetSort re-sorts the already-fetched collection; no re-fetch. Selecting the
// active key flips the direction, a new key starts ascending.
func (s *employeeService) SetSort(key SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key == s.sortKey {
		if s.sortDir == SortAsc {
			s.sortDir = SortDesc
		} else {
			s.sortDir = SortAsc
		}
	} else {
		s.sortKey = key
		s.sortDir = SortAsc
	}
	s.sortLocked()
}

func (s *employeeService) Sort() (SortKey, SortDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortKey, s.sortDir
}

// Create submits the draft and, on success, reloads the collection with the
// current filters so pagination and sort stay consistent with server state.
// On failure the collection is untouched.
func (s *employeeService) Create(ctx context.Context, draft models.EmployeeDraft) error {
	if err := s.client.CreateEmployee(ctx, draft); err != nil {
		return fmt.Errorf("creating employee: %w", err)
	}
	s.log.Info(ctx, "employee created", "email", draft.Email)
	return s.Load(ctx)
}

// Update sends the patch (an empty patch is still sent; the server treats it
// as a no-op) and applies the server's post-update representation, not the
// local draft. When the server answers without a body, the collection is
// re-fetched instead.
func (s *employeeService) Update(ctx context.Context, id int64, patch models.EmployeePatch) error {
	updated, err := s.client.UpdateEmployee(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("updating employee %d: %w", id, err)
	}
	s.log.Info(ctx, "employee updated", "id", id)

	if updated == nil {
		return s.Load(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID == id {
			s.employees[i] = *updated
			break
		}
	}
	s.sortLocked()
	s.clampPageLocked()
	return nil
}

// Delete removes the record from the in-memory collection only after the
// server confirmed, then clamps the page index in case the deletion emptied
// the current page.
func (s *employeeService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("deleting employee %d: %w", id, err)
	}
	s.log.Info(ctx, "employee deleted", "id", id)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID == id {
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			break
		}
	}
	s.clampPageLocked()
	return nil
}

// Employees returns a copy of the full sorted collection.
func (s *employeeService) Employees() []models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Employee, len(s.employees))
	copy(out, s.employees)
	return out
}

// Page returns a copy of the current page of the sorted collection.
func (s *employeeService) Page() []models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := (s.pageIndex - 1) * s.pageSize
	if start >= len(s.employees) {
		return nil
	}
	end := start + s.pageSize
	if end > len(s.employees) {
		end = len(s.employees)
	}
	out := make([]models.Employee, end-start)
	copy(out, s.employees[start:end])
	return out
}

func (s *employeeService) PageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageIndex
}

// PageCount is ceil(len(collection)/pageSize); zero for an empty collection.
func (s *employeeService) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageCountLocked()
}

func (s *employeeService) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageIndex++
	s.clampPageLocked()
}

func (s *employeeService) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageIndex--
	s.clampPageLocked()
}

func (s *employeeService) pageCountLocked() int {
	return (len(s.employees) + s.pageSize - 1) / s.pageSize
}

// clampPageLocked keeps pageIndex within [1, max(pageCount,1)].
func (s *employeeService) clampPageLocked() {
	max := s.pageCountLocked()
	if max < 1 {
		max = 1
	}
	if s.pageIndex > max {
		s.pageIndex = max
	}
	if s.pageIndex < 1 {
		s.pageIndex = 1
	}
}

func (s *employeeService) sortLocked() {
	key, dir := s.sortKey, s.sortDir
	sort.SliceStable(s.employees, func(i, j int) bool {
		var cmp int
		switch key {
		case SortByEmail:
			cmp = strings.Compare(s.employees[i].Email, s.employees[j].Email)
		default:
			cmp = strings.Compare(s.employees[i].Name, s.employees[j].Name)
		}
		if dir == SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}

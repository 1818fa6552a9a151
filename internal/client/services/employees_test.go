package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/staffdir/internal/client/api"
	"github.com/dmitrijs2005/staffdir/internal/client/models"
)

func emp(id int64, name, email string, role models.Role) models.Employee {
	return models.Employee{ID: id, Name: name, Email: email, Role: role}
}

func TestLoad_ReplacesCollection(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{
		emp(2, "Bob", "bob@x.com", models.RoleEngineer),
		emp(1, "Ann", "ann@x.com", models.RoleAdmin),
	}}
	s := NewEmployeeService(fake, testLogger())

	require.NoError(t, s.Load(context.Background()))

	got := s.Employees()
	require.Len(t, got, 2)
	// default sort is by name ascending
	require.Equal(t, "Ann", got[0].Name)
	require.Equal(t, "Bob", got[1].Name)
	require.Equal(t, 1, s.PageCount())
	require.Equal(t, 1, s.PageIndex())
}

func TestLoad_FailureLeavesCollectionUntouched(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{emp(1, "Ann", "ann@x.com", models.RoleAdmin)}}
	s := NewEmployeeService(fake, testLogger())
	require.NoError(t, s.Load(context.Background()))

	fake.mu.Lock()
	fake.ListErr = &api.RequestError{Status: 500, Message: "boom"}
	fake.ListRet = nil
	fake.mu.Unlock()

	err := s.Load(context.Background())
	require.ErrorIs(t, err, api.ErrRequestFailed)
	require.Len(t, s.Employees(), 1)
}

func TestRoleFilter_PassedToServer(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{emp(1, "Ann", "ann@x.com", models.RoleAdmin)}}
	s := NewEmployeeService(fake, testLogger())

	require.NoError(t, s.SetRoleFilter(context.Background(), models.RoleAdmin))

	require.Equal(t, models.EmployeeFilter{Role: models.RoleAdmin}, fake.LastFilter)
	require.Len(t, s.Employees(), 1)
	require.Equal(t, 1, s.PageCount())
}

func TestSetRoleFilter_RejectsUnknownRole(t *testing.T) {
	fake := &fakeClient{}
	s := NewEmployeeService(fake, testLogger())

	require.Error(t, s.SetRoleFilter(context.Background(), models.Role("BOSS")))
	require.Equal(t, 0, fake.ListCalls)
}

func TestSetSort_FlipAndReset(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{
		emp(1, "Ann", "zz@x.com", models.RoleAdmin),
		emp(2, "Bob", "aa@x.com", models.RoleIntern),
	}}
	s := NewEmployeeService(fake, testLogger())
	require.NoError(t, s.Load(context.Background()))
	listCallsAfterLoad := fake.ListCalls

	// same key flips direction
	s.SetSort(SortByName)
	key, dir := s.Sort()
	require.Equal(t, SortByName, key)
	require.Equal(t, SortDesc, dir)
	require.Equal(t, "Bob", s.Employees()[0].Name)

	// new key resets to ascending
	s.SetSort(SortByEmail)
	key, dir = s.Sort()
	require.Equal(t, SortByEmail, key)
	require.Equal(t, SortAsc, dir)
	require.Equal(t, "aa@x.com", s.Employees()[0].Email)

	// sorting never re-fetches
	require.Equal(t, listCallsAfterLoad, fake.ListCalls)
}

func TestSort_IsStable(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{
		emp(1, "Ann", "first@x.com", models.RoleAdmin),
		emp(2, "Ann", "second@x.com", models.RoleIntern),
		emp(3, "Ann", "third@x.com", models.RoleEngineer),
	}}
	s := NewEmployeeService(fake, testLogger())
	require.NoError(t, s.Load(context.Background()))

	// equal names keep their prior relative order through repeated sorts
	s.SetSort(SortByName)
	s.SetSort(SortByName)
	got := s.Employees()
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, int64(2), got[1].ID)
	require.Equal(t, int64(3), got[2].ID)
}

func TestLoad_StaleResponseDiscarded(t *testing.T) {
	listA := []models.Employee{emp(1, "Old", "old@x.com", models.RoleIntern)}
	listB := []models.Employee{emp(2, "New", "new@x.com", models.RoleAdmin)}

	aStarted := make(chan struct{})
	aRelease := make(chan struct{})

	var calls int32
	fake := &fakeClient{}
	fake.ListFn = func(ctx context.Context, f models.EmployeeFilter) ([]models.Employee, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(aStarted)
			<-aRelease
			return listA, nil
		}
		return listB, nil
	}
	s := NewEmployeeService(fake, testLogger())

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()

	<-aStarted
	// request B supersedes A while A is still in flight
	require.NoError(t, s.Load(context.Background()))

	close(aRelease)
	require.NoError(t, <-done)

	got := s.Employees()
	require.Len(t, got, 1)
	require.Equal(t, "New", got[0].Name)
}

func TestCreate_TriggersReload(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{emp(1, "Ann", "ann@x.com", models.RoleAdmin)}}
	s := NewEmployeeService(fake, testLogger())

	draft := models.EmployeeDraft{Name: "Ann", Email: "ann@x.com", Role: models.RoleAdmin}
	require.NoError(t, s.Create(context.Background(), draft))

	require.Equal(t, 1, fake.CreateCalls)
	require.Equal(t, draft, fake.LastDraft)
	require.Equal(t, 1, fake.ListCalls)
	require.Len(t, s.Employees(), 1)
}

func TestCreate_FailureLeavesCollectionUntouched(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{emp(1, "Ann", "ann@x.com", models.RoleAdmin)}}
	s := NewEmployeeService(fake, testLogger())
	require.NoError(t, s.Load(context.Background()))

	fake.mu.Lock()
	fake.CreateErr = &api.RequestError{Status: 400, Message: "bad draft"}
	fake.mu.Unlock()

	err := s.Create(context.Background(), models.EmployeeDraft{})
	require.ErrorIs(t, err, api.ErrRequestFailed)
	require.Equal(t, 1, fake.ListCalls, "no reload after a failed create")
	require.Len(t, s.Employees(), 1)
}

func TestUpdate_AppliesServerRepresentation(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{
		emp(1, "Ann", "ann@x.com", models.RoleAdmin),
		emp(2, "Bob", "bob@x.com", models.RoleIntern),
	}}
	s := NewEmployeeService(fake, testLogger())
	require.NoError(t, s.Load(context.Background()))

	// the server's representation wins, not the local draft
	updated := emp(2, "Robert", "bob@x.com", models.RoleEngineer)
	fake.mu.Lock()
	fake.UpdateRet = &updated
	fake.mu.Unlock()

	name := "ignored-local-draft"
	require.NoError(t, s.Update(context.Background(), 2, models.EmployeePatch{Name: &name}))

	got := s.Employees()
	require.Len(t, got, 2)
	require.Equal(t, "Robert", got[1].Name)
	require.Equal(t, models.RoleEngineer, got[1].Role)
	require.Equal(t, 1, fake.ListCalls, "no reload when the server returned the record")
}

func TestUpdate_NoBodyRefetches(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{emp(1, "Ann", "ann@x.com", models.RoleAdmin)}}
	s := NewEmployeeService(fake, testLogger())
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Update(context.Background(), 1, models.EmployeePatch{}))
	require.Equal(t, 2, fake.ListCalls)
}

func TestUpdate_EmptyPatchIsIdempotent(t *testing.T) {
	orig := emp(1, "Ann", "ann@x.com", models.RoleAdmin)
	fake := &fakeClient{ListRet: []models.Employee{orig}}
	s := NewEmployeeService(fake, testLogger())
	require.NoError(t, s.Load(context.Background()))

	fake.mu.Lock()
	fake.UpdateRet = &orig
	fake.mu.Unlock()

	require.NoError(t, s.Update(context.Background(), 1, models.EmployeePatch{}))
	require.NoError(t, s.Update(context.Background(), 1, models.EmployeePatch{}))

	require.Equal(t, 2, fake.UpdateCalls, "an empty patch is still sent")
	require.True(t, fake.LastPatch.Empty())
	require.Equal(t, []models.Employee{orig}, s.Employees())
}

func TestUpdate_FailureKeepsPriorRecord(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{emp(1, "Ann", "ann@x.com", models.RoleAdmin)}}
	s := NewEmployeeService(fake, testLogger())
	require.NoError(t, s.Load(context.Background()))

	fake.mu.Lock()
	fake.UpdateErr = &api.RequestError{Status: 500, Message: "boom"}
	fake.mu.Unlock()

	name := "Nope"
	err := s.Update(context.Background(), 1, models.EmployeePatch{Name: &name})
	require.ErrorIs(t, err, api.ErrRequestFailed)
	require.Equal(t, "Ann", s.Employees()[0].Name)
}

func TestDelete_RemovesAfterConfirmation(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{
		emp(1, "Ann", "ann@x.com", models.RoleAdmin),
		emp(2, "Bob", "bob@x.com", models.RoleIntern),
	}}
	s := NewEmployeeService(fake, testLogger())
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Delete(context.Background(), 1))

	got := s.Employees()
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].ID)
	require.Equal(t, int64(1), fake.LastDeleteID)
}

func TestDelete_FailureKeepsRecord(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{emp(1, "Ann", "ann@x.com", models.RoleAdmin)}}
	s := NewEmployeeService(fake, testLogger())
	require.NoError(t, s.Load(context.Background()))

	fake.mu.Lock()
	fake.DeleteErr = errors.New("connection refused")
	fake.mu.Unlock()

	require.Error(t, s.Delete(context.Background(), 1))
	require.Len(t, s.Employees(), 1)
}

func TestDelete_ClampsPageIndexWhenLastPageEmpties(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{
		emp(1, "Ann", "ann@x.com", models.RoleAdmin),
		emp(2, "Bob", "bob@x.com", models.RoleIntern),
		emp(3, "Cid", "cid@x.com", models.RoleEngineer),
	}}
	s := NewEmployeeServiceWithPageSize(fake, 2, testLogger())
	require.NoError(t, s.Load(context.Background()))
	require.Equal(t, 2, s.PageCount())

	s.NextPage()
	require.Equal(t, 2, s.PageIndex())
	require.Len(t, s.Page(), 1)

	// deleting the sole item of the last page drops pageCount and clamps pageIndex
	require.NoError(t, s.Delete(context.Background(), 3))
	require.Equal(t, 1, s.PageCount())
	require.Equal(t, 1, s.PageIndex())
	require.Len(t, s.Page(), 2)
}

func TestPagination(t *testing.T) {
	fake := &fakeClient{ListRet: []models.Employee{
		emp(1, "Ann", "ann@x.com", models.RoleAdmin),
		emp(2, "Bob", "bob@x.com", models.RoleIntern),
		emp(3, "Cid", "cid@x.com", models.RoleEngineer),
		emp(4, "Dee", "dee@x.com", models.RoleIntern),
		emp(5, "Eva", "eva@x.com", models.RoleAdmin),
	}}
	s := NewEmployeeServiceWithPageSize(fake, 2, testLogger())
	require.NoError(t, s.Load(context.Background()))

	require.Equal(t, 3, s.PageCount())
	require.Equal(t, []string{"Ann", "Bob"}, pageNames(s))

	s.NextPage()
	require.Equal(t, []string{"Cid", "Dee"}, pageNames(s))

	s.NextPage()
	require.Equal(t, []string{"Eva"}, pageNames(s))

	// clamped at the last page
	s.NextPage()
	require.Equal(t, 3, s.PageIndex())

	s.PrevPage()
	s.PrevPage()
	s.PrevPage()
	// clamped at the first page
	require.Equal(t, 1, s.PageIndex())
}

func TestPage_EmptyCollection(t *testing.T) {
	s := NewEmployeeService(&fakeClient{}, testLogger())
	require.NoError(t, s.Load(context.Background()))

	require.Empty(t, s.Page())
	require.Equal(t, 0, s.PageCount())
	require.Equal(t, 1, s.PageIndex())
}

func pageNames(s EmployeeService) []string {
	page := s.Page()
	names := make([]string, 0, len(page))
	for _, e := range page {
		names = append(names, e.Name)
	}
	return names
}

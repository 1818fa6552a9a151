package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/client/services"
)

// List reloads the employee collection with the active filters and renders
// the current page.
func (a *App) List(ctx context.Context) error {
	if err := a.employees.Load(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not load employees: %v\n", err)
		return err
	}
	a.renderPage()
	return nil
}

// Filter sets one of the server-side filters and reloads. An omitted value
// clears the filter for that field.
//
// Usage: filter name|email|role [value]
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: filter name|email|role [value]")
		return nil
	}
	field := args[0]
	value := strings.Join(args[1:], " ")

	var err error
	switch field {
	case "name":
		err = a.employees.SetNameFilter(ctx, value)
	case "email":
		err = a.employees.SetEmailFilter(ctx, value)
	case "role":
		err = a.employees.SetRoleFilter(ctx, models.Role(strings.ToUpper(value)))
	default:
		fmt.Fprintf(a.out, "Unknown filter field %q (expected name, email or role)\n", field)
		return nil
	}
	if err != nil {
		fmt.Fprintf(a.out, "Could not apply filter: %v\n", err)
		return err
	}
	a.renderPage()
	return nil
}

// Sort orders the already-fetched list by the given column. Sorting by the
// active column flips the direction; the list is not re-fetched.
//
// Usage: sort name|email
func (a *App) Sort(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: sort name|email")
		return nil
	}
	switch args[0] {
	case "name":
		a.employees.SetSort(services.SortByName)
	case "email":
		a.employees.SetSort(services.SortByEmail)
	default:
		fmt.Fprintf(a.out, "Unknown sort column %q (expected name or email)\n", args[0])
		return nil
	}
	a.renderPage()
	return nil
}

func (a *App) NextPage(ctx context.Context) error {
	a.employees.NextPage()
	a.renderPage()
	return nil
}

func (a *App) PrevPage(ctx context.Context) error {
	a.employees.PrevPage()
	a.renderPage()
	return nil
}

// Create prompts for a new employee draft and submits it. On success the
// list is reloaded by the service, so the fresh record shows up under the
// active filters and sort.
func (a *App) Create(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	roleText, err := getSimpleText(a.reader, "Enter role (INTERN, ADMIN or ENGINEER)", a.out)
	if err != nil {
		return err
	}
	role, err := models.ParseRole(roleText)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	draft := models.EmployeeDraft{Name: name, Email: email, Role: role}
	if err := a.employees.Create(ctx, draft); err != nil {
		fmt.Fprintf(a.out, "Could not create employee: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Employee %q created.\n", name)
	a.renderPage()
	return nil
}

// Edit updates an employee. Fields left empty keep their current value; an
// edit where every prompt is left empty still issues the (no-op) request.
//
// Usage: edit <id>
func (a *App) Edit(ctx context.Context, args []string) error {
	id, ok := a.parseID(args, "edit")
	if !ok {
		return nil
	}

	var patch models.EmployeePatch

	name, err := getSimpleText(a.reader, "New name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if name != "" {
		patch.Name = &name
	}

	email, err := getSimpleText(a.reader, "New email (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if email != "" {
		patch.Email = &email
	}

	roleText, err := getSimpleText(a.reader, "New role (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if roleText != "" {
		role, err := models.ParseRole(roleText)
		if err != nil {
			fmt.Fprintln(a.out, err.Error())
			return err
		}
		patch.Role = &role
	}

	if err := a.employees.Update(ctx, id, patch); err != nil {
		fmt.Fprintf(a.out, "Could not update employee: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Employee %d updated.\n", id)
	a.renderPage()
	return nil
}

// Delete removes an employee after an explicit confirmation. The record
// disappears from the list only once the server has confirmed.
//
// Usage: delete <id>
func (a *App) Delete(ctx context.Context, args []string) error {
	id, ok := a.parseID(args, "delete")
	if !ok {
		return nil
	}

	confirmed, err := GetConfirmation(a.reader, fmt.Sprintf("Delete employee %d?", id), a.out)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.employees.Delete(ctx, id); err != nil {
		fmt.Fprintf(a.out, "Could not delete employee: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Employee %d deleted.\n", id)
	a.renderPage()
	return nil
}

func (a *App) parseID(args []string, cmd string) (int64, bool) {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Usage: %s <id>\n", cmd)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid employee id %q\n", args[0])
		return 0, false
	}
	return id, true
}

// renderPage prints the current page of the collection as an aligned table
// with a page footer.
func (a *App) renderPage() {
	page := a.employees.Page()
	if len(page) == 0 {
		fmt.Fprintln(a.out, "No employees found.")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tEMAIL")
	for _, e := range page {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Name, e.Role, e.Email)
	}
	w.Flush()

	pageCount := a.employees.PageCount()
	if pageCount < 1 {
		pageCount = 1
	}
	total := len(a.employees.Employees())
	fmt.Fprintf(a.out, "page %d/%d (%d employees)\n", a.employees.PageIndex(), pageCount, total)
}

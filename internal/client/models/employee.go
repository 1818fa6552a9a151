// Package models defines the wire and in-memory types shared by the staffdir
// client: directory records, session state, and the filter/draft/patch
// payloads used by the employee CRUD operations.
package models

import "time"

// Employee is a single directory record. ID is assigned by the server and
// never changes. Password is write-only: it may be present on a create or
// update payload but is never populated from a read.
type Employee struct {
	ID        int64     `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Role      Role      `json:"role" validate:"required,oneof=INTERN ADMIN ENGINEER"`
	Password  string    `json:"password,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// EmployeeFilter holds the server-side list filters. Empty fields are
// omitted from the query string entirely rather than sent as empty values.
type EmployeeFilter struct {
	Name  string `url:"name,omitempty"`
	Email string `url:"email,omitempty"`
	Role  Role   `url:"role,omitempty"`
}

// Empty reports whether no filter is active.
func (f EmployeeFilter) Empty() bool {
	return f.Name == "" && f.Email == "" && f.Role == ""
}

// EmployeeDraft is an uncommitted set of field values for the create
// operation. The server assigns the ID.
type EmployeeDraft struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role" validate:"required,oneof=INTERN ADMIN ENGINEER"`
}

// EmployeePatch carries a partial update. Only fields that are set are
// marshalled; an empty patch still produces a valid (no-op) request body.
type EmployeePatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p EmployeePatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Role == nil && p.Password == nil
}

package employee

import (
	"fmt"
	"maps"
)

// IDPrefix and IDDigits define the EMP001 style identifier.
const (
	IDPrefix = "EMP"
	IDDigits = 3
)

// Employee is the record shared by the directory and the authenticated session.
// Role, Phone, HireDate, Salary and Extra are opaque to the directory and pass through untouched.
type Employee struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Department string         `json:"department"`
	Status     string         `json:"status"`
	Role       string         `json:"role,omitempty"`
	Phone      string         `json:"phone,omitempty"`
	HireDate   string         `json:"hireDate,omitempty"`
	Salary     float64        `json:"salary,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Clone returns a copy that shares no mutable state with e.
func (e Employee) Clone() Employee {
	if e.Extra != nil {
		e.Extra = maps.Clone(e.Extra)
	}
	return e
}

// EmployeePatch is a field level partial update. Nil fields are left as they are.
type EmployeePatch struct {
	Name       *string        `json:"name,omitempty"`
	Email      *string        `json:"email,omitempty"`
	Department *string        `json:"department,omitempty"`
	Status     *string        `json:"status,omitempty"`
	Role       *string        `json:"role,omitempty"`
	Phone      *string        `json:"phone,omitempty"`
	HireDate   *string        `json:"hireDate,omitempty"`
	Salary     *float64       `json:"salary,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Apply returns the shallow merge of p over e. The id is never patched.
func (p EmployeePatch) Apply(e Employee) Employee {
	out := e.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Department != nil {
		out.Department = *p.Department
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Role != nil {
		out.Role = *p.Role
	}
	if p.Phone != nil {
		out.Phone = *p.Phone
	}
	if p.HireDate != nil {
		out.HireDate = *p.HireDate
	}
	if p.Salary != nil {
		out.Salary = *p.Salary
	}
	if len(p.Extra) > 0 {
		if out.Extra == nil {
			out.Extra = make(map[string]any, len(p.Extra))
		}
		maps.Copy(out.Extra, p.Extra)
	}
	return out
}

// IsEmpty reports whether applying p would change nothing.
func (p EmployeePatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Department == nil && p.Status == nil &&
		p.Role == nil && p.Phone == nil && p.HireDate == nil && p.Salary == nil && len(p.Extra) == 0
}

// FormatID renders an ordinal as EMP + zero padded digits, e.g. 7 -> EMP007.
func FormatID(ordinal int) string {
	return fmt.Sprintf("%s%0*d", IDPrefix, IDDigits, ordinal)
}

// Generator seeds the directory. It is consulted exactly once, when the store is built.
type Generator interface {
	GenerateInitialEmployees() []Employee
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func() []Employee

func (f GeneratorFunc) GenerateInitialEmployees() []Employee {
	return f()
}

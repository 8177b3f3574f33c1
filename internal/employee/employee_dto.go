package employee

type CreateEmployeeRequest struct {
	Name       string         `json:"name" binding:"required"`
	Email      string         `json:"email" binding:"required,email"`
	Department string         `json:"department" binding:"required"`
	Status     string         `json:"status" binding:"required"`
	Role       string         `json:"role"`
	Phone      string         `json:"phone"`
	HireDate   string         `json:"hireDate" binding:"omitempty,datetime=2006-01-02"`
	Salary     float64        `json:"salary" binding:"gte=0"`
	Extra      map[string]any `json:"extra"`
}

func (r CreateEmployeeRequest) toEmployee() Employee {
	return Employee{
		Name:       r.Name,
		Email:      r.Email,
		Department: r.Department,
		Status:     r.Status,
		Role:       r.Role,
		Phone:      r.Phone,
		HireDate:   r.HireDate,
		Salary:     r.Salary,
		Extra:      r.Extra,
	}
}

// UpdateEmployeeRequest is a partial update; omitted fields keep their value.
type UpdateEmployeeRequest struct {
	Name       *string        `json:"name" binding:"omitempty,min=1"`
	Email      *string        `json:"email" binding:"omitempty,email"`
	Department *string        `json:"department"`
	Status     *string        `json:"status"`
	Role       *string        `json:"role"`
	Phone      *string        `json:"phone"`
	HireDate   *string        `json:"hireDate" binding:"omitempty,datetime=2006-01-02"`
	Salary     *float64       `json:"salary" binding:"omitempty,gte=0"`
	Extra      map[string]any `json:"extra"`
}

func (r UpdateEmployeeRequest) toPatch() EmployeePatch {
	return EmployeePatch{
		Name:       r.Name,
		Email:      r.Email,
		Department: r.Department,
		Status:     r.Status,
		Role:       r.Role,
		Phone:      r.Phone,
		HireDate:   r.HireDate,
		Salary:     r.Salary,
		Extra:      r.Extra,
	}
}

type ListEmployeesQuery struct {
	Search     string `form:"q"`
	Department string `form:"department"`
	Status     string `form:"status"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

func (q ListEmployeesQuery) Criteria() Criteria {
	return Criteria{Search: q.Search, Department: q.Department, Status: q.Status}
}

type ListEmployeesResponse struct {
	Employees []Employee `json:"employees"`
	Facets    FacetSet   `json:"facets"`
	Criteria  Criteria   `json:"criteria"`
	Total     int        `json:"total"`
	Version   uint64     `json:"version"`
}

type MutationResponse struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

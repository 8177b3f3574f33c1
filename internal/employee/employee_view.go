package employee

import (
	"strings"
	"sync"
)

// Criteria narrows the directory. An empty field places no restriction.
type Criteria struct {
	Search     string `json:"search"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

// Matches applies the directory filter: the search term is a case-insensitive
// substring of name, email or id; department and status must match exactly.
func (c Criteria) Matches(e Employee) bool {
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(e.Name), term) &&
			!strings.Contains(strings.ToLower(e.Email), term) &&
			!strings.Contains(strings.ToLower(e.ID), term) {
			return false
		}
	}
	if c.Department != "" && e.Department != c.Department {
		return false
	}
	if c.Status != "" && e.Status != c.Status {
		return false
	}
	return true
}

// Filter returns the records matching c, in collection order.
func Filter(records []Employee, c Criteria) []Employee {
	out := make([]Employee, 0, len(records))
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// FacetSet holds the distinct department and status values of a collection.
type FacetSet struct {
	Departments []string `json:"departments"`
	Statuses    []string `json:"statuses"`
}

// Facets collects distinct values in first-seen order. It is always computed
// over the whole collection so filter options do not depend on the active filter.
func Facets(records []Employee) FacetSet {
	fs := FacetSet{Departments: []string{}, Statuses: []string{}}
	seenDept := make(map[string]struct{})
	seenStatus := make(map[string]struct{})
	for _, r := range records {
		if _, ok := seenDept[r.Department]; !ok {
			seenDept[r.Department] = struct{}{}
			fs.Departments = append(fs.Departments, r.Department)
		}
		if _, ok := seenStatus[r.Status]; !ok {
			seenStatus[r.Status] = struct{}{}
			fs.Statuses = append(fs.Statuses, r.Status)
		}
	}
	return fs
}

// Paginate slices records for page (1-based). Out of range pages are empty.
func Paginate(records []Employee, page, pageSize int) []Employee {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return records
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []Employee{}
	}
	end := min(start+pageSize, len(records))
	return records[start:end]
}

// Result is one computed view of the directory.
type Result struct {
	Version   uint64     `json:"version"`
	Criteria  Criteria   `json:"criteria"`
	Employees []Employee `json:"employees"`
	Facets    FacetSet   `json:"facets"`
}

func (r Result) clone() Result {
	out := r
	out.Employees = make([]Employee, len(r.Employees))
	for i, e := range r.Employees {
		out.Employees[i] = e.Clone()
	}
	out.Facets = FacetSet{
		Departments: append([]string{}, r.Facets.Departments...),
		Statuses:    append([]string{}, r.Facets.Statuses...),
	}
	return out
}

// View derives the filtered subset and facets from a Store. The computed
// Result is memoized per (snapshot version, criteria) and rebuilt in full when
// either changes.
type View struct {
	store *Store

	mu       sync.Mutex
	criteria Criteria
	cached   *Result
}

func NewView(store *Store) *View {
	return &View{store: store}
}

func (v *View) Criteria() Criteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.criteria
}

func (v *View) SetCriteria(c Criteria) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria = c
}

func (v *View) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.Search = term
}

func (v *View) SetDepartment(department string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.Department = department
}

func (v *View) SetStatus(status string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.Status = status
}

// Result reads the current store snapshot, so it always reflects the latest
// completed mutation.
func (v *View) Result() Result {
	snap := v.store.Snapshot()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cached == nil || v.cached.Version != snap.Version() || v.cached.Criteria != v.criteria {
		res := Compute(snap, v.criteria)
		v.cached = &res
	}
	return v.cached.clone()
}

func (v *View) Employees() []Employee {
	return v.Result().Employees
}

func (v *View) Facets() FacetSet {
	return v.Result().Facets
}

// Compute is the pure projection of (snapshot, criteria).
func Compute(snap Snapshot, c Criteria) Result {
	return Result{
		Version:   snap.Version(),
		Criteria:  c,
		Employees: Filter(snap.records, c),
		Facets:    Facets(snap.records),
	}
}

package stubapi

import (
	"cmp"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"go-hris-admin/internal/department"
	"go-hris-admin/internal/employee"
	"go-hris-admin/internal/search"
	"go-hris-admin/internal/shared/apperror"

	departmenterrors "go-hris-admin/internal/department/errors"
	employeeerrors "go-hris-admin/internal/employee/errors"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	TimestampLayout = "2006-01-02 15:04:05"
	MaxPageSize     = 100
)

var (
	ErrInvalidSearch = apperror.New(
		apperror.CodeInvalidInput,
		"Page must not be negative and size must be between 1 and 100",
		http.StatusBadRequest,
	)
	ErrInvalidSortField = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid sort field",
		http.StatusBadRequest,
	)
)

type storedImage struct {
	ContentType string
	Content     []byte
}

// Store keeps departments, employees and uploaded images in memory.
// Deleting a record only clears its active flag.
type Store struct {
	mu          sync.RWMutex
	departments map[int64]department.Department
	employees   map[int64]employee.Employee
	images      map[string]storedImage
	lastDeptID  int64
	lastEmpID   int64
	now         func() time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		departments: make(map[int64]department.Department),
		employees:   make(map[int64]employee.Employee),
		images:      make(map[string]storedImage),
		now:         now,
	}
}

func (s *Store) stamp() string {
	return s.now().Format(TimestampLayout)
}

// --- departments ---

func (s *Store) Departments(activeOnly bool) []department.Department {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]department.Department, 0, len(s.departments))
	for _, d := range s.departments {
		if !activeOnly || d.IsActive {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b department.Department) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// SearchDepartments filters with case-insensitive substring matches. A nil
// isActive filter means active records only.
func (s *Store) SearchDepartments(c department.Criteria) ([]department.Department, int64, error) {
	if err := checkPage(c.Page); err != nil {
		return nil, 0, err
	}
	coll := collate.New(language.English, collate.IgnoreCase)
	less, ok := departmentOrder(coll)[c.SortBy]
	if !ok {
		return nil, 0, ErrInvalidSortField
	}

	f := c.Filters
	wantActive := f.IsActive == nil || *f.IsActive
	s.mu.RLock()
	matched := make([]department.Department, 0)
	for _, d := range s.departments {
		if d.IsActive != wantActive ||
			!contains(d.Code, f.Code) ||
			!contains(d.Name, f.Name) ||
			!contains(d.Description, f.Description) {
			continue
		}
		matched = append(matched, d)
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b department.Department) int {
		return direct(c.SortDirection, cmp.Or(less(a, b), cmp.Compare(a.ID, b.ID)))
	})
	return pageOf(matched, c.Page), int64(len(matched)), nil
}

func (s *Store) CreateDepartment(d department.Department) (department.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.departmentExistsLocked(d.Code, d.Name, 0); err != nil {
		return department.Department{}, err
	}
	s.lastDeptID++
	d.ID = s.lastDeptID
	d.CreatedAt = s.stamp()
	d.UpdatedAt = d.CreatedAt
	s.departments[d.ID] = d
	return d, nil
}

func (s *Store) UpdateDepartment(id int64, d department.Department) (department.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.departments[id]
	if !ok || !existing.IsActive {
		return department.Department{}, departmenterrors.ErrDepartmentNotFound
	}
	if err := s.departmentExistsLocked(d.Code, d.Name, id); err != nil {
		return department.Department{}, err
	}
	existing.Code = d.Code
	existing.Name = d.Name
	existing.Description = d.Description
	existing.IsActive = d.IsActive
	existing.UpdatedAt = s.stamp()
	s.departments[id] = existing
	return existing, nil
}

func (s *Store) DeleteDepartment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.departments[id]
	if !ok || !d.IsActive {
		return departmenterrors.ErrDepartmentNotFound
	}
	d.IsActive = false
	d.UpdatedAt = s.stamp()
	s.departments[id] = d
	return nil
}

func (s *Store) RestoreDepartment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.departments[id]
	if !ok {
		return departmenterrors.ErrDepartmentNotFound
	}
	if d.IsActive {
		return departmenterrors.ErrAlreadyActive
	}
	d.IsActive = true
	d.UpdatedAt = s.stamp()
	s.departments[id] = d
	return nil
}

func (s *Store) DepartmentCodeExists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.departments {
		if d.Code == code {
			return true
		}
	}
	return false
}

func (s *Store) DepartmentNameExists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.departments {
		if d.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) departmentExistsLocked(code, name string, exceptID int64) error {
	for id, d := range s.departments {
		if id == exceptID {
			continue
		}
		if d.Code == code {
			return departmenterrors.ErrCodeExists
		}
		if d.Name == name {
			return departmenterrors.ErrNameExists
		}
	}
	return nil
}

// --- employees ---

func (s *Store) Employees(activeOnly bool) []employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]employee.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		if !activeOnly || e.IsActive {
			out = append(out, s.withDepartmentLocked(e))
		}
	}
	slices.SortFunc(out, func(a, b employee.Employee) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *Store) SearchEmployees(c employee.Criteria) ([]employee.Employee, int64, error) {
	if err := checkPage(c.Page); err != nil {
		return nil, 0, err
	}
	coll := collate.New(language.English, collate.IgnoreCase)
	less, ok := employeeOrder(coll)[c.SortBy]
	if !ok {
		return nil, 0, ErrInvalidSortField
	}

	f := c.Filters
	wantActive := f.IsActive == nil || *f.IsActive
	s.mu.RLock()
	matched := make([]employee.Employee, 0)
	for _, e := range s.employees {
		if e.IsActive != wantActive ||
			!contains(e.Code, f.Code) ||
			!contains(e.Name, f.Name) ||
			!contains(e.Mobile, f.Mobile) ||
			(f.DepartmentID != nil && e.DepartmentID != *f.DepartmentID) ||
			(f.MinSalary != nil && e.Salary.LessThan(*f.MinSalary)) ||
			(f.MaxSalary != nil && e.Salary.GreaterThan(*f.MaxSalary)) {
			continue
		}
		matched = append(matched, s.withDepartmentLocked(e))
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b employee.Employee) int {
		return direct(c.SortDirection, cmp.Or(less(a, b), cmp.Compare(a.ID, b.ID)))
	})
	return pageOf(matched, c.Page), int64(len(matched)), nil
}

func (s *Store) CreateEmployee(e employee.Employee) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEmployeeLocked(e, 0); err != nil {
		return employee.Employee{}, err
	}
	s.lastEmpID++
	e.ID = s.lastEmpID
	e.ImageURL = ""
	e.CreatedAt = s.stamp()
	e.UpdatedAt = e.CreatedAt
	s.employees[e.ID] = e
	return s.withDepartmentLocked(e), nil
}

func (s *Store) UpdateEmployee(id int64, e employee.Employee) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.employees[id]
	if !ok || !existing.IsActive {
		return employee.Employee{}, employeeerrors.ErrEmployeeNotFound
	}
	if err := s.checkEmployeeLocked(e, id); err != nil {
		return employee.Employee{}, err
	}
	e.ID = id
	e.ImageURL = existing.ImageURL
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = s.stamp()
	s.employees[id] = e
	return s.withDepartmentLocked(e), nil
}

func (s *Store) DeleteEmployee(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok || !e.IsActive {
		return employeeerrors.ErrEmployeeNotFound
	}
	e.IsActive = false
	e.UpdatedAt = s.stamp()
	s.employees[id] = e
	return nil
}

func (s *Store) RestoreEmployee(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok {
		return employeeerrors.ErrEmployeeNotFound
	}
	if e.IsActive {
		return employeeerrors.ErrAlreadyActive
	}
	e.IsActive = true
	e.UpdatedAt = s.stamp()
	s.employees[id] = e
	return nil
}

func (s *Store) EmployeeCodeExists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if e.Code == code {
			return true
		}
	}
	return false
}

// SetEmployeeImage stores img under filename and drops the previous photo.
func (s *Store) SetEmployeeImage(id int64, filename string, img storedImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok || !e.IsActive {
		return employeeerrors.ErrEmployeeNotFound
	}
	if e.ImageURL != "" {
		delete(s.images, e.ImageURL)
	}
	s.images[filename] = img
	e.ImageURL = filename
	e.UpdatedAt = s.stamp()
	s.employees[id] = e
	return nil
}

func (s *Store) RemoveEmployeeImage(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok || !e.IsActive {
		return employeeerrors.ErrEmployeeNotFound
	}
	if e.ImageURL == "" {
		return nil
	}
	delete(s.images, e.ImageURL)
	e.ImageURL = ""
	e.UpdatedAt = s.stamp()
	s.employees[id] = e
	return nil
}

func (s *Store) Image(filename string) (storedImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[filename]
	return img, ok
}

func (s *Store) checkEmployeeLocked(e employee.Employee, exceptID int64) error {
	for id, other := range s.employees {
		if id != exceptID && other.Code == e.Code {
			return employeeerrors.ErrCodeExists
		}
	}
	if !e.Salary.GreaterThan(decimal.Zero) {
		return employeeerrors.ErrInvalidSalary
	}
	if e.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", e.DateOfBirth)
		if err != nil {
			return apperror.InvalidField("Date Of Birth")
		}
		if dob.After(s.now().AddDate(-18, 0, 0)) {
			return employeeerrors.ErrTooYoung
		}
	}
	d, ok := s.departments[e.DepartmentID]
	if !ok {
		return employeeerrors.ErrDepartmentNotFound
	}
	if !d.IsActive {
		return employeeerrors.ErrDepartmentInactive
	}
	return nil
}

func (s *Store) withDepartmentLocked(e employee.Employee) employee.Employee {
	if d, ok := s.departments[e.DepartmentID]; ok {
		e.DepartmentName = d.Name
		e.DepartmentCode = d.Code
	}
	return e
}

// --- search helpers ---

func departmentOrder(coll *collate.Collator) map[string]func(a, b department.Department) int {
	return map[string]func(a, b department.Department) int{
		"id":          func(a, b department.Department) int { return cmp.Compare(a.ID, b.ID) },
		"code":        func(a, b department.Department) int { return coll.CompareString(a.Code, b.Code) },
		"name":        func(a, b department.Department) int { return coll.CompareString(a.Name, b.Name) },
		"description": func(a, b department.Department) int { return coll.CompareString(a.Description, b.Description) },
		"createdAt":   func(a, b department.Department) int { return cmp.Compare(a.CreatedAt, b.CreatedAt) },
		"updatedAt":   func(a, b department.Department) int { return cmp.Compare(a.UpdatedAt, b.UpdatedAt) },
	}
}

func employeeOrder(coll *collate.Collator) map[string]func(a, b employee.Employee) int {
	return map[string]func(a, b employee.Employee) int{
		"id":             func(a, b employee.Employee) int { return cmp.Compare(a.ID, b.ID) },
		"code":           func(a, b employee.Employee) int { return coll.CompareString(a.Code, b.Code) },
		"name":           func(a, b employee.Employee) int { return coll.CompareString(a.Name, b.Name) },
		"mobile":         func(a, b employee.Employee) int { return cmp.Compare(a.Mobile, b.Mobile) },
		"dateOfBirth":    func(a, b employee.Employee) int { return cmp.Compare(a.DateOfBirth, b.DateOfBirth) },
		"salary":         func(a, b employee.Employee) int { return a.Salary.Cmp(b.Salary) },
		"departmentName": func(a, b employee.Employee) int { return coll.CompareString(a.DepartmentName, b.DepartmentName) },
		"createdAt":      func(a, b employee.Employee) int { return cmp.Compare(a.CreatedAt, b.CreatedAt) },
		"updatedAt":      func(a, b employee.Employee) int { return cmp.Compare(a.UpdatedAt, b.UpdatedAt) },
	}
}

func checkPage(p search.Page) error {
	if p.Page < 0 || p.Size < 1 || p.Size > MaxPageSize {
		return ErrInvalidSearch
	}
	return nil
}

func direct(d search.Direction, c int) int {
	if strings.EqualFold(string(d), string(search.DESC)) {
		return -c
	}
	return c
}

func contains(value string, filter *string) bool {
	if filter == nil || strings.TrimSpace(*filter) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(*filter)))
}

func pageOf[T any](items []T, p search.Page) []T {
	start := p.Page * p.Size
	if start > len(items) {
		start = len(items)
	}
	end := min(start+p.Size, len(items))
	return items[start:end]
}

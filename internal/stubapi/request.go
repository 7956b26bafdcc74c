package stubapi

import (
	"sync"

	"go-hris-admin/internal/department"
	"go-hris-admin/internal/employee"
	"go-hris-admin/internal/form"
	"go-hris-admin/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type departmentRequest struct {
	Code        string `json:"code" binding:"required,max=50,code"`
	Name        string `json:"name" binding:"required,min=2,max=100,personname"`
	Description string `json:"description" binding:"max=500"`
	IsActive    *bool  `json:"isActive"`
}

func (r departmentRequest) toDepartment() department.Department {
	return department.Department{
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive == nil || *r.IsActive,
	}
}

type employeeRequest struct {
	Code         string           `json:"code" binding:"required,max=50,code"`
	Name         string           `json:"name" binding:"required,min=2,max=100,personname"`
	DateOfBirth  string           `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Address      string           `json:"address" binding:"max=500"`
	Mobile       string           `json:"mobile" binding:"omitempty,mobile"`
	Salary       *decimal.Decimal `json:"salary" binding:"required"`
	DepartmentID int64            `json:"departmentId" binding:"required,gt=0"`
	IsActive     *bool            `json:"isActive"`
}

func (r employeeRequest) toEmployee() employee.Employee {
	return employee.Employee{
		Code:         r.Code,
		Name:         r.Name,
		DateOfBirth:  r.DateOfBirth,
		Address:      r.Address,
		Mobile:       r.Mobile,
		Salary:       *r.Salary,
		DepartmentID: r.DepartmentID,
		IsActive:     r.IsActive == nil || *r.IsActive,
	}
}

var registerOnce sync.Once

// registerValidators installs the json field naming and the pattern tags
// used by the request structs on gin's validator.
func registerValidators() {
	registerOnce.Do(func() {
		apperror.Init()
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		patterns := map[string]interface{ MatchString(string) bool }{
			"code":       form.CodePattern,
			"personname": form.NamePattern,
			"mobile":     form.MobilePattern,
		}
		for tag, re := range patterns {
			_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return re.MatchString(fl.Field().String())
			})
		}
	})
}

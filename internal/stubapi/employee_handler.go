package stubapi

import (
	"errors"
	"io"
	"net/http"

	"go-hris-admin/internal/employee"
	"go-hris-admin/internal/shared/response"

	employeeerrors "go-hris-admin/internal/employee/errors"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListEmployees(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.Employees(false), "", nil)
}

func (h *Handler) ActiveEmployees(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.Employees(true), "", nil)
}

func (h *Handler) SearchEmployees(c *gin.Context) {
	criteria := employee.DefaultCriteria()
	if err := c.ShouldBindJSON(&criteria); err != nil && !errors.Is(err, io.EOF) {
		h.writeBindError(c, err)
		return
	}

	items, total, err := h.store.SearchEmployees(criteria)
	if err != nil {
		h.writeError(c, err)
		return
	}
	p := response.NewPaginationInfo(total, criteria.Page.Page, criteria.Size)
	response.Success(c, http.StatusOK, response.Page[employee.Employee]{Content: items}, "", &p)
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	e, err := h.store.CreateEmployee(req.toEmployee())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, e, "Employee created successfully", nil)
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, err := parseID(c, employeeerrors.ErrInvalidEmployeeID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	e, err := h.store.UpdateEmployee(id, req.toEmployee())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e, "Employee updated successfully", nil)
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, err := parseID(c, employeeerrors.ErrInvalidEmployeeID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeleteEmployee(id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil, "Employee deleted successfully", nil)
}

func (h *Handler) RestoreEmployee(c *gin.Context) {
	id, err := parseID(c, employeeerrors.ErrInvalidEmployeeID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.RestoreEmployee(id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil, "Employee restored successfully", nil)
}

func (h *Handler) EmployeeCodeExists(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.EmployeeCodeExists(c.Param("code")), "", nil)
}

package stubapi

import (
	"errors"
	"io"
	"net/http"

	"go-hris-admin/internal/department"
	"go-hris-admin/internal/shared/response"

	departmenterrors "go-hris-admin/internal/department/errors"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListDepartments(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.Departments(false), "", nil)
}

func (h *Handler) ActiveDepartments(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.Departments(true), "", nil)
}

func (h *Handler) SearchDepartments(c *gin.Context) {
	criteria := department.DefaultCriteria()
	if err := c.ShouldBindJSON(&criteria); err != nil && !errors.Is(err, io.EOF) {
		h.writeBindError(c, err)
		return
	}

	items, total, err := h.store.SearchDepartments(criteria)
	if err != nil {
		h.writeError(c, err)
		return
	}
	p := response.NewPaginationInfo(total, criteria.Page.Page, criteria.Size)
	response.Success(c, http.StatusOK, response.Page[department.Department]{Content: items}, "", &p)
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	d, err := h.store.CreateDepartment(req.toDepartment())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, d, "Department created successfully", nil)
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	id, err := parseID(c, departmenterrors.ErrInvalidDepartmentID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	d, err := h.store.UpdateDepartment(id, req.toDepartment())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d, "Department updated successfully", nil)
}

func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, err := parseID(c, departmenterrors.ErrInvalidDepartmentID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeleteDepartment(id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil, "Department deleted successfully", nil)
}

func (h *Handler) RestoreDepartment(c *gin.Context) {
	id, err := parseID(c, departmenterrors.ErrInvalidDepartmentID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.RestoreDepartment(id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil, "Department restored successfully", nil)
}

func (h *Handler) DepartmentCodeExists(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.DepartmentCodeExists(c.Param("code")), "", nil)
}

func (h *Handler) DepartmentNameExists(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.DepartmentNameExists(c.Param("name")), "", nil)
}

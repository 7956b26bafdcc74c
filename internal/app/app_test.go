package app_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-hris-admin/internal/app"
	"go-hris-admin/internal/shared/apperror"
	"go-hris-admin/internal/stubapi"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type result struct {
	out string
	err string
}

// setupAdmin starts a seeded stub backend and returns a runner for the
// admin command line pointed at it.
func setupAdmin(t *testing.T) func(stdin string, args ...string) (result, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := stubapi.NewStore(time.Now)
	require.NoError(t, stubapi.Seed(store))
	srv := httptest.NewServer(stubapi.NewRouter(store, stubapi.RouterConfig{MaxUploadBytes: 5 << 20}, zap.NewNop()))
	t.Cleanup(srv.Close)

	t.Setenv("ADMIN_API_BASE_URL", srv.URL)
	t.Setenv("ADMIN_CHECK_DEBOUNCE", "1ms")
	t.Setenv("ADMIN_HTTP_RETRIES", "0")
	t.Setenv("ADMIN_API_RPS", "1000")
	t.Setenv("ADMIN_API_BURST", "1000")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("ADMIN_AUDIT_KAFKA_BROKER", "")

	return func(stdin string, args ...string) (result, error) {
		var out, errOut bytes.Buffer
		cmd := app.NewRootCommand(app.Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut}, zap.NewNop())
		cmd.SetArgs(args)
		err := cmd.ExecuteContext(context.Background())
		return result{out: out.String(), err: errOut.String()}, err
	}
}

func TestAdmin_Departments(t *testing.T) {
	run := setupAdmin(t)

	t.Run("list sorts by name", func(t *testing.T) {
		res, err := run("", "departments", "list")
		require.NoError(t, err)
		fin := strings.Index(res.out, "Finance")
		hr := strings.Index(res.out, "Human Resources")
		require.True(t, fin > 0 && hr > 0)
		assert.Less(t, fin, hr)
		assert.Contains(t, res.out, "Showing 3 of 3 departments")
	})

	t.Run("add", func(t *testing.T) {
		res, err := run("", "departments", "add", "--code", "OPS", "--name", "Operations")
		require.NoError(t, err)
		assert.Contains(t, res.out, "Operations")
		assert.Contains(t, res.err, "[success] Success: Department created successfully")
	})

	t.Run("duplicate code is rejected before sending", func(t *testing.T) {
		res, err := run("", "dept", "add", "--code", "HR", "--name", "Another Team")
		assert.ErrorIs(t, err, apperror.ErrValidation)
		assert.Contains(t, res.err, "code: Department code already exists")
	})

	t.Run("edit keeps its own code", func(t *testing.T) {
		res, err := run("", "departments", "edit", "3", "--description", "Money matters")
		require.NoError(t, err)
		assert.Contains(t, res.out, "Money matters")
	})

	t.Run("view", func(t *testing.T) {
		res, err := run("", "departments", "view", "2")
		require.NoError(t, err)
		assert.Contains(t, res.out, "Department Details: Information Technology")
		assert.Contains(t, res.out, "Active")
	})

	t.Run("declined delete sends nothing", func(t *testing.T) {
		res, err := run("n\n", "departments", "delete", "1")
		require.NoError(t, err)
		assert.Contains(t, res.err, "Cancelled")

		res, err = run("", "departments", "list", "--status", "inactive")
		require.NoError(t, err)
		assert.NotContains(t, res.out, "Human Resources")
	})

	t.Run("delete and restore", func(t *testing.T) {
		res, err := run("y\n", "departments", "delete", "1")
		require.NoError(t, err)
		assert.Contains(t, res.err, "Department deleted successfully")

		res, err = run("", "departments", "list", "--status", "inactive")
		require.NoError(t, err)
		assert.Contains(t, res.out, "Human Resources")

		res, err = run("", "--yes", "departments", "restore", "1")
		require.NoError(t, err)
		assert.Contains(t, res.err, "Department restored successfully")
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := run("", "departments", "view", "99")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("bad status filter", func(t *testing.T) {
		_, err := run("", "departments", "list", "--status", "gone")
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestAdmin_Employees(t *testing.T) {
	run := setupAdmin(t)

	t.Run("salary filter", func(t *testing.T) {
		res, err := run("", "employees", "list", "--min-salary", "5000")
		require.NoError(t, err)
		assert.Contains(t, res.out, "EMP02")
		assert.Contains(t, res.out, "$5,100.50")
		assert.Contains(t, res.out, "Showing 1 of 1 employees")
	})

	t.Run("add with photo", func(t *testing.T) {
		photo := filepath.Join(t.TempDir(), "dana.png")
		require.NoError(t, os.WriteFile(photo, pngHeader, 0o600))

		res, err := run("", "employees", "add",
			"--code", "EMP09", "--name", "Dana Lee", "--salary", "3000",
			"--department", "2", "--image", photo)
		require.NoError(t, err)
		assert.Contains(t, res.out, "EMP09")
		assert.Contains(t, res.out, "Information Technology")
		assert.Contains(t, res.out, "$3,000.00")
		assert.NotContains(t, res.err, "[warn]")

		res, err = run("", "employees", "view", "4")
		require.NoError(t, err)
		assert.Contains(t, res.out, "Employee Details: Dana Lee")
		assert.Contains(t, res.out, "/api/v1/images/download/")
	})

	t.Run("invalid salary", func(t *testing.T) {
		res, err := run("", "employees", "edit", "1", "--salary", "abc")
		assert.ErrorIs(t, err, apperror.ErrValidation)
		assert.Contains(t, res.err, "salary:")
	})

	t.Run("duplicate code", func(t *testing.T) {
		res, err := run("", "employees", "edit", "1", "--code", "EMP02")
		assert.ErrorIs(t, err, apperror.ErrValidation)
		assert.Contains(t, res.err, "code: Employee code already exists")
	})

	t.Run("toggle", func(t *testing.T) {
		res, err := run("", "-y", "employees", "toggle", "2")
		require.NoError(t, err)
		assert.Contains(t, res.err, "[success]")

		res, err = run("", "employees", "list", "--status", "inactive")
		require.NoError(t, err)
		assert.Contains(t, res.out, "EMP02")
	})

	t.Run("download missing photo", func(t *testing.T) {
		_, err := run("", "employees", "image", "nope.png", "-o", filepath.Join(t.TempDir(), "x.png"))
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestAdmin_AuditTailNeedsBroker(t *testing.T) {
	run := setupAdmin(t)
	_, err := run("", "audit", "tail")
	assert.EqualError(t, err, "ADMIN_AUDIT_KAFKA_BROKER is not set")
}

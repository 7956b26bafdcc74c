package stubapi

import (
	"net/http"
	"strconv"

	"go-hris-admin/internal/shared/apperror"
	"go-hris-admin/internal/shared/contextutil"
	"go-hris-admin/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	store     *Store
	maxUpload int64
	logger    *zap.Logger
}

func NewHandler(store *Store, maxUpload int64, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("stubapi.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stubapi.handler")
	}
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &Handler{store: store, maxUpload: maxUpload, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	contextutil.GetLogger(c.Request.Context(), h.logger).Warn("stub request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Message)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	contextutil.GetLogger(c.Request.Context(), h.logger).Debug("request validation failed", zap.Error(err))
	h.writeError(c, apperror.MapValidationError(err))
}

func parseID(c *gin.Context, invalid error) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}

func (h *Handler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "", nil)
}

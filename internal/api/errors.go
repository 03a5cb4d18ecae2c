package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"routeeob/internal/model"
	"routeeob/internal/telemetry"
)

// statusFor 错误对应的 HTTP 状态码：数据问题 422，格式参数 400，其余 500
func statusFor(err error) int {
	switch telemetry.ErrorKind(err) {
	case "empty_file", "parse", "missing_column", "unknown_depot":
		return http.StatusUnprocessableEntity
	case "unsupported_format":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	kind := telemetry.ErrorKind(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("kind", kind), zap.Error(err))
	} else {
		h.logger.Info("request rejected", zap.String("kind", kind), zap.Error(err))
	}

	body := gin.H{"error": err.Error(), "kind": kind}
	var missing *model.MissingColumnError
	if errors.As(err, &missing) {
		body["missingColumns"] = missing.Columns
	}
	var unknown *model.UnknownDepotError
	if errors.As(err, &unknown) {
		body["unknownDepots"] = unknown.Codes
	}
	_ = c.Error(err)
	c.JSON(status, body)
}

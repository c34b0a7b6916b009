package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/apierr"
	"github.com/yungbote/courseware-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

// StatusFor maps an error code onto its HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeUnauthorized:
		return http.StatusUnauthorized
	case domainagg.CodeForbidden, domainagg.CodeNotEnrolled:
		return http.StatusForbidden
	case domainagg.CodeNotFound, domainagg.CodeCourseNotAvailable:
		return http.StatusNotFound
	case domainagg.CodeAlreadyEnrolled, domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodeValidation, domainagg.CodeMalformedSubmission:
		return http.StatusBadRequest
	case domainagg.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondFromError writes the JSON error body for err. Internal failures are logged with
// their operation and returned with an opaque message.
func RespondFromError(c *gin.Context, log *logger.Logger, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		RespondError(c, status, apiErr.Code, apiErr)
		return
	}

	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	status := StatusFor(code)
	if status >= http.StatusInternalServerError && log != nil {
		fields := append([]interface{}{"code", code, "error", err}, ctxutil.LogFields(c.Request.Context())...)
		log.Error("request failed", fields...)
	}
	c.JSON(status, ErrorBody{Error: domainagg.PublicMessage(err), Code: string(code)})
}

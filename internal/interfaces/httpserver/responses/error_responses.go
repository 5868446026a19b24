package responses

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code          string `json:"code"` // UUID from PlatformError
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses.
// Unclassified errors are wrapped as internal at the handler layer; anything
// mapping to a 5xx is logged server-side with its error UUID.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if !errors.As(err, &domainErr) {
		ctx := context.Background()
		if reqCtx.Request != nil {
			ctx = reqCtx.Request.Context()
		}
		domainErr = platformerrors.AsError(ctx, platformerrors.LayerHandler, err, message)
	}
	if domainErr == nil {
		return
	}

	statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())
	if statusCode >= http.StatusInternalServerError {
		platformerrors.LogError(log.Logger, domainErr)
	}

	errorMessage := domainErr.Message
	if errorMessage == "" {
		errorMessage = message
	}

	errResp := ErrorResponse{
		Code:          domainErr.GetUUID(),
		Error:         errorMessage,
		Message:       errorMessage,
		ErrorInstance: domainErr,
		RequestID:     domainErr.GetRequestID(),
	}

	reqCtx.AbortWithStatusJSON(statusCode, errResp)
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil)

	statusCode := platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType())

	errResp := ErrorResponse{
		Code:          err.GetUUID(),
		Error:         message,
		Message:       message,
		ErrorInstance: err,
		RequestID:     err.GetRequestID(),
	}

	reqCtx.AbortWithStatusJSON(statusCode, errResp)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondFault maps coded service errors onto HTTP statuses. Uncoded errors are
// treated as internal so nothing leaks a raw 200.
func RespondFault(c *gin.Context, err error) {
	code := faults.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case faults.CodeNotFound:
		status = http.StatusNotFound
	case faults.CodePreconditionFailed, faults.CodeConflict:
		status = http.StatusConflict
	case faults.CodeInvalidArgument:
		status = http.StatusBadRequest
	case faults.CodeAssemblyError, faults.CodeValidationUnknown:
		status = http.StatusUnprocessableEntity
	case faults.CodeStorageError:
		status = http.StatusBadGateway
	case faults.CodePersistenceError, faults.CodeInternal:
		status = http.StatusInternalServerError
	}
	RespondError(c, status, string(code), err)
}

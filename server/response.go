package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/cognitoauth/errors"
)

// RespondWithError inspects err: if it is an *apperrors.AppError the status and
// structured body are derived automatically; otherwise a generic 500 is sent.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	c.AbortWithStatusJSON(status(appErr), appErr.ToResponse())
}

// WriteError is the net/http counterpart of RespondWithError.
func WriteError(w http.ResponseWriter, err error) {
	appErr := apperrors.Wrap(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status(appErr))
	_ = json.NewEncoder(w).Encode(appErr.ToResponse())
}

func status(e *apperrors.AppError) int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}

package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/caremeet/telehealth-api/pkg/errors"
)

// RespondError maps a service error onto the response envelope. Internal
// errors are masked; domain errors pass their message through.
func RespondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
}

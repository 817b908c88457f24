package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/response"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
	"github.com/JuanVergara-9/miservicio-api/pkg/logger"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				// Never expose internal error details to clients; log the
				// real error server-side and answer with a generic message.
				logger.Log.Error("unhandled error", "path", c.Request.URL.Path, "err", err)
				response.Error(c, http.StatusInternalServerError, "Ocurrió un error inesperado. Por favor, inténtalo de nuevo.", nil)
			}
		}
	}
}

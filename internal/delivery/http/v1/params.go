package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

// intParam parses an integer path parameter, appending a BadRequest to
// the context on failure so callers can just return.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.Error(apperror.BadRequest(fmt.Sprintf("parámetro inválido: %s", name)))
		return 0, false
	}
	return v, true
}

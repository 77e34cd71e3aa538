package handler

import (
	"Neighborhood_Hub/internal/apperr"

	"github.com/gin-gonic/gin"
)

// fail translates the service error taxonomy to a response code.
func fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"msg": err.Error()})
}

package handler

import (
	"net/http"

	"Neighborhood_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	svc *service.EmailService
}

func NewEmailHandler(svc *service.EmailService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

type SendCodeReq struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *EmailHandler) SendCode(c *gin.Context) {
	scope := c.Param("scope")
	if scope != service.ScopeRegister && scope != service.ScopeReset {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid scope"})
		return
	}

	var req SendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.SendCode(scope, req.Email); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "code sent"})
}

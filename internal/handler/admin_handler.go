package handler

import (
	"net/http"
	"strconv"

	"Neighborhood_Hub/internal/middleware"
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	users, err := h.svc.ListUsers(actor, (page-1)*size, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "page": page, "size": size})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
		return
	}

	user, err := h.svc.GetUser(actor, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateUserReq struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
		return
	}

	var req UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	in := service.UpdateUserInput{FullName: req.FullName}
	if req.Role != nil {
		role := model.GlobalRole(*req.Role)
		in.Role = &role
	}
	if req.Status != nil {
		status := model.UserStatus(*req.Status)
		in.Status = &status
	}

	user, err := h.svc.UpdateUser(actor, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
		return
	}

	if err := h.svc.DeleteUser(actor, id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}

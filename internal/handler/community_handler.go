package handler

import (
	"net/http"
	"strconv"

	"Neighborhood_Hub/internal/middleware"
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/query"
	"Neighborhood_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc *service.CommunityService
}

func NewCommunityHandler(svc *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

type CreateCommunityReq struct {
	Name        string `json:"name" binding:"required,min=3,max=50"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	JoinPolicy  string `json:"join_policy" binding:"required"`
	InviteCode  string `json:"invite_code"`
	IsPublic    *bool  `json:"is_public"`

	AllowPosts       *bool `json:"allow_posts"`
	AllowComments    *bool `json:"allow_comments"`
	AllowPolls       *bool `json:"allow_polls"`
	AllowServices    *bool `json:"allow_services"`
	AllowMarketplace *bool `json:"allow_marketplace"`
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func (h *CommunityHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreateCommunityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	community, err := h.svc.Create(actor, service.CreateCommunityInput{
		Name:             req.Name,
		Slug:             req.Slug,
		Description:      req.Description,
		JoinPolicy:       model.JoinPolicy(req.JoinPolicy),
		InviteCode:       req.InviteCode,
		IsPublic:         boolOr(req.IsPublic, true),
		AllowPosts:       boolOr(req.AllowPosts, true),
		AllowComments:    boolOr(req.AllowComments, true),
		AllowPolls:       boolOr(req.AllowPolls, true),
		AllowServices:    boolOr(req.AllowServices, true),
		AllowMarketplace: boolOr(req.AllowMarketplace, true),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"community": community})
}

func (h *CommunityHandler) GetBySlug(c *gin.Context) {
	detail, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *CommunityHandler) List(c *gin.Context) {
	f := query.CommunityFilter{
		Search:     c.Query("search"),
		PublicOnly: c.Query("public") == "true",
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	page, err := h.svc.List(f, limit, c.Query("cursor"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, page)
}

type UpdateCommunityReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	JoinPolicy  *string `json:"join_policy"`
	InviteCode  *string `json:"invite_code"`
	IsPublic    *bool   `json:"is_public"`
}

func (h *CommunityHandler) Update(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	var req UpdateCommunityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	in := service.UpdateCommunityInput{
		Name:        req.Name,
		Description: req.Description,
		InviteCode:  req.InviteCode,
		IsPublic:    req.IsPublic,
	}
	if req.JoinPolicy != nil {
		policy := model.JoinPolicy(*req.JoinPolicy)
		in.JoinPolicy = &policy
	}

	community, err := h.svc.Update(actor, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"community": community})
}

func (h *CommunityHandler) Delete(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	if err := h.svc.Delete(actor, id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}

type JoinReq struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

func (h *CommunityHandler) Join(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req JoinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	community, err := h.svc.JoinByInviteCode(actor, req.InviteCode)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": community.ID, "slug": community.Slug})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	if err := h.svc.Leave(actor, communityID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "left"})
}

type ApproveMemberReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

func (h *CommunityHandler) ApproveMember(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	var req ApproveMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	member, err := h.svc.ApproveMember(actor, communityID, req.UserID, model.CommunityRole(req.Role))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"membership": member})
}

func (h *CommunityHandler) ListMembers(c *gin.Context) {
	communityID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid community id"})
		return
	}

	members, err := h.svc.ListMembers(communityID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *CommunityHandler) Mine(c *gin.Context) {
	userID := c.GetUint64(middleware.ContextUserIDKey)
	memberships, err := h.svc.UserMemberships(userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"memberships": memberships})
}

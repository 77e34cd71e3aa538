package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"Neighborhood_Hub/internal/middleware"
	"Neighborhood_Hub/internal/model"
	"Neighborhood_Hub/internal/query"
	"Neighborhood_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

type CreatePostReq struct {
	CommunityID uint64          `json:"community_id" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Title       string          `json:"title" binding:"required"`
	Content     string          `json:"content"`
	Images      []string        `json:"images"`
	Extra       json.RawMessage `json:"extra"`
}

func (h *PostHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.Create(actor, service.CreatePostInput{
		CommunityID: req.CommunityID,
		Type:        model.PostType(req.Type),
		Title:       req.Title,
		Content:     req.Content,
		Images:      req.Images,
		Extra:       req.Extra,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": post.ID})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}
	post, err := h.svc.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":   post,
		"images": post.ImageList(),
		"extra":  post.ExtraMap(),
	})
}

// List compiles the optional query inputs into a predicate. priority and
// status both target the extra bag: status is applied last, so it wins
// when both are supplied.
func (h *PostHandler) List(c *gin.Context) {
	var f query.PostFilter
	f.Community = c.Query("community")
	f.Type = c.Query("type")
	f.Search = c.Query("search")
	f.SetExtra("priority", c.Query("priority"))
	f.SetExtra("status", c.Query("status"))

	limit, _ := strconv.Atoi(c.Query("limit"))
	cursor := c.Query("cursor")

	page, err := h.svc.List(f, limit, cursor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, page)
}

type UpdatePostReq struct {
	Title   *string         `json:"title"`
	Content *string         `json:"content"`
	Images  []string        `json:"images"`
	Extra   json.RawMessage `json:"extra"`
}

func (h *PostHandler) Update(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	var req UpdatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	post, err := h.svc.Update(actor, id, service.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Images:  req.Images,
		Extra:   req.Extra,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": post.ID})
}

func (h *PostHandler) Delete(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid post id"})
		return
	}

	if err := h.svc.Delete(actor, id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}

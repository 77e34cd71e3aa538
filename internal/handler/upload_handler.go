package handler

import (
	"net/http"
	"strconv"

	"Neighborhood_Hub/internal/middleware"
	"Neighborhood_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	svc *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

type SignUploadReq struct {
	CommunityID uint64 `json:"community_id" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

func (h *UploadHandler) Sign(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req SignUploadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	signed, err := h.svc.SignUpload(c.Request.Context(), actor, req.CommunityID, req.Filename, req.ContentType)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, signed)
}

func (h *UploadHandler) Download(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	communityID, err := strconv.ParseUint(c.Query("community_id"), 10, 64)
	if err != nil || communityID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "community_id required"})
		return
	}
	key := c.Query("key")

	signed, err := h.svc.SignDownload(c.Request.Context(), actor, communityID, key)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, signed)
}

package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"Neighborhood_Hub/internal/middleware"
	"Neighborhood_Hub/internal/pkg"
	"Neighborhood_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	svc     *service.ChatService
	webhook *pkg.WebhookClient
}

func NewChatHandler(svc *service.ChatService, webhook *pkg.WebhookClient) *ChatHandler {
	return &ChatHandler{svc: svc, webhook: webhook}
}

type CreateSessionReq struct {
	CommunityID uint64 `json:"community_id" binding:"required"`
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	session, err := h.svc.CreateSession(actor, req.CommunityID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

type SendMessageReq struct {
	SessionID uint64 `json:"session_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	msg, err := h.svc.SendMessage(actor, req.SessionID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid session id"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	messages, err := h.svc.ListMessages(actor, sessionID, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type CallbackReq struct {
	SessionID uint64 `json:"sessionId" binding:"required"`
	Reply     string `json:"reply" binding:"required"`
}

// Callback receives the workflow engine's reply. The HMAC signature over
// the raw body gates the unauthenticated route.
func (h *ChatHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid body"})
		return
	}
	if !h.webhook.VerifySignature(body, c.GetHeader("X-N8N-Signature")) {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "bad signature"})
		return
	}

	var req CallbackReq
	if err := json.Unmarshal(body, &req); err != nil || req.SessionID == 0 || req.Reply == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if _, err := h.svc.HandleAssistantReply(req.SessionID, req.Reply); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

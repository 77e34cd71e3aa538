package router

import (
	"Neighborhood_Hub/internal/handler"
	"Neighborhood_Hub/internal/middleware"
	"Neighborhood_Hub/internal/repository/mysql"
	"Neighborhood_Hub/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Users       *mysql.UserRepository
	Memberships *mysql.MembershipRepository
	Tokens      *redis.TokenRepository

	User      *handler.UserHandler
	Email     *handler.EmailHandler
	Community *handler.CommunityHandler
	Post      *handler.PostHandler
	Admin     *handler.AdminHandler
	Chat      *handler.ChatHandler
	Upload    *handler.UploadHandler
}

func New(d Deps) *gin.Engine {
	r := gin.Default()

	auth := middleware.Auth(d.Users, d.Memberships, d.Tokens)

	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", d.Email.SendCode)
	}

	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", d.User.Register)
		userGroup.POST("/login", d.User.Login)
		userGroup.POST("/reset", d.User.ResetPassword)
	}

	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", d.User.TokenRefresh)
	}

	authGroup := r.Group("/api/auth")
	authGroup.Use(auth)
	{
		authGroup.POST("/logout", d.User.Logout)
		authGroup.POST("/change-password", d.User.ChangePassword)
	}

	communityGroup := r.Group("/api/community")
	{
		// reads are public
		communityGroup.GET("/list", d.Community.List)
		communityGroup.GET("/slug/:slug", d.Community.GetBySlug)
		communityGroup.GET("/:id/members", d.Community.ListMembers)
	}
	communityAuth := r.Group("/api/community")
	communityAuth.Use(auth)
	{
		communityAuth.POST("/create", d.Community.Create)
		communityAuth.PATCH("/:id", d.Community.Update)
		communityAuth.DELETE("/:id", d.Community.Delete)
		communityAuth.POST("/join", d.Community.Join)
		communityAuth.POST("/:id/leave", d.Community.Leave)
		communityAuth.POST("/:id/members/approve", d.Community.ApproveMember)
		communityAuth.GET("/mine", d.Community.Mine)
	}

	postGroup := r.Group("/api/post")
	{
		postGroup.GET("/list", d.Post.List)
		postGroup.GET("/:id", d.Post.Get)
	}
	postAuth := r.Group("/api/post")
	postAuth.Use(auth)
	{
		postAuth.POST("/create", d.Post.Create)
		postAuth.PATCH("/:id", d.Post.Update)
		postAuth.DELETE("/:id", d.Post.Delete)
	}

	adminGroup := r.Group("/api/admin")
	adminGroup.Use(auth)
	{
		adminGroup.GET("/users", d.Admin.ListUsers)
		adminGroup.GET("/users/:id", d.Admin.GetUser)
		adminGroup.PATCH("/users/:id", d.Admin.UpdateUser)
		adminGroup.DELETE("/users/:id", d.Admin.DeleteUser)
	}

	chatGroup := r.Group("/api/chat")
	chatGroup.Use(auth)
	{
		chatGroup.POST("/sessions", d.Chat.CreateSession)
		chatGroup.POST("/messages", d.Chat.SendMessage)
		chatGroup.GET("/sessions/:id/messages", d.Chat.ListMessages)
	}

	// signature-gated, no session auth
	r.POST("/api/integrations/n8n/chat/callback", d.Chat.Callback)

	uploadGroup := r.Group("/api/uploads")
	uploadGroup.Use(auth)
	{
		uploadGroup.POST("/sign", d.Upload.Sign)
		uploadGroup.GET("/download", d.Upload.Download)
	}

	return r
}

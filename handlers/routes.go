package handlers

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"todoshare/middleware"
	"todoshare/websocket"
)

type RouterOptions struct {
	JWTSecret   string
	CORSOrigins []string
	SearchRate  float64
	SearchBurst int
}

func NewRouter(h *Handler, hub *websocket.Hub, opts RouterOptions, logger *log.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(opts.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	requireAuth := middleware.AuthMiddleware(opts.JWTSecret)
	searchLimit := middleware.NewRateLimiter(opts.SearchRate, opts.SearchBurst).Middleware()

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", requireAuth, h.Logout)
		auth.POST("/refresh", requireAuth, h.RefreshToken)
	}

	profile := r.Group("/api/profile")
	profile.Use(requireAuth)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.POST("/avatar", h.UploadAvatar)
	}

	users := r.Group("/api/users")
	users.Use(requireAuth, searchLimit)
	{
		users.GET("/search", h.SearchUsers)
		users.POST("/lookup", h.LookupUser)
	}

	friends := r.Group("/api/friends")
	friends.Use(requireAuth)
	{
		friends.GET("", h.GetFriends)
		friends.GET("/requests", h.GetFriendRequests)
		friends.GET("/requests/sent", h.GetSentRequests)
		friends.POST("/requests", h.SendFriendRequest)
		friends.POST("/requests/:id/:action", h.RespondFriendRequest)
		friends.DELETE("/:user_id", h.DeleteFriend)
	}

	todos := r.Group("/api/todos")
	todos.Use(requireAuth)
	{
		todos.GET("", h.GetTodos)
		todos.POST("", h.CreateTodo)
		todos.PATCH("/:id/toggle", h.ToggleTodo)
		todos.DELETE("/:id", h.DeleteTodo)
	}

	r.GET("/files/:filename", h.ServeFile)

	if hub != nil {
		r.GET("/ws", hub.HandleWebSocket(opts.JWTSecret, opts.CORSOrigins))
	}

	return r
}

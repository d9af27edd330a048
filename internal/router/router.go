package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/planhive/planhive/internal/handler"
	"github.com/planhive/planhive/internal/middleware"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Conversation *handler.ConversationHandler
	Message      *handler.MessageHandler
	Team         *handler.TeamHandler
}

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers) {
	h.Use(middleware.CORS())
	h.Use(middleware.AccessLog())

	// Health check
	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	// Conversation routes
	h.GET("/conversations", handlers.Conversation.ListConversations)
	h.POST("/conversations", handlers.Conversation.CreateConversation)
	h.POST("/conversations/archive", handlers.Conversation.ArchiveConversation)

	// Message routes
	h.GET("/messages", handlers.Message.ListMessages)
	h.POST("/messages", handlers.Message.CreateMessage)
	h.POST("/messages/read", handlers.Message.MarkRead)

	// Team directory
	h.GET("/team-members", handlers.Team.ListTeamMembers)
}

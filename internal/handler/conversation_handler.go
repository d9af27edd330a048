package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/planhive/planhive/internal/service"
	"github.com/planhive/planhive/pkg/errcode"
	"github.com/planhive/planhive/pkg/response"
)

// ConversationHandler handles conversation-related requests
type ConversationHandler struct {
	convService *service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(convService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convService: convService}
}

// ListConversations handles the conversation listing request
func (h *ConversationHandler) ListConversations(ctx context.Context, c *app.RequestContext) {
	email := c.Query("email")
	if email == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam.WithMsg("email is required"))
		return
	}

	convs, err := h.convService.ListConversations(ctx, email)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, convs)
}

// CreateConversation handles the create conversation request
func (h *ConversationHandler) CreateConversation(ctx context.Context, c *app.RequestContext) {
	var req service.CreateConversationRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	conv, err := h.convService.CreateConversation(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, conv)
}

// ArchiveConversation handles the archive toggle request
func (h *ConversationHandler) ArchiveConversation(ctx context.Context, c *app.RequestContext) {
	var req service.ArchiveConversationRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.convService.ArchiveConversation(ctx, &req); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Confirm(ctx, c, "Conversation archive state updated")
}

package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/planhive/planhive/internal/service"
	"github.com/planhive/planhive/pkg/errcode"
	"github.com/planhive/planhive/pkg/response"
)

// MessageHandler handles message-related requests
type MessageHandler struct {
	msgService *service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(msgService *service.MessageService) *MessageHandler {
	return &MessageHandler{msgService: msgService}
}

// ListMessages handles the message listing request. Passing email makes the
// listing double as a read acknowledgment for that user.
func (h *MessageHandler) ListMessages(ctx context.Context, c *app.RequestContext) {
	conversationId := c.Query("conversationId")
	if conversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam.WithMsg("conversationId is required"))
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	skip, _ := strconv.Atoi(c.Query("skip"))

	req := &service.ListMessagesRequest{
		ConversationId: conversationId,
		Limit:          limit,
		Skip:           skip,
		Email:          c.Query("email"),
	}

	messages, err := h.msgService.ListMessages(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, messages)
}

// CreateMessage handles the create message request
func (h *MessageHandler) CreateMessage(ctx context.Context, c *app.RequestContext) {
	var req service.SendMessageRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	msg, err := h.msgService.SendMessage(ctx, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, msg)
}

// MarkReadRequest represents mark read request
type MarkReadRequest struct {
	ConversationId string `json:"conversationId"`
	Email          string `json:"email"`
}

// MarkRead handles the mark-as-read request
func (h *MessageHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	var req MarkReadRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.msgService.MarkRead(ctx, req.ConversationId, req.Email); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Confirm(ctx, c, "Messages marked as read")
}

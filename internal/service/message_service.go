package service

import (
	"context"
	"encoding/json"

	"github.com/mbeoliero/kit/log"
	"github.com/planhive/planhive/internal/entity"
	"github.com/planhive/planhive/internal/repository"
	"github.com/planhive/planhive/pkg/constant"
	"github.com/planhive/planhive/pkg/errcode"
	"github.com/planhive/planhive/pkg/idgen"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessageService handles message-related business logic
type MessageService struct {
	msgRepo  *repository.MessageRepo
	convRepo *repository.ConversationRepo
	repos    *repository.Repositories
}

// NewMessageService creates a new MessageService
func NewMessageService(repos *repository.Repositories) *MessageService {
	return &MessageService{
		msgRepo:  repos.Message,
		convRepo: repos.Conversation,
		repos:    repos,
	}
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	ConversationId string              `json:"conversationId"`
	Sender         string              `json:"sender"`
	SenderName     string              `json:"senderName"`
	Content        string              `json:"content,omitempty"`
	Attachments    []entity.Attachment `json:"attachments,omitempty"`
	Metadata       json.RawMessage     `json:"metadata,omitempty"`
}

// SendMessage appends a message to a conversation. The message write is the
// source of truth and commits first; the conversation's last-message snapshot
// is updated afterwards best-effort, so a failed snapshot update never fails
// a durably stored message.
func (s *MessageService) SendMessage(ctx context.Context, req *SendMessageRequest) (*entity.MessageInfo, error) {
	if req.ConversationId == "" {
		return nil, errcode.ErrInvalidParam.WithMsg("conversationId is required")
	}
	if req.Sender == "" || req.SenderName == "" {
		return nil, errcode.ErrSenderRequired
	}
	if req.Content == "" && len(req.Attachments) == 0 {
		return nil, errcode.ErrMessageEmpty
	}

	conv, err := s.convRepo.GetById(ctx, req.ConversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if conv == nil {
		return nil, errcode.ErrConvNotFound
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate message id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	msg := &entity.Message{
		Id:             id,
		ConversationId: req.ConversationId,
		Sender:         req.Sender,
		SenderName:     req.SenderName,
		Content:        req.Content,
	}
	if err := msg.SetAttachments(req.Attachments); err != nil {
		return nil, errcode.ErrInvalidParam.Wrap(err)
	}
	if len(req.Metadata) > 0 {
		msg.Metadata = datatypes.JSON(req.Metadata)
	}

	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.msgRepo.Create(ctx, tx, msg); err != nil {
			return err
		}
		// The sender has, by definition, read their own message
		return s.msgRepo.AddRead(ctx, tx, &entity.MessageRead{
			MessageId:      msg.Id,
			ConversationId: msg.ConversationId,
			UserEmail:      msg.Sender,
			ReadAt:         msg.CreatedAt,
		})
	})
	if err != nil {
		log.CtxError(ctx, "send message failed: conversation_id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrSendFailed
	}

	snapshot := req.Content
	if snapshot == "" {
		snapshot = constant.AttachmentPlaceholder
	}
	if err := s.convRepo.UpdateLastMessage(ctx, req.ConversationId, snapshot, req.Sender, msg.CreatedAt); err != nil {
		// Message is durable; the snapshot heals lazily on the next listing
		log.CtxError(ctx, "update last message failed: conversation_id=%s, error=%v", req.ConversationId, err)
	}

	log.CtxInfo(ctx, "message sent: conversation_id=%s, sender=%s, id=%s", req.ConversationId, req.Sender, msg.Id)
	return msg.ToMessageInfo([]string{msg.Sender}), nil
}

// ListMessagesRequest represents list messages request
type ListMessagesRequest struct {
	ConversationId string
	Limit          int
	Skip           int
	Email          string
}

// ListMessages gets one page of messages in chronological order. When Email
// is set and belongs to a participant, the page is acknowledged as read
// before being returned.
func (s *MessageService) ListMessages(ctx context.Context, req *ListMessagesRequest) ([]*entity.MessageInfo, error) {
	if req.ConversationId == "" {
		return nil, errcode.ErrInvalidParam.WithMsg("conversationId is required")
	}

	conv, err := s.convRepo.GetById(ctx, req.ConversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if conv == nil {
		return nil, errcode.ErrConvNotFound
	}

	if req.Email != "" {
		isMember, err := s.convRepo.IsMember(ctx, req.ConversationId, req.Email)
		if err != nil {
			log.CtxError(ctx, "membership check failed: id=%s, error=%v", req.ConversationId, err)
			return nil, errcode.ErrInternalServer
		}
		if isMember {
			if err := s.msgRepo.MarkRead(ctx, req.ConversationId, req.Email); err != nil {
				log.CtxError(ctx, "mark read on list failed: id=%s, email=%s, error=%v", req.ConversationId, req.Email, err)
				return nil, errcode.ErrMarkReadFailed
			}
		} else {
			log.CtxDebug(ctx, "skip mark read for non-participant: id=%s, email=%s", req.ConversationId, req.Email)
		}
	}

	messages, err := s.msgRepo.ListForConversation(ctx, req.ConversationId, req.Limit, req.Skip)
	if err != nil {
		log.CtxError(ctx, "list messages failed: id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrListFailed
	}

	// Store order is newest-first; present the page chronologically
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	messageIds := make([]string, 0, len(messages))
	for _, msg := range messages {
		messageIds = append(messageIds, msg.Id)
	}
	readers, err := s.msgRepo.ReadersForMessages(ctx, messageIds)
	if err != nil {
		log.CtxError(ctx, "load read sets failed: id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrListFailed
	}

	result := make([]*entity.MessageInfo, 0, len(messages))
	for _, msg := range messages {
		result = append(result, msg.ToMessageInfo(readers[msg.Id]))
	}
	return result, nil
}

// MarkRead acknowledges every unread message in the conversation for the
// user. Only participants may acknowledge; the operation is idempotent.
func (s *MessageService) MarkRead(ctx context.Context, conversationId, userEmail string) error {
	if conversationId == "" || userEmail == "" {
		return errcode.ErrInvalidParam.WithMsg("conversationId and email are required")
	}

	conv, err := s.convRepo.GetById(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: id=%s, error=%v", conversationId, err)
		return errcode.ErrInternalServer
	}
	if conv == nil {
		return errcode.ErrConvNotFound
	}

	isMember, err := s.convRepo.IsMember(ctx, conversationId, userEmail)
	if err != nil {
		log.CtxError(ctx, "membership check failed: id=%s, error=%v", conversationId, err)
		return errcode.ErrInternalServer
	}
	if !isMember {
		return errcode.ErrNotParticipant
	}

	if err := s.msgRepo.MarkRead(ctx, conversationId, userEmail); err != nil {
		log.CtxError(ctx, "mark read failed: id=%s, email=%s, error=%v", conversationId, userEmail, err)
		return errcode.ErrMarkReadFailed
	}

	log.CtxDebug(ctx, "marked read: conversation_id=%s, email=%s", conversationId, userEmail)
	return nil
}

// UnreadCount derives the unread count for one user in one conversation
func (s *MessageService) UnreadCount(ctx context.Context, conversationId, userEmail string) (int64, error) {
	if conversationId == "" || userEmail == "" {
		return 0, errcode.ErrInvalidParam.WithMsg("conversationId and email are required")
	}

	count, err := s.msgRepo.CountUnread(ctx, conversationId, userEmail)
	if err != nil {
		log.CtxError(ctx, "count unread failed: id=%s, email=%s, error=%v", conversationId, userEmail, err)
		return 0, errcode.ErrInternalServer
	}
	return count, nil
}

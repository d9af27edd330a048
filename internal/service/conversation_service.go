package service

import (
	"context"
	"sort"

	"github.com/mbeoliero/kit/log"
	"github.com/planhive/planhive/internal/entity"
	"github.com/planhive/planhive/internal/repository"
	"github.com/planhive/planhive/pkg/constant"
	"github.com/planhive/planhive/pkg/errcode"
	"github.com/planhive/planhive/pkg/idgen"
)

// ConversationService handles conversation-related business logic
type ConversationService struct {
	convRepo *repository.ConversationRepo
	msgRepo  *repository.MessageRepo
	repos    *repository.Repositories
}

// NewConversationService creates a new ConversationService
func NewConversationService(repos *repository.Repositories) *ConversationService {
	return &ConversationService{
		convRepo: repos.Conversation,
		msgRepo:  repos.Message,
		repos:    repos,
	}
}

// CreateConversationRequest represents create conversation request
type CreateConversationRequest struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Participants []string `json:"participants"`
	Admins       []string `json:"admins,omitempty"`
	ProjectId    string   `json:"projectId,omitempty"`
}

// CreateConversation validates and creates a conversation. The new
// conversation carries a synthetic last-message snapshot authored by the
// first participant so listings render before any message exists.
func (s *ConversationService) CreateConversation(ctx context.Context, req *CreateConversationRequest) (*entity.ConversationInfo, error) {
	if req.Name == "" {
		return nil, errcode.ErrConvNameMissing
	}
	if req.Type != constant.ConversationTypeDirect && req.Type != constant.ConversationTypeGroup {
		return nil, errcode.ErrConvTypeInvalid
	}

	participants := dedupe(req.Participants)
	if len(participants) == 0 {
		return nil, errcode.ErrParticipantsReq
	}
	if req.Type == constant.ConversationTypeDirect && len(participants) != constant.DirectParticipantCount {
		return nil, errcode.ErrDirectNotTwoUser
	}
	if req.Type == constant.ConversationTypeGroup && len(participants) < 2 {
		return nil, errcode.ErrGroupTooSmall
	}

	admins := dedupe(req.Admins)
	if len(admins) == 0 {
		admins = []string{participants[0]}
	}
	adminSet := make(map[string]bool, len(admins))
	for _, a := range admins {
		adminSet[a] = true
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate conversation id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	now := entity.NowUnixMilli()
	conv := &entity.Conversation{
		Id:                 id,
		Name:               req.Name,
		Type:               req.Type,
		Creator:            participants[0],
		ProjectId:          req.ProjectId,
		LastMessageContent: constant.ConversationCreatedText,
		LastMessageSender:  participants[0],
		LastMessageAt:      now,
	}

	members := make([]*entity.ConversationMember, 0, len(participants))
	for _, p := range participants {
		members = append(members, &entity.ConversationMember{
			UserEmail: p,
			IsAdmin:   adminSet[p],
			JoinedAt:  now,
		})
	}

	if err := s.convRepo.Create(ctx, conv, members); err != nil {
		log.CtxError(ctx, "create conversation failed: name=%s, error=%v", req.Name, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "conversation created: id=%s, type=%s, participants=%d", conv.Id, conv.Type, len(members))
	return conv.ToConversationInfo(members), nil
}

// ListConversations gets all non-archived conversations for a user, each
// enriched with a freshly derived unread count
func (s *ConversationService) ListConversations(ctx context.Context, userEmail string) ([]*entity.ConversationInfo, error) {
	if userEmail == "" {
		return nil, errcode.ErrInvalidParam.WithMsg("email is required")
	}

	convs, err := s.convRepo.ListForUser(ctx, userEmail)
	if err != nil {
		log.CtxError(ctx, "list conversations failed: email=%s, error=%v", userEmail, err)
		return nil, errcode.ErrInternalServer
	}
	if len(convs) == 0 {
		return []*entity.ConversationInfo{}, nil
	}

	ids := make([]string, 0, len(convs))
	for _, conv := range convs {
		ids = append(ids, conv.Id)
	}

	s.healStaleSnapshots(ctx, convs)

	unread, err := s.msgRepo.CountUnreadByConversation(ctx, ids, userEmail)
	if err != nil {
		log.CtxError(ctx, "count unread failed: email=%s, error=%v", userEmail, err)
		return nil, errcode.ErrInternalServer
	}

	membersByConv, err := s.convRepo.GetMembersForConversations(ctx, ids)
	if err != nil {
		log.CtxError(ctx, "get conversation members failed: error=%v", err)
		return nil, errcode.ErrInternalServer
	}

	result := make([]*entity.ConversationInfo, 0, len(convs))
	for _, conv := range convs {
		info := conv.ToConversationInfo(membersByConv[conv.Id])
		info.Unread = unread[conv.Id]
		result = append(result, info)
	}
	return result, nil
}

// healStaleSnapshots lazily repairs last-message snapshots that fell behind
// the message ledger, e.g. after a crash between the two append writes. The
// ledger is the source of truth; the snapshot is only a rebuildable cache.
func (s *ConversationService) healStaleSnapshots(ctx context.Context, convs []*entity.Conversation) {
	ids := make([]string, 0, len(convs))
	for _, conv := range convs {
		ids = append(ids, conv.Id)
	}

	latest, err := s.msgRepo.LatestTimestamps(ctx, ids)
	if err != nil {
		log.CtxDebug(ctx, "latest timestamps lookup failed: %v", err)
		return
	}

	repaired := false
	for _, conv := range convs {
		latestAt, ok := latest[conv.Id]
		if !ok || latestAt <= conv.LastMessageAt {
			continue
		}

		msg, err := s.msgRepo.LatestMessage(ctx, conv.Id)
		if err != nil || msg == nil {
			continue
		}

		content := msg.Content
		if content == "" {
			content = constant.AttachmentPlaceholder
		}
		if err := s.convRepo.UpdateLastMessage(ctx, conv.Id, content, msg.Sender, msg.CreatedAt); err != nil {
			log.CtxDebug(ctx, "snapshot repair failed: conversation_id=%s, error=%v", conv.Id, err)
			continue
		}

		conv.LastMessageContent = content
		conv.LastMessageSender = msg.Sender
		conv.LastMessageAt = msg.CreatedAt
		repaired = true
		log.CtxInfo(ctx, "repaired stale last message: conversation_id=%s", conv.Id)
	}

	if repaired {
		sort.SliceStable(convs, func(i, j int) bool {
			return convs[i].LastMessageAt > convs[j].LastMessageAt
		})
	}
}

// ArchiveConversationRequest represents archive toggle request
type ArchiveConversationRequest struct {
	ConversationId string `json:"conversationId"`
	Email          string `json:"email"`
	Archived       *bool  `json:"archived,omitempty"`
}

// ArchiveConversation toggles the soft-delete flag for a conversation.
// Messages are untouched; archiving only hides the thread from listings.
func (s *ConversationService) ArchiveConversation(ctx context.Context, req *ArchiveConversationRequest) error {
	if req.ConversationId == "" || req.Email == "" {
		return errcode.ErrInvalidParam.WithMsg("conversationId and email are required")
	}

	conv, err := s.convRepo.GetById(ctx, req.ConversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: id=%s, error=%v", req.ConversationId, err)
		return errcode.ErrInternalServer
	}
	if conv == nil {
		return errcode.ErrConvNotFound
	}

	isMember, err := s.convRepo.IsMember(ctx, req.ConversationId, req.Email)
	if err != nil {
		log.CtxError(ctx, "membership check failed: id=%s, error=%v", req.ConversationId, err)
		return errcode.ErrInternalServer
	}
	if !isMember {
		return errcode.ErrNotParticipant
	}

	archived := true
	if req.Archived != nil {
		archived = *req.Archived
	}

	if err := s.convRepo.SetArchived(ctx, req.ConversationId, archived); err != nil {
		log.CtxError(ctx, "set archived failed: id=%s, error=%v", req.ConversationId, err)
		return errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "conversation archive toggled: id=%s, archived=%v", req.ConversationId, archived)
	return nil
}

// dedupe removes duplicates while preserving first-seen order
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}

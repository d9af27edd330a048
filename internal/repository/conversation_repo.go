package repository

import (
	"context"
	"errors"

	"github.com/planhive/planhive/internal/entity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ConversationRepo is the repository for conversation operations
type ConversationRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewConversationRepo creates a new ConversationRepo
func NewConversationRepo(db *gorm.DB, rdb *redis.Client) *ConversationRepo {
	return &ConversationRepo{db: db, rdb: rdb}
}

// Create creates a conversation together with its membership rows
func (r *ConversationRepo) Create(ctx context.Context, conv *entity.Conversation, members []*entity.ConversationMember) error {
	now := entity.NowUnixMilli()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for _, m := range members {
			m.ConversationId = conv.Id
			if m.JoinedAt == 0 {
				m.JoinedAt = now
			}
		}
		return tx.Create(&members).Error
	})
}

// GetById gets a conversation by id, returning nil when absent
func (r *ConversationRepo) GetById(ctx context.Context, id string) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// ListForUser gets all non-archived conversations the user participates in,
// most recently active first
func (r *ConversationRepo) ListForUser(ctx context.Context, userEmail string) ([]*entity.Conversation, error) {
	var convs []*entity.Conversation
	err := r.db.WithContext(ctx).
		Table("conversations c").
		Select("c.*").
		Joins("INNER JOIN conversation_members m ON m.conversation_id = c.id").
		Where("m.user_email = ? AND c.is_archived = ?", userEmail, false).
		Order("c.last_message_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// UpdateLastMessage overwrites the denormalized last-message snapshot.
// The timestamp guard keeps last_message_at monotonically non-decreasing
// under concurrent appends racing out of send order.
func (r *ConversationRepo) UpdateLastMessage(ctx context.Context, id, content, sender string, timestamp int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.Conversation{}).
		Where("id = ? AND last_message_at <= ?", id, timestamp).
		Updates(map[string]interface{}{
			"last_message_content": content,
			"last_message_sender":  sender,
			"last_message_at":      timestamp,
			"updated_at":           entity.NowUnixMilli(),
		}).Error
}

// SetArchived toggles the soft-delete flag; archived conversations drop out of
// listings but are never physically removed
func (r *ConversationRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	return r.db.WithContext(ctx).
		Model(&entity.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_archived": archived,
			"updated_at":  entity.NowUnixMilli(),
		}).Error
}

// GetMembers gets the membership rows of one conversation
func (r *ConversationRepo) GetMembers(ctx context.Context, conversationId string) ([]*entity.ConversationMember, error) {
	var members []*entity.ConversationMember
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("joined_at ASC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// GetMembersForConversations gets membership rows for many conversations in one query
func (r *ConversationRepo) GetMembersForConversations(ctx context.Context, conversationIds []string) (map[string][]*entity.ConversationMember, error) {
	result := make(map[string][]*entity.ConversationMember, len(conversationIds))
	if len(conversationIds) == 0 {
		return result, nil
	}

	var members []*entity.ConversationMember
	err := r.db.WithContext(ctx).
		Where("conversation_id IN ?", conversationIds).
		Order("joined_at ASC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		result[m.ConversationId] = append(result[m.ConversationId], m)
	}
	return result, nil
}

// IsMember checks whether the user participates in the conversation
func (r *ConversationRepo) IsMember(ctx context.Context, conversationId, userEmail string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ConversationMember{}).
		Where("conversation_id = ? AND user_email = ?", conversationId, userEmail).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/planhive/planhive/internal/entity"
	"github.com/planhive/planhive/pkg/constant"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepo is the repository for message operations.
// Messages are an append-only ledger; read acknowledgments are insert-only
// rows in message_reads.
type MessageRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewMessageRepo creates a new MessageRepo
func NewMessageRepo(db *gorm.DB, rdb *redis.Client) *MessageRepo {
	return &MessageRepo{db: db, rdb: rdb}
}

// Create appends a message within the given transaction
func (r *MessageRepo) Create(ctx context.Context, tx *gorm.DB, msg *entity.Message) error {
	now := entity.NowUnixMilli()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	return tx.WithContext(ctx).Create(msg).Error
}

// AddRead inserts one read acknowledgment within the given transaction.
// Conflicts are ignored so repeated acknowledgments are no-ops.
func (r *MessageRepo) AddRead(ctx context.Context, tx *gorm.DB, read *entity.MessageRead) error {
	if read.ReadAt == 0 {
		read.ReadAt = entity.NowUnixMilli()
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_email"}},
		DoNothing: true,
	}).Create(read).Error
}

// GetById gets a message by id, returning nil when absent
func (r *MessageRepo) GetById(ctx context.Context, id string) (*entity.Message, error) {
	var msg entity.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// ListForConversation gets one page of messages, newest first.
// Callers needing chronological order reverse the page.
func (r *MessageRepo) ListForConversation(ctx context.Context, conversationId string, limit, skip int) ([]*entity.Message, error) {
	if limit <= 0 || limit > constant.MaxMessageLimit {
		limit = constant.DefaultMessageLimit
	}
	if skip < 0 {
		skip = 0
	}

	var messages []*entity.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("created_at DESC, id DESC").
		Offset(skip).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead acknowledges every message in the conversation the user has not
// read yet, excluding the user's own messages. Insert-only with conflict
// ignore, so concurrent and repeated calls commute.
func (r *MessageRepo) MarkRead(ctx context.Context, conversationId, userEmail string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var unreadIds []string
		err := tx.Model(&entity.Message{}).
			Where("conversation_id = ? AND sender <> ?", conversationId, userEmail).
			Where("NOT EXISTS (SELECT 1 FROM message_reads r WHERE r.message_id = messages.id AND r.user_email = ?)", userEmail).
			Pluck("id", &unreadIds).Error
		if err != nil {
			return err
		}
		if len(unreadIds) == 0 {
			return nil
		}

		now := entity.NowUnixMilli()
		reads := make([]*entity.MessageRead, 0, len(unreadIds))
		for _, id := range unreadIds {
			reads = append(reads, &entity.MessageRead{
				MessageId:      id,
				ConversationId: conversationId,
				UserEmail:      userEmail,
				ReadAt:         now,
			})
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_email"}},
			DoNothing: true,
		}).Create(&reads).Error
	})
}

// ReadersForMessages gets the read sets of many messages in one query
func (r *MessageRepo) ReadersForMessages(ctx context.Context, messageIds []string) (map[string][]string, error) {
	result := make(map[string][]string, len(messageIds))
	if len(messageIds) == 0 {
		return result, nil
	}

	var reads []*entity.MessageRead
	err := r.db.WithContext(ctx).
		Where("message_id IN ?", messageIds).
		Order("read_at ASC, id ASC").
		Find(&reads).Error
	if err != nil {
		return nil, err
	}

	for _, read := range reads {
		result[read.MessageId] = append(result[read.MessageId], read.UserEmail)
	}
	return result, nil
}

// CountUnread derives the unread count for one user in one conversation.
// Always computed fresh; there is no persisted counter to drift.
func (r *MessageRepo) CountUnread(ctx context.Context, conversationId, userEmail string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("conversation_id = ? AND sender <> ?", conversationId, userEmail).
		Where("NOT EXISTS (SELECT 1 FROM message_reads r WHERE r.message_id = messages.id AND r.user_email = ?)", userEmail).
		Count(&count).Error
	return count, err
}

// unreadRow is the scan target of the grouped unread query
type unreadRow struct {
	ConversationId string `gorm:"column:conversation_id"`
	Unread         int64  `gorm:"column:unread"`
}

// CountUnreadByConversation derives unread counts for many conversations in
// a single grouped query, used when enriching a conversation listing
func (r *MessageRepo) CountUnreadByConversation(ctx context.Context, conversationIds []string, userEmail string) (map[string]int64, error) {
	result := make(map[string]int64, len(conversationIds))
	if len(conversationIds) == 0 {
		return result, nil
	}

	var rows []unreadRow
	err := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Select("conversation_id, COUNT(*) as unread").
		Where("conversation_id IN ? AND sender <> ?", conversationIds, userEmail).
		Where("NOT EXISTS (SELECT 1 FROM message_reads r WHERE r.message_id = messages.id AND r.user_email = ?)", userEmail).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ConversationId] = row.Unread
	}
	return result, nil
}

// latestRow is the scan target of the grouped latest-timestamp query
type latestRow struct {
	ConversationId string `gorm:"column:conversation_id"`
	LatestAt       int64  `gorm:"column:latest_at"`
}

// LatestTimestamps gets the true latest message timestamp per conversation,
// used to detect stale last-message snapshots
func (r *MessageRepo) LatestTimestamps(ctx context.Context, conversationIds []string) (map[string]int64, error) {
	result := make(map[string]int64, len(conversationIds))
	if len(conversationIds) == 0 {
		return result, nil
	}

	var rows []latestRow
	err := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Select("conversation_id, MAX(created_at) as latest_at").
		Where("conversation_id IN ?", conversationIds).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ConversationId] = row.LatestAt
	}
	return result, nil
}

// LatestMessage gets the most recent message of a conversation, nil when empty
func (r *MessageRepo) LatestMessage(ctx context.Context, conversationId string) (*entity.Message, error) {
	var msg entity.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

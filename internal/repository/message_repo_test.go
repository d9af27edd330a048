package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/planhive/planhive/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var msgSeq int

// seedMessage appends a message with the sender's auto-read row, mirroring
// how the service layer commits the pair
func seedMessage(t *testing.T, repos *Repositories, conversationId, sender, content string, createdAt int64) *entity.Message {
	t.Helper()

	msgSeq++
	msg := &entity.Message{
		Id:             fmt.Sprintf("m%04d", msgSeq),
		ConversationId: conversationId,
		Sender:         sender,
		SenderName:     sender,
		Content:        content,
	}

	err := repos.Transaction(context.Background(), func(tx *gorm.DB) error {
		if err := repos.Message.Create(context.Background(), tx, msg); err != nil {
			return err
		}
		return repos.Message.AddRead(context.Background(), tx, &entity.MessageRead{
			MessageId:      msg.Id,
			ConversationId: msg.ConversationId,
			UserEmail:      msg.Sender,
			ReadAt:         msg.CreatedAt,
		})
	})
	require.NoError(t, err)

	if createdAt > 0 {
		require.NoError(t, repos.DB.Model(&entity.Message{}).
			Where("id = ?", msg.Id).
			Updates(map[string]interface{}{"created_at": createdAt, "updated_at": createdAt}).Error)
		msg.CreatedAt = createdAt
	}
	return msg
}

func TestMessageRepo_SenderAutoRead(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedConversation(t, repos, "c1", 0, "a@x.com", "b@x.com")
	msg := seedMessage(t, repos, "c1", "a@x.com", "hi", 0)

	readers, err := repos.Message.ReadersForMessages(ctx, []string{msg.Id})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, readers[msg.Id])
}

func TestMessageRepo_ListForConversation_NewestFirst(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedConversation(t, repos, "c1", 0, "a@x.com", "b@x.com")
	seedMessage(t, repos, "c1", "a@x.com", "first", 100)
	seedMessage(t, repos, "c1", "b@x.com", "second", 200)
	seedMessage(t, repos, "c1", "a@x.com", "third", 300)

	messages, err := repos.Message.ListForConversation(ctx, "c1", 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "third", messages[0].Content)
	assert.Equal(t, "first", messages[2].Content)
}

func TestMessageRepo_ListForConversation_Pagination(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedConversation(t, repos, "c1", 0, "a@x.com", "b@x.com")
	for i := 1; i <= 5; i++ {
		seedMessage(t, repos, "c1", "a@x.com", fmt.Sprintf("msg %d", i), int64(i*100))
	}

	page, err := repos.Message.ListForConversation(ctx, "c1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "msg 5", page[0].Content)
	assert.Equal(t, "msg 4", page[1].Content)

	page, err = repos.Message.ListForConversation(ctx, "c1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "msg 3", page[0].Content)
	assert.Equal(t, "msg 2", page[1].Content)
}

func TestMessageRepo_MarkRead(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedConversation(t, repos, "c1", 0, "a@x.com", "b@x.com")
	m1 := seedMessage(t, repos, "c1", "a@x.com", "one", 100)
	m2 := seedMessage(t, repos, "c1", "a@x.com", "two", 200)
	own := seedMessage(t, repos, "c1", "b@x.com", "mine", 300)

	count, err := repos.Message.CountUnread(ctx, "c1", "b@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, repos.Message.MarkRead(ctx, "c1", "b@x.com"))

	count, err = repos.Message.CountUnread(ctx, "c1", "b@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	readers, err := repos.Message.ReadersForMessages(ctx, []string{m1.Id, m2.Id, own.Id})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, readers[m1.Id])
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, readers[m2.Id])
	// Own message keeps only the sender's auto-read row
	assert.Equal(t, []string{"b@x.com"}, readers[own.Id])
}

func TestMessageRepo_MarkRead_Idempotent(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedConversation(t, repos, "c1", 0, "a@x.com", "b@x.com")
	msg := seedMessage(t, repos, "c1", "a@x.com", "one", 100)

	require.NoError(t, repos.Message.MarkRead(ctx, "c1", "b@x.com"))
	require.NoError(t, repos.Message.MarkRead(ctx, "c1", "b@x.com"))

	readers, err := repos.Message.ReadersForMessages(ctx, []string{msg.Id})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, readers[msg.Id])

	var rows int64
	require.NoError(t, repos.DB.Model(&entity.MessageRead{}).
		Where("message_id = ? AND user_email = ?", msg.Id, "b@x.com").
		Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestMessageRepo_CountUnreadByConversation(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedConversation(t, repos, "c1", 0, "a@x.com", "b@x.com")
	seedConversation(t, repos, "c2", 0, "a@x.com", "b@x.com")

	seedMessage(t, repos, "c1", "a@x.com", "one", 100)
	seedMessage(t, repos, "c1", "a@x.com", "two", 200)
	seedMessage(t, repos, "c2", "b@x.com", "theirs", 300)

	unread, err := repos.Message.CountUnreadByConversation(ctx, []string{"c1", "c2"}, "b@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread["c1"])
	assert.EqualValues(t, 0, unread["c2"])

	unread, err = repos.Message.CountUnreadByConversation(ctx, []string{"c1", "c2"}, "a@x.com")
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread["c1"])
	assert.EqualValues(t, 1, unread["c2"])
}

func TestMessageRepo_LatestTimestampsAndMessage(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedConversation(t, repos, "c1", 0, "a@x.com", "b@x.com")
	seedMessage(t, repos, "c1", "a@x.com", "old", 100)
	latest := seedMessage(t, repos, "c1", "b@x.com", "new", 500)

	times, err := repos.Message.LatestTimestamps(ctx, []string{"c1", "empty"})
	require.NoError(t, err)
	assert.EqualValues(t, 500, times["c1"])
	_, ok := times["empty"]
	assert.False(t, ok)

	msg, err := repos.Message.LatestMessage(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, latest.Id, msg.Id)

	msg, err = repos.Message.LatestMessage(ctx, "empty")
	require.NoError(t, err)
	assert.Nil(t, msg)
}

package entity

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Attachment is a content-addressed reference to an externally stored file.
// The core never touches file bytes, only this metadata tuple.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size,omitempty"`
}

// Message represents a message within a conversation.
// Messages are append-only; the only mutation over a message's lifetime is
// the growth of its read set, which lives in message_reads.
type Message struct {
	Id             string         `json:"id" gorm:"column:id;primaryKey"`
	ConversationId string         `json:"conversation_id" gorm:"column:conversation_id;index"`
	Sender         string         `json:"sender" gorm:"column:sender"`
	SenderName     string         `json:"sender_name" gorm:"column:sender_name"`
	Content        string         `json:"content" gorm:"column:content"`
	Attachments    datatypes.JSON `json:"attachments" gorm:"column:attachments;type:json"`
	Metadata       datatypes.JSON `json:"metadata" gorm:"column:metadata;type:json"`
	CreatedAt      int64          `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      int64          `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// SetAttachments serializes attachments into the JSON column
func (m *Message) SetAttachments(attachments []Attachment) error {
	if len(attachments) == 0 {
		m.Attachments = nil
		return nil
	}
	b, err := json.Marshal(attachments)
	if err != nil {
		return err
	}
	m.Attachments = datatypes.JSON(b)
	return nil
}

// GetAttachments deserializes the JSON column into attachments
func (m *Message) GetAttachments() []Attachment {
	if len(m.Attachments) == 0 {
		return []Attachment{}
	}
	var attachments []Attachment
	if err := json.Unmarshal(m.Attachments, &attachments); err != nil {
		return []Attachment{}
	}
	return attachments
}

// HasAttachments reports whether the message carries attachment metadata
func (m *Message) HasAttachments() bool {
	return len(m.GetAttachments()) > 0
}

// MessageRead is one element of a message's read set.
// Rows are insert-only, which makes the readBy set monotonic.
type MessageRead struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	MessageId      string `json:"message_id" gorm:"column:message_id;uniqueIndex:idx_msg_reader"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;index"`
	UserEmail      string `json:"user_email" gorm:"column:user_email;uniqueIndex:idx_msg_reader"`
	ReadAt         int64  `json:"read_at" gorm:"column:read_at"`
}

// TableName returns the table name for MessageRead
func (MessageRead) TableName() string {
	return "message_reads"
}

// MessageInfo represents message info for API response
type MessageInfo struct {
	Id             string          `json:"id"`
	ConversationId string          `json:"conversationId"`
	Sender         string          `json:"sender"`
	SenderName     string          `json:"senderName"`
	Content        string          `json:"content"`
	Attachments    []Attachment    `json:"attachments"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	ReadBy         []string        `json:"readBy"`
	CreatedAt      int64           `json:"createdAt"`
}

// ToMessageInfo converts Message plus its read set to the API shape
func (m *Message) ToMessageInfo(readBy []string) *MessageInfo {
	if readBy == nil {
		readBy = []string{}
	}
	return &MessageInfo{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		Sender:         m.Sender,
		SenderName:     m.SenderName,
		Content:        m.Content,
		Attachments:    m.GetAttachments(),
		Metadata:       json.RawMessage(m.Metadata),
		ReadBy:         readBy,
		CreatedAt:      m.CreatedAt,
	}
}

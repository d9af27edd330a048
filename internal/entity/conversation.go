package entity

// Conversation represents a conversation thread.
// The last_message_* columns are a denormalized snapshot of the most recent
// message, kept so conversation lists render without joining into messages.
type Conversation struct {
	Id                 string `json:"id" gorm:"column:id;primaryKey"`
	Name               string `json:"name" gorm:"column:name"`
	Type               string `json:"type" gorm:"column:type"`
	Creator            string `json:"creator" gorm:"column:creator"`
	ProjectId          string `json:"project_id" gorm:"column:project_id"`
	IsArchived         bool   `json:"is_archived" gorm:"column:is_archived"`
	LastMessageContent string `json:"last_message_content" gorm:"column:last_message_content"`
	LastMessageSender  string `json:"last_message_sender" gorm:"column:last_message_sender"`
	LastMessageAt      int64  `json:"last_message_at" gorm:"column:last_message_at"`
	CreatedAt          int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt          int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// ConversationMember represents one participant of a conversation
type ConversationMember struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;uniqueIndex:idx_conv_member"`
	UserEmail      string `json:"user_email" gorm:"column:user_email;uniqueIndex:idx_conv_member"`
	IsAdmin        bool   `json:"is_admin" gorm:"column:is_admin"`
	JoinedAt       int64  `json:"joined_at" gorm:"column:joined_at"`
}

// TableName returns the table name for ConversationMember
func (ConversationMember) TableName() string {
	return "conversation_members"
}

// LastMessage is the denormalized snapshot exposed on API responses
type LastMessage struct {
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Timestamp int64  `json:"timestamp"`
}

// ConversationInfo represents conversation info for API response
type ConversationInfo struct {
	Id           string      `json:"id"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Participants []string    `json:"participants"`
	Admins       []string    `json:"admins"`
	LastMessage  LastMessage `json:"lastMessage"`
	ProjectId    string      `json:"projectId,omitempty"`
	IsArchived   bool        `json:"isArchived"`
	Unread       int64       `json:"unread"`
	CreatedAt    int64       `json:"createdAt"`
	UpdatedAt    int64       `json:"updatedAt"`
}

// ToConversationInfo converts a Conversation plus its membership into the API shape
func (c *Conversation) ToConversationInfo(members []*ConversationMember) *ConversationInfo {
	participants := make([]string, 0, len(members))
	admins := make([]string, 0, 1)
	for _, m := range members {
		participants = append(participants, m.UserEmail)
		if m.IsAdmin {
			admins = append(admins, m.UserEmail)
		}
	}

	return &ConversationInfo{
		Id:           c.Id,
		Name:         c.Name,
		Type:         c.Type,
		Participants: participants,
		Admins:       admins,
		LastMessage: LastMessage{
			Content:   c.LastMessageContent,
			Sender:    c.LastMessageSender,
			Timestamp: c.LastMessageAt,
		},
		ProjectId:  c.ProjectId,
		IsArchived: c.IsArchived,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

package constant

// Conversation types
const (
	ConversationTypeDirect = "direct"
	ConversationTypeGroup  = "group"
)

// DirectParticipantCount is the exact membership size of a direct conversation
const DirectParticipantCount = 2

// Synthetic lastMessage content
const (
	ConversationCreatedText = "Conversation created"
	AttachmentPlaceholder   = "Sent an attachment"
)

// Message listing pagination
const (
	DefaultMessageLimit = 50
	MaxMessageLimit     = 100
)

// Redis key patterns (without prefix, use RedisKey() to get full key)
const (
	redisKeyTeamProject = "team:project:%s" // team:project:{project_id}
	redisKeyTeamAll     = "team:all"        // full directory
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "planhive:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// Redis key getters with prefix
func RedisKeyTeamProject() string { return redisKeyPrefix + redisKeyTeamProject }
func RedisKeyTeamAll() string     { return redisKeyPrefix + redisKeyTeamAll }

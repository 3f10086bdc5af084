package gateway

import "narrator-cli/internal/conversation"

// 成功类型。
const (
	SuccessFull    = "full_success"
	SuccessPlain   = "success"
	SuccessPartial = "partial_success"
	SuccessError   = "error"
)

// Conversation 是 /get_conversation 的响应。
type Conversation struct {
	Status       string             `json:"status"`
	ID           string             `json:"conversation_id"`
	Name         string             `json:"conversation_name"`
	CreatedAt    string             `json:"created_at"`
	LastUpdated  string             `json:"last_updated"`
	IntroBlurb   string             `json:"intro_blurb"`
	Objects      conversation.Batch `json:"new_conversation_objects"`
	GameHasBegun bool               `json:"game_has_begun"`
	MessageCount int                `json:"message_count"`
	Location     string             `json:"location"`
}

// AdvanceRequest 是推进一轮对话的请求。
type AdvanceRequest struct {
	UserMessage     string `json:"user_message"`
	ConversationID  string `json:"conversation_id"`
	RunBootSequence bool   `json:"run_boot_sequence,omitempty"`
}

// AdvanceResponse 是 /advance_conversation（或 /chat）的响应。
type AdvanceResponse struct {
	Status       string             `json:"status"`
	SuccessType  string             `json:"success_type"`
	ErrorType    string             `json:"error_type"`
	ErrorMessage string             `json:"error_message"`
	Objects      conversation.Batch `json:"new_conversation_objects"`
	Name         string             `json:"conversation_name"`
	GameHasBegun bool               `json:"game_has_begun"`
}

// Created 是创建会话（含种子创建）的响应。
type Created struct {
	Status      string             `json:"status"`
	ID          string             `json:"conversation_id"`
	Name        string             `json:"conversation_name"`
	Objects     conversation.Batch `json:"new_conversation_objects"`
	RedirectURL string             `json:"redirect_url"`
	Message     string             `json:"message"`
}

// Listing 是会话列表中的一项。
type Listing struct {
	ID           string `json:"conversation_id"`
	Name         string `json:"name"`
	LastUpdated  string `json:"last_updated"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at"`
	Location     string `json:"location"`
}

// Title 优先显示地点，其次名称。
func (l Listing) Title() string {
	if l.Location != "" {
		return l.Location
	}
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// listingEnvelope 兼容两个列表端点的字段名。
type listingEnvelope struct {
	ConversationListings []Listing `json:"conversation_listings"`
	Conversations        []Listing `json:"conversations"`
}

func (e listingEnvelope) items() []Listing {
	if e.ConversationListings != nil {
		return e.ConversationListings
	}
	return e.Conversations
}

// World 是可用作开局种子的世界。
type World struct {
	ID          FlexibleID `json:"id"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
}

type worldEnvelope struct {
	Worlds []World `json:"game_seed_listings"`
}

// FlexibleID 接受 JSON 字符串或数字，世界 ID 与会话对象的数值字段共用同一解码规则。
type FlexibleID = conversation.Scalar

type conversationIDRequest struct {
	ConversationID string `json:"conversation_id"`
}

type seedRequest struct {
	SeedID string `json:"seed_id"`
}

type errorEnvelope struct {
	Status       string `json:"status"`
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
	Message      string `json:"message"`
}

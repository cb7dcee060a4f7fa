package store

// Turn is a single utterance in a conversation.
type Turn struct {
	Role string `json:"role"` // "user" | "assistant"
	Text string `json:"text"`
}

// Question kinds understood by the presentation layer.
const (
	KindSingleChoice   = "single_choice"
	KindMultipleChoice = "multiple_choice"
	KindFreeText       = "free_text"
	KindSkippable      = "skippable"
)

// StructuredQuestion is one question the front end renders for the next turn.
// Immutable once generated; echoed back into ConversationState.QuestionsAsked.
type StructuredQuestion struct {
	Id       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Kind     string   `json:"kind"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
	Category string   `json:"category,omitempty"`
	Order    int      `json:"order"`
	Slot     string   `json:"slot,omitempty"` // which slot the answer fills
}

// PersonalProfile holds inferred demographic/preference attributes.
// Every field is optional; empty values degrade gracefully downstream.
type PersonalProfile struct {
	Gender             string `json:"gender,omitempty"`      // "male" | "female"
	AgeBracket         string `json:"age_bracket,omitempty"` // "18-25" | "26-35" | "36-45" | "46+"
	ExperienceLevel    string `json:"experience_level,omitempty"`
	CommunicationStyle string `json:"communication_style,omitempty"`
}

// ConversationState is the active matching session state in memory.
// Mutated only by the dialog analyzer and the question generator.
type ConversationState struct {
	SessionId      string               `json:"session_id"`
	UserId         string               `json:"user_id"`
	Turns          []Turn               `json:"turns"`
	CollectedSlots map[string]any       `json:"collected_slots"`
	QuestionsAsked []StructuredQuestion `json:"questions_asked"`
	Profile        PersonalProfile      `json:"profile"`
}

// NewConversationState returns an empty state for a fresh session.
func NewConversationState(sessionId, userId string) *ConversationState {
	return &ConversationState{
		SessionId:      sessionId,
		UserId:         userId,
		Turns:          []Turn{},
		CollectedSlots: map[string]any{},
		QuestionsAsked: []StructuredQuestion{},
	}
}

// SlotString reads a collected slot as a string, "" when absent or non-string.
func (s *ConversationState) SlotString(name string) string {
	if s.CollectedSlots == nil {
		return ""
	}
	if v, ok := s.CollectedSlots[name]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// HasSlot reports whether a slot has a non-empty value.
func (s *ConversationState) HasSlot(name string) bool {
	if s.CollectedSlots == nil {
		return false
	}
	v, ok := s.CollectedSlots[name]
	if !ok || v == nil {
		return false
	}
	if str, isStr := v.(string); isStr {
		return str != ""
	}
	return true
}

// UserText concatenates all user turns, newest last.
func (s *ConversationState) UserText() string {
	var out string
	for _, t := range s.Turns {
		if t.Role == "user" {
			if out != "" {
				out += "\n"
			}
			out += t.Text
		}
	}
	return out
}

package gateway

import "encoding/json"

// Wire opcodes. The client identifies once per connection; everything
// after that is events in and messages out.
const (
	opIdentify = "identify"
	opEvent    = "event"
	opMessage  = "message"
	opReply    = "reply"
)

// Event types dispatched by the platform.
const (
	eventReady        = "ready"
	eventAnswerSubmit = "answer_submit"
	eventCommand      = "command"
)

// Command names routed to the service.
const (
	cmdScoreboard = "scoreboard"
	cmdAnswers    = "answers"
	cmdGrade      = "grade"
	cmdAccept     = "accept"
	cmdReject     = "reject"
	cmdAnswered   = "answered"
)

// frame is one inbound wire frame.
type frame struct {
	Op   string          `json:"op"`
	Type string          `json:"type,omitempty"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// outbound is one client-to-platform frame.
type outbound struct {
	Op    string `json:"op"`
	Nonce string `json:"nonce,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type identifyPayload struct {
	Token string `json:"token"`
}

// messageOut posts content to a channel, or directly to a participant
// when To is set.
type messageOut struct {
	ChannelID string `json:"channel_id,omitempty"`
	To        string `json:"to,omitempty"`
	Ephemeral bool   `json:"ephemeral,omitempty"`
	Content   string `json:"content"`
}

// replyOut answers the interaction that triggered an event.
type replyOut struct {
	InteractionID string `json:"interaction_id"`
	Ephemeral     bool   `json:"ephemeral,omitempty"`
	Content       string `json:"content"`
}

type readyEvent struct {
	SessionID string `json:"session_id"`
}

// answerEvent carries one participant answer form submission.
type answerEvent struct {
	InteractionID string `json:"interaction_id"`
	ParticipantID string `json:"participant_id"`
	PromptID      int    `json:"prompt_id"`
	Text          string `json:"text"`
}

// commandEvent carries one slash-command invocation. Fields beyond the
// name are populated per command.
type commandEvent struct {
	InteractionID string `json:"interaction_id"`
	InvokerID     string `json:"invoker_id"`
	Name          string `json:"name"`
	PromptID      int    `json:"prompt_id,omitempty"`
	Page          int    `json:"page,omitempty"`
	ParticipantID string `json:"participant_id,omitempty"`
	Seq           int    `json:"seq,omitempty"`
	Points        int    `json:"points,omitempty"`
}

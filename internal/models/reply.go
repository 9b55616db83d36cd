package models

import "time"

// Trace step statuses. Every step that starts reaches a terminal status.
const (
	StepStarted  = "started"
	StepComplete = "complete"
	StepError    = "error"
)

// TraceStep is one entry in the execution timeline of a reply.
type TraceStep struct {
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Confidence *float64  `json:"confidence,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// ReplyMetadata carries observability data attached to a reply. It is
// stored on the assistant message and returned to the client verbatim.
type ReplyMetadata struct {
	MemoryUpdated    bool        `json:"memory_updated"`
	ProcessingTimeMs int64       `json:"processing_time_ms"`
	Confidence       float64     `json:"confidence"`
	Trace            []TraceStep `json:"trace"`
	AgentsInvolved   []string    `json:"agents_involved"`

	// Detail holds unstructured pass-through data such as upstream
	// error strings. Empty for successful replies.
	Detail map[string]string `json:"detail,omitempty"`
}

// AgentReply is the assembled result of one orchestrated turn. Transient:
// it is serialized into Message.Metadata rather than persisted as a row.
type AgentReply struct {
	ResponseText string        `json:"response"`
	Emotion      string        `json:"emotion"`
	Agent        string        `json:"agent_used"`
	AgentName    string        `json:"agent_name"`
	AgentIcon    string        `json:"agent_icon"`
	Metadata     ReplyMetadata `json:"metadata"`
}

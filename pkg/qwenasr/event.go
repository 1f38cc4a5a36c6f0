package qwenasr

// Realtime wire event types.
const (
	// 客户端到服务端
	EventTypeSessionUpdate    = "session.update"
	EventTypeInputAudioAppend = "input_audio_buffer.append"
	EventTypeInputAudioCommit = "input_audio_buffer.commit"

	// 服务端到客户端
	EventTypeSessionCreated          = "session.created"
	EventTypeSessionUpdated          = "session.updated"
	EventTypeInputAudioCommitted     = "input_audio_buffer.committed"
	EventTypeTranscriptionCompleted  = "conversation.item.input_audio_transcription.completed"
	EventTypeResponseTranscriptDelta = "response.audio_transcript.delta"
	EventTypeResponseTranscriptDone  = "response.audio_transcript.done"
	EventTypeResponseDone            = "response.done"
	EventTypeError                   = "error"
)

// RealtimeEvent is one decoded server event. Only the fields relevant to the
// event's Type are populated; the rest stay at their zero values.
type RealtimeEvent struct {
	Type string `json:"type"`

	// EventID 服务端分配的事件标识
	EventID string `json:"event_id,omitempty"`

	// Session 会话详情，session.* 事件携带
	Session *SessionInfo `json:"session,omitempty"`

	// Delta 增量转录文本，*.delta 事件携带
	Delta string `json:"delta,omitempty"`

	// Transcript 完整转录文本，completed/done 事件携带
	Transcript string `json:"transcript,omitempty"`
}

// SessionInfo is the session detail echoed back by session.* events.
type SessionInfo struct {
	ID    string `json:"id,omitempty"`
	Model string `json:"model,omitempty"`
}

package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TypeChatRetention is the periodic sweep that marks erased drawings and
// reaps records past the retention window.
const TypeChatRetention = "chat:retention"

// ChatRetentionPayload carries the retention window for one sweep run.
type ChatRetentionPayload struct {
	Retention time.Duration `json:"retention"`
}

// NewChatRetentionTask builds the retention task with its serialized payload.
func NewChatRetentionTask(retention time.Duration) (*asynq.Task, error) {
	payload, err := json.Marshal(ChatRetentionPayload{Retention: retention})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeChatRetention, payload), nil
}

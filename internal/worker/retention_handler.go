package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
	"github.com/alpranjal28/mspaint-sub000/internal/repository"
	"github.com/alpranjal28/mspaint-sub000/internal/tasks"
)

// ChatRetentionHandler runs the periodic retention sweep. For each room it
// resolves erase payloads against the chat log, marks the erased drawing and
// the erase record itself, then hard-deletes marked records older than the
// retention window.
type ChatRetentionHandler struct {
	chatRepo repository.ChatRepository
}

func NewChatRetentionHandler(chatRepo repository.ChatRepository) *ChatRetentionHandler {
	if chatRepo == nil {
		panic("ChatRepository cannot be nil for ChatRetentionHandler")
	}
	return &ChatRetentionHandler{chatRepo: chatRepo}
}

// ProcessTask implements asynq.Handler.
func (h *ChatRetentionHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	var payload tasks.ChatRetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("chat retention: decode payload: %w", err)
	}
	if payload.Retention <= 0 {
		payload.Retention = 24 * time.Hour
	}

	marked, err := h.sweep(ctx)
	if err != nil {
		return fmt.Errorf("chat retention: sweep: %w", err)
	}

	cutoff := time.Now().Add(-payload.Retention)
	reaped, err := h.chatRepo.DeleteErasedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("chat retention: reap: %w", err)
	}

	logCtx.WithFields(logrus.Fields{
		"marked": marked,
		"reaped": reaped,
	}).Info("Chat retention sweep complete")
	return nil
}

// sweep scans every room's log, pairing erase payloads with the records
// they target, and marks both sides erased.
func (h *ChatRetentionHandler) sweep(ctx context.Context) (int, error) {
	roomIDs, err := h.chatRepo.ListRoomIDs(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, roomID := range roomIDs {
		chats, err := h.chatRepo.ListByRoom(ctx, roomID)
		if err != nil {
			return total, err
		}

		toMark := resolveErased(chats)
		if len(toMark) == 0 {
			continue
		}
		if err := h.chatRepo.MarkErased(ctx, toMark); err != nil {
			return total, err
		}
		total += len(toMark)
	}
	return total, nil
}

// resolveErased returns the record ids of erased drawings and of the erase
// payloads that targeted them. Records already flagged and payloads that
// fail to parse are skipped.
func resolveErased(chats []domain.Chat) []uint {
	// Draw and move records that still contribute to the shape, keyed by
	// the shape's payload id.
	byPayloadID := make(map[string][]uint, len(chats))
	for _, chat := range chats {
		payload, err := chat.ParsePayload()
		if err != nil || payload.Function == domain.FuncErase {
			continue
		}
		byPayloadID[payload.ID] = append(byPayloadID[payload.ID], chat.ID)
	}

	var toMark []uint
	for _, chat := range chats {
		if chat.Erased {
			continue
		}
		payload, err := chat.ParsePayload()
		if err != nil || payload.Function != domain.FuncErase {
			continue
		}
		toMark = append(toMark, byPayloadID[payload.ID]...)
		toMark = append(toMark, chat.ID)
	}
	return toMark
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpranjal28/mspaint-sub000/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
	roomService *service.RoomService
}

func NewChatHandler(chatService *service.ChatService, roomService *service.RoomService) *ChatHandler {
	if chatService == nil || roomService == nil {
		panic("ChatService and RoomService cannot be nil for ChatHandler")
	}
	return &ChatHandler{chatService: chatService, roomService: roomService}
}

// History handles GET /api/rooms/:roomId/chats. Messages are returned in
// insertion order, erased flag included, so clients can replay or skip them.
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	allowed, err := h.roomService.CanAccess(c.Request.Context(), userID, roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if !allowed {
		ErrorResponse(c, http.StatusForbidden, "Not a member of this room")
		return
	}

	chats, err := h.chatService.History(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	out := make([]gin.H, 0, len(chats))
	for _, chat := range chats {
		out = append(out, gin.H{
			"id":        chat.ID,
			"roomId":    chat.RoomID,
			"userId":    chat.UserID,
			"message":   chat.Message,
			"erased":    chat.Erased,
			"createdAt": chat.CreatedAt,
		})
	}
	SuccessResponse(c, http.StatusOK, gin.H{"chats": out})
}

package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
	"github.com/alpranjal28/mspaint-sub000/internal/service"
)

type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	if roomService == nil {
		panic("RoomService cannot be nil for RoomHandler")
	}
	return &RoomHandler{roomService: roomService}
}

type createRoomRequest struct {
	Slug string `json:"slug" binding:"required,min=3,max=64"`
}

type joinRoomRequest struct {
	ShareCode string `json:"shareCode" binding:"required"`
}

func roomResponse(room *domain.Room) gin.H {
	return gin.H{
		"roomId":    room.ID,
		"slug":      room.Slug,
		"adminId":   room.AdminID,
		"shareCode": room.ShareCode,
		"createdAt": room.CreatedAt,
	}
}

// currentUserID reads the id the auth middleware stored on the context.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return 0, false
	}
	userID, ok := v.(uint)
	if !ok {
		ErrorResponse(c, http.StatusInternalServerError, "Invalid user context")
		return 0, false
	}
	return userID, true
}

func roomIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("roomId")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid room ID format")
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /api/rooms.
func (h *RoomHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), userID, req.Slug)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, roomResponse(room))
}

// Join handles POST /api/rooms/join.
func (h *RoomHandler) Join(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	room, err := h.roomService.JoinByShareCode(c.Request.Context(), userID, req.ShareCode)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, roomResponse(room))
}

// Leave handles POST /api/rooms/:roomId/leave.
func (h *RoomHandler) Leave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	if err := h.roomService.Leave(c.Request.Context(), userID, roomID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"roomId": roomID})
}

// Delete handles DELETE /api/rooms/:roomId.
func (h *RoomHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	if err := h.roomService.Delete(c.Request.Context(), userID, roomID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"roomId": roomID})
}

// List handles GET /api/rooms.
func (h *RoomHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rooms, err := h.roomService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(rooms))
	for i := range rooms {
		out = append(out, roomResponse(&rooms[i]))
	}
	SuccessResponse(c, http.StatusOK, gin.H{"rooms": out})
}

// Get handles GET /api/rooms/:roomId.
func (h *RoomHandler) Get(c *gin.Context) {
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

	room, err := h.roomService.FindByID(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, roomResponse(room))
}

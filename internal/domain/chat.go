package domain

import (
	"fmt"
	"time"
)

// Chat is one persisted room message. Message holds a serialized Payload.
// The real-time core only appends and reads chats; the retention sweep is
// the only writer of Erased, and erased records are hard-deleted once their
// last update is older than the retention window.
type Chat struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null"`
	UserID    uint      `gorm:"index;not null"`
	Message   string    `gorm:"type:text;not null"`
	Erased    bool      `gorm:"not null;default:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`
}

// ParsePayload decodes the chat's Message field into a Payload.
func (c *Chat) ParsePayload() (Payload, error) {
	if c.Message == "" {
		return Payload{}, fmt.Errorf("chat %d: empty message", c.ID)
	}
	return ParsePayload([]byte(c.Message))
}

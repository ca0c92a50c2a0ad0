package domain

import "time"

// Room is a named collaboration space. Exactly one admin owns it; other
// users gain access as participants by redeeming the share code.
type Room struct {
	ID        uint      `gorm:"primaryKey"`
	Slug      string    `gorm:"uniqueIndex;size:191;not null"`
	AdminID   uint      `gorm:"index;not null"`
	ShareCode string    `gorm:"uniqueIndex;size:191;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// RoomParticipant links a user to a room joined via share code, distinct
// from the admin relation.
type RoomParticipant struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"uniqueIndex:idx_room_user;not null"`
	UserID    uint      `gorm:"uniqueIndex:idx_room_user;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

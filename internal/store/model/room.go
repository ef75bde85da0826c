package model

import (
	"encoding/json"
	"time"
)

type Room struct {
	ID          string `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"not null;uniqueIndex:rooms_name_idx"`
	Location    string
	Description string
	Racks       []Rack `gorm:"foreignKey:RoomID;references:ID"`
}

type RoomList []Room

func (r Room) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}

package model

import (
	"encoding/json"
	"time"
)

const DefaultRackHeight = 42

type Rack struct {
	ID           string `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string `gorm:"not null"`
	RoomID       string `gorm:"not null;index:racks_room_id_idx;type:VARCHAR(255)"`
	Height       int    `gorm:"not null;default:42"`
	MaxPower     float64
	CurrentPower float64 `gorm:"not null;default:0"`
	Status       string  `gorm:"type:VARCHAR(50);default:'active'"`
	Description  string
	Room         *Room `gorm:"foreignKey:RoomID;references:ID"`
}

type RackList []Rack

func (r Rack) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}

// RackSlot marks a single rack unit as occupied by a device.
// The primary key forbids two devices on the same unit.
type RackSlot struct {
	RackID   string `gorm:"primaryKey;column:rack_id;type:VARCHAR(255);"`
	Unit     int    `gorm:"primaryKey;column:unit;autoIncrement:false"`
	DeviceID string `gorm:"not null;index:rack_slots_device_id_idx;type:VARCHAR(255)"`
}

type RackSlotList []RackSlot

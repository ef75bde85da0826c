package model

import (
	"encoding/json"
	"time"
)

var NetworkCardStatuses = []string{"normal", "warning", "fault", "offline"}

type NetworkCard struct {
	ID           string `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeviceID     string `gorm:"not null;type:VARCHAR(255);uniqueIndex:network_cards_device_id_name_idx"`
	Name         string `gorm:"not null;uniqueIndex:network_cards_device_id_name_idx"`
	Description  string
	SlotNumber   *int
	PortCount    int `gorm:"not null;default:0"`
	Model        string
	Manufacturer string
	Status       string  `gorm:"type:VARCHAR(50);default:'normal'"`
	Device       *Device `gorm:"foreignKey:DeviceID;references:ID"`
}

type NetworkCardList []NetworkCard

func (n NetworkCard) String() string {
	val, _ := json.Marshal(n)
	return string(val)
}

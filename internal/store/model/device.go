package model

import (
	"encoding/json"
	"time"
)

type DeviceType string

const (
	DeviceTypeServer   DeviceType = "server"
	DeviceTypeSwitch   DeviceType = "switch"
	DeviceTypeRouter   DeviceType = "router"
	DeviceTypeStorage  DeviceType = "storage"
	DeviceTypeFirewall DeviceType = "firewall"
	DeviceTypeOther    DeviceType = "other"
)

var DeviceTypes = []string{
	string(DeviceTypeServer),
	string(DeviceTypeSwitch),
	string(DeviceTypeRouter),
	string(DeviceTypeStorage),
	string(DeviceTypeFirewall),
	string(DeviceTypeOther),
}

var DeviceStatuses = []string{"running", "maintenance", "offline", "fault"}

type Device struct {
	ID               string `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Name             string     `gorm:"not null"`
	Type             DeviceType `gorm:"not null;type:VARCHAR(50);index:devices_type_idx"`
	Model            string
	SerialNumber     string
	IPAddress        string
	Status           string  `gorm:"type:VARCHAR(50);default:'running';index:devices_status_idx"`
	RackID           string  `gorm:"not null;index:devices_rack_id_idx;type:VARCHAR(255)"`
	Position         int     `gorm:"not null"`
	Height           int     `gorm:"not null;default:1"`
	PowerConsumption float64 `gorm:"not null;default:0"`
	Description      string
	Rack             *Rack `gorm:"foreignKey:RackID;references:ID"`
}

type DeviceList []Device

func (d Device) String() string {
	val, _ := json.Marshal(d)
	return string(val)
}

// Top returns the highest rack unit occupied by the device.
func (d Device) Top() int {
	return d.Position + d.Height - 1
}

// DeviceSummary is the reduced device view joined onto ports and cables.
type DeviceSummary struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Type   DeviceType `json:"type"`
	RackID string     `json:"rackId"`
}

func (d Device) Summary() DeviceSummary {
	return DeviceSummary{ID: d.ID, Name: d.Name, Type: d.Type, RackID: d.RackID}
}

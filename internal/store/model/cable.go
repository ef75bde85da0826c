package model

import (
	"encoding/json"
	"time"
)

var (
	CableTypes    = []string{"ethernet", "fiber", "copper"}
	CableStatuses = []string{"normal", "fault", "disconnected"}
)

type Cable struct {
	ID             string `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SourceDeviceID string `gorm:"not null;type:VARCHAR(255);index:cables_source_device_id_idx"`
	SourcePort     string `gorm:"not null"`
	TargetDeviceID string `gorm:"not null;type:VARCHAR(255);index:cables_target_device_id_idx"`
	TargetPort     string `gorm:"not null"`
	Type           string `gorm:"type:VARCHAR(20);default:'ethernet'"`
	Length         *float64
	Status         string `gorm:"type:VARCHAR(20);default:'normal';index:cables_status_idx"`
	Description    string
	SourceDevice   *Device `gorm:"foreignKey:SourceDeviceID;references:ID"`
	TargetDevice   *Device `gorm:"foreignKey:TargetDeviceID;references:ID"`
}

type CableList []Cable

func (c Cable) String() string {
	val, _ := json.Marshal(c)
	return string(val)
}

func (c Cable) Source() Endpoint {
	return Endpoint{DeviceID: c.SourceDeviceID, PortName: c.SourcePort}
}

func (c Cable) Target() Endpoint {
	return Endpoint{DeviceID: c.TargetDeviceID, PortName: c.TargetPort}
}

// Endpoint is one side of a cable.
type Endpoint struct {
	DeviceID string `json:"deviceId"`
	PortName string `json:"portName"`
}

func (e Endpoint) String() string {
	return e.DeviceID + "/" + e.PortName
}

// CableEndpoint reserves a (device, port) pair for a single cable.
type CableEndpoint struct {
	DeviceID string `gorm:"primaryKey;column:device_id;type:VARCHAR(255);"`
	PortName string `gorm:"primaryKey;column:port_name;type:VARCHAR(255);"`
	CableID  string `gorm:"not null;type:VARCHAR(255);index:cable_endpoints_cable_id_idx"`
}

package model

import (
	"encoding/json"
	"time"
)

type PortStatus string

const (
	PortStatusFree     PortStatus = "free"
	PortStatusOccupied PortStatus = "occupied"
	PortStatusFault    PortStatus = "fault"
)

var (
	PortStatuses = []string{string(PortStatusFree), string(PortStatusOccupied), string(PortStatusFault)}
	PortTypes    = []string{"RJ45", "SFP", "SFP+", "SFP28", "QSFP", "QSFP28"}
	PortSpeeds   = []string{"100M", "1G", "10G", "25G", "40G", "100G"}
)

type Port struct {
	ID          string `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeviceID    string     `gorm:"not null;type:VARCHAR(255);uniqueIndex:ports_device_id_name_idx"`
	NicID       *string    `gorm:"type:VARCHAR(255);index:ports_nic_id_idx"`
	Name        string     `gorm:"not null;uniqueIndex:ports_device_id_name_idx"`
	Type        string     `gorm:"type:VARCHAR(20);default:'RJ45'"`
	Speed       string     `gorm:"type:VARCHAR(20);default:'1G'"`
	Status      PortStatus `gorm:"type:VARCHAR(20);default:'free';index:ports_status_idx"`
	VlanID      *int
	Description string
	Device      *Device `gorm:"foreignKey:DeviceID;references:ID"`
}

type PortList []Port

func (p Port) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}

// PortStats counts ports by status.
type PortStats struct {
	Total    int `json:"total"`
	Free     int `json:"free"`
	Occupied int `json:"occupied"`
	Fault    int `json:"fault"`
}

func (l PortList) Stats() PortStats {
	stats := PortStats{Total: len(l)}
	for _, p := range l {
		switch p.Status {
		case PortStatusFree:
			stats.Free++
		case PortStatusOccupied:
			stats.Occupied++
		case PortStatusFault:
			stats.Fault++
		}
	}
	return stats
}

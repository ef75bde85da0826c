package mappers

import (
	"strings"

	"github.com/kubev2v/rack-planner/internal/store/model"
)

const (
	DefaultDeviceType    = string(model.DeviceTypeServer)
	DefaultDeviceStatus  = "running"
	DefaultRackStatus    = "active"
	DefaultNicStatus     = "normal"
	DefaultPortType      = "RJ45"
	DefaultPortSpeed     = "1G"
	DefaultCableType     = "ethernet"
	DefaultCableStatus   = "normal"
	DefaultDeviceHeightU = 1
)

type RoomForm struct {
	ID          string
	Name        string
	Location    string
	Description string
}

func (f RoomForm) ToRoom() model.Room {
	return model.Room{
		ID:          f.ID,
		Name:        strings.TrimSpace(f.Name),
		Location:    f.Location,
		Description: f.Description,
	}
}

type RackForm struct {
	ID          string
	Name        string
	RoomID      string
	Height      int
	MaxPower    float64
	Status      string
	Description string
}

func (f RackForm) ToRack() model.Rack {
	rack := model.Rack{
		ID:          f.ID,
		Name:        strings.TrimSpace(f.Name),
		RoomID:      f.RoomID,
		Height:      f.Height,
		MaxPower:    f.MaxPower,
		Status:      f.Status,
		Description: f.Description,
	}
	if rack.Status == "" {
		rack.Status = DefaultRackStatus
	}
	return rack
}

type RackUpdateForm struct {
	Name        *string
	RoomID      *string
	Height      *int
	MaxPower    *float64
	Status      *string
	Description *string
}

func (f RackUpdateForm) Apply(rack *model.Rack) {
	if f.Name != nil {
		rack.Name = strings.TrimSpace(*f.Name)
	}
	if f.RoomID != nil {
		rack.RoomID = *f.RoomID
	}
	if f.Height != nil {
		rack.Height = *f.Height
	}
	if f.MaxPower != nil {
		rack.MaxPower = *f.MaxPower
	}
	if f.Status != nil {
		rack.Status = *f.Status
	}
	if f.Description != nil {
		rack.Description = *f.Description
	}
}

type DeviceForm struct {
	ID               string
	Name             string
	Type             string
	Model            string
	SerialNumber     string
	IPAddress        string
	Status           string
	RackID           string
	Position         int // 0 means first free range
	Height           int
	PowerConsumption float64
	Description      string
}

func (f DeviceForm) ToDevice() model.Device {
	device := model.Device{
		ID:               f.ID,
		Name:             strings.TrimSpace(f.Name),
		Type:             model.DeviceType(f.Type),
		Model:            f.Model,
		SerialNumber:     f.SerialNumber,
		IPAddress:        f.IPAddress,
		Status:           f.Status,
		RackID:           f.RackID,
		Position:         f.Position,
		Height:           f.Height,
		PowerConsumption: f.PowerConsumption,
		Description:      f.Description,
	}
	if device.Type == "" {
		device.Type = model.DeviceType(DefaultDeviceType)
	}
	if device.Status == "" {
		device.Status = DefaultDeviceStatus
	}
	if device.Height == 0 {
		device.Height = DefaultDeviceHeightU
	}
	return device
}

type DeviceUpdateForm struct {
	Name             *string
	Type             *string
	Model            *string
	SerialNumber     *string
	IPAddress        *string
	Status           *string
	RackID           *string
	Position         *int
	Height           *int
	PowerConsumption *float64
	Description      *string
}

// MovesDevice reports whether the update touches the rack placement.
func (f DeviceUpdateForm) MovesDevice() bool {
	return f.RackID != nil || f.Position != nil || f.Height != nil
}

func (f DeviceUpdateForm) Apply(device *model.Device) {
	if f.Name != nil {
		device.Name = strings.TrimSpace(*f.Name)
	}
	if f.Type != nil {
		device.Type = model.DeviceType(*f.Type)
	}
	if f.Model != nil {
		device.Model = *f.Model
	}
	if f.SerialNumber != nil {
		device.SerialNumber = *f.SerialNumber
	}
	if f.IPAddress != nil {
		device.IPAddress = *f.IPAddress
	}
	if f.Status != nil {
		device.Status = *f.Status
	}
	if f.RackID != nil {
		device.RackID = *f.RackID
	}
	if f.Position != nil {
		device.Position = *f.Position
	}
	if f.Height != nil {
		device.Height = *f.Height
	}
	if f.PowerConsumption != nil {
		device.PowerConsumption = *f.PowerConsumption
	}
	if f.Description != nil {
		device.Description = *f.Description
	}
}

type NetworkCardForm struct {
	ID           string
	DeviceID     string
	Name         string
	Description  string
	SlotNumber   *int
	PortCount    int
	Model        string
	Manufacturer string
	Status       string
}

func (f NetworkCardForm) ToNetworkCard() model.NetworkCard {
	nic := model.NetworkCard{
		ID:           f.ID,
		DeviceID:     f.DeviceID,
		Name:         strings.TrimSpace(f.Name),
		Description:  f.Description,
		SlotNumber:   f.SlotNumber,
		PortCount:    f.PortCount,
		Model:        f.Model,
		Manufacturer: f.Manufacturer,
		Status:       f.Status,
	}
	if nic.Status == "" {
		nic.Status = DefaultNicStatus
	}
	return nic
}

type NetworkCardUpdateForm struct {
	Name         *string
	Description  *string
	SlotNumber   *int
	PortCount    *int
	Model        *string
	Manufacturer *string
	Status       *string
}

func (f NetworkCardUpdateForm) Apply(nic *model.NetworkCard) {
	if f.Name != nil {
		nic.Name = strings.TrimSpace(*f.Name)
	}
	if f.Description != nil {
		nic.Description = *f.Description
	}
	if f.SlotNumber != nil {
		nic.SlotNumber = f.SlotNumber
	}
	if f.PortCount != nil {
		nic.PortCount = *f.PortCount
	}
	if f.Model != nil {
		nic.Model = *f.Model
	}
	if f.Manufacturer != nil {
		nic.Manufacturer = *f.Manufacturer
	}
	if f.Status != nil {
		nic.Status = *f.Status
	}
}

type PortForm struct {
	ID          string
	DeviceID    string
	NicID       *string
	Name        string
	Type        string
	Speed       string
	Status      string
	VlanID      *int
	Description string
}

func (f PortForm) ToPort() model.Port {
	port := model.Port{
		ID:          f.ID,
		DeviceID:    f.DeviceID,
		Name:        strings.TrimSpace(f.Name),
		Type:        f.Type,
		Speed:       f.Speed,
		Status:      model.PortStatus(f.Status),
		VlanID:      f.VlanID,
		Description: f.Description,
	}
	if f.NicID != nil && *f.NicID != "" {
		nicID := *f.NicID
		port.NicID = &nicID
	}
	if port.Type == "" {
		port.Type = DefaultPortType
	}
	if port.Speed == "" {
		port.Speed = DefaultPortSpeed
	}
	if port.Status == "" {
		port.Status = model.PortStatusFree
	}
	return port
}

type PortUpdateForm struct {
	// DeviceID is accepted only when it matches the current device.
	DeviceID *string
	// NicID set to an empty string detaches the port from its card.
	NicID       *string
	Name        *string
	Type        *string
	Speed       *string
	Status      *string
	VlanID      *int
	Description *string
}

func (f PortUpdateForm) Apply(port *model.Port) {
	if f.NicID != nil {
		if *f.NicID == "" {
			port.NicID = nil
		} else {
			nicID := *f.NicID
			port.NicID = &nicID
		}
	}
	if f.Name != nil {
		port.Name = strings.TrimSpace(*f.Name)
	}
	if f.Type != nil {
		port.Type = *f.Type
	}
	if f.Speed != nil {
		port.Speed = *f.Speed
	}
	if f.Status != nil {
		port.Status = model.PortStatus(*f.Status)
	}
	if f.VlanID != nil {
		port.VlanID = f.VlanID
	}
	if f.Description != nil {
		port.Description = *f.Description
	}
}

type CableForm struct {
	ID             string
	SourceDeviceID string
	SourcePort     string
	TargetDeviceID string
	TargetPort     string
	Type           string
	Length         *float64
	Status         string
	Description    string
}

func (f CableForm) ToCable() model.Cable {
	cable := model.Cable{
		ID:             f.ID,
		SourceDeviceID: f.SourceDeviceID,
		SourcePort:     strings.TrimSpace(f.SourcePort),
		TargetDeviceID: f.TargetDeviceID,
		TargetPort:     strings.TrimSpace(f.TargetPort),
		Type:           f.Type,
		Length:         f.Length,
		Status:         f.Status,
		Description:    f.Description,
	}
	if cable.Type == "" {
		cable.Type = DefaultCableType
	}
	if cable.Status == "" {
		cable.Status = DefaultCableStatus
	}
	return cable
}

type CableUpdateForm struct {
	SourceDeviceID *string
	SourcePort     *string
	TargetDeviceID *string
	TargetPort     *string
	Type           *string
	Length         *float64
	Status         *string
	Description    *string
}

// MovesEndpoints reports whether the update touches any endpoint field.
func (f CableUpdateForm) MovesEndpoints() bool {
	return f.SourceDeviceID != nil || f.SourcePort != nil || f.TargetDeviceID != nil || f.TargetPort != nil
}

func (f CableUpdateForm) Apply(cable *model.Cable) {
	if f.SourceDeviceID != nil {
		cable.SourceDeviceID = *f.SourceDeviceID
	}
	if f.SourcePort != nil {
		cable.SourcePort = strings.TrimSpace(*f.SourcePort)
	}
	if f.TargetDeviceID != nil {
		cable.TargetDeviceID = *f.TargetDeviceID
	}
	if f.TargetPort != nil {
		cable.TargetPort = strings.TrimSpace(*f.TargetPort)
	}
	if f.Type != nil {
		cable.Type = *f.Type
	}
	if f.Length != nil {
		cable.Length = f.Length
	}
	if f.Status != nil {
		cable.Status = *f.Status
	}
	if f.Description != nil {
		cable.Description = *f.Description
	}
}

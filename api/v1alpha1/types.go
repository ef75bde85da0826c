package v1alpha1

import "time"

// Error is the body returned by every failing request.
type Error struct {
	Message   string  `json:"message"`
	Kind      string  `json:"kind,omitempty"`
	RequestId *string `json:"requestId,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}

type ListMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page,omitempty"`
	PageSize int   `json:"pageSize,omitempty"`
}

/**
* Rooms
**/

type RoomCreate struct {
	Id          *string `json:"id,omitempty" validate:"omitempty,resource_id"`
	Name        string  `json:"name" validate:"required,max=100"`
	Location    string  `json:"location,omitempty" validate:"max=255"`
	Description string  `json:"description,omitempty"`
}

type Room struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type RoomList []Room

/**
* Racks
**/

type RackCreate struct {
	Id          *string `json:"id,omitempty" validate:"omitempty,resource_id"`
	Name        string  `json:"name" validate:"required,max=100"`
	RoomId      string  `json:"roomId" validate:"required"`
	Height      *int    `json:"height,omitempty" validate:"omitempty,min=1,max=60"`
	MaxPower    float64 `json:"maxPower,omitempty" validate:"min=0"`
	Status      string  `json:"status,omitempty"`
	Description string  `json:"description,omitempty"`
}

type RackUpdate struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	RoomId      *string  `json:"roomId,omitempty" validate:"omitempty,min=1"`
	Height      *int     `json:"height,omitempty" validate:"omitempty,min=1,max=60"`
	MaxPower    *float64 `json:"maxPower,omitempty" validate:"omitempty,min=0"`
	Status      *string  `json:"status,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type Rack struct {
	Id           string    `json:"id"`
	Name         string    `json:"name"`
	RoomId       string    `json:"roomId"`
	Height       int       `json:"height"`
	MaxPower     float64   `json:"maxPower"`
	CurrentPower float64   `json:"currentPower"`
	Status       string    `json:"status"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type RackList struct {
	ListMeta
	Items []Rack `json:"items"`
}

type UnitRange struct {
	DeviceId string `json:"deviceId"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

type RackView struct {
	Rack      Rack        `json:"rack"`
	Devices   []Device    `json:"devices"`
	Cables    []Cable     `json:"cables"`
	Occupancy []UnitRange `json:"occupancy"`
	UsedUnits int         `json:"usedUnits"`
	FreeUnits int         `json:"freeUnits"`
}

/**
* Devices
**/

type DeviceCreate struct {
	Id               *string `json:"id,omitempty" validate:"omitempty,resource_id"`
	Name             string  `json:"name" validate:"required,max=100"`
	Type             string  `json:"type,omitempty" validate:"omitempty,device_type"`
	Model            string  `json:"model,omitempty"`
	SerialNumber     string  `json:"serialNumber,omitempty"`
	IpAddress        string  `json:"ipAddress,omitempty" validate:"omitempty,ip"`
	Status           string  `json:"status,omitempty" validate:"omitempty,device_status"`
	RackId           string  `json:"rackId" validate:"required"`
	Position         *int    `json:"position,omitempty" validate:"omitempty,min=1"`
	Height           int     `json:"height,omitempty" validate:"min=0"`
	PowerConsumption float64 `json:"powerConsumption,omitempty" validate:"min=0"`
	Description      string  `json:"description,omitempty"`
}

type DeviceUpdate struct {
	Name             *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Type             *string  `json:"type,omitempty" validate:"omitempty,device_type"`
	Model            *string  `json:"model,omitempty"`
	SerialNumber     *string  `json:"serialNumber,omitempty"`
	IpAddress        *string  `json:"ipAddress,omitempty" validate:"omitempty,ip"`
	Status           *string  `json:"status,omitempty" validate:"omitempty,device_status"`
	RackId           *string  `json:"rackId,omitempty" validate:"omitempty,min=1"`
	Position         *int     `json:"position,omitempty" validate:"omitempty,min=1"`
	Height           *int     `json:"height,omitempty" validate:"omitempty,min=1"`
	PowerConsumption *float64 `json:"powerConsumption,omitempty" validate:"omitempty,min=0"`
	Description      *string  `json:"description,omitempty"`
}

type Device struct {
	Id               string    `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Model            string    `json:"model,omitempty"`
	SerialNumber     string    `json:"serialNumber,omitempty"`
	IpAddress        string    `json:"ipAddress,omitempty"`
	Status           string    `json:"status"`
	RackId           string    `json:"rackId"`
	Position         int       `json:"position"`
	Height           int       `json:"height"`
	PowerConsumption float64   `json:"powerConsumption"`
	Description      string    `json:"description,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type DeviceList struct {
	ListMeta
	Items []Device `json:"items"`
}

type DeviceSummary struct {
	DeviceId string `json:"deviceId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	RackId   string `json:"rackId"`
}

/**
* Network cards
**/

type NetworkCardCreate struct {
	Id           *string `json:"id,omitempty" validate:"omitempty,resource_id"`
	DeviceId     string  `json:"deviceId" validate:"required"`
	Name         string  `json:"name" validate:"required,max=100"`
	Description  string  `json:"description,omitempty"`
	SlotNumber   *int    `json:"slotNumber,omitempty" validate:"omitempty,min=0"`
	PortCount    int     `json:"portCount,omitempty" validate:"min=0"`
	Model        string  `json:"model,omitempty"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	Status       string  `json:"status,omitempty" validate:"omitempty,nic_status"`
}

type NetworkCardUpdate struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description  *string `json:"description,omitempty"`
	SlotNumber   *int    `json:"slotNumber,omitempty" validate:"omitempty,min=0"`
	PortCount    *int    `json:"portCount,omitempty" validate:"omitempty,min=0"`
	Model        *string `json:"model,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	Status       *string `json:"status,omitempty" validate:"omitempty,nic_status"`
}

type NetworkCard struct {
	Id           string         `json:"id"`
	DeviceId     string         `json:"deviceId"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	SlotNumber   *int           `json:"slotNumber,omitempty"`
	PortCount    int            `json:"portCount"`
	Model        string         `json:"model,omitempty"`
	Manufacturer string         `json:"manufacturer,omitempty"`
	Status       string         `json:"status"`
	Device       *DeviceSummary `json:"device,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type NetworkCardList []NetworkCard

type PortStats struct {
	Total    int `json:"total"`
	Free     int `json:"free"`
	Occupied int `json:"occupied"`
	Fault    int `json:"fault"`
}

type NetworkCardWithPorts struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SlotNumber  *int      `json:"slotNumber,omitempty"`
	Status      string    `json:"status,omitempty"`
	IsUngrouped bool      `json:"isUngrouped"`
	Ports       []Port    `json:"ports"`
	Stats       PortStats `json:"stats"`
}

/**
* Ports
**/

type PortCreate struct {
	Id          *string `json:"id,omitempty" validate:"omitempty,resource_id"`
	DeviceId    string  `json:"deviceId" validate:"required"`
	NicId       *string `json:"nicId,omitempty"`
	Name        string  `json:"portName" validate:"required,max=100"`
	Type        string  `json:"portType,omitempty" validate:"omitempty,port_type"`
	Speed       string  `json:"speed,omitempty" validate:"omitempty,port_speed"`
	Status      string  `json:"status,omitempty" validate:"omitempty,port_status"`
	VlanId      *int    `json:"vlanId,omitempty" validate:"omitempty,min=1,max=4094"`
	Description string  `json:"description,omitempty"`
}

type PortUpdate struct {
	DeviceId    *string `json:"deviceId,omitempty"`
	NicId       *string `json:"nicId,omitempty"`
	Name        *string `json:"portName,omitempty" validate:"omitempty,min=1,max=100"`
	Type        *string `json:"portType,omitempty" validate:"omitempty,port_type"`
	Speed       *string `json:"speed,omitempty" validate:"omitempty,port_speed"`
	Status      *string `json:"status,omitempty" validate:"omitempty,port_status"`
	VlanId      *int    `json:"vlanId,omitempty" validate:"omitempty,min=1,max=4094"`
	Description *string `json:"description,omitempty"`
}

type Port struct {
	Id          string         `json:"id"`
	DeviceId    string         `json:"deviceId"`
	NicId       *string        `json:"nicId,omitempty"`
	Name        string         `json:"portName"`
	Type        string         `json:"portType"`
	Speed       string         `json:"speed"`
	Status      string         `json:"status"`
	VlanId      *int           `json:"vlanId,omitempty"`
	Description string         `json:"description,omitempty"`
	Device      *DeviceSummary `json:"device,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type PortList struct {
	ListMeta
	Items []Port `json:"items"`
}

type PortBatchCreate struct {
	Ports []PortCreate `json:"ports" validate:"required,min=1,dive"`
}

/**
* Cables
**/

type CableCreate struct {
	Id             *string  `json:"id,omitempty" validate:"omitempty,resource_id"`
	SourceDeviceId string   `json:"sourceDeviceId"`
	SourcePort     string   `json:"sourcePort"`
	TargetDeviceId string   `json:"targetDeviceId"`
	TargetPort     string   `json:"targetPort"`
	CableType      string   `json:"cableType,omitempty" validate:"omitempty,cable_type"`
	CableLength    *float64 `json:"cableLength,omitempty" validate:"omitempty,min=0"`
	Status         string   `json:"status,omitempty" validate:"omitempty,cable_status"`
	Description    string   `json:"description,omitempty"`
}

type CableUpdate struct {
	SourceDeviceId *string  `json:"sourceDeviceId,omitempty" validate:"omitempty,min=1"`
	SourcePort     *string  `json:"sourcePort,omitempty" validate:"omitempty,min=1"`
	TargetDeviceId *string  `json:"targetDeviceId,omitempty" validate:"omitempty,min=1"`
	TargetPort     *string  `json:"targetPort,omitempty" validate:"omitempty,min=1"`
	CableType      *string  `json:"cableType,omitempty" validate:"omitempty,cable_type"`
	CableLength    *float64 `json:"cableLength,omitempty" validate:"omitempty,min=0"`
	Status         *string  `json:"status,omitempty" validate:"omitempty,cable_status"`
	Description    *string  `json:"description,omitempty"`
}

type Cable struct {
	Id             string         `json:"id"`
	SourceDeviceId string         `json:"sourceDeviceId"`
	SourcePort     string         `json:"sourcePort"`
	TargetDeviceId string         `json:"targetDeviceId"`
	TargetPort     string         `json:"targetPort"`
	CableType      string         `json:"cableType"`
	CableLength    *float64       `json:"cableLength,omitempty"`
	Status         string         `json:"status"`
	Description    string         `json:"description,omitempty"`
	SourceDevice   *DeviceSummary `json:"sourceDevice,omitempty"`
	TargetDevice   *DeviceSummary `json:"targetDevice,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type CableList struct {
	ListMeta
	Items []Cable `json:"items"`
}

type CableBatchCreate struct {
	Cables []CableCreate `json:"cables" validate:"required,min=1,dive"`
}

/**
* Batch results
**/

type BatchError struct {
	Index int    `json:"index"`
	Id    string `json:"id"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type BatchResult struct {
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Errors  []BatchError `json:"errors"`
}

type BatchDelete struct {
	Ids []string `json:"ids" validate:"required,min=1,dive,required"`
}

type BatchDeleteItem struct {
	Id    string  `json:"id"`
	Ok    bool    `json:"ok"`
	Kind  *string `json:"kind,omitempty"`
	Error *string `json:"error,omitempty"`
}

type BatchDeleteResult struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Items   []BatchDeleteItem `json:"items"`
}

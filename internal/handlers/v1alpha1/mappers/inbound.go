package mappers

import (
	api "github.com/kubev2v/rack-planner/api/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/service/mappers"
)

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func RoomFormApi(resource api.RoomCreate) mappers.RoomForm {
	return mappers.RoomForm{
		ID:          deref(resource.Id),
		Name:        resource.Name,
		Location:    resource.Location,
		Description: resource.Description,
	}
}

func RackFormApi(resource api.RackCreate) mappers.RackForm {
	return mappers.RackForm{
		ID:          deref(resource.Id),
		Name:        resource.Name,
		RoomID:      resource.RoomId,
		Height:      deref(resource.Height),
		MaxPower:    resource.MaxPower,
		Status:      resource.Status,
		Description: resource.Description,
	}
}

func RackUpdateFormApi(resource api.RackUpdate) mappers.RackUpdateForm {
	return mappers.RackUpdateForm{
		Name:        resource.Name,
		RoomID:      resource.RoomId,
		Height:      resource.Height,
		MaxPower:    resource.MaxPower,
		Status:      resource.Status,
		Description: resource.Description,
	}
}

func DeviceFormApi(resource api.DeviceCreate) mappers.DeviceForm {
	return mappers.DeviceForm{
		ID:               deref(resource.Id),
		Name:             resource.Name,
		Type:             resource.Type,
		Model:            resource.Model,
		SerialNumber:     resource.SerialNumber,
		IPAddress:        resource.IpAddress,
		Status:           resource.Status,
		RackID:           resource.RackId,
		Position:         deref(resource.Position),
		Height:           resource.Height,
		PowerConsumption: resource.PowerConsumption,
		Description:      resource.Description,
	}
}

func DeviceUpdateFormApi(resource api.DeviceUpdate) mappers.DeviceUpdateForm {
	return mappers.DeviceUpdateForm{
		Name:             resource.Name,
		Type:             resource.Type,
		Model:            resource.Model,
		SerialNumber:     resource.SerialNumber,
		IPAddress:        resource.IpAddress,
		Status:           resource.Status,
		RackID:           resource.RackId,
		Position:         resource.Position,
		Height:           resource.Height,
		PowerConsumption: resource.PowerConsumption,
		Description:      resource.Description,
	}
}

func NetworkCardFormApi(resource api.NetworkCardCreate) mappers.NetworkCardForm {
	return mappers.NetworkCardForm{
		ID:           deref(resource.Id),
		DeviceID:     resource.DeviceId,
		Name:         resource.Name,
		Description:  resource.Description,
		SlotNumber:   resource.SlotNumber,
		PortCount:    resource.PortCount,
		Model:        resource.Model,
		Manufacturer: resource.Manufacturer,
		Status:       resource.Status,
	}
}

func NetworkCardUpdateFormApi(resource api.NetworkCardUpdate) mappers.NetworkCardUpdateForm {
	return mappers.NetworkCardUpdateForm{
		Name:         resource.Name,
		Description:  resource.Description,
		SlotNumber:   resource.SlotNumber,
		PortCount:    resource.PortCount,
		Model:        resource.Model,
		Manufacturer: resource.Manufacturer,
		Status:       resource.Status,
	}
}

func PortFormApi(resource api.PortCreate) mappers.PortForm {
	return mappers.PortForm{
		ID:          deref(resource.Id),
		DeviceID:    resource.DeviceId,
		NicID:       resource.NicId,
		Name:        resource.Name,
		Type:        resource.Type,
		Speed:       resource.Speed,
		Status:      resource.Status,
		VlanID:      resource.VlanId,
		Description: resource.Description,
	}
}

func PortFormsApi(resources []api.PortCreate) []mappers.PortForm {
	forms := make([]mappers.PortForm, 0, len(resources))
	for _, r := range resources {
		forms = append(forms, PortFormApi(r))
	}
	return forms
}

func PortUpdateFormApi(resource api.PortUpdate) mappers.PortUpdateForm {
	return mappers.PortUpdateForm{
		DeviceID:    resource.DeviceId,
		NicID:       resource.NicId,
		Name:        resource.Name,
		Type:        resource.Type,
		Speed:       resource.Speed,
		Status:      resource.Status,
		VlanID:      resource.VlanId,
		Description: resource.Description,
	}
}

func CableFormApi(resource api.CableCreate) mappers.CableForm {
	return mappers.CableForm{
		ID:             deref(resource.Id),
		SourceDeviceID: resource.SourceDeviceId,
		SourcePort:     resource.SourcePort,
		TargetDeviceID: resource.TargetDeviceId,
		TargetPort:     resource.TargetPort,
		Type:           resource.CableType,
		Length:         resource.CableLength,
		Status:         resource.Status,
		Description:    resource.Description,
	}
}

func CableFormsApi(resources []api.CableCreate) []mappers.CableForm {
	forms := make([]mappers.CableForm, 0, len(resources))
	for _, r := range resources {
		forms = append(forms, CableFormApi(r))
	}
	return forms
}

func CableUpdateFormApi(resource api.CableUpdate) mappers.CableUpdateForm {
	return mappers.CableUpdateForm{
		SourceDeviceID: resource.SourceDeviceId,
		SourcePort:     resource.SourcePort,
		TargetDeviceID: resource.TargetDeviceId,
		TargetPort:     resource.TargetPort,
		Type:           resource.CableType,
		Length:         resource.CableLength,
		Status:         resource.Status,
		Description:    resource.Description,
	}
}

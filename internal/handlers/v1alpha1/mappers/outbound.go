package mappers

import (
	api "github.com/kubev2v/rack-planner/api/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/service"
	"github.com/kubev2v/rack-planner/internal/store/model"
)

func RoomToApi(room model.Room) api.Room {
	return api.Room{
		Id:          room.ID,
		Name:        room.Name,
		Location:    room.Location,
		Description: room.Description,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}

func RoomListToApi(rooms model.RoomList) api.RoomList {
	list := api.RoomList{}
	for _, r := range rooms {
		list = append(list, RoomToApi(r))
	}
	return list
}

func RackToApi(rack model.Rack) api.Rack {
	return api.Rack{
		Id:           rack.ID,
		Name:         rack.Name,
		RoomId:       rack.RoomID,
		Height:       rack.Height,
		MaxPower:     rack.MaxPower,
		CurrentPower: rack.CurrentPower,
		Status:       rack.Status,
		Description:  rack.Description,
		CreatedAt:    rack.CreatedAt,
		UpdatedAt:    rack.UpdatedAt,
	}
}

func RackListToApi(racks model.RackList, meta api.ListMeta) api.RackList {
	list := api.RackList{ListMeta: meta, Items: []api.Rack{}}
	for _, r := range racks {
		list.Items = append(list.Items, RackToApi(r))
	}
	return list
}

func RackViewToApi(view service.RackView) api.RackView {
	result := api.RackView{
		Rack:      RackToApi(view.Rack),
		Devices:   []api.Device{},
		Cables:    []api.Cable{},
		Occupancy: []api.UnitRange{},
		UsedUnits: view.UsedUnits,
		FreeUnits: view.FreeUnits,
	}
	for _, d := range view.Devices {
		result.Devices = append(result.Devices, DeviceToApi(d))
	}
	for _, c := range view.Cables {
		result.Cables = append(result.Cables, CableToApi(c))
	}
	for _, p := range view.Occupancy {
		result.Occupancy = append(result.Occupancy, api.UnitRange{DeviceId: p.DeviceID, Start: p.Range.Start, End: p.Range.End})
	}
	return result
}

func DeviceToApi(device model.Device) api.Device {
	return api.Device{
		Id:               device.ID,
		Name:             device.Name,
		Type:             string(device.Type),
		Model:            device.Model,
		SerialNumber:     device.SerialNumber,
		IpAddress:        device.IPAddress,
		Status:           device.Status,
		RackId:           device.RackID,
		Position:         device.Position,
		Height:           device.Height,
		PowerConsumption: device.PowerConsumption,
		Description:      device.Description,
		CreatedAt:        device.CreatedAt,
		UpdatedAt:        device.UpdatedAt,
	}
}

func DeviceListToApi(devices model.DeviceList, meta api.ListMeta) api.DeviceList {
	list := api.DeviceList{ListMeta: meta, Items: []api.Device{}}
	for _, d := range devices {
		list.Items = append(list.Items, DeviceToApi(d))
	}
	return list
}

func deviceSummaryToApi(device *model.Device) *api.DeviceSummary {
	if device == nil {
		return nil
	}
	summary := device.Summary()
	return &api.DeviceSummary{
		DeviceId: summary.ID,
		Name:     summary.Name,
		Type:     string(summary.Type),
		RackId:   summary.RackID,
	}
}

func NetworkCardToApi(nic model.NetworkCard) api.NetworkCard {
	return api.NetworkCard{
		Id:           nic.ID,
		DeviceId:     nic.DeviceID,
		Name:         nic.Name,
		Description:  nic.Description,
		SlotNumber:   nic.SlotNumber,
		PortCount:    nic.PortCount,
		Model:        nic.Model,
		Manufacturer: nic.Manufacturer,
		Status:       nic.Status,
		Device:       deviceSummaryToApi(nic.Device),
		CreatedAt:    nic.CreatedAt,
		UpdatedAt:    nic.UpdatedAt,
	}
}

func NetworkCardListToApi(nics model.NetworkCardList) api.NetworkCardList {
	list := api.NetworkCardList{}
	for _, n := range nics {
		list = append(list, NetworkCardToApi(n))
	}
	return list
}

func PortToApi(port model.Port) api.Port {
	return api.Port{
		Id:          port.ID,
		DeviceId:    port.DeviceID,
		NicId:       port.NicID,
		Name:        port.Name,
		Type:        port.Type,
		Speed:       port.Speed,
		Status:      string(port.Status),
		VlanId:      port.VlanID,
		Description: port.Description,
		Device:      deviceSummaryToApi(port.Device),
		CreatedAt:   port.CreatedAt,
		UpdatedAt:   port.UpdatedAt,
	}
}

func PortsToApi(ports model.PortList) []api.Port {
	items := []api.Port{}
	for _, p := range ports {
		items = append(items, PortToApi(p))
	}
	return items
}

func PortListToApi(ports model.PortList, meta api.ListMeta) api.PortList {
	return api.PortList{ListMeta: meta, Items: PortsToApi(ports)}
}

func PortGroupsToApi(groups []service.PortGroup) []api.NetworkCardWithPorts {
	result := []api.NetworkCardWithPorts{}
	for _, g := range groups {
		result = append(result, api.NetworkCardWithPorts{
			Id:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			SlotNumber:  g.SlotNumber,
			Status:      g.Status,
			IsUngrouped: g.Ungrouped,
			Ports:       PortsToApi(g.Ports),
			Stats: api.PortStats{
				Total:    g.Stats.Total,
				Free:     g.Stats.Free,
				Occupied: g.Stats.Occupied,
				Fault:    g.Stats.Fault,
			},
		})
	}
	return result
}

func CableToApi(cable model.Cable) api.Cable {
	return api.Cable{
		Id:             cable.ID,
		SourceDeviceId: cable.SourceDeviceID,
		SourcePort:     cable.SourcePort,
		TargetDeviceId: cable.TargetDeviceID,
		TargetPort:     cable.TargetPort,
		CableType:      cable.Type,
		CableLength:    cable.Length,
		Status:         cable.Status,
		Description:    cable.Description,
		SourceDevice:   deviceSummaryToApi(cable.SourceDevice),
		TargetDevice:   deviceSummaryToApi(cable.TargetDevice),
		CreatedAt:      cable.CreatedAt,
		UpdatedAt:      cable.UpdatedAt,
	}
}

func CablesToApi(cables model.CableList) []api.Cable {
	items := []api.Cable{}
	for _, c := range cables {
		items = append(items, CableToApi(c))
	}
	return items
}

func CableListToApi(cables model.CableList, meta api.ListMeta) api.CableList {
	return api.CableList{ListMeta: meta, Items: CablesToApi(cables)}
}

func BatchResultToApi(result service.BatchResult) api.BatchResult {
	out := api.BatchResult{
		Total:   result.Total,
		Success: result.Success,
		Failed:  result.Failed,
		Errors:  []api.BatchError{},
	}
	for _, e := range result.Errors {
		out.Errors = append(out.Errors, api.BatchError{Index: e.Index, Id: e.ID, Kind: e.Kind, Error: e.Error})
	}
	return out
}

func BatchDeleteResultToApi(result service.BatchDeleteResult) api.BatchDeleteResult {
	out := api.BatchDeleteResult{
		Total:   result.Total,
		Success: result.Success,
		Failed:  result.Failed,
		Items:   []api.BatchDeleteItem{},
	}
	for _, item := range result.Items {
		apiItem := api.BatchDeleteItem{Id: item.ID, Ok: item.OK}
		if !item.OK {
			kind, msg := item.Kind, item.Error
			apiItem.Kind = &kind
			apiItem.Error = &msg
		}
		out.Items = append(out.Items, apiItem)
	}
	return out
}

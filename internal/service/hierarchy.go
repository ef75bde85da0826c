package service

import (
	"context"
	"errors"

	"github.com/kubev2v/rack-planner/internal/events"
	"github.com/kubev2v/rack-planner/internal/service/mappers"
	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/internal/store/model"
	"github.com/thoas/go-funk"
)

const (
	UngroupedID   = "_ungrouped"
	UngroupedName = "Ungrouped ports"
)

// HierarchyService manages the network cards of a device and the ports hanging from them.
type HierarchyService struct {
	*inventory
}

type PortFilter struct {
	DeviceID string
	NicID    string
	Status   string
	Type     string
	Speed    string
	Page     int
	PageSize int
}

// PortGroup is one network card of a device with its ports.
type PortGroup struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	SlotNumber  *int               `json:"slotNumber,omitempty"`
	Status      string             `json:"status,omitempty"`
	Ungrouped   bool               `json:"isUngrouped"`
	NetworkCard *model.NetworkCard `json:"-"`
	Ports       model.PortList     `json:"-"`
	Stats       model.PortStats    `json:"stats"`
}

// BatchError describes an item rejected by a batch operation.
type BatchError struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type BatchResult struct {
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Errors  []BatchError `json:"errors"`
}

func (r *BatchResult) add(index int, id string, err error) {
	r.Total++
	if err == nil {
		r.Success++
		return
	}
	r.Failed++
	r.Errors = append(r.Errors, BatchError{Index: index, ID: id, Kind: Kind(err), Error: err.Error()})
}

// BatchItemResult is the outcome of one id of a batch delete.
type BatchItemResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Kind  string `json:"kind,omitempty"`
	Error string `json:"error,omitempty"`
}

type BatchDeleteResult struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Items   []BatchItemResult `json:"items"`
}

func (r *BatchDeleteResult) add(id string, err error) {
	r.Total++
	item := BatchItemResult{ID: id, OK: err == nil}
	if err != nil {
		r.Failed++
		item.Kind = Kind(err)
		item.Error = err.Error()
	} else {
		r.Success++
	}
	r.Items = append(r.Items, item)
}

/**
* Network cards
**/

func (h *HierarchyService) ListNetworkCards(ctx context.Context, deviceID string) (model.NetworkCardList, error) {
	filter := store.NewNetworkCardQueryFilter()
	if deviceID != "" {
		filter = filter.ByDeviceID(deviceID)
	}
	return h.store.NetworkCard().List(ctx, filter)
}

func (h *HierarchyService) GetNetworkCard(ctx context.Context, id string) (*model.NetworkCard, error) {
	nic, err := h.store.NetworkCard().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrNetworkCardNotFound(id)
		}
		return nil, err
	}
	return nic, nil
}

func (h *HierarchyService) ListNetworkCardPorts(ctx context.Context, id string) (model.PortList, error) {
	if _, err := h.GetNetworkCard(ctx, id); err != nil {
		return nil, err
	}
	return h.store.Port().List(ctx, store.NewPortQueryFilter().ByNicID(id), store.NewQueryOptions().WithOrder("name"))
}

func (h *HierarchyService) CreateNetworkCard(ctx context.Context, form mappers.NetworkCardForm) (result *model.NetworkCard, err error) {
	defer func() { h.record(moduleNetworkCard, "create", err) }()

	nic := form.ToNetworkCard()
	if err := validateNetworkCard(nic); err != nil {
		return nil, err
	}
	if nic.ID == "" {
		nic.ID = NewID(IDKindNetworkCard)
	}

	unlock := h.locker.Lock(deviceLockKey(nic.DeviceID))
	defer unlock()

	created, err := inTx(ctx, h.store, func(ctx context.Context) (*model.NetworkCard, error) {
		if err := h.deviceExists(ctx, nic.DeviceID); err != nil {
			return nil, err
		}
		if _, err := h.store.NetworkCard().Get(ctx, nic.ID); err == nil {
			return nil, NewErrNameConflict("network card", nic.ID)
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		if err := h.checkNetworkCardName(ctx, nic.DeviceID, nic.Name, ""); err != nil {
			return nil, err
		}

		created, err := h.store.NetworkCard().Create(ctx, nic)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, NewErrNameConflictOnDevice("network card", nic.Name, nic.DeviceID)
			}
			return nil, err
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	h.audit(ctx, events.ActionCreate, moduleNetworkCard, created.ID, nil, created)

	return created, nil
}

func (h *HierarchyService) UpdateNetworkCard(ctx context.Context, id string, form mappers.NetworkCardUpdateForm) (result *model.NetworkCard, err error) {
	defer func() { h.record(moduleNetworkCard, "update", err) }()

	current, err := h.GetNetworkCard(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := h.locker.Lock(deviceLockKey(current.DeviceID))
	defer unlock()

	var before model.NetworkCard
	updated, err := inTx(ctx, h.store, func(ctx context.Context) (*model.NetworkCard, error) {
		nic, err := h.GetNetworkCard(ctx, id)
		if err != nil {
			return nil, err
		}
		before = *nic
		before.Device = nil

		changed := before
		form.Apply(&changed)
		if err := validateNetworkCard(changed); err != nil {
			return nil, err
		}
		if changed.Name != before.Name {
			if err := h.checkNetworkCardName(ctx, changed.DeviceID, changed.Name, id); err != nil {
				return nil, err
			}
		}

		updated, err := h.store.NetworkCard().Update(ctx, changed)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, NewErrNameConflictOnDevice("network card", changed.Name, changed.DeviceID)
			}
			return nil, err
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	h.audit(ctx, events.ActionUpdate, moduleNetworkCard, id, before, updated)

	return updated, nil
}

// DeleteNetworkCard removes a card without ports.
func (h *HierarchyService) DeleteNetworkCard(ctx context.Context, id string) (err error) {
	defer func() { h.record(moduleNetworkCard, "delete", err) }()

	current, err := h.GetNetworkCard(ctx, id)
	if err != nil {
		return err
	}

	unlock := h.locker.Lock(deviceLockKey(current.DeviceID))
	defer unlock()

	_, err = inTx(ctx, h.store, func(ctx context.Context) (any, error) {
		count, err := h.store.Port().Count(ctx, store.NewPortQueryFilter().ByNicID(id))
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, NewErrHasDependents("network card", id, count, "ports")
		}
		if err := h.store.NetworkCard().Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrNetworkCardNotFound(id)
			}
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	current.Device = nil
	h.audit(ctx, events.ActionDelete, moduleNetworkCard, id, current, nil)

	return nil
}

/**
* Ports
**/

func (h *HierarchyService) ListPorts(ctx context.Context, filter PortFilter) (model.PortList, int64, error) {
	f := store.NewPortQueryFilter()
	if filter.DeviceID != "" {
		f = f.ByDeviceID(filter.DeviceID)
	}
	if filter.NicID != "" {
		f = f.ByNicID(filter.NicID)
	}
	if filter.Status != "" {
		f = f.ByStatus(filter.Status)
	}
	if filter.Type != "" {
		f = f.ByType(filter.Type)
	}
	if filter.Speed != "" {
		f = f.BySpeed(filter.Speed)
	}

	total, err := h.store.Port().Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	ports, err := h.store.Port().List(ctx, f, store.NewQueryOptions().WithOrder("device_id").WithOrder("name").WithPage(filter.Page, filter.PageSize))
	if err != nil {
		return nil, 0, err
	}
	return ports, total, nil
}

func (h *HierarchyService) ListDevicePorts(ctx context.Context, deviceID string) (model.PortList, error) {
	if err := h.deviceExists(ctx, deviceID); err != nil {
		return nil, err
	}
	return h.store.Port().List(ctx, store.NewPortQueryFilter().ByDeviceID(deviceID), store.NewQueryOptions().WithOrder("name"))
}

func (h *HierarchyService) GetPort(ctx context.Context, id string) (*model.Port, error) {
	port, err := h.store.Port().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPortNotFound(id)
		}
		return nil, err
	}
	return port, nil
}

func (h *HierarchyService) CreatePort(ctx context.Context, form mappers.PortForm) (result *model.Port, err error) {
	defer func() { h.record(modulePort, "create", err) }()

	port := form.ToPort()
	if err := validatePort(port); err != nil {
		return nil, err
	}
	if port.ID == "" {
		port.ID = NewID(IDKindPort)
	}

	// the initial status depends on the cable graph
	unlock := h.locker.Lock(deviceLockKey(port.DeviceID), cablesLockKey)
	defer unlock()

	created, err := inTx(ctx, h.store, func(ctx context.Context) (*model.Port, error) {
		return h.createPort(ctx, port)
	})
	if err != nil {
		return nil, err
	}

	created.Device = nil
	h.audit(ctx, events.ActionCreate, modulePort, created.ID, nil, created)

	return created, nil
}

func (h *HierarchyService) createPort(ctx context.Context, port model.Port) (*model.Port, error) {
	if err := h.deviceExists(ctx, port.DeviceID); err != nil {
		return nil, err
	}
	if _, err := h.store.Port().Get(ctx, port.ID); err == nil {
		return nil, NewErrNameConflict("port", port.ID)
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}
	if err := h.checkPortName(ctx, port.DeviceID, port.Name, ""); err != nil {
		return nil, err
	}
	if port.NicID != nil {
		if err := h.checkNetworkCardOwner(ctx, *port.NicID, port.DeviceID); err != nil {
			return nil, err
		}
	}

	// a port declared on an endpoint that is already cabled starts occupied
	if port.Status == model.PortStatusFree {
		if _, err := h.store.Cable().EndpointOwner(ctx, model.Endpoint{DeviceID: port.DeviceID, PortName: port.Name}); err == nil {
			port.Status = model.PortStatusOccupied
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
	}

	created, err := h.store.Port().Create(ctx, port)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrNameConflictOnDevice("port", port.Name, port.DeviceID)
		}
		return nil, err
	}
	return created, nil
}

// CreatePortsBatch creates every port in its own transaction. A failing item
// does not stop the others.
func (h *HierarchyService) CreatePortsBatch(ctx context.Context, forms []mappers.PortForm) BatchResult {
	result := BatchResult{Errors: []BatchError{}}
	for i, form := range forms {
		if form.ID == "" {
			form.ID = NewID(IDKindPort)
		}
		_, err := h.CreatePort(ctx, form)
		result.add(i+1, form.ID, err)
	}
	return result
}

func (h *HierarchyService) UpdatePort(ctx context.Context, id string, form mappers.PortUpdateForm) (result *model.Port, err error) {
	defer func() { h.record(modulePort, "update", err) }()

	current, err := h.GetPort(ctx, id)
	if err != nil {
		return nil, err
	}
	if form.DeviceID != nil && *form.DeviceID != current.DeviceID {
		return nil, NewErrValidation("port %s cannot be moved from device %s to %s", id, current.DeviceID, *form.DeviceID)
	}

	unlock := h.locker.Lock(deviceLockKey(current.DeviceID), cablesLockKey)
	defer unlock()

	var before model.Port
	updated, err := inTx(ctx, h.store, func(ctx context.Context) (*model.Port, error) {
		port, err := h.GetPort(ctx, id)
		if err != nil {
			return nil, err
		}
		before = *port
		before.Device = nil

		changed := before
		form.Apply(&changed)
		if err := validatePort(changed); err != nil {
			return nil, err
		}

		if changed.Name != before.Name {
			if err := h.checkPortName(ctx, changed.DeviceID, changed.Name, id); err != nil {
				return nil, err
			}
			// cables reference ports by name
			endpoint := model.Endpoint{DeviceID: before.DeviceID, PortName: before.Name}
			if cableID, err := h.store.Cable().EndpointOwner(ctx, endpoint); err == nil {
				return nil, NewErrPortOccupied(endpoint, cableID)
			} else if !errors.Is(err, store.ErrRecordNotFound) {
				return nil, err
			}
		}
		if changed.Status != before.Status {
			if err := h.checkPortStatus(ctx, before, changed.Status); err != nil {
				return nil, err
			}
		}
		if changed.NicID != nil && (before.NicID == nil || *before.NicID != *changed.NicID) {
			if err := h.checkNetworkCardOwner(ctx, *changed.NicID, changed.DeviceID); err != nil {
				return nil, err
			}
		}

		updated, err := h.store.Port().Update(ctx, changed)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, NewErrNameConflictOnDevice("port", changed.Name, changed.DeviceID)
			}
			return nil, err
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	updated.Device = nil
	h.audit(ctx, events.ActionUpdate, modulePort, id, before, updated)

	return updated, nil
}

func (h *HierarchyService) DeletePort(ctx context.Context, id string) (err error) {
	defer func() { h.record(modulePort, "delete", err) }()

	current, err := h.GetPort(ctx, id)
	if err != nil {
		return err
	}

	unlock := h.locker.Lock(deviceLockKey(current.DeviceID))
	defer unlock()

	_, err = inTx(ctx, h.store, func(ctx context.Context) (any, error) {
		if err := h.store.Port().Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrPortNotFound(id)
			}
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	current.Device = nil
	h.audit(ctx, events.ActionDelete, modulePort, id, current, nil)

	return nil
}

func (h *HierarchyService) DeletePortsBatch(ctx context.Context, ids []string) BatchDeleteResult {
	result := BatchDeleteResult{Items: []BatchItemResult{}}
	for _, id := range ids {
		result.add(id, h.DeletePort(ctx, id))
	}
	return result
}

// ListPortsGroupedByNIC returns the device's cards ordered by slot then name,
// followed by a synthetic group holding the ports without a card.
func (h *HierarchyService) ListPortsGroupedByNIC(ctx context.Context, deviceID string) ([]PortGroup, error) {
	if err := h.deviceExists(ctx, deviceID); err != nil {
		return nil, err
	}

	nics, err := h.store.NetworkCard().List(ctx, store.NewNetworkCardQueryFilter().ByDeviceID(deviceID))
	if err != nil {
		return nil, err
	}
	ports, err := h.store.Port().List(ctx, store.NewPortQueryFilter().ByDeviceID(deviceID), store.NewQueryOptions().WithOrder("name"))
	if err != nil {
		return nil, err
	}

	byNic := make(map[string]model.PortList, len(nics))
	ungrouped := model.PortList{}
	for _, p := range ports {
		if p.NicID == nil {
			ungrouped = append(ungrouped, p)
			continue
		}
		byNic[*p.NicID] = append(byNic[*p.NicID], p)
	}

	groups := make([]PortGroup, 0, len(nics)+1)
	for i := range nics {
		nic := nics[i]
		nicPorts := byNic[nic.ID]
		if nicPorts == nil {
			nicPorts = model.PortList{}
		}
		groups = append(groups, PortGroup{
			ID:          nic.ID,
			Name:        nic.Name,
			Description: nic.Description,
			SlotNumber:  nic.SlotNumber,
			Status:      nic.Status,
			NetworkCard: &nic,
			Ports:       nicPorts,
			Stats:       nicPorts.Stats(),
		})
	}

	if len(ungrouped) > 0 {
		groups = append(groups, PortGroup{
			ID:        UngroupedID,
			Name:      UngroupedName,
			Ungrouped: true,
			Ports:     ungrouped,
			Stats:     ungrouped.Stats(),
		})
	}

	return groups, nil
}

func (h *HierarchyService) deviceExists(ctx context.Context, deviceID string) error {
	if _, err := h.store.Device().Get(ctx, deviceID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrDeviceNotFound(deviceID)
		}
		return err
	}
	return nil
}

func (h *HierarchyService) checkPortName(ctx context.Context, deviceID, name, selfID string) error {
	ports, err := h.store.Port().List(ctx, store.NewPortQueryFilter().ByDeviceID(deviceID).ByName(name), nil)
	if err != nil {
		return err
	}
	for _, p := range ports {
		if p.ID != selfID {
			return NewErrNameConflictOnDevice("port", name, deviceID)
		}
	}
	return nil
}

// checkPortStatus accepts a manual status change only when it agrees with the
// cable graph. Any port may be marked fault; leaving fault the port must take
// occupied when a cable holds its endpoint and free otherwise.
func (h *HierarchyService) checkPortStatus(ctx context.Context, port model.Port, status model.PortStatus) error {
	if status == model.PortStatusFault {
		return nil
	}

	endpoint := model.Endpoint{DeviceID: port.DeviceID, PortName: port.Name}
	cableID, err := h.store.Cable().EndpointOwner(ctx, endpoint)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		if status == model.PortStatusOccupied {
			return NewErrValidation("port %s has no cable and cannot be %s", endpoint, status)
		}
	case err != nil:
		return err
	case status == model.PortStatusFree:
		return NewErrValidation("port %s is connected by cable %s and cannot be %s", endpoint, cableID, status)
	}
	return nil
}

func (h *HierarchyService) checkNetworkCardName(ctx context.Context, deviceID, name, selfID string) error {
	nics, err := h.store.NetworkCard().List(ctx, store.NewNetworkCardQueryFilter().ByDeviceID(deviceID).ByName(name))
	if err != nil {
		return err
	}
	for _, n := range nics {
		if n.ID != selfID {
			return NewErrNameConflictOnDevice("network card", name, deviceID)
		}
	}
	return nil
}

func (h *HierarchyService) checkNetworkCardOwner(ctx context.Context, nicID, deviceID string) error {
	nic, err := h.GetNetworkCard(ctx, nicID)
	if err != nil {
		return err
	}
	if nic.DeviceID != deviceID {
		return NewErrValidation("network card %s belongs to device %s, not %s", nicID, nic.DeviceID, deviceID)
	}
	return nil
}

func validateNetworkCard(n model.NetworkCard) error {
	missing := []string{}
	if n.DeviceID == "" {
		missing = append(missing, "deviceId")
	}
	if n.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return NewErrMissingFields(missing...)
	}
	if n.PortCount < 0 {
		return NewErrValidation("network card port count cannot be negative")
	}
	if !funk.ContainsString(model.NetworkCardStatuses, n.Status) {
		return NewErrValidation("invalid network card status %q", n.Status)
	}
	return nil
}

func validatePort(p model.Port) error {
	missing := []string{}
	if p.DeviceID == "" {
		missing = append(missing, "deviceId")
	}
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return NewErrMissingFields(missing...)
	}

	switch {
	case !funk.ContainsString(model.PortTypes, p.Type):
		return NewErrValidation("invalid port type %q", p.Type)
	case !funk.ContainsString(model.PortSpeeds, p.Speed):
		return NewErrValidation("invalid port speed %q", p.Speed)
	case !funk.ContainsString(model.PortStatuses, string(p.Status)):
		return NewErrValidation("invalid port status %q", p.Status)
	}
	if p.VlanID != nil && (*p.VlanID < 1 || *p.VlanID > 4094) {
		return NewErrValidation("vlan id %d is out of range", *p.VlanID)
	}
	return nil
}

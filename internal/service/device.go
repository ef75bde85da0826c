package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kubev2v/rack-planner/internal/events"
	"github.com/kubev2v/rack-planner/internal/service/mappers"
	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/internal/store/model"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
)

// maxLockAttempts bounds how often an operation re-reads a record whose
// lock keys changed while it was waiting for them.
const maxLockAttempts = 3

type DeviceService struct {
	*inventory
	allocator *RackSlotAllocator
	power     *PowerTracker
}

type DeviceFilter struct {
	Keyword  string
	Status   string
	Type     string
	RackID   string
	Page     int
	PageSize int
}

type DeleteDeviceOptions struct {
	// Cascade removes the device's cables, ports and network cards with it.
	Cascade bool
}

func (s *DeviceService) ListDevices(ctx context.Context, filter DeviceFilter) (model.DeviceList, int64, error) {
	f := store.NewDeviceQueryFilter()
	if filter.Keyword != "" {
		f = f.ByKeyword(filter.Keyword)
	}
	if filter.Status != "" {
		f = f.ByStatus(filter.Status)
	}
	if filter.Type != "" {
		f = f.ByType(filter.Type)
	}
	if filter.RackID != "" {
		f = f.ByRackID(filter.RackID)
	}

	total, err := s.store.Device().Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	devices, err := s.store.Device().List(ctx, f, store.NewQueryOptions().WithOrder("rack_id").WithOrder("position").WithPage(filter.Page, filter.PageSize))
	if err != nil {
		return nil, 0, err
	}

	return devices, total, nil
}

func (s *DeviceService) GetDevice(ctx context.Context, id string) (*model.Device, error) {
	device, err := s.store.Device().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrDeviceNotFound(id)
		}
		return nil, err
	}
	return device, nil
}

// CreateDevice mounts a new device in its rack and adds its consumption to the rack power.
func (s *DeviceService) CreateDevice(ctx context.Context, form mappers.DeviceForm) (result *model.Device, err error) {
	defer func() { s.record(moduleDevice, "create", err) }()

	device := form.ToDevice()
	if err := validateDevice(device, form.Position == 0); err != nil {
		return nil, err
	}
	if device.ID == "" {
		device.ID = NewID(IDKindDevice)
	}

	unlock := s.locker.Lock(rackLockKey(device.RackID), deviceLockKey(device.ID))
	defer unlock()

	created, err := inTx(ctx, s.store, func(ctx context.Context) (*model.Device, error) {
		if _, err := s.store.Device().Get(ctx, device.ID); err == nil {
			return nil, NewErrNameConflict("device", device.ID)
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}

		if device.Position == 0 {
			position, err := s.allocator.FindFree(ctx, device.RackID, device.Height)
			if err != nil {
				return nil, err
			}
			device.Position = position
		}

		if err := s.allocator.Place(ctx, device.RackID, device.ID, device.Position, device.Height); err != nil {
			return nil, err
		}

		created, err := s.store.Device().Create(ctx, device)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, NewErrNameConflict("device", device.ID)
			}
			return nil, err
		}

		if _, err := s.power.ApplyDelta(ctx, device.RackID, device.PowerConsumption); err != nil {
			return nil, err
		}

		return created, nil
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, events.ActionCreate, moduleDevice, created.ID, nil, created)

	return created, nil
}

// UpdateDevice changes the device attributes. Moves are checked against the target
// rack occupancy and the power of both racks is recomputed.
func (s *DeviceService) UpdateDevice(ctx context.Context, id string, form mappers.DeviceUpdateForm) (result *model.Device, err error) {
	defer func() { s.record(moduleDevice, "update", err) }()

	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		current, err := s.GetDevice(ctx, id)
		if err != nil {
			return nil, err
		}

		targetRackID := current.RackID
		if form.RackID != nil {
			targetRackID = *form.RackID
		}

		unlock := s.locker.Lock(rackLockKey(current.RackID), rackLockKey(targetRackID), deviceLockKey(id))
		result, err = s.updateDevice(ctx, id, current.RackID, form)
		unlock()

		if errors.Is(err, errLockKeysChanged) {
			continue
		}
		return result, err
	}

	return nil, fmt.Errorf("device %s kept moving while waiting for its racks", id)
}

var errLockKeysChanged = errors.New("lock keys changed")

func (s *DeviceService) updateDevice(ctx context.Context, id, lockedRackID string, form mappers.DeviceUpdateForm) (*model.Device, error) {
	var before model.Device

	updated, err := inTx(ctx, s.store, func(ctx context.Context) (*model.Device, error) {
		current, err := s.store.Device().Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrDeviceNotFound(id)
			}
			return nil, err
		}
		if current.RackID != lockedRackID {
			return nil, errLockKeysChanged
		}
		before = *current
		before.Rack = nil

		device := before
		form.Apply(&device)
		if err := validateDevice(device, false); err != nil {
			return nil, err
		}

		moved := device.RackID != before.RackID
		if moved {
			if err := s.allocator.Release(ctx, before.RackID, id); err != nil {
				return nil, err
			}
		}
		if moved || device.Position != before.Position || device.Height != before.Height {
			if err := s.allocator.Place(ctx, device.RackID, id, device.Position, device.Height); err != nil {
				return nil, err
			}
		}

		updated, err := s.store.Device().Update(ctx, device)
		if err != nil {
			return nil, err
		}

		switch {
		case moved:
			if _, err := s.power.ApplyDelta(ctx, before.RackID, -before.PowerConsumption); err != nil {
				return nil, err
			}
			if _, err := s.power.ApplyDelta(ctx, device.RackID, device.PowerConsumption); err != nil {
				return nil, err
			}
		case device.PowerConsumption != before.PowerConsumption:
			if _, err := s.power.ApplyDelta(ctx, device.RackID, device.PowerConsumption-before.PowerConsumption); err != nil {
				return nil, err
			}
		}

		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, events.ActionUpdate, moduleDevice, id, before, updated)

	return updated, nil
}

// DeleteDevice unmounts the device. Without Cascade the call is rejected while
// ports, network cards or cables still reference the device.
func (s *DeviceService) DeleteDevice(ctx context.Context, id string, opts DeleteDeviceOptions) (err error) {
	defer func() { s.record(moduleDevice, "delete", err) }()

	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		current, err := s.GetDevice(ctx, id)
		if err != nil {
			return err
		}

		unlock := s.locker.Lock(rackLockKey(current.RackID), deviceLockKey(id), cablesLockKey)
		err = s.deleteDevice(ctx, id, current.RackID, opts)
		unlock()

		if errors.Is(err, errLockKeysChanged) {
			continue
		}
		return err
	}

	return fmt.Errorf("device %s kept moving while waiting for its rack", id)
}

func (s *DeviceService) deleteDevice(ctx context.Context, id, lockedRackID string, opts DeleteDeviceOptions) error {
	var (
		deleted       model.Device
		removedCables model.CableList
	)

	_, err := inTx(ctx, s.store, func(ctx context.Context) (any, error) {
		device, err := s.store.Device().Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrDeviceNotFound(id)
			}
			return nil, err
		}
		if device.RackID != lockedRackID {
			return nil, errLockKeysChanged
		}
		deleted = *device
		deleted.Rack = nil

		ports, err := s.store.Port().Count(ctx, store.NewPortQueryFilter().ByDeviceID(id))
		if err != nil {
			return nil, err
		}
		nics, err := s.store.NetworkCard().Count(ctx, store.NewNetworkCardQueryFilter().ByDeviceID(id))
		if err != nil {
			return nil, err
		}
		cables, err := s.store.Cable().List(ctx, store.NewCableQueryFilter().ByDeviceID(id), nil)
		if err != nil {
			return nil, err
		}

		if dependents := ports + nics + int64(len(cables)); dependents > 0 {
			if !opts.Cascade {
				return nil, &ErrHasDependents{
					error: fmt.Errorf("device %s still has %d ports, %d network cards and %d cables", id, ports, nics, len(cables)),
					Count: dependents,
				}
			}

			for _, cable := range cables {
				if err := disconnectCable(ctx, s.store, cable); err != nil {
					return nil, err
				}
			}
			removedCables = cables

			if _, err := s.store.Port().DeleteByDevice(ctx, id); err != nil {
				return nil, err
			}
			if _, err := s.store.NetworkCard().DeleteByDevice(ctx, id); err != nil {
				return nil, err
			}
			zap.S().Named("device_service").Infow("cascade delete", "device", id, "ports", ports, "nics", nics, "cables", len(cables))
		}

		if err := s.allocator.Release(ctx, device.RackID, id); err != nil {
			return nil, err
		}
		if err := s.store.Device().Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrDeviceNotFound(id)
			}
			return nil, err
		}
		if _, err := s.power.ApplyDelta(ctx, device.RackID, -device.PowerConsumption); err != nil {
			return nil, err
		}

		return nil, nil
	})
	if err != nil {
		return err
	}

	for _, cable := range removedCables {
		s.audit(ctx, events.ActionDelete, moduleCable, cable.ID, cableView(cable), nil)
	}
	s.audit(ctx, events.ActionDelete, moduleDevice, id, deleted, nil)

	return nil
}

func validateDevice(d model.Device, positionOptional bool) error {
	missing := []string{}
	if d.Name == "" {
		missing = append(missing, "name")
	}
	if d.RackID == "" {
		missing = append(missing, "rackId")
	}
	if len(missing) > 0 {
		return NewErrMissingFields(missing...)
	}

	if !funk.ContainsString(model.DeviceTypes, string(d.Type)) {
		return NewErrValidation("invalid device type %q", d.Type)
	}
	if !funk.ContainsString(model.DeviceStatuses, d.Status) {
		return NewErrValidation("invalid device status %q", d.Status)
	}
	if d.Height < 1 {
		return NewErrValidation("device height must be at least 1U, got %d", d.Height)
	}
	if d.Position < 1 && !(positionOptional && d.Position == 0) {
		return NewErrValidation("device position must be at least 1, got %d", d.Position)
	}
	if d.PowerConsumption < 0 {
		return NewErrValidation("device power consumption cannot be negative")
	}
	return nil
}

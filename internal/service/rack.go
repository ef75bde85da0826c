package service

import (
	"context"
	"errors"

	"github.com/kubev2v/rack-planner/internal/events"
	"github.com/kubev2v/rack-planner/internal/service/mappers"
	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/internal/store/model"
)

type RoomService struct {
	*inventory
}

func (r *RoomService) ListRooms(ctx context.Context) (model.RoomList, error) {
	return r.store.Room().List(ctx, nil)
}

func (r *RoomService) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	room, err := r.store.Room().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrRoomNotFound(id)
		}
		return nil, err
	}
	return room, nil
}

func (r *RoomService) CreateRoom(ctx context.Context, form mappers.RoomForm) (result *model.Room, err error) {
	defer func() { r.record(moduleRoom, "create", err) }()

	room := form.ToRoom()
	if room.Name == "" {
		return nil, NewErrMissingFields("name")
	}
	if room.ID == "" {
		room.ID = NewID(IDKindRoom)
	}

	created, err := inTx(ctx, r.store, func(ctx context.Context) (*model.Room, error) {
		if _, err := r.store.Room().Get(ctx, room.ID); err == nil {
			return nil, NewErrNameConflict("room", room.ID)
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}

		created, err := r.store.Room().Create(ctx, room)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, NewErrNameConflict("room", room.Name)
			}
			return nil, err
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	r.audit(ctx, events.ActionCreate, moduleRoom, created.ID, nil, created)

	return created, nil
}

// DeleteRoom removes a room without racks.
func (r *RoomService) DeleteRoom(ctx context.Context, id string) (err error) {
	defer func() { r.record(moduleRoom, "delete", err) }()

	unlock := r.locker.Lock(roomLockKey(id))
	defer unlock()

	var deleted *model.Room
	_, err = inTx(ctx, r.store, func(ctx context.Context) (any, error) {
		room, err := r.GetRoom(ctx, id)
		if err != nil {
			return nil, err
		}
		deleted = room

		count, err := r.store.Rack().Count(ctx, store.NewRackQueryFilter().ByRoomID(id))
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, NewErrHasDependents("room", id, count, "racks")
		}

		if err := r.store.Room().Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrRoomNotFound(id)
			}
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	r.audit(ctx, events.ActionDelete, moduleRoom, id, deleted, nil)

	return nil
}

type RackService struct {
	*inventory
	allocator *RackSlotAllocator
}

type RackFilter struct {
	RoomID   string
	Page     int
	PageSize int
}

// RackView is the rack with its mounted devices ordered by position and the
// cables touching them.
type RackView struct {
	Rack      model.Rack
	Devices   model.DeviceList
	Cables    model.CableList
	Occupancy []Placement
	UsedUnits int
	FreeUnits int
}

func (r *RackService) ListRacks(ctx context.Context, filter RackFilter) (model.RackList, int64, error) {
	f := store.NewRackQueryFilter()
	if filter.RoomID != "" {
		f = f.ByRoomID(filter.RoomID)
	}

	total, err := r.store.Rack().Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	racks, err := r.store.Rack().List(ctx, f, store.NewQueryOptions().WithPage(filter.Page, filter.PageSize))
	if err != nil {
		return nil, 0, err
	}
	return racks, total, nil
}

func (r *RackService) GetRack(ctx context.Context, id string) (*model.Rack, error) {
	rack, err := r.store.Rack().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrRackNotFound(id)
		}
		return nil, err
	}
	return rack, nil
}

func (r *RackService) CreateRack(ctx context.Context, form mappers.RackForm) (result *model.Rack, err error) {
	defer func() { r.record(moduleRack, "create", err) }()

	rack := form.ToRack()
	if rack.Height == 0 {
		rack.Height = r.defaultRackHeight
	}
	if err := validateRack(rack); err != nil {
		return nil, err
	}
	if rack.ID == "" {
		rack.ID = NewID(IDKindRack)
	}
	rack.CurrentPower = 0

	unlock := r.locker.Lock(rackLockKey(rack.ID), roomLockKey(rack.RoomID))
	defer unlock()

	created, err := inTx(ctx, r.store, func(ctx context.Context) (*model.Rack, error) {
		if _, err := r.store.Room().Get(ctx, rack.RoomID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrRoomNotFound(rack.RoomID)
			}
			return nil, err
		}
		if _, err := r.store.Rack().Get(ctx, rack.ID); err == nil {
			return nil, NewErrNameConflict("rack", rack.ID)
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}

		created, err := r.store.Rack().Create(ctx, rack)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, NewErrNameConflict("rack", rack.ID)
			}
			return nil, err
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	r.audit(ctx, events.ActionCreate, moduleRack, created.ID, nil, created)

	return created, nil
}

// UpdateRack changes the rack attributes. The height can only shrink down to
// the top unit of the highest mounted device.
func (r *RackService) UpdateRack(ctx context.Context, id string, form mappers.RackUpdateForm) (result *model.Rack, err error) {
	defer func() { r.record(moduleRack, "update", err) }()

	// a rack moving to another room holds that room until committed
	keys := []string{rackLockKey(id)}
	if form.RoomID != nil {
		keys = append(keys, roomLockKey(*form.RoomID))
	}
	unlock := r.locker.Lock(keys...)
	defer unlock()

	var before model.Rack
	updated, err := inTx(ctx, r.store, func(ctx context.Context) (*model.Rack, error) {
		current, err := r.store.Rack().GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrRackNotFound(id)
			}
			return nil, err
		}
		before = *current

		changed := before
		form.Apply(&changed)
		if err := validateRack(changed); err != nil {
			return nil, err
		}

		if changed.RoomID != before.RoomID {
			if _, err := r.store.Room().Get(ctx, changed.RoomID); err != nil {
				if errors.Is(err, store.ErrRecordNotFound) {
					return nil, NewErrRoomNotFound(changed.RoomID)
				}
				return nil, err
			}
		}

		if changed.Height < before.Height {
			occupied, err := r.allocator.Occupancy(ctx, id)
			if err != nil {
				return nil, err
			}
			for _, p := range occupied {
				if p.Range.End > changed.Height {
					conflict := NewErrSlotOutOfBounds(id, p.Range, changed.Height)
					conflict.ConflictsWith = p.DeviceID
					return nil, conflict
				}
			}
		}

		return r.store.Rack().Update(ctx, changed)
	})
	if err != nil {
		return nil, err
	}

	r.audit(ctx, events.ActionUpdate, moduleRack, id, before, updated)

	return updated, nil
}

// DeleteRack removes an empty rack.
func (r *RackService) DeleteRack(ctx context.Context, id string) (err error) {
	defer func() { r.record(moduleRack, "delete", err) }()

	unlock := r.locker.Lock(rackLockKey(id))
	defer unlock()

	var deleted *model.Rack
	_, err = inTx(ctx, r.store, func(ctx context.Context) (any, error) {
		rack, err := r.GetRack(ctx, id)
		if err != nil {
			return nil, err
		}
		deleted = rack

		count, err := r.store.Device().Count(ctx, store.NewDeviceQueryFilter().ByRackID(id))
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, NewErrHasDependents("rack", id, count, "devices")
		}

		if err := r.store.Rack().Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrRackNotFound(id)
			}
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	r.audit(ctx, events.ActionDelete, moduleRack, id, deleted, nil)

	return nil
}

// GetRackView returns what is needed to draw the rack front view.
func (r *RackService) GetRackView(ctx context.Context, id string) (*RackView, error) {
	rack, err := r.GetRack(ctx, id)
	if err != nil {
		return nil, err
	}

	devices, err := r.store.Device().List(ctx, store.NewDeviceQueryFilter().ByRackID(id), store.NewQueryOptions().WithOrder("position"))
	if err != nil {
		return nil, err
	}

	cables := model.CableList{}
	if len(devices) > 0 {
		ids := make([]string, 0, len(devices))
		for _, d := range devices {
			ids = append(ids, d.ID)
		}
		cables, err = r.store.Cable().List(ctx, store.NewCableQueryFilter().ByDeviceIDs(ids), store.NewQueryOptions().WithOrder("id"))
		if err != nil {
			return nil, err
		}
	}

	occupancy := placements(devices, "")
	used := 0
	for _, p := range occupancy {
		used += p.Range.Height()
	}

	return &RackView{
		Rack:      *rack,
		Devices:   devices,
		Cables:    cables,
		Occupancy: occupancy,
		UsedUnits: used,
		FreeUnits: rack.Height - used,
	}, nil
}

func validateRack(rack model.Rack) error {
	missing := []string{}
	if rack.Name == "" {
		missing = append(missing, "name")
	}
	if rack.RoomID == "" {
		missing = append(missing, "roomId")
	}
	if len(missing) > 0 {
		return NewErrMissingFields(missing...)
	}
	if rack.Height < 1 {
		return NewErrValidation("rack height must be at least 1U, got %d", rack.Height)
	}
	if rack.MaxPower < 0 {
		return NewErrValidation("rack max power cannot be negative")
	}
	return nil
}

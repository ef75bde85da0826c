package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/internal/store/model"
)

// Range is an inclusive span of rack units.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func NewRange(position, height int) Range {
	return Range{Start: position, End: position + height - 1}
}

func (r Range) Height() int {
	return r.End - r.Start + 1
}

// Overlaps reports whether two inclusive ranges share at least one unit.
func (r Range) Overlaps(o Range) bool {
	return r.Start <= o.End && o.Start <= r.End
}

func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("U%d", r.Start)
	}
	return fmt.Sprintf("U%d-U%d", r.Start, r.End)
}

// Placement is the range held by a device in a rack.
type Placement struct {
	DeviceID string `json:"deviceId"`
	Range    Range  `json:"range"`
}

// CheckPlacement validates candidate against the rack bounds and the ranges already held.
func CheckPlacement(rackID string, rackHeight int, occupied []Placement, candidate Range) error {
	if candidate.Start < 1 || candidate.End > rackHeight || candidate.End < candidate.Start {
		return NewErrSlotOutOfBounds(rackID, candidate, rackHeight)
	}
	for _, p := range occupied {
		if p.Range.Overlaps(candidate) {
			return NewErrSlotOccupied(rackID, candidate, p)
		}
	}
	return nil
}

// FirstFit returns the lowest position where height units are free.
func FirstFit(rackHeight int, occupied []Placement, height int) (int, bool) {
	if height < 1 {
		return 0, false
	}
	sorted := make([]Placement, len(occupied))
	copy(sorted, occupied)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Range.Start < sorted[j].Range.Start })

	position := 1
	for _, p := range sorted {
		if NewRange(position, height).Overlaps(p.Range) {
			if p.Range.End+1 > position {
				position = p.Range.End + 1
			}
			continue
		}
		if p.Range.Start > position {
			break
		}
	}
	if position+height-1 > rackHeight {
		return 0, false
	}
	return position, true
}

// RackSlotAllocator keeps the rack unit occupancy free of overlaps.
// Every method expects the caller to hold the rack lock and a transaction in ctx.
type RackSlotAllocator struct {
	store store.Store
}

func NewRackSlotAllocator(s store.Store) *RackSlotAllocator {
	return &RackSlotAllocator{store: s}
}

// Place reserves [position, position+height-1] of the rack for the device.
// The device's current range in the rack, if any, is ignored and replaced.
func (a *RackSlotAllocator) Place(ctx context.Context, rackID, deviceID string, position, height int) error {
	if height < 1 {
		return NewErrValidation("device height must be at least 1U, got %d", height)
	}

	rack, err := a.store.Rack().GetForUpdate(ctx, rackID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrRackNotFound(rackID)
		}
		return err
	}

	occupied, err := a.occupancy(ctx, rackID, deviceID)
	if err != nil {
		return err
	}

	candidate := NewRange(position, height)
	if err := CheckPlacement(rackID, rack.Height, occupied, candidate); err != nil {
		return err
	}

	if err := a.store.Slot().Release(ctx, rackID, deviceID); err != nil {
		return err
	}
	if err := a.store.Slot().Occupy(ctx, rackID, deviceID, candidate.Start, candidate.End); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return &ErrSlotConflict{
				error:  fmt.Errorf("units %s of rack %s are already reserved", candidate, rackID),
				RackID: rackID,
			}
		}
		return err
	}

	return nil
}

// Release frees every unit held by the device in the rack. Releasing an absent device is a no-op.
func (a *RackSlotAllocator) Release(ctx context.Context, rackID, deviceID string) error {
	return a.store.Slot().Release(ctx, rackID, deviceID)
}

// Occupancy lists the ranges held in the rack ordered by position.
func (a *RackSlotAllocator) Occupancy(ctx context.Context, rackID string) ([]Placement, error) {
	return a.occupancy(ctx, rackID, "")
}

// FindFree returns the lowest position of the rack where height units fit.
func (a *RackSlotAllocator) FindFree(ctx context.Context, rackID string, height int) (int, error) {
	rack, err := a.store.Rack().GetForUpdate(ctx, rackID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return 0, NewErrRackNotFound(rackID)
		}
		return 0, err
	}

	occupied, err := a.occupancy(ctx, rackID, "")
	if err != nil {
		return 0, err
	}

	position, ok := FirstFit(rack.Height, occupied, height)
	if !ok {
		return 0, NewErrNoFreeSlot(rackID, height)
	}
	return position, nil
}

func (a *RackSlotAllocator) occupancy(ctx context.Context, rackID, excludeDeviceID string) ([]Placement, error) {
	devices, err := a.store.Device().List(ctx, store.NewDeviceQueryFilter().ByRackID(rackID), store.NewQueryOptions().WithOrder("position"))
	if err != nil {
		return nil, err
	}
	return placements(devices, excludeDeviceID), nil
}

func placements(devices model.DeviceList, excludeDeviceID string) []Placement {
	result := make([]Placement, 0, len(devices))
	for _, d := range devices {
		if d.ID == excludeDeviceID {
			continue
		}
		result = append(result, Placement{DeviceID: d.ID, Range: NewRange(d.Position, d.Height)})
	}
	return result
}

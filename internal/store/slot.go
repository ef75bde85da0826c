package store

import (
	"context"
	"errors"

	"github.com/kubev2v/rack-planner/internal/store/model"
	"gorm.io/gorm"
)

// Slot persists the per-unit occupancy index of the racks.
type Slot interface {
	List(ctx context.Context, rackID string) (model.RackSlotList, error)
	// Occupy reserves the units [from, to] of the rack for the device.
	// It returns ErrDuplicateKey if any unit is already reserved.
	Occupy(ctx context.Context, rackID, deviceID string, from, to int) error
	Release(ctx context.Context, rackID, deviceID string) error
}

type SlotStore struct {
	db *gorm.DB
}

// Make sure we conform to Slot interface
var _ Slot = (*SlotStore)(nil)

func NewSlotStore(db *gorm.DB) Slot {
	return &SlotStore{db: db}
}

func (s *SlotStore) List(ctx context.Context, rackID string) (model.RackSlotList, error) {
	var slots model.RackSlotList
	if err := getDB(ctx, s.db).Where("rack_id = ?", rackID).Order("unit").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *SlotStore) Occupy(ctx context.Context, rackID, deviceID string, from, to int) error {
	if from > to {
		return nil
	}
	slots := make(model.RackSlotList, 0, to-from+1)
	for unit := from; unit <= to; unit++ {
		slots = append(slots, model.RackSlot{RackID: rackID, Unit: unit, DeviceID: deviceID})
	}
	if err := getDB(ctx, s.db).Create(&slots).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (s *SlotStore) Release(ctx context.Context, rackID, deviceID string) error {
	return getDB(ctx, s.db).
		Where("rack_id = ? AND device_id = ?", rackID, deviceID).
		Delete(&model.RackSlot{}).Error
}

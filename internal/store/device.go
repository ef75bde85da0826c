package store

import (
	"context"
	"errors"

	"github.com/kubev2v/rack-planner/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Device interface {
	List(ctx context.Context, filter *DeviceQueryFilter, options *QueryOptions) (model.DeviceList, error)
	Count(ctx context.Context, filter *DeviceQueryFilter) (int64, error)
	Get(ctx context.Context, id string) (*model.Device, error)
	Create(ctx context.Context, device model.Device) (*model.Device, error)
	Update(ctx context.Context, device model.Device) (*model.Device, error)
	Delete(ctx context.Context, id string) error
	// TotalPower sums the power consumption of every device mounted in the rack.
	TotalPower(ctx context.Context, rackID string) (float64, error)
}

type DeviceStore struct {
	db *gorm.DB
}

// Make sure we conform to Device interface
var _ Device = (*DeviceStore)(nil)

func NewDeviceStore(db *gorm.DB) Device {
	return &DeviceStore{db: db}
}

func (d *DeviceStore) List(ctx context.Context, filter *DeviceQueryFilter, options *QueryOptions) (model.DeviceList, error) {
	var devices model.DeviceList
	tx := getDB(ctx, d.db).Model(&devices)
	tx = options.apply(filter.apply(tx))
	if err := tx.Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (d *DeviceStore) Count(ctx context.Context, filter *DeviceQueryFilter) (int64, error) {
	var count int64
	tx := filter.apply(getDB(ctx, d.db).Model(&model.Device{}))
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (d *DeviceStore) Get(ctx context.Context, id string) (*model.Device, error) {
	var device model.Device
	if err := getDB(ctx, d.db).Preload("Rack").First(&device, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &device, nil
}

func (d *DeviceStore) Create(ctx context.Context, device model.Device) (*model.Device, error) {
	device.Rack = nil
	if err := getDB(ctx, d.db).Clauses(clause.Returning{}).Create(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &device, nil
}

func (d *DeviceStore) Update(ctx context.Context, device model.Device) (*model.Device, error) {
	device.Rack = nil
	result := getDB(ctx, d.db).Model(&device).
		Select("name", "type", "model", "serial_number", "ip_address", "status",
			"rack_id", "position", "height", "power_consumption", "description").
		Updates(&device)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return d.Get(ctx, device.ID)
}

func (d *DeviceStore) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, d.db).Delete(&model.Device{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (d *DeviceStore) TotalPower(ctx context.Context, rackID string) (float64, error) {
	var total float64
	err := getDB(ctx, d.db).Model(&model.Device{}).
		Select("COALESCE(SUM(power_consumption), 0)").
		Where("rack_id = ?", rackID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

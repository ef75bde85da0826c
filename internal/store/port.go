package store

import (
	"context"
	"errors"

	"github.com/kubev2v/rack-planner/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Port interface {
	List(ctx context.Context, filter *PortQueryFilter, options *QueryOptions) (model.PortList, error)
	Count(ctx context.Context, filter *PortQueryFilter) (int64, error)
	Get(ctx context.Context, id string) (*model.Port, error)
	Create(ctx context.Context, port model.Port) (*model.Port, error)
	Update(ctx context.Context, port model.Port) (*model.Port, error)
	Delete(ctx context.Context, id string) error
	DeleteByDevice(ctx context.Context, deviceID string) (int64, error)
	// SetStatusByEndpoint moves the port named by the endpoint from one status to another.
	// Ports in any other status, or missing ports, are left untouched.
	SetStatusByEndpoint(ctx context.Context, endpoint model.Endpoint, from, to model.PortStatus) (int64, error)
}

type PortStore struct {
	db *gorm.DB
}

// Make sure we conform to Port interface
var _ Port = (*PortStore)(nil)

func NewPortStore(db *gorm.DB) Port {
	return &PortStore{db: db}
}

func (p *PortStore) List(ctx context.Context, filter *PortQueryFilter, options *QueryOptions) (model.PortList, error) {
	var ports model.PortList
	tx := getDB(ctx, p.db).Model(&ports).Preload("Device")
	tx = options.apply(filter.apply(tx))
	if err := tx.Find(&ports).Error; err != nil {
		return nil, err
	}
	return ports, nil
}

func (p *PortStore) Count(ctx context.Context, filter *PortQueryFilter) (int64, error) {
	var count int64
	tx := filter.apply(getDB(ctx, p.db).Model(&model.Port{}))
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (p *PortStore) Get(ctx context.Context, id string) (*model.Port, error) {
	var port model.Port
	if err := getDB(ctx, p.db).Preload("Device").First(&port, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &port, nil
}

func (p *PortStore) Create(ctx context.Context, port model.Port) (*model.Port, error) {
	port.Device = nil
	if err := getDB(ctx, p.db).Clauses(clause.Returning{}).Create(&port).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return p.Get(ctx, port.ID)
}

// Update never touches device_id: a port stays on the device it was created on.
func (p *PortStore) Update(ctx context.Context, port model.Port) (*model.Port, error) {
	port.Device = nil
	result := getDB(ctx, p.db).Model(&port).
		Select("nic_id", "name", "type", "speed", "status", "vlan_id", "description").
		Updates(&port)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return p.Get(ctx, port.ID)
}

func (p *PortStore) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, p.db).Delete(&model.Port{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (p *PortStore) DeleteByDevice(ctx context.Context, deviceID string) (int64, error) {
	result := getDB(ctx, p.db).Delete(&model.Port{}, "device_id = ?", deviceID)
	return result.RowsAffected, result.Error
}

func (p *PortStore) SetStatusByEndpoint(ctx context.Context, endpoint model.Endpoint, from, to model.PortStatus) (int64, error) {
	result := getDB(ctx, p.db).Model(&model.Port{}).
		Where("device_id = ? AND name = ? AND status = ?", endpoint.DeviceID, endpoint.PortName, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

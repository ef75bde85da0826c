package store

import (
	"context"
	"errors"

	"github.com/kubev2v/rack-planner/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Cable interface {
	List(ctx context.Context, filter *CableQueryFilter, options *QueryOptions) (model.CableList, error)
	Count(ctx context.Context, filter *CableQueryFilter) (int64, error)
	Get(ctx context.Context, id string) (*model.Cable, error)
	// Create stores the cable together with the reservation of both endpoints.
	// It returns ErrDuplicateKey if the id or one of the endpoints is already taken.
	Create(ctx context.Context, cable model.Cable) (*model.Cable, error)
	// Update rewrites the cable attributes. Endpoints and their reservations are left as they are.
	Update(ctx context.Context, cable model.Cable) (*model.Cable, error)
	// Move rewrites the cable including its endpoints and moves the reservations along.
	// It returns ErrDuplicateKey if one of the new endpoints is already taken.
	Move(ctx context.Context, cable model.Cable) (*model.Cable, error)
	Delete(ctx context.Context, id string) error
	// EndpointOwner returns the id of the cable holding the endpoint, or ErrRecordNotFound.
	EndpointOwner(ctx context.Context, endpoint model.Endpoint) (string, error)
}

type CableStore struct {
	db *gorm.DB
}

// Make sure we conform to Cable interface
var _ Cable = (*CableStore)(nil)

func NewCableStore(db *gorm.DB) Cable {
	return &CableStore{db: db}
}

func (c *CableStore) List(ctx context.Context, filter *CableQueryFilter, options *QueryOptions) (model.CableList, error) {
	var cables model.CableList
	tx := getDB(ctx, c.db).Model(&cables).Preload("SourceDevice").Preload("TargetDevice")
	tx = options.apply(filter.apply(tx))
	if err := tx.Find(&cables).Error; err != nil {
		return nil, err
	}
	return cables, nil
}

func (c *CableStore) Count(ctx context.Context, filter *CableQueryFilter) (int64, error) {
	var count int64
	tx := filter.apply(getDB(ctx, c.db).Model(&model.Cable{}))
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (c *CableStore) Get(ctx context.Context, id string) (*model.Cable, error) {
	var cable model.Cable
	err := getDB(ctx, c.db).Preload("SourceDevice").Preload("TargetDevice").First(&cable, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &cable, nil
}

func (c *CableStore) Create(ctx context.Context, cable model.Cable) (*model.Cable, error) {
	cable.SourceDevice = nil
	cable.TargetDevice = nil

	db := getDB(ctx, c.db)
	if err := db.Clauses(clause.Returning{}).Create(&cable).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}

	if err := c.reserve(db, cable); err != nil {
		return nil, err
	}

	return c.Get(ctx, cable.ID)
}

func (c *CableStore) Update(ctx context.Context, cable model.Cable) (*model.Cable, error) {
	result := getDB(ctx, c.db).Model(&model.Cable{ID: cable.ID}).
		Select("type", "length", "status", "description").
		Updates(map[string]any{
			"type":        cable.Type,
			"length":      cable.Length,
			"status":      cable.Status,
			"description": cable.Description,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return c.Get(ctx, cable.ID)
}

func (c *CableStore) Move(ctx context.Context, cable model.Cable) (*model.Cable, error) {
	cable.SourceDevice = nil
	cable.TargetDevice = nil

	db := getDB(ctx, c.db)
	result := db.Model(&cable).
		Select("source_device_id", "source_port", "target_device_id", "target_port",
			"type", "length", "status", "description").
		Updates(&cable)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	if err := db.Where("cable_id = ?", cable.ID).Delete(&model.CableEndpoint{}).Error; err != nil {
		return nil, err
	}
	if err := c.reserve(db, cable); err != nil {
		return nil, err
	}

	return c.Get(ctx, cable.ID)
}

func (c *CableStore) Delete(ctx context.Context, id string) error {
	db := getDB(ctx, c.db)
	if err := db.Where("cable_id = ?", id).Delete(&model.CableEndpoint{}).Error; err != nil {
		return err
	}

	result := db.Delete(&model.Cable{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (c *CableStore) EndpointOwner(ctx context.Context, endpoint model.Endpoint) (string, error) {
	var ep model.CableEndpoint
	err := getDB(ctx, c.db).
		Where("device_id = ? AND port_name = ?", endpoint.DeviceID, endpoint.PortName).
		First(&ep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRecordNotFound
		}
		return "", err
	}
	return ep.CableID, nil
}

func (c *CableStore) reserve(db *gorm.DB, cable model.Cable) error {
	endpoints := []model.CableEndpoint{
		{DeviceID: cable.SourceDeviceID, PortName: cable.SourcePort, CableID: cable.ID},
		{DeviceID: cable.TargetDeviceID, PortName: cable.TargetPort, CableID: cable.ID},
	}
	if err := db.Create(&endpoints).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

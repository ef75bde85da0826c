package store

import (
	"context"
	"errors"

	"github.com/kubev2v/rack-planner/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Rack interface {
	List(ctx context.Context, filter *RackQueryFilter, options *QueryOptions) (model.RackList, error)
	Count(ctx context.Context, filter *RackQueryFilter) (int64, error)
	Get(ctx context.Context, id string) (*model.Rack, error)
	// GetForUpdate reads the rack and, where the database supports it, locks the row until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (*model.Rack, error)
	Create(ctx context.Context, rack model.Rack) (*model.Rack, error)
	Update(ctx context.Context, rack model.Rack) (*model.Rack, error)
	UpdatePower(ctx context.Context, id string, power float64) error
	Delete(ctx context.Context, id string) error
}

type RackStore struct {
	db *gorm.DB
}

// Make sure we conform to Rack interface
var _ Rack = (*RackStore)(nil)

func NewRackStore(db *gorm.DB) Rack {
	return &RackStore{db: db}
}

func (r *RackStore) List(ctx context.Context, filter *RackQueryFilter, options *QueryOptions) (model.RackList, error) {
	var racks model.RackList
	tx := getDB(ctx, r.db).Model(&racks).Order("name")
	tx = options.apply(filter.apply(tx))
	if err := tx.Find(&racks).Error; err != nil {
		return nil, err
	}
	return racks, nil
}

func (r *RackStore) Count(ctx context.Context, filter *RackQueryFilter) (int64, error) {
	var count int64
	tx := filter.apply(getDB(ctx, r.db).Model(&model.Rack{}))
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RackStore) Get(ctx context.Context, id string) (*model.Rack, error) {
	return r.get(getDB(ctx, r.db), id)
}

func (r *RackStore) GetForUpdate(ctx context.Context, id string) (*model.Rack, error) {
	return r.get(getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *RackStore) get(tx *gorm.DB, id string) (*model.Rack, error) {
	var rack model.Rack
	if err := tx.First(&rack, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rack, nil
}

func (r *RackStore) Create(ctx context.Context, rack model.Rack) (*model.Rack, error) {
	if err := getDB(ctx, r.db).Clauses(clause.Returning{}).Create(&rack).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &rack, nil
}

// Update writes every descriptive column. CurrentPower is owned by UpdatePower.
func (r *RackStore) Update(ctx context.Context, rack model.Rack) (*model.Rack, error) {
	rack.Room = nil
	result := getDB(ctx, r.db).Model(&rack).
		Select("name", "room_id", "height", "max_power", "status", "description").
		Updates(&rack)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return r.Get(ctx, rack.ID)
}

func (r *RackStore) UpdatePower(ctx context.Context, id string, power float64) error {
	result := getDB(ctx, r.db).Model(&model.Rack{}).Where("id = ?", id).Update("current_power", power)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *RackStore) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Delete(&model.Rack{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

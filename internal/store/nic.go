package store

import (
	"context"
	"errors"

	"github.com/kubev2v/rack-planner/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NetworkCard interface {
	List(ctx context.Context, filter *NetworkCardQueryFilter) (model.NetworkCardList, error)
	Count(ctx context.Context, filter *NetworkCardQueryFilter) (int64, error)
	Get(ctx context.Context, id string) (*model.NetworkCard, error)
	Create(ctx context.Context, nic model.NetworkCard) (*model.NetworkCard, error)
	Update(ctx context.Context, nic model.NetworkCard) (*model.NetworkCard, error)
	Delete(ctx context.Context, id string) error
	DeleteByDevice(ctx context.Context, deviceID string) (int64, error)
}

type NetworkCardStore struct {
	db *gorm.DB
}

// Make sure we conform to NetworkCard interface
var _ NetworkCard = (*NetworkCardStore)(nil)

func NewNetworkCardStore(db *gorm.DB) NetworkCard {
	return &NetworkCardStore{db: db}
}

// List orders cards the way they sit in the chassis: by slot, then by name.
func (n *NetworkCardStore) List(ctx context.Context, filter *NetworkCardQueryFilter) (model.NetworkCardList, error) {
	var nics model.NetworkCardList
	tx := getDB(ctx, n.db).Model(&nics).Preload("Device").
		Order("slot_number").
		Order("name")
	tx = filter.apply(tx)
	if err := tx.Find(&nics).Error; err != nil {
		return nil, err
	}
	return nics, nil
}

func (n *NetworkCardStore) Count(ctx context.Context, filter *NetworkCardQueryFilter) (int64, error) {
	var count int64
	tx := filter.apply(getDB(ctx, n.db).Model(&model.NetworkCard{}))
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (n *NetworkCardStore) Get(ctx context.Context, id string) (*model.NetworkCard, error) {
	var nic model.NetworkCard
	if err := getDB(ctx, n.db).Preload("Device").First(&nic, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &nic, nil
}

func (n *NetworkCardStore) Create(ctx context.Context, nic model.NetworkCard) (*model.NetworkCard, error) {
	nic.Device = nil
	if err := getDB(ctx, n.db).Clauses(clause.Returning{}).Create(&nic).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return n.Get(ctx, nic.ID)
}

func (n *NetworkCardStore) Update(ctx context.Context, nic model.NetworkCard) (*model.NetworkCard, error) {
	nic.Device = nil
	result := getDB(ctx, n.db).Model(&nic).
		Select("name", "description", "slot_number", "port_count", "model", "manufacturer", "status").
		Updates(&nic)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return n.Get(ctx, nic.ID)
}

func (n *NetworkCardStore) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, n.db).Delete(&model.NetworkCard{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (n *NetworkCardStore) DeleteByDevice(ctx context.Context, deviceID string) (int64, error) {
	result := getDB(ctx, n.db).Delete(&model.NetworkCard{}, "device_id = ?", deviceID)
	return result.RowsAffected, result.Error
}

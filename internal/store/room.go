package store

import (
	"context"
	"errors"

	"github.com/kubev2v/rack-planner/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Room interface {
	List(ctx context.Context, options *QueryOptions) (model.RoomList, error)
	Get(ctx context.Context, id string) (*model.Room, error)
	Create(ctx context.Context, room model.Room) (*model.Room, error)
	Delete(ctx context.Context, id string) error
}

type RoomStore struct {
	db *gorm.DB
}

// Make sure we conform to Room interface
var _ Room = (*RoomStore)(nil)

func NewRoomStore(db *gorm.DB) Room {
	return &RoomStore{db: db}
}

func (r *RoomStore) List(ctx context.Context, options *QueryOptions) (model.RoomList, error) {
	var rooms model.RoomList
	tx := options.apply(getDB(ctx, r.db).Model(&rooms).Order("name"))
	if err := tx.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomStore) Get(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	if err := getDB(ctx, r.db).First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomStore) Create(ctx context.Context, room model.Room) (*model.Room, error) {
	if err := getDB(ctx, r.db).Clauses(clause.Returning{}).Create(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomStore) Delete(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Delete(&model.Room{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

package store

import (
	"context"

	"github.com/kubev2v/rack-planner/internal/store/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Room() Room
	Rack() Rack
	Slot() Slot
	Device() Device
	NetworkCard() NetworkCard
	Port() Port
	Cable() Cable
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db          *gorm.DB
	log         logrus.FieldLogger
	room        Room
	rack        Rack
	slot        Slot
	device      Device
	networkCard NetworkCard
	port        Port
	cable       Cable
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:          db,
		log:         logrus.WithField("pkg", "store"),
		room:        NewRoomStore(db),
		rack:        NewRackStore(db),
		slot:        NewSlotStore(db),
		device:      NewDeviceStore(db),
		networkCard: NewNetworkCardStore(db),
		port:        NewPortStore(db),
		cable:       NewCableStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db, s.log)
}

func (s *DataStore) Room() Room {
	return s.room
}

func (s *DataStore) Rack() Rack {
	return s.rack
}

func (s *DataStore) Slot() Slot {
	return s.slot
}

func (s *DataStore) Device() Device {
	return s.device
}

func (s *DataStore) NetworkCard() NetworkCard {
	return s.networkCard
}

func (s *DataStore) Port() Port {
	return s.port
}

func (s *DataStore) Cable() Cable {
	return s.cable
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.Room{},
		&model.Rack{},
		&model.RackSlot{},
		&model.Device{},
		&model.NetworkCard{},
		&model.Port{},
		&model.Cable{},
		&model.CableEndpoint{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

package service_test

import (
	"context"
	"sync"

	"github.com/kubev2v/rack-planner/internal/config"
	"github.com/kubev2v/rack-planner/internal/service"
	"github.com/kubev2v/rack-planner/internal/service/mappers"
	"github.com/kubev2v/rack-planner/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("rack service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		inv    *service.Inventory
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		_ = s.InitialMigration()
	})

	BeforeEach(func() {
		inv = service.NewInventory(s, service.WithDefaultRackHeight(45))
	})

	AfterEach(func() {
		cleanup(gormdb)
	})

	AfterAll(func() {
		s.Close()
	})

	Context("rooms", func() {
		It("keeps room names unique", func() {
			room, err := inv.Rooms.CreateRoom(context.TODO(), mappers.RoomForm{Name: "hall-a"})
			Expect(err).To(BeNil())
			Expect(room.ID).To(HavePrefix("ROOM-"))

			_, err = inv.Rooms.CreateRoom(context.TODO(), mappers.RoomForm{Name: "hall-a"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrNameConflict{}))

			rooms, err := inv.Rooms.ListRooms(context.TODO())
			Expect(err).To(BeNil())
			Expect(rooms).To(HaveLen(1))
		})

		It("refuses to delete a room with racks", func() {
			room, err := inv.Rooms.CreateRoom(context.TODO(), mappers.RoomForm{Name: "hall-a"})
			Expect(err).To(BeNil())
			rack, err := inv.Racks.CreateRack(context.TODO(), mappers.RackForm{Name: "r1", RoomID: room.ID})
			Expect(err).To(BeNil())

			err = inv.Rooms.DeleteRoom(context.TODO(), room.ID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrHasDependents{}))

			Expect(inv.Racks.DeleteRack(context.TODO(), rack.ID)).To(Succeed())
			Expect(inv.Rooms.DeleteRoom(context.TODO(), room.ID)).To(Succeed())

			_, err = inv.Rooms.GetRoom(context.TODO(), room.ID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("never leaves a rack in a deleted room", func() {
			for i := 0; i < 10; i++ {
				room, err := inv.Rooms.CreateRoom(context.TODO(), mappers.RoomForm{Name: service.NewID(service.IDKindRoom)})
				Expect(err).To(BeNil())

				var (
					wg        sync.WaitGroup
					deleteErr error
					createErr error
				)
				wg.Add(2)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					deleteErr = inv.Rooms.DeleteRoom(context.TODO(), room.ID)
				}()
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, createErr = inv.Racks.CreateRack(context.TODO(), mappers.RackForm{Name: "r1", RoomID: room.ID})
				}()
				wg.Wait()

				if deleteErr == nil {
					Expect(createErr).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
				} else {
					Expect(deleteErr).To(BeAssignableToTypeOf(&service.ErrHasDependents{}))
					Expect(createErr).To(BeNil())
				}

				racks, _, err := inv.Racks.ListRacks(context.TODO(), service.RackFilter{RoomID: room.ID})
				Expect(err).To(BeNil())
				if deleteErr == nil {
					Expect(racks).To(BeEmpty())
				} else {
					Expect(racks).To(HaveLen(1))
				}
			}
		})
	})

	Context("racks", func() {
		It("creates a rack with the default height", func() {
			room, err := inv.Rooms.CreateRoom(context.TODO(), mappers.RoomForm{Name: "hall-a"})
			Expect(err).To(BeNil())

			rack, err := inv.Racks.CreateRack(context.TODO(), mappers.RackForm{Name: "r1", RoomID: room.ID, MaxPower: 5000})
			Expect(err).To(BeNil())
			Expect(rack.Height).To(Equal(45))
			Expect(rack.CurrentPower).To(BeNumerically("==", 0))
			Expect(rack.Status).To(Equal("active"))
		})

		It("fails to create a rack in a missing room", func() {
			_, err := inv.Racks.CreateRack(context.TODO(), mappers.RackForm{Name: "r1", RoomID: "ROOM-missing"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("shrinks a rack only down to its highest device", func() {
			rack := createRack(inv, 42)
			createDevice(inv, rack.ID, "d1", 20, 2, 0)

			height := 20
			_, err := inv.Racks.UpdateRack(context.TODO(), rack.ID, mappers.RackUpdateForm{Height: &height})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrSlotConflict{}))

			height = 21
			updated, err := inv.Racks.UpdateRack(context.TODO(), rack.ID, mappers.RackUpdateForm{Height: &height})
			Expect(err).To(BeNil())
			Expect(updated.Height).To(Equal(21))
		})

		It("refuses to delete a rack with devices", func() {
			rack := createRack(inv, 42)
			device := createDevice(inv, rack.ID, "d1", 1, 1, 0)

			err := inv.Racks.DeleteRack(context.TODO(), rack.ID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrHasDependents{}))

			Expect(inv.Devices.DeleteDevice(context.TODO(), device.ID, service.DeleteDeviceOptions{})).To(Succeed())
			Expect(inv.Racks.DeleteRack(context.TODO(), rack.ID)).To(Succeed())
		})

		It("returns the rack view", func() {
			rack := createRack(inv, 42)
			d2 := createDevice(inv, rack.ID, "d2", 10, 2, 200)
			d1 := createDevice(inv, rack.ID, "d1", 1, 1, 100)
			_, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: d1.ID, SourcePort: "eth0", TargetDeviceID: d2.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())

			view, err := inv.Racks.GetRackView(context.TODO(), rack.ID)
			Expect(err).To(BeNil())
			Expect(view.Devices).To(HaveLen(2))
			Expect(view.Devices[0].ID).To(Equal(d1.ID))
			Expect(view.Cables).To(HaveLen(1))
			Expect(view.UsedUnits).To(Equal(3))
			Expect(view.FreeUnits).To(Equal(39))
			Expect(view.Rack.CurrentPower).To(BeNumerically("==", 300))
		})
	})
})

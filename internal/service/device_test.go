package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kubev2v/rack-planner/internal/config"
	"github.com/kubev2v/rack-planner/internal/events"
	"github.com/kubev2v/rack-planner/internal/service"
	"github.com/kubev2v/rack-planner/internal/service/mappers"
	"github.com/kubev2v/rack-planner/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("device service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		inv    *service.Inventory
		writer *testwriter
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		_ = s.InitialMigration()
	})

	BeforeEach(func() {
		writer = newTestWriter()
		inv = service.NewInventory(s, service.WithAuditProducer(events.NewEventProducer(writer)))
	})

	AfterEach(func() {
		cleanup(gormdb)
	})

	AfterAll(func() {
		s.Close()
	})

	Context("placement", func() {
		It("rejects overlapping devices", func() {
			rack := createRack(inv, 42)

			_, err := inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{Name: "d1", RackID: rack.ID, Position: 1, Height: 2})
			Expect(err).To(BeNil())

			_, err = inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{Name: "d2", RackID: rack.ID, Position: 2, Height: 1})
			Expect(err).ToNot(BeNil())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrSlotConflict{}))

			_, err = inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{Name: "d3", RackID: rack.ID, Position: 3, Height: 1})
			Expect(err).To(BeNil())

			var count int64
			tx := gormdb.Raw("SELECT COUNT(*) FROM rack_slots WHERE rack_id = ?", rack.ID).Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(BeNumerically("==", 3))
		})

		It("rejects devices outside of the rack", func() {
			rack := createRack(inv, 10)

			_, err := inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{Name: "d1", RackID: rack.ID, Position: 9, Height: 3})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrSlotConflict{}))

			_, err = inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{Name: "d1", RackID: rack.ID, Position: 9, Height: 2})
			Expect(err).To(BeNil())
		})

		It("places a device without position on the first free range", func() {
			rack := createRack(inv, 10)
			createDevice(inv, rack.ID, "d1", 1, 2, 0)
			createDevice(inv, rack.ID, "d2", 4, 1, 0)

			device, err := inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{Name: "d3", RackID: rack.ID, Height: 2})
			Expect(err).To(BeNil())
			Expect(device.Position).To(Equal(5))

			device, err = inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{Name: "d4", RackID: rack.ID, Height: 1})
			Expect(err).To(BeNil())
			Expect(device.Position).To(Equal(3))
		})

		It("fails to create a device in a missing rack", func() {
			_, err := inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{Name: "d1", RackID: "RACK-missing", Position: 1, Height: 1})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("rejects a caller supplied id already in use", func() {
			rack := createRack(inv, 42)
			_, err := inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{ID: "DEV-1", Name: "d1", RackID: rack.ID, Position: 1, Height: 1})
			Expect(err).To(BeNil())

			_, err = inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{ID: "DEV-1", Name: "d2", RackID: rack.ID, Position: 5, Height: 1})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrNameConflict{}))
		})

		It("ignores the device own range when moving it", func() {
			rack := createRack(inv, 42)
			device := createDevice(inv, rack.ID, "d1", 1, 2, 0)

			position := 2
			updated, err := inv.Devices.UpdateDevice(context.TODO(), device.ID, mappers.DeviceUpdateForm{Position: &position})
			Expect(err).To(BeNil())
			Expect(updated.Position).To(Equal(2))

			var units []int
			tx := gormdb.Raw("SELECT unit FROM rack_slots WHERE device_id = ? ORDER BY unit", device.ID).Scan(&units)
			Expect(tx.Error).To(BeNil())
			Expect(units).To(Equal([]int{2, 3}))
		})

		It("rejects a move onto another device", func() {
			rack := createRack(inv, 42)
			createDevice(inv, rack.ID, "d1", 1, 2, 0)
			device := createDevice(inv, rack.ID, "d2", 5, 1, 0)

			position := 2
			_, err := inv.Devices.UpdateDevice(context.TODO(), device.ID, mappers.DeviceUpdateForm{Position: &position})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrSlotConflict{}))

			current, err := inv.Devices.GetDevice(context.TODO(), device.ID)
			Expect(err).To(BeNil())
			Expect(current.Position).To(Equal(5))
		})
	})

	Context("power", func() {
		It("tracks the power of the rack devices", func() {
			rack := createRack(inv, 42)

			device := createDevice(inv, rack.ID, "d1", 1, 1, 100)
			r, err := inv.Racks.GetRack(context.TODO(), rack.ID)
			Expect(err).To(BeNil())
			Expect(r.CurrentPower).To(BeNumerically("==", 100))

			power := 60.0
			_, err = inv.Devices.UpdateDevice(context.TODO(), device.ID, mappers.DeviceUpdateForm{PowerConsumption: &power})
			Expect(err).To(BeNil())
			r, err = inv.Racks.GetRack(context.TODO(), rack.ID)
			Expect(err).To(BeNil())
			Expect(r.CurrentPower).To(BeNumerically("==", 60))

			err = inv.Devices.DeleteDevice(context.TODO(), device.ID, service.DeleteDeviceOptions{})
			Expect(err).To(BeNil())
			r, err = inv.Racks.GetRack(context.TODO(), rack.ID)
			Expect(err).To(BeNil())
			Expect(r.CurrentPower).To(BeNumerically("==", 0))
		})

		It("moves the power along with the device", func() {
			rack1 := createRack(inv, 42)
			rack2 := createRack(inv, 42)
			createDevice(inv, rack1.ID, "d1", 1, 1, 50)
			device := createDevice(inv, rack1.ID, "d2", 2, 1, 100)

			rackID := rack2.ID
			position := 10
			_, err := inv.Devices.UpdateDevice(context.TODO(), device.ID, mappers.DeviceUpdateForm{RackID: &rackID, Position: &position})
			Expect(err).To(BeNil())

			r1, err := inv.Racks.GetRack(context.TODO(), rack1.ID)
			Expect(err).To(BeNil())
			Expect(r1.CurrentPower).To(BeNumerically("==", 50))

			r2, err := inv.Racks.GetRack(context.TODO(), rack2.ID)
			Expect(err).To(BeNil())
			Expect(r2.CurrentPower).To(BeNumerically("==", 100))

			var count int64
			tx := gormdb.Raw("SELECT COUNT(*) FROM rack_slots WHERE rack_id = ? AND device_id = ?", rack1.ID, device.ID).Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(BeNumerically("==", 0))
		})

		It("corrects a drifted rack power", func() {
			rack := createRack(inv, 42)
			createDevice(inv, rack.ID, "d1", 1, 1, 100)

			tx := gormdb.Exec("UPDATE racks SET current_power = 5 WHERE id = ?", rack.ID)
			Expect(tx.Error).To(BeNil())

			createDevice(inv, rack.ID, "d2", 2, 1, 10)

			r, err := inv.Racks.GetRack(context.TODO(), rack.ID)
			Expect(err).To(BeNil())
			Expect(r.CurrentPower).To(BeNumerically("==", 110))
		})

		It("rejects a negative power", func() {
			rack := createRack(inv, 42)
			_, err := inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{Name: "d1", RackID: rack.ID, Position: 1, Height: 1, PowerConsumption: -1})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})
	})

	Context("delete", func() {
		It("rejects deleting a device with dependents", func() {
			rack := createRack(inv, 42)
			device := createDevice(inv, rack.ID, "d1", 1, 1, 100)

			_, err := inv.Hierarchy.CreatePort(context.TODO(), mappers.PortForm{DeviceID: device.ID, Name: "eth0"})
			Expect(err).To(BeNil())

			err = inv.Devices.DeleteDevice(context.TODO(), device.ID, service.DeleteDeviceOptions{})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrHasDependents{}))
			Expect(err.(*service.ErrHasDependents).Count).To(BeNumerically("==", 1))

			_, err = inv.Devices.GetDevice(context.TODO(), device.ID)
			Expect(err).To(BeNil())
		})

		It("deletes the dependents with cascade", func() {
			rack := createRack(inv, 42)
			a := createDevice(inv, rack.ID, "a", 1, 1, 100)
			b := createDevice(inv, rack.ID, "b", 2, 1, 50)

			nic, err := inv.Hierarchy.CreateNetworkCard(context.TODO(), mappers.NetworkCardForm{DeviceID: a.ID, Name: "nic1"})
			Expect(err).To(BeNil())
			_, err = inv.Hierarchy.CreatePort(context.TODO(), mappers.PortForm{DeviceID: a.ID, Name: "eth0", NicID: &nic.ID})
			Expect(err).To(BeNil())
			peer, err := inv.Hierarchy.CreatePort(context.TODO(), mappers.PortForm{DeviceID: b.ID, Name: "eth0"})
			Expect(err).To(BeNil())
			_, err = inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())

			err = inv.Devices.DeleteDevice(context.TODO(), a.ID, service.DeleteDeviceOptions{Cascade: true})
			Expect(err).To(BeNil())

			for _, table := range []string{"ports WHERE device_id = ?", "network_cards WHERE device_id = ?", "cables WHERE source_device_id = ?", "cable_endpoints WHERE device_id = ?", "rack_slots WHERE device_id = ?"} {
				var count int64
				tx := gormdb.Raw("SELECT COUNT(*) FROM "+table, a.ID).Scan(&count)
				Expect(tx.Error).To(BeNil())
				Expect(count).To(BeNumerically("==", 0), table)
			}

			p, err := inv.Hierarchy.GetPort(context.TODO(), peer.ID)
			Expect(err).To(BeNil())
			Expect(string(p.Status)).To(Equal("free"))

			r, err := inv.Racks.GetRack(context.TODO(), rack.ID)
			Expect(err).To(BeNil())
			Expect(r.CurrentPower).To(BeNumerically("==", 50))
		})

		It("fails to delete a missing device", func() {
			err := inv.Devices.DeleteDevice(context.TODO(), "DEV-missing", service.DeleteDeviceOptions{})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("list", func() {
		It("filters and paginates devices", func() {
			rack := createRack(inv, 42)
			createDevice(inv, rack.ID, "web-1", 1, 1, 0)
			createDevice(inv, rack.ID, "web-2", 2, 1, 0)
			createDevice(inv, rack.ID, "db-1", 3, 1, 0)

			devices, total, err := inv.Devices.ListDevices(context.TODO(), service.DeviceFilter{Keyword: "WEB"})
			Expect(err).To(BeNil())
			Expect(total).To(BeNumerically("==", 2))
			Expect(devices).To(HaveLen(2))

			devices, total, err = inv.Devices.ListDevices(context.TODO(), service.DeviceFilter{RackID: rack.ID, Page: 2, PageSize: 2})
			Expect(err).To(BeNil())
			Expect(total).To(BeNumerically("==", 3))
			Expect(devices).To(HaveLen(1))
			Expect(devices[0].Name).To(Equal("db-1"))
		})
	})

	Context("audit", func() {
		It("emits an event per committed mutation", func() {
			rack := createRack(inv, 42)
			createDevice(inv, rack.ID, "d1", 1, 1, 0)

			_, err := inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{Name: "d2", RackID: rack.ID, Position: 1, Height: 1})
			Expect(err).ToNot(BeNil())

			// room, rack and one device
			Eventually(writer.Len).Should(Equal(3))
			Consistently(writer.Len).Should(Equal(3))
		})
	})

	Context("concurrent writers", func() {
		It("mounts a single device on a contended range", func() {
			rack := createRack(inv, 42)

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				conflicts int
			)
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()

					_, err := inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{
						Name:             fmt.Sprintf("d%d", i),
						RackID:           rack.ID,
						Position:         5,
						Height:           2,
						PowerConsumption: 10,
					})

					mu.Lock()
					defer mu.Unlock()
					var conflict *service.ErrSlotConflict
					switch {
					case err == nil:
						successes++
					case errors.As(err, &conflict):
						conflicts++
					default:
						Fail(fmt.Sprintf("unexpected error: %v", err))
					}
				}(i)
			}
			wg.Wait()

			Expect(successes).To(Equal(1))
			Expect(conflicts).To(Equal(19))

			view, err := inv.Racks.GetRackView(context.TODO(), rack.ID)
			Expect(err).To(BeNil())
			Expect(view.Devices).To(HaveLen(1))
			Expect(view.UsedUnits).To(Equal(2))
			Expect(view.Rack.CurrentPower).To(BeNumerically("==", 10))
		})

		It("keeps the power sum with parallel devices on distinct ranges", func() {
			rack := createRack(inv, 42)

			var wg sync.WaitGroup
			errs := make(chan error, 10)
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()

					_, err := inv.Devices.CreateDevice(context.TODO(), mappers.DeviceForm{
						Name:             fmt.Sprintf("d%d", i),
						RackID:           rack.ID,
						Position:         i*2 + 1,
						Height:           2,
						PowerConsumption: 5,
					})
					errs <- err
				}(i)
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				Expect(err).To(BeNil())
			}

			view, err := inv.Racks.GetRackView(context.TODO(), rack.ID)
			Expect(err).To(BeNil())
			Expect(view.Devices).To(HaveLen(10))
			Expect(view.UsedUnits).To(Equal(20))
			Expect(view.Rack.CurrentPower).To(BeNumerically("==", 50))
		})
	})
})

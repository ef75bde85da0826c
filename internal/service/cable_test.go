package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kubev2v/rack-planner/internal/config"
	"github.com/kubev2v/rack-planner/internal/service"
	"github.com/kubev2v/rack-planner/internal/service/mappers"
	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("cable service", Ordered, func() {
	var (
		s       store.Store
		gormdb  *gorm.DB
		inv     *service.Inventory
		a, b, c *model.Device
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		_ = s.InitialMigration()
	})

	BeforeEach(func() {
		inv = service.NewInventory(s)
		rack := createRack(inv, 42)
		a = createDevice(inv, rack.ID, "a", 1, 1, 0)
		b = createDevice(inv, rack.ID, "b", 2, 1, 0)
		c = createDevice(inv, rack.ID, "c", 3, 1, 0)
	})

	AfterEach(func() {
		cleanup(gormdb)
	})

	AfterAll(func() {
		s.Close()
	})

	Context("create", func() {
		It("rejects an endpoint already cabled", func() {
			cable, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())
			Expect(cable.ID).To(HavePrefix("CABLE-"))
			Expect(cable.Type).To(Equal("ethernet"))
			Expect(cable.Status).To(Equal("normal"))
			Expect(cable.SourceDevice).ToNot(BeNil())
			Expect(cable.SourceDevice.Summary()).To(Equal(a.Summary()))
			Expect(cable.TargetDevice.Summary()).To(Equal(b.Summary()))

			_, err = inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: c.ID, TargetPort: "eth1"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPortOccupied{}))
			Expect(err.(*service.ErrPortOccupied).CableID).To(Equal(cable.ID))
		})

		It("rejects an endpoint used as target in the source role", func() {
			_, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())

			_, err = inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: b.ID, SourcePort: "eth0", TargetDeviceID: c.ID, TargetPort: "eth0"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPortOccupied{}))
		})

		It("rejects a self loop", func() {
			_, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: a.ID, TargetPort: "eth1"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrSelfLoop{}))
		})

		It("rejects missing fields", func() {
			_, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
			Expect(err.Error()).To(ContainSubstring("sourcePort"))
		})

		It("rejects a missing device", func() {
			_, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: "DEV-missing", TargetPort: "eth0"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("marks the port records occupied", func() {
			pa, err := inv.Hierarchy.CreatePort(context.TODO(), mappers.PortForm{DeviceID: a.ID, Name: "eth0"})
			Expect(err).To(BeNil())
			pb, err := inv.Hierarchy.CreatePort(context.TODO(), mappers.PortForm{DeviceID: b.ID, Name: "eth0", Status: "fault"})
			Expect(err).To(BeNil())

			cable, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())

			p, err := inv.Hierarchy.GetPort(context.TODO(), pa.ID)
			Expect(err).To(BeNil())
			Expect(p.Status).To(Equal(model.PortStatusOccupied))
			p, err = inv.Hierarchy.GetPort(context.TODO(), pb.ID)
			Expect(err).To(BeNil())
			Expect(p.Status).To(Equal(model.PortStatusFault))

			Expect(inv.Cables.DeleteCable(context.TODO(), cable.ID)).To(Succeed())

			p, err = inv.Hierarchy.GetPort(context.TODO(), pa.ID)
			Expect(err).To(BeNil())
			Expect(p.Status).To(Equal(model.PortStatusFree))
		})
	})

	Context("batch", func() {
		It("reports the failed items", func() {
			result := inv.Cables.CreateCablesBatch(context.TODO(), []mappers.CableForm{
				{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"},
				{ID: "CABLE-dup", SourceDeviceID: c.ID, SourcePort: "eth0", TargetDeviceID: a.ID, TargetPort: "eth0"},
				{SourceDeviceID: a.ID, SourcePort: "eth1", TargetDeviceID: c.ID, TargetPort: "eth1"},
			})
			Expect(result.Total).To(Equal(3))
			Expect(result.Success).To(Equal(2))
			Expect(result.Failed).To(Equal(1))
			Expect(result.Errors).To(HaveLen(1))
			Expect(result.Errors[0].Index).To(Equal(2))
			Expect(result.Errors[0].ID).To(Equal("CABLE-dup"))
			Expect(result.Errors[0].Kind).To(Equal(service.KindPortOccupied))

			_, total, err := inv.Cables.ListCables(context.TODO(), service.CableFilter{})
			Expect(err).To(BeNil())
			Expect(total).To(BeNumerically("==", 2))
		})

		It("detects duplicates inside the same batch", func() {
			result := inv.Cables.CreateCablesBatch(context.TODO(), []mappers.CableForm{
				{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"},
				{SourceDeviceID: b.ID, SourcePort: "eth0", TargetDeviceID: c.ID, TargetPort: "eth0"},
			})
			Expect(result.Success).To(Equal(1))
			Expect(result.Failed).To(Equal(1))
			Expect(result.Errors[0].Index).To(Equal(2))
		})

		It("deletes cables item by item", func() {
			cable, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())

			result := inv.Cables.DeleteCablesBatch(context.TODO(), []string{cable.ID, "CABLE-missing"})
			Expect(result.Total).To(Equal(2))
			Expect(result.Success).To(Equal(1))
			Expect(result.Failed).To(Equal(1))
			Expect(result.Items).To(HaveLen(2))
			Expect(result.Items[0]).To(Equal(service.BatchItemResult{ID: cable.ID, OK: true}))
			Expect(result.Items[1].OK).To(BeFalse())
			Expect(result.Items[1].Kind).To(Equal(service.KindNotFound))

			var count int64
			tx := gormdb.Raw("SELECT COUNT(*) FROM cable_endpoints").Scan(&count)
			Expect(tx.Error).To(BeNil())
			Expect(count).To(BeNumerically("==", 0))
		})
	})

	Context("update", func() {
		It("moves an endpoint", func() {
			cable, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())

			target := c.ID
			updated, err := inv.Cables.UpdateCable(context.TODO(), cable.ID, mappers.CableUpdateForm{TargetDeviceID: &target})
			Expect(err).To(BeNil())
			Expect(updated.TargetDeviceID).To(Equal(c.ID))

			// b/eth0 is free again
			_, err = inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: b.ID, SourcePort: "eth0", TargetDeviceID: a.ID, TargetPort: "eth1"})
			Expect(err).To(BeNil())
		})

		It("rejects moving onto a cabled endpoint", func() {
			first, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())
			second, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth1", TargetDeviceID: c.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())

			port := "eth0"
			_, err = inv.Cables.UpdateCable(context.TODO(), second.ID, mappers.CableUpdateForm{SourcePort: &port})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPortOccupied{}))
			Expect(err.(*service.ErrPortOccupied).CableID).To(Equal(first.ID))
		})

		It("rejects turning a cable into a self loop", func() {
			cable, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())

			target := a.ID
			_, err = inv.Cables.UpdateCable(context.TODO(), cable.ID, mappers.CableUpdateForm{TargetDeviceID: &target})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrSelfLoop{}))
		})

		It("updates the status only", func() {
			cable, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())

			status := "fault"
			updated, err := inv.Cables.UpdateCable(context.TODO(), cable.ID, mappers.CableUpdateForm{Status: &status})
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal("fault"))
			Expect(updated.SourcePort).To(Equal("eth0"))

			owner, err := s.Cable().EndpointOwner(context.TODO(), cable.Target())
			Expect(err).To(BeNil())
			Expect(owner).To(Equal(cable.ID))

			_, err = inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: c.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrPortOccupied{}))
		})

		It("reconnects a cable given its current endpoints", func() {
			cable, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())

			port := "eth0"
			updated, err := inv.Cables.UpdateCable(context.TODO(), cable.ID, mappers.CableUpdateForm{SourcePort: &port, TargetPort: &port})
			Expect(err).To(BeNil())
			Expect(updated.TargetDeviceID).To(Equal(b.ID))
		})
	})

	Context("list", func() {
		It("lists the cables of a device on both ends", func() {
			_, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: a.ID, SourcePort: "eth0", TargetDeviceID: b.ID, TargetPort: "eth0"})
			Expect(err).To(BeNil())
			_, err = inv.Cables.CreateCable(context.TODO(), mappers.CableForm{SourceDeviceID: c.ID, SourcePort: "eth0", TargetDeviceID: a.ID, TargetPort: "eth1"})
			Expect(err).To(BeNil())

			cables, err := inv.Cables.ListCablesForDevice(context.TODO(), a.ID)
			Expect(err).To(BeNil())
			Expect(cables).To(HaveLen(2))

			cables, err = inv.Cables.ListCablesForDevice(context.TODO(), b.ID)
			Expect(err).To(BeNil())
			Expect(cables).To(HaveLen(1))

			_, err = inv.Cables.ListCablesForDevice(context.TODO(), "DEV-missing")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("concurrent writers", func() {
		It("lets a single cable take a contended endpoint", func() {
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				occupied  int
			)
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()

					_, err := inv.Cables.CreateCable(context.TODO(), mappers.CableForm{
						SourceDeviceID: a.ID,
						SourcePort:     "eth0",
						TargetDeviceID: b.ID,
						TargetPort:     fmt.Sprintf("eth%d", i),
					})

					mu.Lock()
					defer mu.Unlock()
					var conflict *service.ErrPortOccupied
					switch {
					case err == nil:
						successes++
					case errors.As(err, &conflict):
						occupied++
					default:
						Fail(fmt.Sprintf("unexpected error: %v", err))
					}
				}(i)
			}
			wg.Wait()

			Expect(successes).To(Equal(1))
			Expect(occupied).To(Equal(9))

			cables, err := inv.Cables.ListCablesForDevice(context.TODO(), a.ID)
			Expect(err).To(BeNil())
			Expect(cables).To(HaveLen(1))
		})
	})
})

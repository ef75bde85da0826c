package v1alpha1_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	api "github.com/kubev2v/rack-planner/api/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/config"
	handlers "github.com/kubev2v/rack-planner/internal/handlers/v1alpha1"
	"github.com/kubev2v/rack-planner/internal/service"
	"github.com/kubev2v/rack-planner/internal/sheets"
	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var tables = []string{"cable_endpoints", "cables", "ports", "network_cards", "rack_slots", "devices", "racks", "rooms"}

func do(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		Expect(err).To(BeNil())
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](rec *httptest.ResponseRecorder) T {
	var v T
	Expect(json.Unmarshal(rec.Body.Bytes(), &v)).To(Succeed())
	return v
}

func ptr[T any](v T) *T {
	return &v
}

var _ = Describe("inventory handlers", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		router chi.Router
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		_ = s.InitialMigration()
	})

	BeforeEach(func() {
		h := handlers.NewServiceHandler(service.NewInventory(s), handlers.WithMaxBatchSize(2))
		router = chi.NewRouter()
		handlers.HandlerFromMux(h, router)
	})

	AfterEach(func() {
		for _, t := range tables {
			gormdb.Exec("DELETE FROM " + t + ";")
		}
	})

	AfterAll(func() {
		s.Close()
	})

	createRack := func(height int) api.Rack {
		rec := do(router, http.MethodPost, "/api/v1/rooms", api.RoomCreate{Name: service.NewID(service.IDKindRoom)})
		Expect(rec.Code).To(Equal(http.StatusCreated))
		room := decodeBody[api.Room](rec)

		rec = do(router, http.MethodPost, "/api/v1/racks", api.RackCreate{Name: "rack", RoomId: room.Id, Height: &height, MaxPower: 5000})
		Expect(rec.Code).To(Equal(http.StatusCreated))
		return decodeBody[api.Rack](rec)
	}

	createDevice := func(rackID, name string, position, height int) api.Device {
		rec := do(router, http.MethodPost, "/api/v1/devices", api.DeviceCreate{Name: name, RackId: rackID, Position: &position, Height: height, PowerConsumption: 100})
		Expect(rec.Code).To(Equal(http.StatusCreated))
		return decodeBody[api.Device](rec)
	}

	createPort := func(deviceID, name string) {
		rec := do(router, http.MethodPost, "/api/v1/ports", api.PortCreate{DeviceId: deviceID, Name: name})
		Expect(rec.Code).To(Equal(http.StatusCreated))
	}

	Context("health", func() {
		It("reports ok", func() {
			rec := do(router, http.MethodGet, "/api/v1/health", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decodeBody[api.Health](rec).Status).To(Equal("ok"))
		})
	})

	Context("errors", func() {
		It("returns 404 with the NotFound kind", func() {
			rec := do(router, http.MethodGet, "/api/v1/racks/missing", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			body := decodeBody[api.Error](rec)
			Expect(body.Kind).To(Equal(service.KindNotFound))
			Expect(body.Message).To(ContainSubstring("missing"))
		})

		It("returns 400 for an invalid body", func() {
			rec := do(router, http.MethodPost, "/api/v1/devices", api.DeviceCreate{Name: "web", RackId: "RACK-1", Type: "toaster"})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody[api.Error](rec).Kind).To(Equal(service.KindValidation))
		})

		It("returns 400 for an empty body", func() {
			rec := do(router, http.MethodPost, "/api/v1/rooms", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 with the SlotConflict kind", func() {
			rack := createRack(10)
			createDevice(rack.Id, "a", 1, 2)

			position := 2
			rec := do(router, http.MethodPost, "/api/v1/devices", api.DeviceCreate{Name: "b", RackId: rack.Id, Position: &position})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody[api.Error](rec).Kind).To(Equal(service.KindSlotConflict))
		})

		It("returns 400 with the SelfLoop kind", func() {
			rack := createRack(10)
			device := createDevice(rack.Id, "a", 1, 1)
			createPort(device.Id, "eth0")
			createPort(device.Id, "eth1")

			rec := do(router, http.MethodPost, "/api/v1/cables", api.CableCreate{SourceDeviceId: device.Id, SourcePort: "eth0", TargetDeviceId: device.Id, TargetPort: "eth1"})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody[api.Error](rec).Kind).To(Equal(service.KindSelfLoop))
		})

		It("rejects an invalid page", func() {
			rec := do(router, http.MethodGet, "/api/v1/devices?page=zero", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("devices", func() {
		It("lists devices with pagination metadata", func() {
			rack := createRack(10)
			createDevice(rack.Id, "a", 1, 1)
			createDevice(rack.Id, "b", 2, 1)
			createDevice(rack.Id, "c", 3, 1)

			rec := do(router, http.MethodGet, "/api/v1/devices?rackId="+rack.Id+"&page=2&pageSize=2", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			list := decodeBody[api.DeviceList](rec)
			Expect(list.Total).To(BeNumerically("==", 3))
			Expect(list.Page).To(Equal(2))
			Expect(list.Items).To(HaveLen(1))
			Expect(list.Items[0].Name).To(Equal("c"))
		})

		It("rejects delete with dependents unless cascading", func() {
			rack := createRack(10)
			a := createDevice(rack.Id, "a", 1, 1)
			b := createDevice(rack.Id, "b", 2, 1)
			createPort(a.Id, "eth0")
			createPort(b.Id, "eth0")

			rec := do(router, http.MethodPost, "/api/v1/cables", api.CableCreate{SourceDeviceId: a.Id, SourcePort: "eth0", TargetDeviceId: b.Id, TargetPort: "eth0"})
			Expect(rec.Code).To(Equal(http.StatusCreated))
			cable := decodeBody[api.Cable](rec)
			Expect(cable.SourceDevice).ToNot(BeNil())
			Expect(cable.SourceDevice.Name).To(Equal("a"))

			rec = do(router, http.MethodDelete, "/api/v1/devices/"+a.Id, nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeBody[api.Error](rec).Kind).To(Equal(service.KindHasDependents))

			rec = do(router, http.MethodDelete, "/api/v1/devices/"+a.Id+"?cascade=true", nil)
			Expect(rec.Code).To(Equal(http.StatusNoContent))

			rec = do(router, http.MethodGet, "/api/v1/devices/"+b.Id+"/ports", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			ports := decodeBody[[]api.Port](rec)
			Expect(ports).To(HaveLen(1))
			Expect(ports[0].Status).To(Equal(string(model.PortStatusFree)))
		})

		It("returns the rack view", func() {
			rack := createRack(10)
			createDevice(rack.Id, "a", 3, 2)

			rec := do(router, http.MethodGet, "/api/v1/racks/"+rack.Id+"/view", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			view := decodeBody[api.RackView](rec)
			Expect(view.UsedUnits).To(Equal(2))
			Expect(view.FreeUnits).To(Equal(8))
			Expect(view.Occupancy).To(HaveLen(1))
			Expect(view.Occupancy[0].Start).To(Equal(3))
			Expect(view.Occupancy[0].End).To(Equal(4))
			Expect(view.Rack.CurrentPower).To(BeNumerically("==", 100))
		})
	})

	Context("batches", func() {
		It("rejects batches above the limit", func() {
			rec := do(router, http.MethodDelete, "/api/v1/cables/batch", api.BatchDelete{Ids: []string{"a", "b", "c"}})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns itemized results", func() {
			rack := createRack(10)
			device := createDevice(rack.Id, "a", 1, 1)

			rec := do(router, http.MethodPost, "/api/v1/ports/batch", api.PortBatchCreate{Ports: []api.PortCreate{
				{Id: ptr("PORT-first"), DeviceId: device.Id, Name: "eth0"},
				{Id: ptr("PORT-second"), DeviceId: device.Id, Name: "eth0"},
			}})
			Expect(rec.Code).To(Equal(http.StatusOK))
			result := decodeBody[api.BatchResult](rec)
			Expect(result.Success).To(Equal(1))
			Expect(result.Failed).To(Equal(1))
			Expect(result.Errors).To(HaveLen(1))
			Expect(result.Errors[0].Index).To(Equal(2))
			Expect(result.Errors[0].Id).To(Equal("PORT-second"))
			Expect(result.Errors[0].Kind).To(Equal(service.KindNameConflict))

			rec = do(router, http.MethodDelete, "/api/v1/cables/batch", api.BatchDelete{Ids: []string{"CABLE-missing"}})
			Expect(rec.Code).To(Equal(http.StatusOK))
			deleted := decodeBody[api.BatchDeleteResult](rec)
			Expect(deleted.Failed).To(Equal(1))
			Expect(deleted.Items[0].Ok).To(BeFalse())
			Expect(*deleted.Items[0].Kind).To(Equal(service.KindNotFound))
		})
	})

	Context("cable sheets", func() {
		It("imports then exports cables", func() {
			rack := createRack(10)
			a := createDevice(rack.Id, "a", 1, 1)
			b := createDevice(rack.Id, "b", 2, 1)
			createPort(a.Id, "eth0")
			createPort(b.Id, "eth0")

			length := 1.5
			var workbook bytes.Buffer
			Expect(sheets.WriteCables(&workbook, model.CableList{
				{ID: "CABLE-imported", SourceDeviceID: a.Id, SourcePort: "eth0", TargetDeviceID: b.Id, TargetPort: "eth0", Type: "fiber", Length: &length, Status: "normal"},
			})).To(Succeed())

			var body bytes.Buffer
			mw := multipart.NewWriter(&body)
			part, err := mw.CreateFormFile("file", "cables.xlsx")
			Expect(err).To(BeNil())
			_, err = part.Write(workbook.Bytes())
			Expect(err).To(BeNil())
			Expect(mw.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/cables/import", &body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
			result := decodeBody[api.BatchResult](rec)
			Expect(result.Success).To(Equal(1))

			rec = do(router, http.MethodGet, "/api/v1/cables/export", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			forms, err := sheets.ParseCables(rec.Body.Bytes())
			Expect(err).To(BeNil())
			Expect(forms).To(HaveLen(1))
			Expect(forms[0].ID).To(Equal("CABLE-imported"))
			Expect(forms[0].Type).To(Equal("fiber"))
		})

		It("rejects an upload that is not a workbook", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/cables/import", bytes.NewReader([]byte("not a workbook")))
			req.Header.Set("Content-Type", "application/octet-stream")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})
})

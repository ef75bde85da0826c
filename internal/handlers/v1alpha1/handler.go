package v1alpha1

import (
	"github.com/go-chi/chi/v5"
	"github.com/kubev2v/rack-planner/internal/handlers/validator"
	"github.com/kubev2v/rack-planner/internal/service"
)

const defaultMaxBatchSize = 1000

type ServiceHandler struct {
	inv          *service.Inventory
	validator    *validator.Validator
	maxBatchSize int
}

type HandlerOption func(*ServiceHandler)

// WithMaxBatchSize bounds the number of items accepted by batch endpoints.
func WithMaxBatchSize(size int) HandlerOption {
	return func(h *ServiceHandler) {
		if size > 0 {
			h.maxBatchSize = size
		}
	}
}

func NewServiceHandler(inv *service.Inventory, opts ...HandlerOption) *ServiceHandler {
	v := validator.NewValidator()
	v.Register(validator.NewInventoryValidationRules()...)

	h := &ServiceHandler{
		inv:          inv,
		validator:    v,
		maxBatchSize: defaultMaxBatchSize,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// HandlerFromMux mounts every inventory route under /api/v1 on the router.
func HandlerFromMux(h *ServiceHandler, r chi.Router) chi.Router {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.ListRooms)
			r.Post("/", h.CreateRoom)
			r.Get("/{id}", h.GetRoom)
			r.Delete("/{id}", h.DeleteRoom)
		})

		r.Route("/racks", func(r chi.Router) {
			r.Get("/", h.ListRacks)
			r.Post("/", h.CreateRack)
			r.Get("/{id}", h.GetRack)
			r.Put("/{id}", h.UpdateRack)
			r.Delete("/{id}", h.DeleteRack)
			r.Get("/{id}/view", h.GetRackView)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", h.ListDevices)
			r.Post("/", h.CreateDevice)
			r.Get("/{id}", h.GetDevice)
			r.Put("/{id}", h.UpdateDevice)
			r.Delete("/{id}", h.DeleteDevice)
			r.Get("/{id}/ports", h.ListDevicePorts)
			r.Get("/{id}/nics", h.ListDeviceNetworkCards)
			r.Get("/{id}/nics/with-ports", h.ListDevicePortsGrouped)
			r.Get("/{id}/cables", h.ListDeviceCables)
		})

		r.Route("/nics", func(r chi.Router) {
			r.Get("/", h.ListNetworkCards)
			r.Post("/", h.CreateNetworkCard)
			r.Get("/{id}", h.GetNetworkCard)
			r.Put("/{id}", h.UpdateNetworkCard)
			r.Delete("/{id}", h.DeleteNetworkCard)
			r.Get("/{id}/ports", h.ListNetworkCardPorts)
		})

		r.Route("/ports", func(r chi.Router) {
			r.Get("/", h.ListPorts)
			r.Post("/", h.CreatePort)
			r.Post("/batch", h.CreatePortsBatch)
			r.Delete("/batch", h.DeletePortsBatch)
			r.Get("/{id}", h.GetPort)
			r.Put("/{id}", h.UpdatePort)
			r.Delete("/{id}", h.DeletePort)
		})

		r.Route("/cables", func(r chi.Router) {
			r.Get("/", h.ListCables)
			r.Post("/", h.CreateCable)
			r.Post("/batch", h.CreateCablesBatch)
			r.Delete("/batch", h.DeleteCablesBatch)
			r.Post("/import", h.ImportCables)
			r.Get("/export", h.ExportCables)
			r.Get("/{id}", h.GetCable)
			r.Put("/{id}", h.UpdateCable)
			r.Delete("/{id}", h.DeleteCable)
		})
	})
	return r
}

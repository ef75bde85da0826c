package service

import (
	"context"
	"encoding/json"

	"github.com/kubev2v/rack-planner/internal/events"
	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/pkg/keylock"
	"github.com/kubev2v/rack-planner/pkg/metrics"
	"github.com/kubev2v/rack-planner/pkg/requestid"
	"go.uber.org/zap"
)

const (
	moduleRoom        = "room"
	moduleRack        = "rack"
	moduleDevice      = "device"
	moduleNetworkCard = "nic"
	modulePort        = "port"
	moduleCable       = "cable"

	// cablesLockKey serializes every change of the cable graph.
	cablesLockKey = "cables"
)

func roomLockKey(id string) string {
	return "room/" + id
}

func rackLockKey(id string) string {
	return "rack/" + id
}

func deviceLockKey(id string) string {
	return "device/" + id
}

// Inventory groups the services sharing one store, one lock table and one audit producer.
type Inventory struct {
	Rooms     *RoomService
	Racks     *RackService
	Devices   *DeviceService
	Hierarchy *HierarchyService
	Cables    *CableService
}

type InventoryOption func(*inventory)

// WithAuditProducer sends an audit event after every committed mutation.
func WithAuditProducer(producer *events.EventProducer) InventoryOption {
	return func(i *inventory) {
		i.producer = producer
	}
}

// WithDefaultRackHeight sets the height given to racks created without one.
func WithDefaultRackHeight(height int) InventoryOption {
	return func(i *inventory) {
		if height > 0 {
			i.defaultRackHeight = height
		}
	}
}

func NewInventory(s store.Store, opts ...InventoryOption) *Inventory {
	base := &inventory{
		store:             s,
		locker:            keylock.New(),
		defaultRackHeight: 42,
	}
	for _, o := range opts {
		o(base)
	}

	allocator := NewRackSlotAllocator(s)
	power := NewPowerTracker(s)

	return &Inventory{
		Rooms:     &RoomService{inventory: base},
		Racks:     &RackService{inventory: base, allocator: allocator},
		Devices:   &DeviceService{inventory: base, allocator: allocator, power: power},
		Hierarchy: &HierarchyService{inventory: base},
		Cables:    &CableService{inventory: base},
	}
}

// inventory holds what every service needs to run a mutation.
type inventory struct {
	store             store.Store
	locker            *keylock.Locker
	producer          *events.EventProducer
	defaultRackHeight int
}

// inTx runs fn inside a store transaction, committing when fn succeeds.
func inTx[T any](ctx context.Context, s store.Store, fn func(ctx context.Context) (T, error)) (result T, err error) {
	ctx, err = s.NewTransactionContext(ctx)
	if err != nil {
		return result, err
	}

	defer func() {
		if r := recover(); r != nil {
			_, _ = store.Rollback(ctx)
			panic(r)
		}
	}()

	result, err = fn(ctx)
	if err != nil {
		_, _ = store.Rollback(ctx)
		var zero T
		return zero, err
	}

	if _, err := store.Commit(ctx); err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}

// record updates the mutation counters for the outcome of an operation.
func (i *inventory) record(module, action string, err error) {
	switch {
	case err == nil:
		metrics.IncreaseMutationsTotalMetric(module, action, metrics.ResultSuccess)
	case IsRejection(err):
		metrics.IncreaseMutationsTotalMetric(module, action, metrics.ResultRejected)
		metrics.IncreaseInvariantRejectionsTotalMetric(Kind(err))
	default:
		metrics.IncreaseMutationsTotalMetric(module, action, metrics.ResultFailed)
	}
}

// audit queues an event describing a committed mutation. Failures are only logged.
func (i *inventory) audit(ctx context.Context, action events.Action, module, targetID string, oldValue, newValue any) {
	if i.producer == nil {
		return
	}

	e := events.AuditEvent{
		Action:    action,
		Module:    module,
		TargetID:  targetID,
		OldValue:  rawJSON(oldValue),
		NewValue:  rawJSON(newValue),
		RequestID: requestid.FromContext(ctx),
	}

	if err := i.producer.WriteAudit(ctx, e); err != nil {
		zap.S().Named("inventory").Warnw("failed to write audit event", "error", err, "module", module, "action", action, "target", targetID)
	}
}

func rawJSON(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

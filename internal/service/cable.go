package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kubev2v/rack-planner/internal/events"
	"github.com/kubev2v/rack-planner/internal/service/mappers"
	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/internal/store/model"
	"github.com/thoas/go-funk"
)

// CableService keeps the cable graph free of self loops and of endpoints used twice.
type CableService struct {
	*inventory
}

type CableFilter struct {
	SourceDeviceID string
	TargetDeviceID string
	DeviceID       string
	Status         string
	Type           string
	Page           int
	PageSize       int
}

func (c *CableService) ListCables(ctx context.Context, filter CableFilter) (model.CableList, int64, error) {
	f := store.NewCableQueryFilter()
	if filter.SourceDeviceID != "" {
		f = f.BySourceDeviceID(filter.SourceDeviceID)
	}
	if filter.TargetDeviceID != "" {
		f = f.ByTargetDeviceID(filter.TargetDeviceID)
	}
	if filter.DeviceID != "" {
		f = f.ByDeviceID(filter.DeviceID)
	}
	if filter.Status != "" {
		f = f.ByStatus(filter.Status)
	}
	if filter.Type != "" {
		f = f.ByType(filter.Type)
	}

	total, err := c.store.Cable().Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	cables, err := c.store.Cable().List(ctx, f, store.NewQueryOptions().WithOrder("created_at").WithOrder("id").WithPage(filter.Page, filter.PageSize))
	if err != nil {
		return nil, 0, err
	}
	return cables, total, nil
}

// ListCablesForDevice returns every cable having the device on either end.
func (c *CableService) ListCablesForDevice(ctx context.Context, deviceID string) (model.CableList, error) {
	if _, err := c.store.Device().Get(ctx, deviceID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrDeviceNotFound(deviceID)
		}
		return nil, err
	}
	return c.store.Cable().List(ctx, store.NewCableQueryFilter().ByDeviceID(deviceID), store.NewQueryOptions().WithOrder("id"))
}

func (c *CableService) GetCable(ctx context.Context, id string) (*model.Cable, error) {
	cable, err := c.store.Cable().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCableNotFound(id)
		}
		return nil, err
	}
	return cable, nil
}

// CreateCable connects two ports of two different devices. The returned cable
// carries both devices.
func (c *CableService) CreateCable(ctx context.Context, form mappers.CableForm) (result *model.Cable, err error) {
	defer func() { c.record(moduleCable, "create", err) }()

	cable := form.ToCable()
	if err := validateCable(cable); err != nil {
		return nil, err
	}
	if cable.ID == "" {
		cable.ID = NewID(IDKindCable)
	}

	unlock := c.locker.Lock(deviceLockKey(cable.SourceDeviceID), deviceLockKey(cable.TargetDeviceID), cablesLockKey)
	defer unlock()

	created, err := inTx(ctx, c.store, func(ctx context.Context) (*model.Cable, error) {
		if _, err := c.store.Cable().Get(ctx, cable.ID); err == nil {
			return nil, NewErrNameConflict("cable", cable.ID)
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}

		if err := c.checkEndpoints(ctx, cable, ""); err != nil {
			return nil, err
		}

		created, err := c.store.Cable().Create(ctx, cable)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, &ErrPortOccupied{error: fmt.Errorf("endpoints of cable %s are already in use", cable.ID)}
			}
			return nil, err
		}

		if err := occupyPorts(ctx, c.store, cable.Source(), cable.Target()); err != nil {
			return nil, err
		}

		return created, nil
	})
	if err != nil {
		return nil, err
	}

	c.audit(ctx, events.ActionCreate, moduleCable, created.ID, nil, cableView(*created))

	return created, nil
}

// CreateCablesBatch creates the cables in input order, each in its own transaction,
// so an endpoint taken by an earlier item is seen by the later ones.
func (c *CableService) CreateCablesBatch(ctx context.Context, forms []mappers.CableForm) BatchResult {
	result := BatchResult{Errors: []BatchError{}}
	for i, form := range forms {
		if form.ID == "" {
			form.ID = NewID(IDKindCable)
		}
		_, err := c.CreateCable(ctx, form)
		result.add(i+1, form.ID, err)
	}
	return result
}

func (c *CableService) UpdateCable(ctx context.Context, id string, form mappers.CableUpdateForm) (result *model.Cable, err error) {
	defer func() { c.record(moduleCable, "update", err) }()

	for attempt := 0; attempt < maxLockAttempts; attempt++ {
		current, err := c.GetCable(ctx, id)
		if err != nil {
			return nil, err
		}

		changed := cableView(*current)
		form.Apply(&changed)

		unlock := c.locker.Lock(
			deviceLockKey(current.SourceDeviceID), deviceLockKey(current.TargetDeviceID),
			deviceLockKey(changed.SourceDeviceID), deviceLockKey(changed.TargetDeviceID),
			cablesLockKey,
		)
		result, err = c.updateCable(ctx, *current, form)
		unlock()

		if errors.Is(err, errLockKeysChanged) {
			continue
		}
		return result, err
	}

	return nil, fmt.Errorf("cable %s kept changing while waiting for its devices", id)
}

func (c *CableService) updateCable(ctx context.Context, locked model.Cable, form mappers.CableUpdateForm) (*model.Cable, error) {
	var before model.Cable

	updated, err := inTx(ctx, c.store, func(ctx context.Context) (*model.Cable, error) {
		current, err := c.GetCable(ctx, locked.ID)
		if err != nil {
			return nil, err
		}
		if current.SourceDeviceID != locked.SourceDeviceID || current.TargetDeviceID != locked.TargetDeviceID {
			return nil, errLockKeysChanged
		}
		before = cableView(*current)

		changed := before
		form.Apply(&changed)
		if err := validateCable(changed); err != nil {
			return nil, err
		}

		moved := form.MovesEndpoints() && (changed.Source() != before.Source() || changed.Target() != before.Target())
		if moved {
			if err := c.checkEndpoints(ctx, changed, changed.ID); err != nil {
				return nil, err
			}
		}

		var updated *model.Cable
		if moved {
			updated, err = c.store.Cable().Move(ctx, changed)
		} else {
			updated, err = c.store.Cable().Update(ctx, changed)
		}
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, &ErrPortOccupied{error: fmt.Errorf("endpoints of cable %s are already in use", changed.ID)}
			}
			return nil, err
		}

		if moved {
			if err := releasePorts(ctx, c.store, before.Source(), before.Target()); err != nil {
				return nil, err
			}
			if err := occupyPorts(ctx, c.store, changed.Source(), changed.Target()); err != nil {
				return nil, err
			}
		}

		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	c.audit(ctx, events.ActionUpdate, moduleCable, locked.ID, before, cableView(*updated))

	return updated, nil
}

func (c *CableService) DeleteCable(ctx context.Context, id string) (err error) {
	defer func() { c.record(moduleCable, "delete", err) }()

	current, err := c.GetCable(ctx, id)
	if err != nil {
		return err
	}

	unlock := c.locker.Lock(deviceLockKey(current.SourceDeviceID), deviceLockKey(current.TargetDeviceID), cablesLockKey)
	defer unlock()

	_, err = inTx(ctx, c.store, func(ctx context.Context) (any, error) {
		cable, err := c.GetCable(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, disconnectCable(ctx, c.store, *cable)
	})
	if err != nil {
		return err
	}

	c.audit(ctx, events.ActionDelete, moduleCable, id, cableView(*current), nil)

	return nil
}

// DeleteCablesBatch deletes every cable independently and reports the outcome per id.
func (c *CableService) DeleteCablesBatch(ctx context.Context, ids []string) BatchDeleteResult {
	result := BatchDeleteResult{Items: []BatchItemResult{}}
	for _, id := range ids {
		result.add(id, c.DeleteCable(ctx, id))
	}
	return result
}

// checkEndpoints verifies both devices exist and neither endpoint is cabled,
// ignoring the cable named by selfID.
func (c *CableService) checkEndpoints(ctx context.Context, cable model.Cable, selfID string) error {
	for _, deviceID := range []string{cable.SourceDeviceID, cable.TargetDeviceID} {
		if _, err := c.store.Device().Get(ctx, deviceID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return NewErrDeviceNotFound(deviceID)
			}
			return err
		}
	}

	for _, endpoint := range []model.Endpoint{cable.Source(), cable.Target()} {
		owner, err := c.store.Cable().EndpointOwner(ctx, endpoint)
		switch {
		case errors.Is(err, store.ErrRecordNotFound):
		case err != nil:
			return err
		case owner != selfID:
			return NewErrPortOccupied(endpoint, owner)
		}
	}

	return nil
}

// disconnectCable removes the cable and frees the port records it held.
func disconnectCable(ctx context.Context, s store.Store, cable model.Cable) error {
	if err := s.Cable().Delete(ctx, cable.ID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrCableNotFound(cable.ID)
		}
		return err
	}
	return releasePorts(ctx, s, cable.Source(), cable.Target())
}

func occupyPorts(ctx context.Context, s store.Store, endpoints ...model.Endpoint) error {
	for _, e := range endpoints {
		if _, err := s.Port().SetStatusByEndpoint(ctx, e, model.PortStatusFree, model.PortStatusOccupied); err != nil {
			return err
		}
	}
	return nil
}

func releasePorts(ctx context.Context, s store.Store, endpoints ...model.Endpoint) error {
	for _, e := range endpoints {
		if _, err := s.Port().SetStatusByEndpoint(ctx, e, model.PortStatusOccupied, model.PortStatusFree); err != nil {
			return err
		}
	}
	return nil
}

// cableView drops the joined devices, keeping only the cable columns.
func cableView(cable model.Cable) model.Cable {
	cable.SourceDevice = nil
	cable.TargetDevice = nil
	return cable
}

func validateCable(cable model.Cable) error {
	missing := []string{}
	if cable.SourceDeviceID == "" {
		missing = append(missing, "sourceDeviceId")
	}
	if cable.SourcePort == "" {
		missing = append(missing, "sourcePort")
	}
	if cable.TargetDeviceID == "" {
		missing = append(missing, "targetDeviceId")
	}
	if cable.TargetPort == "" {
		missing = append(missing, "targetPort")
	}
	if len(missing) > 0 {
		return NewErrMissingFields(missing...)
	}

	if cable.SourceDeviceID == cable.TargetDeviceID {
		return NewErrSelfLoop(cable.SourceDeviceID)
	}

	if !funk.ContainsString(model.CableTypes, cable.Type) {
		return NewErrValidation("invalid cable type %q", cable.Type)
	}
	if !funk.ContainsString(model.CableStatuses, cable.Status) {
		return NewErrValidation("invalid cable status %q", cable.Status)
	}
	if cable.Length != nil && *cable.Length < 0 {
		return NewErrValidation("cable length cannot be negative")
	}
	return nil
}

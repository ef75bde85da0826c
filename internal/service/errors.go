package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kubev2v/rack-planner/internal/store/model"
)

// Error kinds reported to callers and used as metric labels.
const (
	KindValidation    = "ValidationError"
	KindSlotConflict  = "SlotConflict"
	KindNameConflict  = "NameConflict"
	KindSelfLoop      = "SelfLoop"
	KindPortOccupied  = "PortOccupied"
	KindHasDependents = "HasDependents"
	KindNotFound      = "NotFound"
	KindInternal      = "InternalError"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id string, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrRoomNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "room")
}

func NewErrRackNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "rack")
}

func NewErrDeviceNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "device")
}

func NewErrNetworkCardNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "network card")
}

func NewErrPortNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "port")
}

func NewErrCableNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "cable")
}

type ErrValidation struct {
	error
}

func NewErrValidation(format string, args ...any) *ErrValidation {
	return &ErrValidation{fmt.Errorf(format, args...)}
}

func NewErrMissingFields(fields ...string) *ErrValidation {
	return &ErrValidation{fmt.Errorf("missing required fields: %s", strings.Join(fields, ", "))}
}

type ErrSlotConflict struct {
	error
	RackID        string
	ConflictsWith string
}

func NewErrSlotOutOfBounds(rackID string, r Range, rackHeight int) *ErrSlotConflict {
	return &ErrSlotConflict{
		error:  fmt.Errorf("units %s do not fit in rack %s of height %dU", r, rackID, rackHeight),
		RackID: rackID,
	}
}

func NewErrSlotOccupied(rackID string, r Range, other Placement) *ErrSlotConflict {
	return &ErrSlotConflict{
		error:         fmt.Errorf("units %s of rack %s overlap device %s at units %s", r, rackID, other.DeviceID, other.Range),
		RackID:        rackID,
		ConflictsWith: other.DeviceID,
	}
}

func NewErrNoFreeSlot(rackID string, height int) *ErrSlotConflict {
	return &ErrSlotConflict{
		error:  fmt.Errorf("rack %s has no %dU free range", rackID, height),
		RackID: rackID,
	}
}

type ErrNameConflict struct {
	error
}

func NewErrNameConflict(resourceType, name string) *ErrNameConflict {
	return &ErrNameConflict{fmt.Errorf("%s %q already exists", resourceType, name)}
}

func NewErrNameConflictOnDevice(resourceType, name, deviceID string) *ErrNameConflict {
	return &ErrNameConflict{fmt.Errorf("%s %q already exists on device %s", resourceType, name, deviceID)}
}

type ErrSelfLoop struct {
	error
}

func NewErrSelfLoop(deviceID string) *ErrSelfLoop {
	return &ErrSelfLoop{fmt.Errorf("cable cannot connect device %s to itself", deviceID)}
}

type ErrPortOccupied struct {
	error
	Endpoint model.Endpoint
	CableID  string
}

func NewErrPortOccupied(endpoint model.Endpoint, cableID string) *ErrPortOccupied {
	return &ErrPortOccupied{
		error:    fmt.Errorf("port %s is already connected by cable %s", endpoint, cableID),
		Endpoint: endpoint,
		CableID:  cableID,
	}
}

type ErrHasDependents struct {
	error
	Count int64
}

func NewErrHasDependents(resourceType, id string, count int64, what string) *ErrHasDependents {
	return &ErrHasDependents{
		error: fmt.Errorf("%s %s still has %d %s", resourceType, id, count, what),
		Count: count,
	}
}

// Kind classifies an error returned by the services.
func Kind(err error) string {
	var (
		errValidation   *ErrValidation
		errSlot         *ErrSlotConflict
		errName         *ErrNameConflict
		errSelfLoop     *ErrSelfLoop
		errPortOccupied *ErrPortOccupied
		errDependents   *ErrHasDependents
		errNotFound     *ErrResourceNotFound
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &errValidation):
		return KindValidation
	case errors.As(err, &errSlot):
		return KindSlotConflict
	case errors.As(err, &errName):
		return KindNameConflict
	case errors.As(err, &errSelfLoop):
		return KindSelfLoop
	case errors.As(err, &errPortOccupied):
		return KindPortOccupied
	case errors.As(err, &errDependents):
		return KindHasDependents
	case errors.As(err, &errNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// IsRejection reports whether the error is an invariant violation rather than a failure.
func IsRejection(err error) bool {
	switch Kind(err) {
	case "", KindInternal:
		return false
	default:
		return true
	}
}

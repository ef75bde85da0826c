package service

import "github.com/google/uuid"

type IDKind string

const (
	IDKindRoom        IDKind = "ROOM"
	IDKindRack        IDKind = "RACK"
	IDKindDevice      IDKind = "DEV"
	IDKindNetworkCard IDKind = "NIC"
	IDKindPort        IDKind = "PORT"
	IDKindCable       IDKind = "CABLE"
)

// NewID returns a unique, time ordered identifier prefixed by its kind,
// e.g. CABLE-01923f4e-5a7b-7c3d-8e9f-0a1b2c3d4e5f.
func NewID(kind IDKind) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return string(kind) + "-" + id.String()
}

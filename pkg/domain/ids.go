package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "geoclock/pkg/domain-errors"
)

// Typed identifiers keep drivers, warehouses and sessions from being mixed up at
// compile time. Construct them with the Parse functions at trust boundaries.
type (
	DriverID    uuid.UUID
	WarehouseID uuid.UUID
	SessionID   uuid.UUID
)

func parseUUID(s, kind string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return parsed, nil
}

func ParseDriverID(s string) (DriverID, error) {
	u, err := parseUUID(s, "driver_id")
	return DriverID(u), err
}

func ParseWarehouseID(s string) (WarehouseID, error) {
	u, err := parseUUID(s, "warehouse_id")
	return WarehouseID(u), err
}

func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session_id")
	return SessionID(u), err
}

func NewSessionID() SessionID { return SessionID(uuid.New()) }

func (id DriverID) String() string    { return uuid.UUID(id).String() }
func (id WarehouseID) String() string { return uuid.UUID(id).String() }
func (id SessionID) String() string   { return uuid.UUID(id).String() }

func (id DriverID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id WarehouseID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// Less orders warehouse ids by their canonical string form, which matches byte
// order for uuids. Used to break nearest-warehouse ties deterministically.
func (id WarehouseID) Less(other WarehouseID) bool {
	return id.String() < other.String()
}

// Text marshalling keeps the canonical uuid form in JSON payloads.

func (id DriverID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id WarehouseID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id SessionID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }

func (id *DriverID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *WarehouseID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *SessionID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

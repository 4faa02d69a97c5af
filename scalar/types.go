package scalar

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Binary subtypes with dedicated handling.
const (
	BinaryGeneric byte = 0x00
	BinaryUUIDOld byte = 0x03
	BinaryUUID    byte = 0x04
	BinaryMD5     byte = 0x05
	BinaryUserDef byte = 0x80
)

// ObjectID is the 12-byte identifier type.
type ObjectID [12]byte

// Hex returns the 24-character hex encoding of the id.
func (id ObjectID) Hex() string { return hex.EncodeToString(id[:]) }

func (id ObjectID) String() string { return fmt.Sprintf("ObjectID(%q)", id.Hex()) }

// Timestamp is the internal replication timestamp: seconds T and ordinal I.
type Timestamp struct {
	T uint32
	I uint32
}

// Decimal128 holds the two little-endian halves of an IEEE 754-2008 decimal.
type Decimal128 struct {
	High uint64
	Low  uint64
}

func (d Decimal128) String() string {
	return bson.NewDecimal128(d.High, d.Low).String()
}

// Binary is a subtype-tagged byte payload.
type Binary struct {
	Subtype byte
	Data    []byte
}

// UUID interprets the payload as a UUID. Only subtypes 3 and 4 with a
// 16-byte payload qualify.
func (b Binary) UUID() (uuid.UUID, error) {
	if b.Subtype != BinaryUUID && b.Subtype != BinaryUUIDOld {
		return uuid.Nil, fmt.Errorf("scalar: binary subtype 0x%02X is not a UUID", b.Subtype)
	}
	return uuid.FromBytes(b.Data)
}

func (b Binary) String() string {
	if id, err := b.UUID(); err == nil {
		return fmt.Sprintf("UUID(%q)", id.String())
	}
	return fmt.Sprintf("Binary(0x%02X, %s)", b.Subtype, hex.EncodeToString(b.Data))
}

// Regex is a pattern with its option flags.
type Regex struct {
	Pattern string
	Options string
}

// DBPointer is the deprecated namespace + id reference.
type DBPointer struct {
	Namespace string
	ID        ObjectID
}

// CodeWithScope is JavaScript code with its scope document kept encoded.
type CodeWithScope struct {
	Code  string
	Scope []byte
}

// DateTime is milliseconds since the Unix epoch.
type DateTime int64

// Time converts the datetime to a UTC time.Time.
func (d DateTime) Time() time.Time {
	return time.UnixMilli(int64(d)).UTC()
}

// MinKey and MaxKey are the ordering sentinels.
type (
	MinKey struct{}
	MaxKey struct{}
)

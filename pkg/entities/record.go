package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/ticketwolf/pkg/custom"
)

// RecordType is the discriminator of a stored record.
type RecordType string

const (
	TypePanel       RecordType = "panel"
	TypeTicket      RecordType = "ticket"
	TypeAutosave    RecordType = "autosave"
	TypeGuildConfig RecordType = "guild_config"
	TypeTemplate    RecordType = "template"
)

// Record is the physical row every entity is persisted as. The store only ever sees records.
type Record struct {
	// ID is the globally unique, kind-namespaced id (e.g. "panel:1001").
	ID string `json:"id"`

	// Type is the record discriminator.
	Type RecordType `json:"type"`

	// Keys are the indexed attributes of the record.
	Keys map[string]string `json:"keys,omitempty"`

	// Payload is the JSON encoded entity.
	Payload json.RawMessage `json:"payload"`

	// UpdatedAt is the time the record was last written.
	UpdatedAt custom.Datetime `json:"updated_at"`
}

// Entity is implemented by every persisted type.
type Entity interface {
	// RecordID returns the namespaced id of the entity.
	RecordID() string

	// RecordType returns the record discriminator.
	RecordType() RecordType

	// IndexKeys returns the attributes the store indexes for lookups.
	IndexKeys() map[string]string
}

// Encode converts an entity to a record.
func Encode(e Entity) (*Record, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("error encoding %s: %w", e.RecordType(), err)
	}

	return &Record{
		ID:        e.RecordID(),
		Type:      e.RecordType(),
		Keys:      e.IndexKeys(),
		Payload:   payload,
		UpdatedAt: custom.Now(),
	}, nil
}

// Decode decodes the payload of a record into the given entity.
func Decode(r *Record, into Entity) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if r.Type != into.RecordType() {
		return fmt.Errorf("record %s is a %s, not a %s", r.ID, r.Type, into.RecordType())
	}
	if err := json.Unmarshal(r.Payload, into); err != nil {
		return fmt.Errorf("error decoding %s: %w", r.ID, err)
	}
	return nil
}

// NamespacedID builds an id such as "panel:1001".
func NamespacedID(kind RecordType, key string) string {
	return string(kind) + ":" + key
}

// SequenceOf returns the numeric suffix of a namespaced id.
func SequenceOf(id string) (int, bool) {
	idx := strings.LastIndex(id, ":")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

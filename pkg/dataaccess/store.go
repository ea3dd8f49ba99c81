package dataaccess

import (
	"context"
	"errors"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

const (
	// mongoDatabase is the database records are kept in.
	mongoDatabase = "wolf"

	// recordsCollection is the single heterogeneous collection/table of records.
	recordsCollection = "records"
)

// Store is a key/value store of typed records. Writes overwrite the whole record and the last write
// wins; there are no partial updates, transactions or optimistic concurrency tokens.
type Store interface {
	// Put creates or overwrites the record.
	Put(ctx context.Context, rec *entities.Record) error

	// Get returns the record with the id, or ErrNotFound.
	Get(ctx context.Context, id string) (*entities.Record, error)

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Scan returns every record of the type.
	Scan(ctx context.Context, typ entities.RecordType) ([]*entities.Record, error)

	// Find returns the records of the type whose index keys match every entry of match.
	Find(ctx context.Context, typ entities.RecordType, match map[string]string) ([]*entities.Record, error)

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error

	// Backend is the name of the store implementation.
	Backend() string

	// Close releases the store's resources.
	Close(ctx context.Context) error
}

func matches(rec *entities.Record, typ entities.RecordType, match map[string]string) bool {
	if rec.Type != typ {
		return false
	}
	for k, v := range match {
		if rec.Keys[k] != v {
			return false
		}
	}
	return true
}

func cloneRecord(rec *entities.Record) *entities.Record {
	if rec == nil {
		return nil
	}

	c := *rec
	c.Payload = append([]byte(nil), rec.Payload...)
	if rec.Keys != nil {
		c.Keys = make(map[string]string, len(rec.Keys))
		for k, v := range rec.Keys {
			c.Keys[k] = v
		}
	}
	return &c
}

package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// firstSequence is the first number handed out for sequential ids.
const firstSequence = 1001

// entityPtr constrains T to pointer types implementing entities.Entity.
type entityPtr[T any] interface {
	*T
	entities.Entity
}

// dal is the typed access shared by every record kind.
type dal[T any, P entityPtr[T]] struct {
	name  string
	typ   entities.RecordType
	store Store
	l     *slog.Logger
}

func newDal[T any, P entityPtr[T]](name string, typ entities.RecordType, store Store, l *slog.Logger) *dal[T, P] {
	return &dal[T, P]{
		name:  name,
		typ:   typ,
		store: store,
		l:     l.With(slog.String(logging.KeyDal, name)),
	}
}

// observe starts the prometheus metrics for a query and returns the function that finishes them.
func (d *dal[T, P]) observe(query string) func(err error) {
	labels := []string{d.name, query, d.store.Backend(), string(d.typ)}
	monitoring.StoreTotalRequests.WithLabelValues(labels...).Inc()
	t := prometheus.NewTimer(monitoring.StoreLatency.WithLabelValues(labels...))
	return func(err error) {
		t.ObserveDuration()
		if err != nil && !errors.Is(err, ErrNotFound) {
			monitoring.StoreErrors.WithLabelValues(labels...).Inc()
		}
	}
}

func (d *dal[T, P]) save(ctx context.Context, query string, e P) (err error) {
	done := d.observe(query)
	defer func() { done(err) }()

	rec, err := entities.Encode(e)
	if err != nil {
		return err
	}
	if err := d.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("error saving %s: %w", rec.ID, err)
	}
	return nil
}

func (d *dal[T, P]) get(ctx context.Context, query, id string) (_ P, err error) {
	done := d.observe(query)
	defer func() { done(err) }()

	rec, err := d.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	e := P(new(T))
	if err := entities.Decode(rec, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (d *dal[T, P]) find(ctx context.Context, query string, match map[string]string) (_ []P, err error) {
	done := d.observe(query)
	defer func() { done(err) }()

	recs, err := d.store.Find(ctx, d.typ, match)
	if err != nil {
		return nil, fmt.Errorf("error finding %s records: %w", d.typ, err)
	}

	out := make([]P, 0, len(recs))
	for _, rec := range recs {
		e := P(new(T))
		if err := entities.Decode(rec, e); err != nil {
			d.l.Error("Skipping undecodable record", slog.String("id", rec.ID), logging.ErrAttr(err))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *dal[T, P]) delete(ctx context.Context, query, id string) (err error) {
	done := d.observe(query)
	defer func() { done(err) }()

	if err := d.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting %s: %w", id, err)
	}
	return nil
}

// sequencer hands out sequential numbers for a record kind. The highest number issued by this
// process is remembered so that two creations racing before either is saved get distinct numbers.
type sequencer struct {
	mu   sync.Mutex
	last int
}

func (s *sequencer) next(ctx context.Context, store Store, typ entities.RecordType) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := store.Scan(ctx, typ)
	if err != nil {
		return 0, fmt.Errorf("error scanning %s records: %w", typ, err)
	}

	highest := firstSequence - 1
	for _, rec := range recs {
		if n, ok := entities.SequenceOf(rec.ID); ok && n > highest {
			highest = n
		}
	}
	if s.last > highest {
		highest = s.last
	}

	s.last = highest + 1
	return s.last, nil
}

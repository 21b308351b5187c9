package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/asakaida/groupperm/internal/entities"
	"github.com/asakaida/groupperm/internal/repositories"
)

// Error kinds reported for failed store calls
const (
	ErrorKindUnavailable = "unavailable"
	ErrorKindQuery       = "query"
	ErrorKindDuplicate   = "duplicate"
	ErrorKindInvalid     = "invalid"
	ErrorKindOther       = "other"
)

// instrumentedGroupRepository records store metrics around another repository
type instrumentedGroupRepository struct {
	next      repositories.GroupRepository
	collector *Collector
	exporter  *PrometheusExporter
}

// InstrumentGroupRepository wraps repo so every call is counted and timed.
// Results and errors pass through unchanged.
func InstrumentGroupRepository(repo repositories.GroupRepository, collector *Collector, exporter *PrometheusExporter) repositories.GroupRepository {
	return &instrumentedGroupRepository{
		next:      repo,
		collector: collector,
		exporter:  exporter,
	}
}

func (r *instrumentedGroupRepository) Get(ctx context.Context, name string) (*entities.Group, error) {
	start := time.Now()
	group, err := r.next.Get(ctx, name)
	r.observe("get", start, err)
	return group, err
}

func (r *instrumentedGroupRepository) Save(ctx context.Context, group *entities.Group, upsert bool) error {
	operation := "insert"
	if upsert {
		operation = "upsert"
	}
	start := time.Now()
	err := r.next.Save(ctx, group, upsert)
	r.observe(operation, start, err)
	return err
}

func (r *instrumentedGroupRepository) Delete(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	deleted, err := r.next.Delete(ctx, name)
	r.observe("delete", start, err)
	return deleted, err
}

func (r *instrumentedGroupRepository) List(ctx context.Context) ([]*entities.Group, error) {
	start := time.Now()
	groups, err := r.next.List(ctx)
	r.observe("list", start, err)
	return groups, err
}

func (r *instrumentedGroupRepository) observe(operation string, start time.Time, err error) {
	r.collector.RecordStoreOperation(operation)
	if r.exporter != nil {
		r.exporter.RecordStoreOperation(operation, time.Since(start).Seconds())
	}
	if err == nil {
		return
	}

	kind := ErrorKind(err)
	r.collector.RecordStoreError(kind)
	if r.exporter != nil {
		r.exporter.RecordStoreError(operation, kind)
	}
}

// ErrorKind names the repository error kind of err
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, repositories.ErrStoreUnavailable):
		return ErrorKindUnavailable
	case errors.Is(err, repositories.ErrDuplicateName):
		return ErrorKindDuplicate
	case errors.Is(err, repositories.ErrInvalidGroup):
		return ErrorKindInvalid
	case errors.Is(err, repositories.ErrQuery):
		return ErrorKindQuery
	default:
		return ErrorKindOther
	}
}

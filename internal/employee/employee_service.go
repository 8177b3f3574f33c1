package employee

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	employeeerrors "ems-sync/internal/employee/errors"
	"ems-sync/internal/events"
	"ems-sync/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	FacetsKeyPrefix = "employees:facets:"
	facetsCacheTTL  = time.Hour
	defaultPageSize = 10
	maxPageSize     = 100
)

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	List(ctx context.Context, q ListEmployeesQuery) (ListEmployeesResponse, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (MutationResponse, error)
	Delete(ctx context.Context, id string) (MutationResponse, error)
	Facets(ctx context.Context) (FacetSet, error)
}

type service struct {
	store     *Store
	publisher EventPublisher
	rdb       *redis.Client
	sf        *singleflight.Group
	// the store is process local, so cache keys must not collide across replicas
	instance string
	logger   *zap.Logger
}

func NewService(store *Store, publisher EventPublisher, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithInstance(store, publisher, rdb, uuid.NewString(), logger...)
}

// NewServiceWithInstance pins the instance id used in cache keys.
func NewServiceWithInstance(
	store *Store,
	publisher EventPublisher,
	rdb *redis.Client,
	instance string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if publisher == nil {
		publisher = NewNoopEventPublisher()
	}
	return &service{
		store:     store,
		publisher: publisher,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		instance:  instance,
		logger:    l,
	}
}

// FacetsKey is the cache key for the facets of one snapshot version.
func FacetsKey(instance string, version uint64) string {
	return fmt.Sprintf("%s%s:v%d", FacetsKeyPrefix, instance, version)
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create employee requested",
		zap.String("email", req.Email),
		zap.String("department", req.Department),
	)

	prev := s.store.Snapshot().Version()
	created := s.store.Add(req.toEmployee())

	s.afterMutation(ctx, prev, events.EmployeeCreated, created)
	log.Info("create employee success", zap.String("employee_id", created.ID))
	return created, nil
}

func (s *service) List(ctx context.Context, q ListEmployeesQuery) (ListEmployeesResponse, error) {
	if q.Page < 0 || q.PageSize < 0 {
		return ListEmployeesResponse{}, employeeerrors.ErrInvalidPagination
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
	q.PageSize = min(q.PageSize, maxPageSize)

	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("list employees requested",
		zap.String("search", q.Search),
		zap.String("department", q.Department),
		zap.String("status", q.Status),
	)

	res := Compute(s.store.Snapshot(), q.Criteria())

	return ListEmployeesResponse{
		Employees: Paginate(res.Employees, q.Page, q.PageSize),
		Facets:    res.Facets,
		Criteria:  res.Criteria,
		Total:     len(res.Employees),
		Version:   res.Version,
	}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (Employee, error) {
	empl, ok := s.store.FindByID(strings.TrimSpace(id))
	if !ok {
		contextutil.GetLogger(ctx, s.logger).Debug("get employee by id not found", zap.String("employee_id", id))
		return Employee{}, employeeerrors.ErrEmployeeNotFound
	}
	return empl, nil
}

// Update never fails on an unknown id; the store ignores it and the response
// reports Updated=false.
func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (MutationResponse, error) {
	patch := req.toPatch()
	if patch.IsEmpty() {
		return MutationResponse{}, employeeerrors.ErrEmptyPatch
	}

	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update employee requested", zap.String("employee_id", id))

	prev := s.store.Snapshot().Version()
	updated, ok := s.store.Update(id, patch)
	if !ok {
		log.Info("update employee skipped, not found", zap.String("employee_id", id))
		return MutationResponse{ID: id}, nil
	}

	s.afterMutation(ctx, prev, events.EmployeeUpdated, updated)
	log.Info("update employee success", zap.String("employee_id", id))
	return MutationResponse{ID: id, Updated: true}, nil
}

// Delete reports Deleted=true only to the caller whose removal took effect.
func (s *service) Delete(ctx context.Context, id string) (MutationResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("delete employee requested", zap.String("employee_id", id))

	prev := s.store.Snapshot().Version()
	removed, ok := s.store.Remove(id)
	if !ok {
		log.Info("delete employee skipped, not found", zap.String("employee_id", id))
		return MutationResponse{ID: id}, nil
	}

	s.afterMutation(ctx, prev, events.EmployeeDeleted, removed)
	log.Info("delete employee success", zap.String("employee_id", id))
	return MutationResponse{ID: id, Deleted: true}, nil
}

// Facets are cached per snapshot version. Redis is optional; without it the
// facets are computed from the snapshot directly.
func (s *service) Facets(ctx context.Context) (FacetSet, error) {
	snap := s.store.Snapshot()
	cacheKey := FacetsKey(s.instance, snap.Version())

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var fs FacetSet
			if json.Unmarshal([]byte(cached), &fs) == nil {
				return fs, nil
			}
		}
	}

	v, _, _ := s.sf.Do(cacheKey, func() (any, error) {
		fs := Facets(snap.records)

		if s.rdb != nil {
			if payload, err := json.Marshal(fs); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, facetsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache employee facets failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return fs, nil
	})

	return v.(FacetSet), nil
}

func (s *service) afterMutation(ctx context.Context, prevVersion uint64, eventType string, empl Employee) {
	rid := contextutil.GetRequestID(ctx)
	version := s.store.Snapshot().Version()

	if s.rdb != nil {
		cacheKey := FacetsKey(s.instance, prevVersion)
		if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
			s.logger.Error("failed to invalidate employee facets cache",
				zap.String("key", cacheKey),
				zap.Error(err),
			)
		}
	}

	event := events.EmployeeLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		EmployeeID: empl.ID,
		Department: empl.Department,
		Status:     empl.Status,
		Version:    version,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishLifecycle(ctx, event); err != nil {
		// the mutation already happened; the event feed is best effort
		s.logger.Error("publish employee lifecycle event failed",
			zap.String("request_id", rid),
			zap.String("event_type", eventType),
			zap.String("employee_id", empl.ID),
			zap.Error(err),
		)
	}
}

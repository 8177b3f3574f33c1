package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ems-sync/internal/employee"
	employeeerrors "ems-sync/internal/employee/errors"
	employeeMock "ems-sync/internal/employee/mock"
	"ems-sync/internal/events"
	"ems-sync/internal/shared/contextutil"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const testInstance = "test"

type serviceDeps struct {
	store     *employee.Store
	service   employee.Service
	publisher *employeeMock.MockEventPublisher
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	dbRedis, redisMock := redismock.NewClientMock()
	publisher := employeeMock.NewMockEventPublisher(ctrl)
	store := twoRecordStore()

	svc := employee.NewServiceWithInstance(store, publisher, dbRedis, testInstance, zap.NewNop())

	t.Cleanup(func() {
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	return &serviceDeps{
		store:     store,
		service:   svc,
		publisher: publisher,
		redismock: redisMock,
	}
}

func TestEmployeeService_Create(t *testing.T) {
	req := employee.CreateEmployeeRequest{
		Name:       "Cy",
		Email:      "cy@corp.io",
		Department: "Eng",
		Status:     "Active",
	}

	t.Run("success - assigns id, invalidates facets and publishes", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := contextutil.WithRequestID(context.Background(), "req-1")

		deps.redismock.ExpectDel(employee.FacetsKey(testInstance, 1)).SetVal(1)
		deps.publisher.EXPECT().
			PublishLifecycle(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev events.EmployeeLifecycleEvent) error {
				assert.Equal(t, events.EmployeeCreated, ev.EventType)
				assert.Equal(t, "EMP003", ev.EmployeeID)
				assert.Equal(t, "req-1", ev.RequestID)
				assert.Equal(t, uint64(2), ev.Version)
				return nil
			})

		got, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "EMP003", got.ID)
		assert.Equal(t, 3, deps.store.Snapshot().Len())
	})

	t.Run("publish and cache failures do not undo the mutation", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.redismock.ExpectDel(employee.FacetsKey(testInstance, 1)).SetErr(errors.New("redis down"))
		deps.publisher.EXPECT().
			PublishLifecycle(gomock.Any(), gomock.Any()).
			Return(errors.New("broker unavailable"))

		got, err := deps.service.Create(context.Background(), req)

		assert.NoError(t, err)
		_, ok := deps.store.FindByID(got.ID)
		assert.True(t, ok)
	})
}

func TestEmployeeService_List(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		resp, err := deps.service.List(ctx, employee.ListEmployeesQuery{})

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
		assert.Len(t, resp.Employees, 2)
		assert.ElementsMatch(t, []string{"Sales", "Eng"}, resp.Facets.Departments)
		assert.Equal(t, uint64(1), resp.Version)
	})

	t.Run("filter keeps facets of the whole directory", func(t *testing.T) {
		resp, err := deps.service.List(ctx, employee.ListEmployeesQuery{Department: "Eng"})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, "EMP002", resp.Employees[0].ID)
		assert.ElementsMatch(t, []string{"Sales", "Eng"}, resp.Facets.Departments)
		assert.Equal(t, "Eng", resp.Criteria.Department)
	})

	t.Run("pagination", func(t *testing.T) {
		resp, err := deps.service.List(ctx, employee.ListEmployeesQuery{Page: 2, PageSize: 1})

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
		assert.Len(t, resp.Employees, 1)
		assert.Equal(t, "EMP002", resp.Employees[0].ID)
	})

	t.Run("negative page", func(t *testing.T) {
		_, err := deps.service.List(ctx, employee.ListEmployeesQuery{Page: -1})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidPagination)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	deps := setupServiceTest(t)

	got, err := deps.service.GetByID(context.Background(), " EMP001 ")
	assert.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	_, err = deps.service.GetByID(context.Background(), "EMP999")
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestEmployeeService_Update(t *testing.T) {
	status := "OnLeave"

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.redismock.ExpectDel(employee.FacetsKey(testInstance, 1)).SetVal(0)
		deps.publisher.EXPECT().
			PublishLifecycle(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev events.EmployeeLifecycleEvent) error {
				assert.Equal(t, events.EmployeeUpdated, ev.EventType)
				assert.Equal(t, "OnLeave", ev.Status)
				return nil
			})

		resp, err := deps.service.Update(context.Background(), "EMP002", employee.UpdateEmployeeRequest{Status: &status})

		assert.NoError(t, err)
		assert.Equal(t, employee.MutationResponse{ID: "EMP002", Updated: true}, resp)
		bo, _ := deps.store.FindByID("EMP002")
		assert.Equal(t, "OnLeave", bo.Status)
	})

	t.Run("unknown id is reported, not an error", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.publisher.EXPECT().PublishLifecycle(gomock.Any(), gomock.Any()).Times(0)

		resp, err := deps.service.Update(context.Background(), "EMP999", employee.UpdateEmployeeRequest{Status: &status})

		assert.NoError(t, err)
		assert.False(t, resp.Updated)
		assert.Equal(t, uint64(1), deps.store.Snapshot().Version())
	})

	t.Run("empty patch", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Update(context.Background(), "EMP001", employee.UpdateEmployeeRequest{})

		assert.ErrorIs(t, err, employeeerrors.ErrEmptyPatch)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.redismock.ExpectDel(employee.FacetsKey(testInstance, 1)).SetVal(1)
		deps.publisher.EXPECT().
			PublishLifecycle(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev events.EmployeeLifecycleEvent) error {
				assert.Equal(t, events.EmployeeDeleted, ev.EventType)
				assert.Equal(t, "Sales", ev.Department)
				return nil
			})

		resp, err := deps.service.Delete(context.Background(), "EMP001")

		assert.NoError(t, err)
		assert.True(t, resp.Deleted)
		assert.Equal(t, 1, deps.store.Snapshot().Len())
	})

	t.Run("twice is idempotent", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.redismock.ExpectDel(employee.FacetsKey(testInstance, 1)).SetVal(1)
		deps.publisher.EXPECT().PublishLifecycle(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		_, err := deps.service.Delete(context.Background(), "EMP001")
		assert.NoError(t, err)

		resp, err := deps.service.Delete(context.Background(), "EMP001")
		assert.NoError(t, err)
		assert.Equal(t, employee.MutationResponse{ID: "EMP001"}, resp)
		assert.Equal(t, 1, deps.store.Snapshot().Len())
	})
}

func TestEmployeeService_ConcurrentDeleteReportsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := employeeMock.NewMockEventPublisher(ctrl)
	publisher.EXPECT().PublishLifecycle(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	svc := employee.NewService(twoRecordStore(), publisher, nil, zap.NewNop())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		deleted int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.Delete(context.Background(), "EMP001")
			assert.NoError(t, err)
			if resp.Deleted {
				mu.Lock()
				deleted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, deleted)
}

func TestEmployeeService_Facets(t *testing.T) {
	cacheKey := employee.FacetsKey(testInstance, 1)

	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t)
		cached, _ := json.Marshal(employee.FacetSet{Departments: []string{"Cached"}, Statuses: []string{}})

		deps.redismock.ExpectGet(cacheKey).SetVal(string(cached))

		fs, err := deps.service.Facets(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, []string{"Cached"}, fs.Departments)
	})

	t.Run("cache miss computes and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		want := employee.FacetSet{Departments: []string{"Sales", "Eng"}, Statuses: []string{"Active"}}
		payload, _ := json.Marshal(want)

		deps.redismock.ExpectGet(cacheKey).RedisNil()
		deps.redismock.ExpectSet(cacheKey, payload, time.Hour).SetVal("OK")

		fs, err := deps.service.Facets(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, want, fs)
	})

	t.Run("without redis", func(t *testing.T) {
		svc := employee.NewService(twoRecordStore(), nil, nil, zap.NewNop())

		fs, err := svc.Facets(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, []string{"Sales", "Eng"}, fs.Departments)
	})
}

package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/repository"
	"github.com/alexanderramin/margindefense/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service against one in-memory database.
type testEnv struct {
	db       *sql.DB
	orgRepo  repository.OrganizationRepo
	clients  repository.ClientRepo
	projects repository.ProjectRepo
	logs     repository.WorkLogRepo
	requests repository.ScopeRequestRepo

	orgSvc       OrganizationService
	clientSvc    ClientService
	projectSvc   ProjectService
	workLogSvc   WorkLogService
	scopeSvc     ScopeService
	analyticsSvc AnalyticsService
	importSvc    ImportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithUoW(t, nil)
}

// newTestEnvWithUoW builds the services with uow in place of the real unit
// of work; nil selects the real one. The organization service always uses the
// real unit of work so only the use case under test sees injected failures.
func newTestEnvWithUoW(t *testing.T, uow func(*sql.DB) db.UnitOfWork) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	realUoW := testutil.NewTestUoW(database)
	useUoW := realUoW
	if uow != nil {
		useUoW = uow(database)
	}

	e := &testEnv{
		db:       database,
		orgRepo:  repository.NewSQLiteOrganizationRepo(database),
		clients:  repository.NewSQLiteClientRepo(database),
		projects: repository.NewSQLiteProjectRepo(database),
		logs:     repository.NewSQLiteWorkLogRepo(database),
		requests: repository.NewSQLiteScopeRequestRepo(database),
	}
	e.orgSvc = NewOrganizationService(e.orgRepo, realUoW)
	e.clientSvc = NewClientService(e.orgSvc, e.clients)
	e.projectSvc = NewProjectService(e.orgSvc, e.clients, e.projects)
	e.workLogSvc = NewWorkLogService(e.orgSvc, e.logs, nil, useUoW)
	e.scopeSvc = NewScopeService(e.orgSvc, e.requests, useUoW)
	e.analyticsSvc = NewAnalyticsService(e.orgSvc, useUoW, analytics.DefaultThresholds())
	e.importSvc = NewImportService(e.orgSvc, e.clients, nil, useUoW)
	return e
}

func (e *testEnv) seedClient(t *testing.T, name string, opts ...testutil.ClientOption) *domain.Client {
	t.Helper()
	org, err := e.orgSvc.Current(context.Background())
	require.NoError(t, err)
	c := testutil.NewTestClient(org.ID, name, opts...)
	require.NoError(t, e.clients.Create(context.Background(), c))
	return c
}

func (e *testEnv) seedProject(t *testing.T, clientID, name string, budget float64, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	org, err := e.orgSvc.Current(context.Background())
	require.NoError(t, err)
	p := testutil.NewTestProject(org.ID, clientID, name, budget, opts...)
	require.NoError(t, e.projects.Create(context.Background(), p))
	return p
}

func (e *testEnv) clientBurn(t *testing.T, id string) float64 {
	t.Helper()
	c, err := e.clients.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c.AccumulatedBurnTotal
}

func (e *testEnv) allLogs(t *testing.T) []*domain.WorkLog {
	t.Helper()
	logs, err := e.logs.List(context.Background(), repository.WorkLogFilter{})
	require.NoError(t, err)
	return logs
}

func ptrFloat(v float64) *float64 { return &v }
func ptrStr(v string) *string       { return &v }

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

// capturingObserver records every use-case event.
type capturingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *capturingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *capturingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

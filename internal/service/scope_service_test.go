package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/repository"
	"github.com/alexanderramin/margindefense/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRequest(t *testing.T, e *testEnv, title string, hours *float64, clientID *string) *domain.ScopeRequest {
	t.Helper()
	r, err := e.scopeSvc.Create(context.Background(), app.CreateScopeRequest{
		Title:          title,
		EstimatedHours: hours,
		ClientID:       clientID,
	})
	require.NoError(t, err)
	return r
}

func TestCreateScopeRequest_FreezesCost(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	client := e.seedClient(t, "TechCorp")

	r := createRequest(t, e, "Blog section", ptrFloat(10), &client.ID)
	assert.Equal(t, domain.ScopePending, r.Status)
	require.NotNil(t, r.EstimatedCost)
	assert.Equal(t, 750.0, *r.EstimatedCost)

	_, err := e.orgSvc.UpdateSettings(ctx, domain.OrganizationSettings{GlobalHourlyCost: ptrFloat(200)})
	require.NoError(t, err)

	stored, err := e.requests.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 750.0, *stored.EstimatedCost, "rate changes do not reprice stored requests")
}

func TestCreateScopeRequest_WithoutEstimate(t *testing.T) {
	e := newTestEnv(t)

	r := createRequest(t, e, "Maybe a newsletter", nil, nil)
	assert.Nil(t, r.EstimatedCost)
	assert.Zero(t, r.EstimatedCostOrZero())
}

func TestCreateScopeRequest_InheritsClientFromProject(t *testing.T) {
	e := newTestEnv(t)
	client := e.seedClient(t, "StartupXYZ")
	project := e.seedProject(t, client.ID, "Mobile App", 60000)

	r, err := e.scopeSvc.Create(context.Background(), app.CreateScopeRequest{
		Title:          "Dark mode",
		EstimatedHours: ptrFloat(24),
		ProjectID:      &project.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, r.ClientID)
	assert.Equal(t, client.ID, *r.ClientID)
}

func TestCreateScopeRequest_ValidationBeforeWrites(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.scopeSvc.Create(ctx, app.CreateScopeRequest{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.scopeSvc.Create(ctx, app.CreateScopeRequest{Title: "Blog", EstimatedHours: ptrFloat(-2)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.orgRepo.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// A 40-hour request accepted as burn at $75/h becomes a $3,000 margin-burn
// log and adds $3,000 to the client's accumulated burn.
func TestResolveScopeRequest_AcceptedBurnEndToEnd(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	client := e.seedClient(t, "TechCorp", testutil.WithRetainer(15000))

	r := createRequest(t, e, "Can you also add a blog section?", ptrFloat(40), &client.ID)

	now := fixedNow()
	resp, err := e.scopeSvc.Resolve(ctx, app.ResolveScopeRequest{
		ScopeRequestID: r.ID,
		Status:         domain.ScopeAcceptedBurn,
		Actor:          "pm",
		Now:            &now,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ScopeAcceptedBurn, resp.Request.Status)
	require.NotNil(t, resp.Request.ResolvedAt)
	assert.Equal(t, now, *resp.Request.ResolvedAt)

	w := resp.BurnLog
	require.NotNil(t, w)
	assert.Equal(t, "[SCOPE CREEP] Can you also add a blog section?", w.Description)
	assert.Equal(t, 2400, w.DurationMinutes)
	assert.InDelta(t, 3000.0, w.CostImpact, 1e-9)
	assert.Equal(t, domain.CategoryMarginBurn, w.Category)
	require.NotNil(t, w.BurnReason)
	assert.Equal(t, domain.ReasonScopeCreep, *w.BurnReason)
	assert.Equal(t, domain.SourceScopeRequest, w.Source)
	assert.Equal(t, 1.0, w.Confidence)
	assert.Equal(t, RationaleAcceptedScope, w.Rationale)
	require.NotNil(t, w.ClientID)
	assert.Equal(t, client.ID, *w.ClientID)

	stored, err := e.requests.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ScopeAcceptedBurn, stored.Status)
	require.NotNil(t, stored.ResolvedBy)
	assert.Equal(t, "pm", *stored.ResolvedBy)

	logs := e.allLogs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, w.ID, logs[0].ID)
	assert.InDelta(t, 3000.0, e.clientBurn(t, client.ID), 1e-9)

	metrics, err := e.analyticsSvc.PeriodMetrics(ctx, app.AnalyticsRequest{Days: 7, Now: &now})
	require.NoError(t, err)
	assert.InDelta(t, 3000.0, metrics.TotalMarginBurn, 1e-9)
	assert.Zero(t, metrics.ScopeRequestsPending)
}

func TestResolveScopeRequest_OtherOutcomesWriteNoLog(t *testing.T) {
	for _, status := range []domain.ScopeStatus{domain.ScopeConvertedRevenue, domain.ScopeRejected} {
		t.Run(string(status), func(t *testing.T) {
			e := newTestEnv(t)
			ctx := context.Background()
			client := e.seedClient(t, "TechCorp")
			r := createRequest(t, e, "Dark mode", ptrFloat(24), &client.ID)

			resp, err := e.scopeSvc.Resolve(ctx, app.ResolveScopeRequest{ScopeRequestID: r.ID, Status: status})
			require.NoError(t, err)
			assert.Equal(t, status, resp.Request.Status)
			assert.Nil(t, resp.BurnLog)

			assert.Empty(t, e.allLogs(t))
			assert.Zero(t, e.clientBurn(t, client.ID))
		})
	}
}

func TestResolveScopeRequest_OnlyOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	client := e.seedClient(t, "TechCorp")
	r := createRequest(t, e, "Blog", ptrFloat(4), &client.ID)

	_, err := e.scopeSvc.Resolve(ctx, app.ResolveScopeRequest{ScopeRequestID: r.ID, Status: domain.ScopeAcceptedBurn})
	require.NoError(t, err)

	_, err = e.scopeSvc.Resolve(ctx, app.ResolveScopeRequest{ScopeRequestID: r.ID, Status: domain.ScopeAcceptedBurn})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)

	assert.Len(t, e.allLogs(t), 1, "second resolution writes nothing")
	assert.InDelta(t, 300.0, e.clientBurn(t, client.ID), 1e-9)
}

func TestResolveScopeRequest_Rejections(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.scopeSvc.Resolve(ctx, app.ResolveScopeRequest{ScopeRequestID: "missing", Status: domain.ScopeRejected})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	r := createRequest(t, e, "Unestimated", nil, nil)

	_, err = e.scopeSvc.Resolve(ctx, app.ResolveScopeRequest{ScopeRequestID: r.ID, Status: domain.ScopePending})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.scopeSvc.Resolve(ctx, app.ResolveScopeRequest{ScopeRequestID: r.ID, Status: domain.ScopeAcceptedBurn})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "estimated_hours", verr.Field)

	stored, err := e.requests.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ScopePending, stored.Status)
}

func TestResolveScopeRequest_Rollback(t *testing.T) {
	// ExecContext #1 = resolution update, #2 = burn log insert, #3 = burn increment.
	tests := []struct {
		name   string
		failOn int32
	}{
		{"log insert fails", 2},
		{"burn increment fails", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnvWithUoW(t, func(database *sql.DB) db.UnitOfWork {
				return &testutil.FailOnNthExecUoW{DB: database, FailOn: tt.failOn, Err: fmt.Errorf("injected failure")}
			})
			ctx := context.Background()
			client := e.seedClient(t, "TechCorp")

			// Created through the repo: the service's own insert would hit the failing UoW.
			org, err := e.orgSvc.Current(ctx)
			require.NoError(t, err)
			r := testutil.NewTestScopeRequest(org.ID, "Blog", testutil.WithRequestClient(client.ID), testutil.WithEstimate(40, 75))
			require.NoError(t, e.requests.Create(ctx, r))

			_, err = e.scopeSvc.Resolve(ctx, app.ResolveScopeRequest{ScopeRequestID: r.ID, Status: domain.ScopeAcceptedBurn})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "injected failure")

			stored, err := e.requests.GetByID(ctx, r.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.ScopePending, stored.Status, "request stays pending")
			assert.Nil(t, stored.ResolvedAt)
			assert.Empty(t, e.allLogs(t))
			assert.Zero(t, e.clientBurn(t, client.ID))
		})
	}
}

func TestScopeList_ByStatus(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	first := createRequest(t, e, "First", ptrFloat(1), nil)
	createRequest(t, e, "Second", ptrFloat(2), nil)
	_, err := e.scopeSvc.Resolve(ctx, app.ResolveScopeRequest{ScopeRequestID: first.ID, Status: domain.ScopeRejected})
	require.NoError(t, err)

	all, err := e.scopeSvc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending := domain.ScopePending
	open, err := e.scopeSvc.List(ctx, &pending)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Second", open[0].Title)
}

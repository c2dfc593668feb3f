package service

import (
	"context"
	"database/sql"
	"errors"
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

func TestLogWork_ClassifiesCostsAndRaisesBurn(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	client := e.seedClient(t, "TechCorp")

	req := app.NewLogWorkRequest("Weekly team sync meeting", 60)
	req.ClientID = &client.ID
	w, err := e.workLogSvc.Log(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryMarginBurn, w.Category)
	require.NotNil(t, w.BurnReason)
	assert.Equal(t, domain.ReasonInternalMeeting, *w.BurnReason)
	assert.Equal(t, 75.0, w.HourlyRate)
	assert.InDelta(t, 75.0, w.CostImpact, 1e-9)
	assert.Equal(t, domain.SourceManual, w.Source)
	assert.Equal(t, w.CreatedAt, w.ClassifiedAt)

	stored, err := e.logs.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Category, stored.Category)
	assert.InDelta(t, 75.0, e.clientBurn(t, client.ID), 1e-9)
}

func TestLogWork_BillableAndScopeRiskLeaveBurnUntouched(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	client := e.seedClient(t, "TechCorp")

	for _, desc := range []string{"Built homepage for launch", "Client wants an extra report"} {
		req := app.NewLogWorkRequest(desc, 60)
		req.ClientID = &client.ID
		_, err := e.workLogSvc.Log(ctx, req)
		require.NoError(t, err)
	}

	logs := e.allLogs(t)
	require.Len(t, logs, 2)
	categories := []domain.WorkCategory{logs[0].Category, logs[1].Category}
	assert.ElementsMatch(t, []domain.WorkCategory{domain.CategoryBillable, domain.CategoryScopeRisk}, categories)
	assert.Zero(t, e.clientBurn(t, client.ID))
}

func TestLogWork_RateOverride(t *testing.T) {
	e := newTestEnv(t)

	req := app.NewLogWorkRequest("Debugging checkout bug", 30)
	req.HourlyRate = ptrFloat(150)
	w, err := e.workLogSvc.Log(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 150.0, w.HourlyRate)
	assert.InDelta(t, 75.0, w.CostImpact, 1e-9)
	assert.Nil(t, w.ClientID)
}

func TestLogWork_UsesOrganizationRate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	_, err := e.orgSvc.UpdateSettings(ctx, domain.OrganizationSettings{GlobalHourlyCost: ptrFloat(100)})
	require.NoError(t, err)

	w, err := e.workLogSvc.Log(ctx, app.NewLogWorkRequest("Slack and email backlog", 90))
	require.NoError(t, err)
	assert.Equal(t, 100.0, w.HourlyRate)
	assert.InDelta(t, 150.0, w.CostImpact, 1e-9)
}

func TestLogWork_InheritsClientFromProject(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	client := e.seedClient(t, "StartupXYZ")
	project := e.seedProject(t, client.ID, "Mobile App", 60000)

	req := app.NewLogWorkRequest("Reworking payment flow", 120)
	req.ProjectID = &project.ID
	w, err := e.workLogSvc.Log(ctx, req)
	require.NoError(t, err)

	require.NotNil(t, w.ClientID)
	assert.Equal(t, client.ID, *w.ClientID)
	assert.Equal(t, domain.CategoryMarginBurn, w.Category)
	assert.InDelta(t, 150.0, e.clientBurn(t, client.ID), 1e-9)
}

func TestLogWork_ClientProjectMismatch(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.seedClient(t, "Owner")
	other := e.seedClient(t, "Other")
	project := e.seedProject(t, owner.ID, "Website", 1000)

	req := app.NewLogWorkRequest("Weekly team sync meeting", 30)
	req.ClientID = &other.ID
	req.ProjectID = &project.ID
	_, err := e.workLogSvc.Log(ctx, req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "client_id", verr.Field)
	assert.Empty(t, e.allLogs(t))
	assert.Zero(t, e.clientBurn(t, other.ID))
}

func TestLogWork_UnknownClient(t *testing.T) {
	e := newTestEnv(t)

	req := app.NewLogWorkRequest("Weekly team sync meeting", 30)
	req.ClientID = ptrStr("missing")
	_, err := e.workLogSvc.Log(context.Background(), req)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, e.allLogs(t))
}

func TestLogWork_ValidationHappensBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name  string
		req   app.LogWorkRequest
		field string
	}{
		{"blank description", app.NewLogWorkRequest("   ", 30), "description"},
		{"zero minutes", app.NewLogWorkRequest("Team sync", 0), "duration_minutes"},
		{"negative minutes", app.NewLogWorkRequest("Team sync", -10), "duration_minutes"},
		{"zero rate", func() app.LogWorkRequest {
			r := app.NewLogWorkRequest("Team sync", 30)
			r.HourlyRate = ptrFloat(0)
			return r
		}(), "hourly_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			ctx := context.Background()

			_, err := e.workLogSvc.Log(ctx, tt.req)
			require.ErrorIs(t, err, domain.ErrValidation)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			assert.Empty(t, e.allLogs(t))
			_, err = e.orgRepo.Get(ctx)
			assert.ErrorIs(t, err, repository.ErrNotFound, "no default organization is created")
		})
	}
}

func TestLogWork_RollbackWhenBurnIncrementFails(t *testing.T) {
	// ExecContext #1 = work log insert, #2 = client burn increment.
	e := newTestEnvWithUoW(t, func(database *sql.DB) db.UnitOfWork {
		return &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: fmt.Errorf("injected increment failure")}
	})
	ctx := context.Background()
	client := e.seedClient(t, "TechCorp")

	req := app.NewLogWorkRequest("Weekly team sync meeting", 60)
	req.ClientID = &client.ID
	_, err := e.workLogSvc.Log(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected increment failure")

	assert.Empty(t, e.allLogs(t), "no work log persists after rollback")
	assert.Zero(t, e.clientBurn(t, client.ID))
}

func TestLogWork_RollbackWhenInsertFails(t *testing.T) {
	e := newTestEnvWithUoW(t, func(database *sql.DB) db.UnitOfWork {
		return &testutil.FailOnNthExecUoW{DB: database, FailOn: 1, Err: errors.New("injected insert failure")}
	})
	ctx := context.Background()
	client := e.seedClient(t, "TechCorp")

	req := app.NewLogWorkRequest("Weekly team sync meeting", 60)
	req.ClientID = &client.ID
	_, err := e.workLogSvc.Log(ctx, req)
	require.Error(t, err)

	assert.Empty(t, e.allLogs(t))
	assert.Zero(t, e.clientBurn(t, client.ID))
}

func TestReclassify_OverridesCategoryOnly(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	client := e.seedClient(t, "TechCorp")

	req := app.NewLogWorkRequest("Built homepage for launch", 60)
	req.ClientID = &client.ID
	w, err := e.workLogSvc.Log(ctx, req)
	require.NoError(t, err)
	require.Equal(t, domain.CategoryBillable, w.Category)

	reason := domain.ReasonAdmin
	now := fixedNow()
	updated, err := e.workLogSvc.Reclassify(ctx, app.ReclassifyRequest{
		WorkLogID:  w.ID,
		Category:   domain.CategoryMarginBurn,
		BurnReason: &reason,
		Actor:      "sam",
		Now:        &now,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryMarginBurn, updated.Category)
	require.NotNil(t, updated.BurnReason)
	assert.Equal(t, domain.ReasonAdmin, *updated.BurnReason)

	stored, err := e.logs.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryMarginBurn, stored.Category)
	assert.Equal(t, w.CostImpact, stored.CostImpact)
	assert.Equal(t, w.DurationMinutes, stored.DurationMinutes)
	assert.Equal(t, w.Description, stored.Description)
	require.NotNil(t, stored.ReclassifiedBy)
	assert.Equal(t, "sam", *stored.ReclassifiedBy)
	require.NotNil(t, stored.ReclassifiedAt)
	assert.Equal(t, now, *stored.ReclassifiedAt)

	assert.Zero(t, e.clientBurn(t, client.ID), "reclassification does not adjust accumulated burn")
}

func TestReclassify_Errors(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.workLogSvc.Reclassify(ctx, app.ReclassifyRequest{WorkLogID: "missing", Category: domain.CategoryBillable})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	w, err := e.workLogSvc.Log(ctx, app.NewLogWorkRequest("Built homepage for launch", 60))
	require.NoError(t, err)

	_, err = e.workLogSvc.Reclassify(ctx, app.ReclassifyRequest{WorkLogID: w.ID, Category: "overhead"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	reason := domain.ReasonAdmin
	_, err = e.workLogSvc.Reclassify(ctx, app.ReclassifyRequest{WorkLogID: w.ID, Category: domain.CategoryBillable, BurnReason: &reason})
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := e.logs.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryBillable, stored.Category)
	assert.Nil(t, stored.ReclassifiedAt)
}

func TestWorkLogList_Filters(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	client := e.seedClient(t, "TechCorp")

	for _, desc := range []string{"Weekly team sync meeting", "Built homepage for launch", "Slack and email backlog"} {
		req := app.NewLogWorkRequest(desc, 30)
		if desc != "Slack and email backlog" {
			req.ClientID = &client.ID
		}
		_, err := e.workLogSvc.Log(ctx, req)
		require.NoError(t, err)
	}

	burn := domain.CategoryMarginBurn
	logs, err := e.workLogSvc.List(ctx, app.WorkLogQuery{Category: &burn})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = e.workLogSvc.List(ctx, app.WorkLogQuery{ClientID: &client.ID})
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = e.workLogSvc.List(ctx, app.WorkLogQuery{ClientID: &client.ID, Category: &burn})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Weekly team sync meeting", logs[0].Description)

	bogus := domain.WorkCategory("overhead")
	_, err = e.workLogSvc.List(ctx, app.WorkLogQuery{Category: &bogus})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogWork_ReportsToObserver(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	obs := &capturingObserver{}
	orgs := NewOrganizationService(repository.NewSQLiteOrganizationRepo(database), uow)
	svc := NewWorkLogService(orgs, repository.NewSQLiteWorkLogRepo(database), nil, uow, obs)
	ctx := context.Background()

	w, err := svc.Log(ctx, app.NewLogWorkRequest("Weekly team sync meeting", 60))
	require.NoError(t, err)

	ev := obs.last()
	assert.Equal(t, "worklog.log", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, w.ID, ev.Fields["work_log_id"])
	assert.Equal(t, string(domain.CategoryMarginBurn), ev.Fields["category"])

	_, err = svc.Log(ctx, app.NewLogWorkRequest("", 60))
	require.Error(t, err)
	ev = obs.last()
	assert.False(t, ev.Success)
	assert.ErrorIs(t, ev.Err, domain.ErrValidation)
}

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/margindefense/internal/analytics"
	usecase "github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/cli/formatter"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/logger"
	"github.com/alexanderramin/margindefense/internal/repository"
	"github.com/alexanderramin/margindefense/internal/service"
	"github.com/alexanderramin/margindefense/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	formatter.SetColor(false)
	os.Exit(m.Run())
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T, observers ...service.UseCaseObserver) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	orgRepo := repository.NewSQLiteOrganizationRepo(database)
	clientRepo := repository.NewSQLiteClientRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	logRepo := repository.NewSQLiteWorkLogRepo(database)
	requestRepo := repository.NewSQLiteScopeRequestRepo(database)

	thresholds := analytics.DefaultThresholds()
	orgs := service.NewOrganizationService(orgRepo, uow, observers...)

	return &App{
		Orgs:       orgs,
		Clients:    service.NewClientService(orgs, clientRepo, observers...),
		Projects:   service.NewProjectService(orgs, clientRepo, projectRepo, observers...),
		WorkLogs:   service.NewWorkLogService(orgs, logRepo, nil, uow, observers...),
		Scope:      service.NewScopeService(orgs, requestRepo, uow, observers...),
		Analytics:  service.NewAnalyticsService(orgs, uow, thresholds, observers...),
		Import:     service.NewImportService(orgs, clientRepo, nil, uow, observers...),
		WindowDays: 7,
		ShameLimit: 5,
		Thresholds: thresholds,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}

// seedAcme creates client Acme with a Website project.
func seedAcme(t *testing.T, app *App) {
	t.Helper()
	mustExecute(t, app, "client", "add", "--name", "Acme", "--retainer", "5000")
	mustExecute(t, app, "project", "add", "--client", "acme", "--name", "Website", "--budget", "10000")
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "margindefense")
	assert.Contains(t, output, "dashboard")
}

func TestRootCmd_AcceptsGlobalFlags(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "--no-color", "-v", "org", "show")
	require.NoError(t, err)
}

func TestRootCmd_LoggingTagsUseCaseRecords(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New(&buf, logger.Options{Level: "info", Format: "text"})
	require.NoError(t, err)
	app := testApp(t, service.NewLogUseCaseObserver(l))
	app.Logging = true

	mustExecute(t, app, "log", "add", "--desc", "Weekly team sync meeting", "--minutes", "30")

	out := buf.String()
	assert.Contains(t, out, "use_case=worklog.log")
	assert.Contains(t, out, `command="margindefense log add"`)
	assert.Contains(t, out, "organization_id=")
}

// --- classify ---

func TestClassifyCmd_PreviewsCostAtOrgRate(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "classify", "Weekly", "team", "sync", "meeting", "--minutes", "120")
	assert.Contains(t, out, "● MARGIN BURN")
	assert.Contains(t, out, "Internal Meeting")
	assert.Contains(t, out, "$150.00 over 2h at $75.00/h")
}

func TestClassifyCmd_WithoutMinutesSkipsCost(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "classify", "Built homepage for launch")
	assert.Contains(t, out, "● BILLABLE")
	assert.NotContains(t, out, " over ")
}

func TestClassifyCmd_RequiresText(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "classify")
	assert.Error(t, err)
}

// --- org ---

func TestOrgCmd_SetAndShow(t *testing.T) {
	app := testApp(t)

	mustExecute(t, app, "org", "set", "--name", "Studio North", "--currency", "€", "--rate", "100")
	out := mustExecute(t, app, "org", "show")
	assert.Contains(t, out, "Studio North")
	assert.Contains(t, out, "€100.00/h")
}

func TestOrgCmd_SetNothing(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "org", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestOrgCmd_SetRejectsInvalidRate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "org", "set", "--rate", "-5")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// --- client / project ---

func TestClientCmd_AddAndList(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "client", "add", "--name", "Acme", "--retainer", "5000")
	assert.Contains(t, out, "Created client Acme")

	out = mustExecute(t, app, "client", "list")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "$5,000.00")
}

func TestClientCmd_ResetBurn(t *testing.T) {
	app := testApp(t)
	seedAcme(t, app)
	mustExecute(t, app, "log", "add", "--desc", "Weekly team sync meeting", "--minutes", "60", "--client", "Acme")

	out := mustExecute(t, app, "client", "list")
	assert.Contains(t, out, "$75.00")

	out = mustExecute(t, app, "client", "reset-burn", "acme")
	assert.Contains(t, out, "Reset accumulated burn for Acme")

	out = mustExecute(t, app, "client", "list")
	assert.NotContains(t, out, "$75.00")
	assert.Contains(t, out, "$0.00")
}

func TestProjectCmd_AddListUpdate(t *testing.T) {
	app := testApp(t)
	seedAcme(t, app)

	out := mustExecute(t, app, "project", "list", "--client", "Acme")
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "Acme")

	out = mustExecute(t, app, "project", "update", "website", "--spend", "12000", "--health", "underwater")
	assert.Contains(t, out, "Underwater")
	assert.Contains(t, out, "120.0%")
}

func TestProjectCmd_UpdateRejectsUnknownHealth(t *testing.T) {
	app := testApp(t)
	seedAcme(t, app)

	_, err := executeCmd(t, app, "project", "update", "Website", "--health", "fine")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectCmd_UnknownClient(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--client", "Ghost", "--name", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `client not found: "Ghost"`)
}

// --- log ---

func TestLogCmd_AddClassifiesAndCosts(t *testing.T) {
	app := testApp(t)
	seedAcme(t, app)

	out := mustExecute(t, app, "log", "add",
		"--desc", "Reworking payment flow", "--minutes", "90", "--rate", "100", "--project", "Website")
	assert.Contains(t, out, "● MARGIN BURN")
	assert.Contains(t, out, "Rework / Bug Fix")
	assert.Contains(t, out, "$150.00")

	// The log inherits the project's client.
	logs, err := app.WorkLogs.List(context.Background(), usecase.WorkLogQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].ClientID)
}

func TestLogCmd_AddRequiresFlags(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "log", "add", "--minutes", "30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "desc")
}

func TestLogCmd_AddRejectsZeroMinutes(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "log", "add", "--desc", "Standup", "--minutes", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration_minutes")
}

func TestLogCmd_ListFilters(t *testing.T) {
	app := testApp(t)
	seedAcme(t, app)
	mustExecute(t, app, "log", "add", "--desc", "Weekly team sync meeting", "--minutes", "60", "--client", "Acme")
	mustExecute(t, app, "log", "add", "--desc", "Built homepage for launch", "--minutes", "120")

	out := mustExecute(t, app, "log", "list")
	assert.Contains(t, out, "2 logs, $225.00 total")

	out = mustExecute(t, app, "log", "list", "--category", "margin_burn")
	assert.Contains(t, out, "1 logs, $75.00 total")
	assert.NotContains(t, out, "homepage")

	out = mustExecute(t, app, "log", "list", "--until", "2000-01-01")
	assert.Contains(t, out, "No work logged.")
}

func TestLogCmd_ListRejectsBadDate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "log", "list", "--since", "last week")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --since date")
}

func TestLogCmd_Reclassify(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "log", "add", "--desc", "Debugging checkout bug", "--minutes", "30")

	logs, err := app.WorkLogs.List(context.Background(), usecase.WorkLogQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	out := mustExecute(t, app, "log", "reclassify", logs[0].ID[:8], "--category", "billable", "--by", "pm")
	assert.Contains(t, out, "● BILLABLE")
	assert.Contains(t, out, "by pm")
}

func TestLogCmd_ReclassifyRejectsReasonOnBillable(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "log", "add", "--desc", "Debugging checkout bug", "--minutes", "30")
	logs, err := app.WorkLogs.List(context.Background(), usecase.WorkLogQuery{})
	require.NoError(t, err)

	_, err = executeCmd(t, app, "log", "reclassify", logs[0].ID, "--category", "billable", "--reason", "rework")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// --- scope ---

func TestScopeCmd_AcceptAsBurn(t *testing.T) {
	app := testApp(t)
	seedAcme(t, app)

	out := mustExecute(t, app, "scope", "add", "--title", "Extra report", "--hours", "40", "--client", "Acme")
	assert.Contains(t, out, "40h, $3,000.00")

	out = mustExecute(t, app, "scope", "list", "--status", "pending")
	assert.Contains(t, out, "Extra report")
	assert.Contains(t, out, "1 pending, $3,000.00 at risk")

	reqs, err := app.Scope.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	out = mustExecute(t, app, "scope", "resolve", reqs[0].ID[:8], "--as", "accepted_burn")
	assert.Contains(t, out, "Accepted as burn")
	assert.Contains(t, out, "Absorbed $3,000.00 of unbilled work (40h).")

	out = mustExecute(t, app, "client", "list")
	assert.Contains(t, out, "$3,000.00")

	out = mustExecute(t, app, "log", "list")
	assert.Contains(t, out, "[SCOPE CREEP] Extra report")
}

func TestScopeCmd_ResolveTwiceFails(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "scope", "add", "--title", "Dark mode")
	reqs, err := app.Scope.List(context.Background(), nil)
	require.NoError(t, err)

	mustExecute(t, app, "scope", "resolve", reqs[0].ID, "--as", "rejected")
	_, err = executeCmd(t, app, "scope", "resolve", reqs[0].ID, "--as", "converted_revenue")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestScopeCmd_ResolveRejectsUnknownStatus(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "scope", "add", "--title", "Dark mode")
	reqs, err := app.Scope.List(context.Background(), nil)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "scope", "resolve", reqs[0].ID, "--as", "pending")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")
}

// --- reports ---

func TestReportCmds_OnDemoLedger(t *testing.T) {
	app := testApp(t)
	out := mustExecute(t, app, "seed", "--demo")
	assert.Contains(t, out, "3 clients, 3 projects, 14 work logs, 3 scope requests")

	out = mustExecute(t, app, "metrics", "--days", "7")
	assert.Contains(t, out, "LAST 7 DAYS")
	assert.Contains(t, out, "3 worth")

	out = mustExecute(t, app, "burn", "reasons")
	assert.Contains(t, out, "REASON")

	out = mustExecute(t, app, "burn", "clients", "--days", "30")
	assert.Contains(t, out, "TechCorp Industries")

	out = mustExecute(t, app, "shame", "--limit", "3")
	assert.Contains(t, out, "HALL OF SHAME")

	out = mustExecute(t, app, "health")
	assert.Contains(t, out, "StartupXYZ")
	assert.Contains(t, out, "Enterprise Solutions Ltd")

	out = mustExecute(t, app, "trend", "--days", "3")
	assert.Contains(t, out, "BILLABLE RATIO")

	out = mustExecute(t, app, "dashboard")
	assert.Contains(t, out, "ACME DIGITAL AGENCY")
	assert.Contains(t, out, "COMMAND CENTER")
	assert.Contains(t, out, "Mobile App MVP")
}

func TestAlertsCmd_Hide(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "seed", "--demo")

	alerts, err := app.Analytics.Alerts(context.Background(), app.analyticsRequest(7))
	require.NoError(t, err)
	require.NotEmpty(t, alerts)
	hidden := alerts[0].ID

	out := mustExecute(t, app, "alerts")
	assert.Contains(t, out, "id: "+hidden)

	out = mustExecute(t, app, "alerts", "--hide", hidden)
	assert.NotContains(t, out, "id: "+hidden)
}

func TestMetricsCmd_RejectsZeroDays(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "metrics", "--days", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "days")
}

func TestMetricsCmd_ScopedToClient(t *testing.T) {
	app := testApp(t)
	seedAcme(t, app)
	mustExecute(t, app, "client", "add", "--name", "Other")
	mustExecute(t, app, "log", "add", "--desc", "Weekly team sync meeting", "--minutes", "60", "--client", "Acme")
	mustExecute(t, app, "log", "add", "--desc", "Weekly team sync meeting", "--minutes", "120", "--client", "Other")

	out := mustExecute(t, app, "metrics", "--client", "acme")
	assert.Contains(t, out, "$75.00")
	assert.NotContains(t, out, "$225.00")
}

// --- import / seed ---

func TestSeedCmd_RequiresDemoFlag(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--demo")
}

func TestSeedCmd_RefusesNonEmptyLedger(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, "client", "add", "--name", "Acme")

	_, err := executeCmd(t, app, "seed", "--demo")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrLedgerNotEmpty)
}

func TestImportCmd_FromFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	ledger := `organization:
  name: Small Shop
clients:
  - ref: acme
    name: Acme
projects:
  - ref: site
    client_ref: acme
    name: Site
    total_budget: 1000
work_logs:
  - description: Weekly team sync meeting
    duration_minutes: 60
    project_ref: site
`
	require.NoError(t, os.WriteFile(path, []byte(ledger), 0o644))

	out := mustExecute(t, app, "import", path)
	assert.Contains(t, out, "Imported into Small Shop: 1 clients, 1 projects, 1 work logs, 0 scope requests")

	out = mustExecute(t, app, "client", "list")
	assert.Contains(t, out, "$75.00")
}

func TestImportCmd_MissingFile(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "import", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading ledger")
}

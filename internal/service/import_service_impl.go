package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/classifier"
	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/importer"
	"github.com/alexanderramin/margindefense/internal/repository"
)

// ErrLedgerNotEmpty is returned when the demo seed would mix with existing
// clients.
var ErrLedgerNotEmpty = errors.New("ledger already has clients")

type importService struct {
	orgs       OrganizationService
	clients    repository.ClientRepo
	classifier *classifier.Classifier
	uow        db.UnitOfWork
	observer   UseCaseObserver
	now        func() time.Time
}

func NewImportService(
	orgs OrganizationService,
	clients repository.ClientRepo,
	cls *classifier.Classifier,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ImportService {
	if cls == nil {
		cls = classifier.New(classifier.DefaultLexicon())
	}
	return &importService{
		orgs:       orgs,
		clients:    clients,
		classifier: cls,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*app.ImportResult, error) {
	ledger, err := importer.LoadLedger(path)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return s.ImportLedger(ctx, ledger)
}

// ImportLedger validates the whole ledger, then writes the organization
// settings and every record in one transaction. Work logs go through the same
// path as manual logging, so margin-burn logs raise their client's burn on top
// of any opening balance.
func (s *importService) ImportLedger(ctx context.Context, ledger *importer.Ledger) (res *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import.ledger", startedAt, fields, &err)

	if errs := importer.ValidateLedger(ledger); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, domain.NewValidationError("ledger", strings.Join(msgs, "; "))
	}

	org, err := s.orgs.Current(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err = ledger.Settings().Apply(org, now); err != nil {
		return nil, err
	}

	conv, err := importer.Convert(ledger, org, s.classifier, now)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteOrganizationRepo(tx).Upsert(ctx, org); err != nil {
			return err
		}
		txClients := repository.NewSQLiteClientRepo(tx)
		for _, c := range conv.Clients {
			if err := txClients.Create(ctx, c); err != nil {
				return fmt.Errorf("client %q: %w", c.Name, err)
			}
		}
		txProjects := repository.NewSQLiteProjectRepo(tx)
		for _, p := range conv.Projects {
			if err := txProjects.Create(ctx, p); err != nil {
				return fmt.Errorf("project %q: %w", p.Name, err)
			}
		}
		for _, w := range conv.WorkLogs {
			if err := createWorkLog(ctx, tx, w); err != nil {
				return fmt.Errorf("work log %q: %w", w.Description, err)
			}
		}
		txRequests := repository.NewSQLiteScopeRequestRepo(tx)
		for _, r := range conv.ScopeRequests {
			if err := txRequests.Create(ctx, r); err != nil {
				return fmt.Errorf("scope request %q: %w", r.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res = &app.ImportResult{
		Organization:  org,
		Clients:       len(conv.Clients),
		Projects:      len(conv.Projects),
		WorkLogs:      len(conv.WorkLogs),
		ScopeRequests: len(conv.ScopeRequests),
	}
	fields["organization_id"] = org.ID
	fields["clients"] = res.Clients
	fields["work_logs"] = res.WorkLogs
	return res, nil
}

// SeedDemo imports the bundled demo agency into an empty ledger.
func (s *importService) SeedDemo(ctx context.Context) (*app.ImportResult, error) {
	existing, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("seeding demo data: %w", ErrLedgerNotEmpty)
	}
	ledger, err := importer.DemoLedger()
	if err != nil {
		return nil, err
	}
	return s.ImportLedger(ctx, ledger)
}

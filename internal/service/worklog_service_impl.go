package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/app"
	"github.com/alexanderramin/margindefense/internal/classifier"
	"github.com/alexanderramin/margindefense/internal/db"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/alexanderramin/margindefense/internal/repository"
	"github.com/google/uuid"
)

type workLogService struct {
	orgs       OrganizationService
	logs       repository.WorkLogRepo
	classifier *classifier.Classifier
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewWorkLogService(
	orgs OrganizationService,
	logs repository.WorkLogRepo,
	cls *classifier.Classifier,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) WorkLogService {
	if cls == nil {
		cls = classifier.New(classifier.DefaultLexicon())
	}
	return &workLogService{
		orgs:       orgs,
		logs:       logs,
		classifier: cls,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Log validates, classifies and costs one unit of work, then stores it. A
// margin-burn log with a client raises that client's accumulated burn in the
// same transaction.
func (s *workLogService) Log(ctx context.Context, req app.LogWorkRequest) (w *domain.WorkLog, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"minutes": req.DurationMinutes}
	defer observe(ctx, s.observer, "worklog.log", startedAt, fields, &err)

	description := strings.TrimSpace(req.Description)
	provisional := domain.FloatFromPtrWithDefault(domain.DefaultGlobalHourlyCost, req.HourlyRate)
	if err = domain.ValidateWorkInput(description, req.DurationMinutes, provisional); err != nil {
		return nil, err
	}

	org, err := s.orgs.Current(ctx)
	if err != nil {
		return nil, err
	}
	rate := domain.FloatFromPtrWithDefault(org.GlobalHourlyCost, req.HourlyRate)

	w = s.build(org.ID, description, req.DurationMinutes, rate, req.Source, nowOr(req.Now))
	w.ClientID = req.ClientID
	w.ProjectID = req.ProjectID

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return createWorkLog(ctx, tx, w)
	})
	if err != nil {
		return nil, err
	}

	fields["work_log_id"] = w.ID
	fields["category"] = string(w.Category)
	fields["cost_impact"] = w.CostImpact
	return w, nil
}

func (s *workLogService) build(orgID, description string, minutes int, rate float64, source domain.RecordSource, now time.Time) *domain.WorkLog {
	res := s.classifier.Classify(description)
	if source == "" {
		source = domain.SourceManual
	}
	return &domain.WorkLog{
		ID:              uuid.New().String(),
		OrganizationID:  orgID,
		Description:     description,
		DurationMinutes: minutes,
		HourlyRate:      rate,
		CostImpact:      analytics.CostImpact(float64(minutes), rate),
		Category:        res.Category,
		BurnReason:      res.BurnReason,
		Confidence:      res.Confidence,
		Rationale:       res.Rationale,
		Source:          source,
		CreatedAt:       now,
		ClassifiedAt:    now,
	}
}

// createWorkLog resolves the log's client and project links, inserts it and
// applies the burn increment. It must run inside a transaction.
func createWorkLog(ctx context.Context, tx db.DBTX, w *domain.WorkLog) error {
	if err := resolveLinks(ctx, tx, &w.ClientID, &w.ProjectID); err != nil {
		return err
	}
	if err := repository.NewSQLiteWorkLogRepo(tx).Create(ctx, w); err != nil {
		return err
	}
	if w.Category == domain.CategoryMarginBurn && w.ClientID != nil {
		return repository.NewSQLiteClientRepo(tx).IncrementBurn(ctx, *w.ClientID, w.CostImpact)
	}
	return nil
}

// resolveLinks checks that the referenced client and project exist. A record
// filed against a project with no client inherits the project's client; a
// client that disagrees with the project is rejected.
func resolveLinks(ctx context.Context, tx db.DBTX, clientID, projectID **string) error {
	if *clientID != nil && **clientID == "" {
		*clientID = nil
	}
	if *projectID != nil && **projectID == "" {
		*projectID = nil
	}

	if *projectID != nil {
		p, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, **projectID)
		if err != nil {
			return err
		}
		if *clientID == nil {
			cid := p.ClientID
			*clientID = &cid
		} else if **clientID != p.ClientID {
			return domain.NewValidationError("client_id", "project "+p.Name+" belongs to a different client")
		}
	}
	if *clientID != nil {
		if _, err := repository.NewSQLiteClientRepo(tx).GetByID(ctx, **clientID); err != nil {
			return err
		}
	}
	return nil
}

// Reclassify overrides the category and burn reason of a stored log. Cost and
// duration are untouched and the client's accumulated burn is not adjusted.
func (s *workLogService) Reclassify(ctx context.Context, req app.ReclassifyRequest) (w *domain.WorkLog, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"work_log_id": req.WorkLogID, "category": string(req.Category)}
	defer observe(ctx, s.observer, "worklog.reclassify", startedAt, fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLogs := repository.NewSQLiteWorkLogRepo(tx)
		existing, err := txLogs.GetByID(ctx, req.WorkLogID)
		if err != nil {
			return err
		}
		if err := existing.Reclassify(req.Category, req.BurnReason, req.Actor, nowOr(req.Now)); err != nil {
			return err
		}
		if err := txLogs.UpdateClassification(ctx, existing); err != nil {
			return err
		}
		w = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workLogService) GetByID(ctx context.Context, id string) (*domain.WorkLog, error) {
	return s.logs.GetByID(ctx, id)
}

func (s *workLogService) List(ctx context.Context, q app.WorkLogQuery) ([]*domain.WorkLog, error) {
	if q.Category != nil && !q.Category.Valid() {
		return nil, domain.NewValidationError("category", "unknown category "+string(*q.Category))
	}
	return s.logs.List(ctx, repository.WorkLogFilter{
		Category:  q.Category,
		ClientID:  q.ClientID,
		ProjectID: q.ProjectID,
		Start:     q.Since,
		End:       q.Until,
	})
}

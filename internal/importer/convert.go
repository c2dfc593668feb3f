package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/alexanderramin/margindefense/internal/classifier"
	"github.com/alexanderramin/margindefense/internal/domain"
	"github.com/google/uuid"
)

// ImportActor is recorded as the resolver of scope requests imported in a
// terminal status.
const ImportActor = "import"

// Converted holds the domain objects produced from a ledger, in insertion
// order.
type Converted struct {
	Clients       []*domain.Client
	Projects      []*domain.Project
	WorkLogs      []*domain.WorkLog
	ScopeRequests []*domain.ScopeRequest
}

// Settings returns the organization overrides carried by the ledger.
func (l *Ledger) Settings() domain.OrganizationSettings {
	if l.Organization == nil {
		return domain.OrganizationSettings{}
	}
	return domain.OrganizationSettings{
		Name:             l.Organization.Name,
		CurrencySymbol:   l.Organization.CurrencySymbol,
		GlobalHourlyCost: l.Organization.GlobalHourlyCost,
	}
}

// Convert transforms a validated Ledger into domain objects owned by org.
// Work logs are classified with cls and costed at their own rate or the
// organization's hourly cost; scope requests are priced at the hourly cost.
// Call ValidateLedger first; Convert assumes the ledger is valid.
func Convert(l *Ledger, org *domain.Organization, cls *classifier.Classifier, now time.Time) (*Converted, error) {
	if cls == nil {
		cls = classifier.New(classifier.DefaultLexicon())
	}
	now = now.UTC().Truncate(time.Second)
	out := &Converted{}

	clientIDs := make(map[string]string, len(l.Clients))
	for _, c := range l.Clients {
		client := &domain.Client{
			ID:                   uuid.New().String(),
			OrganizationID:       org.ID,
			Name:                 strings.TrimSpace(c.Name),
			RetainerValue:        c.RetainerValue,
			AccumulatedBurnTotal: c.AccumulatedBurn,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		clientIDs[c.Ref] = client.ID
		out.Clients = append(out.Clients, client)
	}

	projectIDs := make(map[string]string, len(l.Projects))
	projectClients := make(map[string]string, len(l.Projects))
	for _, p := range l.Projects {
		clientID, ok := clientIDs[p.ClientRef]
		if !ok {
			return nil, fmt.Errorf("project %q: unknown client_ref %q", p.Ref, p.ClientRef)
		}
		project := &domain.Project{
			ID:             uuid.New().String(),
			OrganizationID: org.ID,
			ClientID:       clientID,
			Name:           strings.TrimSpace(p.Name),
			Description:    p.Description,
			TotalBudget:    p.TotalBudget,
			CurrentSpend:   p.CurrentSpend,
			MarginHealth:   domain.MarginHealth(domain.CoalesceStr(p.MarginHealth, string(domain.MarginHealthy))),
			Status:         domain.ProjectStatus(domain.CoalesceStr(p.Status, string(domain.ProjectActive))),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		projectIDs[p.Ref] = project.ID
		projectClients[p.Ref] = clientID
		out.Projects = append(out.Projects, project)
	}

	links := func(clientRef, projectRef string) (clientID, projectID *string, err error) {
		if clientRef != "" {
			id, ok := clientIDs[clientRef]
			if !ok {
				return nil, nil, fmt.Errorf("unknown client_ref %q", clientRef)
			}
			clientID = &id
		}
		if projectRef != "" {
			id, ok := projectIDs[projectRef]
			if !ok {
				return nil, nil, fmt.Errorf("unknown project_ref %q", projectRef)
			}
			projectID = &id
			if clientID == nil {
				owner := projectClients[projectRef]
				clientID = &owner
			}
		}
		return clientID, projectID, nil
	}

	for i, w := range l.WorkLogs {
		clientID, projectID, err := links(w.ClientRef, w.ProjectRef)
		if err != nil {
			return nil, fmt.Errorf("work_logs[%d]: %w", i, err)
		}
		at, err := timestamp(w.CreatedAt, w.HoursAgo, w.DaysAgo, now)
		if err != nil {
			return nil, fmt.Errorf("work_logs[%d]: %w", i, err)
		}
		rate := domain.FloatFromPtrWithDefault(org.GlobalHourlyCost, w.HourlyRate)
		description := strings.TrimSpace(w.Description)
		res := cls.Classify(description)
		out.WorkLogs = append(out.WorkLogs, &domain.WorkLog{
			ID:              uuid.New().String(),
			OrganizationID:  org.ID,
			ProjectID:       projectID,
			ClientID:        clientID,
			Description:     description,
			DurationMinutes: w.DurationMinutes,
			HourlyRate:      rate,
			CostImpact:      analytics.CostImpact(float64(w.DurationMinutes), rate),
			Category:        res.Category,
			BurnReason:      res.BurnReason,
			Confidence:      res.Confidence,
			Rationale:       res.Rationale,
			Source:          domain.SourceImport,
			CreatedAt:       at,
			ClassifiedAt:    at,
		})
	}

	for i, r := range l.ScopeRequests {
		clientID, projectID, err := links(r.ClientRef, r.ProjectRef)
		if err != nil {
			return nil, fmt.Errorf("scope_requests[%d]: %w", i, err)
		}
		at, err := timestamp(r.CreatedAt, r.HoursAgo, r.DaysAgo, now)
		if err != nil {
			return nil, fmt.Errorf("scope_requests[%d]: %w", i, err)
		}
		req := &domain.ScopeRequest{
			ID:             uuid.New().String(),
			OrganizationID: org.ID,
			ClientID:       clientID,
			ProjectID:      projectID,
			Title:          strings.TrimSpace(r.Title),
			Description:    r.Description,
			EstimatedHours: r.EstimatedHours,
			Status:         domain.ScopeStatus(domain.CoalesceStr(r.Status, string(domain.ScopePending))),
			Source:         domain.SourceImport,
			CreatedAt:      at,
		}
		req.PriceAt(org.GlobalHourlyCost)
		if req.Status != domain.ScopePending {
			resolvedAt := now
			actor := ImportActor
			req.ResolvedAt = &resolvedAt
			req.ResolvedBy = &actor
		}
		out.ScopeRequests = append(out.ScopeRequests, req)
	}

	return out, nil
}

func timestamp(createdAt *string, hoursAgo float64, daysAgo int, now time.Time) (time.Time, error) {
	if createdAt != nil {
		t, err := time.Parse(time.RFC3339, *createdAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
		}
		return t.UTC().Truncate(time.Second), nil
	}
	offset := time.Duration(hoursAgo*float64(time.Hour)) + time.Duration(daysAgo)*24*time.Hour
	return now.Add(-offset).Truncate(time.Second), nil
}

package importer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/margindefense/internal/domain"
)

// ValidateLedger checks the ledger for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateLedger(l *Ledger) []error {
	var errs []error

	errs = append(errs, validateOrganization(l.Organization)...)

	clientRefs := make(map[string]bool)
	errs = append(errs, validateClients(l.Clients, clientRefs)...)

	projectClients := make(map[string]string)
	errs = append(errs, validateProjects(l.Projects, clientRefs, projectClients)...)

	errs = append(errs, validateWorkLogs(l.WorkLogs, clientRefs, projectClients)...)
	errs = append(errs, validateScopeRequests(l.ScopeRequests, clientRefs, projectClients)...)

	return errs
}

func validateOrganization(o *OrganizationImport) []error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.Name != nil && strings.TrimSpace(*o.Name) == "" {
		errs = append(errs, fmt.Errorf("organization.name must not be blank"))
	}
	if o.CurrencySymbol != nil && *o.CurrencySymbol == "" {
		errs = append(errs, fmt.Errorf("organization.currency_symbol must not be blank"))
	}
	if o.GlobalHourlyCost != nil && !positive(*o.GlobalHourlyCost) {
		errs = append(errs, fmt.Errorf("organization.global_hourly_cost must be a positive number"))
	}
	return errs
}

func validateClients(clients []ClientImport, refs map[string]bool) []error {
	var errs []error
	for i, c := range clients {
		prefix := fmt.Sprintf("clients[%d]", i)
		if c.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[c.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref %q is duplicated", prefix, c.Ref))
		} else {
			refs[c.Ref] = true
		}
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if c.RetainerValue != nil && !positive(*c.RetainerValue) {
			errs = append(errs, fmt.Errorf("%s.retainer_value must be a positive number", prefix))
		}
		if c.AccumulatedBurn < 0 || math.IsNaN(c.AccumulatedBurn) {
			errs = append(errs, fmt.Errorf("%s.accumulated_burn must not be negative", prefix))
		}
	}
	return errs
}

func validateProjects(projects []ProjectImport, clientRefs map[string]bool, projectClients map[string]string) []error {
	var errs []error
	for i, p := range projects {
		prefix := fmt.Sprintf("projects[%d]", i)
		if p.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := projectClients[p.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref %q is duplicated", prefix, p.Ref))
		} else {
			projectClients[p.Ref] = p.ClientRef
		}
		if p.ClientRef == "" {
			errs = append(errs, fmt.Errorf("%s.client_ref is required", prefix))
		} else if !clientRefs[p.ClientRef] {
			errs = append(errs, fmt.Errorf("%s.client_ref %q not found", prefix, p.ClientRef))
		}
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if p.TotalBudget < 0 || math.IsNaN(p.TotalBudget) {
			errs = append(errs, fmt.Errorf("%s.total_budget must not be negative", prefix))
		}
		if p.CurrentSpend < 0 || math.IsNaN(p.CurrentSpend) {
			errs = append(errs, fmt.Errorf("%s.current_spend must not be negative", prefix))
		}
		if p.MarginHealth != "" && !domain.MarginHealth(p.MarginHealth).Valid() {
			errs = append(errs, fmt.Errorf("%s.margin_health: invalid value %q", prefix, p.MarginHealth))
		}
		if p.Status != "" && !domain.ProjectStatus(p.Status).Valid() {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, p.Status))
		}
	}
	return errs
}

func validateWorkLogs(logs []WorkLogImport, clientRefs map[string]bool, projectClients map[string]string) []error {
	var errs []error
	for i, w := range logs {
		prefix := fmt.Sprintf("work_logs[%d]", i)
		if strings.TrimSpace(w.Description) == "" {
			errs = append(errs, fmt.Errorf("%s.description is required", prefix))
		}
		if w.DurationMinutes <= 0 {
			errs = append(errs, fmt.Errorf("%s.duration_minutes must be greater than zero", prefix))
		}
		if w.HourlyRate != nil && !positive(*w.HourlyRate) {
			errs = append(errs, fmt.Errorf("%s.hourly_rate must be a positive number", prefix))
		}
		errs = append(errs, validateLinks(prefix, w.ClientRef, w.ProjectRef, clientRefs, projectClients)...)
		errs = append(errs, validateTimestamp(prefix, w.CreatedAt, w.HoursAgo, w.DaysAgo)...)
	}
	return errs
}

func validateScopeRequests(requests []ScopeRequestImport, clientRefs map[string]bool, projectClients map[string]string) []error {
	var errs []error
	for i, r := range requests {
		prefix := fmt.Sprintf("scope_requests[%d]", i)
		if strings.TrimSpace(r.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if r.EstimatedHours != nil && !positive(*r.EstimatedHours) {
			errs = append(errs, fmt.Errorf("%s.estimated_hours must be a positive number", prefix))
		}
		if r.Status != "" {
			s := domain.ScopeStatus(r.Status)
			if s != domain.ScopePending && !s.IsResolution() {
				errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, r.Status))
			}
		}
		errs = append(errs, validateLinks(prefix, r.ClientRef, r.ProjectRef, clientRefs, projectClients)...)
		errs = append(errs, validateTimestamp(prefix, r.CreatedAt, r.HoursAgo, r.DaysAgo)...)
	}
	return errs
}

func validateLinks(prefix, clientRef, projectRef string, clientRefs map[string]bool, projectClients map[string]string) []error {
	var errs []error
	if clientRef != "" && !clientRefs[clientRef] {
		errs = append(errs, fmt.Errorf("%s.client_ref %q not found", prefix, clientRef))
	}
	if projectRef == "" {
		return errs
	}
	owner, ok := projectClients[projectRef]
	if !ok {
		errs = append(errs, fmt.Errorf("%s.project_ref %q not found", prefix, projectRef))
	} else if clientRef != "" && owner != clientRef {
		errs = append(errs, fmt.Errorf("%s.project_ref %q belongs to client %q, not %q", prefix, projectRef, owner, clientRef))
	}
	return errs
}

func validateTimestamp(prefix string, createdAt *string, hoursAgo float64, daysAgo int) []error {
	var errs []error
	if hoursAgo < 0 {
		errs = append(errs, fmt.Errorf("%s.hours_ago must not be negative", prefix))
	}
	if daysAgo < 0 {
		errs = append(errs, fmt.Errorf("%s.days_ago must not be negative", prefix))
	}
	if createdAt == nil {
		return errs
	}
	if hoursAgo != 0 || daysAgo != 0 {
		errs = append(errs, fmt.Errorf("%s: created_at cannot be combined with hours_ago or days_ago", prefix))
	}
	if _, err := time.Parse(time.RFC3339, *createdAt); err != nil {
		errs = append(errs, fmt.Errorf("%s.created_at: invalid timestamp %q (expected RFC 3339)", prefix, *createdAt))
	}
	return errs
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

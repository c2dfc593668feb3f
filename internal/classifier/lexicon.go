package classifier

import "github.com/alexanderramin/margindefense/internal/domain"

// ReasonKeywords pairs a burn reason with the words that point to it.
type ReasonKeywords struct {
	Reason   domain.BurnReason
	Keywords []string
}

// Lexicon holds the phrase sets the classifier scores against. Phrases are
// matched as lower-case substrings and weigh their word count.
type Lexicon struct {
	Billable  []string
	Burn      []string
	ScopeRisk []string
	// Reasons is evaluated in order; earlier entries win ties.
	Reasons []ReasonKeywords
}

// DefaultLexicon returns the built-in phrase sets.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Billable:  billableKeywords,
		Burn:      burnKeywords,
		ScopeRisk: scopeRiskKeywords,
		Reasons:   reasonKeywords,
	}
}

var billableKeywords = []string{
	// Deliverables
	"deliverable", "delivery", "milestone", "final", "completed",
	"client work", "client deliverable", "client presentation",
	// Production
	"design", "designing", "coded", "coding", "developed", "development",
	"wrote", "writing", "content", "copywriting", "created", "creating",
	"built", "building", "implemented", "implementation",
	// Client-facing
	"client strategy", "strategy session with client", "client call",
	"client meeting", "presentation to client", "demo to client",
	"billable", "invoiceable", "chargeable",
}

var burnKeywords = []string{
	// Meetings
	"internal meeting", "team meeting", "standup", "stand-up", "sync",
	"weekly sync", "daily standup", "all-hands", "retrospective", "retro",
	"planning meeting", "brainstorm", "ideation session",
	// Communication
	"slack", "email", "emails", "responding to", "replied to",
	"checking messages", "chat", "dm", "direct message",
	// Admin
	"admin", "administrative", "paperwork", "documentation", "updating jira",
	"jira update", "ticket update", "status update", "timesheet",
	"expense report", "invoicing", "billing admin",
	// Internal review
	"internal", "internal review", "peer review", "code review",
	"internal presentation", "team presentation",
	// Rework
	"rework", "redo", "revision", "fixing bug", "bug fix", "hotfix",
	"debugging", "troubleshooting", "investigation",
	// Setup and learning
	"setup", "setting up", "configuration", "config", "onboarding",
	"training", "learning", "research", "researching", "reading",
	// Blocked
	"waiting for", "blocked by", "pending", "on hold",
}

var scopeRiskKeywords = []string{
	"quick favor", "small request", "can you also", "while you're at it",
	"one more thing", "additional", "extra", "bonus",
	"not in scope", "out of scope", "scope change", "change request",
	"new feature", "feature request", "enhancement",
	"urgent request", "asap", "rush", "priority change",
	"client asked for", "client wants", "client requested",
}

var reasonKeywords = []ReasonKeywords{
	{domain.ReasonScopeCreep, []string{"scope", "additional", "extra", "not in contract", "new request"}},
	{domain.ReasonInternalMeeting, []string{"meeting", "sync", "standup", "call", "discussion", "brainstorm"}},
	{domain.ReasonRework, []string{"rework", "redo", "revision", "bug", "fix", "debug", "troubleshoot"}},
	{domain.ReasonAdmin, []string{"admin", "jira", "ticket", "status", "timesheet", "paperwork"}},
	{domain.ReasonCommunication, []string{"slack", "email", "chat", "message", "reply", "respond"}},
	{domain.ReasonPlanning, []string{"planning", "plan", "roadmap", "strategy", "ideation"}},
	{domain.ReasonResearch, []string{"research", "learning", "reading", "study", "investigation"}},
	{domain.ReasonSetup, []string{"setup", "config", "onboarding", "training", "installation"}},
	{domain.ReasonOther, nil},
}

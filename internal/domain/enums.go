package domain

type WorkCategory string

const (
	CategoryBillable     WorkCategory = "billable"
	CategoryMarginBurn   WorkCategory = "margin_burn"
	CategoryScopeRisk    WorkCategory = "scope_risk"
	CategoryUnclassified WorkCategory = "unclassified"
)

// WorkCategories is the canonical set of categories in display order.
var WorkCategories = []WorkCategory{
	CategoryBillable,
	CategoryMarginBurn,
	CategoryScopeRisk,
	CategoryUnclassified,
}

// IsBurnLike reports whether work in this category erodes margin.
func (c WorkCategory) IsBurnLike() bool {
	return c == CategoryMarginBurn || c == CategoryScopeRisk
}

func (c WorkCategory) Valid() bool {
	switch c {
	case CategoryBillable, CategoryMarginBurn, CategoryScopeRisk, CategoryUnclassified:
		return true
	}
	return false
}

type BurnReason string

const (
	ReasonScopeCreep      BurnReason = "scope_creep"
	ReasonInternalMeeting BurnReason = "internal_meeting"
	ReasonRework          BurnReason = "rework"
	ReasonAdmin           BurnReason = "admin"
	ReasonCommunication   BurnReason = "communication"
	ReasonPlanning        BurnReason = "planning"
	ReasonResearch        BurnReason = "research"
	ReasonSetup           BurnReason = "setup"
	ReasonOther           BurnReason = "other"
)

// BurnReasons is the fixed reason order. The classifier breaks ties by it.
var BurnReasons = []BurnReason{
	ReasonScopeCreep,
	ReasonInternalMeeting,
	ReasonRework,
	ReasonAdmin,
	ReasonCommunication,
	ReasonPlanning,
	ReasonResearch,
	ReasonSetup,
	ReasonOther,
}

func (r BurnReason) Valid() bool {
	for _, known := range BurnReasons {
		if r == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable name of the reason.
func (r BurnReason) Label() string {
	switch r {
	case ReasonScopeCreep:
		return "Scope Creep"
	case ReasonInternalMeeting:
		return "Internal Meeting"
	case ReasonRework:
		return "Rework / Bug Fix"
	case ReasonAdmin:
		return "Admin / Overhead"
	case ReasonCommunication:
		return "Communication"
	case ReasonPlanning:
		return "Planning / Strategy"
	case ReasonResearch:
		return "Research / Learning"
	case ReasonSetup:
		return "Setup / Config"
	case ReasonOther:
		return "Other"
	default:
		return "Unknown"
	}
}

type MarginHealth string

const (
	MarginHealthy    MarginHealth = "healthy"
	MarginWarning    MarginHealth = "warning"
	MarginCritical   MarginHealth = "critical"
	MarginUnderwater MarginHealth = "underwater"
)

func (h MarginHealth) Valid() bool {
	switch h {
	case MarginHealthy, MarginWarning, MarginCritical, MarginUnderwater:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

type ScopeStatus string

const (
	ScopePending          ScopeStatus = "pending"
	ScopeAcceptedBurn     ScopeStatus = "accepted_burn"
	ScopeConvertedRevenue ScopeStatus = "converted_revenue"
	ScopeRejected         ScopeStatus = "rejected"
)

// IsResolution reports whether s is one of the terminal states a pending
// request can be resolved to.
func (s ScopeStatus) IsResolution() bool {
	switch s {
	case ScopeAcceptedBurn, ScopeConvertedRevenue, ScopeRejected:
		return true
	}
	return false
}

type RecordSource string

const (
	SourceManual       RecordSource = "manual"
	SourceScopeRequest RecordSource = "scope_request"
	SourceImport       RecordSource = "import"
)

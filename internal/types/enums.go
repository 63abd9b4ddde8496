package types

// Lead status values (coarse lifecycle flag, independent of the pipeline stage)
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadQualified = "qualified"
	LeadWon       = "won"
	LeadLost      = "lost"
	LeadConverted = "converted"
)

// Pipeline stages. Strictly linear: a lead only ever moves one step at a
// time along this slice, forward or back.
var PipelineStages = []string{
	StageNew,
	StageContacted,
	StageProposal,
	StageClosed,
}

const (
	StageNew       = "new"
	StageContacted = "contacted"
	StageProposal  = "proposal"
	StageClosed    = "closed"
)

// Message status values
const (
	MessageNew       = "new"
	MessageOpen      = "open"
	MessageClosed    = "closed"
	MessageConverted = "converted"
)

// Message sender roles
const (
	SenderClient = "client"
	SenderStaff  = "staff"
	SenderSystem = "system"
)

// Project status values
const (
	ProjectActive    = "active"
	ProjectPaused    = "paused"
	ProjectArchived  = "archived"
	ProjectCompleted = "completed"
)

// Project phase values
const (
	PhaseDiscovery = "discovery"
	PhaseDesign    = "design"
	PhaseBuild     = "build"
	PhaseReview    = "review"
	PhaseLaunch    = "launch"
)

// Portal roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "user"
)

// Invite status values
const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteRevoked  = "revoked"
	InviteExpired  = "expired"
)

// Subscription status values
const (
	SubActive   = "active"
	SubTrialing = "trialing"
	SubPastDue  = "past_due"
	SubCanceled = "canceled"
)

// Checkout session status values
const (
	CheckoutPending   = "pending"
	CheckoutFulfilled = "fulfilled"
	CheckoutExpired   = "expired"
)

var ValidLeadStatuses = []string{
	LeadNew, LeadContacted, LeadQualified, LeadWon, LeadLost, LeadConverted,
}

var ValidMessageStatuses = []string{
	MessageNew, MessageOpen, MessageClosed, MessageConverted,
}

var ValidProjectStatuses = []string{
	ProjectActive, ProjectPaused, ProjectArchived, ProjectCompleted,
}

var ValidProjectPhases = []string{
	PhaseDiscovery, PhaseDesign, PhaseBuild, PhaseReview, PhaseLaunch,
}

var ValidRoles = []string{RoleAdmin, RoleStaff, RoleUser}

func IsValidLeadStatus(status string) bool {
	return contains(ValidLeadStatuses, status)
}

func IsValidMessageStatus(status string) bool {
	return contains(ValidMessageStatuses, status)
}

func IsValidProjectStatus(status string) bool {
	return contains(ValidProjectStatuses, status)
}

func IsValidProjectPhase(phase string) bool {
	return contains(ValidProjectPhases, phase)
}

func IsValidRole(role string) bool {
	return contains(ValidRoles, role)
}

func IsValidStage(stage string) bool {
	return StageIndex(stage) >= 0
}

// StageIndex returns the position of stage in PipelineStages, or -1.
func StageIndex(stage string) int {
	for i, s := range PipelineStages {
		if s == stage {
			return i
		}
	}
	return -1
}

// NextStage returns the stage one step forward, or "" when stage is the
// final stage (or unknown).
func NextStage(stage string) string {
	idx := StageIndex(stage)
	if idx < 0 || idx >= len(PipelineStages)-1 {
		return ""
	}
	return PipelineStages[idx+1]
}

// PrevStage returns the stage one step back, or "" when stage is the first
// stage (or unknown).
func PrevStage(stage string) string {
	idx := StageIndex(stage)
	if idx <= 0 {
		return ""
	}
	return PipelineStages[idx-1]
}

// DeriveProjectStage coarsens a project status into the stage buckets the
// stats engine aggregates over. Unknown statuses pass through unchanged.
func DeriveProjectStage(status string) string {
	switch status {
	case ProjectCompleted, "done":
		return ProjectCompleted
	case ProjectArchived, "canceled":
		return ProjectArchived
	case ProjectActive, "in_progress":
		return ProjectActive
	default:
		return status
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

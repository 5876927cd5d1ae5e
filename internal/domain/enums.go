package domain

// ParentKind identifies which parent/child family an operation targets.
type ParentKind string

const (
	KindClient   ParentKind = "client"
	KindTaskType ParentKind = "task_type"
)

// Valid reports whether k is a known parent kind.
func (k ParentKind) Valid() bool {
	return k == KindClient || k == KindTaskType
}

type ProjectStatus string

const (
	ProjectRFQ        ProjectStatus = "rfq"
	ProjectEstimated  ProjectStatus = "estimated"
	ProjectAccepted   ProjectStatus = "accepted"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectClosed     ProjectStatus = "closed"
	ProjectArchived   ProjectStatus = "archived"
)

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[string]bool{
	"rfq": true, "estimated": true, "accepted": true, "in_progress": true,
	"completed": true, "closed": true, "archived": true,
}

type TaskStatus string

const (
	TaskBooked     TaskStatus = "booked"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"booked": true, "in_progress": true, "completed": true, "cancelled": true,
}

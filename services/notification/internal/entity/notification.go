package entity

// Notification is a message delivered to one user's inbox.
type Notification struct {
	UserID    string                 `json:"user_id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt string                 `json:"created_at"`
}

// Settlement event types carried on the notification queue.
const (
	EventApprovalRequested = "approval_requested"
	EventApprovalDecided   = "approval_decided"
	EventPrizesCalculated  = "prizes_calculated"
	EventPrizeRunFailed    = "prize_run_failed"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

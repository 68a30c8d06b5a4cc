package entity

import "time"

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	return s == ApprovalPending || s == ApprovalApproved || s == ApprovalRejected
}

type RequestType string

const RequestPrizeCalculation RequestType = "prize_calculation"

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}

type HistoryAction string

const (
	HistoryCreated   HistoryAction = "created"
	HistoryApproved  HistoryAction = "approved"
	HistoryRejected  HistoryAction = "rejected"
	HistoryCommented HistoryAction = "commented"
	HistoryProcessed HistoryAction = "processed"
)

// ApprovalVote is unique per (RequestID, ManagerID); a second vote replaces the first.
type ApprovalVote struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	ManagerID string    `json:"manager_id"`
	Decision  Decision  `json:"decision"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ApprovalHistoryEntry struct {
	ID        string        `json:"id"`
	RequestID string        `json:"request_id"`
	Action    HistoryAction `json:"action"`
	ActorID   string        `json:"actor_id"`
	Comment   string        `json:"comment,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type ApprovalRequest struct {
	ID           string                 `json:"id"`
	LottoID      string                 `json:"lotto_id"`
	RequestType  RequestType            `json:"request_type"`
	Draw         Draw                   `json:"draw"`
	Status       ApprovalStatus         `json:"status"`
	RequestedBy  string                 `json:"requested_by"`
	Processed    bool                   `json:"processed"`
	ProcessError string                 `json:"process_error,omitempty"`
	DecidedAt    *time.Time             `json:"decided_at,omitempty"`
	Votes        []ApprovalVote         `json:"votes"`
	History      []ApprovalHistoryEntry `json:"history"`
	Version      int                    `json:"-"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Tally decides a request from its full vote set: any reject rejects,
// otherwise quorum distinct approvals approve.
func Tally(votes []ApprovalVote, quorum int) ApprovalStatus {
	approvers := make(map[string]struct{}, len(votes))
	for _, v := range votes {
		if v.Decision == DecisionReject {
			return ApprovalRejected
		}
		if v.Decision == DecisionApprove {
			approvers[v.ManagerID] = struct{}{}
		}
	}
	if len(approvers) >= quorum {
		return ApprovalApproved
	}
	return ApprovalPending
}

package models

import "time"

// Minute lifecycle states. While Submitted, a minute may cycle through any
// number of mark-to/return-to detours before reaching Approved or Rejected.
const (
	MinuteDraft     = "Draft"
	MinuteSubmitted = "Submitted"
	MinutePending   = "Pending"
	MinuteApproved  = "Approved"
	MinuteRejected  = "Rejected"
)

// Ledger actions recorded per approval decision.
const (
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionMarkTo   = "mark-to"
	ActionReturnTo = "return-to"
	ActionSubmit   = "submit"
)

// Minute represents a document routed through an approval workflow.
type Minute struct {
	MinuteID     uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Subject      string         `json:"subject,omitempty"`
	Description  string         `gorm:"not null" json:"description"`
	Attachment   string         `gorm:"size:512" json:"attachment,omitempty"`
	SheetNumber  int            `gorm:"not null;default:1" json:"sheetNumber"`
	DepartmentID *uint64        `json:"departmentId,omitempty"`
	Department   *Department    `gorm:"foreignKey:DepartmentID" json:"-"`
	CreatedByID  uint64         `gorm:"not null" json:"createdById"`
	CreatedBy    *User          `gorm:"foreignKey:CreatedByID" json:"-"`
	UniqueID     string         `gorm:"uniqueIndex;size:50;not null" json:"uniqueId"`
	Status       string         `gorm:"size:20;not null;default:Draft" json:"status"`
	ChainID      *uint64        `gorm:"uniqueIndex" json:"chainId,omitempty"`
	Chain        *ApprovalChain `gorm:"foreignKey:ChainID" json:"-"`
	Archived     bool           `gorm:"not null;default:false" json:"archived"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Terminal reports whether the minute reached a final state and was archived.
func (m *Minute) Terminal() bool {
	return m.Status == MinuteApproved || m.Status == MinuteRejected
}

// MinuteApproval is the per-(minute, approver) ledger entry. Entries are
// never deleted; they are the audit history of every decision. The unique
// (minute, approver) pair makes re-adding an approver impossible, and at
// most one entry per minute carries current_approver while the minute is
// non-terminal.
type MinuteApproval struct {
	ApprovalID      uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MinuteID        uint64     `gorm:"not null;index:idx_minute_approver,unique,priority:1" json:"minuteId"`
	Minute          *Minute    `gorm:"foreignKey:MinuteID" json:"-"`
	ChainID         uint64     `gorm:"not null" json:"chainId"`
	ApproverID      uint64     `gorm:"not null;index:idx_minute_approver,unique,priority:2" json:"approverId"`
	Approver        *User      `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	Order           int        `gorm:"column:approval_order;not null" json:"order"`
	Status          string     `gorm:"size:20;not null;default:Pending" json:"status"`
	CurrentApprover bool       `gorm:"not null;default:false;index" json:"currentApprover"`
	Action          *string    `gorm:"size:20" json:"action,omitempty"`
	Remarks         *string    `json:"remarks,omitempty"`
	TargetUserID    *uint64    `json:"targetUserId,omitempty"`
	TargetUser      *User      `gorm:"foreignKey:TargetUserID" json:"-"`
	ActionTime      *time.Time `json:"actionTime,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// MinuteActionLog is the append-only audit trail. Rows are created once per
// action and never mutated or deleted.
type MinuteActionLog struct {
	LogID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MinuteID      uint64    `gorm:"not null;index" json:"minuteId"`
	Minute        *Minute   `gorm:"foreignKey:MinuteID" json:"-"`
	Action        string    `gorm:"size:20;not null;index:idx_action_log_action" json:"action"`
	PerformedByID *uint64   `json:"performedById,omitempty"`
	PerformedBy   *User     `gorm:"foreignKey:PerformedByID" json:"-"`
	TargetUserID  *uint64   `json:"targetUserId,omitempty"`
	Remarks       string    `json:"remarks,omitempty"`
	Metadata      JSON      `json:"metadata,omitempty"`
	Timestamp     time.Time `gorm:"not null;index:idx_action_log_timestamp" json:"timestamp"`
}

// TableName overrides the table name for Minute
func (Minute) TableName() string {
	return "minutes"
}

// TableName overrides the table name for MinuteApproval
func (MinuteApproval) TableName() string {
	return "minute_approvals"
}

// TableName overrides the table name for MinuteActionLog
func (MinuteActionLog) TableName() string {
	return "minute_action_logs"
}

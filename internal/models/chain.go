package models

import "time"

// Approval chain lifecycle states.
const (
	ChainActive    = "Active"
	ChainCompleted = "Completed"
)

// Per-approver workflow states, shared by Approver and MinuteApproval.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
	StatusMarked   = "Marked"
	StatusReturned = "Returned"
)

// ApprovalChain is the ordered routing definition for exactly one minute.
// A chain is created per minute and never shared.
type ApprovalChain struct {
	ChainID     uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"uniqueIndex;size:255;not null" json:"name"`
	CreatedByID uint64     `gorm:"not null" json:"createdById"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID" json:"-"`
	Status      string     `gorm:"size:20;not null;default:Active" json:"status"`
	MinuteID    *uint64    `gorm:"uniqueIndex" json:"minuteId,omitempty"`
	Approvers   []Approver `gorm:"foreignKey:ChainID;constraint:OnDelete:CASCADE" json:"approvers,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Approver is one slot in an approval chain: a user plus their 1-based,
// dense, unique position. `approval_order` is used as the column name
// because `order` is reserved in several supported dialects.
type Approver struct {
	ApproverID uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ChainID    uint64     `gorm:"not null;index:idx_chain_order,unique,priority:1;index:idx_chain_user,unique,priority:1" json:"chainId"`
	UserID     uint64     `gorm:"not null;index:idx_chain_user,unique,priority:2" json:"userId"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Order      int        `gorm:"column:approval_order;not null;index:idx_chain_order,unique,priority:2" json:"order"`
	Status     string     `gorm:"size:20;not null;default:Pending" json:"status"`
	IsCurrent  bool       `gorm:"not null;default:false" json:"isCurrent"`
	ActionTime *time.Time `json:"actionTime,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// TableName overrides the table name for ApprovalChain
func (ApprovalChain) TableName() string {
	return "approval_chains"
}

// TableName overrides the table name for Approver
func (Approver) TableName() string {
	return "chain_approvers"
}

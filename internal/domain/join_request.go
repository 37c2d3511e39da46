package domain

import "time"

// Join request statuses.
const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestRejected = "REJECTED"
)

// JoinRequest is a user's application to a group. A user holds at most one
// request row per group.
type JoinRequest struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	UserID        uint64     `gorm:"not null;uniqueIndex:idx_request_user_group" json:"user_id"`
	GroupID       uint64     `gorm:"not null;uniqueIndex:idx_request_user_group;index" json:"group_id"`
	Message       string     `gorm:"type:text" json:"message"`
	Status        string     `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	RequestedAt   time.Time  `gorm:"not null" json:"requested_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	ProcessedByID *uint64    `json:"processed_by_id,omitempty"`

	User        *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group       *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	ProcessedBy *User  `gorm:"foreignKey:ProcessedByID" json:"-"`
}

func (JoinRequest) TableName() string { return "join_requests" }

func (r JoinRequest) IsPending() bool  { return r.Status == RequestPending }
func (r JoinRequest) IsApproved() bool { return r.Status == RequestApproved }
func (r JoinRequest) IsRejected() bool { return r.Status == RequestRejected }

// Approve marks the request approved by the given leader.
func (r *JoinRequest) Approve(by uint64, at time.Time) {
	r.process(RequestApproved, by, at)
}

// Reject marks the request rejected by the given leader.
func (r *JoinRequest) Reject(by uint64, at time.Time) {
	r.process(RequestRejected, by, at)
}

func (r *JoinRequest) process(status string, by uint64, at time.Time) {
	r.Status = status
	r.ProcessedAt = &at
	r.ProcessedByID = &by
}

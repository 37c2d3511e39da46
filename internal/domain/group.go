package domain

import "time"

// Group statuses.
const (
	GroupActive = "ACTIVE"
	GroupClosed = "CLOSED"
)

// Member roles.
const (
	RoleLeader = "LEADER"
	RoleMember = "MEMBER"
)

// Group gathers the participants of a post. It always holds its leader, so
// CurrentCount starts at 1.
type Group struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	PostID       uint64    `gorm:"uniqueIndex;not null" json:"post_id"`
	CurrentCount int       `gorm:"not null;default:1" json:"current_count"`
	Status       string    `gorm:"size:16;not null;default:ACTIVE" json:"status"`
	CreatedAt    time.Time `json:"created_at"`

	Post *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

func (Group) TableName() string { return "meetup_groups" }

// NewGroup returns an active group for post with the leader counted.
func NewGroup(post *Post) Group {
	return Group{
		PostID:       post.ID,
		CurrentCount: 1,
		Status:       GroupActive,
		CreatedAt:    time.Now(),
		Post:         post,
	}
}

func (g *Group) limit() int {
	if g.Post == nil {
		return 0
	}
	return g.Post.Limit()
}

// IsFull reports whether the participant limit has been reached. Groups
// without a limit are never full.
func (g *Group) IsFull() bool {
	l := g.limit()
	return l > 0 && g.CurrentCount >= l
}

// IsClosed reports whether the group stopped taking requests.
func (g *Group) IsClosed() bool { return g.Status == GroupClosed }

// Increment adds a participant and closes the group once it is full.
func (g *Group) Increment() {
	g.CurrentCount++
	if g.IsFull() {
		g.Status = GroupClosed
	}
}

// Decrement removes a participant. The leader is never removed from the
// count; a closed group with a free seat reopens.
func (g *Group) Decrement() {
	if g.CurrentCount <= 1 {
		return
	}
	g.CurrentCount--
	if g.IsClosed() && !g.IsFull() {
		g.Status = GroupActive
	}
}

// GroupMember links a user to a group with a role.
type GroupMember struct {
	ID       uint64    `gorm:"primaryKey" json:"id"`
	UserID   uint64    `gorm:"not null;uniqueIndex:idx_member_user_group" json:"user_id"`
	GroupID  uint64    `gorm:"not null;uniqueIndex:idx_member_user_group;index" json:"group_id"`
	Role     string    `gorm:"size:16;not null;default:MEMBER" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`

	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

func (GroupMember) TableName() string { return "group_members" }

// IsLeader reports whether the member leads the group.
func (m GroupMember) IsLeader() bool { return m.Role == RoleLeader }

package domain

import "context"

// PostFilter narrows post listings. Zero values mean "no restriction".
type PostFilter struct {
	Category string
	Keyword  string
	Limit    int
}

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id uint64) error
	UserByID(ctx context.Context, id uint64) (User, error)
	UserByLoginID(ctx context.Context, loginID string) (User, error)
}

// PostRepository persists posts.
type PostRepository interface {
	CreatePost(ctx context.Context, p *Post) error
	UpdatePost(ctx context.Context, p *Post) error
	DeletePost(ctx context.Context, id uint64) error
	PostByID(ctx context.Context, id uint64) (Post, error)
	// ListPosts returns posts newest first.
	ListPosts(ctx context.Context, f PostFilter) ([]Post, error)
	DetachPostsFromUser(ctx context.Context, userID uint64) error
}

// CommentRepository persists comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, c *Comment) error
	// CommentsByPost returns comments oldest first.
	CommentsByPost(ctx context.Context, postID uint64) ([]Comment, error)
	DeleteCommentsByPost(ctx context.Context, postID uint64) error
	DetachCommentsFromUser(ctx context.Context, userID uint64) error
}

// GroupRepository persists groups. Returned groups carry their Post.
type GroupRepository interface {
	CreateGroup(ctx context.Context, g *Group) error
	UpdateGroup(ctx context.Context, g *Group) error
	DeleteGroup(ctx context.Context, id uint64) error
	GroupByID(ctx context.Context, id uint64) (Group, error)
	// LockGroup loads the group and holds a row lock until the transaction ends.
	LockGroup(ctx context.Context, id uint64) (Group, error)
	GroupByPost(ctx context.Context, postID uint64) (Group, error)
	// GroupsLedBy returns groups whose leader is userID, newest first.
	GroupsLedBy(ctx context.Context, userID uint64, category string) ([]Group, error)
}

// MemberRepository persists group memberships.
type MemberRepository interface {
	CreateMember(ctx context.Context, m *GroupMember) error
	UpdateMember(ctx context.Context, m *GroupMember) error
	DeleteMember(ctx context.Context, id uint64) error
	DeleteMembersOf(ctx context.Context, groupID uint64) error
	Member(ctx context.Context, userID, groupID uint64) (GroupMember, error)
	MemberByRole(ctx context.Context, groupID uint64, role string) (GroupMember, error)
	// MembersOf returns members by join time with User loaded.
	MembersOf(ctx context.Context, groupID uint64) ([]GroupMember, error)
	// MembershipsOf returns the user's memberships, newest first, with
	// Group.Post loaded.
	MembershipsOf(ctx context.Context, userID uint64, category string) ([]GroupMember, error)
}

// JoinRequestRepository persists join requests. Returned requests carry
// User and Group.Post.
type JoinRequestRepository interface {
	CreateRequest(ctx context.Context, r *JoinRequest) error
	UpdateRequest(ctx context.Context, r *JoinRequest) error
	DeleteRequest(ctx context.Context, id uint64) error
	DeleteRequestsOf(ctx context.Context, groupID uint64) error
	DeleteRequestsBy(ctx context.Context, userID uint64) error
	RequestByID(ctx context.Context, id uint64) (JoinRequest, error)
	RequestFor(ctx context.Context, userID, groupID uint64) (JoinRequest, error)
	HasPendingRequest(ctx context.Context, userID, groupID uint64) (bool, error)
	// RequestsByUser returns the user's requests newest first.
	RequestsByUser(ctx context.Context, userID uint64) ([]JoinRequest, error)
	// RequestsByGroup filters by status when non-empty; oldest first when
	// ascending is set, newest first otherwise.
	RequestsByGroup(ctx context.Context, groupID uint64, status string, ascending bool) ([]JoinRequest, error)
	// PendingForLeader returns pending requests on groups led by leaderID,
	// newest first.
	PendingForLeader(ctx context.Context, leaderID uint64) ([]JoinRequest, error)
	// ProcessedForUser returns the user's approved or rejected requests,
	// most recently processed first.
	ProcessedForUser(ctx context.Context, userID uint64, limit int) ([]JoinRequest, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	UserRepository
	PostRepository
	CommentRepository
	GroupRepository
	MemberRepository
	JoinRequestRepository

	// WithTx runs fn against a store bound to a single transaction. The
	// transaction commits when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Store) error) error
	// Health checks database connectivity.
	Health(ctx context.Context) error
}

package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

// Store is re-exported from domain for convenience
type Store = domain.Store

// Services bundles the application services sharing one store.
type Services struct {
	Users         *UserService
	Posts         *PostService
	Comments      *CommentService
	Groups        *GroupService
	JoinRequests  *JoinRequestService
	Notifications *NotificationService
}

// New wires every service against store.
func New(store Store, logger zerolog.Logger) *Services {
	groups := NewGroupService(store, logger)
	return &Services{
		Users:         NewUserService(store, logger),
		Posts:         NewPostService(store, groups, logger),
		Comments:      NewCommentService(store, logger),
		Groups:        groups,
		JoinRequests:  NewJoinRequestService(store, logger),
		Notifications: NewNotificationService(store),
	}
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

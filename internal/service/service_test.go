package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/repository/gormstore"
)

type fixture struct {
	ctx   context.Context
	store *gormstore.Store
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store, err := gormstore.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := New(store, zerolog.Nop())
	svc.Users.cost = bcrypt.MinCost
	return &fixture{ctx: ctx, store: store, svc: svc}
}

func (f *fixture) user(t *testing.T, loginID string) domain.User {
	t.Helper()
	u, err := f.svc.Users.Register(f.ctx, SignupInput{
		LoginID:         loginID,
		Password:        "pass!word",
		PasswordConfirm: "pass!word",
		UserName:        loginID + "-name",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, author domain.User, limit int) (domain.Post, domain.Group) {
	t.Helper()
	in := domain.PostInput{Category: "스터디", Title: "algorithms", Content: "weekly session"}
	if limit > 0 {
		in.LimitCount = &limit
	}
	p, err := f.svc.Posts.Create(f.ctx, author, in)
	require.NoError(t, err)
	g, err := f.svc.Groups.GetByPost(f.ctx, p.ID)
	require.NoError(t, err)
	return p, g
}

// join submits and approves a request so member ends up in the group.
func (f *fixture) join(t *testing.T, member, leader domain.User, groupID uint64) {
	t.Helper()
	r, err := f.svc.JoinRequests.Request(f.ctx, member.ID, groupID, "let me in")
	require.NoError(t, err)
	require.NoError(t, f.svc.JoinRequests.Approve(f.ctx, r.ID, leader.ID))
}

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func requireKind(t *testing.T, err error, kind domain.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, domain.KindOf(err), "unexpected error: %v", err)
}

func TestErrorMessagesAreNotFormatted(t *testing.T) {
	f := newFixture(t)
	leader := f.user(t, "leader")
	_, g := f.post(t, leader, 0)

	err := requireLeader(f.ctx, f.store, leader.ID+1, g.ID, "100% leaders only")
	requireKind(t, err, domain.KindState)
	require.EqualError(t, err, "100% leaders only")

	err = notFoundAsInvalid(domain.NotFound("gone"), "50%s off")
	requireKind(t, err, domain.KindInvalid)
	require.EqualError(t, err, "50%s off")
}

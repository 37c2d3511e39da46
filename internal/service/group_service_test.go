package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

func TestGroupMembershipQueries(t *testing.T) {
	f := newFixture(t)
	leader := f.user(t, "leader")
	member := f.user(t, "member")
	_, g := f.post(t, leader, 5)
	f.join(t, member, leader, g.ID)

	ok, err := f.svc.Groups.IsMember(f.ctx, member.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.svc.Groups.IsLeader(f.ctx, member.ID, g.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = f.svc.Groups.IsLeader(f.ctx, leader.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	members, err := f.svc.Groups.Members(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	mine, err := f.svc.Groups.MyGroups(f.ctx, member.ID, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, g.ID, mine[0].GroupID)

	none, err := f.svc.Groups.MyGroups(f.ctx, leader.ID, "")
	require.NoError(t, err)
	assert.Empty(t, none)

	led, err := f.svc.Groups.LeaderGroups(f.ctx, leader.ID, "스터디")
	require.NoError(t, err)
	assert.Len(t, led, 1)
	led, err = f.svc.Groups.LeaderGroups(f.ctx, leader.ID, "게임")
	require.NoError(t, err)
	assert.Empty(t, led)
}

func TestGroupDetail(t *testing.T) {
	f := newFixture(t)
	leader := f.user(t, "leader")
	applicant := f.user(t, "applicant")
	_, g := f.post(t, leader, 5)
	_, err := f.svc.JoinRequests.Request(f.ctx, applicant.ID, g.ID, "hello")
	require.NoError(t, err)

	d, err := f.svc.Groups.Detail(f.ctx, g.ID, leader.ID)
	require.NoError(t, err)
	assert.True(t, d.IsLeader)
	require.NotNil(t, d.Leader)
	assert.Equal(t, leader.ID, d.Leader.UserID)
	assert.Len(t, d.Pending, 1)

	d, err = f.svc.Groups.Detail(f.ctx, g.ID, applicant.ID)
	require.NoError(t, err)
	assert.False(t, d.IsMember)
	assert.True(t, d.HasPending)
	assert.Empty(t, d.Pending)

	d, err = f.svc.Groups.Detail(f.ctx, g.ID, 0)
	require.NoError(t, err)
	assert.False(t, d.IsMember)
}

func TestLeaveGroup(t *testing.T) {
	f := newFixture(t)
	leader := f.user(t, "leader")
	member := f.user(t, "member")
	_, g := f.post(t, leader, 2)
	f.join(t, member, leader, g.ID)

	g, err := f.svc.Groups.Get(f.ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, g.IsClosed())

	requireKind(t, f.svc.Groups.Leave(f.ctx, leader.ID, g.ID), domain.KindInvalid)
	require.NoError(t, f.svc.Groups.Leave(f.ctx, member.ID, g.ID))
	require.NoError(t, f.svc.Groups.Leave(f.ctx, member.ID, g.ID), "leaving twice is a no-op")

	g, err = f.svc.Groups.Get(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.CurrentCount)
	assert.Equal(t, domain.GroupActive, g.Status)
}

func TestKickMember(t *testing.T) {
	f := newFixture(t)
	leader := f.user(t, "leader")
	member := f.user(t, "member")
	outsider := f.user(t, "outsider")
	_, g := f.post(t, leader, 5)
	f.join(t, member, leader, g.ID)

	requireKind(t, f.svc.Groups.Kick(f.ctx, leader.ID, g.ID, member.ID), domain.KindState)
	requireKind(t, f.svc.Groups.Kick(f.ctx, outsider.ID, g.ID, leader.ID), domain.KindInvalid)
	requireKind(t, f.svc.Groups.Kick(f.ctx, leader.ID, g.ID, leader.ID), domain.KindState)
	require.NoError(t, f.svc.Groups.Kick(f.ctx, member.ID, g.ID, leader.ID))

	ok, err := f.svc.Groups.IsMember(f.ctx, member.ID, g.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransferLeadership(t *testing.T) {
	f := newFixture(t)
	leader := f.user(t, "leader")
	member := f.user(t, "member")
	outsider := f.user(t, "outsider")
	// Keep group ids apart from user ids so swapped arguments cannot pass.
	for i := 0; i < 3; i++ {
		f.post(t, outsider, 0)
	}
	_, g := f.post(t, leader, 5)
	require.NotContains(t, []uint64{leader.ID, member.ID, outsider.ID}, g.ID)
	f.join(t, member, leader, g.ID)

	requireKind(t, f.svc.Groups.TransferLeadership(f.ctx, member.ID, leader.ID, g.ID), domain.KindState)
	requireKind(t, f.svc.Groups.TransferLeadership(f.ctx, leader.ID, outsider.ID, g.ID), domain.KindInvalid)
	require.NoError(t, f.svc.Groups.TransferLeadership(f.ctx, leader.ID, member.ID, g.ID))

	l, err := f.svc.Groups.Leader(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, l.UserID)

	ok, err := f.svc.Groups.IsMember(f.ctx, leader.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, ok, "the previous leader stays as a member")
}

func TestCloseAndReopenGroup(t *testing.T) {
	f := newFixture(t)
	leader := f.user(t, "leader")
	applicant := f.user(t, "applicant")
	_, g := f.post(t, leader, 5)
	r, err := f.svc.JoinRequests.Request(f.ctx, applicant.ID, g.ID, "")
	require.NoError(t, err)

	requireKind(t, f.svc.Groups.Close(f.ctx, g.ID, applicant.ID), domain.KindState)
	require.NoError(t, f.svc.Groups.Close(f.ctx, g.ID, leader.ID))
	requireKind(t, f.svc.Groups.Close(f.ctx, g.ID, leader.ID), domain.KindState)

	mine, err := f.svc.JoinRequests.MyRequests(f.ctx, applicant.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, r.ID, mine[0].ID)
	assert.True(t, mine[0].IsRejected())

	_, err = f.svc.JoinRequests.Request(f.ctx, applicant.ID, g.ID, "")
	requireKind(t, err, domain.KindState)

	require.NoError(t, f.svc.Groups.Reopen(f.ctx, g.ID, leader.ID))
	requireKind(t, f.svc.Groups.Reopen(f.ctx, g.ID, leader.ID), domain.KindState)
}

func TestReopenFullGroup(t *testing.T) {
	f := newFixture(t)
	leader := f.user(t, "leader")
	_, g := f.post(t, leader, 2)
	f.join(t, f.user(t, "member"), leader, g.ID)

	requireKind(t, f.svc.Groups.Reopen(f.ctx, g.ID, leader.ID), domain.KindState)
}

func TestDeleteGroup(t *testing.T) {
	f := newFixture(t)
	leader := f.user(t, "leader")
	member := f.user(t, "member")
	p, g := f.post(t, leader, 5)
	f.join(t, member, leader, g.ID)

	requireKind(t, f.svc.Groups.Delete(f.ctx, g.ID, member.ID), domain.KindState)
	require.NoError(t, f.svc.Groups.Delete(f.ctx, g.ID, leader.ID))

	_, err := f.svc.Posts.Get(f.ctx, p.ID)
	requireKind(t, err, domain.KindNotFound)
	mine, err := f.svc.Groups.MyGroups(f.ctx, member.ID, "")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

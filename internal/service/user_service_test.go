package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)

	u, err := f.svc.Users.Register(f.ctx, SignupInput{
		LoginID: "alice", Password: "secret!1", PasswordConfirm: "secret!1", UserName: "Alice",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "secret!1", u.PasswordHash)

	authed, err := f.svc.Users.Authenticate(f.ctx, "alice", "secret!1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, authed.ID)

	_, err = f.svc.Users.Authenticate(f.ctx, "alice", "wrong!pw")
	requireKind(t, err, domain.KindInvalid)
	_, err = f.svc.Users.Authenticate(f.ctx, "nobody", "secret!1")
	requireKind(t, err, domain.KindInvalid)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	f.user(t, "taken")

	tests := []struct {
		name string
		in   SignupInput
		kind domain.Kind
	}{
		{"space in id", SignupInput{LoginID: "a b", Password: "secret!1", PasswordConfirm: "secret!1"}, domain.KindInvalid},
		{"control char in id", SignupInput{LoginID: "a\tb", Password: "secret!1", PasswordConfirm: "secret!1"}, domain.KindInvalid},
		{"control char in password", SignupInput{LoginID: "bob", Password: "sec\nret!", PasswordConfirm: "sec\nret!"}, domain.KindInvalid},
		{"duplicate id", SignupInput{LoginID: "taken", Password: "secret!1", PasswordConfirm: "secret!1"}, domain.KindConflict},
		{"too short", SignupInput{LoginID: "bob", Password: "a!1", PasswordConfirm: "a!1"}, domain.KindInvalid},
		{"too long", SignupInput{LoginID: "bob", Password: "abcdefghijklmnop!", PasswordConfirm: "abcdefghijklmnop!"}, domain.KindInvalid},
		{"mismatch", SignupInput{LoginID: "bob", Password: "secret!1", PasswordConfirm: "secret!2"}, domain.KindInvalid},
		{"no special char", SignupInput{LoginID: "bob", Password: "secret12", PasswordConfirm: "secret12"}, domain.KindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Users.Register(f.ctx, tt.in)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestRegisterPasswordBoundaries(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Users.Register(f.ctx, SignupInput{LoginID: "six", Password: "abcde!", PasswordConfirm: "abcde!"})
	require.NoError(t, err)
	_, err = f.svc.Users.Register(f.ctx, SignupInput{LoginID: "sixteen", Password: "abcdefghijklmno!", PasswordConfirm: "abcdefghijklmno!"})
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "carol")
	f.user(t, "dave")

	updated, err := f.svc.Users.UpdateProfile(f.ctx, u.ID, ProfileInput{UserName: "Caroline", NewLoginID: "caroline"})
	require.NoError(t, err)
	assert.Equal(t, "Caroline", updated.UserName)
	assert.Equal(t, "caroline", updated.LoginID)

	_, err = f.svc.Users.UpdateProfile(f.ctx, u.ID, ProfileInput{NewLoginID: "dave"})
	requireKind(t, err, domain.KindConflict)

	_, err = f.svc.Users.UpdateProfile(f.ctx, u.ID, ProfileInput{Password: "newpass!", PasswordConfirm: "other!!"})
	requireKind(t, err, domain.KindInvalid)

	_, err = f.svc.Users.UpdateProfile(f.ctx, u.ID, ProfileInput{Password: "newpass!", PasswordConfirm: "newpass!"})
	require.NoError(t, err)
	_, err = f.svc.Users.Authenticate(f.ctx, "caroline", "newpass!")
	require.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	f := newFixture(t)
	leader := f.user(t, "leader")
	member := f.user(t, "member")
	_, g := f.post(t, leader, 5)
	f.join(t, member, leader, g.ID)

	_, err := f.svc.Comments.Create(f.ctx, g.PostID, "see you there", &member)
	require.NoError(t, err)

	err = f.svc.Users.DeleteAccount(f.ctx, leader.ID)
	requireKind(t, err, domain.KindState)

	require.NoError(t, f.svc.Users.DeleteAccount(f.ctx, member.ID))

	_, err = f.svc.Users.Get(f.ctx, member.ID)
	requireKind(t, err, domain.KindNotFound)

	g, err = f.svc.Groups.Get(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.CurrentCount)

	comments, err := f.svc.Comments.ListByPost(f.ctx, g.PostID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Nil(t, comments[0].UserID)
	assert.Equal(t, "member-name", comments[0].AuthorName)
}

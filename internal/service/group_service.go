package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/metrics"
)

// GroupService manages meetup groups and their membership.
type GroupService struct {
	store  Store
	logger zerolog.Logger
	clock  clock
}

// NewGroupService creates a new group service
func NewGroupService(store Store, logger zerolog.Logger) *GroupService {
	return &GroupService{
		store:  store,
		logger: logger.With().Str("component", "groups").Logger(),
	}
}

// GroupDetail is everything the group page shows to one viewer.
type GroupDetail struct {
	Group      domain.Group
	Members    []domain.GroupMember
	Leader     *domain.GroupMember
	IsMember   bool
	IsLeader   bool
	HasPending bool
	// Pending is only filled for the leader.
	Pending []domain.JoinRequest
}

// CreateForPost opens a group for post with leaderID as its leader.
func (s *GroupService) CreateForPost(ctx context.Context, post *domain.Post, leaderID uint64) (domain.Group, error) {
	var g domain.Group
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		g, err = s.createForPost(ctx, tx, post, leaderID)
		return err
	})
	return g, err
}

func (s *GroupService) createForPost(ctx context.Context, tx Store, post *domain.Post, leaderID uint64) (domain.Group, error) {
	now := s.clock.now()
	g := domain.NewGroup(post)
	g.CreatedAt = now
	if err := tx.CreateGroup(ctx, &g); err != nil {
		return domain.Group{}, err
	}
	leader := domain.GroupMember{
		UserID:   leaderID,
		GroupID:  g.ID,
		Role:     domain.RoleLeader,
		JoinedAt: now,
	}
	if err := tx.CreateMember(ctx, &leader); err != nil {
		return domain.Group{}, err
	}
	return g, nil
}

func (s *GroupService) Get(ctx context.Context, id uint64) (domain.Group, error) {
	return s.store.GroupByID(ctx, id)
}

func (s *GroupService) GetByPost(ctx context.Context, postID uint64) (domain.Group, error) {
	return s.store.GroupByPost(ctx, postID)
}

func (s *GroupService) Members(ctx context.Context, groupID uint64) ([]domain.GroupMember, error) {
	return s.store.MembersOf(ctx, groupID)
}

// Leader returns the leader membership of the group.
func (s *GroupService) Leader(ctx context.Context, groupID uint64) (domain.GroupMember, error) {
	return s.store.MemberByRole(ctx, groupID, domain.RoleLeader)
}

func (s *GroupService) IsMember(ctx context.Context, userID, groupID uint64) (bool, error) {
	_, err := s.store.Member(ctx, userID, groupID)
	return found(err)
}

func (s *GroupService) IsLeader(ctx context.Context, userID, groupID uint64) (bool, error) {
	m, err := s.store.Member(ctx, userID, groupID)
	ok, err := found(err)
	return ok && m.IsLeader(), err
}

// MyGroups returns the groups the user joined as a plain member.
func (s *GroupService) MyGroups(ctx context.Context, userID uint64, category string) ([]domain.GroupMember, error) {
	all, err := s.store.MembershipsOf(ctx, userID, category)
	if err != nil {
		return nil, err
	}
	out := make([]domain.GroupMember, 0, len(all))
	for _, m := range all {
		if !m.IsLeader() {
			out = append(out, m)
		}
	}
	return out, nil
}

// LeaderGroups returns the groups the user leads.
func (s *GroupService) LeaderGroups(ctx context.Context, userID uint64, category string) ([]domain.Group, error) {
	return s.store.GroupsLedBy(ctx, userID, category)
}

// Detail assembles the group page for viewerID. A zero viewer is anonymous.
func (s *GroupService) Detail(ctx context.Context, groupID, viewerID uint64) (GroupDetail, error) {
	g, err := s.store.GroupByID(ctx, groupID)
	if err != nil {
		return GroupDetail{}, err
	}
	members, err := s.store.MembersOf(ctx, groupID)
	if err != nil {
		return GroupDetail{}, err
	}

	d := GroupDetail{Group: g, Members: members}
	for i := range members {
		m := &members[i]
		if m.IsLeader() {
			d.Leader = m
		}
		if viewerID != 0 && m.UserID == viewerID {
			d.IsMember = true
			d.IsLeader = m.IsLeader()
		}
	}
	if viewerID == 0 {
		return d, nil
	}

	if d.HasPending, err = s.store.HasPendingRequest(ctx, viewerID, groupID); err != nil {
		return GroupDetail{}, err
	}
	if d.IsLeader {
		if d.Pending, err = s.store.RequestsByGroup(ctx, groupID, domain.RequestPending, true); err != nil {
			return GroupDetail{}, err
		}
	}
	return d, nil
}

// Leave removes a plain member from the group. Leaving a group the user is
// not in is a no-op.
func (s *GroupService) Leave(ctx context.Context, userID, groupID uint64) error {
	return s.store.WithTx(ctx, func(tx Store) error {
		m, err := tx.Member(ctx, userID, groupID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if m.IsLeader() {
			return domain.Invalid("leader cannot leave the group; transfer leadership or delete the group")
		}
		return releaseMember(ctx, tx, m)
	})
}

// Kick removes targetID from the group on behalf of its leader.
func (s *GroupService) Kick(ctx context.Context, targetID, groupID, leaderID uint64) error {
	return s.store.WithTx(ctx, func(tx Store) error {
		if err := requireLeader(ctx, tx, leaderID, groupID, "only the group leader can remove members"); err != nil {
			return err
		}
		m, err := tx.Member(ctx, targetID, groupID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Invalid("user is not a member of this group")
		}
		if err != nil {
			return err
		}
		if m.IsLeader() {
			return domain.State("the group leader cannot be removed")
		}
		if err := releaseMember(ctx, tx, m); err != nil {
			return err
		}
		s.logger.Info().Uint64("group_id", groupID).Uint64("user_id", targetID).Msg("member removed")
		return nil
	})
}

// TransferLeadership hands the group over to another member.
func (s *GroupService) TransferLeadership(ctx context.Context, currentLeaderID, newLeaderID, groupID uint64) error {
	return s.store.WithTx(ctx, func(tx Store) error {
		if err := requireLeader(ctx, tx, currentLeaderID, groupID, "only the group leader can transfer leadership"); err != nil {
			return err
		}
		if currentLeaderID == newLeaderID {
			return domain.Invalid("you are already the group leader")
		}
		current, err := tx.Member(ctx, currentLeaderID, groupID)
		if err != nil {
			return err
		}
		next, err := tx.Member(ctx, newLeaderID, groupID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Invalid("the new leader must be a member of this group")
		}
		if err != nil {
			return err
		}

		current.Role = domain.RoleMember
		next.Role = domain.RoleLeader
		if err := tx.UpdateMember(ctx, &current); err != nil {
			return err
		}
		if err := tx.UpdateMember(ctx, &next); err != nil {
			return err
		}
		s.logger.Info().Uint64("group_id", groupID).Uint64("leader_id", newLeaderID).Msg("leadership transferred")
		return nil
	})
}

// Delete removes the group together with its post.
func (s *GroupService) Delete(ctx context.Context, groupID, leaderID uint64) error {
	return s.store.WithTx(ctx, func(tx Store) error {
		if err := requireLeader(ctx, tx, leaderID, groupID, "only the group leader can delete the group"); err != nil {
			return err
		}
		g, err := tx.GroupByID(ctx, groupID)
		if err != nil {
			return err
		}
		if err := deletePostCascade(ctx, tx, g.PostID); err != nil {
			return err
		}
		s.logger.Info().Uint64("group_id", groupID).Uint64("post_id", g.PostID).Msg("group deleted")
		return nil
	})
}

// Close stops a group from taking requests and rejects everything pending.
func (s *GroupService) Close(ctx context.Context, groupID, leaderID uint64) error {
	return s.store.WithTx(ctx, func(tx Store) error {
		if err := requireLeader(ctx, tx, leaderID, groupID, "only the group leader can close the group"); err != nil {
			return err
		}
		g, err := tx.LockGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if g.IsClosed() {
			return domain.State("group is already closed")
		}
		g.Status = domain.GroupClosed
		if err := tx.UpdateGroup(ctx, &g); err != nil {
			return err
		}

		pending, err := tx.RequestsByGroup(ctx, groupID, domain.RequestPending, true)
		if err != nil {
			return err
		}
		now := s.clock.now()
		for i := range pending {
			pending[i].Reject(leaderID, now)
			if err := tx.UpdateRequest(ctx, &pending[i]); err != nil {
				return err
			}
		}

		metrics.RecordGroupClosed("manual")
		s.logger.Info().Uint64("group_id", groupID).Int("rejected", len(pending)).Msg("group closed")
		return nil
	})
}

// Reopen lets a closed group with free seats take requests again.
func (s *GroupService) Reopen(ctx context.Context, groupID, leaderID uint64) error {
	return s.store.WithTx(ctx, func(tx Store) error {
		if err := requireLeader(ctx, tx, leaderID, groupID, "only the group leader can reopen the group"); err != nil {
			return err
		}
		g, err := tx.LockGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if !g.IsClosed() {
			return domain.State("group is not closed")
		}
		if g.IsFull() {
			return domain.State("group is full and cannot be reopened")
		}
		g.Status = domain.GroupActive
		return tx.UpdateGroup(ctx, &g)
	})
}

func requireLeader(ctx context.Context, tx Store, userID, groupID uint64, msg string) error {
	m, err := tx.Member(ctx, userID, groupID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.State("%s", msg)
	}
	if err != nil {
		return err
	}
	if !m.IsLeader() {
		return domain.State("%s", msg)
	}
	return nil
}

// releaseMember deletes a membership and frees its seat.
func releaseMember(ctx context.Context, tx Store, m domain.GroupMember) error {
	if err := tx.DeleteMember(ctx, m.ID); err != nil {
		return err
	}
	g, err := tx.LockGroup(ctx, m.GroupID)
	if err != nil {
		return err
	}
	g.Decrement()
	return tx.UpdateGroup(ctx, &g)
}

// found turns a NotFound lookup into false.
func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/metrics"
)

// JoinRequestService runs the request, approve and reject workflow.
type JoinRequestService struct {
	store  Store
	logger zerolog.Logger
	clock  clock
}

// NewJoinRequestService creates a new join request service
func NewJoinRequestService(store Store, logger zerolog.Logger) *JoinRequestService {
	return &JoinRequestService{
		store:  store,
		logger: logger.With().Str("component", "join_requests").Logger(),
	}
}

// Request applies to a group. A processed request from an earlier attempt
// is reset to pending instead of adding a second row.
func (s *JoinRequestService) Request(ctx context.Context, userID, groupID uint64, message string) (domain.JoinRequest, error) {
	var r domain.JoinRequest
	err := s.store.WithTx(ctx, func(tx Store) error {
		if _, err := tx.UserByID(ctx, userID); err != nil {
			return notFoundAsInvalid(err, "user not found")
		}
		g, err := tx.LockGroup(ctx, groupID)
		if err != nil {
			return notFoundAsInvalid(err, "group not found")
		}

		_, err = tx.Member(ctx, userID, groupID)
		member, err := found(err)
		if err != nil {
			return err
		}
		if member {
			return domain.State("you are already a member of this group")
		}

		existing, err := tx.RequestFor(ctx, userID, groupID)
		hasExisting, err := found(err)
		if err != nil {
			return err
		}
		if hasExisting && existing.IsPending() {
			return domain.State("a join request is already pending")
		}
		if g.IsFull() {
			return domain.State("group is full")
		}
		if g.IsClosed() {
			return domain.State("group is closed")
		}

		now := s.clock.now()
		if hasExisting {
			r = existing
			r.Status = domain.RequestPending
			r.Message = strings.TrimSpace(message)
			r.RequestedAt = now
			r.ProcessedAt = nil
			r.ProcessedByID = nil
			return tx.UpdateRequest(ctx, &r)
		}
		r = domain.JoinRequest{
			UserID:      userID,
			GroupID:     groupID,
			Message:     strings.TrimSpace(message),
			Status:      domain.RequestPending,
			RequestedAt: now,
		}
		return tx.CreateRequest(ctx, &r)
	})
	if err != nil {
		return domain.JoinRequest{}, err
	}

	metrics.RecordJoinRequest("requested")
	s.logger.Info().Uint64("group_id", groupID).Uint64("user_id", userID).Msg("join request submitted")
	return r, nil
}

// Approve admits the requester. The group row stays locked while the seat
// is taken so concurrent approvals cannot overfill it.
func (s *JoinRequestService) Approve(ctx context.Context, requestID, leaderID uint64) error {
	var closed bool
	var groupID uint64
	err := s.store.WithTx(ctx, func(tx Store) error {
		r, err := s.pendingForLeader(ctx, tx, requestID, leaderID)
		if err != nil {
			return err
		}
		groupID = r.GroupID

		g, err := tx.LockGroup(ctx, r.GroupID)
		if err != nil {
			return err
		}
		// Another approval may have finished while the lock was awaited.
		if r, err = tx.RequestByID(ctx, requestID); err != nil {
			return err
		}
		if !r.IsPending() {
			return domain.State("join request was already processed")
		}
		if g.IsFull() {
			return domain.State("group is full")
		}

		now := s.clock.now()
		r.Approve(leaderID, now)
		if err := tx.UpdateRequest(ctx, &r); err != nil {
			return err
		}
		m := domain.GroupMember{
			UserID:   r.UserID,
			GroupID:  r.GroupID,
			Role:     domain.RoleMember,
			JoinedAt: now,
		}
		if err := tx.CreateMember(ctx, &m); err != nil {
			return err
		}
		g.Increment()
		closed = g.IsClosed()
		return tx.UpdateGroup(ctx, &g)
	})
	if err != nil {
		return err
	}

	metrics.RecordJoinRequest("approved")
	if closed {
		metrics.RecordGroupClosed("full")
	}
	s.logger.Info().Uint64("request_id", requestID).Uint64("group_id", groupID).Bool("group_closed", closed).Msg("join request approved")
	return nil
}

// Reject declines a pending request.
func (s *JoinRequestService) Reject(ctx context.Context, requestID, leaderID uint64) error {
	err := s.store.WithTx(ctx, func(tx Store) error {
		r, err := s.pendingForLeader(ctx, tx, requestID, leaderID)
		if err != nil {
			return err
		}
		r.Reject(leaderID, s.clock.now())
		return tx.UpdateRequest(ctx, &r)
	})
	if err != nil {
		return err
	}
	metrics.RecordJoinRequest("rejected")
	s.logger.Info().Uint64("request_id", requestID).Msg("join request rejected")
	return nil
}

// Cancel withdraws the user's own pending request.
func (s *JoinRequestService) Cancel(ctx context.Context, requestID, userID uint64) error {
	err := s.store.WithTx(ctx, func(tx Store) error {
		r, err := tx.RequestByID(ctx, requestID)
		if err != nil {
			return notFoundAsInvalid(err, "join request not found")
		}
		if !r.IsPending() {
			return domain.State("only pending requests can be cancelled")
		}
		if r.UserID != userID {
			return domain.State("you can only cancel your own join request")
		}
		return tx.DeleteRequest(ctx, r.ID)
	})
	if err != nil {
		return err
	}
	metrics.RecordJoinRequest("cancelled")
	return nil
}

func (s *JoinRequestService) pendingForLeader(ctx context.Context, tx Store, requestID, leaderID uint64) (domain.JoinRequest, error) {
	r, err := tx.RequestByID(ctx, requestID)
	if err != nil {
		return domain.JoinRequest{}, notFoundAsInvalid(err, "join request not found")
	}
	if !r.IsPending() {
		return domain.JoinRequest{}, domain.State("join request was already processed")
	}
	if err := requireLeader(ctx, tx, leaderID, r.GroupID, "only the group leader can process join requests"); err != nil {
		return domain.JoinRequest{}, err
	}
	return r, nil
}

// MyRequests returns every request the user sent, newest first.
func (s *JoinRequestService) MyRequests(ctx context.Context, userID uint64) ([]domain.JoinRequest, error) {
	return s.store.RequestsByUser(ctx, userID)
}

// PendingForLeader returns pending requests on every group the user leads.
func (s *JoinRequestService) PendingForLeader(ctx context.Context, leaderID uint64) ([]domain.JoinRequest, error) {
	return s.store.PendingForLeader(ctx, leaderID)
}

// PendingForGroup returns the group's pending requests, oldest first.
func (s *JoinRequestService) PendingForGroup(ctx context.Context, groupID uint64) ([]domain.JoinRequest, error) {
	return s.store.RequestsByGroup(ctx, groupID, domain.RequestPending, true)
}

// ByGroup returns the group's requests newest first, filtered by status
// unless it is empty.
func (s *JoinRequestService) ByGroup(ctx context.Context, groupID uint64, status string) ([]domain.JoinRequest, error) {
	return s.store.RequestsByGroup(ctx, groupID, status, false)
}

func (s *JoinRequestService) HasPending(ctx context.Context, userID, groupID uint64) (bool, error) {
	return s.store.HasPendingRequest(ctx, userID, groupID)
}

func notFoundAsInvalid(err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Invalid("%s", msg)
	}
	return err
}

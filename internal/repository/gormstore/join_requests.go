package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

func (s *Store) CreateRequest(ctx context.Context, r *domain.JoinRequest) error {
	return translate(s.write(ctx).Create(r).Error, "join request")
}

func (s *Store) UpdateRequest(ctx context.Context, r *domain.JoinRequest) error {
	return translate(s.write(ctx).Save(r).Error, "join request")
}

func (s *Store) DeleteRequest(ctx context.Context, id uint64) error {
	return translate(s.db.WithContext(ctx).Delete(&domain.JoinRequest{}, id).Error, "join request")
}

func (s *Store) DeleteRequestsOf(ctx context.Context, groupID uint64) error {
	err := s.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&domain.JoinRequest{}).Error
	return translate(err, "join requests")
}

func (s *Store) DeleteRequestsBy(ctx context.Context, userID uint64) error {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.JoinRequest{}).Error
	return translate(err, "join requests")
}

func (s *Store) RequestByID(ctx context.Context, id uint64) (domain.JoinRequest, error) {
	var r domain.JoinRequest
	err := s.requests(ctx).First(&r, id).Error
	return r, translate(err, "join request")
}

func (s *Store) RequestFor(ctx context.Context, userID, groupID uint64) (domain.JoinRequest, error) {
	var r domain.JoinRequest
	err := s.requests(ctx).Where("user_id = ? AND group_id = ?", userID, groupID).First(&r).Error
	return r, translate(err, "join request")
}

func (s *Store) HasPendingRequest(ctx context.Context, userID, groupID uint64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&domain.JoinRequest{}).
		Where("user_id = ? AND group_id = ? AND status = ?", userID, groupID, domain.RequestPending).
		Count(&n).Error
	if err != nil {
		return false, translate(err, "join requests")
	}
	return n > 0, nil
}

func (s *Store) RequestsByUser(ctx context.Context, userID uint64) ([]domain.JoinRequest, error) {
	return s.findRequests(s.requests(ctx).
		Where("user_id = ?", userID).
		Order("requested_at DESC, id DESC"))
}

func (s *Store) RequestsByGroup(ctx context.Context, groupID uint64, status string, ascending bool) ([]domain.JoinRequest, error) {
	q := s.requests(ctx).Where("group_id = ?", groupID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if ascending {
		q = q.Order("requested_at ASC, id ASC")
	} else {
		q = q.Order("requested_at DESC, id DESC")
	}
	return s.findRequests(q)
}

func (s *Store) PendingForLeader(ctx context.Context, leaderID uint64) ([]domain.JoinRequest, error) {
	led := s.db.Model(&domain.GroupMember{}).
		Select("group_id").
		Where("user_id = ? AND role = ?", leaderID, domain.RoleLeader)
	return s.findRequests(s.requests(ctx).
		Where("status = ? AND group_id IN (?)", domain.RequestPending, led).
		Order("requested_at DESC, id DESC"))
}

func (s *Store) ProcessedForUser(ctx context.Context, userID uint64, limit int) ([]domain.JoinRequest, error) {
	q := s.requests(ctx).
		Where("user_id = ? AND status <> ?", userID, domain.RequestPending).
		Order("processed_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return s.findRequests(q)
}

func (s *Store) requests(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("User").Preload("Group.Post")
}

func (s *Store) findRequests(q *gorm.DB) ([]domain.JoinRequest, error) {
	var out []domain.JoinRequest
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err, "join requests")
	}
	return out, nil
}

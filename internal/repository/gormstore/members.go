package gormstore

import (
	"context"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

func (s *Store) CreateMember(ctx context.Context, m *domain.GroupMember) error {
	return translate(s.write(ctx).Create(m).Error, "group member")
}

func (s *Store) UpdateMember(ctx context.Context, m *domain.GroupMember) error {
	return translate(s.write(ctx).Save(m).Error, "group member")
}

func (s *Store) DeleteMember(ctx context.Context, id uint64) error {
	return translate(s.db.WithContext(ctx).Delete(&domain.GroupMember{}, id).Error, "group member")
}

func (s *Store) DeleteMembersOf(ctx context.Context, groupID uint64) error {
	err := s.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&domain.GroupMember{}).Error
	return translate(err, "group members")
}

func (s *Store) Member(ctx context.Context, userID, groupID uint64) (domain.GroupMember, error) {
	var m domain.GroupMember
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Group.Post").
		Where("user_id = ? AND group_id = ?", userID, groupID).
		First(&m).Error
	return m, translate(err, "group member")
}

func (s *Store) MemberByRole(ctx context.Context, groupID uint64, role string) (domain.GroupMember, error) {
	var m domain.GroupMember
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("group_id = ? AND role = ?", groupID, role).
		First(&m).Error
	return m, translate(err, "group member")
}

func (s *Store) MembersOf(ctx context.Context, groupID uint64) ([]domain.GroupMember, error) {
	var members []domain.GroupMember
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("group_id = ?", groupID).
		Order("joined_at ASC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, translate(err, "group members")
	}
	return members, nil
}

func (s *Store) MembershipsOf(ctx context.Context, userID uint64, category string) ([]domain.GroupMember, error) {
	q := s.db.WithContext(ctx).
		Preload("Group.Post").
		Where("user_id = ?", userID)
	if category != "" {
		groups := s.db.Model(&domain.Group{}).Select("id").Where("post_id IN (?)", s.postsIn(category))
		q = q.Where("group_id IN (?)", groups)
	}

	var members []domain.GroupMember
	if err := q.Order("joined_at DESC, id DESC").Find(&members).Error; err != nil {
		return nil, translate(err, "group members")
	}
	return members, nil
}

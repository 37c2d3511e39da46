package gormstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

func (s *Store) CreateGroup(ctx context.Context, g *domain.Group) error {
	return translate(s.write(ctx).Create(g).Error, "group")
}

func (s *Store) UpdateGroup(ctx context.Context, g *domain.Group) error {
	return translate(s.write(ctx).Save(g).Error, "group")
}

func (s *Store) DeleteGroup(ctx context.Context, id uint64) error {
	return translate(s.db.WithContext(ctx).Delete(&domain.Group{}, id).Error, "group")
}

func (s *Store) GroupByID(ctx context.Context, id uint64) (domain.Group, error) {
	var g domain.Group
	err := s.db.WithContext(ctx).Preload("Post").First(&g, id).Error
	return g, translate(err, "group")
}

// LockGroup uses SELECT ... FOR UPDATE; SQLite serialises writers instead.
func (s *Store) LockGroup(ctx context.Context, id uint64) (domain.Group, error) {
	var g domain.Group
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Post").
		First(&g, id).Error
	return g, translate(err, "group")
}

func (s *Store) GroupByPost(ctx context.Context, postID uint64) (domain.Group, error) {
	var g domain.Group
	err := s.db.WithContext(ctx).Preload("Post").Where("post_id = ?", postID).First(&g).Error
	return g, translate(err, "group")
}

func (s *Store) GroupsLedBy(ctx context.Context, userID uint64, category string) ([]domain.Group, error) {
	led := s.db.Model(&domain.GroupMember{}).
		Select("group_id").
		Where("user_id = ? AND role = ?", userID, domain.RoleLeader)

	q := s.db.WithContext(ctx).Preload("Post").Where("id IN (?)", led)
	if category != "" {
		q = q.Where("post_id IN (?)", s.postsIn(category))
	}

	var groups []domain.Group
	if err := q.Order(newestFirst).Find(&groups).Error; err != nil {
		return nil, translate(err, "groups")
	}
	return groups, nil
}

func (s *Store) postsIn(category string) *gorm.DB {
	return s.db.Model(&domain.Post{}).Select("id").Where("category = ?", category)
}

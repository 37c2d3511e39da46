package gormstore

import (
	"context"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	return translate(s.write(ctx).Create(c).Error, "comment")
}

func (s *Store) CommentsByPost(ctx context.Context, postID uint64) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "comments")
	}
	return comments, nil
}

func (s *Store) DeleteCommentsByPost(ctx context.Context, postID uint64) error {
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&domain.Comment{}).Error
	return translate(err, "comments")
}

func (s *Store) DetachCommentsFromUser(ctx context.Context, userID uint64) error {
	err := s.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("user_id = ?", userID).
		Update("user_id", nil).Error
	return translate(err, "comments")
}

package gormstore

import (
	"context"
	"strings"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

const newestFirst = "created_at DESC, id DESC"

func (s *Store) CreatePost(ctx context.Context, p *domain.Post) error {
	return translate(s.write(ctx).Create(p).Error, "post")
}

func (s *Store) UpdatePost(ctx context.Context, p *domain.Post) error {
	return translate(s.write(ctx).Save(p).Error, "post")
}

func (s *Store) DeletePost(ctx context.Context, id uint64) error {
	return translate(s.db.WithContext(ctx).Delete(&domain.Post{}, id).Error, "post")
}

func (s *Store) PostByID(ctx context.Context, id uint64) (domain.Post, error) {
	var p domain.Post
	err := s.db.WithContext(ctx).First(&p, id).Error
	return p, translate(err, "post")
}

func (s *Store) ListPosts(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	q := s.db.WithContext(ctx).Model(&domain.Post{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		like := "%" + escapeLike(kw) + "%"
		q = q.Where("title LIKE ? ESCAPE '!' OR content LIKE ? ESCAPE '!'", like, like)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var posts []domain.Post
	if err := q.Order(newestFirst).Find(&posts).Error; err != nil {
		return nil, translate(err, "posts")
	}
	return posts, nil
}

func (s *Store) DetachPostsFromUser(ctx context.Context, userID uint64) error {
	err := s.db.WithContext(ctx).Model(&domain.Post{}).
		Where("user_id = ?", userID).
		Update("user_id", nil).Error
	return translate(err, "posts")
}

// likeEscaper makes wildcard characters match literally. '!' is the escape
// character because a backslash inside a MySQL string literal is itself an
// escape.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string { return likeEscaper.Replace(s) }

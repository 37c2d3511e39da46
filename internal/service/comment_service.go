package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/metrics"
)

// CommentService manages replies under posts.
type CommentService struct {
	store  Store
	logger zerolog.Logger
	clock  clock
}

// NewCommentService creates a new comment service
func NewCommentService(store Store, logger zerolog.Logger) *CommentService {
	return &CommentService{
		store:  store,
		logger: logger.With().Str("component", "comments").Logger(),
	}
}

// Create adds a comment. Without an author the comment is anonymous.
func (s *CommentService) Create(ctx context.Context, postID uint64, content string, author *domain.User) (domain.Comment, error) {
	if postID == 0 {
		return domain.Comment{}, domain.Invalid("post id is required")
	}
	if isBlank(content) {
		return domain.Comment{}, domain.Invalid("comment content is required")
	}
	if _, err := s.store.PostByID(ctx, postID); err != nil {
		return domain.Comment{}, err
	}

	c := domain.Comment{
		PostID:     postID,
		AuthorName: domain.AnonymousName,
		Content:    strings.TrimSpace(content),
		CreatedAt:  s.clock.now(),
	}
	if author != nil {
		id := author.ID
		c.UserID = &id
		c.AuthorName = author.DisplayName()
	}
	if err := s.store.CreateComment(ctx, &c); err != nil {
		return domain.Comment{}, err
	}

	metrics.RecordCommentCreated()
	s.logger.Debug().Uint64("post_id", postID).Uint64("comment_id", c.ID).Msg("comment created")
	return c, nil
}

// ListByPost returns the post's comments oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint64) ([]domain.Comment, error) {
	return s.store.CommentsByPost(ctx, postID)
}

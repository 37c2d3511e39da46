package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/metrics"
)

// PostService manages board posts. Every post owns a group led by its author.
type PostService struct {
	store  Store
	groups *GroupService
	logger zerolog.Logger
	clock  clock
}

// NewPostService creates a new post service
func NewPostService(store Store, groups *GroupService, logger zerolog.Logger) *PostService {
	return &PostService{
		store:  store,
		groups: groups,
		logger: logger.With().Str("component", "posts").Logger(),
	}
}

// ListAll returns every post, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]domain.Post, error) {
	return s.store.ListPosts(ctx, domain.PostFilter{})
}

// ListByCategory returns one board. The "all" pseudo-category lists everything.
func (s *PostService) ListByCategory(ctx context.Context, category string) ([]domain.Post, error) {
	if category == domain.CategoryAll {
		return s.ListAll(ctx)
	}
	if err := domain.ValidateCategory(category); err != nil {
		return nil, err
	}
	return s.store.ListPosts(ctx, domain.PostFilter{Category: category})
}

// Recent returns the n newest posts for the home page.
func (s *PostService) Recent(ctx context.Context, n int) ([]domain.Post, error) {
	return s.store.ListPosts(ctx, domain.PostFilter{Limit: n})
}

// Search matches keyword against titles and contents.
func (s *PostService) Search(ctx context.Context, keyword string) ([]domain.Post, error) {
	return s.store.ListPosts(ctx, domain.PostFilter{Keyword: strings.TrimSpace(keyword)})
}

func (s *PostService) Get(ctx context.Context, id uint64) (domain.Post, error) {
	return s.store.PostByID(ctx, id)
}

// Create stores the post and opens its group in one transaction.
func (s *PostService) Create(ctx context.Context, author domain.User, in domain.PostInput) (domain.Post, error) {
	if err := domain.ValidateCategory(in.Category); err != nil {
		return domain.Post{}, err
	}
	if err := validatePostInput(in); err != nil {
		return domain.Post{}, err
	}

	authorID := author.ID
	p := domain.Post{
		Category:         in.Category,
		Title:            strings.TrimSpace(in.Title),
		Content:          in.Content,
		Location:         strings.TrimSpace(in.Location),
		MeetingStartTime: in.MeetingStartTime,
		MeetingEndTime:   in.MeetingEndTime,
		LimitCount:       in.LimitCount,
		AuthorName:       author.DisplayName(),
		UserID:           &authorID,
		CreatedAt:        s.clock.now(),
	}

	err := s.store.WithTx(ctx, func(tx Store) error {
		if err := tx.CreatePost(ctx, &p); err != nil {
			return err
		}
		_, err := s.groups.createForPost(ctx, tx, &p, authorID)
		return err
	})
	if err != nil {
		return domain.Post{}, err
	}

	metrics.RecordPostCreated(p.Category)
	s.logger.Info().Uint64("post_id", p.ID).Str("category", p.Category).Msg("post created")
	return p, nil
}

// Update edits a post on behalf of its author. A missing limit keeps the
// previous one. The group closes when the new limit is already reached.
func (s *PostService) Update(ctx context.Context, actorID, id uint64, in domain.PostInput) (domain.Post, error) {
	if err := validatePostInput(in); err != nil {
		return domain.Post{}, err
	}

	var p domain.Post
	err := s.store.WithTx(ctx, func(tx Store) error {
		var err error
		if p, err = tx.PostByID(ctx, id); err != nil {
			return err
		}
		if !p.IsAuthor(actorID) {
			return domain.Forbidden("only the author can edit this post")
		}

		p.Title = strings.TrimSpace(in.Title)
		p.Content = in.Content
		p.Location = strings.TrimSpace(in.Location)
		p.MeetingStartTime = in.MeetingStartTime
		p.MeetingEndTime = in.MeetingEndTime
		switch {
		case in.LimitCount != nil:
			p.LimitCount = in.LimitCount
		case p.LimitCount == nil:
			one := 1
			p.LimitCount = &one
		}

		g, err := tx.GroupByPost(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return tx.UpdatePost(ctx, &p)
		}
		if err != nil {
			return err
		}
		if p.Limit() < g.CurrentCount {
			return domain.Invalid("limit cannot be below the current member count (%d)", g.CurrentCount)
		}
		if err := tx.UpdatePost(ctx, &p); err != nil {
			return err
		}

		g.Post = &p
		if g.IsFull() && !g.IsClosed() {
			g.Status = domain.GroupClosed
			if err := tx.UpdateGroup(ctx, &g); err != nil {
				return err
			}
			metrics.RecordGroupClosed("full")
		}
		return nil
	})
	if err != nil {
		return domain.Post{}, err
	}
	return p, nil
}

// Delete removes a post with its group, memberships, requests and comments.
func (s *PostService) Delete(ctx context.Context, actorID, id uint64) error {
	err := s.store.WithTx(ctx, func(tx Store) error {
		p, err := tx.PostByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsAuthor(actorID) {
			return domain.Forbidden("only the author can delete this post")
		}
		return deletePostCascade(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Uint64("post_id", id).Msg("post deleted")
	return nil
}

func deletePostCascade(ctx context.Context, tx Store, postID uint64) error {
	g, err := tx.GroupByPost(ctx, postID)
	switch {
	case err == nil:
		if err := tx.DeleteRequestsOf(ctx, g.ID); err != nil {
			return err
		}
		if err := tx.DeleteMembersOf(ctx, g.ID); err != nil {
			return err
		}
		if err := tx.DeleteGroup(ctx, g.ID); err != nil {
			return err
		}
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}
	if err := tx.DeleteCommentsByPost(ctx, postID); err != nil {
		return err
	}
	return tx.DeletePost(ctx, postID)
}

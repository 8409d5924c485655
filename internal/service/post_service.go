package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// FeedPageSize is the number of posts on one page of the home feed.
const FeedPageSize = 5

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

type CreatePostInput struct {
	UserID    uint
	Title     string
	Content   string
	Published bool
}

type UpdatePostInput struct {
	Actor   Actor
	PostID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	Actor  Actor
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// HomeFeed returns one page of published posts, newest first. Pages
// are 1-based; a page past the end is empty, not an error.
func (s *PostService) HomeFeed(ctx context.Context, page int) ([]*models.Post, error) {
	return s.postRepo.ListPublished(ctx, page, FeedPageSize)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	ctx, span := observability.NewSpan(ctx, "post.create")
	defer span.End()

	err := validation.Validate(map[string]string{
		"title":   in.Title,
		"content": in.Content,
	}, validation.PostRules())
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		UserID:    in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		observability.RecordErrorInContext(ctx, err)
		return nil, err
	}

	observability.PostsTotal.WithLabelValues(visibilityLabel(in.Published)).Inc()
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns the post with its comment tree. Drafts are only
// served to their author; checks run existence first, then login,
// then ownership, so a missing post is a 404 even for strangers.
func (s *PostService) GetPost(ctx context.Context, postID uint, actor Actor) (*models.Post, []*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	if !post.Published {
		if !actor.Authenticated {
			return nil, nil, models.NewUnauthenticatedError("Login required")
		}
		if post.UserID != actor.ID {
			return nil, nil, models.NewForbiddenError("You can only view your own drafts")
		}
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !in.Actor.Authenticated {
		return nil, models.NewUnauthenticatedError("Login required")
	}
	if post.UserID != in.Actor.ID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	err = validation.Validate(map[string]string{
		"title":   in.Title,
		"content": in.Content,
	}, validation.PostRules())
	if err != nil {
		return nil, err
	}

	// Editing touches title and content only; the published flag keeps
	// whatever value the post already has.
	post.Title = in.Title
	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes the post and every comment on it.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if !in.Actor.Authenticated {
		return models.NewUnauthenticatedError("Login required")
	}
	if post.UserID != in.Actor.ID {
		return models.NewForbiddenError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

func visibilityLabel(published bool) string {
	if published {
		return "published"
	}
	return "draft"
}

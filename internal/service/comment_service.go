package service

import (
	"context"
	"strconv"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type AddCommentInput struct {
	Actor    Actor
	PostID   uint
	ParentID *uint
	Content  string
}

type DeleteCommentInput struct {
	Actor     Actor
	CommentID uint
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// AddComment attaches a comment to a post, optionally as a reply.
// Threading is one level deep: replying to a reply attaches to the
// original top-level comment, and a parent that no longer exists
// demotes the comment to top level rather than failing.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !in.Actor.Authenticated {
		return nil, models.NewUnauthenticatedError("Login required")
	}
	if !post.Published && post.UserID != in.Actor.ID {
		return nil, models.NewForbiddenError("You can only comment on your own drafts")
	}

	err = validation.Validate(map[string]string{
		"content": in.Content,
	}, validation.CommentRules())
	if err != nil {
		return nil, err
	}

	parentID := in.ParentID
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			if models.ErrorCode(err) == models.CodeNotFound {
				parentID = nil
			} else {
				return nil, err
			}
		} else {
			if parent.PostID != in.PostID {
				return nil, models.NewValidationError("Parent comment " + strconv.FormatUint(uint64(*parentID), 10) + " belongs to a different post")
			}
			if parent.ParentID != nil {
				parentID = parent.ParentID
			}
		}
	}

	comment := &models.Comment{
		Content:  in.Content,
		UserID:   in.Actor.ID,
		PostID:   in.PostID,
		ParentID: parentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.CommentsTotal.WithLabelValues(depthLabel(parentID)).Inc()
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes the comment and its replies.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if !in.Actor.Authenticated {
		return models.NewUnauthenticatedError("Login required")
	}
	if comment.UserID != in.Actor.ID {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	return s.commentRepo.DeleteTree(ctx, in.CommentID)
}

func depthLabel(parentID *uint) string {
	if parentID != nil {
		return "reply"
	}
	return "top_level"
}

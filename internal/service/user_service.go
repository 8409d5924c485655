package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// Uploader persists an uploaded picture and returns its stored name.
type Uploader interface {
	Save(data []byte, originalFilename string) (string, error)
}

type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	uploads  Uploader
}

type UpdateProfileInput struct {
	Actor    Actor
	Username string
	Email    string
	FullName string
	Bio      string
	Website  string
	Github   string
	Twitter  string

	// Picture is the raw upload, empty when the user kept their
	// current picture.
	Picture         []byte
	PictureFilename string
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository, uploads Uploader) *UserService {
	return &UserService{
		userRepo: userRepo,
		postRepo: postRepo,
		uploads:  uploads,
	}
}

// Profile returns a user's public page: the user and their posts.
// Drafts appear only when the owner is looking at their own profile.
func (s *UserService) Profile(ctx context.Context, username string, actor Actor) (*models.User, []*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, models.NewNotFoundError("User", username)
	}

	includeDrafts := actor.Authenticated && actor.ID == user.ID
	posts, err := s.postRepo.ListByUser(ctx, user.ID, includeDrafts)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

// UpdateProfile applies the account form in one shot: every check runs
// before anything is written, so a rejected picture or a taken
// username leaves the profile untouched.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if !in.Actor.Authenticated {
		return nil, models.NewUnauthenticatedError("Login required")
	}

	user, err := s.userRepo.GetByID(ctx, in.Actor.ID)
	if err != nil {
		return nil, err
	}

	err = validation.Validate(map[string]string{
		"username":  in.Username,
		"email":     in.Email,
		"full_name": in.FullName,
		"bio":       in.Bio,
		"website":   in.Website,
		"github":    in.Github,
		"twitter":   in.Twitter,
	}, validation.ProfileRules())
	if err != nil {
		return nil, err
	}

	if in.Username != user.Username {
		other, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, models.NewConflictError("Username already taken")
		}
	}
	if in.Email != user.Email {
		other, err := s.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, models.NewConflictError("Email already registered")
		}
	}

	// The picture is stored after the field checks but before the row
	// update; a rejected image aborts the whole edit.
	picture := user.ProfileImage
	if len(in.Picture) > 0 {
		name, err := s.uploads.Save(in.Picture, in.PictureFilename)
		if err != nil {
			observability.UploadsTotal.WithLabelValues("rejected").Inc()
			return nil, err
		}
		observability.UploadsTotal.WithLabelValues("accepted").Inc()
		picture = name
	}

	user.Username = in.Username
	user.Email = in.Email
	user.FullName = in.FullName
	user.Bio = in.Bio
	user.Website = in.Website
	user.Github = in.Github
	user.Twitter = in.Twitter
	user.ProfileImage = picture

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Account returns the authenticated user's own record.
func (s *UserService) Account(ctx context.Context, actor Actor) (*models.User, error) {
	if !actor.Authenticated {
		return nil, models.NewUnauthenticatedError("Login required")
	}
	return s.userRepo.GetByID(ctx, actor.ID)
}

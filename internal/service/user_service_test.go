package service

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileUserRepo() *userRepoStub {
	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "alice" {
			return &models.User{ID: 7, Username: "alice", Email: "alice@example.com"}, nil
		}
		return nil, nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{
			ID: id, Username: "alice", Email: "alice@example.com",
			ProfileImage: "current.png",
		}, nil
	}
	return repo
}

func TestUserService_Profile(t *testing.T) {
	t.Parallel()

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(profileUserRepo(), noopPostRepo(), &uploaderStub{})
		_, _, err := svc.Profile(context.Background(), "ghost", Actor{})
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("visitors never see drafts", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		var askedForDrafts bool
		postRepo.listByUserFn = func(_ context.Context, _ uint, includeDrafts bool) ([]*models.Post, error) {
			askedForDrafts = includeDrafts
			return nil, nil
		}
		svc := NewUserService(profileUserRepo(), postRepo, &uploaderStub{})

		_, _, err := svc.Profile(context.Background(), "alice", Actor{})
		require.NoError(t, err)
		assert.False(t, askedForDrafts)

		_, _, err = svc.Profile(context.Background(), "alice", Actor{ID: 8, Authenticated: true})
		require.NoError(t, err)
		assert.False(t, askedForDrafts)
	})

	t.Run("owner sees drafts", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		var askedForDrafts bool
		postRepo.listByUserFn = func(_ context.Context, _ uint, includeDrafts bool) ([]*models.Post, error) {
			askedForDrafts = includeDrafts
			return nil, nil
		}
		svc := NewUserService(profileUserRepo(), postRepo, &uploaderStub{})

		_, _, err := svc.Profile(context.Background(), "alice", Actor{ID: 7, Authenticated: true})
		require.NoError(t, err)
		assert.True(t, askedForDrafts)
	})
}

func validProfileInput(a Actor) UpdateProfileInput {
	return UpdateProfileInput{
		Actor:    a,
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Author",
		Bio:      "writes about Go",
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	owner := Actor{ID: 7, Authenticated: true}

	t.Run("anonymous rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(profileUserRepo(), noopPostRepo(), &uploaderStub{})
		_, err := svc.UpdateProfile(context.Background(), validProfileInput(Actor{}))
		assertCode(t, err, models.CodeUnauthenticated)
	})

	t.Run("success without picture keeps current image", func(t *testing.T) {
		t.Parallel()
		repo := profileUserRepo()
		var updated *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			updated = u
			return nil
		}
		svc := NewUserService(repo, noopPostRepo(), &uploaderStub{})

		user, err := svc.UpdateProfile(context.Background(), validProfileInput(owner))
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Alice Author", user.FullName)
		assert.Equal(t, "current.png", user.ProfileImage)
	})

	t.Run("picture stored and recorded", func(t *testing.T) {
		t.Parallel()
		repo := profileUserRepo()
		repo.updateFn = func(_ context.Context, _ *models.User) error { return nil }
		uploads := &uploaderStub{name: "deadbeef.png"}
		svc := NewUserService(repo, noopPostRepo(), uploads)

		in := validProfileInput(owner)
		in.Picture = []byte("fake-image-bytes")
		in.PictureFilename = "me.png"

		user, err := svc.UpdateProfile(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "deadbeef.png", user.ProfileImage)
		assert.Equal(t, []string{"me.png"}, uploads.saved)
	})

	t.Run("rejected picture aborts the whole edit", func(t *testing.T) {
		t.Parallel()
		repo := profileUserRepo()
		repo.updateFn = func(_ context.Context, _ *models.User) error {
			t.Fatal("update must not run when the upload fails")
			return nil
		}
		uploads := &uploaderStub{err: models.NewUnsupportedMediaTypeError("gif")}
		svc := NewUserService(repo, noopPostRepo(), uploads)

		in := validProfileInput(owner)
		in.Picture = []byte("gif-bytes")
		in.PictureFilename = "me.gif"

		_, err := svc.UpdateProfile(context.Background(), in)
		assertCode(t, err, models.CodeUnsupportedMediaType)
	})

	t.Run("taken username conflicts", func(t *testing.T) {
		t.Parallel()
		repo := profileUserRepo()
		repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			if username == "bob" {
				return &models.User{ID: 9, Username: "bob"}, nil
			}
			return nil, nil
		}
		repo.updateFn = func(_ context.Context, _ *models.User) error {
			t.Fatal("update must not run on conflict")
			return nil
		}
		svc := NewUserService(repo, noopPostRepo(), &uploaderStub{})

		in := validProfileInput(owner)
		in.Username = "bob"
		_, err := svc.UpdateProfile(context.Background(), in)
		assertCode(t, err, models.CodeConflict)
	})

	t.Run("keeping own username is not a conflict", func(t *testing.T) {
		t.Parallel()
		repo := profileUserRepo()
		repo.updateFn = func(_ context.Context, _ *models.User) error { return nil }
		svc := NewUserService(repo, noopPostRepo(), &uploaderStub{})

		_, err := svc.UpdateProfile(context.Background(), validProfileInput(owner))
		require.NoError(t, err)
	})

	t.Run("invalid fields rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(profileUserRepo(), noopPostRepo(), &uploaderStub{})

		in := validProfileInput(owner)
		in.Email = "not-an-email"
		_, err := svc.UpdateProfile(context.Background(), in)
		assertCode(t, err, models.CodeValidation)
	})
}

func TestUserService_Account(t *testing.T) {
	t.Parallel()

	svc := NewUserService(profileUserRepo(), noopPostRepo(), &uploaderStub{})

	user, err := svc.Account(context.Background(), Actor{ID: 7, Authenticated: true})
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)

	_, err = svc.Account(context.Background(), Actor{})
	assertCode(t, err, models.CodeUnauthenticated)
}

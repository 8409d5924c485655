package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validContent = "long enough content to pass the minimum length check"

func TestPostService_HomeFeed(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	var gotPage, gotSize int
	postRepo.listPublishedFn = func(_ context.Context, page, pageSize int) ([]*models.Post, error) {
		gotPage, gotSize = page, pageSize
		return []*models.Post{{ID: 1}}, nil
	}
	svc := NewPostService(postRepo, noopCommentRepo())

	posts, err := svc.HomeFeed(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 3, gotPage)
	assert.Equal(t, FeedPageSize, gotSize)
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 42
			return nil
		}
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Title: "Hello", Published: true, UserID: 1}, nil
		}
		svc := NewPostService(postRepo, noopCommentRepo())

		post, err := svc.CreatePost(context.Background(), CreatePostInput{
			UserID: 1, Title: "Hello", Content: validContent, Published: true,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(42), post.ID)
	})

	t.Run("title bounds", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopCommentRepo())

		_, err := svc.CreatePost(context.Background(), CreatePostInput{
			UserID: 1, Title: "ab", Content: validContent,
		})
		assertCode(t, err, models.CodeValidation)

		_, err = svc.CreatePost(context.Background(), CreatePostInput{
			UserID: 1, Title: strings.Repeat("t", 201), Content: validContent,
		})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("content too short", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopCommentRepo())
		_, err := svc.CreatePost(context.Background(), CreatePostInput{
			UserID: 1, Title: "A fine title", Content: "too short",
		})
		assertCode(t, err, models.CodeValidation)
	})
}

func TestPostService_GetPost_DraftVisibility(t *testing.T) {
	t.Parallel()

	draftRepo := func() *postRepoStub {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Published: false, UserID: 7}, nil
		}
		return repo
	}

	t.Run("owner sees own draft", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(draftRepo(), noopCommentRepo())
		post, _, err := svc.GetPost(context.Background(), 1, Actor{ID: 7, Authenticated: true})
		require.NoError(t, err)
		assert.False(t, post.Published)
	})

	t.Run("anonymous gets unauthenticated", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(draftRepo(), noopCommentRepo())
		_, _, err := svc.GetPost(context.Background(), 1, Actor{})
		assertCode(t, err, models.CodeUnauthenticated)
	})

	t.Run("other user gets forbidden", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(draftRepo(), noopCommentRepo())
		_, _, err := svc.GetPost(context.Background(), 1, Actor{ID: 8, Authenticated: true})
		assertCode(t, err, models.CodeForbidden)
	})

	t.Run("published post visible to all", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopCommentRepo())
		_, _, err := svc.GetPost(context.Background(), 1, Actor{})
		require.NoError(t, err)
	})
}

func TestPostService_UpdatePost_CheckOrdering(t *testing.T) {
	t.Parallel()

	in := func(a Actor) UpdatePostInput {
		return UpdatePostInput{Actor: a, PostID: 1, Title: "New title", Content: validContent}
	}

	t.Run("missing post reported before missing login", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewPostService(postRepo, noopCommentRepo())

		_, err := svc.UpdatePost(context.Background(), in(Actor{}))
		assertCode(t, err, models.CodeNotFound)
	})

	t.Run("missing login reported before wrong owner", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 7, Published: true}, nil
		}
		svc := NewPostService(postRepo, noopCommentRepo())

		_, err := svc.UpdatePost(context.Background(), in(Actor{}))
		assertCode(t, err, models.CodeUnauthenticated)
	})

	t.Run("wrong owner forbidden", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 7, Published: true}, nil
		}
		svc := NewPostService(postRepo, noopCommentRepo())

		_, err := svc.UpdatePost(context.Background(), in(Actor{ID: 8, Authenticated: true}))
		assertCode(t, err, models.CodeForbidden)
	})

	t.Run("owner updates title and content, published untouched", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		var saved *models.Post
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			if saved != nil {
				return saved, nil
			}
			return &models.Post{ID: id, UserID: 7, Published: true}, nil
		}
		postRepo.updateFn = func(_ context.Context, p *models.Post) error {
			saved = p
			return nil
		}
		svc := NewPostService(postRepo, noopCommentRepo())

		post, err := svc.UpdatePost(context.Background(), in(Actor{ID: 7, Authenticated: true}))
		require.NoError(t, err)
		assert.Equal(t, "New title", post.Title)
		assert.True(t, post.Published, "editing must not change the published flag")
	})

	t.Run("editing a draft keeps it a draft", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		var saved *models.Post
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			if saved != nil {
				return saved, nil
			}
			return &models.Post{ID: id, UserID: 7, Published: false}, nil
		}
		postRepo.updateFn = func(_ context.Context, p *models.Post) error {
			saved = p
			return nil
		}
		svc := NewPostService(postRepo, noopCommentRepo())

		post, err := svc.UpdatePost(context.Background(), in(Actor{ID: 7, Authenticated: true}))
		require.NoError(t, err)
		assert.False(t, post.Published)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	t.Run("owner deletes", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 7, Published: true}, nil
		}
		deleted := false
		postRepo.deleteFn = func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		}
		svc := NewPostService(postRepo, noopCommentRepo())

		err := svc.DeletePost(context.Background(), DeletePostInput{
			Actor: Actor{ID: 7, Authenticated: true}, PostID: 1,
		})
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("non-owner forbidden and nothing deleted", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 7, Published: true}, nil
		}
		postRepo.deleteFn = func(_ context.Context, _ uint) error {
			t.Fatal("delete must not be called")
			return nil
		}
		svc := NewPostService(postRepo, noopCommentRepo())

		err := svc.DeletePost(context.Background(), DeletePostInput{
			Actor: Actor{ID: 8, Authenticated: true}, PostID: 1,
		})
		assertCode(t, err, models.CodeForbidden)
	})
}

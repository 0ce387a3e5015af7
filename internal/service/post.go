package service

import (
	"context"
	"errors"
	"fmt"

	"blogd/internal/models"
	"blogd/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("not the post owner")
)

type PostService interface {
	Create(ctx context.Context, author *models.User, title, content, photo string) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, user *models.User, id, title, content, photo string) (*models.Post, error)
}

type postService struct {
	posts  repository.PostRepository
	logger *zap.Logger
}

func NewPostService(posts repository.PostRepository, logger *zap.Logger) PostService {
	return &postService{posts: posts, logger: logger}
}

func (s *postService) Create(ctx context.Context, author *models.User, title, content, photo string) (*models.Post, error) {
	post := &models.Post{
		ID:      uuid.New().String(),
		Title:   title,
		Content: content,
		Photo:   photo,
		UserID:  author.ID,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("Failed to create post", zap.Error(err))
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

func (s *postService) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("Failed to get post", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve post: %w", err)
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	posts, err := s.posts.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list posts", zap.Error(err))
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Update applies the ownership rule: the post must exist, and only its
// owner may mutate it. The check runs after the fetch and before the write.
func (s *postService) Update(ctx context.Context, user *models.User, id, title, content, photo string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("Failed to get post", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve post: %w", err)
	}

	if err := authorizeMutation(user, post); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content
	post.Photo = photo

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("Failed to update post", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

// authorizeMutation permits a mutation only for the identity that owns the
// post. There is intentionally no admin or role bypass.
func authorizeMutation(user *models.User, post *models.Post) error {
	if post.UserID != user.ID {
		return ErrNotPostOwner
	}
	return nil
}

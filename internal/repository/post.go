package repository

import (
	"context"
	"database/sql"
	"errors"

	"blogd/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	// Update rewrites the mutable fields and bumps updated_at; created_at
	// and user_id are never touched.
	Update(ctx context.Context, post *models.Post) error
}

type postRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPostRepository(db *sqlx.DB, logger *zap.Logger) PostRepository {
	return &postRepository{db: db, logger: logger}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (id, title, content, photo, user_id)
	          VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	return r.db.QueryRowxContext(ctx, query, post.ID, post.Title, post.Content, post.Photo,
		post.UserID).Scan(&post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	query := `SELECT id, title, content, photo, user_id, created_at, updated_at FROM posts WHERE id = $1`
	err := r.db.GetContext(ctx, &post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	posts := []*models.Post{}
	query := `SELECT id, title, content, photo, user_id, created_at, updated_at
	          FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &posts, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET title = $1, content = $2, photo = $3, updated_at = now()
	          WHERE id = $4 RETURNING created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, query, post.Title, post.Content, post.Photo,
		post.ID).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

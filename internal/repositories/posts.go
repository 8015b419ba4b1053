package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shahwaizSattar/mern-blog/internal/models"
	"gorm.io/gorm"
)

// PostUpdate carries partial post changes. Nil fields are left untouched; a
// non-nil empty Image clears the column.
type PostUpdate struct {
	Title   *string
	Content *string
	Image   *string
}

type PostRepository interface {
	Create(ctx context.Context, authorID uuid.UUID, title, content string, image *string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Update(ctx context.Context, id, callerID uuid.UUID, upd PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id, callerID uuid.UUID) error
	DeleteAllByAuthor(ctx context.Context, authorID uuid.UUID) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, authorID uuid.UUID, title, content string, image *string) (*models.Post, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	post := models.Post{
		Title:    title,
		Content:  content,
		Image:    image,
		AuthorID: authorID,
	}
	if err := r.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return r.GetByID(ctx, post.ID)
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("Author").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post by id: %w", err)
	}
	return &post, nil
}

// Update looks the post up by id and author in a single query, so a non-owner
// gets the same ErrNotFound as a missing post.
func (r *postRepository) Update(ctx context.Context, id, callerID uuid.UUID, upd PostUpdate) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, callerID).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post for update: %w", err)
	}

	updates := map[string]any{}
	if upd.Title != nil {
		if *upd.Title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		updates["title"] = *upd.Title
	}
	if upd.Content != nil {
		if *upd.Content == "" {
			return nil, fmt.Errorf("%w: content is required", ErrValidation)
		}
		updates["content"] = *upd.Content
	}
	if upd.Image != nil {
		if *upd.Image == "" {
			updates["image"] = nil
		} else {
			updates["image"] = *upd.Image
		}
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&post).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update post: %w", err)
		}
	}

	return r.GetByID(ctx, id)
}

// Delete uses the same owner-scoped lookup semantics as Update.
func (r *postRepository) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, callerID).
		Delete(&models.Post{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllByAuthor is the cascade step of user deletion. No ownership check:
// the user-deletion path has already authorized the caller.
func (r *postRepository) DeleteAllByAuthor(ctx context.Context, authorID uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&models.Post{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete posts by author: %w", err)
	}
	return nil
}

package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// CreateBlogInput carries a new post. Image is a data-URI style payload.
type CreateBlogInput struct {
	Title          string
	Description    string
	Image          string
	IdempotencyKey string
}

// UpdateBlogInput carries a partial update; nil fields are left untouched.
type UpdateBlogInput struct {
	Title       *string
	Description *string
}

// ListBlogsInput carries the paging parameters of a listing.
type ListBlogsInput struct {
	Page  int
	Limit int
}

// ListBlogsResult is one page of blogs.
type ListBlogsResult struct {
	Items      []*domain.Blog
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// BlogService orchestrates blog CRUD with ownership enforcement.
type BlogService interface {
	List(ctx context.Context, in ListBlogsInput) (*ListBlogsResult, error)
	ListMine(ctx context.Context, user *domain.User, in ListBlogsInput) (*ListBlogsResult, error)
	// Create reports created=false when an idempotency key replays an earlier blog.
	Create(ctx context.Context, user *domain.User, in CreateBlogInput) (blog *domain.Blog, created bool, err error)
	Get(ctx context.Context, id int64) (*domain.Blog, error)
	Update(ctx context.Context, id int64, user *domain.User, in UpdateBlogInput) (*domain.Blog, error)
	Delete(ctx context.Context, id int64, user *domain.User) error
}

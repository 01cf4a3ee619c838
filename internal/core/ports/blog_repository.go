package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// ListBlogsFilter narrows and pages a blog listing.
type ListBlogsFilter struct {
	OwnerID int64 // 0 = every owner
	Page    int   // 1-based
	Limit   int
}

// BlogRepository is the blog half of the credential store.
type BlogRepository interface {
	// FindByID returns domain.ErrBlogNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*domain.Blog, error)
	Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id int64) error
	// List returns a page of blogs, newest first, and the total match count.
	List(ctx context.Context, filter ListBlogsFilter) ([]*domain.Blog, int64, error)
}

package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
	idempotencyTTL   = time.Hour
)

// BlogService implements blog CRUD. Reads are open to everyone; mutations
// are restricted to the owning user.
type BlogService struct {
	blogs    ports.BlogRepository
	uploader ports.Uploader
	idem     ports.IdempotencyStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewBlogService wires the blog flows. idem may be nil, in which case
// idempotency keys are ignored.
func NewBlogService(blogs ports.BlogRepository, uploader ports.Uploader, idem ports.IdempotencyStore, logger zerolog.Logger) *BlogService {
	return &BlogService{
		blogs:    blogs,
		uploader: uploader,
		idem:     idem,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *BlogService) List(ctx context.Context, in ports.ListBlogsInput) (*ports.ListBlogsResult, error) {
	return s.list(ctx, 0, in)
}

func (s *BlogService) ListMine(ctx context.Context, user *domain.User, in ports.ListBlogsInput) (*ports.ListBlogsResult, error) {
	return s.list(ctx, user.ID, in)
}

func (s *BlogService) list(ctx context.Context, ownerID int64, in ports.ListBlogsInput) (*ports.ListBlogsResult, error) {
	page, limit := normalizePage(in.Page, in.Limit)

	items, total, err := s.blogs.List(ctx, ports.ListBlogsFilter{OwnerID: ownerID, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListBlogsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// Create stores the image through the uploader and persists a blog owned by
// user. A repeated idempotency key from the same owner returns the blog the
// first request created, with created set to false.
func (s *BlogService) Create(ctx context.Context, user *domain.User, in ports.CreateBlogInput) (*domain.Blog, bool, error) {
	if existing := s.replay(ctx, user.ID, in.IdempotencyKey); existing != nil {
		return existing, false, nil
	}

	image, err := s.uploader.Store(ctx, in.Image)
	if err != nil {
		return nil, false, err
	}

	blog, err := s.blogs.Create(ctx, &domain.Blog{
		Title:       in.Title,
		Description: in.Description,
		Image:       image,
		OwnerID:     user.ID,
		CreatedAt:   s.now(),
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("owner_id", user.ID).Msg("failed to create blog")
		return nil, false, err
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, user.ID, in.IdempotencyKey, blog.ID, idempotencyTTL); err != nil {
			s.logger.Warn().Err(err).Int64("blog_id", blog.ID).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Int64("blog_id", blog.ID).Int64("owner_id", user.ID).Msg("blog created")
	return blog, true, nil
}

// replay returns the blog previously created under key, or nil.
func (s *BlogService) replay(ctx context.Context, ownerID int64, key string) *domain.Blog {
	if key == "" || s.idem == nil {
		return nil
	}

	id, ok, err := s.idem.Lookup(ctx, ownerID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !ok {
		return nil
	}

	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Int64("blog_id", id).Msg("idempotent replay")
	return blog
}

func (s *BlogService) Get(ctx context.Context, id int64) (*domain.Blog, error) {
	return s.blogs.FindByID(ctx, id)
}

// Update applies only the provided fields.
func (s *BlogService) Update(ctx context.Context, id int64, user *domain.User, in ports.UpdateBlogInput) (*domain.Blog, error) {
	blog, err := s.owned(ctx, id, user)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		blog.Title = *in.Title
	}
	if in.Description != nil {
		blog.Description = *in.Description
	}
	now := s.now()
	blog.UpdatedAt = &now

	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *BlogService) Delete(ctx context.Context, id int64, user *domain.User) error {
	if _, err := s.owned(ctx, id, user); err != nil {
		return err
	}
	if err := s.blogs.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("blog_id", id).Int64("owner_id", user.ID).Msg("blog deleted")
	return nil
}

// owned loads the blog and checks that user may mutate it.
func (s *BlogService) owned(ctx context.Context, id int64, user *domain.User) (*domain.Blog, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !blog.IsOwner(user) {
		s.logger.Warn().Int64("blog_id", id).Int64("user_id", user.ID).Msg("ownership check failed")
		return nil, domain.ErrForbidden
	}
	return blog, nil
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

const collectionBlogs = "blogs"

// BlogRepository implements ports.BlogRepository on MongoDB.
type BlogRepository struct {
	col *mongo.Collection
	ids *sequence
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{col: db.Collection(collectionBlogs), ids: newSequence(db, collectionBlogs)}
}

type mongoBlog struct {
	ID          int64      `bson:"_id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Image       string     `bson:"image"`
	OwnerID     int64      `bson:"owner_id"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty"`
}

func toMongoBlog(b *domain.Blog) mongoBlog {
	return mongoBlog{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Image:       b.Image,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (mb mongoBlog) toDomain() *domain.Blog {
	b := &domain.Blog{
		ID:          mb.ID,
		Title:       mb.Title,
		Description: mb.Description,
		Image:       mb.Image,
		OwnerID:     mb.OwnerID,
		CreatedAt:   mb.CreatedAt.UTC(),
	}
	if mb.UpdatedAt != nil {
		t := mb.UpdatedAt.UTC()
		b.UpdatedAt = &t
	}
	return b
}

func (r *BlogRepository) Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	created := *blog
	created.ID = id
	if _, err := r.col.InsertOne(ctx, toMongoBlog(&created)); err != nil {
		return nil, fmt.Errorf("insert blog: %w", err)
	}
	return &created, nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id int64) (*domain.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mb mongoBlog
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *BlogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": blog.ID}, toMongoBlog(blog))
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBlogNotFound
	}
	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBlogNotFound
	}
	return nil
}

// List returns the requested page, newest first.
func (r *BlogRepository) List(ctx context.Context, f ports.ListBlogsFilter) ([]*domain.Blog, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.OwnerID != 0 {
		filter["owner_id"] = f.OwnerID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	skip, ok := pageSkip(f.Page, f.Limit)
	if !ok || skip >= total {
		return []*domain.Blog{}, total, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoBlog
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode blogs: %w", err)
	}

	blogs := make([]*domain.Blog, len(docs))
	for i, d := range docs {
		blogs[i] = d.toDomain()
	}
	return blogs, total, nil
}

// pageSkip returns the offset of a 1-based page, or false when it does not
// fit in an int64.
func pageSkip(page, limit int) (int64, bool) {
	if page <= 1 || limit <= 0 {
		return 0, true
	}
	p := int64(page - 1)
	if p > math.MaxInt64/int64(limit) {
		return 0, false
	}
	return p * int64(limit), true
}

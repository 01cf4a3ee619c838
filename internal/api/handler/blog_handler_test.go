package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

type stubBlogService struct {
	listFn     func(ctx context.Context, in ports.ListBlogsInput) (*ports.ListBlogsResult, error)
	listMineFn func(ctx context.Context, user *domain.User, in ports.ListBlogsInput) (*ports.ListBlogsResult, error)
	createFn   func(ctx context.Context, user *domain.User, in ports.CreateBlogInput) (*domain.Blog, bool, error)
	getFn      func(ctx context.Context, id int64) (*domain.Blog, error)
	updateFn   func(ctx context.Context, id int64, user *domain.User, in ports.UpdateBlogInput) (*domain.Blog, error)
	deleteFn   func(ctx context.Context, id int64, user *domain.User) error
}

func (s *stubBlogService) List(ctx context.Context, in ports.ListBlogsInput) (*ports.ListBlogsResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubBlogService) ListMine(ctx context.Context, user *domain.User, in ports.ListBlogsInput) (*ports.ListBlogsResult, error) {
	return s.listMineFn(ctx, user, in)
}

func (s *stubBlogService) Create(ctx context.Context, user *domain.User, in ports.CreateBlogInput) (*domain.Blog, bool, error) {
	return s.createFn(ctx, user, in)
}

func (s *stubBlogService) Get(ctx context.Context, id int64) (*domain.Blog, error) {
	return s.getFn(ctx, id)
}

func (s *stubBlogService) Update(ctx context.Context, id int64, user *domain.User, in ports.UpdateBlogInput) (*domain.Blog, error) {
	return s.updateFn(ctx, id, user, in)
}

func (s *stubBlogService) Delete(ctx context.Context, id int64, user *domain.User) error {
	return s.deleteFn(ctx, id, user)
}

var testOwner = &domain.User{ID: 1, Username: "user01"}

func sampleBlog() *domain.Blog {
	return &domain.Blog{
		ID:          10,
		Title:       "Hello",
		Description: "First post",
		Image:       "/media/a.png",
		OwnerID:     testOwner.ID,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestBlogHandler_Create(t *testing.T) {
	e := newTestEcho()
	h := NewBlogHandler(&stubBlogService{
		createFn: func(ctx context.Context, user *domain.User, in ports.CreateBlogInput) (*domain.Blog, bool, error) {
			if user != testOwner {
				t.Fatalf("expected context user")
			}
			if in.Title != "Hello" || in.Image != "data:image/png;base64,AAAA" || in.IdempotencyKey != "retry-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return sampleBlog(), true, nil
		},
	})

	req := jsonRequest(http.MethodPost, "/blogs", `{"title":"Hello","description":"First post","image":"data:image/png;base64,AAAA"}`)
	req.Header.Set(HeaderIdempotencyKey, "retry-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(UserContextKey, testOwner)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["id"] != float64(10) || resp["image"] != "/media/a.png" || resp["owner_id"] != float64(1) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["updated_at"] != nil {
		t.Fatalf("expected null updated_at, got %v", resp["updated_at"])
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestBlogHandler_Create_ReplayNotCounted(t *testing.T) {
	e := newTestEcho()
	created := true
	h := NewBlogHandler(&stubBlogService{
		createFn: func(ctx context.Context, user *domain.User, in ports.CreateBlogInput) (*domain.Blog, bool, error) {
			return sampleBlog(), created, nil
		},
	})

	post := func() {
		req := jsonRequest(http.MethodPost, "/blogs", `{"title":"Hello","description":"First post","image":"data:image/png;base64,AAAA"}`)
		req.Header.Set(HeaderIdempotencyKey, "retry-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(UserContextKey, testOwner)
		if err := h.Create(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
	}

	before := counterValue(t, metrics.BlogsCreatedTotal)
	post()
	created = false
	post()
	post()

	if got := counterValue(t, metrics.BlogsCreatedTotal) - before; got != 1 {
		t.Fatalf("expected one counted creation, got %v", got)
	}
}

func TestBlogHandler_Create_Validation(t *testing.T) {
	e := newTestEcho()
	h := NewBlogHandler(&stubBlogService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/blogs", `{"title":"Hello"}`), httptest.NewRecorder())
	c.Set(UserContextKey, testOwner)

	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBlogHandler_Get(t *testing.T) {
	e := newTestEcho()
	h := NewBlogHandler(&stubBlogService{
		getFn: func(ctx context.Context, id int64) (*domain.Blog, error) {
			if id != 10 {
				return nil, domain.ErrBlogNotFound
			}
			return sampleBlog(), nil
		},
	})

	rec := httptest.NewRecorder()
	c := withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/blogs/10", nil), rec), "10")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeBody(t, rec); resp["title"] != "Hello" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	c = withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/blogs/11", nil), httptest.NewRecorder()), "11")
	if err := h.Get(c); !errors.Is(err, domain.ErrBlogNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	c = withID(e.NewContext(httptest.NewRequest(http.MethodGet, "/blogs/abc", nil), httptest.NewRecorder()), "abc")
	var he *echo.HTTPError
	if err := h.Get(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestBlogHandler_Update_Partial(t *testing.T) {
	e := newTestEcho()
	h := NewBlogHandler(&stubBlogService{
		updateFn: func(ctx context.Context, id int64, user *domain.User, in ports.UpdateBlogInput) (*domain.Blog, error) {
			if in.Title == nil || *in.Title != "Renamed" {
				t.Fatalf("expected title update, got %+v", in.Title)
			}
			if in.Description != nil {
				t.Fatalf("expected description untouched")
			}
			b := sampleBlog()
			b.Title = *in.Title
			return b, nil
		},
	})

	rec := httptest.NewRecorder()
	c := withID(e.NewContext(jsonRequest(http.MethodPatch, "/blogs/10", `{"title":"Renamed"}`), rec), "10")
	c.Set(UserContextKey, testOwner)

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if resp := decodeBody(t, rec); resp["title"] != "Renamed" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestBlogHandler_Update_Forbidden(t *testing.T) {
	e := newTestEcho()
	h := NewBlogHandler(&stubBlogService{
		updateFn: func(ctx context.Context, id int64, user *domain.User, in ports.UpdateBlogInput) (*domain.Blog, error) {
			return nil, domain.ErrForbidden
		},
	})

	c := withID(e.NewContext(jsonRequest(http.MethodPatch, "/blogs/10", `{"title":"Mine now"}`), httptest.NewRecorder()), "10")
	c.Set(UserContextKey, &domain.User{ID: 2})

	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestBlogHandler_Delete(t *testing.T) {
	e := newTestEcho()
	deleted := int64(0)
	h := NewBlogHandler(&stubBlogService{
		deleteFn: func(ctx context.Context, id int64, user *domain.User) error {
			deleted = id
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := withID(e.NewContext(httptest.NewRequest(http.MethodDelete, "/blogs/10", nil), rec), "10")
	c.Set(UserContextKey, testOwner)

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != 10 {
		t.Fatalf("expected 204 for blog 10, got %d (%d)", rec.Code, deleted)
	}
}

func TestBlogHandler_List(t *testing.T) {
	e := newTestEcho()
	h := NewBlogHandler(&stubBlogService{
		listFn: func(ctx context.Context, in ports.ListBlogsInput) (*ports.ListBlogsResult, error) {
			if in.Page != 2 || in.Limit != 5 {
				t.Fatalf("unexpected paging: %+v", in)
			}
			return &ports.ListBlogsResult{Items: []*domain.Blog{sampleBlog()}, Total: 6, Page: 2, Limit: 5, TotalPages: 2}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/blogs?page=2&limit=5", nil), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeBody(t, rec)
	data, ok := resp["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected one item, got %+v", resp["data"])
	}
	pg, _ := resp["pagination"].(map[string]any)
	if pg["total"] != float64(6) || pg["total_pages"] != float64(2) {
		t.Fatalf("unexpected pagination: %+v", pg)
	}
}

func TestBlogHandler_List_BadQuery(t *testing.T) {
	e := newTestEcho()
	h := NewBlogHandler(&stubBlogService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/blogs?page=x", nil), httptest.NewRecorder())
	var he *echo.HTTPError
	if err := h.List(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestBlogHandler_ListMine(t *testing.T) {
	e := newTestEcho()
	h := NewBlogHandler(&stubBlogService{
		listMineFn: func(ctx context.Context, user *domain.User, in ports.ListBlogsInput) (*ports.ListBlogsResult, error) {
			if user != testOwner {
				t.Fatalf("expected context user")
			}
			return &ports.ListBlogsResult{Page: 1, Limit: 50}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/blogs/my-blogs", nil), rec)
	c.Set(UserContextKey, testOwner)

	if err := h.ListMine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeBody(t, rec)
	if data, ok := resp["data"].([]any); !ok || len(data) != 0 {
		t.Fatalf("expected empty data array, got %+v", resp["data"])
	}
}

package handler

import (
	"time"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

type createBlogRequest struct {
	Title       string `json:"title"       validate:"required,max=150"`
	Description string `json:"description" validate:"required,max=500"`
	// Image is a base64 payload such as "data:image/png;base64,iVBOR...".
	Image string `json:"image" validate:"required"`
}

type updateBlogRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=150"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type blogResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listBlogsResponse struct {
	Data       []blogResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func toBlogResponse(b *domain.Blog) blogResponse {
	return blogResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Image:       b.Image,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toListBlogsResponse(res *ports.ListBlogsResult) listBlogsResponse {
	data := make([]blogResponse, 0, len(res.Items))
	for _, b := range res.Items {
		data = append(data, toBlogResponse(b))
	}
	return listBlogsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      res.Total,
			Page:       res.Page,
			Limit:      res.Limit,
			TotalPages: res.TotalPages,
		},
	}
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry POST /blogs without creating duplicates.
const HeaderIdempotencyKey = "Idempotency-Key"

// BlogHandler handles HTTP requests for blog posts.
type BlogHandler struct {
	service ports.BlogService
}

func NewBlogHandler(service ports.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// List handles GET /blogs.
//
// @Summary      List blog posts
// @Tags         blogs
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 50, max 100)"
// @Success      200    {object}  listBlogsResponse
// @Router       /blogs [get]
func (h *BlogHandler) List(c echo.Context) error {
	in, err := listInput(c)
	if err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListBlogsResponse(res))
}

// ListMine handles GET /blogs/my-blogs.
//
// @Summary      List the caller's blog posts
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 50, max 100)"
// @Success      200    {object}  listBlogsResponse
// @Failure      401    {object}  errorResponse
// @Router       /blogs/my-blogs [get]
func (h *BlogHandler) ListMine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	in, err := listInput(c)
	if err != nil {
		return err
	}

	res, err := h.service.ListMine(c.Request().Context(), user, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListBlogsResponse(res))
}

func listInput(c echo.Context) (ports.ListBlogsInput, error) {
	var in ports.ListBlogsInput
	err := echo.QueryParamsBinder(c).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError()
	if err != nil {
		return in, echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}
	return in, nil
}

// Create handles POST /blogs.
//
// @Summary      Create a blog post
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Client supplied retry key"
// @Param        body             body      createBlogRequest  true   "Blog post"
// @Success      201              {object}  blogResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /blogs [post]
func (h *BlogHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createBlogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	blog, created, err := h.service.Create(c.Request().Context(), user, ports.CreateBlogInput{
		Title:          req.Title,
		Description:    req.Description,
		Image:          req.Image,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if created {
		metrics.BlogsCreatedTotal.Inc()
	}
	return c.JSON(http.StatusCreated, toBlogResponse(blog))
}

// Get handles GET /blogs/:id.
//
// @Summary      Get a blog post
// @Tags         blogs
// @Produce      json
// @Param        id   path      int  true  "Blog ID"
// @Success      200  {object}  blogResponse
// @Failure      404  {object}  errorResponse
// @Router       /blogs/{id} [get]
func (h *BlogHandler) Get(c echo.Context) error {
	id, err := blogID(c)
	if err != nil {
		return err
	}

	blog, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBlogResponse(blog))
}

// Update handles PATCH /blogs/:id. Absent fields are left unchanged.
//
// @Summary      Update a blog post
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Blog ID"
// @Param        body  body      updateBlogRequest  true  "Fields to change"
// @Success      200   {object}  blogResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /blogs/{id} [patch]
func (h *BlogHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := blogID(c)
	if err != nil {
		return err
	}

	var req updateBlogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	blog, err := h.service.Update(c.Request().Context(), id, user, ports.UpdateBlogInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBlogResponse(blog))
}

// Delete handles DELETE /blogs/:id.
//
// @Summary      Delete a blog post
// @Tags         blogs
// @Security     BearerAuth
// @Param        id   path  int  true  "Blog ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /blogs/{id} [delete]
func (h *BlogHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := blogID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, user); err != nil {
		return err
	}

	metrics.BlogsDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

func blogID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid blog id")
	}
	return id, nil
}

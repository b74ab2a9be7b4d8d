package resumes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the resume endpoints. The detail routes are also
// mounted under /resumes/google/ where the frontend triggers AI reviews.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resumes/", h.list)
	rg.POST("/resumes/", h.create)
	for _, path := range []string{"/resumes/:id/", "/resumes/google/:id/"} {
		rg.GET(path, h.retrieve)
		rg.PUT(path, h.update)
		rg.PATCH(path, h.patch)
		rg.DELETE(path, h.delete)
	}
}

// IsReviewRequest reports whether a request will trigger an AI review.
func IsReviewRequest(c *gin.Context) bool {
	return c.Request.Method == http.MethodGet && c.Query("analyze") == "true"
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	q := ListQuery{Page: 1, PageSize: DefaultPageSize}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st := Status(raw)
		if !st.Valid() {
			respond.Validation(c, respond.FieldErrors{
				"status": fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw),
			})
			return
		}
		q.Status = st
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(c, http.StatusNotFound, "not_found", ErrInvalidPage.Error(), nil)
			return
		}
		q.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			q.PageSize = size
		}
	}

	res, err := h.Svc.List(c.Request.Context(), userID, q)
	if err != nil {
		if errors.Is(err, ErrInvalidPage) {
			respond.Error(c, http.StatusNotFound, "not_found", ErrInvalidPage.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}

	page := Page{Count: res.Count, Results: res.Items}
	if res.HasNext {
		page.Next = pageURL(c, res.Page+1)
	}
	if res.Page > 1 {
		page.Previous = pageURL(c, res.Page-1)
	}
	respond.OK(c, page)
}

func (h *Handler) create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}
	res, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err, "failed to create resume")
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)
	respond.JSON(c, http.StatusCreated, res.Record())
}

func (h *Handler) retrieve(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	analyze := IsReviewRequest(c)
	resp, outcome, err := h.Svc.Preview(c.Request.Context(), middleware.UserIDFromContext(c), id, analyze)
	if err != nil {
		writeError(c, err, "failed to load resume")
		return
	}
	if outcome != ReviewSkipped {
		c.Set(middleware.AIReviewKey, string(outcome))
	}
	respond.OK(c, resp)
}

func (h *Handler) update(c *gin.Context) {
	h.write(c, false)
}

func (h *Handler) patch(c *gin.Context) {
	h.write(c, true)
}

func (h *Handler) write(c *gin.Context, partial bool) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	in, ok := bindInput(c)
	if !ok {
		return
	}
	res, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, in, partial)
	if err != nil {
		writeError(c, err, "failed to update resume")
		return
	}
	respond.OK(c, res.Record())
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		writeError(c, err, "failed to delete resume")
		return
	}
	respond.NoContent(c)
}

func resumeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.NotFound(c, "resume")
		return 0, false
	}
	c.Set(middleware.ResumeIDKey, id)
	return id, true
}

func bindInput(c *gin.Context) (Input, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "could not read body", nil)
		return Input{}, false
	}
	in, err := DecodeInput(body)
	if err != nil {
		writeError(c, err, "invalid body")
		return Input{}, false
	}
	return in, true
}

func writeError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Validation(c, respond.FieldErrors(verr.Fields))
	case errors.Is(err, ErrNotFound):
		respond.NotFound(c, "resume")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func pageURL(c *gin.Context, page int) *string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil {
		u.Scheme = "https"
	} else if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	q := c.Request.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

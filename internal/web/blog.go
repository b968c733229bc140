package web

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"kasirinaja/frontend/internal/apiclient"
	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/form"
)

const (
	blogPageSize     = 6
	maxThumbnailSize = 5 << 20
)

type blogForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Category    string `form:"category" validate:"required,max=60"`
	Description string `form:"description" validate:"required,max=500"`
	Content     string `form:"content" validate:"required"`
}

type blogListView struct {
	Blogs      []domain.Blog
	Search     string
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

func blogPageURL(page int, search string) string {
	values := url.Values{}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if search != "" {
		values.Set("search", search)
	}
	if len(values) == 0 {
		return "/"
	}
	return "/?" + values.Encode()
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	search := strings.TrimSpace(query.Get("search"))

	result, err := s.data.Blogs(r.Context(), domain.BlogQuery{Page: page, Take: blogPageSize, Search: search})
	if err != nil {
		s.fail(w, r, err, "Could not load posts.", "")
		return
	}

	take := result.Meta.Take
	if take < 1 {
		take = blogPageSize
	}
	totalPages := (result.Meta.Total + take - 1) / take
	if totalPages < 1 {
		totalPages = 1
	}
	view := blogListView{Blogs: result.Data, Search: search, Page: page, TotalPages: totalPages}
	if page > 1 {
		view.PrevURL = blogPageURL(page-1, search)
	}
	if page < totalPages {
		view.NextURL = blogPageURL(page+1, search)
	}
	s.render(w, r, http.StatusOK, "home", "Kasir blog", view)
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := s.data.Blog(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		s.fail(w, r, err, "Post not found.", "")
		return
	}
	s.render(w, r, http.StatusOK, "blog", blog.Title, blog)
}

func (s *Server) handleWritePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "write", "Write a post", blogForm{})
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxThumbnailSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.render(w, r, http.StatusBadRequest, "write", "Write a post", blogForm{}, withNotice(flashError, "The upload is too large."))
		return
	}
	f := blogForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Content:     strings.TrimSpace(r.FormValue("content")),
	}
	if err := form.Validate(f); err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "write", "Write a post", f, withErrors(formErrors(err)))
		return
	}

	req := domain.BlogCreateRequest{Title: f.Title, Category: f.Category, Description: f.Description, Content: f.Content}
	if file, header, err := r.FormFile("thumbnail"); err == nil {
		defer file.Close()
		raw, err := io.ReadAll(io.LimitReader(file, maxThumbnailSize+1))
		if err != nil || len(raw) > maxThumbnailSize {
			s.render(w, r, http.StatusBadRequest, "write", "Write a post", f, withNotice(flashError, "The thumbnail could not be read."))
			return
		}
		req.ThumbnailName = header.Filename
		req.Thumbnail = raw
	}

	if err := s.scope(r).CreateBlog(r.Context(), req); err != nil {
		if s.authFailure(w, r, err) {
			return
		}
		s.render(w, r, http.StatusBadRequest, "write", "Write a post", f, withNotice(flashError, apiclient.Message(err, "Could not publish the post.")))
		return
	}
	s.setFlash(w, flashSuccess, "Post published.")
	s.redirect(w, r, "/")
}

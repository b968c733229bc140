package apiclient

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"kasirinaja/frontend/internal/domain"
)

func (c *Client) ListBlogs(ctx context.Context, query domain.BlogQuery) (domain.BlogPage, error) {
	params := url.Values{}
	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.Take > 0 {
		params.Set("take", strconv.Itoa(query.Take))
	}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	var resp domain.BlogPage
	err := c.doJSON(ctx, "", http.MethodGet, "/blogs", params, nil, &resp)
	return resp, err
}

func (c *Client) GetBlog(ctx context.Context, slug string) (domain.Blog, error) {
	var resp domain.Blog
	err := c.doJSON(ctx, "", http.MethodGet, "/blogs/"+url.PathEscape(slug), nil, nil, &resp)
	return resp, err
}

func (c *Client) CreateBlog(ctx context.Context, token string, req domain.BlogCreateRequest) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if len(req.Thumbnail) > 0 {
		part, err := form.CreateFormFile("thumbnail", req.ThumbnailName)
		if err != nil {
			return pkgerrors.Wrap(err, "create thumbnail part")
		}
		if _, err := part.Write(req.Thumbnail); err != nil {
			return pkgerrors.Wrap(err, "write thumbnail part")
		}
	}
	fields := [][2]string{
		{"title", req.Title},
		{"category", req.Category},
		{"description", req.Description},
		{"content", req.Content},
	}
	for _, field := range fields {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return pkgerrors.Wrapf(err, "write %s field", field[0])
		}
	}
	if err := form.Close(); err != nil {
		return pkgerrors.Wrap(err, "close multipart body")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/blogs", nil), &buf)
	if err != nil {
		return pkgerrors.Wrap(err, "build POST /blogs")
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")
	return c.send(token, httpReq, nil)
}

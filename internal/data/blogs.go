package data

import (
	"context"
	"strconv"
	"strings"

	"kasirinaja/frontend/internal/cache"
	"kasirinaja/frontend/internal/domain"
)

func (s *Service) Blogs(ctx context.Context, query domain.BlogQuery) (domain.BlogPage, error) {
	query.Search = strings.TrimSpace(query.Search)
	key := cache.Key(resBlogs, "anon", strconv.Itoa(query.Page), strconv.Itoa(query.Take), query.Search)
	return cached(ctx, s, key, func() (domain.BlogPage, error) {
		return s.api.ListBlogs(ctx, query)
	})
}

func (s *Service) Blog(ctx context.Context, slug string) (domain.Blog, error) {
	return cached(ctx, s, cache.Key(resBlog, "anon", slug), func() (domain.Blog, error) {
		return s.api.GetBlog(ctx, slug)
	})
}

func (sc *Scope) CreateBlog(ctx context.Context, req domain.BlogCreateRequest) error {
	if err := sc.svc.api.CreateBlog(ctx, sc.token(), req); err != nil {
		return err
	}
	sc.svc.invalidate(ctx, prefix(resBlogs))
	return nil
}

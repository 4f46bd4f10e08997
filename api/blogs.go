package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const blogsPath = "/api/blogs"

// ListBlogs fetches one page of posts.
func (c *Client) ListBlogs(ctx context.Context, q BlogQuery) (BlogPage, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		query.Set("sortBy", q.SortBy)
	}
	req, err := c.newRequest(ctx, http.MethodGet, blogsPath, query, nil)
	if err != nil {
		return BlogPage{}, err
	}
	var out BlogPage
	if err := c.do(req, &out); err != nil {
		return BlogPage{}, err
	}
	if out.TotalPages < 1 {
		out.TotalPages = 1
	}
	return out, nil
}

// GetBlog fetches one post.
func (c *Client) GetBlog(ctx context.Context, id string) (Blog, error) {
	req, err := c.newRequest(ctx, http.MethodGet, blogsPath+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return Blog{}, err
	}
	var out Blog
	if err := c.do(req, &out); err != nil {
		return Blog{}, err
	}
	return out, nil
}

// RecordView bumps the view counter of a post.
func (c *Client) RecordView(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodPost, blogsPath+"/"+url.PathEscape(id)+"/view", nil, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Like toggles a like on a post.
func (c *Client) Like(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodPost, blogsPath+"/"+url.PathEscape(id)+"/like", nil, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// CreateBlog posts a new post and returns it with its id.
func (c *Client) CreateBlog(ctx context.Context, token string, p *Payload) (Blog, error) {
	if err := requireToken(token); err != nil {
		return Blog{}, err
	}
	req, err := c.multipartRequest(ctx, http.MethodPost, blogsPath, p)
	if err != nil {
		return Blog{}, err
	}
	addAuthHeader(req, token)
	var out Blog
	if err := c.do(req, &out); err != nil {
		return Blog{}, err
	}
	return out, nil
}

// UpdateBlog replaces a post.
func (c *Client) UpdateBlog(ctx context.Context, token, id string, p *Payload) error {
	if err := requireToken(token); err != nil {
		return err
	}
	req, err := c.multipartRequest(ctx, http.MethodPut, blogsPath+"/"+url.PathEscape(id), p)
	if err != nil {
		return err
	}
	addAuthHeader(req, token)
	return c.do(req, nil)
}

// DeleteBlog removes a post.
func (c *Client) DeleteBlog(ctx context.Context, token, id string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodDelete, blogsPath+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	addAuthHeader(req, token)
	return c.do(req, nil)
}

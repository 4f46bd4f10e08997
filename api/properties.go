package api

import (
	"context"
	"net/http"
	"net/url"
)

const propertiesPath = "/api/properties"

// ListProperties fetches every listing.
func (c *Client) ListProperties(ctx context.Context) ([]Property, error) {
	req, err := c.newRequest(ctx, http.MethodGet, propertiesPath, nil, nil)
	if err != nil {
		return nil, err
	}
	var out []Property
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProperty fetches one listing. token may be empty for public views.
func (c *Client) GetProperty(ctx context.Context, token, id string) (Property, error) {
	req, err := c.newRequest(ctx, http.MethodGet, propertiesPath+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return Property{}, err
	}
	if token != "" {
		addAuthHeader(req, token)
	}
	var out Property
	if err := c.do(req, &out); err != nil {
		return Property{}, err
	}
	return out, nil
}

// ListUserProperties fetches the listings owned by the token's user.
func (c *Client) ListUserProperties(ctx context.Context, token string) ([]Property, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, propertiesPath+"/user/properties", nil, nil)
	if err != nil {
		return nil, err
	}
	addAuthHeader(req, token)
	var out []Property
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProperty posts a new listing and returns what the backend stored.
func (c *Client) CreateProperty(ctx context.Context, token string, p *Payload) (Property, error) {
	if err := requireToken(token); err != nil {
		return Property{}, err
	}
	req, err := c.multipartRequest(ctx, http.MethodPost, propertiesPath, p)
	if err != nil {
		return Property{}, err
	}
	addAuthHeader(req, token)
	var out Property
	if err := c.do(req, &out); err != nil {
		return Property{}, err
	}
	return out, nil
}

// UpdateProperty replaces a listing.
func (c *Client) UpdateProperty(ctx context.Context, token, id string, p *Payload) error {
	if err := requireToken(token); err != nil {
		return err
	}
	req, err := c.multipartRequest(ctx, http.MethodPut, propertiesPath+"/"+url.PathEscape(id), p)
	if err != nil {
		return err
	}
	addAuthHeader(req, token)
	return c.do(req, nil)
}

// DeleteProperty removes a listing.
func (c *Client) DeleteProperty(ctx context.Context, token, id string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodDelete, propertiesPath+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	addAuthHeader(req, token)
	return c.do(req, nil)
}

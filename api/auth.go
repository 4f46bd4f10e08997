package api

import (
	"context"
	"net/http"
	"net/url"
)

const usersPath = "/users"

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, in Credentials) (AuthResult, error) {
	return c.authenticate(ctx, usersPath+"/login", in)
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, in Registration) (AuthResult, error) {
	return c.authenticate(ctx, usersPath+"/register", in)
}

func (c *Client) authenticate(ctx context.Context, path string, in any) (AuthResult, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, path, in)
	if err != nil {
		return AuthResult{}, err
	}
	var out AuthResult
	if err := c.do(req, &out); err != nil {
		return AuthResult{}, err
	}
	return out, nil
}

// ForgotPassword asks the backend to mail a reset link.
func (c *Client) ForgotPassword(ctx context.Context, in Recovery) (Message, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, usersPath+"/forgot-password", in)
	if err != nil {
		return Message{}, err
	}
	var out Message
	if err := c.do(req, &out); err != nil {
		return Message{}, err
	}
	return out, nil
}

// ResetPassword sets a new password using the emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) (Message, error) {
	body := struct {
		Password string `json:"password"`
	}{Password: password}
	req, err := c.jsonRequest(ctx, http.MethodPost, usersPath+"/forgot-password/"+url.PathEscape(resetToken), body)
	if err != nil {
		return Message{}, err
	}
	var out Message
	if err := c.do(req, &out); err != nil {
		return Message{}, err
	}
	return out, nil
}

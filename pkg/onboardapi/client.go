package onboardapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is a minimal HTTP client for the onboarding service, intended for
// internal tools and integration tests.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is the admin bearer token set by Login (or manually).
	Token string
}

// NewClient returns a client with sane timeouts.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Login authenticates as an admin and remembers the session token for
// subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return LoginResponse{}, err
	}
	c.Token = out.AccessToken
	return out, nil
}

// IssueLink issues (or re-returns) an onboarding link for a candidate email.
func (c *Client) IssueLink(ctx context.Context, req LinkRequest) (LinkResponse, error) {
	var out LinkResponse
	err := c.do(ctx, http.MethodPost, "/v1/links", req, &out)
	return out, err
}

// ValidateLink checks a candidate onboarding token and returns progress.
func (c *Client) ValidateLink(ctx context.Context, token string) (ValidateResponse, error) {
	var out ValidateResponse
	err := c.do(ctx, http.MethodGet, "/v1/onboarding/"+url.PathEscape(token), nil, &out)
	return out, err
}

// SaveSection submits a section payload for a candidate token.
func (c *Client) SaveSection(ctx context.Context, token, section string, payload any) (SectionSaveResponse, error) {
	var out SectionSaveResponse
	path := fmt.Sprintf("/v1/onboarding/%s/sections/%s", url.PathEscape(token), url.PathEscape(section))
	err := c.do(ctx, http.MethodPut, path, payload, &out)
	return out, err
}

// SubmitDeclaration submits the final declaration, expiring the link.
func (c *Client) SubmitDeclaration(ctx context.Context, token string, payload any) (DeclarationResponse, error) {
	var out DeclarationResponse
	err := c.do(ctx, http.MethodPost, "/v1/onboarding/"+url.PathEscape(token)+"/declaration", payload, &out)
	return out, err
}

// GetProgress fetches progress for a candidate token.
func (c *Client) GetProgress(ctx context.Context, token string) (ProgressResponse, error) {
	var out ProgressResponse
	err := c.do(ctx, http.MethodGet, "/v1/onboarding/"+url.PathEscape(token)+"/progress", nil, &out)
	return out, err
}

// SalaryBreakdown computes the component breakdown for an annual CTC.
func (c *Client) SalaryBreakdown(ctx context.Context, annualCTC float64) (SalaryResponse, error) {
	var out SalaryResponse
	err := c.do(ctx, http.MethodPost, "/v1/salary/breakdown", SalaryRequest{AnnualCTC: annualCTC}, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("onboardapi: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var er ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		if er.Error == "" {
			er.Error = ErrorCodeServerError
		}
		return &APIError{StatusCode: resp.StatusCode, Code: er.Error, Description: er.ErrorDescription}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

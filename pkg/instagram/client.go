package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"igingest/pkg/config"
	"igingest/pkg/errors"
	"igingest/pkg/logger"
	"igingest/pkg/retry"
)

// Client is an HTTP client for the remote profile/post API
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	retrier    *retry.Retrier
	logger     logger.Logger
}

// NewClient creates a new API client from source configuration. Page fetches
// retry transient transport failures up to maxRetries times.
func NewClient(cfg *config.SourceConfig, maxRetries int, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	retrier := retry.NewRetrier(&retry.Config{
		MaxAttempts: maxRetries,
		Backoff:     retry.DefaultExponentialBackoff(),
		RetryIf:     retry.DefaultRetryIf,
		Context:     context.Background(),
		Logger:      log,
	})

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		headers: map[string]string{
			"User-Agent":       cfg.UserAgent,
			"Accept":           "*/*",
			"Accept-Language":  "en-US,en;q=0.9",
			"X-Requested-With": "XMLHttpRequest",
			"Referer":          cfg.BaseURL + "/",
		},
		baseURL: cfg.BaseURL,
		retrier: retrier,
		logger:  log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response, retrying
// transient failures
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	return c.retrier.WithContext(ctx).Do(func() error {
		return c.getJSONOnce(ctx, url, target)
	})
}

func (c *Client) getJSONOnce(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errors.Error{
			Type:    errors.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus maps HTTP response statuses onto the error taxonomy
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.WarnWithFields("profile inaccessible", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeForbidden,
			Message: "profile is private or inaccessible",
			Code:    resp.StatusCode,
		}
	case http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errors.Error{
			Type:    errors.ErrorTypeRateLimit,
			Message: "rate limit exceeded",
			Code:    resp.StatusCode,
		}
	default:
		if resp.StatusCode >= 500 {
			c.logger.ErrorWithFields("server error", map[string]interface{}{
				"status": resp.StatusCode,
				"url":    resp.Request.URL.String(),
			})
			return &errors.Error{
				Type:    errors.ErrorTypeServerError,
				Message: "server error",
				Code:    resp.StatusCode,
			}
		}
		if resp.StatusCode >= 400 {
			return &errors.Error{
				Type:    errors.ErrorTypeUnknown,
				Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
				Code:    resp.StatusCode,
			}
		}
		return nil
	}
}

// FetchUserProfile fetches a user profile by username
func (c *Client) FetchUserProfile(ctx context.Context, username string) (*ProfileResponse, error) {
	url := GetProfileURL(c.baseURL, username)

	c.logger.DebugWithFields("fetching user profile", map[string]interface{}{
		"username": username,
		"url":      url,
	})

	var response ProfileResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		return nil, err
	}

	if response.RequiresToLogin {
		c.logger.WarnWithFields("authentication required for profile", map[string]interface{}{
			"username": username,
		})
		return nil, &errors.Error{
			Type:    errors.ErrorTypeForbidden,
			Message: "profile requires authentication",
			Code:    http.StatusUnauthorized,
		}
	}

	return &response, nil
}

// FetchUserMedia fetches one page of media for a user
func (c *Client) FetchUserMedia(ctx context.Context, userID, after string) (*ProfileResponse, error) {
	url := GetMediaURL(c.baseURL, userID, after, MaxMediaLimit)

	c.logger.DebugWithFields("fetching user media", map[string]interface{}{
		"user_id": userID,
		"after":   after,
	})

	var response ProfileResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

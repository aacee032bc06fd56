package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	httpx "github.com/egoexo-val/videoval/internal/http"
	"github.com/egoexo-val/videoval/internal/logging"
	"github.com/egoexo-val/videoval/internal/models"
	"github.com/egoexo-val/videoval/internal/ratelimit"
	"github.com/egoexo-val/videoval/internal/version"
)

// userAgent identifies the client in backend request logs. Read at call
// time since the version is injected after package init.
func userAgent() string {
	return "videoval/" + version.Version
}

// Per-operation fallback messages, used when a failing response carries no
// parseable detail field.
const (
	fallbackLogin        = "login failed"
	fallbackLogout       = "logout failed"
	fallbackSession      = "session check failed"
	fallbackUpload       = "upload failed"
	fallbackStatus       = "status lookup failed"
	fallbackCreateFolder = "folder creation failed"
	fallbackHealth       = "health check failed"
)

// CookieStore persists the auth cookie across runs. See the session package
// for the file-backed implementation.
type CookieStore interface {
	Load() ([]*nethttp.Cookie, error)
	Save([]*nethttp.Cookie) error
	Clear() error
}

// retryLogger routes retryablehttp warnings through zerolog.
type retryLogger struct {
	logger *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Msgf("retry: %s %v", msg, keysAndValues)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Msgf("retry: %s %v", msg, keysAndValues)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {}

// Client talks to the validation backend. All calls carry the session
// cookie from the shared jar.
//
// JSON operations go through a retrying client (transport failures and 5xx
// only; 4xx returns immediately). Uploads use a plain client over the same
// jar: a streamed multipart body cannot be replayed, and a failed upload
// aborts the submit rather than retrying.
type Client struct {
	jsonClient   *nethttp.Client
	uploadClient *nethttp.Client
	jar          nethttp.CookieJar
	baseURL      *url.URL
	store        CookieStore
	logger       *logging.Logger
	uploadLimit  *ratelimit.Limiter
}

// SetUploadLimit caps upload throughput at bytesPerSec. Zero or negative
// removes the cap.
func (c *Client) SetUploadLimit(bytesPerSec int64) {
	if bytesPerSec <= 0 {
		c.uploadLimit = nil
		return
	}
	c.uploadLimit = ratelimit.NewLimiter(bytesPerSec)
}

// New creates a client for the given backend origin. store may be nil, in
// which case the session lives only for this process.
func New(baseURL string, store CookieStore, logger *logging.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("server base URL is empty")
	}
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("server base URL %q must use http or https", baseURL)
	}
	if logger == nil {
		logger = logging.New()
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if store != nil {
		cookies, err := store.Load()
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			jar.SetCookies(parsed, cookies)
		}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpx.NewClient(jar)
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = &retryLogger{logger: logger}

	return &Client{
		jsonClient:   retryClient.StandardClient(),
		uploadClient: httpx.NewClient(jar),
		jar:          jar,
		baseURL:      parsed,
		store:        store,
		logger:       logger,
	}, nil
}

// BaseURL returns the backend origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// doJSON performs one JSON round trip. out may be nil to discard the body.
// Any failure surfaces either as a *StatusError carrying the server detail,
// or as a wrapped transport error prefixed with the fallback.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent())
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.jsonClient.Do(req)
	if err != nil {
		return wrapTransport(fallback, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp, fallback)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: unexpected response body: %w", fallback, err)
	}
	return nil
}

// Login exchanges the shared passcode for the session cookie and persists
// it. A wrong passcode surfaces the server's detail message.
func (c *Client) Login(ctx context.Context, secret string) error {
	payload := map[string]string{"secretKey": secret}
	if err := c.doJSON(ctx, nethttp.MethodPost, "/auth/login", payload, nil, fallbackLogin); err != nil {
		return err
	}
	return c.persistCookies()
}

// Logout clears the session on the server and locally. The local session
// file is removed even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, nethttp.MethodPost, "/auth/logout", nil, nil, fallbackLogout)
	if c.store != nil {
		if clearErr := c.store.Clear(); clearErr != nil && err == nil {
			err = clearErr
		}
	}
	return err
}

// CheckSession reports whether the stored cookie is still accepted. It
// never fails on server or transport errors; any such failure reads as
// logged out, since this call gates every protected command. The only error
// it returns is context cancellation.
func (c *Client) CheckSession(ctx context.Context) (bool, error) {
	var s models.Session
	if err := c.doJSON(ctx, nethttp.MethodGet, "/auth/me", nil, &s, fallbackSession); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, nil
	}
	return s.Authed, nil
}

// Status fetches the validation record for an upload.
func (c *Client) Status(ctx context.Context, uploadID string) (*models.StatusRecord, error) {
	var rec models.StatusRecord
	path := "/status/" + url.PathEscape(uploadID)
	if err := c.doJSON(ctx, nethttp.MethodGet, path, nil, &rec, fallbackStatus); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateFolderResult is the response of POST /folders.
type CreateFolderResult struct {
	OK        bool   `json:"ok"`
	Bucket    string `json:"bucket"`
	FolderKey string `json:"folder_key"`
}

// CreateFolder creates a destination folder under the optional parent.
func (c *Client) CreateFolder(ctx context.Context, parent, name string) (*CreateFolderResult, error) {
	payload := map[string]string{"parent": parent, "name": name}
	var res CreateFolderResult
	if err := c.doJSON(ctx, nethttp.MethodPost, "/folders", payload, &res, fallbackCreateFolder); err != nil {
		return nil, err
	}
	return &res, nil
}

// Health checks backend reachability. It is the only unauthenticated call
// besides the auth endpoints.
func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	var h models.Health
	if err := c.doJSON(ctx, nethttp.MethodGet, "/health", nil, &h, fallbackHealth); err != nil {
		return nil, err
	}
	return &h, nil
}

// persistCookies flushes the jar's cookies for the backend origin to the
// store.
func (c *Client) persistCookies() error {
	if c.store == nil {
		return nil
	}
	return c.store.Save(c.jar.Cookies(c.baseURL))
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/client/models"
	"github.com/dmitrijs2005/taskdesk/internal/logging"
)

// HTTPClient implements API over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

type Option func(*options)

type options struct {
	timeout   time.Duration
	transport http.RoundTripper
	logger    logging.Logger
}

// WithTimeout bounds each request. Zero keeps the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTransport replaces the underlying round tripper (http.DefaultTransport).
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewHTTPClient creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api/v1". Credentials are read from sess on every
// request.
func NewHTTPClient(baseURL string, sess Session, opts ...Option) *HTTPClient {
	o := options{transport: http.DefaultTransport, logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	baseURL = strings.TrimRight(baseURL, "/")
	return &HTTPClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: o.timeout,
			Transport: &authTransport{
				base:    o.transport,
				apiBase: baseURL,
				session: sess,
				logger:  o.logger,
			},
		},
	}
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) SearchTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", filter.Query(), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *HTTPClient) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	return c.taskCall(ctx, http.MethodGet, taskPath(id), nil)
}

func (c *HTTPClient) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	return c.taskCall(ctx, http.MethodPost, "/tasks", req)
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id int64, req models.UpdateTaskRequest) (*models.Task, error) {
	return c.taskCall(ctx, http.MethodPut, taskPath(id), req)
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil, nil)
}

func (c *HTTPClient) CompleteTask(ctx context.Context, id int64) (*models.Task, error) {
	return c.taskCall(ctx, http.MethodPatch, taskPath(id)+"/concluir", struct{}{})
}

func (c *HTTPClient) AssignToSelf(ctx context.Context, id int64) (*models.Task, error) {
	return c.taskCall(ctx, http.MethodPatch, taskPath(id)+"/responsavel", struct{}{})
}

// SearchUsers looks users up by name or email. A blank query lists all.
func (c *HTTPClient) SearchUsers(ctx context.Context, query string) ([]models.UserOption, error) {
	q := url.Values{}
	if s := strings.TrimSpace(query); s != "" {
		q.Set("q", s)
	}
	var users []models.UserOption
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) taskCall(ctx context.Context, method, path string, body any) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, method, path, nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// do sends one JSON request and decodes a 2xx body into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, apiErr)
	}
	apiErr.Status = resp.StatusCode
	if apiErr.Reason == "" {
		apiErr.Reason = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

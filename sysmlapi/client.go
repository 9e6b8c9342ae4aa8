package sysmlapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/geoknoesis/sysml-semtag/errs"
)

const (
	acceptJSONLD = "application/ld+json"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the retry budget for transient failures.
	DefaultMaxRetries = 3

	maxResponseBytes = 256 << 20
)

// Client talks to a SysML v2 API endpoint.
type Client struct {
	endpoint   *url.URL
	http       *http.Client
	logger     *zap.Logger
	maxRetries uint64
	backoff    func() backoff.BackOff
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxRetries sets how often a transient failure is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = uint64(n)
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithBackOff replaces the retry schedule.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *Client) {
		if fn != nil {
			c.backoff = fn
		}
	}
}

// NewClient returns a client for the API rooted at endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errs.Format("api endpoint", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errs.Format("api endpoint", endpoint, fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c := &Client{
		endpoint:   u,
		http:       &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
		maxRetries: DefaultMaxRetries,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = time.Minute
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the API root.
func (c *Client) Endpoint() string { return c.endpoint.String() }

// Projects lists projects, newest first.
func (c *Client) Projects(ctx context.Context) Result[Project] {
	var projects []Project
	if err := c.getJSON(ctx, "projects", &projects); err != nil {
		return Result[Project]{Err: err}
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Created.After(projects[j].Created.Time)
	})
	return Result[Project]{Items: projects}
}

// Commits lists a project's commits, newest first.
func (c *Client) Commits(ctx context.Context, projectID string) Result[Commit] {
	var commits []Commit
	if err := c.getJSON(ctx, "projects/"+url.PathEscape(projectID)+"/commits", &commits); err != nil {
		return Result[Commit]{Err: err}
	}
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Created.After(commits[j].Created.Time)
	})
	return Result[Commit]{Items: commits}
}

// Elements lists the elements of a commit as raw JSON-LD objects.
func (c *Client) Elements(ctx context.Context, projectID, commitID string) Result[json.RawMessage] {
	path := "projects/" + url.PathEscape(projectID) + "/commits/" + url.PathEscape(commitID) + "/elements"
	var raw json.RawMessage
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return Result[json.RawMessage]{Err: err}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return Result[json.RawMessage]{Items: []json.RawMessage{raw}}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		err = errs.Upstream("decode elements", c.resolve(path), err)
		c.logger.Warn("upstream request failed", zap.Error(err))
		return Result[json.RawMessage]{Err: err}
	}
	return Result[json.RawMessage]{Items: items}
}

// Latest fetches the elements of the newest commit of the newest project.
func (c *Client) Latest(ctx context.Context) (Snapshot, error) {
	projects := c.Projects(ctx)
	if projects.Failed() {
		return Snapshot{}, projects.Err
	}
	if projects.Empty() {
		return Snapshot{}, errs.EmptyResult("latest project", c.resolve("projects"))
	}
	project := projects.Items[0]

	commits := c.Commits(ctx, project.ID)
	if commits.Failed() {
		return Snapshot{}, commits.Err
	}
	if commits.Empty() {
		return Snapshot{}, errs.EmptyResult("latest commit", project.ID)
	}
	commit := commits.Items[0]

	elements := c.Elements(ctx, project.ID, commit.ID)
	if elements.Failed() {
		return Snapshot{}, elements.Err
	}
	doc, err := json.Marshal(elements.Items)
	if err != nil {
		return Snapshot{}, fmt.Errorf("sysmlapi: encode elements: %w", err)
	}
	if elements.Items == nil {
		doc = []byte("[]")
	}

	c.logger.Info("fetched latest snapshot",
		zap.String("project", project.ID),
		zap.String("commit", commit.ID),
		zap.Time("created", project.Created.Time),
		zap.Int("elements", len(elements.Items)))
	return Snapshot{
		ProjectID: project.ID,
		CommitID:  commit.ID,
		Base:      SnapshotBase(project.ID, commit.ID),
		Document:  doc,
	}, nil
}

func (c *Client) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.endpoint.String() + path
	}
	return c.endpoint.ResolveReference(ref).String()
}

// getJSON GETs path relative to the endpoint and decodes the body into v.
// Network errors and 5xx responses are retried; failures are logged and
// returned as upstream errors.
func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	target := c.resolve(path)
	var body []byte
	op := func() error {
		b, err := c.fetch(ctx, target)
		if err != nil {
			return err
		}
		body = b
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Debug("retrying request", zap.String("url", target), zap.Duration("wait", wait), zap.Error(err))
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.maxRetries), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		err = errs.Upstream("GET", target, err)
		c.logger.Warn("upstream request failed", zap.Error(err))
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		err = errs.Upstream("decode response", target, err)
		c.logger.Warn("upstream request failed", zap.Error(err))
		return err
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", acceptJSONLD)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backoff.Permanent(fmt.Errorf("status %s", resp.Status))
	}
	return body, nil
}

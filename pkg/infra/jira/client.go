package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/traackr/relver/pkg/domain/interfaces"
	"github.com/traackr/relver/pkg/domain/model"
	"github.com/traackr/relver/pkg/domain/types"
)

// issueFields is the field set requested on issue lookups.
const issueFields = "summary,status,fixVersions"

type client struct {
	baseURL    string
	username   string
	apiToken   string
	httpClient *http.Client
	maxRetries uint64
	now        func() time.Time
}

// Option is a functional option for client configuration.
type Option func(*client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// WithMaxRetries sets the retry budget for transient failures.
func WithMaxRetries(n uint64) Option {
	return func(c *client) {
		c.maxRetries = n
	}
}

// NewClient creates a Jira REST v3 client. Retries with exponential backoff
// on network errors, 429 and 5xx responses are internal to this client; the
// callers see each call as a single blocking operation.
func NewClient(baseURL, username, apiToken string, opts ...Option) interfaces.TrackerClient {
	c := &client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type issueResponse struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  *struct {
			Name string `json:"name"`
		} `json:"status"`
		FixVersions []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"fixVersions"`
	} `json:"fields"`
}

// GetIssue fetches the current state of one issue. A 404 is surfaced as an
// error tagged types.ErrTagNotFound so callers can classify it as a
// business outcome rather than an operational failure.
func (c *client) GetIssue(ctx context.Context, key string) (*model.IssueSnapshot, error) {
	apiURL := c.baseURL + "/rest/api/3/issue/" + url.PathEscape(key) + "?fields=" + issueFields

	status, body, err := c.do(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch issue", goerr.V("key", key))
	}

	switch {
	case status == http.StatusNotFound:
		return nil, goerr.New("jira issue not found", goerr.T(types.ErrTagNotFound), goerr.V("key", key))
	case status != http.StatusOK:
		return nil, goerr.New("unexpected status code during issue lookup",
			goerr.V("key", key),
			goerr.V("status", status),
			goerr.V("body", string(body)),
		)
	}

	var issue issueResponse
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, goerr.Wrap(err, "failed to parse issue response", goerr.V("key", key))
	}

	snapshot := &model.IssueSnapshot{Key: issue.Key}
	if issue.Fields.Status != nil {
		snapshot.Status = issue.Fields.Status.Name
	}
	for _, v := range issue.Fields.FixVersions {
		snapshot.FixVersions = append(snapshot.FixVersions, v.Name)
	}

	return snapshot, nil
}

type projectVersion struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Released bool   `json:"released"`
}

// GetOrCreateFixVersion returns the project's fix version with the given
// name, creating it when missing. Reuse makes the apply step safe to
// resume: a re-run after a partial prior run finds the version created by
// the first run instead of failing on a duplicate.
func (c *client) GetOrCreateFixVersion(ctx context.Context, projectKey string, version model.FixVersion) (*model.FixVersionRef, error) {
	apiURL := c.baseURL + "/rest/api/3/project/" + url.PathEscape(projectKey) + "/versions"

	status, body, err := c.do(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list project versions", goerr.V("project", projectKey))
	}
	if status != http.StatusOK {
		return nil, goerr.New("unexpected status code listing project versions",
			goerr.V("project", projectKey),
			goerr.V("status", status),
			goerr.V("body", string(body)),
		)
	}

	var versions []projectVersion
	if err := json.Unmarshal(body, &versions); err != nil {
		return nil, goerr.Wrap(err, "failed to parse project versions", goerr.V("project", projectKey))
	}

	for _, v := range versions {
		if v.Name == version.Name {
			return &model.FixVersionRef{ID: v.ID, Name: v.Name}, nil
		}
	}

	return c.createFixVersion(ctx, projectKey, version)
}

func (c *client) createFixVersion(ctx context.Context, projectKey string, version model.FixVersion) (*model.FixVersionRef, error) {
	payload := map[string]any{
		"name":        version.Name,
		"project":     projectKey,
		"released":    true,
		"releaseDate": c.now().Format("2006-01-02"),
	}
	if version.Description != "" {
		payload["description"] = version.Description
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal version request")
	}

	status, body, err := c.do(ctx, http.MethodPost, c.baseURL+"/rest/api/3/version", data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create fix version", goerr.V("name", version.Name))
	}
	if status != http.StatusCreated {
		return nil, goerr.New("unexpected status code creating fix version",
			goerr.V("name", version.Name),
			goerr.V("status", status),
			goerr.V("body", string(body)),
		)
	}

	var created projectVersion
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to parse version response", goerr.V("name", version.Name))
	}

	return &model.FixVersionRef{ID: created.ID, Name: created.Name}, nil
}

// AddFixVersion attaches an existing fix version to one issue.
func (c *client) AddFixVersion(ctx context.Context, issueKey string, ref *model.FixVersionRef) error {
	payload := map[string]any{
		"update": map[string]any{
			"fixVersions": []any{
				map[string]any{
					"add": map[string]string{"id": ref.ID},
				},
			},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal update request")
	}

	apiURL := c.baseURL + "/rest/api/3/issue/" + url.PathEscape(issueKey)

	status, body, err := c.do(ctx, http.MethodPut, apiURL, data)
	if err != nil {
		return goerr.Wrap(err, "failed to add fix version", goerr.V("key", issueKey))
	}
	if status != http.StatusNoContent {
		return goerr.New("unexpected status code adding fix version",
			goerr.V("key", issueKey),
			goerr.V("status", status),
			goerr.V("body", string(body)),
		)
	}

	return nil
}

// do executes one authenticated request, retrying network errors and
// transient status codes (429, 5xx). Definitive responses, including 4xx,
// are returned to the caller for classification.
func (c *client) do(ctx context.Context, method, apiURL string, payload []byte) (int, []byte, error) {
	var (
		status int
		body   []byte
	)

	op := func() error {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
		if err != nil {
			return backoff.Permanent(goerr.Wrap(err, "failed to create request"))
		}

		c.setAuth(req)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return goerr.Wrap(err, "jira request failed")
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return goerr.Wrap(err, "failed to read jira response")
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return goerr.New("transient jira error", goerr.V("status", resp.StatusCode))
		}

		status = resp.StatusCode
		body = respBody
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return 0, nil, err
	}

	return status, body, nil
}

// setAuth picks basic auth when a username is configured (Jira Cloud),
// bearer auth otherwise (Jira Server / Data Center PATs).
func (c *client) setAuth(req *http.Request) {
	if c.username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.apiToken))
		req.Header.Set("Authorization", "Basic "+auth)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}

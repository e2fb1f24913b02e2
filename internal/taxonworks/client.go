// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonworks fetches documents from a TaxonWorks API. Every request
// is a single authenticated GET; list endpoints are read as one page.
package taxonworks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/matrix-export/pkg/types"
)

// FetchError reports a failed request. Status is 0 when no response was
// received. Path never includes the credential tokens.
type FetchError struct {
	Status int
	Path   string
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("GET %s: HTTP %d: %v", e.Path, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("GET %s: HTTP %d", e.Path, e.Status)
	default:
		return fmt.Sprintf("GET %s: %v", e.Path, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// errUnexpectedShape is wrapped when a body decodes but is not the
// expected object or array.
var errUnexpectedShape = errors.New("unexpected response shape")

// Client issues requests against one API endpoint with fixed credentials.
type Client struct {
	HTTP *http.Client
	cfg  types.APIConfig
}

// NewClient returns a Client for cfg. A nil httpClient uses one with
// cfg.Timeout.
func NewClient(httpClient *http.Client, cfg types.APIConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{HTTP: httpClient, cfg: cfg}
}

// Fetch GETs base+path with params plus the token and project_token
// parameters, and returns the decoded JSON body: a types.Document for an
// object, []any for an array. Numbers decode as json.Number.
func (c *Client) Fetch(ctx context.Context, path string, params url.Values) (any, error) {
	q := url.Values{}
	if p, rawQuery, ok := strings.Cut(path, "?"); ok {
		path = p
		embedded, err := url.ParseQuery(rawQuery)
		if err != nil {
			return nil, &FetchError{Path: path, Err: fmt.Errorf("parsing query of %s: %w", path, err)}
		}
		q = embedded
	}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("token", c.cfg.Token)
	q.Set("project_token", c.cfg.ProjectToken)

	reqURL := c.cfg.BaseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Path: path, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &FetchError{Path: path, Err: ctxErr}
		}
		return nil, &FetchError{Path: path, Err: redact(err, c.cfg.Credentials)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Status: resp.StatusCode, Path: path}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, &FetchError{Status: resp.StatusCode, Path: path, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if obj, ok := body.(map[string]any); ok {
		return types.Document(obj), nil
	}
	return body, nil
}

// FetchDocument fetches a single JSON object.
func (c *Client) FetchDocument(ctx context.Context, path string, params url.Values) (types.Document, error) {
	body, err := c.Fetch(ctx, path, params)
	if err != nil {
		return nil, err
	}
	doc, ok := body.(types.Document)
	if !ok {
		return nil, &FetchError{Status: http.StatusOK, Path: path, Err: fmt.Errorf("%w: want object, got %T", errUnexpectedShape, body)}
	}
	return doc, nil
}

// FetchList fetches a JSON array of objects. Non-object elements are
// dropped.
func (c *Client) FetchList(ctx context.Context, path string, params url.Values) ([]types.Document, error) {
	body, err := c.Fetch(ctx, path, params)
	if err != nil {
		return nil, err
	}
	items, ok := body.([]any)
	if !ok {
		return nil, &FetchError{Status: http.StatusOK, Path: path, Err: fmt.Errorf("%w: want array, got %T", errUnexpectedShape, body)}
	}
	docs := make([]types.Document, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			docs = append(docs, types.Document(obj))
		}
	}
	return docs, nil
}

// redact strips the credential tokens from transport errors, which embed
// the full request URL.
func redact(err error, creds types.Credentials) error {
	msg := err.Error()
	for _, secret := range []string{creds.Token, creds.ProjectToken} {
		if secret != "" {
			msg = strings.ReplaceAll(msg, url.QueryEscape(secret), "REDACTED")
			msg = strings.ReplaceAll(msg, secret, "REDACTED")
		}
	}
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}

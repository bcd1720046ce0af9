package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"salon/logging"
	"salon/metrics"
	"salon/models"
)

const (
	endpointEmployees   = "employees"
	endpointDebtHistory = "debts/history"

	maxErrorBody = 64 << 10
)

// Client talks to the salon API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each call; zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse api base url")
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// ListEmployees returns every employee, unfiltered.
func (c *Client) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := c.get(ctx, endpointEmployees, nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// SearchDebt returns the debts of one employee dated within [start, end].
func (c *Client) SearchDebt(ctx context.Context, employeeID string, start, end civil.Date) ([]models.DebtRecord, error) {
	query := url.Values{}
	query.Set("userId", employeeID)
	query.Set("startDate", models.FormatDate(start))
	query.Set("endDate", models.FormatDate(end))

	var records []models.DebtRecord
	if err := c.get(ctx, endpointDebtHistory, query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: endpoint})
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := logging.FromContext(ctx).WithFields(logrus.Fields{
		"endpoint": endpoint,
		"url":      u.Redacted(),
	})

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(endpoint, 0, started)
		log.WithError(err).Warn("api request failed")
		return &RequestError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	metrics.ObserveAPIRequest(endpoint, resp.StatusCode, started)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
		log.WithField("status", resp.StatusCode).Warn("api request rejected")
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.WithError(err).Warn("api response undecodable")
		return errors.Wrapf(err, "decode %s response", endpoint)
	}
	log.WithField("duration", time.Since(started)).Debug("api request done")
	return nil
}

func errorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

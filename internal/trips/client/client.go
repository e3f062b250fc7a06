// Package client provides the HTTP client for the external trip-planning
// service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"tripgateway/internal/trips/transport"
	"tripgateway/platform/apperr"
	"tripgateway/platform/config"
	"tripgateway/platform/logger"
)

const planPath = "/api/trips/plan"

// Client is the HTTP client for the planning service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// New creates a planning-service client.
func New(cfg config.PlannerConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetPlannerTimeout()},
		// Trailing slashes would produce double-slash request paths.
		baseURL: strings.TrimRight(cfg.GetPlannerBaseURL(), "/"),
		log:     log,
	}
}

// PlanTrip submits a validated trip plan request and decodes the response.
// Non-success statuses are summarized into a single descriptive error; no
// retry is attempted.
func (c *Client) PlanTrip(ctx context.Context, planReq transport.PlanTripRequest) (*transport.PlanTripResponse, error) {
	body, err := json.Marshal(planReq)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+planPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("planner request failed", "error", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "trip planning service unreachable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := summarizeErrorBody(resp.Body, resp.Status)
		c.log.UpstreamError("planner", resp.StatusCode, nil)

		if resp.StatusCode >= 500 {
			return nil, apperr.Unavailable(message)
		}
		return nil, apperr.BadRequest(message)
	}

	var plan transport.PlanTripResponse
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		c.log.Error("failed to decode planner payload", "error", err)
		return nil, apperr.Wrap(apperr.KindUnavailable, "invalid response from trip planning service", err)
	}

	return &plan, nil
}

// summarizeErrorBody condenses an error response into one message. The
// planning service returns either a field-keyed validation object or a single
// detail/message string; an unparsable body falls back to the HTTP status.
func summarizeErrorBody(body io.Reader, status string) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(raw) == 0 {
		return status
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return status
	}

	for _, key := range []string{"detail", "message"} {
		if val, ok := fields[key]; ok {
			var msg string
			if json.Unmarshal(val, &msg) == nil && msg != "" {
				return msg
			}
		}
	}

	if len(fields) == 0 {
		return status
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]string, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, key+": "+fieldMessage(fields[key]))
	}
	return strings.Join(entries, " | ")
}

func fieldMessage(raw json.RawMessage) string {
	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, scalarMessage(item))
		}
		return strings.Join(parts, ", ")
	}
	return scalarMessage(raw)
}

func scalarMessage(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// Package railway implements the DeploymentSource port against the Railway
// public GraphQL API.
package railway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
	"github.com/ericfisherdev/deployfix/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DeploymentSource = (*Client)(nil)

// DefaultEndpoint is the Railway public GraphQL endpoint.
const DefaultEndpoint = "https://backboard.railway.com/graphql/v2"

// defaultLogLimit caps the number of lines requested per log stream.
const defaultLogLimit = 500

// ErrUnauthorized is returned when the API rejects the token.
var ErrUnauthorized = errors.New("railway: unauthorized")

const latestDeploymentQuery = `query($projectId: String!, $serviceId: String) {
	deployments(first: 1, input: {projectId: $projectId, serviceId: $serviceId}) {
		edges {
			node {
				id
				status
				createdAt
				meta
				projectId
				serviceId
				service { name }
			}
		}
	}
}`

const deploymentLogsQuery = `query($deploymentId: String!, $limit: Int) {
	buildLogs(deploymentId: $deploymentId, limit: $limit) { message timestamp severity }
	deploymentLogs(deploymentId: $deploymentId, limit: $limit) { message timestamp severity }
}`

// graphqlRequest is the JSON body sent to the Railway GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type deploymentNode struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	Meta      json.RawMessage `json:"meta"`
	ProjectID string          `json:"projectId"`
	ServiceID string          `json:"serviceId"`
	Service   *struct {
		Name string `json:"name"`
	} `json:"service"`
}

type deploymentsResponse struct {
	Data struct {
		Deployments struct {
			Edges []struct {
				Node deploymentNode `json:"node"`
			} `json:"edges"`
		} `json:"deployments"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type logLine struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Severity  string `json:"severity"`
}

type logsResponse struct {
	Data struct {
		BuildLogs      []logLine `json:"buildLogs"`
		DeploymentLogs []logLine `json:"deploymentLogs"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// deploymentMeta holds the fields of the deployment meta blob we use.
type deploymentMeta struct {
	CommitHash string `json:"commitHash"`
}

// Client implements the driven.DeploymentSource port for one Railway project
// (and optionally one service within it).
type Client struct {
	http      *http.Client
	endpoint  string
	token     string
	projectID string
	serviceID string
	logLimit  int
}

// NewClient creates a Client using the public endpoint and a 30-second
// request timeout.
func NewClient(token, projectID, serviceID string) *Client {
	return &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		endpoint:  DefaultEndpoint,
		token:     token,
		projectID: projectID,
		serviceID: serviceID,
		logLimit:  defaultLogLimit,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and
// endpoint. This constructor is intended for testing against an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, endpoint, token, projectID, serviceID string) *Client {
	return &Client{
		http:      httpClient,
		endpoint:  endpoint,
		token:     token,
		projectID: projectID,
		serviceID: serviceID,
		logLimit:  defaultLogLimit,
	}
}

// LatestDeployment returns the most recent deployment of the configured
// project, or nil when there is none. Logs are not fetched.
func (c *Client) LatestDeployment(ctx context.Context) (*model.DeploymentEvent, error) {
	vars := map[string]any{"projectId": c.projectID}
	if c.serviceID != "" {
		vars["serviceId"] = c.serviceID
	}

	var resp deploymentsResponse
	if err := c.do(ctx, latestDeploymentQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("query latest deployment for project %s: %w", c.projectID, err)
	}
	if err := firstError(resp.Errors); err != nil {
		return nil, fmt.Errorf("query latest deployment for project %s: %w", c.projectID, err)
	}

	edges := resp.Data.Deployments.Edges
	if len(edges) == 0 {
		return nil, nil
	}

	event := mapDeployment(edges[0].Node)
	return &event, nil
}

// FetchLogs returns the build log lines followed by the runtime log lines of
// a deployment, one message per line.
func (c *Client) FetchLogs(ctx context.Context, deploymentID string) (string, error) {
	vars := map[string]any{
		"deploymentId": deploymentID,
		"limit":        c.logLimit,
	}

	var resp logsResponse
	if err := c.do(ctx, deploymentLogsQuery, vars, &resp); err != nil {
		return "", fmt.Errorf("fetch logs for deployment %s: %w", deploymentID, err)
	}
	if err := firstError(resp.Errors); err != nil {
		return "", fmt.Errorf("fetch logs for deployment %s: %w", deploymentID, err)
	}

	var sb strings.Builder
	for _, line := range resp.Data.BuildLogs {
		sb.WriteString(line.Message)
		sb.WriteByte('\n')
	}
	for _, line := range resp.Data.DeploymentLogs {
		sb.WriteString(line.Message)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// do posts a GraphQL query and decodes the response body into out.
func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func firstError(errs []graphqlError) error {
	if len(errs) == 0 {
		return nil
	}
	if strings.Contains(strings.ToLower(errs[0].Message), "not authorized") {
		return fmt.Errorf("%w: %s", ErrUnauthorized, errs[0].Message)
	}
	return fmt.Errorf("graphql error: %s", errs[0].Message)
}

// mapDeployment converts a Railway deployment node to a domain event.
func mapDeployment(node deploymentNode) model.DeploymentEvent {
	event := model.DeploymentEvent{
		ID:        node.ID,
		ProjectID: node.ProjectID,
		ServiceID: node.ServiceID,
		Status:    model.ParseDeploymentStatus(node.Status),
		Timestamp: node.CreatedAt,
	}
	if node.Service != nil {
		event.ServiceName = node.Service.Name
	}
	if len(node.Meta) > 0 {
		var meta deploymentMeta
		if err := json.Unmarshal(node.Meta, &meta); err == nil {
			event.CommitSHA = meta.CommitHash
		}
	}
	return event
}

// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

// Package client implements the consumer side of the A2A protocol: agent
// card discovery, task invocation, bookmark management, and tag-based
// fan-out across many agents.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	a2a "github.com/formagent/a2a"
)

// defaultTimeout bounds each outbound agent call.
const defaultTimeout = 30 * time.Second

// AgentResult is the outcome of one agent call in a fan-out. Exactly one of
// Response and Err is set.
type AgentResult struct {
	Agent    Bookmark
	Response *a2a.Response
	Err      error
}

// Client talks to A2A agent servers. Zero value is not usable; construct
// with [NewClient].
type Client struct {
	hc        *http.Client
	bookmarks *BookmarkStore
	logger    *slog.Logger
	tracer    trace.Tracer
	timeout   time.Duration
}

// NewClient creates a Client over the given bookmark store.
func NewClient(bookmarks *BookmarkStore) *Client {
	return &Client{
		hc:        &http.Client{Timeout: defaultTimeout},
		bookmarks: bookmarks,
		logger:    slog.Default(),
		tracer:    otel.GetTracerProvider().Tracer("github.com/formagent/a2a/client"),
		timeout:   defaultTimeout,
	}
}

// WithLogger sets the logger for the Client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// WithTracer sets the tracer for the Client.
func (c *Client) WithTracer(tracer trace.Tracer) *Client {
	c.tracer = tracer
	return c
}

// WithHTTPClient sets the HTTP client, e.g. for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.hc = hc
	return c
}

// WithTimeout sets the per-call timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.hc.Timeout = timeout
	return c
}

// Bookmarks exposes the underlying bookmark store.
func (c *Client) Bookmarks() *BookmarkStore {
	return c.bookmarks
}

// FetchAgentCard retrieves the discovery document of the agent at baseURL.
func (c *Client) FetchAgentCard(ctx context.Context, baseURL string) (*a2a.AgentCard, error) {
	ctx, span := c.tracer.Start(ctx, "a2a.fetch_agent_card")
	defer span.End()

	url := normalizeURL(baseURL) + a2a.AgentCardWellKnownPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create card request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch agent card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch agent card: unexpected status %d", resp.StatusCode)
	}

	var card a2a.AgentCard
	if err := json.UnmarshalRead(resp.Body, &card); err != nil {
		return nil, fmt.Errorf("decode agent card: %w", err)
	}

	span.SetAttributes(attribute.String("a2a.agent_name", card.Name))
	return &card, nil
}

// call POSTs one JSON-RPC request to the agent's RPC endpoint and decodes
// the envelope. A protocol-level error still yields a non-nil Response; the
// error return covers transport and decode failures only.
func (c *Client) call(ctx context.Context, baseURL string, rpcReq a2a.Request) (*a2a.Response, error) {
	ctx, span := c.tracer.Start(ctx, "a2a.rpc_call",
		trace.WithAttributes(attribute.String("a2a.method", rpcReq.Method)))
	defer span.End()

	body, err := sonic.ConfigFastest.Marshal(rpcReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := normalizeURL(baseURL) + a2a.RPCPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", httpResp.StatusCode, respBody)
	}

	var rpcResp a2a.Response
	if err := sonic.ConfigFastest.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if rpcResp.Error != nil {
		span.SetAttributes(attribute.Int("a2a.error_code", rpcResp.Error.Code))
	}
	return &rpcResp, nil
}

// SendTask submits one task to the agent at baseURL. The returned Response
// may carry a protocol error; callers branch on [a2a.Response.IsSuccess].
func (c *Client) SendTask(ctx context.Context, baseURL, skillID string, input map[string]any) (*a2a.Response, error) {
	req, err := a2a.NewRequest(uuid.NewString(), a2a.MethodTasksSend, map[string]any{
		"skill": skillID,
		"input": input,
	})
	if err != nil {
		return nil, err
	}
	return c.call(ctx, baseURL, req)
}

// GetTaskStatus fetches the current state of a task.
func (c *Client) GetTaskStatus(ctx context.Context, baseURL, taskID string) (*a2a.Response, error) {
	req, err := a2a.NewRequest(uuid.NewString(), a2a.MethodTasksGet, map[string]any{"id": taskID})
	if err != nil {
		return nil, err
	}
	return c.call(ctx, baseURL, req)
}

// CancelTask asks the agent to cancel a task.
func (c *Client) CancelTask(ctx context.Context, baseURL, taskID string) (*a2a.Response, error) {
	req, err := a2a.NewRequest(uuid.NewString(), a2a.MethodTasksCancel, map[string]any{"id": taskID})
	if err != nil {
		return nil, err
	}
	return c.call(ctx, baseURL, req)
}

// AskAgent sends free text to the agent's assistant skill.
func (c *Client) AskAgent(ctx context.Context, baseURL, message string) (*a2a.Response, error) {
	return c.SendTask(ctx, baseURL, a2a.SkillAskAssistant, map[string]any{"message": message})
}

// SubmitContact submits a contact form on the agent.
func (c *Client) SubmitContact(ctx context.Context, baseURL string, contact map[string]any) (*a2a.Response, error) {
	return c.SendTask(ctx, baseURL, a2a.SkillSubmitContact, contact)
}

// SubmitEmployee submits an employee registration on the agent.
func (c *Client) SubmitEmployee(ctx context.Context, baseURL string, employee map[string]any) (*a2a.Response, error) {
	return c.SendTask(ctx, baseURL, a2a.SkillSubmitEmployee, employee)
}

// SubmitSupportTicket submits a support ticket on the agent.
func (c *Client) SubmitSupportTicket(ctx context.Context, baseURL string, ticket map[string]any) (*a2a.Response, error) {
	return c.SendTask(ctx, baseURL, a2a.SkillSubmitSupportTicket, ticket)
}

// ExecuteOnAgent sends a task to a bookmarked agent by its ID and stamps the
// bookmark's last-connected time on success.
func (c *Client) ExecuteOnAgent(ctx context.Context, agentID uint, skillID string, input map[string]any) (*a2a.Response, error) {
	agent, err := c.bookmarks.ByID(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("agent not found: %d", agentID)
	}

	resp, err := c.SendTask(ctx, agent.BaseURL, skillID, input)
	if err != nil {
		return nil, err
	}

	if touchErr := c.bookmarks.TouchLastConnected(ctx, agent.ID); touchErr != nil {
		c.logger.WarnContext(ctx, "failed to stamp last connected", "agent_id", agent.ID, "error", touchErr)
	}
	return resp, nil
}

// ExecuteOnAgentsByTag sends the same task to every active agent carrying
// tag, concurrently. The result has one entry per agent keyed by agent
// name; a failure on one agent never blocks or removes the others. When
// two bookmarks share a display name the later entry is keyed with the
// bookmark id appended, so no result is lost.
func (c *Client) ExecuteOnAgentsByTag(ctx context.Context, tag, skillID string, input map[string]any) (map[string]AgentResult, error) {
	ctx, span := c.tracer.Start(ctx, "a2a.fan_out",
		trace.WithAttributes(attribute.String("a2a.tag", tag)))
	defer span.End()

	agents, err := c.bookmarks.ByTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("lookup agents by tag: %w", err)
	}

	results := make(map[string]AgentResult, len(agents))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, agent := range agents {
		wg.Add(1)
		go func(agent Bookmark) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			resp, err := c.SendTask(callCtx, agent.BaseURL, skillID, input)
			if err == nil {
				if touchErr := c.bookmarks.TouchLastConnected(ctx, agent.ID); touchErr != nil {
					c.logger.WarnContext(ctx, "failed to stamp last connected", "agent_id", agent.ID, "error", touchErr)
				}
			} else {
				c.logger.WarnContext(ctx, "agent call failed", "agent", agent.Name, "error", err)
			}

			mu.Lock()
			key := agent.Name
			if _, taken := results[key]; taken {
				key = fmt.Sprintf("%s (#%d)", agent.Name, agent.ID)
			}
			results[key] = AgentResult{Agent: agent, Response: resp, Err: err}
			mu.Unlock()
		}(agent)
	}
	wg.Wait()

	span.SetAttributes(attribute.Int("a2a.agent_count", len(agents)))
	return results, nil
}

// TestConnection reports whether the agent at baseURL answers card
// discovery. Transport errors downgrade to false.
func (c *Client) TestConnection(ctx context.Context, baseURL string) bool {
	_, err := c.FetchAgentCard(ctx, baseURL)
	return err == nil
}

// RefreshAgentInfo re-fetches the agent card for a bookmark and updates its
// name and description from the live agent.
func (c *Client) RefreshAgentInfo(ctx context.Context, agentID uint) (*a2a.AgentCard, error) {
	agent, err := c.bookmarks.ByID(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("agent not found: %d", agentID)
	}

	card, err := c.FetchAgentCard(ctx, agent.BaseURL)
	if err != nil {
		return nil, err
	}

	agent.Name = card.Name
	agent.Description = card.Description
	agent.AgentVersion = card.Version
	if err := c.bookmarks.Update(ctx, agent); err != nil {
		return nil, fmt.Errorf("update bookmark: %w", err)
	}
	if err := c.bookmarks.TouchLastConnected(ctx, agent.ID); err != nil {
		c.logger.WarnContext(ctx, "failed to stamp last connected", "agent_id", agent.ID, "error", err)
	}
	return card, nil
}

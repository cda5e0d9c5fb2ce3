// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements the agent side of the A2A protocol: the agent
// card discovery route, the JSON-RPC task endpoint, the in-memory task
// store, and the skill dispatcher.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	a2a "github.com/formagent/a2a"
)

// Server exposes the A2A protocol over HTTP.
type Server struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Card describes this agent. Its URL field is overwritten per request
	// with the scheme and host the caller used.
	Card a2a.AgentCard

	store      *TaskStore
	dispatcher *Dispatcher
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *Metrics

	httpServer *http.Server
}

// NewServer creates a Server over the given store and dispatcher.
func NewServer(addr string, card a2a.AgentCard, store *TaskStore, dispatcher *Dispatcher) *Server {
	return &Server{
		Addr:       addr,
		Card:       card,
		store:      store,
		dispatcher: dispatcher,
		logger:     slog.Default(),
		tracer:     otel.GetTracerProvider().Tracer("github.com/formagent/a2a/server"),
	}
}

// WithLogger sets the logger for the Server.
func (s *Server) WithLogger(logger *slog.Logger) *Server {
	s.logger = logger
	return s
}

// WithTracer sets the tracer for the Server.
func (s *Server) WithTracer(tracer trace.Tracer) *Server {
	s.tracer = tracer
	return s
}

// WithMetrics sets the metrics for the Server.
func (s *Server) WithMetrics(metrics *Metrics) *Server {
	s.metrics = metrics
	return s
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get(a2a.AgentCardWellKnownPath, s.handleAgentCard)
	r.Post(a2a.RPCPath, s.handleRPC)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start begins serving in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	if s.Card.Name == "" || s.Card.Version == "" {
		return fmt.Errorf("agent card must have name and version")
	}
	if s.store == nil || s.dispatcher == nil {
		return fmt.Errorf("task store and dispatcher cannot be nil")
	}

	s.httpServer = &http.Server{
		Addr:    s.Addr,
		Handler: s.Handler(),
	}

	s.logger.InfoContext(ctx, "starting A2A server", "address", s.Addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "server error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleAgentCard serves the discovery document. The card URL reflects the
// scheme and host the caller reached us on, with the scheme-default port
// elided.
func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "a2a.agent_card")
	defer span.End()

	card := s.Card
	card.URL = requestBaseURL(r)

	w.Header().Set("Content-Type", "application/json")
	data, err := sonic.ConfigFastest.Marshal(card)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal agent card", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

// requestBaseURL reconstructs the externally visible base URL of a request.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	return scheme + "://" + host
}

// sendParams is the accepted parameter shape of tasks/send. Skill and Input
// form the structured path; Message carries the natural-language envelope.
// A request may also inline the input fields next to "skill"; when the
// "input" key is absent the whole params object serves as the input.
type sendParams struct {
	Skill   string         `json:"skill"`
	Input   map[string]any `json:"input"`
	Message *a2a.Message   `json:"message"`
}

// taskRefParams is the parameter shape of tasks/get and tasks/cancel.
type taskRefParams struct {
	ID string `json:"id"`
}

// handleRPC is the single JSON-RPC entry point. Every well-formed HTTP
// request gets a 200 with a JSON-RPC envelope; protocol failures are Error
// objects, never transport errors.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "a2a.rpc")
	defer span.End()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeResponse(ctx, w, "", a2a.NewErrorResponse("", a2a.NewJSONParseError()))
		return
	}

	var req a2a.Request
	if err := sonic.ConfigFastest.Unmarshal(body, &req); err != nil {
		s.logger.WarnContext(ctx, "unparsable RPC payload", "error", err)
		s.writeResponse(ctx, w, "", a2a.NewErrorResponse("", a2a.NewJSONParseError()))
		return
	}

	span.SetAttributes(attribute.String("a2a.method", req.Method))

	if req.JSONRPC != a2a.JSONRPCVersion {
		s.writeResponse(ctx, w, req.Method, a2a.NewErrorResponse(req.ID, a2a.NewInvalidRequestError("Invalid JSON-RPC version")))
		return
	}

	var resp a2a.Response
	switch req.Method {
	case a2a.MethodTasksSend:
		resp = s.handleTasksSend(ctx, req)
	case a2a.MethodTasksGet:
		resp = s.handleTasksGet(ctx, req)
	case a2a.MethodTasksCancel:
		resp = s.handleTasksCancel(ctx, req)
	default:
		resp = a2a.NewErrorResponse(req.ID, a2a.NewMethodNotFoundError(req.Method))
	}

	s.writeResponse(ctx, w, req.Method, resp)
}

// writeResponse serializes one JSON-RPC response. The HTTP status is always
// 200; the envelope carries success or failure.
func (s *Server) writeResponse(ctx context.Context, w http.ResponseWriter, method string, resp a2a.Response) {
	outcome := "success"
	if resp.Error != nil {
		outcome = "error"
		s.logger.WarnContext(ctx, "RPC error response", "method", method, "code", resp.Error.Code, "message", resp.Error.Message)
	}
	s.metrics.ObserveRPC(method, outcome)

	w.Header().Set("Content-Type", "application/json")
	data, err := sonic.ConfigFastest.Marshal(resp)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal response", "error", err)
		fallback := a2a.NewErrorResponse(resp.ID, a2a.NewInternalError("response serialization failed"))
		data, _ = sonic.ConfigFastest.Marshal(fallback)
	}
	w.Write(data)
}

// handleTasksSend runs a task synchronously and reports its terminal state.
func (s *Server) handleTasksSend(ctx context.Context, req a2a.Request) (resp a2a.Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "panic in tasks/send", "panic", r)
			resp = a2a.NewErrorResponse(req.ID, a2a.NewInternalError(fmt.Sprint(r)))
		}
	}()

	if len(req.Params) == 0 {
		return a2a.NewErrorResponse(req.ID, a2a.NewInvalidParamsError("params is required"))
	}

	var params sendParams
	if err := sonic.ConfigFastest.Unmarshal(req.Params, &params); err != nil {
		return a2a.NewErrorResponse(req.ID, a2a.NewInvalidParamsError("malformed params: "+err.Error()))
	}

	skillID := params.Skill
	input := params.Input
	switch {
	case skillID == "":
		// Natural-language envelope: route free text to the assistant.
		text := firstPartText(params.Message)
		if text == "" {
			return a2a.NewErrorResponse(req.ID, a2a.NewInvalidParamsError("skill or message is required"))
		}
		skillID = a2a.SkillAskAssistant
		input = map[string]any{"message": text}
	case input == nil:
		// Flat request: without an "input" key the whole params object is
		// the input, so {"skill": ..., "firstName": ...} keeps working.
		var raw map[string]any
		if err := sonic.ConfigFastest.Unmarshal(req.Params, &raw); err != nil {
			return a2a.NewErrorResponse(req.ID, a2a.NewInvalidParamsError("malformed params: "+err.Error()))
		}
		if _, present := raw["input"]; !present {
			input = raw
		}
	}
	if input == nil {
		input = map[string]any{}
	}

	task, err := s.dispatcher.Execute(ctx, skillID, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "task dispatch failed", "skill", skillID, "error", err)
		return a2a.NewErrorResponse(req.ID, a2a.NewInternalError(err.Error()))
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("a2a.task_id", task.ID))
	return a2a.NewResponse(req.ID, taskResult(task))
}

// handleTasksGet reports the current state of a task.
func (s *Server) handleTasksGet(ctx context.Context, req a2a.Request) a2a.Response {
	params, errResp := s.taskRef(req)
	if errResp != nil {
		return *errResp
	}

	task, err := s.store.Get(params.ID)
	if err != nil {
		return a2a.NewErrorResponse(req.ID, a2a.NewTaskNotFoundError("Task not found: "+params.ID))
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("a2a.task_id", task.ID))
	return a2a.NewResponse(req.ID, taskResult(task))
}

// handleTasksCancel flips a working task to canceled. Any task that cannot
// be canceled, including one already terminal or unknown, reports the same
// not-found-or-not-cancelable error without mutating the task.
func (s *Server) handleTasksCancel(ctx context.Context, req a2a.Request) a2a.Response {
	params, errResp := s.taskRef(req)
	if errResp != nil {
		return *errResp
	}

	if err := s.store.Cancel(params.ID); err != nil {
		s.logger.InfoContext(ctx, "cancel refused", "task_id", params.ID, "error", err)
		return a2a.NewErrorResponse(req.ID, a2a.NewTaskNotFoundError("Task not found or cannot be canceled: "+params.ID))
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("a2a.task_id", params.ID))
	return a2a.NewResponse(req.ID, map[string]any{
		"id":     params.ID,
		"status": string(a2a.TaskStateCanceled),
	})
}

// taskRef decodes the {"id": ...} params common to tasks/get and
// tasks/cancel.
func (s *Server) taskRef(req a2a.Request) (taskRefParams, *a2a.Response) {
	if len(req.Params) == 0 {
		resp := a2a.NewErrorResponse(req.ID, a2a.NewInvalidParamsError("params is required"))
		return taskRefParams{}, &resp
	}
	var params taskRefParams
	if err := sonic.ConfigFastest.Unmarshal(req.Params, &params); err != nil || params.ID == "" {
		resp := a2a.NewErrorResponse(req.ID, a2a.NewInvalidParamsError("id is required"))
		return taskRefParams{}, &resp
	}
	return params, nil
}

// taskResult shapes a task for the result field of a response:
// {"id", "status", "result": mapping, "artifacts": array}. The inner result
// mapping is the handler payload for completed tasks and a bare message for
// failed ones.
func taskResult(task *a2a.Task) map[string]any {
	result := map[string]any{
		"id":     task.ID,
		"status": string(task.Status),
	}

	switch {
	case len(task.Artifacts) > 0:
		result["result"] = task.Artifacts[0].Data
	case task.Result != nil:
		result["result"] = map[string]any{"message": firstPartText(task.Result)}
	}

	artifacts := make([]map[string]any, 0, len(task.Artifacts))
	for _, artifact := range task.Artifacts {
		artifacts = append(artifacts, map[string]any{
			"name":     artifact.Name,
			"mimeType": artifact.MimeType,
			"data":     artifact.Data,
		})
	}
	result["artifacts"] = artifacts
	return result
}

// firstPartText returns the text of the first part of a message, or "".
func firstPartText(m *a2a.Message) string {
	if m == nil {
		return ""
	}
	for _, part := range m.Parts {
		if part.Text != "" {
			return part.Text
		}
	}
	return ""
}

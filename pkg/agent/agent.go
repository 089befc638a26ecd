// Package agent implements the bounded conversation loop: it streams model
// output through the tag processor, reconciles plan, reasoning, tool queue,
// and status across iterations, dispatches tools, and emits the outbound
// event stream for one chat request.
package agent

import (
	"context"
	"log/slog"

	"github.com/loom-chat/loom/pkg/agent/prompt"
	"github.com/loom-chat/loom/pkg/events"
	"github.com/loom-chat/loom/pkg/llm"
	"github.com/loom-chat/loom/pkg/models"
	"github.com/loom-chat/loom/pkg/tags"
	"github.com/loom-chat/loom/pkg/tools"
)

const (
	// DefaultMaxIterations bounds the loop before a plan is known.
	DefaultMaxIterations = 3
	// DefaultExtraIterations is the slack granted on top of a declared
	// plan's total_steps.
	DefaultExtraIterations = 1
	// DefaultMaxHistoryMessages limits how much history enters the prompt.
	DefaultMaxHistoryMessages = 10

	eventBufferSize = 64
)

// Config tunes the conversation loop. Zero values fall back to defaults.
type Config struct {
	MaxIterations      int
	ExtraIterations    int
	MaxHistoryMessages int
}

// Agent drives chat requests. Safe for concurrent use: all per-request state
// lives in a State owned by the request.
type Agent struct {
	client     llm.Client
	registry   *tools.Registry
	dispatcher *tools.Dispatcher
	builder    *prompt.Builder
	tagConfig  tags.Config

	maxIterations   int
	extraIterations int
	maxHistory      int
}

// New creates an agent over the given model client and tool registry.
func New(client llm.Client, registry *tools.Registry, cfg Config) *Agent {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.ExtraIterations <= 0 {
		cfg.ExtraIterations = DefaultExtraIterations
	}
	if cfg.MaxHistoryMessages <= 0 {
		cfg.MaxHistoryMessages = DefaultMaxHistoryMessages
	}
	return &Agent{
		client:          client,
		registry:        registry,
		dispatcher:      tools.NewDispatcher(registry),
		builder:         prompt.NewBuilder(),
		tagConfig:       tags.DefaultConfig(),
		maxIterations:   cfg.MaxIterations,
		extraIterations: cfg.ExtraIterations,
		maxHistory:      cfg.MaxHistoryMessages,
	}
}

// ProcessMessage runs the conversation loop for one request and returns its
// outbound event stream. The channel is closed when the request finishes;
// the last event is always updated_context or error, never both. Cancelling
// ctx stops the loop, the model stream, and any in-flight tools.
func (a *Agent) ProcessMessage(ctx context.Context, message, systemPrompt string, convCtx *models.ConversationContext) <-chan events.Event {
	out := make(chan events.Event, eventBufferSize)
	go func() {
		defer close(out)
		a.run(ctx, message, systemPrompt, convCtx, out)
	}()
	return out
}

func (a *Agent) run(ctx context.Context, message, systemPrompt string, convCtx *models.ConversationContext, out chan<- events.Event) {
	emit := func(ev events.Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	state := NewState(convCtx, systemPrompt, message, a.maxIterations)
	defs := a.registry.Definitions()

	for iteration := 1; ; iteration++ {
		if iteration > state.MaxIterations {
			overrun := &IterationOverrunError{Max: state.MaxIterations}
			slog.Warn("Conversation loop exhausted its iteration budget", "max_iterations", state.MaxIterations)
			emit(events.Error(overrun.Error()))
			return
		}
		slog.Debug("Starting iteration", "iteration", iteration, "max_iterations", state.MaxIterations)

		messages := a.builder.BuildMessages(state.SystemPrompt, state.Summary(), state.RecentMessages(a.maxHistory), defs)
		tokens, errs := a.client.Stream(ctx, messages)
		processor := tags.NewProcessor(a.tagConfig)

		var fatal error
		for token := range tokens {
			for _, ev := range processor.Feed(token) {
				if err := a.handleEvent(ev, state, emit); err != nil {
					fatal = err
					break
				}
			}
			if fatal != nil {
				break
			}
		}
		if fatal == nil {
			for _, ev := range processor.Finish() {
				if err := a.handleEvent(ev, state, emit); err != nil {
					fatal = err
					break
				}
			}
		}
		if fatal == nil {
			if err, ok := <-errs; ok && err != nil {
				fatal = &TransportError{Err: err}
			}
		}
		if fatal != nil {
			slog.Error("Request failed", "iteration", iteration, "error", fatal)
			emit(events.Error(fatal.Error()))
			return
		}

		if state.Status == nil {
			missing := &MissingStatusError{}
			slog.Error("Model response carried no status section", "iteration", iteration)
			emit(events.Error(missing.Error()))
			return
		}

		// A declared plan can enlarge the iteration budget, never shrink it.
		if state.Plan != nil {
			if budget := state.Plan.TotalSteps + a.extraIterations; budget > state.MaxIterations {
				slog.Debug("Raising iteration budget to fit plan", "total_steps", state.Plan.TotalSteps, "max_iterations", budget)
				state.MaxIterations = budget
			}
		}

		switch state.Status.Status {
		case models.StatusComplete:
			if len(state.ToolQueue) > 0 {
				slog.Warn("Status is complete but tools are queued; discarding queue", "queued", len(state.ToolQueue))
				state.ToolQueue = nil
			}
			a.finish(state, emit)
			return
		case models.StatusClarify:
			a.finish(state, emit)
			return
		default: // continue
			if len(state.ToolQueue) > 0 {
				state.ToolResults = a.dispatcher.Dispatch(ctx, state.ToolQueue, func(ev events.Event) { emit(ev) })
			}
			state.PrepareForNextIteration()
		}
	}
}

// handleEvent routes one tag-processor event into state and the outbound
// stream. A returned error is fatal to the request.
func (a *Agent) handleEvent(ev tags.Event, state *State, emit func(events.Event) bool) error {
	switch ev.Tag {
	case tags.TagPlan:
		plan, err := models.ParsePlan([]byte(ev.Content))
		if err != nil {
			return err
		}
		state.UpdatePlan(plan)
	case tags.TagReasoning:
		reasoning, err := models.ParseReasoning([]byte(ev.Content))
		if err != nil {
			// A broken reasoning payload costs observability, not
			// correctness; skip it rather than killing the request.
			slog.Warn("Skipping unparseable reasoning section", "error", err)
			return nil
		}
		state.AddReasoning(reasoning.Thought)
		emit(events.Reasoning(reasoning.UserNotification))
	case tags.TagText:
		emit(events.Text(ev.Content))
	case tags.TagFullText:
		if ev.Content != "" {
			state.AddAIMessage(ev.Content)
		}
	case tags.TagTool:
		toolUse, err := models.ParseToolUse([]byte(ev.Content))
		if err != nil {
			return err
		}
		state.QueueTool(*toolUse)
	case tags.TagStatus:
		status, err := models.ParseStatus([]byte(ev.Content))
		if err != nil {
			return err
		}
		state.SetStatus(status)
	case tags.TagSummary:
		state.ApplySummary(ev.Content)
	case tags.TagDebug:
		slog.Debug("Raw model output captured", "bytes", len(ev.Content))
	case tags.TagNone:
		slog.Debug("Model produced content outside any section", "content", ev.Content)
	}
	return nil
}

func (a *Agent) finish(state *State, emit func(events.Event) bool) {
	emit(events.UpdatedContext(state.UpdatedContext()))
}

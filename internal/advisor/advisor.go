// Package advisor orchestrates AI-backed financial advice: prompt
// assembly, tool-call validation, response caching, and the confirmation
// protocol for state-mutating actions.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/Veraticus/pennywise/internal/memory"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/rules"
	"github.com/Veraticus/pennywise/internal/service"
)

// historyWindow is how many prior turns are sent with each completion.
const historyWindow = 6

// intentTable lists phrases that imply the user wants something done, not
// just explained. A hit forces the completion call to invoke a tool.
var intentTable = rules.Keywords("act",
	"want to", "save for", "buy", "spend", "remind me", "create",
	"track", "crypto", "set up", "start saving", "open a", "i spent",
	"i bought", "i paid", "log ", "record ", "add a",
)

// affirmTable lists phrases that confirm a previously proposed action.
// Affirmations must hit on word boundaries so "pressure" never reads as
// "sure".
var affirmTable = rules.Keywords("affirm",
	"yes", "confirm", "go ahead", "do it", "sounds good", "please do",
	"sure", "yep", "yeah", "ok", "okay", "let's do it",
)

// Advice is one advisory turn's output.
type Advice struct {
	// Response is the natural-language answer shown to the user.
	Response string
	// ToolCalls are validated actions released for execution.
	ToolCalls []model.ToolCall
	// PendingApproval names mutating tools the model wanted to invoke but
	// that are withheld until the user confirms.
	PendingApproval []string
	// FromCache marks responses served without a completion call.
	FromCache bool
}

// Advisor generates financial advice through a completion client.
// It is safe for concurrent use.
type Advisor struct {
	client  llm.Client
	cache   llm.AdviceCache
	storage service.Storage
	memory  *memory.Extractor
	logger  *slog.Logger
	catalog map[string]model.ToolDefinition

	updates sync.WaitGroup

	mu sync.Mutex
	// pending maps userID to the proposed mutating tool. It is mirrored
	// into conversation-state storage so a confirmation can arrive from a
	// later process.
	pending map[string]string
}

// New creates an advisor. The client may be nil, in which case only the
// deterministic surfaces (ambient insights, cost stats) work and
// GenerateAdvice fails with a configuration error.
func New(client llm.Client, cache llm.AdviceCache, storage service.Storage, logger *slog.Logger) *Advisor {
	return &Advisor{
		client:  client,
		cache:   cache,
		storage: storage,
		memory:  memory.NewExtractor(storage, logger),
		logger:  logger,
		catalog: llm.CatalogByName(),
		pending: make(map[string]string),
	}
}

// GenerateAdvice answers one user message given the financial snapshot and
// the conversation so far.
//
// The first turn of a conversation may be served from the response cache.
// Tool calls returned by the model are validated against the catalog;
// state-mutating calls are additionally withheld unless this advisor
// previously proposed that exact action and the new message affirms it.
// Completion failures are not retried.
func (a *Advisor) GenerateAdvice(ctx context.Context, userID, userMessage string, fc *model.UserFinancialContext, history []model.ChatMessage) (*Advice, error) {
	if a.client == nil {
		return nil, fmt.Errorf("no completion client configured: %w", common.ErrMissingConfig)
	}

	if len(history) == 0 {
		if cached, ok := a.cache.Get(userMessage, fc); ok {
			a.logger.Debug("advice served from cache", "user_id", userID)
			return &Advice{Response: cached, FromCache: true}, nil
		}
	}

	system := a.systemPrompt(ctx, userID, fc)

	turns := history
	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}
	messages := make([]model.ChatMessage, 0, len(turns)+1)
	messages = append(messages, turns...)
	messages = append(messages, model.ChatMessage{Role: model.RoleUser, Content: userMessage})

	choice := llm.ToolChoiceAuto
	if intentTable.Contains(userMessage) {
		choice = llm.ToolChoiceRequired
	}

	resp, err := a.client.Complete(ctx, llm.CompletionRequest{
		System:      system,
		Messages:    messages,
		Tools:       llm.Catalog(),
		ToolChoice:  choice,
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAdviceGeneration, err)
	}

	calls, err := llm.ParseToolCalls(resp.ToolCalls)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAdviceGeneration, err)
	}

	released, withheld := a.filterMutating(ctx, userID, userMessage, calls)

	text := llm.CleanMarkdownWrapper(resp.Text)
	if text == "" && len(withheld) > 0 {
		text = confirmationPrompt(withheld)
	}

	if len(resp.ToolCalls) == 0 {
		a.cache.Set(userMessage, fc, text, len(text)/4)
	} else {
		a.logger.Info("skipping cache for tool response",
			"user_id", userID,
			"tools", toolNames(calls))
	}

	// Memory extraction must never delay or fail the chat turn. Short-lived
	// callers wait for it with Flush before closing storage.
	a.updates.Add(1)
	go func() {
		defer a.updates.Done()
		a.memory.Update(context.WithoutCancel(ctx), userID, userMessage, text)
	}()

	return &Advice{
		Response:        text,
		ToolCalls:       released,
		PendingApproval: withheld,
	}, nil
}

// filterMutating releases non-mutating calls unconditionally. A mutating
// call passes only when it matches the action proposed to this user on the
// previous turn and the new message is an affirmation; otherwise it is
// withheld and recorded as the pending proposal. Proposals are persisted
// so the confirming turn may come from a different process.
func (a *Advisor) filterMutating(ctx context.Context, userID, userMessage string, calls []model.ToolCall) ([]model.ToolCall, []string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	proposed, tracked := a.pending[userID]
	if !tracked {
		proposed = a.loadPending(ctx, userID)
	}
	affirmed := isAffirmation(userMessage)

	var released []model.ToolCall
	var withheld []string
	next := proposed
	for _, call := range calls {
		def, ok := a.catalog[call.Name]
		if ok && !def.Mutating {
			released = append(released, call)
			continue
		}
		if affirmed && proposed == call.Name {
			released = append(released, call)
			next = ""
			continue
		}
		withheld = append(withheld, call.Name)
		next = call.Name
		a.logger.Info("withholding mutating tool pending confirmation",
			"user_id", userID,
			"tool", call.Name)
	}

	if next == "" {
		delete(a.pending, userID)
	} else {
		a.pending[userID] = next
	}
	if next != proposed {
		a.persistPending(ctx, userID, next)
	}
	return released, withheld
}

// loadPending recovers a proposal persisted by an earlier process.
func (a *Advisor) loadPending(ctx context.Context, userID string) string {
	state, err := a.storage.GetConversationState(ctx, userID)
	if err != nil {
		a.logger.Warn("pending proposal unavailable",
			"user_id", userID,
			"error", err)
		return ""
	}
	if state == nil {
		return ""
	}
	return state.PendingAction
}

// persistPending records the proposal durably. Failures are logged; the
// in-memory map stays authoritative for this process.
func (a *Advisor) persistPending(ctx context.Context, userID, action string) {
	state, err := a.storage.GetConversationState(ctx, userID)
	if err != nil {
		a.logger.Warn("pending proposal not persisted",
			"user_id", userID,
			"error", err)
		return
	}
	if state == nil {
		state = &service.ConversationState{UserID: userID}
	}
	if state.PendingAction == action {
		return
	}
	state.PendingAction = action
	if err := a.storage.UpdateConversationState(ctx, state); err != nil {
		a.logger.Warn("pending proposal not persisted",
			"user_id", userID,
			"error", err)
	}
}

// Flush blocks until in-flight memory updates finish. One-shot callers
// invoke it before closing storage so extracted facts aren't lost to
// process exit.
func (a *Advisor) Flush() {
	a.updates.Wait()
}

// isAffirmation requires a word-boundary hit so substrings don't confirm
// actions by accident.
func isAffirmation(message string) bool {
	for _, m := range affirmTable.AllMatches(message) {
		if m.Strength == rules.Exact {
			return true
		}
	}
	return false
}

// confirmationPrompt asks the user to approve the withheld actions.
func confirmationPrompt(withheld []string) string {
	actions := make([]string, 0, len(withheld))
	for _, name := range withheld {
		actions = append(actions, strings.ReplaceAll(name, "_", " "))
	}
	return fmt.Sprintf("I'd like to %s for you. Reply \"yes\" to confirm and I'll take care of it.",
		strings.Join(actions, " and "))
}

func toolNames(calls []model.ToolCall) []string {
	names := make([]string, 0, len(calls))
	for _, call := range calls {
		names = append(names, call.Name)
	}
	return names
}

// CostStats reports response-cache effectiveness.
func (a *Advisor) CostStats() llm.CacheStats {
	return a.cache.Stats()
}

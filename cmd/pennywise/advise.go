package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pennywise/internal/advisor"
	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/config"
	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
)

// historyKeep bounds the stored conversation history. Only the most recent
// turns are sent to the model anyway.
const historyKeep = 20

func adviseCmd() *cobra.Command {
	var (
		ambient bool
		reset   bool
	)

	cmd := &cobra.Command{
		Use:   "advise [message]",
		Short: "Ask the financial advisor a question",
		Long: `Sends one message to the AI advisor with your stored financial
snapshot attached. The conversation persists between invocations, so
state-changing actions the advisor proposes can be confirmed on your next
message; use --reset to start over.

With --ambient, prints a single proactive insight instead (no message
needed, and usually no model call).`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userID := currentUser()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fc, err := loadFinancialContext(ctx, store, userID)
			if err != nil {
				return err
			}

			cache := store.AdviceCache(llm.DefaultCacheTTL, llm.DefaultCacheCapacity)

			if ambient {
				client, clientErr := llm.NewClient(config.LoadLLMConfig())
				if clientErr != nil {
					// Ambient insights degrade instead of failing.
					slog.Debug("no completion client for ambient insight", "error", clientErr)
					client = nil
				}
				adv := advisor.New(client, cache, store, slog.Default())
				fmt.Println(adv.ProactiveInsight(ctx, fc))
				return nil
			}

			state, err := store.GetConversationState(ctx, userID)
			if err != nil {
				return fmt.Errorf("loading conversation: %w", err)
			}
			if state == nil {
				state = &service.ConversationState{UserID: userID}
			}
			if reset {
				state = &service.ConversationState{UserID: userID}
				if err := store.UpdateConversationState(ctx, state); err != nil {
					return fmt.Errorf("resetting conversation: %w", err)
				}
			}

			if len(args) == 0 {
				if reset {
					fmt.Println("Conversation reset.")
					return nil
				}
				return fmt.Errorf("provide a message, or use --ambient")
			}
			message := strings.Join(args, " ")

			client, err := llm.NewClient(config.LoadLLMConfig())
			if err != nil {
				return fmt.Errorf("configuring completion client: %w", err)
			}

			adv := advisor.New(client, cache, store, slog.Default())
			advice, err := adv.GenerateAdvice(ctx, userID, message, fc, state.History)
			if err != nil {
				return common.NewUserError("The advisor couldn't answer right now; try again in a moment", err)
			}

			fmt.Println(advice.Response)
			for _, call := range advice.ToolCalls {
				fmt.Printf("\n[action] %s %v\n", call.Name, call.Arguments)
			}
			for _, name := range advice.PendingApproval {
				fmt.Printf("\n[pending confirmation] %s\n", name)
			}

			// Wait for the memory extraction before the deferred Close.
			adv.Flush()

			// Persist the turn so the next invocation continues here. The
			// advisor may have written a pending proposal meanwhile, so
			// re-read before appending.
			state, err = store.GetConversationState(ctx, userID)
			if err != nil {
				return fmt.Errorf("saving conversation: %w", err)
			}
			if state == nil {
				state = &service.ConversationState{UserID: userID}
			}
			now := time.Now()
			state.History = common.AppendBounded(state.History,
				model.ChatMessage{Role: model.RoleUser, Content: message, Timestamp: now}, historyKeep)
			state.History = common.AppendBounded(state.History,
				model.ChatMessage{Role: model.RoleAssistant, Content: advice.Response, Timestamp: now}, historyKeep)
			if err := store.UpdateConversationState(ctx, state); err != nil {
				return fmt.Errorf("saving conversation: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ambient, "ambient", false, "print one proactive insight instead of chatting")
	cmd.Flags().BoolVar(&reset, "reset", false, "forget the conversation so far before this message")
	return cmd
}

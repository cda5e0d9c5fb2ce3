// Copyright 2025 The FormAgent Authors
// SPDX-License-Identifier: Apache-2.0

// Command a2aclient is the A2A client: it manages agent bookmarks, invokes
// skills on bookmarked agents, and runs a personal assistant chat backed by
// the local knowledge base.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/formagent/a2a/assistant"
	"github.com/formagent/a2a/client"
	"github.com/formagent/a2a/internal/config"
	"github.com/formagent/a2a/internal/knowledge"
	"github.com/formagent/a2a/internal/llmclient"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles what every subcommand needs.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	client *client.Client
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	bookmarks, err := client.OpenBookmarkStore(cfg.Client.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := bookmarks.SeedDefault(context.Background()); err != nil {
		return nil, fmt.Errorf("seed bookmarks: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		client: client.NewClient(bookmarks).WithLogger(logger),
	}, nil
}

func newRootCmd() *cobra.Command {
	var configPath string
	var a *app

	cmd := &cobra.Command{
		Use:           "a2aclient",
		Short:         "A2A agent client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(configPath)
			return err
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	cmd.AddCommand(
		newAgentsCmd(&a),
		newCardCmd(&a),
		newSendCmd(&a),
		newAskCmd(&a),
		newTaskCmd(&a),
		newBroadcastCmd(&a),
		newChatCmd(&a),
	)
	return cmd
}

func newAgentsCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage agent bookmarks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bookmarked agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			bookmarks, err := (*a).client.Bookmarks().All(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range bookmarks {
				status := "active"
				if !b.Active {
					status = "inactive"
				}
				fmt.Printf("%d\t%s\t%s\t@%s\t%s\n", b.ID, b.Name, b.BaseURL, b.Tag, status)
			}
			return nil
		},
	})

	var name, url, tag, description string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Bookmark an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := (*a).client.Bookmarks().Create(cmd.Context(), &client.Bookmark{
				Name:        name,
				BaseURL:     url,
				Tag:         tag,
				Description: description,
				Active:      true,
			})
			if err != nil {
				return err
			}
			fmt.Printf("added agent %d: %s\n", b.ID, b.Name)
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "agent display name")
	addCmd.Flags().StringVar(&url, "url", "", "agent base URL")
	addCmd.Flags().StringVar(&tag, "tag", "", "agent tag")
	addCmd.Flags().StringVar(&description, "description", "", "agent description")
	addCmd.MarkFlagRequired("name")
	addCmd.MarkFlagRequired("url")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return (*a).client.Bookmarks().Delete(cmd.Context(), id)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle a bookmark's active flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			active, err := (*a).client.Bookmarks().ToggleActive(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("agent %d active=%v\n", id, active)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "refresh <id>",
		Short: "Re-fetch an agent's card and update the bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			card, err := (*a).client.RefreshAgentInfo(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("refreshed: %s %s (%d skills)\n", card.Name, card.Version, len(card.Skills))
			return nil
		},
	})

	return cmd
}

func newCardCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "card <base-url>",
		Short: "Fetch an agent's discovery card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := (*a).client.FetchAgentCard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(card)
		},
	}
}

func newSendCmd(a **app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "send <agent-id> <skill-id>",
		Short: "Send a task to a bookmarked agent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			input := map[string]any{}
			if data != "" {
				if err := sonic.ConfigFastest.UnmarshalFromString(data, &input); err != nil {
					return fmt.Errorf("parse --data: %w", err)
				}
			}
			resp, err := (*a).client.ExecuteOnAgent(cmd.Context(), id, args[1], input)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "task input as a JSON object")
	return cmd
}

func newAskCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <base-url> <message>",
		Short: "Send free text to an agent's assistant skill",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := (*a).client.AskAgent(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
}

func newTaskCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Inspect or cancel tasks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <base-url> <task-id>",
		Short: "Fetch a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := (*a).client.GetTaskStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <base-url> <task-id>",
		Short: "Cancel a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := (*a).client.CancelTask(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	})

	return cmd
}

func newBroadcastCmd(a **app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "broadcast <tag> <skill-id>",
		Short: "Send the same task to every active agent with a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := map[string]any{}
			if data != "" {
				if err := sonic.ConfigFastest.UnmarshalFromString(data, &input); err != nil {
					return fmt.Errorf("parse --data: %w", err)
				}
			}
			results, err := (*a).client.ExecuteOnAgentsByTag(cmd.Context(), args[0], args[1], input)
			if err != nil {
				return err
			}
			for name, result := range results {
				if result.Err != nil {
					fmt.Printf("%s: error: %v\n", name, result.Err)
					continue
				}
				if !result.Response.IsSuccess() {
					fmt.Printf("%s: agent error: %s\n", name, result.Response.Error.Message)
					continue
				}
				fmt.Printf("%s: %s\n", name, result.Response.ResultMessage())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "task input as a JSON object")
	return cmd
}

func newChatCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive personal assistant session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := *a
			ctx := cmd.Context()

			base := knowledge.Load(app.cfg.Client.KnowledgeDir, app.logger)
			llm := llmclient.New(llmclient.Config{
				BaseURL: app.cfg.LLM.BaseURL,
				APIKey:  app.cfg.LLM.APIKey,
				Model:   app.cfg.LLM.Model,
			}, app.logger)

			asst := assistant.NewAssistant(llm, app.logger)
			asst.ContextFunc = func() (string, string) {
				agents, err := app.client.Bookmarks().AgentsContext(ctx)
				if err != nil {
					agents = "Agent list unavailable."
				}
				return base.FullContext(), agents
			}
			asst.ResolveAgentName = func(id uint) string {
				b, err := app.client.Bookmarks().ByID(ctx, id)
				if err != nil {
					return ""
				}
				return b.Name
			}

			fmt.Println("Personal assistant ready. Type 'exit' to quit.")
			scanner := bufio.NewScanner(os.Stdin)
			var history []assistant.ChatMessage
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				action := asst.ProcessCommand(ctx, history, line)
				reply := app.client.ExecuteAction(ctx, action)
				fmt.Println(reply)

				history = append(history,
					assistant.ChatMessage{Role: assistant.RoleUser, Content: line},
					assistant.ChatMessage{Role: assistant.RoleAssistant, Content: reply},
				)
			}
		},
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid agent id: %q", raw)
	}
	return uint(id), nil
}

func printJSON(v any) error {
	data, err := sonic.Config{SortMapKeys: true}.Froze().MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

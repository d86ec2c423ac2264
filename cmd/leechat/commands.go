package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lee-electronics/assistant/internal/client"
	"github.com/lee-electronics/assistant/internal/config"
	"github.com/lee-electronics/assistant/internal/conversation"
	"github.com/lee-electronics/assistant/internal/ui"
	"github.com/lee-electronics/assistant/pkg/logger"
	"github.com/lee-electronics/assistant/pkg/utils"
)

type options struct {
	baseURL  string
	timeout  time.Duration
	logLevel string
	logFile  string
}

func newRootCmd() *cobra.Command {
	opts := &options{
		baseURL:  client.DefaultBaseURL,
		logLevel: "warn",
	}
	cfg, err := config.LoadClient()
	if err != nil {
		logger.Warnf("ignoring invalid client configuration: %v", err)
	}
	opts.baseURL = cfg.BaseURL
	opts.timeout = cfg.Timeout

	root := &cobra.Command{
		Use:           "leechat",
		Short:         "Chat with the Lee Electronics AI assistant",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts, ui.HomePage)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.baseURL, "base-url", opts.baseURL, "backend address")
	flags.DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request timeout (0 waits indefinitely)")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file (the chat screen discards them otherwise)")

	root.AddCommand(
		newChatCmd(opts),
		newAskCmd(opts),
		newStatusCmd(opts),
		newEchoCmd(opts),
	)
	return root
}

func newChatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts, ui.ChatPage)
		},
	}
}

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeLog, err := newClient(cmd, opts)
			if err != nil {
				return err
			}
			defer closeLog()

			answer, err := c.SendMessage(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeLog, err := newClient(cmd, opts)
			if err != nil {
				return err
			}
			defer closeLog()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend: %s\n", c.BaseURL())
			if !c.TestConnection(cmd.Context()) {
				fmt.Fprintln(out, "Status:  Disconnected")
				return fmt.Errorf("backend unreachable at %s", c.BaseURL())
			}
			fmt.Fprintln(out, "Status:  Connected")

			if info := c.GetBackendStatus(cmd.Context()); info != nil {
				fmt.Fprintf(out, "Message: %s\n", info.Message)
				fmt.Fprintf(out, "AI model configured: %t\n", info.AIConfigured)
			}
			return nil
		},
	}
}

func newEchoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "echo [MESSAGE]",
		Short: "Round-trip a message through the diagnostic endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeLog, err := newClient(cmd, opts)
			if err != nil {
				return err
			}
			defer closeLog()

			message := conversation.EchoProbeMessage
			if len(args) > 0 {
				message = strings.Join(args, " ")
			}
			reply, err := c.TestEcho(cmd.Context(), message)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
}

func runChat(cmd *cobra.Command, opts *options, start ui.Page) error {
	c, closeLog, err := newClient(cmd, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session := conversation.NewSession(c, conversation.WithSessionLogger(logger.L()))
	defer session.Close()

	p := tea.NewProgram(ui.New(ctx, session, ui.WithStartPage(start)), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// newClient configures logging and builds the HTTP client. Logs go to
// --log-file when set; otherwise to stderr for one-shot commands and nowhere
// for the chat screen.
func newClient(cmd *cobra.Command, opts *options) (*client.Client, func(), error) {
	closeLog := func() {}

	var out io.Writer = cmd.ErrOrStderr()
	if cmd.Name() == "chat" || cmd.Parent() == nil {
		out = io.Discard
	}
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeLog = func() { _ = f.Close() }
	}
	logger.InitWithOutput(opts.logLevel, "text", out)

	c := client.New(opts.baseURL,
		client.WithHTTPClient(utils.NewHTTPClient(opts.timeout)),
		client.WithLogger(logger.L()),
	)
	return c, closeLog, nil
}

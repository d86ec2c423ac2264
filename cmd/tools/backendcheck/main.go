// Command backendcheck verifies a running backend before the chat client is
// pointed at it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lee-electronics/assistant/internal/client"
	"github.com/lee-electronics/assistant/internal/config"
	"github.com/lee-electronics/assistant/pkg/logger"
	"github.com/lee-electronics/assistant/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}

	baseURL := flag.String("base-url", cfg.Client.BaseURL, "backend address")
	question := flag.String("question", "What products do you offer?", "question for the real chat step")
	quick := flag.Duration("quick-timeout", 5*time.Second, "timeout for health and diagnostic steps")
	slow := flag.Duration("chat-timeout", 30*time.Second, "timeout for chat steps")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger.InitWithOutput(*logLevel, cfg.Log.Format, os.Stderr)

	c := client.New(*baseURL, client.WithHTTPClient(utils.NewHTTPClient(0)), client.WithLogger(logger.L()))
	checker := &checker{client: c, out: os.Stdout, quick: *quick, slow: *slow}

	if failed := checker.run(context.Background(), *question); failed > 0 {
		os.Exit(1)
	}
}

type checker struct {
	client *client.Client
	out    io.Writer
	quick  time.Duration
	slow   time.Duration
}

// run executes every step and returns how many failed.
func (c *checker) run(ctx context.Context, question string) int {
	fmt.Fprintln(c.out, "🔧 Testing Lee Electronics AI Chatbot Backend...")
	fmt.Fprintf(c.out, "Backend URL: %s\n", c.client.BaseURL())
	fmt.Fprintln(c.out, strings.Repeat("-", 50))

	steps := []struct {
		title   string
		timeout time.Duration
		fn      func(ctx context.Context) ([]string, error)
	}{
		{"Testing health check", c.quick, c.health},
		{"Testing test endpoint", c.quick, c.diagnostics},
		{"Testing chat functionality", c.slow, func(ctx context.Context) ([]string, error) { return c.ask(ctx, "test") }},
		{"Testing real chat message", c.slow, func(ctx context.Context) ([]string, error) { return c.ask(ctx, question) }},
	}

	failed := 0
	for i, step := range steps {
		fmt.Fprintf(c.out, "%d. %s...\n", i+1, step.title)

		stepCtx, cancel := context.WithTimeout(ctx, step.timeout)
		lines, err := step.fn(stepCtx)
		cancel()

		if err != nil {
			failed++
			fmt.Fprintf(c.out, "❌ %s\n\n", err)
			continue
		}
		fmt.Fprintln(c.out, "✅ passed")
		for _, line := range lines {
			fmt.Fprintf(c.out, "   %s\n", line)
		}
		fmt.Fprintln(c.out)
	}

	fmt.Fprintln(c.out, strings.Repeat("-", 50))
	if failed == 0 {
		fmt.Fprintln(c.out, "🎉 Backend testing complete!")
	} else {
		fmt.Fprintf(c.out, "%d of %d checks failed. Make sure the backend server is running.\n", failed, len(steps))
	}
	return failed
}

func (c *checker) health(ctx context.Context) ([]string, error) {
	h, err := c.client.Health(ctx)
	if err != nil {
		return nil, err
	}
	return []string{
		fmt.Sprintf("Status: %s", h.Status),
		fmt.Sprintf("Message: %s", h.Message),
	}, nil
}

func (c *checker) diagnostics(ctx context.Context) ([]string, error) {
	info := c.client.GetBackendStatus(ctx)
	if info == nil {
		return nil, fmt.Errorf("test endpoint unavailable")
	}
	return []string{
		fmt.Sprintf("Message: %s", info.Message),
		fmt.Sprintf("Gemini configured: %t", info.AIConfigured),
	}, nil
}

func (c *checker) ask(ctx context.Context, question string) ([]string, error) {
	answer, err := c.client.SendMessage(ctx, question)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("Response: %s", answer)}, nil
}

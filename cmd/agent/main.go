package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/calyptra/vertex-agent/agent"
	"github.com/calyptra/vertex-agent/internal/config"
	"github.com/calyptra/vertex-agent/internal/observability"
	"github.com/calyptra/vertex-agent/memory"
	"github.com/calyptra/vertex-agent/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := observability.NewLogger(cfg.LogLevel, cfg.LogPretty)

	// Load prior conversation if one exists.
	history, err := memory.LoadTranscript(cfg.TranscriptPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.TranscriptPath).Msg("failed to load persisted conversation")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []agent.Option{
		agent.WithKeyPath(cfg.KeyPath),
		agent.WithModel(cfg.Model),
		agent.WithRegion(cfg.Region),
		agent.WithTools(tools.Workspace()...),
		agent.WithLogger(log),
	}
	if cfg.MaxTurns > 0 {
		opts = append(opts, agent.WithMaxTurns(cfg.MaxTurns))
	}
	a, err := agent.New(ctx, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build agent")
	}
	if cfg.VarsFile != "" {
		if err := a.Store().LoadFile(cfg.VarsFile); err != nil {
			log.Fatal().Err(err).Str("path", cfg.VarsFile).Msg("failed to seed variables")
		}
	}

	// Graceful shutdown on Ctrl-C (SIGINT) / SIGTERM.
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Chat with Gemini (Ctrl-C to quit)")

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("[94mYou[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		if strings.TrimSpace(user) == "" {
			continue
		}

		popts := []agent.PromptOption{agent.WithHistory(history)}
		if cfg.SystemPrompt != "" {
			popts = append(popts, agent.WithSystemPrompt(cfg.SystemPrompt))
		}
		if cfg.TraceScope != "" {
			popts = append(popts, agent.WithTraceScope(cfg.TraceScope))
		}
		res, err := a.Prompt(ctx, user, popts...)
		if err != nil {
			if ctx.Err() != nil {
				break outer
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("[93mGemini[0m: %s\n", res.Text)

		history = res.Transcript
		if err := memory.SaveTranscript(cfg.TranscriptPath, history); err != nil {
			log.Warn().Err(err).Str("path", cfg.TranscriptPath).Msg("failed to save conversation")
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Msg("stdin read error")
	}
}

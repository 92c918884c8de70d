package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hwagent/internal/app"
	"hwagent/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const (
	version = "1.0.0"
	repoURL = "https://github.com/hwagent/hwagent"
)

var (
	rootNoTUI bool
	askMock   bool
)

func loadApplication(mock bool) (*app.Application, error) {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return nil, err
	}
	mockMode := mock || cfg.APIKey == ""
	return app.NewApplication(cfg, mockMode), nil
}

// askTerminal is the permission prompt for the non-TUI paths.
func askTerminal(req app.PermissionRequest) bool {
	fmt.Printf("\nAllow %s?\n  %s\n[y/N] ", req.Kind, req.Command)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// runPrompt sends one prompt and prints the event stream until the session
// settles.
func runPrompt(ctx context.Context, session *app.Session, prompt string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- session.Send(ctx, prompt)
	}()

	for event := range session.Events() {
		switch event.Kind {
		case app.EventMessageDelta:
			fmt.Print(event.Text)
		case app.EventToolStart:
			fmt.Printf("\n[%s]\n", event.Tool)
		case app.EventError:
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", event.Err)
			return <-errCh
		case app.EventIdle:
			fmt.Println()
			return <-errCh
		}
	}
	return <-errCh
}

func runREPL(application *app.Application) error {
	application.Gate.Ask = askTerminal
	session := application.NewSession()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("hwagent - hardware monitoring agent")
	if application.MockMode {
		fmt.Println("(mock mode: no API key configured)")
	}
	fmt.Println("Type 'help' for commands, 'exit' to quit.")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		action, prompt := app.RewriteBuiltin(line)
		switch action {
		case app.BuiltinQuit:
			return nil
		case app.BuiltinHelp:
			fmt.Println(app.HelpText)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		err := runPrompt(ctx, session, prompt)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func main() {
	root := &cobra.Command{
		Use:     "hwagent",
		Short:   "AI agent for system monitoring and background job management",
		Long:    "hwagent is an interactive agent that answers questions about CPU, memory, disk, network and processes, renders terminal plots, and manages long-running background jobs.\n\nUse without arguments for the TUI, or 'hwagent ask' for one-shot prompts.\n\nFor more information, visit: " + repoURL,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication(false)
			if err != nil {
				return err
			}
			defer application.Close()

			if rootNoTUI {
				return runREPL(application)
			}

			p := tea.NewProgram(tui.New(application))
			_, err = p.Run()
			return err
		},
	}
	root.Flags().BoolVarP(&rootNoTUI, "no-tui", "n", false, "Use a plain REPL instead of the TUI")

	askCmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send a single prompt and print the answer",
		Long:  "Send one prompt and stream the response to stdout.\n\nExamples:\n  - hwagent ask \"how much memory is free?\"\n  - hwagent ask --mock \"show cpu usage\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				cancel()
			}()

			application, err := loadApplication(askMock)
			if err != nil {
				return err
			}
			defer application.Close()
			application.Gate.Ask = askTerminal

			return runPrompt(ctx, application.NewSession(), args[0])
		},
	}
	askCmd.Flags().BoolVarP(&askMock, "mock", "m", false, "Use the mock chat client")
	root.AddCommand(askCmd)

	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "List background jobs from the local registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(app.DefaultConfigPath())
			if err != nil {
				return err
			}
			logger := app.NewLogger(app.DefaultLogWriter())
			registry := app.OpenRegistry(cfg.RegistryPath, logger)
			defer registry.Close()

			jobs := registry.List()
			if len(jobs) == 0 {
				fmt.Println("No background jobs.")
				return nil
			}
			fmt.Printf("%-12s %-8s %-10s %-8s %s\n", "JOB", "PID", "STATUS", "ALIVE", "COMMAND")
			for _, job := range jobs {
				alive := "-"
				if job.Status == app.JobRunning {
					alive = fmt.Sprintf("%v", registry.IsRunning(job.PID))
				}
				fmt.Printf("%-12s %-8d %-10s %-8s %s\n", job.JobID, job.PID, job.Status, alive, job.Command)
			}
			return nil
		},
	}
	root.AddCommand(jobsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

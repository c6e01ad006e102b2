// deployfix-local runs the classify, compose and launch flow once against a
// log file on disk. It exercises the same pipeline the service uses, without
// Railway, the database or the HTTP listener.
//
// Usage:
//
//	deployfix-local --log-file build.log --repo ~/src/shop [--out dir] [--ide code] [--no-launch]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/deployfix/internal/adapter/driven/artifact"
	"github.com/ericfisherdev/deployfix/internal/adapter/driven/ide"
	"github.com/ericfisherdev/deployfix/internal/application"
	"github.com/ericfisherdev/deployfix/internal/domain/model"
	"github.com/ericfisherdev/deployfix/internal/domain/port/driven"
)

// version is set at build time via -ldflags.
var version = "dev"

type localFlags struct {
	logFile    string
	repo       string
	out        string
	ide        string
	signatures string
	noLaunch   bool
	verbose    bool
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var flags localFlags

	cmd := &cobra.Command{
		Use:   "deployfix-local",
		Short: "Turn a local deployment log into a fix prompt and open it in the IDE",
		Long: `deployfix-local classifies a deployment log file against the failure
signatures, writes the prompt and error-detail files, and opens the
repository with both files in the IDE.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLocal(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.logFile, "log-file", "", "Path to the deployment log to analyze (required)")
	f.StringVar(&flags.repo, "repo", "", "Path to the repository the IDE should open (required)")
	f.StringVar(&flags.out, "out", filepath.Join(os.TempDir(), "deployfix"), "Directory for the prompt and error-detail files")
	f.StringVar(&flags.ide, "ide", "code", "IDE executable name or path")
	f.StringVar(&flags.signatures, "signatures", "", "YAML file replacing the built-in failure signatures")
	f.BoolVar(&flags.noLaunch, "no-launch", false, "Write the files but do not start the IDE")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Log pipeline steps to stderr")
	_ = cmd.MarkFlagRequired("log-file")
	_ = cmd.MarkFlagRequired("repo")

	return cmd
}

func runLocal(ctx context.Context, stdout, stderr io.Writer, flags localFlags) error {
	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	if err := validate(flags); err != nil {
		return err
	}

	rawLog, err := os.ReadFile(flags.logFile)
	if err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	signatures, err := application.LoadSignatures(flags.signatures)
	if err != nil {
		return err
	}

	var launcher driven.IDELauncher
	if !flags.noLaunch {
		launcher = ide.NewLauncher(flags.ide)
	}

	svc := application.NewIncidentService(
		nil, nil, "",
		application.NewClassifier(signatures),
		application.NewComposer(flags.out),
		artifact.NewFileWriter(),
		launcher,
		nil, nil,
		flags.repo,
	)

	event := model.DeploymentEvent{
		ID:     "local:" + filepath.Base(flags.logFile),
		Status: model.DeploymentStatusFailed,
		RawLog: string(rawLog),
	}

	_, incident, err := svc.Process(ctx, model.LastSeenState{}, event)
	if err != nil {
		return err
	}

	signature := incident.MatchedPattern
	if signature == "" {
		signature = "none"
	}
	fmt.Fprintf(stdout, "signature:    %s\n", signature)
	fmt.Fprintf(stdout, "category:     %s\n", incident.Category)
	fmt.Fprintf(stdout, "summary:      %s\n", incident.Summary)
	fmt.Fprintf(stdout, "prompt:       %s\n", incident.PromptPath)
	fmt.Fprintf(stdout, "error detail: %s\n", incident.ErrorDetailPath)

	switch {
	case incident.Launched:
		fmt.Fprintf(stdout, "ide:          opened %s\n", flags.ide)
	case incident.LaunchError != "":
		fmt.Fprintf(stdout, "ide:          not opened (%s)\n", incident.LaunchError)
	default:
		fmt.Fprintln(stdout, "ide:          skipped")
	}
	return nil
}

func validate(flags localFlags) error {
	var errs []error

	if strings.TrimSpace(flags.logFile) == "" {
		errs = append(errs, errors.New("--log-file is required"))
	} else if info, err := os.Stat(flags.logFile); err != nil {
		errs = append(errs, fmt.Errorf("--log-file: %w", err))
	} else if info.IsDir() {
		errs = append(errs, fmt.Errorf("--log-file: %s is a directory", flags.logFile))
	}

	if strings.TrimSpace(flags.repo) == "" {
		errs = append(errs, errors.New("--repo is required"))
	} else if info, err := os.Stat(flags.repo); err != nil {
		errs = append(errs, fmt.Errorf("--repo: %w", err))
	} else if !info.IsDir() {
		errs = append(errs, fmt.Errorf("--repo: %s is not a directory", flags.repo))
	}

	if strings.TrimSpace(flags.out) == "" {
		errs = append(errs, errors.New("--out must not be empty"))
	}
	if !flags.noLaunch && strings.TrimSpace(flags.ide) == "" {
		errs = append(errs, errors.New("--ide must not be empty unless --no-launch is set"))
	}

	return errors.Join(errs...)
}

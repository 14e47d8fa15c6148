package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"extidy/internal/app"
	"extidy/internal/config"
	"extidy/internal/domain"
	appErrors "extidy/internal/errors"
	"extidy/internal/infra/digest"
	"extidy/internal/infra/fs"
	"extidy/internal/infra/lock"
	"extidy/internal/logging"
	"extidy/internal/presentation"
	"extidy/internal/tui"
)

// ErrFilesFailed signals a completed run in which at least one file could
// not be transferred. The summary has already been shown when it is raised.
var ErrFilesFailed = errors.New("some files failed to transfer")

// NewRootCommand creates the root cobra command for extidy
func NewRootCommand(version string) *cobra.Command {
	cfg := &config.Config{}
	var configPath string
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "extidy",
		Short: "Organize files by extension",
		Long: `extidy scans a source directory for files with the given extensions and
copies or moves them into a destination directory.

Name conflicts in the destination are resolved by appending _1, _2, ...
before the extension; existing files are never overwritten. With --dedupe,
files whose content already exists in the destination are skipped.

Configuration is layered: .extidy.yaml (working directory, then home),
EXTIDY_* environment variables, then flags. Flags win.

Examples:
  # Preview which PDFs would move out of ~/Downloads
  extidy -s ~/Downloads -d ~/Documents/pdf -e pdf --dry-run

  # Copy images recursively, creating the destination
  extidy -s ~/inbox -d ~/pictures -e jpg,png,gif -r --create-dest

  # Move and skip files already present by content
  extidy -s ~/inbox -d ~/archive -e zip --move --dedupe --plain --yes`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(configPath); err != nil {
				return appErrors.Wrap(appErrors.InvalidConfig, "config", configPath, err)
			}
			if err := cfg.Finalize(); err != nil {
				return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
			}
			return run(cmd.Context(), cfg, assumeYes)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.SourceDir, "source", "s", "", "source directory to scan")
	flags.StringVarP(&cfg.DestDir, "dest", "d", "", "destination directory")
	flags.StringVarP(&cfg.RawExtensions, "ext", "e", "", "comma-separated extensions to match (e.g. pdf,jpg)")
	flags.BoolVar(&cfg.Move, "move", false, "move files instead of copying")
	flags.BoolVarP(&cfg.Recursive, "recursive", "r", false, "scan subdirectories too")
	flags.BoolVar(&cfg.CreateDest, "create-dest", false, "create the destination directory if missing")
	flags.BoolVar(&cfg.SkipDuplicates, "dedupe", false, "skip files whose content already exists in the destination")
	flags.BoolVar(&cfg.DryRun, "dry-run", false, "preview only, touch nothing")
	flags.BoolVar(&cfg.Plain, "plain", false, "plain output instead of the interactive UI")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt (plain mode)")
	flags.StringVar(&configPath, "config", "", "config file (default .extidy.yaml in cwd or home)")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, assumeYes bool) error {
	logger := logging.New(os.Stderr, cfg.Verbose)
	filesystem := fs.OSFS{}

	scanner := &app.Scanner{FS: filesystem, Logger: logger}
	previewer := &app.Previewer{Scanner: scanner}
	executor := &app.Executor{
		FS:     filesystem,
		Digest: digest.SHA512{},
		Lock:   lock.FlockLocker{},
		Logger: logger,
	}

	if cfg.Plain || cfg.DryRun {
		return runPlain(ctx, cfg, previewer, executor, assumeYes)
	}
	return runTUI(ctx, cfg, previewer, executor)
}

func runPlain(ctx context.Context, cfg *config.Config, previewer *app.Previewer, executor *app.Executor, assumeYes bool) error {
	printer := presentation.Printer{Writer: os.Stdout, Verbose: cfg.Verbose}

	plan, err := previewer.Preview(ctx, cfg.SourceDir, cfg.DestDir, cfg.Extensions, cfg.Recursive, !cfg.Move)
	if err != nil {
		return err
	}

	printer.PrintPreview(plan)
	if cfg.DryRun || len(plan.Entries) == 0 {
		return nil
	}

	if !assumeYes {
		confirmed, err := confirmTransfer(plan)
		if err != nil {
			return appErrors.Wrap(appErrors.Internal, "prompt", "", err)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	summary, err := executor.Run(ctx, plan, app.RunOptions{
		CreateDest:     cfg.CreateDest,
		SkipDuplicates: cfg.SkipDuplicates,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	printer.PrintSummary(summary)
	if !summary.OK() {
		return ErrFilesFailed
	}
	return nil
}

func runTUI(ctx context.Context, cfg *config.Config, previewer *app.Previewer, executor *app.Executor) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var program *tea.Program

	execute := func(plan domain.TransferPlan) tea.Cmd {
		return func() tea.Msg {
			executor.OnProgress = func(current, total int, path string) {
				program.Send(tui.TransferProgressMsg{Current: current, Total: total, File: path})
			}
			summary, err := executor.Run(runCtx, plan, app.RunOptions{
				CreateDest:     cfg.CreateDest,
				SkipDuplicates: cfg.SkipDuplicates,
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return tui.ErrorMsg{Err: err}
			}
			return tui.RunDoneMsg{Summary: summary}
		}
	}

	model := tui.NewModel(tui.Config{
		SourceDir: cfg.SourceDir,
		DestDir:   cfg.DestDir,
		DryRun:    cfg.DryRun,
		Verbose:   cfg.Verbose,
		Execute:   execute,
		Cancel:    cancel,
	})

	program = tea.NewProgram(model, tea.WithContext(ctx))

	go func() {
		plan, err := previewer.Preview(runCtx, cfg.SourceDir, cfg.DestDir, cfg.Extensions, cfg.Recursive, !cfg.Move)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: err})
			return
		}
		program.Send(tui.PlanReadyMsg{Plan: plan})
	}()

	finalModel, err := program.Run()
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "tui", "", err)
	}

	final, ok := finalModel.(tui.Model)
	if !ok {
		return nil
	}
	if final.Err != nil {
		return final.Err
	}
	if final.Phase == tui.PhaseDone && !final.Summary.OK() {
		return ErrFilesFailed
	}
	return nil
}

func confirmTransfer(plan domain.TransferPlan) (bool, error) {
	verb := "Move"
	if plan.Copy {
		verb = "Copy"
	}
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s %d files? [y/N]: ", verb, len(plan.Entries))
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}

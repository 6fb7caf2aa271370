// Command compass is a terminal viewer for GitLab milestone exports:
// filter issues by assignee, labels, and text, and compose them into a
// label-column board.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/config"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/engine"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/instance"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/loader"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/store"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/ui"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/watcher"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "compass: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "config file (default: user config dir)")
		scope      = flag.String("scope", "", "milestone scope key (default: derived from the export path)")
		altPrefix  = flag.String("alt-prefix", "", "alternative-assignee label prefix override")
		noWatch    = flag.Bool("no-watch", false, "disable automatic reload on export changes")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: compass [flags] [export.jsonl | directory]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("compass is interactive; stdout must be a terminal")
	}

	cfg := config.Load(*configPath)

	exportPath, err := resolveExportPath(flag.Arg(0))
	if err != nil {
		return err
	}
	if *scope == "" {
		*scope = deriveScope(exportPath)
	}

	statePath := cfg.StatePath
	if statePath == "" {
		statePath = config.DefaultStatePath()
	}
	lock, err := instance.Acquire(filepath.Dir(statePath))
	if err != nil {
		return err
	}
	defer lock.Release()

	st, err := store.Open(statePath)
	if err != nil {
		return fmt.Errorf("open state db: %w", err)
	}
	defer st.Close()

	// Prefix precedence: flag, then the stored project setting, then config.
	// Keyed by project, not milestone: every export under the same
	// directory shares one prefix.
	projectScope := deriveProjectScope(exportPath)
	prefix := cfg.AltAssigneePrefix
	if stored, ok := st.LoadAltPrefix(projectScope); ok {
		prefix = stored
	}
	if *altPrefix != "" {
		prefix = *altPrefix
		if err := st.SaveAltPrefix(projectScope, prefix); err != nil {
			return fmt.Errorf("save alt prefix: %w", err)
		}
	}

	col, err := loader.LoadCollection(exportPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", exportPath, err)
	}

	eng := engine.New(engine.Options{
		Scope:         *scope,
		AltPrefix:     prefix,
		SettleRetries: cfg.SettleRetries,
		SettleBackoff: cfg.SettleBackoff(),
		Persist:       st,
	})
	eng.Refresh(col)

	theme := ui.DefaultTheme(lipgloss.DefaultRenderer())
	program := tea.NewProgram(ui.NewModel(eng, theme), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if !*noWatch {
		w, err := watcher.New(exportPath, watcher.DefaultSettleDelay)
		if err != nil {
			return err
		}
		g.Go(func() error {
			err := w.Run(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		})
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-w.Changes:
					col, err := loader.LoadCollection(exportPath)
					if err != nil {
						// Half-written export; the next settle will retry
						continue
					}
					program.Send(ui.ReloadMsg{Col: col})
				}
			}
		})
	}

	_, runErr := program.Run()
	cancel()
	if err := g.Wait(); runErr == nil {
		runErr = err
	}
	return runErr
}

// resolveExportPath accepts an export file, a directory holding one, or
// nothing (current directory)
func resolveExportPath(arg string) (string, error) {
	if arg == "" {
		arg = "."
	}
	info, err := os.Stat(arg)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", arg, err)
	}
	if info.IsDir() {
		return loader.FindExportPath(arg)
	}
	return arg, nil
}

// deriveScope keys persisted state by the export's absolute path, so two
// milestones never share filters or profiles
func deriveScope(exportPath string) string {
	abs, err := filepath.Abs(exportPath)
	if err != nil {
		return exportPath
	}
	return abs
}

// deriveProjectScope keys project-wide settings by the export's parent
// directory: milestones exported into the same project directory share
// them
func deriveProjectScope(exportPath string) string {
	return filepath.Dir(deriveScope(exportPath))
}

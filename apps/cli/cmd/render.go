package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	renderFileFlag    string
	renderPurposeFlag string
	renderWatchFlag   bool
)

var renderCmd = &cobra.Command{
	Use:   "render [template]",
	Short: "Render a template",
	Long: `Render template text, given as an argument, a file (-f) or stdin (-f -).

With --purpose preview (the default) functions that reference other requests
reuse stored responses and only send a request that has never been sent.
With --purpose send, behavior="always" references send their request again.

--watch re-renders the file each time it is saved, always as a preview and
at most previewRate times per second.

Examples:
  hitref render 'Bearer {{ response(request="rq_login", path="$.token") }}'
  hitref render -f body.json --purpose send
  hitref render -f body.json --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: renderCommand,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFileFlag, "file", "f", "", "Template file, or - for stdin")
	renderCmd.Flags().StringVarP(&renderPurposeFlag, "purpose", "p", getEnvString("HITREF_PURPOSE", "preview"), "Render purpose: preview or send (env: HITREF_PURPOSE)")
	renderCmd.Flags().BoolVar(&renderWatchFlag, "watch", false, "Re-render the template file whenever it changes")
}

func readTemplate(args []string) (string, error) {
	switch {
	case len(args) == 1 && renderFileFlag != "":
		return "", fmt.Errorf("give either a template argument or --file, not both")
	case len(args) == 1:
		return args[0], nil
	case renderFileFlag == "-":
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	case renderFileFlag != "":
		data, err := os.ReadFile(renderFileFlag)
		return string(data), err
	default:
		return "", fmt.Errorf("no template given")
	}
}

func renderCommand(cmd *cobra.Command, args []string) error {
	purpose, err := template.ParsePurpose(renderPurposeFlag)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	if renderWatchFlag {
		if renderFileFlag == "" || renderFileFlag == "-" {
			return withExitCode(ExitUsageError, fmt.Errorf("--watch requires --file"))
		}
		if purpose == template.PurposeSend && cmd.Flags().Changed("purpose") {
			return withExitCode(ExitUsageError, fmt.Errorf("--watch always renders previews"))
		}
		purpose = template.PurposePreview
	}

	input, err := readTemplate(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderOnce := func(text string) {
		out := a.engine.Render(ctx, text, purpose)
		a.formatter.FormatRendered(out, a.engine.Unresolved(out))
	}
	renderOnce(input)

	if !renderWatchFlag {
		return nil
	}
	return watchTemplate(ctx, cmd, a, renderFileFlag, renderOnce)
}

// watchTemplate re-renders path after it is written. Bursts of writes are
// debounced and renders are throttled to the configured preview rate.
func watchTemplate(ctx context.Context, cmd *cobra.Command, a *app, path string, render func(string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Editors often replace files instead of writing them, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	previewRate := a.cfg.PreviewRate
	if previewRate <= 0 {
		previewRate = 1
	}
	limiter := rate.NewLimiter(rate.Limit(previewRate), 1)

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %s for changes... (press Ctrl+C to stop)\n\n", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				debounce.Reset(WatchDebounceDelay)
			}

		case <-debounce.C:
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			data, err := os.ReadFile(abs)
			if err != nil {
				a.formatter.FormatError(err)
				continue
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", strings.Repeat("-", 40))
			render(string(data))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.formatter.FormatError(fmt.Errorf("watcher error: %w", err))
		}
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/franz/tunedex/internal/util"
)

var syncCmd = &cobra.Command{
	Use:   "sync [ROOT_ID]",
	Short: "Sync roots into the catalog",
	Long: `Scan one root (or all connected roots with --all) and catalog anything
new. Files already cataloged are skipped without being read; a file is
re-read only when cover art appeared next to it since the last sync.

With --watch, keeps running and re-syncs a local root whenever its
directory tree changes.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Bool("all", false, "sync every connected root")
	syncCmd.Flags().Bool("watch", false, "keep watching a local root for changes")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	watch, _ := cmd.Flags().GetBool("watch")

	if all == (len(args) == 1) {
		return fmt.Errorf("pass exactly one ROOT_ID, or --all")
	}
	if watch && all {
		return fmt.Errorf("--watch applies to a single local root")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	e := newEngine(st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := newProgress()

	start := time.Now()
	if all {
		results, err := e.SyncAll(ctx, progress.update)
		progress.finish()
		if err != nil {
			return err
		}
		var added, skipped, failed int
		for _, r := range results {
			added += r.Added
			skipped += r.Skipped
			failed += r.Failed
		}
		util.SuccessLog("Synced %d roots in %v: %d added, %d skipped, %d failed",
			len(results), time.Since(start).Round(time.Millisecond), added, skipped, failed)
		return nil
	}

	rootID := args[0]
	if _, err := e.SyncRoot(ctx, rootID, progress.update); err != nil {
		progress.finish()
		return err
	}
	progress.finish()

	if watch {
		return e.Watch(ctx, rootID, progress.update)
	}
	return nil
}

// progressRenderer drives a terminal progress bar from integer-percent
// callbacks. Off-terminal (piped, redirected) it stays silent.
type progressRenderer struct {
	bar *progressbar.ProgressBar
}

func newProgress() *progressRenderer {
	if !util.IsTerminal(os.Stdout.Fd()) || util.IsQuiet() {
		return &progressRenderer{}
	}
	return &progressRenderer{
		bar: progressbar.NewOptions(100,
			progressbar.OptionSetDescription("Syncing"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		),
	}
}

func (p *progressRenderer) update(percent, processed, total int) {
	if p.bar != nil {
		p.bar.Set(percent)
	}
}

func (p *progressRenderer) finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

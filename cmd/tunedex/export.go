package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/franz/tunedex/internal/util"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export the catalog to a portable JSON document",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Restore a catalog export",
	Long: `Restore roots, tracks, artist images, playlists and history from an
export document. Local roots come back disconnected; reconnect them
before syncing.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := st.Export(f); err != nil {
		return err
	}
	if info, err := f.Stat(); err == nil {
		util.SuccessLog("Exported catalog to %s (%s)", args[0], humanize.Bytes(uint64(info.Size())))
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening export file: %w", err)
	}
	defer f.Close()

	if err := st.Import(f); err != nil {
		return err
	}

	roots, err := st.ListRoots()
	if err != nil {
		return err
	}
	tracks, err := st.AllTracks()
	if err != nil {
		return err
	}
	util.SuccessLog("Imported %d roots and %d tracks", len(roots), len(tracks))
	util.InfoLog("Local roots are disconnected; run 'tunedex root reconnect <id>' to restore access")
	return nil
}

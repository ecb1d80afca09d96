package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coverCmd = &cobra.Command{
	Use:   "cover FINGERPRINT",
	Short: "Print a viewable file path for a track's cover art",
	Long: `Materialize a track's stored cover art into a process-local temp file
and print its path. The file does not survive across runs; the stored
blob is the durable copy.`,
	Args: cobra.ExactArgs(1),
	RunE: runCover,
}

func init() {
	rootCmd.AddCommand(coverCmd)
}

func runCover(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	path, err := st.CoverFile(args[0])
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("track %s has no cover art", args[0])
	}
	fmt.Println(path)
	return nil
}

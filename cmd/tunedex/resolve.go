package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve FINGERPRINT",
	Short: "Print a playable file path for a cataloged track",
	Long: `Re-locate a track's physical file under its root and print an on-disk
path. Remote tracks are downloaded into the cache directory first.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	path, err := newEngine(st).ResolveTrackFile(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

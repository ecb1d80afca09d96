package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/franz/tunedex/internal/match"
	"github.com/franz/tunedex/internal/util"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Resolve free-text track lines against the catalog",
	Long: `Read track lines from stdin (or a file with -f) and resolve each one
against the catalog. Lines may be bare titles or "Title - Artist"; the
last " - " separates title from artist, so titles containing the
separator still parse.

Exact mode requires identical titles after width and case folding. With
--fuzzy, substring matches qualify and Traditional and Simplified
Chinese compare equal.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringP("file", "f", "", "read lines from a file instead of stdin")
	matchCmd.Flags().Bool("fuzzy", false, "allow substring and script-folded matches")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	fuzzy, _ := cmd.Flags().GetBool("fuzzy")

	var text []byte
	var err error
	if file != "" {
		text, err = os.ReadFile(file)
	} else {
		text, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	tracks, err := st.AllTracks()
	if err != nil {
		return err
	}

	res := match.NewMatcher(tracks).MatchText(string(text), fuzzy)

	for _, t := range res.Matched {
		fmt.Printf("%s\t%s - %s\n", t.Fingerprint, t.Name, t.Artist)
	}
	if len(res.Unmatched) > 0 {
		util.WarnLog("%d lines unmatched:", len(res.Unmatched))
		for _, line := range res.Unmatched {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
	}
	util.InfoLog("Matched %d of %d lines", len(res.Matched), len(res.Matched)+len(res.Unmatched))
	return nil
}

package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/franz/tunedex/internal/util"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show playback history, most recent first",
	RunE:  runHistory,
}

var historyLogCmd = &cobra.Command{
	Use:   "log FINGERPRINT",
	Short: "Record a playback",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryLog,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of entries to show (0 for all)")
	historyCmd.AddCommand(historyLogCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := st.History(limit)
	if err != nil {
		return err
	}

	for _, e := range entries {
		when := humanize.Time(time.Unix(e.PlayedAt, 0))
		track, err := st.TrackByFingerprint(e.Fingerprint)
		if err != nil {
			return err
		}
		if track == nil {
			fmt.Printf("%-20s %s (not in catalog)\n", when, e.Fingerprint)
			continue
		}
		fmt.Printf("%-20s %s - %s\n", when, track.Name, track.Artist)
	}
	return nil
}

func runHistoryLog(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	track, err := st.TrackByFingerprint(args[0])
	if err != nil {
		return err
	}
	if track == nil {
		return fmt.Errorf("no track with fingerprint %s", args[0])
	}
	if err := st.AppendHistory(args[0], time.Now().Unix()); err != nil {
		return err
	}
	util.SuccessLog("Logged play of %s - %s", track.Name, track.Artist)
	return nil
}

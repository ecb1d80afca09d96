package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/franz/tunedex/internal/store"
	"github.com/franz/tunedex/internal/util"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Manage playlists (ordered lists of track fingerprints)",
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create an empty playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistCreate,
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List playlists",
	RunE:  runPlaylistList,
}

var playlistAddCmd = &cobra.Command{
	Use:   "add PLAYLIST_ID FINGERPRINT...",
	Short: "Append tracks to a playlist",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPlaylistAdd,
}

var playlistMoveCmd = &cobra.Command{
	Use:   "move PLAYLIST_ID FINGERPRINT [BEFORE_FINGERPRINT]",
	Short: "Move a track before another, or to the end",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runPlaylistMove,
}

var playlistShowCmd = &cobra.Command{
	Use:   "show PLAYLIST_ID",
	Short: "Show a playlist's tracks in order",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistShow,
}

var playlistRemoveCmd = &cobra.Command{
	Use:   "remove PLAYLIST_ID [FINGERPRINT]",
	Short: "Remove a track from a playlist, or the whole playlist",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPlaylistRemove,
}

func init() {
	playlistCmd.AddCommand(playlistCreateCmd, playlistListCmd, playlistAddCmd,
		playlistMoveCmd, playlistShowCmd, playlistRemoveCmd)
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylistCreate(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p := &store.Playlist{ID: uuid.NewString(), Name: args[0]}
	if err := st.CreatePlaylist(p); err != nil {
		return err
	}
	util.SuccessLog("Created playlist %q (%s)", p.Name, p.ID)
	return nil
}

func runPlaylistList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	playlists, err := st.ListPlaylists()
	if err != nil {
		return err
	}
	for _, p := range playlists {
		fps, err := st.PlaylistFingerprints(p.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s (%d tracks)\n", p.ID, p.Name, len(fps))
	}
	return nil
}

func runPlaylistAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	added := 0
	for _, fp := range args[1:] {
		track, err := st.TrackByFingerprint(fp)
		if err != nil {
			return err
		}
		if track == nil {
			util.WarnLog("No track with fingerprint %s", fp)
			continue
		}
		if err := st.AppendPlaylistTrack(args[0], fp); err != nil {
			return err
		}
		added++
	}
	util.SuccessLog("Added %d tracks", added)
	return nil
}

func runPlaylistMove(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	before := ""
	if len(args) == 3 {
		before = args[2]
	}
	return st.MovePlaylistTrack(args[0], args[1], before)
}

func runPlaylistShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.GetPlaylist(args[0])
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("no playlist %s", args[0])
	}
	fps, err := st.PlaylistFingerprints(p.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d tracks)\n", p.Name, len(fps))
	for i, fp := range fps {
		track, err := st.TrackByFingerprint(fp)
		if err != nil {
			return err
		}
		if track == nil {
			fmt.Printf("%3d. %s (not in catalog)\n", i+1, fp)
			continue
		}
		duration := ""
		if track.DurationMS > 0 {
			duration = " " + (time.Duration(track.DurationMS) * time.Millisecond).Round(time.Second).String()
		}
		fmt.Printf("%3d. %s - %s%s (%s)\n", i+1, track.Name, track.Artist, duration,
			humanize.Bytes(uint64(track.SizeBytes)))
	}
	return nil
}

func runPlaylistRemove(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 2 {
		if err := st.RemovePlaylistTrack(args[0], args[1]); err != nil {
			return err
		}
		util.SuccessLog("Removed track from playlist")
		return nil
	}
	if err := st.DeletePlaylist(args[0]); err != nil {
		return err
	}
	util.SuccessLog("Removed playlist")
	return nil
}

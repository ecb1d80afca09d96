package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/franz/tunedex/internal/store"
	"github.com/franz/tunedex/internal/util"
)

var rootsCmd = &cobra.Command{
	Use:   "root",
	Short: "Manage scan roots (local directories and WebDAV remotes)",
}

var rootAddCmd = &cobra.Command{
	Use:   "add [PATH]",
	Short: "Register a local directory or WebDAV remote as a scan root",
	Long: `Register a new scan root. A root is either a local directory:

  tunedex root add ~/Music

or a WebDAV remote:

  tunedex root add --webdav https://dav.example.com/remote.php/dav \
      --path /music --user alice --pass secret

A root is one or the other, never both.`,
	RunE: runRootAdd,
}

var rootListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered roots",
	RunE:  runRootList,
}

var rootRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a root and every track it produced",
	Args:  cobra.ExactArgs(1),
	RunE:  runRootRemove,
}

var rootReconnectCmd = &cobra.Command{
	Use:   "reconnect ID",
	Short: "Re-verify access to a disconnected root",
	Args:  cobra.ExactArgs(1),
	RunE:  runRootReconnect,
}

var rootTestCmd = &cobra.Command{
	Use:   "test ID",
	Short: "Probe a root's source without syncing",
	Args:  cobra.ExactArgs(1),
	RunE:  runRootTest,
}

func init() {
	rootAddCmd.Flags().String("name", "", "display name (defaults to path basename)")
	rootAddCmd.Flags().String("webdav", "", "WebDAV base URL")
	rootAddCmd.Flags().String("path", "", "sub-path on the WebDAV server")
	rootAddCmd.Flags().String("user", "", "WebDAV username")
	rootAddCmd.Flags().String("pass", "", "WebDAV password")

	rootsCmd.AddCommand(rootAddCmd, rootListCmd, rootRemoveCmd, rootReconnectCmd, rootTestCmd)
	rootCmd.AddCommand(rootsCmd)
}

func runRootAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	name, _ := cmd.Flags().GetString("name")
	baseURL, _ := cmd.Flags().GetString("webdav")

	r := &store.Root{ID: uuid.NewString(), Connected: true}
	if baseURL != "" {
		if len(args) > 0 {
			return fmt.Errorf("a root is either a directory or a WebDAV remote, not both")
		}
		r.Kind = store.RootWebDAV
		r.BaseURL = baseURL
		r.Path, _ = cmd.Flags().GetString("path")
		r.Username, _ = cmd.Flags().GetString("user")
		r.Password, _ = cmd.Flags().GetString("pass")
		if name == "" {
			name = baseURL
		}
	} else {
		if len(args) != 1 {
			return fmt.Errorf("directory path required (or --webdav URL)")
		}
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		r.Kind = store.RootLocal
		r.Path = abs
		if name == "" {
			name = filepath.Base(abs)
		}
	}
	r.Name = name

	e := newEngine(st)
	if err := st.InsertRoot(r); err != nil {
		return err
	}
	// Probe right away so a typo surfaces at registration time
	res, err := e.TestRoot(context.Background(), r.ID)
	if err != nil {
		return err
	}
	if !res.Success {
		util.WarnLog("Root registered but unreachable: %s", res.Message)
		if err := st.SetRootConnected(r.ID, false); err != nil {
			return err
		}
	}

	util.SuccessLog("Added %s root %q (%s)", r.Kind, r.Name, r.ID)
	return nil
}

func runRootList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	roots, err := st.ListRoots()
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		fmt.Println("No roots registered. Add one with: tunedex root add <path>")
		return nil
	}

	for _, r := range roots {
		state := "connected"
		if !r.Connected {
			state = "DISCONNECTED"
		}
		location := r.Path
		if r.Kind == store.RootWebDAV {
			location = r.BaseURL + r.Path
		}
		lastSync := "never"
		if r.LastSync > 0 {
			lastSync = humanize.Time(time.Unix(r.LastSync, 0))
		}
		fmt.Printf("%s  %s (%s, %s)\n", r.ID, r.Name, r.Kind, state)
		fmt.Printf("    %s\n", location)
		fmt.Printf("    %s tracks of %s files, last sync %s\n",
			humanize.Comma(int64(r.TrackCount)), humanize.Comma(int64(r.TotalFiles)), lastSync)
	}
	return nil
}

func runRootRemove(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	// Drop the download cache while the root record still exists
	if err := newEngine(st).ClearRootCache(args[0]); err != nil {
		util.WarnLog("Failed to clear download cache: %v", err)
	}

	deleted, err := st.DeleteRoot(args[0])
	if err != nil {
		return err
	}
	util.SuccessLog("Removed root and %d tracks", deleted)
	return nil
}

func runRootReconnect(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	e := newEngine(st)
	res, err := e.TestRoot(context.Background(), args[0])
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("root still unreachable: %s", res.Message)
	}
	if err := st.SetRootConnected(args[0], true); err != nil {
		return err
	}
	util.SuccessLog("Root reconnected")
	return nil
}

func runRootTest(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := newEngine(st).TestRoot(context.Background(), args[0])
	if err != nil {
		return err
	}
	if res.Success {
		util.SuccessLog("%s", res.Message)
	} else {
		util.ErrorLog("%s", res.Message)
	}
	return nil
}

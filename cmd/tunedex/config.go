package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/franz/tunedex/internal/store"
	"github.com/franz/tunedex/internal/sync"
	"github.com/franz/tunedex/internal/util"
)

// openStore applies the global log flags and opens the catalog database
func openStore() (*store.Store, error) {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	dbPath := viper.GetString("db")
	util.DebugLog("Opening database: %s", dbPath)

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

func newEngine(st *store.Store) *sync.Engine {
	return sync.NewEngine(st, viper.GetString("cache-dir"))
}

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// AppContext carries the per-invocation application state resolved by the
// root command: logger, reviewer identity, and the data directory.
type AppContext struct {
	Logger   *zap.SugaredLogger
	Reviewer string
	DataDir  string
}

// globalAppContext backs getAppContext for commands that run outside the
// cobra tree (tests, the API job runner).
var globalAppContext *AppContext

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if globalAppContext != nil {
		return globalAppContext
	}
	return &AppContext{
		Logger:   zap.NewNop().Sugar(),
		Reviewer: reviewer,
		DataDir:  dataDir,
	}
}

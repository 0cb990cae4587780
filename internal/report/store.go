package report

import (
	"fmt"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/config"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// NewStore builds the configured report store.
func NewStore(cfg config.OutputConfig, log *logging.Logger) (core.ReportStore, error) {
	switch cfg.Store {
	case "", "fs":
		return NewFSStore(cfg.Dir, log), nil
	case "sqlite":
		return NewSQLiteStore(cfg.DBPath, log)
	default:
		return nil, core.ErrValidation("UNKNOWN_STORE", fmt.Sprintf("unknown report store %q", cfg.Store))
	}
}

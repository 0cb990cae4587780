package report

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// FSStore writes rendered reports into a directory. Writes are atomic, so
// a crash never leaves a half-written report behind.
type FSStore struct {
	dir string
	log *logging.Logger
	now func() time.Time
}

// NewFSStore builds a store rooted at dir.
func NewFSStore(dir string, log *logging.Logger) *FSStore {
	if log == nil {
		log = logging.NewNop()
	}
	return &FSStore{dir: dir, log: log, now: time.Now}
}

// Save renders the report and writes it under the store directory,
// returning the full path of the written file.
func (s *FSStore) Save(ctx context.Context, report *core.ReportPayload, format core.ReportFormat) (string, error) {
	data, err := Render(report, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", core.ErrPersistence("DIR_CREATE_FAILED", "creating report directory").WithCause(err)
	}

	path := filepath.Join(s.dir, Filename(report.Title, format, s.now()))
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return "", core.ErrPersistence("WRITE_FAILED", "writing report file").WithCause(err)
	}

	s.log.Debug("report written", "path", path, "bytes", len(data))
	return path, nil
}

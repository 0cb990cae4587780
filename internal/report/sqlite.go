package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

const reportSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	audience   TEXT NOT NULL DEFAULT '',
	format     TEXT NOT NULL,
	content    BLOB NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

// SQLiteStore persists rendered reports in a SQLite database.
type SQLiteStore struct {
	dbPath string
	db     *sql.DB
	log    *logging.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// schema exists.
func NewSQLiteStore(dbPath string, log *logging.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logging.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, core.ErrPersistence("DIR_CREATE_FAILED", "creating database directory").WithCause(err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, core.ErrPersistence("DB_OPEN_FAILED", "opening report database").WithCause(err)
	}
	if _, err := db.Exec(reportSchema); err != nil {
		_ = db.Close()
		return nil, core.ErrPersistence("DB_MIGRATE_FAILED", "creating report schema").WithCause(err)
	}

	return &SQLiteStore{dbPath: dbPath, db: db, log: log, now: time.Now}, nil
}

// Save renders the report and inserts it as a new row, returning a
// locator of the form path#id.
func (s *SQLiteStore) Save(ctx context.Context, report *core.ReportPayload, format core.ReportFormat) (string, error) {
	data, err := Render(report, format)
	if err != nil {
		return "", err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (title, audience, format, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		report.Title, string(report.Audience), string(format), data, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", core.ErrPersistence("INSERT_FAILED", "inserting report row").WithCause(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", core.ErrPersistence("INSERT_FAILED", "reading inserted report id").WithCause(err)
	}

	s.log.Debug("report stored", "id", id, "bytes", len(data))
	return fmt.Sprintf("%s#%d", s.dbPath, id), nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

package huffd

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// artifact is one stored compression run: the statistics plus the
// serialized archive.
type artifact struct {
	digest         string
	created        time.Time
	tokens         int
	distinctTokens int
	inputBytes     int64
	outputBytes    int64
	bitLen         int64
	ratio          float64
	elapsedMS      int64
	archive        []byte
}

func (app *App) initDB() error {
	db, err := sql.Open("sqlite3", app.config.DBPath)
	if err != nil {
		return fmt.Errorf("opening artifact store: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS
			artifacts
		(
			digest TEXT NOT NULL PRIMARY KEY,
			created TEXT NOT NULL,
			tokens INTEGER NOT NULL,
			distinct_tokens INTEGER NOT NULL,
			input_bytes INTEGER NOT NULL,
			output_bytes INTEGER NOT NULL,
			bit_len INTEGER NOT NULL,
			ratio REAL NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			archive BLOB NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("creating artifact table: %w", err)
	}

	app.db = db
	return nil
}

// getArtifact returns the stored artifact for digest, or (nil, nil) when
// none exists. Hits fill the cache.
func (app *App) getArtifact(digest string) (*artifact, error) {
	if a, ok := app.cache.Get(digest); ok {
		tracer().Debugf("[getArtifact] %v served from cache", digest)
		return a, nil
	}

	row := app.db.QueryRow(`
	SELECT
		digest,
		created,
		tokens,
		distinct_tokens,
		input_bytes,
		output_bytes,
		bit_len,
		ratio,
		elapsed_ms,
		archive
	FROM
		artifacts
	WHERE
		digest = ?`, digest)

	a := artifact{}
	var created string

	err := row.Scan(
		&a.digest,
		&created,
		&a.tokens,
		&a.distinctTokens,
		&a.inputBytes,
		&a.outputBytes,
		&a.bitLen,
		&a.ratio,
		&a.elapsedMS,
		&a.archive,
	)

	if err != nil && err != sql.ErrNoRows {
		return nil, err
	} else if err == sql.ErrNoRows {
		tracer().Debugf("[getArtifact] %v not found", digest)
		return nil, nil
	}

	a.created, err = time.Parse(time.RFC1123Z, created)
	if err != nil {
		return nil, err
	}

	app.cache.Add(digest, &a)
	return &a, nil
}

// saveArtifact stores a, reporting false when another request got the
// digest in first. The digest keys the table, so concurrent identical
// texts leave exactly one row.
func (app *App) saveArtifact(a *artifact) (bool, error) {
	tracer().Debugf("[saveArtifact] %v (%d bytes)", a.digest, len(a.archive))

	created := a.created.Format(time.RFC1123Z)

	res, err := app.db.Exec(`
		INSERT OR IGNORE INTO
			artifacts
				(
					digest, created, tokens, distinct_tokens, input_bytes,
					output_bytes, bit_len, ratio, elapsed_ms, archive
				)
		VALUES
				(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.digest, created, a.tokens, a.distinctTokens, a.inputBytes,
		a.outputBytes, a.bitLen, a.ratio, a.elapsedMS, a.archive)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		tracer().Debugf("[saveArtifact] %v already stored", a.digest)
		return false, nil
	}

	app.cache.Add(a.digest, a)
	return true, nil
}

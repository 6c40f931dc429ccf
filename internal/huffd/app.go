/*
Package huffd implements the huffword compression service.

POST a text and get back compression statistics plus the digest the
artifact is stored under; GET the packed payload or the codes listing by
digest. Artifacts persist in a SQLite store with a small LRU cache in
front, so repeated texts are compressed once and served from memory.
*/
package huffd

import (
	"database/sql"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/julienschmidt/httprouter"
	"github.com/npillmayer/huffword"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'huffword.huffd'
func tracer() tracing.Trace {
	return tracing.Select("huffword.huffd")
}

// Config holds the service configuration.
type Config struct {
	DBPath       string // SQLite database file
	CacheSize    int    // artifacts kept in memory, default 64
	TableCap     int    // census capacity per request, default huffword.DefaultTableCap
	MaxTextBytes int64  // request body limit, default 16 MiB
}

// App is the compression service, ready to serve HTTP.
type App struct {
	config Config
	db     *sql.DB
	router *httprouter.Router
	cache  *lru.Cache[string, *artifact]
}

func New(config Config) (*App, error) {
	if config.CacheSize <= 0 {
		config.CacheSize = 64
	}
	if config.TableCap <= 0 {
		config.TableCap = huffword.DefaultTableCap
	}
	if config.MaxTextBytes <= 0 {
		config.MaxTextBytes = 16 << 20
	}
	cache, err := lru.New[string, *artifact](config.CacheSize)
	if err != nil {
		return nil, err
	}
	app := &App{
		config: config,
		cache:  cache,
	}
	if err := app.initDB(); err != nil {
		return nil, err
	}
	app.initHTTP()
	return app, nil
}

// Close releases the artifact store.
func (app *App) Close() error {
	return app.db.Close()
}

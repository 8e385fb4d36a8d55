// Package archive persists the marketplace event stream into a relational
// database for off-line querying. It is an optional sidecar: the engine
// never reads from it.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/geomarket/geomarketd/internal/core/market"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config selects the archive database.
type Config struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Archive writes event envelopes to a SQL database.
type Archive struct {
	db     *sql.DB
	driver string
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	occurred   BIGINT NOT NULL,
	event_type TEXT NOT NULL,
	payload    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sales (
	event_id    TEXT PRIMARY KEY,
	occurred    BIGINT NOT NULL,
	listing_id  BIGINT NOT NULL,
	collection  TEXT NOT NULL,
	seller      TEXT NOT NULL,
	buyer       TEXT NOT NULL,
	quantity    BIGINT NOT NULL,
	total_price BIGINT NOT NULL
);`

// Open connects to the archive database and ensures the schema exists.
func Open(ctx context.Context, cfg Config) (*Archive, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &Archive{db: db, driver: cfg.Driver}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// rebind rewrites ? placeholders into the driver's positional form.
func (a *Archive) rebind(query string) string {
	if a.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record writes one envelope. Sale events additionally land in the sales
// table in queryable columns.
func (a *Archive) Record(ctx context.Context, env market.Envelope) error {
	payload, err := json.Marshal(env.Event)
	if err != nil {
		return fmt.Errorf("encode event payload: %w", err)
	}
	_, err = a.db.ExecContext(ctx,
		a.rebind(`INSERT INTO events (id, occurred, event_type, payload) VALUES (?, ?, ?, ?)`),
		env.ID, int64(env.Time), env.Type, string(payload))
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	sale, ok := env.Event.(market.NewSale)
	if !ok {
		return nil
	}
	_, err = a.db.ExecContext(ctx,
		a.rebind(`INSERT INTO sales (event_id, occurred, listing_id, collection, seller, buyer, quantity, total_price)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		env.ID, int64(env.Time), int64(sale.ListingID), sale.Collection,
		string(sale.Seller), string(sale.Buyer), int64(sale.Quantity), int64(sale.TotalPrice))
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// Run consumes envelopes until the channel closes or the context ends.
// Individual insert failures are logged and skipped so one bad row cannot
// stall the stream.
func (a *Archive) Run(ctx context.Context, events <-chan market.Envelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-events:
			if !ok {
				return
			}
			if err := a.Record(ctx, env); err != nil {
				log.Printf("[ERROR] archive: %v", err)
			}
		}
	}
}

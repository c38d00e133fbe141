package store

import (
	"database/sql"
	"time"

	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
)

// Watermark key prefixes, one incremental and one full per kind.
const (
	keyLastSync     = "lastSync:"
	keyLastFullSync = "lastFullSync:"
)

// Watermarks returns the persisted sync boundaries for a kind. A missing
// or unparsable value comes back nil, which the reconciler treats as
// "never synced".
func Watermarks(db *sql.DB, kind item.Kind) (incremental, full *time.Time, err error) {
	incremental, err = readWatermark(db, keyLastSync+string(kind))
	if err != nil {
		return nil, nil, err
	}
	full, err = readWatermark(db, keyLastFullSync+string(kind))
	if err != nil {
		return nil, nil, err
	}
	return incremental, full, nil
}

// SetWatermarks persists sync boundaries for a kind. A nil value leaves
// the corresponding watermark untouched.
func SetWatermarks(db *sql.DB, kind item.Kind, incremental, full *time.Time) error {
	if incremental != nil {
		if err := writeWatermark(db, keyLastSync+string(kind), *incremental); err != nil {
			return err
		}
	}
	if full != nil {
		if err := writeWatermark(db, keyLastFullSync+string(kind), *full); err != nil {
			return err
		}
	}
	return nil
}

func readWatermark(db *sql.DB, key string) (*time.Time, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM watermarks WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		// A corrupt watermark downgrades to a full resync, never an error.
		return nil, nil
	}
	return &t, nil
}

func writeWatermark(db *sql.DB, key string, t time.Time) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO watermarks (key, value) VALUES (?, ?)
	`, key, t.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

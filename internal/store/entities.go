package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
)

// Entity is anything the mirror can hold: content items, personas and
// model profiles. EditedAt returns the zero time for kinds without a
// last-modified timestamp.
type Entity interface {
	Key() string
	EditedAt() time.Time
}

// GetAll returns every cached entity of the kind, most recently edited
// first (insertion order for kinds without timestamps). A cold start is
// not an error: missing rows yield an empty slice.
func GetAll[T any](db *sql.DB, kind item.Kind) ([]T, error) {
	rows, err := db.Query(`
		SELECT payload FROM entities
		WHERE kind = ?
		ORDER BY last_edited DESC, rowid ASC
	`, string(kind))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.NewInternal(err)
		}
		var entity T
		if err := json.Unmarshal(payload, &entity); err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// ReplaceAll atomically clears and rewrites the full collection for the
// kind. Used after a full or merged sync.
func ReplaceAll[T Entity](db *sql.DB, kind item.Kind, items []T) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entities WHERE kind = ?`, string(kind)); err != nil {
		return errors.NewInternal(err)
	}
	for _, it := range items {
		if err := insertEntity(tx, kind, it); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// UpsertOne writes a single entity by id, leaving the rest of the
// collection untouched. Used for optimistic local edits.
func UpsertOne[T Entity](db *sql.DB, kind item.Kind, it T) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return errors.NewInternal(err)
	}
	_, err = db.Exec(`
		INSERT OR REPLACE INTO entities (kind, id, payload, last_edited)
		VALUES (?, ?, ?, ?)
	`, string(kind), it.Key(), payload, editedUnix(it))
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// DeleteOne removes the local mirror row for an archived entity.
// Deleting a row that does not exist is not an error.
func DeleteOne(db *sql.DB, kind item.Kind, id string) error {
	_, err := db.Exec(`DELETE FROM entities WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

func insertEntity[T Entity](tx *sql.Tx, kind item.Kind, it T) error {
	payload, err := json.Marshal(it)
	if err != nil {
		return errors.NewInternal(err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO entities (kind, id, payload, last_edited)
		VALUES (?, ?, ?, ?)
	`, string(kind), it.Key(), payload, editedUnix(it))
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

func editedUnix(e Entity) int64 {
	t := e.EditedAt()
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

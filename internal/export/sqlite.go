package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"void-cli/internal/model"
	"void-cli/internal/store"
)

var sqliteSchema = []string{
	`CREATE TABLE nodes (
		id INTEGER PRIMARY KEY,
		parent_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		content TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		collapsed INTEGER NOT NULL,
		stricken INTEGER NOT NULL,
		hide_stricken INTEGER NOT NULL,
		auto_arrange INTEGER NOT NULL,
		free_text TEXT,
		color TEXT NOT NULL,
		ctime TEXT NOT NULL,
		mtime TEXT NOT NULL,
		finish_time TEXT,
		due TEXT,
		lat REAL,
		lon REAL
	);`,
	`CREATE TABLE arrows (
		from_id INTEGER NOT NULL REFERENCES nodes(id),
		to_id INTEGER NOT NULL REFERENCES nodes(id),
		PRIMARY KEY (from_id, to_id)
	);`,
	`CREATE TABLE tags (
		node_id INTEGER NOT NULL REFERENCES nodes(id),
		k TEXT NOT NULL,
		v TEXT NOT NULL,
		PRIMARY KEY (node_id, k)
	);`,
	`CREATE TABLE state_meta (k TEXT PRIMARY KEY, v TEXT NOT NULL);`,
}

// WriteSQLite replaces path with a relational snapshot of the map: tables nodes, arrows,
// tags and state_meta. Times are RFC 3339 text.
func WriteSQLite(ctx context.Context, path string, snap *store.Snapshot) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("sqlite export: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("sqlite export: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range sqliteSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite export: schema: %w", err)
		}
	}

	meta := [][2]string{
		{"version", fmt.Sprint(documentVersion)},
		{"drawing_root", fmt.Sprint(snap.DrawingRoot)},
		{"max_id", fmt.Sprint(snap.Nodes.MaxID)},
	}
	for _, kv := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO state_meta(k, v) VALUES(?, ?)`, kv[0], kv[1]); err != nil {
			return err
		}
	}

	st := snap.Nodes
	for _, id := range st.SortedIDs() {
		n := st.Nodes[id]
		pos := 0
		if p, ok := st.Nodes[n.ParentID]; ok && id != model.RootID {
			pos = p.ChildIndex(id)
		}
		var lat, lon sql.NullFloat64
		if g := n.Meta.GPS; g != nil {
			lat = sql.NullFloat64{Float64: g.Lat, Valid: true}
			lon = sql.NullFloat64{Float64: g.Lon, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO nodes(
			id, parent_id, position, content, x, y, collapsed, stricken, hide_stricken, auto_arrange,
			free_text, color, ctime, mtime, finish_time, due, lat, lon
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			int64(n.ID), int64(n.ParentID), pos, n.Content, n.RootedCoords.X, n.RootedCoords.Y,
			n.Collapsed, n.Stricken, n.HideStricken, n.AutoArrange,
			nullString(n.FreeText), n.Color.String(),
			n.Meta.CTime.UTC().Format(time.RFC3339Nano), n.Meta.MTime.UTC().Format(time.RFC3339Nano),
			nullTime(n.Meta.FinishTime), nullTime(n.Meta.Due), lat, lon,
		); err != nil {
			return fmt.Errorf("sqlite export: node %d: %w", id, err)
		}
		for k, v := range n.Meta.Tags {
			if _, err := tx.ExecContext(ctx, `INSERT INTO tags(node_id, k, v) VALUES(?, ?, ?)`, int64(id), k, v); err != nil {
				return err
			}
		}
	}
	for _, a := range st.Arrows {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO arrows(from_id, to_id) VALUES(?, ?)`, int64(a.From), int64(a.To)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

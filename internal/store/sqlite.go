package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/gmllt/kanbo/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cards (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	status TEXT NOT NULL,
	priority TEXT,
	tags TEXT,
	created_at TEXT,
	due_date TEXT,
	order_idx INTEGER
)`

// SQLite stores the board in a local sqlite database. Tags are stored as a
// comma-joined string and split on read.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cards table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func scanCard(row interface{ Scan(...any) error }) (model.Card, error) {
	var c model.Card
	var description, priority, tags, createdAt, dueDate sql.NullString
	var orderIdx sql.NullInt64
	err := row.Scan(&c.ID, &c.Title, &description, &c.Status, &priority, &tags, &createdAt, &dueDate, &orderIdx)
	if err != nil {
		return model.Card{}, err
	}
	c.Description = description.String
	c.Priority = priority.String
	c.Tags = splitTags(tags.String)
	c.CreatedAt = createdAt.String
	c.DueDate = dueDate.String
	c.OrderIdx = int(orderIdx.Int64)
	return c, nil
}

const cardColumns = "id, title, description, status, priority, tags, created_at, due_date, order_idx"

func (s *SQLite) List(ctx context.Context) ([]model.Card, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+cardColumns+" FROM cards ORDER BY status, order_idx")
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	cards := []model.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (s *SQLite) Get(ctx context.Context, id string) (model.Card, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+cardColumns+" FROM cards WHERE id = ?", id)
	c, err := scanCard(row)
	if err == sql.ErrNoRows {
		return model.Card{}, ErrNotFound
	}
	if err != nil {
		return model.Card{}, fmt.Errorf("query card: %w", err)
	}
	return c, nil
}

func (s *SQLite) Create(ctx context.Context, c model.Card) (model.Card, error) {
	if c.ID == "" {
		c.ID = newCardID()
	}
	if c.Status == "" {
		c.Status = model.StatusTodo
	}
	if c.Priority == "" {
		c.Priority = model.PriorityMedium
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.CreatedAt = nowUTC()

	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(order_idx), 0) FROM cards WHERE status = ?", c.Status).Scan(&max)
	if err != nil {
		return model.Card{}, fmt.Errorf("query column max: %w", err)
	}
	c.OrderIdx = int(max.Int64) + 1

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards (id, title, description, status, priority, tags, created_at, due_date, order_idx)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Description, c.Status, c.Priority, joinTags(c.Tags), c.CreatedAt, c.DueDate, c.OrderIdx)
	if err != nil {
		return model.Card{}, fmt.Errorf("insert card: %w", err)
	}
	return c, nil
}

func (s *SQLite) Patch(ctx context.Context, id string, p model.CardPatch) (model.Card, error) {
	setParts := []string{}
	values := []any{}
	if p.Title != nil {
		setParts = append(setParts, "title = ?")
		values = append(values, *p.Title)
	}
	if p.Description != nil {
		setParts = append(setParts, "description = ?")
		values = append(values, *p.Description)
	}
	if p.Status != nil {
		setParts = append(setParts, "status = ?")
		values = append(values, *p.Status)
	}
	if p.Priority != nil {
		setParts = append(setParts, "priority = ?")
		values = append(values, *p.Priority)
	}
	if p.Tags != nil {
		setParts = append(setParts, "tags = ?")
		values = append(values, joinTags(*p.Tags))
	}
	if p.DueDate != nil {
		setParts = append(setParts, "due_date = ?")
		values = append(values, *p.DueDate)
	}
	if p.OrderIdx != nil {
		setParts = append(setParts, "order_idx = ?")
		values = append(values, *p.OrderIdx)
	}
	if len(setParts) == 0 {
		return model.Card{}, ErrEmptyPatch
	}
	values = append(values, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE cards SET "+strings.Join(setParts, ", ")+" WHERE id = ?", values...)
	if err != nil {
		return model.Card{}, fmt.Errorf("update card: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Card{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Reorder(ctx context.Context, orders model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	// Preload the status every involved card had before any update, so
	// moved-in classification does not depend on column processing order.
	before := map[string]string{}
	for _, col := range model.Columns {
		for _, id := range orders[col.Key] {
			if _, seen := before[id]; seen {
				continue
			}
			var status string
			err := tx.QueryRowContext(ctx, "SELECT status FROM cards WHERE id = ?", id).Scan(&status)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				return fmt.Errorf("query card status: %w", err)
			}
			before[id] = status
		}
	}

	for _, col := range model.Columns {
		ids, ok := orders[col.Key]
		if !ok {
			continue
		}
		var existing, moved []string
		for _, id := range ids {
			status, known := before[id]
			if !known {
				continue
			}
			if status == col.Key {
				existing = append(existing, id)
			} else {
				moved = append(moved, id)
			}
		}

		idx := 1
		for _, id := range existing {
			if _, err := tx.ExecContext(ctx,
				"UPDATE cards SET status = ?, order_idx = ? WHERE id = ?", col.Key, idx, id); err != nil {
				return fmt.Errorf("reindex card: %w", err)
			}
			idx++
		}

		var max sql.NullInt64
		err := tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(order_idx), 0) FROM cards WHERE status = ?", col.Key).Scan(&max)
		if err != nil {
			return fmt.Errorf("query column max: %w", err)
		}
		appendIdx := int(max.Int64) + 1
		if idx > appendIdx {
			appendIdx = idx
		}
		for _, id := range moved {
			if _, err := tx.ExecContext(ctx,
				"UPDATE cards SET status = ?, order_idx = ? WHERE id = ?", col.Key, appendIdx, id); err != nil {
				return fmt.Errorf("move card: %w", err)
			}
			appendIdx++
		}
	}

	return tx.Commit()
}

func (s *SQLite) Close() error { return s.db.Close() }

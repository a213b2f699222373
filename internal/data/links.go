package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leadrelay/leadrelay/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// linkRepo implements the correlation store on SQLite.
type linkRepo struct {
	db *sql.DB
}

// NewLinkRepo opens (creating if needed) the correlation database.
func NewLinkRepo(dbPath string) (repo.LinkRepo, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Three independent relations, no foreign keys: a link may outlive
	// the user it points at.
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS message_links (
			group_message_id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS lead_links (
			user_id INTEGER PRIMARY KEY,
			lead_id INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS thread_links (
			user_id INTEGER PRIMARY KEY,
			thread_id INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}

	return &linkRepo{db: db}, nil
}

func (r *linkRepo) Close() error {
	return r.db.Close()
}

// SaveMessageLink records the sender of a relayed group message.
func (r *linkRepo) SaveMessageLink(ctx context.Context, groupMessageID int, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO message_links (group_message_id, user_id, created_at)
		VALUES (?, ?, ?)
	`, groupMessageID, userID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save message link: %w", err)
	}
	return nil
}

// UserByGroupMessage resolves a relayed group message to its sender.
func (r *linkRepo) UserByGroupMessage(ctx context.Context, groupMessageID int) (int64, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id FROM message_links WHERE group_message_id = ?
	`, groupMessageID)

	var userID int64
	err := row.Scan(&userID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query message link: %w", err)
	}
	return userID, true, nil
}

// SaveLeadLink records the CRM lead for a user.
func (r *linkRepo) SaveLeadLink(ctx context.Context, userID, leadID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO lead_links (user_id, lead_id, created_at)
		VALUES (?, ?, ?)
	`, userID, leadID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save lead link: %w", err)
	}
	return nil
}

// LeadByUser returns the lead linked to a user.
func (r *linkRepo) LeadByUser(ctx context.Context, userID int64) (int64, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT lead_id FROM lead_links WHERE user_id = ?
	`, userID)

	var leadID int64
	err := row.Scan(&leadID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query lead link: %w", err)
	}
	return leadID, true, nil
}

// SaveThreadLink records the group topic provisioned for a user.
func (r *linkRepo) SaveThreadLink(ctx context.Context, userID int64, threadID int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO thread_links (user_id, thread_id, created_at)
		VALUES (?, ?, ?)
	`, userID, threadID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save thread link: %w", err)
	}
	return nil
}

// ThreadByUser returns the topic linked to a user.
func (r *linkRepo) ThreadByUser(ctx context.Context, userID int64) (int, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT thread_id FROM thread_links WHERE user_id = ?
	`, userID)

	var threadID int
	err := row.Scan(&threadID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query thread link: %w", err)
	}
	return threadID, true, nil
}

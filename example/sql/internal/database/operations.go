package database

import (
	"context"
	"database/sql"
)

// CreateTable creates the demo users table if it doesn't exist.
func (db *DB) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100),
			email VARCHAR(100)
		)
	`
	_, err := db.ExecContext(ctx, query)
	return err
}

// InsertUsers inserts a batch of sample users.
func (db *DB) InsertUsers(ctx context.Context) error {
	users := []struct {
		Name  string
		Email string
	}{
		{"Alice", "alice@example.com"},
		{"Bob", "bob@example.com"},
		{"Charlie", "charlie@example.com"},
	}

	stmt, err := db.PrepareContext(ctx, "INSERT INTO users (name, email) VALUES ($1, $2)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range users {
		if _, err := stmt.ExecContext(ctx, u.Name, u.Email); err != nil {
			return err
		}
	}
	return nil
}

// CountUsers returns the current row count.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// QueryUsers reads back the most recent users.
func (db *DB) QueryUsers(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM users ORDER BY id DESC LIMIT 10")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// InsertWithTransaction inserts a user and updates it inside one
// transaction, exercising the commit and rollback boundaries.
func (db *DB) InsertWithTransaction(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO users (name, email) VALUES ($1, $2)", "Dana", "dana@example.com"); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET email = $1 WHERE name = $2", "dana+updated@example.com", "Dana"); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// QueryMissingUser looks up a name that never exists so the example
// also produces ERROR-status recordings.
func (db *DB) QueryMissingUser(ctx context.Context) error {
	var name string
	return db.QueryRowContext(ctx,
		"SELECT name FROM users WHERE name = $1", "nobody").Scan(&name)
}

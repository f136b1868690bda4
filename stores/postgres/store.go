// Package postgres implements the durable user store on PostgreSQL via the
// pgx stdlib driver. The users table's primary key enforces username
// uniqueness; duplicate inserts surface as ollert.ErrDuplicateUsername.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ackinc/ollert"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	db *sql.DB
}

// Open connects to dsn and brings the schema up to date.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateUser(ctx context.Context, user *ollert.User) error {
	query := `INSERT INTO users (username, password_hash, verified, boards)
	          VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, user.Verified, user.Boards)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ollert.ErrDuplicateUsername
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (*ollert.User, error) {
	query := `SELECT username, password_hash, verified, boards FROM users
	          WHERE username = $1`

	user := &ollert.User{}
	err := s.db.QueryRowContext(ctx, query, username).
		Scan(&user.Username, &user.PasswordHash, &user.Verified, &user.Boards)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("selecting user: %w", err)
	}
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, username string, upd ollert.UserUpdate) error {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Verified != nil {
		add("verified", *upd.Verified)
	}
	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	if upd.Boards != nil {
		add("boards", *upd.Boards)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, username)
	query := fmt.Sprintf("UPDATE users SET %s WHERE username = $%d",
		strings.Join(sets, ", "), len(args))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

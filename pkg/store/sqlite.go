package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/janus/pkg/quota"
)

// SQLiteStore implements Store using SQLite for persistence. It is
// suitable for single-instance deployments where accounts must survive
// restarts.
//
// The store uses a write-ahead log for better concurrent performance
// and a single writer connection, which SQLite requires.
type SQLiteStore struct {
	db *sql.DB

	createUserStmt  *sql.Stmt
	userByEmailStmt *sql.Stmt
	userByIDStmt    *sql.Stmt
	createKeyStmt   *sql.Stmt
	keyByValueStmt  *sql.Stmt
}

// NewSQLiteStore opens (creating if necessary) the account database at
// dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		tier TEXT NOT NULL DEFAULT 'free',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS api_keys (
		id TEXT PRIMARY KEY,
		key TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_api_keys_user ON api_keys(user_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.createUserStmt, err = s.db.Prepare(`
		INSERT INTO users (id, email, hashed_password, tier, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("create user statement: %w", err)
	}

	s.userByEmailStmt, err = s.db.Prepare(`
		SELECT id, email, hashed_password, tier, created_at
		FROM users WHERE email = ?`)
	if err != nil {
		return fmt.Errorf("user by email statement: %w", err)
	}

	s.userByIDStmt, err = s.db.Prepare(`
		SELECT id, email, hashed_password, tier, created_at
		FROM users WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("user by id statement: %w", err)
	}

	s.createKeyStmt, err = s.db.Prepare(`
		INSERT INTO api_keys (id, key, user_id, name, active, created_at)
		VALUES (?, ?, ?, ?, 1, ?)`)
	if err != nil {
		return fmt.Errorf("create key statement: %w", err)
	}

	s.keyByValueStmt, err = s.db.Prepare(`
		SELECT id, key, user_id, name, active, created_at
		FROM api_keys WHERE key = ?`)
	if err != nil {
		return fmt.Errorf("key by value statement: %w", err)
	}

	return nil
}

// CreateUser implements Store.
func (s *SQLiteStore) CreateUser(ctx context.Context, email, hashedPassword string, tier quota.Tier) (*User, error) {
	// The single-connection pool serializes this check with the insert.
	if _, err := s.UserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	}

	user := &User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		Tier:           tier,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := s.createUserStmt.ExecContext(ctx,
		user.ID, user.Email, user.HashedPassword, string(user.Tier), user.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// UserByEmail implements Store.
func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanUser(s.userByEmailStmt.QueryRowContext(ctx, email))
}

// UserByID implements Store.
func (s *SQLiteStore) UserByID(ctx context.Context, id string) (*User, error) {
	return s.scanUser(s.userByIDStmt.QueryRowContext(ctx, id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*User, error) {
	var user User
	var tier string
	var createdAt int64

	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword, &tier, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.Tier = quota.Tier(tier)
	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &user, nil
}

// CreateAPIKey implements Store.
func (s *SQLiteStore) CreateAPIKey(ctx context.Context, userID, name, key string) (*APIKey, error) {
	record := &APIKey{
		ID:        uuid.NewString(),
		Key:       key,
		UserID:    userID,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.createKeyStmt.ExecContext(ctx,
		record.ID, record.Key, record.UserID, record.Name, record.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert api key: %w", err)
	}

	return record, nil
}

// APIKeyByValue implements Store.
func (s *SQLiteStore) APIKeyByValue(ctx context.Context, key string) (*APIKey, error) {
	var record APIKey
	var active int
	var createdAt int64

	row := s.keyByValueStmt.QueryRowContext(ctx, key)
	err := row.Scan(&record.ID, &record.Key, &record.UserID, &record.Name, &active, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan api key: %w", err)
	}

	record.Active = active != 0
	record.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &record, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{
		s.createUserStmt, s.userByEmailStmt, s.userByIDStmt,
		s.createKeyStmt, s.keyByValueStmt,
	} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}

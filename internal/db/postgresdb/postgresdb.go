// Package postgresdb provides a PostgreSQL-backed implementation of the
// storage contract. Schema management is done with goose migrations; record
// atomicity is delegated to row-level guarantees of the database.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dkolesni/itemstash/internal/db/storage"
	"github.com/dkolesni/itemstash/internal/item"
	"github.com/dkolesni/itemstash/internal/user"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresDB is a PostgreSQL-backed storage implementation.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

// New opens a connection pool to the PostgreSQL database, verifies the
// connection, and runs schema migrations from migrationsDir.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
) (*PostgresDB, error) {
	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := result.Ping(ctx); err != nil {
		return nil, err
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil, err
	}

	return result, nil
}

func (db *PostgresDB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.connectionTimeout)
}

// CreateUser inserts a new user row with a generated UUID.
// A unique violation on the email column is reported as storage.ErrEmailTaken.
func (db *PostgresDB) CreateUser(ctx context.Context, usr *user.User) (string, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	userID := uuid.New().String()
	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		userID,
		usr.Email,
		usr.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return "", storage.ErrEmailTaken
		}
		return "", err
	}

	usr.ID = userID

	return userID, nil
}

// FindUserByEmail returns the user with the exact email, or storage.ErrNotFound.
func (db *PostgresDB) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var usr user.User
	err := db.database.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash FROM users WHERE email = $1`,
		email,
	).Scan(&usr.ID, &usr.Email, &usr.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &usr, nil
}

// FindUserByID returns the user with the given id, or storage.ErrNotFound.
func (db *PostgresDB) FindUserByID(ctx context.Context, userID string) (*user.User, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var usr user.User
	err := db.database.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash FROM users WHERE id = $1`,
		userID,
	).Scan(&usr.ID, &usr.Email, &usr.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &usr, nil
}

// CreateItem inserts a new item row with a generated UUID.
func (db *PostgresDB) CreateItem(ctx context.Context, itm *item.Item) (string, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	itemID := uuid.New().String()
	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO items (id, owner_id, name, price) VALUES ($1, $2, $3, $4)`,
		itemID,
		itm.OwnerID,
		itm.Name,
		itm.Price,
	)
	if err != nil {
		return "", err
	}

	itm.ID = itemID

	return itemID, nil
}

// FindItem returns the item with the given id, or storage.ErrNotFound.
func (db *PostgresDB) FindItem(ctx context.Context, itemID string) (*item.Item, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var itm item.Item
	err := db.database.QueryRowContext(
		ctx,
		`SELECT id, owner_id, name, price FROM items WHERE id = $1`,
		itemID,
	).Scan(&itm.ID, &itm.OwnerID, &itm.Name, &itm.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &itm, nil
}

// ListItems returns the owner's items in insertion order.
func (db *PostgresDB) ListItems(ctx context.Context, ownerID string) ([]item.Item, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, owner_id, name, price FROM items WHERE owner_id = $1 ORDER BY seq`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []item.Item{}
	for rows.Next() {
		var itm item.Item
		if err := rows.Scan(&itm.ID, &itm.OwnerID, &itm.Name, &itm.Price); err != nil {
			return nil, err
		}
		result = append(result, itm)
	}

	return result, rows.Err()
}

// UpdateItem replaces the mutable columns of the stored record in a single
// statement, keeping the read-modify-write atomic at the row level.
func (db *PostgresDB) UpdateItem(ctx context.Context, itm *item.Item) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	result, err := db.database.ExecContext(
		ctx,
		`UPDATE items SET name = $1, price = $2 WHERE id = $3`,
		itm.Name,
		itm.Price,
		itm.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteItem removes the item row with the given id.
func (db *PostgresDB) DeleteItem(ctx context.Context, itemID string) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	result, err := db.database.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// Ping verifies that the database is reachable.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	return db.database.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

// internal/store/schema.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// schemaSQL creates the seven tables and seeds the reference data. Statements
// are idempotent so the bootstrap can run on every start.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS mpa_ratings (
    id   SERIAL PRIMARY KEY,
    name VARCHAR(10) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS genres (
    id   SERIAL PRIMARY KEY,
    name VARCHAR(50) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS films (
    id           SERIAL PRIMARY KEY,
    name         VARCHAR(255) NOT NULL,
    description  VARCHAR(200),
    release_date DATE NOT NULL,
    duration     INTEGER NOT NULL CHECK (duration > 0),
    mpa_id       INTEGER NOT NULL REFERENCES mpa_ratings (id)
);

CREATE TABLE IF NOT EXISTS users (
    id       SERIAL PRIMARY KEY,
    email    VARCHAR(255) NOT NULL,
    login    VARCHAR(255) NOT NULL,
    name     VARCHAR(255),
    birthday DATE
);

CREATE TABLE IF NOT EXISTS film_genres (
    film_id  INTEGER NOT NULL REFERENCES films (id) ON DELETE CASCADE,
    genre_id INTEGER NOT NULL REFERENCES genres (id),
    PRIMARY KEY (film_id, genre_id)
);

CREATE TABLE IF NOT EXISTS likes (
    film_id INTEGER NOT NULL REFERENCES films (id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    PRIMARY KEY (film_id, user_id)
);

CREATE TABLE IF NOT EXISTS friendships (
    user_id   INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    friend_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    PRIMARY KEY (user_id, friend_id)
);

INSERT INTO genres (id, name) VALUES
    (1, 'Comedy'),
    (2, 'Drama'),
    (3, 'Cartoon'),
    (4, 'Thriller'),
    (5, 'Documentary'),
    (6, 'Action')
ON CONFLICT (id) DO NOTHING;

INSERT INTO mpa_ratings (id, name) VALUES
    (1, 'G'),
    (2, 'PG'),
    (3, 'PG-13'),
    (4, 'R'),
    (5, 'NC-17')
ON CONFLICT (id) DO NOTHING;

SELECT setval(pg_get_serial_sequence('genres', 'id'), (SELECT MAX(id) FROM genres));
SELECT setval(pg_get_serial_sequence('mpa_ratings', 'id'), (SELECT MAX(id) FROM mpa_ratings));
`

// EnsureSchema creates missing tables and seeds genre and MPA reference data.
func EnsureSchema(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	logger.InfoContext(ctx, "Ensuring database schema")
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		logger.ErrorContext(ctx, "Failed to ensure database schema", slog.String("error", err.Error()))
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

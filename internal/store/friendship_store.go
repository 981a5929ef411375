// internal/store/friendship_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// FriendshipRow is one friendships row: a directed edge from user_id to
// friend_id. A confirmed friendship is a pair of rows, one per direction.
type FriendshipRow struct {
	UserID   int `db:"user_id"`
	FriendID int `db:"friend_id"`
}

// PostgresFriendshipStore owns the friendships relation table.
type PostgresFriendshipStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresFriendshipStore(db *sqlx.DB, logger *slog.Logger) *PostgresFriendshipStore {
	return &PostgresFriendshipStore{db: db, logger: logger}
}

// GetUserFriendIDs returns the ids of users this user has outgoing edges to.
func (s *PostgresFriendshipStore) GetUserFriendIDs(ctx context.Context, userID int) ([]int, error) {
	query := `SELECT friend_id FROM friendships WHERE user_id = $1 ORDER BY friend_id ASC`
	ids, err := queryMany[int](ctx, s.db, query, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get user friends", slog.Int("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user friends: %w", err)
	}
	return ids, nil
}

// GetFriendsForUsers returns the outgoing edges of all given users in one
// query.
func (s *PostgresFriendshipStore) GetFriendsForUsers(ctx context.Context, userIDs []int) ([]FriendshipRow, error) {
	query := `SELECT user_id, friend_id FROM friendships WHERE user_id IN (?) ORDER BY user_id ASC, friend_id ASC`
	rows, err := queryManyIn[FriendshipRow](ctx, s.db, query, userIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get friends for users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get friends for users: %w", err)
	}
	return rows, nil
}

// GetConfirmedFriendIDs returns the friend ids for which the reverse edge
// also exists.
func (s *PostgresFriendshipStore) GetConfirmedFriendIDs(ctx context.Context, userID int) ([]int, error) {
	query := `SELECT f1.friend_id
	          FROM friendships f1
	          INNER JOIN friendships f2 ON f1.user_id = f2.friend_id AND f1.friend_id = f2.user_id
	          WHERE f1.user_id = $1
	          ORDER BY f1.friend_id ASC`
	ids, err := queryMany[int](ctx, s.db, query, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get confirmed friends", slog.Int("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get confirmed friends: %w", err)
	}
	return ids, nil
}

// AddFriend inserts one directed edge. A duplicate edge fails with
// ErrAlreadyFriends; the unique constraint also settles the concurrent
// add-friend race, handing the loser the same clean conflict. A nonexistent
// endpoint surfaces as ErrUserNotFound via the foreign key.
func (s *PostgresFriendshipStore) AddFriend(ctx context.Context, userID, friendID int) error {
	query := `INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, query, userID, friendID); err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrAlreadyFriends
		case isForeignKeyViolation(err):
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to add friend: %w", err)
	}
	return nil
}

// DeleteFriend removes one directed edge and reports whether it existed.
func (s *PostgresFriendshipStore) DeleteFriend(ctx context.Context, userID, friendID int) (bool, error) {
	query := `DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2`
	affected, err := execAffecting(ctx, s.db, query, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("failed to delete friend: %w", err)
	}
	return affected > 0, nil
}

// ReplaceFriends swaps the full outgoing edge set of one user: delete all,
// then batch re-insert. Runs on the caller's transaction.
func (s *PostgresFriendshipStore) ReplaceFriends(ctx context.Context, e sqlx.ExtContext, userID int, friendIDs []int) error {
	deleteQuery := `DELETE FROM friendships WHERE user_id = $1`
	if _, err := execAffecting(ctx, e, deleteQuery, userID); err != nil {
		return fmt.Errorf("failed to delete friendships: %w", err)
	}
	rows := make([]FriendshipRow, 0, len(friendIDs))
	for _, friendID := range friendIDs {
		rows = append(rows, FriendshipRow{UserID: userID, FriendID: friendID})
	}
	insertQuery := `INSERT INTO friendships (user_id, friend_id) VALUES (:user_id, :friend_id)`
	if err := batchInsert(ctx, e, insertQuery, rows); err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to insert friendships: %w", err)
	}
	return nil
}

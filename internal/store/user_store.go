// internal/store/user_store.go
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
)

// UserStorage defines the user aggregate operations. PostgresUserStore and
// MemoryUserStore implement it interchangeably; selection happens by
// configuration at startup.
type UserStorage interface {
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, id int) (*domain.User, error)
	AddUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	// AddFriend inserts a directed edge from userID to friendID and returns
	// the updated source user. An existing edge fails with ErrAlreadyFriends.
	AddFriend(ctx context.Context, userID, friendID int) (*domain.User, error)
	// DeleteFriend removes the directed edge if present. Removing a
	// friendship that never existed is a no-op returning the current user.
	DeleteFriend(ctx context.Context, userID, friendID int) (*domain.User, error)
	GetFriends(ctx context.Context, userID int) ([]domain.User, error)
	// GetConfirmedFriends returns only friends whose reverse edge exists.
	GetConfirmedFriends(ctx context.Context, userID int) ([]domain.User, error)
}

// userRow is the users base row; the friend id set is attached separately.
type userRow struct {
	ID       int         `db:"id"`
	Email    string      `db:"email"`
	Login    string      `db:"login"`
	Name     string      `db:"name"`
	Birthday domain.Date `db:"birthday"`
}

// PostgresUserStore implements UserStorage for PostgreSQL, composing the base
// table with the friendships relation.
type PostgresUserStore struct {
	db          *sqlx.DB
	friendships *PostgresFriendshipStore
	logger      *slog.Logger
}

func NewPostgresUserStore(db *sqlx.DB, friendships *PostgresFriendshipStore, logger *slog.Logger) *PostgresUserStore {
	return &PostgresUserStore{db: db, friendships: friendships, logger: logger}
}

// GetAllUsers lists every user with friend ids attached via one batched
// friendships query, independent of the user count.
func (s *PostgresUserStore) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := queryMany[userRow](ctx, s.db, `SELECT id, email, login, name, birthday FROM users ORDER BY id ASC`)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(rows) == 0 {
		return []domain.User{}, nil
	}
	return s.attachFriends(ctx, rows)
}

// GetUserByID returns one user with friend ids attached or ErrUserNotFound.
func (s *PostgresUserStore) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	row, err := queryOne[userRow](ctx, s.db, `SELECT id, email, login, name, birthday FROM users WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get user by ID", slog.Int("userID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	if row == nil {
		return nil, ErrUserNotFound
	}

	friendIDs, err := s.friendships.GetUserFriendIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	user := row.toUser()
	if friendIDs != nil {
		user.Friends = friendIDs
	}
	return &user, nil
}

// AddUser inserts the base row, defaulting a blank name to the login, and
// returns the user with its generated id.
func (s *PostgresUserStore) AddUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	added := *user
	if strings.TrimSpace(added.Name) == "" {
		added.Name = added.Login
	}

	id, err := insertReturningID(ctx, s.db,
		`INSERT INTO users (email, login, name, birthday) VALUES ($1, $2, $3, $4) RETURNING id`,
		added.Email, added.Login, added.Name, added.Birthday)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to add user", slog.String("login", user.Login), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to add user: %w", err)
	}
	added.ID = id
	added.Friends = []int{}

	s.logger.InfoContext(ctx, "User added", slog.Int("userID", added.ID), slog.String("login", added.Login))
	return &added, nil
}

// UpdateUser overwrites all scalar columns of an existing user. A supplied
// non-empty friend set fully replaces the stored outgoing edges; a nil or
// empty set leaves them untouched. Never inserts.
func (s *PostgresUserStore) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	existing, err := queryOne[userRow](ctx, s.db, `SELECT id, email, login, name, birthday FROM users WHERE id = $1`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	updated := *user
	if strings.TrimSpace(updated.Name) == "" {
		updated.Name = updated.Login
	}

	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := execAffecting(ctx, tx,
			`UPDATE users SET email = $1, login = $2, name = $3, birthday = $4 WHERE id = $5`,
			updated.Email, updated.Login, updated.Name, updated.Birthday, updated.ID)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		if len(updated.Friends) > 0 {
			return s.friendships.ReplaceFriends(ctx, tx, updated.ID, updated.Friends)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update user", slog.Int("userID", user.ID), slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "User updated", slog.Int("userID", user.ID))
	return s.GetUserByID(ctx, user.ID)
}

func (s *PostgresUserStore) AddFriend(ctx context.Context, userID, friendID int) (*domain.User, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.checkUserExists(ctx, friendID); err != nil {
		return nil, err
	}
	if err := s.friendships.AddFriend(ctx, userID, friendID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Friend added", slog.Int("userID", userID), slog.Int("friendID", friendID))
	return s.GetUserByID(ctx, userID)
}

func (s *PostgresUserStore) DeleteFriend(ctx context.Context, userID, friendID int) (*domain.User, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.checkUserExists(ctx, friendID); err != nil {
		return nil, err
	}
	deleted, err := s.friendships.DeleteFriend(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if deleted {
		s.logger.InfoContext(ctx, "Friend removed", slog.Int("userID", userID), slog.Int("friendID", friendID))
	}
	return s.GetUserByID(ctx, userID)
}

// GetFriends resolves the user's outgoing friend ids to full users.
func (s *PostgresUserStore) GetFriends(ctx context.Context, userID int) ([]domain.User, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := queryMany[userRow](ctx, s.db,
		`SELECT u.id, u.email, u.login, u.name, u.birthday
		 FROM users u
		 JOIN friendships f ON u.id = f.friend_id
		 WHERE f.user_id = $1
		 ORDER BY u.id ASC`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get friends", slog.Int("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	if len(rows) == 0 {
		return []domain.User{}, nil
	}
	return s.attachFriends(ctx, rows)
}

func (s *PostgresUserStore) GetConfirmedFriends(ctx context.Context, userID int) ([]domain.User, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.friendships.GetConfirmedFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	rows, err := queryManyIn[userRow](ctx, s.db, `SELECT id, email, login, name, birthday FROM users WHERE id IN (?) ORDER BY id ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmed friends: %w", err)
	}
	return s.attachFriends(ctx, rows)
}

func (s *PostgresUserStore) checkUserExists(ctx context.Context, userID int) error {
	id, err := queryOne[int](ctx, s.db, `SELECT id FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to check user existence: %w", err)
	}
	if id == nil {
		return ErrUserNotFound
	}
	return nil
}

// attachFriends groups one batched friendships query over all listed users
// and attaches each user's slice; users without friends get empty sets.
func (s *PostgresUserStore) attachFriends(ctx context.Context, rows []userRow) ([]domain.User, error) {
	userIDs := make([]int, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.ID)
	}

	edges, err := s.friendships.GetFriendsForUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	friendsByUser := make(map[int][]int, len(rows))
	for _, edge := range edges {
		friendsByUser[edge.UserID] = append(friendsByUser[edge.UserID], edge.FriendID)
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		user := row.toUser()
		if friends, ok := friendsByUser[row.ID]; ok {
			user.Friends = friends
		}
		users = append(users, user)
	}
	return users, nil
}

func (row userRow) toUser() domain.User {
	return domain.User{
		ID:       row.ID,
		Email:    row.Email,
		Login:    row.Login,
		Name:     row.Name,
		Birthday: row.Birthday,
		Friends:  []int{},
	}
}

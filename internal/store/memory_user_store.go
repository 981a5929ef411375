// internal/store/memory_user_store.go
package store

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"filmorate/internal/domain"
)

// MemoryUserStore is a non-persistent UserStorage backed by a map, with an
// id counter scoped to the store instance. Friend edges live inline on the
// stored users, directed from owner to friend. All methods return copies.
type MemoryUserStore struct {
	mu     sync.RWMutex
	users  map[int]*domain.User
	nextID int
	logger *slog.Logger
}

func NewMemoryUserStore(logger *slog.Logger) *MemoryUserStore {
	return &MemoryUserStore{
		users:  make(map[int]*domain.User),
		nextID: 1,
		logger: logger,
	}
}

func (s *MemoryUserStore) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, copyUser(s.users[id]))
	}
	return users, nil
}

func (s *MemoryUserStore) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(id)
}

func (s *MemoryUserStore) AddUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyUser(user)
	if strings.TrimSpace(stored.Name) == "" {
		stored.Name = stored.Login
	}
	stored.ID = s.nextID
	stored.Friends = []int{}
	s.nextID++

	s.users[stored.ID] = &stored
	s.logger.InfoContext(ctx, "User added", slog.Int("userID", stored.ID), slog.String("login", stored.Login))

	snapshot := copyUser(&stored)
	return &snapshot, nil
}

func (s *MemoryUserStore) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return nil, ErrUserNotFound
	}

	stored := copyUser(user)
	if strings.TrimSpace(stored.Name) == "" {
		stored.Name = stored.Login
	}
	if len(stored.Friends) > 0 {
		for _, friendID := range stored.Friends {
			if _, ok := s.users[friendID]; !ok {
				return nil, ErrUserNotFound
			}
		}
		sort.Ints(stored.Friends)
	} else {
		// Nil or empty friend set leaves the stored edges untouched.
		stored.Friends = existing.Friends
	}

	s.users[user.ID] = &stored
	s.logger.InfoContext(ctx, "User updated", slog.Int("userID", user.ID))

	snapshot := copyUser(&stored)
	return &snapshot, nil
}

func (s *MemoryUserStore) AddFriend(ctx context.Context, userID, friendID int) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if _, ok := s.users[friendID]; !ok {
		return nil, ErrUserNotFound
	}
	for _, id := range user.Friends {
		if id == friendID {
			return nil, ErrAlreadyFriends
		}
	}
	user.Friends = append(user.Friends, friendID)
	sort.Ints(user.Friends)
	s.logger.InfoContext(ctx, "Friend added", slog.Int("userID", userID), slog.Int("friendID", friendID))

	snapshot := copyUser(user)
	return &snapshot, nil
}

func (s *MemoryUserStore) DeleteFriend(ctx context.Context, userID, friendID int) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if _, ok := s.users[friendID]; !ok {
		return nil, ErrUserNotFound
	}
	for i, id := range user.Friends {
		if id == friendID {
			user.Friends = append(user.Friends[:i], user.Friends[i+1:]...)
			s.logger.InfoContext(ctx, "Friend removed", slog.Int("userID", userID), slog.Int("friendID", friendID))
			break
		}
	}
	// Removing a friendship that never existed is tolerated, not rejected.
	snapshot := copyUser(user)
	return &snapshot, nil
}

func (s *MemoryUserStore) GetFriends(ctx context.Context, userID int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, err := s.getLocked(userID)
	if err != nil {
		return nil, err
	}
	friends := make([]domain.User, 0, len(user.Friends))
	for _, friendID := range user.Friends {
		if friend, ok := s.users[friendID]; ok {
			friends = append(friends, copyUser(friend))
		}
	}
	return friends, nil
}

func (s *MemoryUserStore) GetConfirmedFriends(ctx context.Context, userID int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, err := s.getLocked(userID)
	if err != nil {
		return nil, err
	}
	confirmed := make([]domain.User, 0, len(user.Friends))
	for _, friendID := range user.Friends {
		friend, ok := s.users[friendID]
		if !ok {
			continue
		}
		for _, reverse := range friend.Friends {
			if reverse == userID {
				confirmed = append(confirmed, copyUser(friend))
				break
			}
		}
	}
	return confirmed, nil
}

func (s *MemoryUserStore) getLocked(id int) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	snapshot := copyUser(user)
	return &snapshot, nil
}

func copyUser(user *domain.User) domain.User {
	clone := *user
	clone.Friends = append([]int{}, user.Friends...)
	return clone
}

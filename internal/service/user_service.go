// internal/service/user_service.go
package service

import (
	"context"
	"log/slog"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

type UserService struct {
	users  store.UserStorage
	logger *slog.Logger
}

func NewUserService(users store.UserStorage, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.GetAllUsers(ctx)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *UserService) AddUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	return s.users.AddUser(ctx, user)
}

func (s *UserService) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	return s.users.UpdateUser(ctx, user)
}

func (s *UserService) AddFriend(ctx context.Context, userID, friendID int) (*domain.User, error) {
	return s.users.AddFriend(ctx, userID, friendID)
}

func (s *UserService) DeleteFriend(ctx context.Context, userID, friendID int) (*domain.User, error) {
	return s.users.DeleteFriend(ctx, userID, friendID)
}

func (s *UserService) GetFriends(ctx context.Context, userID int) ([]domain.User, error) {
	return s.users.GetFriends(ctx, userID)
}

func (s *UserService) GetConfirmedFriends(ctx context.Context, userID int) ([]domain.User, error) {
	return s.users.GetConfirmedFriends(ctx, userID)
}

// GetCommonFriends returns the users that both userID and otherID list as
// friends. Both users must exist.
func (s *UserService) GetCommonFriends(ctx context.Context, userID, otherID int) ([]domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.users.GetUserByID(ctx, otherID)
	if err != nil {
		return nil, err
	}

	otherSet := make(map[int]struct{}, len(other.Friends))
	for _, id := range other.Friends {
		otherSet[id] = struct{}{}
	}

	common := []domain.User{}
	for _, id := range user.Friends {
		if _, ok := otherSet[id]; !ok {
			continue
		}
		friend, err := s.users.GetUserByID(ctx, id)
		if err != nil {
			if store.IsNotFound(err) {
				s.logger.WarnContext(ctx, "common friend no longer exists", slog.Int("friend_id", id))
				continue
			}
			return nil, err
		}
		common = append(common, *friend)
	}
	return common, nil
}

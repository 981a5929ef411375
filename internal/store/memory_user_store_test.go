// internal/store/memory_user_store_test.go
package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/domain"
)

func testUser(login string) *domain.User {
	return &domain.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: domain.NewDate(1990, 5, 20),
	}
}

func addUsers(t *testing.T, s *MemoryUserStore, logins ...string) []int {
	t.Helper()
	ids := make([]int, 0, len(logins))
	for _, login := range logins {
		user, err := s.AddUser(context.Background(), testUser(login))
		require.NoError(t, err)
		ids = append(ids, user.ID)
	}
	return ids
}

func TestMemoryUserStore_AddUser_BlankNameDefaultsToLogin(t *testing.T) {
	s := NewMemoryUserStore(testLogger())

	user := testUser("dolly")
	user.Name = "   "
	added, err := s.AddUser(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, 1, added.ID)
	assert.Equal(t, "dolly", added.Name)
	assert.Empty(t, added.Friends)
}

func TestMemoryUserStore_GetUserByID_NotFound(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	_, err := s.GetUserByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStore_AddFriend_IsDirected(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	ids := addUsers(t, s, "anna", "bram")

	anna, err := s.AddFriend(context.Background(), ids[0], ids[1])
	require.NoError(t, err)
	assert.Equal(t, []int{ids[1]}, anna.Friends)

	bram, err := s.GetUserByID(context.Background(), ids[1])
	require.NoError(t, err)
	assert.Empty(t, bram.Friends, "friendship must not be mirrored")
}

func TestMemoryUserStore_AddFriend_Duplicate(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	ids := addUsers(t, s, "anna", "bram")

	_, err := s.AddFriend(context.Background(), ids[0], ids[1])
	require.NoError(t, err)
	_, err = s.AddFriend(context.Background(), ids[0], ids[1])
	assert.ErrorIs(t, err, ErrAlreadyFriends)
}

func TestMemoryUserStore_AddFriend_UnknownUsers(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	ids := addUsers(t, s, "anna")

	_, err := s.AddFriend(context.Background(), ids[0], 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = s.AddFriend(context.Background(), 99, ids[0])
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStore_DeleteFriend_AbsentEdgeTolerated(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	ids := addUsers(t, s, "anna", "bram")

	user, err := s.DeleteFriend(context.Background(), ids[0], ids[1])
	require.NoError(t, err)
	assert.Empty(t, user.Friends)
}

func TestMemoryUserStore_GetFriends(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	ids := addUsers(t, s, "anna", "bram", "cole")

	_, err := s.AddFriend(context.Background(), ids[0], ids[2])
	require.NoError(t, err)
	_, err = s.AddFriend(context.Background(), ids[0], ids[1])
	require.NoError(t, err)

	friends, err := s.GetFriends(context.Background(), ids[0])
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, "bram", friends[0].Login)
	assert.Equal(t, "cole", friends[1].Login)
}

func TestMemoryUserStore_GetConfirmedFriends_MutualOnly(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	ids := addUsers(t, s, "anna", "bram", "cole")

	// anna -> bram and bram -> anna are mutual; anna -> cole is one-sided.
	_, err := s.AddFriend(context.Background(), ids[0], ids[1])
	require.NoError(t, err)
	_, err = s.AddFriend(context.Background(), ids[1], ids[0])
	require.NoError(t, err)
	_, err = s.AddFriend(context.Background(), ids[0], ids[2])
	require.NoError(t, err)

	confirmed, err := s.GetConfirmedFriends(context.Background(), ids[0])
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "bram", confirmed[0].Login)
}

func TestMemoryUserStore_UpdateUser_ReplacesFriends(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	ids := addUsers(t, s, "anna", "bram", "cole")
	_, err := s.AddFriend(context.Background(), ids[0], ids[1])
	require.NoError(t, err)

	update := testUser("anna")
	update.ID = ids[0]
	update.Friends = []int{ids[2]}

	updated, err := s.UpdateUser(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, []int{ids[2]}, updated.Friends)
}

func TestMemoryUserStore_UpdateUser_EmptyFriendsKeepExisting(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	ids := addUsers(t, s, "anna", "bram")
	_, err := s.AddFriend(context.Background(), ids[0], ids[1])
	require.NoError(t, err)

	update := testUser("anna")
	update.ID = ids[0]

	updated, err := s.UpdateUser(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, []int{ids[1]}, updated.Friends)
}

func TestMemoryUserStore_UpdateUser_UnknownFriend(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	ids := addUsers(t, s, "anna")

	update := testUser("anna")
	update.ID = ids[0]
	update.Friends = []int{42}

	_, err := s.UpdateUser(context.Background(), update)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStore_UpdateUser_NotFound(t *testing.T) {
	s := NewMemoryUserStore(testLogger())
	update := testUser("anna")
	update.ID = 8

	_, err := s.UpdateUser(context.Background(), update)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

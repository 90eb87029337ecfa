package user

import (
	"context"
)

type RepoStub struct {
	nextId int
	users  map[int]User
}

func NewRepoStub() *RepoStub {
	return &RepoStub{users: map[int]User{}}
}

func (s *RepoStub) CreateUser(ctx context.Context, user User) (int, error) {
	s.nextId++
	user.Id = s.nextId
	if user.Settings.HomeCurrency == "" {
		user.Settings.HomeCurrency = "USD"
	}
	if user.Settings.Timezone == "" {
		user.Settings.Timezone = "UTC"
	}
	s.users[user.Id] = user
	return user.Id, nil
}

func (s *RepoStub) GetUser(ctx context.Context, id int) (User, error) {
	user, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *RepoStub) GetUserByUid(ctx context.Context, uid string) (User, error) {
	for _, user := range s.users {
		if user.Uid == uid {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *RepoStub) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	stored, ok := s.users[userId]
	if !ok {
		return User{}, ErrUserNotFound
	}
	stored.DisplayName = user.DisplayName
	s.users[userId] = stored
	return stored, nil
}

func (s *RepoStub) UpdateSettings(ctx context.Context, userId int, patch SettingsPatch) error {
	stored, ok := s.users[userId]
	if !ok {
		return ErrUserNotFound
	}
	if patch.HomeCurrency != nil {
		stored.Settings.HomeCurrency = *patch.HomeCurrency
	}
	if patch.Timezone != nil {
		stored.Settings.Timezone = *patch.Timezone
	}
	if patch.BookingEmail != nil {
		v := *patch.BookingEmail
		stored.Settings.Notifications.BookingEmail = &v
	}
	if patch.BookingPush != nil {
		v := *patch.BookingPush
		stored.Settings.Notifications.BookingPush = &v
	}
	if patch.GoogleCalendarId != nil {
		stored.Settings.GoogleCalendarId = *patch.GoogleCalendarId
	}
	s.users[userId] = stored
	return nil
}

func (s *RepoStub) DeleteUser(ctx context.Context, id int) error {
	delete(s.users, id)
	return nil
}

func (s *RepoStub) GetAllUsers(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users, nil
}

func (s *RepoStub) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	for _, user := range s.users {
		if user.Username == username {
			return false, nil
		}
	}
	return true, nil
}

func (s *RepoStub) Cleanup() {
	s.users = map[int]User{}
	s.nextId = 0
}

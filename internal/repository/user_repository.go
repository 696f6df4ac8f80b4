package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storyloom-backend/internal/domain"
	"storyloom-backend/internal/store"
)

const bcryptCost = 10

type UserRepository struct {
	store *store.Store
}

func NewUserRepository(st *store.Store) *UserRepository {
	return &UserRepository{store: st}
}

// CreateUser registers a new user. Username comparison is exact and
// case-sensitive. The credential is hashed before it ever reaches the
// document.
func (r *UserRepository) CreateUser(ctx context.Context, username, password, bio string) (*domain.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate user id: %w", err)
	}

	var user domain.User
	err = r.store.Update(func(doc *store.Document) error {
		for i := range doc.Users {
			if doc.Users[i].Username == username {
				return ErrDuplicateUser
			}
		}

		now := time.Now().UTC()
		user = domain.User{
			ID:         id.String(),
			Username:   username,
			Bio:        bio,
			ProfilePic: domain.DefaultProfilePic,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		doc.Users = append(doc.Users, user)
		doc.UserAuth = append(doc.UserAuth, domain.UserAuth{
			UserID:         user.ID,
			HashedPassword: string(hashed),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	err := r.store.View(func(doc *store.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == userID {
				user = doc.Users[i]
				return nil
			}
		}
		return ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByName(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.store.View(func(doc *store.Document) error {
		for i := range doc.Users {
			if doc.Users[i].Username == username {
				user = doc.Users[i]
				return nil
			}
		}
		return ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyCredentials returns the user for an exact username match with a
// matching password. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (r *UserRepository) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	var (
		user domain.User
		hash string
	)
	err := r.store.View(func(doc *store.Document) error {
		for i := range doc.Users {
			if doc.Users[i].Username != username {
				continue
			}
			user = doc.Users[i]
			for j := range doc.UserAuth {
				if doc.UserAuth[j].UserID == user.ID {
					hash = doc.UserAuth[j].HashedPassword
					return nil
				}
			}
			return ErrInvalidCredentials
		}
		return ErrInvalidCredentials
	})
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// UpdateProfile edits username, bio and profile picture. Renaming to the
// caller's own current name succeeds; colliding with a different user's name
// does not.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID, username, bio, profilePic string) (*domain.User, error) {
	var user domain.User
	err := r.store.Update(func(doc *store.Document) error {
		idx := -1
		for i := range doc.Users {
			if doc.Users[i].ID == userID {
				idx = i
				continue
			}
			if doc.Users[i].Username == username {
				return ErrDuplicateUser
			}
		}
		if idx < 0 {
			return ErrUserNotFound
		}

		doc.Users[idx].Username = username
		doc.Users[idx].Bio = bio
		if profilePic != "" {
			doc.Users[idx].ProfilePic = profilePic
		}
		doc.Users[idx].UpdatedAt = time.Now().UTC()
		user = doc.Users[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserStats counts followers, followees and published stories from the
// live document. Nothing here is cached.
func (r *UserRepository) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	var stats domain.UserStats
	err := r.store.View(func(doc *store.Document) error {
		found := false
		for i := range doc.Users {
			if doc.Users[i].ID == userID {
				found = true
				break
			}
		}
		if !found {
			return ErrUserNotFound
		}

		for i := range doc.Follows {
			if doc.Follows[i].FollowingID == userID {
				stats.Followers++
			}
			if doc.Follows[i].FollowerID == userID {
				stats.Following++
			}
		}
		for i := range doc.Stories {
			if doc.Stories[i].AuthorID == userID {
				stats.Stories++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

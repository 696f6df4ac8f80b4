package repository

import (
	"context"
	"sort"
	"time"

	"storyloom-backend/internal/domain"
	"storyloom-backend/internal/store"
)

type FollowRepository struct {
	store *store.Store
}

func NewFollowRepository(st *store.Store) *FollowRepository {
	return &FollowRepository{store: st}
}

// ToggleFollow flips the follow edge between two distinct existing users and
// returns the new state. The flat edge collection is the only record of the
// relationship, so both directions of the graph change together or not at
// all.
func (r *FollowRepository) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	var following bool
	err := r.store.Update(func(doc *store.Document) error {
		if !userExists(doc, followerID) || !userExists(doc, followingID) {
			return ErrUserNotFound
		}

		for i := range doc.Follows {
			if doc.Follows[i].FollowerID == followerID && doc.Follows[i].FollowingID == followingID {
				doc.Follows = append(doc.Follows[:i], doc.Follows[i+1:]...)
				following = false
				return nil
			}
		}
		doc.Follows = append(doc.Follows, domain.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
			CreatedAt:   time.Now().UTC(),
		})
		following = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return following, nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var following bool
	err := r.store.View(func(doc *store.Document) error {
		for i := range doc.Follows {
			if doc.Follows[i].FollowerID == followerID && doc.Follows[i].FollowingID == followingID {
				following = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return following, nil
}

// GetFollowers returns the users following userID, newest edge first.
func (r *FollowRepository) GetFollowers(ctx context.Context, userID string) ([]domain.User, error) {
	return r.edgeUsers(userID, func(f domain.Follow) (string, bool) {
		return f.FollowerID, f.FollowingID == userID
	})
}

// GetFollowing returns the users userID follows, newest edge first.
func (r *FollowRepository) GetFollowing(ctx context.Context, userID string) ([]domain.User, error) {
	return r.edgeUsers(userID, func(f domain.Follow) (string, bool) {
		return f.FollowingID, f.FollowerID == userID
	})
}

func (r *FollowRepository) edgeUsers(userID string, pick func(domain.Follow) (string, bool)) ([]domain.User, error) {
	type edge struct {
		userID    string
		createdAt time.Time
	}

	var edges []edge
	byID := make(map[string]domain.User)
	err := r.store.View(func(doc *store.Document) error {
		if !userExists(doc, userID) {
			return ErrUserNotFound
		}
		for i := range doc.Follows {
			if other, ok := pick(doc.Follows[i]); ok {
				edges = append(edges, edge{userID: other, createdAt: doc.Follows[i].CreatedAt})
			}
		}
		for i := range doc.Users {
			byID[doc.Users[i].ID] = doc.Users[i]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(edges, func(i, j int) bool {
		return edges[i].createdAt.After(edges[j].createdAt)
	})

	users := make([]domain.User, 0, len(edges))
	for _, e := range edges {
		if u, ok := byID[e.userID]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"storyloom-backend/internal/domain"
	"storyloom-backend/internal/store"
)

// Story list orderings.
const (
	OrderRecent   = "recent"
	OrderTrending = "trending"
)

type StoryRepository struct {
	store *store.Store
}

func NewStoryRepository(st *store.Store) *StoryRepository {
	return &StoryRepository{store: st}
}

func (r *StoryRepository) CreateStory(ctx context.Context, authorID, title, content, genre, coverImage string) (*domain.Story, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate story id: %w", err)
	}
	if coverImage == "" {
		coverImage = domain.DefaultCoverImage
	}

	var story domain.Story
	err = r.store.Update(func(doc *store.Document) error {
		if !userExists(doc, authorID) {
			return ErrUserNotFound
		}

		now := time.Now().UTC()
		story = domain.Story{
			ID:         id.String(),
			Title:      title,
			Content:    content,
			Genre:      genre,
			CoverImage: coverImage,
			AuthorID:   authorID,
			Views:      0,
			LikedBy:    []string{},
			Comments:   []domain.Comment{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		doc.Stories = append(doc.Stories, story)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// ViewStory returns the story joined with its author and counts the view in
// the same transaction.
func (r *StoryRepository) ViewStory(ctx context.Context, storyID string) (*domain.StoryWithAuthor, error) {
	var result domain.StoryWithAuthor
	err := r.store.Update(func(doc *store.Document) error {
		idx := storyIndex(doc, storyID)
		if idx < 0 {
			return ErrStoryNotFound
		}
		doc.Stories[idx].Views++
		result = joinAuthor(doc, doc.Stories[idx])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListStories returns stories joined with their authors.
//
// Order "recent" sorts by creation time, newest first. Order "trending"
// sorts by like count, ties broken by creation time and then story ID so the
// order is a deterministic total order. An optional query filters by
// case-insensitive substring match on title or content.
func (r *StoryRepository) ListStories(ctx context.Context, order, query string) ([]domain.StoryWithAuthor, error) {
	var stories []domain.StoryWithAuthor
	err := r.store.View(func(doc *store.Document) error {
		q := strings.ToLower(query)
		for i := range doc.Stories {
			s := doc.Stories[i]
			if q != "" &&
				!strings.Contains(strings.ToLower(s.Title), q) &&
				!strings.Contains(strings.ToLower(s.Content), q) {
				continue
			}
			stories = append(stories, joinAuthor(doc, s))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortStories(stories, order)
	return stories, nil
}

func (r *StoryRepository) ListStoriesByAuthor(ctx context.Context, authorID string) ([]domain.StoryWithAuthor, error) {
	var stories []domain.StoryWithAuthor
	err := r.store.View(func(doc *store.Document) error {
		for i := range doc.Stories {
			if doc.Stories[i].AuthorID == authorID {
				stories = append(stories, joinAuthor(doc, doc.Stories[i]))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortStories(stories, OrderRecent)
	return stories, nil
}

// Feed returns stories from authors the user follows, newest first, with
// offset/limit pagination.
func (r *StoryRepository) Feed(ctx context.Context, userID string, offset, count int64) ([]domain.StoryWithAuthor, error) {
	var stories []domain.StoryWithAuthor
	err := r.store.View(func(doc *store.Document) error {
		if !userExists(doc, userID) {
			return ErrUserNotFound
		}

		followed := make(map[string]bool)
		for i := range doc.Follows {
			if doc.Follows[i].FollowerID == userID {
				followed[doc.Follows[i].FollowingID] = true
			}
		}
		for i := range doc.Stories {
			if followed[doc.Stories[i].AuthorID] {
				stories = append(stories, joinAuthor(doc, doc.Stories[i]))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortStories(stories, OrderRecent)
	if offset >= int64(len(stories)) {
		return []domain.StoryWithAuthor{}, nil
	}
	stories = stories[offset:]
	if count < int64(len(stories)) {
		stories = stories[:count]
	}
	return stories, nil
}

// ToggleLike flips the user's like on a story and returns the new state with
// the resulting like count. Unliking a story the user never liked is just
// the add path; the count is the size of the liked-by set and cannot go
// negative.
func (r *StoryRepository) ToggleLike(ctx context.Context, storyID, userID string) (bool, int, error) {
	var (
		liked bool
		count int
	)
	err := r.store.Update(func(doc *store.Document) error {
		idx := storyIndex(doc, storyID)
		if idx < 0 {
			return ErrStoryNotFound
		}

		s := &doc.Stories[idx]
		for i, id := range s.LikedBy {
			if id == userID {
				s.LikedBy = append(s.LikedBy[:i], s.LikedBy[i+1:]...)
				liked = false
				count = s.LikeCount()
				return nil
			}
		}
		s.LikedBy = append(s.LikedBy, userID)
		liked = true
		count = s.LikeCount()
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *StoryRepository) IsLiked(ctx context.Context, storyID, userID string) (bool, error) {
	var liked bool
	err := r.store.View(func(doc *store.Document) error {
		idx := storyIndex(doc, storyID)
		if idx < 0 {
			return ErrStoryNotFound
		}
		liked = doc.Stories[idx].LikedByUser(userID)
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// AddComment appends a comment to the story, preserving insertion order for
// chronological listing.
func (r *StoryRepository) AddComment(ctx context.Context, storyID, userID, content string) (*domain.Comment, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate comment id: %w", err)
	}

	var comment domain.Comment
	err = r.store.Update(func(doc *store.Document) error {
		idx := storyIndex(doc, storyID)
		if idx < 0 {
			return ErrStoryNotFound
		}
		if !userExists(doc, userID) {
			return ErrUserNotFound
		}

		comment = domain.Comment{
			ID:        id.String(),
			UserID:    userID,
			Content:   content,
			CreatedAt: time.Now().UTC(),
		}
		doc.Stories[idx].Comments = append(doc.Stories[idx].Comments, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns the story's comments in insertion order, each joined
// with its author.
func (r *StoryRepository) ListComments(ctx context.Context, storyID string) ([]domain.CommentWithUser, error) {
	comments := []domain.CommentWithUser{}
	err := r.store.View(func(doc *store.Document) error {
		idx := storyIndex(doc, storyID)
		if idx < 0 {
			return ErrStoryNotFound
		}
		for _, c := range doc.Stories[idx].Comments {
			cu := domain.CommentWithUser{Comment: c}
			for i := range doc.Users {
				if doc.Users[i].ID == c.UserID {
					cu.User = doc.Users[i]
					break
				}
			}
			comments = append(comments, cu)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func storyIndex(doc *store.Document, storyID string) int {
	for i := range doc.Stories {
		if doc.Stories[i].ID == storyID {
			return i
		}
	}
	return -1
}

func userExists(doc *store.Document, userID string) bool {
	for i := range doc.Users {
		if doc.Users[i].ID == userID {
			return true
		}
	}
	return false
}

func joinAuthor(doc *store.Document, s domain.Story) domain.StoryWithAuthor {
	out := domain.StoryWithAuthor{Story: s, LikesCount: s.LikeCount()}
	for i := range doc.Users {
		if doc.Users[i].ID == s.AuthorID {
			out.Author = doc.Users[i]
			break
		}
	}
	return out
}

func sortStories(stories []domain.StoryWithAuthor, order string) {
	sort.Slice(stories, func(i, j int) bool {
		a, b := &stories[i], &stories[j]
		if order == OrderTrending && a.LikesCount != b.LikesCount {
			return a.LikesCount > b.LikesCount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

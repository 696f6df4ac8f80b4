package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyloom-backend/internal/domain"
	"storyloom-backend/internal/repository"
	"storyloom-backend/internal/store"
)

type fixture struct {
	st      *store.Store
	users   *repository.UserRepository
	stories *repository.StoryRepository
	follows *repository.FollowRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newTestStore(t)
	return &fixture{
		st:      st,
		users:   repository.NewUserRepository(st),
		stories: repository.NewStoryRepository(st),
		follows: repository.NewFollowRepository(st),
	}
}

func (f *fixture) user(t *testing.T, name string) *domain.User {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), name, "password", "")
	require.NoError(t, err)
	return user
}

func (f *fixture) story(t *testing.T, authorID, title string) *domain.Story {
	t.Helper()
	story, err := f.stories.CreateStory(context.Background(), authorID, title, "Content of "+title, "", "")
	require.NoError(t, err)
	return story
}

func TestCreateStory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	story, err := f.stories.CreateStory(ctx, alice.ID, "The Lighthouse", "It was dark.", "mystery", "")
	require.NoError(t, err)

	assert.NotEmpty(t, story.ID)
	assert.Equal(t, alice.ID, story.AuthorID)
	assert.Equal(t, "mystery", story.Genre)
	assert.Equal(t, domain.DefaultCoverImage, story.CoverImage)
	assert.Zero(t, story.Views)
	assert.Empty(t, story.LikedBy)
	assert.Empty(t, story.Comments)
}

func TestCreateStory_UnknownAuthor(t *testing.T) {
	f := newFixture(t)
	_, err := f.stories.CreateStory(context.Background(), "no-such-user", "Title", "Content", "", "")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestToggleLike_Involution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	story := f.story(t, alice.ID, "The Lighthouse")

	// First toggle likes.
	liked, count, err := f.stories.ToggleLike(ctx, story.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	// Second toggle returns to the original state.
	liked, count, err = f.stories.ToggleLike(ctx, story.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)

	// The count is the size of the set at every step; it can never go
	// negative because "unlike when not liked" is just the add path.
	liked, count, err = f.stories.ToggleLike(ctx, story.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	err = f.st.View(func(doc *store.Document) error {
		require.Len(t, doc.Stories, 1)
		assert.Equal(t, doc.Stories[0].LikeCount(), len(doc.Stories[0].LikedBy))
		return nil
	})
	require.NoError(t, err)
}

func TestToggleLike_UnknownStory(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob")
	_, _, err := f.stories.ToggleLike(context.Background(), "no-such-story", bob.ID)
	assert.ErrorIs(t, err, repository.ErrStoryNotFound)
}

func TestToggleLike_ConcurrentLikersAllCounted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	story := f.story(t, alice.ID, "The Lighthouse")

	const likers = 20
	userIDs := make([]string, likers)
	for i := 0; i < likers; i++ {
		userIDs[i] = f.user(t, "liker_"+string(rune('a'+i))).ID
	}

	var wg sync.WaitGroup
	for _, id := range userIDs {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, _, err := f.stories.ToggleLike(ctx, story.ID, userID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	err := f.st.View(func(doc *store.Document) error {
		require.Len(t, doc.Stories, 1)
		assert.Equal(t, likers, doc.Stories[0].LikeCount())

		seen := make(map[string]bool)
		for _, id := range doc.Stories[0].LikedBy {
			seen[id] = true
		}
		assert.Len(t, seen, likers)
		return nil
	})
	require.NoError(t, err)
}

func TestAddComment_ChronologicalOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	story := f.story(t, alice.ID, "The Lighthouse")

	for _, content := range []string{"first", "second", "third"} {
		_, err := f.stories.AddComment(ctx, story.ID, bob.ID, content)
		require.NoError(t, err)
	}

	comments, err := f.stories.ListComments(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, "third", comments[2].Content)
	assert.Equal(t, "bob", comments[0].User.Username)
}

func TestAddComment_UnknownStoryOrUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	story := f.story(t, alice.ID, "The Lighthouse")

	_, err := f.stories.AddComment(ctx, "no-such-story", alice.ID, "hello")
	assert.ErrorIs(t, err, repository.ErrStoryNotFound)

	_, err = f.stories.AddComment(ctx, story.ID, "no-such-user", "hello")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestListStories_RecentOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	s3 := f.story(t, alice.ID, "Third oldest")
	time.Sleep(5 * time.Millisecond)
	s2 := f.story(t, alice.ID, "Second oldest")
	time.Sleep(5 * time.Millisecond)
	s1 := f.story(t, alice.ID, "Newest")

	stories, err := f.stories.ListStories(ctx, repository.OrderRecent, "")
	require.NoError(t, err)
	require.Len(t, stories, 3)
	assert.Equal(t, []string{s1.ID, s2.ID, s3.ID}, []string{stories[0].ID, stories[1].ID, stories[2].ID})
	assert.Equal(t, "alice", stories[0].Author.Username)
}

func TestListStories_TrendingOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	u1 := f.user(t, "reader1")
	u2 := f.user(t, "reader2")
	u3 := f.user(t, "reader3")

	s1 := f.story(t, alice.ID, "Most liked")
	time.Sleep(5 * time.Millisecond)
	s2 := f.story(t, alice.ID, "Some likes")
	time.Sleep(5 * time.Millisecond)
	s3 := f.story(t, alice.ID, "One like")

	for _, userID := range []string{u1.ID, u2.ID, u3.ID} {
		_, _, err := f.stories.ToggleLike(ctx, s1.ID, userID)
		require.NoError(t, err)
	}
	for _, userID := range []string{u1.ID, u2.ID} {
		_, _, err := f.stories.ToggleLike(ctx, s2.ID, userID)
		require.NoError(t, err)
	}
	_, _, err := f.stories.ToggleLike(ctx, s3.ID, u1.ID)
	require.NoError(t, err)

	stories, err := f.stories.ListStories(ctx, repository.OrderTrending, "")
	require.NoError(t, err)
	require.Len(t, stories, 3)
	assert.Equal(t, []string{s1.ID, s2.ID, s3.ID}, []string{stories[0].ID, stories[1].ID, stories[2].ID})
	assert.Equal(t, 3, stories[0].LikesCount)
}

func TestListStories_TrendingTiesBrokenByNewest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	f.story(t, alice.ID, "Older")
	time.Sleep(5 * time.Millisecond)
	newer := f.story(t, alice.ID, "Newer")

	// No likes anywhere: trending must still be deterministic.
	stories, err := f.stories.ListStories(ctx, repository.OrderTrending, "")
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, newer.ID, stories[0].ID)
}

func TestListStories_SearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	match := f.story(t, alice.ID, "The LIGHTHOUSE keeper")
	f.story(t, alice.ID, "Unrelated")

	stories, err := f.stories.ListStories(ctx, repository.OrderRecent, "lighthouse")
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, match.ID, stories[0].ID)

	// Content matches too.
	stories, err = f.stories.ListStories(ctx, repository.OrderRecent, "content of unrelated")
	require.NoError(t, err)
	require.Len(t, stories, 1)
}

func TestViewStory_CountsViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	story := f.story(t, alice.ID, "The Lighthouse")

	first, err := f.stories.ViewStory(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Views)
	assert.Equal(t, "alice", first.Author.Username)

	second, err := f.stories.ViewStory(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Views)

	_, err = f.stories.ViewStory(ctx, "no-such-story")
	assert.ErrorIs(t, err, repository.ErrStoryNotFound)
}

func TestFeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reader := f.user(t, "reader")
	followed := f.user(t, "followed")
	stranger := f.user(t, "stranger")

	_, err := f.follows.ToggleFollow(ctx, reader.ID, followed.ID)
	require.NoError(t, err)

	old := f.story(t, followed.ID, "Older story")
	time.Sleep(5 * time.Millisecond)
	fresh := f.story(t, followed.ID, "Fresh story")
	f.story(t, stranger.ID, "Invisible story")

	feed, err := f.stories.Feed(ctx, reader.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, fresh.ID, feed[0].ID)
	assert.Equal(t, old.ID, feed[1].ID)

	// Pagination.
	page, err := f.stories.Feed(ctx, reader.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, old.ID, page[0].ID)

	empty, err := f.stories.Feed(ctx, reader.ID, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIsLiked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	story := f.story(t, alice.ID, "The Lighthouse")

	liked, err := f.stories.IsLiked(ctx, story.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, _, err = f.stories.ToggleLike(ctx, story.ID, bob.ID)
	require.NoError(t, err)

	liked, err = f.stories.IsLiked(ctx, story.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

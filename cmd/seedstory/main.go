// Command seedstory fills the document store with development data: users,
// stories, follows, likes and comments. Everything goes through the normal
// repositories, so seeded data looks exactly like data created by the API.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"

	"storyloom-backend/internal/repository"
	"storyloom-backend/internal/store"
)

const (
	numUsers       = 50
	storiesPerUser = 4
	followsPerUser = 10
	likesPerStory  = 8
)

var genres = []string{"fantasy", "mystery", "romance", "sci-fi", "horror", ""}

func main() {
	ctx := context.Background()

	path := os.Getenv("STORYLOOM_DB_PATH")
	if path == "" {
		path = "database.json"
	}

	if len(os.Args) > 1 && os.Args[1] == "--clean" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Fatal("clean: ", err)
		}
		fmt.Println("removed", path)
		return
	}

	st, err := store.Open(path)
	if err != nil {
		log.Fatal("open store: ", err)
	}

	users := repository.NewUserRepository(st)
	stories := repository.NewStoryRepository(st)
	follows := repository.NewFollowRepository(st)

	// --- 1. users ---
	fmt.Printf("[1/4] users (%d)...", numUsers)
	userIDs := make([]string, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := users.CreateUser(ctx,
			fmt.Sprintf("user_%04d", i),
			"password123",
			fmt.Sprintf("I am user number %d and I write stories.", i),
		)
		if err != nil {
			log.Fatal("users: ", err)
		}
		userIDs = append(userIDs, user.ID)
	}
	fmt.Println(" done")

	// --- 2. stories ---
	fmt.Printf("[2/4] stories (%d)...", numUsers*storiesPerUser)
	storyIDs := make([]string, 0, numUsers*storiesPerUser)
	for i, authorID := range userIDs {
		for j := 0; j < storiesPerUser; j++ {
			story, err := stories.CreateStory(ctx, authorID,
				fmt.Sprintf("Story #%d by user_%04d", j, i),
				fmt.Sprintf("Once upon a time, user_%04d wrote their story number %d.", i, j),
				genres[rand.Intn(len(genres))],
				"",
			)
			if err != nil {
				log.Fatal("stories: ", err)
			}
			storyIDs = append(storyIDs, story.ID)
		}
	}
	fmt.Println(" done")

	// --- 3. follows ---
	fmt.Printf("[3/4] follows (~%d)...", numUsers*followsPerUser)
	for i := range userIDs {
		added := 0
		for _, j := range rand.Perm(numUsers) {
			if j == i {
				continue
			}
			if _, err := follows.ToggleFollow(ctx, userIDs[i], userIDs[j]); err != nil {
				log.Fatal("follows: ", err)
			}
			added++
			if added >= followsPerUser {
				break
			}
		}
	}
	fmt.Println(" done")

	// --- 4. likes & comments ---
	fmt.Printf("[4/4] likes & comments...")
	for _, storyID := range storyIDs {
		for _, j := range rand.Perm(numUsers)[:likesPerStory] {
			if _, _, err := stories.ToggleLike(ctx, storyID, userIDs[j]); err != nil {
				log.Fatal("likes: ", err)
			}
		}
		commenter := userIDs[rand.Intn(numUsers)]
		if _, err := stories.AddComment(ctx, storyID, commenter, "What a great story!"); err != nil {
			log.Fatal("comments: ", err)
		}
	}
	fmt.Println(" done")

	fmt.Printf("\nDone! users: %d, stories: %d, revision: %d\n",
		numUsers, len(storyIDs), st.Revision())
}

// seed inserts demo users, posts and likes into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/magiskboy/blog-backend/internal/infrastructure/postgres"
)

type userSpec struct {
	name     string
	email    string
	google   bool
	facebook bool
}

var users = []userSpec{
	// Linked to a single provider, good for exercising the linking flow
	{"Alice Nguyen", "alice@test.local", true, false},
	{"Bob Tran", "bob@test.local", false, true},

	// Linked to both providers
	{"Carol Pham", "carol@test.local", true, true},
}

type postSpec struct {
	authorEmail string
	title       string
	body        string
	likedBy     []string
}

var posts = []postSpec{
	{
		authorEmail: "alice@test.local",
		title:       "Hello world",
		body:        "My very first post on this blog.",
		likedBy:     []string{"bob@test.local", "carol@test.local"},
	},
	{
		authorEmail: "bob@test.local",
		title:       "A longer story",
		body:        strings.Repeat("Lorem ipsum dolor sit amet. ", 20),
		likedBy:     []string{"alice@test.local"},
	},
	{
		authorEmail: "carol@test.local",
		title:       "Nobody liked this one",
		body:        "And that is fine.",
	},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	userIDs := make(map[string]int64, len(users))
	for _, spec := range users {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO users (name, email, link_to_google, link_to_facebook)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
			RETURNING id`,
			spec.name, spec.email, spec.google, spec.facebook,
		).Scan(&id)
		if err != nil {
			log.Fatalf("upsert user %s: %v", spec.email, err)
		}
		userIDs[spec.email] = id
	}

	var created int
	for _, spec := range posts {
		summary := spec.body
		if len(summary) > 200 {
			summary = summary[:200] + "..."
		}

		var postID int64
		err := pool.QueryRow(ctx, `
			INSERT INTO posts (title, summary, body, author_id, n_likes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			spec.title, summary, spec.body, userIDs[spec.authorEmail], len(spec.likedBy),
		).Scan(&postID)
		if err != nil {
			log.Fatalf("insert post %q: %v", spec.title, err)
		}
		created++

		for _, email := range spec.likedBy {
			if _, err := pool.Exec(ctx, `
				INSERT INTO likes (user_id, post_id) VALUES ($1, $2)`,
				userIDs[email], postID,
			); err != nil {
				log.Fatalf("insert like on %q: %v", spec.title, err)
			}
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Users: %d  Posts: %d\n", len(users), created)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in via a provider (alice is linked to Google):")
	fmt.Println()
	fmt.Println("    open 'http://localhost:8080/auth/?action=login&provider=google'")
	fmt.Println("    # Complete the consent screen, copy access_token from the callback response")
	fmt.Println()
	fmt.Println("  Step 2 — create a post:")
	fmt.Println()
	fmt.Println("    export TOKEN=eyJ...")
	fmt.Println("    curl -s -X POST http://localhost:8080/posts \\")
	fmt.Println("      -H \"Authorization: Bearer $TOKEN\" \\")
	fmt.Println("      -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"title\":\"From curl\",\"body\":\"Hello\"}'")
	fmt.Println()
	fmt.Println("  Step 3 — browse:")
	fmt.Println()
	fmt.Println("    curl -s http://localhost:8080/posts")
	fmt.Println("    curl -s http://localhost:8080/posts/1/likes")
}

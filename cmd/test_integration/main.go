package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

type feedResponse struct {
	Handle        string `json:"handle"`
	FolloweeCount int    `json:"followee_count"`
	Entries       []struct {
		Author    string    `json:"author"`
		Text      string    `json:"text"`
		LikeCount int       `json:"likeCount"`
		CreatedAt time.Time `json:"createdAt"`
		Score     float64   `json:"score"`
	} `json:"entries"`
}

func main() {
	baseURL := os.Getenv("FEED_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	handle := "alice"
	if len(os.Args) > 1 {
		handle = os.Args[1]
	}

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("Starting smoke test against", baseURL)

	fmt.Println("1. Health check...")
	if _, ok := get(client, baseURL+"/healthz"); !ok {
		fmt.Println("FAILED: health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: health check")

	fmt.Printf("2. Feed for %q...\n", handle)
	body, ok := get(client, baseURL+"/feed/"+url.PathEscape(handle)+"?limit=30")
	if !ok {
		fmt.Println("FAILED: feed")
		os.Exit(1)
	}
	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		fmt.Printf("FAILED: feed response is not valid JSON: %v\n", err)
		os.Exit(1)
	}
	if len(feed.Entries) > 30 {
		fmt.Printf("FAILED: expected at most 30 entries, got %d\n", len(feed.Entries))
		os.Exit(1)
	}
	for i := 1; i < len(feed.Entries); i++ {
		if feed.Entries[i].Score > feed.Entries[i-1].Score {
			fmt.Printf("FAILED: entries not sorted by score at index %d\n", i)
			os.Exit(1)
		}
	}
	if feed.FolloweeCount == 0 {
		fmt.Printf("No followees found for handle: %s\n", handle)
	}
	fmt.Printf("PASSED: feed (%d followees, %d entries)\n", feed.FolloweeCount, len(feed.Entries))

	fmt.Println("3. Metrics...")
	metrics, ok := get(client, baseURL+"/metrics")
	if !ok || !strings.Contains(string(metrics), "feed_builds_total") {
		fmt.Println("FAILED: metrics")
		os.Exit(1)
	}
	fmt.Println("PASSED: metrics")
}

func get(client *http.Client, endpoint string) ([]byte, bool) {
	resp, err := client.Get(endpoint)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}
	return respBody, true
}

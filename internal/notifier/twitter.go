package notifier

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/dxp-leaderboard/internal/leaderboard"
)

const tweetLimit = 280

type statusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// TwitterNotifier tweets the team standings
type TwitterNotifier struct {
	statuses statusUpdater
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{statuses: client.Statuses}, nil
}

// Notify posts one tweet with the standings
func (n *TwitterNotifier) Notify(_ context.Context, board *leaderboard.Board) error {
	if board.Empty() {
		return fmt.Errorf("no teams to post")
	}
	if _, _, err := n.statuses.Update(formatTweet(board), nil); err != nil {
		return fmt.Errorf("failed to post standings: %w", err)
	}
	return nil
}

// formatTweet formats the standings as a tweet
func formatTweet(board *leaderboard.Board) string {
	tweet := leaderboard.Summary(board.Results)
	tweet += "\n" + Header(board.CheckedAt)
	tweet += "\n#FruitWars #DXP"

	runes := []rune(tweet)
	if len(runes) > tweetLimit {
		tweet = string(runes[:tweetLimit-3]) + "..."
	}
	return tweet
}

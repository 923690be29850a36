// Package telegram is a minimal Telegram Bot API client used to post leaderboards
// to a chat.
package telegram

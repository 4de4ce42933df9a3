package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/forest-guardian/cloudcover/internal/properties"
)

const (
	colorRed    = 16711680
	colorGreen  = 65280
	colorOrange = 16753920
)

var client = &http.Client{Timeout: 10 * time.Second}

type DiscordMessage struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

// SendDiscordEmbed posts one embed to a webhook. An empty url disables notifications.
func SendDiscordEmbed(url string, embed DiscordEmbed) error {
	if url == "" {
		return nil
	}
	payload, err := json.Marshal(DiscordMessage{Embeds: []DiscordEmbed{embed}})
	if err != nil {
		return err
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send Discord notification, status code: %d", resp.StatusCode)
	}
	return nil
}

func SendDiscordErrorNotification(errorMessage string) error {
	return SendDiscordEmbed(properties.DiscordErrorNotificationUrl(), DiscordEmbed{
		Title:       "🚨 Cloud coverage error",
		Description: errorMessage,
		Color:       colorRed,
	})
}

func SendDiscordWarnNotification(warnMessage string) error {
	return SendDiscordEmbed(properties.DiscordErrorNotificationUrl(), DiscordEmbed{
		Title:       "⚠️ Cloud coverage warning",
		Description: warnMessage,
		Color:       colorOrange,
	})
}

func SendDiscordSuccessNotification(successMessage string) error {
	return SendDiscordEmbed(properties.DiscordSuccessNotificationUrl(), DiscordEmbed{
		Title:       "✅ Cloud coverage done",
		Description: successMessage,
		Color:       colorGreen,
	})
}

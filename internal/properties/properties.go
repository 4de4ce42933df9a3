package properties

import (
	"os"

	"github.com/joho/godotenv"
)

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func LogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}

var envFiles = []string{".env", "../.env", "../../.env"}

// LoadEnv loads the first .env file found next to or above the working directory.
// It returns the file it loaded, or "" when none exists.
func LoadEnv() (string, error) {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return path, err
		}
		return path, nil
	}
	return "", nil
}

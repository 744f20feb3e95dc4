package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName    string
	Env        string
	Debug      bool
	PIMBaseURL string
	PIMToken   string
	// Debounce is the autosave quiescence window for value editors.
	Debounce time.Duration
	// Add more fields as needed
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		debounceMs := 800
		if v := os.Getenv("EDITOR_DEBOUNCE_MS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				debounceMs = n
			}
		}
		AppConfig = &Config{
			AppName:    os.Getenv("APP_NAME"),
			Env:        os.Getenv("APP_ENV"),
			Debug:      os.Getenv("DEBUG") == "true",
			PIMBaseURL: os.Getenv("PIM_BASE_URL"),
			PIMToken:   os.Getenv("PIM_API_TOKEN"),
			Debounce:   time.Duration(debounceMs) * time.Millisecond,
		}
	})
}

// Package config assembles the assistant's configuration from the process
// environment. Everything is read once at startup and shared read-only; no
// value is mutated after Load returns.
package config

import (
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"strconv"

	"voicecart/pkg/stt"
)

// Search backend names.
const (
	SearchDuckDuckGo = "duckduckgo"
	SearchShopping   = "shopping"
)

// Config is the full configuration surface.
type Config struct {
	// Recognition.
	Recognizer       string // vosk | whisper | server
	VoskModelPath    string
	WhisperModelPath string
	ServerURL        string
	SilenceFrames    int

	// Search.
	SearchBackend  string // duckduckgo | shopping
	ShoppingAPIKey string
	MaxResults     int

	// Prompt compression.
	ScaleDownKey   string
	ScaleDownURL   string
	ScaleDownModel string

	// Optional LLM summaries.
	OpenAIKey string

	// Output.
	TTSEngine string
	CuePath   string

	// Networking.
	ProxyAddr string
}

// Load reads the environment. Call godotenv.Load first if a .env file
// should be honored.
func Load() Config {
	cfg := Config{
		Recognizer:       getenv("VOICECART_RECOGNIZER", stt.BackendVosk),
		VoskModelPath:    getenv("VOSK_MODEL_PATH", "vosk-model-small-en-us-0.15"),
		WhisperModelPath: os.Getenv("WHISPER_MODEL_PATH"),
		ServerURL:        os.Getenv("VOSK_SERVER_URL"),
		SilenceFrames:    getint("VOICECART_SILENCE_FRAMES", 0),

		SearchBackend:  getenv("VOICECART_SEARCH", SearchDuckDuckGo),
		ShoppingAPIKey: os.Getenv("SHOPPING_API_KEY"),
		MaxResults:     getint("VOICECART_MAX_RESULTS", 5),

		ScaleDownKey:   os.Getenv("SCALEDOWN_API_KEY"),
		ScaleDownURL:   getenv("SCALEDOWN_API_URL", ""),
		ScaleDownModel: getenv("SCALEDOWN_MODEL", ""),

		OpenAIKey: os.Getenv("OPENAI_API_KEY"),

		TTSEngine: os.Getenv("VOICECART_TTS"),
		CuePath:   getenv("VOICECART_CUE", "beep.mp3"),

		ProxyAddr: os.Getenv("VOICECART_PROXY"),
	}

	if cfg.ScaleDownKey == "" {
		log.Warn("SCALEDOWN_API_KEY not set, prompt compression disabled")
	}
	if cfg.OpenAIKey == "" {
		log.Info("OPENAI_API_KEY not set, responses use the template summary")
	}
	return cfg
}

// Validate checks the fatal startup conditions. The returned error message
// is the remediation shown to the user before the process exits.
func (c Config) Validate() error {
	switch c.Recognizer {
	case stt.BackendVosk:
		if _, err := os.Stat(c.VoskModelPath); err != nil {
			return fmt.Errorf("speech model not found at %q — download it with:\n"+
				"  curl -LO https://alphacephei.com/vosk/models/vosk-model-small-en-us-0.15.zip\n"+
				"  unzip vosk-model-small-en-us-0.15.zip\n"+
				"then set VOSK_MODEL_PATH to the extracted directory", c.VoskModelPath)
		}
	case stt.BackendWhisper:
		if c.WhisperModelPath == "" {
			return errors.New("WHISPER_MODEL_PATH must point to a ggml model when VOICECART_RECOGNIZER=whisper")
		}
		if _, err := os.Stat(c.WhisperModelPath); err != nil {
			return fmt.Errorf("whisper model not found at %q", c.WhisperModelPath)
		}
	case stt.BackendServer:
		if c.ServerURL == "" {
			return errors.New("VOSK_SERVER_URL must be set when VOICECART_RECOGNIZER=server, e.g. ws://localhost:2700")
		}
	default:
		return fmt.Errorf("unknown VOICECART_RECOGNIZER %q (vosk, whisper or server)", c.Recognizer)
	}

	switch c.SearchBackend {
	case SearchDuckDuckGo:
	case SearchShopping:
		if c.ShoppingAPIKey == "" {
			return errors.New("SHOPPING_API_KEY must be set when VOICECART_SEARCH=shopping")
		}
	default:
		return fmt.Errorf("unknown VOICECART_SEARCH %q (duckduckgo or shopping)", c.SearchBackend)
	}

	if c.MaxResults <= 0 {
		return fmt.Errorf("VOICECART_MAX_RESULTS must be positive, got %d", c.MaxResults)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn("ignoring non-numeric env value", "key", key, "value", v)
		return fallback
	}
	return n
}

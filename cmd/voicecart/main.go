package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"voicecart/internal/assistant"
	"voicecart/internal/audio"
	"voicecart/internal/config"
	"voicecart/internal/ipc"
	"voicecart/internal/listen"
	"voicecart/internal/notify"
	"voicecart/internal/proxy"
	"voicecart/internal/scaledown"
	"voicecart/internal/search"
	"voicecart/internal/summary"
	"voicecart/internal/tts"
	"voicecart/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	noDuck := cli.Bool("no-duck", false, "Do not lower other apps' volume while listening")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	if err := audio.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer audio.Terminate()

	rec, err := stt.New(stt.Settings{
		Backend:          cfg.Recognizer,
		VoskModelPath:    cfg.VoskModelPath,
		WhisperModelPath: cfg.WhisperModelPath,
		ServerURL:        cfg.ServerURL,
	})
	if err != nil {
		log.Error("Failed to init recognizer", "backend", cfg.Recognizer, "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	log.Debug("Loaded recognizer", "backend", cfg.Recognizer)

	httpClient, err := proxy.NewClient(cfg.ProxyAddr)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.ProxyAddr, "err", err)
		os.Exit(1)
	}

	speaker, err := tts.New(cfg.TTSEngine)
	if err != nil {
		log.Error("Failed to init speech output", "err", err)
		os.Exit(1)
	}

	session := &assistant.Session{
		Listener:   buildListener(cfg, rec, *noDuck),
		Searcher:   buildSearcher(cfg, httpClient),
		Responder:  buildResponder(cfg, httpClient),
		Speaker:    speaker,
		MaxResults: cfg.MaxResults,
		Cue: func() {
			if err := notify.Beep(cfg.CuePath); err != nil {
				log.Debug("listening cue unavailable", "err", err)
			}
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := ipc.StartServer(func(msg ipc.ControlMessage) ipc.Reply {
		switch msg.Cmd {
		case "stop":
			cancel()
			return ipc.Reply{Ok: true, Info: "stopping"}
		case "status":
			return ipc.Reply{Ok: true, Info: "running"}
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return ipc.Reply{Ok: false, Info: "unknown command"}
		}
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	log.Info("Boot up - successful")
	session.Run(ctx)
	log.Info("Session ended")
}

func buildListener(cfg config.Config, rec stt.Recognizer, noDuck bool) assistant.Transcriber {
	mic := &listen.Mic{
		Rec:    rec,
		Frames: audio.NewFrameChannel(audio.DefaultChannelCap),
		Cfg:    listen.Config{SilenceThreshold: cfg.SilenceFrames},
	}
	if noDuck {
		return mic
	}
	return &listen.Ducked{
		Inner:  mic,
		Ducker: audio.NewDucker([]string{"voicecart"}, 10),
	}
}

func buildSearcher(cfg config.Config, client *http.Client) search.Searcher {
	if cfg.SearchBackend == config.SearchShopping {
		return search.NewShoppingAPI(client, cfg.ShoppingAPIKey)
	}
	return search.NewDuckDuckGo(client)
}

func buildResponder(cfg config.Config, client *http.Client) assistant.Responder {
	compressor := scaledown.New(client, cfg.ScaleDownKey)
	if cfg.ScaleDownURL != "" {
		compressor.URL = cfg.ScaleDownURL
	}
	if cfg.ScaleDownModel != "" {
		compressor.Model = cfg.ScaleDownModel
	}

	responder := &summary.Responder{Compressor: compressor}
	if cfg.OpenAIKey != "" {
		llm := openai.NewClient(
			option.WithAPIKey(cfg.OpenAIKey),
			option.WithHTTPClient(client),
		)
		responder.LLM = &llm
	}
	return responder
}

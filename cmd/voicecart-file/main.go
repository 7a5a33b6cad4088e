// voicecart-file runs the recognition and search pipeline over a recorded
// audio file instead of the microphone. Useful for trying out models and
// search backends without speaking into a mic.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"voicecart/internal/audio"
	"voicecart/internal/config"
	"voicecart/internal/listen"
	"voicecart/internal/nlu"
	"voicecart/internal/proxy"
	"voicecart/internal/scaledown"
	"voicecart/internal/search"
	"voicecart/internal/summary"
	"voicecart/pkg/audioconv"
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
	logLevel := cli.StringP("log", "l", "warn", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	if cli.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: voicecart-file [flags] <audio-file>")
		os.Exit(2)
	}
	path := cli.Arg(0)

	godotenv.Load(*envFile)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	pcm, err := audioconv.DecodeFileToPCM16k(path, audioconv.DecodeOptions{})
	if err != nil {
		log.Error("Failed to decode audio", "path", path, "err", err)
		os.Exit(1)
	}

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

	ctx := context.Background()

	listenCfg := listen.Config{SilenceThreshold: cfg.SilenceFrames}.WithDefaults()
	frames := audio.NewFrameChannel(audio.DefaultChannelCap)
	src := audio.NewFileSource(audioconv.Float32ToBytes(pcm), listenCfg.SilenceThreshold+2)
	if err := src.Start(ctx, frames); err != nil {
		log.Error("Failed to start file source", "err", err)
		os.Exit(1)
	}
	defer src.Stop()

	transcript, err := listen.New(rec, frames, listenCfg).Listen(ctx)
	if err != nil {
		log.Error("Recognition produced no transcript", "err", err)
		os.Exit(1)
	}
	fmt.Printf("Transcript: %s\n", transcript)

	d := nlu.Classify(transcript)
	if d.Outcome != nlu.OutcomeQuery {
		fmt.Printf("Outcome: %s\n", d.Outcome)
		return
	}

	httpClient, err := proxy.NewClient(cfg.ProxyAddr)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.ProxyAddr, "err", err)
		os.Exit(1)
	}

	var searcher search.Searcher
	if cfg.SearchBackend == config.SearchShopping {
		searcher = search.NewShoppingAPI(httpClient, cfg.ShoppingAPIKey)
	} else {
		searcher = search.NewDuckDuckGo(httpClient)
	}

	products := searcher.Search(ctx, d.Query, cfg.MaxResults)
	responder := &summary.Responder{Compressor: scaledown.New(httpClient, cfg.ScaleDownKey)}
	fmt.Println(responder.Respond(ctx, d.Query, products))
	for _, p := range products {
		fmt.Printf("%d. %s\n   %s\n   %s\n", p.Rank, p.Title, p.Description, p.Link)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bharat-gurukul/gurukul/internal/dotenv"
	"github.com/bharat-gurukul/gurukul/pkg/core/audio"
	"github.com/bharat-gurukul/gurukul/pkg/core/guru"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gurukul: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()
	cmd := &cobra.Command{
		Use:           "gurukul",
		Short:         "Bharat AI-Gurukul, the gamified learning companion",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dotenv.Load(cfg.EnvFile); err != nil {
				return err
			}
			cfg.resolveEnv(os.Getenv)
			if err := cfg.validate(); err != nil {
				return err
			}
			return runGurukul(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "dotenv file to load")
	flags.StringVar(&cfg.APIKey, "api-key", "", "Gemini API key (or GEMINI_API_KEY / GOOGLE_API_KEY)")
	flags.StringVar(&cfg.FFplayPath, "ffplay", cfg.FFplayPath, "path to the ffplay binary")
	flags.IntVar(&cfg.Volume, "volume", cfg.Volume, "narration volume (1-100)")
	flags.BoolVar(&cfg.NoSpeaker, "no-speaker", false, "disable audio output")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&cfg.TextModel, "text-model", "", "override the lesson/exam model")
	flags.StringVar(&cfg.TTSModel, "tts-model", "", "override the narration model")
	flags.StringVar(&cfg.Voice, "voice", "", "override the narration voice")
	return cmd
}

func runGurukul(parent context.Context, cfg config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger(cfg.LogLevel)

	client, err := guru.New(ctx, cfg.APIKey, log,
		guru.WithTextModel(cfg.TextModel),
		guru.WithTTSModel(cfg.TTSModel),
		guru.WithImageModel(cfg.ImageModel),
		guru.WithVoice(cfg.Voice),
	)
	if err != nil {
		return err
	}

	var sink audio.Sink = audio.NewSpeaker(cfg.FFplayPath, audio.DefaultSampleRate, audio.DefaultChannels, cfg.Volume)
	if cfg.NoSpeaker {
		sink = silentSink{}
	}
	player := audio.NewPlayer(sink, 0)
	defer player.Close()

	a := newApp(client, client.NewAssistant(), player, log, os.Stdin, os.Stdout)
	return a.run(ctx)
}

// silentSink consumes audio without a device, for --no-speaker and CI.
type silentSink struct{}

func (silentSink) EnsureRunning() error  { return nil }
func (silentSink) Write([]byte) error    { return nil }
func (silentSink) Restart() error        { return nil }
func (silentSink) Close() error          { return nil }

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/iRKakashi/dragon-lance-web/internal/config"
	"github.com/iRKakashi/dragon-lance-web/internal/logger"
	"github.com/iRKakashi/dragon-lance-web/internal/services/events"
	internalstorage "github.com/iRKakashi/dragon-lance-web/internal/storage"
	"github.com/iRKakashi/dragon-lance-web/pkg/audio"
	"github.com/iRKakashi/dragon-lance-web/pkg/engine"
	"github.com/iRKakashi/dragon-lance-web/pkg/signal"
	"github.com/iRKakashi/dragon-lance-web/pkg/skillcheck"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

var (
	loadSlot       string
	debugAt        string
	debugCharacter map[string]string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the adventure",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&loadSlot, "load", "", "resume from a save slot")
	playCmd.Flags().StringVar(&debugAt, "goto", "", "jump to an entry after starting (debug)")
	playCmd.Flags().StringToStringVar(&debugCharacter, "character", nil, "preset species, class, subclass or background (debug)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logOut, closeLog, err := logger.OpenFile(cfg)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		_ = closeLog()
	}()
	log := logger.Setup(cfg, logOut)

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := loadStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	saves, err := internalstorage.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open save storage: %w", err)
	}
	defer func() {
		_ = saves.Close()
	}()

	soundtrack := loadSoundtrack(cfg, log)
	director := audio.NewDirector(audio.NewLogBackend(log), soundtrack, log)

	updates := signal.NewChannel(256)
	sinks := []signal.Sink{
		director,
		signal.Filter(updates, signal.EntryChanged, signal.MusicEnabledChanged, signal.VolumeChanged, signal.Error),
	}

	if cfg.BroadcastEvents {
		client, err := redisClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() {
			_ = client.Close()
		}()
		broadcaster := events.NewBroadcaster(client, log)
		go func() {
			_ = broadcaster.Run(ctx)
		}()
		sinks = append(sinks, broadcaster)
		log.Info("Broadcasting engine events", "redis_url", cfg.RedisURL)
	}

	eng := engine.New(store,
		engine.WithLogger(log),
		engine.WithSink(signal.Multi(sinks...)),
		engine.WithStorage(saves),
		engine.WithSoundtrack(soundtrack),
		engine.WithCharacterBuilder(cfg.CharacterBuilder),
		engine.WithNavigationDelay(cfg.NavigationDelay),
		engine.WithMusicEnabled(cfg.MusicEnabled),
	)
	defer func() {
		_ = eng.Close()
	}()

	director.OnEnded = func(ctx context.Context, ch audio.Channel) {
		if ch == audio.ChannelAmbient {
			eng.AmbientEnded(ctx)
		}
	}
	go func() {
		_ = director.Run(ctx)
	}()

	// A failed start is shown by the UI as its error view.
	if err := eng.Start(ctx); err != nil {
		log.Error("Failed to start game", "error", err)
	}
	if loadSlot != "" {
		if err := eng.Load(ctx, loadSlot); err != nil {
			return fmt.Errorf("failed to load slot %q: %w", loadSlot, err)
		}
	}
	if len(debugCharacter) > 0 {
		values := make(map[story.Axis]string, len(debugCharacter))
		for k, v := range debugCharacter {
			axis, ok := story.ParseAxis(k)
			if !ok {
				return fmt.Errorf("unknown character field %q", k)
			}
			values[axis] = v
		}
		if err := eng.SetCharacter(values); err != nil {
			return fmt.Errorf("failed to preset character: %w", err)
		}
	}
	if debugAt != "" {
		if err := eng.GoTo(ctx, debugAt); err != nil {
			return fmt.Errorf("failed to jump to %q: %w", debugAt, err)
		}
	}

	p := tea.NewProgram(NewGameUI(ctx, eng, updates.C),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running program: %w", err)
	}
	if n := updates.Dropped(); n > 0 {
		log.Warn("UI missed engine signals", "dropped", n)
	}
	return nil
}

// loadStore fetches both entry documents and logs authoring problems.
func loadStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*story.Store, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	charSrc := story.SourceFor(cfg.CharacterSource(), client)
	advSrc := story.SourceFor(cfg.AdventureSource(), client)

	store, err := story.Load(ctx, charSrc, advSrc)
	if err != nil {
		return nil, err
	}
	nChar, nAdv := store.Len()
	log.Info("Entries loaded", "character_entries", nChar, "adventure_entries", nAdv,
		"character_source", charSrc.Name(), "adventure_source", advSrc.Name())

	for _, p := range story.Validate(store, story.ValidateOptions{KnownSkill: skillcheck.IsKnown}) {
		if p.Severity == story.SeverityError {
			log.Error("Entry problem", "problem", p.String())
		} else {
			log.Warn("Entry problem", "problem", p.String())
		}
	}
	return store, nil
}

// loadSoundtrack reads the manifest, falling back to the built-in track list.
func loadSoundtrack(cfg *config.Config, log *slog.Logger) *audio.Soundtrack {
	if cfg.Soundtrack == "" {
		return audio.DefaultSoundtrack()
	}
	st, err := audio.LoadSoundtrack(cfg.Soundtrack)
	if err != nil {
		log.Warn("Using default soundtrack", "path", cfg.Soundtrack, "error", err)
		return audio.DefaultSoundtrack()
	}
	return st
}

func redisClient(redisURL string) (*redis.Client, error) {
	if strings.Contains(redisURL, "://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

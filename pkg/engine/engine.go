// Package engine runs a Dragonlance adventure: it owns the game state and
// player character, resolves choices, hosts the skill-check and
// character-builder modals, and reports every change through a signal sink.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/google/uuid"

	gerrors "github.com/iRKakashi/dragon-lance-web/internal/errors"
	"github.com/iRKakashi/dragon-lance-web/internal/logger"
	"github.com/iRKakashi/dragon-lance-web/pkg/actor"
	"github.com/iRKakashi/dragon-lance-web/pkg/audio"
	"github.com/iRKakashi/dragon-lance-web/pkg/signal"
	"github.com/iRKakashi/dragon-lance-web/pkg/state"
	"github.com/iRKakashi/dragon-lance-web/pkg/storage"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
	"github.com/iRKakashi/dragon-lance-web/pkg/textfilter"
)

// DefaultNavigationDelay is how long a chosen entry waits before it is shown.
const DefaultNavigationDelay = 500 * time.Millisecond

// SaveDocument is the persisted form of a session.
type SaveDocument = state.SaveDocument

// ErrInputLocked is returned for a choice made while a navigation is pending
// or a modal is open.
var ErrInputLocked = gerrors.ErrInputLocked

// Engine is safe for concurrent use; every method takes the same lock.
type Engine struct {
	mu sync.Mutex

	store      *story.Store
	baseLog    *slog.Logger
	log        *slog.Logger
	sink       signal.Sink
	roller     dice.Roller
	storage    storage.Storage
	soundtrack *audio.Soundtrack
	tracker    *audio.Tracker
	subst      *textfilter.Substituter
	now        func() time.Time

	startEntry     string
	navDelay       time.Duration
	builderEnabled bool
	musicDefault   bool

	started bool
	closed  bool

	gs      *state.GameState
	pc      *actor.PlayerCharacter
	entry   *story.Entry
	builder *actor.Builder
	modal   *modal
	pending string
	navSeq  uint64
	locked  bool
	lastErr error
	view    View
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSink sets where signals go. The default discards them.
func WithSink(s signal.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithRoller sets the dice used for skill checks and battle tracks.
func WithRoller(r dice.Roller) Option {
	return func(e *Engine) { e.roller = r }
}

// WithStorage enables Save, Load and the save listing.
func WithStorage(s storage.Storage) Option {
	return func(e *Engine) { e.storage = s }
}

// WithSoundtrack sets the track manifest.
func WithSoundtrack(st *audio.Soundtrack) Option {
	return func(e *Engine) { e.soundtrack = st }
}

// WithCharacterBuilder turns the name and ability-score stage on or off.
func WithCharacterBuilder(enabled bool) Option {
	return func(e *Engine) { e.builderEnabled = enabled }
}

// WithNavigationDelay sets the ChooseAndWait delay. Zero navigates at once.
func WithNavigationDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.navDelay = d
		}
	}
}

// WithMusicEnabled sets whether a new game starts with music on.
func WithMusicEnabled(on bool) Option {
	return func(e *Engine) { e.musicDefault = on }
}

// WithStartEntry overrides the entry a new game begins at.
func WithStartEntry(id string) Option {
	return func(e *Engine) { e.startEntry = id }
}

// WithClock replaces time.Now for save timestamps and signals.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over a loaded store. Call Start before anything else.
func New(store *story.Store, opts ...Option) *Engine {
	e := &Engine{
		store:          store,
		log:            slog.Default(),
		sink:           signal.Discard,
		roller:         dice.DefaultRoller,
		now:            time.Now,
		startEntry:     story.DefaultStartEntry,
		navDelay:       DefaultNavigationDelay,
		builderEnabled: true,
		subst:          textfilter.NewSubstituter("name"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	e.baseLog = e.log
	if e.sink == nil {
		e.sink = signal.Discard
	}
	if e.soundtrack == nil {
		e.soundtrack = audio.DefaultSoundtrack()
	}
	e.tracker = audio.NewTracker(e.soundtrack, e.roller, e.baseLog)
	return e
}

// Start begins a new game at the start entry. A start entry that does not
// resolve is returned as an error and also shown as the terminal error view.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return gerrors.FailedPreconditionf("engine is closed")
	}
	if e.started {
		return nil
	}
	e.started = true
	e.reset()
	e.log.Info("game started", "start_entry", e.startEntry,
		"character_builder", e.builderEnabled, "music_enabled", e.gs.MusicEnabled)
	return e.show(e.startEntry)
}

// Close silences playback. The engine cannot be used afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	if e.gs != nil {
		e.emitCues(e.tracker.Reset(e.gs))
	}
	e.log.Info("engine closed")
	return nil
}

// View returns the current view model.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// Snapshot is a copy of the engine's owned state.
type Snapshot struct {
	GameState       *state.GameState
	PlayerCharacter *actor.PlayerCharacter
	View            View
}

// Snapshot copies the current state for inspection.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		GameState:       e.gs.Clone(),
		PlayerCharacter: e.pc.Clone(),
		View:            e.view,
	}
}

// NavigationDelay returns the configured delay.
func (e *Engine) NavigationDelay() time.Duration {
	return e.navDelay
}

// reset installs a fresh game state. Callers hold the lock.
func (e *Engine) reset() {
	gs := state.NewGameState(e.startEntry)
	gs.MusicEnabled = e.musicDefault
	if e.gs != nil {
		gs.MusicEnabled = e.gs.MusicEnabled
		e.emitCues(e.tracker.Reset(gs))
	}
	e.gs = gs
	e.pc = actor.NewPlayerCharacter()
	e.builder = actor.NewBuilder()
	e.modal = nil
	e.pending = ""
	e.locked = false
	e.lastErr = nil
	e.bindSession()
}

// bindSession tags the engine's log lines with the current session id.
func (e *Engine) bindSession() {
	e.log = logger.WithSession(e.baseLog, e.gs.SessionID.String())
}

func (e *Engine) ready() error {
	if e.closed {
		return gerrors.FailedPreconditionf("engine is closed")
	}
	if !e.started {
		return gerrors.FailedPreconditionf("engine is not started")
	}
	return nil
}

// show makes id the current entry, derives the music mode and emits the new
// view. Callers hold the lock.
func (e *Engine) show(id string) error {
	entry, err := e.store.Resolve(id)
	if err != nil {
		e.fail(err)
		return err
	}

	e.entry = entry
	e.gs.CurrentEntryID = entry.ID
	e.lastErr = nil
	e.log.Debug("entry loaded", "entry_id", entry.ID, "title", entry.Title)

	prev := e.tracker.Mode()
	cues, err := e.tracker.Transition(audio.DeriveMode(entry), e.gs)
	if err != nil {
		e.log.Warn("music transition failed", "entry_id", entry.ID, "error", err)
	}

	e.emitView()
	if next := e.tracker.Mode(); next.Kind != prev.Kind || next.Track != prev.Track {
		e.log.Info("music mode changed", "entry_id", entry.ID, "from", prev.String(), "to", next.String())
		e.emit(signal.ModeChanged, next)
	}
	e.emitCues(cues)
	return nil
}

// fail puts the engine in the terminal error display state.
func (e *Engine) fail(err error) {
	e.lastErr = err
	e.locked = false
	e.pending = ""
	logger.WithError(e.log, err).Error("engine error", "code", gerrors.GetCode(err))
	e.emit(signal.Error, err.Error())
	e.emitView()
}

func (e *Engine) emit(kind signal.Kind, payload interface{}) {
	var session uuid.UUID
	if e.gs != nil {
		session = e.gs.SessionID
	}
	e.sink.Emit(signal.Signal{
		Kind:      kind,
		SessionID: session,
		Payload:   payload,
		At:        e.now().UTC(),
	})
}

func (e *Engine) emitCues(cues []audio.Cue) {
	for _, c := range cues {
		e.log.Debug("audio cue", "cue", c.String())
		e.emit(signal.AudioCue, c)
	}
}

func (e *Engine) emitView() {
	e.view = e.render()
	e.emit(signal.EntryChanged, e.view)
}

package trial

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/events"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/processor"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/states"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/strategy"
)

const actionBottom = "bottom"

// Seeds are the two independent random streams of a trial. Game drives the
// shuffles and the draw coin flip; Strategy is handed to every decision.
type Seeds struct {
	Game     int64
	Strategy int64
}

// Result is the outcome of one trial
type Result struct {
	Index       int
	TrialID     string
	Seeds       Seeds
	Phase       states.TrialPhase
	Reason      states.FinishReason
	Trace       *events.Trace
	Transitions []states.Transition
	// Err is set for aborted trials
	Err error
}

// Failed reports whether the trial was aborted by an illegal action
func (r Result) Failed() bool {
	return r.Phase == states.PhaseAborted
}

// Executor plays trials of one deck with one strategy. It holds no per-trial
// state and is safe for concurrent use once observers are registered.
type Executor struct {
	deck      *game.Deck
	strategy  strategy.Strategy
	cfg       Config
	stop      *rules.StopConditionChecker
	observers []observer
	logger    zerolog.Logger
}

type observer struct {
	eventType string
	handler   events.EventHandler
}

// NewExecutor creates a new trial executor
func NewExecutor(deck *game.Deck, strat strategy.Strategy, cfg Config, logger zerolog.Logger) *Executor {
	if cfg.OpeningHandSize == 0 {
		cfg.OpeningHandSize = DefaultOpeningHandSize
	}
	logger = logger.With().Str("component", "TrialExecutor").Logger()
	return &Executor{
		deck:     deck,
		strategy: strat,
		cfg:      cfg,
		stop:     rules.NewStopConditionChecker(logger, cfg.Stop, deck),
		logger:   logger,
	}
}

// Config returns the effective trial config
func (e *Executor) Config() Config { return e.cfg }

// Observe subscribes handler to eventType on the bus of every trial run
// afterwards. Handlers may be called from several goroutines at once.
func (e *Executor) Observe(eventType string, handler events.EventHandler) *Executor {
	e.observers = append(e.observers, observer{eventType: eventType, handler: handler})
	return e
}

// run is the mutable state of one trial
type run struct {
	*Executor
	id      string
	seeds   Seeds
	gs      *game.GameState
	srng    *rand.Rand
	bus     *events.EventBus
	tctx    *states.TrialContext
	sm      *states.StateMachine
	proc    *processor.DecisionProcessor
	logger  zerolog.Logger
	stopped bool
}

// Run plays one trial to completion
func (e *Executor) Run(index int, seeds Seeds) Result {
	id := strconv.Itoa(index)
	logger := e.logger.With().Int("trial", index).Logger()

	bus := events.NewEventBus(logger)
	recorder := events.NewTraceRecorder(id)
	bus.Subscribe(recorder)
	if e.cfg.LogEvents {
		ls := subscribers.NewLoggerSubscriber("trial_logger", logger, zerolog.DebugLevel)
		ls.SetCatalog(e.deck.Catalog)
		bus.Subscribe(ls)
	}
	for _, o := range e.observers {
		bus.SubscribeFunc(o.eventType, o.handler)
	}

	tctx := states.NewTrialContext(id, index, logger)
	tctx.OpeningHandSize = e.cfg.OpeningHandSize

	r := &run{
		Executor: e,
		id:       id,
		seeds:    seeds,
		gs:       game.New(e.deck, seeds.Game),
		srng:     rand.New(rand.NewSource(seeds.Strategy)),
		bus:      bus,
		tctx:     tctx,
		sm:       states.NewStateMachine(tctx, bus),
		proc:     processor.NewDecisionProcessor(id, bus, logger),
		logger:   logger,
	}
	err := r.play()

	return Result{
		Index:       index,
		TrialID:     id,
		Seeds:       seeds,
		Phase:       r.sm.CurrentPhase(),
		Reason:      tctx.Reason,
		Trace:       recorder.Trace(),
		Transitions: r.sm.GetHistory(),
		Err:         err,
	}
}

func (r *run) play() error {
	gs := r.gs
	switch r.cfg.DrawPolicy {
	case DrawPlay:
		gs.SetOnThePlay(true)
	case DrawDraw:
		gs.SetOnThePlay(false)
	case DrawRandom:
		gs.SetOnThePlay(gs.Rand().Intn(2) == 0)
	}
	r.bus.Publish(events.NewTrialStartedEvent(r.id, r.seeds.Game, r.deck.Size(), gs.OnThePlay()))

	if err := r.sm.TransitionTo(states.PhaseMulligan, "opening hand"); err != nil {
		return err
	}
	if err := r.mulligan(); err != nil {
		return r.abort(err)
	}
	if r.stopped {
		return nil
	}

	if err := r.sm.TransitionTo(states.PhaseTurnLoop, "hand kept"); err != nil {
		return err
	}
	for turn := 1; turn <= r.cfg.TurnLimit; turn++ {
		if err := r.turn(); err != nil {
			return r.abort(err)
		}
		if r.stopped {
			return nil
		}
	}
	return r.finish(states.FinishTurnLimitReached)
}

// mulligan draws opening hands until the strategy keeps one or the
// mulligan limit forces a keep
func (r *run) mulligan() error {
	gs := r.gs
	view := gs.View()
	ok, err := r.drawHand(0, r.cfg.OpeningHandSize)
	if err != nil || !ok {
		return err
	}

	for attempt := 0; ; attempt++ {
		d := r.strategy.DecideMulligan(view, r.srng)
		forced := d.Ship && gs.Mulligans() >= r.cfg.MulliganMax
		r.bus.Publish(events.NewMulliganDecidedEvent(r.id, attempt, d.Ship, forced))
		if !d.Ship || forced {
			break
		}

		gs.ShuffleHandIntoLibrary()
		gs.RecordMulligan()
		r.tctx.Mulligans = gs.Mulligans()
		size := r.cfg.MulliganRule.HandSize(r.cfg.OpeningHandSize, gs.Mulligans())
		ok, err := r.drawHand(attempt+1, size)
		if err != nil || !ok {
			return err
		}
	}

	var bottomed []core.CardID
	if r.cfg.MulliganRule == RuleLondon && gs.Mulligans() > 0 {
		n := gs.Mulligans()
		if n > gs.HandSize() {
			n = gs.HandSize()
		}
		bottomed = r.chooseBottom(n)
		if len(bottomed) != n {
			return core.WrapActionError(0, actionBottom, "",
				fmt.Errorf("%w: chose %d cards to bottom, need %d", core.ErrIllegalAction, len(bottomed), n))
		}
		if err := gs.PutOnBottom(bottomed); err != nil {
			return core.WrapActionError(0, actionBottom, "", err)
		}
	}

	hand := gs.Hand()
	r.bus.Publish(events.NewHandKeptEvent(r.id, hand, countLands(gs, hand), gs.Mulligans(), bottomed))
	return nil
}

// drawHand draws an opening hand. It returns false, after finishing the
// trial, when the library cannot cover the hand.
func (r *run) drawHand(attempt, size int) (bool, error) {
	hand, err := r.gs.Draw(size)
	if errors.Is(err, core.ErrLibraryEmpty) {
		r.bus.Publish(events.NewLibraryEmptiedEvent(r.id, 0, size, len(hand)))
		return false, r.finish(states.FinishLibraryEmptied)
	}
	if err != nil {
		return false, err
	}
	r.bus.Publish(events.NewHandDrawnEvent(r.id, attempt, hand, countLands(r.gs, hand)))
	return true, nil
}

func (r *run) chooseBottom(n int) []core.CardID {
	if b, ok := r.strategy.(strategy.Bottomer); ok {
		return b.ChooseBottom(r.gs.View(), n, r.srng)
	}
	return MostExpensive(r.gs.View(), n)
}

// MostExpensive returns the n cards with the highest mana value in the
// hand, lands last, ties broken by ID
func MostExpensive(v game.View, n int) []core.CardID {
	hand := v.Hand()
	sort.SliceStable(hand, func(i, j int) bool {
		ci, cj := v.Card(hand[i]), v.Card(hand[j])
		if ci.IsLand() != cj.IsLand() {
			return !ci.IsLand()
		}
		if mi, mj := ci.Cost.ManaValue(), cj.Cost.ManaValue(); mi != mj {
			return mi > mj
		}
		return hand[i] < hand[j]
	})
	if n > len(hand) {
		n = len(hand)
	}
	return hand[:n]
}

func (r *run) turn() error {
	gs := r.gs
	view := gs.View()
	gs.StartTurn()
	turn := gs.Turn()
	r.tctx.Turn = turn
	r.bus.Publish(events.NewTurnStartedEvent(r.id, turn, gs.ManaAvailable()))

	if turn > 1 || !gs.OnThePlay() {
		drawn, err := gs.Draw(1)
		if errors.Is(err, core.ErrLibraryEmpty) {
			r.bus.Publish(events.NewLibraryEmptiedEvent(r.id, turn, 1, len(drawn)))
			return r.finish(states.FinishLibraryEmptied)
		}
		if err != nil {
			return err
		}
		r.bus.Publish(events.NewCardDrawnEvent(r.id, turn, drawn[0]))
	}

	played, err := r.proc.ApplyLandDrop(gs, r.strategy.DecideLandDrop(view, r.srng))
	if err != nil {
		return err
	}
	result, err := r.proc.ApplyCardPlays(gs, r.strategy.DecideCardPlays(view, r.srng))
	if err != nil {
		return err
	}

	hand := gs.Hand()
	ended := events.NewTurnEndedEvent(r.id, turn)
	ended.LandPlayed = played
	ended.LandInHand = countLands(gs, hand) > 0
	ended.SpellsCast = result.SpellsCast
	ended.ManaSpent = result.ManaSpent
	ended.LandsInPlay = gs.LandsOnBattlefield()
	ended.ManaProduction = gs.TotalManaProduction()
	ended.TotalDamage = gs.Damage()
	ended.HandSize = len(hand)
	r.bus.Publish(ended)

	if r.cfg.CheckInvariants {
		if err := gs.CheckConservation(); err != nil {
			return core.WrapActionError(turn, "end_turn", "", err)
		}
	}

	if r.stop.Check(view) {
		r.bus.Publish(events.NewStopConditionMetEvent(r.id, turn, r.stop.Condition().String()))
		return r.finish(states.FinishStopConditionMet)
	}
	return nil
}

func (r *run) finish(reason states.FinishReason) error {
	r.stopped = true
	r.tctx.Turn = r.gs.Turn()
	r.tctx.Finish(reason)
	if err := r.sm.TransitionTo(states.PhaseFinished, reason.String()); err != nil {
		return err
	}
	r.bus.Publish(events.NewTrialFinishedEvent(r.id, r.gs.Turn(), reason.String()))
	return nil
}

// abort moves the trial to PhaseAborted and returns err with trial context
func (r *run) abort(err error) error {
	phase := r.sm.CurrentPhase()
	r.tctx.Turn = r.gs.Turn()
	r.tctx.Abort(err)
	if terr := r.sm.TransitionTo(states.PhaseAborted, "illegal action"); terr != nil {
		r.logger.Error().Err(terr).Msg("Failed to abort trial")
	}
	r.bus.Publish(events.NewTrialAbortedEvent(r.id, r.gs.Turn(), err))
	return core.WrapTrialError(r.tctx.Index, phase.String(), err)
}

func countLands(gs *game.GameState, ids []core.CardID) int {
	n := 0
	for _, id := range ids {
		if gs.Card(id).IsLand() {
			n++
		}
	}
	return n
}

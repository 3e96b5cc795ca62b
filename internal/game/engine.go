package game

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrNoSteps    = errors.New("engine has no steps")
	ErrAlreadyRun = errors.New("engine already ran")
)

// Status is the state of an Engine.
type Status int32

const (
	StatusIdle Status = iota
	StatusRunning
	StatusStopped
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	case StatusGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// ActionContext is handed to a step's action. It lives for one step only.
type ActionContext[S any] struct {
	ctx    context.Context
	Engine *Engine[S]
	State  *S
	Phase  string
	Step   string
}

func (ac *ActionContext[S]) Context() context.Context {
	return ac.ctx
}

// Table returns the engine's roster, broadcaster and random source.
func (ac *ActionContext[S]) Table() *Table {
	return ac.Engine.Table
}

// Action is the unit of game logic bound to a step.
type Action[S any] interface {
	Execute(ac *ActionContext[S]) error
}

// ActionFunc adapts a function to Action.
type ActionFunc[S any] func(ac *ActionContext[S]) error

func (f ActionFunc[S]) Execute(ac *ActionContext[S]) error {
	return f(ac)
}

// Step is one gated unit of work. Roles is informational; the action decides
// who takes part.
type Step[S any] struct {
	Name   string
	Roles  []Role
	Action Action[S]
	// Condition, when set, skips the step if it returns false.
	Condition func(e *Engine[S]) bool
}

type Phase[S any] struct {
	Name  string
	Steps []Step[S]
}

// StepEvent reports a step that ran or was skipped.
type StepEvent struct {
	Phase   string
	Step    string
	Skipped bool
	Err     error
}

// Engine cycles through its phases until the game is over or it is stopped.
// Actions run on the goroutine that called Run.
type Engine[S any] struct {
	*Table
	State *S

	phases []Phase[S]
	isOver func() bool
	onStep func(StepEvent)

	status atomic.Int32
	stop   atomic.Bool
	passes atomic.Int64
}

type EngineOption[S any] func(*Engine[S])

// OnStep registers an observer called after every executed or skipped step.
func OnStep[S any](fn func(StepEvent)) EngineOption[S] {
	return func(e *Engine[S]) { e.onStep = fn }
}

// NewEngine builds an engine over phases. isOver is polled before every step
// and must be safe to call repeatedly.
func NewEngine[S any](t *Table, state *S, phases []Phase[S], isOver func() bool, opts ...EngineOption[S]) (*Engine[S], error) {
	steps := 0
	for _, ph := range phases {
		steps += len(ph.Steps)
	}
	if steps == 0 {
		return nil, ErrNoSteps
	}
	if isOver == nil {
		isOver = func() bool { return false }
	}
	e := &Engine[S]{
		Table:  t,
		State:  state,
		phases: phases,
		isOver: isOver,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine[S]) Status() Status {
	return Status(e.status.Load())
}

// Passes returns how many full cycles over the phases have started.
func (e *Engine[S]) Passes() int64 {
	return e.passes.Load()
}

// Stop asks the engine to halt before its next step. A participant call in
// progress is not interrupted.
func (e *Engine[S]) Stop() {
	e.stop.Store(true)
}

func (e *Engine[S]) Stopping() bool {
	return e.stop.Load()
}

// Run drives the game. It returns StatusGameOver or StatusStopped, or the
// first action error.
func (e *Engine[S]) Run(ctx context.Context) (Status, error) {
	if !e.status.CompareAndSwap(int32(StatusIdle), int32(StatusRunning)) {
		return e.Status(), ErrAlreadyRun
	}

	for {
		if st, done := e.halted(ctx); done {
			return e.finish(st), nil
		}
		e.passes.Add(1)

		for _, ph := range e.phases {
			for _, step := range ph.Steps {
				if st, done := e.halted(ctx); done {
					return e.finish(st), nil
				}

				if step.Condition != nil && !step.Condition(e) {
					stepsTotal.WithLabelValues(ph.Name, "skipped").Inc()
					e.notify(StepEvent{Phase: ph.Name, Step: step.Name, Skipped: true})
					continue
				}

				ac := &ActionContext[S]{
					ctx:    ctx,
					Engine: e,
					State:  e.State,
					Phase:  ph.Name,
					Step:   step.Name,
				}
				e.log.Debug("running step", "phase", ph.Name, "step", step.Name)
				err := step.Action.Execute(ac)
				e.notify(StepEvent{Phase: ph.Name, Step: step.Name, Err: err})
				if err != nil {
					stepsTotal.WithLabelValues(ph.Name, "failed").Inc()
					e.status.Store(int32(StatusStopped))
					return StatusStopped, fmt.Errorf("phase %q step %q: %w", ph.Name, step.Name, err)
				}
				stepsTotal.WithLabelValues(ph.Name, "done").Inc()
			}
		}
	}
}

func (e *Engine[S]) halted(ctx context.Context) (Status, bool) {
	if e.stop.Load() || ctx.Err() != nil {
		return StatusStopped, true
	}
	if e.isOver() {
		return StatusGameOver, true
	}
	return StatusRunning, false
}

func (e *Engine[S]) finish(st Status) Status {
	e.status.Store(int32(st))
	e.log.Info("game loop finished", "status", st.String(), "passes", e.passes.Load())
	return st
}

func (e *Engine[S]) notify(ev StepEvent) {
	if e.onStep != nil {
		e.onStep(ev)
	}
}

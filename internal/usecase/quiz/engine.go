package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"countryquiz/internal/domain/entity"
	"countryquiz/internal/observability/metrics"
	"countryquiz/internal/usecase/fetch"
	"countryquiz/internal/usecase/observe"
)

// Status is the coarse state of a quiz session.
type Status int

const (
	NotStarted Status = iota
	Loading
	InProgress
	Finished
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Loading:
		return "loading"
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// State is an immutable snapshot of a quiz session.
type State struct {
	Status Status

	// QuestionIndex and Answered are meaningful while InProgress.
	QuestionIndex int
	Answered      bool

	// SelectedChoice is the first choice submitted for the current question,
	// or -1 when it has not been answered.
	SelectedChoice int

	Score int

	// NumberOfQuestions is the configured quiz length; TotalQuestions is how
	// many questions were actually generated.
	NumberOfQuestions int
	TotalQuestions    int

	// Current is a copy of the question on screen, nil when there is none.
	Current *entity.QuizQuestion

	LastError error
}

// Result summarizes a quiz for the final screen.
type Result struct {
	Score int
	Total int
}

// Percentage returns the share of correct answers in [0, 100].
func (r Result) Percentage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total) * 100
}

// Message is the sentence shown when the quiz ends.
func (r Result) Message() string {
	return fmt.Sprintf("You got %d out of %d right!", r.Score, r.Total)
}

// Engine drives one quiz session:
// NotStarted → Loading → InProgress → Finished, and back to NotStarted on Restart.
//
// The country list fetched by the first Start is kept for the lifetime of
// the engine, so restarted quizzes never hit the network again.
// All methods are safe for concurrent use; subscribers are called after the
// internal lock is released, in the order the changes were made.
type Engine struct {
	fetcher fetch.CountryFetcher
	logger  *slog.Logger
	n       int

	mu        sync.Mutex
	rng       *rand.Rand
	countries []entity.Country
	questions []entity.QuizQuestion
	status    Status
	index     int
	answered  bool
	selected  int
	score     int
	lastErr   error
	run       uint64

	pub observe.Publisher[State]
}

// Option customizes an Engine.
type Option func(*Engine)

// WithNumberOfQuestions sets the quiz length. Values below 1 are ignored.
func WithNumberOfQuestions(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.n = n
		}
	}
}

// WithRand sets the random source used for question generation.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithSeed seeds a deterministic random source.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine that loads countries from fetcher on its first Start.
func New(fetcher fetch.CountryFetcher, opts ...Option) *Engine {
	e := &Engine{
		fetcher:  fetcher,
		logger:   slog.Default(),
		n:        DefaultNumberOfQuestions,
		selected: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Start begins a quiz. It is only valid from NotStarted.
//
// The first Start fetches countries; later ones reuse them. When the fetch
// or question generation fails, the engine still moves to InProgress with no
// questions and the error in LastError, and Start returns that error. A
// Restart issued while Start is fetching makes Start return ErrRestarted.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.status != NotStarted {
		status := e.status
		e.mu.Unlock()
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, status)
	}
	e.run++
	run := e.run
	e.status = Loading
	e.lastErr = nil
	countries := e.countries
	loading := e.snapshotLocked()
	e.pub.Enqueue(loading)
	e.mu.Unlock()

	e.pub.Flush()

	var fetchErr error
	if len(countries) == 0 {
		countries, fetchErr = e.fetcher.Fetch(ctx)
	}

	e.mu.Lock()
	if run != e.run {
		e.mu.Unlock()
		return ErrRestarted
	}

	e.status = InProgress
	e.index = 0
	e.answered = false
	e.selected = -1
	e.score = 0
	e.questions = nil

	var err error
	switch {
	case fetchErr != nil:
		err = fetchErr
		metrics.RecordQuizStart(metrics.QuizFetchFailed)
	default:
		e.countries = countries
		e.questions, err = Generate(countries, e.n, e.rng)
		if err != nil {
			metrics.RecordQuizStart(metrics.QuizInsufficientData)
		} else {
			metrics.RecordQuizStart(metrics.QuizStarted)
		}
	}
	e.lastErr = err
	started := e.snapshotLocked()
	e.pub.Enqueue(started)
	e.mu.Unlock()

	e.pub.Flush()

	if err != nil {
		e.logger.Warn("quiz started without questions",
			slog.Int("countries", len(countries)),
			slog.Any("error", err))
		return fmt.Errorf("start quiz: %w", err)
	}
	e.logger.Debug("quiz started",
		slog.Int("questions", started.TotalQuestions),
		slog.Int("countries", len(countries)))
	return nil
}

// Guess submits choice for the current question and reports whether it is
// the right answer. Only the first guess per question can score; repeated
// guesses report correctness without changing the state.
func (e *Engine) Guess(choice int) (bool, error) {
	e.mu.Lock()
	q, ok := e.currentLocked()
	if !ok {
		e.mu.Unlock()
		return false, ErrNoQuestion
	}
	if choice < 0 || choice >= entity.ChoicesPerQuestion {
		e.mu.Unlock()
		return false, fmt.Errorf("%w: %d", ErrChoiceOutOfRange, choice)
	}

	correct := q.IsCorrect(choice)
	if e.answered {
		e.mu.Unlock()
		metrics.RecordQuizGuess(correct, true)
		return correct, nil
	}

	if correct {
		e.score++
	}
	e.answered = true
	e.selected = choice
	snap := e.snapshotLocked()
	e.pub.Enqueue(snap)
	e.mu.Unlock()

	metrics.RecordQuizGuess(correct, false)
	e.pub.Flush()
	return correct, nil
}

// NextQuestion moves past the current question, or to Finished after the
// last generated one. It is only valid while InProgress.
func (e *Engine) NextQuestion() error {
	e.mu.Lock()
	if e.status != InProgress {
		status := e.status
		e.mu.Unlock()
		return fmt.Errorf("%w: next question while %s", ErrInvalidTransition, status)
	}

	e.answered = false
	e.selected = -1
	finished := false
	if e.index+1 < len(e.questions) {
		e.index++
	} else {
		e.status = Finished
		finished = true
	}
	snap := e.snapshotLocked()
	e.pub.Enqueue(snap)
	e.mu.Unlock()

	if finished {
		metrics.RecordQuizFinished(snap.Score, snap.TotalQuestions)
		e.logger.Info("quiz finished",
			slog.Int("score", snap.Score),
			slog.Int("questions", snap.TotalQuestions))
	}
	e.pub.Flush()
	return nil
}

// Restart returns to NotStarted with a zero score. The fetched countries are
// kept so the next Start does not fetch again.
func (e *Engine) Restart() {
	e.mu.Lock()
	e.run++
	e.status = NotStarted
	e.index = 0
	e.answered = false
	e.selected = -1
	e.score = 0
	e.questions = nil
	e.lastErr = nil
	snap := e.snapshotLocked()
	e.pub.Enqueue(snap)
	e.mu.Unlock()

	e.pub.Flush()
}

// Results returns the score against the number of generated questions.
func (e *Engine) Results() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Result{Score: e.score, Total: len(e.questions)}
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change.
// The returned function removes the subscription.
func (e *Engine) Subscribe(fn func(State)) (cancel func()) {
	return e.pub.Subscribe(fn)
}

func (e *Engine) currentLocked() (entity.QuizQuestion, bool) {
	if e.status != InProgress || e.index >= len(e.questions) {
		return entity.QuizQuestion{}, false
	}
	return e.questions[e.index], true
}

func (e *Engine) snapshotLocked() State {
	s := State{
		Status:            e.status,
		QuestionIndex:     e.index,
		Answered:          e.answered,
		SelectedChoice:    e.selected,
		Score:             e.score,
		NumberOfQuestions: e.n,
		TotalQuestions:    len(e.questions),
		LastError:         e.lastErr,
	}
	if q, ok := e.currentLocked(); ok {
		s.Current = &q
	}
	return s
}

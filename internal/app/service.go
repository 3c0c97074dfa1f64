// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	busevents "github.com/som23ya/workwale-core/internal/adapters/events"
	rescorequeue "github.com/som23ya/workwale-core/internal/adapters/mq/queue"
	workerpool "github.com/som23ya/workwale-core/internal/adapters/mq/worker"
	"github.com/som23ya/workwale-core/internal/adapters/repository"
	domainevents "github.com/som23ya/workwale-core/internal/domain/events"
	"github.com/som23ya/workwale-core/internal/domain/lifecycle"
	"github.com/som23ya/workwale-core/internal/domain/matching"
	"github.com/som23ya/workwale-core/internal/domain/model"
	"github.com/som23ya/workwale-core/internal/domain/ranking"
	"github.com/som23ya/workwale-core/pkg/logger"
	"github.com/som23ya/workwale-core/pkg/metrics"
)

// ScoreRun summarizes one rescore of a candidate against all postings.
type ScoreRun struct {
	CandidateID string        `json:"candidate_id"`
	Total       int           `json:"total"`
	Completed   int           `json:"completed"`
	Partial     bool          `json:"partial"`
	Created     int           `json:"created"`
	Duration    time.Duration `json:"duration"`
}

// MatchPage is one page of ranked matches for a candidate.
type MatchPage struct {
	Matches []model.MatchRecord `json:"matches"`
	Total   int                 `json:"total"`
	Offset  int                 `json:"offset"`
	Limit   int                 `json:"limit"`
	Partial bool                `json:"partial"`
}

// rescoreAdapter lets the worker pool call back into the service.
type rescoreAdapter struct {
	svc *Service
}

func (a *rescoreAdapter) RescoreCandidate(ctx context.Context, candidateID string) error {
	_, err := a.svc.RescoreCandidate(ctx, candidateID)
	return err
}

// Service orchestrates scoring, ranking, application tracking, and event
// emission over the configured stores.
type Service struct {
	mu sync.RWMutex

	// Core components
	matches      repository.MatchStore
	applications repository.ApplicationStore
	profiles     repository.ProfileMirror
	postings     repository.PostingMirror
	engine       *matching.Engine
	ranker       *ranking.Ranker
	queue        rescorequeue.Queue
	pool         *workerpool.Pool
	emitter      busevents.Emitter

	// Configuration
	workerCount   int
	queueSize     int
	parallelism   int
	scoreDeadline time.Duration
	maxPageLimit  int

	// Last completed rescore per candidate, for the partial flag. Guarded
	// by its own mutex so in-flight workers never contend with Stop, which
	// holds mu across the pool shutdown.
	runsMu sync.Mutex
	runs   map[string]ScoreRun

	// State
	started bool
	now     func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of rescore workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the rescore queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithScoreParallelism bounds concurrent pair scoring within one rescore.
func WithScoreParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithScoreDeadline sets the per-rescore deadline. Pairs not scored when it
// expires are carried over from the previous run.
func WithScoreDeadline(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.scoreDeadline = d
		}
	}
}

// WithEngine sets the scoring engine.
func WithEngine(engine *matching.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithRanker sets the ranker.
func WithRanker(r *ranking.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithMatchStore overrides the default in-memory match store.
func WithMatchStore(store repository.MatchStore) Option {
	return func(s *Service) {
		if store != nil {
			s.matches = store
		}
	}
}

// WithApplicationStore overrides the default in-memory application store.
func WithApplicationStore(store repository.ApplicationStore) Option {
	return func(s *Service) {
		if store != nil {
			s.applications = store
		}
	}
}

// WithMirrors sets the collaborator snapshot mirrors.
func WithMirrors(profiles repository.ProfileMirror, postings repository.PostingMirror) Option {
	return func(s *Service) {
		if profiles != nil {
			s.profiles = profiles
		}
		if postings != nil {
			s.postings = postings
		}
	}
}

// WithEmitter sets the event emitter.
func WithEmitter(emitter busevents.Emitter) Option {
	return func(s *Service) {
		if emitter != nil {
			s.emitter = emitter
		}
	}
}

// WithMaxPageLimit caps the page size for match listings.
func WithMaxPageLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxPageLimit = limit
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     10000,
		parallelism:   runtime.NumCPU(),
		scoreDeadline: 2 * time.Second,
		maxPageLimit:  100,
		runs:          make(map[string]ScoreRun),
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes missing components and starts the rescore workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting matching service...")

	if s.matches == nil || s.applications == nil || s.profiles == nil || s.postings == nil {
		mem := repository.NewMemory()
		if s.matches == nil {
			s.matches = mem
		}
		if s.applications == nil {
			s.applications = mem
		}
		if s.profiles == nil {
			s.profiles = mem
		}
		if s.postings == nil {
			s.postings = mem
		}
	}
	if s.engine == nil {
		s.engine = matching.New()
	}
	if s.ranker == nil {
		s.ranker = ranking.New()
	}
	if s.emitter == nil {
		s.emitter = busevents.Discard
	}
	if s.queue == nil {
		s.queue = rescorequeue.NewInMemoryQueue(
			rescorequeue.WithCapacity(s.queueSize),
		)
	}

	s.pool = workerpool.NewPool(s.workerCount, s.queue, &rescoreAdapter{svc: s})
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("scoreDeadline", s.scoreDeadline),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matching service...")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

// RescoreCandidate recomputes the candidate's matches against every posting.
// Scoring runs in parallel under the configured deadline; pairs the deadline
// cuts off keep their record from the previous run and the result is marked
// partial. The match set swap is atomic and match_created events fire only
// after it commits.
func (s *Service) RescoreCandidate(ctx context.Context, candidateID string) (ScoreRun, error) {
	start := s.now()

	profile, err := s.profiles.Profile(ctx, candidateID)
	if err != nil {
		return ScoreRun{}, err
	}
	postings, err := s.postings.Postings(ctx)
	if err != nil {
		return ScoreRun{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.scoreDeadline)
	defer cancel()

	results := make([]*model.MatchRecord, len(postings))
	scoredAt := s.now()

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.parallelism)
	var launched int
loop:
	for i := range postings {
		select {
		case sem <- struct{}{}:
		case <-runCtx.Done():
			break loop
		}
		launched++
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			posting := postings[idx]
			score, err := s.engine.Score(&profile, &posting)
			if err != nil {
				s.logger.Warn(ctx, "skipping unscorable pair",
					logger.String("candidate_id", candidateID),
					logger.String("job_id", posting.ID),
					logger.Error(err),
				)
				return
			}
			results[idx] = &model.MatchRecord{
				CandidateID:    candidateID,
				JobID:          posting.ID,
				Score:          score.Value,
				MatchingSkills: score.MatchingSkills,
				MissingSkills:  score.MissingSkills,
				Features:       score.Features,
				Explanation:    score.Explanation,
				PostedAt:       posting.PostedAt,
				ComputedAt:     scoredAt,
			}
		}(i)
	}
	wg.Wait()

	partial := launched < len(postings)
	records := make([]model.MatchRecord, 0, len(postings))
	scoredJobs := make(map[string]struct{}, launched)
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
			scoredJobs[rec.JobID] = struct{}{}
		}
	}
	completed := len(records)

	if partial {
		// Carry over previous records for pairs this run did not reach.
		previous, err := s.matches.ListForCandidate(ctx, candidateID)
		if err != nil {
			return ScoreRun{}, err
		}
		for _, prev := range previous {
			if _, ok := scoredJobs[prev.JobID]; !ok {
				records = append(records, prev)
			}
		}
	}

	// Stable storage order keeps runs comparable.
	sort.Slice(records, func(i, j int) bool {
		return records[i].JobID < records[j].JobID
	})

	created, err := s.matches.ReplaceForCandidate(ctx, candidateID, records)
	if err != nil {
		return ScoreRun{}, err
	}

	run := ScoreRun{
		CandidateID: candidateID,
		Total:       len(postings),
		Completed:   completed,
		Partial:     partial,
		Created:     len(created),
		Duration:    s.now().Sub(start),
	}

	s.runsMu.Lock()
	s.runs[candidateID] = run
	s.runsMu.Unlock()

	metrics.RecordScoreRun()
	if partial {
		metrics.RecordScoreRunPartial()
	}
	metrics.RecordScoringLatency(float64(run.Duration.Milliseconds()))
	metrics.RecordMatchSetReplaced()
	metrics.RecordMatchesCreated(len(created))

	for _, rec := range created {
		s.emitter.Emit(ctx, domainevents.NewMatchCreated(rec.CandidateID, rec.JobID, rec.Score, scoredAt))
	}

	if partial {
		s.logger.Warn(ctx, "rescore hit deadline",
			logger.String("candidate_id", candidateID),
			logger.Int("completed", completed),
			logger.Int("total", len(postings)),
		)
	}

	return run, nil
}

// EnqueueRescore queues an asynchronous rescore. Returns false when the
// queue is full.
func (s *Service) EnqueueRescore(ctx context.Context, candidateID string) (bool, error) {
	if _, err := s.profiles.Profile(ctx, candidateID); err != nil {
		return false, err
	}
	return s.queue.Enqueue(ctx, rescorequeue.Request{
		CandidateID: candidateID,
		EnqueuedAt:  s.now(),
	}), nil
}

// ListMatches returns one ranked page of the candidate's matches. A
// negative floor selects the ranker's default.
func (s *Service) ListMatches(ctx context.Context, candidateID string, floor float64, offset, limit int) (MatchPage, error) {
	if _, err := s.profiles.Profile(ctx, candidateID); err != nil {
		return MatchPage{}, err
	}

	records, err := s.matches.ListForCandidate(ctx, candidateID)
	if err != nil {
		return MatchPage{}, err
	}

	ranker := s.ranker
	if floor >= 0 {
		ranker = ranking.New(ranking.WithFloor(floor))
	}
	ranked := ranker.Rank(records)

	if limit <= 0 || limit > s.maxPageLimit {
		limit = s.maxPageLimit
	}

	s.runsMu.Lock()
	run, hasRun := s.runs[candidateID]
	s.runsMu.Unlock()

	return MatchPage{
		Matches: ranking.Page(ranked, offset, limit),
		Total:   len(ranked),
		Offset:  offset,
		Limit:   limit,
		Partial: hasRun && run.Partial,
	}, nil
}

// CreateApplication opens an application in the Applied state and emits a
// status_changed event for the creation.
func (s *Service) CreateApplication(ctx context.Context, candidateID, jobID, actor string) (lifecycle.Application, error) {
	if _, err := s.profiles.Profile(ctx, candidateID); err != nil {
		return lifecycle.Application{}, err
	}
	if _, err := s.postings.Posting(ctx, jobID); err != nil {
		return lifecycle.Application{}, err
	}

	now := s.now()
	app := lifecycle.NewApplication(uuid.NewString(), candidateID, jobID, actor, now)
	if err := s.applications.Create(ctx, app); err != nil {
		return lifecycle.Application{}, err
	}

	metrics.RecordApplicationCreated()
	s.emitter.Emit(ctx, domainevents.NewStatusChanged(
		app.ID, candidateID, jobID, "", lifecycle.StatusApplied, actor, now))

	return app, nil
}

// TransitionApplication advances an application, serialized through the
// expected version. The status_changed event fires only after the store
// commits the change.
func (s *Service) TransitionApplication(ctx context.Context, appID string, to lifecycle.Status, expectedVersion int64, actor string) (lifecycle.Application, error) {
	now := s.now()
	app, err := s.applications.Transition(ctx, appID, to, expectedVersion, actor, now)
	if err != nil {
		var conflict *repository.ConflictError
		var invalid *lifecycle.InvalidTransitionError
		switch {
		case errors.As(err, &conflict):
			metrics.RecordTransitionConflict()
		case errors.As(err, &invalid):
			metrics.RecordInvalidTransition()
		}
		return lifecycle.Application{}, err
	}

	metrics.RecordTransition(string(to))
	last := app.History[len(app.History)-1]
	s.emitter.Emit(ctx, domainevents.NewStatusChanged(
		app.ID, app.CandidateID, app.JobID, last.From, last.To, actor, now))

	return app, nil
}

// GetApplication returns an application with its full history.
func (s *Service) GetApplication(ctx context.Context, appID string) (lifecycle.Application, error) {
	return s.applications.Get(ctx, appID)
}

// UpsertProfile stores a candidate snapshot and queues a rescore for the
// candidate.
func (s *Service) UpsertProfile(ctx context.Context, profile model.CandidateProfile) error {
	if verr := profile.Validate(); verr != nil {
		return verr
	}
	normalized := profile
	normalized.Skills = model.NormalizeSkills(profile.Skills)
	if err := s.profiles.PutProfile(ctx, normalized); err != nil {
		return err
	}
	s.queue.Enqueue(ctx, rescorequeue.Request{CandidateID: normalized.ID, EnqueuedAt: s.now()})
	return nil
}

// UpsertPosting stores a posting snapshot and queues a rescore for every
// known candidate, since the change can affect all of them.
func (s *Service) UpsertPosting(ctx context.Context, posting model.JobPosting) error {
	if verr := posting.Validate(); verr != nil {
		return verr
	}
	if err := s.postings.PutPosting(ctx, posting); err != nil {
		return err
	}
	return s.SweepRescore(ctx)
}

// SweepRescore queues a rescore for every known candidate.
func (s *Service) SweepRescore(ctx context.Context) error {
	ids, err := s.profiles.CandidateIDs(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	for _, id := range ids {
		s.queue.Enqueue(ctx, rescorequeue.Request{CandidateID: id, EnqueuedAt: now})
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		if counter, ok := s.profiles.(interface{ CandidateCount() int }); ok {
			tracked := counter.CandidateCount()
			stats["candidatesTracked"] = tracked
			metrics.UpdateCandidatesTracked(tracked)
		}
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}

	return stats
}

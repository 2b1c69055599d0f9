package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pders01/leetsync/internal/config"
	"github.com/pders01/leetsync/internal/models"
	"github.com/pders01/leetsync/internal/store"
)

const (
	DefaultPageSize      = 20
	DefaultTodayPageSize = 50
)

// ErrNotAuthenticated aborts a run before anything is fetched
var ErrNotAuthenticated = errors.New("not authenticated, check your session cookie")

// FetchPolicy decides what a failed page fetch means for the batch
type FetchPolicy int

const (
	// TreatErrorAsEmpty ends the batch at a failed page as if no data remained
	TreatErrorAsEmpty FetchPolicy = iota
	// FailOnError aborts the run on the first failed page
	FailOnError
)

// Remote is the judge service
type Remote interface {
	Profile(ctx context.Context) (*models.UserStatus, error)
	SubmissionPage(ctx context.Context, offset, limit int) ([]models.SubmissionSummary, error)
	SubmissionDetail(ctx context.Context, id string) (*models.SubmissionDetail, error)
}

// Store is the local solution tree
type Store interface {
	ExistingProblemIDs() (map[string]struct{}, error)
	PathFor(a models.Artifact) string
	WriteArtifact(a models.Artifact) (string, error)
	ReplaceArtifact(a models.Artifact) (string, error)
}

// Publisher records artifacts in version control
type Publisher interface {
	EnsureHistory(ctx context.Context) (bool, error)
	CommitOne(ctx context.Context, path, message string) (bool, error)
	Publish(ctx context.Context, remote, branch string) error
}

// Options controls a single run
type Options struct {
	MaxSubmissions int
	PageSize       int
	TodayPageSize  int
	DryRun         bool
	Force          bool
	TodayOnly      bool
	AutoPush       bool
	IncludeHeader  bool
	BaseURL        string
	RemoteName     string
	Branch         string
	PageDelay      time.Duration
	RecordDelay    time.Duration
	PagePolicy     FetchPolicy

	// CommitMessage renders the per-artifact commit message
	CommitMessage func(problemID, title, difficulty string) string
	// Now and Sleep default to the wall clock
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// OptionsFromConfig maps the process configuration onto run options
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		MaxSubmissions: cfg.MaxSubmissions,
		TodayOnly:      cfg.TodayOnly,
		AutoPush:       cfg.AutoPush,
		IncludeHeader:  cfg.IncludeHeader,
		BaseURL:        cfg.BaseURL,
		RemoteName:     cfg.RemoteName,
		Branch:         cfg.Branch,
		PageDelay:      cfg.PageDelay(),
		RecordDelay:    cfg.RecordDelay(),
		CommitMessage:  cfg.CommitMessage,
	}
}

// Syncer drives fetch, dedup, persist and publish for one run
type Syncer struct {
	remote    Remote
	store     Store
	publisher Publisher
	opts      Options
	logger    *slog.Logger
	state     State
}

// New creates a Syncer; a nil logger discards output
func New(remote Remote, st Store, publisher Publisher, opts Options, logger *slog.Logger) *Syncer {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.TodayPageSize <= 0 {
		opts.TodayPageSize = DefaultTodayPageSize
	}
	if opts.MaxSubmissions <= 0 {
		opts.MaxSubmissions = config.Default().MaxSubmissions
	}
	if opts.CommitMessage == nil {
		opts.CommitMessage = config.Default().CommitMessage
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Syncer{
		remote:    remote,
		store:     st,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

// State returns the current stage
func (s *Syncer) State() State {
	return s.state
}

// Run executes the pipeline. Only authentication, repository preparation and
// local scan failures are returned as errors; per-record problems are counted
// in the Result.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	res := &Result{StartedAt: s.opts.Now(), DryRun: s.opts.DryRun}
	defer func() {
		res.State = s.state
		res.FinishedAt = s.opts.Now()
	}()

	s.transition(StateAuthenticating)
	user, err := s.remote.Profile(ctx)
	if err != nil {
		s.transition(StateAborted)
		return res, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	res.User = user.Username
	s.logger.Info("authenticated", "user", user.Username)

	if !s.opts.DryRun {
		created, err := s.publisher.EnsureHistory(ctx)
		if err != nil {
			s.transition(StateAborted)
			return res, fmt.Errorf("failed to prepare repository: %w", err)
		}
		if created {
			s.logger.Info("initialized repository")
		}
	}

	existing, err := s.store.ExistingProblemIDs()
	if err != nil {
		s.transition(StateAborted)
		return res, err
	}
	s.logger.Info("found existing solutions", "count", len(existing))

	s.transition(StateFetching)
	summaries, err := s.fetch(ctx)
	if err != nil {
		s.transition(StateAborted)
		return res, err
	}
	res.Fetched = len(summaries)
	if len(summaries) == 0 {
		s.logger.Warn("no accepted submissions found")
		s.transition(StateAborted)
		return res, nil
	}

	s.transition(StateProcessing)
	seen := make(map[string]struct{}, len(summaries))
	for i, sum := range summaries {
		if err := ctx.Err(); err != nil {
			s.transition(StateAborted)
			return res, err
		}
		if _, dup := seen[sum.ProblemSlug]; dup {
			continue
		}
		seen[sum.ProblemSlug] = struct{}{}
		res.Unique++

		res.add(s.process(ctx, i+1, len(summaries), sum, existing))
	}

	if !s.opts.DryRun && res.New > 0 && s.opts.AutoPush {
		s.transition(StatePublishing)
		if err := s.publisher.Publish(ctx, s.opts.RemoteName, s.opts.Branch); err != nil {
			res.PublishError = err.Error()
			s.logger.Error("failed to push", "remote", s.opts.RemoteName, "branch", s.opts.Branch, "err", err)
		} else {
			res.Pushed = true
			s.logger.Info("pushed", "remote", s.opts.RemoteName, "branch", s.opts.Branch)
		}
	}

	s.transition(StateDone)
	return res, nil
}

// process handles one unique problem and never fails the run
func (s *Syncer) process(ctx context.Context, n, total int, sum models.SubmissionSummary, existing map[string]struct{}) Record {
	log := s.logger.With("submission", sum.ID, "slug", sum.ProblemSlug)
	log.Info("processing", "progress", fmt.Sprintf("%d/%d", n, total), "title", sum.ProblemTitle)

	rec := Record{SubmissionID: sum.ID, Title: sum.ProblemTitle, Slug: sum.ProblemSlug}

	detail, err := s.remote.SubmissionDetail(ctx, sum.ID)
	// every detail request is paced, whatever happens to the record
	defer s.pause(ctx, s.opts.RecordDelay)
	if err != nil {
		log.Warn("could not fetch submission details", "err", err)
		rec.Outcome = OutcomeFailed
		rec.Error = err.Error()
		return rec
	}
	fillFromSummary(detail, sum)
	rec.ProblemID = detail.ProblemID
	rec.Title = detail.ProblemTitle

	padded := models.PadProblemID(detail.ProblemID)
	if _, ok := existing[padded]; ok && !s.opts.Force {
		log.Info("skipping, already exists", "problem_id", padded)
		rec.Outcome = OutcomeSkipped
		return rec
	}

	artifact := models.Artifact{
		Detail:        *detail,
		Language:      models.ParseLanguage(detail.Language),
		Runtime:       sum.Runtime,
		Memory:        sum.Memory,
		BaseURL:       s.opts.BaseURL,
		IncludeHeader: s.opts.IncludeHeader,
		Date:          s.opts.Now(),
	}
	if s.opts.DryRun {
		rec.Path = s.store.PathFor(artifact)
		rec.Outcome = OutcomeNew
		log.Info("dry run, would save", "path", rec.Path)
		return rec
	}

	write := s.store.WriteArtifact
	if s.opts.Force {
		write = s.store.ReplaceArtifact
	}

	path, err := write(artifact)
	switch {
	case errors.Is(err, store.ErrArtifactExists):
		log.Info("skipping, already exists", "path", path)
		rec.Path = path
		rec.Outcome = OutcomeSkipped
		return rec
	case err != nil:
		log.Error("failed to save solution", "err", err)
		rec.Outcome = OutcomeFailed
		rec.Error = err.Error()
		return rec
	}

	existing[padded] = struct{}{}
	rec.Path = path
	rec.Outcome = OutcomeNew
	log.Info("saved", "path", path)

	msg := s.opts.CommitMessage(detail.ProblemID, detail.ProblemTitle, string(detail.Difficulty))
	committed, err := s.publisher.CommitOne(ctx, path, msg)
	if err != nil {
		log.Error("failed to commit", "path", path, "err", err)
		rec.CommitError = err.Error()
		return rec
	}
	rec.Committed = committed
	if committed {
		log.Info("committed", "message", msg)
	}
	return rec
}

// fetch collects the batch of summaries for this run
func (s *Syncer) fetch(ctx context.Context) ([]models.SubmissionSummary, error) {
	if s.opts.TodayOnly {
		return s.fetchToday(ctx)
	}

	var all []models.SubmissionSummary
	offset, limit := 0, s.opts.PageSize

	for len(all) < s.opts.MaxSubmissions {
		page, err := s.page(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		all = append(all, page...)
		s.logger.Info("fetched submissions", "total", len(all))

		if len(page) < limit || len(all) >= s.opts.MaxSubmissions {
			break
		}
		offset += limit
		if err := s.pause(ctx, s.opts.PageDelay); err != nil {
			return nil, err
		}
	}

	if len(all) > s.opts.MaxSubmissions {
		all = all[:s.opts.MaxSubmissions]
	}
	return all, nil
}

// fetchToday reads one larger page and keeps records from the current UTC day.
// It stops at the first older record, which assumes the remote returns
// submissions newest first; an out-of-order page drops later records.
func (s *Syncer) fetchToday(ctx context.Context) ([]models.SubmissionSummary, error) {
	today := dayOf(s.opts.Now())
	s.logger.Info("fetching today's submissions", "date", today.Format("2006-01-02"))

	page, err := s.page(ctx, 0, s.opts.TodayPageSize)
	if err != nil {
		return nil, err
	}

	var todays []models.SubmissionSummary
	for _, sub := range page {
		day := dayOf(sub.Timestamp)
		if day.Equal(today) {
			todays = append(todays, sub)
		} else if day.Before(today) {
			break
		}
	}

	s.logger.Info("found submissions from today", "count", len(todays))
	return todays, nil
}

// page fetches one page, applying the configured FetchPolicy to failures
func (s *Syncer) page(ctx context.Context, offset, limit int) ([]models.SubmissionSummary, error) {
	page, err := s.remote.SubmissionPage(ctx, offset, limit)
	if err == nil {
		return page, nil
	}
	if s.opts.PagePolicy == FailOnError {
		return nil, fmt.Errorf("failed to fetch submissions at offset %d: %w", offset, err)
	}

	s.logger.Warn("failed to fetch submissions, treating as end of data", "offset", offset, "err", err)
	return nil, nil
}

func (s *Syncer) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	return s.opts.Sleep(ctx, d)
}

func (s *Syncer) transition(next State) {
	s.logger.Debug("state change", "from", s.state, "to", next)
	s.state = next
}

// fillFromSummary covers detail fields the remote left empty
func fillFromSummary(d *models.SubmissionDetail, sum models.SubmissionSummary) {
	if d.ProblemTitle == "" {
		d.ProblemTitle = sum.ProblemTitle
	}
	if d.ProblemSlug == "" {
		d.ProblemSlug = sum.ProblemSlug
	}
	if d.Language == "" {
		d.Language = sum.Language
	}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

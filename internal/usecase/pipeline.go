package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"CryptoNewsPublisher/internal/domain"
	"CryptoNewsPublisher/internal/ports"
)

const defaultIllustrationPrompt = "Futuristic crypto coin visualization"

var errEmptyNarrative = errors.New("narrative is empty")

// PipelineDeps wires all driven adapters into the orchestration pipeline.
// Illustrator and Poster are optional; a nil value disables that stage.
type PipelineDeps struct {
	Source             ports.MarketSource
	Generator          ports.NarrativeGenerator
	Illustrator        ports.Illustrator
	Publisher          ports.Publisher
	Poster             ports.SocialPoster
	IllustrationPrompt string
	Logger             *slog.Logger
	Clock              func() time.Time
}

// Pipeline implements the fetch, generate, illustrate, publish, post workflow.
// It holds no per-run state; every Run starts from Idle.
type Pipeline struct {
	source             ports.MarketSource
	generator          ports.NarrativeGenerator
	illustrator        ports.Illustrator
	publisher          ports.Publisher
	poster             ports.SocialPoster
	illustrationPrompt string
	logger             *slog.Logger
	clock              func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	prompt := strings.TrimSpace(deps.IllustrationPrompt)
	if prompt == "" {
		prompt = defaultIllustrationPrompt
	}

	return &Pipeline{
		source:             deps.Source,
		generator:          deps.Generator,
		illustrator:        deps.Illustrator,
		publisher:          deps.Publisher,
		poster:             deps.Poster,
		illustrationPrompt: prompt,
		logger:             logger,
		clock:              clock,
	}
}

// run is the ephemeral state of one execution.
type run struct {
	report domain.RunReport
	logger *slog.Logger
}

func (r *run) transition(next domain.RunState) {
	r.logger.Debug("state transition", "from", r.report.State, "to", next)
	r.report.State = next
}

// Run executes one pipeline run to Done or Aborted. Stage failures never
// escape as errors or panics; they are reported in the returned RunReport.
func (p *Pipeline) Run(ctx context.Context, trigger domain.Trigger) (report domain.RunReport) {
	id := uuid.New()
	r := &run{
		report: domain.RunReport{
			ID:        id,
			Trigger:   trigger,
			State:     domain.StateIdle,
			StartedAt: p.clock(),
		},
		logger: p.logger.With("run_id", id.String(), "trigger", string(trigger)),
	}

	defer func() {
		if rec := recover(); rec != nil {
			p.abort(r, stageOf(r.report.State), fmt.Errorf("panic: %v", rec))
		}
		r.report.FinishedAt = p.clock()
		p.logOutcome(r)
		report = r.report
	}()

	r.logger.Info("pipeline run started")
	p.execute(ctx, r)
	return r.report
}

func (p *Pipeline) execute(ctx context.Context, r *run) {
	r.transition(domain.StateFetching)
	if p.source == nil {
		p.abort(r, domain.StageFetch, errors.New("market source is not configured"))
		return
	}
	facts, err := p.source.Fetch(ctx)
	if err != nil {
		p.abort(r, domain.StageFetch, err)
		return
	}
	r.report.Facts = len(facts)
	r.logger.Info("market data fetched", "assets", len(facts))

	r.transition(domain.StateGenerating)
	if p.generator == nil {
		p.abort(r, domain.StageGenerate, errors.New("narrative generator is not configured"))
		return
	}
	narrative, err := p.generator.Generate(ctx, facts)
	if err != nil {
		p.abort(r, domain.StageGenerate, err)
		return
	}
	if narrative.Empty() {
		p.abort(r, domain.StageGenerate, errEmptyNarrative)
		return
	}
	r.logger.Info("narrative generated", "chars", len(narrative.Text))

	r.transition(domain.StateIllustrating)
	var illustration domain.Illustration
	if p.illustrator == nil {
		r.logger.Info("illustration stage disabled")
	} else {
		illustration = p.illustrate(ctx, r, p.promptFor(facts))
		if illustration.Present() {
			r.report.Illustrated = true
			r.logger.Info("illustration generated", "image_url", illustration.URL)
		} else {
			r.logger.Warn("continuing without illustration")
		}
	}

	r.transition(domain.StatePublishing)
	if p.publisher == nil {
		p.abort(r, domain.StagePublish, errors.New("publisher is not configured"))
		return
	}
	article, err := p.publisher.Publish(ctx, narrative, illustration)
	if err == nil && strings.TrimSpace(article.URL) == "" {
		err = errors.New("published article has no url")
	}
	if err != nil {
		p.abort(r, domain.StagePublish, err)
		return
	}
	r.report.ArticleURL = article.URL
	r.logger.Info("article published", "title", article.Title, "url", article.URL)

	r.transition(domain.StatePosting)
	if p.poster == nil {
		r.logger.Info("social stage disabled")
	} else if err := p.post(ctx, narrative, article.URL); err != nil {
		r.report.PostErr = domain.NewStageError(domain.StagePost, err)
		r.logger.Warn("social post failed", "stage", domain.StagePost, "error", err)
	} else {
		r.report.SocialPosted = true
		r.logger.Info("social post sent")
	}

	r.transition(domain.StateDone)
}

// illustrate absorbs even a panicking illustrator: the article goes out without an image.
func (p *Pipeline) illustrate(ctx context.Context, r *run, prompt string) (illustration domain.Illustration) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("illustrator panicked", "stage", domain.StageIllustrate, "panic", rec)
			illustration = domain.Illustration{}
		}
	}()
	return p.illustrator.Generate(ctx, prompt)
}

func (p *Pipeline) post(ctx context.Context, narrative domain.Narrative, articleURL string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return p.poster.Post(ctx, narrative, articleURL)
}

func (p *Pipeline) abort(r *run, stage domain.Stage, err error) {
	r.report.FailedStage = stage
	r.report.Err = domain.NewStageError(stage, err)
	r.logger.Error("stage failed", "stage", stage, "error", err)
	r.transition(domain.StateAborted)
}

func (p *Pipeline) logOutcome(r *run) {
	rep := r.report
	attrs := []any{
		"state", rep.State,
		"duration", rep.Duration().Round(time.Millisecond),
		"article_url", rep.ArticleURL,
		"illustrated", rep.Illustrated,
		"social_posted", rep.SocialPosted,
	}
	if rep.Succeeded() {
		r.logger.Info("pipeline run finished", attrs...)
		return
	}
	r.logger.Error("pipeline run aborted", append(attrs, "failed_stage", rep.FailedStage, "error", rep.Err)...)
}

// promptFor personalizes the illustration prompt with the leading asset.
func (p *Pipeline) promptFor(facts []domain.MarketFact) string {
	if len(facts) == 0 || strings.TrimSpace(facts[0].Headline) == "" {
		return p.illustrationPrompt
	}
	return fmt.Sprintf("%s, featuring %s", p.illustrationPrompt, facts[0].Headline)
}

func stageOf(state domain.RunState) domain.Stage {
	switch state {
	case domain.StateFetching:
		return domain.StageFetch
	case domain.StateGenerating:
		return domain.StageGenerate
	case domain.StateIllustrating:
		return domain.StageIllustrate
	case domain.StatePublishing:
		return domain.StagePublish
	case domain.StatePosting:
		return domain.StagePost
	default:
		return ""
	}
}

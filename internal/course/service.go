package course

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"course-builder/internal/gateway"
	"course-builder/internal/platform/logger"
	"course-builder/internal/youtube"

	"golang.org/x/sync/errgroup"
)

// DescriptionExcerptLength is the maximum number of runes of the parent
// description carried on each result.
const DescriptionExcerptLength = 200

// ErrInvalidPrompt is returned for an empty prompt.
var ErrInvalidPrompt = errors.New("prompt is required")

// querySuffixes are appended to the prompt to form the search variants.
var querySuffixes = []string{"crash course", "complete course", "full tutorial", "course tutorial"}

// VideoSource is the provider the pipeline searches. *youtube.Client implements it.
type VideoSource interface {
	Configured() bool
	Search(ctx context.Context, query string) ([]youtube.SearchResult, error)
	Videos(ctx context.Context, ids []string) ([]youtube.Candidate, error)
}

// Service turns a prompt into an ordered list of video segments.
type Service struct {
	source    VideoSource
	curricula Curricula
	log       *slog.Logger
}

// NewService returns a Service searching source. A zero Curricula uses the defaults.
func NewService(source VideoSource, curricula Curricula, log *slog.Logger) *Service {
	if len(curricula.Tracks) == 0 && len(curricula.Fallback) == 0 {
		curricula = DefaultCurricula()
	}
	return &Service{source: source, curricula: curricula, log: log}
}

// Generate searches for the best long crash course on prompt, segments it and
// returns the segments ordered by difficulty.
//
// The result is never nil. gateway.ErrQuotaExceeded is returned as is; every
// other provider failure yields an empty list.
func (s *Service) Generate(ctx context.Context, prompt string) ([]VideoResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrInvalidPrompt
	}
	log := s.log.With(slog.String("request_id", logger.RequestID(ctx)))

	if s.source == nil || !s.source.Configured() {
		log.Warn("video provider not configured, returning no results")
		return []VideoResult{}, nil
	}

	candidates, err := s.collect(ctx, log, prompt)
	if err != nil {
		return nil, err
	}

	best, ok := candidates.Best()
	if !ok {
		log.Info("no long video found", slog.String("prompt", prompt), slog.Int("candidates", candidates.Len()))
		return []VideoResult{}, nil
	}

	total := youtube.ParseDuration(best.Duration)
	segments := BuildSegments(best.Description, total, prompt, s.curricula)
	results := toResults(best, segments)
	SortByDifficulty(results)

	log.Info("course generated",
		slog.String("prompt", prompt),
		slog.String("video_id", best.ID),
		slog.Int("candidates", candidates.Len()),
		slog.Int("segments", len(results)))
	return results, nil
}

// collect runs every query variant concurrently and merges their candidates
// in variant order. Only quota exhaustion aborts; other failures drop that
// variant.
func (s *Service) collect(ctx context.Context, log *slog.Logger, prompt string) (*candidateSet, error) {
	perQuery := make([][]youtube.Candidate, len(querySuffixes))

	g, gctx := errgroup.WithContext(ctx)
	for i, suffix := range querySuffixes {
		query := prompt + " " + suffix
		g.Go(func() error {
			found, err := s.searchWithDetails(gctx, query)
			if err != nil {
				if errors.Is(err, gateway.ErrQuotaExceeded) {
					return err
				}
				log.Warn("query variant failed", slog.String("query", query), slog.String("error", err.Error()))
				return nil
			}
			perQuery[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("video provider quota exceeded", slog.String("prompt", prompt))
		return nil, err
	}

	set := newCandidateSet()
	for _, found := range perQuery {
		for _, c := range found {
			set.Add(c)
		}
	}
	return set, nil
}

func (s *Service) searchWithDetails(ctx context.Context, query string) ([]youtube.Candidate, error) {
	hits, err := s.source.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	return s.source.Videos(ctx, ids)
}

// toResults builds one result per segment, or a single whole-video result
// when there are no segments.
func toResults(v youtube.Candidate, segments []Segment) []VideoResult {
	excerpt := truncate(v.Description, DescriptionExcerptLength)
	base := VideoResult{
		ID:           v.ID,
		Title:        v.Title,
		VideoTitle:   v.Title,
		Description:  excerpt,
		ChannelTitle: v.ChannelTitle,
		PublishedAt:  v.PublishedAt,
		Thumbnails:   v.Thumbnails,
		Duration:     v.Duration,
		ViewCount:    v.ViewCount,
	}

	if len(segments) == 0 {
		base.Difficulty = Classify(v.Title, v.Description)
		return []VideoResult{base}
	}

	out := make([]VideoResult, 0, len(segments))
	for i, seg := range segments {
		r := base
		r.Title = seg.Title
		r.Part = i + 1
		r.Duration = youtube.FormatDuration(seg.End - seg.Start)
		start, end := seg.Start, seg.End
		r.StartTime = &start
		r.EndTime = &end
		// Segments share the parent description; level comes from the segment title.
		r.Difficulty = Classify(seg.Title, "")
		out = append(out, r)
	}
	return out
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

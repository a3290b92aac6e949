package weather

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service wraps the tool facade with the concerns the facade itself must
// not carry: structured logging, timing, and invocation history.
type Service struct {
	logger   *zap.Logger
	tool     *Tool
	resolver Resolver
	history  Recorder
}

// NewService wires a resolver and an upstream into a recorded facade.
// history may be nil, in which case invocations are not retained.
func NewService(logger *zap.Logger, resolver Resolver, upstream Upstream, history Recorder) *Service {
	return &Service{
		logger:   logger,
		tool:     NewTool(resolver, upstream),
		resolver: resolver,
		history:  history,
	}
}

// Tool returns the bare facade for callers that do not need recording.
func (s *Service) Tool() *Tool {
	return s.tool
}

// GetWeather runs the facade for one city, records the invocation, and
// returns the serialized payload plus the outcome class.
func (s *Service) GetWeather(ctx context.Context, city string) (string, Outcome) {
	start := time.Now()
	body, err := s.tool.Lookup(ctx, city)
	outcome := OutcomeOf(err)
	payload := Serialize(body, err)

	inv := Invocation{
		ID:        uuid.New().String(),
		City:      city,
		Outcome:   outcome,
		ElapsedMS: time.Since(start).Milliseconds(),
		At:        time.Now().UTC(),
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		inv.RequestURL = upstreamErr.URL
	}
	if s.history != nil {
		s.history.Record(inv)
	}

	switch outcome {
	case OutcomeOK:
		s.logger.Debug("weather lookup ok",
			zap.String("city", city),
			zap.Int64("elapsed_ms", inv.ElapsedMS))
	case OutcomeCityNotFound:
		s.logger.Info("city not in gazetteer", zap.String("city", city))
	default:
		s.logger.Warn("upstream lookup failed",
			zap.String("city", city),
			zap.String("url", inv.RequestURL),
			zap.Error(err))
	}

	return payload, outcome
}

// Resolve exposes the underlying gazetteer lookup without touching the
// network.
func (s *Service) Resolve(city string) (Coordinates, error) {
	return s.resolver.Resolve(city)
}

// History returns up to limit recorded invocations, newest first.
func (s *Service) History(limit int) []Invocation {
	if s.history == nil {
		return nil
	}
	return s.history.Recent(limit)
}

package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/templepass/ai-service/internal/infra/artifact"
	apperrors "github.com/templepass/ai-service/pkg/errors"
)

// Service exposes crowd prediction backed by the loaded model artifact.
type Service interface {
	Predict(ctx context.Context, req Request) (Response, error)
}

type service struct {
	bundle *artifact.Bundle
	logger *slog.Logger
}

// NewService wires up the forecast domain. The bundle is owned by the service
// for the process lifetime and never mutated.
func NewService(bundle *artifact.Bundle, logger *slog.Logger) Service {
	return &service{
		bundle: bundle,
		logger: logger.With("component", "forecast.service"),
	}
}

func (s *service) Predict(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.TempleName) == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "temple_name cannot be empty", nil)
	}

	features, err := DeriveFeatures(req, s.bundle)
	if err != nil {
		return Response{}, err
	}

	raw, err := s.runModel(features)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodePredictionFailed, "model inference failed", err)
	}

	visitors := int(math.Floor(raw))
	if visitors < 0 {
		visitors = 0
	}
	status, color := ClassifySeverity(visitors)

	s.logger.Debug("prediction served", "temple", req.TempleName, "date", req.DateStr, "visitors", visitors, "status", status)

	return Response{
		Temple:            req.TempleName,
		Date:              req.DateStr,
		PredictedVisitors: visitors,
		CrowdStatus:       status,
		ColorCode:         color,
	}, nil
}

// runModel invokes the opaque model and converts panics from a malformed
// artifact into errors, so a bad inference call degrades to a 5xx instead of
// killing the process.
func (s *service) runModel(features FeatureVector) (raw float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()
	return s.bundle.Model.Predict(features)
}

// ClassifySeverity maps a visitor count onto the severity ladder. The ladder
// is exhaustive and mutually exclusive: every non-negative count lands in
// exactly one tier.
func ClassifySeverity(count int) (Status, string) {
	switch {
	case count > CriticalVisitorThreshold:
		return StatusCritical, ColorRed
	case count > HighVisitorThreshold:
		return StatusHigh, ColorOrange
	default:
		return StatusNormal, ColorGreen
	}
}

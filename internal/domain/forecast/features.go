package forecast

import (
	"fmt"
	"strings"
	"time"

	"github.com/templepass/ai-service/internal/infra/artifact"
	apperrors "github.com/templepass/ai-service/pkg/errors"
)

// Calendar business rules baked into the training data. May and November
// approximate the regional school holiday periods; Shravan, the peak
// pilgrimage month, is approximated as August rather than tracked against
// the lunar calendar.
var VacationMonths = map[time.Month]bool{
	time.May:      true,
	time.November: true,
}

// ShravanMonth is the Gregorian approximation of the Shravan lunar month.
const ShravanMonth = time.August

// DeriveFeatures turns a request into the 11-element vector the model was
// trained on. Derivation is deterministic: the same request against the same
// encoders always yields the same vector.
func DeriveFeatures(req Request, bundle *artifact.Bundle) (FeatureVector, error) {
	templeCode, ok := bundle.TempleEncoder.Transform(req.TempleName)
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeUnknownCategory,
			fmt.Sprintf("unknown temple %q, known temples: %s", req.TempleName, strings.Join(bundle.TempleEncoder.Vocabulary(), ", ")), nil)
	}
	moonCode, ok := bundle.MoonEncoder.Transform(req.MoonPhase)
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeUnknownCategory,
			fmt.Sprintf("unknown moon phase %q, known phases: %s", req.MoonPhase, strings.Join(bundle.MoonEncoder.Vocabulary(), ", ")), nil)
	}
	date, err := time.Parse(DateLayout, req.DateStr)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("date_str must match %s", DateLayout), err)
	}
	if err := validateFlag("rain_flag", req.RainFlag); err != nil {
		return nil, err
	}
	if err := validateFlag("is_weekend", req.IsWeekend); err != nil {
		return nil, err
	}

	isVacation := 0.0
	if VacationMonths[date.Month()] {
		isVacation = 1.0
	}
	isShravan := 0.0
	if date.Month() == ShravanMonth {
		isShravan = 1.0
	}

	return FeatureVector{
		float64(templeCode),
		float64(date.Month()),
		float64(date.Day()),
		float64(mondayIndexedWeekday(date.Weekday())),
		float64(date.YearDay()),
		float64(req.IsWeekend),
		isVacation,
		isShravan,
		float64(moonCode),
		float64(req.Temperature),
		float64(req.RainFlag),
	}, nil
}

// mondayIndexedWeekday converts Go's Sunday=0 convention to the Monday=0
// convention the model was trained with.
func mondayIndexedWeekday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func validateFlag(name string, v int) error {
	if v != 0 && v != 1 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("%s must be 0 or 1", name), nil)
	}
	return nil
}

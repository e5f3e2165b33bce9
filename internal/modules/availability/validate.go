package availability

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/begoneskadedjur/kundportal-sub014/internal/config"
)

const (
	tagDurationRange   = "duration_range"
	tagSearchDaysRange = "search_days_range"
)

func newValidator(cfg config.SchedulingConfig) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		q := sl.Current().Interface().(JobQuery)
		if q.DurationMinutes < cfg.MinDuration || q.DurationMinutes > cfg.MaxDuration {
			sl.ReportError(q.DurationMinutes, "duration_minutes", "DurationMinutes", tagDurationRange, "")
		}
		if q.SearchDays < 0 || q.SearchDays > cfg.MaxSearchDays {
			sl.ReportError(q.SearchDays, "search_days", "SearchDays", tagSearchDaysRange, "")
		}
	}, JobQuery{})
	return v
}

// normalizeJob trims free-text fields so blank input fails "required".
func normalizeJob(q JobQuery) JobQuery {
	q.DestinationAddress = strings.TrimSpace(q.DestinationAddress)
	q.RequiredSkill = strings.TrimSpace(q.RequiredSkill)
	return q
}

// validationError turns validator output into an ErrInvalidRequest.
func validationError(err error, cfg config.SchedulingConfig) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe, cfg))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError, cfg config.SchedulingConfig) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case tagDurationRange:
		return fmt.Sprintf("%s must be between %d and %d", fe.Field(), cfg.MinDuration, cfg.MaxDuration)
	case tagSearchDaysRange:
		return fmt.Sprintf("%s must be between 1 and %d", fe.Field(), cfg.MaxSearchDays)
	default:
		return fe.Field() + " is invalid"
	}
}

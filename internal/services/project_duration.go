package services

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/baharimarine/compro/internal/utils"
	"github.com/baharimarine/compro/pkg/response"
)

var (
	ErrInvalidDuration  = response.NewBadRequest("add_duration must be a whole number of days, zero or more")
	ErrInvalidDateRange = response.NewBadRequest("end_date must not be before start_date")
)

// OptionalInt is a JSON number that remembers whether the key was sent at
// all. null, "" and numeric strings are accepted; anything else is kept as
// invalid so validation can reject it with a proper message.
type OptionalInt struct {
	Set     bool
	Null    bool
	Value   float64
	Invalid bool
}

func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	*o = OptionalInt{Set: true}

	raw := bytes.TrimSpace(b)
	if bytes.Equal(raw, []byte("null")) {
		o.Null = true
		return nil
	}

	text := string(raw)
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			o.Invalid = true
			return nil
		}
		text = strings.TrimSpace(s)
		if text == "" {
			o.Null = true
			return nil
		}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		o.Invalid = true
		return nil
	}
	o.Value = v
	return nil
}

// Days returns the validated whole number of days. Null and empty mean 0.
func (o OptionalInt) Days() (int, error) {
	if o.Null {
		return 0, nil
	}
	v := o.Value
	if o.Invalid || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, ErrInvalidDuration
	}
	return int(v), nil
}

// IntValue builds a set OptionalInt holding n.
func IntValue(n int) OptionalInt {
	return OptionalInt{Set: true, Value: float64(n)}
}

// DurationState is what is stored for the project before the update.
type DurationState struct {
	EndDate     *time.Time
	AddDuration *int
}

// DurationInput carries the dates and extension from an update payload.
// A nil or blank EndDate means "keep the stored end date".
type DurationInput struct {
	StartDate   string
	EndDate     *string
	AddDuration OptionalInt
}

type DurationResult struct {
	StartDate   time.Time
	EndDate     time.Time
	AddDuration int
}

// RecalculateDuration moves the end date by the change in granted extra days.
// add_duration is the running total of extension days, so only the
// difference against the stored total shifts the end date.
func RecalculateDuration(existing DurationState, in DurationInput) (DurationResult, error) {
	prevTotal := 0
	if existing.AddDuration != nil {
		prevTotal = *existing.AddDuration
	}

	start, ok := utils.ParseDateOnly(in.StartDate)
	if !ok {
		return DurationResult{}, response.NewBadRequest("start_date must be a valid YYYY-MM-DD date")
	}

	var end *time.Time
	if in.EndDate != nil && strings.TrimSpace(*in.EndDate) != "" {
		parsed, ok := utils.ParseDateOnly(*in.EndDate)
		if !ok {
			return DurationResult{}, response.NewBadRequest("end_date must be a valid YYYY-MM-DD date")
		}
		end = &parsed
	} else if existing.EndDate != nil {
		stored := utils.TruncateDate(*existing.EndDate)
		end = &stored
	}

	anchor := start
	if end != nil {
		anchor = *end
	}

	finalEnd := anchor
	finalAdd := prevTotal
	if in.AddDuration.Set {
		newTotal, err := in.AddDuration.Days()
		if err != nil {
			return DurationResult{}, err
		}
		finalEnd = utils.AddDays(anchor, newTotal-prevTotal)
		finalAdd = newTotal
	}

	if finalEnd.Before(start) {
		return DurationResult{}, ErrInvalidDateRange
	}

	return DurationResult{StartDate: start, EndDate: finalEnd, AddDuration: finalAdd}, nil
}

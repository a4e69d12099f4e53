package converters

import (
	"strings"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/pelletier/go-toml/v2"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"20060102",
}

// ToTime accepts time.Time, TOML local date/time values and strings in one of the
// supported layouts. Values without a zone are taken as UTC.
func ToTime(src any) (time.Time, error) {
	const op errors.Op = "converters.ToTime"
	switch v := src.(type) {
	case time.Time:
		return v, nil
	case toml.LocalDateTime:
		return v.AsTime(time.UTC), nil
	case toml.LocalDate:
		return v.AsTime(time.UTC), nil
	}
	srcVal, err := CheckString(src)
	if err != nil {
		return time.Time{}, errors.New(op).Err(err)
	}
	srcVal = strings.TrimSpace(srcVal)
	for _, layout := range timeLayouts {
		if t, perr := time.Parse(layout, srcVal); perr == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(op).Msg(ErrMsgBadTimeFormat)
}

// ToDuration parses Go duration strings ("90s", "1h30m"). Bare numbers are rejected
// because their unit would be a guess.
func ToDuration(src any) (time.Duration, error) {
	const op errors.Op = "converters.ToDuration"
	if d, ok := src.(time.Duration); ok {
		return d, nil
	}
	srcVal, err := CheckString(src)
	if err != nil {
		return 0, errors.New(op).Err(err)
	}
	d, err := time.ParseDuration(strings.TrimSpace(srcVal))
	if err != nil {
		return 0, errors.New(op).Err(err).Msg(ErrMsgBadDuration)
	}
	return d, nil
}

package converters

import (
	"reflect"

	"github.com/Station-Manager/errors"
)

// CheckString returns src as a string when its kind is string (named string types
// such as json.Number included). Empty strings are rejected.
func CheckString(src any) (string, error) {
	const op errors.Op = "converters.CheckString"
	rv := reflect.ValueOf(src)
	if !rv.IsValid() || rv.Kind() != reflect.String {
		return "", errors.New(op).Errorf("Given parameter not a string, got %T", src)
	}
	srcVal := rv.String()
	if srcVal == "" {
		return "", errors.New(op).Msg(ErrMsgEmptyString)
	}
	return srcVal, nil
}

// CheckFloat64 returns src as a float64 when it is any float kind.
func CheckFloat64(src any) (float64, error) {
	const op errors.Op = "converters.CheckFloat64"
	rv := reflect.ValueOf(src)
	if !rv.IsValid() || (rv.Kind() != reflect.Float32 && rv.Kind() != reflect.Float64) {
		return 0, errors.New(op).Errorf("Given parameter not a float, got %T", src)
	}
	return rv.Float(), nil
}

// CheckInt64 returns src as an int64 when it is any signed or unsigned integer kind that fits.
func CheckInt64(src any) (int64, error) {
	const op errors.Op = "converters.CheckInt64"
	rv := reflect.ValueOf(src)
	if !rv.IsValid() {
		return -1, errors.New(op).Errorf("Given parameter not an integer, got %T", src)
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > maxInt64 {
			return -1, errors.New(op).Msg(ErrMsgOutOfRange)
		}
		return int64(u), nil
	default:
		return -1, errors.New(op).Errorf("Given parameter not an integer, got %T", src)
	}
}

const maxInt64 = 1<<63 - 1

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool { return k == reflect.Float32 || k == reflect.Float64 }

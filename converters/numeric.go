package converters

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/Station-Manager/errors"
)

// ToInt64 converts integers, integral floats and decimal strings to an int64.
// Any other source fails; no truncation is performed.
func ToInt64(src any) (int64, error) {
	const op errors.Op = "converters.ToInt64"
	rv := reflect.ValueOf(src)
	switch {
	case !rv.IsValid():
		return 0, errors.New(op).Errorf("Cannot convert %T to int64", src)
	case isInteger(rv.Kind()):
		n, err := CheckInt64(src)
		if err != nil {
			return 0, errors.New(op).Err(err)
		}
		return n, nil
	case isFloat(rv.Kind()):
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, errors.New(op).Msg(ErrMsgNotIntegral)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, errors.New(op).Msg(ErrMsgOutOfRange)
		}
		return int64(f), nil
	case rv.Kind() == reflect.String:
		s, err := CheckString(src)
		if err != nil {
			return 0, errors.New(op).Err(err)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, errors.New(op).Err(err)
		}
		return n, nil
	default:
		return 0, errors.New(op).Errorf("Cannot convert %T to int64", src)
	}
}

// ToUint64 converts non-negative integers, integral floats and decimal strings to a uint64.
func ToUint64(src any) (uint64, error) {
	const op errors.Op = "converters.ToUint64"
	rv := reflect.ValueOf(src)
	if rv.IsValid() {
		switch rv.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return rv.Uint(), nil
		case reflect.String:
			s, err := CheckString(src)
			if err != nil {
				return 0, errors.New(op).Err(err)
			}
			n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return 0, errors.New(op).Err(err)
			}
			return n, nil
		}
	}
	n, err := ToInt64(src)
	if err != nil {
		return 0, errors.New(op).Err(err)
	}
	if n < 0 {
		return 0, errors.New(op).Msg(ErrMsgOutOfRange)
	}
	return uint64(n), nil
}

// ToFloat64 converts floats, integers and numeric strings to a float64.
func ToFloat64(src any) (float64, error) {
	const op errors.Op = "converters.ToFloat64"
	rv := reflect.ValueOf(src)
	switch {
	case !rv.IsValid():
		return 0, errors.New(op).Errorf("Cannot convert %T to float64", src)
	case isFloat(rv.Kind()):
		return rv.Float(), nil
	case rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Int64:
		return float64(rv.Int()), nil
	case rv.Kind() >= reflect.Uint && rv.Kind() <= reflect.Uint64:
		return float64(rv.Uint()), nil
	case rv.Kind() == reflect.String:
		s, err := CheckString(src)
		if err != nil {
			return 0, errors.New(op).Err(err)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, errors.New(op).Err(err)
		}
		return f, nil
	default:
		return 0, errors.New(op).Errorf("Cannot convert %T to float64", src)
	}
}

// ParseBool matches "true"/"1" and "false"/"0" case-insensitively. Nothing else is accepted.
func ParseBool(s string) (bool, error) {
	const op errors.Op = "converters.ParseBool"
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, errors.New(op).Msg(ErrMsgBadBool)
	}
}

// ToBool converts bools, strings accepted by ParseBool and the integers 0 and 1.
func ToBool(src any) (bool, error) {
	const op errors.Op = "converters.ToBool"
	rv := reflect.ValueOf(src)
	switch {
	case !rv.IsValid():
		return false, errors.New(op).Errorf("Cannot convert %T to bool", src)
	case rv.Kind() == reflect.Bool:
		return rv.Bool(), nil
	case rv.Kind() == reflect.String:
		b, err := ParseBool(rv.String())
		if err != nil {
			return false, errors.New(op).Err(err)
		}
		return b, nil
	case isInteger(rv.Kind()):
		n, err := CheckInt64(src)
		if err != nil {
			return false, errors.New(op).Err(err)
		}
		switch n {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return false, errors.New(op).Msg(ErrMsgBadBool)
	default:
		return false, errors.New(op).Errorf("Cannot convert %T to bool", src)
	}
}

// ToString renders strings, numbers and bools as text.
func ToString(src any) (string, error) {
	const op errors.Op = "converters.ToString"
	rv := reflect.ValueOf(src)
	switch {
	case !rv.IsValid():
		return "", errors.New(op).Errorf("Cannot convert %T to string", src)
	case rv.Kind() == reflect.String:
		return rv.String(), nil
	case rv.Kind() == reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case rv.Kind() >= reflect.Uint && rv.Kind() <= reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case isFloat(rv.Kind()):
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	default:
		return "", errors.New(op).Errorf("Cannot convert %T to string", src)
	}
}

package converters

const (
	ErrMsgEmptyString   = "Value cannot be an empty string."
	ErrMsgNotIntegral   = "Value has a fractional part and cannot become an integer."
	ErrMsgOutOfRange    = "Value is out of range for the target type."
	ErrMsgBadBool       = "Bad bool value, expected true, false, 1 or 0"
	ErrMsgBadTimeFormat = "Bad time format, expected RFC3339, YYYY-MM-DD[ HH:MM:SS] or YYYYMMDD"
	ErrMsgBadDuration   = "Bad duration format, expected a Go duration such as 1h30m"
)

package paychan

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/iov-one/paychan/errors"
)

// Timestamp represents a point in time as nanoseconds since the Unix epoch.
// Block time is declared with nanosecond precision and all time based checks
// (force close timeout) are computed on this representation.
type Timestamp uint64

// AsTimestamp converts given Time structure into its timestamp
// representation. Times before the epoch are clamped to zero.
func AsTimestamp(t time.Time) Timestamp {
	ns := t.UnixNano()
	if ns < 0 {
		return 0
	}
	return Timestamp(ns)
}

// Time returns a time.Time structure that represents the same moment in time.
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t)).UTC()
}

// IsZero returns true if this time represents a zero value.
func (t Timestamp) IsZero() bool {
	return t == 0
}

// Add modifies this timestamp by given duration. This is compatible with
// time.Time.Add method. The result never goes below zero.
func (t Timestamp) Add(d time.Duration) Timestamp {
	if d < 0 && Timestamp(-d) > t {
		return 0
	}
	return t + Timestamp(d)
}

// Since returns the time elapsed between given timestamp and this one. If
// given timestamp is later, zero is returned.
func (t Timestamp) Since(earlier Timestamp) time.Duration {
	if earlier >= t {
		return 0
	}
	return time.Duration(t - earlier)
}

// MarshalJSON serializes the timestamp as a decimal string, because
// nanosecond values exceed the precision of a JSON number in many clients.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(t), 10))
}

// UnmarshalJSON supports unmarshaling from a number, a decimal string and a
// RFC3339 formatted time. Usually a number is used as a representation of
// this time in JSON but it is convinient to use a time format in
// configurations (ie genesis file).
func (t *Timestamp) UnmarshalJSON(raw []byte) error {
	var ns uint64
	if err := json.Unmarshal(raw, &ns); err == nil {
		*t = Timestamp(ns)
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "invalid time format")
	}
	if ns, err := strconv.ParseUint(s, 10, 64); err == nil {
		*t = Timestamp(ns)
		return nil
	}
	stdtime, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "invalid time format")
	}
	if stdtime.UnixNano() < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = AsTimestamp(stdtime)
	return nil
}

// String returns the usual string representation of this time as the time.Time
// structure would.
func (t Timestamp) String() string {
	return t.Time().String()
}

package paychan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/paychan/errors"
)

func TestTimestampUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantTime Timestamp
		wantErr  *errors.Error
	}{
		"zero time as number": {
			raw:      "0",
			wantTime: 0,
		},
		"zero time as string": {
			raw:      `"1970-01-01T01:00:00+01:00"`,
			wantTime: 0,
		},
		"a time as string": {
			raw:      `"2019-04-04T11:35:40.89181085+02:00"`,
			wantTime: 1554370540891810850,
		},
		"a time as number": {
			raw:      "1554370540891810850",
			wantTime: 1554370540891810850,
		},
		"a time as decimal string": {
			raw:      `"1554370540891810850"`,
			wantTime: 1554370540891810850,
		},
		"negative number": {
			raw:     "-1",
			wantErr: errors.ErrInput,
		},
		"negative time as string": {
			raw:     `"1950-01-01T01:00:00+01:00"`,
			wantErr: errors.ErrInput,
		},
		"invalid format": {
			raw:     `true`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got Timestamp
			err := json.Unmarshal([]byte(tc.raw), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && got != tc.wantTime {
				t.Fatalf("want %d, got %d", tc.wantTime, got)
			}
		})
	}
}

func TestTimestampSince(t *testing.T) {
	start := AsTimestamp(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	later := start.Add(7 * 24 * time.Hour)

	if got := later.Since(start); got != 7*24*time.Hour {
		t.Fatalf("unexpected duration: %s", got)
	}
	if got := start.Since(later); got != 0 {
		t.Fatalf("earlier time must not produce a negative duration: %s", got)
	}
	if got := start.Add(-time.Duration(start) - time.Hour); got != 0 {
		t.Fatalf("timestamp must not go below zero: %d", got)
	}
	if !later.Time().Equal(time.Date(2020, 1, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %s", later.Time())
	}
}

package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg        string
		hour       int
		minute     int
		shouldFail bool
	}{
		{arg: "09:00", hour: 9, minute: 0},
		{arg: "23:59", hour: 23, minute: 59},
		{arg: "0:5", hour: 0, minute: 5},
		{arg: "24:00", shouldFail: true},
		{arg: "12:60", shouldFail: true},
		{arg: "12", shouldFail: true},
		{arg: "ab:cd", shouldFail: true},
		{arg: "", shouldFail: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()

			hour, minute, err := parseClockTime(tt.arg)
			if tt.shouldFail {
				require.ErrorIs(t, err, errInvalidTime)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.hour, hour)
			require.Equal(t, tt.minute, minute)
		})
	}
}

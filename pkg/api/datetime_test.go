package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		want    time.Time
		name    string
		in      string
		wantErr bool
	}{
		{name: "valid", in: "2030-01-01 00:00:00", want: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "with time", in: "2025-06-30 23:59:58", want: time.Date(2025, 6, 30, 23, 59, 58, 0, time.UTC)},
		{name: "rfc3339 rejected", in: "2030-01-01T00:00:00Z", wantErr: true},
		{name: "date only", in: "2030-01-01", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "bad month", in: "2030-13-01 00:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestFormatDateTime(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	in := time.Date(2030, 1, 1, 3, 0, 0, 500, msk)

	assert.Equal(t, "2030-01-01 00:00:00", FormatDateTime(in))

	parsed, err := ParseDateTime(FormatDateTime(in))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(in.Truncate(time.Second)))
}

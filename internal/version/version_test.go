package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	assert.Equal(t, "dev", Get())
	assert.Equal(t, "unknown", Commit())
	assert.Equal(t, "unknown", BuildDate())
}

func TestSet(t *testing.T) {
	Set("1.2.3", "abc123", "2025-01-01")
	defer Set("dev", "unknown", "unknown")

	assert.Equal(t, "1.2.3", Get())
	assert.Equal(t, "abc123", Commit())
	assert.Equal(t, "2025-01-01", BuildDate())

	// Empty fields are left alone
	Set("", "def456", "")
	assert.Equal(t, "1.2.3", Get())
	assert.Equal(t, "def456", Commit())
}

func TestSatisfiesMin(t *testing.T) {
	tests := []struct {
		name    string
		current string
		min     string
		want    bool
		wantErr bool
	}{
		{"equal versions satisfy", "1.2.3", "1.2.3", true, false},
		{"newer satisfies", "2.0.0", "1.9.9", true, false},
		{"older fails", "1.2.3", "2.0.0", false, false},
		{"patch below fails", "1.2.2", "1.2.3", false, false},
		{"v prefixes are accepted", "v1.5.0", "v1.0.0", true, false},
		{"dev build satisfies anything", "dev", "99.0.0", true, false},
		{"empty current satisfies anything", "", "1.0.0", true, false},
		{"garbage current errors", "not-a-version", "1.0.0", false, true},
		{"garbage minimum errors", "1.0.0", "not-a-version", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SatisfiesMin(tc.current, tc.min)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

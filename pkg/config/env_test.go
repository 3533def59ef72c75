package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("BRIEFLY_TEST_STRING", "  value  ")
	assert.Equal(t, "value", GetEnvString("BRIEFLY_TEST_STRING", "default"))
	assert.Equal(t, "default", GetEnvString("BRIEFLY_TEST_STRING_UNSET", "default"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("BRIEFLY_TEST_INT", "42")
	t.Setenv("BRIEFLY_TEST_INT_BAD", "forty-two")

	assert.Equal(t, 42, GetEnvInt("BRIEFLY_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("BRIEFLY_TEST_INT_BAD", 1))
	assert.Equal(t, 7, GetEnvInt("BRIEFLY_TEST_INT_UNSET", 7))
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("BRIEFLY_TEST_FLOAT", "2.5")
	t.Setenv("BRIEFLY_TEST_FLOAT_BAD", "fast")

	assert.Equal(t, 2.5, GetEnvFloat("BRIEFLY_TEST_FLOAT", 1))
	assert.Equal(t, 1.0, GetEnvFloat("BRIEFLY_TEST_FLOAT_BAD", 1))
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		def      bool
		expected bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"FALSE", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("BRIEFLY_TEST_BOOL", tt.value)
			assert.Equal(t, tt.expected, GetEnvBool("BRIEFLY_TEST_BOOL", tt.def))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("BRIEFLY_TEST_DURATION", "90s")
	t.Setenv("BRIEFLY_TEST_DURATION_BAD", "ninety")

	assert.Equal(t, 90*time.Second, GetEnvDuration("BRIEFLY_TEST_DURATION", time.Minute))
	assert.Equal(t, time.Minute, GetEnvDuration("BRIEFLY_TEST_DURATION_BAD", time.Minute))
}

func TestGetEnvStringList(t *testing.T) {
	def := []string{"bart", "pegasus"}

	t.Setenv("BRIEFLY_TEST_LIST", " a, b ,,c ")
	assert.Equal(t, []string{"a", "b", "c"}, GetEnvStringList("BRIEFLY_TEST_LIST", def))

	t.Setenv("BRIEFLY_TEST_LIST", " , ,")
	assert.Equal(t, def, GetEnvStringList("BRIEFLY_TEST_LIST", def))

	assert.Equal(t, def, GetEnvStringList("BRIEFLY_TEST_LIST_UNSET", def))
}

func TestValidateDurations(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Second))
	assert.Error(t, ValidatePositiveDuration(0))

	assert.NoError(t, ValidateDurationRange(time.Minute, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(time.Millisecond, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(2*time.Hour, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(time.Minute, time.Hour, time.Second))
}

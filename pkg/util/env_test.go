package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("PORTABLESOURCE_TEST_INT", "8")
	require.Equal(t, 8, GetEnvOrDefault("PORTABLESOURCE_TEST_INT", 4, strconv.Atoi))

	t.Setenv("PORTABLESOURCE_TEST_INT", "many")
	require.Equal(t, 4, GetEnvOrDefault("PORTABLESOURCE_TEST_INT", 4, strconv.Atoi))

	require.Equal(t, time.Minute, GetEnvOrDefault("PORTABLESOURCE_TEST_UNSET", time.Minute, time.ParseDuration))
}

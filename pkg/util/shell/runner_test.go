package shell

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJoinQuotesSpaces(t *testing.T) {
	require.Equal(t, `python -m pip install "C:\Program Files\x.whl"`,
		Join("python", "-m", "pip", "install", `C:\Program Files\x.whl`))
}

func TestExecRunnerOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	out, err := NewExecRunner().Output(context.Background(), t.TempDir(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(out))
}

func TestExecRunnerExitError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	err := NewExecRunner().Run(context.Background(), "", "sh", "-c", "echo nope >&2; exit 3")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.ExitCode)
	require.Equal(t, "nope", exitErr.Stderr)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := NewExecRunner().Output(context.Background(), "", "definitely-not-a-real-binary-x9")
	require.Error(t, err)
	var exitErr *ExitError
	require.False(t, errors.As(err, &exitErr))
}

func TestCheckReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	require.NoError(t, CheckReachable(context.Background(), server.Client(), server.URL, time.Second))
	require.Error(t, CheckReachable(context.Background(), nil, "http://127.0.0.1:1", 200*time.Millisecond))
}

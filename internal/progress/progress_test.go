package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	r.Start(Load, 3)
	r.Step(Load, 1, 3)
	r.Finish(Load)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "phase=load")
	require.Contains(t, lines[0], "total=3")
	require.Contains(t, lines[1], "done=1")
	require.Contains(t, lines[2], "elapsed=")
}

func TestOrNop(t *testing.T) {
	require.Equal(t, Nop{}, OrNop(nil))
	r := NewLog(slog.Default())
	require.Same(t, r, OrNop(r))
}

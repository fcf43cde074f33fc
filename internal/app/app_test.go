package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vnykmshr/great-appender/internal/testutil"
	gferrors "github.com/vnykmshr/great-appender/pkg/common/errors"
	"github.com/vnykmshr/great-appender/pkg/metrics"
	"github.com/vnykmshr/great-appender/pkg/shutdown"
	"github.com/vnykmshr/great-appender/pkg/throughput"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestRunAppendsUntilStopped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()

	flag := shutdown.New()
	time.AfterFunc(50*time.Millisecond, func() { flag.Set() })

	var out bytes.Buffer
	res, err := Run(context.Background(), Options{
		Dst:      f,
		Out:      &out,
		Message:  "x",
		PerWrite: 10,
		Stop:     flag,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// existing content is preserved; only whole buffers are appended
	require.True(t, strings.HasPrefix(string(content), "existing\n"))
	appended := content[len("existing\n"):]
	assert.Equal(t, res.Writer.BytesWritten, uint64(len(appended)))
	assert.Zero(t, len(appended)%10)
	assert.Equal(t, strings.Repeat("x\n", len(appended)/2), string(appended))
	assert.Positive(t, res.Writer.WriteCount)

	// exactly one final line, reporting no more than what was written
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	assert.True(t, strings.HasPrefix(out.String(), throughput.ClearLine+"Written "))
	assert.LessOrEqual(t, res.Final.Total, res.Writer.BytesWritten)
}

func TestRunStopBeforeStart(t *testing.T) {
	flag := shutdown.New()
	flag.Set()

	w := testutil.NewMockWriter()
	var out bytes.Buffer
	res, err := Run(context.Background(), Options{
		Dst:      w,
		Out:      &out,
		Message:  "hello",
		PerWrite: 0,
		Verbose:  true,
		Stop:     flag,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, w.WriteCount(), 1)
	assert.Equal(t, throughput.ClearLine+"Written 0 B\t0 B/s\t0 B/s\n", out.String())
	assert.Equal(t, uint64(0), res.Final.Total)
}

func TestRunWriteFailureIsFatal(t *testing.T) {
	w := testutil.NewMockWriter()
	w.SetErrorOnNth(5)

	var out bytes.Buffer
	res, err := Run(context.Background(), Options{
		Dst:      w,
		Out:      &out,
		Message:  "m",
		PerWrite: 2,
		Stop:     shutdown.New(),
		Logger:   quietLogger(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, gferrors.ErrWriteFailed)
	assert.True(t, gferrors.IsFatal(err))

	assert.Equal(t, 5, w.WriteCount())
	assert.Equal(t, uint64(8), res.Writer.BytesWritten)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestRunParentContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	_, err := Run(ctx, Options{
		Dst:      testutil.NewMockWriter(),
		Out:      &out,
		Message:  "m",
		PerWrite: 64,
		Stop:     shutdown.New(),
		Logger:   quietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestRunVerboseWithMetrics(t *testing.T) {
	registry := metrics.NewRegistry(prometheus.NewRegistry())
	clock := testutil.NewMockClock(time.Time{})

	w := testutil.NewMockWriter()
	flag := shutdown.New()
	w.OnWrite(func(n int) {
		clock.Advance(time.Second)
		if n == 3 {
			flag.Set()
		}
	})

	var out bytes.Buffer
	res, err := Run(context.Background(), Options{
		Dst:      w,
		Out:      &out,
		Message:  "abc",
		PerWrite: 1024,
		Verbose:  true,
		Stop:     flag,
		Metrics:  registry,
		Clock:    clock,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, w.WriteCount())
	assert.Equal(t, uint64(3*1024), res.Writer.BytesWritten)
	assert.Equal(t, 3.0, promtest.ToFloat64(registry.AppendWrites.WithLabelValues("appender")))
	assert.Equal(t, 3072.0, promtest.ToFloat64(registry.AppendBytesWritten.WithLabelValues("appender")))
	assert.Equal(t, 3.0, promtest.ToFloat64(registry.QueueSent.WithLabelValues("counter")))
	assert.GreaterOrEqual(t, strings.Count(out.String(), throughput.ClearLine), 1)
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	splmeter "github.com/tphakala/go-spl-meter"
	"github.com/tphakala/go-spl-meter/internal/config"
	"github.com/tphakala/go-spl-meter/internal/source"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SPL_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func writeSquareWAV(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "square.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	data := make([]int, n)
	for i := range data {
		if i%2 == 0 {
			data[i] = 32767
		} else {
			data[i] = -32768
		}
	}

	enc := wav.NewEncoder(f, 16000, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	return path
}

func TestRun_WAV(t *testing.T) {
	isolateEnv(t)
	path := writeSquareWAV(t, 64)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	args := []string{"-source", "wav", "-loop", "-block", "16", "-delay", "5ms", "-log-level", "error", path}
	require.NoError(t, run(ctx, args, nil, &stdout, &stderr))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, bannerLine, lines[0])
	assert.Equal(t, "RMS: 0.999985, Level: 68.00 dB", lines[1])
}

func TestRun_StreamFromStdin(t *testing.T) {
	isolateEnv(t)

	var pcm bytes.Buffer
	require.NoError(t, binary.Write(&pcm, binary.LittleEndian, []int16{16384, -16384, 16384, -16384}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	args := []string{"-bits", "16", "-invalid-bits", "0", "-block", "4", "-delay", "5ms", "-log-level", "error", "-"}
	require.NoError(t, run(ctx, args, &pcm, &stdout, &stderr))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "RMS: 0.500000, Level: 61.98 dB", lines[1])
	// The drained stream keeps failing without stopping the loop.
	assert.True(t, strings.HasPrefix(lines[2], "Acquisition error: "), lines[2])
}

func TestRun_DrainedStreamRetriesArePaced(t *testing.T) {
	isolateEnv(t)

	var pcm bytes.Buffer
	require.NoError(t, binary.Write(&pcm, binary.LittleEndian, []int16{16384, -16384, 16384, -16384}))

	ctx, cancel := context.WithTimeout(context.Background(), retryPause/2)
	defer cancel()

	var stdout, stderr bytes.Buffer
	args := []string{"-bits", "16", "-invalid-bits", "0", "-block", "4", "-delay", "0", "-log-level", "error", "-"}
	require.NoError(t, run(ctx, args, &pcm, &stdout, &stderr))

	// One reading, one end-of-stream error, then the retry is still waiting.
	assert.Equal(t, 1, strings.Count(stdout.String(), "Acquisition error: "), stdout.String())
}

// flakySource fails on the calls listed in fail and succeeds otherwise.
type flakySource struct {
	calls int
	fail  map[int]bool
	at    []time.Time
}

func (f *flakySource) Acquire(_ context.Context, block []int32) (int, error) {
	f.calls++
	f.at = append(f.at, time.Now())
	if f.fail[f.calls] {
		return 0, io.EOF
	}
	return len(block), nil
}

func (f *flakySource) Close() error { return nil }

func TestPacedSource_WaitsOnlyAfterFailure(t *testing.T) {
	inner := &flakySource{fail: map[int]bool{2: true}}
	src := &pacedSource{sampleSource: inner, pause: 20 * time.Millisecond}
	block := make([]int32, 4)

	for i := range 3 {
		_, err := src.Acquire(context.Background(), block)
		if i == 1 {
			require.ErrorIs(t, err, io.EOF)
		} else {
			require.NoError(t, err)
		}
	}

	require.Len(t, inner.at, 3)
	assert.Less(t, inner.at[1].Sub(inner.at[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, inner.at[2].Sub(inner.at[1]), 20*time.Millisecond)
}

func TestPacedSource_CancelledDuringPause(t *testing.T) {
	inner := &flakySource{fail: map[int]bool{1: true}}
	src := &pacedSource{sampleSource: inner, pause: time.Hour}
	block := make([]int32, 4)

	_, err := src.Acquire(context.Background(), block)
	require.ErrorIs(t, err, io.EOF)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Acquire(ctx, block)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}

func TestRun_InvalidConfig(t *testing.T) {
	isolateEnv(t)

	err := run(context.Background(), []string{"-block", "0"}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, splmeter.ErrInvalidConfig)
}

func TestRun_Help(t *testing.T) {
	isolateEnv(t)

	var stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-h"}, nil, &bytes.Buffer{}, &stderr))
	assert.Contains(t, stderr.String(), "-sensitivity")
}

func TestOpenSource_MissingWAV(t *testing.T) {
	settings := config.Defaults()
	settings.Source = config.SourceWAV
	settings.Input = filepath.Join(t.TempDir(), "missing.wav")

	_, err := openSource(settings, nil)
	require.Error(t, err)
}

func TestOpenSource_StreamFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.pcm")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x40, 0x00, 0xC0}, 0o600))

	settings := config.Defaults()
	settings.Meter.BitDepth = 16
	settings.Meter.InvalidLowBits = 0
	settings.Input = path

	src, err := openSource(settings, nil)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	block := make([]int32, 2)
	n, err := src.Acquire(context.Background(), block)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int32{16384, -16384}, block)
}

func TestOpenSource_PortAudioUnavailable(t *testing.T) {
	settings := config.Defaults()
	settings.Source = config.SourcePortAudio

	src, err := openSource(settings, nil)
	if err == nil {
		_ = src.Close()
		t.Skip("portaudio support is compiled in")
	}
	require.ErrorIs(t, err, source.ErrPortAudioUnavailable)
}

package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/inkpress/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBoom = errors.New("boom")

type stopRecorder struct {
	mu    sync.Mutex
	order []string
}

func (r *stopRecorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

type fakeService struct {
	name     string
	startErr error
	stopErr  error
	block    bool
	stopped  atomic.Bool
	recorder *stopRecorder
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *fakeService) Stop(context.Context) error {
	s.stopped.Store(true)
	if s.recorder != nil {
		s.recorder.record(s.name)
	}
	return s.stopErr
}

func TestRunnerStopsAllServicesWhenOneFails(t *testing.T) {
	failing := &fakeService{name: "failing", startErr: errBoom}
	blocking := &fakeService{name: "blocking", block: true}

	err := NewRunner(failing, blocking).Run(context.Background(), time.Second, zap.NewNop().Sugar())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "failing")
	assert.True(t, failing.stopped.Load())
	assert.True(t, blocking.stopped.Load())
}

func TestRunnerStopsInReverseOrder(t *testing.T) {
	recorder := &stopRecorder{}
	first := &fakeService{name: "http", block: true, recorder: recorder}
	second := &fakeService{name: "maintenance", block: true, recorder: recorder}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, NewRunner(first, second).Run(ctx, time.Second, nil))
	assert.Equal(t, []string{"maintenance", "http"}, recorder.order)
}

func TestRunnerJoinsStopErrors(t *testing.T) {
	stopFail := errors.New("shutdown timeout")
	svc := &fakeService{name: "http", block: true, stopErr: stopFail}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRunner(svc).Run(ctx, time.Second, nil)
	assert.ErrorIs(t, err, stopFail)
}

func TestRunnerCleanExitIsNotAnError(t *testing.T) {
	done := &fakeService{name: "oneshot"}
	blocking := &fakeService{name: "blocking", block: true}

	require.NoError(t, NewRunner(done, blocking).Run(context.Background(), time.Second, nil))
	assert.True(t, blocking.stopped.Load())
}

func TestRunnerRejectsEmptyAndNil(t *testing.T) {
	assert.Error(t, NewRunner().Run(context.Background(), time.Second, nil))
	assert.Error(t, NewRunner(nil).Run(context.Background(), time.Second, nil))
}

func TestParseMode(t *testing.T) {
	cases := map[string]string{
		"":       ModeAll,
		"ALL":    ModeAll,
		" api ":  ModeAPI,
		"worker": ModeWorker,
	}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("cron")
	assert.Error(t, err)
}

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts, err := normalizeOptions(Options{})
	require.NoError(t, err)
	assert.Equal(t, ModeAll, opts.Mode)
	assert.Equal(t, defaultShutdownTimeout, opts.ShutdownTimeout)
	assert.NotNil(t, opts.Logger)
	assert.True(t, opts.runsAPI())
	assert.True(t, opts.runsWorker())

	opts, err = normalizeOptions(Options{Mode: "api"})
	require.NoError(t, err)
	assert.False(t, opts.runsWorker())

	_, err = normalizeOptions(Options{Mode: "bogus"})
	assert.Error(t, err)
}

func TestMaintenanceServiceStopWaitsForStart(t *testing.T) {
	svc := NewMaintenanceService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, svc.Start(ctx))
	require.NoError(t, svc.Stop(context.Background()))
}

func TestListenAddr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", listenAddr(config.ServerConfig{Host: "0.0.0.0", Port: "8080"}))
	assert.Equal(t, "[::1]:9000", listenAddr(config.ServerConfig{Host: "::1", Port: "9000"}))
}

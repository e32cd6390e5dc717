package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/config"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/health"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/services"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/slots"
	"github.com/eurisssow03/wc-helper-sub001/internal/common"
	"github.com/eurisssow03/wc-helper-sub001/internal/cryptox"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

type testEnv struct {
	app    *App
	store  *slots.MemoryStore
	up     *atomic.Bool
	logBuf *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	var buf bytes.Buffer
	log := logging.NewTextLogger(&buf, "debug")

	store := slots.NewMemoryStore()
	creds := services.NewCredentialStore(store, log)
	sessions := services.NewSessionManager(store, log)
	require.NoError(t, services.NewBootstrapper(store, cryptox.SHA256Hasher{}, log).EnsureInitialized(ctx))

	up := &atomic.Bool{}
	monitor := health.NewMonitor(health.ProberFunc(func(context.Context) error {
		if up.Load() {
			return nil
		}
		return common.ErrRemoteUnavailable
	}), log)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ProbeTimeout = time.Second
	cfg.OnlineCheckInterval = 5 * time.Millisecond

	app := &App{
		config:      cfg,
		authService: services.NewAuthService(monitor, nil, creds, sessions, cryptox.SHA256Hasher{}, log, cfg.ProbeTimeout),
		creds:       creds,
		monitor:     monitor,
		log:         log,
		Mode:        ModeOffline,
	}
	return &testEnv{app: app, store: store, up: up, logBuf: &buf}
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestIsLoggedIn(t *testing.T) {
	app := &App{}
	assert.False(t, app.isLoggedIn())

	app.setSession(&models.SessionRecord{SubjectUsername: "admin"})
	assert.True(t, app.isLoggedIn())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	var buf bytes.Buffer
	app := &App{log: logging.NewTextLogger(&buf, "info")}

	app.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, app.Mode)
	assert.Contains(t, buf.String(), "Switched to online mode")

	buf.Reset()
	app.setMode(ModeOnline)
	assert.Empty(t, buf.String())

	app.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, app.Mode)
	assert.Contains(t, buf.String(), "Switched to offline mode")
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, ModeOnline, modeFor(models.NewConnectionStatus(models.StateConnected, time.Now(), "")))
	assert.Equal(t, ModeOffline, modeFor(models.NewConnectionStatus(models.StateDisconnected, time.Now(), "")))
	assert.Equal(t, ModeOffline, modeFor(models.ConnectionStatus{State: models.StateUnknown}))
}

func TestGetStatus(t *testing.T) {
	a := &App{}
	assert.Equal(t, "", a.getStatus())

	a.setSession(&models.SessionRecord{SubjectUsername: "alice"})
	assert.Equal(t, "(alice )", a.getStatus())

	a.Mode = ModeOffline
	assert.Equal(t, "(alice offline)", a.getStatus())
}

func TestStartOnlineStatusWatcher_FollowsBackend(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env.up.Store(true)
	go env.app.StartOnlineStatusWatcher(ctx)

	require.Eventually(t, func() bool { return env.app.getStatus() == "(online)" }, time.Second, 5*time.Millisecond)

	env.up.Store(false)
	require.Eventually(t, func() bool { return env.app.getStatus() == "(offline)" }, time.Second, 5*time.Millisecond)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestClose_ReverseOrder(t *testing.T) {
	var order []int
	a := &App{}
	for i := 1; i <= 3; i++ {
		i := i
		a.closers = append(a.closers, closerFunc(func() error { order = append(order, i); return nil }))
	}
	a.close()
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestCloseAll_ClosesEveryResource(t *testing.T) {
	var closed []string
	closers := []io.Closer{
		closerFunc(func() error { closed = append(closed, "store"); return nil }),
		closerFunc(func() error { closed = append(closed, "http"); return errors.New("already closed") }),
		closerFunc(func() error { closed = append(closed, "grpc"); return nil }),
	}
	closeAll(closers)
	assert.Equal(t, []string{"grpc", "http", "store"}, closed)
}

func TestNewApp_GRPCProberFailure(t *testing.T) {
	orig := newGRPCProber
	t.Cleanup(func() { newGRPCProber = orig })
	dialErr := errors.New("bad target")
	newGRPCProber = func(string, string, ...grpc.DialOption) (*health.GRPCProber, error) {
		return nil, dialErr
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreDriver = slots.DriverMemory
	cfg.LogLevel = "error"
	cfg.GRPCHealthAddr = "localhost:50051"

	app, err := NewApp(context.Background(), cfg)
	require.ErrorIs(t, err, dialErr)
	assert.Nil(t, app)
}

func TestNewApp_MemoryStoreBootstraps(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreDriver = slots.DriverMemory
	cfg.LogLevel = "error"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	defer app.close()

	users, err := app.creds.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, services.DefaultAdminUsername, users[0].Username)
	assert.False(t, app.isLoggedIn())
	assert.Nil(t, app.exporter)
}

func TestNewApp_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreDriver = "etcd"
	cfg.LogLevel = "error"

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
}

func TestNewApp_BackupDirSelectsDirExporter(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreDriver = slots.DriverMemory
	cfg.LogLevel = "error"
	cfg.BackupDir = t.TempDir()

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	defer app.close()

	require.NotNil(t, app.exporter)
	path, err := app.exporter.Export(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, cfg.BackupDir))
}

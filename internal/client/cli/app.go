package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/backup"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/client"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/config"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/health"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/services"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/slots"
	"github.com/eurisssow03/wc-helper-sub001/internal/cryptox"
	"github.com/eurisssow03/wc-helper-sub001/internal/logging"
)

var newGRPCProber = health.NewGRPCProber

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Exporter uploads a snapshot of local state and returns its location.
type Exporter interface {
	Export(ctx context.Context) (string, error)
}

type App struct {
	config      *config.Config
	authService services.AuthService
	creds       services.CredentialStore
	monitor     *health.Monitor
	exporter    Exporter
	log         logging.Logger
	reader      *bufio.Reader
	closers     []io.Closer

	mu      sync.Mutex
	session *models.SessionRecord
	Mode    Mode
}

// NewApp opens the local store, bootstraps it, and wires the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)

	backend, err := slots.Open(ctx, c.StoreOptions())
	if err != nil {
		log.Error(ctx, "error opening local store", "driver", c.StoreDriver, "error", err)
		return nil, err
	}
	closers := []io.Closer{backend}

	hasher := cryptox.SHA256Hasher{}
	creds := services.NewCredentialStore(backend, log)
	sessions := services.NewSessionManager(backend, log)

	if err := services.NewBootstrapper(backend, hasher, log).EnsureInitialized(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("bootstrap local store: %w", err)
	}

	apiClient := client.NewHTTPClient(c.ServerURL, client.WithHealthPath(c.HealthPath), client.WithLoginPath(c.LoginPath))
	closers = append(closers, apiClient)

	var prober health.Prober = apiClient
	if c.GRPCHealthAddr != "" {
		gp, err := newGRPCProber(c.GRPCHealthAddr, "")
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("grpc health client: %w", err)
		}
		prober = gp
		closers = append(closers, gp)
	}
	monitor := health.NewMonitor(prober, log, health.WithDefaultTimeout(c.ProbeTimeout))

	as := services.NewAuthService(monitor, apiClient, creds, sessions, hasher, log, c.ProbeTimeout)

	app := &App{
		config:      c,
		authService: as,
		creds:       creds,
		monitor:     monitor,
		log:         log,
		reader:      bufio.NewReader(os.Stdin),
		closers:     closers,
		Mode:        ModeOffline,
	}

	switch {
	case c.S3Bucket != "":
		s3c, err := backup.NewS3Client(ctx, backup.S3Options{
			Endpoint:  c.S3Endpoint,
			Region:    c.S3Region,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		})
		if err != nil {
			log.Warn(ctx, "backup disabled", "error", err)
		} else {
			app.exporter = backup.NewS3Exporter(backend, s3c, c.S3Bucket, log)
		}
	case c.BackupDir != "":
		app.exporter = backup.NewDirExporter(backend, c.BackupDir, log)
	}

	if sess, err := as.CurrentSession(ctx); err != nil {
		log.Warn(ctx, "could not restore session", "error", err)
	} else {
		app.session = sess
	}

	return app, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))
	}
}

func modeFor(st models.ConnectionStatus) Mode {
	if st.Connected() {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) currentSession() *models.SessionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) setSession(s *models.SessionRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = s
}

func (a *App) isLoggedIn() bool {
	return a.currentSession() != nil
}

func (a *App) Run(ctx context.Context) {
	defer a.close()
	a.Root(ctx)
}

func (a *App) close() {
	closeAll(a.closers)
}

// closeAll releases closers in reverse order of acquisition.
func closeAll(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i].Close()
	}
}

// StartOnlineStatusWatcher keeps Mode in sync with the backend's
// reachability until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context) {
	a.monitor.Watch(ctx, a.config.OnlineCheckInterval, func(_, cur models.ConnectionStatus) {
		a.setMode(modeFor(cur))
	})
}

// Package bootstrap wires the background daemon from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/bnema/geobadge/internal/app/background"
	"github.com/bnema/geobadge/internal/domain/build"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/infrastructure/alarm"
	"github.com/bnema/geobadge/internal/infrastructure/config"
	"github.com/bnema/geobadge/internal/infrastructure/control"
	"github.com/bnema/geobadge/internal/infrastructure/filesystem"
	"github.com/bnema/geobadge/internal/infrastructure/geoip"
	"github.com/bnema/geobadge/internal/infrastructure/icon"
	"github.com/bnema/geobadge/internal/infrastructure/lock"
	"github.com/bnema/geobadge/internal/infrastructure/notify"
	"github.com/bnema/geobadge/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/geobadge/internal/infrastructure/surface"
	"github.com/bnema/geobadge/internal/logging"
)

// DaemonInput holds what StartDaemon needs besides the environment.
type DaemonInput struct {
	Config    *config.Manager
	BuildInfo build.Info
	Assets    fs.FS

	// Empty paths resolve to the XDG locations.
	LockPath     string
	SettingsPath string
	// Sender overrides the shoutrrr sender, for tests.
	Sender notify.Sender
}

// Daemon is a wired, not yet running, background daemon.
type Daemon struct {
	Service   *background.Service
	Server    *control.Server
	Hub       *control.Hub
	Settings  *config.SettingsStore
	Trigger   entity.Trigger
	SessionID string

	cfg       *config.Manager
	scheduler *alarm.Scheduler
	trace     *logging.StartupTrace
	closers   []func() error
}

// StartDaemon takes the instance lock, opens storage and builds the service.
// The returned context carries the daemon logger.
func StartDaemon(ctx context.Context, in DaemonInput) (*Daemon, context.Context, error) {
	if in.Config == nil {
		return nil, ctx, errors.New("config manager is nil")
	}
	cfg := in.Config.Get()
	d := &Daemon{cfg: in.Config}

	ok := false
	defer func() {
		if !ok {
			_ = d.Close()
		}
	}()

	lockPath, settingsPath, err := resolvePaths(in)
	if err != nil {
		return nil, ctx, err
	}
	instance, err := lock.Acquire(lockPath)
	if err != nil {
		return nil, ctx, err
	}
	d.addCloser(instance.Release)

	ctx, err = d.setupLogging(ctx, cfg)
	if err != nil {
		return nil, ctx, err
	}
	log := logging.FromContext(ctx)
	d.trace = logging.NewStartupTrace(log)
	d.trace.Mark("lock")

	d.Trigger = entity.TriggerStartup
	if exists, err := filesystem.Exists(settingsPath); err != nil {
		return nil, ctx, fmt.Errorf("stat settings: %w", err)
	} else if !exists {
		d.Trigger = entity.TriggerInstall
	}

	lazy := sqlite.NewLazyDB(cfg.Database.Path)
	d.addCloser(lazy.Close)
	db, err := lazy.DB(ctx)
	if err != nil {
		return nil, ctx, fmt.Errorf("open session store: %w", err)
	}
	if err := sqlite.ResetSession(ctx, db); err != nil {
		return nil, ctx, err
	}
	d.trace.Mark("database")

	loader := icon.NewAssetLoader(in.Assets)
	d.Settings = config.NewSettingsStore(settingsPath)
	d.scheduler, err = alarm.NewScheduler(ctx)
	if err != nil {
		return nil, ctx, err
	}
	d.addCloser(func() error { d.scheduler.Close(); return nil })
	d.addCloser(func() error {
		st := loader.Stats()
		log.Debug().Int("cached", st.Len).Uint64("hits", st.Hits).Uint64("misses", st.Misses).Msg("icon asset cache")
		return nil
	})

	deps := background.Deps{
		SettingsRepo: d.Settings,
		LocationRepo: sqlite.NewLazyLocationRepository(lazy),
		Providers: geoip.NewRegistry(geoip.Options{
			Timeout:   cfg.Provider.Timeout(),
			IPAPIURL:  cfg.Provider.IPAPIURL,
			IPSBURL:   cfg.Provider.IPSBURL,
			FakeDelay: cfg.Provider.FakeDelay(),
			UserAgent: in.BuildInfo.UserAgent(),
		}),
		Surface:        surface.NewFileSurface(cfg.Badge.OutputDir, loader),
		Composer:       icon.NewComposer(loader),
		Alarms:         d.scheduler,
		UpdateInterval: cfg.Refresh.UpdateInterval(),
		AlarmPeriod:    cfg.Refresh.AlarmPeriod(),
		SessionID:      d.SessionID,
	}
	if cfg.Notify.OnCountryChange && cfg.Notify.URL != "" {
		n, err := notify.NewNotifier(cfg.Notify.URL, in.Sender)
		if err != nil {
			return nil, ctx, err
		}
		deps.Notifier = n
	}

	d.Service = background.New(deps)
	d.Settings.OnChange(d.Service.SettingsChanged)
	in.Config.OnConfigChange(func(c *config.Config) {
		if err := d.Service.ApplyIntervals(ctx, c.Refresh.UpdateInterval(), c.Refresh.AlarmPeriod()); err != nil {
			log.Warn().Err(err).Msg("failed to apply refresh intervals")
		}
	})

	d.Hub = control.NewHub(d.Service)
	unsubscribe := d.Hub.Attach(d.Service)
	d.addCloser(func() error { unsubscribe(); return nil })
	d.Server = control.NewServer(cfg.Control.ListenAddr, d.Service, d.Hub)
	d.trace.Mark("wiring")

	log.Info().
		Str("trigger", string(d.Trigger)).
		Str("listen", cfg.Control.ListenAddr).
		Str("badge_dir", cfg.Badge.OutputDir).
		Bool("notify", deps.Notifier != nil).
		Msg("daemon ready")

	ok = true
	return d, ctx, nil
}

// Run starts the watchers and the control server, initializes with the
// detected trigger and blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	if err := d.cfg.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watcher disabled")
	}

	watchSettings := func(ctx context.Context) error {
		if err := d.Settings.Watch(ctx); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("settings watcher disabled")
		}
		<-ctx.Done()
		return nil
	}

	d.trace.Mark("watchers")
	d.trace.Finish()
	return d.Service.Run(ctx, d.Trigger, d.Server.ListenAndServe, watchSettings)
}

// Close releases everything StartDaemon acquired, in reverse order.
func (d *Daemon) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

func (d *Daemon) addCloser(fn func() error) {
	d.closers = append(d.closers, fn)
}

// setupLogging tees into a rotated file when enabled and tags the session.
func (d *Daemon) setupLogging(ctx context.Context, cfg *config.Config) (context.Context, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.Format = cfg.Logging.Format

	logger := logging.New(logCfg)
	if cfg.Logging.EnableFileLog {
		rotator, err := logging.NewLogRotator(logging.RotatorConfig{
			Dir:        cfg.Logging.LogDir,
			FileName:   "geobadge.log",
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAge,
			Compress:   true,
		})
		if err != nil {
			return ctx, fmt.Errorf("open log file: %w", err)
		}
		d.addCloser(rotator.Close)
		logger = logging.NewWithFile(logCfg, rotator)
	}

	d.SessionID = logging.GenerateSessionID()
	ctx = logging.WithContext(ctx, logger)
	ctx = logging.WithSession(ctx, d.SessionID)
	return logging.WithComponent(ctx, "daemon"), nil
}

func resolvePaths(in DaemonInput) (lockPath, settingsPath string, err error) {
	lockPath, settingsPath = in.LockPath, in.SettingsPath
	if lockPath == "" {
		if lockPath, err = config.GetLockFile(); err != nil {
			return "", "", fmt.Errorf("resolve lock path: %w", err)
		}
	}
	if settingsPath == "" {
		if settingsPath, err = config.GetSettingsFile(); err != nil {
			return "", "", fmt.Errorf("resolve settings path: %w", err)
		}
	}
	return lockPath, settingsPath, nil
}

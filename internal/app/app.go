package app

import (
	"errors"
	"io"

	"go-hris-admin/internal/apiclient"
	"go-hris-admin/internal/audit"
	"go-hris-admin/internal/config"
	"go-hris-admin/internal/department"
	"go-hris-admin/internal/employee"
	"go-hris-admin/internal/notify"
	"go-hris-admin/internal/shared/connection"

	"go.uber.org/zap"
)

// Streams are the terminal the commands talk to. Tables go to Out;
// notifications and prompts go to Err.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// App holds the collaborators shared by every command.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Streams   Streams
	API       *apiclient.Client
	Notifier  notify.Notifier
	Confirmer notify.Confirmer
	Audit     audit.Logger

	Departments department.Service
	Employees   employee.Service
	Options     *department.Options

	closers []func() error
}

// BuildApp connects the optional infrastructure (redis options cache, kafka
// audit trail) and the REST services. Infrastructure that is configured but
// unreachable is reported and replaced by its in-process fallback.
func BuildApp(cfg config.Config, streams Streams, assumeYes bool, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.L()
	}
	a := &App{Config: cfg, Logger: logger, Streams: streams}

	// 1. HTTP collaborator
	var creds apiclient.Credentials
	if cfg.API.BearerToken != "" {
		creds = apiclient.NewBearerToken(cfg.API.BearerToken)
	}
	api, err := apiclient.New(apiclient.Config{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		Retries:           cfg.API.Retries,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
		Credentials:       creds,
		CookieJar:         cfg.API.UseCookies,
	}, logger)
	if err != nil {
		return nil, err
	}
	a.API = api

	// 2. Terminal collaborators
	a.Notifier = notify.NewWriterNotifier(streams.Err)
	if assumeYes {
		a.Confirmer = notify.AutoConfirmer{Answer: true}
	} else {
		a.Confirmer = notify.NewPromptConfirmer(streams.In, streams.Err)
	}

	// 3. Audit trail
	a.Audit = audit.NewStdoutLogger(logger)
	if cfg.Audit.KafkaBroker != "" {
		writer, err := connection.ConnectKafkaWithRetry(cfg.Audit.KafkaBroker, 2)
		if err != nil {
			logger.Warn("audit trail falls back to the log", zap.Error(err))
		} else {
			a.closers = append(a.closers, writer.Close)
			a.Audit = audit.NewKafkaLogger(writer, cfg.Audit.Topic, logger)
		}
	}

	// 4. Services and the department options cache
	depts := department.NewService(api, logger)
	a.Options = department.NewOptions(depts, nil, cfg.Cache.OptionsTTL, logger)
	if cfg.Cache.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Cache.RedisAddr, 2)
		if err != nil {
			logger.Warn("department options cached in process", zap.Error(err))
		} else {
			a.closers = append(a.closers, rdb.Close)
			a.Options = department.NewOptions(depts, rdb, cfg.Cache.OptionsTTL, logger)
		}
	}
	a.Departments = department.WithInvalidation(depts, a.Options)
	a.Employees = employee.NewService(api, logger)

	return a, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

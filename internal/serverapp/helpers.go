package serverapp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vkmindia80/nexbii/internal/config"
	"github.com/vkmindia80/nexbii/internal/logging"
	"github.com/vkmindia80/nexbii/internal/observability"
)

// InitLogger builds the application logger from configuration. When log
// export is enabled it also initializes the OTLP logger provider and
// recreates the logger with the export bridge attached.
func InitLogger(cfg *config.Config) (*logging.Logger, *observability.LoggerProvider, error) {
	loggerCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	logger := logging.New(loggerCfg)
	slog.SetDefault(logger.Logger)

	if !cfg.Observability.LogExportEnabled {
		return logger, nil, nil
	}

	logger.Info("initializing OpenTelemetry logging",
		slog.String("service_name", cfg.Observability.ServiceName),
		slog.String("otlp_endpoint", cfg.Observability.OTLPEndpoint),
		slog.String("otlp_protocol", cfg.Observability.OTLPProtocol),
		slog.Bool("insecure", cfg.Observability.OTLPInsecure),
	)

	loggerProvider, err := observability.InitLoggerProvider(observabilityConfig(cfg))
	if err != nil {
		return nil, nil, err
	}

	loggerCfg.LoggerProvider = loggerProvider.Provider()
	logger = logging.New(loggerCfg)
	slog.SetDefault(logger.Logger)

	return logger, loggerProvider, nil
}

func observabilityConfig(cfg *config.Config) observability.Config {
	return observability.Config{
		ServiceName:      cfg.Observability.ServiceName,
		ServiceVersion:   cfg.Observability.ServiceVersion,
		Environment:      cfg.Observability.Environment,
		TraceSampleRatio: cfg.Observability.TraceSampleRatio,
		OTLP: observability.OTLPConfig{
			Endpoint:       cfg.Observability.OTLPEndpoint,
			Protocol:       cfg.Observability.OTLPProtocol,
			Insecure:       cfg.Observability.OTLPInsecure,
			Timeout:        cfg.Observability.OTLPTimeout,
			CAFile:         cfg.Observability.OTLPCAFile,
			ClientCertFile: cfg.Observability.OTLPClientCertFile,
			ClientKeyFile:  cfg.Observability.OTLPClientKeyFile,
		},
	}
}

func (a *App) initMetrics() (*observability.MeterProvider, *observability.DashboardMetrics, error) {
	if !a.cfg.Observability.MetricsEnabled {
		return nil, nil, nil
	}

	meterProvider, err := observability.InitMeterProvider(observabilityConfig(a.cfg))
	if err != nil {
		return nil, nil, err
	}

	metrics, err := observability.InitDashboardMetrics()
	if err != nil {
		return nil, nil, err
	}

	a.logger.Info("OpenTelemetry metrics initialized")
	return meterProvider, metrics, nil
}

func (a *App) initTracing() (*observability.TracerProvider, error) {
	if !a.cfg.Observability.TracingEnabled {
		return nil, nil
	}

	a.logger.Info("initializing OpenTelemetry tracing",
		slog.String("otlp_endpoint", a.cfg.Observability.OTLPEndpoint),
		slog.Float64("sample_ratio", a.cfg.Observability.TraceSampleRatio),
	)

	tracerProvider, err := observability.InitTracerProvider(observabilityConfig(a.cfg))
	if err != nil {
		return nil, err
	}
	return tracerProvider, nil
}

func (a *App) buildServer(handler http.Handler, addr string) *http.Server {
	readTimeout := a.cfg.Server.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := a.cfg.Server.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	idleTimeout := a.cfg.Server.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = 60 * time.Second
	}
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

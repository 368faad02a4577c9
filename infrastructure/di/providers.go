package di

import (
	"context"
	"fmt"
	"time"

	"cosmic-backend/application/commands"
	"cosmic-backend/application/commands/bus"
	commandhandlers "cosmic-backend/application/commands/handlers"
	"cosmic-backend/application/ports"
	querybus "cosmic-backend/application/queries/bus"
	queryhandlers "cosmic-backend/application/queries/handlers"
	"cosmic-backend/domain/core/entities"
	"cosmic-backend/infrastructure/config"
	"cosmic-backend/infrastructure/messaging/eventbridge"
	"cosmic-backend/infrastructure/persistence/decorators"
	"cosmic-backend/infrastructure/persistence/dynamodb"
	"cosmic-backend/infrastructure/persistence/jsonfile"
	"cosmic-backend/interfaces/http/rest"
	"cosmic-backend/pkg/observability"
	"cosmic-backend/pkg/ratelimit"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// serviceName names metrics namespaces and trace segments
	serviceName = "cosmic"

	limiterPruneInterval = 5 * time.Minute
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	// Lambda ships logs to CloudWatch, which wants JSON
	if cfg.IsProduction() || cfg.IsLambda() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at DYNAMODB_ENDPOINT when set
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(serviceName)
}

// ProvideTracer returns a tracer when tracing is enabled, nil otherwise
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer(serviceName)
}

// ProvideEventRepository selects the configured event store, wraps it with
// metrics and a circuit breaker, and fails unless the store answers a ping.
func ProvideEventRepository(
	ctx context.Context,
	cfg *config.Config,
	client *awsdynamodb.Client,
	metrics *observability.Collector,
	logger *zap.Logger,
) (ports.EventRepository, error) {
	var (
		inner ports.EventRepository
		store string
	)
	switch cfg.EventStore {
	case config.EventStoreDynamoDB:
		// the event file is laid down with the other state files whatever the backend
		if err := jsonfile.NewStore[*entities.EventRecord](cfg.EventPath(), "events", logger).Ensure(); err != nil {
			return nil, err
		}
		inner = dynamodb.NewEventRepository(client, cfg.EventsTable, logger)
		store = cfg.EventsTable
	case config.EventStoreFile:
		inner = jsonfile.NewEventRepository(cfg.EventPath(), logger)
		store = cfg.EventFile
	default:
		return nil, fmt.Errorf("unknown event store %q", cfg.EventStore)
	}

	breakerCfg := decorators.CircuitBreakerConfig{
		Name:             "event-store",
		MaxRequests:      cfg.BreakerMaxRequests,
		Interval:         cfg.BreakerInterval,
		Timeout:          cfg.BreakerTimeout,
		FailureThreshold: cfg.BreakerFailureThreshold,
		MinRequests:      cfg.BreakerMinRequests,
	}
	repo := decorators.NewCircuitBreakerEventRepository(
		decorators.NewMetricsEventRepository(inner, metrics, store),
		breakerCfg,
		logger,
	)

	if err := repo.Ping(ctx); err != nil {
		return nil, fmt.Errorf("event store %s unreachable: %w", cfg.EventStore, err)
	}

	logger.Info("Event store ready",
		zap.String("backend", cfg.EventStore),
		zap.String("store", store),
	)
	return repo, nil
}

// ProvideContactStore creates the contact file, holding an empty list when new
func ProvideContactStore(cfg *config.Config, logger *zap.Logger) (ports.ContactStore, error) {
	store := jsonfile.NewStore[entities.ContactRecord](cfg.ContactPath(), "contact", logger)
	if err := store.Ensure(); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideDashboardStore creates the dashboard file, holding an empty list when new
func ProvideDashboardStore(cfg *config.Config, logger *zap.Logger) (ports.DashboardStore, error) {
	store := jsonfile.NewStore[*entities.DashboardEntry](cfg.DashboardPath(), "dashboard", logger)
	if err := store.Ensure(); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideEventPublisher publishes to EventBridge when an event bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideCommandBus registers the submission handlers behind logging and metrics
func ProvideCommandBus(
	contactStore ports.ContactStore,
	dashboardStore ports.DashboardStore,
	eventRepo ports.EventRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(&zapLoggerAdapter{logger}),
		bus.MetricsMiddleware(commandMetrics{metrics}),
	)

	contactHandler := commandhandlers.NewSubmitContactHandler(contactStore, logger)
	if err := bus.RegisterFunc(commandBus, func(ctx context.Context, cmd commands.SubmitContactCommand) error {
		if err := contactHandler.Handle(ctx, cmd); err != nil {
			return err
		}
		metrics.RecordSubmission("contact")
		return nil
	}); err != nil {
		return nil, err
	}

	planEventHandler := commandhandlers.NewPlanEventHandler(eventRepo, publisher, logger)
	if err := bus.RegisterFunc(commandBus, func(ctx context.Context, cmd commands.PlanEventCommand) error {
		if _, err := planEventHandler.Handle(ctx, cmd); err != nil {
			return err
		}
		metrics.RecordSubmission("event")
		return nil
	}); err != nil {
		return nil, err
	}

	dashboardHandler := commandhandlers.NewSubmitDashboardEntryHandler(dashboardStore, logger)
	if err := bus.RegisterFunc(commandBus, func(ctx context.Context, cmd commands.SubmitDashboardEntryCommand) error {
		if err := dashboardHandler.Handle(ctx, cmd); err != nil {
			return err
		}
		metrics.RecordSubmission("dashboard")
		return nil
	}); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus registers the event search handler
func ProvideQueryBus(
	eventRepo ports.EventRepository,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.LoggingMiddleware(&zapLoggerAdapter{logger}),
		querybus.MetricsMiddleware(queryMetrics{metrics}),
	)

	findEventsHandler := queryhandlers.NewFindEventsHandler(eventRepo, logger)
	if err := querybus.RegisterFunc(queryBus, findEventsHandler.Handle); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideRouter builds the HTTP router from the configured feature flags. The
// submission limiter, when enabled, prunes idle clients until ctx is done.
func ProvideRouter(
	ctx context.Context,
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	eventRepo ports.EventRepository,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *rest.Router {
	options := rest.Options{
		ViewsDir:          cfg.ViewsDir,
		PublicDir:         cfg.PublicDir,
		EnableCORS:        cfg.EnableCORS,
		Tracer:            tracer,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	}
	if cfg.EnableMetrics {
		options.Metrics = metrics
	}
	if cfg.SubmitRateLimit > 0 {
		limiter := ratelimit.NewClientLimiter(cfg.SubmitRateLimit)
		go limiter.Run(ctx, limiterPruneInterval)
		options.SubmitLimiter = limiter
	}
	return rest.NewRouter(commandBus, queryBus, eventRepo, options, logger)
}

// commandMetrics adapts the collector to the command bus Metrics interface
type commandMetrics struct {
	*observability.Collector
}

func (m commandMetrics) StartTimer(metric, label string) bus.Timer {
	return m.Collector.StartTimer(metric, label)
}

// queryMetrics adapts the collector to the query bus Metrics interface
type queryMetrics struct {
	*observability.Collector
}

func (m queryMetrics) StartTimer(metric, label string) querybus.Timer {
	return m.Collector.StartTimer(metric, label)
}

// zapLoggerAdapter adapts zap.Logger to the bus Logger interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, fields ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Error(msg string, fields ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) fieldsToZap(fields ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			key, _ := fields[i].(string)
			zapFields = append(zapFields, zap.Any(key, fields[i+1]))
		}
	}
	return zapFields
}

package di

import (
	"cosmic-backend/application/commands/bus"
	"cosmic-backend/application/ports"
	querybus "cosmic-backend/application/queries/bus"
	"cosmic-backend/infrastructure/config"
	"cosmic-backend/interfaces/http/rest"
	"cosmic-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	EventRepo      ports.EventRepository
	ContactStore   ports.ContactStore
	DashboardStore ports.DashboardStore
	Publisher      ports.EventPublisher
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	Metrics        *observability.Collector
	Tracer         *observability.Tracer
	Router         *rest.Router
}

package cmd

import (
	"log/slog"

	httpserver "ordering/internal/adapters/in/http"
	"ordering/internal/adapters/out/notify"
	"ordering/internal/adapters/out/postgres"
	"ordering/internal/adapters/out/processor"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"
	"ordering/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	settings   ports.Settings
	processor  ports.ItemProcessor
	taskQueue  ports.TaskQueue
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, settings ports.Settings,
	taskQueue ports.TaskQueue, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		settings:   settings,
		processor:  processor.NewExampleProcessor(settings, logger),
		taskQueue:  taskQueue,
		notifier:   notify.NewLogNotifier(logger),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	return commands.NewSubmitOrderCommandHandler(
		c.createUoWFactory(),
		services.NewOrderBuilder(c.settings, c.processor),
		services.NewOrderDispatcher(c.settings, c.processor),
		c.settings,
		c.taskQueue,
		c.notifier,
	)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.createOrderUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateModerateOrderCommandHandler() commands.ModerateOrderCommandHandler {
	return commands.NewModerateOrderCommandHandler(
		c.createUoWFactory(),
		services.NewOrderDispatcher(c.settings, c.processor),
		c.taskQueue,
		c.notifier,
	)
}

func (c *CompositionRoot) CreateDescribeResultAccessCommandHandler() commands.DescribeResultAccessCommandHandler {
	return commands.NewDescribeResultAccessCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateProcessOrderItemCommandHandler() commands.ProcessOrderItemCommandHandler {
	return commands.NewProcessOrderItemCommandHandler(
		c.createUoWFactory(),
		c.processor,
		services.NewOrderDispatcher(c.settings, c.processor),
		c.settings,
		c.taskQueue,
		c.notifier,
	)
}

func (c *CompositionRoot) CreateCreateSubscriptionBatchCommandHandler() commands.CreateSubscriptionBatchCommandHandler {
	return commands.NewCreateSubscriptionBatchCommandHandler(
		c.createUoWFactory(),
		c.processor,
		c.taskQueue,
	)
}

func (c *CompositionRoot) CreateTerminateSubscriptionsCommandHandler() commands.TerminateSubscriptionsCommandHandler {
	return commands.NewTerminateSubscriptionsCommandHandler(c.createOrderUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateCleanExpiredItemsCommandHandler() commands.CleanExpiredItemsCommandHandler {
	return commands.NewCleanExpiredItemsCommandHandler(c.createUoWFactory(), c.processor)
}

func (c *CompositionRoot) CreateGetStatusQueryHandler() queries.GetStatusQueryHandler {
	return queries.NewGetStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOptionsQueryHandler() queries.GetOptionsQueryHandler {
	return queries.NewGetOptionsQueryHandler(c.settings)
}

func (c *CompositionRoot) CreateGetCapabilitiesQueryHandler() queries.GetCapabilitiesQueryHandler {
	return queries.NewGetCapabilitiesQueryHandler(c.settings)
}

func (c *CompositionRoot) CreateHTTPServer() *httpserver.Server {
	return httpserver.NewServer(
		c.CreateSubmitOrderCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateModerateOrderCommandHandler(),
		c.CreateDescribeResultAccessCommandHandler(),
		c.CreateCreateSubscriptionBatchCommandHandler(),
		c.CreateGetStatusQueryHandler(),
		c.CreateGetOptionsQueryHandler(),
		c.CreateGetCapabilitiesQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateTerminateSubscriptionsCommandHandler(),
		c.CreateCleanExpiredItemsCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) createOrderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

package cmd

import (
	"codorders/internal/adapters/out/platform"
	"codorders/internal/adapters/out/postgres"
	"codorders/internal/adapters/out/postgres/historyrepo"
	"codorders/internal/adapters/out/qr"
	"codorders/internal/core/application/usecases/commands"
	"codorders/internal/core/application/usecases/queries"
	"codorders/internal/core/domain/model/order"
	"codorders/internal/jobs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	table      *order.TransitionTable
	effects    *commands.SideEffects
	qrFiles    *qr.FileGenerator
	logger     *zap.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *zap.Logger) (CompositionRoot, error) {
	table, err := order.NewTransitionTable()
	if err != nil {
		return CompositionRoot{}, err
	}

	qrFiles := qr.NewFileGenerator(config.QRArtifactDir, config.DeliveryPageBaseURL)

	// The history repository used for side effects runs in autocommit mode:
	// history records land after the primary transaction committed.
	effects := commands.NewSideEffects(
		historyrepo.NewGormHistoryRepository(gormDB),
		platform.NewHTTPGateway(config.PlatformAPIBaseURL, config.PlatformAPIKey, logger),
		qrFiles,
		logger,
	)

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		table:      table,
		effects:    effects,
		qrFiles:    qrFiles,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.StockUoWFactory = FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.table, c.effects)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	var f commands.ConfirmUoWFactory = FuncConfirmUoWFactory(func() commands.ConfirmUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmOrderCommandHandler(f, c.effects)
}

func (c *CompositionRoot) CreateEditOrderCommandHandler() commands.EditOrderCommandHandler {
	return commands.NewEditOrderCommandHandler(c.createOrderUoWFactory())
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.createOrderUoWFactory(), c.effects)
}

func (c *CompositionRoot) CreateFailDeliveryCommandHandler() commands.FailDeliveryCommandHandler {
	return commands.NewFailDeliveryCommandHandler(c.createOrderUoWFactory(), c.effects)
}

func (c *CompositionRoot) CreateRetryDeliveryCommandHandler() commands.RetryDeliveryCommandHandler {
	return commands.NewRetryDeliveryCommandHandler(c.createOrderUoWFactory(), c.effects)
}

func (c *CompositionRoot) CreateRateDeliveryCommandHandler() commands.RateDeliveryCommandHandler {
	return commands.NewRateDeliveryCommandHandler(c.createOrderUoWFactory(), c.effects)
}

func (c *CompositionRoot) CreateCancelFailedDeliveryCommandHandler() commands.CancelFailedDeliveryCommandHandler {
	var f commands.StockUoWFactory = FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelFailedDeliveryCommandHandler(f, c.effects)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	var f commands.PurgeUoWFactory = FuncPurgeUoWFactory(func() commands.PurgeUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeleteOrderCommandHandler(f, c.effects)
}

func (c *CompositionRoot) CreateGetOrderByTokenQueryHandler() queries.GetOrderByTokenQueryHandler {
	return queries.NewGetOrderByTokenQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.gormDB, c.qrFiles, c.logger)
}

func (c *CompositionRoot) createOrderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncStockUoWFactory func() commands.StockUoW

func (f FuncStockUoWFactory) Create() commands.StockUoW {
	return f()
}

type FuncConfirmUoWFactory func() commands.ConfirmUoW

func (f FuncConfirmUoWFactory) Create() commands.ConfirmUoW {
	return f()
}

type FuncPurgeUoWFactory func() commands.PurgeUoW

func (f FuncPurgeUoWFactory) Create() commands.PurgeUoW {
	return f()
}

package main

import (
	"fmt"
	"os"

	"codorders/cmd"
	httpin "codorders/internal/adapters/in/http"
	"codorders/internal/adapters/out/postgres/courierrepo"
	"codorders/internal/adapters/out/postgres/historyrepo"
	"codorders/internal/adapters/out/postgres/orderrepo"
	"codorders/internal/adapters/out/postgres/productrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	gormDB := openDatabase(configs)
	migrateDatabase(gormDB)

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building composition root: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:            goDotEnvVariable("HTTP_PORT"),
		DBHost:              goDotEnvVariable("DB_HOST"),
		DBPort:              goDotEnvVariable("DB_PORT"),
		DBUser:              goDotEnvVariable("DB_USER"),
		DBPassword:          goDotEnvVariable("DB_PASSWORD"),
		DBName:              goDotEnvVariable("DB_NAME"),
		DBSslMode:           goDotEnvVariable("DB_SSLMODE"),
		PlatformAPIBaseURL:  goDotEnvVariable("PLATFORM_API_BASE_URL"),
		PlatformAPIKey:      goDotEnvVariable("PLATFORM_API_KEY"),
		DeliveryPageBaseURL: goDotEnvVariable("DELIVERY_PAGE_BASE_URL"),
		QRArtifactDir:       goDotEnvVariable("QR_ARTIFACT_DIR"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func migrateDatabase(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&productrepo.ProductDTO{},
		&productrepo.VariantDTO{},
		&courierrepo.CourierDTO{},
		&historyrepo.TransitionDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpin.NewServer(
		app.CreateChangeOrderStatusCommandHandler(),
		app.CreateConfirmOrderCommandHandler(),
		app.CreateEditOrderCommandHandler(),
		app.CreateDeleteOrderCommandHandler(),
		app.CreateConfirmDeliveryCommandHandler(),
		app.CreateFailDeliveryCommandHandler(),
		app.CreateRetryDeliveryCommandHandler(),
		app.CreateRateDeliveryCommandHandler(),
		app.CreateCancelFailedDeliveryCommandHandler(),
		app.CreateGetOrderByTokenQueryHandler(),
		app.CreateGetOrderHistoryQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}

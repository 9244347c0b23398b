package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ordering/cmd"
	"ordering/internal/adapters/out/kafka"
	"ordering/internal/adapters/out/postgres/batchrepo"
	"ordering/internal/adapters/out/postgres/orderrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	settings, err := cmd.LoadSettings(configs.SettingsPath)
	if err != nil {
		log.Fatalf("Error loading settings: %v", err)
	}

	taskQueue, err := kafka.NewKafkaTaskQueue(
		strings.Split(configs.KafkaHost, ","), configs.KafkaItemTopic)
	if err != nil {
		log.Fatalf("Error creating task queue: %v", err)
	}
	defer taskQueue.Close()

	app := cmd.NewCompositionRoot(configs, gormDB, settings, taskQueue, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	worker, err := kafka.NewItemWorker(
		strings.Split(configs.KafkaHost, ","),
		configs.KafkaItemTopic,
		configs.KafkaConsumerGroup,
		app.CreateProcessOrderItemCommandHandler(),
		logger,
	)
	if err != nil {
		log.Fatalf("Error creating item worker: %v", err)
	}
	defer worker.Close()

	workerCtx, stopWorker := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stopWorker()
	go worker.Run(workerCtx)

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:           goDotEnvVariable("HTTP_PORT"),
		DBHost:             goDotEnvVariable("DB_HOST"),
		DBPort:             goDotEnvVariable("DB_PORT"),
		DBUser:             goDotEnvVariable("DB_USER"),
		DBPassword:         goDotEnvVariable("DB_PASSWORD"),
		DBName:             goDotEnvVariable("DB_NAME"),
		DBSslMode:          goDotEnvVariable("DB_SSLMODE"),
		KafkaHost:          goDotEnvVariable("KAFKA_HOST"),
		KafkaConsumerGroup: goDotEnvVariable("KAFKA_CONSUMER_GROUP"),
		KafkaItemTopic:     goDotEnvVariable("KAFKA_ITEM_TOPIC"),
		SettingsPath:       goDotEnvVariable("SETTINGS_PATH"),
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

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemSpecificationDTO{},
		&batchrepo.BatchDTO{},
		&batchrepo.OrderItemDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return gormDB
}

func startWebServer(app cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	app.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}

package main

import (
	bookingshandler "staybook/internal/bookings/handler"
	bookingsrepo "staybook/internal/bookings/repository"
	bookingsservice "staybook/internal/bookings/service"
	bookingsvalidator "staybook/internal/bookings/validator"
	roomsrepo "staybook/internal/rooms/repository"
	"staybook/pkg/app"
	"staybook/pkg/config"
	"staybook/pkg/events"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	producer := initProducer(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close event producer", "error", err)
		}
	}()

	bookingService := initServices(cfg, producer)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, bookingshandler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initProducer(cfg *config.Config) *events.Producer {
	eventsCfg, err := events.LoadConfig()
	if err != nil {
		cfg.Log.Fatal("Invalid events configuration", "error", err)
	}

	producer, err := events.NewProducer(eventsCfg, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event producer", "error", err)
	}
	return producer
}

func initServices(cfg *config.Config, producer *events.Producer) bookingsservice.BookingService {
	bookingValidator := bookingsvalidator.NewBookingValidator(cfg.Log)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewMongoBookingLockRepository(cfg)
	roomRepo := roomsrepo.NewMongoRoomRepository(cfg)

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		roomRepo,
		bookingValidator,
		producer,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

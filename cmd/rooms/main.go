package main

import (
	"staybook/internal/rooms/handler"
	"staybook/internal/rooms/repository"
	"staybook/internal/rooms/service"
	"staybook/internal/rooms/validator"
	"staybook/pkg/app"
	"staybook/pkg/config"
)

const ServiceName = "rooms"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Rooms service")

	roomService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewRoomHandler(roomService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.RoomService {
	roomValidator := validator.NewRoomValidator(cfg.Log)
	roomRepo := repository.NewMongoRoomRepository(cfg)
	roomService := service.NewRoomService(roomRepo, roomValidator, cfg)

	cfg.Log.Info("Room service initialized", "database", cfg.MongoDatabaseName)
	return roomService
}

package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pethaven/config"
	clientRepo "pethaven/database/repository/client"
	inventoryRepo "pethaven/database/repository/inventory"
	paymentRepo "pethaven/database/repository/payment"
	reservationRepo "pethaven/database/repository/reservation"
	settingsRepo "pethaven/database/repository/settings"
	"pethaven/models"
	"pethaven/services/stay"
	"pethaven/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	// repositories.
	inventory := inventoryRepo.NewMemoryInventoryRepo()
	reservations := reservationRepo.NewMemoryReservationRepo()
	settings := settingsRepo.NewMemorySettingsRepo()
	clients := clientRepo.NewMemoryClientRepo()
	payments := paymentRepo.NewMemoryPaymentRepo()

	seedInventory(inventory)
	clients.SetDiscount("demo-client", 10)

	stayService := &stay.DefaultStayService{
		Inventory:    inventory,
		Reservations: reservations,
		Settings:     settings,
		Clients:      clients,
		Payments:     payments,
	}

	start := models.DateOnly(time.Now()).AddDate(0, 0, 7)
	req := stay.FindOptionsRequest{
		Window:          models.NewDateWindow(start, start.AddDate(0, 0, 6)),
		PetCount:        2,
		DiscountPercent: 10,
	}

	set, err := stayService.FindOptions(context.Background(), req)
	if err != nil {
		logger.Sugar().Fatalf("main: stay resolution failed: %v", err)
	}

	logger.Info("stay options resolved",
		zap.Time("from", req.Window.Start),
		zap.Time("to", req.Window.End),
		zap.Int("totalOptions", set.TotalOptions),
		zap.Bool("hasPerfectOptions", set.HasPerfectOptions))
	for _, opt := range set.SingleOptions {
		logger.Info("single option",
			zap.String("roomType", opt.Segments[0].RoomTypeName),
			zap.Float64("totalPrice", opt.TotalPrice))
	}
	for _, opt := range append(set.SameTypeOptions, set.MixedOptions...) {
		logger.Info("relocation option",
			zap.String("kind", string(opt.Kind)),
			zap.Int("transfers", opt.TransferCount),
			zap.Float64("totalPrice", opt.TotalPrice),
			zap.String("warning", opt.Warning))
	}

	if set.HasPerfectOptions {
		res, err := stayService.CreateFromOption(context.Background(), set.SingleOptions[0], "demo-client", []string{"pet-1", "pet-2"})
		if err != nil {
			logger.Sugar().Fatalf("main: booking the cheapest option failed: %v", err)
		}
		logger.Info("demo reservation committed",
			zap.String("reservationID", res.ID),
			zap.Float64("price", res.Price))
	}
}

func seedInventory(inventory *inventoryRepo.MemoryInventoryRepo) {
	inventory.AddRoomType(models.RoomTypeCapacity{
		ID: "standard", Name: "Standard", MaxPets: 2,
		PricePerUnit: 1000, PricePerExtraPet: 250,
	}, "std-1", "std-2")
	inventory.AddRoomType(models.RoomTypeCapacity{
		ID: "deluxe", Name: "Deluxe", MaxPets: 4,
		PricePerUnit: 1800, PricePerExtraPet: 300,
	}, "dlx-1")

	// One pre-existing stay to make the calendar interesting.
	start := models.DateOnly(time.Now()).AddDate(0, 0, 8)
	inventory.AddBooking(models.BookingInterval{
		ReservationID: "existing-1",
		RoomTypeID:    "standard",
		RoomID:        "std-1",
		CheckIn:       start,
		CheckOut:      start.AddDate(0, 0, 3),
	})
}

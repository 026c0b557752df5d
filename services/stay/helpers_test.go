package stay

import (
	"time"

	clientRepo "pethaven/database/repository/client"
	inventoryRepo "pethaven/database/repository/inventory"
	paymentRepo "pethaven/database/repository/payment"
	reservationRepo "pethaven/database/repository/reservation"
	settingsRepo "pethaven/database/repository/settings"
	"pethaven/models"
)

// d returns a calendar day in June 2026.
func d(day int) time.Time {
	return time.Date(2026, time.June, day, 0, 0, 0, 0, time.UTC)
}

func win(start, end int) models.DateWindow {
	return models.DateWindow{Start: d(start), End: d(end)}
}

func standardType() models.RoomTypeCapacity {
	return models.RoomTypeCapacity{
		ID: "standard", Name: "Standard", MaxPets: 2,
		PricePerUnit: 1000, PricePerExtraPet: 250,
	}
}

func deluxeType() models.RoomTypeCapacity {
	return models.RoomTypeCapacity{
		ID: "deluxe", Name: "Deluxe", MaxPets: 4,
		PricePerUnit: 1800, PricePerExtraPet: 300,
	}
}

type testEnv struct {
	service      *DefaultStayService
	inventory    *inventoryRepo.MemoryInventoryRepo
	reservations *reservationRepo.MemoryReservationRepo
	clients      *clientRepo.MemoryClientRepo
	payments     *paymentRepo.MemoryPaymentRepo
}

func newTestEnv(mode models.CalculationMode) *testEnv {
	inventory := inventoryRepo.NewMemoryInventoryRepo()
	reservations := reservationRepo.NewMemoryReservationRepo()
	settings := settingsRepo.NewMemorySettingsRepo()
	clients := clientRepo.NewMemoryClientRepo()
	payments := paymentRepo.NewMemoryPaymentRepo()

	settings.Set(models.HotelSettings{Mode: mode, CheckInTime: "15:00", CheckOutTime: "12:00"})

	return &testEnv{
		service: &DefaultStayService{
			Inventory:    inventory,
			Reservations: reservations,
			Settings:     settings,
			Clients:      clients,
			Payments:     payments,
		},
		inventory:    inventory,
		reservations: reservations,
		clients:      clients,
		payments:     payments,
	}
}

func (e *testEnv) setToday(day int) {
	e.service.Now = func() time.Time { return d(day).Add(10 * time.Hour) }
}

func booking(roomTypeID, roomID string, checkIn, checkOut int) models.BookingInterval {
	return models.BookingInterval{
		RoomTypeID: roomTypeID,
		RoomID:     roomID,
		CheckIn:    d(checkIn),
		CheckOut:   d(checkOut),
	}
}

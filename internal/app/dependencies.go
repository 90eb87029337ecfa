package app

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/wayfare/wayfare/internal/bus"
	"github.com/wayfare/wayfare/internal/config"
	"github.com/wayfare/wayfare/internal/utils"
	"github.com/wayfare/wayfare/pkg/activity"
	"github.com/wayfare/wayfare/pkg/booking"
	"github.com/wayfare/wayfare/pkg/chat"
	"github.com/wayfare/wayfare/pkg/currency"
	"github.com/wayfare/wayfare/pkg/expense"
	"github.com/wayfare/wayfare/pkg/export"
	"github.com/wayfare/wayfare/pkg/google"
	"github.com/wayfare/wayfare/pkg/itinerary"
	"github.com/wayfare/wayfare/pkg/notification"
	"github.com/wayfare/wayfare/pkg/trip"
	"github.com/wayfare/wayfare/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *bus.Bus

	UserService user.Service
	UserHandler *user.Handler

	TripRepo    trip.Repository
	TripService *trip.ServiceImpl
	TripHandler *trip.Handler

	ItineraryRepo    itinerary.Repository
	ItineraryService itinerary.Service
	ItineraryHandler *itinerary.Handler

	BookingClient  booking.Client
	BookingService *booking.ServiceImpl
	BookingHandler *booking.Handler

	ActivityClient  activity.Client
	ActivityService *activity.ServiceImpl
	ActivityHandler *activity.Handler

	CurrencyConverter currency.Converter

	ExpenseRepo    expense.Repository
	ExpenseService *expense.ServiceImpl
	ExpenseHandler *expense.Handler

	ChatHub     *chat.Hub
	ChatRepo    chat.Repository
	ChatService chat.Service
	ChatHandler *chat.Handler

	NotificationRepo    notification.Repository
	NotificationService *notification.ServiceImpl
	NotificationHandler *notification.Handler

	GoogleAuth    *google.Auth
	ExportService *export.ServiceImpl
	ExportHandler *export.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = bus.New()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.TripRepo = trip.NewRepository(db)
	deps.TripService = trip.NewService(deps.TripRepo)
	deps.TripHandler = trip.NewHandler(deps.TripService)

	deps.ItineraryRepo = itinerary.NewRepository(db)
	deps.ItineraryService = itinerary.NewService(deps.ItineraryRepo, deps.TripService, deps.EventBus, itinerary.DefaultSaveDelay)
	deps.ItineraryHandler = itinerary.NewHandler(deps.ItineraryService)

	deps.BookingClient = booking.NewClient(cfg.Booking)
	deps.BookingService = booking.NewService(deps.BookingClient, deps.ItineraryService, deps.EventBus)
	deps.BookingHandler = booking.NewHandler(deps.BookingService)

	deps.ActivityClient = activity.NewClient(cfg.Activities)
	deps.ActivityService = activity.NewService(deps.ActivityClient, deps.ItineraryService)
	deps.ActivityHandler = activity.NewHandler(deps.ActivityService)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Pass,
		DB:       cfg.Redis.DB,
	})
	deps.CurrencyConverter = currency.NewConverter(currency.NewClient(cfg.Currency), redisClient)

	deps.ExpenseRepo = expense.NewRepository(db)
	deps.ExpenseService = expense.NewService(deps.ExpenseRepo, deps.TripService, deps.CurrencyConverter, deps.UserService)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.ChatHub = chat.NewHub()
	deps.ChatRepo = chat.NewRepository(db)
	deps.ChatService = chat.NewService(deps.ChatRepo, deps.TripService, deps.ChatHub, deps.Clock)
	deps.ChatHandler = chat.NewHandler(deps.ChatService, deps.ChatHub)

	deps.NotificationRepo = notification.NewRepository(db)
	deps.NotificationService = notification.NewService(deps.NotificationRepo, deps.UserService, deps.TripService)
	deps.NotificationService.SubscribeToBookings(deps.EventBus)
	deps.NotificationHandler = notification.NewHandler(deps.NotificationService)

	deps.GoogleAuth = google.NewAuth(db, deps.UserService, cfg)
	deps.ExportService = export.NewService(deps.ItineraryService, deps.UserService, export.NewGoogleSinkFactory(deps.GoogleAuth))
	deps.ExportHandler = export.NewHandler(deps.ExportService)

	return deps
}

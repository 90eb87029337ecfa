package app

import (
	"github.com/gorilla/mux"

	"github.com/wayfare/wayfare/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user/current/settings", deps.UserHandler.UpdateSettings).Methods("PATCH")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/{userId}", deps.UserHandler.DeleteUser).Methods("DELETE")

	// Trips
	r.HandleFunc("/api/trip", deps.TripHandler.ListTrips).Methods("GET")
	r.HandleFunc("/api/trip", deps.TripHandler.CreateTrip).Methods("POST")
	r.HandleFunc("/api/trip/{tripId}", deps.TripHandler.GetTrip).Methods("GET")
	r.HandleFunc("/api/trip/{tripId}", deps.TripHandler.UpdateTrip).Methods("PUT")
	r.HandleFunc("/api/trip/{tripId}", deps.TripHandler.DeleteTrip).Methods("DELETE")
	r.HandleFunc("/api/trip/{tripId}/invite", deps.TripHandler.Invite).Methods("POST")
	r.HandleFunc("/api/trip/{tripId}/invite/response", deps.TripHandler.RespondToInvite).Methods("POST")
	r.HandleFunc("/api/trip/{tripId}/membership", deps.TripHandler.LeaveTrip).Methods("DELETE")

	// Itinerary (scope defaults to "main", pass ?scope={tripId} for trips)
	r.HandleFunc("/api/itinerary", deps.ItineraryHandler.GetSchedule).Methods("GET")
	r.HandleFunc("/api/itinerary/event", deps.ItineraryHandler.AddEvent).Methods("POST")
	r.HandleFunc("/api/itinerary/event/{eventId}", deps.ItineraryHandler.RemoveEvent).Methods("DELETE")
	r.HandleFunc("/api/itinerary/flush", deps.ItineraryHandler.Flush).Methods("POST")
	r.HandleFunc("/api/itinerary/session", deps.ItineraryHandler.Leave).Methods("DELETE")

	// Bookings
	r.HandleFunc("/api/booking", deps.BookingHandler.ListBookings).Methods("GET")
	r.HandleFunc("/api/booking/flight/{orderId}/import", deps.BookingHandler.ImportFlight).Methods("POST")
	r.HandleFunc("/api/booking/hotel/{orderId}/import", deps.BookingHandler.ImportHotel).Methods("POST")

	// Activities
	r.HandleFunc("/api/activity", deps.ActivityHandler.Search).Methods("GET")
	r.HandleFunc("/api/activity/import", deps.ActivityHandler.AddToItinerary).Methods("POST")

	// Expenses
	r.HandleFunc("/api/expense", deps.ExpenseHandler.RecordExpense).Methods("POST")
	r.HandleFunc("/api/expense/{expenseId}", deps.ExpenseHandler.DeleteExpense).Methods("DELETE")
	r.HandleFunc("/api/expense/report", deps.ExpenseHandler.PersonalReport).Methods("GET")
	r.HandleFunc("/api/trip/{tripId}/expense/report", deps.ExpenseHandler.TripReport).Methods("GET")

	// Trip chat
	r.HandleFunc("/api/trip/{tripId}/chat", deps.ChatHandler.History).Methods("GET")
	r.HandleFunc("/api/trip/{tripId}/chat", deps.ChatHandler.Post).Methods("POST")
	r.HandleFunc("/api/trip/{tripId}/chat/live", deps.ChatHandler.Live).Methods("GET")

	// Notifications
	r.HandleFunc("/api/notification", deps.NotificationHandler.List).Methods("GET")
	r.HandleFunc("/api/notification/{notificationId}/read", deps.NotificationHandler.MarkRead).Methods("POST")

	// Google integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/logout", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/itinerary/export-to-google", deps.ExportHandler.ExportSchedule).Methods("POST")
}

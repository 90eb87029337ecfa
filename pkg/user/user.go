package user

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	// HomeCurrency is the currency expense summaries are converted into.
	HomeCurrency string
	Timezone     string
	Notifications NotificationPrefs
	// GoogleCalendarId is the calendar itinerary exports go to, when set.
	GoogleCalendarId string
}

// NotificationPrefs are tri-state: nil means the traveler never chose, which
// counts as enabled. Only an explicit false suppresses a notification.
type NotificationPrefs struct {
	BookingEmail *bool
	BookingPush  *bool
}

// SettingsPatch is a field-level upsert: nil fields are left untouched,
// non-nil fields overwrite. This is the mergeable counterpart to the
// itinerary's full-document replace store.
type SettingsPatch struct {
	HomeCurrency     *string
	Timezone         *string
	BookingEmail     *bool
	BookingPush      *bool
	GoogleCalendarId *string
}

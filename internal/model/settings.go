package model

// Theme selects the color scheme used by the terminal UI.
type Theme string

// Theme constants.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeAuto
}

// Settings holds the user's preferences. Each field is persisted
// independently under its own key, so a store that is missing some keys
// still yields a complete value.
type Settings struct {
	// Profile
	Name     string
	Email    string
	Phone    string
	Location string
	Bio      string

	// Notifications
	EmailNotifications bool
	PushNotifications  bool
	TaskUpdates        bool
	TeamMentions       bool
	WeeklyDigest       bool
	MarketingEmails    bool

	// Privacy
	ProfileVisibility string
	ActivityStatus    bool
	DataSharing       bool

	// Appearance
	Theme      Theme
	Language   string
	Timezone   string
	DateFormat string

	// Security
	TwoFactorAuth  bool
	SessionTimeout string
	LoginAlerts    bool
}

// DefaultSettings returns the baseline used for every key that has never
// been saved.
func DefaultSettings() Settings {
	return Settings{
		Name:     "John Doe",
		Email:    "john@company.com",
		Phone:    "+1 (555) 123-4567",
		Location: "New York, NY",
		Bio:      "Product Manager passionate about building great user experiences.",

		EmailNotifications: true,
		PushNotifications:  true,
		TaskUpdates:        true,
		TeamMentions:       true,
		WeeklyDigest:       false,
		MarketingEmails:    false,

		ProfileVisibility: "team",
		ActivityStatus:    true,
		DataSharing:       false,

		Theme:      ThemeLight,
		Language:   "en",
		Timezone:   "America/New_York",
		DateFormat: "MM/DD/YYYY",

		TwoFactorAuth:  false,
		SessionTimeout: "24",
		LoginAlerts:    true,
	}
}

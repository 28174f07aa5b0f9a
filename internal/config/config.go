package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used to download remote rosters.
var UserAgent = "Birthday-Hub/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Birthday Hub"
	AppID             = "com.github.tartampluch.birthday-hub"
	KeyringService    = "com.github.tartampluch.birthday-hub"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "Icon.svg"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagUpcoming     = "upcoming"
	FlagRoster       = "roster"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescUpcoming = "Print the next N birthdays to stdout and exit (no window)"
	FlagDescRoster   = "Load the roster from this local file (.json, .toml, .vcf) instead of the configured source"
	MsgVersionOutput = "%s version %s (%s/%s)\n"

	// Headless listing layout: date, countdown, name.
	FormatUpcomingRow    = "%s\t%s\t%s\n"
	FormatUpcomingHeader = "DATE\tIN\tNAME\n"
	UpcomingToday        = "today"
	FormatUpcomingDays   = "%dd"
	TableCellPadding     = 2
)

// -----------------------------------------------------------------------------
// Preferences (Fyne key-value store)
// -----------------------------------------------------------------------------

const (
	// SettingsKey is the single key under which the settings object is stored.
	SettingsKey = "birthday-notification-settings"

	PrefSourceMode = "roster_source_mode"
	PrefLocalPath  = "roster_local_path"
	PrefWebURL     = "roster_web_url"
	PrefUsername   = "roster_username"
	PrefServerPort = "server_port"
	PrefLastRun    = "last_run_version"
)

// -----------------------------------------------------------------------------
// Roster Sources
// -----------------------------------------------------------------------------

const (
	SourceModeEmbedded = "embedded"
	SourceModeLocal    = "local"
	SourceModeWeb      = "web"

	// EmbeddedRosterName is used for format detection of the built-in roster.
	EmbeddedRosterName = "birthdays.json"

	// MaxRosterSize caps how much of a roster file or response is read.
	MaxRosterSize = 8 * 1024 * 1024

	// TOML rosters list people as [[person]] tables.
	TOMLPersonTable = "person"
)

// File extensions recognized by the roster decoders.
const (
	ExtJSON  = ".json"
	ExtTOML  = ".toml"
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Dates & Recurrence
// -----------------------------------------------------------------------------

const (
	// DefaultLeapYear is used to validate day-of-month for dates without a year,
	// so that 29-Feb is accepted.
	DefaultLeapYear = 2000

	// DOBSeparator splits "DD-Mon".
	DOBSeparator = "-"
	DOBMaxDigits = 2
	FormatDOB    = "%02d-%s"

	// IDSeparator replaces whitespace runs in record IDs.
	IDSeparator = "-"

	SecondsPerDay    = 86400
	SecondsPerHour   = 3600
	SecondsPerMinute = 60

	// CountdownPeriod is the refresh cadence of the live countdown.
	CountdownPeriod = 1 * time.Second

	// CalendarWeeks x 7 cells are laid out in the month grid.
	CalendarWeeks = 6
	DaysPerWeek   = 7

	// CalendarWeekStart is the first column of the month grid.
	CalendarWeekStart = time.Sunday
	WeekdayAbbrevLen  = 3

	// Date layouts used for parsing vCard BDAY fields.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// Display layouts.
	DateFormatDisplay = "Mon, Jan 2 2006"
	DateFormatShort   = "Jan 2"
	DateFormatISO     = "2006-01-02"
)

// -----------------------------------------------------------------------------
// Avatar Collaborator
// -----------------------------------------------------------------------------

const (
	// AvatarURLTemplate receives the path-escaped avatar seed.
	AvatarURLTemplate = "https://api.dicebear.com/7.x/avataaars/svg?seed=%s"
)

// -----------------------------------------------------------------------------
// Settings Defaults & Limits
// -----------------------------------------------------------------------------

const (
	DefaultNotificationsEnabled = true
	DefaultDaysInAdvance        = 3
	DefaultEmailNotifications   = true
	DefaultBrowserNotifications = true
	DefaultDailyDigest          = false
	DefaultNotifyOnDay          = true

	MinDaysInAdvance = 1
	MaxDaysInAdvance = 14

	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	ViewCard     = "card"
	ViewList     = "list"
	ViewCalendar = "calendar"

	DefaultTheme = ThemeSystem
	DefaultView  = ViewCard
)

// -----------------------------------------------------------------------------
// Notifications
// -----------------------------------------------------------------------------

const (
	// NotifyCheckInterval is how often the background worker re-plans reminders.
	NotifyCheckInterval = 15 * time.Minute

	// RosterRefreshInterval is how often a local/web roster is reloaded.
	RosterRefreshInterval = 1 * time.Hour

	ChannelDesktop = "desktop"
	ChannelEmail   = "email"

	KindAdvance = "advance"
	KindOnDay   = "on_day"

	FormatReminderKey = "%s|%s|%s"
	DigestKeyPrefix   = "digest"
)

// -----------------------------------------------------------------------------
// Birthday Card Generator
// -----------------------------------------------------------------------------

const (
	TemplateConfetti = "confetti"
	TemplateBalloons = "balloons"
	TemplateCake     = "cake"

	SchemePink   = "pink"
	SchemeBlue   = "blue"
	SchemePurple = "purple"
	SchemeGreen  = "green"

	DefaultCardTemplate = TemplateConfetti
	DefaultCardScheme   = SchemePink
	DefaultCardMessage  = "Wishing you a fantastic birthday filled with joy and laughter!"
	MaxCardMessageRunes = 500
	FormatCardGreeting  = "Happy Birthday, %s!"
)

// -----------------------------------------------------------------------------
// Dashboard Layout
// -----------------------------------------------------------------------------

const (
	DashboardWidth      = 1100
	DashboardHeight     = 760
	SettingsWindowWidth = 560
	CardWindowWidth     = 520
	CardPreviewHeight   = 220

	// CardsPerPage is the page size of the card grid.
	CardsPerPage    = 6
	CardGridColumns = 3
	StatsColumns    = 2
	CountdownUnits  = 4

	LayoutColumnsDouble = 2

	CountdownDigitSize = 36
	CardGreetingSize   = 24
	CardEmojiSize      = 48
	TitleTextSize      = 22

	CardPreviewRadius  = 12
	AvatarSize         = 48
	SettingsSliderStep = 1

	AvatarInitialsMax = 2
	EmptyValue        = "-"
	TodayBadge        = "🎉"

	FormatPopularMonth = "%s (%d)"
	FormatDayNumber    = "%d"
	FormatClockUnit    = "%02d"
	FormatBadgeLabel   = "%s %s"
)

// -----------------------------------------------------------------------------
// Localization
// -----------------------------------------------------------------------------

const (
	DefaultLanguage = "en"
	LocalesDir      = "locales"
	LocalePrefix    = "active."
	LocaleExt       = ".json"

	// Template data keys shared by the catalog entries.
	TDataCount = "Count"
	TDataName  = "Name"
	TDataDate  = "Date"
	TDataDays  = "Days"
	TDataPage  = "Page"
	TDataPages = "Pages"
	TDataVer   = "Version"
)

// Translation keys (locales/active.en.json).
const (
	TKeyWinDashboard = "win_dashboard"
	TKeyWinSettings  = "win_settings"
	TKeyWinCard      = "win_card"

	TKeyMenuDashboard  = "menu_dashboard"
	TKeyMenuRefresh    = "menu_refresh"
	TKeyMenuSettings   = "menu_settings"
	TKeyTrayStatus     = "tray_status"
	TKeyTrayStatusZero = "tray_status_zero"

	TKeyNotifStart   = "notif_start"
	TKeyNotifSuccess = "notif_success"
	TKeyNotifError   = "notif_error"

	TKeyEvtSummary    = "evt_summary"
	TKeyReminderTitle = "reminder_title"
	TKeyReminderBody  = "reminder_body"
	TKeyOnDayTitle    = "on_day_title"
	TKeyOnDayBody     = "on_day_body"
	TKeyDigestTitle   = "digest_title"
	TKeyDigestLine    = "digest_line"

	TKeyAppTitle    = "app_title"
	TKeyAppSubtitle = "app_subtitle"
	TKeyAllMonths   = "all_months"
	TKeyBtnSettings = "btn_settings"
	TKeyBtnReload   = "btn_reload"
	TKeyBtnCreate   = "btn_create_card"
	TKeyEmptyRoster = "empty_roster"
	TKeyEmptyFilter = "empty_filter"
	TKeyLoadFailed  = "load_failed"
	TKeyToday       = "today"
	TKeyDaysUntil   = "days_until"
	TKeyAvatarLink  = "avatar_link"

	TKeyCountdownTitle = "countdown_title"
	TKeyCountdownNext  = "countdown_next"
	TKeyCountdownNone  = "countdown_none"
	TKeyUnitDays       = "unit_days"
	TKeyUnitHours      = "unit_hours"
	TKeyUnitMinutes    = "unit_minutes"
	TKeyUnitSeconds    = "unit_seconds"

	TKeyStatsTitle    = "stats_title"
	TKeyStatTotal     = "stat_total"
	TKeyStatToday     = "stat_today"
	TKeyStatThisMonth = "stat_this_month"
	TKeyStatNextMonth = "stat_next_month"
	TKeyStatPopular   = "stat_popular"

	TKeySortDate   = "sort_date"
	TKeySortName   = "sort_name"
	TKeyTodayOnly  = "today_only"
	TKeyPagePrev   = "page_prev"
	TKeyPageNext   = "page_next"
	TKeyPageStatus = "page_status"

	TKeyViewCard     = "view_card"
	TKeyViewList     = "view_list"
	TKeyViewCalendar = "view_calendar"
	TKeyThemeLight   = "theme_light"
	TKeyThemeDark    = "theme_dark"
	TKeyThemeSystem  = "theme_system"

	TKeyTabNotif       = "tab_notifications"
	TKeyTabDisplay     = "tab_display"
	TKeyTabSource      = "tab_source"
	TKeyLblEnabled     = "lbl_enabled"
	TKeyLblDaysAdvance = "lbl_days_advance"
	TKeyLblEmail       = "lbl_email"
	TKeyLblDesktop     = "lbl_desktop"
	TKeyLblDigest      = "lbl_digest"
	TKeyLblOnDay       = "lbl_on_day"
	TKeyLblTheme       = "lbl_theme"
	TKeyLblView        = "lbl_view"
	TKeyLblSource      = "lbl_source"
	TKeyModeEmbedded   = "mode_embedded"
	TKeyModeLocal      = "mode_local"
	TKeyModeWeb        = "mode_web"
	TKeyLblURL         = "lbl_url"
	TKeyHelpURL        = "help_url"
	TKeyLblUser        = "lbl_user"
	TKeyLblPass        = "lbl_pass"
	TKeyBtnBrowse      = "btn_browse"
	TKeyLblPort        = "lbl_port"
	TKeyHelpPort       = "help_port"
	TKeyErrPortReq     = "err_port_required"
	TKeyErrPortNum     = "err_port_numeric"
	TKeyErrPortRange   = "err_port_range"
	TKeyBtnSave        = "btn_save"
	TKeyBtnCancel      = "btn_cancel"
	TKeyLblFooter      = "lbl_footer"

	TKeyLblRecipient = "lbl_recipient"
	TKeyLblMessage   = "lbl_message"
	TKeyLblTemplate  = "lbl_template"
	TKeyLblScheme    = "lbl_scheme"
	TKeyBtnGenerate  = "btn_generate"
	TKeyCardReady    = "card_ready"
)

// -----------------------------------------------------------------------------
// UID Generation (iCalendar)
// -----------------------------------------------------------------------------

const (
	UIDSalt         = "birthday-hub-v1-"
	UIDHashLength   = 16
	FormatHashInput = "%s|%s"
	FormatUID       = "%s-%d@%s"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Birthday Hub//Engine//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "birthdayhub"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	// FormatTrigger builds an ISO8601 "N days before" alarm trigger.
	FormatTrigger = "-P%dD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	// VCardNSeparator splits the structured N field (Family;Given;...).
	VCardNSeparator = ";"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	DefaultPort        = "18081"
	MinPort            = 1
	MaxPort            = 65535
	HTTPTimeout        = 30 * time.Second
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"
	SchemeHTTP         = "http"
	SchemeHTTPS        = "https"
	RouteFeed          = "/birthdays.ics"
	RouteUpcoming      = "/upcoming.json"
	AddrSeparator      = ":"

	// UpcomingFeedSize is how many entries the JSON endpoint lists.
	UpcomingFeedSize = 10
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidDateFormat = "invalid date format"
	ErrInvalidArgument   = "invalid argument"
	ErrInvalidSettings   = "invalid settings"
	ErrEmptyRecipient    = "card recipient is empty"
	ErrUnknownTemplate   = "unknown card template"
	ErrUnknownScheme     = "unknown card color scheme"
	ErrMessageTooLong    = "card message is too long"
	ErrLocalPathEmpty    = "configuration error: local path is empty"
	ErrWebURLEmpty       = "configuration error: web URL is empty"
	ErrFetcherMissing    = "internal error: network fetcher is not initialized"
	ErrModeUnsupport     = "configuration error: unsupported source mode"
	ErrRosterRead        = "failed to read roster"
	ErrRosterDecode      = "failed to decode roster"
	ErrSettingsEncode    = "failed to encode settings"
	ErrSettingsStore     = "failed to store settings"
	ErrServerStartup     = "server startup failed"
	ErrServerShutdown    = "server shutdown failed"
	ErrPortRequired      = "server port is required"
	ErrInvalidURL        = "invalid URL structure"
	ErrProtocol          = "unsupported protocol scheme (http/https only)"
	ErrICalEncode        = "failed to encode iCalendar data"
	ErrJSONEncode        = "failed to encode upcoming birthdays"
	ErrLogFile           = "failed to open log file"
	ErrCacheDir          = "could not determine user cache dir"
	ErrCreateDir         = "could not create app cache dir"
	ErrAppFailed         = "application failed unexpectedly"
	ErrWriteResp         = "failed to write response body"
	ErrLocalesAccess     = "failed to access embedded locales"
	ErrLocaleLoad        = "failed to load locale file"
	ErrTrayNotSupported  = "system tray not supported on this platform/driver"
	ErrNotifyFailed      = "failed to deliver notification"
	ErrQueryFailed       = "roster query rejected"
	ErrCardInvalid       = "birthday card rejected"
	ErrUpcomingList      = "failed to list upcoming birthdays"
	ErrUpcomingCount     = "upcoming count must not be negative"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Birthday feed initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary       = "Birthday: %s"
	FallbackTrayLabel     = "Birthday Hub"
	FallbackTrayError     = "Birthday Hub: roster error"
	FallbackTrayDefault   = "Birthday Hub (%d today)"
	FallbackReminderTitle = "Upcoming birthday"
	FallbackReminderBody  = "%s's birthday is in %d day(s) (%s)"
	FallbackOnDayTitle    = "Birthday today!"
	FallbackOnDayBody     = "It's %s's birthday today. Celebrate!"
	FallbackDigestTitle   = "Birthday digest"
	FallbackDigestLine    = "%s - %s"
	FallbackDigestSep     = "\n"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	MsgPortBusy       = "Port %s is busy or unavailable."

	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgLoadStarted     = "Roster load started"
	MsgLoadSuccess     = "Roster loaded"
	MsgLoadFailed      = "Roster load failed"
	MsgLoadRequested   = "Roster reload requested"
	MsgSkippedEmptyDOB = "Skipping roster entry without a birthday"
	MsgSkippedBadDOB   = "Skipping roster entry with an invalid birthday"
	MsgSkippedNoName   = "Skipping roster entry without a name"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgDuplicateID     = "Duplicate record id in roster"
	MsgBdayToday       = "Birthday found today"
	MsgRosterApplied   = "Roster applied"
	MsgWorkerStart     = "Background worker started"
	MsgWorkerStop      = "Worker stopping due to context cancellation"
	MsgSettingsLoaded  = "Settings loaded"
	MsgSettingsMissing = "No stored settings, using defaults"
	MsgSettingsCorrupt = "Stored settings unreadable, using defaults"
	MsgSettingsSaved   = "Settings saved"
	MsgSettingsRepair  = "Stored settings out of range, repaired"
	MsgNotifySent      = "Notification sent"
	MsgNotifySkipped   = "Notification already sent today"
	MsgEmailNoTrans    = "Email notifications requested but no mail transport is configured"
	MsgCountdownStart  = "Countdown started"
	MsgCountdownDone   = "Countdown reached its target"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Feed cache updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassFail        = "Password retrieval failed (might be empty)"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgThemeApplied    = "Theme applied"
	MsgOpenDashboard   = "Opening dashboard window"
	MsgOpenSettings    = "Opening settings window"
	MsgOpenCardGen     = "Opening card generator"
	MsgWindowFocus     = "Window already open, requesting focus"
	MsgSettingsInvalid = "Settings rejected"
	MsgSettingsSaving  = "Saving preferences"
	MsgCredsSaveFail   = "Failed to save credentials to keyring"
	MsgCardGenerated   = "Birthday card generated"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeyName      = "name"
	LogKeyID        = "id"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyRaw       = "entries_raw"
	LogKeyRecords   = "records"
	LogKeyDropped   = "entries_dropped"
	LogKeyToday     = "birthdays_today"
	LogKeyCount     = "count"
	LogKeyKind      = "kind"
	LogKeyDate      = "date"
	LogKeyTarget    = "target"
	LogKeyTheme     = "theme"
	LogKeyView      = "view"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyRoute     = "route"
	LogKeyDuration  = "duration_ms"
	LogKeyManual    = "manual"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI        = "ui"
	CompUISet     = "ui_settings"
	CompUICard    = "ui_card"
	CompEngine    = "engine"
	CompCountdown = "countdown"
	CompRoster    = "roster"
	CompSettings  = "settings"
	CompNotify    = "notify"
	CompServer    = "server"
	CompFetcher   = "fetcher"
	CompWorker    = "worker"
	CompMain      = "main"
	CompI18n      = "i18n"
)

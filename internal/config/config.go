package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr        string
	LogLevel        string
	ShutdownTimeout time.Duration
	NotifyTimeout   time.Duration

	StorePath string

	OpeningHour    int
	ClosingHour    int
	LunchStartHour int
	LunchEndHour   int
	SlotMinutes    int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	AdminEmail   string

	ClinicName    string
	DoctorName    string
	ClinicEmail   string
	ClinicPhone   string
	ClinicWebsite string
}

func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CLINICDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", "0.0.0.0:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("shutdown.timeout", "10s")
	v.SetDefault("notify.timeout", "10s")

	v.SetDefault("store.path", "appointments.csv")

	v.SetDefault("schedule.opening_hour", 9)
	v.SetDefault("schedule.closing_hour", 21)
	v.SetDefault("schedule.lunch_start_hour", 13)
	v.SetDefault("schedule.lunch_end_hour", 15)
	v.SetDefault("schedule.slot_minutes", 15)

	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("mail.from", "clinic@example.com")
	v.SetDefault("mail.admin", "admin@example.com")

	v.SetDefault("clinic.name", "Community Physiotherapy Clinic")
	v.SetDefault("clinic.doctor_name", "")
	v.SetDefault("clinic.email", "clinic@example.com")
	v.SetDefault("clinic.phone", "")
	v.SetDefault("clinic.website", "")

	_ = v.BindEnv("http.addr", "CLINICDESK_HTTP_ADDR", "HTTP_ADDR")
	_ = v.BindEnv("log.level", "CLINICDESK_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("shutdown.timeout", "CLINICDESK_SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT")
	_ = v.BindEnv("notify.timeout", "CLINICDESK_NOTIFY_TIMEOUT")
	_ = v.BindEnv("store.path", "CLINICDESK_STORE_PATH", "APPOINTMENTS_FILE")
	_ = v.BindEnv("schedule.opening_hour", "CLINICDESK_SCHEDULE_OPENING_HOUR")
	_ = v.BindEnv("schedule.closing_hour", "CLINICDESK_SCHEDULE_CLOSING_HOUR")
	_ = v.BindEnv("schedule.lunch_start_hour", "CLINICDESK_SCHEDULE_LUNCH_START_HOUR")
	_ = v.BindEnv("schedule.lunch_end_hour", "CLINICDESK_SCHEDULE_LUNCH_END_HOUR")
	_ = v.BindEnv("schedule.slot_minutes", "CLINICDESK_SCHEDULE_SLOT_MINUTES")
	_ = v.BindEnv("smtp.host", "CLINICDESK_SMTP_HOST", "SMTP_HOST")
	_ = v.BindEnv("smtp.port", "CLINICDESK_SMTP_PORT", "SMTP_PORT")
	_ = v.BindEnv("smtp.username", "CLINICDESK_SMTP_USERNAME", "SMTP_USERNAME")
	_ = v.BindEnv("smtp.password", "CLINICDESK_SMTP_PASSWORD", "SMTP_PASSWORD")
	_ = v.BindEnv("mail.from", "CLINICDESK_MAIL_FROM", "MAIL_FROM")
	_ = v.BindEnv("mail.admin", "CLINICDESK_MAIL_ADMIN", "ADMIN_EMAIL")
	_ = v.BindEnv("clinic.name", "CLINICDESK_CLINIC_NAME")
	_ = v.BindEnv("clinic.doctor_name", "CLINICDESK_CLINIC_DOCTOR_NAME")
	_ = v.BindEnv("clinic.email", "CLINICDESK_CLINIC_EMAIL")
	_ = v.BindEnv("clinic.phone", "CLINICDESK_CLINIC_PHONE")
	_ = v.BindEnv("clinic.website", "CLINICDESK_CLINIC_WEBSITE")

	shutdownTimeout, err := time.ParseDuration(v.GetString("shutdown.timeout"))
	if err != nil {
		return Config{}, err
	}
	notifyTimeout, err := time.ParseDuration(v.GetString("notify.timeout"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPAddr:        strings.TrimSpace(v.GetString("http.addr")),
		LogLevel:        v.GetString("log.level"),
		ShutdownTimeout: shutdownTimeout,
		NotifyTimeout:   notifyTimeout,

		StorePath: v.GetString("store.path"),

		OpeningHour:    v.GetInt("schedule.opening_hour"),
		ClosingHour:    v.GetInt("schedule.closing_hour"),
		LunchStartHour: v.GetInt("schedule.lunch_start_hour"),
		LunchEndHour:   v.GetInt("schedule.lunch_end_hour"),
		SlotMinutes:    v.GetInt("schedule.slot_minutes"),

		SMTPHost:     v.GetString("smtp.host"),
		SMTPPort:     v.GetInt("smtp.port"),
		SMTPUsername: v.GetString("smtp.username"),
		SMTPPassword: v.GetString("smtp.password"),
		MailFrom:     v.GetString("mail.from"),
		AdminEmail:   v.GetString("mail.admin"),

		ClinicName:    v.GetString("clinic.name"),
		DoctorName:    v.GetString("clinic.doctor_name"),
		ClinicEmail:   v.GetString("clinic.email"),
		ClinicPhone:   v.GetString("clinic.phone"),
		ClinicWebsite: v.GetString("clinic.website"),
	}, nil
}

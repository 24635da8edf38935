package config

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ListenAddress string `mapstructure:"listen_address"`

	// AdminEmails is a comma-separated allow-list of emails promoted to
	// admin on first resolution. Read once at startup.
	AdminEmails     string `mapstructure:"admin_emails"`
	SuperadminEmail string `mapstructure:"superadmin_email"`

	IdentityAPIHost       string `mapstructure:"identity_api_host"`
	IdentityAPIKey        string `mapstructure:"identity_api_key"`
	IdentityWebhookSecret string `mapstructure:"identity_webhook_secret"`

	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`

	PostgresDSN string `mapstructure:"postgres_dsn"`
}

func New() *Config {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		logrus.Fatalf("unmarshalling config: %v", err)
	}
	return cfg
}

// AdminEmailList splits the configured allow-list, trimming blanks.
func (c *Config) AdminEmailList() []string {
	var emails []string
	for _, e := range strings.Split(c.AdminEmails, ",") {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}

func SetupCommon() {
	viper.SetDefault("listen_address", ":8080")
	viper.SetDefault("identity_api_host", "api.identity.example.com")
	viper.SetEnvPrefix("TECHNOHACK")

	viper.MustBindEnv("postgres_dsn")
	viper.MustBindEnv("identity_api_key")
	viper.AutomaticEnv()
}

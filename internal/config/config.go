package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Host, User, Password, DBName, SSLMode string
	Port                                  int
}

type DiscordConfig struct {
	Token            string
	Prefix           string
	GuildID          string
	ModChannelID     string
	StorageChannelID string
	MembershipRoleID string
}

// SMTPConfig drives the optional moderator e-mail notification.
// Leaving Host empty disables it.
type SMTPConfig struct {
	Host     string
	Port     int
	From, To string
}

type Config struct {
	WebHost string
	WebPort int

	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	EvidenceTimeout  time.Duration
	CardCleanupDelay time.Duration

	Discord DiscordConfig
	DB      DBConfig
	SMTP    SMTPConfig
}

func Load() (Config, error) {

	viper.SetDefault("web.host", "0.0.0.0")
	viper.SetDefault("web.port", 8080)
	viper.SetDefault("discord.prefix", "!")
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("verify.evidence_timeout", "300s")
	viper.SetDefault("verify.card_cleanup_delay", "5s")
	viper.SetDefault("smtp.port", 25)

	_ = viper.ReadInConfig() // ignore missing config file

	c := Config{
		WebHost:           viper.GetString("web.host"),
		WebPort:           viper.GetInt("web.port"),
		JWTSecret:         viper.GetString("jwt_secret"),
		AdminEmail:        viper.GetString("admin.email"),
		AdminPasswordHash: viper.GetString("admin.password_hash"),
		EvidenceTimeout:   viper.GetDuration("verify.evidence_timeout"),
		CardCleanupDelay:  viper.GetDuration("verify.card_cleanup_delay"),
		Discord: DiscordConfig{
			Token:            viper.GetString("discord.token"),
			Prefix:           viper.GetString("discord.prefix"),
			GuildID:          viper.GetString("discord.guild_id"),
			ModChannelID:     viper.GetString("discord.mod_channel_id"),
			StorageChannelID: viper.GetString("discord.storage_channel_id"),
			MembershipRoleID: viper.GetString("discord.membership_role_id"),
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
			SSLMode:  viper.GetString("db.sslmode"),
		},
		SMTP: SMTPConfig{
			Host: viper.GetString("smtp.host"),
			Port: viper.GetInt("smtp.port"),
			From: viper.GetString("smtp.from"),
			To:   viper.GetString("smtp.to"),
		},
	}

	// ---- OVERRIDE WITH ENV VARS (STRICT) ----
	if v := os.Getenv("MUJBOT_DISCORD_TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv("MUJBOT_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("MUJBOT_DB_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &c.DB.Port)
	}
	if v := os.Getenv("MUJBOT_DB_USER"); v != "" {
		c.DB.User = v
	}
	if v := os.Getenv("MUJBOT_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("MUJBOT_DB_NAME"); v != "" {
		c.DB.DBName = v
	}
	if v := os.Getenv("MUJBOT_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("MUJBOT_ADMIN_EMAIL"); v != "" {
		c.AdminEmail = v
	}
	if v := os.Getenv("MUJBOT_ADMIN_PASSWORD_HASH"); v != "" {
		c.AdminPasswordHash = v
	}

	if c.Discord.Token == "" {
		return Config{}, fmt.Errorf("discord token is not configured")
	}
	if c.Discord.GuildID == "" || c.Discord.ModChannelID == "" ||
		c.Discord.StorageChannelID == "" || c.Discord.MembershipRoleID == "" {
		return Config{}, fmt.Errorf("discord guild, mod channel, storage channel and membership role must all be configured")
	}

	return c, nil
}

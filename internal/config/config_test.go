package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredDiscordKeys() {
	viper.Set("discord.token", "file-token")
	viper.Set("discord.guild_id", "guild")
	viper.Set("discord.mod_channel_id", "mod-channel")
	viper.Set("discord.storage_channel_id", "storage-channel")
	viper.Set("discord.membership_role_id", "member-role")
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	setRequiredDiscordKeys()

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", c.WebHost)
	assert.Equal(t, 8080, c.WebPort)
	assert.Equal(t, "!", c.Discord.Prefix)
	assert.Equal(t, 300*time.Second, c.EvidenceTimeout)
	assert.Equal(t, 5*time.Second, c.CardCleanupDelay)
	assert.Equal(t, "disable", c.DB.SSLMode)
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	setRequiredDiscordKeys()
	viper.Set("db.host", "file-host")

	t.Setenv("MUJBOT_DISCORD_TOKEN", "env-token")
	t.Setenv("MUJBOT_DB_HOST", "env-host")
	t.Setenv("MUJBOT_DB_PORT", "5433")
	t.Setenv("MUJBOT_JWT_SECRET", "env-secret")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-token", c.Discord.Token)
	assert.Equal(t, "env-host", c.DB.Host)
	assert.Equal(t, 5433, c.DB.Port)
	assert.Equal(t, "env-secret", c.JWTSecret)
}

func TestLoadRequiresDiscordSettings(t *testing.T) {
	viper.Reset()

	_, err := Load()
	assert.Error(t, err, "missing token must be rejected")

	viper.Reset()
	viper.Set("discord.token", "tok")
	_, err = Load()
	assert.Error(t, err, "missing channel/role ids must be rejected")
}

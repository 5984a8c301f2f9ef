package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvProvider(t *testing.T) {
	t.Setenv("TESTCFG_DB_HOST", "localhost")
	t.Setenv("TESTCFG_DB_PORT", "5432")
	t.Setenv("TESTCFG_FEATURE_ON", "true")

	p := NewEnvProvider("TESTCFG_")
	ctx := context.Background()

	host, err := p.GetString(ctx, "DB_HOST")
	require.NoError(t, err)
	assert.Equal(t, "localhost", host)

	port, err := p.GetInt(ctx, "DB_PORT")
	require.NoError(t, err)
	assert.Equal(t, 5432, port)

	on, err := p.GetBool(ctx, "FEATURE_ON")
	require.NoError(t, err)
	assert.True(t, on)

	_, err = p.GetString(ctx, "MISSING")
	assert.Error(t, err)
}

func TestCurrentEnvironmentDefaultsToDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "")
	assert.Equal(t, Development, NewEnvProvider("").GetEnvironment())

	t.Setenv("APP_ENV", "production")
	assert.Equal(t, Production, NewEnvProvider("").GetEnvironment())
}

func TestValidateSecretSchema(t *testing.T) {
	valid := map[string]string{
		"DB_HOST":     "db.example.com",
		"DB_PORT":     "5432",
		"DB_USER":     "app",
		"DB_PASSWORD": "secret",
		"DB_NAME":     "nestedset",
		"DB_SSLMODE":  "require",
	}
	assert.NoError(t, validateSecretSchema(valid))

	missing := map[string]string{"DB_HOST": "db.example.com"}
	err := validateSecretSchema(missing)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	badPort := map[string]string{}
	for k, v := range valid {
		badPort[k] = v
	}
	badPort["DB_PORT"] = "not-a-number"
	require.ErrorAs(t, validateSecretSchema(badPort), &verr)
	assert.Equal(t, "DB_PORT", verr.Field)
}

func validConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     5432,
		User:     "app",
		Password: "Sup3r-Secret-Pw!",
		DBName:   "nestedset",
		SSLMode:  "require",
	}
}

func TestDatabaseConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate(Development))
	assert.NoError(t, validConfig().Validate(Production))

	cases := []struct {
		name   string
		mutate func(*DatabaseConfig)
		env    Environment
		field  string
	}{
		{"empty host", func(c *DatabaseConfig) { c.Host = "" }, Development, "Host"},
		{"bad port", func(c *DatabaseConfig) { c.Port = 0 }, Development, "Port"},
		{"huge port", func(c *DatabaseConfig) { c.Port = 70000 }, Development, "Port"},
		{"empty user", func(c *DatabaseConfig) { c.User = "" }, Development, "User"},
		{"empty password", func(c *DatabaseConfig) { c.Password = "" }, Development, "Password"},
		{"short production password", func(c *DatabaseConfig) { c.Password = "Ab1!" }, Production, "Password"},
		{"production password without digits", func(c *DatabaseConfig) { c.Password = "NoDigitsHere!!!" }, Production, "Password"},
		{"empty db name", func(c *DatabaseConfig) { c.DBName = "" }, Development, "DBName"},
		{"db name starts with digit", func(c *DatabaseConfig) { c.DBName = "1bad" }, Development, "DBName"},
		{"unknown ssl mode", func(c *DatabaseConfig) { c.SSLMode = "maybe" }, Development, "SSLMode"},
		{"ssl disabled in production", func(c *DatabaseConfig) { c.SSLMode = "disable" }, Production, "SSLMode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate(tc.env)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestGetDatabaseConfig(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "local-password")
	t.Setenv("DB_NAME", "nestedset")
	t.Setenv("DB_SSLMODE", "disable")

	cfg, err := GetDatabaseConfig(context.Background(), NewEnvProvider(""))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
}

func TestGetDatabaseConfigMissingHost(t *testing.T) {
	t.Setenv("DB_HOST", "")

	_, err := GetDatabaseConfig(context.Background(), NewEnvProvider("TESTCFG_MISSING_"))
	assert.Error(t, err)
}

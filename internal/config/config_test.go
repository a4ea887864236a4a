package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ricecart", cfg.App.Name)
	assert.Equal(t, "http://localhost:8080/", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, "INR", cfg.Checkout.Currency)
	assert.Equal(t, "127.0.0.1", cfg.Checkout.CallbackHost)
	assert.False(t, cfg.Receipt.Enabled)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_API_URL", "https://api.example.com")
	t.Setenv("STORE_API_TIMEOUT", "10s")
	t.Setenv("LOCALSTORE_DB", "3")
	t.Setenv("RECEIPT_ENABLED", "true")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 3, cfg.LocalStore.DB)
	assert.True(t, cfg.Receipt.Enabled)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("STORE_API_TIMEOUT", "soon")
	t.Setenv("LOCALSTORE_DB", "three")
	t.Setenv("RECEIPT_ENABLED", "yep")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 0, cfg.LocalStore.DB)
	assert.False(t, cfg.Receipt.Enabled)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			API:        APIConfig{BaseURL: "http://localhost:8080"},
			LocalStore: LocalStoreConfig{Host: "localhost"},
			Checkout:   CheckoutConfig{Currency: "INR", CallbackPort: "8972"},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.API.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.API.BaseURL = "localhost:8080"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.LocalStore.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Checkout.Currency = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Checkout.CallbackPort = ""
	assert.Error(t, cfg.Validate())
}

func TestComposedAddresses(t *testing.T) {
	cfg := &Config{
		LocalStore: LocalStoreConfig{Host: "localhost", Port: "6379"},
		Checkout: CheckoutConfig{
			CallbackHost: "127.0.0.1",
			CallbackPort: "8972",
			CallbackPath: "/callback",
		},
	}
	assert.Equal(t, "localhost:6379", cfg.GetLocalStoreAddr())
	assert.Equal(t, "http://127.0.0.1:8972/callback", cfg.GetCallbackURL())
}

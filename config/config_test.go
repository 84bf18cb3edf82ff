package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s failed: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		}
	})
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	setEnv(t, "MYSQL_DSN", "root:root@tcp(localhost:3306)/tripay?parseTime=true")
	setEnv(t, "TRIPAY_MERCHANT_CODE", "T1234")
	setEnv(t, "TRIPAY_API_KEY", "api-key-1")
	setEnv(t, "TRIPAY_PRIVATE_KEY", "private-key-1")
	setEnv(t, "TRIPAY_PAYMENT_CHANNELS", "BRIVA,QRIS")
	setEnv(t, "TRIPAY_CALLBACK_URL", "https://shop.example.com/webhooks/tripay")
}

func TestLoadRequiresMySQLDSN(t *testing.T) {
	setRequiredEnv(t)
	unsetEnv(t, "MYSQL_DSN")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing MYSQL_DSN")
	}
}

func TestLoadRequiresTripayCredentials(t *testing.T) {
	setRequiredEnv(t)
	unsetEnv(t, "TRIPAY_PRIVATE_KEY")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing TRIPAY_PRIVATE_KEY")
	}
}

func TestLoadRequiresCallbackURL(t *testing.T) {
	setRequiredEnv(t)
	unsetEnv(t, "TRIPAY_CALLBACK_URL")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing TRIPAY_CALLBACK_URL")
	}
}

func TestLoadRequiresPaymentChannels(t *testing.T) {
	setRequiredEnv(t)
	setEnv(t, "TRIPAY_PAYMENT_CHANNELS", " , ,")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for empty TRIPAY_PAYMENT_CHANNELS")
	}
}

func TestLoadRejectsExpiryOutOfRange(t *testing.T) {
	setRequiredEnv(t)
	for _, value := range []string{"0", "8", "-1"} {
		setEnv(t, "TRIPAY_EXPIRES_AFTER_DAYS", value)
		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for TRIPAY_EXPIRES_AFTER_DAYS=%s", value)
		}
		if !strings.Contains(err.Error(), "TRIPAY_EXPIRES_AFTER_DAYS") {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	for _, key := range []string{
		"APP_SERVICE_NAME", "HTTP_HOST", "HTTP_PORT", "LOG_LEVEL",
		"TRIPAY_SANDBOX_MODE", "TRIPAY_EXPIRES_AFTER_DAYS", "TRIPAY_CHECKOUT_LABEL",
		"TRIPAY_RETURN_URL", "TRIPAY_MERCHANT_REF_PREFIX", "TRIPAY_HTTP_TIMEOUT_SECONDS",
		"ORDERS_JOB_BATCH_SIZE", "ORDERS_EXPIRE_PENDING_INTERVAL_MINUTES",
	} {
		unsetEnv(t, key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.ServiceName != "tripay-service" {
		t.Fatalf("unexpected app service name: %s", cfg.App.ServiceName)
	}
	if cfg.HTTP.Host != "0.0.0.0" || cfg.HTTP.Port != "8080" {
		t.Fatalf("unexpected http config: %+v", cfg.HTTP)
	}
	if cfg.Tripay.SandboxMode {
		t.Fatal("expected production mode by default")
	}
	if cfg.Tripay.ExpiresAfterDays != 1 {
		t.Fatalf("unexpected expiry days: %d", cfg.Tripay.ExpiresAfterDays)
	}
	if cfg.Tripay.MerchantRefPrefix != "EDD" {
		t.Fatalf("unexpected merchant ref prefix: %s", cfg.Tripay.MerchantRefPrefix)
	}
	if cfg.Tripay.CheckoutLabel != "TriPay Payment" {
		t.Fatalf("unexpected checkout label: %s", cfg.Tripay.CheckoutLabel)
	}
	if cfg.Tripay.HTTPTimeout != 120*time.Second {
		t.Fatalf("unexpected http timeout: %v", cfg.Tripay.HTTPTimeout)
	}
	if cfg.Orders.JobBatchSize != 100 {
		t.Fatalf("unexpected job batch size: %d", cfg.Orders.JobBatchSize)
	}
	if cfg.Jobs.ExpirePendingInterval != 5*time.Minute {
		t.Fatalf("unexpected expire interval: %v", cfg.Jobs.ExpirePendingInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	setEnv(t, "APP_SERVICE_NAME", "tripay-test")
	setEnv(t, "HTTP_PORT", "8181")
	setEnv(t, "MYSQL_MAX_OPEN_CONNS", "20")
	setEnv(t, "MYSQL_MAX_IDLE_CONNS", "8")
	setEnv(t, "MYSQL_CONN_MAX_LIFETIME_MINUTES", "40")
	setEnv(t, "TRIPAY_SANDBOX_MODE", "true")
	setEnv(t, "TRIPAY_EXPIRES_AFTER_DAYS", "7")
	setEnv(t, "TRIPAY_PAYMENT_CHANNELS", " BRIVA , QRIS ,OVO")
	setEnv(t, "TRIPAY_MERCHANT_REF_PREFIX", "SHOP")
	setEnv(t, "TRIPAY_HTTP_TIMEOUT_SECONDS", "30")
	setEnv(t, "ORDERS_JOB_BATCH_SIZE", "25")
	setEnv(t, "ORDERS_EXPIRE_PENDING_INTERVAL_MINUTES", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.App.ServiceName != "tripay-test" || cfg.HTTP.Port != "8181" {
		t.Fatalf("unexpected app config: %+v %+v", cfg.App, cfg.HTTP)
	}
	if cfg.MySQL.MaxOpenConns != 20 || cfg.MySQL.MaxIdleConns != 8 {
		t.Fatalf("unexpected mysql pool config: %+v", cfg.MySQL)
	}
	if cfg.MySQL.ConnMaxLifetime != 40*time.Minute {
		t.Fatalf("unexpected mysql lifetime: %v", cfg.MySQL.ConnMaxLifetime)
	}
	if !cfg.Tripay.SandboxMode {
		t.Fatal("expected sandbox mode")
	}
	if cfg.Tripay.ExpiresAfterDays != 7 {
		t.Fatalf("unexpected expiry days: %d", cfg.Tripay.ExpiresAfterDays)
	}
	if len(cfg.Tripay.PaymentChannels) != 3 || cfg.Tripay.PaymentChannels[1] != "QRIS" {
		t.Fatalf("unexpected payment channels: %v", cfg.Tripay.PaymentChannels)
	}
	if cfg.Tripay.MerchantRefPrefix != "SHOP" {
		t.Fatalf("unexpected merchant ref prefix: %s", cfg.Tripay.MerchantRefPrefix)
	}
	if cfg.Tripay.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected http timeout: %v", cfg.Tripay.HTTPTimeout)
	}
	if cfg.Orders.JobBatchSize != 25 {
		t.Fatalf("unexpected job batch size: %d", cfg.Orders.JobBatchSize)
	}
	if cfg.Jobs.ExpirePendingInterval != 15*time.Minute {
		t.Fatalf("unexpected expire interval: %v", cfg.Jobs.ExpirePendingInterval)
	}
}

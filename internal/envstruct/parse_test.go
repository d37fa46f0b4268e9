package envstruct_test

import (
	"errors"
	"testing"

	"github.com/jkarvonen/trainwell/internal/envstruct"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestPopulate(t *testing.T) {
	type config struct {
		DatabaseURL   string `env:"TRAINWELL_SQLITE_URL" envDefault:":memory:"`
		UserID        string `env:"TRAINWELL_USER_ID"`
		SessionLength int    `env:"TRAINWELL_SESSION_MINUTES" envDefault:"60"`
	}

	t.Run("values from environment", func(t *testing.T) {
		var cfg config
		err := envstruct.Populate(&cfg, lookupFrom(map[string]string{
			"TRAINWELL_SQLITE_URL":      "./trainwell.sqlite3",
			"TRAINWELL_USER_ID":         "user-1",
			"TRAINWELL_SESSION_MINUTES": "45",
		}))
		if err != nil {
			t.Fatalf("Populate returned error: %v", err)
		}
		if cfg.DatabaseURL != "./trainwell.sqlite3" {
			t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
		}
		if cfg.UserID != "user-1" {
			t.Errorf("UserID = %q", cfg.UserID)
		}
		if cfg.SessionLength != 45 {
			t.Errorf("SessionLength = %d, want 45", cfg.SessionLength)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		var cfg config
		err := envstruct.Populate(&cfg, lookupFrom(map[string]string{
			"TRAINWELL_USER_ID": "user-1",
		}))
		if err != nil {
			t.Fatalf("Populate returned error: %v", err)
		}
		if cfg.DatabaseURL != ":memory:" {
			t.Errorf("DatabaseURL = %q, want :memory:", cfg.DatabaseURL)
		}
		if cfg.SessionLength != 60 {
			t.Errorf("SessionLength = %d, want 60", cfg.SessionLength)
		}
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg config
		err := envstruct.Populate(&cfg, lookupFrom(nil))
		if !errors.Is(err, envstruct.ErrEnvNotSet) {
			t.Errorf("expected ErrEnvNotSet, got %v", err)
		}
	})

	t.Run("invalid int", func(t *testing.T) {
		var cfg config
		err := envstruct.Populate(&cfg, lookupFrom(map[string]string{
			"TRAINWELL_USER_ID":         "user-1",
			"TRAINWELL_SESSION_MINUTES": "forty-five",
		}))
		if err == nil {
			t.Error("expected error for unparseable int")
		}
	})

	t.Run("not a struct pointer", func(t *testing.T) {
		var s string
		if err := envstruct.Populate(&s, lookupFrom(nil)); err == nil {
			t.Error("expected error for non-struct value")
		}
		if err := envstruct.Populate(config{}, lookupFrom(nil)); err == nil {
			t.Error("expected error for non-pointer value")
		}
	})
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gamehaven/telemetry/pkg/models"
)

var (
	errListenAddrRequired = errors.New("listen_addr is required")
	errBadRecentLimit     = errors.New("recent_limit must not be negative")
	errBadLiveInterval    = errors.New("live_interval must not be negative")
)

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// TelemetryConfig configures the reporting daemon.
type TelemetryConfig struct {
	ListenAddr string `json:"listen_addr"` // e.g., :8090
	// DBPath is the SQLite file holding metric records. Empty selects the
	// in-memory ring store (records do not survive restarts).
	DBPath       string                 `json:"db_path"`
	RecentLimit  int                    `json:"recent_limit,omitempty"` // read cap, default 1000
	AdminAPIKey  string                 `json:"admin_api_key,omitempty"`
	LiveInterval Duration               `json:"live_interval,omitempty"` // websocket push cadence, default 5s
	Collector    models.CollectorConfig `json:"collector"`
}

// Validate implements Validator.
func (c *TelemetryConfig) Validate() error {
	if c.ListenAddr == "" {
		return errListenAddrRequired
	}

	if c.RecentLimit < 0 {
		return errBadRecentLimit
	}

	if c.LiveInterval < 0 {
		return errBadLiveInterval
	}

	return nil
}

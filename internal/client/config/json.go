package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskdesk/internal/flagx"
	"github.com/dmitrijs2005/taskdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify durations either as
// strings like "4s" or as integer milliseconds. Pointers tell absent keys
// apart from zero values.
type JsonConfig struct {
	APIBaseURL    *string         `json:"api_base_url"`
	SessionStore  *string         `json:"session_store"`
	SessionDBPath *string         `json:"session_db_path"`
	ToastTTL      *timex.Duration `json:"toast_ttl"`
	HTTPTimeout   *timex.Duration `json:"http_timeout"`
	LogLevel      *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from -c/-config/--config or, failing that, the
// TASKDESK_CONFIG variable (see flagx.JsonConfigFlags). Without a path
// nothing is loaded. Only keys present in the file are applied.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.SessionStore != nil {
		cfg.SessionStore = *jc.SessionStore
	}
	if jc.SessionDBPath != nil {
		cfg.SessionDBPath = *jc.SessionDBPath
	}
	if jc.ToastTTL != nil {
		cfg.ToastTTL = jc.ToastTTL.Duration
	}
	if jc.HTTPTimeout != nil {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}

// Package config loads runtime configuration for the taskdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c/-config or the
//     TASKDESK_CONFIG variable.
//  3. Environment variables (see parseEnv), including a .env file in the
//     working directory.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     API base URL
//	-s string     session store: memory or sqlite
//	-d string     SQLite file for the sqlite session store
//	-t duration   notification lifetime
//	-r duration   per-request timeout
//	-l string     log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "4s" or
// integer milliseconds:
//
//	{
//	  "api_base_url": "http://localhost:8080/api/v1",
//	  "session_store": "sqlite",
//	  "session_db_path": "~/.taskdesk/session.db",
//	  "toast_ttl": "4s",
//	  "http_timeout": 0,
//	  "log_level": "info"
//	}
//
// # Environment
//
//	TASKDESK_API_URL, TASKDESK_SESSION_STORE, TASKDESK_SESSION_DB,
//	TASKDESK_TOAST_TTL, TASKDESK_HTTP_TIMEOUT, TASKDESK_LOG_LEVEL
package config

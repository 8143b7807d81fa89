package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args []string
		want func() Config
	}{
		{
			name: "no flags keeps values",
			args: []string{"testbin"},
			want: defaultConfig,
		},
		{
			name: "all flags",
			args: []string{"testbin", "-a", "http://h:1/api", "-s", "memory", "-d", "x.db", "-t", "1s", "-r", "5s", "-l", "error"},
			want: func() Config {
				return Config{
					APIBaseURL:    "http://h:1/api",
					SessionStore:  StoreMemory,
					SessionDBPath: "x.db",
					ToastTTL:      time.Second,
					HTTPTimeout:   5 * time.Second,
					LogLevel:      "error",
				}
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"testbin", "-c", "cfg.json", "-x", "-l=debug"},
			want: func() Config {
				c := defaultConfig()
				c.LogLevel = "debug"
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			got := defaultConfig()
			parseFlags(&got)
			if diff := cmp.Diff(tt.want(), got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("bad duration → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-t", "soon"}
		c := defaultConfig()
		require.Panics(t, func() { parseFlags(&c) })
	})
}

// Copyright (c) 2025, The Kubescenarios Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"testing"
	"time"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg := parseConfig()

	if cfg.Address != "" {
		t.Errorf("Address = %q, want all interfaces", cfg.Address)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.RateLimit != 100 || cfg.RateLimitBurst != 200 {
		t.Errorf("rate limit = %v burst %d, want 100 burst 200", cfg.RateLimit, cfg.RateLimitBurst)
	}

	wantTimeouts := map[string]struct {
		got, want time.Duration
	}{
		"read":     {cfg.ReadTimeout, 10 * time.Second},
		"write":    {cfg.WriteTimeout, 30 * time.Second},
		"idle":     {cfg.IdleTimeout, 120 * time.Second},
		"shutdown": {cfg.ShutdownTimeout, 30 * time.Second},
	}
	for name, tt := range wantTimeouts {
		if tt.got != tt.want {
			t.Errorf("%s timeout = %v, want %v", name, tt.got, tt.want)
		}
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Run("PORT", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		if cfg := parseConfig(); cfg.Port != 9090 {
			t.Errorf("Port = %d, want 9090", cfg.Port)
		}
	})

	t.Run("PORT not a number", func(t *testing.T) {
		t.Setenv("PORT", "eight-thousand")
		if cfg := parseConfig(); cfg.Port != 8080 {
			t.Errorf("Port = %d, want the default 8080", cfg.Port)
		}
	})

	t.Run("SHUTDOWN_TIMEOUT_SECONDS", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "55")
		if cfg := parseConfig(); cfg.ShutdownTimeout != 55*time.Second {
			t.Errorf("ShutdownTimeout = %v, want 55s", cfg.ShutdownTimeout)
		}
	})

	t.Run("SHUTDOWN_TIMEOUT_SECONDS must be positive", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "0")
		if cfg := parseConfig(); cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("ShutdownTimeout = %v, want the default 30s", cfg.ShutdownTimeout)
		}
	})
}

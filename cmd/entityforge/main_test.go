package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigSource(t *testing.T) {
	tests := []struct {
		name         string
		flagPath     string
		flagSet      bool
		env          string
		wantPath     string
		wantExplicit bool
	}{
		{"default", defaultConfigPath, false, "", defaultConfigPath, false},
		{"environment", defaultConfigPath, false, "/etc/ef.toml", "/etc/ef.toml", true},
		{"flag beats environment", "local.toml", true, "/etc/ef.toml", "local.toml", true},
		{"flag set to the default path", defaultConfigPath, true, "", defaultConfigPath, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, explicit := configSource(tt.flagPath, tt.flagSet, tt.env)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantExplicit, explicit)
		})
	}
}

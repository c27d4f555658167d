package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-s", "secret", "-a", ":4000"},
			allowedFlags: []string{"-s"},
			want:         []string{"-s", "secret"},
		},
		{
			name:         "equals form",
			args:         []string{"--config=medreminder.yaml", "-a", ":4000"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=medreminder.yaml"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-c", "-a", ":4000"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "repeated flag keeps order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/etc/medreminder.json", ConfigFileFlag([]string{"-c", "/etc/medreminder.json"}))
	assert.Equal(t, "/etc/medreminder.yaml", ConfigFileFlag([]string{"-a", ":4000", "-config", "/etc/medreminder.yaml"}))
	assert.Equal(t, "2.json", ConfigFileFlag([]string{"-c", "1.json", "-config", "2.json"}))
	assert.Empty(t, ConfigFileFlag([]string{"-x", "1"}))
}

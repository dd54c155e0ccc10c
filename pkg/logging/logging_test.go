package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{
			name:  "default",
			level: "",
		},
		{
			name:  "lowercase debug",
			level: "debug",
		},
		{
			name:    "invalid",
			level:   "loud",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tt.level)

			l, err := CommonLogger(NewConfig(`tests`))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

package connection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnect_NoAddress(t *testing.T) {
	tests := []struct {
		name    string
		connect func() error
	}{
		{
			name: "mongo",
			connect: func() error {
				_, err := new(MongoDB).Connect(context.Background())
				return err
			},
		},
		{
			name: "redis",
			connect: func() error {
				_, err := new(Redis).Connect(context.Background())
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.connect(), ErrNoURI)
		})
	}
}

package request

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientWriter_StatusCode(t *testing.T) {
	tests := []struct {
		name  string
		write func(w http.ResponseWriter)
		want  int
	}{
		{
			name:  "implicit",
			write: func(w http.ResponseWriter) { _, _ = w.Write([]byte("ok")) },
			want:  http.StatusOK,
		},
		{
			name:  "explicit",
			write: func(w http.ResponseWriter) { w.WriteHeader(http.StatusTeapot) },
			want:  http.StatusTeapot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			cw := NewClientWriter(rec)

			tt.write(cw)
			require.Equal(t, tt.want, cw.StatusCode())
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

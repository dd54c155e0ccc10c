package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil",
			err:  nil,
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "unknown message",
			err:  &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage}},
			want: true,
		},
		{
			name: "wrapped unknown member",
			err: fmt.Errorf("error getting member: %w", &discordgo.RESTError{
				Response: &http.Response{Status: "400 Bad Request", StatusCode: http.StatusBadRequest},
				Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember},
			}),
			want: true,
		},
		{
			name: "status 404 without body",
			err:  &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}},
			want: true,
		},
		{
			name: "missing permissions",
			err:  &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	err := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: 50007, Message: "Cannot send messages to this user"}}
	require.Equal(t, "50007: Cannot send messages to this user", Describe(err))
	require.Equal(t, "boom", Describe(errors.New("boom")))
}

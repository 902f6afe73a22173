package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name string
		env  Environment
		want string
	}{
		{"no host context", Environment{}, DefaultProductionOrigin},
		{"override wins", Environment{Override: "https://api.example.com", Host: "localhost"}, "https://api.example.com"},
		{"override trailing slash", Environment{Override: "https://api.example.com/"}, "https://api.example.com"},
		{"blank override ignored", Environment{Override: "   ", Host: "localhost"}, DefaultLocalOrigin},
		{"localhost", Environment{Host: "localhost"}, DefaultLocalOrigin},
		{"localhost with port", Environment{Host: "localhost:5173"}, DefaultLocalOrigin},
		{"loopback", Environment{Host: "127.0.0.1"}, DefaultLocalOrigin},
		{"loopback with port", Environment{Host: "127.0.0.1:3000"}, DefaultLocalOrigin},
		{"mdns host", Environment{Host: "noithat.local"}, DefaultLocalOrigin},
		{"upper case", Environment{Host: "LOCALHOST"}, DefaultLocalOrigin},
		{"public host", Environment{Host: "admin.noithat.vn"}, DefaultProductionOrigin},
		{"custom local origin", Environment{Host: "localhost", LocalOrigin: "http://localhost:9000/"}, "http://localhost:9000"},
		{"custom production origin", Environment{Host: "admin.noithat.vn", ProductionOrigin: "https://api.noithat.vn"}, "https://api.noithat.vn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBaseURL(tt.env)
			assert.Equal(t, tt.want, got)
			assert.False(t, strings.HasSuffix(got, "/"))
		})
	}
}

package auth

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryAuthenticate(t *testing.T) {
	a := NewInMemoryAuthenticator().WithUser("alice", "secret")

	tests := []struct {
		name      string
		principal Principal
		wantErr   bool
	}{
		{
			name:      "correct credentials",
			principal: BasicPrincipal{User: "alice", Password: "secret"},
		},
		{
			name:      "wrong password",
			principal: BasicPrincipal{User: "alice", Password: "wrong"},
			wantErr:   true,
		},
		{
			name:      "unknown user",
			principal: BasicPrincipal{User: "bob", Password: "secret"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := a.Authenticate(context.Background(), tt.principal)
			if tt.wantErr {
				if !errors.Is(err, ErrAuthenticationFailed) {
					t.Fatalf("Authenticate() error = %v, want ErrAuthenticationFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() unexpected error: %v", err)
			}
			if user.Name != "alice" {
				t.Errorf("Authenticate() user = %+v, want Name=alice", user)
			}
		})
	}
}

func TestInMemoryAuthenticateNoUsers(t *testing.T) {
	a := NewInMemoryAuthenticator()
	_, err := a.Authenticate(context.Background(), BasicPrincipal{User: "alice", Password: "secret"})
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("Authenticate() error = %v, want ErrAuthenticationFailed", err)
	}
}

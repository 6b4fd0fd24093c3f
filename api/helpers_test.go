package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/xraph/custos"
)

func TestMapErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"role not found", custos.ErrRoleNotFound, http.StatusNotFound},
		{"tenant not found", custos.ErrTenantNotFound, http.StatusNotFound},
		{"name required", custos.ErrNameRequired, http.StatusBadRequest},
		{"duplicate name", custos.ErrDuplicateName, http.StatusBadRequest},
		{"unknown permission", custos.ErrUnknownPermission, http.StatusBadRequest},
		{"role in use", custos.ErrRoleInUse, http.StatusBadRequest},
		{"system role protected", custos.ErrSystemRoleProtected, http.StatusForbidden},
		{"tenant inactive", custos.ErrTenantInactive, http.StatusForbidden},
		{"not a member", custos.ErrNotAMember, http.StatusForbidden},
		{"access denied", custos.ErrAccessDenied, http.StatusForbidden},
		{"store unavailable", custos.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(fmt.Errorf("%w: detail", tc.err))
			he, ok := mapped.(interface{ StatusCode() int })
			if !ok {
				t.Fatalf("expected an HTTP error, got %T", mapped)
			}
			if he.StatusCode() != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, he.StatusCode())
			}
		})
	}
}

package api

import (
	"errors"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/custos"
)

// mapError maps domain errors to Forge HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return forge.NotFound(err.Error())
	}
	if errors.Is(err, custos.ErrNameRequired) || errors.Is(err, custos.ErrDuplicateName) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, custos.ErrDuplicateSlug) || errors.Is(err, custos.ErrUnknownPermission) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, custos.ErrRoleInUse) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, custos.ErrSystemRoleProtected) {
		return forge.Forbidden(err.Error())
	}
	if errors.Is(err, custos.ErrTenantInactive) || errors.Is(err, custos.ErrNotAMember) {
		return forge.Forbidden(err.Error())
	}
	if errors.Is(err, custos.ErrAccessDenied) {
		return forge.Forbidden(err.Error())
	}
	if errors.Is(err, custos.ErrStoreUnavailable) {
		return forge.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, custos.ErrRoleNotFound) ||
		errors.Is(err, custos.ErrPermissionNotFound) ||
		errors.Is(err, custos.ErrTenantNotFound) ||
		errors.Is(err, custos.ErrAssignmentNotFound)
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

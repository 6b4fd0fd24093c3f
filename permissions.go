package custos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/custos/id"
	"github.com/xraph/custos/permission"
	"github.com/xraph/custos/store"
)

// PermissionInput carries the fields for seeding a catalog permission.
type PermissionInput struct {
	// Slug is the dot-separated capability name, e.g. "users.list" or
	// "supply.requests.approve". The final segment is the action, the
	// leading segments name the resource.
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// EnsurePermission creates a catalog permission if it does not already
// exist. Seeding the same slug twice is a no-op that returns the existing
// entry, so catalog seeds can run on every startup.
func (e *Engine) EnsurePermission(ctx context.Context, input PermissionInput) (*permission.Permission, error) {
	if input.Slug == "" {
		return nil, fmt.Errorf("%w: permission slug", ErrNameRequired)
	}

	existing, err := e.store.GetPermissionBySlug(ctx, input.Slug)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	resource, action := splitSlug(input.Slug)
	name := input.Name
	if name == "" {
		name = input.Slug
	}

	now := time.Now()
	p := &permission.Permission{
		ID:          id.NewPermissionID(),
		Slug:        input.Slug,
		Name:        name,
		Description: input.Description,
		Resource:    resource,
		Action:      action,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.store.CreatePermission(ctx, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return p, nil
}

// EnsurePermissions seeds a batch of catalog permissions.
func (e *Engine) EnsurePermissions(ctx context.Context, inputs []PermissionInput) error {
	for _, input := range inputs {
		if _, err := e.EnsurePermission(ctx, input); err != nil {
			return err
		}
	}
	return nil
}

// GetPermission retrieves a permission by ID.
func (e *Engine) GetPermission(ctx context.Context, permID id.PermissionID) (*permission.Permission, error) {
	p, err := e.store.GetPermission(ctx, permID)
	if err != nil {
		return nil, storeErr(err, ErrPermissionNotFound)
	}
	return p, nil
}

// GetPermissionBySlug retrieves a permission by its slug.
func (e *Engine) GetPermissionBySlug(ctx context.Context, slug string) (*permission.Permission, error) {
	p, err := e.store.GetPermissionBySlug(ctx, slug)
	if err != nil {
		return nil, storeErr(err, ErrPermissionNotFound)
	}
	return p, nil
}

// ListPermissions returns catalog permissions matching the filter.
func (e *Engine) ListPermissions(ctx context.Context, filter *permission.ListFilter) ([]*permission.Permission, error) {
	if filter == nil {
		filter = &permission.ListFilter{}
	}
	filter.Limit = e.config.listLimit(filter.Limit)

	perms, err := e.store.ListPermissions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return perms, nil
}

// splitSlug splits "supply.requests.approve" into resource
// "supply.requests" and action "approve". A slug without a dot is all
// action.
func splitSlug(slug string) (resource, action string) {
	i := strings.LastIndex(slug, ".")
	if i < 0 {
		return "", slug
	}
	return slug[:i], slug[i+1:]
}

package custos

import "time"

// Config holds configuration for the Custos engine.
type Config struct {
	// CacheTTL is the time-to-live for cached grants.
	// Zero means no caching.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// CascadeRoleDelete controls whether deleting a role also removes its
	// assignments. When disabled, deleting a role that still has
	// assignments fails with ErrRoleInUse. Defaults to true.
	CascadeRoleDelete *bool `json:"cascade_role_delete,omitempty"`

	// EnableAudit enables audit logging of mutations.
	// Defaults to true.
	EnableAudit *bool `json:"enable_audit,omitempty"`

	// DefaultListLimit is the page size applied when a list filter does
	// not set one. Defaults to 50.
	DefaultListLimit int `json:"default_list_limit,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	t := true
	return Config{
		CascadeRoleDelete: &t,
		EnableAudit:       &t,
		DefaultListLimit:  50,
	}
}

func (c Config) cascadeEnabled() bool { return c.CascadeRoleDelete == nil || *c.CascadeRoleDelete }
func (c Config) auditEnabled() bool   { return c.EnableAudit == nil || *c.EnableAudit }

func (c Config) listLimit(requested int) int {
	if requested > 0 {
		return requested
	}
	if c.DefaultListLimit > 0 {
		return c.DefaultListLimit
	}
	return 50
}

package custos

import "github.com/xraph/custos/id"

// ID is the primary identifier type for all Custos entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix

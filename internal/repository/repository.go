package repository

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"fwinventory/internal/domain"
)

// Filter restricts List to entities whose fields equal the given values.
// Keys are JSON field names; a nil value matches an absent optional field.
type Filter map[string]any

// Store is the uniform CRUD contract for one entity type
type Store[T any] interface {
	// Create validates e, assigns a new id and persists it
	Create(ctx context.Context, e *T) error
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	// Update applies a partial change and returns the stored result
	Update(ctx context.Context, id uuid.UUID, fields domain.Fields) (*T, error)
	// Delete removes the entity and applies cascade/nullify rules
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter) iter.Seq2[*T, error]
}

// Repository defines the interface for inventory data access
type Repository interface {
	Ports() Store[domain.Port]
	PortGroups() Store[domain.PortGroup]
	HardwareClasses() Store[domain.FirewallHardwareClass]
	Hardware() Store[domain.FirewallHardware]
	Firewalls() Store[domain.Firewall]
	PhysicalInterfaces() Store[domain.PhysicalInterface]
	LogicalInterfaces() Store[domain.LogicalInterface]
	HostTables() Store[domain.HostTable]
	Networks() Store[domain.Network]
	Hosts() Store[domain.Host]

	// Port group membership
	AddPortToGroup(ctx context.Context, groupID, portID uuid.UUID) error
	RemovePortFromGroup(ctx context.Context, groupID, portID uuid.UUID) error
	GroupPorts(ctx context.Context, groupID uuid.UUID) iter.Seq2[*domain.Port, error]
	PortGroupsOf(ctx context.Context, portID uuid.UUID) iter.Seq2[*domain.PortGroup, error]

	// Host table membership
	AddHostToTable(ctx context.Context, tableID, hostID uuid.UUID) error
	RemoveHostFromTable(ctx context.Context, tableID, hostID uuid.UUID) error
	AddNetworkToTable(ctx context.Context, tableID, networkID uuid.UUID) error
	RemoveNetworkFromTable(ctx context.Context, tableID, networkID uuid.UUID) error
	TableHosts(ctx context.Context, tableID uuid.UUID) iter.Seq2[*domain.Host, error]
	TableNetworks(ctx context.Context, tableID uuid.UUID) iter.Seq2[*domain.Network, error]
	HostTablesOfHost(ctx context.Context, hostID uuid.UUID) iter.Seq2[*domain.HostTable, error]
	HostTablesOfNetwork(ctx context.Context, networkID uuid.UUID) iter.Seq2[*domain.HostTable, error]

	// Atomically runs fn against a repository bound to one transaction.
	// Nothing fn wrote survives if it returns an error.
	Atomically(ctx context.Context, fn func(Repository) error) error

	// Close releases resources
	Close() error
}

// Collect drains a sequence into a slice, stopping at the first error
func Collect[T any](seq iter.Seq2[*T, error]) ([]*T, error) {
	var out []*T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

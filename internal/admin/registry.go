// Package admin lists the entity types a presentation layer may expose.
//
// The list is explicit and ordered; nothing registers itself at package
// init. Default returns every inventory type and Restrict narrows it to a
// configured subset.
package admin

import (
	"context"
	"fmt"

	"fwinventory/internal/domain"
	"fwinventory/internal/repository"
)

// ListFunc returns all entities of one type matching filter
type ListFunc func(ctx context.Context, repo repository.Repository, filter repository.Filter) ([]any, error)

// EntityType describes one exposed entity type
type EntityType struct {
	Name        string
	Description string
	List        ListFunc
}

// Registry holds an ordered set of exposed entity types
type Registry struct {
	types []EntityType
}

func entityType[T any](name, description string, store func(repository.Repository) repository.Store[T]) EntityType {
	return EntityType{
		Name:        name,
		Description: description,
		List: func(ctx context.Context, repo repository.Repository, filter repository.Filter) ([]any, error) {
			items, err := repository.Collect(store(repo).List(ctx, filter))
			if err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", name, err)
			}
			out := make([]any, len(items))
			for i, item := range items {
				out[i] = item
			}
			return out, nil
		},
	}
}

// Default returns a registry exposing every inventory entity type
func Default() *Registry {
	return &Registry{types: []EntityType{
		entityType(domain.EntityHardwareClass, "Families of firewall appliances", repository.Repository.HardwareClasses),
		entityType(domain.EntityHardware, "Appliance models", repository.Repository.Hardware),
		entityType(domain.EntityFirewall, "Deployed firewall units", repository.Repository.Firewalls),
		entityType(domain.EntityPhysicalInterface, "Hardware ports of a firewall", repository.Repository.PhysicalInterfaces),
		entityType(domain.EntityLogicalInterface, "Configured interfaces of a firewall", repository.Repository.LogicalInterfaces),
		entityType(domain.EntityPort, "TCP and UDP service ports", repository.Repository.Ports),
		entityType(domain.EntityPortGroup, "Named sets of ports", repository.Repository.PortGroups),
		entityType(domain.EntityNetwork, "Addressed network segments", repository.Repository.Networks),
		entityType(domain.EntityHost, "Individual addressed machines", repository.Repository.Hosts),
		entityType(domain.EntityHostTable, "Groupings of hosts and networks", repository.Repository.HostTables),
	}}
}

// Types returns the exposed types in order
func (r *Registry) Types() []EntityType {
	out := make([]EntityType, len(r.types))
	copy(out, r.types)
	return out
}

// Names returns the exposed type names in order
func (r *Registry) Names() []string {
	names := make([]string, len(r.types))
	for i, t := range r.types {
		names[i] = t.Name
	}
	return names
}

// Lookup finds an exposed type by name
func (r *Registry) Lookup(name string) (EntityType, bool) {
	for _, t := range r.types {
		if t.Name == name {
			return t, true
		}
	}
	return EntityType{}, false
}

// Restrict returns a registry exposing only the named types, keeping the
// receiver's order. An empty list keeps every type.
func (r *Registry) Restrict(names []string) (*Registry, error) {
	if len(names) == 0 {
		return &Registry{types: r.Types()}, nil
	}

	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := r.Lookup(name); !ok {
			return nil, fmt.Errorf("unknown entity type %q", name)
		}
		want[name] = true
	}

	restricted := &Registry{}
	for _, t := range r.types {
		if want[t.Name] {
			restricted.types = append(restricted.types, t)
		}
	}
	return restricted, nil
}

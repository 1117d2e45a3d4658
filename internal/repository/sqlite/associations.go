package sqlite

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"fwinventory/internal/domain"
)

// side is one end of a many-to-many join table
type side struct {
	column string // column in the join table
	table  string // entity table
	entity string
}

// association is a join table owned by neither side
type association struct {
	name  string
	table string
	left  side
	right side
}

var (
	portGroupPorts = association{
		name:  "port group membership",
		table: "port_group_ports",
		left:  side{column: "group_id", table: "port_groups", entity: domain.EntityPortGroup},
		right: side{column: "port_id", table: "ports", entity: domain.EntityPort},
	}
	hostTableHosts = association{
		name:  "host table host",
		table: "host_table_hosts",
		left:  side{column: "table_id", table: "host_tables", entity: domain.EntityHostTable},
		right: side{column: "host_id", table: "hosts", entity: domain.EntityHost},
	}
	hostTableNetworks = association{
		name:  "host table network",
		table: "host_table_networks",
		left:  side{column: "table_id", table: "host_tables", entity: domain.EntityHostTable},
		right: side{column: "network_id", table: "networks", entity: domain.EntityNetwork},
	}
)

func mustExist(ctx context.Context, q querier, s side, id uuid.UUID) error {
	ok, err := exists(ctx, q, s.table, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.NotFoundError{Entity: s.entity, ID: id.String()}
	}
	return nil
}

// link records an association; linking an existing pair is a no-op
func (r *Repository) link(ctx context.Context, a association, left, right uuid.UUID) error {
	return r.write(ctx, func(q querier) error {
		if err := mustExist(ctx, q, a.left, left); err != nil {
			return err
		}
		if err := mustExist(ctx, q, a.right, right); err != nil {
			return err
		}
		query := fmt.Sprintf("INSERT OR IGNORE INTO %s (%s, %s) VALUES (?, ?)", a.table, a.left.column, a.right.column)
		if _, err := q.ExecContext(ctx, query, left, right); err != nil {
			return fmt.Errorf("failed to add %s: %w", a.name, err)
		}
		r.log.Debug("linked", "association", a.table, a.left.column, left, a.right.column, right)
		return nil
	})
}

func (r *Repository) unlink(ctx context.Context, a association, left, right uuid.UUID) error {
	return r.write(ctx, func(q querier) error {
		if err := mustExist(ctx, q, a.left, left); err != nil {
			return err
		}
		if err := mustExist(ctx, q, a.right, right); err != nil {
			return err
		}
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s = ?", a.table, a.left.column, a.right.column)
		res, err := q.ExecContext(ctx, query, left, right)
		if err != nil {
			return fmt.Errorf("failed to remove %s: %w", a.name, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &domain.NotFoundError{Entity: a.name, ID: left.String() + "/" + right.String()}
		}
		r.log.Debug("unlinked", "association", a.table, a.left.column, left, a.right.column, right)
		return nil
	})
}

// related lists the entities on the far side of an association. from is
// the side whose id is given; def describes the other side.
func related[T any](ctx context.Context, r *Repository, a association, from side, to side, id uuid.UUID, def *tableDef[T]) iter.Seq2[*T, error] {
	query := fmt.Sprintf(
		"SELECT %s FROM %s m JOIN %s a ON a.%s = m.id WHERE a.%s = ?",
		def.selectList("m"), to.table, a.table, to.column, from.column,
	)
	members := paginate(ctx, r, query, "m.id", []any{id}, def.scan, def.id)

	return func(yield func(*T, error) bool) {
		if err := mustExist(ctx, r.q(), from, id); err != nil {
			yield(nil, err)
			return
		}
		members(yield)
	}
}

// ============================================================================
// Port Groups
// ============================================================================

func (r *Repository) AddPortToGroup(ctx context.Context, groupID, portID uuid.UUID) error {
	return r.link(ctx, portGroupPorts, groupID, portID)
}

func (r *Repository) RemovePortFromGroup(ctx context.Context, groupID, portID uuid.UUID) error {
	return r.unlink(ctx, portGroupPorts, groupID, portID)
}

func (r *Repository) GroupPorts(ctx context.Context, groupID uuid.UUID) iter.Seq2[*domain.Port, error] {
	a := portGroupPorts
	return related(ctx, r, a, a.left, a.right, groupID, portTable)
}

func (r *Repository) PortGroupsOf(ctx context.Context, portID uuid.UUID) iter.Seq2[*domain.PortGroup, error] {
	a := portGroupPorts
	return related(ctx, r, a, a.right, a.left, portID, portGroupTable)
}

// ============================================================================
// Host Tables
// ============================================================================

func (r *Repository) AddHostToTable(ctx context.Context, tableID, hostID uuid.UUID) error {
	return r.link(ctx, hostTableHosts, tableID, hostID)
}

func (r *Repository) RemoveHostFromTable(ctx context.Context, tableID, hostID uuid.UUID) error {
	return r.unlink(ctx, hostTableHosts, tableID, hostID)
}

func (r *Repository) AddNetworkToTable(ctx context.Context, tableID, networkID uuid.UUID) error {
	return r.link(ctx, hostTableNetworks, tableID, networkID)
}

func (r *Repository) RemoveNetworkFromTable(ctx context.Context, tableID, networkID uuid.UUID) error {
	return r.unlink(ctx, hostTableNetworks, tableID, networkID)
}

func (r *Repository) TableHosts(ctx context.Context, tableID uuid.UUID) iter.Seq2[*domain.Host, error] {
	a := hostTableHosts
	return related(ctx, r, a, a.left, a.right, tableID, hostTable)
}

func (r *Repository) TableNetworks(ctx context.Context, tableID uuid.UUID) iter.Seq2[*domain.Network, error] {
	a := hostTableNetworks
	return related(ctx, r, a, a.left, a.right, tableID, networkTable)
}

func (r *Repository) HostTablesOfHost(ctx context.Context, hostID uuid.UUID) iter.Seq2[*domain.HostTable, error] {
	a := hostTableHosts
	return related(ctx, r, a, a.right, a.left, hostID, hostTableTable)
}

func (r *Repository) HostTablesOfNetwork(ctx context.Context, networkID uuid.UUID) iter.Seq2[*domain.HostTable, error] {
	a := hostTableNetworks
	return related(ctx, r, a, a.right, a.left, networkID, hostTableTable)
}

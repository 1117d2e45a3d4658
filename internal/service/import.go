package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"fwinventory/internal/codec"
	"fwinventory/internal/domain"
	"fwinventory/internal/repository"
)

// importer creates the contents of one document through a
// transaction-bound repository. Name references resolve against the
// transaction, so they see both pre-existing rows and rows created
// earlier in the same import.
type importer struct {
	tx    repository.Repository
	stats *ImportStats
	ports []uuid.UUID // in creation order
}

func newImporter(tx repository.Repository, stats *ImportStats) *importer {
	return &importer{tx: tx, stats: stats}
}

func (im *importer) run(ctx context.Context, doc *codec.Document) error {
	steps := []func(context.Context, *codec.Document) error{
		im.hardwareClasses,
		im.hardware,
		im.firewalls,
		im.ports,
		im.portGroups,
		im.networks,
		im.hosts,
		im.hostTables,
	}
	for _, step := range steps {
		if err := step(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// byName resolves a unique name to an id
func byName[T any](ctx context.Context, store repository.Store[T], entity, name string, idOf func(*T) uuid.UUID) (uuid.UUID, error) {
	items, err := repository.Collect(store.List(ctx, repository.Filter{"name": name}))
	if err != nil {
		return uuid.Nil, err
	}
	if len(items) == 0 {
		return uuid.Nil, &domain.NotFoundError{Entity: entity, ID: fmt.Sprintf("%q", name)}
	}
	return idOf(items[0]), nil
}

func (im *importer) hardwareClasses(ctx context.Context, doc *codec.Document) error {
	for _, c := range doc.HardwareClasses {
		class := &domain.FirewallHardwareClass{Name: c.Name, Description: c.Description}
		if err := im.tx.HardwareClasses().Create(ctx, class); err != nil {
			return fmt.Errorf("hardware class %q: %w", c.Name, err)
		}
		im.stats.HardwareClasses++
	}
	return nil
}

func (im *importer) hardware(ctx context.Context, doc *codec.Document) error {
	for _, h := range doc.Hardware {
		classID, err := byName(ctx, im.tx.HardwareClasses(), domain.EntityHardwareClass, h.Class,
			func(c *domain.FirewallHardwareClass) uuid.UUID { return c.ID })
		if err != nil {
			return fmt.Errorf("hardware %q: %w", h.Name, err)
		}

		hw := &domain.FirewallHardware{
			ClassID:              classID,
			Name:                 h.Name,
			Description:          h.Description,
			OneGbEInterfaceCount: h.OneGbEInterfaceCount,
			TenGbEInterfaceCount: h.TenGbEInterfaceCount,
			RAMGB:                h.RAMGB,
		}
		if err := im.tx.Hardware().Create(ctx, hw); err != nil {
			return fmt.Errorf("hardware %q: %w", h.Name, err)
		}
		im.stats.Hardware++
	}
	return nil
}

func (im *importer) firewalls(ctx context.Context, doc *codec.Document) error {
	for _, f := range doc.Firewalls {
		hwID, err := byName(ctx, im.tx.Hardware(), domain.EntityHardware, f.Hardware,
			func(h *domain.FirewallHardware) uuid.UUID { return h.ID })
		if err != nil {
			return fmt.Errorf("firewall %q: %w", f.Name, err)
		}

		fw := &domain.Firewall{
			HardwareID:  hwID,
			Name:        f.Name,
			Hostname:    f.Hostname,
			Description: f.Description,
			AssetTag:    f.AssetTag,
			OrgAssetTag: f.OrgAssetTag,
		}
		if err := im.tx.Firewalls().Create(ctx, fw); err != nil {
			return fmt.Errorf("firewall %q: %w", f.Name, err)
		}
		im.stats.Firewalls++

		for _, pi := range f.PhysicalInterfaces {
			iface := &domain.PhysicalInterface{FirewallID: fw.ID, Name: pi.Name, MAC: pi.MAC}
			if err := im.tx.PhysicalInterfaces().Create(ctx, iface); err != nil {
				return fmt.Errorf("firewall %q interface %q: %w", f.Name, pi.Name, err)
			}
			im.stats.PhysicalInterfaces++
		}
		for _, li := range f.LogicalInterfaces {
			iface := &domain.LogicalInterface{
				FirewallID: fw.ID,
				Name:       li.Name,
				IP:         li.IP,
				Netmask:    li.Netmask,
				Gateway:    li.Gateway,
				MAC:        li.MAC,
			}
			if err := im.tx.LogicalInterfaces().Create(ctx, iface); err != nil {
				return fmt.Errorf("firewall %q interface %q: %w", f.Name, li.Name, err)
			}
			im.stats.LogicalInterfaces++
		}
	}
	return nil
}

func (im *importer) ports(ctx context.Context, doc *codec.Document) error {
	for _, p := range doc.Ports {
		port := &domain.Port{Name: p.Name, Protocol: domain.Protocol(p.Protocol), Number: p.Port}
		if err := im.tx.Ports().Create(ctx, port); err != nil {
			return fmt.Errorf("port %q: %w", p.Name, err)
		}
		im.ports = append(im.ports, port.ID)
		im.stats.Ports++
	}
	return nil
}

// resolvePort finds the port a group member reference names. Ports with
// the same name, protocol and number are interchangeable: the first one
// created by this import that is not yet in the group wins, then stored
// ports in id order. A bare name matching ports that differ is ambiguous.
func (im *importer) resolvePort(ctx context.Context, ref string, inGroup map[uuid.UUID]bool) (uuid.UUID, error) {
	pr := codec.ParsePortRef(ref)
	filter := repository.Filter{"name": pr.Name}
	if pr.Qualified() {
		filter["protocol"] = pr.Protocol
		filter["port"] = pr.Port
	}

	matches, err := repository.Collect(im.tx.Ports().List(ctx, filter))
	if err != nil {
		return uuid.Nil, err
	}
	if len(matches) == 0 {
		return uuid.Nil, &domain.NotFoundError{Entity: domain.EntityPort, ID: fmt.Sprintf("%q", ref)}
	}
	for _, m := range matches[1:] {
		if m.Protocol != matches[0].Protocol || m.Number != matches[0].Number {
			return uuid.Nil, &domain.ValidationError{
				Entity: domain.EntityPortGroup,
				Field:  "ports",
				Reason: fmt.Sprintf("%q matches %d different ports, qualify it as name/protocol/port", ref, len(matches)),
			}
		}
	}

	slices.SortStableFunc(matches, func(a, b *domain.Port) int {
		return cmp.Compare(im.creationRank(a.ID), im.creationRank(b.ID))
	})
	for _, m := range matches {
		if !inGroup[m.ID] {
			return m.ID, nil
		}
	}
	return matches[0].ID, nil
}

// creationRank orders ports created by this import before stored ones
func (im *importer) creationRank(id uuid.UUID) int {
	if i := slices.Index(im.ports, id); i >= 0 {
		return i
	}
	return len(im.ports)
}

func (im *importer) portGroups(ctx context.Context, doc *codec.Document) error {
	for _, g := range doc.PortGroups {
		group := &domain.PortGroup{Name: g.Name, Description: g.Description}
		if err := im.tx.PortGroups().Create(ctx, group); err != nil {
			return fmt.Errorf("port group %q: %w", g.Name, err)
		}
		im.stats.PortGroups++

		inGroup := make(map[uuid.UUID]bool, len(g.Ports))
		for _, ref := range g.Ports {
			portID, err := im.resolvePort(ctx, ref, inGroup)
			if err != nil {
				return fmt.Errorf("port group %q: %w", g.Name, err)
			}
			inGroup[portID] = true
			if err := im.tx.AddPortToGroup(ctx, group.ID, portID); err != nil {
				return fmt.Errorf("port group %q: %w", g.Name, err)
			}
			im.stats.PortMemberships++
		}
	}
	return nil
}

func (im *importer) networks(ctx context.Context, doc *codec.Document) error {
	for _, n := range doc.Networks {
		network := &domain.Network{
			Name:       n.Name,
			FQDN:       n.FQDN,
			IP:         n.IP,
			Netmask:    n.Netmask,
			Gateway:    n.Gateway,
			DNSServers: slices.Clone(n.DNSServers),
			Trusted:    domain.TrustFromBool(n.Trusted),
		}
		if err := im.tx.Networks().Create(ctx, network); err != nil {
			return fmt.Errorf("network %q: %w", n.Name, err)
		}
		im.stats.Networks++
	}
	return nil
}

func (im *importer) hosts(ctx context.Context, doc *codec.Document) error {
	for _, h := range doc.Hosts {
		host := &domain.Host{
			Name:    h.Name,
			FQDN:    h.FQDN,
			IP:      h.IP,
			MAC:     h.MAC,
			Trusted: domain.TrustFromBool(h.Trusted),
		}
		if h.Network != "" {
			netID, err := byName(ctx, im.tx.Networks(), domain.EntityNetwork, h.Network,
				func(n *domain.Network) uuid.UUID { return n.ID })
			if err != nil {
				return fmt.Errorf("host %q: %w", h.Name, err)
			}
			host.NetworkID = &netID
		}
		if err := im.tx.Hosts().Create(ctx, host); err != nil {
			return fmt.Errorf("host %q: %w", h.Name, err)
		}
		im.stats.Hosts++
	}
	return nil
}

func (im *importer) hostTables(ctx context.Context, doc *codec.Document) error {
	for _, t := range doc.HostTables {
		table := &domain.HostTable{Name: t.Name, Description: t.Description}
		if err := im.tx.HostTables().Create(ctx, table); err != nil {
			return fmt.Errorf("host table %q: %w", t.Name, err)
		}
		im.stats.HostTables++

		for _, name := range t.Hosts {
			hostID, err := byName(ctx, im.tx.Hosts(), domain.EntityHost, name,
				func(h *domain.Host) uuid.UUID { return h.ID })
			if err != nil {
				return fmt.Errorf("host table %q: %w", t.Name, err)
			}
			if err := im.tx.AddHostToTable(ctx, table.ID, hostID); err != nil {
				return fmt.Errorf("host table %q: %w", t.Name, err)
			}
			im.stats.TableMemberships++
		}
		for _, name := range t.Networks {
			netID, err := byName(ctx, im.tx.Networks(), domain.EntityNetwork, name,
				func(n *domain.Network) uuid.UUID { return n.ID })
			if err != nil {
				return fmt.Errorf("host table %q: %w", t.Name, err)
			}
			if err := im.tx.AddNetworkToTable(ctx, table.ID, netID); err != nil {
				return fmt.Errorf("host table %q: %w", t.Name, err)
			}
			im.stats.TableMemberships++
		}
	}
	return nil
}

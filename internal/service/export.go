package service

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"fwinventory/internal/codec"
	"fwinventory/internal/domain"
	"fwinventory/internal/repository"
)

// exportDocument rebuilds a document from the store. Sections are sorted
// by name so repeated exports of the same data are identical.
func exportDocument(ctx context.Context, repo repository.Repository) (*codec.Document, error) {
	doc := &codec.Document{}

	classes, err := repository.Collect(repo.HardwareClasses().List(ctx, nil))
	if err != nil {
		return nil, err
	}
	classNames := make(map[uuid.UUID]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
		doc.HardwareClasses = append(doc.HardwareClasses, codec.HardwareClass{Name: c.Name, Description: c.Description})
	}

	hardware, err := repository.Collect(repo.Hardware().List(ctx, nil))
	if err != nil {
		return nil, err
	}
	hardwareNames := make(map[uuid.UUID]string, len(hardware))
	for _, h := range hardware {
		hardwareNames[h.ID] = h.Name
		doc.Hardware = append(doc.Hardware, codec.Hardware{
			Name:                 h.Name,
			Class:                classNames[h.ClassID],
			Description:          h.Description,
			OneGbEInterfaceCount: h.OneGbEInterfaceCount,
			TenGbEInterfaceCount: h.TenGbEInterfaceCount,
			RAMGB:                h.RAMGB,
		})
	}

	if doc.Firewalls, err = exportFirewalls(ctx, repo, hardwareNames); err != nil {
		return nil, err
	}

	ports, err := repository.Collect(repo.Ports().List(ctx, nil))
	if err != nil {
		return nil, err
	}
	for _, p := range ports {
		doc.Ports = append(doc.Ports, exportPort(p))
	}

	groups, err := repository.Collect(repo.PortGroups().List(ctx, nil))
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		members, err := repository.Collect(repo.GroupPorts(ctx, g.ID))
		if err != nil {
			return nil, err
		}
		pg := codec.PortGroup{Name: g.Name, Description: g.Description}
		for _, p := range members {
			pg.Ports = append(pg.Ports, exportPort(p).Ref())
		}
		slices.Sort(pg.Ports)
		doc.PortGroups = append(doc.PortGroups, pg)
	}

	networks, err := repository.Collect(repo.Networks().List(ctx, nil))
	if err != nil {
		return nil, err
	}
	networkNames := make(map[uuid.UUID]string, len(networks))
	for _, n := range networks {
		networkNames[n.ID] = n.Name
		doc.Networks = append(doc.Networks, codec.Network{
			Name:       n.Name,
			FQDN:       n.FQDN,
			IP:         n.IP,
			Netmask:    n.Netmask,
			Gateway:    n.Gateway,
			DNSServers: n.DNSServers,
			Trusted:    n.Trusted.Bool(),
		})
	}

	hosts, err := repository.Collect(repo.Hosts().List(ctx, nil))
	if err != nil {
		return nil, err
	}
	for _, h := range hosts {
		ch := codec.Host{
			Name:    h.Name,
			FQDN:    h.FQDN,
			IP:      h.IP,
			MAC:     h.MAC,
			Trusted: h.Trusted.Bool(),
		}
		if h.NetworkID != nil {
			ch.Network = networkNames[*h.NetworkID]
		}
		doc.Hosts = append(doc.Hosts, ch)
	}

	if doc.HostTables, err = exportHostTables(ctx, repo); err != nil {
		return nil, err
	}

	sortByName(doc)
	return doc, nil
}

func exportPort(p *domain.Port) codec.Port {
	return codec.Port{Name: p.Name, Protocol: string(p.Protocol), Port: p.Number}
}

func exportFirewalls(ctx context.Context, repo repository.Repository, hardwareNames map[uuid.UUID]string) ([]codec.Firewall, error) {
	firewalls, err := repository.Collect(repo.Firewalls().List(ctx, nil))
	if err != nil {
		return nil, err
	}

	var out []codec.Firewall
	for _, f := range firewalls {
		cf := codec.Firewall{
			Name:        f.Name,
			Hardware:    hardwareNames[f.HardwareID],
			Hostname:    f.Hostname,
			Description: f.Description,
			AssetTag:    f.AssetTag,
			OrgAssetTag: f.OrgAssetTag,
		}
		byFirewall := repository.Filter{"firewall_id": f.ID}

		physical, err := repository.Collect(repo.PhysicalInterfaces().List(ctx, byFirewall))
		if err != nil {
			return nil, err
		}
		for _, pi := range physical {
			cf.PhysicalInterfaces = append(cf.PhysicalInterfaces, codec.PhysicalInterface{Name: pi.Name, MAC: pi.MAC})
		}
		slices.SortFunc(cf.PhysicalInterfaces, func(a, b codec.PhysicalInterface) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.MAC, b.MAC))
		})

		logical, err := repository.Collect(repo.LogicalInterfaces().List(ctx, byFirewall))
		if err != nil {
			return nil, err
		}
		for _, li := range logical {
			cf.LogicalInterfaces = append(cf.LogicalInterfaces, codec.LogicalInterface{
				Name:    li.Name,
				IP:      li.IP,
				Netmask: li.Netmask,
				Gateway: li.Gateway,
				MAC:     li.MAC,
			})
		}
		slices.SortFunc(cf.LogicalInterfaces, func(a, b codec.LogicalInterface) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.MAC, b.MAC))
		})

		out = append(out, cf)
	}
	return out, nil
}

func exportHostTables(ctx context.Context, repo repository.Repository) ([]codec.HostTable, error) {
	tables, err := repository.Collect(repo.HostTables().List(ctx, nil))
	if err != nil {
		return nil, err
	}

	var out []codec.HostTable
	for _, t := range tables {
		ct := codec.HostTable{Name: t.Name, Description: t.Description}

		hosts, err := repository.Collect(repo.TableHosts(ctx, t.ID))
		if err != nil {
			return nil, err
		}
		for _, h := range hosts {
			ct.Hosts = append(ct.Hosts, h.Name)
		}

		networks, err := repository.Collect(repo.TableNetworks(ctx, t.ID))
		if err != nil {
			return nil, err
		}
		for _, n := range networks {
			ct.Networks = append(ct.Networks, n.Name)
		}

		slices.Sort(ct.Hosts)
		slices.Sort(ct.Networks)
		out = append(out, ct)
	}
	return out, nil
}

func sortByName(doc *codec.Document) {
	slices.SortFunc(doc.HardwareClasses, func(a, b codec.HardwareClass) int { return cmp.Compare(a.Name, b.Name) })
	slices.SortFunc(doc.Hardware, func(a, b codec.Hardware) int { return cmp.Compare(a.Name, b.Name) })
	slices.SortFunc(doc.Firewalls, func(a, b codec.Firewall) int { return cmp.Compare(a.Name, b.Name) })
	slices.SortFunc(doc.Ports, func(a, b codec.Port) int { return cmp.Compare(a.Ref(), b.Ref()) })
	slices.SortFunc(doc.PortGroups, func(a, b codec.PortGroup) int { return cmp.Compare(a.Name, b.Name) })
	slices.SortFunc(doc.Networks, func(a, b codec.Network) int { return cmp.Compare(a.Name, b.Name) })
	slices.SortFunc(doc.Hosts, func(a, b codec.Host) int { return cmp.Compare(a.Name, b.Name) })
	slices.SortFunc(doc.HostTables, func(a, b codec.HostTable) int { return cmp.Compare(a.Name, b.Name) })
}

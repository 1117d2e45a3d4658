package sqlite

import (
	"database/sql"

	"github.com/google/uuid"

	"fwinventory/internal/domain"
)

// ============================================================================
// Ports
// ============================================================================

var portTable = &tableDef[domain.Port]{
	entity:  domain.EntityPort,
	name:    "ports",
	columns: []string{"id", "name", "protocol", "port"},
	filters: map[string]filterColumn{
		"id":       idFilter("id"),
		"name":     textFilter("name"),
		"protocol": textFilter("protocol"),
		"port":     intFilter("port"),
	},
	id:       func(p *domain.Port) *uuid.UUID { return &p.ID },
	validate: (*domain.Port).Validate,
	values: func(p *domain.Port) []any {
		return []any{p.Name, string(p.Protocol), p.Number}
	},
	scan: func(s rowScanner) (*domain.Port, error) {
		var p domain.Port
		if err := s.Scan(&p.ID, &p.Name, &p.Protocol, &p.Number); err != nil {
			return nil, err
		}
		return &p, nil
	},
}

var portGroupTable = &tableDef[domain.PortGroup]{
	entity:  domain.EntityPortGroup,
	name:    "port_groups",
	columns: []string{"id", "name", "description"},
	filters: map[string]filterColumn{
		"id":          idFilter("id"),
		"name":        textFilter("name"),
		"description": textFilter("description"),
	},
	uniques: []uniqueColumn[domain.PortGroup]{
		{field: "name", column: "name", value: func(g *domain.PortGroup) string { return g.Name }},
	},
	id:       func(g *domain.PortGroup) *uuid.UUID { return &g.ID },
	validate: (*domain.PortGroup).Validate,
	values: func(g *domain.PortGroup) []any {
		return []any{g.Name, g.Description}
	},
	scan: func(s rowScanner) (*domain.PortGroup, error) {
		var g domain.PortGroup
		if err := s.Scan(&g.ID, &g.Name, &g.Description); err != nil {
			return nil, err
		}
		return &g, nil
	},
}

// ============================================================================
// Firewall Hardware
// ============================================================================

var hardwareClassTable = &tableDef[domain.FirewallHardwareClass]{
	entity:  domain.EntityHardwareClass,
	name:    "firewall_hardware_classes",
	columns: []string{"id", "name", "description"},
	filters: map[string]filterColumn{
		"id":          idFilter("id"),
		"name":        textFilter("name"),
		"description": textFilter("description"),
	},
	uniques: []uniqueColumn[domain.FirewallHardwareClass]{
		{field: "name", column: "name", value: func(c *domain.FirewallHardwareClass) string { return c.Name }},
	},
	id:       func(c *domain.FirewallHardwareClass) *uuid.UUID { return &c.ID },
	validate: (*domain.FirewallHardwareClass).Validate,
	values: func(c *domain.FirewallHardwareClass) []any {
		return []any{c.Name, c.Description}
	},
	scan: func(s rowScanner) (*domain.FirewallHardwareClass, error) {
		var c domain.FirewallHardwareClass
		if err := s.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		return &c, nil
	},
}

// hardwareRow holds the nullable columns of a firewall_hardware row
type hardwareRow struct {
	hw     domain.FirewallHardware
	oneGbE sql.NullInt64
	tenGbE sql.NullInt64
	ramGB  sql.NullInt64
}

func (r *hardwareRow) scanArgs() []any {
	return []any{&r.hw.ID, &r.hw.ClassID, &r.hw.Name, &r.hw.Description, &r.oneGbE, &r.tenGbE, &r.ramGB}
}

func (r *hardwareRow) toDomain() *domain.FirewallHardware {
	hw := r.hw
	hw.OneGbEInterfaceCount = nullToIntPtr(r.oneGbE)
	hw.TenGbEInterfaceCount = nullToIntPtr(r.tenGbE)
	hw.RAMGB = nullToIntPtr(r.ramGB)
	return &hw
}

var hardwareTable = &tableDef[domain.FirewallHardware]{
	entity: domain.EntityHardware,
	name:   "firewall_hardware",
	columns: []string{
		"id", "class_id", "name", "description",
		"one_gbe_interface_count", "ten_gbe_interface_count", "ram_gb",
	},
	filters: map[string]filterColumn{
		"id":                      idFilter("id"),
		"class_id":                idFilter("class_id"),
		"name":                    textFilter("name"),
		"description":             textFilter("description"),
		"one_gbe_interface_count": intFilter("one_gbe_interface_count"),
		"ten_gbe_interface_count": intFilter("ten_gbe_interface_count"),
		"ram_gb":                  intFilter("ram_gb"),
	},
	uniques: []uniqueColumn[domain.FirewallHardware]{
		{field: "name", column: "name", value: func(h *domain.FirewallHardware) string { return h.Name }},
	},
	refs: []refColumn[domain.FirewallHardware]{
		{
			field:  "class_id",
			target: domain.EntityHardwareClass,
			table:  "firewall_hardware_classes",
			value:  func(h *domain.FirewallHardware) *uuid.UUID { return &h.ClassID },
		},
	},
	id:       func(h *domain.FirewallHardware) *uuid.UUID { return &h.ID },
	validate: (*domain.FirewallHardware).Validate,
	values: func(h *domain.FirewallHardware) []any {
		return []any{
			h.ClassID, h.Name, h.Description,
			intPtrToNull(h.OneGbEInterfaceCount), intPtrToNull(h.TenGbEInterfaceCount), intPtrToNull(h.RAMGB),
		}
	},
	scan: func(s rowScanner) (*domain.FirewallHardware, error) {
		var row hardwareRow
		if err := s.Scan(row.scanArgs()...); err != nil {
			return nil, err
		}
		return row.toDomain(), nil
	},
}

// ============================================================================
// Firewalls and Interfaces
// ============================================================================

var firewallTable = &tableDef[domain.Firewall]{
	entity:  domain.EntityFirewall,
	name:    "firewalls",
	columns: []string{"id", "hardware_id", "name", "hostname", "description", "asset_tag", "org_asset_tag"},
	filters: map[string]filterColumn{
		"id":            idFilter("id"),
		"hardware_id":   idFilter("hardware_id"),
		"name":          textFilter("name"),
		"hostname":      textFilter("hostname"),
		"description":   textFilter("description"),
		"asset_tag":     textFilter("asset_tag"),
		"org_asset_tag": textFilter("org_asset_tag"),
	},
	uniques: []uniqueColumn[domain.Firewall]{
		{field: "name", column: "name", value: func(f *domain.Firewall) string { return f.Name }},
		{field: "hostname", column: "hostname", value: func(f *domain.Firewall) string { return f.Hostname }},
		{field: "asset_tag", column: "asset_tag", value: func(f *domain.Firewall) string { return f.AssetTag }},
		{field: "org_asset_tag", column: "org_asset_tag", value: func(f *domain.Firewall) string { return f.OrgAssetTag }},
	},
	refs: []refColumn[domain.Firewall]{
		{
			field:  "hardware_id",
			target: domain.EntityHardware,
			table:  "firewall_hardware",
			value:  func(f *domain.Firewall) *uuid.UUID { return &f.HardwareID },
		},
	},
	id:       func(f *domain.Firewall) *uuid.UUID { return &f.ID },
	validate: (*domain.Firewall).Validate,
	values: func(f *domain.Firewall) []any {
		return []any{f.HardwareID, f.Name, f.Hostname, f.Description, f.AssetTag, f.OrgAssetTag}
	},
	scan: func(s rowScanner) (*domain.Firewall, error) {
		var f domain.Firewall
		if err := s.Scan(&f.ID, &f.HardwareID, &f.Name, &f.Hostname, &f.Description, &f.AssetTag, &f.OrgAssetTag); err != nil {
			return nil, err
		}
		return &f, nil
	},
}

var physicalInterfaceTable = &tableDef[domain.PhysicalInterface]{
	entity:  domain.EntityPhysicalInterface,
	name:    "physical_interfaces",
	columns: []string{"id", "firewall_id", "name", "mac"},
	filters: map[string]filterColumn{
		"id":          idFilter("id"),
		"firewall_id": idFilter("firewall_id"),
		"name":        textFilter("name"),
		"mac":         macFilter("mac"),
	},
	refs: []refColumn[domain.PhysicalInterface]{
		{
			field:  "firewall_id",
			target: domain.EntityFirewall,
			table:  "firewalls",
			value:  func(i *domain.PhysicalInterface) *uuid.UUID { return &i.FirewallID },
		},
	},
	id:       func(i *domain.PhysicalInterface) *uuid.UUID { return &i.ID },
	validate: (*domain.PhysicalInterface).Validate,
	values: func(i *domain.PhysicalInterface) []any {
		return []any{i.FirewallID, i.Name, i.MAC}
	},
	scan: func(s rowScanner) (*domain.PhysicalInterface, error) {
		var i domain.PhysicalInterface
		if err := s.Scan(&i.ID, &i.FirewallID, &i.Name, &i.MAC); err != nil {
			return nil, err
		}
		return &i, nil
	},
}

var logicalInterfaceTable = &tableDef[domain.LogicalInterface]{
	entity:  domain.EntityLogicalInterface,
	name:    "logical_interfaces",
	columns: []string{"id", "firewall_id", "name", "ip", "netmask", "gateway", "mac"},
	filters: map[string]filterColumn{
		"id":          idFilter("id"),
		"firewall_id": idFilter("firewall_id"),
		"name":        textFilter("name"),
		"ip":          ipFilter("ip"),
		"netmask":     ipFilter("netmask"),
		"gateway":     ipFilter("gateway"),
		"mac":         macFilter("mac"),
	},
	uniques: []uniqueColumn[domain.LogicalInterface]{
		{field: "mac", column: "mac", value: func(i *domain.LogicalInterface) string { return i.MAC }},
	},
	refs: []refColumn[domain.LogicalInterface]{
		{
			field:  "firewall_id",
			target: domain.EntityFirewall,
			table:  "firewalls",
			value:  func(i *domain.LogicalInterface) *uuid.UUID { return &i.FirewallID },
		},
	},
	id:       func(i *domain.LogicalInterface) *uuid.UUID { return &i.ID },
	validate: (*domain.LogicalInterface).Validate,
	values: func(i *domain.LogicalInterface) []any {
		return []any{i.FirewallID, i.Name, i.IP, i.Netmask, stringToNull(i.Gateway), i.MAC}
	},
	scan: func(s rowScanner) (*domain.LogicalInterface, error) {
		var (
			i       domain.LogicalInterface
			gateway sql.NullString
		)
		if err := s.Scan(&i.ID, &i.FirewallID, &i.Name, &i.IP, &i.Netmask, &gateway, &i.MAC); err != nil {
			return nil, err
		}
		i.Gateway = nullToString(gateway)
		return &i, nil
	},
}

// ============================================================================
// Host Tables, Networks and Hosts
// ============================================================================

var hostTableTable = &tableDef[domain.HostTable]{
	entity:  domain.EntityHostTable,
	name:    "host_tables",
	columns: []string{"id", "name", "description"},
	filters: map[string]filterColumn{
		"id":          idFilter("id"),
		"name":        textFilter("name"),
		"description": textFilter("description"),
	},
	uniques: []uniqueColumn[domain.HostTable]{
		{field: "name", column: "name", value: func(t *domain.HostTable) string { return t.Name }},
	},
	id:       func(t *domain.HostTable) *uuid.UUID { return &t.ID },
	validate: (*domain.HostTable).Validate,
	values: func(t *domain.HostTable) []any {
		return []any{t.Name, t.Description}
	},
	scan: func(s rowScanner) (*domain.HostTable, error) {
		var t domain.HostTable
		if err := s.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		return &t, nil
	},
}

// networkRow holds the nullable columns of a networks row
type networkRow struct {
	n       domain.Network
	gateway sql.NullString
	dns1    sql.NullString
	dns2    sql.NullString
	dns3    sql.NullString
	trusted sql.NullInt64
}

func (r *networkRow) scanArgs() []any {
	return []any{
		&r.n.ID, &r.n.Name, &r.n.FQDN, &r.n.IP, &r.n.Netmask,
		&r.gateway, &r.dns1, &r.dns2, &r.dns3, &r.trusted,
	}
}

func (r *networkRow) toDomain() *domain.Network {
	n := r.n
	n.Gateway = nullToString(r.gateway)
	n.DNSServers = dnsServers(r.dns1, r.dns2, r.dns3)
	n.Trusted = nullToTrust(r.trusted)
	return &n
}

var networkTable = &tableDef[domain.Network]{
	entity:  domain.EntityNetwork,
	name:    "networks",
	columns: []string{"id", "name", "fqdn", "ip", "netmask", "gateway", "dns1", "dns2", "dns3", "trusted"},
	filters: map[string]filterColumn{
		"id":      idFilter("id"),
		"name":    textFilter("name"),
		"fqdn":    textFilter("fqdn"),
		"ip":      ipFilter("ip"),
		"netmask": ipFilter("netmask"),
		"gateway": ipFilter("gateway"),
		"trusted": trustFilter("trusted"),
	},
	uniques: []uniqueColumn[domain.Network]{
		{field: "name", column: "name", value: func(n *domain.Network) string { return n.Name }},
		{field: "fqdn", column: "fqdn", value: func(n *domain.Network) string { return n.FQDN }},
	},
	id:       func(n *domain.Network) *uuid.UUID { return &n.ID },
	validate: (*domain.Network).Validate,
	values: func(n *domain.Network) []any {
		dns := dnsColumns(n.DNSServers)
		return []any{
			n.Name, n.FQDN, n.IP, n.Netmask, stringToNull(n.Gateway),
			dns[0], dns[1], dns[2], trustToNull(n.Trusted),
		}
	},
	scan: func(s rowScanner) (*domain.Network, error) {
		var row networkRow
		if err := s.Scan(row.scanArgs()...); err != nil {
			return nil, err
		}
		return row.toDomain(), nil
	},
}

// hostRow holds the nullable columns of a hosts row
type hostRow struct {
	h         domain.Host
	mac       sql.NullString
	trusted   sql.NullInt64
	networkID uuid.NullUUID
}

func (r *hostRow) scanArgs() []any {
	return []any{&r.h.ID, &r.h.Name, &r.h.FQDN, &r.h.IP, &r.mac, &r.trusted, &r.networkID}
}

func (r *hostRow) toDomain() *domain.Host {
	h := r.h
	h.MAC = nullToString(r.mac)
	h.Trusted = nullToTrust(r.trusted)
	h.NetworkID = nullToUUIDPtr(r.networkID)
	return &h
}

var hostTable = &tableDef[domain.Host]{
	entity:  domain.EntityHost,
	name:    "hosts",
	columns: []string{"id", "name", "fqdn", "ip", "mac", "trusted", "network_id"},
	filters: map[string]filterColumn{
		"id":         idFilter("id"),
		"name":       textFilter("name"),
		"fqdn":       textFilter("fqdn"),
		"ip":         ipFilter("ip"),
		"mac":        macFilter("mac"),
		"trusted":    trustFilter("trusted"),
		"network_id": idFilter("network_id"),
	},
	uniques: []uniqueColumn[domain.Host]{
		{field: "name", column: "name", value: func(h *domain.Host) string { return h.Name }},
		{field: "fqdn", column: "fqdn", value: func(h *domain.Host) string { return h.FQDN }},
		{field: "mac", column: "mac", value: func(h *domain.Host) string { return h.MAC }},
	},
	refs: []refColumn[domain.Host]{
		{
			field:  "network_id",
			target: domain.EntityNetwork,
			table:  "networks",
			value:  func(h *domain.Host) *uuid.UUID { return h.NetworkID },
		},
	},
	id:       func(h *domain.Host) *uuid.UUID { return &h.ID },
	validate: (*domain.Host).Validate,
	values: func(h *domain.Host) []any {
		return []any{h.Name, h.FQDN, h.IP, stringToNull(h.MAC), trustToNull(h.Trusted), uuidPtrToNull(h.NetworkID)}
	},
	scan: func(s rowScanner) (*domain.Host, error) {
		var row hostRow
		if err := s.Scan(row.scanArgs()...); err != nil {
			return nil, err
		}
		return row.toDomain(), nil
	},
}

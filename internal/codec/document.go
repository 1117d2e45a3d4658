package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// Document is a portable snapshot of the inventory. Entities refer to
// each other by name instead of id, so a document can be loaded into an
// empty store.
type Document struct {
	HardwareClasses []HardwareClass `yaml:"hardware_classes,omitempty" json:"hardware_classes,omitempty"`
	Hardware        []Hardware      `yaml:"hardware,omitempty" json:"hardware,omitempty"`
	Firewalls       []Firewall      `yaml:"firewalls,omitempty" json:"firewalls,omitempty"`
	Ports           []Port          `yaml:"ports,omitempty" json:"ports,omitempty"`
	PortGroups      []PortGroup     `yaml:"port_groups,omitempty" json:"port_groups,omitempty"`
	Networks        []Network       `yaml:"networks,omitempty" json:"networks,omitempty"`
	Hosts           []Host          `yaml:"hosts,omitempty" json:"hosts,omitempty"`
	HostTables      []HostTable     `yaml:"host_tables,omitempty" json:"host_tables,omitempty"`
}

type HardwareClass struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Hardware names its class
type Hardware struct {
	Name                 string `yaml:"name" json:"name"`
	Class                string `yaml:"class" json:"class"`
	Description          string `yaml:"description,omitempty" json:"description,omitempty"`
	OneGbEInterfaceCount *int   `yaml:"one_gbe_interface_count,omitempty" json:"one_gbe_interface_count,omitempty"`
	TenGbEInterfaceCount *int   `yaml:"ten_gbe_interface_count,omitempty" json:"ten_gbe_interface_count,omitempty"`
	RAMGB                *int   `yaml:"ram_gb,omitempty" json:"ram_gb,omitempty"`
}

// Firewall names its hardware and carries its interfaces inline
type Firewall struct {
	Name               string              `yaml:"name" json:"name"`
	Hardware           string              `yaml:"hardware" json:"hardware"`
	Hostname           string              `yaml:"hostname" json:"hostname"`
	Description        string              `yaml:"description,omitempty" json:"description,omitempty"`
	AssetTag           string              `yaml:"asset_tag" json:"asset_tag"`
	OrgAssetTag        string              `yaml:"org_asset_tag" json:"org_asset_tag"`
	PhysicalInterfaces []PhysicalInterface `yaml:"physical_interfaces,omitempty" json:"physical_interfaces,omitempty"`
	LogicalInterfaces  []LogicalInterface  `yaml:"logical_interfaces,omitempty" json:"logical_interfaces,omitempty"`
}

type PhysicalInterface struct {
	Name string `yaml:"name" json:"name"`
	MAC  string `yaml:"mac" json:"mac"`
}

type LogicalInterface struct {
	Name    string `yaml:"name" json:"name"`
	IP      string `yaml:"ip" json:"ip"`
	Netmask string `yaml:"netmask" json:"netmask"`
	Gateway string `yaml:"gateway,omitempty" json:"gateway,omitempty"`
	MAC     string `yaml:"mac" json:"mac"`
}

type Port struct {
	Name     string `yaml:"name" json:"name"`
	Protocol string `yaml:"protocol,omitempty" json:"protocol,omitempty"`
	Port     int    `yaml:"port" json:"port"`
}

// Ref returns the reference string used by port groups
func (p Port) Ref() string {
	proto := p.Protocol
	if proto == "" {
		proto = "tcp"
	}
	return fmt.Sprintf("%s/%s/%d", p.Name, strings.ToLower(proto), p.Port)
}

// PortGroup lists member ports as references: either "name" or
// "name/protocol/port".
type PortGroup struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Ports       []string `yaml:"ports,omitempty" json:"ports,omitempty"`
}

// Network and Host encode an unknown trust state by omitting trusted
type Network struct {
	Name       string   `yaml:"name" json:"name"`
	FQDN       string   `yaml:"fqdn" json:"fqdn"`
	IP         string   `yaml:"ip" json:"ip"`
	Netmask    string   `yaml:"netmask" json:"netmask"`
	Gateway    string   `yaml:"gateway,omitempty" json:"gateway,omitempty"`
	DNSServers []string `yaml:"dns_servers,omitempty" json:"dns_servers,omitempty"`
	Trusted    *bool    `yaml:"trusted,omitempty" json:"trusted,omitempty"`
}

type Host struct {
	Name    string `yaml:"name" json:"name"`
	FQDN    string `yaml:"fqdn" json:"fqdn"`
	IP      string `yaml:"ip" json:"ip"`
	MAC     string `yaml:"mac,omitempty" json:"mac,omitempty"`
	Trusted *bool  `yaml:"trusted,omitempty" json:"trusted,omitempty"`
	Network string `yaml:"network,omitempty" json:"network,omitempty"`
}

// HostTable lists its member hosts and networks by name
type HostTable struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Hosts       []string `yaml:"hosts,omitempty" json:"hosts,omitempty"`
	Networks    []string `yaml:"networks,omitempty" json:"networks,omitempty"`
}

// PortRef is a parsed port group member reference
type PortRef struct {
	Name     string
	Protocol string // empty when the reference is a bare name
	Port     int
}

// ParsePortRef splits "name/protocol/port". Anything that does not end in
// a protocol and a number is taken as a bare name, so names may contain
// slashes.
func ParsePortRef(ref string) PortRef {
	parts := strings.Split(ref, "/")
	if len(parts) >= 3 {
		n := len(parts)
		proto := strings.ToLower(parts[n-2])
		num, err := strconv.Atoi(parts[n-1])
		if err == nil && (proto == "tcp" || proto == "udp") {
			return PortRef{Name: strings.Join(parts[:n-2], "/"), Protocol: proto, Port: num}
		}
	}
	return PortRef{Name: ref}
}

// Qualified reports whether the reference pins protocol and number
func (r PortRef) Qualified() bool {
	return r.Protocol != ""
}

// Len returns the total number of top-level and nested entities
func (d *Document) Len() int {
	n := len(d.HardwareClasses) + len(d.Hardware) + len(d.Firewalls) +
		len(d.Ports) + len(d.PortGroups) + len(d.Networks) + len(d.Hosts) + len(d.HostTables)
	for _, fw := range d.Firewalls {
		n += len(fw.PhysicalInterfaces) + len(fw.LogicalInterfaces)
	}
	return n
}

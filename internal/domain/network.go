package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// HostTable is a named grouping of hosts and networks used for firewall
// rule targeting.
type HostTable struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func (t *HostTable) Validate() error {
	return required(EntityHostTable, "name", t.Name, MaxNameLen)
}

// Network is an addressed network segment
type Network struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	FQDN       string    `json:"fqdn"`
	IP         string    `json:"ip"`
	Netmask    string    `json:"netmask"`
	Gateway    string    `json:"gateway"`
	DNSServers []string  `json:"dns_servers"`
	Trusted    Trust     `json:"trusted"`
}

func (n *Network) Validate() error {
	if err := firstErr(
		required(EntityNetwork, "name", n.Name, MaxNameLen),
		required(EntityNetwork, "fqdn", n.FQDN, MaxHostnameLen),
		ipField(EntityNetwork, "ip", &n.IP),
		ipField(EntityNetwork, "netmask", &n.Netmask),
		optionalIPField(EntityNetwork, "gateway", &n.Gateway),
		trustField(EntityNetwork, n.Trusted),
	); err != nil {
		return err
	}

	if len(n.DNSServers) > MaxDNSServers {
		return &ConstraintError{
			Entity: EntityNetwork,
			Field:  "dns_servers",
			Reason: fmt.Sprintf("%d servers given, at most %d allowed", len(n.DNSServers), MaxDNSServers),
		}
	}
	if len(n.DNSServers) == 0 {
		n.DNSServers = nil
	}
	for i := range n.DNSServers {
		if err := ipField(EntityNetwork, "dns_servers", &n.DNSServers[i]); err != nil {
			return err
		}
	}
	return nil
}

// Host is a single addressed machine. NetworkID is a non-owning
// reference: deleting the network clears it.
type Host struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	FQDN      string     `json:"fqdn"`
	IP        string     `json:"ip"`
	MAC       string     `json:"mac"`
	Trusted   Trust      `json:"trusted"`
	NetworkID *uuid.UUID `json:"network_id"`
}

func (h *Host) Validate() error {
	if h.NetworkID != nil && *h.NetworkID == uuid.Nil {
		h.NetworkID = nil
	}
	return firstErr(
		required(EntityHost, "name", h.Name, MaxNameLen),
		required(EntityHost, "fqdn", h.FQDN, MaxHostnameLen),
		ipField(EntityHost, "ip", &h.IP),
		optionalMACField(EntityHost, "mac", &h.MAC),
		trustField(EntityHost, h.Trusted),
	)
}

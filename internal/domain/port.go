package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Entity names used in errors, filters and the admin registry
const (
	EntityPort              = "port"
	EntityPortGroup         = "port_group"
	EntityHardwareClass     = "firewall_hardware_class"
	EntityHardware          = "firewall_hardware"
	EntityFirewall          = "firewall"
	EntityPhysicalInterface = "physical_interface"
	EntityLogicalInterface  = "logical_interface"
	EntityHostTable         = "host_table"
	EntityNetwork           = "network"
	EntityHost              = "host"
)

// Protocol is the IP protocol of a port
type Protocol string

const (
	ProtocolTCP Protocol = "tcp"
	ProtocolUDP Protocol = "udp"
)

// Valid reports whether p is tcp or udp
func (p Protocol) Valid() bool {
	return p == ProtocolTCP || p == ProtocolUDP
}

// Port number bounds
const (
	MinPortNumber = 0
	MaxPortNumber = 65535
)

// Port is a named TCP or UDP service port
type Port struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Protocol Protocol  `json:"protocol"`
	Number   int       `json:"port"`
}

func (p Port) String() string {
	return fmt.Sprintf("%s %s/%d", p.Name, p.Protocol, p.Number)
}

// Validate defaults an empty protocol to tcp and checks field rules
func (p *Port) Validate() error {
	if p.Protocol == "" {
		p.Protocol = ProtocolTCP
	}
	p.Protocol = Protocol(strings.ToLower(string(p.Protocol)))

	if err := required(EntityPort, "name", p.Name, MaxNameLen); err != nil {
		return err
	}
	if !p.Protocol.Valid() {
		return &ValidationError{
			Entity: EntityPort,
			Field:  "protocol",
			Reason: fmt.Sprintf("%q is not one of tcp, udp", p.Protocol),
		}
	}
	if p.Number < MinPortNumber || p.Number > MaxPortNumber {
		return &ConstraintError{
			Entity: EntityPort,
			Field:  "port",
			Reason: fmt.Sprintf("%d outside [%d,%d]", p.Number, MinPortNumber, MaxPortNumber),
		}
	}
	return nil
}

// PortGroup is a named set of ports. Membership is kept in a join
// relation owned by neither side.
type PortGroup struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func (g *PortGroup) Validate() error {
	return required(EntityPortGroup, "name", g.Name, MaxNameLen)
}

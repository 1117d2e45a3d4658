package domain

import "github.com/google/uuid"

// FirewallHardwareClass is a family of firewall appliances
type FirewallHardwareClass struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func (c *FirewallHardwareClass) Validate() error {
	return required(EntityHardwareClass, "name", c.Name, MaxNameLen)
}

// FirewallHardware is a concrete appliance model within a class.
// Interface counts and RAM are optional.
type FirewallHardware struct {
	ID                   uuid.UUID `json:"id"`
	ClassID              uuid.UUID `json:"class_id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	OneGbEInterfaceCount *int      `json:"one_gbe_interface_count"`
	TenGbEInterfaceCount *int      `json:"ten_gbe_interface_count"`
	RAMGB                *int      `json:"ram_gb"`
}

func (h *FirewallHardware) Validate() error {
	if h.ClassID == uuid.Nil {
		return &ConstraintError{Entity: EntityHardware, Field: "class_id", Reason: "is required"}
	}
	return firstErr(
		required(EntityHardware, "name", h.Name, MaxNameLen),
		nonNegative(EntityHardware, "one_gbe_interface_count", h.OneGbEInterfaceCount),
		nonNegative(EntityHardware, "ten_gbe_interface_count", h.TenGbEInterfaceCount),
		nonNegative(EntityHardware, "ram_gb", h.RAMGB),
	)
}

// Firewall is a deployed unit. Name, hostname, asset tag and org asset
// tag are each globally unique.
type Firewall struct {
	ID          uuid.UUID `json:"id"`
	HardwareID  uuid.UUID `json:"hardware_id"`
	Name        string    `json:"name"`
	Hostname    string    `json:"hostname"`
	Description string    `json:"description"`
	AssetTag    string    `json:"asset_tag"`
	OrgAssetTag string    `json:"org_asset_tag"`
}

func (f *Firewall) Validate() error {
	if f.HardwareID == uuid.Nil {
		return &ConstraintError{Entity: EntityFirewall, Field: "hardware_id", Reason: "is required"}
	}
	return firstErr(
		required(EntityFirewall, "name", f.Name, MaxNameLen),
		required(EntityFirewall, "hostname", f.Hostname, MaxHostnameLen),
		required(EntityFirewall, "asset_tag", f.AssetTag, MaxAssetTagLen),
		required(EntityFirewall, "org_asset_tag", f.OrgAssetTag, MaxOrgAssetTagLen),
	)
}

// PhysicalInterface is a hardware port identified by its burnt-in MAC
type PhysicalInterface struct {
	ID         uuid.UUID `json:"id"`
	FirewallID uuid.UUID `json:"firewall_id"`
	Name       string    `json:"name"`
	MAC        string    `json:"mac"`
}

func (i *PhysicalInterface) Validate() error {
	if i.FirewallID == uuid.Nil {
		return &ConstraintError{Entity: EntityPhysicalInterface, Field: "firewall_id", Reason: "is required"}
	}
	return firstErr(
		required(EntityPhysicalInterface, "name", i.Name, MaxNameLen),
		macField(EntityPhysicalInterface, "mac", &i.MAC),
	)
}

// LogicalInterface is a configured interface. Its in-use MAC is unique
// across all logical interfaces.
type LogicalInterface struct {
	ID         uuid.UUID `json:"id"`
	FirewallID uuid.UUID `json:"firewall_id"`
	Name       string    `json:"name"`
	IP         string    `json:"ip"`
	Netmask    string    `json:"netmask"`
	Gateway    string    `json:"gateway"`
	MAC        string    `json:"mac"`
}

func (i *LogicalInterface) Validate() error {
	if i.FirewallID == uuid.Nil {
		return &ConstraintError{Entity: EntityLogicalInterface, Field: "firewall_id", Reason: "is required"}
	}
	return firstErr(
		required(EntityLogicalInterface, "name", i.Name, MaxNameLen),
		ipField(EntityLogicalInterface, "ip", &i.IP),
		ipField(EntityLogicalInterface, "netmask", &i.Netmask),
		optionalIPField(EntityLogicalInterface, "gateway", &i.Gateway),
		macField(EntityLogicalInterface, "mac", &i.MAC),
	)
}

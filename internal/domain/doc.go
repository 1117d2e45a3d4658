// Package domain defines the entity types of the firewall asset inventory.
//
// # Core Types
//
// Firewalls are described by a FirewallHardwareClass, a FirewallHardware
// profile and the Firewall unit itself, which owns its PhysicalInterface
// and LogicalInterface records.
//
// Port and PortGroup describe TCP/UDP services used in rule targeting.
// HostTable groups Host and Network records for the same purpose.
//
// # Validation
//
// Every entity has a Validate method that canonicalizes address fields in
// place (IP literals through net/netip, MAC addresses through net.ParseMAC)
// and reports the first violated rule. Rules that need storage (uniqueness,
// references) are enforced by the repository.
//
// # Errors
//
// ValidationError, ConstraintError and NotFoundError form the error
// taxonomy shared by the repository and its callers. Use errors.As to
// inspect them or errors.Is with ErrValidation, ErrConstraint and
// ErrNotFound.
//
// The package has no database or external dependencies beyond uuid.
package domain

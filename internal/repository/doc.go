// Package repository defines the data access contract for the asset
// inventory.
//
// # Stores
//
// Every entity type is served by a Store with the same five operations:
// Create, Get, Update, Delete and List. Writes validate the entity,
// enforce uniqueness and references, and either apply completely or not
// at all. List returns a lazy iter.Seq2 that re-reads current state each
// time it is ranged over.
//
// # Associations
//
// Port groups, host tables and their members are linked through join
// relations owned by neither side. Repository exposes explicit methods to
// add and remove them; deleting either side only drops the join rows.
//
// # Deletion Rules
//
//   - Hardware class, hardware and firewall deletes cascade down to the
//     firewall's physical and logical interfaces.
//   - Network deletes clear the network reference on hosts.
//
// # SQLite Implementation
//
// The sqlite subpackage implements Repository on database/sql with a pure
// Go SQLite driver. It is tested against in-memory databases.
package repository

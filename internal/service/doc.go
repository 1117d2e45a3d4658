// Package service implements inventory-wide operations on top of the
// repository layer.
//
// # Services
//
// InventoryService moves whole inventories in and out of the store. Import
// takes a codec.Document, resolves its name-based references to ids and
// creates every entity inside a single repository transaction, so a
// document either loads completely or not at all. Export reads a
// consistent snapshot and rebuilds a document from it.
//
// # Event System
//
// Completed imports and exports are published on an EventBus so callers
// such as the CLI can report progress without the service knowing about
// them.
package service

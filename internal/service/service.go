package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fwinventory/internal/codec"
	"fwinventory/internal/repository"
)

// InventoryService provides whole-inventory import and export
type InventoryService struct {
	repo     repository.Repository
	eventBus *EventBus
	log      *slog.Logger
}

// NewInventoryService creates a new inventory service. eventBus may be nil.
func NewInventoryService(repo repository.Repository, eventBus *EventBus, logger *slog.Logger) *InventoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryService{
		repo:     repo,
		eventBus: eventBus,
		log:      logger.With("component", "inventory"),
	}
}

// ImportStats counts what an import created
type ImportStats struct {
	HardwareClasses    int `json:"hardware_classes"`
	Hardware           int `json:"hardware"`
	Firewalls          int `json:"firewalls"`
	PhysicalInterfaces int `json:"physical_interfaces"`
	LogicalInterfaces  int `json:"logical_interfaces"`
	Ports              int `json:"ports"`
	PortGroups         int `json:"port_groups"`
	PortMemberships    int `json:"port_memberships"`
	Networks           int `json:"networks"`
	Hosts              int `json:"hosts"`
	HostTables         int `json:"host_tables"`
	TableMemberships   int `json:"table_memberships"`
}

// Entities returns the number of entities created, excluding memberships
func (s ImportStats) Entities() int {
	return s.HardwareClasses + s.Hardware + s.Firewalls + s.PhysicalInterfaces +
		s.LogicalInterfaces + s.Ports + s.PortGroups + s.Networks + s.Hosts + s.HostTables
}

// Import loads doc into the store in one transaction. On any error the
// store is left unchanged and the returned stats are zero.
func (s *InventoryService) Import(ctx context.Context, doc *codec.Document) (ImportStats, error) {
	if doc == nil {
		return ImportStats{}, fmt.Errorf("import: nil document")
	}

	var stats ImportStats
	err := s.repo.Atomically(ctx, func(tx repository.Repository) error {
		stats = ImportStats{}
		return newImporter(tx, &stats).run(ctx, doc)
	})
	if err != nil {
		s.log.Warn("import rolled back", "error", err)
		s.eventBus.Publish(EventImportFailed, err.Error())
		return ImportStats{}, fmt.Errorf("import failed: %w", err)
	}

	s.log.Info("import completed", "entities", stats.Entities())
	s.eventBus.Publish(EventImportCompleted, stats)
	return stats, nil
}

// errDryRun aborts the transaction opened by Check
var errDryRun = errors.New("dry run")

// Check runs an import of doc against the current store and rolls it
// back, reporting what would have been created.
func (s *InventoryService) Check(ctx context.Context, doc *codec.Document) (ImportStats, error) {
	if doc == nil {
		return ImportStats{}, fmt.Errorf("check: nil document")
	}

	var stats ImportStats
	err := s.repo.Atomically(ctx, func(tx repository.Repository) error {
		stats = ImportStats{}
		if err := newImporter(tx, &stats).run(ctx, doc); err != nil {
			return err
		}
		return errDryRun
	})
	if !errors.Is(err, errDryRun) {
		s.log.Info("check failed", "error", err)
		return ImportStats{}, fmt.Errorf("check failed: %w", err)
	}

	s.log.Debug("check passed", "entities", stats.Entities())
	return stats, nil
}

// Export reads a consistent snapshot of the store into a document
func (s *InventoryService) Export(ctx context.Context) (*codec.Document, error) {
	var doc *codec.Document
	err := s.repo.Atomically(ctx, func(tx repository.Repository) error {
		var err error
		doc, err = exportDocument(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}

	s.log.Info("export completed", "entities", doc.Len())
	s.eventBus.Publish(EventExportCompleted, doc.Len())
	return doc, nil
}

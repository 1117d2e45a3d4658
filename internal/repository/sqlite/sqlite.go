package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"fwinventory/internal/domain"
	"fwinventory/internal/repository"

	_ "modernc.org/sqlite"
)

const (
	// DefaultPageSize is the number of rows List fetches per query
	DefaultPageSize = 100
	// DefaultBusyTimeout bounds how long a connection waits on a locked database
	DefaultBusyTimeout = 5 * time.Second
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
	tx *sql.Tx // non-nil on repositories handed out by Atomically

	// mu serializes write transactions across the repository and every
	// transaction-bound copy of it
	mu *sync.Mutex

	log      *slog.Logger
	pageSize int
}

// Option configures a Repository
type Option func(*options)

type options struct {
	logger      *slog.Logger
	pageSize    int
	busyTimeout time.Duration
}

// WithLogger sets the logger used for write and cascade tracing
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPageSize sets how many rows each List page fetches
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithBusyTimeout sets the SQLite busy timeout
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// New creates a new SQLite repository at path. ":memory:" opens a private
// in-memory database.
func New(path string, opts ...Option) (*Repository, error) {
	o := options{
		logger:      slog.Default(),
		pageSize:    DefaultPageSize,
		busyTimeout: DefaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", dsn(path, o.busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if isMemory(path) {
		// Each connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	}

	repo, err := newWithDB(db, o)
	if err != nil {
		db.Close()
		return nil, err
	}
	repo.log.Debug("opened inventory database", "path", path)
	return repo, nil
}

func newWithDB(db *sql.DB, o options) (*Repository, error) {
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.pageSize <= 0 {
		o.pageSize = DefaultPageSize
	}
	repo := &Repository{
		db:       db,
		mu:       &sync.Mutex{},
		log:      o.logger.With("component", "repository"),
		pageSize: o.pageSize,
	}
	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

func dsn(path string, busy time.Duration) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()))
	if !isMemory(path) {
		params.Add("_pragma", "journal_mode(WAL)")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// migrate creates the database schema
func (r *Repository) migrate() error {
	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection. On a transaction-bound
// repository it is a no-op.
func (r *Repository) Close() error {
	if r.tx != nil {
		return nil
	}
	return r.db.Close()
}

// q returns the handle reads should use
func (r *Repository) q() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// write runs fn inside a serialized transaction, or directly inside the
// enclosing transaction on a bound repository.
func (r *Repository) write(ctx context.Context, fn func(q querier) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.inTx(ctx, func(tx *sql.Tx) error { return fn(tx) })
	if err != nil && !isDomainError(err) {
		r.log.Warn("write failed", "error", err)
	}
	return err
}

// isDomainError reports whether err is a caller-facing rejection rather
// than a storage failure
func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrConstraint) ||
		errors.Is(err, domain.ErrNotFound)
}

func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Atomically runs fn against a copy of the repository bound to a single
// transaction. Nested calls reuse the enclosing transaction.
func (r *Repository) Atomically(ctx context.Context, fn func(repository.Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inTx(ctx, func(tx *sql.Tx) error {
		bound := *r
		bound.tx = tx
		if err := fn(&bound); err != nil {
			r.log.Debug("atomic block rolled back", "error", err)
			return err
		}
		return nil
	})
}

// ============================================================================
// Stores
// ============================================================================

func (r *Repository) Ports() repository.Store[domain.Port] {
	return &store[domain.Port]{repo: r, def: portTable}
}

func (r *Repository) PortGroups() repository.Store[domain.PortGroup] {
	return &store[domain.PortGroup]{repo: r, def: portGroupTable}
}

func (r *Repository) HardwareClasses() repository.Store[domain.FirewallHardwareClass] {
	return &store[domain.FirewallHardwareClass]{repo: r, def: hardwareClassTable}
}

func (r *Repository) Hardware() repository.Store[domain.FirewallHardware] {
	return &store[domain.FirewallHardware]{repo: r, def: hardwareTable}
}

func (r *Repository) Firewalls() repository.Store[domain.Firewall] {
	return &store[domain.Firewall]{repo: r, def: firewallTable}
}

func (r *Repository) PhysicalInterfaces() repository.Store[domain.PhysicalInterface] {
	return &store[domain.PhysicalInterface]{repo: r, def: physicalInterfaceTable}
}

func (r *Repository) LogicalInterfaces() repository.Store[domain.LogicalInterface] {
	return &store[domain.LogicalInterface]{repo: r, def: logicalInterfaceTable}
}

func (r *Repository) HostTables() repository.Store[domain.HostTable] {
	return &store[domain.HostTable]{repo: r, def: hostTableTable}
}

func (r *Repository) Networks() repository.Store[domain.Network] {
	return &store[domain.Network]{repo: r, def: networkTable}
}

func (r *Repository) Hosts() repository.Store[domain.Host] {
	return &store[domain.Host]{repo: r, def: hostTable}
}

// Ensure Repository implements repository.Repository
var _ repository.Repository = (*Repository)(nil)

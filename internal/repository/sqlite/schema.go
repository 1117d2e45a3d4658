package sqlite

// schema is applied on every open; all statements are idempotent.
// Foreign keys declare the same cascade/set-null rules the repository
// applies explicitly in deleteRules.
const schema = `
CREATE TABLE IF NOT EXISTS firewall_hardware_classes (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS firewall_hardware (
	id TEXT PRIMARY KEY,
	class_id TEXT NOT NULL,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	one_gbe_interface_count INTEGER CHECK (one_gbe_interface_count >= 0),
	ten_gbe_interface_count INTEGER CHECK (ten_gbe_interface_count >= 0),
	ram_gb INTEGER CHECK (ram_gb >= 0),
	FOREIGN KEY (class_id) REFERENCES firewall_hardware_classes(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS firewalls (
	id TEXT PRIMARY KEY,
	hardware_id TEXT NOT NULL,
	name TEXT NOT NULL UNIQUE,
	hostname TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	asset_tag TEXT NOT NULL UNIQUE,
	org_asset_tag TEXT NOT NULL UNIQUE,
	FOREIGN KEY (hardware_id) REFERENCES firewall_hardware(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS physical_interfaces (
	id TEXT PRIMARY KEY,
	firewall_id TEXT NOT NULL,
	name TEXT NOT NULL,
	mac TEXT NOT NULL,
	FOREIGN KEY (firewall_id) REFERENCES firewalls(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS logical_interfaces (
	id TEXT PRIMARY KEY,
	firewall_id TEXT NOT NULL,
	name TEXT NOT NULL,
	ip TEXT NOT NULL,
	netmask TEXT NOT NULL,
	gateway TEXT,
	mac TEXT NOT NULL UNIQUE,
	FOREIGN KEY (firewall_id) REFERENCES firewalls(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS ports (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	protocol TEXT NOT NULL DEFAULT 'tcp' CHECK (protocol IN ('tcp', 'udp')),
	port INTEGER NOT NULL CHECK (port BETWEEN 0 AND 65535)
);

CREATE TABLE IF NOT EXISTS port_groups (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS port_group_ports (
	group_id TEXT NOT NULL,
	port_id TEXT NOT NULL,
	PRIMARY KEY (group_id, port_id),
	FOREIGN KEY (group_id) REFERENCES port_groups(id) ON DELETE CASCADE,
	FOREIGN KEY (port_id) REFERENCES ports(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS host_tables (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS networks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	fqdn TEXT NOT NULL UNIQUE,
	ip TEXT NOT NULL,
	netmask TEXT NOT NULL,
	gateway TEXT,
	dns1 TEXT,
	dns2 TEXT,
	dns3 TEXT,
	trusted INTEGER CHECK (trusted IN (0, 1))
);

CREATE TABLE IF NOT EXISTS hosts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	fqdn TEXT NOT NULL UNIQUE,
	ip TEXT NOT NULL,
	mac TEXT UNIQUE,
	trusted INTEGER CHECK (trusted IN (0, 1)),
	network_id TEXT,
	FOREIGN KEY (network_id) REFERENCES networks(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS host_table_hosts (
	table_id TEXT NOT NULL,
	host_id TEXT NOT NULL,
	PRIMARY KEY (table_id, host_id),
	FOREIGN KEY (table_id) REFERENCES host_tables(id) ON DELETE CASCADE,
	FOREIGN KEY (host_id) REFERENCES hosts(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS host_table_networks (
	table_id TEXT NOT NULL,
	network_id TEXT NOT NULL,
	PRIMARY KEY (table_id, network_id),
	FOREIGN KEY (table_id) REFERENCES host_tables(id) ON DELETE CASCADE,
	FOREIGN KEY (network_id) REFERENCES networks(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_hardware_class ON firewall_hardware(class_id);
CREATE INDEX IF NOT EXISTS idx_firewalls_hardware ON firewalls(hardware_id);
CREATE INDEX IF NOT EXISTS idx_physical_interfaces_firewall ON physical_interfaces(firewall_id);
CREATE INDEX IF NOT EXISTS idx_logical_interfaces_firewall ON logical_interfaces(firewall_id);
CREATE INDEX IF NOT EXISTS idx_port_group_ports_port ON port_group_ports(port_id);
CREATE INDEX IF NOT EXISTS idx_hosts_network ON hosts(network_id);
CREATE INDEX IF NOT EXISTS idx_host_table_hosts_host ON host_table_hosts(host_id);
CREATE INDEX IF NOT EXISTS idx_host_table_networks_network ON host_table_networks(network_id);
`

// deleteRules lists, per table, the statements run in order to delete one
// row by id. Every statement takes the id as its only parameter; the last
// one removes the row itself.
var deleteRules = map[string][]string{
	"firewall_hardware_classes": {
		`DELETE FROM physical_interfaces WHERE firewall_id IN (
			SELECT f.id FROM firewalls f JOIN firewall_hardware h ON h.id = f.hardware_id WHERE h.class_id = ?)`,
		`DELETE FROM logical_interfaces WHERE firewall_id IN (
			SELECT f.id FROM firewalls f JOIN firewall_hardware h ON h.id = f.hardware_id WHERE h.class_id = ?)`,
		`DELETE FROM firewalls WHERE hardware_id IN (SELECT id FROM firewall_hardware WHERE class_id = ?)`,
		`DELETE FROM firewall_hardware WHERE class_id = ?`,
		`DELETE FROM firewall_hardware_classes WHERE id = ?`,
	},
	"firewall_hardware": {
		`DELETE FROM physical_interfaces WHERE firewall_id IN (SELECT id FROM firewalls WHERE hardware_id = ?)`,
		`DELETE FROM logical_interfaces WHERE firewall_id IN (SELECT id FROM firewalls WHERE hardware_id = ?)`,
		`DELETE FROM firewalls WHERE hardware_id = ?`,
		`DELETE FROM firewall_hardware WHERE id = ?`,
	},
	"firewalls": {
		`DELETE FROM physical_interfaces WHERE firewall_id = ?`,
		`DELETE FROM logical_interfaces WHERE firewall_id = ?`,
		`DELETE FROM firewalls WHERE id = ?`,
	},
	"physical_interfaces": {
		`DELETE FROM physical_interfaces WHERE id = ?`,
	},
	"logical_interfaces": {
		`DELETE FROM logical_interfaces WHERE id = ?`,
	},
	"ports": {
		`DELETE FROM port_group_ports WHERE port_id = ?`,
		`DELETE FROM ports WHERE id = ?`,
	},
	"port_groups": {
		`DELETE FROM port_group_ports WHERE group_id = ?`,
		`DELETE FROM port_groups WHERE id = ?`,
	},
	"host_tables": {
		`DELETE FROM host_table_hosts WHERE table_id = ?`,
		`DELETE FROM host_table_networks WHERE table_id = ?`,
		`DELETE FROM host_tables WHERE id = ?`,
	},
	"networks": {
		`UPDATE hosts SET network_id = NULL WHERE network_id = ?`,
		`DELETE FROM host_table_networks WHERE network_id = ?`,
		`DELETE FROM networks WHERE id = ?`,
	},
	"hosts": {
		`DELETE FROM host_table_hosts WHERE host_id = ?`,
		`DELETE FROM hosts WHERE id = ?`,
	},
}

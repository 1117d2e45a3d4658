package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fwinventory/internal/domain"
)

const sampleYAML = `hardware_classes:
  - name: SG
hardware:
  - name: SG-3100
    class: SG
firewalls:
  - name: edge-01
    hardware: SG-3100
    hostname: edge-01.example.net
    asset_tag: A-0001
    org_asset_tag: ORG-0001
    physical_interfaces:
      - name: igb0
        mac: 00:1b:21:aa:bb:01
ports:
  - name: ssh
    protocol: tcp
    port: 22
  - name: dns
    protocol: udp
    port: 53
port_groups:
  - name: admin
    ports: [ssh/tcp/22]
networks:
  - name: dmz
    fqdn: dmz.example.net
    ip: 10.1.0.0
    netmask: 255.255.0.0
hosts:
  - name: web1
    fqdn: web1.example.net
    ip: 10.1.0.10
    network: dmz
  - name: stray
    fqdn: stray.example.net
    ip: 192.0.2.7
`

type cli struct {
	t      *testing.T
	dir    string
	config string
	db     string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"FWINVENTORY_CONFIG", "FWINVENTORY_DB", "FWINVENTORY_LOG_LEVEL", "FWINVENTORY_LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	c := &cli{
		t:      t,
		dir:    dir,
		config: filepath.Join(dir, "fwinventory.yaml"),
		db:     filepath.Join(dir, "inventory.db"),
	}
	c.writeConfig("logging:\n  level: warn\n")
	return c
}

func (c *cli) writeConfig(body string) {
	c.t.Helper()
	require.NoError(c.t, os.WriteFile(c.config, []byte(body), 0644))
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	return c.runContext(context.Background(), args...)
}

func (c *cli) runContext(ctx context.Context, args ...string) (string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", c.config, "--db", c.db}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func (c *cli) importSample() {
	c.t.Helper()
	path := filepath.Join(c.dir, "inventory.yaml")
	require.NoError(c.t, os.WriteFile(path, []byte(sampleYAML), 0644))
	_, err := c.run("import", path)
	require.NoError(c.t, err)
}

func TestMigrate(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("migrate")
	require.NoError(t, err)
	assert.Contains(t, out, c.db)
	assert.FileExists(t, c.db)
}

func TestImportAndList(t *testing.T) {
	c := newCLI(t)
	c.importSample()

	out, err := c.run("list", "port", "--filter", "name=ssh")
	require.NoError(t, err)

	var ports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &ports))
	require.Len(t, ports, 1)
	assert.Equal(t, "tcp", ports[0]["protocol"])
	assert.EqualValues(t, 22, ports[0]["port"])

	out, err = c.run("list", "host", "-f", "network_id=null")
	require.NoError(t, err)
	var hosts []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &hosts))
	require.Len(t, hosts, 1)
	assert.Equal(t, "stray", hosts[0]["name"])
}

func TestImportRejectsBadDocument(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ports":[{"name":"big","port":70000}]}`), 0644))

	_, err := c.run("import", path)
	require.Error(t, err)

	out, err := c.run("list", "port")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestExport(t *testing.T) {
	c := newCLI(t)
	c.importSample()

	out, err := c.run("export", "--format", "json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc["ports"], 2)
	assert.Len(t, doc["firewalls"], 1)

	file := filepath.Join(c.dir, "out.yaml")
	_, err = c.run("export", "-o", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "edge-01.example.net")
}

func TestTypesRespectsExpose(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("types")
	require.NoError(t, err)
	assert.Contains(t, out, "firewall_hardware_class")
	assert.Contains(t, out, "host_table")

	c.writeConfig("admin:\n  expose: [port, host]\n")
	out, err = c.run("types")
	require.NoError(t, err)
	assert.Contains(t, out, "port")
	assert.NotContains(t, out, "firewall")

	_, err = c.run("list", "firewall")
	assert.ErrorContains(t, err, "unknown or hidden")
}

func TestListUnknownFilter(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("list", "port", "-f", "colour=blue")
	assert.Error(t, err)

	_, err = c.run("list", "port", "-f", "noequals")
	assert.ErrorContains(t, err, "field=value")
}

func TestConfigInit(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "new", "config.yaml")

	out, err := c.run("config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = c.run("config", "init", "--path", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = c.run("config", "init", "--path", path, "--force")
	assert.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Database: "+c.db)
	assert.Contains(t, out, "level=warn")
}

func TestParseFilter(t *testing.T) {
	filter, err := parseFilter([]string{"name=007", "port=443", "network_id=null", "trusted=true"})
	require.NoError(t, err)
	assert.Equal(t, "007", filter["name"])
	assert.Equal(t, "443", filter["port"])
	assert.Equal(t, "true", filter["trusted"])
	v, ok := filter["network_id"]
	assert.True(t, ok)
	assert.Nil(t, v)

	filter, err = parseFilter(nil)
	require.NoError(t, err)
	assert.Nil(t, filter)
}

func TestListKeepsTextValues(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "ports.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ports":[{"name":"007","port":7},{"name":"7","protocol":"udp","port":7}]}`), 0644))
	_, err := c.run("import", path)
	require.NoError(t, err)

	out, err := c.run("list", "port", "-f", "name=007")
	require.NoError(t, err)
	var ports []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &ports))
	require.Len(t, ports, 1)
	assert.Equal(t, "007", ports[0]["name"])

	out, err = c.run("list", "port", "-f", "port=7")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &ports))
	assert.Len(t, ports, 2)
}

func TestCheck(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	out, err := c.run("check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	out, err = c.run("list", "port")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	_, err = c.run("import", path)
	require.NoError(t, err)
	out, err = c.run("check", path)
	assert.Error(t, err)
	assert.Contains(t, out, "already")
}

func TestCheckWatchReportsLastResult(t *testing.T) {
	c := newCLI(t)

	good := filepath.Join(c.dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(sampleYAML), 0644))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := c.runContext(ctx, "check", "--watch", good)
	assert.NoError(t, err)
	assert.Contains(t, out, "ok")

	bad := filepath.Join(c.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("ports:\n  - {name: big, port: 70000}\n"), 0644))
	ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = c.runContext(ctx, "check", "--watch", bad)
	assert.ErrorIs(t, err, domain.ErrConstraint)
}

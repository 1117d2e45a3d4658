package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
hardware_classes:
  - name: Netgate 1000 series
hardware:
  - name: SG-1100
    class: Netgate 1000 series
    one_gbe_interface_count: 3
firewalls:
  - name: edge-01
    hardware: SG-1100
    hostname: edge-01.example.net
    asset_tag: A-0001
    org_asset_tag: a0B5g00000XyZ12AAB
    physical_interfaces:
      - name: mvneta0
        mac: 00:08:a2:00:00:01
    logical_interfaces:
      - name: lan
        ip: 192.168.1.1
        netmask: 255.255.255.0
        mac: 00:08:a2:00:00:01
ports:
  - name: http
    port: 80
  - name: https
    protocol: tcp
    port: 443
port_groups:
  - name: web
    ports: [http, https/tcp/443]
networks:
  - name: dmz
    fqdn: dmz.example.net
    ip: 10.1.0.0
    netmask: 255.255.0.0
    dns_servers: [10.0.0.53]
    trusted: false
hosts:
  - name: web1
    fqdn: web1.example.net
    ip: 10.1.0.10
    network: dmz
host_tables:
  - name: public
    hosts: [web1]
    networks: [dmz]
`

func TestYAMLParse(t *testing.T) {
	doc, err := NewYAMLCodec().Parse(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	require.Len(t, doc.Firewalls, 1)
	fw := doc.Firewalls[0]
	assert.Equal(t, "SG-1100", fw.Hardware)
	assert.Len(t, fw.PhysicalInterfaces, 1)
	assert.Len(t, fw.LogicalInterfaces, 1)

	require.Len(t, doc.Hardware, 1)
	require.NotNil(t, doc.Hardware[0].OneGbEInterfaceCount)
	assert.Equal(t, 3, *doc.Hardware[0].OneGbEInterfaceCount)
	assert.Nil(t, doc.Hardware[0].RAMGB)

	require.Len(t, doc.Networks, 1)
	require.NotNil(t, doc.Networks[0].Trusted)
	assert.False(t, *doc.Networks[0].Trusted)
	assert.Nil(t, doc.Hosts[0].Trusted)

	assert.Equal(t, []string{"http", "https/tcp/443"}, doc.PortGroups[0].Ports)
	assert.Equal(t, 11, doc.Len())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := NewYAMLCodec().Parse(strings.NewReader("firewalls:\n  - name: a\n    colour: red\n"))
	assert.Error(t, err)

	_, err = NewJSONCodec().Parse(strings.NewReader(`{"ports": [{"name": "ssh", "port": 22, "flags": 1}]}`))
	assert.Error(t, err)
}

func TestParseRejectsSecondDocument(t *testing.T) {
	_, err := NewYAMLCodec().Parse(strings.NewReader("ports: []\n---\nports: []\n"))
	assert.ErrorContains(t, err, "one document")

	_, err = NewJSONCodec().Parse(strings.NewReader(`{"ports": []} {"ports": []}`))
	assert.ErrorContains(t, err, "after document")
}

func TestYAMLParseEmpty(t *testing.T) {
	doc, err := NewYAMLCodec().Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Len())
}

func TestExportThenParse(t *testing.T) {
	doc, err := NewYAMLCodec().Parse(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			c, err := ForFormat(format)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, c.Export(doc, &buf))
			back, err := c.Parse(&buf)
			require.NoError(t, err)
			assert.Equal(t, doc, back)
		})
	}
}

func TestJSONExportOmitsEmptySections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(&Document{Ports: []Port{{Name: "ssh", Port: 22}}}, &buf))
	assert.JSONEq(t, `{"ports": [{"name": "ssh", "port": 22}]}`, buf.String())
}

func TestForFormat(t *testing.T) {
	c, err := ForFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, "yaml", c.Format())

	_, err = ForFormat("ansible")
	assert.Error(t, err)

	assert.Equal(t, "json", FormatFromPath("/tmp/inventory.JSON"))
	assert.Equal(t, "yaml", FormatFromPath("inventory.yaml"))
	assert.Equal(t, "yaml", FormatFromPath("inventory"))
}

func TestParsePortRef(t *testing.T) {
	tests := []struct {
		ref  string
		want PortRef
	}{
		{"http", PortRef{Name: "http"}},
		{"https/tcp/443", PortRef{Name: "https", Protocol: "tcp", Port: 443}},
		{"dns/UDP/53", PortRef{Name: "dns", Protocol: "udp", Port: 53}},
		{"a/b/udp/5000", PortRef{Name: "a/b", Protocol: "udp", Port: 5000}},
		{"weird/icmp/1", PortRef{Name: "weird/icmp/1"}},
		{"x/tcp/eighty", PortRef{Name: "x/tcp/eighty"}},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got := ParsePortRef(tt.ref)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Protocol != "", got.Qualified())
		})
	}

	assert.Equal(t, "http/tcp/80", Port{Name: "http", Port: 80}.Ref())
}

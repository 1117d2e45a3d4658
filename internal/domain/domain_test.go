package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestPortValidate(t *testing.T) {
	tests := []struct {
		name    string
		port    Port
		wantErr error
	}{
		{"lowest port", Port{Name: "zero", Protocol: ProtocolTCP, Number: 0}, nil},
		{"highest port", Port{Name: "top", Protocol: ProtocolUDP, Number: 65535}, nil},
		{"negative port", Port{Name: "neg", Protocol: ProtocolTCP, Number: -1}, ErrConstraint},
		{"port above range", Port{Name: "big", Protocol: ProtocolTCP, Number: 65536}, ErrConstraint},
		{"unknown protocol", Port{Name: "icmp", Protocol: "icmp", Number: 1}, ErrValidation},
		{"missing name", Port{Protocol: ProtocolTCP, Number: 22}, ErrConstraint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.port.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPortValidateDefaultsProtocol(t *testing.T) {
	p := Port{Name: "ssh", Number: 22}
	require.NoError(t, p.Validate())
	assert.Equal(t, ProtocolTCP, p.Protocol)

	p = Port{Name: "dns", Protocol: "UDP", Number: 53}
	require.NoError(t, p.Validate())
	assert.Equal(t, ProtocolUDP, p.Protocol)
}

func TestHardwareValidate(t *testing.T) {
	class := uuid.New()

	t.Run("optional counts may be absent", func(t *testing.T) {
		h := FirewallHardware{ClassID: class, Name: "SG-3100"}
		assert.NoError(t, h.Validate())
	})

	t.Run("zero counts are allowed", func(t *testing.T) {
		h := FirewallHardware{ClassID: class, Name: "SG-1100", TenGbEInterfaceCount: intPtr(0)}
		assert.NoError(t, h.Validate())
	})

	t.Run("negative count is a constraint error", func(t *testing.T) {
		h := FirewallHardware{ClassID: class, Name: "XG-7100", OneGbEInterfaceCount: intPtr(-2)}
		var ce *ConstraintError
		require.ErrorAs(t, h.Validate(), &ce)
		assert.Equal(t, "one_gbe_interface_count", ce.Field)
	})

	t.Run("class is required", func(t *testing.T) {
		h := FirewallHardware{Name: "orphan"}
		assert.ErrorIs(t, h.Validate(), ErrConstraint)
	})
}

func TestFirewallValidateOrgAssetTagLength(t *testing.T) {
	fw := Firewall{
		HardwareID:  uuid.New(),
		Name:        "edge-01",
		Hostname:    "edge-01.example.net",
		AssetTag:    "A-0001",
		OrgAssetTag: "0123456789abcdefghij",
	}
	var ce *ConstraintError
	require.ErrorAs(t, fw.Validate(), &ce)
	assert.Equal(t, "org_asset_tag", ce.Field)

	fw.OrgAssetTag = "a0B5g00000XyZ12AAB"
	assert.NoError(t, fw.Validate())
}

func TestInterfaceAddressCanonicalization(t *testing.T) {
	li := LogicalInterface{
		FirewallID: uuid.New(),
		Name:       "igb0",
		IP:         " 2001:DB8::1 ",
		Netmask:    "255.255.255.0",
		MAC:        "00-1B-21-AA-BB-CC",
	}
	require.NoError(t, li.Validate())
	assert.Equal(t, "2001:db8::1", li.IP)
	assert.Equal(t, "00:1b:21:aa:bb:cc", li.MAC)

	li.Gateway = "not-an-ip"
	var ve *ValidationError
	require.ErrorAs(t, li.Validate(), &ve)
	assert.Equal(t, "gateway", ve.Field)

	pi := PhysicalInterface{FirewallID: uuid.New(), Name: "igb1", MAC: "zz:zz"}
	assert.ErrorIs(t, pi.Validate(), ErrValidation)
}

func TestNetworkValidate(t *testing.T) {
	base := func() Network {
		return Network{
			Name:    "dmz",
			FQDN:    "dmz.example.net",
			IP:      "10.1.0.0",
			Netmask: "255.255.0.0",
		}
	}

	t.Run("three dns servers", func(t *testing.T) {
		n := base()
		n.DNSServers = []string{"10.0.0.53", "10.0.1.53", "2001:4860:4860::8888"}
		assert.NoError(t, n.Validate())
	})

	t.Run("four dns servers", func(t *testing.T) {
		n := base()
		n.DNSServers = []string{"1.1.1.1", "1.0.0.1", "8.8.8.8", "8.8.4.4"}
		assert.ErrorIs(t, n.Validate(), ErrConstraint)
	})

	t.Run("empty dns list becomes nil", func(t *testing.T) {
		n := base()
		n.DNSServers = []string{}
		require.NoError(t, n.Validate())
		assert.Nil(t, n.DNSServers)
	})

	t.Run("out of range trust", func(t *testing.T) {
		n := base()
		n.Trusted = Trust(7)
		assert.ErrorIs(t, n.Validate(), ErrValidation)
	})
}

func TestHostValidate(t *testing.T) {
	h := Host{Name: "web1", FQDN: "web1.example.net", IP: "10.1.2.3"}
	require.NoError(t, h.Validate())
	assert.Equal(t, "", h.MAC)

	nilNet := uuid.Nil
	h.NetworkID = &nilNet
	require.NoError(t, h.Validate())
	assert.Nil(t, h.NetworkID)

	h.MAC = "bogus"
	assert.ErrorIs(t, h.Validate(), ErrValidation)
}

func TestTrustJSON(t *testing.T) {
	tests := []struct {
		trust Trust
		json  string
	}{
		{TrustUnknown, "null"},
		{TrustTrusted, "true"},
		{TrustUntrusted, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.trust.String(), func(t *testing.T) {
			data, err := json.Marshal(tt.trust)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var back Trust
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.trust, back)
		})
	}

	var bad Trust
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &bad))
}

func TestApplyFields(t *testing.T) {
	netID := uuid.New()
	cur := &Host{
		ID:        uuid.New(),
		Name:      "db1",
		FQDN:      "db1.example.net",
		IP:        "10.0.0.5",
		Trusted:   TrustTrusted,
		NetworkID: &netID,
	}

	t.Run("partial update leaves other fields", func(t *testing.T) {
		next, err := ApplyFields(EntityHost, cur, Fields{"ip": "10.0.0.6"})
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.6", next.IP)
		assert.Equal(t, "db1", next.Name)
		assert.Equal(t, cur.ID, next.ID)
		assert.Equal(t, "10.0.0.5", cur.IP, "input must not change")
	})

	t.Run("nil clears optional reference", func(t *testing.T) {
		next, err := ApplyFields(EntityHost, cur, Fields{"network_id": nil, "trusted": nil})
		require.NoError(t, err)
		assert.Nil(t, next.NetworkID)
		assert.Equal(t, TrustUnknown, next.Trusted)
	})

	t.Run("id is immutable", func(t *testing.T) {
		_, err := ApplyFields(EntityHost, cur, Fields{"id": uuid.New().String()})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "id", ve.Field)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := ApplyFields(EntityHost, cur, Fields{"color": "blue"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := ApplyFields(EntityPort, &Port{Name: "x"}, Fields{"port": "eighty"})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "port", ve.Field)
	})
}

func TestDanglingReferenceMatchesBothKinds(t *testing.T) {
	err := DanglingReference(EntityFirewall, "hardware_id", EntityHardware, "abc")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, EntityHardware, nf.Entity)
}

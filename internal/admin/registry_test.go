package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fwinventory/internal/domain"
	"fwinventory/internal/repository"
	"fwinventory/internal/repository/sqlite"
)

func TestDefaultExposesEveryType(t *testing.T) {
	reg := Default()
	assert.Len(t, reg.Types(), 10)
	assert.Equal(t, domain.EntityHardwareClass, reg.Names()[0])

	for _, et := range reg.Types() {
		assert.NotEmpty(t, et.Description, et.Name)
		assert.NotNil(t, et.List, et.Name)
	}
}

func TestRestrict(t *testing.T) {
	reg := Default()

	t.Run("keeps registry order", func(t *testing.T) {
		r, err := reg.Restrict([]string{domain.EntityHost, domain.EntityFirewall})
		require.NoError(t, err)
		assert.Equal(t, []string{domain.EntityFirewall, domain.EntityHost}, r.Names())

		_, ok := r.Lookup(domain.EntityPort)
		assert.False(t, ok)
	})

	t.Run("empty list keeps all", func(t *testing.T) {
		r, err := reg.Restrict(nil)
		require.NoError(t, err)
		assert.Equal(t, reg.Names(), r.Names())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := reg.Restrict([]string{"user"})
		assert.Error(t, err)
	})
}

func TestEntityTypeList(t *testing.T) {
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	defer repo.Close()
	ctx := context.Background()

	require.NoError(t, repo.Ports().Create(ctx, &domain.Port{Name: "ssh", Number: 22}))
	require.NoError(t, repo.Ports().Create(ctx, &domain.Port{Name: "dns", Protocol: domain.ProtocolUDP, Number: 53}))

	et, ok := Default().Lookup(domain.EntityPort)
	require.True(t, ok)

	all, err := et.List(ctx, repo, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	udp, err := et.List(ctx, repo, repository.Filter{"protocol": "udp"})
	require.NoError(t, err)
	require.Len(t, udp, 1)
	assert.Equal(t, "dns", udp[0].(*domain.Port).Name)

	_, err = et.List(ctx, repo, repository.Filter{"bogus": 1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

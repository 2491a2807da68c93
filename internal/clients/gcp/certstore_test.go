package gcp

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	tenantA := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	tenantB := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	key := ObjectKey(tenantA, "EIC-000042")
	require.Equal(t, "certificates/11111111-1111-1111-1111-111111111111/EIC-000042.pdf", key)

	// Same number under different tenants must never collide.
	require.NotEqual(t, key, ObjectKey(tenantB, "EIC-000042"))
}

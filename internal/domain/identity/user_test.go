package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbiz/backend/internal/domain/shared"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(uuid.New(), "  Admin ", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "admin", u.Login)
	assert.True(t, u.Active)
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.False(t, u.IsExternal())
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser(uuid.New(), "ab", "s3cret-pass")
	assert.Error(t, err)

	_, err = NewUser(uuid.New(), "admin", "short")
	assert.Error(t, err)
}

func TestUser_ExternalAndPermissions(t *testing.T) {
	u, err := NewUser(uuid.New(), "supplier.contact", "s3cret-pass")
	require.NoError(t, err)

	u.LinkThirdParty(uuid.New())
	assert.True(t, u.IsExternal())

	u.GrantPermissions(PermSupplierProposalAll, PermSupplierProposalAll)
	assert.Len(t, u.Permissions, 1)
	assert.True(t, u.HasPermission(PermSupplierProposalDelete))
	assert.False(t, u.HasPermission(PermDocumentMerge))

	u.RecordLogin(time.Now())
	assert.NotNil(t, u.LastLoginAt)
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission([]string{"*"}, PermDocumentMerge))
	assert.True(t, HasPermission([]string{PermDocumentMerge}, PermDocumentMerge))
	assert.False(t, HasPermission([]string{"document:read"}, PermDocumentMerge))
	assert.False(t, HasPermission(nil, PermDocumentMerge))
}

func TestActor(t *testing.T) {
	a := Actor{TenantID: uuid.New(), UserID: uuid.New(), Permissions: []string{PermSupplierProposalAll}}
	assert.True(t, a.Can(PermSupplierProposalValidate))
	assert.NoError(t, a.Require(PermSupplierProposalDelete))
	assert.ErrorIs(t, a.Require(PermDocumentMerge), shared.ErrForbidden)
	assert.False(t, a.IsExternal())

	tp := uuid.New()
	a.ThirdPartyID = &tp
	assert.True(t, a.IsExternal())
}

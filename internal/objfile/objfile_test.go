package objfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/ar/internal/testutil"
)

func TestSectionELF(t *testing.T) {
	t.Parallel()

	content := []byte("bundled library payload")
	obj := testutil.ELFWithSection(".bundled_lib", content)

	got, err := Section(obj, ".bundled_lib")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestSectionMissing(t *testing.T) {
	t.Parallel()

	obj := testutil.ELFWithSection(".other", []byte("x"))
	_, err := Section(obj, ".bundled_lib")
	assert.ErrorIs(t, err, ErrNoSection)
}

func TestSectionNotObject(t *testing.T) {
	t.Parallel()

	_, err := Section([]byte("plainly not an object file"), ".bundled_lib")
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestMachoName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "__bundled_lib", machoName(".bundled_lib"))
	assert.Equal(t, "__text", machoName(".text"))
	assert.Equal(t, "plain", machoName("plain"))
}

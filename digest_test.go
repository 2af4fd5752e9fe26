package nbt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nbt/format"
	"github.com/arloliu/nbt/tag"
)

func TestDigest_Deterministic(t *testing.T) {
	a, err := Digest(sampleTree())
	require.NoError(t, err)
	b, err := Digest(sampleTree())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDigest_SensitiveToContent(t *testing.T) {
	base, err := Digest(sampleTree())
	require.NoError(t, err)

	changed := sampleTree()
	changed.Child("Data").Child("Time").Int64++
	d, err := Digest(changed)
	require.NoError(t, err)
	require.NotEqual(t, base, d)
}

func TestDigest_IgnoresRootName(t *testing.T) {
	a := tag.NewCompound("one", tag.NewInt8("x", 1))
	b := tag.NewCompound("two", tag.NewInt8("x", 1))

	da, err := Digest(a)
	require.NoError(t, err)
	db, err := Digest(b)
	require.NoError(t, err)
	require.Equal(t, da, db)
}

func TestDigest_SensitiveToChildNames(t *testing.T) {
	a := tag.NewCompound("", tag.NewInt8("x", 1))
	b := tag.NewCompound("", tag.NewInt8("y", 1))

	da, err := Digest(a)
	require.NoError(t, err)
	db, err := Digest(b)
	require.NoError(t, err)
	require.NotEqual(t, da, db)
}

func TestDigest_RefusesInvalidTrees(t *testing.T) {
	var kindErr *format.InvalidTagKindError
	_, err := Digest(&tag.Node{Kind: format.TagEnd})
	require.ErrorAs(t, err, &kindErr)
}

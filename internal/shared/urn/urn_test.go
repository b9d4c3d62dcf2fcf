package urn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert.Equal(t, "urn:mvn:user:abc", New(KindUser, "abc"))
	assert.Equal(t, "urn:mvn:series:s1", New(KindSeries, "s1"))
	assert.Equal(t, "urn:mvn:unit:u1", New(KindUnit, "u1"))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(KindUser, "urn:mvn:user:abc"))
	assert.False(t, Is(KindUser, "urn:mvn:series:abc"))
	assert.False(t, Is(KindUser, "abc"))
	assert.False(t, Is(KindUser, ""))
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindUser, Kind("urn:mvn:user:abc"))
	assert.Equal(t, KindSeries, Kind("urn:mvn:series:s1"))
	assert.Equal(t, "", Kind("abc"))
	assert.Equal(t, "", Kind("urn:mvn:"))
	assert.Equal(t, "", Kind(""))
}

func TestID(t *testing.T) {
	assert.Equal(t, "abc", ID(KindUser, "urn:mvn:user:abc"))

	// legacy bare ids pass through
	assert.Equal(t, "abc", ID(KindUser, "abc"))

	// a URN of another kind is not stripped
	assert.Equal(t, "urn:mvn:series:s1", ID(KindUser, "urn:mvn:series:s1"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "urn:mvn:user:abc", Normalize(KindUser, "abc"))
	assert.Equal(t, "urn:mvn:user:abc", Normalize(KindUser, "urn:mvn:user:abc"))
	assert.Equal(t, "", Normalize(KindUser, ""))

	// already-prefixed values of any kind are left alone
	assert.Equal(t, "urn:mvn:series:s1", Normalize(KindUser, "urn:mvn:series:s1"))
}

func TestEqual(t *testing.T) {
	t.Run("both URN form", func(t *testing.T) {
		assert.True(t, Equal(KindUser, "urn:mvn:user:abc", "urn:mvn:user:abc"))
		assert.False(t, Equal(KindUser, "urn:mvn:user:abc", "urn:mvn:user:def"))
	})

	t.Run("legacy bare id on either side", func(t *testing.T) {
		assert.True(t, Equal(KindUser, "abc", "urn:mvn:user:abc"))
		assert.True(t, Equal(KindUser, "urn:mvn:user:abc", "abc"))
		assert.True(t, Equal(KindUser, "abc", "abc"))
	})

	t.Run("empty never matches", func(t *testing.T) {
		assert.False(t, Equal(KindUser, "", ""))
		assert.False(t, Equal(KindUser, "abc", ""))
		assert.False(t, Equal(KindUser, "", "abc"))
	})
}

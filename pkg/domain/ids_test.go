package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "traceability/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePublisherID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseSubjectID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseActorID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		parsed, err := ParseEventID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, EventID(validUUID), parsed)
	})
}

func TestMintedIDsAreUsableBeforePersistence(t *testing.T) {
	// Minting is pure; two mints never collide and never produce nil.
	a := NewPublisherID()
	b := NewPublisherID()
	assert.False(t, a.IsNil())
	assert.False(t, b.IsNil())
	assert.NotEqual(t, a, b)
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	publisherID := PublisherID(uuid.New())
	subjectID := SubjectID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ PublisherID = subjectID   // compile error
	// var _ SubjectID = publisherID   // compile error

	assert.NotEqual(t, uuid.UUID(publisherID), uuid.UUID(subjectID))
}

package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rollcall/pkg/domain-errors"
)

func TestParseEventID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseEventID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseEventID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseEventID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		_, err := ParseEventID(strings.Repeat("a", 1000))
		require.Error(t, err)
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseEventID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, EventID(valid), id)
	})
}

// All Parse functions share one validator; a cheap consistency sweep keeps
// the ID types from drifting apart.
func TestParseIDs_Consistency(t *testing.T) {
	for _, input := range []string{"", "junk", uuid.Nil.String()} {
		_, errEvent := ParseEventID(input)
		_, errMember := ParseMemberID(input)
		_, errRecord := ParseRecordID(input)
		assert.Error(t, errEvent, "input %q", input)
		assert.Error(t, errMember, "input %q", input)
		assert.Error(t, errRecord, "input %q", input)
	}

	valid := uuid.NewString()
	if _, err := ParseMemberID(valid); err != nil {
		t.Errorf("valid UUID rejected: %v", err)
	}
	if _, err := ParseRecordID(valid); err != nil {
		t.Errorf("valid UUID rejected: %v", err)
	}
}

func TestIDRoundTrip(t *testing.T) {
	id := NewEventID()
	parsed, err := ParseEventID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.False(t, id.IsZero())
	assert.True(t, EventID{}.IsZero())
}

func TestStatusParsing(t *testing.T) {
	t.Run("event status", func(t *testing.T) {
		st, err := ParseEventStatus("open")
		require.NoError(t, err)
		assert.Equal(t, EventStatusOpen, st)

		_, err = ParseEventStatus("paused")
		require.Error(t, err)
	})

	t.Run("record status", func(t *testing.T) {
		st, err := ParseRecordStatus("late")
		require.NoError(t, err)
		assert.Equal(t, RecordStatusLate, st)

		_, err = ParseRecordStatus("tardy")
		require.Error(t, err)
	})
}

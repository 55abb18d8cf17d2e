package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineOrder(t *testing.T) {
	stages := Pipeline()
	require.Len(t, stages, 6)

	want := []Status{
		StatusInterested, StatusApplied, StatusPhoneScreen,
		StatusInterview, StatusOffer, StatusRejected,
	}
	for i, st := range stages {
		assert.Equal(t, want[i], st.ID)
		assert.NotEmpty(t, st.Label)
	}
}

func TestPipelineReturnsCopy(t *testing.T) {
	stages := Pipeline()
	stages[0].Label = "mutated"
	assert.Equal(t, "Interested", Pipeline()[0].Label)
}

func TestStatusLabel(t *testing.T) {
	label, err := StatusPhoneScreen.Label()
	require.NoError(t, err)
	assert.Equal(t, "Phone Screen", label)
}

func TestStatusLabelUnknown(t *testing.T) {
	_, err := Status("GHOSTED").Label()
	require.Error(t, err)

	var unknownErr *UnknownStatusError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, Status("GHOSTED"), unknownErr.Status)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusApplied.Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("applied").Valid()) // case matters
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusOffer.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusInterview.Terminal())
	assert.False(t, StatusInterested.Terminal())
}

func TestStatusRank(t *testing.T) {
	ri, err := StatusInterested.Rank()
	require.NoError(t, err)
	ro, err := StatusOffer.Rank()
	require.NoError(t, err)
	assert.Less(t, ri, ro)

	_, err = Status("NOPE").Rank()
	assert.Error(t, err)
}

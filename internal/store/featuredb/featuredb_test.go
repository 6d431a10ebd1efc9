package featuredb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twinpics/internal/contextual"
	"twinpics/internal/dupes"
	"twinpics/internal/model"
)

func TestAccountsRoundTrip(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	run, err := db.NewRun(ctx, model.Twitter, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, run)

	rows := []AccountRow{
		{Handle: "b", Community: 1, Labels: []string{"BOT"}, Features: model.Features{Handle: "b", MaxTwDay: 300, DegreeCentrality: 0.5, SelfLoop: true, SelfLoopIteration: 2}},
		{Handle: "a", Community: 0, Labels: []string{"No"}, Context: &contextual.AccountResult{Handle: "a", Suggested: 2, Neutral: 1}},
	}
	require.NoError(t, db.PutAccounts(ctx, run, rows))
	rows[0].Community = 4
	require.NoError(t, db.PutAccounts(ctx, run, rows[:1]))

	got, err := db.LoadAccounts(ctx, run)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Handle)
	assert.Equal(t, 4, got[0].Community)
	assert.Equal(t, 300, got[0].Features.MaxTwDay)
	assert.Equal(t, 0.5, got[0].Features.DegreeCentrality)
	assert.True(t, got[0].Features.SelfLoop)
	assert.Equal(t, 2, got[0].Features.SelfLoopIteration)
	assert.Nil(t, got[0].Context)
	require.NotNil(t, got[1].Context)
	assert.Equal(t, 1.0, got[1].Context.Neutral)
	require.NoError(t, db.FinishRun(ctx, run, time.Now()))

	other, err := db.LoadAccounts(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGroups(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	g := dupes.Group{ID: "g1", Members: []string{"x", "y"}, Series: []dupes.Series{{Handle: "x", Counts: []int{1, 2}}}}
	require.NoError(t, db.PutGroup(ctx, "run", g))
	got, err := db.LoadGroups(ctx, "run")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"x", "y"}, got[0].Members)
	assert.Equal(t, []int{1, 2}, got[0].Series[0].Counts)
}

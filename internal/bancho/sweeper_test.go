package bancho

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweepIdle(t *testing.T) {
	st := newTestState(t)
	alice := mustLogin(t, st, "alice")
	bob := mustLogin(t, st, "bob")

	// Backdate alice's activity past the timeout; bob stays fresh.
	alice.mu.Lock()
	alice.latestActivity = time.Now().Add(-10 * time.Minute)
	alice.mu.Unlock()

	swept := st.SweepIdle(context.Background(), 5*time.Minute)

	assert.Equal(t, 1, swept)
	assert.Nil(t, st.Registry.ByUserID(alice.ID()))
	assert.NotNil(t, st.Registry.ByUserID(bob.ID()))
	assert.NotNil(t, st.Registry.ByUserID(st.Bot.ID()), "the bot never times out")
}

func TestSweepIdle_NothingToDo(t *testing.T) {
	st := newTestState(t)
	mustLogin(t, st, "alice")

	assert.Zero(t, st.SweepIdle(context.Background(), 5*time.Minute))
}

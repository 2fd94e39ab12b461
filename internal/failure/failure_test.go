package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCodes(t *testing.T) {
	want := map[Kind]int{
		Unclassified:      10,
		Output:            11,
		NoNetwork:         12,
		Update:            13,
		UpgradeSimulation: 14,
		Parse:             15,
		Render:            16,
	}
	require.Len(t, Kinds, len(want))
	for _, k := range Kinds {
		assert.Equal(t, want[k], ExitCode(k), "kind %s", k)
	}
}

func TestExitCodesDistinct(t *testing.T) {
	seen := make(map[int]Kind)
	for _, k := range Kinds {
		code := ExitCode(k)
		assert.NotEqual(t, ExitSuccess, code)
		assert.NotEqual(t, ExitUsage, code)
		if prev, ok := seen[code]; ok {
			t.Errorf("exit code %d shared by %s and %s", code, prev, k)
		}
		seen[code] = k
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, " no network available", Message(NoNetwork))
	assert.Equal(t, " update check failed", Message(Update))
	assert.Equal(t, " update check failed", Message(UpgradeSimulation))
	assert.Equal(t, " update check failed", Message(Parse))
	assert.Equal(t, " generation of output failed", Message(Render))
	assert.Equal(t, " update check failed", Message(Unclassified))
	for _, k := range Kinds {
		assert.NotEmpty(t, Message(k), "kind %s", k)
	}
}

func TestKindOf(t *testing.T) {
	cause := errors.New("exit status 100")
	err := New(Update, "update", cause)

	wrapped := fmt.Errorf("running pipeline: %w", err)
	assert.Equal(t, Update, KindOf(wrapped))
	assert.Equal(t, "update", StageOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	assert.Equal(t, Unclassified, KindOf(errors.New("boom")))
	assert.Equal(t, "", StageOf(errors.New("boom")))
	assert.Equal(t, Unclassified, KindOf(nil))
}

func TestErrorString(t *testing.T) {
	err := Newf(Parse, "parse", "pattern not found")
	assert.Equal(t, "parse: pattern not found", err.Error())

	bare := &Error{Kind: Render, Stage: "render"}
	assert.Equal(t, "render: render failed", bare.Error())
}

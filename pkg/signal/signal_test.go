package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiAndFilter(t *testing.T) {
	var all, cues Recorder
	sink := Multi(&all, nil, Filter(&cues, AudioCue))

	sink.Emit(Signal{Kind: EntryChanged})
	sink.Emit(Signal{Kind: AudioCue, Payload: "play"})
	sink.Emit(Signal{Kind: ModeChanged})

	assert.Equal(t, []Kind{EntryChanged, AudioCue, ModeChanged}, all.Kinds())
	require.Len(t, cues.Signals(), 1)
	assert.Equal(t, "play", cues.Signals()[0].Payload)
	assert.Len(t, all.OfKind(ModeChanged), 1)

	all.Reset()
	assert.Empty(t, all.Signals())
}

func TestChannel_DropsWhenFull(t *testing.T) {
	ch := NewChannel(1)
	ch.Emit(Signal{Kind: EntryChanged})
	ch.Emit(Signal{Kind: ModeChanged})

	assert.Equal(t, int64(1), ch.Dropped())
	got := <-ch.C
	assert.Equal(t, EntryChanged, got.Kind)

	ch.Close()
	ch.Emit(Signal{Kind: Error})
	_, ok := <-ch.C
	assert.False(t, ok)
	ch.Close()
}

func TestMarshalPayload(t *testing.T) {
	b, err := Signal{Kind: VolumeChanged, Payload: 0.4}.MarshalPayload()
	require.NoError(t, err)
	assert.Equal(t, "0.4", string(b))
}

package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hitPayload struct {
	pixelCount int
}

func TestMessenger_BindSingleDeliversOnce(t *testing.T) {
	m := NewMessenger()
	d := BindSingle[hitPayload](m, "Receiver", "", "", false, None)

	require.NoError(t, Dispatch(m, "Sender", "DetA", true, hitPayload{pixelCount: 3}, "", ""))

	v, ok := d.Get()
	require.True(t, ok)
	assert.Equal(t, 3, v.pixelCount)
}

func TestMessenger_BindSingleOverwriteWithoutFlagFails(t *testing.T) {
	m := NewMessenger()
	BindSingle[hitPayload](m, "Receiver", "", "", false, None)

	require.NoError(t, Dispatch(m, "Sender", "DetA", true, hitPayload{pixelCount: 1}, "", ""))
	err := Dispatch(m, "Sender", "DetB", true, hitPayload{pixelCount: 2}, "", "")
	var overwrite *MessageOverwriteError
	require.ErrorAs(t, err, &overwrite)
}

func TestMessenger_BindSingleAllowOverwrite(t *testing.T) {
	m := NewMessenger()
	d := BindSingle[hitPayload](m, "Receiver", "", "", false, AllowOverwrite)

	require.NoError(t, Dispatch(m, "Sender", "DetA", true, hitPayload{pixelCount: 1}, "", ""))
	require.NoError(t, Dispatch(m, "Sender", "DetB", true, hitPayload{pixelCount: 2}, "", ""))

	v, ok := d.Get()
	require.True(t, ok)
	assert.Equal(t, 2, v.pixelCount)
}

func TestMessenger_BindMultiAccumulates(t *testing.T) {
	m := NewMessenger()
	d := BindMulti[hitPayload](m, "Receiver", "", "", false, None)

	require.NoError(t, Dispatch(m, "Sender", "DetA", true, hitPayload{pixelCount: 1}, "", ""))
	require.NoError(t, Dispatch(m, "Sender", "DetB", true, hitPayload{pixelCount: 2}, "", ""))

	vals := d.Get()
	require.Len(t, vals, 2)
	assert.Equal(t, 1, vals[0].pixelCount)
	assert.Equal(t, 2, vals[1].pixelCount)
}

func TestMessenger_SourceFilterRestrictsDelivery(t *testing.T) {
	m := NewMessenger()
	d := BindMulti[hitPayload](m, "Receiver", "", "DetA", true, None)

	require.NoError(t, Dispatch(m, "Sender", "DetA", true, hitPayload{pixelCount: 1}, "", ""))
	require.NoError(t, Dispatch(m, "Sender", "DetB", true, hitPayload{pixelCount: 2}, "", ""))

	vals := d.Get()
	require.Len(t, vals, 1)
	assert.Equal(t, 1, vals[0].pixelCount)
}

func TestMessenger_NameMatchingAndIgnoreName(t *testing.T) {
	m := NewMessenger()
	named := BindMulti[hitPayload](m, "Named", "clustered", "", false, None)
	ignoring := BindMulti[hitPayload](m, "AnyName", "", "", false, IgnoreName)

	require.NoError(t, Dispatch(m, "Sender", "", false, hitPayload{pixelCount: 1}, "clustered", ""))
	require.NoError(t, Dispatch(m, "Sender", "", false, hitPayload{pixelCount: 2}, "raw", ""))

	assert.Len(t, named.Get(), 1)
	assert.Len(t, ignoring.Get(), 2)
}

func TestMessenger_RequiredDelegateSatisfaction(t *testing.T) {
	m := NewMessenger()
	BindSingle[hitPayload](m, "Receiver", "", "", false, Required)
	assert.False(t, m.Satisfied("Receiver"))

	require.NoError(t, Dispatch(m, "Sender", "", false, hitPayload{pixelCount: 1}, "", ""))
	assert.True(t, m.Satisfied("Receiver"))
}

func TestMessenger_ResetClearsStateExceptNoReset(t *testing.T) {
	m := NewMessenger()
	single := BindSingle[hitPayload](m, "Receiver", "", "", false, None)
	sticky := BindSingle[hitPayload](m, "Sticky", "", "", false, NoReset)

	require.NoError(t, Dispatch(m, "Sender", "", false, hitPayload{pixelCount: 1}, "", ""))

	m.Reset()

	_, ok := single.Get()
	assert.False(t, ok)
	v, ok := sticky.Get()
	assert.True(t, ok)
	assert.Equal(t, 1, v.pixelCount)
}

func TestMessenger_HasReceiver(t *testing.T) {
	m := NewMessenger()
	assert.False(t, HasReceiver[hitPayload](m, "", false, ""))
	BindMulti[hitPayload](m, "Receiver", "", "", false, None)
	assert.True(t, HasReceiver[hitPayload](m, "", false, ""))
}

func TestMessenger_RegisterListenerMatchesAnyType(t *testing.T) {
	m := NewMessenger()
	var seen []any
	RegisterListener(m, "Logger", nil, func(payload any, name string) {
		seen = append(seen, payload)
	}, None)

	require.NoError(t, Dispatch(m, "Sender", "", false, hitPayload{pixelCount: 5}, "", ""))
	require.NoError(t, Dispatch(m, "Sender", "", false, "a string message", "", ""))

	require.Len(t, seen, 2)
}

// SPDX-License-Identifier: MIT
package udp

import (
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"ambient/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) net.PacketConn {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { pc.Close() })
	return pc
}

func readEnvelope(t *testing.T, pc net.PacketConn) map[string]any {
	t.Helper()
	buf := make([]byte, MaxDatagram)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	var env map[string]any
	require.NoError(t, json.Unmarshal(buf[:n], &env))
	return env
}

func TestSenderSequencesMessages(t *testing.T) {
	pc := listen(t)
	s, err := NewSender(pc.LocalAddr().String())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Send(map[string]string{"type": "stage"}))
	require.NoError(t, s.Send(map[string]string{"type": "artifact"}))

	first := readEnvelope(t, pc)
	second := readEnvelope(t, pc)
	assert.EqualValues(t, 0, first["seq"])
	assert.EqualValues(t, 1, second["seq"])
	assert.Equal(t, "stage", first["data"].(map[string]any)["type"])
	assert.Equal(t, "artifact", second["data"].(map[string]any)["type"])
}

func TestSenderRejectsOversizedMessage(t *testing.T) {
	pc := listen(t)
	s, err := NewSender(pc.LocalAddr().String())
	require.NoError(t, err)
	defer s.Close()

	err = s.Send(strings.Repeat("x", MaxDatagram))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestSenderClose(t *testing.T) {
	pc := listen(t)
	s, err := NewSender(pc.LocalAddr().String())
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Send(1), transport.ErrClosed)
}

func TestNewSenderBadAddress(t *testing.T) {
	_, err := NewSender("no-port")
	assert.Error(t, err)
}

package notify

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySubscribers(t *testing.T) {
	reg := NewRegistry()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}

	reg.Register("ada-phone", 1, addr)
	reg.Register("bob-laptop", 2, addr)
	reg.Register("dashboard", 0, addr) // watch-all

	subs := reg.Subscribers(1)
	require.Len(t, subs, 2)
	ids := []string{subs[0].ClientID, subs[1].ClientID}
	assert.ElementsMatch(t, []string{"ada-phone", "dashboard"}, ids)

	reg.Remove("ada-phone")
	subs = reg.Subscribers(1)
	require.Len(t, subs, 1)
	assert.Equal(t, "dashboard", subs[0].ClientID)
}

func TestRegistryIgnoresInvalidRegistrations(t *testing.T) {
	reg := NewRegistry()
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}

	reg.Register("", 1, addr)
	reg.Register("no-addr", 1, nil)

	assert.Empty(t, reg.Subscribers(1))
}

func TestParseRegisterMessage(t *testing.T) {
	msg, err := parseRegisterMessage([]byte(`{"type":"register","client_id":"ada-phone","person_id":3}`))
	require.NoError(t, err)
	assert.Equal(t, RegisterMessageType, msg.Type)
	assert.Equal(t, "ada-phone", msg.ClientID)
	assert.Equal(t, int64(3), msg.PersonID)

	_, err = parseRegisterMessage([]byte(`{"type":"register"}`))
	assert.Error(t, err)

	_, err = parseRegisterMessage([]byte(`not json`))
	assert.Error(t, err)
}

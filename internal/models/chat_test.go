package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatIDIsOrderIndependent(t *testing.T) {
	pairs := [][2]string{
		{"A", "B"},
		{"zed", "amy"},
		{"uid-10", "uid-9"},
		{"same", "same"},
	}
	for _, p := range pairs {
		assert.Equal(t, ChatID(p[0], p[1]), ChatID(p[1], p[0]))
	}
	assert.Equal(t, "A_B", ChatID("B", "A"))
}

func TestChatParticipants(t *testing.T) {
	chat := Chat{Participants: []string{"alice", "bob"}}

	assert.True(t, chat.HasParticipant("alice"))
	assert.False(t, chat.HasParticipant("carol"))
	assert.Equal(t, "bob", chat.OtherParticipant("alice"))
	assert.Equal(t, "alice", chat.OtherParticipant("bob"))
}

func TestValidPrincipalID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"alice", true},
		{"uid-10", true},
		{"Kx9fQ2mZ", true},
		{"", false},
		{"a_b", false},
		{"users/alice", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPrincipalID(tt.id), tt.id)
	}
	// Distinct valid pairs never share a chat id.
	assert.NotEqual(t, ChatID("a-b", "c"), ChatID("a", "b-c"))
}

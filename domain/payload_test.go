package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsForwardable(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		want    bool
	}{
		{"text", Text{Body: "hi"}, true},
		{"photo", Media{Type: KindPhoto, FileID: "f"}, true},
		{"video note", Media{Type: KindVideoNote, FileID: "f"}, true},
		{"media with non media kind", Media{Type: KindText, FileID: "f"}, false},
		{"contact", Contact{PhoneNumber: "+100", FirstName: "A"}, true},
		{"location", Location{Latitude: 1, Longitude: 2}, true},
		{"dice", Dice{Emoji: "🎲"}, true},
		{"unsupported", Unsupported{Description: "poll"}, false},
		{"notice", NewNotice(NoticeHelp), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsForwardable(tt.payload))
		})
	}
}

func TestValidatePayload(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidatePayload(Text{Body: "hi"}))
	req.Error(ValidatePayload(Text{}))

	req.NoError(ValidatePayload(Media{Type: KindPhoto, FileID: "f"}))
	req.NoError(ValidatePayload(Media{Type: KindPhoto, Data: []byte{1}}))
	req.Error(ValidatePayload(Media{Type: KindPhoto}))

	req.NoError(ValidatePayload(Location{Latitude: 48.85, Longitude: 2.35}))
	req.Error(ValidatePayload(Location{Latitude: 120, Longitude: 2.35}))

	req.Error(ValidatePayload(Contact{FirstName: "A"}))
	req.Error(ValidatePayload(Dice{}))
}

func TestParseContentKind(t *testing.T) {
	req := require.New(t)
	for kind := range kindNames {
		req.Equal(kind, ParseContentKind(kind.String()))
	}
	req.Equal(KindUnknown, ParseContentKind("poll"))
}

func TestSession_PartnerOf(t *testing.T) {
	req := require.New(t)
	partner := UserHandle(2)

	_, ok := Session{State: Searching}.PartnerOf()
	req.False(ok)

	got, ok := Session{State: Chatting, Partner: &partner}.PartnerOf()
	req.True(ok)
	req.Equal(partner, got)
}

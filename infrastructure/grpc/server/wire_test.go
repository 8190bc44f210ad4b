package server

import (
	"chat-pair/domain"
	"chat-pair/errors"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestToPayload_InlineGifIsAnimation(t *testing.T) {
	req := require.New(t)
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	in, err := structpb.NewStruct(map[string]any{"data": base64.StdEncoding.EncodeToString(gif)})
	req.NoError(err)

	// When inline bytes arrive without a kind
	payload, err := toPayload(in)

	// Then the kind is sniffed from the content
	req.NoError(err)
	media, ok := payload.(domain.Media)
	req.True(ok)
	req.Equal(domain.KindAnimation, media.Type)
	req.Equal("image/gif", media.MIME)
}

func TestToPayload_UnknownKindIsUnsupported(t *testing.T) {
	req := require.New(t)
	in, err := structpb.NewStruct(map[string]any{"kind": "poll"})
	req.NoError(err)

	payload, err := toPayload(in)

	req.NoError(err)
	req.Equal(domain.Unsupported{Description: "poll"}, payload)
}

func TestToPayload_BadBase64(t *testing.T) {
	req := require.New(t)
	in, err := structpb.NewStruct(map[string]any{"kind": "photo", "data": "%%%"})
	req.NoError(err)

	_, err = toPayload(in)

	req.ErrorIs(err, errors.ErrInvalidPayload)
}

func TestParseHandle(t *testing.T) {
	req := require.New(t)

	h, err := parseHandle(map[string]*structpb.Value{"handle": structpb.NewStringValue("-100123")})
	req.NoError(err)
	req.Equal(domain.UserHandle(-100123), h)

	h, err = parseHandle(map[string]*structpb.Value{"handle": structpb.NewNumberValue(42)})
	req.NoError(err)
	req.Equal(domain.UserHandle(42), h)

	_, err = parseHandle(map[string]*structpb.Value{"handle": structpb.NewNumberValue(1.5)})
	req.ErrorIs(err, errors.ErrInvalidHandle)
}

func TestFromPayload_Location(t *testing.T) {
	req := require.New(t)

	msg, err := fromPayload(domain.Location{Latitude: 48.85, Longitude: 2.35}, "")

	req.NoError(err)
	req.Equal("location", msg.GetFields()["kind"].GetStringValue())
	req.InDelta(48.85, msg.GetFields()["latitude"].GetNumberValue(), 0.0001)
}

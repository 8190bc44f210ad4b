package mimetypes

import (
	"chat-pair/domain"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type MIME string

const (
	Unknown MIME = "unknown"

	ApplicationPDF MIME = "application/pdf"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
	ImageWEBP MIME = "image/webp"

	AudioOGG  MIME = "audio/ogg"
	AudioMPEG MIME = "audio/mpeg"
	VideoMP4  MIME = "video/mp4"
)

// Detect sniffs the leading bytes of an inline attachment.
func Detect(data []byte) MIME {
	mt, _, err := mime.ParseMediaType(mimetype.Detect(data).String())
	if err != nil {
		return Unknown
	}
	return MIME(mt)
}

// KindOf maps a media type to the content kind used to relay it.
// GIF is relayed as an animation, ogg audio as a voice note.
func KindOf(m MIME) domain.ContentKind {
	switch {
	case m == ImageGIF:
		return domain.KindAnimation
	case m == ImageWEBP:
		return domain.KindSticker
	case strings.HasPrefix(string(m), "image/"):
		return domain.KindPhoto
	case m == AudioOGG:
		return domain.KindVoice
	case strings.HasPrefix(string(m), "audio/"):
		return domain.KindAudio
	case strings.HasPrefix(string(m), "video/"):
		return domain.KindVideo
	default:
		return domain.KindDocument
	}
}

// Classify fills the kind and media type of inline media sent without an explicit kind.
func Classify(m domain.Media) domain.Media {
	if len(m.Data) == 0 {
		return m
	}
	detected := Detect(m.Data)
	if m.MIME == "" {
		m.MIME = string(detected)
	}
	if !m.Type.IsMedia() {
		m.Type = KindOf(detected)
	}
	return m
}

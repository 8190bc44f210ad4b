// Package domain contains core concepts of the pairing system.
// This file defines the closed set of payloads exchanged with a transport.
package domain

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ContentKind int

const (
	KindUnknown ContentKind = iota
	KindText
	KindPhoto
	KindVideo
	KindAudio
	KindVoice
	KindVideoNote
	KindSticker
	KindAnimation
	KindDocument
	KindContact
	KindLocation
	KindDice
	KindNotice
)

var kindNames = map[ContentKind]string{
	KindUnknown:   "unknown",
	KindText:      "text",
	KindPhoto:     "photo",
	KindVideo:     "video",
	KindAudio:     "audio",
	KindVoice:     "voice",
	KindVideoNote: "video_note",
	KindSticker:   "sticker",
	KindAnimation: "animation",
	KindDocument:  "document",
	KindContact:   "contact",
	KindLocation:  "location",
	KindDice:      "dice",
	KindNotice:    "notice",
}

func (k ContentKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// ParseContentKind is the inverse of ContentKind.String.
func ParseContentKind(name string) ContentKind {
	for kind, n := range kindNames {
		if n == name {
			return kind
		}
	}
	return KindUnknown
}

// IsMedia reports whether the kind is carried by a Media payload.
func (k ContentKind) IsMedia() bool {
	switch k {
	case KindPhoto, KindVideo, KindAudio, KindVoice, KindVideoNote,
		KindSticker, KindAnimation, KindDocument:
		return true
	}
	return false
}

// Payload is implemented only by the types of this package.
type Payload interface {
	Kind() ContentKind
	isPayload()
}

type Text struct {
	Body string `validate:"required"`
}

// Media covers every file-backed kind. Transports referencing remote files
// fill FileID; transports carrying the bytes inline fill Data.
type Media struct {
	Type    ContentKind
	FileID  string `validate:"required_without=Data"`
	Data    []byte `validate:"required_without=FileID"`
	MIME    string
	Caption string
}

type Contact struct {
	PhoneNumber string `validate:"required"`
	FirstName   string `validate:"required"`
	LastName    string
}

type Location struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
}

type Dice struct {
	Emoji string `validate:"required"`
}

// Unsupported stands for any inbound content the transport could not map.
type Unsupported struct {
	Description string
}

func (Text) Kind() ContentKind     { return KindText }
func (Contact) Kind() ContentKind  { return KindContact }
func (Location) Kind() ContentKind { return KindLocation }
func (Dice) Kind() ContentKind     { return KindDice }
func (Unsupported) Kind() ContentKind {
	return KindUnknown
}

func (m Media) Kind() ContentKind {
	if m.Type.IsMedia() {
		return m.Type
	}
	return KindUnknown
}

func (Text) isPayload()        {}
func (Media) isPayload()       {}
func (Contact) isPayload()     {}
func (Location) isPayload()    {}
func (Dice) isPayload()        {}
func (Unsupported) isPayload() {}
func (Notice) isPayload()      {}

// IsForwardable reports whether a payload may be relayed to a partner.
// Notices are produced by the system and never forwarded.
func IsForwardable(p Payload) bool {
	if p == nil {
		return false
	}
	kind := p.Kind()
	return kind != KindUnknown && kind != KindNotice
}

// ValidatePayload checks the fields required by the payload kind.
func ValidatePayload(p Payload) error {
	return validate.Struct(p)
}

package server

import (
	"chat-pair/domain"
	"chat-pair/domain/mimetypes"
	"chat-pair/errors"
	"encoding/base64"
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// parseHandle accepts the handle as a decimal string or a number.
// Strings are preferred, a JSON number loses precision above 2^53.
func parseHandle(fields map[string]*structpb.Value) (domain.UserHandle, error) {
	value, ok := fields["handle"]
	if !ok {
		return 0, fmt.Errorf("%w: missing handle", errors.ErrInvalidHandle)
	}
	switch v := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		h, err := strconv.ParseInt(v.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errors.ErrInvalidHandle, v.StringValue)
		}
		return domain.UserHandle(h), nil
	case *structpb.Value_NumberValue:
		if v.NumberValue != float64(int64(v.NumberValue)) {
			return 0, fmt.Errorf("%w: %v", errors.ErrInvalidHandle, v.NumberValue)
		}
		return domain.UserHandle(int64(v.NumberValue)), nil
	default:
		return 0, fmt.Errorf("%w: unexpected type", errors.ErrInvalidHandle)
	}
}

func toCommand(in *structpb.Struct) (domain.Command, error) {
	fields := in.GetFields()
	handle, err := parseHandle(fields)
	if err != nil {
		return domain.Command{}, err
	}
	name := fields["command"].GetStringValue()
	kind := domain.ParseCommandKind(name)
	if kind == domain.CommandUnknown {
		return domain.Command{}, fmt.Errorf("%w: %q", errors.ErrUnknownCommand, name)
	}
	cmd := domain.Command{Sender: handle, Kind: kind}
	if kind != domain.CommandForwardPayload {
		return cmd, nil
	}
	payload, err := toPayload(fields["payload"].GetStructValue())
	if err != nil {
		return domain.Command{}, err
	}
	cmd.Payload = payload
	return cmd, nil
}

// toPayload decodes an inbound payload. Kinds it cannot map become Unsupported,
// the relay answers those with an unsupported notice.
func toPayload(in *structpb.Struct) (domain.Payload, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: missing payload", errors.ErrInvalidPayload)
	}
	fields := in.GetFields()
	str := func(key string) string { return fields[key].GetStringValue() }

	name := str("kind")
	kind := domain.ParseContentKind(name)
	switch {
	case kind == domain.KindText:
		return domain.Text{Body: str("text")}, nil
	case kind == domain.KindContact:
		return domain.Contact{PhoneNumber: str("phone_number"), FirstName: str("first_name"), LastName: str("last_name")}, nil
	case kind == domain.KindLocation:
		return domain.Location{
			Latitude:  fields["latitude"].GetNumberValue(),
			Longitude: fields["longitude"].GetNumberValue(),
		}, nil
	case kind == domain.KindDice:
		return domain.Dice{Emoji: str("emoji")}, nil
	case kind.IsMedia(), name == "" && str("data") != "":
		media := domain.Media{Type: kind, FileID: str("file_id"), MIME: str("mime"), Caption: str("caption")}
		if encoded := str("data"); encoded != "" {
			data, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, fmt.Errorf("%w: data is not base64: %v", errors.ErrInvalidPayload, err)
			}
			media.Data = data
		}
		return mimetypes.Classify(media), nil
	default:
		return domain.Unsupported{Description: name}, nil
	}
}

// fromPayload encodes an outbound payload, notices are rendered by the caller.
func fromPayload(payload domain.Payload, rendered string) (*structpb.Struct, error) {
	fields := map[string]any{"kind": payload.Kind().String()}
	switch p := payload.(type) {
	case domain.Notice:
		fields["key"] = string(p.Key)
		fields["text"] = rendered
	case domain.Text:
		fields["text"] = p.Body
	case domain.Media:
		if p.FileID != "" {
			fields["file_id"] = p.FileID
		}
		if len(p.Data) > 0 {
			fields["data"] = base64.StdEncoding.EncodeToString(p.Data)
		}
		if p.MIME != "" {
			fields["mime"] = p.MIME
		}
		if p.Caption != "" {
			fields["caption"] = p.Caption
		}
	case domain.Contact:
		fields["phone_number"] = p.PhoneNumber
		fields["first_name"] = p.FirstName
		fields["last_name"] = p.LastName
	case domain.Location:
		fields["latitude"] = p.Latitude
		fields["longitude"] = p.Longitude
	case domain.Dice:
		fields["emoji"] = p.Emoji
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedContent, payload.Kind())
	}
	return structpb.NewStruct(fields)
}

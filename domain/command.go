package domain

import "time"

type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandStartSearch
	CommandEndChat
	CommandNextPartner
	CommandStatsQuery
	CommandForwardPayload
	CommandReset
	CommandHelp
	CommandStatus
)

var commandNames = map[CommandKind]string{
	CommandUnknown:        "unknown",
	CommandStartSearch:    "start_search",
	CommandEndChat:        "end_chat",
	CommandNextPartner:    "next_partner",
	CommandStatsQuery:     "stats_query",
	CommandForwardPayload: "forward_payload",
	CommandReset:          "reset",
	CommandHelp:           "help",
	CommandStatus:         "status",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return commandNames[CommandUnknown]
}

func ParseCommandKind(name string) CommandKind {
	for kind, n := range commandNames {
		if n == name {
			return kind
		}
	}
	return CommandUnknown
}

// Command is one inbound event delivered by a transport.
// Payload is only set for CommandForwardPayload.
type Command struct {
	Sender     UserHandle
	Kind       CommandKind
	Payload    Payload
	ReceivedAt time.Time
}

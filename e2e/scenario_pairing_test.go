package e2e

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type pairingScenarioSuite struct {
	PairingSuite
}

func TestPairingScenarioSuite(t *testing.T) {
	suite.Run(t, &pairingScenarioSuite{})
}

func (s *pairingScenarioSuite) TestPairRelayAndLeave() {
	// Handles unlikely to collide with real users of a shared server
	base := time.Now().UnixNano() % 1_000_000_000
	alice := strconv.FormatInt(9_000_000_000+base, 10)
	bob := strconv.FormatInt(9_000_000_001+base, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	aliceStream := s.Connect(ctx, alice, "en")
	bobStream := s.Connect(ctx, bob, "ru")
	time.Sleep(200 * time.Millisecond)

	s.Step("Both users search and get paired", func() {
		s.Dispatch(ctx, alice, "start_search", nil)
		s.Require().Equal("notice.searching_queued", s.NextNotice(aliceStream))

		s.Dispatch(ctx, bob, "start_search", nil)
		s.Require().Equal("notice.partner_found", s.NextNotice(bobStream))
		s.Require().Equal("notice.partner_found", s.NextNotice(aliceStream))
	})

	s.Step("Bob talks to alice", func() {
		s.Dispatch(ctx, bob, "forward_payload", map[string]any{"kind": "text", "text": "hi there"})

		msg := s.NextRelayed(aliceStream, "text")
		s.Require().Equal("hi there", msg.GetFields()["text"].GetStringValue())
	})

	s.Step("Alice leaves and bob is told", func() {
		s.Dispatch(ctx, alice, "end_chat", nil)

		s.Require().Equal("notice.partner_left", s.NextNotice(bobStream))
		s.Require().Equal("notice.chat_ended", s.NextNotice(aliceStream))
	})
}

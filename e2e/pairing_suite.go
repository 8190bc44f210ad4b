package e2e

import (
	"chat-pair/infrastructure/grpc/server"
	"context"
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const receiveTimeout = 5 * time.Second

// PairingSuite drives a running chat-pair server through its gRPC front-end.
type PairingSuite struct {
	suite.Suite
	Config Config
	conn   *grpc.ClientConn
	client *server.PairingServiceClient
}

func (s *PairingSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.PairingAddr == "" {
		s.T().Skip("PAIRING_ADDR is not set")
	}

	s.conn, err = grpc.NewClient(s.Config.PairingAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.traceDispatch))
	s.Require().NoError(err, "dial "+s.Config.PairingAddr)
	s.client = server.NewPairingServiceClient(s.conn)
}

func (s *PairingSuite) TearDownSuite() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
}

// Step runs fn as a named subtest under a highlighted banner.
func (s *PairingSuite) Step(name string, fn func()) {
	banner := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		banner = color.New(color.BgBlack, color.FgGreen).Render(banner)
	}
	s.T().Log(banner)
	s.Run(name, fn)
}

// Connect opens the outbound stream of handle.
func (s *PairingSuite) Connect(ctx context.Context, handle, locale string) server.PairingService_ConnectClient {
	stream, err := s.client.Connect(ctx, s.message(map[string]any{"handle": handle, "locale": locale}))
	s.Require().NoError(err)
	return stream
}

// Dispatch submits command for handle, payload is only set for forwards.
func (s *PairingSuite) Dispatch(ctx context.Context, handle, command string, payload map[string]any) {
	fields := map[string]any{"handle": handle, "command": command}
	if payload != nil {
		fields["payload"] = payload
	}
	_, err := s.client.Dispatch(ctx, s.message(fields))
	s.Require().NoError(err)
}

// NextNotice skips relayed content until a notice arrives and returns its key.
func (s *PairingSuite) NextNotice(stream server.PairingService_ConnectClient) string {
	for {
		msg := s.receive(stream)
		if msg.GetFields()["kind"].GetStringValue() == "notice" {
			return msg.GetFields()["key"].GetStringValue()
		}
	}
}

// NextRelayed skips notices until relayed content of kind arrives.
func (s *PairingSuite) NextRelayed(stream server.PairingService_ConnectClient, kind string) *structpb.Struct {
	for {
		msg := s.receive(stream)
		if msg.GetFields()["kind"].GetStringValue() == kind {
			return msg
		}
	}
}

func (s *PairingSuite) receive(stream server.PairingService_ConnectClient) *structpb.Struct {
	type received struct {
		msg *structpb.Struct
		err error
	}
	ch := make(chan received, 1)
	go func() {
		msg, err := stream.Recv()
		ch <- received{msg, err}
	}()
	select {
	case r := <-ch:
		s.Require().NoError(r.err)
		if s.Config.DebugJSON {
			s.T().Log("STREAM:\n" + protojson.Format(r.msg))
		}
		return r.msg
	case <-time.After(receiveTimeout):
		s.FailNow("nothing received on the stream", "after %s", receiveTimeout)
		return nil
	}
}

func (s *PairingSuite) message(fields map[string]any) *structpb.Struct {
	msg, err := structpb.NewStruct(fields)
	s.Require().NoError(err)
	return msg
}

func (s *PairingSuite) traceDispatch(ctx context.Context, method string, req, reply any,
	cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	start := time.Now()
	err := invoker(ctx, method, req, reply, cc, opts...)
	s.T().Logf("GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))
	if s.Config.DebugJSON {
		s.T().Log("REQUEST:\n" + protojson.Format(req.(*structpb.Struct)))
		if err == nil {
			s.T().Log("RESPONSE:\n" + protojson.Format(reply.(*structpb.Struct)))
		}
	}
	return err
}

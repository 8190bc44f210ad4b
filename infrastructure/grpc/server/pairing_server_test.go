package server

import (
	"chat-pair/i18n"
	"chat-pair/pairing"
	"chat-pair/runtime"
	"chat-pair/runtime/workers"
	"chat-pair/services"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type testEnv struct {
	client   *PairingServiceClient
	registry *runtime.Registry
}

func startTestServer(t *testing.T) testEnv {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	renderer, err := i18n.NewRenderer("en")
	req.NoError(err)
	core := pairing.NewCore(log)
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 0), core, registry, nil,
		runtime.Config{NumberOfWorkers: 2, BufferSize: 16, SinkTimeout: time.Second, DeliveryTimeout: time.Second})
	req.NoError(orchestrator.Start(context.Background()))
	service := services.NewPairingService(orchestrator, registry, core, log)

	listener := bufconn.Listen(1024 * 1024)
	grpcServer := grpc.NewServer()
	RegisterPairingServiceServer(grpcServer, NewPairingServer(log, service, renderer, 16))
	go func() { _ = grpcServer.Serve(listener) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	req.NoError(err)

	t.Cleanup(func() {
		_ = conn.Close()
		grpcServer.Stop()
		orchestrator.Stop()
	})
	return testEnv{client: NewPairingServiceClient(conn), registry: registry}
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func connect(t *testing.T, env testEnv, ctx context.Context, handle string, locale string) PairingService_ConnectClient {
	t.Helper()
	stream, err := env.client.Connect(ctx, mustStruct(t, map[string]any{"handle": handle, "locale": locale}))
	require.NoError(t, err)
	return stream
}

func TestPairingServer_PairAndRelay(t *testing.T) {
	req := require.New(t)
	env := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Given two connected users
	alice := connect(t, env, ctx, "100", "en")
	bob := connect(t, env, ctx, "200", "ru")
	req.Eventually(func() bool {
		return env.registry.IsConnected(100) && env.registry.IsConnected(200)
	}, time.Second, 5*time.Millisecond)

	// When both search
	_, err := env.client.Dispatch(ctx, mustStruct(t, map[string]any{"handle": "100", "command": "start_search"}))
	req.NoError(err)
	msg, err := alice.Recv()
	req.NoError(err)
	req.Equal("notice.searching_queued", msg.GetFields()["key"].GetStringValue())

	_, err = env.client.Dispatch(ctx, mustStruct(t, map[string]any{"handle": "200", "command": "start_search"}))
	req.NoError(err)

	// Then both are told in their own language
	msg, err = alice.Recv()
	req.NoError(err)
	req.Equal("notice.partner_found", msg.GetFields()["key"].GetStringValue())
	req.Contains(msg.GetFields()["text"].GetStringValue(), "Partner found")
	msg, err = bob.Recv()
	req.NoError(err)
	req.Contains(msg.GetFields()["text"].GetStringValue(), "Собеседник найден")

	// When alice sends a text
	_, err = env.client.Dispatch(ctx, mustStruct(t, map[string]any{
		"handle":  "100",
		"command": "forward_payload",
		"payload": map[string]any{"kind": "text", "text": "hello"},
	}))
	req.NoError(err)

	// Then bob receives it untouched
	msg, err = bob.Recv()
	req.NoError(err)
	req.Equal("text", msg.GetFields()["kind"].GetStringValue())
	req.Equal("hello", msg.GetFields()["text"].GetStringValue())
}

func TestPairingServer_Dispatch_InvalidRequests(t *testing.T) {
	req := require.New(t)
	env := startTestServer(t)
	ctx := context.Background()

	// Unknown command
	_, err := env.client.Dispatch(ctx, mustStruct(t, map[string]any{"handle": "1", "command": "dance"}))
	req.Equal(codes.InvalidArgument, status.Code(err))

	// Missing handle
	_, err = env.client.Dispatch(ctx, mustStruct(t, map[string]any{"command": "start_search"}))
	req.Equal(codes.InvalidArgument, status.Code(err))

	// Forward without payload
	_, err = env.client.Dispatch(ctx, mustStruct(t, map[string]any{"handle": "1", "command": "forward_payload"}))
	req.Equal(codes.InvalidArgument, status.Code(err))
}

func TestPairingServer_Connect_Twice(t *testing.T) {
	req := require.New(t)
	env := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Given a connected user
	connect(t, env, ctx, "7", "en")
	req.Eventually(func() bool { return env.registry.IsConnected(7) }, time.Second, 5*time.Millisecond)

	// When a second stream opens for the same handle
	second := connect(t, env, ctx, "7", "en")
	_, err := second.Recv()

	// Then it is refused
	req.Equal(codes.AlreadyExists, status.Code(err))
}

func TestPairingServer_Disconnect_EndsChat(t *testing.T) {
	req := require.New(t)
	env := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Given a formed pair
	aliceCtx, aliceCancel := context.WithCancel(ctx)
	connect(t, env, aliceCtx, "1", "en")
	bob := connect(t, env, ctx, "2", "en")
	req.Eventually(func() bool {
		return env.registry.IsConnected(1) && env.registry.IsConnected(2)
	}, time.Second, 5*time.Millisecond)
	_, err := env.client.Dispatch(ctx, mustStruct(t, map[string]any{"handle": "1", "command": "start_search"}))
	req.NoError(err)
	time.Sleep(50 * time.Millisecond)
	_, err = env.client.Dispatch(ctx, mustStruct(t, map[string]any{"handle": "2", "command": "start_search"}))
	req.NoError(err)
	msg, err := bob.Recv()
	req.NoError(err)
	req.Equal("notice.partner_found", msg.GetFields()["key"].GetStringValue())

	// When alice drops her stream
	aliceCancel()

	// Then bob is told his partner left
	msg, err = bob.Recv()
	req.NoError(err)
	req.Equal("notice.partner_left", msg.GetFields()["key"].GetStringValue())
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"othello_ai/internal/domain/engine"
	errs "othello_ai/internal/errors"
)

const (
	EngineServiceName = "othello.Engine"

	chooseMoveMethod = "/" + EngineServiceName + "/ChooseMove"
	evaluateMethod   = "/" + EngineServiceName + "/Evaluate"
)

// EngineServer is the server side of othello.Engine. Requests and responses
// are google.protobuf.Struct values carrying the same fields as the HTTP API.
type EngineServer interface {
	ChooseMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var EngineServiceDesc = grpc.ServiceDesc{
	ServiceName: EngineServiceName,
	HandlerType: (*EngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ChooseMove", Handler: chooseMoveHandler},
		{MethodName: "Evaluate", Handler: evaluateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "othello/engine.proto",
}

func RegisterEngineServer(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&EngineServiceDesc, srv)
}

func chooseMoveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).ChooseMove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: chooseMoveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServer).ChooseMove(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: evaluateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// EngineService is what the RPC layer needs from the engine use case.
type EngineService interface {
	ChooseMove(ctx context.Context, req engine.MoveRequest) (engine.MoveResponse, error)
	Evaluate(ctx context.Context, req engine.EvaluateRequest) (engine.EvaluateResponse, error)
}

type EngineRPC struct {
	engine EngineService
	log    *zap.SugaredLogger
}

func NewEngineRPC(engine EngineService, log *zap.SugaredLogger) *EngineRPC {
	return &EngineRPC{
		engine: engine,
		log:    log,
	}
}

func (e *EngineRPC) ChooseMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req engine.MoveRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := e.engine.ChooseMove(ctx, req)
	if err != nil {
		return nil, e.statusFor(err)
	}
	return toStruct(resp)
}

func (e *EngineRPC) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req engine.EvaluateRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := e.engine.Evaluate(ctx, req)
	if err != nil {
		return nil, e.statusFor(err)
	}
	return toStruct(resp)
}

func (e *EngineRPC) statusFor(err error) error {
	switch {
	case errors.Is(err, errs.ErrMalformedCoordinate), errors.Is(err, errs.ErrMalformedRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	e.log.Errorf("engine rpc failed: %v", err)
	return status.Error(codes.Internal, "internal error")
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("convert %T to struct: %w", v, err)
	}
	return out, nil
}

func fromStruct(in *structpb.Struct, dst any) error {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("convert struct: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %T: %v: %w", dst, err, errs.ErrMalformedRequest)
	}
	return nil
}

package usecase

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"othello_ai/internal/domain/engine"
	errs "othello_ai/internal/errors"
)

// EngineClient calls a remote othello.Engine and speaks the same request
// types as the local use case.
type EngineClient struct {
	cc grpc.ClientConnInterface
}

func NewEngineClient(cc grpc.ClientConnInterface) *EngineClient {
	return &EngineClient{cc: cc}
}

func (c *EngineClient) ChooseMove(ctx context.Context, req engine.MoveRequest) (engine.MoveResponse, error) {
	var resp engine.MoveResponse
	err := c.invoke(ctx, chooseMoveMethod, req, &resp)
	return resp, err
}

func (c *EngineClient) Evaluate(ctx context.Context, req engine.EvaluateRequest) (engine.EvaluateResponse, error) {
	var resp engine.EvaluateResponse
	err := c.invoke(ctx, evaluateMethod, req, &resp)
	return resp, err
}

func (c *EngineClient) invoke(ctx context.Context, method string, req, resp any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out); err != nil {
		if status.Code(err) == codes.InvalidArgument {
			return fmt.Errorf("%s: %s: %w", method, status.Convert(err).Message(), errs.ErrMalformedRequest)
		}
		return fmt.Errorf("%s: %w", method, err)
	}
	return fromStruct(out, resp)
}

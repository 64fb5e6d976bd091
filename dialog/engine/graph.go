package engine

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "bookline/dialog/contract"
	nodex "bookline/dialog/nodes"
)

func (e *Engine) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[contractx.TurnRequest, contractx.TurnResult], error) {
	graph := compose.NewGraph[contractx.TurnRequest, contractx.TurnResult]()

	if err := graph.AddLambdaNode("validate_turn",
		compose.InvokableLambda(func(ctx context.Context, in contractx.TurnRequest) (*nodex.TurnState, error) {
			return nodex.ValidateTurn(in, e.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_turn: %w", err)
	}

	if err := graph.AddLambdaNode("decode_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.DecodeSession(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node decode_session: %w", err)
	}

	if err := graph.AddLambdaNode("reconcile_slots",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.ReconcileSlots(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node reconcile_slots: %w", err)
	}

	if err := graph.AddLambdaNode("plan_dialog",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (*nodex.TurnState, error) {
			return nodex.PlanDialog(ctx, in, e.services, e.index, e.joinLink, e.rng)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan_dialog: %w", err)
	}

	if err := graph.AddLambdaNode("encode_result",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.TurnState) (contractx.TurnResult, error) {
			return nodex.EncodeResult(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node encode_result: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_turn"},
		{"validate_turn", "decode_session"},
		{"decode_session", "reconcile_slots"},
		{"reconcile_slots", "plan_dialog"},
		{"plan_dialog", "encode_result"},
		{"encode_result", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("dialog.process_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}

package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/roamfit/roamfit/agent/contract"
	nodex "github.com/roamfit/roamfit/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileGenerateWorkoutGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, contractx.GenerateWorkoutResult], error) {
	graph := compose.NewGraph[nodex.GraphInput, contractx.GenerateWorkoutResult]()

	if err := graph.AddLambdaNode("validate_input",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateInput(in, o.now())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_input: %w", err)
	}

	if err := graph.AddLambdaNode("detect_equipment",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DetectEquipment(ctx, in, o.registry.Detection())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node detect_equipment: %w", err)
	}

	if err := graph.AddLambdaNode("check_equipment",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CheckEquipment(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node check_equipment: %w", err)
	}

	if err := graph.AddLambdaNode("summarize_history",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SummarizeHistory(ctx, in, o.registry.Summary())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node summarize_history: %w", err)
	}

	if err := graph.AddLambdaNode("generate_plan",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.GeneratePlan(ctx, in, o.registry.Generation())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node generate_plan: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_result",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (contractx.GenerateWorkoutResult, error) {
			return nodex.FinalizeResult(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_result: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_input"},
		{"validate_input", "detect_equipment"},
		{"detect_equipment", "check_equipment"},
		{"check_equipment", "summarize_history"},
		{"summarize_history", "generate_plan"},
		{"generate_plan", "finalize_result"},
		{"finalize_result", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.generate_workout"))
	if err != nil {
		return nil, fmt.Errorf("compile generate workout graph: %w", err)
	}
	return runner, nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/cli/config"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/service/rule"
	"github.com/urfave/cli/v3"
)

// evaluateInput is the JSON shape accepted by the evaluate subcommand
type evaluateInput struct {
	Kind       string  `json:"kind"`
	Confidence float64 `json:"confidence"`
	Urgent     bool    `json:"urgent"`
	OrderCount int     `json:"customer_order_count"`
	Entities   struct {
		Amount        float64 `json:"amount"`
		Quantity      int     `json:"quantity"`
		TargetOrderID string  `json:"target_order_id"`
		Items         []struct {
			Name      string  `json:"name"`
			Quantity  int     `json:"quantity"`
			UnitPrice float64 `json:"unit_price"`
		} `json:"items"`
	} `json:"entities"`
}

func cmdEvaluate() *cli.Command {
	var inputPath string
	var rulesCfg config.Rules

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "JSON action request file (- for stdin)",
			Value:       "-",
			Destination: &inputPath,
		},
	}
	flags = append(flags, rulesCfg.Flags()...)

	return &cli.Command{
		Name:    "evaluate",
		Aliases: []string{"e"},
		Usage:   "Run the rule evaluator over a JSON action request (offline, for threshold tuning)",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rules, err := rulesCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load rules")
			}

			var data []byte
			if inputPath == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				// #nosec G304 - path is expected to be provided by CLI argument
				data, err = os.ReadFile(inputPath)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to read input", goerr.V("path", inputPath))
			}

			var input evaluateInput
			if err := json.Unmarshal(data, &input); err != nil {
				return goerr.Wrap(err, "failed to parse input JSON")
			}

			kind, err := types.ParseActionKind(input.Kind)
			if err != nil {
				return goerr.Wrap(err, "invalid action kind", goerr.V("kind", input.Kind))
			}

			req := &model.ActionRequest{
				ID:                 types.NewRequestID(),
				ActorID:            "evaluate:offline",
				Channel:            types.ChannelWeb,
				Kind:               kind,
				Confidence:         input.Confidence,
				Urgent:             input.Urgent,
				CustomerOrderCount: input.OrderCount,
			}
			req.Entities.Amount = input.Entities.Amount
			req.Entities.Quantity = input.Entities.Quantity
			req.Entities.TargetOrderID = input.Entities.TargetOrderID
			for _, item := range input.Entities.Items {
				req.Entities.Items = append(req.Entities.Items, model.LineItem{
					Name:      item.Name,
					Quantity:  item.Quantity,
					UnitPrice: item.UnitPrice,
				})
			}

			eval := rule.New(rules).Evaluate(req)
			printEvaluation(os.Stdout, req, eval)
			return nil
		},
	}
}

func printEvaluation(w io.Writer, req *model.ActionRequest, eval *model.Evaluation) {
	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s %s (confidence %.2f)\n", bold.Sprint("Action:"), req.Kind, req.Confidence)

	verdict := color.New(color.FgGreen, color.Bold).Sprint("AUTO-EXECUTE")
	if eval.NeedsClarification {
		verdict = color.New(color.FgYellow, color.Bold).Sprint("CLARIFY")
	} else if eval.RequiresApproval {
		verdict = color.New(color.FgRed, color.Bold).Sprint("NEEDS APPROVAL")
	}
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Verdict:"), verdict)

	riskColor := color.New(color.FgGreen)
	switch eval.RiskLevel {
	case types.RiskLevelMedium:
		riskColor = color.New(color.FgYellow)
	case types.RiskLevelHigh:
		riskColor = color.New(color.FgRed)
	}
	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Risk:"), riskColor.Sprint(eval.RiskLevel))

	if len(eval.Reasons) > 0 {
		fmt.Fprintln(w, bold.Sprint("Reasons:"))
		for _, reason := range eval.Reasons {
			fmt.Fprintf(w, "  - %s\n", reason)
		}
	}
}

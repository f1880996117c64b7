package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/folio"
	"github.com/etnz/folio/docs"
	"github.com/etnz/folio/renderer"
	"google.golang.org/genai"
)

// Tools returns the functions giving access to the portfolio kept by keeper.
func Tools(keeper *folio.Keeper) []Function {
	refresh := &genai.Schema{
		Type:        genai.TypeBoolean,
		Description: "Download fresh prices first. The last valuation is used otherwise.",
	}
	markdown := &genai.Schema{Type: genai.TypeString, Description: "A markdown document."}

	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Holdings",
				Description: "Holdings lists the stored holdings: ticker, name, quantity, acquisition price and date, last known price.",
				Parameters:  &genai.Schema{Type: genai.TypeObject},
				Response:    markdown,
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				p, err := keeper.Portfolio()
				if err != nil {
					return "", err
				}
				if p.IsEmpty() {
					return renderer.RenderEmpty(), nil
				}
				return renderer.RenderHoldings(renderer.NewHoldings(p)), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name: "Summary",
				Description: `Summary values the portfolio: net worth, cost basis, total gain or loss, best and worst assets,
				the value, gain and allocation of each holding, and the holdings valued without live prices.`,
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"refresh": refresh},
				},
				Response: markdown,
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				report, err := lastReport(ctx, keeper, args)
				if errors.Is(err, folio.ErrEmptyPortfolio) {
					return renderer.RenderEmpty(), nil
				}
				if err != nil {
					return "", err
				}
				return renderer.RenderSummary(renderer.NewSummary(report), renderer.SummaryRenderOptions{}), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "History",
				Description: "History is the value of the whole portfolio over the last months, week by week.",
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: map[string]*genai.Schema{"refresh": refresh},
				},
				Response: markdown,
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				report, err := lastReport(ctx, keeper, args)
				if errors.Is(err, folio.ErrEmptyPortfolio) {
					return renderer.RenderEmpty(), nil
				}
				if err != nil {
					return "", err
				}
				return renderer.RenderHistory(renderer.NewHistory(report.History, report.Snapshot.Currency())), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Documentation",
				Description: "Documentation explains how folio works: " + mustTopic("readme"),
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"topic": {Type: genai.TypeString, Description: "The topic to read, '*' for all of them."},
					},
					Required: []string{"topic"},
				},
				Response: markdown,
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				topic, err := stringArg(args, "topic", true)
				if err != nil {
					return "", err
				}
				return docs.GetTopic(topic)
			},
		},
	}
}

// lastReport returns the report of the last refresh, refreshing when there is none or
// when args asks for it.
func lastReport(ctx context.Context, keeper *folio.Keeper, args map[string]any) (*folio.Report, error) {
	force, _ := args["refresh"].(bool)
	if report := keeper.Last(); report != nil && !force {
		return report, nil
	}
	report, err := keeper.Refresh(ctx)
	if report != nil {
		// a failure to save the last known prices does not invalidate the valuation
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot value the portfolio: %w", err)
	}
	return report, nil
}

func mustTopic(topic string) string {
	content, err := docs.GetTopic(topic)
	if err != nil {
		panic(err)
	}
	return content
}

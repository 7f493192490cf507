package agent

import (
	"context"
	"fmt"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/docs"
	"github.com/etnz/rebalance/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// newFacilitator creates the expert in charge of the conversation.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and of answering the user's request.

			The user is about to invest cash into a portfolio and received an investment plan.
			Learn about the experts you can ask questions to from the Tools. They keep the
			context of your previous questions.

			Devise a plan of questions to ask each expert and come up with the best response
			to the user's request. Never invent figures: ask the Planner for them.
			`),
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates an expert grounded on Google Search, to get recent
// information about the funds and markets held.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is a market analyst, aware of financial products, funds and companies,
		and of the latest news about them. Ask the Analyst for recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are a market analyst. You search for anything related to funds, companies,
			markets and currencies, and leverage Google Search to ground your assertions.
			`),
		},
	}
}

// Workspace is what the Planner knows about: the user's portfolio, the rates
// in use and the plan being reviewed, if any.
type Workspace struct {
	Portfolio *rebalance.Portfolio
	Rates     rebalance.Rates
	Plan      *rebalance.ChangeRequest
	Reporting rebalance.Currency
}

// NewPlanner creates an expert answering questions about the portfolio and
// the investment plan.
func NewPlanner(ws *Workspace) *Expert {
	lib := ws.Functions()
	return &Expert{
		Name: "Planner",
		Description: `This is the Planner. It knows the user's portfolio, its current valuation,
		the exchange rates in use and the investment plan computed for the user.
		It also knows how plans are computed.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are the Planner, in charge of the user's investment plan.
			Use the Tools to get the portfolio valuation, the plan and the documentation
			about how plans are computed. Explain figures, never recompute them yourself.
			`),
		},
		Library: NewLibrary(lib),
	}
}

// Functions returns the functions the Planner can call.
func (ws *Workspace) Functions() []Function {
	text := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: description}
	}
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Valuation",
				Description: "Valuation returns the current value, current share and target share of every position of the portfolio.",
				Response:    text("A markdown table of positions."),
			},
			Func: func(_ context.Context, _ map[string]any) (string, error) {
				return renderer.PortfolioMarkdown(ws.Portfolio, ws.Rates, ws.Reporting)
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Plan",
				Description: "Plan returns the investment plan: the change of every position and the total per group.",
				Response:    text("A markdown report of the plan."),
			},
			Func: func(_ context.Context, _ map[string]any) (string, error) {
				if ws.Plan == nil {
					return "", fmt.Errorf("no plan has been computed")
				}
				return renderer.ChangeMarkdown(ws.Plan, ws.Reporting)
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Documentation",
				Description: "Documentation returns the user documentation: file formats, how plans are computed, rates and quotes.",
				Response:    text("The markdown documentation."),
			},
			Func: func(_ context.Context, _ map[string]any) (string, error) {
				return docs.GetTopics("*")
			},
		},
	}
}

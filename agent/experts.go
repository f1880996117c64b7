package agent

import (
	"github.com/etnz/folio"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// newFacilitator returns the expert in charge of the conversation.
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: genai.NewContentFromText(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to get news or information about the assets in their portfolio.
			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.

			The user will assume that you know about their tickers, check the portfolio first to understand what they are.
			`, genai.RoleUser),
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded on Google Search.
func NewTrader(model string, log zerolog.Logger) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		very well aware of all the financial products and institutions,
		about the latest news about the different funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: genai.NewContentFromText(`
			You are an expert in Trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
			`, genai.RoleUser),
		},
		log: log,
	}
}

// NewAccountant returns the expert reading the user's portfolio kept by keeper.
func NewAccountant(model string, keeper *folio.Keeper, log zerolog.Logger) *Expert {
	lib := Tools(keeper)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. They are in charge of the user's portfolio:
		the holdings, their current value, gains and losses, allocation and value history.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: genai.NewContentFromText(`
			You are an accountant in charge of the user's portfolio.
			You know how to use the Tools to extract relevant information about the user's portfolio and wealth.
			You are part of a team of experts, yours is everything about the user's portfolio. They might ask
			you questions about the user's portfolio, pardon their approximative language and figure out what they meant.

			Use the available tools to get information about the user's portfolio:
			  - the list of holdings
			  - the current valuation, gains and allocation
			  - the value history
			  - the documentation, to explain how figures are computed
			`, genai.RoleUser),
		},
		Library: NewLibrary(lib),
		log:     log,
	}
}

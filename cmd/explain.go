package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"
)

const explainModel = "gemini-2.5-pro"

// explainCmd holds the flags for the 'explain' subcommand.
type explainCmd struct {
	input    string
	question string
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "have Gemini explain the capital gains report" }
func (*explainCmd) Usage() string {
	return `cgs explain [-i <fills-file>] [-q <question>]

  Runs the matching pass, sends the full report to Gemini and prints its
  explanation. Requires a GEMINI_API_KEY in the environment. Ask an
  explicit question with -q, or get a general walkthrough.
`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Fills file to process (CSV or JSON). Overrides the configured input.")
	f.StringVar(&c.question, "q", "", "A specific question about the report.")
}

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	md, status := reportMarkdown(c.input, true)
	if status != subcommands.ExitSuccess {
		return status
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
		You are a tax accountant explaining a capital gains report to its owner.
		The report pairs each sale with earlier buys under a per-year accounting
		policy: "hifo" consumes the highest-priced open buys first, "fifo" the
		oldest. A pair held more than 365 days is a long-term gain, otherwise
		short-term. Explain figures from the report only, never invent numbers,
		and never give tax or investment advice.
			`}}},
	}

	chat, err := client.Chats.Create(ctx, explainModel, config, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error starting the chat:", err)
		return subcommands.ExitFailure
	}

	question := c.question
	if question == "" {
		question = "Walk me through this report: the yearly totals, and the pairs that drive them."
	}
	prompt := question + "\n\nThe report:\n\n" + md

	resp, err := chat.Send(ctx, &genai.Part{Text: prompt})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error asking Gemini:", err)
		return subcommands.ExitFailure
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		fmt.Fprintln(os.Stderr, "Error: empty response from Gemini")
		return subcommands.ExitFailure
	}

	var answer strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		answer.WriteString(part.Text)
	}
	printMarkdown(answer.String())
	return subcommands.ExitSuccess
}

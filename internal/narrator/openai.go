// Package narrator implements the story/evaluation collaborator on top of
// the OpenAI chat completions API.
package narrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/JochenSunaert/PlotTwist/internal/game"
)

// OpenAI generates round stories and scoring verdicts.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

var _ game.Narrator = (*OpenAI)(nil)

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
	}
}

func (o *OpenAI) GenerateStory(ctx context.Context, prompt string, answers []game.Answer) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(storyInput(prompt, answers)),
		},
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (o *OpenAI) EvaluateAnswers(ctx context.Context, prompt string, answers []game.Answer, story string, players []game.Player) (game.Evaluation, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are the judge of a party game. Respond with a single JSON object and nothing else."),
			openai.UserMessage(evaluationInput(prompt, answers, story, players)),
		},
	})
	if err != nil {
		return game.Evaluation{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return game.Evaluation{}, fmt.Errorf("chat completion returned no choices")
	}
	return parseEvaluation(resp.Choices[0].Message.Content)
}

func storyInput(prompt string, answers []game.Answer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The game prompt is: %q\n", prompt)
	b.WriteString("The players responded as follows:\n")
	for i, a := range answers {
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, a.PlayerName, a.Team, a.Text)
	}
	b.WriteString("\nWrite a funny and entertaining story about what happened. Be sure to make jokes and funny scenarios.")
	return b.String()
}

func evaluationInput(prompt string, answers []game.Answer, story string, players []game.Player) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The game prompt was: %q\n", prompt)
	fmt.Fprintf(&b, "The story that resulted:\n%s\n\n", story)
	b.WriteString("The players and their answers:\n")
	for _, a := range answers {
		fmt.Fprintf(&b, "- %s (%s): %s\n", a.PlayerName, a.Team, a.Text)
	}
	b.WriteString("\nTeams:\n")
	for _, p := range players {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, p.Team)
	}
	b.WriteString(`
Decide the round outcome. Reply with exactly this JSON shape:
{"winningTeam": "Hero" or "Villain", "impactfulPlayer": "<player name>", "originalPlayer": "<player name>"}
winningTeam is the team whose answers shaped the story most, impactfulPlayer
had the single biggest effect on the outcome, originalPlayer gave the most
creative answer.`)
	return b.String()
}

// parseEvaluation tolerates models that wrap the JSON in a code fence.
func parseEvaluation(raw string) (game.Evaluation, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var v struct {
		WinningTeam     string `json:"winningTeam"`
		ImpactfulPlayer string `json:"impactfulPlayer"`
		OriginalPlayer  string `json:"originalPlayer"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err != nil {
		return game.Evaluation{}, fmt.Errorf("parse evaluation: %w", err)
	}

	team := game.Team(v.WinningTeam)
	if team != game.TeamHero && team != game.TeamVillain {
		return game.Evaluation{}, fmt.Errorf("parse evaluation: unknown team %q", v.WinningTeam)
	}
	return game.Evaluation{
		WinningTeam:     team,
		ImpactfulPlayer: v.ImpactfulPlayer,
		OriginalPlayer:  v.OriginalPlayer,
	}, nil
}

package narrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JochenSunaert/PlotTwist/internal/game"
)

func TestParseEvaluation(t *testing.T) {
	verdict, err := parseEvaluation(`{"winningTeam": "Hero", "impactfulPlayer": "Ana", "originalPlayer": "Bo"}`)
	require.NoError(t, err)
	assert.Equal(t, game.Evaluation{
		WinningTeam:     game.TeamHero,
		ImpactfulPlayer: "Ana",
		OriginalPlayer:  "Bo",
	}, verdict)
}

func TestParseEvaluationStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"winningTeam\": \"Villain\", \"impactfulPlayer\": \"Cy\", \"originalPlayer\": \"Cy\"}\n```"
	verdict, err := parseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, game.TeamVillain, verdict.WinningTeam)
	assert.Equal(t, "Cy", verdict.ImpactfulPlayer)
}

func TestParseEvaluationRejectsUnknownTeam(t *testing.T) {
	_, err := parseEvaluation(`{"winningTeam": "Chaotic Neutral", "impactfulPlayer": "Ana", "originalPlayer": "Bo"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown team")
}

func TestParseEvaluationRejectsMalformedJSON(t *testing.T) {
	_, err := parseEvaluation("the Heroes won, obviously")
	require.Error(t, err)
}

func TestStoryInputListsAnswersInOrder(t *testing.T) {
	answers := []game.Answer{
		{PlayerName: "Ana", Team: game.TeamHero, Text: "built a wall of pillows"},
		{PlayerName: "Bo", Team: game.TeamVillain, Text: "stole the pillows"},
	}
	input := storyInput("A pillow fort siege", answers)

	assert.Contains(t, input, `"A pillow fort siege"`)
	assert.Contains(t, input, "1. Ana (Hero): built a wall of pillows")
	assert.Contains(t, input, "2. Bo (Villain): stole the pillows")
}

func TestEvaluationInputCarriesStoryAndTeams(t *testing.T) {
	answers := []game.Answer{
		{PlayerName: "Ana", Team: game.TeamHero, Text: "charged in first"},
	}
	players := []game.Player{
		{Name: "Ana", Team: game.TeamHero},
		{Name: "Bo", Team: game.TeamVillain},
	}
	input := evaluationInput("The heist", answers, "It went poorly for everyone.", players)

	assert.Contains(t, input, "It went poorly for everyone.")
	assert.Contains(t, input, "- Ana (Hero): charged in first")
	assert.Contains(t, input, "- Bo: Villain")
	assert.Contains(t, input, `"winningTeam"`)
}

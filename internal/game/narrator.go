package game

import "context"

// Evaluation is the collaborator's scoring verdict for one round.
type Evaluation struct {
	WinningTeam     Team
	ImpactfulPlayer string
	OriginalPlayer  string
}

// Narrator turns a prompt and the collected answers into story text and an
// evaluation verdict. Both calls may fail; the engine degrades gracefully and
// never retries on its own.
type Narrator interface {
	GenerateStory(ctx context.Context, prompt string, answers []Answer) (string, error)
	EvaluateAnswers(ctx context.Context, prompt string, answers []Answer, story string, players []Player) (Evaluation, error)
}

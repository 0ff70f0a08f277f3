package game

// noAnswerPlaceholder replaces blank answer submissions.
const noAnswerPlaceholder = "<No answer provided>"

// fallbackPrompts are used when the prompt provider lets the clock run out.
var fallbackPrompts = []string{
	"A notorious thief has stolen a valuable diamond from the city's museum and it's your job to either catch the thief or help them escape.",
	"A hacked satellite will crash into the city in 10 minutes.",
	"A high-tech bank is being robbed in the middle of the night.",
}

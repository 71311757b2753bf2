package entity

// ChoicesPerQuestion is the number of candidate answers in every quiz question.
const ChoicesPerQuestion = 4

// QuizQuestion is one multiple-choice flag question.
// It is created once per quiz start and never modified afterwards.
type QuizQuestion struct {
	ImageURL      string
	Choices       [ChoicesPerQuestion]string
	CorrectChoice int
}

// IsCorrect reports whether choice is the index of the right answer.
func (q QuizQuestion) IsCorrect(choice int) bool {
	return choice == q.CorrectChoice
}

// Answer returns the common name of the country shown on the flag.
func (q QuizQuestion) Answer() string {
	return q.Choices[q.CorrectChoice]
}

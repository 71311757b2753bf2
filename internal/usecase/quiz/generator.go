package quiz

import (
	"math/rand/v2"
	"slices"

	"countryquiz/internal/domain/entity"
)

// DefaultNumberOfQuestions is the quiz length used when none is configured.
const DefaultNumberOfQuestions = 5

// MinCountries is the smallest country list that can produce a question.
const MinCountries = entity.ChoicesPerQuestion

// Generate builds up to n questions from countries using rng for every random
// decision, so a seeded rng always yields the same quiz.
//
// Each question shows the flag of a distinct target country. Its choices are
// the target's common name plus three other common names, with the correct
// answer placed at a uniformly random position. n is clamped to
// len(countries); n <= 0 yields no questions.
//
// Returns *InsufficientDataError when fewer than MinCountries countries are
// given, or when a target lacks three other distinct common names.
func Generate(countries []entity.Country, n int, rng *rand.Rand) ([]entity.QuizQuestion, error) {
	if len(countries) < MinCountries {
		return nil, &InsufficientDataError{Available: len(countries), Required: MinCountries}
	}
	if n <= 0 {
		return []entity.QuizQuestion{}, nil
	}
	n = min(n, len(countries))

	pool := slices.Clone(countries)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	questions := make([]entity.QuizQuestion, 0, n)
	for _, target := range pool[:n] {
		q, err := buildQuestion(target, countries, rng)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func buildQuestion(target entity.Country, countries []entity.Country, rng *rand.Rand) (entity.QuizQuestion, error) {
	others := make([]entity.Country, 0, len(countries)-1)
	for _, c := range countries {
		if c.ID == target.ID || c.Names.Common == target.Names.Common {
			continue
		}
		others = append(others, c)
	}
	rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	distractors := make([]string, 0, entity.ChoicesPerQuestion-1)
	for _, c := range others {
		if slices.Contains(distractors, c.Names.Common) {
			continue
		}
		distractors = append(distractors, c.Names.Common)
		if len(distractors) == entity.ChoicesPerQuestion-1 {
			break
		}
	}
	if len(distractors) < entity.ChoicesPerQuestion-1 {
		return entity.QuizQuestion{}, &InsufficientDataError{
			Available: len(distractors) + 1,
			Required:  MinCountries,
		}
	}

	correct := rng.IntN(entity.ChoicesPerQuestion)
	choices := slices.Insert(distractors, correct, target.Names.Common)

	q := entity.QuizQuestion{
		ImageURL:      target.FlagImageURL(),
		CorrectChoice: correct,
	}
	copy(q.Choices[:], choices)
	return q, nil
}

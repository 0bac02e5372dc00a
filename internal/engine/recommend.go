package engine

import "errors"

// ErrNoData - нет ни одного упражнения, рекомендовать нечего.
var ErrNoData = errors.New("no exercises to recommend")

// AutomatismCategory - пара (automatisme, категория) из каталога.
type AutomatismCategory struct {
	Automatism string `db:"automatisme" json:"automatisme"`
	Category   int    `db:"categorie" json:"categorie"`
}

// CategoryAggregate - суммарные попытки пользователя по категории.
type CategoryAggregate struct {
	Attempts int `db:"attempts" json:"attempts"`
	Correct  int `db:"correct" json:"correct"`
}

// Recommendation - выбранный automatisme и его приоритет.
type Recommendation struct {
	Automatism string  `json:"automatisme"`
	Category   int     `json:"categorie"`
	Score      float64 `json:"score"`
}

// MasteryScore: 0 для категории без попыток, иначе процент верных + 2 за каждую попытку.
// Чем ниже значение, тем выше приоритет категории.
func MasteryScore(a CategoryAggregate) float64 {
	if a.Attempts <= 0 {
		return 0
	}
	return float64(a.Correct)/float64(a.Attempts)*100 + float64(a.Attempts)*2
}

// Recommend выбирает automatisme категории с наименьшим MasteryScore.
// При равенстве остается первый встретившийся кандидат.
func Recommend(pairs []AutomatismCategory, aggregates map[int]CategoryAggregate) (Recommendation, error) {
	if len(pairs) == 0 {
		return Recommendation{}, ErrNoData
	}

	best := Recommendation{
		Automatism: pairs[0].Automatism,
		Category:   pairs[0].Category,
		Score:      MasteryScore(aggregates[pairs[0].Category]),
	}
	for _, p := range pairs[1:] {
		score := MasteryScore(aggregates[p.Category])
		if score < best.Score {
			best = Recommendation{Automatism: p.Automatism, Category: p.Category, Score: score}
		}
	}
	return best, nil
}

package metrics

import (
	"time"
)

// Fetch results used as label values.
const (
	FetchSuccess        = "success"
	FetchTransportError = "transport_error"
	FetchDecodingError  = "decoding_error"
	FetchRejected       = "rejected"
)

// Catalog load outcomes used as label values.
const (
	LoadCacheHit   = "cache_hit"
	LoadLoaded     = "loaded"
	LoadFailed     = "failed"
	LoadSuperseded = "superseded"
)

// Quiz start outcomes used as label values.
const (
	QuizStarted          = "started"
	QuizFetchFailed      = "fetch_failed"
	QuizInsufficientData = "insufficient_data"
)

// RecordCountryFetch records the result of one fetch of the country list.
// count is only meaningful for successful fetches and is ignored otherwise.
//
// Parameters:
//   - duration: Time taken to fetch and decode
//   - result: One of FetchSuccess, FetchTransportError, FetchDecodingError, FetchRejected
//   - size: Response body size in bytes, 0 when no body was read
//   - count: Number of decoded countries
//
// Example:
//
//	start := time.Now()
//	countries, err := f.Fetch(ctx)
//	if err == nil {
//	    RecordCountryFetch(time.Since(start), FetchSuccess, len(body), len(countries))
//	}
func RecordCountryFetch(duration time.Duration, result string, size, count int) {
	CountryFetchTotal.WithLabelValues(result).Inc()
	CountryFetchDuration.WithLabelValues(result).Observe(duration.Seconds())

	if size > 0 {
		CountryFetchSize.Observe(float64(size))
	}
	if result == FetchSuccess {
		CountriesFetched.Set(float64(count))
	}
}

// RecordCircuitState records whether the named circuit is open.
func RecordCircuitState(circuit string, open bool) {
	value := 0.0
	if open {
		value = 1
	}
	CircuitBreakerOpen.WithLabelValues(circuit).Set(value)
}

// RecordCatalogLoad records a catalog load request.
// size is the catalog size after the load and is only applied when outcome is LoadLoaded.
func RecordCatalogLoad(outcome string, size int) {
	CatalogLoadsTotal.WithLabelValues(outcome).Inc()
	if outcome == LoadLoaded {
		CatalogCountries.Set(float64(size))
	}
}

// RecordSortChange records a change of the catalog ordering.
func RecordSortChange(criterion string) {
	CatalogSortChangesTotal.WithLabelValues(criterion).Inc()
}

// RecordQuizStart records how a quiz start ended.
func RecordQuizStart(outcome string) {
	QuizStartsTotal.WithLabelValues(outcome).Inc()
}

// RecordQuizGuess records a submitted answer. repeat marks answers to a
// question that was already answered; they never change the score.
func RecordQuizGuess(correct, repeat bool) {
	result := "wrong"
	switch {
	case repeat:
		result = "repeat"
	case correct:
		result = "correct"
	}
	QuizGuessesTotal.WithLabelValues(result).Inc()
}

// RecordQuizFinished records a finished quiz with its final score.
func RecordQuizFinished(score, total int) {
	QuizzesFinishedTotal.Inc()
	if total > 0 {
		QuizScoreRatio.Observe(float64(score) / float64(total))
	}
}

// RecordConfigLoad stamps the time of a successful configuration load.
func RecordConfigLoad(at time.Time) {
	ConfigLoadTimestamp.Set(float64(at.Unix()))
}

// RecordConfigFallback counts a setting that fell back to its default.
func RecordConfigFallback(field string) {
	ConfigFallbacksTotal.WithLabelValues(field).Inc()
}

// RecordRefresh records one scheduled refresh run finishing at end.
func RecordRefresh(duration time.Duration, err error, end time.Time) {
	RefreshDuration.Observe(duration.Seconds())
	if err != nil {
		RefreshRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	RefreshRunsTotal.WithLabelValues("success").Inc()
	RefreshLastSuccess.Set(float64(end.Unix()))
}

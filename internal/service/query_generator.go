package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signalkit/signalkit/internal/domain"
)

// operatorSymbols is the allow-list mapping condition operators to their
// symbolic form. Anything outside this map is rejected, never interpolated.
var operatorSymbols = map[domain.ConditionOperator]string{
	domain.ConditionOperatorGTE: ">=",
	domain.ConditionOperatorGT:  ">",
	domain.ConditionOperatorEQ:  "=",
	domain.ConditionOperatorLT:  "<",
	domain.ConditionOperatorLTE: "<=",
}

// QueryGenerator builds HogQL query strings from declarative signal
// definitions. Free-text values (event names) are always escaped; numeric
// values are formatted from numbers, never passed through as strings.
type QueryGenerator struct{}

func NewQueryGenerator() *QueryGenerator {
	return &QueryGenerator{}
}

// escapeString doubles single quotes so user-controlled text cannot break
// out of a quoted literal.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + escapeString(v) + "'"
	}
	return strings.Join(quoted, ", ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MatchQuery selects the distinct actor identifiers whose event count over
// the window satisfies the condition.
func (g *QueryGenerator) MatchQuery(eventNames []string, operator domain.ConditionOperator, value float64, windowDays int) (string, error) {
	if len(eventNames) == 0 {
		return "", domain.NewValidationError("match query requires at least one event name")
	}
	symbol, ok := operatorSymbols[operator]
	if !ok {
		return "", domain.NewValidationError("unknown condition operator: " + string(operator))
	}
	if windowDays < 1 {
		windowDays = 1
	}

	query := fmt.Sprintf(`SELECT distinct_id
FROM events
WHERE event IN (%s)
  AND timestamp >= now() - INTERVAL %d DAY
GROUP BY distinct_id
HAVING count() %s %s`,
		quoteList(eventNames), windowDays, symbol, formatNumber(value))
	return query, nil
}

// MatchCountQuery counts occurrences of one event over a 90 day window,
// with conditional 7 and 30 day buckets. Result row: [total, 7d, 30d].
func (g *QueryGenerator) MatchCountQuery(eventName string) string {
	return fmt.Sprintf(`SELECT
  count() AS total_count,
  countIf(timestamp >= now() - INTERVAL 7 DAY) AS count_7d,
  countIf(timestamp >= now() - INTERVAL 30 DAY) AS count_30d
FROM events
WHERE event = '%s'
  AND timestamp >= now() - INTERVAL 90 DAY`,
		escapeString(eventName))
}

// ConversionQuery counts, among distinct actors who fired the signal event
// in the last 30 days, how many also fired the conversion event.
// Result row: [signal_users, converted_users].
func (g *QueryGenerator) ConversionQuery(signalEvent, conversionEvent string) string {
	signal := escapeString(signalEvent)
	conversion := escapeString(conversionEvent)
	return fmt.Sprintf(`SELECT
  count() AS signal_users,
  countIf(converted) AS converted_users
FROM (
  SELECT distinct_id, countIf(event = '%s') > 0 AS converted
  FROM events
  WHERE event IN ('%s', '%s')
    AND timestamp >= now() - INTERVAL 30 DAY
  GROUP BY distinct_id
  HAVING countIf(event = '%s') > 0
)`,
		conversion, signal, conversion, signal)
}

// BaselineQuery computes the same conversion ratio over all actors.
// Result row: [total_users, converted_users].
func (g *QueryGenerator) BaselineQuery(conversionEvent string) string {
	return fmt.Sprintf(`SELECT
  count() AS total_users,
  countIf(converted) AS converted_users
FROM (
  SELECT distinct_id, countIf(event = '%s') > 0 AS converted
  FROM events
  WHERE timestamp >= now() - INTERVAL 30 DAY
  GROUP BY distinct_id
)`,
		escapeString(conversionEvent))
}

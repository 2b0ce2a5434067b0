package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalkit/signalkit/internal/domain"
)

func TestQueryGenerator_MatchQuery(t *testing.T) {
	g := NewQueryGenerator()

	query, err := g.MatchQuery([]string{"feature_used", "report_created"}, domain.ConditionOperatorGTE, 10, 30)
	require.NoError(t, err)
	assert.Contains(t, query, "event IN ('feature_used', 'report_created')")
	assert.Contains(t, query, "INTERVAL 30 DAY")
	assert.Contains(t, query, "HAVING count() >= 10")
	assert.Contains(t, query, "GROUP BY distinct_id")
}

func TestQueryGenerator_MatchQuery_OperatorSymbols(t *testing.T) {
	g := NewQueryGenerator()

	cases := map[domain.ConditionOperator]string{
		domain.ConditionOperatorGTE: "count() >= 5",
		domain.ConditionOperatorGT:  "count() > 5",
		domain.ConditionOperatorEQ:  "count() = 5",
		domain.ConditionOperatorLT:  "count() < 5",
		domain.ConditionOperatorLTE: "count() <= 5",
	}
	for operator, expected := range cases {
		query, err := g.MatchQuery([]string{"signup"}, operator, 5, 7)
		require.NoError(t, err)
		assert.Contains(t, query, expected)
	}
}

func TestQueryGenerator_MatchQuery_UnknownOperator(t *testing.T) {
	g := NewQueryGenerator()

	_, err := g.MatchQuery([]string{"signup"}, domain.ConditionOperator("like"), 5, 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown condition operator")
}

func TestQueryGenerator_MatchQuery_NoEvents(t *testing.T) {
	g := NewQueryGenerator()

	_, err := g.MatchQuery(nil, domain.ConditionOperatorGTE, 5, 7)
	assert.Error(t, err)
}

func TestQueryGenerator_MatchQuery_ClampsWindow(t *testing.T) {
	g := NewQueryGenerator()

	query, err := g.MatchQuery([]string{"signup"}, domain.ConditionOperatorGTE, 5, 0)
	require.NoError(t, err)
	assert.Contains(t, query, "INTERVAL 1 DAY")
}

func TestQueryGenerator_EscapesSingleQuotes(t *testing.T) {
	g := NewQueryGenerator()

	query, err := g.MatchQuery([]string{"o'brien's event"}, domain.ConditionOperatorGT, 1, 7)
	require.NoError(t, err)
	assert.Contains(t, query, "'o''brien''s event'")
	assert.NotContains(t, query, "'o'brien")

	assert.Contains(t, g.MatchCountQuery("it's live"), "'it''s live'")
	assert.Contains(t, g.ConversionQuery("sign'up", "pay'ment"), "'sign''up'")
	assert.Contains(t, g.BaselineQuery("pay'ment"), "'pay''ment'")
}

func TestQueryGenerator_MatchCountQuery(t *testing.T) {
	g := NewQueryGenerator()

	query := g.MatchCountQuery("feature_used")
	assert.Contains(t, query, "count() AS total_count")
	assert.Contains(t, query, "countIf(timestamp >= now() - INTERVAL 7 DAY) AS count_7d")
	assert.Contains(t, query, "countIf(timestamp >= now() - INTERVAL 30 DAY) AS count_30d")
	assert.Contains(t, query, "INTERVAL 90 DAY")
	assert.Contains(t, query, "event = 'feature_used'")
}

func TestQueryGenerator_ConversionQuery(t *testing.T) {
	g := NewQueryGenerator()

	query := g.ConversionQuery("usage_spike", "upgraded")
	assert.Contains(t, query, "count() AS signal_users")
	assert.Contains(t, query, "countIf(converted) AS converted_users")
	assert.Contains(t, query, "event IN ('usage_spike', 'upgraded')")
	assert.Contains(t, query, "HAVING countIf(event = 'usage_spike') > 0")
}

func TestQueryGenerator_BaselineQuery(t *testing.T) {
	g := NewQueryGenerator()

	query := g.BaselineQuery("upgraded")
	assert.Contains(t, query, "count() AS total_users")
	assert.Contains(t, query, "countIf(event = 'upgraded') > 0 AS converted")
	assert.NotContains(t, query, "HAVING")
}

func TestQueryGenerator_FormatsConditionValue(t *testing.T) {
	g := NewQueryGenerator()

	query, err := g.MatchQuery([]string{"signup"}, domain.ConditionOperatorGTE, 2.5, 7)
	require.NoError(t, err)
	assert.Contains(t, query, ">= 2.5")
}

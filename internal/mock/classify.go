// Package mock simulates asynchronous SQL execution: it classifies the
// query text, produces a plausible result set from the shared sample
// dataset or synthetic generators, and supports per-tab cancellation.
package mock

import (
	"regexp"
	"strconv"
	"strings"
)

// QueryType is the guessed domain of a free-text SQL query, used to select
// a result-set shape.
type QueryType string

const (
	QueryEmployees    QueryType = "employees"
	QueryUsers        QueryType = "users"
	QueryOrders       QueryType = "orders"
	QueryProducts     QueryType = "products"
	QueryAnalytics    QueryType = "analytics"
	QueryTransactions QueryType = "transactions"
	QueryGeneric      QueryType = "generic"
)

// classifyRules are checked in order; the first rule with a matching
// keyword wins, so "employee" outranks "user" in a query containing both.
var classifyRules = []struct {
	queryType QueryType
	keywords  []string
}{
	{QueryEmployees, []string{"employee", "staff", "worker"}},
	{QueryUsers, []string{"user", "customer"}},
	{QueryOrders, []string{"order", "purchase"}},
	{QueryProducts, []string{"product", "inventory"}},
	{QueryAnalytics, []string{"analytics", "metric", "stat"}},
	{QueryTransactions, []string{"transaction", "payment"}},
}

// DetectQueryType classifies sql by case-insensitive substring matching.
func DetectQueryType(sql string) QueryType {
	lower := strings.ToLower(sql)
	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.queryType
			}
		}
	}
	return QueryGeneric
}

// MaxRows caps how many rows a single run will ever materialize.
const MaxRows = 50000

var limitRe = regexp.MustCompile(`(?i)limit\s+(\d+)`)

// ExtractRowCount returns the requested row count from a LIMIT clause,
// capped at MaxRows. ok is false when the query has no LIMIT.
func ExtractRowCount(sql string) (n int, ok bool) {
	m := limitRe.FindStringSubmatch(sql)
	if m == nil {
		return 0, false
	}
	limit, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if limit > MaxRows {
		limit = MaxRows
	}
	return limit, true
}

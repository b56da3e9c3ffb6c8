package mock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/nhath/sqlrunner/internal/query"
)

var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael",
		"Linda", "William", "Elizabeth", "David", "Susan", "Richard", "Jessica",
		"Joseph", "Sarah", "Thomas", "Karen", "Charles", "Nancy",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
		"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
		"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	}
	emailDomains = []string{"example.com", "mail.com", "test.org", "demo.net", "sample.io"}
	cities       = []string{
		"New York", "London", "Tokyo", "Paris", "Sydney", "Berlin", "Toronto",
		"Singapore", "Amsterdam", "Barcelona", "Dubai", "Mumbai",
	}
	countries = []string{
		"USA", "UK", "Japan", "France", "Australia", "Germany", "Canada",
		"Singapore", "Netherlands", "Spain", "UAE", "India",
	}
	orderStatuses   = []string{"pending", "processing", "shipped", "delivered", "cancelled"}
	productNames    = []string{"Laptop", "Monitor", "Keyboard", "Mouse", "Headset", "Webcam", "Dock", "Cable", "Charger", "Stand"}
	productTiers    = []string{"Pro", "Lite", "Max", "Mini", "Plus"}
	categories      = []string{"Electronics", "Accessories", "Office", "Audio", "Storage"}
	currencies      = []string{"USD", "EUR", "GBP", "JPY", "AUD"}
	paymentMethods  = []string{"credit_card", "debit_card", "paypal", "bank_transfer", "crypto"}
	txStatuses      = []string{"completed", "pending", "failed", "refunded"}
	genericStatuses = []string{"active", "inactive", "pending", "archived"}
)

func pick[T any](xs []T) T { return xs[rand.IntN(len(xs))] }

func round2(f float64) float64 { return math.Round(f*100) / 100 }

func col(key, label string, t query.ColumnType, width int) query.ColumnDefinition {
	return query.ColumnDefinition{Key: key, Label: label, Type: t, Width: width, Visible: true}
}

// pastDate returns an ISO date within the last maxDays days.
func pastDate(maxDays int) string {
	d := time.Now().AddDate(0, 0, -rand.IntN(maxDays))
	return d.Format("2006-01-02")
}

func pastTimestamp(maxDays int) string {
	t := time.Now().Add(-time.Duration(rand.IntN(maxDays*24*3600)) * time.Second)
	return t.UTC().Format(time.RFC3339)
}

// Generate synthesizes count rows shaped for the given query type.
func Generate(qt QueryType, count int) ([]query.ColumnDefinition, []query.Row) {
	switch qt {
	case QueryOrders:
		return generateOrders(count)
	case QueryProducts:
		return generateProducts(count)
	case QueryAnalytics:
		return generateAnalytics(count)
	case QueryTransactions:
		return generateTransactions(count)
	case QueryEmployees, QueryUsers:
		return generatePeople(count)
	default:
		return generateGeneric(count)
	}
}

func generatePeople(count int) ([]query.ColumnDefinition, []query.Row) {
	cols := []query.ColumnDefinition{
		col("id", "ID", query.TypeNumber, 60),
		col("first_name", "First Name", query.TypeString, 110),
		col("last_name", "Last Name", query.TypeString, 110),
		col("email", "Email", query.TypeString, 220),
		col("city", "City", query.TypeString, 120),
		col("country", "Country", query.TypeString, 100),
		col("signup_date", "Signup Date", query.TypeDate, 120),
		col("is_active", "Active", query.TypeBoolean, 80),
		col("orders_count", "Orders", query.TypeNumber, 80),
	}
	rows := make([]query.Row, count)
	for i := range rows {
		first := pick(firstNames)
		last := pick(lastNames)
		rows[i] = query.Row{
			"id":           float64(i + 1),
			"first_name":   first,
			"last_name":    last,
			"email":        fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), rand.IntN(1000), pick(emailDomains)),
			"city":         pick(cities),
			"country":      pick(countries),
			"signup_date":  pastDate(1095),
			"is_active":    rand.IntN(10) < 8,
			"orders_count": float64(rand.IntN(50)),
		}
	}
	return cols, rows
}

func generateOrders(count int) ([]query.ColumnDefinition, []query.Row) {
	cols := []query.ColumnDefinition{
		col("order_id", "Order ID", query.TypeString, 110),
		col("customer_name", "Customer", query.TypeString, 160),
		col("product", "Product", query.TypeString, 130),
		col("quantity", "Qty", query.TypeNumber, 60),
		col("unit_price", "Unit Price", query.TypeNumber, 100),
		col("total", "Total", query.TypeNumber, 100),
		col("status", "Status", query.TypeString, 100),
		col("order_date", "Order Date", query.TypeDate, 120),
	}
	rows := make([]query.Row, count)
	for i := range rows {
		qty := rand.IntN(10) + 1
		price := round2(rand.Float64()*990 + 10)
		rows[i] = query.Row{
			"order_id":      fmt.Sprintf("ORD-%06d", i+1),
			"customer_name": pick(firstNames) + " " + pick(lastNames),
			"product":       pick(productNames),
			"quantity":      float64(qty),
			"unit_price":    price,
			"total":         round2(float64(qty) * price),
			"status":        pick(orderStatuses),
			"order_date":    pastDate(365),
		}
	}
	return cols, rows
}

func generateProducts(count int) ([]query.ColumnDefinition, []query.Row) {
	cols := []query.ColumnDefinition{
		col("sku", "SKU", query.TypeString, 110),
		col("name", "Name", query.TypeString, 150),
		col("category", "Category", query.TypeString, 120),
		col("price", "Price", query.TypeNumber, 90),
		col("stock", "Stock", query.TypeNumber, 80),
		col("reorder_level", "Reorder At", query.TypeNumber, 100),
		col("last_updated", "Last Updated", query.TypeDate, 160),
	}
	rows := make([]query.Row, count)
	for i := range rows {
		rows[i] = query.Row{
			"sku":           fmt.Sprintf("SKU-%05d", i+1),
			"name":          pick(productNames) + " " + pick(productTiers),
			"category":      pick(categories),
			"price":         round2(rand.Float64()*490 + 10),
			"stock":         float64(rand.IntN(500)),
			"reorder_level": float64(rand.IntN(50) + 10),
			"last_updated":  pastTimestamp(90),
		}
	}
	return cols, rows
}

func generateAnalytics(count int) ([]query.ColumnDefinition, []query.Row) {
	cols := []query.ColumnDefinition{
		col("date", "Date", query.TypeDate, 110),
		col("page_views", "Page Views", query.TypeNumber, 100),
		col("unique_visitors", "Unique Visitors", query.TypeNumber, 120),
		col("bounce_rate", "Bounce Rate", query.TypeNumber, 100),
		col("avg_session", "Avg Session (s)", query.TypeNumber, 120),
		col("conversions", "Conversions", query.TypeNumber, 100),
		col("revenue", "Revenue", query.TypeNumber, 100),
	}
	rows := make([]query.Row, count)
	for i := range rows {
		views := rand.IntN(49000) + 1000
		// Unique visitors track page views at 40-70%.
		visitors := int(float64(views) * (0.4 + rand.Float64()*0.3))
		rows[i] = query.Row{
			"date":            time.Now().AddDate(0, 0, -i).Format("2006-01-02"),
			"page_views":      float64(views),
			"unique_visitors": float64(visitors),
			"bounce_rate":     round2(rand.Float64()*60 + 20),
			"avg_session":     round2(rand.Float64()*540 + 60),
			"conversions":     float64(rand.IntN(500)),
			"revenue":         round2(rand.Float64() * 10000),
		}
	}
	return cols, rows
}

func generateTransactions(count int) ([]query.ColumnDefinition, []query.Row) {
	cols := []query.ColumnDefinition{
		col("tx_id", "Transaction ID", query.TypeString, 140),
		col("timestamp", "Timestamp", query.TypeDate, 170),
		col("amount", "Amount", query.TypeNumber, 100),
		col("currency", "Currency", query.TypeString, 80),
		col("payment_method", "Method", query.TypeString, 120),
		col("status", "Status", query.TypeString, 100),
		col("customer_id", "Customer ID", query.TypeString, 110),
	}
	rows := make([]query.Row, count)
	for i := range rows {
		rows[i] = query.Row{
			"tx_id":          fmt.Sprintf("TXN-%08d", i+1),
			"timestamp":      pastTimestamp(30),
			"amount":         round2(rand.Float64()*4995 + 5),
			"currency":       pick(currencies),
			"payment_method": pick(paymentMethods),
			"status":         pick(txStatuses),
			"customer_id":    fmt.Sprintf("CUST-%05d", rand.IntN(10000)+1),
		}
	}
	return cols, rows
}

func generateGeneric(count int) ([]query.ColumnDefinition, []query.Row) {
	cols := []query.ColumnDefinition{
		col("id", "ID", query.TypeNumber, 60),
		col("name", "Name", query.TypeString, 160),
		col("value", "Value", query.TypeNumber, 100),
		col("status", "Status", query.TypeString, 100),
		col("created_at", "Created At", query.TypeDate, 160),
		col("is_enabled", "Enabled", query.TypeBoolean, 80),
	}
	rows := make([]query.Row, count)
	for i := range rows {
		rows[i] = query.Row{
			"id":         float64(i + 1),
			"name":       fmt.Sprintf("Record %d", i+1),
			"value":      round2(rand.Float64() * 1000),
			"status":     pick(genericStatuses),
			"created_at": pastTimestamp(365),
			"is_enabled": rand.IntN(2) == 0,
		}
	}
	return cols, rows
}

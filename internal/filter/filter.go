// Package filter parses the record filter and sort expressions accepted by the
// collection API and compiles them to parameterized SQL.
//
// Filters are comparisons of the form `field op value` joined by && and ||,
// with && binding tighter and parentheses for grouping:
//
//	owner = "abc" || shared = true
//	(status = 'open' && priority != "low") || shared = true
//
// Sort expressions are comma separated fields, each optionally prefixed with
// - (descending) or + (ascending): "-status,-created".
package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownField = errors.New("unknown field")

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Columns maps filterable field names to SQL column names.
type Columns map[string]string

// Expr is a parsed filter expression.
type Expr interface {
	String() string
	compile(columns Columns, args *[]any) (string, error)
}

type logical struct {
	operator string
	left     Expr
	right    Expr
}

type comparison struct {
	field    string
	operator string
	value    any
}

// And joins expressions with &&, skipping nil operands.
func And(exprs ...Expr) Expr {
	return join("&&", exprs)
}

// Or joins expressions with ||, skipping nil operands.
func Or(exprs ...Expr) Expr {
	return join("||", exprs)
}

// Eq builds `field = value`.
func Eq(field string, value any) Expr {
	return comparison{field: field, operator: "=", value: value}
}

// NotEq builds `field != value`.
func NotEq(field string, value any) Expr {
	return comparison{field: field, operator: "!=", value: value}
}

// Within matches records whose field references a row of table satisfying
// where. It is built in code only; the filter grammar has no syntax for it and
// table must never come from user input.
func Within(field, table string, columns Columns, where Expr) Expr {
	return subquery{field: field, table: table, columns: columns, where: where}
}

type subquery struct {
	field   string
	table   string
	columns Columns
	where   Expr
}

func (expr subquery) String() string {
	inner := "*"
	if expr.where != nil {
		inner = expr.where.String()
	}
	return expr.field + " in " + expr.table + "[" + inner + "]"
}

func (expr subquery) compile(columns Columns, args *[]any) (string, error) {
	column, ok := columns[expr.field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, expr.field)
	}
	where := "1=1"
	if expr.where != nil {
		var err error
		where, err = expr.where.compile(expr.columns, args)
		if err != nil {
			return "", err
		}
	}
	return column + " IN (SELECT id FROM " + expr.table + " WHERE " + where + ")", nil
}

func join(operator string, exprs []Expr) Expr {
	var result Expr
	for _, expr := range exprs {
		if expr == nil {
			continue
		}
		if result == nil {
			result = expr
			continue
		}
		result = logical{operator: operator, left: result, right: expr}
	}
	return result
}

func (expr logical) String() string {
	return "(" + expr.left.String() + " " + expr.operator + " " + expr.right.String() + ")"
}

func (expr comparison) String() string {
	return expr.field + " " + expr.operator + " " + formatValue(expr.value)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return `"` + quoteEscaper.Replace(v) + `"`
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return strconv.Quote(fmt.Sprint(v))
	}
}

func (expr logical) compile(columns Columns, args *[]any) (string, error) {
	left, err := expr.left.compile(columns, args)
	if err != nil {
		return "", err
	}
	right, err := expr.right.compile(columns, args)
	if err != nil {
		return "", err
	}
	operator := "AND"
	if expr.operator == "||" {
		operator = "OR"
	}
	return "(" + left + " " + operator + " " + right + ")", nil
}

func (expr comparison) compile(columns Columns, args *[]any) (string, error) {
	column, ok := columns[expr.field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, expr.field)
	}

	if expr.value == nil {
		switch expr.operator {
		case "=":
			return column + " IS NULL", nil
		case "!=":
			return column + " IS NOT NULL", nil
		default:
			return "", fmt.Errorf("operator %s cannot compare with null", expr.operator)
		}
	}

	value := expr.value
	if b, isBool := value.(bool); isBool {
		value = 0
		if b {
			value = 1
		}
	}
	*args = append(*args, value)
	return column + " " + expr.operator + " ?", nil
}

// Where compiles expr into a SQL boolean expression and its arguments. A nil
// expression compiles to "1=1".
func Where(expr Expr, columns Columns) (string, []any, error) {
	if expr == nil {
		return "1=1", nil, nil
	}
	var args []any
	clause, err := expr.compile(columns, &args)
	if err != nil {
		return "", nil, err
	}
	return clause, args, nil
}

type SortField struct {
	Field string
	Desc  bool
}

// ParseSort parses "-status,-created" style sort expressions.
func ParseSort(input string) ([]SortField, error) {
	var fields []SortField
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field := SortField{Field: part}
		switch part[0] {
		case '-':
			field = SortField{Field: part[1:], Desc: true}
		case '+':
			field = SortField{Field: part[1:]}
		}
		if field.Field == "" {
			return nil, fmt.Errorf("empty sort field in %q", input)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// OrderBy compiles sort fields to an ORDER BY list (without the keywords).
func OrderBy(fields []SortField, columns Columns) (string, error) {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		column, ok := columns[field.Field]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownField, field.Field)
		}
		direction := "ASC"
		if field.Desc {
			direction = "DESC"
		}
		parts = append(parts, column+" "+direction)
	}
	return strings.Join(parts, ", "), nil
}

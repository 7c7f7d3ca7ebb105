package filter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenNumber
	tokenOperator
	tokenAnd
	tokenOr
	tokenOpen
	tokenClose
)

type token struct {
	kind  tokenKind
	text  string
	value any
}

var comparisonOperators = map[string]bool{
	"=": true, "!=": true, ">": true, ">=": true, "<": true, "<=": true,
}

// Parse parses a filter expression. An empty input yields a nil Expr.
func Parse(input string) (Expr, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 1 {
		return nil, nil
	}

	p := &parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenEOF {
		return nil, fmt.Errorf("unexpected %q in filter", p.peek().text)
	}
	return expr, nil
}

type parser struct {
	tokens   []token
	position int
}

func (p *parser) peek() token {
	return p.tokens[p.position]
}

func (p *parser) next() token {
	current := p.tokens[p.position]
	if current.kind != tokenEOF {
		p.position++
	}
	return current
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = logical{operator: "||", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = logical{operator: "&&", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (Expr, error) {
	current := p.next()
	switch current.kind {
	case tokenOpen:
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenClose {
			return nil, fmt.Errorf("expected ) but found %q", closing.text)
		}
		return expr, nil
	case tokenIdent:
		operator := p.next()
		if operator.kind != tokenOperator {
			return nil, fmt.Errorf("expected operator after %q", current.text)
		}
		value := p.next()
		switch value.kind {
		case tokenString, tokenNumber:
			return comparison{field: current.text, operator: operator.text, value: value.value}, nil
		case tokenIdent:
			literal, err := keywordValue(value.text)
			if err != nil {
				return nil, err
			}
			return comparison{field: current.text, operator: operator.text, value: literal}, nil
		default:
			return nil, fmt.Errorf("expected value after %s %s", current.text, operator.text)
		}
	case tokenEOF:
		return nil, fmt.Errorf("unexpected end of filter")
	default:
		return nil, fmt.Errorf("unexpected %q in filter", current.text)
	}
}

func keywordValue(word string) (any, error) {
	switch word {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	return nil, fmt.Errorf("unquoted value %q", word)
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenOpen, text: "("})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenClose, text: ")"})
			i++
		case r == '&' || r == '|':
			if i+1 >= len(runes) || runes[i+1] != r {
				return nil, fmt.Errorf("expected %c%c at offset %d", r, r, i)
			}
			kind := tokenAnd
			if r == '|' {
				kind = tokenOr
			}
			tokens = append(tokens, token{kind: kind, text: string([]rune{r, r})})
			i += 2
		case r == '=' || r == '!' || r == '<' || r == '>':
			operator := string(r)
			if i+1 < len(runes) && runes[i+1] == '=' {
				operator += "="
			}
			if !comparisonOperators[operator] {
				return nil, fmt.Errorf("unknown operator %q at offset %d", operator, i)
			}
			tokens = append(tokens, token{kind: tokenOperator, text: operator})
			i += len(operator)
		case r == '"' || r == '\'':
			text, end, err := scanString(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, text: string(runes[i:end]), value: text})
			i = end
		case r == '-' || unicode.IsDigit(r):
			end := i + 1
			for end < len(runes) && (unicode.IsDigit(runes[end]) || runes[end] == '.') {
				end++
			}
			number, err := strconv.ParseFloat(string(runes[i:end]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", string(runes[i:end]))
			}
			tokens = append(tokens, token{kind: tokenNumber, text: string(runes[i:end]), value: number})
			i = end
		case r == '_' || unicode.IsLetter(r):
			end := i + 1
			for end < len(runes) && (runes[end] == '_' || runes[end] == '.' || unicode.IsLetter(runes[end]) || unicode.IsDigit(runes[end])) {
				end++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: string(runes[i:end])})
			i = end
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", r, i)
		}
	}

	return append(tokens, token{kind: tokenEOF}), nil
}

func scanString(runes []rune, start int) (string, int, error) {
	quote := runes[start]
	var builder strings.Builder
	for i := start + 1; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			i++
			switch escaped := runes[i]; escaped {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			default:
				builder.WriteRune(escaped)
			}
			continue
		}
		if r == quote {
			return builder.String(), i + 1, nil
		}
		builder.WriteRune(r)
	}
	return "", 0, fmt.Errorf("unterminated string at offset %d", start)
}

package rules

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// timestampLayout is an ISO-8601 date-time without offset; UTC is assumed.
const timestampLayout = "2006-01-02T15:04:05"

// ComponentDirective declares a trackable component. The initial figures seed
// wear accrued before tracking began; they are raw seconds and meters.
type ComponentDirective struct {
	Code            string
	Name            string
	InitialTime     float64
	InitialDistance float64
}

// RoleDirective declares a functional role.
type RoleDirective struct {
	Name string
}

// LongtermDirective assigns a component to a role on a bike over a time
// interval. A missing end means the assignment is ongoing.
type LongtermDirective struct {
	ComponentCode string
	BikeStravaID  string
	RoleName      string
	StartsAt      time.Time
	EndsAt        *time.Time
}

// String reconstructs the directive for error reporting.
func (d LongtermDirective) String() string {
	s := fmt.Sprintf("longterm %s %s %s %s", d.ComponentCode, d.BikeStravaID,
		d.RoleName, d.StartsAt.Format(timestampLayout))
	if d.EndsAt != nil {
		s += " " + d.EndsAt.Format(timestampLayout)
	}
	return s
}

// HashtagDirective maps a tag token to a component in a role.
type HashtagDirective struct {
	Tag           string
	ComponentCode string
	RoleName      string
}

// String reconstructs the directive for error reporting.
func (d HashtagDirective) String() string {
	return fmt.Sprintf("hashtag %s %s %s", d.Tag, d.ComponentCode, d.RoleName)
}

// Document is the parsed gear rules file.
type Document struct {
	Components []ComponentDirective
	Roles      []RoleDirective
	Longterms  []LongtermDirective
	Hashtags   []HashtagDirective
}

// ParseError reports a line that matches no recognized directive shape.
// Parsing is strict, not tolerant: a malformed rules file aborts the run.
type ParseError struct {
	Line   int
	Tokens []string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rules line %d: %s (tokens: %q)", e.Line, e.Reason, strings.Join(e.Tokens, " "))
}

// Parse reads the gear rules text, one whitespace-tokenized directive per
// line. Blank lines are skipped. Recognized shapes:
//
//	component <code> <name> <seconds> <meters>
//	role <name>
//	longterm <code> <bike-id> <role> <start> [<end>]
//	hashtag <tag> <code> <role>
//
// Any other line is a parse error.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "component":
			if len(tokens) != 5 {
				return nil, &ParseError{line, tokens, "component expects <code> <name> <seconds> <meters>"}
			}
			initialTime, err := parseNumber(line, tokens, tokens[3])
			if err != nil {
				return nil, err
			}
			initialDistance, err := parseNumber(line, tokens, tokens[4])
			if err != nil {
				return nil, err
			}
			doc.Components = append(doc.Components, ComponentDirective{
				Code:            tokens[1],
				Name:            tokens[2],
				InitialTime:     initialTime,
				InitialDistance: initialDistance,
			})

		case "role":
			if len(tokens) != 2 {
				return nil, &ParseError{line, tokens, "role expects <name>"}
			}
			doc.Roles = append(doc.Roles, RoleDirective{Name: tokens[1]})

		case "longterm":
			if len(tokens) != 5 && len(tokens) != 6 {
				return nil, &ParseError{line, tokens, "longterm expects <code> <bike-id> <role> <start> [<end>]"}
			}
			startsAt, err := parseTimestamp(line, tokens, tokens[4])
			if err != nil {
				return nil, err
			}
			d := LongtermDirective{
				ComponentCode: tokens[1],
				BikeStravaID:  tokens[2],
				RoleName:      tokens[3],
				StartsAt:      startsAt,
			}
			if len(tokens) == 6 {
				endsAt, err := parseTimestamp(line, tokens, tokens[5])
				if err != nil {
					return nil, err
				}
				d.EndsAt = &endsAt
			}
			doc.Longterms = append(doc.Longterms, d)

		case "hashtag":
			if len(tokens) != 4 {
				return nil, &ParseError{line, tokens, "hashtag expects <tag> <code> <role>"}
			}
			doc.Hashtags = append(doc.Hashtags, HashtagDirective{
				Tag:           tokens[1],
				ComponentCode: tokens[2],
				RoleName:      tokens[3],
			})

		default:
			return nil, &ParseError{line, tokens, "unrecognized directive"}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	return doc, nil
}

func parseNumber(line int, tokens []string, raw string) (float64, error) {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{line, tokens, fmt.Sprintf("invalid number %q", raw)}
	}
	return n, nil
}

func parseTimestamp(line int, tokens []string, raw string) (time.Time, error) {
	t, err := time.ParseInLocation(timestampLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{line, tokens, fmt.Sprintf("invalid timestamp %q", raw)}
	}
	return t, nil
}

// Package importer loads historical training logs from CSV exports into
// permanent session records, scoring sets the same way a live finish does.
package importer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Session is one parsed workout from the export.
type Session struct {
	Name      string
	Date      time.Time
	Duration  time.Duration
	Exercises []Exercise
}

// Exercise is one numbered exercise block within a session.
type Exercise struct {
	Number int
	Name   string
	Sets   []Set
}

// Set is one data row under an exercise block. WeightKg can be zero for
// bodyweight rows; those are skipped at import time, not here.
type Set struct {
	Number   int
	WeightKg float64
	Reps     int
}

var (
	// sessionHeaderRe matches: "Push Day";"2026-02-19 17:54 h";"1:02 hr"
	sessionHeaderRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// exerciseHeaderRe matches: "1. Bench Press"
	exerciseHeaderRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)"$`)

	// setDataRe matches: 1;102,5;8
	setDataRe = regexp.MustCompile(`^(\d+);([\d,.]+);(\d+)$`)

	// columnHeaderRe matches: #;KG;REPS
	columnHeaderRe = regexp.MustCompile(`^#;KG;REPS$`)

	// durationRe matches: 1:02 hr
	durationRe = regexp.MustCompile(`^(\d+):(\d+)\s+hr$`)
)

// Parse reads a semicolon-delimited training-log export. Sessions are
// separated by blank lines; unknown lines are skipped so notes and metadata
// don't break the import.
func Parse(r io.Reader) ([]Session, error) {
	scanner := bufio.NewScanner(r)
	var sessions []Session
	var current *Session
	var currentExercise *Exercise

	flushExercise := func() {
		if currentExercise != nil {
			current.Exercises = append(current.Exercises, *currentExercise)
			currentExercise = nil
		}
	}
	flushSession := func() {
		if current != nil {
			flushExercise()
			sessions = append(sessions, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			flushSession()
			continue
		}
		if columnHeaderRe.MatchString(line) {
			continue
		}

		if m := sessionHeaderRe.FindStringSubmatch(line); m != nil {
			flushSession()
			date, err := parseSessionDate(m[2])
			if err != nil {
				return nil, fmt.Errorf("parsing session date %q: %w", m[2], err)
			}
			current = &Session{
				Name:     m[1],
				Date:     date,
				Duration: parseDuration(m[3]),
			}
			continue
		}

		if m := exerciseHeaderRe.FindStringSubmatch(line); m != nil {
			if current == nil {
				return nil, fmt.Errorf("exercise without session: %q", line)
			}
			flushExercise()
			num, _ := strconv.Atoi(m[1])
			currentExercise = &Exercise{
				Number: num,
				Name:   strings.TrimSpace(m[2]),
			}
			continue
		}

		if m := setDataRe.FindStringSubmatch(line); m != nil {
			if currentExercise == nil {
				return nil, fmt.Errorf("set data without exercise: %q", line)
			}
			setNum, _ := strconv.Atoi(m[1])
			reps, _ := strconv.Atoi(m[3])
			currentExercise.Sets = append(currentExercise.Sets, Set{
				Number:   setNum,
				WeightKg: parseEuropeanFloat(m[2]),
				Reps:     reps,
			})
			continue
		}
	}

	flushSession()
	return sessions, scanner.Err()
}

// parseSessionDate parses "2026-02-19 17:54" into a time.Time, tolerating a
// single-digit hour.
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// parseDuration converts "1:02 hr" to a duration; unparseable values yield
// zero rather than failing a whole import.
func parseDuration(s string) time.Duration {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
}

// parseEuropeanFloat converts a European decimal string to float64.
// "102,5" -> 102.5
func parseEuropeanFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

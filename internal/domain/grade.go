package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Grade is the recall quality on the SM-2 six point scale.
type Grade int

const (
	GradeBlackout Grade = iota
	GradeIncorrectRemembered
	GradeIncorrectEasy
	GradeCorrectDifficult
	GradeCorrect
	GradePerfect
)

// PassingGrade is the lowest grade counted as a successful recall.
const PassingGrade = GradeCorrectDifficult

// Valid reports whether g is on the 0-5 scale.
func (g Grade) Valid() bool {
	return g >= GradeBlackout && g <= GradePerfect
}

// Passed reports whether g counts as a successful recall.
func (g Grade) Passed() bool {
	return g >= PassingGrade
}

// ParseGrade parses a decimal grade and rejects values outside 0-5.
func ParseGrade(s string) (Grade, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	g := Grade(n)
	if !g.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidGrade, n)
	}
	return g, nil
}

// Button is one of the three answer buttons shown after a correct answer.
type Button string

const (
	ButtonHard   Button = "hard"
	ButtonMedium Button = "medium"
	ButtonEasy   Button = "easy"
)

// ParseButton normalizes a button label.
func ParseButton(s string) (Button, error) {
	b := Button(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case ButtonHard, ButtonMedium, ButtonEasy:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidButton, s)
}

// GradeForButton collapses the button answer onto the six point scale.
// An incorrect answer is always graded 2, whatever button was pressed.
func GradeForButton(b Button, correct bool) (Grade, error) {
	if !correct {
		return GradeIncorrectEasy, nil
	}
	switch b {
	case ButtonHard:
		return GradeCorrectDifficult, nil
	case ButtonMedium:
		return GradeCorrect, nil
	case ButtonEasy:
		return GradePerfect, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidButton, string(b))
}

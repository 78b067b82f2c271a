// Package validate checks user input before it reaches the store.
package validate

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// Limits on free-form input.
const (
	MaxSymbolLength = 20
	MaxNotesLength  = 2000
	MaxMoodLength   = 50
	MaxURLLength    = 2048
)

var (
	// Symbol pattern: uppercase letters, numbers, and the separators used by
	// forex pairs and broker suffixes
	symbolPattern = regexp.MustCompile(`^[A-Z0-9/._-]{1,20}$`)

	// Currency codes are three letters
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// TradeInput normalizes in (upper-cased symbol, canonical direction,
// trimmed text) and rejects anything that cannot be journaled.
func TradeInput(in *models.TradeInput) error {
	in.Symbol = strings.TrimSpace(strings.ToUpper(in.Symbol))
	if err := Symbol(in.Symbol); err != nil {
		return err
	}

	dir, ok := models.ParseDirection(string(in.Direction))
	if !ok {
		return errors.NewValidationError("type", in.Direction, "direction must be long or short")
	}
	in.Direction = dir

	if err := positive("entryPrice", in.EntryPrice); err != nil {
		return err
	}
	if err := positive("stopLoss", in.StopLoss); err != nil {
		return err
	}
	if err := positive("lotSize", in.PositionSize); err != nil {
		return err
	}
	if in.TakeProfit != nil {
		tp := *in.TakeProfit
		if math.IsNaN(tp) || math.IsInf(tp, 0) || tp < 0 {
			return errors.NewValidationError("takeProfit", tp, "take profit cannot be negative")
		}
		if tp == 0 {
			in.TakeProfit = nil
		}
	}
	if in.Leverage < 0 {
		return errors.NewValidationError("leverage", in.Leverage, "leverage cannot be negative")
	}

	in.Mood = models.Mood(strings.TrimSpace(string(in.Mood)))
	if utf8.RuneCountInString(string(in.Mood)) > MaxMoodLength {
		return errors.NewValidationError("mood", in.Mood, fmt.Sprintf("mood too long (max %d characters)", MaxMoodLength))
	}
	in.Notes = SanitizeText(in.Notes)
	if utf8.RuneCountInString(in.Notes) > MaxNotesLength {
		return errors.NewValidationError("notes", excerpt(in.Notes, 50), fmt.Sprintf("text too long (max %d characters)", MaxNotesLength))
	}

	in.BeforeScreenshotURL = strings.TrimSpace(in.BeforeScreenshotURL)
	if err := ScreenshotURL("beforeScreenshot", in.BeforeScreenshotURL); err != nil {
		return err
	}
	in.AfterScreenshotURL = strings.TrimSpace(in.AfterScreenshotURL)
	return ScreenshotURL("afterScreenshot", in.AfterScreenshotURL)
}

// Symbol validates an upper-cased instrument symbol.
func Symbol(symbol string) error {
	if symbol == "" {
		return errors.NewValidationError("symbol", symbol, "symbol cannot be empty")
	}
	if len(symbol) > MaxSymbolLength {
		return errors.NewValidationError("symbol", symbol, "symbol too long (max 20 characters)")
	}
	if !symbolPattern.MatchString(symbol) {
		return errors.NewValidationError("symbol", symbol, "invalid symbol format")
	}
	return nil
}

// ScreenshotURL accepts an empty value or an absolute http(s) URL.
func ScreenshotURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	if len(raw) > MaxURLLength {
		return errors.NewValidationError(field, raw[:50]+"...", "URL too long")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewValidationError(field, raw, "must be an http or https URL")
	}
	return nil
}

// AccountName returns the trimmed name after checking its length and that
// no other account already uses it, ignoring case.
func AccountName(name string, existing []models.Account, selfID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewValidationError("name", name, "account name cannot be empty")
	}
	if len([]rune(name)) > models.MaxAccountNameLength {
		return "", errors.NewValidationError("name", name,
			fmt.Sprintf("account name too long (max %d characters)", models.MaxAccountNameLength))
	}
	for _, a := range existing {
		if a.ID != selfID && strings.EqualFold(a.Name, name) {
			return "", errors.NewValidationError("name", name, errors.ErrDuplicateName.Error())
		}
	}
	return name, nil
}

// Balance validates an account balance.
func Balance(balance float64) error {
	if math.IsNaN(balance) || math.IsInf(balance, 0) {
		return errors.NewValidationError("balance", balance, "balance must be a number")
	}
	if balance < 0 {
		return errors.NewValidationError("balance", balance, "balance cannot be negative")
	}
	return nil
}

// Currency normalizes and validates a three-letter currency code.
func Currency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !currencyPattern.MatchString(code) {
		return "", errors.NewValidationError("currency", code, "currency must be a three-letter code")
	}
	return code, nil
}

// SanitizeText removes control characters other than newlines and tabs.
func SanitizeText(text string) string {
	var result strings.Builder
	for _, r := range text {
		if r >= 32 && r != 127 || r == '\n' || r == '\t' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// excerpt returns the first n characters of text followed by "...".
func excerpt(text string, n int) string {
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos] + "..."
		}
		i++
	}
	return text
}

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.NewValidationError(field, v, "must be a number")
	}
	if v <= 0 {
		return errors.NewValidationError(field, v, "must be greater than zero")
	}
	return nil
}

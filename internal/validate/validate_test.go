package validate

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

func validInput() models.TradeInput {
	return models.TradeInput{
		Symbol:       " eur/usd ",
		Direction:    "buy",
		EntryPrice:   1.1,
		StopLoss:     1.095,
		TakeProfit:   models.Float(0),
		PositionSize: 0.1,
		Mood:         " confident ",
		Notes:        "clean break\x00 of range\n",
	}
}

func TestTradeInput_Normalizes(t *testing.T) {
	in := validInput()
	require.NoError(t, TradeInput(&in))
	assert.Equal(t, "EUR/USD", in.Symbol)
	assert.Equal(t, models.DirectionLong, in.Direction)
	assert.Nil(t, in.TakeProfit, "zero target means none")
	assert.Equal(t, models.MoodConfident, in.Mood)
	assert.Equal(t, "clean break of range", in.Notes)
}

func TestTradeInput_Rejects(t *testing.T) {
	cases := map[string]func(*models.TradeInput){
		"empty symbol":    func(in *models.TradeInput) { in.Symbol = "  " },
		"bad symbol":      func(in *models.TradeInput) { in.Symbol = "EUR USD;" },
		"long symbol":     func(in *models.TradeInput) { in.Symbol = strings.Repeat("A", 21) },
		"direction":       func(in *models.TradeInput) { in.Direction = "sideways" },
		"zero entry":      func(in *models.TradeInput) { in.EntryPrice = 0 },
		"negative stop":   func(in *models.TradeInput) { in.StopLoss = -1 },
		"zero size":       func(in *models.TradeInput) { in.PositionSize = 0 },
		"negative target": func(in *models.TradeInput) { in.TakeProfit = models.Float(-1) },
		"negative lev":    func(in *models.TradeInput) { in.Leverage = -5 },
		"long notes":      func(in *models.TradeInput) { in.Notes = strings.Repeat("x", MaxNotesLength+1) },
		"bad screenshot":  func(in *models.TradeInput) { in.AfterScreenshotURL = "javascript:alert(1)" },
		"relative shot":   func(in *models.TradeInput) { in.BeforeScreenshotURL = "/img.png" },
		"long mood":       func(in *models.TradeInput) { in.Mood = models.Mood(strings.Repeat("m", 51)) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			err := TradeInput(&in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInputValidation))
		})
	}
}

func TestTradeInput_NotesLengthCountsCharacters(t *testing.T) {
	in := validInput()
	in.Notes = strings.Repeat("é", MaxNotesLength)
	require.NoError(t, TradeInput(&in), "multibyte notes at the limit")

	in = validInput()
	in.Notes = strings.Repeat("é", MaxNotesLength+1)
	err := TradeInput(&in)
	require.Error(t, err)

	var verr *errors.ValidationError
	require.True(t, errors.As(err, &verr))
	value, ok := verr.Value.(string)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(value))
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Equal(t, strings.Repeat("é", 50)+"...", value)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 50))
	assert.Equal(t, "ab...", excerpt("abc", 2))
	assert.Equal(t, "日本...", excerpt("日本語", 2))
}

func TestScreenshotURL(t *testing.T) {
	assert.NoError(t, ScreenshotURL("before", ""))
	assert.NoError(t, ScreenshotURL("before", "https://i.imgur.com/abc.png"))
	assert.Error(t, ScreenshotURL("before", "ftp://host/file"))
}

func TestAccountName(t *testing.T) {
	existing := []models.Account{
		{ID: "a1", Name: "Main Account"},
		{ID: "a2", Name: "Prop Firm"},
	}

	name, err := AccountName("  Swing  ", existing, "")
	require.NoError(t, err)
	assert.Equal(t, "Swing", name)

	_, err = AccountName("main account", existing, "")
	assert.ErrorContains(t, err, "already exists")

	name, err = AccountName("PROP FIRM", existing, "a2")
	require.NoError(t, err, "renaming an account to itself in another case")
	assert.Equal(t, "PROP FIRM", name)

	_, err = AccountName("", existing, "")
	assert.Error(t, err)
	_, err = AccountName(strings.Repeat("n", models.MaxAccountNameLength+1), existing, "")
	assert.Error(t, err)
	_, err = AccountName(strings.Repeat("n", models.MaxAccountNameLength), existing, "")
	assert.NoError(t, err)
}

func TestBalanceAndCurrency(t *testing.T) {
	assert.NoError(t, Balance(0))
	assert.NoError(t, Balance(2500.5))
	assert.Error(t, Balance(-1))

	code, err := Currency(" eur ")
	require.NoError(t, err)
	assert.Equal(t, "EUR", code)
	_, err = Currency("EURO")
	assert.Error(t, err)
	_, err = Currency("U$D")
	assert.Error(t, err)
}

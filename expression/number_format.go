package expression

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ardnew/windstyle/pkg/num"
)

const (
	defaultMaxFractionDigits = 3
	maxFractionDigitsLimit   = 100
	maxExactFractionDigits   = 15
)

// NumberFormat renders a number as locale-aware text, optionally as a
// currency amount.
type NumberFormat struct {
	number            Expression
	locale            Expression
	currency          Expression
	minFractionDigits Expression
	maxFractionDigits Expression
	typed
}

func parseNumberFormat(args []any, ctx *ParsingContext) Expression {
	if len(args) != 3 {
		return ctx.fail("Expected two arguments.")
	}

	e := &NumberFormat{typed: typed{StringType}}

	if e.number = ctx.parseArg(args[1], 1, expect(NumberType)); e.number == nil {
		return nil
	}

	opts, ok := args[2].(map[string]any)
	if !ok {
		return ctx.fail("NumberFormat options argument must be an object.")
	}

	fields := []struct {
		dst  *Expression
		name string
		typ  Type
	}{
		{&e.locale, "locale", StringType},
		{&e.currency, "currency", StringType},
		{&e.minFractionDigits, "min-fraction-digits", NumberType},
		{&e.maxFractionDigits, "max-fraction-digits", NumberType},
	}

	for _, f := range fields {
		v := opts[f.name]
		if !truthy(v) {
			continue
		}

		if *f.dst = ctx.parseArg(v, 1, expect(f.typ)); *f.dst == nil {
			return nil
		}
	}

	return e
}

func (e *NumberFormat) Evaluate(ctx *EvaluationContext) (any, error) {
	nv, err := e.number.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	var (
		locale, cur      string
		minFrac, maxFrac *float64
	)

	for _, opt := range []struct {
		expr Expression
		set  func(any)
	}{
		{e.locale, func(v any) { locale, _ = v.(string) }},
		{e.currency, func(v any) { cur, _ = v.(string) }},
		{e.minFractionDigits, func(v any) { f := asNumber(v); minFrac = &f }},
		{e.maxFractionDigits, func(v any) { f := asNumber(v); maxFrac = &f }},
	} {
		if opt.expr == nil {
			continue
		}

		v, err := opt.expr.Evaluate(ctx)
		if err != nil {
			return nil, err
		}

		opt.set(v)
	}

	s, err := FormatNumber(asNumber(nv), locale, cur, minFrac, maxFrac)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// FormatNumber renders n for locale (empty for [DefaultLocale]). A non-empty
// cur selects currency style using its ISO 4217 code, whose standard
// number of decimals becomes the default fraction digits. Otherwise between
// 0 and 3 fraction digits are shown. Rounding is half away from zero.
func FormatNumber(n float64, locale, cur string, minFrac, maxFrac *float64) (string, error) {
	tag := DefaultLocale

	if locale != "" {
		t, err := language.Parse(locale)
		if err != nil {
			return "", NewRuntimeError("Incorrect locale information provided")
		}

		tag = t
	}

	var (
		unit       currency.Unit
		defMin     = 0
		defMax     = defaultMaxFractionDigits
		isCurrency = cur != ""
	)

	if isCurrency {
		u, err := parseCurrency(cur)
		if err != nil {
			return "", err
		}

		unit = u
		defMin, _ = currency.Standard.Rounding(u)
		defMax = defMin
	}

	lo, err := fractionDigits(minFrac, defMin, "minimumFractionDigits")
	if err != nil {
		return "", err
	}

	hi, err := fractionDigits(maxFrac, max(lo, defMax), "maximumFractionDigits")
	if err != nil {
		return "", err
	}

	if minFrac == nil && lo > hi {
		lo = hi
	}

	if hi < lo {
		return "", NewRuntimeError("maximumFractionDigits value is out of range.")
	}

	p := message.NewPrinter(tag)

	var sb strings.Builder

	if math.Signbit(n) && n != 0 && !math.IsNaN(n) {
		sb.WriteString("-")
	}

	if isCurrency {
		sb.WriteString(p.Sprint(currency.Symbol(unit)))
	}

	switch abs := math.Abs(n); {
	case math.IsNaN(n):
		sb.WriteString("NaN")
	case math.IsInf(n, 0):
		sb.WriteString("∞")
	default:
		if hi <= maxExactFractionDigits {
			scale := math.Pow(10, float64(hi))
			abs = num.Round(abs*scale) / scale
		}

		sb.WriteString(p.Sprint(number.Decimal(abs,
			number.MinFractionDigits(lo),
			number.MaxFractionDigits(hi),
		)))
	}

	return sb.String(), nil
}

func parseCurrency(code string) (currency.Unit, error) {
	u, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, NewRuntimeError("Invalid currency code : " + code)
	}

	return u, nil
}

func fractionDigits(v *float64, def int, name string) (int, error) {
	if v == nil {
		return def, nil
	}

	f := math.Floor(*v)
	if math.IsNaN(f) || f < 0 || f > maxFractionDigitsLimit {
		return 0, NewRuntimeError(name + " value is out of range.")
	}

	return int(f), nil
}

func (e *NumberFormat) Children() []Expression {
	out := []Expression{e.number}

	for _, opt := range []Expression{e.locale, e.currency, e.minFractionDigits, e.maxFractionDigits} {
		if opt != nil {
			out = append(out, opt)
		}
	}

	return out
}

func (e *NumberFormat) OutputDefined() bool { return false }

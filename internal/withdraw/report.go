package withdraw

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"curveWithdraw/internal/model"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2AFFAA"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB500"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555"))
)

// Render produces the stdout report for a run. Every amount appears in both
// human-scaled and raw base-unit form.
func Render(res *model.Result) string {
	symbol := res.Token.Symbol
	if symbol == "" {
		symbol = "token"
	}

	var b strings.Builder

	title := "=== Curve Single-Sided Withdrawal ==="
	switch {
	case res.DryRun:
		b.WriteString(warningStyle.Render("=== Curve Single-Sided Withdrawal (Dry Run) ==="))
	case res.Succeeded:
		b.WriteString(successStyle.Render(title))
	default:
		b.WriteString(errorStyle.Render(title))
	}
	b.WriteString("\n")

	writeLine(&b, "RPC URL", res.RPCURL)
	writeLine(&b, "Pool", res.Pool)
	writeLine(&b, "Asset", fmt.Sprintf("%s (%s)", symbol, res.Token.Address))
	writeLine(&b, "Impersonated address", res.Impersonated)
	writeLine(&b, "Coin index", fmt.Sprintf("%d", res.Plan.CoinIndex))
	b.WriteString("\n")

	if res.DryRun {
		writeLine(&b, "LP balance", amount(res.Before.LP, res.LPDecimals, "LP"))
		writeLine(&b, "Burn amount", amount(res.Plan.BurnAmount, res.LPDecimals, "LP"))
		writeLine(&b, "Share of LP supply", percent(BurnShareBps(res.Plan.BurnAmount, res.LPSupply)))
		b.WriteString("\n")
		writeLine(&b, symbol+" balance", amount(res.Before.Token, res.Token.Decimals, symbol))
		writeLine(&b, "Expected output", amount(res.Plan.ExpectedOut, res.Token.Decimals, symbol))
		writeLine(&b, "Min received (1% slippage)", amount(res.Plan.MinReceived, res.Token.Decimals, symbol))
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("Dry run: no transaction submitted."))
		b.WriteString("\n")
		return b.String()
	}

	writeLine(&b, "LP balance before", amount(res.Before.LP, res.LPDecimals, "LP"))
	writeLine(&b, "LP burned", amount(res.LPBurned, res.LPDecimals, "LP"))
	writeLine(&b, "LP balance after", amount(res.After.LP, res.LPDecimals, "LP"))
	writeLine(&b, "Share of LP supply", percent(BurnShareBps(res.Plan.BurnAmount, res.LPSupply)))
	b.WriteString("\n")

	writeLine(&b, symbol+" balance before", amount(res.Before.Token, res.Token.Decimals, symbol))
	writeLine(&b, symbol+" balance after", amount(res.After.Token, res.Token.Decimals, symbol))
	writeLine(&b, symbol+" received", amount(res.Received, res.Token.Decimals, symbol))
	b.WriteString("\n")

	writeLine(&b, "Expected output", amount(res.Plan.ExpectedOut, res.Token.Decimals, symbol))
	writeLine(&b, "Min received (1% slippage)", amount(res.Plan.MinReceived, res.Token.Decimals, symbol))
	b.WriteString("\n")

	writeLine(&b, "Tx hash", res.TxHash)
	if res.Succeeded {
		b.WriteString(successStyle.Render("Status: SUCCESS"))
	} else {
		b.WriteString(errorStyle.Render("Status: FAILED"))
		if res.RevertReason != "" {
			b.WriteString("\n")
			writeLine(&b, "Revert reason", res.RevertReason)
		}
	}
	b.WriteString("\n")

	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%-28s %s\n", label+":", value)
}

func amount(value *big.Int, decimals uint8, unit string) string {
	if value == nil {
		value = big.NewInt(0)
	}
	return fmt.Sprintf("%s %s (raw: %s)", formatUnits(value, decimals), unit, value.String())
}

func percent(bps *big.Int) string {
	v := bps.Int64()
	return fmt.Sprintf("%d.%02d%%", v/100, v%100)
}

const displayFracDigits = 6

var displayFracScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(displayFracDigits), nil)

// formatUnits renders a base-unit amount as a decimal string with thousands
// separators and six fractional digits, truncated. Display only; arithmetic
// stays in base units.
func formatUnits(value *big.Int, decimals uint8) string {
	sign := ""
	abs := new(big.Int).Abs(value)
	if value.Sign() < 0 {
		sign = "-"
	}

	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	intPart := new(big.Int).Quo(abs, base)
	frac := new(big.Int).Rem(abs, base)

	fracScaled := new(big.Int).Mul(frac, displayFracScale)
	fracScaled.Quo(fracScaled, base)

	return fmt.Sprintf("%s%s.%06d", sign, groupThousands(intPart.String()), fracScaled)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

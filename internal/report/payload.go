package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecentDeliveredLimit is how many delivered sales the payload shows.
const RecentDeliveredLimit = 5

const (
	embedTitle  = "📊 Painel de Vendas"
	embedColor  = 0x2b2d31
	footerLabel = "Última atualização: "
	footerTime  = "02/01/2006, 15:04:05"
)

// Payload is the body sent to the notification channel.
type Payload struct {
	Embeds []Embed `json:"embeds"`
}

// Embed is one rich message block.
type Embed struct {
	Title       string       `json:"title"`
	Color       int          `json:"color"`
	Description string       `json:"description"`
	Fields      []EmbedField `json:"fields"`
	Footer      EmbedFooter  `json:"footer"`
	Timestamp   string       `json:"timestamp"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// Money formats an amount with exactly two fraction digits.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// BuildPayload assembles the summary message. generatedAt is rendered in its
// own location for the footer and in UTC for the machine timestamp.
func BuildPayload(sum Summary, generatedAt time.Time) Payload {
	description := fmt.Sprintf("**Resumo Financeiro**\n"+
		"💰 Total Geral: **%s%s**\n"+
		"✅ Lucro Líquido (Entregues): **%s%s**\n"+
		"⏳ Em Aberto: **%s%s**",
		currency, Money(sum.TotalRevenue),
		currency, Money(sum.NetProfit),
		currency, Money(sum.PendingRevenue))

	embed := Embed{
		Title:       embedTitle,
		Color:       embedColor,
		Description: description,
		Fields: []EmbedField{
			{
				Name:  fmt.Sprintf("⏳ Pendentes (%d)", len(sum.Pending)),
				Value: FormatTable(sum.Pending),
			},
			{
				Name:  fmt.Sprintf("✅ Últimas %d Entregas (%d)", RecentDeliveredLimit, len(sum.Delivered)),
				Value: FormatTable(sum.RecentDelivered(RecentDeliveredLimit)),
			},
		},
		Footer:    EmbedFooter{Text: footerLabel + generatedAt.Format(footerTime)},
		Timestamp: generatedAt.UTC().Format(time.RFC3339),
	}

	return Payload{Embeds: []Embed{embed}}
}

package commands

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"sheet-alert-bot/internal/pricefeed"
	"sheet-alert-bot/internal/registry"
	"sheet-alert-bot/internal/ticker"
	"sheet-alert-bot/lib/helpers"
	"sheet-alert-bot/lib/translation"
)

// mapLimit caps the /mapa listing.
const mapLimit = 50

// Handler answers bot commands from the alert registry and the price
// cache. Replies are MarkdownV2.
type Handler struct {
	Registry *registry.Registry
	Prices   *pricefeed.Cache
}

// Start renders the /start help text.
func (h *Handler) Start() string {
	return translation.Translate("🤖 *Bot de Ativos* pronto\\!\n\n" +
		"/preco `TICKER` — retorna preço da planilha\\.\n" +
		"/alerta `TICKER PREÇO` — cria alerta\\.\n" +
		"/alertas — lista seus alertas\\.\n" +
		"/remover `TICKER PREÇO` — remove alerta\\.\n" +
		"/mapa — exibe os 50 primeiros ativos da planilha\\.")
}

// Price handles /preco TICKER.
func (h *Handler) Price(args []string) string {
	log.Debugf("processing command /preco with arguments: %v", args)

	if len(args) != 1 {
		return translation.Translate("Uso: /preco TICKER")
	}

	symbol := ticker.Normalize(args[0])
	price, ok := h.Prices.Price(symbol)
	if !ok {
		return fmt.Sprintf(
			translation.Translate("❌ Ticker *%s* não encontrado ou sem dado\\."),
			helpers.EscapeMarkdownV2(symbol),
		)
	}

	return fmt.Sprintf("💰 *%s*: R$ %s",
		helpers.EscapeMarkdownV2(symbol),
		helpers.FormatPriceBR(price, true),
	)
}

// SetAlert handles /alerta TICKER PREÇO.
func (h *Handler) SetAlert(chatID int64, args []string) string {
	log.Debugf("processing command /alerta for chat %d with arguments: %v", chatID, args)

	if len(args) != 2 {
		return translation.Translate("Uso: /alerta TICKER PREÇO_ALVO")
	}

	symbol := ticker.Normalize(args[0])
	target, err := parseTarget(args[1])
	if err != nil {
		return translation.Translate("❌ Preço alvo inválido\\.")
	}

	h.Registry.Add(chatID, ticker.Alert{Symbol: symbol, Target: target})

	return fmt.Sprintf(translation.Translate("🔔 Alerta criado: *%s* \\<\\= R$ %s"),
		helpers.EscapeMarkdownV2(symbol),
		helpers.FormatPriceBR(target, true),
	)
}

// ListAlerts handles /alertas.
func (h *Handler) ListAlerts(chatID int64) string {
	alerts := h.Registry.List(chatID)
	if len(alerts) == 0 {
		return translation.Translate("Você não tem alertas ativos\\.")
	}

	var b strings.Builder
	b.WriteString(translation.Translate("📋 *Seus alertas:*"))
	for _, a := range alerts {
		b.WriteString(fmt.Sprintf("\n\\- %s \\<\\= R$ %s",
			helpers.EscapeMarkdownV2(a.Symbol),
			helpers.FormatPriceBR(a.Target, true),
		))
	}
	return b.String()
}

// RemoveAlert handles /remover TICKER PREÇO. Removing an alert that does
// not exist is a no-op and still confirms.
func (h *Handler) RemoveAlert(chatID int64, args []string) string {
	log.Debugf("processing command /remover for chat %d with arguments: %v", chatID, args)

	if len(args) != 2 {
		return translation.Translate("Uso: /remover TICKER PREÇO_ALVO")
	}

	symbol := ticker.Normalize(args[0])
	target, err := parseTarget(args[1])
	if err != nil {
		return translation.Translate("❌ Preço alvo inválido\\.")
	}

	h.Registry.Remove(chatID, ticker.Alert{Symbol: symbol, Target: target})

	return fmt.Sprintf(translation.Translate("🗑️ Alerta removido: *%s* \\<\\= R$ %s"),
		helpers.EscapeMarkdownV2(symbol),
		helpers.FormatPriceBR(target, true),
	)
}

// Map handles /mapa: the first tickers known to the price cache, in
// sheet order.
func (h *Handler) Map() string {
	symbols := h.Prices.Symbols(mapLimit)
	if len(symbols) == 0 {
		return translation.Translate("❌ Nenhum ticker carregado\\.")
	}

	var b strings.Builder
	b.WriteString(translation.Translate("🔍 *Tickers carregados:*"))
	for _, s := range symbols {
		b.WriteString("\n" + helpers.EscapeMarkdownV2(s))
	}
	return b.String()
}

// parseTarget accepts both comma and dot decimal separators.
func parseTarget(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
}

package chat

import "strings"

// responder produces the canned bot reply for a customer message. Keyword
// matching is case-insensitive substring search, first hit wins, in the order
// the rules are declared.
type responder struct {
	rules []responderRule
}

type responderRule struct {
	keywords []string
	reply    string
}

func newResponder() *responder {
	return &responder{rules: []responderRule{
		{
			keywords: []string{"preço", "preco", "valor", "quanto"},
			reply:    "Nossos preços estão no cardápio digital! 🍕 A Pizza Margherita sai por R$ 45,90. Posso te ajudar com algum pedido?",
		},
		{
			keywords: []string{"entrega", "delivery"},
			reply:    "Fazemos entregas em toda a região! 🛵 A taxa de entrega é R$ 5,90 e o tempo médio é de 30-45 minutos.",
		},
		{
			keywords: []string{"horário", "horario", "funcionamento"},
			reply:    "Estamos abertos todos os dias das 18h às 23h30! 🕐",
		},
		{
			keywords: []string{"obrigad", "valeu"},
			reply:    "Por nada! 😊 Estamos sempre à disposição. Bom apetite!",
		},
	}}
}

// Reply returns the canned answer for the message. Unmatched messages fall
// back to the menu prompt.
func (r *responder) Reply(message string) string {
	normalized := strings.ToLower(message)
	for _, rule := range r.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.reply
			}
		}
	}
	return "Olá! 👋 Bem-vindo à Pizzaria Demo! Confira nosso cardápio digital e faça seu pedido. Posso ajudar com preços, entregas ou horários!"
}

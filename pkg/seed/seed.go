package seed

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

// Run populates the demo catalog, a handful of orders in every pipeline state
// and one scripted WhatsApp conversation. It is idempotent: a non-empty
// catalog means the database was already seeded.
func Run(ctx context.Context, db *gorm.DB, logg *logger.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := db.WithContext(ctx).Create(demoProducts()).Error; err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if err := db.WithContext(ctx).Create(demoOrders(time.Now())).Error; err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}
	if err := db.WithContext(ctx).Create(demoConversation(time.Now())).Error; err != nil {
		return fmt.Errorf("seed conversation: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "demo data seeded")
	}
	return nil
}

func strPtr(s string) *string { return &s }

func demoProducts() []*models.Product {
	return []*models.Product{
		{
			Name:        "Pizza Margherita",
			Description: "Molho de tomate caseiro, mussarela de búfala, manjericão fresco e azeite extravirgem",
			PriceCents:  4590,
			Category:    "Pizzas",
			Image:       strPtr("/pizzaria-margarita.jpg"),
			Popular:     true,
			Available:   true,
		},
		{
			Name:        "Pizza Pepperoni",
			Description: "Molho de tomate, mussarela, pepperoni italiano e orégano",
			PriceCents:  5290,
			Category:    "Pizzas",
			Popular:     true,
			Available:   true,
		},
		{
			Name:        "Pizza Portuguesa",
			Description: "Molho de tomate, mussarela, presunto, ovo, cebola, azeitona e orégano",
			PriceCents:  4890,
			Category:    "Pizzas",
			Available:   true,
		},
		{
			Name:        "Hambúrguer Artesanal",
			Description: "Blend 180g, queijo cheddar, alface, tomate, cebola roxa e molho especial",
			PriceCents:  3290,
			Category:    "Hambúrgueres",
			Popular:     true,
			Available:   true,
		},
		{
			Name:        "Cheeseburger Duplo",
			Description: "Dois blends 150g, queijo cheddar duplo, picles, cebola e molho burger",
			PriceCents:  4290,
			Category:    "Hambúrgueres",
			Available:   true,
		},
		{
			Name:        "Batata Frita Grande",
			Description: "Batatas cortadas na hora, temperadas com sal e ervas especiais",
			PriceCents:  1890,
			Category:    "Acompanhamentos",
			Available:   true,
		},
		{
			Name:        "Onion Rings",
			Description: "Anéis de cebola empanados e fritos, acompanha molho barbecue",
			PriceCents:  1690,
			Category:    "Acompanhamentos",
			Available:   true,
		},
		{
			Name:        "Coca-Cola 2L",
			Description: "Refrigerante de cola gelado, perfeito para acompanhar sua refeição",
			PriceCents:  850,
			Category:    "Bebidas",
			Available:   true,
		},
		{
			Name:        "Suco Natural de Laranja",
			Description: "Suco de laranja 100% natural, sem conservantes ou açúcar adicionado",
			PriceCents:  790,
			Category:    "Bebidas",
			Available:   true,
		},
		{
			Name:        "Brownie com Sorvete",
			Description: "Brownie de chocolate quente com uma bola de sorvete de baunilha",
			PriceCents:  1590,
			Category:    "Sobremesas",
			Popular:     true,
			Available:   false,
		},
	}
}

func demoOrders(now time.Time) []*models.Order {
	address := func(street string) *types.Address {
		return &types.Address{
			Street:       street,
			Number:       "123",
			Neighborhood: "Vila Madalena",
			City:         "São Paulo",
			State:        "SP",
			ZipCode:      "05433-000",
		}
	}

	return []*models.Order{
		{
			Reference:      "ORD001234",
			CustomerName:   "João Silva",
			CustomerEmail:  "joao.silva@email.com",
			CustomerPhone:  "(11) 99999-9999",
			DeliveryOption: enums.DeliveryOptionDelivery,
			Address:        address("Rua das Flores"),
			PaymentMethod:  enums.PaymentMethodPix,
			SubtotalCents:  5440,
			DeliveryCents:  590,
			TotalCents:     6030,
			Status:         enums.OrderStatusPending,
			EstimatedTime:  "45 min",
			PlacedAt:       now.Add(-10 * time.Minute),
			Items: []models.OrderItem{
				{ProductID: "1", Name: "Pizza Margherita", UnitPriceCents: 4590, Quantity: 1, LineTotalCents: 4590},
				{ProductID: "8", Name: "Coca-Cola 2L", UnitPriceCents: 850, Quantity: 1, LineTotalCents: 850},
			},
		},
		{
			Reference:      "ORD001235",
			CustomerName:   "Maria Santos",
			CustomerEmail:  "maria.santos@email.com",
			CustomerPhone:  "(11) 88888-8888",
			DeliveryOption: enums.DeliveryOptionDelivery,
			Address:        address("Av. Paulista"),
			PaymentMethod:  enums.PaymentMethodCredit,
			SubtotalCents:  8470,
			DeliveryCents:  590,
			TotalCents:     9060,
			Status:         enums.OrderStatusPreparing,
			EstimatedTime:  "25 min",
			PlacedAt:       now.Add(-28 * time.Minute),
			Items: []models.OrderItem{
				{ProductID: "4", Name: "Hambúrguer Artesanal", UnitPriceCents: 3290, Quantity: 2, LineTotalCents: 6580},
				{ProductID: "6", Name: "Batata Frita Grande", UnitPriceCents: 1890, Quantity: 1, LineTotalCents: 1890},
			},
		},
		{
			Reference:      "ORD001236",
			CustomerName:   "Pedro Costa",
			CustomerPhone:  "(11) 77777-7777",
			CustomerEmail:  "pedro.costa@email.com",
			DeliveryOption: enums.DeliveryOptionPickup,
			PaymentMethod:  enums.PaymentMethodCash,
			SubtotalCents:  4140,
			DeliveryCents:  0,
			TotalCents:     4140,
			Status:         enums.OrderStatusReady,
			EstimatedTime:  "Pronto",
			PlacedAt:       now.Add(-48 * time.Minute),
			Items: []models.OrderItem{
				{ProductID: "2", Name: "Pizza Pepperoni", UnitPriceCents: 5290, Quantity: 1, LineTotalCents: 5290},
			},
		},
		{
			Reference:      "ORD001237",
			CustomerName:   "Ana Oliveira",
			CustomerEmail:  "ana.oliveira@email.com",
			CustomerPhone:  "(11) 66666-6666",
			DeliveryOption: enums.DeliveryOptionDelivery,
			Address:        address("Rua da Consolação"),
			PaymentMethod:  enums.PaymentMethodDebit,
			SubtotalCents:  4540,
			DeliveryCents:  590,
			TotalCents:     5130,
			Status:         enums.OrderStatusDelivered,
			EstimatedTime:  "Entregue",
			PlacedAt:       now.Add(-2 * time.Hour),
			Items: []models.OrderItem{
				{ProductID: "5", Name: "Cheeseburger Duplo", UnitPriceCents: 4290, Quantity: 1, LineTotalCents: 4290},
				{ProductID: "9", Name: "Suco Natural de Laranja", UnitPriceCents: 790, Quantity: 1, LineTotalCents: 790},
			},
		},
	}
}

func demoConversation(now time.Time) *models.Conversation {
	at := func(minutesAgo int) time.Time { return now.Add(-time.Duration(minutesAgo) * time.Minute) }
	orderValue := 6030

	return &models.Conversation{
		CustomerName:    "João Silva",
		CustomerPhone:   "(11) 99999-9999",
		Status:          enums.ConversationStatusCompleted,
		Converted:       true,
		OrderValueCents: &orderValue,
		LastMessageAt:   at(9),
		Messages: []models.ChatMessage{
			{Sender: enums.ChatSenderBot, Content: "Olá! 👋 Bem-vindo ao nosso restaurante! Sou a IA que vai te ajudar hoje. Como posso ajudá-lo?", SentAt: at(14)},
			{Sender: enums.ChatSenderCustomer, Content: "Oi! Quero ver o cardápio de vocês", SentAt: at(13)},
			{Sender: enums.ChatSenderBot, Content: "Perfeito! 📋 Aqui estão nossas categorias:\n\n🍕 Pizzas - a partir de R$ 45,90\n🍔 Hambúrgueres - a partir de R$ 32,90\n🥤 Bebidas - a partir de R$ 7,90\n\nQual categoria te interessa mais?", SentAt: at(13)},
			{Sender: enums.ChatSenderCustomer, Content: "Quero uma pizza margherita grande", SentAt: at(12)},
			{Sender: enums.ChatSenderBot, Content: "Excelente escolha! 🍕 Pizza Margherita por R$ 45,90\n\n📝 Seu pedido:\n• 1x Pizza Margherita - R$ 45,90\n\nGostaria de adicionar alguma bebida ou sobremesa?", SentAt: at(11)},
			{Sender: enums.ChatSenderCustomer, Content: "Uma Coca-Cola 2L, por favor", SentAt: at(10)},
			{Sender: enums.ChatSenderBot, Content: "Pedido confirmado! ✅ Total: R$ 60,30 com entrega. Tempo estimado: 45 min.", SentAt: at(9)},
		},
	}
}

package analytics

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

const (
	dailyWindowDays   = 7
	topProductsLimit  = 5
	monthlyWindowSize = 6
)

// Service computes the dashboard analytics tab.
type Service interface {
	Summary(ctx context.Context) (*SummaryDTO, error)
	DailyRevenue(ctx context.Context) ([]DailyPointDTO, error)
	HourlyOrders(ctx context.Context) ([]HourlyPointDTO, error)
	TopProducts(ctx context.Context) ([]TopProductDTO, error)
	MonthlyRevenue(ctx context.Context) ([]MonthlyPointDTO, error)
	CustomerSegments(ctx context.Context) ([]SegmentDTO, error)
}

// SummaryDTO carries the headline cards.
type SummaryDTO struct {
	RevenueToday   types.Cents `json:"revenueToday"`
	RevenueWeek    types.Cents `json:"revenueWeek"`
	OrdersToday    int64       `json:"ordersToday"`
	OrdersWeek     int64       `json:"ordersWeek"`
	AverageTicket  types.Cents `json:"averageTicket"`
	ConversionRate float64     `json:"conversionRate"`
}

// DailyPointDTO is one bar of the 7-day revenue chart.
type DailyPointDTO struct {
	Date    string      `json:"date"`
	Revenue types.Cents `json:"revenue"`
	Orders  int64       `json:"orders"`
}

// HourlyPointDTO is one bucket of the order-per-hour chart.
type HourlyPointDTO struct {
	Hour   int   `json:"hour"`
	Orders int64 `json:"orders"`
}

// TopProductDTO is one row of the best-sellers ranking.
type TopProductDTO struct {
	Name     string      `json:"name"`
	Quantity int64       `json:"quantity"`
	Revenue  types.Cents `json:"revenue"`
}

// MonthlyPointDTO is one bar of the six-month trend chart. The demo has no
// months of history, so this series is fabricated around the live weekly
// revenue to keep the chart populated.
type MonthlyPointDTO struct {
	Month   string      `json:"month"`
	Revenue types.Cents `json:"revenue"`
}

// SegmentDTO is one slice of the customer mix donut. Static demo data.
type SegmentDTO struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

type service struct {
	repo   *Repository
	logger *logger.Logger
	now    func() time.Time
}

// NewService wires the analytics service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("repository required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &service{repo: repo, logger: logg, now: time.Now}, nil
}

func (s *service) Summary(ctx context.Context) (*SummaryDTO, error) {
	now := s.now()
	weekStart := startOfDay(now).AddDate(0, 0, -(dailyWindowDays - 1))

	orders, err := s.repo.OrdersSince(ctx, weekStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders for summary")
	}

	summary := &SummaryDTO{}
	dayStart := startOfDay(now)
	var revenueWeek, revenueToday int64
	for _, order := range orders {
		revenueWeek += int64(order.TotalCents)
		summary.OrdersWeek++
		if !order.PlacedAt.Before(dayStart) {
			revenueToday += int64(order.TotalCents)
			summary.OrdersToday++
		}
	}
	summary.RevenueToday = types.Cents(revenueToday)
	summary.RevenueWeek = types.Cents(revenueWeek)
	if summary.OrdersWeek > 0 {
		summary.AverageTicket = types.Cents(revenueWeek / summary.OrdersWeek)
	}

	total, converted, err := s.repo.ConversationStats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load conversation stats")
	}
	if total > 0 {
		summary.ConversionRate = float64(converted) / float64(total)
	}
	return summary, nil
}

func (s *service) DailyRevenue(ctx context.Context) ([]DailyPointDTO, error) {
	now := s.now()
	windowStart := startOfDay(now).AddDate(0, 0, -(dailyWindowDays - 1))

	orders, err := s.repo.OrdersSince(ctx, windowStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders for daily chart")
	}

	points := make([]DailyPointDTO, dailyWindowDays)
	index := map[string]int{}
	for i := range points {
		day := windowStart.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		points[i] = DailyPointDTO{Date: key}
		index[key] = i
	}
	for _, order := range orders {
		key := order.PlacedAt.Local().Format("2006-01-02")
		if i, ok := index[key]; ok {
			points[i].Revenue += types.Cents(order.TotalCents)
			points[i].Orders++
		}
	}
	return points, nil
}

func (s *service) HourlyOrders(ctx context.Context) ([]HourlyPointDTO, error) {
	now := s.now()
	windowStart := startOfDay(now).AddDate(0, 0, -(dailyWindowDays - 1))

	orders, err := s.repo.OrdersSince(ctx, windowStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders for hourly chart")
	}

	points := make([]HourlyPointDTO, 24)
	for i := range points {
		points[i].Hour = i
	}
	for _, order := range orders {
		points[order.PlacedAt.Local().Hour()].Orders++
	}
	return points, nil
}

func (s *service) TopProducts(ctx context.Context) ([]TopProductDTO, error) {
	rows, err := s.repo.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rank products")
	}

	dtos := make([]TopProductDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, TopProductDTO{
			Name:     row.Name,
			Quantity: row.Quantity,
			Revenue:  types.Cents(row.RevenueCents),
		})
	}
	return dtos, nil
}

func (s *service) MonthlyRevenue(ctx context.Context) ([]MonthlyPointDTO, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	// Project a plausible half-year curve from the live weekly number so a
	// freshly seeded demo still draws a trend line.
	weights := []float64{0.65, 0.72, 0.81, 0.88, 0.94, 1.0}
	base := int64(summary.RevenueWeek) * 4
	if base == 0 {
		base = 1_250_000
	}

	now := s.now()
	points := make([]MonthlyPointDTO, 0, monthlyWindowSize)
	for i := 0; i < monthlyWindowSize; i++ {
		month := now.AddDate(0, i-(monthlyWindowSize-1), 0)
		points = append(points, MonthlyPointDTO{
			Month:   month.Format("Jan"),
			Revenue: types.Cents(float64(base) * weights[i]),
		})
	}
	return points, nil
}

func (s *service) CustomerSegments(ctx context.Context) ([]SegmentDTO, error) {
	// Fixed demo mix; there is no customer identity to segment on.
	return []SegmentDTO{
		{Label: "Novos clientes", Percent: 32},
		{Label: "Recorrentes", Percent: 48},
		{Label: "VIP", Percent: 20},
	}, nil
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

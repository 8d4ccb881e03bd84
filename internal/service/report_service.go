package service

import (
	"context"
	"time"

	"go-bakery-pos/internal/cache"
	"go-bakery-pos/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	topProductsLimit  = 10
	topCustomersLimit = 20
)

// ReportCache fetches cached JSON projections. *cache.ReportCache implements it.
type ReportCache interface {
	FetchJSON(ctx context.Context, dest interface{}, loader func(context.Context) (interface{}, error), parts ...string) error
}

// Dashboard composes every report for one period.
type Dashboard struct {
	Period         Period                          `json:"period"`
	Overview       *repository.Overview            `json:"overview"`
	Sales          *repository.SalesSummary        `json:"sales"`
	TopProducts    []repository.ProductSales       `json:"top_products"`
	PaymentMethods []repository.PaymentMethodTotal `json:"payment_methods"`
	LowStock       []repository.LowStockRow        `json:"low_stock"`
	Commissions    []repository.StatusTotal        `json:"commissions"`
	TopCustomers   []repository.CustomerPurchases  `json:"top_customers"`
}

// Period is the half-open interval [Start, End).
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) key() []string {
	return []string{p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339)}
}

type ReportService interface {
	SalesSummary(ctx context.Context, p Period) (*repository.SalesSummary, error)
	TopProducts(ctx context.Context, p Period) ([]repository.ProductSales, error)
	PaymentMethods(ctx context.Context, p Period) ([]repository.PaymentMethodTotal, error)
	LowStock(ctx context.Context) ([]repository.LowStockRow, error)
	CommissionsByStatus(ctx context.Context) ([]repository.StatusTotal, error)
	TopCustomers(ctx context.Context) ([]repository.CustomerPurchases, error)
	Overview(ctx context.Context) (*repository.Overview, error)
	Dashboard(ctx context.Context, p Period) (*Dashboard, error)
}

type reportService struct {
	repo  repository.ReportRepository
	cache ReportCache
}

// NewReportService builds the projection service. A nil rc disables caching.
func NewReportService(repo repository.ReportRepository, rc ReportCache) ReportService {
	if rc == nil {
		rc = cache.NewReportCache(nil, 0, nil)
	}
	return &reportService{repo: repo, cache: rc}
}

func (s *reportService) SalesSummary(ctx context.Context, p Period) (*repository.SalesSummary, error) {
	if err := checkPeriod(p.Start, p.End); err != nil {
		return nil, err
	}
	var out repository.SalesSummary
	err := s.cache.FetchJSON(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.SalesSummary(ctx, p.Start, p.End)
	}, append([]string{"vendas"}, p.key()...)...)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *reportService) TopProducts(ctx context.Context, p Period) ([]repository.ProductSales, error) {
	if err := checkPeriod(p.Start, p.End); err != nil {
		return nil, err
	}
	var out []repository.ProductSales
	err := s.cache.FetchJSON(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.TopProducts(ctx, p.Start, p.End, topProductsLimit)
	}, append([]string{"produtos-mais-vendidos"}, p.key()...)...)
	return out, err
}

func (s *reportService) PaymentMethods(ctx context.Context, p Period) ([]repository.PaymentMethodTotal, error) {
	if err := checkPeriod(p.Start, p.End); err != nil {
		return nil, err
	}
	var out []repository.PaymentMethodTotal
	err := s.cache.FetchJSON(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.SalesByPaymentMethod(ctx, p.Start, p.End)
	}, append([]string{"formas-pagamento"}, p.key()...)...)
	return out, err
}

func (s *reportService) LowStock(ctx context.Context) ([]repository.LowStockRow, error) {
	var out []repository.LowStockRow
	err := s.cache.FetchJSON(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.LowStock(ctx)
	}, "estoque-baixo")
	return out, err
}

func (s *reportService) CommissionsByStatus(ctx context.Context) ([]repository.StatusTotal, error) {
	var out []repository.StatusTotal
	err := s.cache.FetchJSON(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.CommissionsByStatus(ctx)
	}, "encomendas-status")
	return out, err
}

func (s *reportService) TopCustomers(ctx context.Context) ([]repository.CustomerPurchases, error) {
	var out []repository.CustomerPurchases
	err := s.cache.FetchJSON(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.TopCustomers(ctx, topCustomersLimit)
	}, "clientes-ativos")
	return out, err
}

func (s *reportService) Overview(ctx context.Context) (*repository.Overview, error) {
	var out repository.Overview
	err := s.cache.FetchJSON(ctx, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.Overview(ctx)
	}, "overview")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard runs every report concurrently; the first failure cancels the rest.
func (s *reportService) Dashboard(ctx context.Context, p Period) (*Dashboard, error) {
	if err := checkPeriod(p.Start, p.End); err != nil {
		return nil, err
	}
	d := &Dashboard{Period: p}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Overview, err = s.Overview(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Sales, err = s.SalesSummary(gctx, p)
		return err
	})
	g.Go(func() (err error) {
		d.TopProducts, err = s.TopProducts(gctx, p)
		return err
	})
	g.Go(func() (err error) {
		d.PaymentMethods, err = s.PaymentMethods(gctx, p)
		return err
	})
	g.Go(func() (err error) {
		d.LowStock, err = s.LowStock(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Commissions, err = s.CommissionsByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.TopCustomers, err = s.TopCustomers(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

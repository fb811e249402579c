package catalog

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"helpdesk/app/config"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/samber/oops"
)

// Service holds the mock datasets. They are loaded once at startup and
// never mutated, so lookups need no locking.
type Service struct {
	cfg *config.Config

	products []Product
	orders   map[string]Order
	policy   RefundPolicy
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	s := &Service{
		cfg: cfg,
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) load() error {
	var productsByID map[string]Product
	if err := readJSON(s.cfg.Data.Products, &productsByID); err != nil {
		return oops.Errorf("failed to load products: %w", err)
	}

	ids := make([]string, 0, len(productsByID))
	for id := range productsByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s.products = make([]Product, 0, len(productsByID))
	for _, id := range ids {
		p := productsByID[id]
		p.ID = id
		s.products = append(s.products, p)
	}

	var ordersByID map[string]Order
	if err := readJSON(s.cfg.Data.Orders, &ordersByID); err != nil {
		return oops.Errorf("failed to load orders: %w", err)
	}

	s.orders = make(map[string]Order, len(ordersByID))
	for id, o := range ordersByID {
		o.ID = id
		s.orders[id] = o
	}

	if err := readJSON(s.cfg.Data.ReturnPolicy, &s.policy); err != nil {
		return oops.Errorf("failed to load return policy: %w", err)
	}

	return nil
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return oops.Errorf("failed to read %s: %w", path, err)
	}

	if err = json.Unmarshal(data, target); err != nil {
		return oops.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}

// Products returns the catalog in stable id order.
func (s *Service) Products() []Product {
	return s.products
}

// ProductNames returns catalog names for decision prompts.
func (s *Service) ProductNames() []string {
	return pie.Map(s.products, func(p Product) string {
		return p.Name
	})
}

// ProductByName matches a product name case-insensitively.
func (s *Service) ProductByName(name string) (Product, bool) {
	idx := pie.FindFirstUsing(s.products, func(p Product) bool {
		return strings.EqualFold(p.Name, name)
	})
	if idx < 0 {
		return Product{}, false
	}

	return s.products[idx], true
}

// ProductByFirstWord matches a product whose name's first word occurs in the
// lowercased message.
func (s *Service) ProductByFirstWord(text string) (Product, bool) {
	lower := strings.ToLower(text)

	idx := pie.FindFirstUsing(s.products, func(p Product) bool {
		fields := strings.Fields(strings.ToLower(p.Name))
		return len(fields) > 0 && strings.Contains(lower, fields[0])
	})
	if idx < 0 {
		return Product{}, false
	}

	return s.products[idx], true
}

func (s *Service) OrderByID(id string) (Order, bool) {
	order, ok := s.orders[id]
	return order, ok
}

func (s *Service) Policy() RefundPolicy {
	return s.policy
}

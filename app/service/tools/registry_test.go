package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"helpdesk/app/config"
	"helpdesk/app/service/catalog"
	"helpdesk/app/service/memory"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *memory.Service) {
	t.Helper()

	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "products.json"), `{
		"p1": {"name": "Aurora Headphones", "price": "$120", "stock": "in stock"},
		"p2": {"name": "Breeze Smartwatch", "price": "$95", "stock": "in stock"}
	}`)
	writeFile(t, filepath.Join(dir, "orders.json"), `{
		"12345": {"status": "shipped", "delivery_date": "2026-08-28"}
	}`)
	writeFile(t, filepath.Join(dir, "return_policy.json"), `{
		"policy": "30 day returns."
	}`)

	cfg := &config.Config{}
	cfg.Data.Products = filepath.Join(dir, "products.json")
	cfg.Data.Orders = filepath.Join(dir, "orders.json")
	cfg.Data.ReturnPolicy = filepath.Join(dir, "return_policy.json")
	cfg.Data.Dir = dir

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, catalog.New)
	do.Provide(di, memory.New)

	registry, err := New(di)
	require.NoError(t, err)

	return registry, do.MustInvoke[*memory.Service](di)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func callTool(t *testing.T, r *Registry, name, input string) map[string]any {
	t.Helper()

	out, err := r.Call(context.Background(), name, input)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	return payload
}

func TestNames(t *testing.T) {
	registry, _ := newTestRegistry(t)

	assert.Equal(t, []string{
		ToolSummary,
		ToolOrderLookup,
		ToolProductInfo,
		ToolProductList,
		ToolRefundPolicy,
	}, registry.Names())
}

func TestProductListTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	payload := callTool(t, registry, ToolProductList, "")
	assert.Equal(t, "product_list", payload["type"])

	products, ok := payload["products"].([]any)
	require.True(t, ok)
	assert.Len(t, products, 2)
}

func TestProductInfoTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	payload := callTool(t, registry, ToolProductInfo, "Aurora Headphones")
	assert.Equal(t, "product_info", payload["type"])
	assert.Equal(t, "Aurora Headphones", payload["name"])
	assert.Equal(t, "$120", payload["price"])

	payload = callTool(t, registry, ToolProductInfo, "Nonexistent Gadget")
	assert.Equal(t, "info", payload["type"])
	assert.Equal(t, "Product not found.", payload["message"])
}

func TestOrderLookupTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	payload := callTool(t, registry, ToolOrderLookup, "12345")
	assert.Equal(t, "order_info", payload["type"])
	assert.Equal(t, "shipped", payload["status"])

	payload = callTool(t, registry, ToolOrderLookup, "99999")
	assert.Equal(t, "order_info", payload["type"])
	assert.Equal(t, "Order not found", payload["error"])

	// The not-found payload carries only type and error.
	assert.NotContains(t, payload, "status")
	assert.NotContains(t, payload, "delivery_date")
}

func TestRefundPolicyTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	payload := callTool(t, registry, ToolRefundPolicy, "")
	assert.Equal(t, "refund_policy", payload["type"])
	assert.Equal(t, "30 day returns.", payload["policy"])
}

func TestSummaryTool(t *testing.T) {
	registry, memorySvc := newTestRegistry(t)

	payload := callTool(t, registry, ToolSummary, "c1")
	assert.Equal(t, "summary", payload["type"])
	assert.Empty(t, payload["products"])

	require.NoError(t, memorySvc.RecordProduct("c1", "Breeze Smartwatch"))

	payload = callTool(t, registry, ToolSummary, "c1")
	products, ok := payload["products"].([]any)
	require.True(t, ok)
	require.Len(t, products, 1)

	first, ok := products[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Breeze Smartwatch", first["name"])
}

func TestUnknownTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, err := registry.Call(context.Background(), "warehouse_lookup", "")
	assert.Error(t, err)
}

func TestExtraTools(t *testing.T) {
	registry, _ := newTestRegistry(t)

	assert.Empty(t, registry.ExtraTools())
	assert.False(t, registry.HasExtra("inventory_stock"))

	bridged := &supportTool{
		name:        "inventory_stock",
		description: "Check warehouse stock for a SKU.",
		call: func(_ context.Context, input string) (string, error) {
			return "in stock: " + input, nil
		},
	}
	registry.tools[bridged.Name()] = bridged
	registry.extras = append(registry.extras, bridged)

	require.Len(t, registry.ExtraTools(), 1)
	assert.True(t, registry.HasExtra("inventory_stock"))
	assert.False(t, registry.HasExtra(ToolOrderLookup))

	out, err := registry.Call(context.Background(), "inventory_stock", "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, "in stock: SKU-1", out)
}

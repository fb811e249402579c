package tools

import (
	"context"
	"encoding/json"
	"sort"

	"helpdesk/app/config"
	"helpdesk/app/service/catalog"
	"helpdesk/app/service/memory"

	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/tmc/langchaingo/tools"
)

const (
	ToolProductList  = "product_list"
	ToolProductInfo  = "product_info"
	ToolOrderLookup  = "order_lookup"
	ToolRefundPolicy = "refund_policy"
	ToolSummary      = "conversation_summary"
)

var _ do.Shutdownable = (*Registry)(nil)

// Registry holds the built-in lookup tools plus any tools bridged from
// configured MCP servers, all behind the langchaingo tool interface.
type Registry struct {
	cfg        *config.Config
	catalogSvc *catalog.Service
	memorySvc  *memory.Service

	tools      map[string]tools.Tool
	extras     []tools.Tool
	mcpClients []*mcpClientWrapper
}

type supportTool struct {
	name        string
	description string
	call        func(ctx context.Context, input string) (string, error)
}

func (t *supportTool) Name() string {
	return t.name
}

func (t *supportTool) Description() string {
	return t.description
}

func (t *supportTool) Call(ctx context.Context, input string) (string, error) {
	return t.call(ctx, input)
}

func New(di *do.Injector) (*Registry, error) {
	r := &Registry{
		cfg:        do.MustInvoke[*config.Config](di),
		catalogSvc: do.MustInvoke[*catalog.Service](di),
		memorySvc:  do.MustInvoke[*memory.Service](di),
		tools:      map[string]tools.Tool{},
	}

	for _, tool := range r.createLookupTools() {
		r.tools[tool.Name()] = tool
	}

	if err := r.initializeMCPClients(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) createLookupTools() []tools.Tool {
	return []tools.Tool{
		&supportTool{
			name:        ToolProductList,
			description: "List all products in the catalog with price and stock. Input is ignored.",
			call: func(_ context.Context, _ string) (string, error) {
				return marshal(productListPayload{
					Type:     "product_list",
					Products: r.catalogSvc.Products(),
				})
			},
		},
		&supportTool{
			name:        ToolProductInfo,
			description: "Look up one product by its exact name. Input is the product name.",
			call: func(_ context.Context, input string) (string, error) {
				product, ok := r.catalogSvc.ProductByName(input)
				if !ok {
					return marshal(InfoMessage("Product not found."))
				}

				return marshal(productInfoPayload{
					Type:    "product_info",
					Product: product,
				})
			},
		},
		&supportTool{
			name:        ToolOrderLookup,
			description: "Look up an order by its five-digit id. Input is the order id.",
			call: func(_ context.Context, input string) (string, error) {
				order, ok := r.catalogSvc.OrderByID(input)
				if !ok {
					return marshal(orderInfoPayload{
						Type:  "order_info",
						Error: "Order not found",
					})
				}

				return marshal(orderInfoPayload{
					Type:  "order_info",
					Order: order,
				})
			},
		},
		&supportTool{
			name:        ToolRefundPolicy,
			description: "Return the store refund and return policy. Input is ignored.",
			call: func(_ context.Context, _ string) (string, error) {
				return marshal(refundPolicyPayload{
					Type:   "refund_policy",
					Policy: r.catalogSvc.Policy().Policy,
				})
			},
		},
		&supportTool{
			name:        ToolSummary,
			description: "Summarize the products discussed so far. Input is the conversation id.",
			call: func(_ context.Context, input string) (string, error) {
				names, err := r.memorySvc.ProductsDiscussed(input)
				if err != nil {
					return "", err
				}

				products := make([]catalog.Product, 0, len(names))
				for _, name := range names {
					if product, ok := r.catalogSvc.ProductByName(name); ok {
						products = append(products, product)
					}
				}

				return marshal(summaryPayload{
					Type:     "summary",
					Products: products,
				})
			},
		},
	}
}

func marshal(payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", oops.Errorf("failed to marshal tool payload: %w", err)
	}

	return string(data), nil
}

func (r *Registry) Get(name string) (tools.Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Call dispatches to a registered tool by name.
func (r *Registry) Call(ctx context.Context, name, input string) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", oops.Errorf("unknown tool: %s", name)
	}

	return tool.Call(ctx, input)
}

// ExtraTools lists the tools bridged from MCP servers, in registration
// order. The decision agent offers these to the model for messages none of
// the built-in intents cover.
func (r *Registry) ExtraTools() []tools.Tool {
	return r.extras
}

// HasExtra reports whether name refers to a bridged tool. Only vetted names
// may be dispatched from model output.
func (r *Registry) HasExtra(name string) bool {
	for _, tool := range r.extras {
		if tool.Name() == name {
			return true
		}
	}

	return false
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (r *Registry) Shutdown() error {
	for _, wrapper := range r.mcpClients {
		_ = wrapper.client.Close()
	}

	return nil
}

package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// submitHandler is the generic handler for transaction-submitting methods:
// the request params decode straight into the registered transaction type.
type submitHandler struct {
	name   string
	txType market.Type
	admin  bool
}

func (h *submitHandler) Name() string        { return h.name }
func (h *submitHandler) RequiresAdmin() bool { return h.admin }

func (h *submitHandler) Handle(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error) {
	t, ok := market.NewTx(h.txType)
	if !ok {
		return nil, fmt.Errorf("transaction type not registered: %s", h.txType)
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	if err := json.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("decode %s params: %w", h.txType, err)
	}

	res := services.Engine.Submit(ctx, t)
	out := map[string]interface{}{
		"engine_result":      res.Code.String(),
		"engine_result_code": int(res.Code),
		"applied":            res.Code.OK(),
	}
	if res.Err != nil {
		out["engine_result_message"] = res.Err.Error()
	}
	if len(res.Events) > 0 {
		out["events"] = res.Events
	}
	return out, nil
}

// queryHandler wraps a read-only method.
type queryHandler struct {
	name  string
	admin bool
	fn    func(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error)
}

func (h *queryHandler) Name() string        { return h.name }
func (h *queryHandler) RequiresAdmin() bool { return h.admin }

func (h *queryHandler) Handle(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error) {
	return h.fn(ctx, params, services)
}

func paramUint(params map[string]interface{}, key string) (uint64, bool) {
	switch v := params[key].(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < 0 {
			return 0, false
		}
		return uint64(n), true
	case string:
		var n uint64
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func paramString(params map[string]interface{}, key string) string {
	s, _ := params[key].(string)
	return s
}

func getListing(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error) {
	id, ok := paramUint(params, "listing_id")
	if !ok {
		return nil, fmt.Errorf("missing or invalid listing_id")
	}
	listing, err := services.Engine.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %d not found", id)
	}
	return map[string]interface{}{"listing": listing}, nil
}

func getListings(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error) {
	after, _ := paramUint(params, "after")
	limit, ok := paramUint(params, "limit")
	if !ok || limit > 1000 {
		limit = 200
	}
	listings, err := services.Engine.Listings(ctx, after, int(limit))
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{"listings": listings}
	if len(listings) == int(limit) && limit > 0 {
		out["marker"] = listings[len(listings)-1].ID
	}
	return out, nil
}

func getOffers(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error) {
	id, ok := paramUint(params, "listing_id")
	if !ok {
		return nil, fmt.Errorf("missing or invalid listing_id")
	}
	offers, err := services.Engine.OffersForListing(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"listing_id": id, "offers": offers}, nil
}

func getFeeInfo(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error) {
	info, err := services.Engine.FeeInfo(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"recipient": info.Recipient, "bps": info.Bps}, nil
}

func getMetadataURI(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error) {
	uri, err := services.Engine.MetadataURI(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"uri": uri}, nil
}

func validateLocation(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error) {
	code := paramString(params, "location_code")
	return map[string]interface{}{
		"location_code": code,
		"valid":         market.ValidLocationCode(code),
	}, nil
}

func serverInfo(ctx context.Context, params map[string]interface{}, services *Services) (interface{}, error) {
	types := market.RegisteredTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return map[string]interface{}{
		"transaction_types": names,
		"operator":          services.Engine.Config().Operator,
	}, nil
}

// RegisterMarketMethods installs the full method set into the registry.
func RegisterMarketMethods(r *Registry) {
	r.MustRegister(&submitHandler{name: "market_create_listing", txType: market.TypeListingCreate})
	r.MustRegister(&submitHandler{name: "market_update_listing", txType: market.TypeListingUpdate})
	r.MustRegister(&submitHandler{name: "market_cancel_listing", txType: market.TypeListingCancel})
	r.MustRegister(&submitHandler{name: "market_submit_offer", txType: market.TypeOfferSubmit})
	r.MustRegister(&submitHandler{name: "market_buy", txType: market.TypeBuy})
	r.MustRegister(&submitHandler{name: "market_accept_offer", txType: market.TypeOfferAccept})
	r.MustRegister(&submitHandler{name: "market_set_platform_fee", txType: market.TypeSetPlatformFee, admin: true})
	r.MustRegister(&submitHandler{name: "market_set_metadata_uri", txType: market.TypeSetMetadataURI, admin: true})

	r.MustRegister(&queryHandler{name: "market_listing", fn: getListing})
	r.MustRegister(&queryHandler{name: "market_listings", fn: getListings})
	r.MustRegister(&queryHandler{name: "market_offers", fn: getOffers})
	r.MustRegister(&queryHandler{name: "market_fee_info", fn: getFeeInfo})
	r.MustRegister(&queryHandler{name: "market_metadata_uri", fn: getMetadataURI})
	r.MustRegister(&queryHandler{name: "market_validate_location", fn: validateLocation})
	r.MustRegister(&queryHandler{name: "server_info", fn: serverInfo})
}

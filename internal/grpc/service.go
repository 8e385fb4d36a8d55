package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// SubmitRequest carries one transaction: its type name and the JSON payload
// of the concrete transaction struct.
type SubmitRequest struct {
	TxType  string          `json:"tx_type"`
	Payload json.RawMessage `json:"payload"`
}

// SubmitResponse reports the engine outcome.
type SubmitResponse struct {
	EngineResult     string            `json:"engine_result"`
	EngineResultCode int32             `json:"engine_result_code"`
	Applied          bool              `json:"applied"`
	Events           []market.Envelope `json:"events,omitempty"`
}

// GetListingRequest asks for one listing by id.
type GetListingRequest struct {
	ListingID uint64 `json:"listing_id"`
}

// GetListingResponse returns the listing, Found false when absent.
type GetListingResponse struct {
	Found   bool            `json:"found"`
	Listing *market.Listing `json:"listing,omitempty"`
}

// MarketServer is the service contract.
type MarketServer interface {
	Submit(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error)
	GetListing(ctx context.Context, req *GetListingRequest) (*GetListingResponse, error)
}

// marketService implements MarketServer over the engine.
type marketService struct {
	engine *market.Engine
}

func (s *marketService) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	t, ok := market.NewTx(market.Type(req.TxType))
	if !ok {
		return nil, fmt.Errorf("unknown transaction type: %s", req.TxType)
	}
	if len(req.Payload) > 0 {
		if err := json.Unmarshal(req.Payload, t); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", req.TxType, err)
		}
	}

	res := s.engine.Submit(ctx, t)
	out := &SubmitResponse{
		EngineResult:     res.Code.String(),
		EngineResultCode: int32(res.Code),
		Applied:          res.Code.OK(),
		Events:           res.Events,
	}
	return out, nil
}

func (s *marketService) GetListing(ctx context.Context, req *GetListingRequest) (*GetListingResponse, error) {
	listing, err := s.engine.GetListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	return &GetListingResponse{Found: listing != nil, Listing: listing}, nil
}

const serviceName = "geomarket.Market"

func submitMethodHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SubmitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Submit"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MarketServer).Submit(ctx, req.(*SubmitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getListingMethodHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetListingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketServer).GetListing(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetListing"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MarketServer).GetListing(ctx, req.(*GetListingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// serviceDesc is assembled by hand; the wire format is the JSON codec
// rather than generated protobuf messages.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MarketServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Submit", Handler: submitMethodHandler},
		{MethodName: "GetListing", Handler: getListingMethodHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "geomarket/market",
}

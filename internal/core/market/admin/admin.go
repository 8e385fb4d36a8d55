// Package admin holds the operator-only housekeeping transactions.
package admin

import (
	"errors"

	"github.com/geomarket/geomarketd/internal/core/market"
)

func init() {
	market.Register(market.TypeSetPlatformFee, func() market.Tx { return &SetPlatformFee{} })
	market.Register(market.TypeSetMetadataURI, func() market.Tx { return &SetMetadataURI{} })
}

// SetPlatformFee updates the platform's cut and its recipient. Only the
// configured operator account may submit it.
type SetPlatformFee struct {
	market.BaseTx

	Recipient market.Address `json:"recipient"`
	Bps       uint64         `json:"bps"`
}

func (s *SetPlatformFee) TxType() market.Type {
	return market.TypeSetPlatformFee
}

func (s *SetPlatformFee) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.Bps > market.MaxFeeBps {
		return errors.New("fee basis points above limit")
	}
	if s.Bps > 0 && s.Recipient == "" {
		return errors.New("fee recipient required for a nonzero fee")
	}
	return nil
}

func (s *SetPlatformFee) Apply(ctx *market.ApplyContext) market.Result {
	if s.Account() != ctx.Config.Operator {
		return market.ResultNotAuthorized
	}

	info := market.FeeInfo{Recipient: s.Recipient, Bps: s.Bps}
	data, err := market.EncodeRecord(&info)
	if err != nil {
		return market.ResultInternal
	}
	if err := ctx.View.Set(market.FeeInfoKey, data); err != nil {
		return market.ResultInternal
	}

	ctx.Emit(market.PlatformFeeUpdated{Recipient: s.Recipient, Bps: s.Bps})
	return market.ResultOK
}

// SetMetadataURI points clients at the off-chain metadata catalogue.
type SetMetadataURI struct {
	market.BaseTx

	URI string `json:"uri"`
}

func (s *SetMetadataURI) TxType() market.Type {
	return market.TypeSetMetadataURI
}

func (s *SetMetadataURI) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.URI == "" {
		return errors.New("missing uri")
	}
	return nil
}

func (s *SetMetadataURI) Apply(ctx *market.ApplyContext) market.Result {
	if s.Account() != ctx.Config.Operator {
		return market.ResultNotAuthorized
	}
	if err := ctx.View.Set(market.MetadataURIKey, []byte(s.URI)); err != nil {
		return market.ResultInternal
	}
	return market.ResultOK
}

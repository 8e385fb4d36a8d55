package market

// FeeSplit is the three-way division of sale proceeds. PlatformCut,
// RoyaltyCut and SellerNet always sum to exactly the total price.
type FeeSplit struct {
	PlatformRecipient Address
	PlatformCut       uint64
	RoyaltyRecipient  Address
	RoyaltyCut        uint64
	SellerNet         uint64
}

// CurrentFeeInfo reads the platform fee record, falling back to the
// configured defaults before the operator has set one.
func CurrentFeeInfo(view StateView, config EngineConfig) (FeeInfo, Result) {
	data, err := view.Get(FeeInfoKey)
	if err != nil {
		return FeeInfo{}, ResultInternal
	}
	if data == nil {
		return FeeInfo{Recipient: config.DefaultFeeRecipient, Bps: config.DefaultFeeBps}, ResultOK
	}
	var info FeeInfo
	if err := DecodeRecord(data, &info); err != nil {
		return FeeInfo{}, ResultInternal
	}
	return info, ResultOK
}

// SplitProceeds computes the platform/royalty/seller split of a total price.
// The platform cut is floored basis points of the total. The royalty comes
// from a best-effort external lookup: any lookup failure means no royalty.
// The combined cuts may never exceed the total.
func SplitProceeds(ctx *ApplyContext, totalPrice uint64, collection string, item uint64) (FeeSplit, Result) {
	info, code := CurrentFeeInfo(ctx.View, ctx.Config)
	if !code.OK() {
		return FeeSplit{}, code
	}
	if info.Bps > MaxFeeBps {
		return FeeSplit{}, ResultInternal
	}

	split := FeeSplit{
		PlatformRecipient: info.Recipient,
		PlatformCut:       mulDiv(totalPrice, info.Bps, MaxFeeBps),
	}

	recipient, amount := lookupRoyalty(ctx, collection, item, totalPrice)
	if recipient != "" && amount > 0 {
		if amount > totalPrice-split.PlatformCut {
			return FeeSplit{}, ResultFeesExceedPrice
		}
		split.RoyaltyRecipient = recipient
		split.RoyaltyCut = amount
	}

	split.SellerNet = totalPrice - split.PlatformCut - split.RoyaltyCut
	return split, ResultOK
}

// PayerCanCover checks that the payer's balance and marketplace allowance
// both cover the amount in the given currency.
func PayerCanCover(ctx *ApplyContext, payer Address, currency Currency, amount uint64) Result {
	balance, err := ctx.Currency.BalanceOf(ctx.View, payer, currency)
	if err != nil {
		return ResultInternal
	}
	allowance, err := ctx.Currency.Allowance(ctx.View, payer, ctx.Config.Operator, currency)
	if err != nil {
		return ResultInternal
	}
	if balance < amount || allowance < amount {
		return ResultInsufficientFunds
	}
	return ResultOK
}

// lookupRoyalty is the failure boundary around the royalty collaborator: an
// error or panic from the lookup becomes "no royalty".
func lookupRoyalty(ctx *ApplyContext, collection string, item uint64, salePrice uint64) (recipient Address, amount uint64) {
	if ctx.Royalty == nil {
		return "", 0
	}
	defer func() {
		if r := recover(); r != nil {
			recipient, amount = "", 0
		}
	}()
	r, amt, err := ctx.Royalty.RoyaltyInfo(ctx.View, collection, item, salePrice)
	if err != nil {
		return "", 0
	}
	return r, amt
}

// DistributeProceeds splits the total price and issues the three payouts
// from the payer, in order: platform recipient, royalty recipient (skipped
// when the cut is zero), seller. Zero-amount payouts are skipped.
func DistributeProceeds(ctx *ApplyContext, payer, seller Address, currency Currency, totalPrice uint64, collection string, item uint64) Result {
	split, code := SplitProceeds(ctx, totalPrice, collection, item)
	if !code.OK() {
		return code
	}

	wrapper := ctx.Config.NativeWrapper
	payouts := []struct {
		to     Address
		amount uint64
	}{
		{split.PlatformRecipient, split.PlatformCut},
		{split.RoyaltyRecipient, split.RoyaltyCut},
		{seller, split.SellerNet},
	}
	for _, p := range payouts {
		if p.amount == 0 || p.to == "" {
			continue
		}
		if err := ctx.Currency.TransferWithNativeFallback(ctx.View, currency, payer, p.to, p.amount, wrapper); err != nil {
			return ResultInsufficientFunds
		}
	}
	return ResultOK
}

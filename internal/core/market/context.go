package market

// EngineConfig holds the engine-level marketplace parameters.
type EngineConfig struct {
	// Operator is the marketplace account: the spender for currency
	// allowances and the only account allowed to run admin transactions.
	Operator Address

	// NativeWrapper is the wrapped form of the native currency. Offers
	// denominated in the native sentinel are rewritten to it.
	NativeWrapper Currency

	// GraceSeconds bounds how far in the past a listing start time may lie
	// before creation/update rejects it. Start times within the window are
	// clamped to now.
	GraceSeconds uint64

	// DefaultFeeRecipient and DefaultFeeBps seed the platform fee before
	// the operator has set one.
	DefaultFeeRecipient Address
	DefaultFeeBps       uint64
}

// ApplyContext provides everything a transaction needs to apply: the tracked
// state view, configuration, the current time, and the external
// collaborators.
type ApplyContext struct {
	View     StateView
	Config   EngineConfig
	Now      uint64
	Authz    Authorizer
	Custody  AssetCustody
	Currency CurrencyLedger
	Royalty  RoyaltySource

	engine *Engine
	events []Event
}

// Emit buffers an event. Buffered events are published only if the
// transaction commits.
func (ctx *ApplyContext) Emit(ev Event) {
	ctx.events = append(ctx.events, ev)
}

// BeginSettlement marks a settlement in flight for the duration of the
// current invocation. A nested settlement attempt is rejected.
func (ctx *ApplyContext) BeginSettlement() Result {
	if ctx.engine == nil {
		return ResultOK
	}
	if ctx.engine.settling {
		return ResultSettlementInProgress
	}
	ctx.engine.settling = true
	return ResultOK
}

// EndSettlement clears the in-flight settlement mark.
func (ctx *ApplyContext) EndSettlement() {
	if ctx.engine != nil {
		ctx.engine.settling = false
	}
}

// ResolveStartTime applies the grace-window rule: a start time in the past
// by no more than the grace window is clamped to now; further in the past is
// rejected. Future start times pass through unrestricted.
func (ctx *ApplyContext) ResolveStartTime(requested uint64) (uint64, Result) {
	if requested >= ctx.Now {
		return requested, ResultOK
	}
	if ctx.Now-requested > ctx.Config.GraceSeconds {
		return 0, ResultInvalidStartTime
	}
	return ctx.Now, ResultOK
}

// NextListingID assigns the next monotonic listing id.
func (ctx *ApplyContext) NextListingID() (uint64, Result) {
	data, err := ctx.View.Get(NextListingIDKey)
	if err != nil {
		return 0, ResultInternal
	}
	var next uint64 = 1
	if len(data) == 8 {
		next = beUint64(data)
	}
	if err := ctx.View.Set(NextListingIDKey, beBytes(next+1)); err != nil {
		return 0, ResultInternal
	}
	return next, ResultOK
}

package registry

import (
	"fmt"

	"github.com/geomarket/geomarketd/internal/core/market"
)

// CurrencyLedger is a store-backed fungible-currency ledger covering both
// wrapped currencies and the native one. Accounts marked wrap-only cannot
// receive raw native value; native payouts to them land in the wrapped
// currency instead.
type CurrencyLedger struct{}

func balanceKey(currency market.Currency, holder market.Address) []byte {
	key := make([]byte, 0, 6+len(currency)+len(holder))
	key = append(key, "rg/c/"...)
	key = append(key, currency...)
	key = append(key, '/')
	key = append(key, holder...)
	return key
}

func allowanceKey(currency market.Currency, holder, spender market.Address) []byte {
	key := make([]byte, 0, 7+len(currency)+len(holder)+len(spender))
	key = append(key, "rg/a/"...)
	key = append(key, currency...)
	key = append(key, '/')
	key = append(key, holder...)
	key = append(key, '/')
	key = append(key, spender...)
	return key
}

func wrapOnlyKey(holder market.Address) []byte {
	return append([]byte("rg/wrapio/"), holder...)
}

// Credit adds amount to the holder's balance.
func (l *CurrencyLedger) Credit(view market.StateView, holder market.Address, currency market.Currency, amount uint64) error {
	key := balanceKey(currency, holder)
	balance, err := readUint64(view, key)
	if err != nil {
		return err
	}
	return writeUint64(view, key, balance+amount)
}

// SetAllowance sets how much of the holder's balance the spender may move.
func (l *CurrencyLedger) SetAllowance(view market.StateView, holder, spender market.Address, currency market.Currency, amount uint64) error {
	return writeUint64(view, allowanceKey(currency, holder, spender), amount)
}

// SetWrapOnly marks or unmarks an account as unable to receive raw native
// value.
func (l *CurrencyLedger) SetWrapOnly(view market.StateView, holder market.Address, wrapOnly bool) error {
	key := wrapOnlyKey(holder)
	if !wrapOnly {
		return view.Delete(key)
	}
	return view.Set(key, []byte{1})
}

func (l *CurrencyLedger) BalanceOf(view market.StateView, holder market.Address, currency market.Currency) (uint64, error) {
	return readUint64(view, balanceKey(currency, holder))
}

func (l *CurrencyLedger) Allowance(view market.StateView, holder, spender market.Address, currency market.Currency) (uint64, error) {
	return readUint64(view, allowanceKey(currency, holder, spender))
}

func (l *CurrencyLedger) TransferWithNativeFallback(view market.StateView, currency market.Currency, from, to market.Address, amount uint64, wrapper market.Currency) error {
	payCurrency := currency
	if currency == market.CurrencyNative {
		wrapOnly, err := view.Has(wrapOnlyKey(to))
		if err != nil {
			return err
		}
		if wrapOnly {
			payCurrency = wrapper
		}
	}

	fromKey := balanceKey(currency, from)
	balance, err := readUint64(view, fromKey)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("insufficient %s balance: %s has %d, want %d", currency, from, balance, amount)
	}
	if err := writeUint64(view, fromKey, balance-amount); err != nil {
		return err
	}

	toKey := balanceKey(payCurrency, to)
	received, err := readUint64(view, toKey)
	if err != nil {
		return err
	}
	return writeUint64(view, toKey, received+amount)
}

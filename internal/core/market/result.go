package market

import "fmt"

// Result represents the outcome code of applying a market transaction.
type Result int

// Result codes. Zero is success; positive codes are domain rejections that
// abort the transaction with no state change; negative codes indicate the
// submission never reached apply (malformed) or an engine fault.
const (
	ResultOK Result = 0

	// Existence and authority
	ResultNotFound      Result = 100
	ResultNotOwner      Result = 101
	ResultNotAuthorized Result = 102

	// Listing parameter rejections
	ResultInvalidQuantity     Result = 110
	ResultInvalidStartTime    Result = 111
	ResultInvalidLocationCode Result = 112

	// Timing rejections
	ResultListingInactive   Result = 120
	ResultOutsideSaleWindow Result = 121
	ResultOfferExpired      Result = 122

	// Value and funds rejections
	ResultPriceMismatch              Result = 130
	ResultValueMismatch              Result = 131
	ResultUnexpectedValue            Result = 132
	ResultInsufficientFunds          Result = 133
	ResultInsufficientCustody        Result = 134
	ResultInsufficientListedQuantity Result = 135
	ResultFeesExceedPrice            Result = 136

	// Engine-level codes
	ResultSettlementInProgress Result = 140

	ResultMalformed Result = -100
	ResultInternal  Result = -101
)

var resultNames = map[Result]string{
	ResultOK:                         "OK",
	ResultNotFound:                   "NotFound",
	ResultNotOwner:                   "NotOwner",
	ResultNotAuthorized:              "NotAuthorized",
	ResultInvalidQuantity:            "InvalidQuantity",
	ResultInvalidStartTime:           "InvalidStartTime",
	ResultInvalidLocationCode:        "InvalidLocationCode",
	ResultListingInactive:            "ListingInactive",
	ResultOutsideSaleWindow:          "OutsideSaleWindow",
	ResultOfferExpired:               "OfferExpired",
	ResultPriceMismatch:              "PriceMismatch",
	ResultValueMismatch:              "ValueMismatch",
	ResultUnexpectedValue:            "UnexpectedValue",
	ResultInsufficientFunds:          "InsufficientFunds",
	ResultInsufficientCustody:        "InsufficientCustody",
	ResultInsufficientListedQuantity: "InsufficientListedQuantity",
	ResultFeesExceedPrice:            "FeesExceedPrice",
	ResultSettlementInProgress:       "SettlementInProgress",
	ResultMalformed:                  "Malformed",
	ResultInternal:                   "Internal",
}

// String returns the symbolic name of the result code.
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// OK reports whether the result indicates success.
func (r Result) OK() bool {
	return r == ResultOK
}

// ResultFromName returns the result code for a symbolic name.
func ResultFromName(name string) (Result, bool) {
	for code, n := range resultNames {
		if n == name {
			return code, true
		}
	}
	return ResultInternal, false
}

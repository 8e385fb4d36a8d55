package market

// Location codes are fixed-grammar strings anchoring a listing to a
// geographic position: exactly 11 characters, the "P11" scheme prefix, then
// eight cell characters drawn from 0-9A-Z. Trailing '0' characters pad an
// imprecise position and must cover whole two-character cells, so the
// trailing padding run must have even length.
const (
	locationCodeLength = 11
	locationCodePrefix = "P11"
	locationPadChar    = '0'
)

// ValidLocationCode reports whether the code satisfies the location grammar.
func ValidLocationCode(code string) bool {
	if len(code) != locationCodeLength {
		return false
	}
	if code[:len(locationCodePrefix)] != locationCodePrefix {
		return false
	}
	body := code[len(locationCodePrefix):]
	for i := 0; i < len(body); i++ {
		if !locationCodeChar(body[i]) {
			return false
		}
	}
	padding := 0
	for i := len(body) - 1; i >= 0 && body[i] == locationPadChar; i-- {
		padding++
	}
	return padding%2 == 0
}

func locationCodeChar(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')
}

package defaults

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Sentinels understood by the built-in generators
const (
	SentinelRandom8    = "*RANDOM8"
	SentinelRandomIBAN = "*RANDOM-IBAN"
)

const (
	random8Min  = 10000000
	random8Span = 90000000

	ibanCountry       = "NL"
	ibanAccountDigits = 10
)

// demo bank identifiers used for generated IBANs
var ibanBankCodes = []string{"ABNA", "INGB", "RABO", "SNSB", "TRIO"}

// Random8 generates an 8-digit number in [10000000, 99999999]
type Random8 struct {
	rand io.Reader
}

// NewRandom8 creates a Random8 generator reading entropy from r (crypto/rand when nil)
func NewRandom8(r io.Reader) *Random8 {
	if r == nil {
		r = rand.Reader
	}
	return &Random8{rand: r}
}

// Sentinel returns "*RANDOM8"
func (g *Random8) Sentinel() string { return SentinelRandom8 }

// Description returns a human-readable description
func (g *Random8) Description() string { return "random 8-digit number" }

// Generate produces a new 8-digit number
func (g *Random8) Generate() (string, error) {
	n, err := rand.Int(g.rand, big.NewInt(random8Span))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+random8Min, 10), nil
}

// RandomIBAN generates syntactically valid Dutch demo IBANs
type RandomIBAN struct {
	rand io.Reader
}

// NewRandomIBAN creates a RandomIBAN generator reading entropy from r (crypto/rand when nil)
func NewRandomIBAN(r io.Reader) *RandomIBAN {
	if r == nil {
		r = rand.Reader
	}
	return &RandomIBAN{rand: r}
}

// Sentinel returns "*RANDOM-IBAN"
func (g *RandomIBAN) Sentinel() string { return SentinelRandomIBAN }

// Description returns a human-readable description
func (g *RandomIBAN) Description() string { return "random demo IBAN" }

// Generate produces a new IBAN with correct mod-97 check digits
func (g *RandomIBAN) Generate() (string, error) {
	idx, err := rand.Int(g.rand, big.NewInt(int64(len(ibanBankCodes))))
	if err != nil {
		return "", err
	}

	var account strings.Builder
	for i := 0; i < ibanAccountDigits; i++ {
		d, err := rand.Int(g.rand, big.NewInt(10))
		if err != nil {
			return "", err
		}
		account.WriteByte(byte('0' + d.Int64()))
	}

	bban := ibanBankCodes[idx.Int64()] + account.String()
	check := 98 - ibanMod97(bban+ibanCountry+"00")

	return fmt.Sprintf("%s%02d%s", ibanCountry, check, bban), nil
}

// ValidIBAN reports whether iban has a well-formed structure and correct check digits
func ValidIBAN(iban string) bool {
	iban = strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if len(iban) < 15 || len(iban) > 34 {
		return false
	}
	for _, c := range iban {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return ibanMod97(iban[4:]+iban[:4]) == 1
}

// ibanMod97 computes the ISO 7064 mod 97-10 remainder, mapping letters A..Z to 10..35
func ibanMod97(s string) int {
	rem := 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			v := int(c-'A') + 10
			rem = (rem*100 + v) % 97
		}
	}
	return rem
}

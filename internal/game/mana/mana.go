package mana

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Color identifies one kind of mana symbol
type Color int

const (
	White Color = iota
	Blue
	Black
	Red
	Green
	Colorless
)

// Colors lists every mana kind in canonical WUBRGC order
var Colors = []Color{White, Blue, Black, Red, Green, Colorless}

// MaxGeneric bounds a single generic symbol such as {16}
const MaxGeneric = 99

var (
	// ErrParse is returned when a mana string is malformed
	ErrParse = errors.New("invalid mana string")
	// ErrGenericInPool is returned when a pool string carries a generic symbol
	ErrGenericInPool = errors.New("mana pool cannot contain generic mana")
)

func (c Color) Symbol() string {
	switch c {
	case White:
		return "W"
	case Blue:
		return "U"
	case Black:
		return "B"
	case Red:
		return "R"
	case Green:
		return "G"
	case Colorless:
		return "C"
	default:
		return "?"
	}
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Blue:
		return "blue"
	case Black:
		return "black"
	case Red:
		return "red"
	case Green:
		return "green"
	case Colorless:
		return "colorless"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Pool is an amount of mana broken down by color
type Pool struct {
	W int `json:"w,omitempty"`
	U int `json:"u,omitempty"`
	B int `json:"b,omitempty"`
	R int `json:"r,omitempty"`
	G int `json:"g,omitempty"`
	C int `json:"c,omitempty"`
}

// Of returns a pool holding amount mana of a single color
func Of(c Color, amount int) Pool {
	var p Pool
	p.set(c, amount)
	return p
}

// Get returns the amount of the given color in the pool
func (p Pool) Get(c Color) int {
	switch c {
	case White:
		return p.W
	case Blue:
		return p.U
	case Black:
		return p.B
	case Red:
		return p.R
	case Green:
		return p.G
	case Colorless:
		return p.C
	default:
		return 0
	}
}

func (p *Pool) set(c Color, amount int) {
	switch c {
	case White:
		p.W = amount
	case Blue:
		p.U = amount
	case Black:
		p.B = amount
	case Red:
		p.R = amount
	case Green:
		p.G = amount
	case Colorless:
		p.C = amount
	}
}

// Total returns the total amount of mana in the pool
func (p Pool) Total() int {
	return p.W + p.U + p.B + p.R + p.G + p.C
}

// IsEmpty reports whether the pool holds no mana
func (p Pool) IsEmpty() bool {
	return p.Total() == 0
}

// Add returns the sum of two pools
func (p Pool) Add(o Pool) Pool {
	return Pool{
		W: p.W + o.W,
		U: p.U + o.U,
		B: p.B + o.B,
		R: p.R + o.R,
		G: p.G + o.G,
		C: p.C + o.C,
	}
}

// Sub removes o from p. ok is false if any color would go negative.
func (p Pool) Sub(o Pool) (Pool, bool) {
	out := Pool{
		W: p.W - o.W,
		U: p.U - o.U,
		B: p.B - o.B,
		R: p.R - o.R,
		G: p.G - o.G,
		C: p.C - o.C,
	}
	for _, c := range Colors {
		if out.Get(c) < 0 {
			return p, false
		}
	}
	return out, true
}

// Contains reports whether every color in o is available in p
func (p Pool) Contains(o Pool) bool {
	_, ok := p.Sub(o)
	return ok
}

// ColorsPresent returns the colors with a non-zero amount, in WUBRGC order
func (p Pool) ColorsPresent() []Color {
	var out []Color
	for _, c := range Colors {
		if p.Get(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func (p Pool) String() string {
	var sb strings.Builder
	for _, c := range Colors {
		for i := 0; i < p.Get(c); i++ {
			sb.WriteString("{" + c.Symbol() + "}")
		}
	}
	if sb.Len() == 0 {
		return "{0}"
	}
	return sb.String()
}

// Cost is the mana required to cast a card
type Cost struct {
	Colors  Pool `json:"colors"`
	Generic int  `json:"generic,omitempty"`
}

// ManaValue returns the total mana value of the cost
func (c Cost) ManaValue() int {
	return c.Colors.Total() + c.Generic
}

func (c Cost) String() string {
	var sb strings.Builder
	if c.Generic > 0 {
		sb.WriteString("{" + strconv.Itoa(c.Generic) + "}")
	}
	if !c.Colors.IsEmpty() {
		sb.WriteString(c.Colors.String())
	}
	if sb.Len() == 0 {
		return "{0}"
	}
	return sb.String()
}

// ParseCost parses strings such as "{2}{G}{G}". The empty string and "{0}"
// parse to a zero cost.
func ParseCost(s string) (Cost, error) {
	var cost Cost
	symbols, err := splitSymbols(s)
	if err != nil {
		return Cost{}, err
	}
	for _, sym := range symbols {
		if n, ok, err := parseGeneric(sym); err != nil {
			return Cost{}, fmt.Errorf("%w %q: %v", ErrParse, s, err)
		} else if ok {
			cost.Generic += n
			continue
		}
		c, err := parseColor(sym)
		if err != nil {
			return Cost{}, fmt.Errorf("%w %q: %v", ErrParse, s, err)
		}
		cost.Colors.set(c, cost.Colors.Get(c)+1)
	}
	if cost.Generic > MaxGeneric {
		return Cost{}, fmt.Errorf("%w %q: generic cost exceeds %d", ErrParse, s, MaxGeneric)
	}
	return cost, nil
}

// ParsePool parses strings such as "{G}{G}" or "{C}{C}". Generic symbols
// other than {0} are rejected.
func ParsePool(s string) (Pool, error) {
	cost, err := ParseCost(s)
	if err != nil {
		return Pool{}, err
	}
	if cost.Generic > 0 {
		return Pool{}, fmt.Errorf("%w: %q", ErrGenericInPool, s)
	}
	return cost.Colors, nil
}

// MustParseCost is ParseCost for literals in tests and fixtures
func MustParseCost(s string) Cost {
	c, err := ParseCost(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MustParsePool is ParsePool for literals in tests and fixtures
func MustParsePool(s string) Pool {
	p, err := ParsePool(s)
	if err != nil {
		panic(err)
	}
	return p
}

func splitSymbols(s string) ([]string, error) {
	var symbols []string
	rest := strings.TrimSpace(s)
	for rest != "" {
		if rest[0] != '{' {
			return nil, fmt.Errorf("%w %q: expected '{'", ErrParse, s)
		}
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return nil, fmt.Errorf("%w %q: unclosed symbol", ErrParse, s)
		}
		sym := rest[1:end]
		if sym == "" {
			return nil, fmt.Errorf("%w %q: empty symbol", ErrParse, s)
		}
		symbols = append(symbols, strings.ToUpper(sym))
		rest = rest[end+1:]
	}
	return symbols, nil
}

func parseGeneric(sym string) (int, bool, error) {
	for _, r := range sym {
		if r < '0' || r > '9' {
			return 0, false, nil
		}
	}
	if len(sym) > 2 {
		return 0, false, fmt.Errorf("generic symbol {%s} too large", sym)
	}
	n, err := strconv.Atoi(sym)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func parseColor(sym string) (Color, error) {
	for _, c := range Colors {
		if c.Symbol() == sym {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown mana symbol {%s}", sym)
}

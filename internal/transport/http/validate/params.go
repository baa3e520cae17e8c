package validate

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/swap-pool/internal/curve"
)

// params reads query parameters and collects every problem instead of
// stopping at the first one.
type params struct {
	r   *http.Request
	err error
}

func newParams(r *http.Request) *params {
	return &params{r: r}
}

func (p *params) fail(format string, args ...any) {
	p.err = multierr.Append(p.err, errors.Errorf(format, args...))
}

// pool returns the {pool} path variable.
func (p *params) pool() string {
	id := mux.Vars(p.r)["pool"]
	if id == "" {
		p.fail("missing pool")
	}
	return id
}

func (p *params) str(name string) string {
	v := p.r.URL.Query().Get(name)
	if v == "" {
		p.fail("missing %s", name)
	}
	return v
}

func (p *params) optional(name string) string {
	return p.r.URL.Query().Get(name)
}

// amount parses a required positive amount.
func (p *params) amount(name string) uint64 {
	raw := p.str(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		p.fail("bad %s", name)
		return 0
	}
	return v
}

// limit parses an optional bound, falling back to def.
func (p *params) limit(name string, def uint64) uint64 {
	raw := p.optional(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		p.fail("bad %s", name)
		return def
	}
	return v
}

func (p *params) direction(name string) curve.TradeDirection {
	raw := p.str(name)
	if raw == "" {
		return curve.AtoB
	}
	d, err := curve.ParseTradeDirection(raw)
	if err != nil {
		p.fail("bad %s", name)
	}
	return d
}

func (p *params) round(name string) curve.RoundDirection {
	switch raw := p.optional(name); raw {
	case "", curve.Floor.String():
		return curve.Floor
	case curve.Ceiling.String():
		return curve.Ceiling
	default:
		p.fail("bad %s", name)
		return curve.Floor
	}
}

func (p *params) flag(name string) bool {
	raw := p.optional(name)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail("bad %s", name)
	}
	return v
}

// done returns the collected error with the matching status code.
func (p *params) done() (int, error) {
	if p.err != nil {
		return http.StatusBadRequest, p.err
	}
	return 0, nil
}

package rebalance

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Balance computes how to spread investment across holdings so that each one
// gets as close as possible to its target share.
//
// Every holding receives an allocation between 0 and the investment (between
// the investment and 0 for a withdrawal) and the allocations sum up to the
// investment. Each delta is expressed in the holding's own currency.
//
// When several allocations are equally good, the one returned is whichever the
// simplex solver finds first.
func Balance(holdings []Holding, rates Rates, investment Amount) (*ChangeRequest, error) {
	cur := investment.Currency()
	if err := cur.Validate(); err != nil {
		return nil, fmt.Errorf("invalid investment currency: %w", err)
	}
	invested := investment.Value()
	if math.IsNaN(invested) || math.IsInf(invested, 0) {
		return nil, fmt.Errorf("invalid investment: %w", ErrNonFinite)
	}
	if len(holdings) == 0 && invested != 0 {
		return nil, ErrNoHoldings
	}

	// current values and targets in the investment currency
	values := make([]float64, len(holdings))
	targets := make([]float64, len(holdings))
	var total float64
	for i, h := range holdings {
		v, err := h.Amount.Convert(cur, rates)
		if err != nil {
			return nil, fmt.Errorf("position %q: %w", h.Name, err)
		}
		values[i] = v.Value()
		targets[i] = h.Target
		total += v.Value()
	}

	allocations := make([]float64, len(holdings))
	if invested != 0 {
		if total+invested <= 0 {
			return nil, fmt.Errorf("%w: %v would leave nothing out of %v", ErrInvalidInvestment, investment, A(total, cur))
		}
		var err error
		allocations, err = newProblem(values, targets, total, invested).solve()
		if err != nil {
			return nil, err
		}
	}

	changes := make([]Change, len(holdings))
	for i, h := range holdings {
		allocated := A(allocations[i], cur)
		delta, err := allocated.Convert(h.Amount.Currency(), rates)
		if err != nil {
			return nil, fmt.Errorf("position %q: %w", h.Name, err)
		}
		changes[i] = Change{Holding: h, Delta: delta, Allocated: allocated}
	}
	return &ChangeRequest{
		ID:         uuid.New(),
		Investment: investment,
		changes:    changes,
		rates:      rates,
	}, nil
}

// BalanceContext is Balance returning early with ctx.Err() when ctx is done.
// The solve itself cannot be interrupted, it keeps running in the background
// until it completes.
func BalanceContext(ctx context.Context, holdings []Holding, rates Rates, investment Amount) (*ChangeRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type result struct {
		cr  *ChangeRequest
		err error
	}
	done := make(chan result, 1)
	go func() {
		cr, err := Balance(holdings, rates, investment)
		done <- result{cr, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.cr, r.err
	}
}

// problem is the balancing linear program in general form
//
//	minimize  cᵀy
//	s.t.      G y ≤ h
//	          A y = b
//
// y_i is the amount allocated to holding i as a share of the portfolio after
// the investment, it keeps every coefficient close to 1.
type problem struct {
	c     []float64
	g     *mat.Dense
	h     []float64
	a     *mat.Dense
	b     []float64
	after float64 // V + I, portfolio value after the investment
	lo    float64 // lower bound of every x_i
	hi    float64 // upper bound of every x_i
	want  float64 // Σ x_i
}

// orientation returns -1 for a holding below its target share, +1 otherwise.
// With nothing invested yet, every holding is below its target.
func orientation(value, total, target float64) float64 {
	if total == 0 || value/total < target {
		return -1
	}
	return 1
}

// newProblem builds the program for holdings currently worth values (summing to
// total) receiving invested.
//
// The imbalance of holding i after the investment is
//
//	e_i = (v_i + x_i)/(V + I) - t_i = v_i/(V + I) + y_i - t_i
//
// Minimizing Σ|e_i| is not linear, so each term is oriented ahead of time by
// σ_i (see orientation) and the program minimizes Σ σ_i e_i under σ_i e_i ≥ 0:
// holdings under target are pushed up to it, holdings over target down to it.
func newProblem(values, targets []float64, total, invested float64) problem {
	n := len(values)
	after := total + invested
	p := problem{
		c:     make([]float64, n),
		g:     mat.NewDense(3*n, n, nil),
		h:     make([]float64, 3*n),
		a:     mat.NewDense(1, n, nil),
		b:     []float64{invested / after},
		after: after,
		lo:    math.Min(0, invested),
		hi:    math.Max(0, invested),
		want:  invested,
	}
	for i := range values {
		sigma := orientation(values[i], total, targets[i])
		// constant terms of σ_i e_i do not change the optimum.
		p.c[i] = sigma

		// y_i ≤ hi
		p.g.Set(3*i, i, 1)
		p.h[3*i] = p.hi / after
		// -y_i ≤ -lo
		p.g.Set(3*i+1, i, -1)
		p.h[3*i+1] = -p.lo / after
		// σ_i e_i ≥ 0
		p.g.Set(3*i+2, i, -sigma)
		p.h[3*i+2] = sigma * (values[i]/after - targets[i])

		p.a.Set(0, i, 1)
	}
	return p
}

// solve returns the optimal allocations x_i.
func (p problem) solve() ([]float64, error) {
	n := len(p.c)
	c, a, b := lp.Convert(p.c, p.g, p.h, p.a, p.b)
	_, y, err := lp.Simplex(c, a, b, 0, nil)
	if err != nil {
		return nil, &SolverError{Err: err}
	}

	// Convert splits every free variable in positive and negative parts,
	// y = [y⁺, y⁻, slacks].
	allocations := make([]float64, n)
	var sum float64
	for i := range allocations {
		x := (y[i] - y[n+i]) * p.after
		// clear the solver's rounding noise at the bounds
		allocations[i] = math.Min(math.Max(x, p.lo), p.hi)
		sum += allocations[i]
	}
	if math.Abs(sum-p.want) >= tolerance {
		return nil, &SolverError{Err: fmt.Errorf("allocations sum up to %v instead of %v", sum, p.want)}
	}
	return allocations, nil
}

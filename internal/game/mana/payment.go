package mana

// CanPay reports whether the pool can cover the cost
func CanPay(available Pool, cost Cost) bool {
	remaining, ok := available.Sub(cost.Colors)
	return ok && remaining.Total() >= cost.Generic
}

// Pay picks one payment for the cost. Colored pips are paid exactly; the
// generic portion draws on colorless mana first and then on whichever color
// is most plentiful, so scarce colors stay available for later spells.
func Pay(available Pool, cost Cost) (payment Pool, remaining Pool, ok bool) {
	remaining, ok = available.Sub(cost.Colors)
	if !ok || remaining.Total() < cost.Generic {
		return Pool{}, available, false
	}
	payment = cost.Colors
	for i := 0; i < cost.Generic; i++ {
		c := richestColor(remaining)
		remaining.set(c, remaining.Get(c)-1)
		payment.set(c, payment.Get(c)+1)
	}
	return payment, remaining, true
}

func richestColor(p Pool) Color {
	if p.C > 0 {
		return Colorless
	}
	best := White
	for _, c := range Colors[:5] {
		if p.Get(c) > p.Get(best) {
			best = c
		}
	}
	return best
}

// PaymentsFor enumerates every distinct way to pay the cost from the pool.
// Results are ordered by the number of colorless pips used (descending),
// then WUBRG lexicographically descending, so the first entry favors
// spending colorless mana.
func PaymentsFor(available Pool, cost Cost) []Pool {
	remaining, ok := available.Sub(cost.Colors)
	if !ok || remaining.Total() < cost.Generic {
		return nil
	}
	order := []Color{Colorless, White, Blue, Black, Red, Green}
	var out []Pool
	var walk func(idx, left int, acc Pool)
	walk = func(idx, left int, acc Pool) {
		if left == 0 {
			out = append(out, acc.Add(cost.Colors))
			return
		}
		if idx == len(order) {
			return
		}
		c := order[idx]
		max := remaining.Get(c)
		if max > left {
			max = left
		}
		for n := max; n >= 0; n-- {
			next := acc
			next.set(c, acc.Get(c)+n)
			walk(idx+1, left-n, next)
		}
	}
	walk(0, cost.Generic, Pool{})
	return out
}

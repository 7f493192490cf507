// Package rebalance computes how to invest new cash in a multi-currency
// portfolio so that every position moves toward its target share.
//
// The package is made of:
//   - Value model: Currency, Amount and the Rates used to convert amounts.
//   - Portfolio model: Positions (possibly unresolved until market data is
//     known), their resolved Holding variant, and reporting Groups.
//   - Balancing engine: Balance solves a linear program spreading an investment
//     across holdings, buying only (or selling only, for a withdrawal).
//   - Change aggregation: the ChangeRequest returned by Balance, with per group
//     and total views.
//
// The engine performs no I/O. Fetching rates (package fx), market data,
// rendering (package renderer) and the command line (package cmd) are layered
// on top of it.
package rebalance

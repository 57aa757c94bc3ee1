// Package amount is a fixed-point, arbitrary-precision decimal engine for
// accounting tools. It pairs every quantity with a commodity: a
// currency-like symbol carrying a display style and an optional dated
// price history.
//
// The core functionalities include:
//   - Exact Arithmetic: addition, subtraction, multiplication and
//     division over arbitrary-precision decimals, with a consistent
//     half-away-from-zero rounding rule on every lossy operation.
//   - Commodity Registry: symbols are interned once per registry, so
//     commodity equality is pointer equality and every amount knows how
//     to print itself under the notation parsing established for its
//     commodity.
//   - Valuation: commodities carry a time-indexed price history and an
//     optional updater hook, so an amount can be converted to its value
//     in another commodity at any moment.
//   - Data Persistence: price histories round-trip through a
//     human-readable JSONL form, and quantities through a compact binary
//     cache that deduplicates shared storage cells.
//
// This package serves as the foundational logic for the `amt`
// command-line tool.
package amount

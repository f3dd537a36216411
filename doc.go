// Package custodian computes the running Adjusted Cost Basis (ACB) of every
// held asset and currency from a stream of dated multi-currency transaction
// records, and realizes capital gains and losses on disposals, all in a
// single reporting currency.
//
// The core functionalities include:
//   - Holdings Ledger: one Position per symbol, holding the running quantity
//     and the weighted average cost per unit. Currencies and tradable assets
//     share this single symbol space with no behavioral distinction.
//   - Currency Resolution: the reporting-currency value of a transaction
//     priced in a foreign currency comes from the ledger's own current cost
//     basis for that currency; there is no external rate source. Converting
//     currency is simply buying one currency with another, which builds the
//     basis later resolutions rely on.
//   - Transaction Processing: records are applied in strict chronological
//     order; acquisitions (purchases, conversions, vesting) update the
//     weighted average, disposals realize gains against it. All arithmetic
//     is exact decimal, never binary floating point.
//   - Gains Reporting: year-by-year net realized gain/loss summaries with
//     per-symbol subtotals.
//   - Data Persistence: encoding and decoding of records, snapshots and
//     gains to and from human-readable JSONL, plus CSV and mapped-JSON
//     import of broker exports.
//
// This package serves as the foundational logic for the `ctd` command-line
// tool.
package custodian

// Package brokertax computes realized profit and loss from brokerage
// transaction histories, for tax reporting in USD and JPY.
//
// Transactions are matched against open lots in FIFO order, per account and
// symbol:
//   - Options: opening and closing trades produce trading P&L, expirations
//     produce premium P&L, and assignments close the short lots at their
//     intrinsic value and deliver the underlying shares.
//   - Stocks: sells realize a gain against the oldest lots, fees included in
//     the cost basis.
//   - Income: dividends, interest and withholding taxes are recorded as is.
//
// Every record carries the USD/JPY rate of its day and its JPY amounts.
//
// This package serves as the foundational logic for the `btx` command-line
// tool.
package brokertax

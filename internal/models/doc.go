// Package models defines the core domain models for the shared-expense ledger.
//
// # Models
//
//   - User: a person who can pay for or share expenses
//   - Group: an ordered member list that owns expenses
//   - Expense: one recorded payment, divided into Splits
//   - Split: a single member's share of an Expense with its paid flag
//   - Snapshot: the full collection set mirrored to durable storage
//   - Settlement: a suggested transfer between two members (derived, never stored)
//
// # Design Principles
//
//  1. Relationships are expressed with ID strings, never pointers
//  2. The JSON tags match the persisted snapshot layout
//  3. Balances are not modelled here; they are always derived from expenses
package models

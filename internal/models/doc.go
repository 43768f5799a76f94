// Package models defines the core domain models for splitledger.
//
// # Models
//
//   - User: a registered account, created on first authentication
//   - Contact: a directed relationship record between two users
//   - Group: a named set of members that share group expenses
//   - Expense: a transaction paid by one user and split among participants
//   - Split: one participant's share of an expense (embedded in Expense)
//   - Settlement: a recorded payment between two users
//
// # Design Principles
//
//  1. **Balances are derived, never stored**: every balance figure is
//     recomputed from the full set of relevant Expense and Settlement
//     records on each read. No balance state lives in the model.
//  2. **No update-in-place for money**: expense amounts and splits are never
//     edited. Corrections are modeled as delete + recreate.
//  3. **Avoid circular references**: relationships are ID strings, not
//     pointers.
//  4. **Denormalized contacts**: one logical relationship is two independent
//     directed Contact records. Consistency between the two directions is
//     maintained by the write path, not by a database constraint.
package models

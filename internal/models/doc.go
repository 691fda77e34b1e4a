// Package models defines the core domain models for the academy payment ledger.
//
// # Roster Models
//
// Roster data is owned by the roster management collaborator. The ledger
// only reads it:
//   - Player: a registered academy player, placed in a group and optionally a subgroup
//   - Group: a training group with an ordered list of subgroups
//   - Subgroup: a subdivision of exactly one group
//
// # Ledger Models
//
//   - PaymentRecord: an immutable historical fact about one payment event
//   - Method, Status: enumerations carried by a PaymentRecord
//   - Date: a calendar date without time of day
//
// # Design Principles
//
// 1. **Records are facts**: a PaymentRecord is never edited; it is deleted and re-added
// 2. **Denormalized snapshots**: player and group names are copied onto the record at
// creation time and never refreshed from the live roster
// 3. **Avoid circular references**: relationships use ID strings, not pointers
// 4. **Exact money**: amounts are decimals, never binary floats
package models

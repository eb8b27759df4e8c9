// Package model defines the domain types shared by every layer of the Vihar
// core: users, pilgrimage events (vihars), polls, notifications, and the
// validation rules applied before anything is persisted.
//
// # Ownership
//
// Each collection type is owned by exactly one repository key. Notifications
// carry only descriptive text and a coarse Type tag; they do not reference the
// vihar or poll they describe.
//
// # Validation
//
// Validation failures are reported as *ValidationError and must be raised
// before any store write. Use IsValidation to classify wrapped errors.
package model

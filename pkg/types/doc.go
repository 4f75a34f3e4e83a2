// Package types defines the entity types, voting rules, store interfaces,
// and standard errors for the Taskbase approval system.
package types
